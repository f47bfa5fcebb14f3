package elements_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	elements "github.com/reoring/elements"
)

func TestIssues_ErrorSummary(t *testing.T) {
	iss := elements.Issues{
		{Path: "/Fields/A", Code: elements.CodeMissingField},
		{Path: "/Fields/B", Code: elements.CodeMissingField},
		{Path: "/Fields/C", Code: elements.CodeMissingField},
		{Path: "/Fields/D", Code: elements.CodeMissingField},
	}
	msg := iss.Error()
	require.Contains(t, msg, "missing_field at /Fields/A")
	require.Contains(t, msg, "(total 4)")
}

func TestAsIssues(t *testing.T) {
	var err error = elements.Issues{{Path: "/", Code: elements.CodeInvalidInput}}
	wrapped := fmt.Errorf("context: %w", err)

	iss, ok := elements.AsIssues(wrapped)
	require.True(t, ok)
	require.Len(t, iss, 1)

	_, ok = elements.AsIssues(errors.New("plain"))
	require.False(t, ok)
	require.False(t, elements.HasCode(nil, elements.CodeInvalidInput))
}

func TestIssuePathsAreRebasedForEmbeddedTrees(t *testing.T) {
	reg := testRegistry()

	// The attachment misses its required FileName: the failure surfaces under
	// the parent's /Objects path.
	tree, err := elements.New(reg, "Subject", map[string]any{
		"description": "x",
		"Attachment":  map[string]any{},
	}, elements.ActionInsert)
	require.NoError(t, err)

	_, err = tree.Validate(elements.DefaultMutateOpt(), elements.ValidateOpt{})
	iss, ok := elements.AsIssues(err)
	require.True(t, ok)
	require.Len(t, iss, 1)
	require.Equal(t, "/Objects/Attachment/Fields/FileName", iss[0].Path)
	require.Equal(t, elements.CodeMissingField, iss[0].Code)
}
