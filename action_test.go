package elements_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	elements "github.com/reoring/elements"
)

func TestParseAction_Synonyms(t *testing.T) {
	cases := []struct {
		in   string
		want elements.Action
	}{
		{"", elements.ActionNone},
		{"insert", elements.ActionInsert},
		{"POST", elements.ActionInsert},
		{"update", elements.ActionUpdate},
		{"Put", elements.ActionUpdate},
		{"DELETE", elements.ActionDelete},
	}
	for _, c := range cases {
		got, err := elements.ParseAction(c.in)
		require.NoError(t, err, c.in)
		require.Equal(t, c.want, got, c.in)
	}

	_, err := elements.ParseAction("upsert")
	require.True(t, elements.HasCode(err, elements.CodeInvalidAction))
}

func TestObjectTree_UniformAction(t *testing.T) {
	reg := testRegistry()
	tree, err := elements.New(reg, "Subject", []any{
		map[string]any{"description": "a"},
		map[string]any{"description": "b"},
	}, elements.ActionNone)
	require.NoError(t, err)

	a, err := tree.Action()
	require.NoError(t, err)
	require.Equal(t, elements.ActionNone, a)

	require.NoError(t, tree.SetAction("PUT", true))
	a, err = tree.Action()
	require.NoError(t, err)
	require.Equal(t, elements.ActionUpdate, a)

	a, err = tree.ActionAt(1)
	require.NoError(t, err)
	require.Equal(t, elements.ActionUpdate, a)
}

func TestObjectTree_PerElementActions(t *testing.T) {
	reg := testRegistry()
	tree, err := elements.New(reg, "Subject", []any{
		map[string]any{"description": "a"},
		map[string]any{"description": "b"},
	}, elements.ActionInsert)
	require.NoError(t, err)

	require.NoError(t, tree.SetActionAt(1, elements.ActionUpdate, true))

	// The uniform insert tag was preserved for element 0.
	a, err := tree.ActionAt(0)
	require.NoError(t, err)
	require.Equal(t, elements.ActionInsert, a)

	a, err = tree.ActionAt(1)
	require.NoError(t, err)
	require.Equal(t, elements.ActionUpdate, a)

	_, err = tree.Action()
	require.True(t, elements.HasCode(err, elements.CodeAmbiguousAction))

	_, err = tree.ActionAt(5)
	require.True(t, elements.HasCode(err, elements.CodeIndexOutOfRange))

	err = tree.SetActionAt(5, elements.ActionDelete, false)
	require.True(t, elements.HasCode(err, elements.CodeIndexOutOfRange))
}

func TestSetAction_Propagation(t *testing.T) {
	reg := testRegistry()
	tree, err := elements.New(reg, "Subject", map[string]any{
		"description": "x",
		"link":        map[string]any{"ToId": 1},
	}, elements.ActionInsert)
	require.NoError(t, err)

	require.NoError(t, tree.SetAction(elements.ActionUpdate, true))
	link := tree.Elements()[0].Objects["SubjectLink"].(*elements.ObjectTree)
	a, err := link.Action()
	require.NoError(t, err)
	require.Equal(t, elements.ActionUpdate, a)

	require.NoError(t, tree.SetAction(elements.ActionDelete, false))
	a, err = link.Action()
	require.NoError(t, err)
	require.Equal(t, elements.ActionUpdate, a, "propagation disabled must leave embedded trees alone")
}
