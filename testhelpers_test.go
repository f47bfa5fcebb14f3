package elements_test

import (
	"testing"

	"github.com/davecgh/go-spew/spew"

	elements "github.com/reoring/elements"
	"github.com/reoring/elements/schema"
)

// testRegistry returns the schema fixture shared by the engine tests.
func testRegistry() schema.Table {
	return schema.Table{
		"Subject": {
			Identifier: "SbId",
			Fields: map[string]schema.Field{
				"Description": {Alias: "description", Required: true, Critical: true},
				"Done":        {Kind: schema.KindBool},
				"Priority":    {Kind: schema.KindInt},
				"Amount":      {Kind: schema.KindDecimal},
				"Date":        {Kind: schema.KindDate, Default: "2026-01-01"},
				"Note":        {},
			},
			References: map[string]schema.Reference{
				"SubjectLink": {Alias: "link", AllowMultiple: true},
				"Attachment":  {TargetType: "SubjectAttachment"},
			},
		},
		"SubjectLink": {
			Fields: map[string]schema.Field{
				"ToId":  {Kind: schema.KindInt},
				"Label": {Default: "related"},
			},
		},
		"SubjectAttachment": {
			Fields: map[string]schema.Field{
				"FileName": {Required: true},
			},
		},
		"Order": {
			Fields: map[string]schema.Field{
				"Description": {Required: true, Critical: true},
				"Quantity":    {Kind: schema.KindInt, Required: true},
			},
			References: map[string]schema.Reference{
				"Delivery": {
					Required: true,
					Default:  map[string]any{"Carrier": "postal"},
				},
			},
		},
		"Delivery": {
			Fields: map[string]schema.Field{
				"Carrier": {},
			},
		},
	}
}

func dumpTree(t *testing.T, tree *elements.ObjectTree) {
	t.Helper()
	t.Logf("tree elements:\n%s", spew.Sdump(tree.Elements()))
}
