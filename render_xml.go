package elements

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/reoring/elements/schema"
)

const xsiNamespace = "http://www.w3.org/2001/XMLSchema-instance"

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func (t *ObjectTree) renderXML(opt RenderOpt) (string, error) {
	m := opt.mutate()
	// Flattening never applies to XML, and embedded trees must stay live so
	// each one resolves its own Action and identifier attributes below.
	m.FlattenSingle = false
	m.WrapElements = false
	m.KeepTrees = true
	if _, err := t.Validate(m, opt.Validate); err != nil {
		return "", err
	}
	w := &xmlWriter{b: &strings.Builder{}, pretty: opt.Pretty, indent: opt.indent()}
	if err := t.writeXML(w, 0); err != nil {
		return "", err
	}
	return w.b.String(), nil
}

type xmlWriter struct {
	b      *strings.Builder
	pretty bool
	indent string
}

// line writes s at the given depth; indentation and the trailing newline
// only appear in pretty mode.
func (w *xmlWriter) line(depth int, s string) {
	if w.pretty {
		w.b.WriteString(strings.Repeat(w.indent, depth))
	}
	w.b.WriteString(s)
	if w.pretty {
		w.b.WriteByte('\n')
	}
}

// writeXML renders the tree's elements at the given depth. Root trees emit
// the enclosing type-named tag; embedded trees are nested inside the
// reference-named tag their parent already opened.
func (t *ObjectTree) writeXML(w *xmlWriter, depth int) error {
	inner := depth
	if t.parent == "" {
		w.line(depth, "<"+t.typ+` xmlns:xsi="`+xsiNamespace+`">`)
		inner = depth + 1
	}
	for i, el := range t.elems {
		def, err := t.reg.Definition(t.typ, schema.Hint{Fields: el.Fields, Index: i})
		if err != nil {
			return Issues{{Path: "/", Code: CodeUnknownSchema, Message: err.Error(), Cause: err}}
		}
		action, aerr := t.ActionAt(i)
		if aerr != nil {
			return aerr
		}
		attrs := ""
		if action != ActionNone {
			attrs += ` Action="` + string(action) + `"`
		}
		if def.Identifier != "" && el.Identifier != nil {
			attrs += " " + def.Identifier + `="` + xmlEscaper.Replace(scalarText(el.Identifier)) + `"`
		}
		w.line(inner, "<Element"+attrs+">")

		fieldsAttr := ""
		if action != ActionNone {
			fieldsAttr = ` Action="` + string(action) + `"`
		}
		w.line(inner+1, "<Fields"+fieldsAttr+">")
		for _, name := range sortedKeys(el.Fields) {
			val := el.Fields[name]
			if val == nil {
				w.line(inner+2, fmt.Sprintf(`<%s xsi:nil="true"/>`, name))
				continue
			}
			w.line(inner+2, fmt.Sprintf("<%s>%s</%s>", name, xmlEscaper.Replace(scalarText(val)), name))
		}
		w.line(inner+1, "</Fields>")

		if len(el.Objects) > 0 {
			w.line(inner+1, "<Objects>")
			for _, name := range sortedKeys(el.Objects) {
				child, ok := el.Objects[name].(*ObjectTree)
				if !ok {
					return singleIssue("/Objects/"+name, CodeInvalidInput,
						"embedded tree was already rendered; re-normalize before XML output")
				}
				w.line(inner+2, "<"+name+">")
				if err := child.writeXML(w, inner+3); err != nil {
					return rebaseIssues("/Objects/"+name, err)
				}
				w.line(inner+2, "</"+name+">")
			}
			w.line(inner+1, "</Objects>")
		}
		w.line(inner, "</Element>")
	}
	if t.parent == "" {
		w.line(depth, "</"+t.typ+">")
	}
	return nil
}

// scalarText renders a scalar for XML text content; booleans encode as 1/0.
func scalarText(v any) string {
	switch tv := v.(type) {
	case bool:
		if tv {
			return "1"
		}
		return "0"
	case string:
		return tv
	case json.Number:
		return tv.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
