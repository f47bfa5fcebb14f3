package elements

import (
	json "github.com/goccy/go-json"
)

func (t *ObjectTree) renderJSON(opt RenderOpt) (string, error) {
	m := opt.mutate()
	m.WrapElements = true
	m.KeepTrees = false
	validated, err := t.Validate(m, opt.Validate)
	if err != nil {
		return "", err
	}
	payload := map[string]any{t.typ: validated}
	var b []byte
	if opt.Pretty {
		b, err = json.MarshalIndent(payload, "", opt.indent())
	} else {
		b, err = json.Marshal(payload)
	}
	if err != nil {
		return "", Issues{{Path: "/", Code: CodeInvalidInput, Message: "encode failed", Cause: err}}
	}
	return string(b), nil
}
