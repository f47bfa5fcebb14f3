package elements

import (
	"errors"
	"strings"

	"github.com/reoring/elements/internal/deepcopy"
	"github.com/reoring/elements/schema"
)

// Validate runs the depth-first validation pass and returns the rendered
// element structure: embedded trees are validated before the tree's own
// fields, defaults and reformatting are applied to the extent m permits, and
// requiredness is enforced per v. The result is a single element map, a list
// of them (FlattenSingle collapses a one-element list), or that wrapped in an
// "Element" container when WrapElements is set.
//
// Field and reference values are mutated in place; validation failures leave
// mutations applied by earlier steps intact so callers can inspect and retry
// with relaxed options.
func (t *ObjectTree) Validate(m MutateOpt, v ValidateOpt) (any, error) {
	rendered := make([]any, 0, len(t.elems))
	var iss Issues
	for i, el := range t.elems {
		out, i2 := t.validateElement(i, el, m, v)
		if len(i2) > 0 {
			iss = AppendIssues(iss, i2...)
			continue
		}
		rendered = append(rendered, out)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	var result any = rendered
	if m.FlattenSingle && len(rendered) == 1 {
		result = rendered[0]
	}
	if m.WrapElements {
		result = map[string]any{"Element": result}
	}
	return result, nil
}

func (t *ObjectTree) validateElement(i int, el *Element, m MutateOpt, v ValidateOpt) (map[string]any, Issues) {
	if el == nil || el.Fields == nil {
		return nil, singleIssue("/", CodeInvalidInput, "element has no Fields map")
	}
	def, err := t.reg.Definition(t.typ, schema.Hint{Fields: el.Fields, Index: i})
	if err != nil {
		code := CodeInvalidInput
		if errors.Is(err, schema.ErrUnknownType) {
			code = CodeUnknownSchema
		}
		return nil, Issues{{Path: "/", Code: code, Message: err.Error(), Cause: err}}
	}
	action, aerr := t.ActionAt(i)
	if aerr != nil {
		iss, _ := AsIssues(aerr)
		return nil, iss
	}

	var iss Issues
	iss = AppendIssues(iss, t.validateReferences(def, el, action, m, v)...)
	iss = AppendIssues(iss, t.validateFields(def, el, action, m, v)...)

	if v.Level != LevelNothing {
		// Post-default scalar check: defaults and caller-built trees may have
		// introduced values normalization never saw.
		for _, name := range sortedKeys(el.Fields) {
			if val := el.Fields[name]; val != nil && !isScalar(val) {
				iss = AppendIssues(iss, Issue{Path: "/Fields/" + name, Code: CodeInvalidType, Message: "field value must be a scalar"})
			}
		}
		if def.Identifier != "" {
			switch {
			case el.Identifier != nil && !isIdentifierValue(el.Identifier):
				iss = AppendIssues(iss, Issue{Path: "/@" + def.Identifier, Code: CodeInvalidType, Message: "identifier must be a string or integer"})
			case el.Identifier == nil && action != ActionInsert:
				iss = AppendIssues(iss, Issue{Path: "/@" + def.Identifier, Code: CodeMissingIdentifier,
					Message: "action " + string(action) + " requires an identifier"})
			}
		}
		if !v.AllowUnknown {
			for _, name := range sortedKeys(el.Fields) {
				if _, ok := def.Fields[name]; !ok {
					iss = AppendIssues(iss, Issue{Path: "/Fields/" + name, Code: CodeUnknownProperty, Message: "field not declared by the schema"})
				}
			}
			for _, name := range sortedKeys(el.Objects) {
				if _, ok := def.References[name]; !ok {
					iss = AppendIssues(iss, Issue{Path: "/Objects/" + name, Code: CodeUnknownProperty, Message: "reference not declared by the schema"})
				}
			}
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}

	out := map[string]any{"Fields": el.Fields}
	if def.Identifier != "" && el.Identifier != nil {
		out["@"+def.Identifier] = el.Identifier
	}
	if len(el.Objects) > 0 {
		out["Objects"] = el.Objects
	}
	return out, nil
}

// validateReferences applies defaulting, requiredness, multiplicity, and
// replacement to the declared references of one element. Embedded trees are
// validated with a derived option set: read-only unless MutateEmbedded is on.
// Replacement always follows the caller's original KeepTrees value.
func (t *ObjectTree) validateReferences(def *schema.Definition, el *Element, action Action, m MutateOpt, v ValidateOpt) Issues {
	var iss Issues
	for _, name := range sortedKeys(def.References) {
		rd := def.References[name]
		var cur any
		present := false
		if el.Objects != nil {
			cur, present = el.Objects[name]
		}
		if !present || cur == nil {
			if rd.Default != nil && defaultsAllowed(action, m) {
				child, err := t.referenceDefault(name, rd, action)
				if err != nil {
					iss = AppendIssues(iss, rebaseIssues("/Objects/"+name, err)...)
					continue
				}
				el.ensureObjects()
				el.Objects[name] = child
				cur = child
			} else {
				if referenceRequired(rd, v) {
					iss = AppendIssues(iss, Issue{Path: "/Objects/" + name, Code: CodeMissingReference,
						Message: "required reference has no value and no default"})
				}
				continue
			}
		}
		child, isTree := cur.(*ObjectTree)
		if !isTree {
			// Already rendered by a previous pass; only multiplicity applies.
			if list, ok := cur.([]any); ok && !rd.AllowMultiple && len(list) > 1 {
				iss = AppendIssues(iss, tooMany(name, len(list)))
			}
			continue
		}
		cm := m
		if !m.MutateEmbedded {
			cm = MutateOpt{KeepTrees: m.KeepTrees, FlattenSingle: m.FlattenSingle}
		}
		cm.WrapElements = false
		childOut, cerr := child.Validate(cm, v)
		if cerr != nil {
			iss = AppendIssues(iss, rebaseIssues("/Objects/"+name, cerr)...)
			continue
		}
		if !rd.AllowMultiple && child.Len() > 1 {
			iss = AppendIssues(iss, tooMany(name, child.Len()))
			continue
		}
		if !m.KeepTrees {
			el.Objects[name] = childOut
		}
	}
	return iss
}

// validateFields applies defaulting, requiredness, and reformatting to the
// declared fields of one element. A present null is only overwritten by a
// default when the schema marks the field required.
func (t *ObjectTree) validateFields(def *schema.Definition, el *Element, action Action, m MutateOpt, v ValidateOpt) Issues {
	var iss Issues
	for _, name := range sortedKeys(def.Fields) {
		fd := def.Fields[name]
		val, present := el.Fields[name]
		if fd.Default != nil && defaultsAllowed(action, m) {
			if !present {
				el.Fields[name] = deepcopy.Value(fd.Default)
				present = true
			} else if val == nil && fd.Required {
				el.Fields[name] = deepcopy.Value(fd.Default)
			}
		}
		if fieldRequired(fd, action, v) && (!present || el.Fields[name] == nil) {
			iss = AppendIssues(iss, Issue{Path: "/Fields/" + name, Code: CodeMissingField,
				Message: "required field has no value and no default"})
			continue
		}
		if m.Reformat && present {
			if s, ok := el.Fields[name].(string); ok {
				el.Fields[name] = strings.TrimSpace(s)
			}
		}
	}
	return iss
}

// referenceDefault instantiates a schema-declared reference default with the
// current action propagated into it. Defaults are cloned, never shared.
func (t *ObjectTree) referenceDefault(name string, rd schema.Reference, action Action) (*ObjectTree, error) {
	if dt, ok := rd.Default.(*ObjectTree); ok {
		c := dt.Clone()
		if action != ActionNone {
			if err := c.SetAction(action, true); err != nil {
				return nil, err
			}
		}
		return c, nil
	}
	raw := deepcopy.Value(rd.Default)
	target := rd.Target(name)
	return constructorFor(target)(t.reg, target, raw, action, t.typ, BuildOpt{})
}

func defaultsAllowed(action Action, m MutateOpt) bool {
	switch action {
	case ActionInsert:
		return m.DefaultOnInsert
	case ActionUpdate:
		return m.DefaultOnUpdate
	}
	return false
}

func fieldRequired(fd schema.Field, action Action, v ValidateOpt) bool {
	if !fd.Required || action != ActionInsert {
		return false
	}
	return v.Level == LevelRequired || (v.Level == LevelEssential && fd.Critical)
}

func referenceRequired(rd schema.Reference, v ValidateOpt) bool {
	if !rd.Required {
		return false
	}
	return v.Level == LevelRequired || (v.Level == LevelEssential && rd.Critical)
}

func tooMany(name string, n int) Issue {
	return Issue{Path: "/Objects/" + name, Code: CodeTooManyElements,
		Message: "single-valued reference holds more than one element",
		Params:  map[string]any{"elements": n}}
}

func isIdentifierValue(v any) bool {
	switch v.(type) {
	case string, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return true
	}
	// json.Number identifiers arrive via the JSON input path.
	if n, ok := v.(interface{ Int64() (int64, error) }); ok {
		_, err := n.Int64()
		return err == nil
	}
	return false
}
