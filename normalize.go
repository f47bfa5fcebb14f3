package elements

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/reoring/elements/schema"
)

// New normalizes raw nested data into an ObjectTree for the given type. Raw
// input is either one element (map[string]any) or a list of elements ([]any
// or []map[string]any). The action is stored as the tree's uniform tag and
// propagated into embedded trees built along the way.
func New(reg schema.Registry, typ string, raw any, action Action, opts ...BuildOpt) (*ObjectTree, error) {
	var opt BuildOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	return constructorFor(typ)(reg, typ, raw, action, "", opt)
}

// NewJSON decodes a JSON document and normalizes it via New. Numbers are
// preserved as json.Number so integer fields are not rounded through float64.
func NewJSON(reg schema.Registry, typ string, data []byte, action Action, opts ...BuildOpt) (*ObjectTree, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, Issues{{Path: "/", Code: CodeInvalidInput, Message: "invalid JSON input", Cause: err}}
	}
	return New(reg, typ, raw, action, opts...)
}

// NewTree is the default Constructor: the generic normalization algorithm.
// Per-type overrides installed via RegisterConstructor typically wrap it.
func NewTree(reg schema.Registry, typ string, raw any, action Action, parentType string, opt BuildOpt) (*ObjectTree, error) {
	if reg == nil {
		return nil, singleIssue("/", CodeUnknownSchema, "nil registry")
	}
	na, err := ParseAction(string(action))
	if err != nil {
		return nil, err
	}
	t := &ObjectTree{typ: typ, parent: parentType, reg: reg}
	if na != ActionNone {
		t.actions = []Action{na}
	}
	rawElems, err := splitElements(raw)
	if err != nil {
		return nil, err
	}
	var iss Issues
	for i, re := range rawElems {
		def, derr := reg.Definition(typ, schema.Hint{Fields: re, Index: i})
		if derr != nil {
			code := CodeInvalidInput
			if errors.Is(derr, schema.ErrUnknownType) {
				code = CodeUnknownSchema
			}
			return nil, Issues{{Path: "/", Code: code, Message: derr.Error(), Cause: derr}}
		}
		el, i2 := t.normalizeElement(def, re, i, na, opt)
		if len(i2) > 0 {
			iss = AppendIssues(iss, i2...)
			continue
		}
		t.elems = append(t.elems, el)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return t, nil
}

// splitElements decides the single-vs-multi shape of raw input.
func splitElements(raw any) ([]map[string]any, error) {
	switch rv := raw.(type) {
	case map[string]any:
		return []map[string]any{rv}, nil
	case []map[string]any:
		return rv, nil
	case []any:
		out := make([]map[string]any, len(rv))
		for i, e := range rv {
			m, ok := e.(map[string]any)
			if !ok {
				return nil, singleIssue("/"+strconv.Itoa(i), CodeInvalidInput, "element must be a mapping")
			}
			out[i] = m
		}
		return out, nil
	default:
		return nil, singleIssue("/", CodeInvalidInput, "expected a mapping or a list of mappings")
	}
}

func (t *ObjectTree) normalizeElement(def *schema.Definition, raw map[string]any, index int, action Action, opt BuildOpt) (*Element, Issues) {
	var iss Issues
	el := &Element{Fields: map[string]any{}}
	consumed := map[string]struct{}{}

	// Identifier: canonical "@Name" form or the generic "#id" alias. Both are
	// tolerated only when the values are equal.
	if def.Identifier != "" {
		canon := "@" + def.Identifier
		cv, okC := raw[canon]
		av, okA := raw["#id"]
		if okC {
			consumed[canon] = struct{}{}
		}
		if okA {
			consumed["#id"] = struct{}{}
		}
		switch {
		case okC && okA && !equalScalar(cv, av):
			iss = AppendIssues(iss, Issue{Path: "/" + canon, Code: CodeAliasConflict,
				Message: fmt.Sprintf("identifier given as %s and #id with differing values", canon)})
		case okC || okA:
			v := cv
			if !okC {
				v = av
			}
			if v != nil && !isScalar(v) {
				iss = AppendIssues(iss, Issue{Path: "/" + canon, Code: CodeInvalidInput, Message: "identifier must be a scalar"})
			} else {
				el.Identifier = v
			}
		}
	}

	// Declared fields, canonical name or alias (never both).
	for _, name := range sortedKeys(def.Fields) {
		fd := def.Fields[name]
		cv, okC := raw[name]
		var av any
		okA := false
		if fd.Alias != "" {
			av, okA = raw[fd.Alias]
		}
		if okC {
			consumed[name] = struct{}{}
		}
		if okA {
			consumed[fd.Alias] = struct{}{}
		}
		if okC && okA {
			iss = AppendIssues(iss, Issue{Path: "/Fields/" + name, Code: CodeAliasConflict,
				Message: fmt.Sprintf("field given under both %q and alias %q", name, fd.Alias)})
			continue
		}
		if !okC && !okA {
			continue // unset; defaults are applied during validation
		}
		v := cv
		if !okC {
			v = av
		}
		if v == nil {
			el.Fields[name] = nil
			continue
		}
		if !isScalar(v) {
			iss = AppendIssues(iss, Issue{Path: "/Fields/" + name, Code: CodeInvalidType, Message: "field value must be a scalar"})
			continue
		}
		coerced, cerr := coerceScalar(fd.Kind, v)
		if cerr != nil {
			iss = AppendIssues(iss, Issue{Path: "/Fields/" + name, Code: CodeInvalidType, Message: cerr.Error()})
			continue
		}
		el.Fields[name] = coerced
	}

	// Declared references: prebuilt trees pass through, raw data is built
	// recursively with the element's action propagated.
	for _, name := range sortedKeys(def.References) {
		rd := def.References[name]
		cv, okC := raw[name]
		var av any
		okA := false
		if rd.Alias != "" {
			av, okA = raw[rd.Alias]
		}
		if okC {
			consumed[name] = struct{}{}
		}
		if okA {
			consumed[rd.Alias] = struct{}{}
		}
		if okC && okA {
			iss = AppendIssues(iss, Issue{Path: "/Objects/" + name, Code: CodeAliasConflict,
				Message: fmt.Sprintf("reference given under both %q and alias %q", name, rd.Alias)})
			continue
		}
		if !okC && !okA {
			continue
		}
		v := cv
		if !okC {
			v = av
		}
		if child, ok := v.(*ObjectTree); ok {
			el.ensureObjects()
			el.Objects[name] = child
			continue
		}
		if v == nil || isScalar(v) {
			iss = AppendIssues(iss, Issue{Path: "/Objects/" + name, Code: CodeInvalidInput, Message: "reference value must be a mapping or list"})
			continue
		}
		target := rd.Target(name)
		child, cerr := constructorFor(target)(t.reg, target, v, action, t.typ, opt)
		if cerr != nil {
			iss = AppendIssues(iss, rebaseIssues("/Objects/"+name, cerr)...)
			continue
		}
		el.ensureObjects()
		el.Objects[name] = child
	}

	// Leftover keys are a schema mismatch unless unknown keys are allowed.
	var leftovers []string
	for k := range raw {
		if _, ok := consumed[k]; !ok {
			leftovers = append(leftovers, k)
		}
	}
	if len(leftovers) > 0 {
		sort.Strings(leftovers)
		if opt.AllowUnknown {
			for _, k := range leftovers {
				el.Fields[k] = raw[k]
			}
		} else {
			iss = AppendIssues(iss, Issue{Path: "/", Code: CodeUnmappedFields,
				Message: "keys not declared by the schema: " + strings.Join(leftovers, ", "),
				Params:  map[string]any{"keys": leftovers, "index": index}})
		}
	}
	return el, iss
}

func (el *Element) ensureObjects() {
	if el.Objects == nil {
		el.Objects = map[string]any{}
	}
}

// equalScalar compares two values without panicking on non-comparable input.
func equalScalar(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if !isScalar(a) || !isScalar(b) {
		return false
	}
	return a == b
}

// isScalar reports whether v is an acceptable scalar field value.
func isScalar(v any) bool {
	switch v.(type) {
	case string, bool, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}

// coerceScalar applies per-kind coercion to a scalar input value.
func coerceScalar(kind schema.Kind, v any) (any, error) {
	switch kind {
	case schema.KindBool:
		return truthy(v), nil
	case schema.KindInt:
		if err := checkInteger(v); err != nil {
			return nil, err
		}
		return v, nil
	case schema.KindDecimal:
		if err := checkNumeric(v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		// KindString and KindDate pass through unmodified.
		return v, nil
	}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "", "0", "false":
			return false
		}
		return true
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	default:
		f, ok := numericValue(v)
		return !ok || f != 0
	}
}

func checkInteger(v any) error {
	switch t := v.(type) {
	case string:
		if _, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64); err != nil {
			return fmt.Errorf("value %q is not an integer", t)
		}
	case json.Number:
		if _, err := t.Int64(); err != nil {
			return fmt.Errorf("value %q is not an integer", t.String())
		}
	case bool:
		return fmt.Errorf("boolean is not an integer")
	case float32, float64:
		f, _ := numericValue(v)
		if f != math.Trunc(f) {
			return fmt.Errorf("value %v has a decimal point", v)
		}
	}
	return nil
}

func checkNumeric(v any) error {
	switch t := v.(type) {
	case string:
		if _, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err != nil {
			return fmt.Errorf("value %q is not numeric", t)
		}
	case json.Number:
		if _, err := t.Float64(); err != nil {
			return fmt.Errorf("value %q is not numeric", t.String())
		}
	case bool:
		return fmt.Errorf("boolean is not numeric")
	}
	return nil
}

func numericValue(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case float32:
		return float64(t), true
	case float64:
		return t, true
	}
	return 0, false
}

// sortedKeys returns map keys in ascending order for deterministic behavior.
func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
