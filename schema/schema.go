// Package schema holds the per-type definitions the element engine queries:
// field and reference declarations, aliases, defaults, and requiredness.
// Definitions are pure data; the package performs no validation itself.
package schema

import (
	"errors"
	"fmt"
)

// ErrUnknownType is returned by registries for types without a definition.
var ErrUnknownType = errors.New("schema: unknown type")

// Kind enumerates the scalar kinds a field declaration can carry.
type Kind int

const (
	KindString  Kind = iota // Default: any scalar passes through.
	KindBool                // Coerced to a boolean (truthy/falsy).
	KindInt                 // Numeric without a fractional part.
	KindDecimal             // Numeric.
	KindDate                // Passed through unmodified.
)

var kindNames = map[Kind]string{
	KindString:  "string",
	KindBool:    "bool",
	KindInt:     "int",
	KindDecimal: "decimal",
	KindDate:    "date",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a kind name onto its Kind value.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return KindString, fmt.Errorf("schema: unknown kind %q", s)
}

// Field declares one scalar slot of a type.
type Field struct {
	Alias    string // Alternative input name; never valid together with the canonical name.
	Kind     Kind
	Required bool
	Critical bool // Requiredness also enforced at the essential validation level.
	Default  any  // Scalar substituted for a missing value when defaulting applies.
}

// Reference declares one embedded-object slot of a type.
type Reference struct {
	TargetType    string // Embedded type name; empty means the reference name itself.
	Alias         string
	AllowMultiple bool
	Required      bool
	Critical      bool
	Default       any // Raw data (or a prebuilt tree) cloned into missing slots.
}

// Definition is the full declaration of one type.
type Definition struct {
	Identifier string // Identifier field name, or empty when the type has none.
	Fields     map[string]Field
	References map[string]Reference
}

// Target resolves the embedded type name for a reference.
func (r Reference) Target(name string) string {
	if r.TargetType != "" {
		return r.TargetType
	}
	return name
}

// Hint carries the element under construction or validation, for registries
// serving conditional definitions. Registries must not mutate it.
type Hint struct {
	Fields map[string]any
	Index  int
}

// Registry supplies definitions by type name. Implementations must be pure
// with respect to the type name; Hint exists only for conditional schemas.
type Registry interface {
	Definition(typ string, hint Hint) (*Definition, error)
}

// Table is a static Registry backed by a plain map.
type Table map[string]*Definition

func (t Table) Definition(typ string, _ Hint) (*Definition, error) {
	def, ok := t[typ]
	if !ok {
		return nil, fmt.Errorf("schema: no definition for type %q: %w", typ, ErrUnknownType)
	}
	return def, nil
}

// Func adapts a function to the Registry interface, the usual vehicle for
// conditional definitions.
type Func func(typ string, hint Hint) (*Definition, error)

func (f Func) Definition(typ string, hint Hint) (*Definition, error) {
	return f(typ, hint)
}
