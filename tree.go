package elements

import (
	"sync"

	"github.com/reoring/elements/internal/deepcopy"
	"github.com/reoring/elements/schema"
)

// Element is one instance of a type's data: an optional identifier, scalar
// field values, and embedded objects keyed by reference name. After
// normalization every Objects value is an *ObjectTree; validation replaces
// them with their rendered form unless MutateOpt.KeepTrees is set.
type Element struct {
	Identifier any // string or integer, nil when absent
	Fields     map[string]any
	Objects    map[string]any
}

// ObjectTree holds the elements of one type together with their action tags.
// The type and parent type are fixed at construction; the validator mutates
// field and reference values in place to the extent its options permit.
type ObjectTree struct {
	typ     string
	parent  string
	reg     schema.Registry
	actions []Action
	elems   []*Element
}

// Type returns the schema type name of the tree.
func (t *ObjectTree) Type() string { return t.typ }

// ParentType returns the enclosing type name, or empty for a root tree.
func (t *ObjectTree) ParentType() string { return t.parent }

// Len returns the number of elements.
func (t *ObjectTree) Len() int { return len(t.elems) }

// Elements exposes the element records for inspection. The slice is shared
// with the tree; treat it as read-only unless re-validation is intended.
func (t *ObjectTree) Elements() []*Element { return t.elems }

// Registry returns the schema registry the tree was built against.
func (t *ObjectTree) Registry() schema.Registry { return t.reg }

// Clone returns a deep copy of the tree: element records, field values, and
// embedded trees are all copied. Useful before a mutating validation pass
// when the original must stay pristine.
func (t *ObjectTree) Clone() *ObjectTree {
	out := &ObjectTree{
		typ:     t.typ,
		parent:  t.parent,
		reg:     t.reg,
		actions: append([]Action(nil), t.actions...),
		elems:   make([]*Element, len(t.elems)),
	}
	for i, el := range t.elems {
		ne := &Element{
			Identifier: el.Identifier,
			Fields:     deepcopy.Value(el.Fields).(map[string]any),
		}
		if el.Objects != nil {
			ne.Objects = make(map[string]any, len(el.Objects))
			for name, v := range el.Objects {
				if child, ok := v.(*ObjectTree); ok {
					ne.Objects[name] = child.Clone()
				} else {
					ne.Objects[name] = deepcopy.Value(v)
				}
			}
		}
		out.elems[i] = ne
	}
	return out
}

// Constructor builds an ObjectTree for one type. Registering a constructor
// for a type name overrides the generic normalization for that type without
// touching the engine; unregistered types use the default constructor.
type Constructor func(reg schema.Registry, typ string, raw any, action Action, parentType string, opt BuildOpt) (*ObjectTree, error)

var (
	ctorMu sync.RWMutex
	ctors  = map[string]Constructor{}
)

// RegisterConstructor installs a per-type constructor override; nil removes
// the override.
func RegisterConstructor(typ string, fn Constructor) {
	ctorMu.Lock()
	defer ctorMu.Unlock()
	if fn == nil {
		delete(ctors, typ)
		return
	}
	ctors[typ] = fn
}

func constructorFor(typ string) Constructor {
	ctorMu.RLock()
	fn, ok := ctors[typ]
	ctorMu.RUnlock()
	if ok {
		return fn
	}
	return NewTree
}
