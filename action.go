package elements

import (
	"fmt"
	"strings"
)

// Action indicates the update intent attached to an element. It governs
// requiredness and defaulting during validation and is emitted as the
// Action attribute in the XML rendering.
type Action string

const (
	ActionNone   Action = ""
	ActionInsert Action = "insert"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// ParseAction folds case and the legacy "put"/"post" synonyms onto the
// canonical action set. Unknown non-empty values fail with invalid_action.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(s) {
	case "":
		return ActionNone, nil
	case "insert", "post":
		return ActionInsert, nil
	case "update", "put":
		return ActionUpdate, nil
	case "delete":
		return ActionDelete, nil
	}
	return ActionNone, singleIssue("/", CodeInvalidAction, fmt.Sprintf("unknown action %q", s))
}

// SetAction stores a uniform action tag for every element of the tree. When
// propagate is true the tag is also pushed into every embedded tree,
// recursively.
func (t *ObjectTree) SetAction(a Action, propagate bool) error {
	na, err := ParseAction(string(a))
	if err != nil {
		return err
	}
	if len(t.actions) == 0 {
		t.actions = []Action{na}
	} else {
		for i := range t.actions {
			t.actions[i] = na
		}
	}
	if propagate {
		for _, el := range t.elems {
			propagateAction(el, na)
		}
	}
	return nil
}

// SetActionAt stores an action tag for the element at index i only. A tree
// holding one uniform tag first has that tag expanded to all elements so the
// remaining elements keep their meaning. When propagate is true the tag is
// pushed into the embedded trees of that element.
func (t *ObjectTree) SetActionAt(i int, a Action, propagate bool) error {
	na, err := ParseAction(string(a))
	if err != nil {
		return err
	}
	if i < 0 || i >= len(t.elems) {
		return singleIssue("/", CodeIndexOutOfRange, fmt.Sprintf("no element at index %d", i))
	}
	switch {
	case len(t.actions) == 1 && len(t.elems) > 1:
		uniform := t.actions[0]
		t.actions = make([]Action, len(t.elems))
		for j := range t.actions {
			t.actions[j] = uniform
		}
	case len(t.actions) <= i:
		grown := make([]Action, i+1)
		copy(grown, t.actions)
		t.actions = grown
	}
	t.actions[i] = na
	if propagate {
		propagateAction(t.elems[i], na)
	}
	return nil
}

// Action returns the uniform action of the tree. It fails with
// ambiguous_action when elements carry differing tags; callers must then use
// ActionAt with an explicit index.
func (t *ObjectTree) Action() (Action, error) {
	if len(t.actions) == 0 {
		return ActionNone, nil
	}
	first := t.actions[0]
	for _, a := range t.actions[1:] {
		if a != first {
			return ActionNone, singleIssue("/", CodeAmbiguousAction, "elements carry differing actions; pass an element index")
		}
	}
	return first, nil
}

// ActionAt returns the action tag resolved for the element at index i: its
// own tag when present, the uniform tag when one exists, otherwise the empty
// action. It fails with index_out_of_range when no element exists at i.
func (t *ObjectTree) ActionAt(i int) (Action, error) {
	if i >= 0 && i < len(t.actions) {
		if len(t.actions) == 1 && len(t.elems) > 1 {
			// single tag applies uniformly
			return t.actions[0], nil
		}
		return t.actions[i], nil
	}
	if len(t.actions) == 1 && i >= 0 && i < len(t.elems) {
		return t.actions[0], nil
	}
	if i < 0 || i >= len(t.elems) {
		return ActionNone, singleIssue("/", CodeIndexOutOfRange, fmt.Sprintf("no element or action at index %d", i))
	}
	return ActionNone, nil
}

func propagateAction(el *Element, a Action) {
	for _, v := range el.Objects {
		if child, ok := v.(*ObjectTree); ok {
			_ = child.SetAction(a, true) // a is already normalized
		}
	}
}
