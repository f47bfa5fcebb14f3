package elements

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeUnknownSchema     = "unknown_schema"     // registry has no definition for a type
	CodeInvalidInput      = "invalid_input"      // malformed caller data (wrong shape)
	CodeInvalidType       = "invalid_type"       // non-scalar or wrongly typed value
	CodeAliasConflict     = "alias_conflict"     // canonical name and alias both populated
	CodeUnmappedFields    = "unmapped_fields"    // raw keys not consumed by the schema
	CodeUnknownProperty   = "unknown_property"   // field/reference absent from the schema
	CodeMissingField      = "missing_field"      // required field without value or default
	CodeMissingReference  = "missing_reference"  // required reference without value or default
	CodeMissingIdentifier = "missing_identifier" // non-insert element without identifier
	CodeTooManyElements   = "too_many_elements"  // multiple elements in a single-valued reference
	CodeAmbiguousAction   = "ambiguous_action"   // heterogeneous actions, no index given
	CodeIndexOutOfRange   = "index_out_of_range" // element/action index misuse
	CodeInvalidAction     = "invalid_action"     // action outside the known set
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // Slash-separated location (for example: /Objects/SubjectLink/Fields/Name).
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Optional: underlying error.
	// Params carries structured parameters (e.g., {"keys": [...]}) for
	// observability and programmatic handling.
	Params map[string]any
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. missing_field at /Fields/Name
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// HasCode reports whether err carries at least one issue with the given code.
func HasCode(err error, code string) bool {
	iss, ok := AsIssues(err)
	if !ok {
		return false
	}
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

func singleIssue(path, code, msg string) Issues {
	return Issues{{Path: path, Code: code, Message: msg}}
}

// rebaseIssues re-anchors child issue paths under base ("/Objects/Link" etc.).
// Non-Issues errors are wrapped as a single invalid_input entry at base.
func rebaseIssues(base string, err error) Issues {
	if err == nil {
		return nil
	}
	child, ok := AsIssues(err)
	if !ok {
		return Issues{{Path: base, Code: CodeInvalidInput, Message: err.Error(), Cause: err}}
	}
	out := make(Issues, 0, len(child))
	for _, it := range child {
		p := it.Path
		switch {
		case p == "" || p == "/":
			p = base
		case p[0] == '/':
			p = base + p
		default:
			p = base + "/" + p
		}
		out = append(out, Issue{Path: p, Code: it.Code, Message: it.Message, Cause: it.Cause, Params: it.Params})
	}
	return out
}
