// Package deepcopy clones the raw nested values used for schema defaults, so
// one default never leaks mutations across element instances.
package deepcopy

// Value returns a deep copy of v for the shapes the engine handles: nested
// map[string]any, []any, []map[string]any, and scalars (returned as-is).
func Value(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = Value(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Value(val)
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(t))
		for i, m := range t {
			out[i] = Value(m).(map[string]any)
		}
		return out
	default:
		return v
	}
}
