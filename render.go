package elements

import "fmt"

// Render validates the tree and serializes it to the requested format. Both
// formats run the validator first; the structural rules differ:
//
//   - FormatJSON wraps the validated elements as {Type: {Element: ...}} and
//     flattens a single element out of its list.
//   - FormatXML keeps embedded trees live and never flattens, because each
//     tree emits its own Action and identifier attributes while walking.
func (t *ObjectTree) Render(f Format, opts ...RenderOpt) (string, error) {
	var opt RenderOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	switch f {
	case FormatJSON:
		return t.renderJSON(opt)
	case FormatXML:
		return t.renderXML(opt)
	}
	return "", singleIssue("/", CodeInvalidInput, fmt.Sprintf("unknown format %d", int(f)))
}
