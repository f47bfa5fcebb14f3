package elements

// Package elements builds, validates, and serializes the element payloads
// consumed by schema-constrained data-update APIs.
//
// - Normalization maps caller-supplied nested data onto per-type schema
//   definitions (alias resolution, scalar coercion, recursive embedding).
// - Validation applies defaulting, requiredness, and reformatting rules,
//   governed by the element action (insert/update/delete) and option structs.
// - Rendering emits either the nested-map JSON payload or the
//   attribute-carrying XML payload, each with its own structural rules.
//
// Design policy:
// - Keep only public APIs in the root package; put detail under internal/.
// - Schema definitions are pure data supplied by the schema package; the
//   engine never hard-codes a type table.
// - Errors travel as Issues (path, code, message); there is no partial
//   success: a call either returns a fully validated result or fails.
//
// Typical usage:
//
//	tree, err := elements.New(reg, "Subject", data, elements.ActionInsert)
//	out, err := tree.Render(elements.FormatJSON, elements.RenderOpt{Pretty: true})
