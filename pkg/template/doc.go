// Package template maps component types to their default visual and
// dimensional attributes.
//
// # Overview
//
// Every component placed in a diagram has a type such as "ACB", "MCB" or
// "Transformer". The [Registry] answers three questions about a type:
//
//   - What size does a freshly dropped component get?
//   - How small may a resize make it?
//   - Which color, label and image does it start with?
//
// Lookups never fail. A type the registry does not know resolves to the
// generic template (60×100, white) carrying the requested type name, so
// documents written by newer versions still load and render.
//
// # Palette
//
// Besides templates the registry holds palette presets: named,
// pre-sized variants of a type ("TX 250kVA", "Bus Bar 400A") grouped by
// [Category]. Hosts list them with [Registry.Palette] and turn a chosen
// preset into a drag payload.
//
// # Extension
//
// [Default] returns a fresh registry populated with the built-in
// templates. Configuration can add or override types with
// [Registry.Register]; the built-ins are never shared between registries.
package template
