// Package export renders a panelboard document to files.
//
// Three formats are supported:
//   - dot: Graphviz source with every node pinned at its document position
//   - svg: the DOT source laid out by Graphviz neato (goccy/go-graphviz,
//     no system Graphviz needed)
//   - png: a raster drawn directly with fogleman/gg
//
// Exports that go through a [Runner] are cached by document content and
// options, so re-exporting an unchanged document is a cache read.
//
//	r := export.NewRunner(cache.NewNullCache(), nil, logger)
//	res, err := r.Export(ctx, d.Document(), export.Options{Format: export.FormatSVG})
package export
