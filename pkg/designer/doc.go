// Package designer wires a diagram engine to the editor core.
//
// A [Designer] owns one editing session: the [diagram.Diagram], the
// [engine.Engine] rendering it, and the distance [dimension.Annotator].
// After [Designer.Attach] it reacts to engine events:
//
//   - selection changed: a non-empty selection starts a drag session
//     (the document is snapshotted); an empty one ends it and clears
//     the distance annotations.
//   - part moved / part resized: the change is validated by the diagram
//     and, during a drag session with distances shown, annotations are
//     recomputed.
//   - external drop: the palette payload is decoded, converted to
//     document coordinates and placed, unless it would land outside
//     every enclosure while top-level placement is disallowed.
//   - drag cancelled: the pre-drag snapshot is restored exactly.
//
// Every handled event runs in one engine transaction, so it triggers
// exactly one re-render. Placement rejections are normal outcomes and
// never become errors. Load and save failures are reported to the
// [Notifier] and returned.
package designer
