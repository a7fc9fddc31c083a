// Package diagram holds the canonical state of a panelboard layout.
//
// # Overview
//
// A [Document] is an ordered collection of entities plus persisted links
// and transient distance annotations. Entities are either components (a
// placed electrical part, [*Component]) or enclosures (a panel or rack
// boundary, [*Enclosure]). Components reference their enclosure through
// [Component.Group]; enclosures hold no forward list, membership is
// computed by scanning.
//
// # Invariants
//
// Every mutation on [Diagram] leaves these intact:
//
//   - Entity keys are unique and non-empty.
//   - A component's Group, when set, names an existing enclosure.
//   - Enclosures never belong to another enclosure (containment depth 1).
//   - Link endpoints reference existing entities.
//
// [Diagram.Check] verifies them and is used liberally by tests.
//
// # Placement
//
// [Diagram.Move] and [Diagram.Resize] resolve membership by full
// containment. When a component's box lies fully inside an enclosure it
// joins that enclosure; when several contain it the smallest wins, then
// the earliest in document order. When no enclosure contains it and
// top-level placement is disallowed the operation is rejected and the
// component keeps its last valid geometry. Rejections are reported in the
// returned [Placement], never as errors.
//
// # Persistence
//
// [Diagram.Serialize] writes a GraphLinksModel-compatible JSON document:
//
//	{
//	  "class": "GraphLinksModel",
//	  "linkDataArray": [],
//	  "nodeDataArray": [
//	    {"isGroup": true, "key": "Panel A", "pos": "0 0", "size": "200 300"},
//	    {"color": "white", "group": "Panel A", "key": "MCB-…", "pos": "10 10", "size": "50 110", "type": "MCB"}
//	  ]
//	}
//
// [Diagram.Deserialize] is all-or-nothing: malformed input, dangling group
// references and nested enclosures fail with a FORMAT_ERROR and leave the
// current document untouched. Unknown record fields are kept and written
// back unchanged. Annotations are never persisted.
//
// A Diagram is not safe for concurrent use; hosts serialize access.
package diagram
