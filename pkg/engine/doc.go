// Package engine defines the contract between the editor core and the
// diagram engine that renders it, and provides [Headless], an in-memory
// engine used by the terminal editor, the HTTP API and tests.
//
// # Contract
//
// An [Engine] provides:
//
//   - a view to document coordinate transform ([Engine.ViewToDoc]),
//   - the current nodes and groups with live bounds,
//   - transactions that batch mutations into exactly one re-render,
//   - typed event subscription for selection, move, resize, external drop
//     and drag cancellation.
//
// # Subscriptions
//
// [Engine.Subscribe] returns an [Unsubscribe] function. A [Scope] collects
// them so a host can tear down every handler it installed with one call:
//
//	var scope engine.Scope
//	scope.Subscribe(eng, engine.PartMoved, onMoved)
//	scope.Subscribe(eng, engine.ExternalDrop, onDrop)
//	defer scope.Close()
package engine
