// Package pkg provides the core libraries of panelboard, an enclosure
// layout editor for electrical panels.
//
// # Overview
//
// A layout document holds enclosures (rectangular panel boundaries) and
// the components placed inside them. The pkg directory is organized into
// three areas:
//
//  1. Model: [geom], [template], [diagram] and [dimension] hold geometry,
//     component templates, the document with its placement rules, and the
//     distance annotator.
//  2. Editing: [engine] abstracts the rendering host and [designer] binds
//     its events to the document, including drag sessions and palette drops.
//  3. Infrastructure: [export], [cache], [config], [io], [errors] and
//     [observability] render, cache, configure, persist and instrument.
//
// # Data Flow
//
//	engine events (select, drag, resize, drop, cancel)
//	         ↓
//	    [designer] (one transaction per event)
//	         ↓
//	    [diagram] (snap, resolve enclosure, accept or reject)
//	         ↓
//	    [dimension] (annotations while dragging)
//	         ↓
//	    [export] (DOT, SVG, PNG through [cache])
//
// # Quick Start
//
//	d := diagram.NewStarter(diagram.DefaultOptions(), nil)
//	eng, _ := engine.Open(d, engine.DefaultView)
//	ds := designer.New(d, eng, designer.DefaultOptions())
//	_ = ds.Attach(ctx)
//
//	eng.Select("MCB-1")
//	eng.Drag("MCB-1", geom.Pt(40, 40)) // snapped, annotated
//	eng.Select()                       // drag ends, annotations cleared
package pkg
