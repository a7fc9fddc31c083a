// Package io moves panelboard documents between diagrams, files and the
// system clipboard.
//
// Documents use the diagram JSON format (a GoJS GraphLinksModel):
//
//	{
//	  "class": "GraphLinksModel",
//	  "linkDataArray": [],
//	  "nodeDataArray": [
//	    {"isGroup": true, "key": "Panel A", "pos": "0 0", "size": "200 300"}
//	  ]
//	}
//
// Use [ImportFile] and [ExportFile] for files, and [CopyDocument] and
// [PasteDocument] for the clipboard. Imports are all-or-nothing: a document
// that fails to parse leaves the target diagram unchanged.
//
// The path "-" means standard input or output.
package io
