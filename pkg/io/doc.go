// Package io provides JSON import and export for expression trees.
//
// # JSON Format
//
// A document wraps a single root node:
//
//	{
//	  "version": 1,
//	  "root": {
//	    "kind": "list",
//	    "items": [
//	      {"kind": "call", "fn": "print", "args": [
//	        {"kind": "literal", "type": "text", "content": "hi"},
//	        {"kind": "variable", "name": "x"}
//	      ]},
//	      {"kind": "blank", "comment": "condition"}
//	    ]
//	  }
//	}
//
// # Node Fields
//
// Every node has a kind: list, call, literal, variable or blank. Per kind:
//
//   - list: items
//   - call: fn (required), args
//   - literal: type (text, number or symbol), content
//   - variable: name (required)
//   - blank: no fields; its comment is the hint shown in the editor
//
// Any node may carry "comment" and "disabled".
//
// # Identities
//
// Node identities are process-local. [WriteJSON] includes them as "id" so
// clients of a running server can name nodes, but [ReadJSON] always assigns
// fresh identities and ignores any "id" it finds.
//
// # Normalization
//
// Import goes through the same constructors as editing, so a list nested
// directly inside a list without a comment or disabled flag is spliced into
// its parent, and a list without items becomes a blank.
package io
