// Package ast defines the typed tree produced by the parser and consumed
// by the code generator (spec §3).
//
// The source language's node hierarchy (deep inheritance with per-node
// virtual to_string/to_json/generate methods) is deliberately NOT
// reproduced here (spec §9, Design Notes): instead every node kind is a
// concrete Go struct implementing the sealed Node interface. Generic
// traversal goes through Children and Walk; the code generator uses its
// own type switches over Node. Go does not check type switches for
// exhaustiveness, so a new node kind has to be added to each switch by
// hand.
package ast
