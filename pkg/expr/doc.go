// Package expr is the expression tree engine: an immutable, identity-addressed
// tree of typed expression nodes and the structural edit algebra built on it.
//
// # Nodes
//
// An [Expr] is one of a closed set of variants: [*List], [*Call], [*Literal],
// [*Variable] and [*Blank]. The set is sealed (the interface has unexported
// methods), and [Visit] dispatches over it with a [Visitor], so adding a
// variant breaks every consumer at compile time until it handles the new case.
//
// Every node carries [Data]: a process-unique [ID] plus optional comment and
// disabled metadata. Identities are allocated by [NewID] and never reused.
//
// # Immutability
//
// Nodes are values. No function in this package modifies a node reachable
// from its arguments; edits such as [Update], [Replace] and the helpers in
// edit.go return a new root that shares every untouched subtree with the old
// one. Callers must treat exported fields as read-only.
//
// Parentage is not stored. [ParentOf], [Parents] and [Siblings] answer it by
// traversal; [Index] caches those answers for a batch of queries against one
// root and is never authoritative.
//
// # Failure semantics
//
// [Get] returns a NOT_FOUND error for identities absent from the tree, while
// [Find] is the non-failing lookup. Edit functions applied to an absent
// identity return the input tree unchanged.
package expr
