// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package expr implements the expression tree
// of the graph query engine: evaluation under
// ternary logic, canonical text, structural
// equality, the binary persisted form, constant
// folding and static type deduction.
package expr

import (
	"strings"

	"github.com/SnellerInc/graphexpr/internal/wire"
	"github.com/SnellerInc/graphexpr/value"
)

// Visitor is an interface that must
// be satisfied by the argument to Visit.
//
// A Visitor's Visit method is invoked for each node encountered by Walk. If
// the result visitor w is not nil, Walk visits each of the children of node
// with the visitor w, followed by a call of w.Visit(nil).
//
// (see also: ast.Visitor)
type Visitor interface {
	Visit(Node) Visitor
}

// Rewriter accepts a Node and returns
// a new node (or just its argument)
type Rewriter interface {
	// Rewrite is applied to nodes
	// in depth-first order, and each
	// node is re-written to use the
	// returned value.
	Rewrite(Node) Node

	// Walk is called during node traversal
	// and the returned Rewriter is used for
	// all the children of Node.
	// If the returned rewriter is nil,
	// then traversal does not proceed past Node.
	Walk(Node) Rewriter
}

type nonleaf interface {
	rewrite(r Rewriter) Node
}

// Rewrite recursively applies a Rewriter in depth-first order.
// Nodes are rewritten in place; callers that need
// to keep the original tree should Clone it first.
func Rewrite(r Rewriter, n Node) Node {
	if n == nil {
		return nil
	}
	nl, ok := n.(nonleaf)
	if ok {
		rc := r.Walk(n)
		if rc != nil {
			n = nl.rewrite(rc)
		}
	}
	n = r.Rewrite(n)
	return n
}

// Walk traverses an AST in depth-first order: It starts by calling
// v.Visit(node); node must not be nil. If the visitor w returned by
// v.Visit(node) is not nil, Walk is invoked recursively with visitor w for
// each of the non-nil children of node, followed by a call of w.Visit(nil).
//
// (see also: ast.Walk)
func Walk(v Visitor, n Node) {
	w := v.Visit(n)
	if w != nil {
		n.walk(w)
		w.Visit(nil)
	}
}

// Node is an expression tree node.
//
// The set of implementations is closed: every
// node type lives in this package. A tree is
// owned by its root and no node is shared
// between two parents.
type Node interface {
	// Kind returns the variant of the node.
	Kind() Kind
	// Eval evaluates the node against ctx.
	// Failures are reported in-band as
	// abnormal values. Eval recurses once per
	// level, so trees from untrusted input must
	// pass CheckDepth first.
	Eval(ctx Context) value.Value
	// Equals returns whether this node is
	// structurally equal to another node.
	Equals(Node) bool
	// Clone returns a deep copy of the node.
	Clone() Node
	// Encode appends the persisted form
	// of the node to dst.
	Encode(dst *wire.Buffer) error

	text(dst *strings.Builder)
	walk(Visitor)
}

// Equal returns whether a and b are equivalent.
// a or b may be nil.
func Equal(a, b Node) bool {
	if a == nil {
		return b == nil
	}
	return b != nil && a.Equals(b)
}

// ToString returns the canonical text of n.
func ToString(n Node) string {
	if n == nil {
		return "<nil>"
	}
	var dst strings.Builder
	n.text(&dst)
	return dst.String()
}

// Clone returns a deep copy of n; n may be nil.
func Clone(n Node) Node {
	if n == nil {
		return nil
	}
	return n.Clone()
}

// WalkFunc is a Visitor that calls a
// function for every node; traversal
// stops descending when it returns false.
type WalkFunc func(Node) bool

func (w WalkFunc) Visit(n Node) Visitor {
	if n == nil || !w(n) {
		return nil
	}
	return w
}

// RewriteFunc is a Rewriter that applies
// a function to every node bottom-up.
type RewriteFunc func(Node) Node

func (r RewriteFunc) Rewrite(n Node) Node { return r(n) }
func (r RewriteFunc) Walk(Node) Rewriter  { return r }

func walkAll(v Visitor, lst []Node) {
	for i := range lst {
		if lst[i] != nil {
			Walk(v, lst[i])
		}
	}
}

func walkOpt(v Visitor, n Node) {
	if n != nil {
		Walk(v, n)
	}
}

func rewriteAll(r Rewriter, lst []Node) {
	for i := range lst {
		lst[i] = Rewrite(r, lst[i])
	}
}

func cloneAll(lst []Node) []Node {
	if lst == nil {
		return nil
	}
	out := make([]Node, len(lst))
	for i := range lst {
		out[i] = Clone(lst[i])
	}
	return out
}

func equalAll(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func textAll(dst *strings.Builder, lst []Node, sep string) {
	for i := range lst {
		if i > 0 {
			dst.WriteString(sep)
		}
		lst[i].text(dst)
	}
}
