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

package expr

import (
	"golang.org/x/exp/slices"
)

type transformer struct {
	match   func(Node) bool
	rewrite func(Node) Node
}

func (t *transformer) Walk(Node) Rewriter { return nil }

func (t *transformer) Rewrite(n Node) Node { return t.apply(n) }

func (t *transformer) apply(n Node) Node {
	if n == nil {
		return nil
	}
	if t.match(n) {
		return t.rewrite(n)
	}
	if nl, ok := n.(nonleaf); ok {
		return nl.rewrite(t)
	}
	return n
}

// Transform returns a copy of n in which every
// subtree matched by match is replaced with the
// result of rewrite. Matching is top-down:
// a matched subtree is handed to rewrite as
// a whole and its children are not visited,
// while the children of an unmatched node
// are transformed in turn.
//
// rewrite receives a private copy of the
// matched subtree and may reuse its nodes.
// n itself is not modified.
func Transform(n Node, match func(Node) bool, rewrite func(Node) Node) Node {
	if n == nil {
		return nil
	}
	t := &transformer{match: match, rewrite: rewrite}
	return t.apply(n.Clone())
}

// OfKind returns a matcher for nodes
// of any of the given kinds.
func OfKind(kinds ...Kind) func(Node) bool {
	return func(n Node) bool {
		return slices.Contains(kinds, n.Kind())
	}
}

// Find returns the first node of n in
// pre-order for which fn returns true,
// or nil if there is none.
func Find(n Node, fn func(Node) bool) Node {
	var out Node
	Walk(WalkFunc(func(x Node) bool {
		if out != nil {
			return false
		}
		if fn(x) {
			out = x
			return false
		}
		return true
	}), n)
	return out
}

// Collect returns every node of n
// for which fn returns true, in pre-order.
// The children of a matched node are
// searched as well.
func Collect(n Node, fn func(Node) bool) []Node {
	var out []Node
	Walk(WalkFunc(func(x Node) bool {
		if fn(x) {
			out = append(out, x)
		}
		return true
	}), n)
	return out
}

// FindAny returns the first node of n
// of one of the given kinds, or nil.
func FindAny(n Node, kinds ...Kind) Node {
	return Find(n, OfKind(kinds...))
}

// CollectAll returns every node of n
// of one of the given kinds.
func CollectAll(n Node, kinds ...Kind) []Node {
	return Collect(n, OfKind(kinds...))
}
