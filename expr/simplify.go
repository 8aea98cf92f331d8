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
	"github.com/SnellerInc/graphexpr/value"
)

// evaluable returns whether n itself (not counting
// its children) can be evaluated without any
// runtime bindings and always yields the same value
func evaluable(n Node) bool {
	switch n := n.(type) {
	case *Label, *LabelAttribute, *LabelTagProperty,
		*Attribute, *Property, *Vertex, *Edge, *Column,
		*UUID, *Variable, *VersionedVariable, *Aggregate:
		return false
	case *FunctionCall:
		return n.Pure()
	case *Unary:
		// ++ and -- write back to their operand
		return n.Op != KindUnaryIncr && n.Op != KindUnaryDecr
	}
	return true
}

// IsEvaluable returns whether n can be evaluated
// once, ahead of execution: it references no
// variables, properties, labels, aggregates
// or non-deterministic functions.
func IsEvaluable(n Node) bool {
	ok := true
	Walk(WalkFunc(func(x Node) bool {
		if ok && !evaluable(x) {
			ok = false
		}
		return ok
	}), n)
	return ok
}

// IsConstant returns whether n is a Constant.
func IsConstant(n Node) bool {
	_, ok := n.(*Constant)
	return ok
}

type folder struct {
	err error
}

func (f *folder) Walk(n Node) Rewriter {
	if f.err != nil {
		return nil
	}
	return f
}

// isContainer returns whether n is a list,
// set or map literal
func isContainer(n Node) bool {
	switch n.(type) {
	case *List, *Set, *Map:
		return true
	}
	return false
}

// settled returns whether n holds nothing
// left to fold: it is a Constant or a container
// literal whose items are all settled
func settled(n Node) bool {
	if IsConstant(n) {
		return true
	}
	if !isContainer(n) {
		return false
	}
	for _, c := range Children(n) {
		if !settled(c) {
			return false
		}
	}
	return true
}

func (f *folder) Rewrite(n Node) Node {
	// container literals keep their own text;
	// only their items are folded
	if f.err != nil || IsConstant(n) || isContainer(n) || !evaluable(n) {
		return n
	}
	for _, c := range Children(n) {
		if !settled(c) {
			return n
		}
	}
	v := n.Eval(&MapContext{})
	if v.IsBadNull() {
		f.err = foldError(n, v)
		return n
	}
	return &Constant{Val: v}
}

func foldError(n Node, v value.Value) error {
	switch v.NullKind() {
	case value.NullDivByZero:
		return errsemantic("/ by zero")
	case value.NullOverflow:
		return errsemantic("result of %s cannot be represented as an integer", ToString(n))
	}
	return errsemantic("`%s' is not a valid expression: evaluates to %s", ToString(n), v)
}

// Fold replaces every subtree of n that can be
// evaluated ahead of execution with a Constant
// holding its value and returns the new root.
// The arguments of aggregates are folded but
// aggregates themselves are not. List, set and
// map literals are kept as such with their
// items folded; an expression over them, such
// as 1 IN [1, 2], is still folded.
//
// n is rewritten in place. If a foldable
// subtree evaluates to a division by zero,
// an overflow or any other bad null, Fold
// stops and returns an error along with the
// partially folded tree.
func Fold(n Node) (Node, error) {
	f := &folder{}
	n = Rewrite(f, n)
	return n, f.err
}
