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
package rewrite

import (
	"github.com/SnellerInc/graphexpr/expr"
	"github.com/SnellerInc/graphexpr/value"
)

// StepCondition returns the loop condition
// (++($loopStep)<=steps).
func StepCondition(loopStep string, steps uint32) expr.Node {
	return expr.Compare(expr.KindRelLE,
		expr.NewUnary(expr.KindUnaryIncr, expr.Var(loopStep)),
		expr.Int(int64(steps)))
}

// NeZeroCondition returns (size($v)!=0).
func NeZeroCondition(v string) expr.Node {
	return expr.Compare(expr.KindRelNE, expr.Call("size", expr.Var(v)), expr.Int(0))
}

// ZeroCondition returns (size($v)==0).
func ZeroCondition(v string) expr.Node {
	return expr.Eq(expr.Call("size", expr.Var(v)), expr.Int(0))
}

// EqualCondition returns ($v==val).
func EqualCondition(v string, val value.Value) expr.Node {
	return expr.Eq(expr.Var(v), expr.Const(val))
}
