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
)

func hasNot(n expr.Node) bool {
	return expr.FindAny(n, expr.KindUnaryNot) != nil
}

// conjoin joins ops with AND; it returns nil
// for no operands and the operand itself for one.
func conjoin(ops []expr.Node) expr.Node {
	switch len(ops) {
	case 0:
		return nil
	case 1:
		return ops[0]
	}
	return expr.And(ops...)
}

// SplitFilter splits the filter n into the part
// accepted by picker, which can be pushed down
// to a storage or scan operator, and the part
// that has to be evaluated after it, so that
// (picked AND remained) is equivalent to n.
// Either result is nil when it would be empty.
//
// The operands of a top-level AND are split
// individually; operands containing a NOT are
// never picked. An OR is split by distribution:
//
//	A OR (P AND R) => picked (A OR P), remained (A OR R)
//
// which is only possible when every disjunct but
// one is picked as a whole. The operands that
// could not be picked at all come first in the
// remainder, followed by the remainders of
// split ORs.
func SplitFilter(n expr.Node, picker func(expr.Node) bool) (picked, remained expr.Node) {
	switch {
	case isOr(n):
		return splitOr(n.(*expr.Logical), picker)
	case !isAnd(n):
		if picker(n) {
			return expr.Clone(n), nil
		}
		return nil, expr.Clone(n)
	}
	flat := FlattenInnerLogicalExpr(n).(*expr.Logical)
	var pick, rest, orRest []expr.Node
	for _, o := range flat.Operands {
		switch {
		case hasNot(o):
			rest = append(rest, o)
		case picker(o):
			pick = append(pick, o)
		case isOr(o):
			p, r := splitOr(o.(*expr.Logical), picker)
			if p == nil {
				rest = append(rest, o)
				continue
			}
			pick = append(pick, p)
			if r != nil {
				orRest = append(orRest, r)
			}
		default:
			rest = append(rest, o)
		}
	}
	return conjoin(pick), conjoin(append(rest, orRest...))
}

// splitOr splits the disjunction l.
// It returns (nil, copy of l) when l
// cannot be split.
func splitOr(l *expr.Logical, picker func(expr.Node) bool) (picked, remained expr.Node) {
	flat := FlattenInnerLogicalExpr(l).(*expr.Logical)
	partial := -1
	var p, r expr.Node
	for i, o := range flat.Operands {
		if !hasNot(o) && picker(o) {
			continue
		}
		if !isAnd(o) {
			return nil, flat
		}
		sp, sr := SplitFilter(o, picker)
		switch {
		case sp == nil:
			return nil, flat
		case sr == nil:
			flat.Operands[i] = sp
			continue
		case partial >= 0:
			return nil, flat
		}
		p, r, partial = sp, sr, i
	}
	if partial < 0 {
		return flat, nil
	}
	pick := make([]expr.Node, len(flat.Operands))
	rest := make([]expr.Node, len(flat.Operands))
	for i, o := range flat.Operands {
		if i == partial {
			pick[i], rest[i] = p, r
			continue
		}
		pick[i], rest[i] = o, expr.Clone(o)
	}
	return expr.Or(pick...), expr.Or(rest...)
}
