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

// GroupSuite describes how a projection
// with aggregates is grouped.
type GroupSuite struct {
	// GroupKeys are the expressions
	// rows are grouped by.
	GroupKeys []Node
	// GroupItems are the values computed
	// per group: the group keys and
	// the aggregates, in order.
	GroupItems []Node
}

// ExtractGroupSuite splits n into group keys and
// group items. Every aggregate in n is a group
// item; every largest subtree that contains no
// aggregate and cannot be evaluated ahead of
// execution is both a key and an item; subtrees
// that can be evaluated ahead of execution are
// neither. The returned nodes are copies.
func ExtractGroupSuite(n Node) GroupSuite {
	var g GroupSuite
	g.extract(n)
	return g
}

func (g *GroupSuite) extract(n Node) {
	if n == nil {
		return
	}
	if _, ok := n.(*Aggregate); ok {
		g.GroupItems = append(g.GroupItems, n.Clone())
		return
	}
	if FindAny(n, KindAggregate) == nil {
		if !IsEvaluable(n) {
			g.GroupKeys = append(g.GroupKeys, n.Clone())
			g.GroupItems = append(g.GroupItems, n.Clone())
		}
		return
	}
	for _, c := range Children(n) {
		g.extract(c)
	}
}
