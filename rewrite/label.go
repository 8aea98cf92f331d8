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
	"strings"

	"github.com/SnellerInc/graphexpr/expr"
)

// AliasType is the kind of object a pattern
// alias is bound to.
type AliasType uint8

const (
	AliasNode AliasType = iota
	AliasEdge
	AliasPath
	AliasEdgeList
	AliasRuntime
)

var aliasNames = [...]string{
	AliasNode:     "node",
	AliasEdge:     "edge",
	AliasPath:     "path",
	AliasEdgeList: "edge list",
	AliasRuntime:  "runtime",
}

func (a AliasType) String() string {
	if int(a) < len(aliasNames) {
		return aliasNames[a]
	}
	return "unknown"
}

// attrName returns the name held by the right
// side of an attribute: a label or a string.
func attrName(n expr.Node) (string, bool) {
	switch n := n.(type) {
	case *expr.Label:
		return n.Name, true
	case *expr.Constant:
		if n.Val.IsString() {
			return n.Val.AsString(), true
		}
	}
	return "", false
}

// RewriteAttr2LabelTagProp rewrites v.tag.prop,
// where v is a node alias, into a label tag
// property that reads the tag property of the
// vertex bound to the column v.
func RewriteAttr2LabelTagProp(n expr.Node, aliases map[string]AliasType) expr.Node {
	match := func(x expr.Node) bool {
		a, ok := x.(*expr.Attribute)
		if !ok {
			return false
		}
		la, ok := a.Left.(*expr.LabelAttribute)
		if !ok {
			return false
		}
		if _, ok := attrName(a.Right); !ok {
			return false
		}
		t, ok := aliases[la.Left.Name]
		return ok && t == AliasNode
	}
	return expr.Transform(n, match, func(x expr.Node) expr.Node {
		a := x.(*expr.Attribute)
		la := a.Left.(*expr.LabelAttribute)
		prop, _ := attrName(a.Right)
		return &expr.LabelTagProperty{
			Label: expr.VarProp("", la.Left.Name),
			Tag:   la.Name(),
			Prop:  prop,
		}
	})
}

var edgeFuncAttrs = map[string]string{
	"rank":            "_rank",
	"none_direct_src": "_src",
	"none_direct_dst": "_dst",
}

// RewriteEdgePropFunc2LabelAttribute rewrites
// rank(e), none_direct_src(e) and
// none_direct_dst(e), where e is an edge alias,
// into e._rank, e._src and e._dst.
func RewriteEdgePropFunc2LabelAttribute(n expr.Node, aliases map[string]AliasType) expr.Node {
	match := func(x expr.Node) bool {
		f, ok := x.(*expr.FunctionCall)
		if !ok || len(f.Args) != 1 {
			return false
		}
		if _, ok := edgeFuncAttrs[strings.ToLower(f.Name)]; !ok {
			return false
		}
		l, ok := f.Args[0].(*expr.Label)
		if !ok {
			return false
		}
		t, ok := aliases[l.Name]
		return ok && t == AliasEdge
	}
	return expr.Transform(n, match, func(x expr.Node) expr.Node {
		f := x.(*expr.FunctionCall)
		l := f.Args[0].(*expr.Label)
		return expr.NewLabelAttribute(l.Name, edgeFuncAttrs[strings.ToLower(f.Name)])
	})
}

func isLabelAttribute(n expr.Node) bool {
	return n.Kind() == expr.KindLabelAttribute
}

// RewriteLabelAttr2TagProp rewrites every label
// attribute tag.prop into the tag property
// tag.prop, or into the attribute lookup
// VERTEX.tag.prop when toAttr is set.
func RewriteLabelAttr2TagProp(n expr.Node, toAttr bool) expr.Node {
	return expr.Transform(n, isLabelAttribute, func(x expr.Node) expr.Node {
		la := x.(*expr.LabelAttribute)
		if toAttr {
			tag := &expr.Attribute{Left: &expr.Vertex{Name: "VERTEX"}, Right: expr.String(la.Left.Name)}
			return &expr.Attribute{Left: tag, Right: expr.String(la.Name())}
		}
		return expr.TagProp(la.Left.Name, la.Name())
	})
}

// RewriteLabelAttr2EdgeProp rewrites every label
// attribute edge.prop into the edge property
// edge.prop, or into the attribute lookup
// EDGE.prop when toAttr is set.
func RewriteLabelAttr2EdgeProp(n expr.Node, toAttr bool) expr.Node {
	return expr.Transform(n, isLabelAttribute, func(x expr.Node) expr.Node {
		la := x.(*expr.LabelAttribute)
		if toAttr {
			return &expr.Attribute{Left: &expr.Edge{}, Right: expr.String(la.Name())}
		}
		return expr.EdgeProp(la.Left.Name, la.Name())
	})
}

// IsOneStepEdgeProp returns whether n reads a
// property of the first edge of the edge list
// bound to alias, i.e. $-.e[0].prop or $var.e[0].prop.
func IsOneStepEdgeProp(alias string, n expr.Node) bool {
	a, ok := n.(*expr.Attribute)
	if !ok {
		return false
	}
	if c, ok := a.Right.(*expr.Constant); !ok || !c.Val.IsString() {
		return false
	}
	s, ok := a.Left.(*expr.Subscript)
	if !ok {
		return false
	}
	p, ok := s.Left.(*expr.Property)
	if !ok || (p.Op != expr.KindInputProperty && p.Op != expr.KindVarProperty) || p.Prop != alias {
		return false
	}
	idx, ok := s.Right.(*expr.Constant)
	return ok && idx.Val.IsInt() && idx.Val.AsInt() == 0
}

// RewriteEdgePropertyFilter rewrites the one-step
// edge property reads of alias in n (see
// IsOneStepEdgeProp) into edge properties of
// any edge type, so that $-.e[0].likeness
// becomes *.likeness.
func RewriteEdgePropertyFilter(alias string, n expr.Node) expr.Node {
	match := func(x expr.Node) bool { return IsOneStepEdgeProp(alias, x) }
	return expr.Transform(n, match, func(x expr.Node) expr.Node {
		prop := x.(*expr.Attribute).Right.(*expr.Constant).Val.AsString()
		return expr.EdgeProp("*", prop)
	})
}

// RewriteVertexPropertyFilter rewrites the label
// tag properties of the vertex column node in n
// into tag properties, so that $-.v.player.name
// becomes player.name.
func RewriteVertexPropertyFilter(node string, n expr.Node) expr.Node {
	match := func(x expr.Node) bool {
		l, ok := x.(*expr.LabelTagProperty)
		if !ok {
			return false
		}
		p, ok := l.Label.(*expr.Property)
		return ok && (p.Op == expr.KindInputProperty || p.Op == expr.KindVarProperty) && p.Prop == node
	}
	return expr.Transform(n, match, func(x expr.Node) expr.Node {
		l := x.(*expr.LabelTagProperty)
		return expr.TagProp(l.Tag, l.Prop)
	})
}
