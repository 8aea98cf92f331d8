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
	"errors"
	"fmt"

	"github.com/SnellerInc/graphexpr/internal/wire"
	"github.com/SnellerInc/graphexpr/value"
)

// FormatVersion is the first byte of
// every encoded expression.
const FormatVersion = 1

// ErrNotEncodable is returned when encoding a tree
// that still contains validator-only nodes (labels).
var ErrNotEncodable = errors.New("expression cannot be encoded")

func notEncodable(n Node) error {
	return fmt.Errorf("%w: %s `%s'", ErrNotEncodable, n.Kind(), ToString(n))
}

// Encode returns the persisted form of n: the
// format version followed by the kind of each
// node and its fields, children in order.
func Encode(n Node) ([]byte, error) {
	var buf wire.Buffer
	buf.WriteTag(FormatVersion)
	if err := n.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// encodeNodes encodes each node in order;
// a nil node is written as kind 0
func encodeNodes(dst *wire.Buffer, lst ...Node) error {
	for _, n := range lst {
		if n == nil {
			dst.WriteTag(0)
			continue
		}
		if err := n.Encode(dst); err != nil {
			return err
		}
	}
	return nil
}

func encodeList(dst *wire.Buffer, lst []Node) error {
	dst.BeginList(len(lst))
	return encodeNodes(dst, lst...)
}

// Decode parses an expression written by Encode.
func Decode(p []byte) (Node, error) {
	r := wire.NewReader(p)
	ver, err := r.ReadTag()
	if err != nil {
		return nil, fmt.Errorf("expr.Decode: %w", err)
	}
	if ver != FormatVersion {
		return nil, fmt.Errorf("expr.Decode: unsupported format version %d", ver)
	}
	d := &decoder{r: r}
	n := d.must()
	if d.err == nil && r.Len() != 0 {
		d.fail(fmt.Errorf("%d trailing bytes", r.Len()))
	}
	if d.err != nil {
		return nil, fmt.Errorf("expr.Decode: %w", d.err)
	}
	return n, nil
}

// decoder latches the first error so that
// nodes can be decoded field by field and
// checked once at the end
type decoder struct {
	r     *wire.Reader
	err   error
	depth int
}

func (d *decoder) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

func (d *decoder) tag() byte {
	t, err := d.r.ReadTag()
	d.fail(err)
	return t
}

func (d *decoder) uv() uint64 {
	u, err := d.r.ReadUvarint()
	d.fail(err)
	return u
}

func (d *decoder) i64() int64 {
	i, err := d.r.ReadInt()
	d.fail(err)
	return i
}

func (d *decoder) boolean() bool {
	b, err := d.r.ReadBool()
	d.fail(err)
	return b
}

func (d *decoder) str() string {
	s, err := d.r.ReadString()
	d.fail(err)
	return s
}

func (d *decoder) count() int {
	n, err := d.r.ReadLen()
	d.fail(err)
	return n
}

// must decodes a node that may not be nil
func (d *decoder) must() Node {
	n := d.node()
	if n == nil && d.err == nil {
		d.fail(errors.New("missing required node"))
	}
	return n
}

func (d *decoder) nodes() []Node {
	n := d.count()
	if d.err != nil {
		return nil
	}
	out := make([]Node, n)
	for i := range out {
		out[i] = d.must()
	}
	return out
}

// node decodes an optional node
func (d *decoder) node() Node {
	k := Kind(d.tag())
	if d.err != nil || k == 0 {
		return nil
	}
	d.depth++
	defer func() { d.depth-- }()
	if d.depth > DefaultMaxDepth {
		d.fail(&DepthError{Max: DefaultMaxDepth})
		return nil
	}
	switch {
	case k.IsArithmetic():
		return &Arithmetic{Op: k, Left: d.must(), Right: d.must()}
	case k.IsUnary():
		return &Unary{Op: k, Operand: d.must()}
	case k.IsRelational():
		return &Relational{Op: k, Left: d.must(), Right: d.must()}
	case k.IsLogical():
		return &Logical{Op: k, Operands: d.nodes()}
	case k.IsProperty():
		return &Property{Op: k, Ref: d.str(), Prop: d.str()}
	}
	switch k {
	case KindConstant:
		v, err := value.Decode(d.r)
		d.fail(err)
		return &Constant{Val: v}
	case KindTypeCasting:
		return &TypeCasting{To: value.Type(d.uv()), Operand: d.must()}
	case KindSubscript:
		return &Subscript{Left: d.must(), Right: d.must()}
	case KindSubscriptRange:
		return &SubscriptRange{List: d.must(), Lo: d.node(), Hi: d.node()}
	case KindAttribute:
		return &Attribute{Left: d.must(), Right: d.must()}
	case KindColumn:
		return &Column{Index: int(d.i64())}
	case KindVertex:
		return &Vertex{Name: d.str()}
	case KindEdge:
		return &Edge{}
	case KindUUID:
		return &UUID{}
	case KindVariable:
		return &Variable{Name: d.str(), Inner: d.boolean()}
	case KindVersionedVariable:
		return &VersionedVariable{Name: d.str(), Version: d.must()}
	case KindList:
		return &List{Items: d.nodes()}
	case KindSet:
		return &Set{Items: d.nodes()}
	case KindPathBuild:
		return &PathBuild{Items: d.nodes()}
	case KindMap:
		n := d.count()
		if d.err != nil {
			return nil
		}
		m := &Map{Items: make([]MapItem, n)}
		for i := range m.Items {
			m.Items[i] = MapItem{Key: d.str(), Val: d.must()}
		}
		return m
	case KindCase:
		c := &Case{Ternary: d.boolean(), Cond: d.node(), Default: d.node()}
		n := d.count()
		if d.err != nil {
			return nil
		}
		c.Whens = make([]When, n)
		for i := range c.Whens {
			c.Whens[i] = When{When: d.must(), Then: d.must()}
		}
		return c
	case KindFunctionCall:
		return &FunctionCall{Name: d.str(), Args: d.nodes()}
	case KindAggregate:
		return &Aggregate{Name: d.str(), Distinct: d.boolean(), Arg: d.node()}
	case KindListComprehension:
		return &ListComprehension{Var: d.str(), Collection: d.must(), Filter: d.node(), Mapping: d.node()}
	case KindPredicate:
		return &Predicate{Name: d.str(), Var: d.str(), Collection: d.must(), Filter: d.node()}
	case KindReduce:
		return &Reduce{Acc: d.str(), Var: d.str(), Initial: d.must(), Collection: d.must(), Mapping: d.must()}
	case KindLabel, KindLabelAttribute, KindLabelTagProperty:
		d.fail(fmt.Errorf("%w: %s", ErrNotEncodable, k))
		return nil
	}
	d.fail(fmt.Errorf("unknown expression kind %d", k))
	return nil
}
