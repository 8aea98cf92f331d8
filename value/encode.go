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

package value

import (
	"fmt"
	"math/bits"

	"github.com/SnellerInc/graphexpr/date"
	"github.com/SnellerInc/graphexpr/internal/wire"
)

// Encode writes v to dst. The encoding starts
// with a tag byte identifying the type of v.
func (v Value) Encode(dst *wire.Buffer) {
	t := v.Type()
	dst.WriteTag(byte(bits.TrailingZeros32(uint32(t))))
	switch t {
	case NullType:
		dst.WriteTag(byte(v.null))
	case BoolType:
		dst.WriteBool(v.AsBool())
	case IntType:
		dst.WriteInt(v.i)
	case FloatType:
		dst.WriteFloat64(v.f)
	case StringType:
		dst.WriteString(v.s)
	case DateType:
		encodeDate(dst, v.AsDate())
	case TimeType:
		encodeTime(dst, v.AsTime())
	case DateTimeType:
		dt := v.AsDateTime()
		encodeDate(dst, dt.Date())
		encodeTime(dst, dt.Clock())
	case ListType:
		encodeValues(dst, v.AsList().Values)
	case SetType:
		encodeValues(dst, v.AsSet().Values())
	case MapType:
		encodeProps(dst, v.AsMap().kvs)
	case VertexType:
		encodeVertex(dst, v.AsVertex())
	case EdgeType:
		e := v.AsEdge()
		e.Src.Encode(dst)
		e.Dst.Encode(dst)
		dst.WriteInt(int64(e.Type))
		dst.WriteString(e.Name)
		dst.WriteInt(e.Ranking)
		encodeProps(dst, e.Props)
	case PathType:
		p := v.AsPath()
		encodeVertex(dst, &p.Src)
		dst.BeginList(len(p.Steps))
		for i := range p.Steps {
			s := &p.Steps[i]
			encodeVertex(dst, &s.Dst)
			dst.WriteInt(int64(s.Type))
			dst.WriteString(s.Name)
			dst.WriteInt(s.Ranking)
			encodeProps(dst, s.Props)
		}
	case DataSetType:
		d := v.AsDataSet()
		dst.BeginList(len(d.ColNames))
		for _, c := range d.ColNames {
			dst.WriteString(c)
		}
		dst.BeginList(len(d.Rows))
		for _, row := range d.Rows {
			encodeValues(dst, row)
		}
	}
}

func encodeDate(dst *wire.Buffer, d date.Date) {
	dst.WriteInt(int64(d.Year()))
	dst.WriteUvarint(uint64(d.Month()))
	dst.WriteUvarint(uint64(d.Day()))
}

func encodeTime(dst *wire.Buffer, t date.Time) {
	dst.WriteUvarint(uint64(t.Hour()))
	dst.WriteUvarint(uint64(t.Minute()))
	dst.WriteUvarint(uint64(t.Second()))
	dst.WriteUvarint(uint64(t.Microsecond()))
}

func encodeValues(dst *wire.Buffer, vs []Value) {
	dst.BeginList(len(vs))
	for i := range vs {
		vs[i].Encode(dst)
	}
}

func encodeProps(dst *wire.Buffer, m map[string]Value) {
	keys := sortedKeys(m)
	dst.BeginList(len(keys))
	for _, k := range keys {
		dst.WriteString(k)
		m[k].Encode(dst)
	}
}

func encodeVertex(dst *wire.Buffer, v *Vertex) {
	v.Vid.Encode(dst)
	dst.BeginList(len(v.Tags))
	for i := range v.Tags {
		dst.WriteString(v.Tags[i].Name)
		encodeProps(dst, v.Tags[i].Props)
	}
}

// decoder latches the first error so that
// the decoding functions can read fields
// unconditionally and check once at the end
type decoder struct {
	r   *wire.Reader
	err error
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

func (d *decoder) i64() int64 {
	i, err := d.r.ReadInt()
	d.fail(err)
	return i
}

func (d *decoder) uv() int {
	u, err := d.r.ReadUvarint()
	d.fail(err)
	return int(u)
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

// Decode reads a value written by Value.Encode.
func Decode(r *wire.Reader) (Value, error) {
	d := &decoder{r: r}
	v := d.value()
	if d.err != nil {
		return Value{}, fmt.Errorf("value.Decode: %w", d.err)
	}
	return v, nil
}

func (d *decoder) value() Value {
	tag := d.tag()
	if d.err != nil {
		return Value{}
	}
	if tag > byte(bits.TrailingZeros32(uint32(NullType))) {
		d.fail(fmt.Errorf("unknown value tag %d", tag))
		return Value{}
	}
	switch Type(1) << tag {
	case EmptyType:
		return Empty
	case NullType:
		k := NullKind(d.tag())
		if k > NullOutOfRange {
			d.fail(fmt.Errorf("unknown null kind %d", k))
		}
		return NullOf(k)
	case BoolType:
		b, err := d.r.ReadBool()
		d.fail(err)
		return Bool(b)
	case IntType:
		return Int(d.i64())
	case FloatType:
		f, err := d.r.ReadFloat64()
		d.fail(err)
		return Float(f)
	case StringType:
		return String(d.str())
	case DateType:
		return FromDate(d.date())
	case TimeType:
		return FromTime(d.time())
	case DateTimeType:
		dt := d.date()
		return FromDateTime(date.Combine(dt, d.time()))
	case ListType:
		return FromList(&List{Values: d.values()})
	case SetType:
		return SetOf(d.values()...)
	case MapType:
		return FromMap(&Map{kvs: d.props()})
	case VertexType:
		v := d.vertex()
		return FromVertex(&v)
	case EdgeType:
		e := &Edge{}
		e.Src = d.value()
		e.Dst = d.value()
		e.Type = int32(d.i64())
		e.Name = d.str()
		e.Ranking = d.i64()
		e.Props = d.props()
		return FromEdge(e)
	case PathType:
		p := &Path{Src: d.vertex()}
		n := d.count()
		for i := 0; i < n && d.err == nil; i++ {
			var s Step
			s.Dst = d.vertex()
			s.Type = int32(d.i64())
			s.Name = d.str()
			s.Ranking = d.i64()
			s.Props = d.props()
			p.Steps = append(p.Steps, s)
		}
		return FromPath(p)
	case DataSetType:
		ds := &DataSet{}
		n := d.count()
		for i := 0; i < n && d.err == nil; i++ {
			ds.ColNames = append(ds.ColNames, d.str())
		}
		n = d.count()
		for i := 0; i < n && d.err == nil; i++ {
			ds.Rows = append(ds.Rows, d.values())
		}
		return FromDataSet(ds)
	}
	return Value{}
}

func (d *decoder) date() date.Date {
	y := d.i64()
	m := d.uv()
	day := d.uv()
	return date.NewDate(int(y), m, day)
}

func (d *decoder) time() date.Time {
	h := d.uv()
	m := d.uv()
	s := d.uv()
	us := d.uv()
	return date.NewTime(h, m, s, us)
}

func (d *decoder) values() []Value {
	n := d.count()
	if d.err != nil {
		return nil
	}
	out := make([]Value, 0, n)
	for i := 0; i < n && d.err == nil; i++ {
		out = append(out, d.value())
	}
	return out
}

func (d *decoder) props() map[string]Value {
	n := d.count()
	if d.err != nil {
		return nil
	}
	out := make(map[string]Value, n)
	for i := 0; i < n && d.err == nil; i++ {
		k := d.str()
		out[k] = d.value()
	}
	return out
}

func (d *decoder) vertex() Vertex {
	var v Vertex
	v.Vid = d.value()
	n := d.count()
	for i := 0; i < n && d.err == nil; i++ {
		t := Tag{Name: d.str()}
		t.Props = d.props()
		v.Tags = append(v.Tags, t)
	}
	return v
}
