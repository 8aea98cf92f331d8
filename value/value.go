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
	"math"
	"strconv"
	"strings"

	"github.com/SnellerInc/graphexpr/date"
)

// Value is a dynamically typed value.
//
// The zero Value is EMPTY. Values are immutable;
// container values share their backing storage,
// so callers must not modify a container reached
// through a Value they did not construct.
type Value struct {
	typ  Type
	null NullKind
	i    int64
	f    float64
	s    string
	ref  any
}

var (
	// Empty is the EMPTY value.
	Empty = Value{typ: EmptyType}
	// Null is the ordinary NULL value.
	Null = Value{typ: NullType}
	// True and False are the boolean values.
	True  = Value{typ: BoolType, i: 1}
	False = Value{typ: BoolType}
)

// NullOf returns a NULL of the given kind.
func NullOf(k NullKind) Value { return Value{typ: NullType, null: k} }

// BadType returns the NULL produced by a type mismatch.
func BadType() Value { return NullOf(NullBadType) }

// Bool returns a boolean value.
func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

// Int returns an integer value.
func Int(i int64) Value { return Value{typ: IntType, i: i} }

// Float returns a floating point value.
func Float(f float64) Value { return Value{typ: FloatType, f: f} }

// String returns a string value.
func String(s string) Value { return Value{typ: StringType, s: s} }

// FromDate returns a DATE value.
func FromDate(d date.Date) Value { return Value{typ: DateType, ref: d} }

// FromTime returns a TIME value.
func FromTime(t date.Time) Value { return Value{typ: TimeType, ref: t} }

// FromDateTime returns a DATETIME value.
func FromDateTime(dt date.DateTime) Value { return Value{typ: DateTimeType, ref: dt} }

// FromList returns a LIST value backed by l.
func FromList(l *List) Value { return Value{typ: ListType, ref: l} }

// FromSet returns a SET value backed by s.
func FromSet(s *Set) Value { return Value{typ: SetType, ref: s} }

// FromMap returns a MAP value backed by m.
func FromMap(m *Map) Value { return Value{typ: MapType, ref: m} }

// FromVertex returns a VERTEX value.
func FromVertex(v *Vertex) Value { return Value{typ: VertexType, ref: v} }

// FromEdge returns an EDGE value.
func FromEdge(e *Edge) Value { return Value{typ: EdgeType, ref: e} }

// FromPath returns a PATH value.
func FromPath(p *Path) Value { return Value{typ: PathType, ref: p} }

// FromDataSet returns a DATASET value.
func FromDataSet(d *DataSet) Value { return Value{typ: DataSetType, ref: d} }

// ListOf returns a LIST holding vs.
func ListOf(vs ...Value) Value { return FromList(&List{Values: vs}) }

// SetOf returns a SET holding the distinct members of vs.
func SetOf(vs ...Value) Value {
	s := NewSet()
	for i := range vs {
		s.Add(vs[i])
	}
	return FromSet(s)
}

// MapOf returns a MAP holding kvs.
func MapOf(kvs map[string]Value) Value {
	m := NewMap()
	for k, v := range kvs {
		m.Set(k, v)
	}
	return FromMap(m)
}

// Type returns the type of v.
func (v Value) Type() Type {
	if v.typ == 0 {
		return EmptyType
	}
	return v.typ
}

// NullKind returns the kind of NULL v is.
// It is meaningful only when v.IsNull().
func (v Value) NullKind() NullKind { return v.null }

// IsEmpty returns whether v is EMPTY.
func (v Value) IsEmpty() bool { return v.typ == EmptyType || v.typ == 0 }

// IsNull returns whether v is a NULL of any kind.
func (v Value) IsNull() bool { return v.typ == NullType }

// IsBadNull returns whether v is a NULL
// signaling a failure (anything but NullNormal).
func (v Value) IsBadNull() bool { return v.typ == NullType && v.null != NullNormal }

// IsAbnormal returns whether v is NULL or EMPTY.
func (v Value) IsAbnormal() bool { return v.IsNull() || v.IsEmpty() }

// IsNumeric returns whether v is an INT or a FLOAT.
func (v Value) IsNumeric() bool { return v.typ&NumericType != 0 }

// IsBool returns whether v is a BOOL.
func (v Value) IsBool() bool { return v.typ == BoolType }

// IsInt returns whether v is an INT.
func (v Value) IsInt() bool { return v.typ == IntType }

// IsFloat returns whether v is a FLOAT.
func (v Value) IsFloat() bool { return v.typ == FloatType }

// IsString returns whether v is a STRING.
func (v Value) IsString() bool { return v.typ == StringType }

// IsTrue returns whether v is the boolean true.
func (v Value) IsTrue() bool { return v.typ == BoolType && v.i != 0 }

// IsFalse returns whether v is the boolean false.
func (v Value) IsFalse() bool { return v.typ == BoolType && v.i == 0 }

// AsBool returns the boolean held by v.
func (v Value) AsBool() bool { return v.i != 0 }

// AsInt returns the integer held by v.
func (v Value) AsInt() int64 { return v.i }

// AsFloat returns the float held by v,
// converting an integer if necessary.
func (v Value) AsFloat() float64 {
	if v.typ == IntType {
		return float64(v.i)
	}
	return v.f
}

// AsString returns the string held by v.
func (v Value) AsString() string { return v.s }

// AsDate returns the date held by v.
func (v Value) AsDate() date.Date {
	d, _ := v.ref.(date.Date)
	return d
}

// AsTime returns the time of day held by v.
func (v Value) AsTime() date.Time {
	t, _ := v.ref.(date.Time)
	return t
}

// AsDateTime returns the timestamp held by v.
func (v Value) AsDateTime() date.DateTime {
	dt, _ := v.ref.(date.DateTime)
	return dt
}

// AsList returns the list held by v.
func (v Value) AsList() *List {
	l, _ := v.ref.(*List)
	return l
}

// AsSet returns the set held by v.
func (v Value) AsSet() *Set {
	s, _ := v.ref.(*Set)
	return s
}

// AsMap returns the map held by v.
func (v Value) AsMap() *Map {
	m, _ := v.ref.(*Map)
	return m
}

// AsVertex returns the vertex held by v.
func (v Value) AsVertex() *Vertex {
	x, _ := v.ref.(*Vertex)
	return x
}

// AsEdge returns the edge held by v.
func (v Value) AsEdge() *Edge {
	e, _ := v.ref.(*Edge)
	return e
}

// AsPath returns the path held by v.
func (v Value) AsPath() *Path {
	p, _ := v.ref.(*Path)
	return p
}

// AsDataSet returns the data set held by v.
func (v Value) AsDataSet() *DataSet {
	d, _ := v.ref.(*DataSet)
	return d
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "NaN"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// String returns the canonical text of v.
// Strings are double-quoted.
func (v Value) String() string {
	var dst strings.Builder
	v.text(&dst)
	return dst.String()
}

// Raw is like String, except that
// strings are returned without quotes.
func (v Value) Raw() string {
	if v.typ == StringType {
		return v.s
	}
	return v.String()
}

func (v Value) text(dst *strings.Builder) {
	switch v.typ {
	case 0, EmptyType:
		dst.WriteString("__EMPTY__")
	case NullType:
		dst.WriteString(v.null.String())
	case BoolType:
		dst.WriteString(strconv.FormatBool(v.AsBool()))
	case IntType:
		dst.WriteString(strconv.FormatInt(v.i, 10))
	case FloatType:
		dst.WriteString(formatFloat(v.f))
	case StringType:
		dst.WriteByte('"')
		dst.WriteString(v.s)
		dst.WriteByte('"')
	case DateType:
		dst.WriteString(v.AsDate().String())
	case TimeType:
		dst.WriteString(v.AsTime().String())
	case DateTimeType:
		dst.WriteString(v.AsDateTime().String())
	case ListType:
		v.AsList().text(dst)
	case SetType:
		v.AsSet().text(dst)
	case MapType:
		v.AsMap().text(dst)
	case VertexType:
		v.AsVertex().text(dst)
	case EdgeType:
		v.AsEdge().text(dst)
	case PathType:
		v.AsPath().text(dst)
	case DataSetType:
		v.AsDataSet().text(dst)
	default:
		dst.WriteString("__UNKNOWN__")
	}
}
