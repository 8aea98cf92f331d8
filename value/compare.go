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
	"bytes"
	"encoding/binary"
	"math"
	"strings"

	"github.com/dchest/siphash"
	"golang.org/x/exp/slices"
)

// Epsilon is the tolerance used when
// comparing a FLOAT with another number.
const Epsilon = 1e-10

func numEqual(a, b Value) bool {
	if a.typ == IntType && b.typ == IntType {
		return a.i == b.i
	}
	return math.Abs(a.AsFloat()-b.AsFloat()) < Epsilon
}

func numCompare(a, b Value) int {
	if a.typ == IntType && b.typ == IntType {
		switch {
		case a.i < b.i:
			return -1
		case a.i > b.i:
			return 1
		}
		return 0
	}
	if numEqual(a, b) {
		return 0
	}
	if a.AsFloat() < b.AsFloat() {
		return -1
	}
	return 1
}

// Equals reports whether a and b are structurally
// equal. Unlike Equal it never produces NULL:
// two NULLs of the same kind are equal, as are
// two EMPTYs. Numbers of different types compare
// by value.
func Equals(a, b Value) bool {
	at, bt := a.Type(), b.Type()
	if at&NumericType != 0 && bt&NumericType != 0 {
		return numEqual(a, b)
	}
	if at != bt {
		return false
	}
	switch at {
	case EmptyType:
		return true
	case NullType:
		return a.null == b.null
	case BoolType:
		return a.i == b.i
	case StringType:
		return a.s == b.s
	case DateType:
		return a.AsDate() == b.AsDate()
	case TimeType:
		return a.AsTime() == b.AsTime()
	case DateTimeType:
		return a.AsDateTime() == b.AsDateTime()
	case ListType:
		return valuesEqual(a.AsList().Values, b.AsList().Values)
	case SetType:
		x, y := a.AsSet(), b.AsSet()
		if x.Len() != y.Len() {
			return false
		}
		for _, v := range x.Values() {
			if !y.Contains(v) {
				return false
			}
		}
		return true
	case MapType:
		return propsEqual(a.AsMap().kvs, b.AsMap().kvs)
	case VertexType:
		return Equals(a.AsVertex().Vid, b.AsVertex().Vid)
	case EdgeType:
		return edgeEqual(a.AsEdge(), b.AsEdge())
	case PathType:
		return pathEqual(a.AsPath(), b.AsPath())
	case DataSetType:
		x, y := a.AsDataSet(), b.AsDataSet()
		if len(x.Rows) != len(y.Rows) || !slices.Equal(x.ColNames, y.ColNames) {
			return false
		}
		for i := range x.Rows {
			if !valuesEqual(x.Rows[i], y.Rows[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func valuesEqual(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equals(a[i], b[i]) {
			return false
		}
	}
	return true
}

func propsEqual(a, b map[string]Value) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		w, ok := b[k]
		if !ok || !Equals(v, w) {
			return false
		}
	}
	return true
}

// an edge equals its own reverse
func edgeEqual(a, b *Edge) bool {
	if a.Ranking != b.Ranking {
		return false
	}
	if a.Type == b.Type {
		return Equals(a.Src, b.Src) && Equals(a.Dst, b.Dst)
	}
	if a.Type == -b.Type {
		return Equals(a.Src, b.Dst) && Equals(a.Dst, b.Src)
	}
	return false
}

func pathEqual(a, b *Path) bool {
	if !Equals(a.Src.Vid, b.Src.Vid) || len(a.Steps) != len(b.Steps) {
		return false
	}
	for i := range a.Steps {
		x, y := &a.Steps[i], &b.Steps[i]
		if x.Type != y.Type || x.Ranking != y.Ranking || !Equals(x.Dst.Vid, y.Dst.Vid) {
			return false
		}
	}
	return true
}

func cmpInt[T ~int | ~int32 | ~int64 | ~uint32 | ~uint8](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Compare imposes a total order on values.
// Numbers compare by value regardless of type;
// otherwise values of different types are ordered
// by type, and values of the same type by content.
func Compare(a, b Value) int {
	at, bt := a.Type(), b.Type()
	if at&NumericType != 0 && bt&NumericType != 0 {
		return numCompare(a, b)
	}
	if at != bt {
		return cmpInt(at, bt)
	}
	switch at {
	case NullType:
		return cmpInt(a.null, b.null)
	case BoolType:
		return cmpInt(a.i, b.i)
	case StringType:
		return strings.Compare(a.s, b.s)
	case DateType:
		return a.AsDate().Compare(b.AsDate())
	case TimeType:
		return a.AsTime().Compare(b.AsTime())
	case DateTimeType:
		return a.AsDateTime().Compare(b.AsDateTime())
	case ListType:
		return compareValues(a.AsList().Values, b.AsList().Values)
	case SetType:
		return compareValues(sortedValues(a.AsSet()), sortedValues(b.AsSet()))
	case MapType:
		x, y := a.AsMap(), b.AsMap()
		if c := cmpInt(x.Len(), y.Len()); c != 0 {
			return c
		}
		xk, yk := x.Keys(), y.Keys()
		for i := range xk {
			if c := strings.Compare(xk[i], yk[i]); c != 0 {
				return c
			}
			if c := Compare(x.kvs[xk[i]], y.kvs[yk[i]]); c != 0 {
				return c
			}
		}
		return 0
	case VertexType:
		return Compare(a.AsVertex().Vid, b.AsVertex().Vid)
	case EdgeType:
		xs, xd, xt := canonical(a.AsEdge())
		ys, yd, yt := canonical(b.AsEdge())
		if c := Compare(xs, ys); c != 0 {
			return c
		}
		if c := Compare(xd, yd); c != 0 {
			return c
		}
		if c := cmpInt(a.AsEdge().Ranking, b.AsEdge().Ranking); c != 0 {
			return c
		}
		return cmpInt(xt, yt)
	case PathType:
		x, y := a.AsPath(), b.AsPath()
		if c := Compare(x.Src.Vid, y.Src.Vid); c != 0 {
			return c
		}
		for i := 0; i < len(x.Steps) && i < len(y.Steps); i++ {
			if c := Compare(x.Steps[i].Dst.Vid, y.Steps[i].Dst.Vid); c != 0 {
				return c
			}
		}
		return cmpInt(len(x.Steps), len(y.Steps))
	case DataSetType:
		x, y := a.AsDataSet(), b.AsDataSet()
		if c := cmpInt(len(x.Rows), len(y.Rows)); c != 0 {
			return c
		}
		for i := range x.Rows {
			if c := compareValues(x.Rows[i], y.Rows[i]); c != 0 {
				return c
			}
		}
	}
	return 0
}

// canonical returns the endpoints and type of e
// as seen from the forward direction
func canonical(e *Edge) (src, dst Value, typ int32) {
	if e.Type < 0 {
		return e.Dst, e.Src, -e.Type
	}
	return e.Src, e.Dst, e.Type
}

func sortedValues(s *Set) []Value {
	out := slices.Clone(s.Values())
	slices.SortFunc(out, Compare)
	return out
}

func compareValues(a, b []Value) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmpInt(len(a), len(b))
}

const (
	hashk0 = 0x5d1ec810febed702
	hashk1 = 0x40fd7fee17262f71
)

// Identical reports whether a and b are Equals
// and hold exactly the same numbers. An INT and
// an integral FLOAT of the same value are identical;
// two FLOATs within Epsilon of each other are not.
//
// Unlike Equals, Identical is transitive, so it is
// the equality used by Set and by grouping keys.
func Identical(a, b Value) bool {
	if !Equals(a, b) {
		return false
	}
	var x, y [32]byte
	return bytes.Equal(AppendHashKey(x[:0], a), AppendHashKey(y[:0], b))
}

// Hash returns a 64-bit hash of v.
// Values that are Identical hash equally.
func Hash(v Value) uint64 {
	return siphash.Hash(hashk0, hashk1, AppendHashKey(nil, v))
}

// AppendHashKey appends a byte string to dst
// that identifies v for hashing purposes.
func AppendHashKey(dst []byte, v Value) []byte {
	t := v.Type()
	if t == FloatType {
		f := v.f
		if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
			t, v = IntType, Int(int64(f))
		}
	}
	dst = binary.LittleEndian.AppendUint32(dst, uint32(t))
	switch t {
	case NullType:
		dst = append(dst, byte(v.null))
	case BoolType, IntType:
		dst = binary.LittleEndian.AppendUint64(dst, uint64(v.i))
	case FloatType:
		dst = binary.LittleEndian.AppendUint64(dst, math.Float64bits(v.f))
	case StringType:
		dst = binary.AppendUvarint(dst, uint64(len(v.s)))
		dst = append(dst, v.s...)
	case DateType:
		dst = v.AsDate().Append(dst)
	case TimeType:
		dst = v.AsTime().Append(dst)
	case DateTimeType:
		dst = v.AsDateTime().Append(dst)
	case ListType:
		dst = appendHashKeys(dst, v.AsList().Values)
	case SetType:
		// order-independent
		var sum uint64
		for _, m := range v.AsSet().Values() {
			sum += Hash(m)
		}
		dst = binary.LittleEndian.AppendUint64(dst, sum)
	case MapType:
		m := v.AsMap()
		for _, k := range m.Keys() {
			dst = binary.AppendUvarint(dst, uint64(len(k)))
			dst = append(dst, k...)
			dst = AppendHashKey(dst, m.kvs[k])
		}
	case VertexType:
		dst = AppendHashKey(dst, v.AsVertex().Vid)
	case EdgeType:
		src, to, typ := canonical(v.AsEdge())
		dst = AppendHashKey(dst, src)
		dst = AppendHashKey(dst, to)
		dst = binary.LittleEndian.AppendUint32(dst, uint32(typ))
		dst = binary.LittleEndian.AppendUint64(dst, uint64(v.AsEdge().Ranking))
	case PathType:
		p := v.AsPath()
		dst = AppendHashKey(dst, p.Src.Vid)
		for i := range p.Steps {
			dst = AppendHashKey(dst, p.Steps[i].Dst.Vid)
		}
	case DataSetType:
		for _, row := range v.AsDataSet().Rows {
			dst = appendHashKeys(dst, row)
		}
	}
	return dst
}

func appendHashKeys(dst []byte, vs []Value) []byte {
	dst = binary.AppendUvarint(dst, uint64(len(vs)))
	for i := range vs {
		dst = AppendHashKey(dst, vs[i])
	}
	return dst
}
