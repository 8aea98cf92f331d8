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

// Package wire implements the positional binary
// format used to persist expression trees.
//
// Every item is self-delimiting but untyped: the
// reader must know the shape of what it is reading.
// Unsigned integers are written as big-endian
// groups of seven bits with the high bit set on the
// final byte, signed integers are zig-zag encoded
// first, floats are eight big-endian bytes, and
// strings are a length followed by the raw bytes.
package wire

import (
	"encoding/binary"
	"io"
	"math"
	"math/bits"
)

// Buffer accumulates encoded items.
//
// The contents of Buffer can be inspected
// directly with Buffer.Bytes() or written
// to an io.Writer with Buffer.WriteTo.
type Buffer struct {
	buf []byte
}

func (b *Buffer) grow(n int) []byte {
	off := len(b.buf)
	if cap(b.buf)-off >= n {
		b.buf = b.buf[:off+n]
	} else {
		nb := make([]byte, off+n, n+(2*off))
		copy(nb, b.buf)
		b.buf = nb
	}
	return b.buf[off:]
}

func uvsize(value uint64) int {
	// oring in 1 only changes the
	// result for 0, which still needs a byte
	return (bits.Len64(value|1) + 6) / 7
}

// WriteUvarint writes an unsigned integer.
func (b *Buffer) WriteUvarint(u uint64) {
	dst := b.grow(uvsize(u))
	for i := len(dst) - 1; i >= 0; i-- {
		dst[i] = byte(u & 0x7f)
		u >>= 7
	}
	dst[len(dst)-1] |= 0x80
}

// WriteTag writes a single tag byte.
func (b *Buffer) WriteTag(t byte) {
	b.buf = append(b.buf, t)
}

// WriteBool writes a bool.
func (b *Buffer) WriteBool(v bool) {
	bt := byte(0)
	if v {
		bt = 1
	}
	b.buf = append(b.buf, bt)
}

// WriteInt writes a signed integer.
func (b *Buffer) WriteInt(i int64) {
	b.WriteUvarint(uint64(i<<1) ^ uint64(i>>63))
}

// WriteFloat64 writes a float64.
func (b *Buffer) WriteFloat64(f float64) {
	binary.BigEndian.PutUint64(b.grow(8), math.Float64bits(f))
}

// WriteString writes a length-prefixed string.
func (b *Buffer) WriteString(s string) {
	b.WriteUvarint(uint64(len(s)))
	copy(b.grow(len(s)), s)
}

// BeginList writes the number of items
// in a list that the caller writes next.
func (b *Buffer) BeginList(n int) {
	b.WriteUvarint(uint64(n))
}

// WriteTo implements io.WriterTo
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	i, err := w.Write(b.buf)
	return int64(i), err
}

// Bytes returns the current contents of the buffer.
func (b *Buffer) Bytes() []byte { return b.buf }

// Reset resets a buffer to its initial state.
func (b *Buffer) Reset() {
	b.buf = b.buf[:0]
}

// Size returns the number of bytes in the buffer.
func (b *Buffer) Size() int {
	return len(b.buf)
}
