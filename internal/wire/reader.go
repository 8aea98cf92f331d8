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

package wire

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// ErrTruncated is returned when the input
// ends in the middle of an item.
var ErrTruncated = errors.New("wire: truncated input")

// Reader decodes items written by a Buffer.
type Reader struct {
	buf []byte
	off int
}

// NewReader returns a Reader over p.
func NewReader(p []byte) *Reader {
	return &Reader{buf: p}
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int { return len(r.buf) - r.off }

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int { return r.off }

func (r *Reader) short(what string) error {
	return errors.Wrapf(ErrTruncated, "reading %s at offset %d", what, r.off)
}

// ReadTag reads one tag byte.
func (r *Reader) ReadTag() (byte, error) {
	if r.Len() < 1 {
		return 0, r.short("tag")
	}
	t := r.buf[r.off]
	r.off++
	return t, nil
}

// ReadUvarint reads an unsigned integer.
func (r *Reader) ReadUvarint() (uint64, error) {
	out := uint64(0)
	for i := r.off; i < len(r.buf) && i-r.off < 10; i++ {
		out <<= 7
		out += uint64(r.buf[i] & 0x7f)
		if r.buf[i]&0x80 != 0 {
			r.off = i + 1
			return out, nil
		}
	}
	return 0, r.short("varint")
}

// ReadInt reads a signed integer.
func (r *Reader) ReadInt() (int64, error) {
	u, err := r.ReadUvarint()
	if err != nil {
		return 0, err
	}
	return int64(u>>1) ^ -int64(u&1), nil
}

// ReadBool reads a bool.
func (r *Reader) ReadBool() (bool, error) {
	t, err := r.ReadTag()
	if err != nil {
		return false, err
	}
	switch t {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, errors.Errorf("wire: invalid bool byte %#x at offset %d", t, r.off-1)
}

// ReadFloat64 reads a float64.
func (r *Reader) ReadFloat64() (float64, error) {
	if r.Len() < 8 {
		return 0, r.short("float")
	}
	u := binary.BigEndian.Uint64(r.buf[r.off:])
	r.off += 8
	return math.Float64frombits(u), nil
}

// ReadString reads a length-prefixed string.
func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadUvarint()
	if err != nil {
		return "", err
	}
	if uint64(r.Len()) < n {
		return "", r.short("string")
	}
	s := string(r.buf[r.off : r.off+int(n)])
	r.off += int(n)
	return s, nil
}

// ReadLen reads a list length written by
// Buffer.BeginList. Lengths that could not
// possibly fit in the remaining input are
// rejected so that callers can pre-size
// slices from the result.
func (r *Reader) ReadLen() (int, error) {
	n, err := r.ReadUvarint()
	if err != nil {
		return 0, err
	}
	if n > uint64(r.Len()) {
		return 0, errors.Errorf("wire: list length %d exceeds remaining input", n)
	}
	return int(n), nil
}
