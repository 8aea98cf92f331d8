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
package store

import (
	"encoding/hex"

	"github.com/SnellerInc/graphexpr/compr"
	"github.com/SnellerInc/graphexpr/internal/wire"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

// recordVersion is the first byte of every
// stored record.
const recordVersion = 1

// maxEncodedSize bounds the encoded size
// claimed by a record.
const maxEncodedSize = 64 << 20

// ErrCorrupt is returned when a stored record
// cannot be decoded or does not match its
// fingerprint.
var ErrCorrupt = errors.New("corrupt expression record")

// Fingerprint is the blake2b-256 sum of the
// encoded form of an expression.
type Fingerprint [blake2b.Size256]byte

func fingerprint(encoded []byte) Fingerprint {
	return Fingerprint(blake2b.Sum256(encoded))
}

func (f Fingerprint) String() string { return hex.EncodeToString(f[:]) }

// Short returns the first 12 hex digits of f.
func (f Fingerprint) Short() string { return f.String()[:12] }

// record layout:
//
//	version  tag
//	algo     string
//	size     uvarint (encoded size)
//	sum      string (fingerprint)
//	payload  rest of the record, compressed
type record struct {
	algo    string
	size    int
	sum     Fingerprint
	payload []byte
}

func marshal(comp compr.Compressor, encoded []byte) ([]byte, Fingerprint) {
	var buf wire.Buffer
	sum := fingerprint(encoded)
	buf.WriteTag(recordVersion)
	buf.WriteString(comp.Name())
	buf.WriteUvarint(uint64(len(encoded)))
	buf.WriteString(string(sum[:]))
	return comp.Compress(encoded, buf.Bytes()), sum
}

func unmarshal(p []byte) (*record, error) {
	r := wire.NewReader(p)
	ver, err := r.ReadTag()
	if err != nil {
		return nil, errors.Wrap(ErrCorrupt, err.Error())
	}
	if ver != recordVersion {
		return nil, errors.Wrapf(ErrCorrupt, "record version %d", ver)
	}
	rec := &record{}
	if rec.algo, err = r.ReadString(); err != nil {
		return nil, errors.Wrap(ErrCorrupt, err.Error())
	}
	size, err := r.ReadUvarint()
	if err != nil {
		return nil, errors.Wrap(ErrCorrupt, err.Error())
	}
	if size > maxEncodedSize {
		return nil, errors.Wrapf(ErrCorrupt, "encoded size %d", size)
	}
	rec.size = int(size)
	sum, err := r.ReadString()
	if err != nil {
		return nil, errors.Wrap(ErrCorrupt, err.Error())
	}
	if len(sum) != len(rec.sum) {
		return nil, errors.Wrapf(ErrCorrupt, "fingerprint of %d bytes", len(sum))
	}
	copy(rec.sum[:], sum)
	rec.payload = p[r.Offset():]
	return rec, nil
}

// decompress returns the encoded expression held
// by rec, checked against its fingerprint.
func (rec *record) decompress() ([]byte, error) {
	dec := compr.Decompression(rec.algo)
	if dec == nil {
		return nil, errors.Wrapf(ErrCorrupt, "unknown compression %q", rec.algo)
	}
	out := make([]byte, rec.size)
	if err := dec.Decompress(rec.payload, out); err != nil {
		return nil, errors.Wrap(ErrCorrupt, err.Error())
	}
	if fingerprint(out) != rec.sum {
		return nil, errors.Wrap(ErrCorrupt, "fingerprint mismatch")
	}
	return out, nil
}
