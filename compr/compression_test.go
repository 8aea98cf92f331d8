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
package compr

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	ctl := bytes.Repeat([]byte("(t1.c1==1) AND "), 200)
	for _, name := range []string{"zstd", "zstd-fastest", "zstd-better", "zstd-best", "s2", "none"} {
		comp := Compression(name)
		require.NotNil(t, comp, name)
		dec := Decompression(comp.Name())
		require.NotNil(t, dec, name)
		require.Equal(t, comp.Name(), dec.Name())

		prefix := []byte("hdr")
		cmp := comp.Compress(ctl, append([]byte(nil), prefix...))
		require.Equal(t, prefix, cmp[:len(prefix)], name)
		if name != "none" {
			require.Less(t, len(cmp), len(ctl), name)
		}
		dst := make([]byte, len(ctl))
		require.NoError(t, dec.Decompress(cmp[len(prefix):], dst), name)
		require.Equal(t, ctl, dst, name)

		require.Error(t, dec.Decompress(cmp[len(prefix):], make([]byte, len(ctl)-1)), name)
	}
	require.Nil(t, Compression("lz4"))
	require.Nil(t, Decompression("zstd-best"))
}

func TestS2Overlapping(t *testing.T) {
	comp := Compression("s2")
	dec := Decompression("s2")
	ctl := bytes.Repeat([]byte("foo"), 1000)
	src := append([]byte(nil), ctl...)
	dst := make([]byte, len(src))
	cmp := comp.Compress(src[10:], src[:8])
	require.NoError(t, dec.Decompress(cmp[8:], dst[10:]))
	require.Equal(t, ctl[10:], dst[10:])
}

func TestOverlaps(t *testing.T) {
	a := make([]byte, 10)
	b := make([]byte, 20)
	require.False(t, overlaps(a, b))

	// adjacent
	a = make([]byte, 10, 30)
	b = a[10:]
	require.False(t, overlaps(a, b))
	require.False(t, overlaps(b, a))

	b = a[5:]
	require.True(t, overlaps(a, b))
	require.True(t, overlaps(b, a))

	b = a[9:]
	require.True(t, overlaps(a, b))
	require.True(t, overlaps(b, a))

	require.False(t, overlaps(nil, a))
}
