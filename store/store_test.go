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
	"bytes"
	"errors"
	"testing"

	"github.com/SnellerInc/graphexpr/compr"
	"github.com/SnellerInc/graphexpr/expr"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/stretchr/testify/require"
)

func open(t *testing.T, comp string, logger log.Logger) *Store {
	t.Helper()
	s, err := Open(Options{InMemory: true, Compression: comp, MaxDepth: 16, Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func filter() expr.Node {
	return expr.And(
		expr.Compare(expr.KindRelGT, expr.TagProp("player", "age"), expr.Int(30)),
		expr.Compare(expr.KindStartsWith, expr.TagProp("player", "name"), expr.String("Tim")))
}

func TestPutGet(t *testing.T) {
	for _, comp := range []string{"", "zstd-best", "s2", "none"} {
		s := open(t, comp, nil)
		sum, err := s.Put(IndexFilters, "young", filter())
		require.NoError(t, err)

		e, err := s.Get(IndexFilters, "young")
		require.NoError(t, err)
		require.True(t, filter().Equals(e.Expr), expr.ToString(e.Expr))
		require.Equal(t, sum, e.Fingerprint)
		require.Equal(t, "young", e.Name)
		require.Equal(t, IndexFilters, e.Namespace)

		encoded, err := expr.Encode(filter())
		require.NoError(t, err)
		require.Equal(t, len(encoded), e.Size)
		require.Equal(t, fingerprint(encoded), sum)

		_, err = s.Get(DefaultValues, "young")
		require.True(t, errors.Is(err, ErrNotFound), "%v", err)
	}
}

func TestPutValidates(t *testing.T) {
	s := open(t, "", nil)

	var deep expr.Node = expr.Int(1)
	for i := 0; i < 20; i++ {
		deep = expr.NewUnary(expr.KindUnaryNegate, deep)
	}
	_, err := s.Put(DefaultValues, "deep", deep)
	require.True(t, errors.Is(err, expr.ErrTooDeep), "%v", err)

	_, err = s.Put(DefaultValues, "label", expr.NewLabelAttribute("v", "age"))
	require.True(t, errors.Is(err, expr.ErrNotEncodable), "%v", err)

	_, err = s.Put(DefaultValues, "call", expr.Call("nosuch"))
	require.Error(t, err)

	_, err = s.Put(DefaultValues, "a/b", expr.Int(1))
	require.ErrorContains(t, err, "invalid expression name")
	_, err = s.Put(DefaultValues, "", expr.Int(1))
	require.Error(t, err)
	_, err = s.Put(Namespace("other"), "a", expr.Int(1))
	require.ErrorContains(t, err, "unknown namespace")

	_, err = s.PutEncoded(DefaultValues, "junk", []byte{0xff})
	require.Error(t, err)

	encoded, err := expr.Encode(expr.Call("now"))
	require.NoError(t, err)
	_, err = s.PutEncoded(DefaultValues, "created", encoded)
	require.NoError(t, err)
	e, err := s.Get(DefaultValues, "created")
	require.NoError(t, err)
	require.Equal(t, "now()", expr.ToString(e.Expr))
}

func TestListDelete(t *testing.T) {
	var buf bytes.Buffer
	s := open(t, "", level.NewFilter(log.NewLogfmtLogger(&buf), level.AllowWarn()))
	for _, name := range []string{"b", "a", "c"} {
		_, err := s.Put(DefaultValues, name, expr.String(name))
		require.NoError(t, err)
	}
	_, err := s.Put(IndexFilters, "f", filter())
	require.NoError(t, err)

	// a record that no longer matches its fingerprint
	rec, _ := marshal(s.comp, mustEncode(t, expr.Int(1)))
	rec[len(rec)-1] ^= 0xff
	require.NoError(t, s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(DefaultValues, "broken"), rec)
	}))

	list, err := s.List(DefaultValues)
	require.NoError(t, err)
	var names []string
	for _, e := range list {
		names = append(names, e.Name)
		require.Equal(t, "\""+e.Name+"\"", expr.ToString(e.Expr))
	}
	require.Equal(t, []string{"a", "b", "c"}, names)
	require.Contains(t, buf.String(), "skipping unreadable expression")

	_, err = s.Get(DefaultValues, "broken")
	require.True(t, errors.Is(err, ErrCorrupt), "%v", err)

	require.NoError(t, s.Delete(DefaultValues, "b"))
	require.True(t, errors.Is(s.Delete(DefaultValues, "b"), ErrNotFound))
	list, err = s.List(DefaultValues)
	require.NoError(t, err)
	require.Len(t, list, 2)

	list, err = s.List(IndexFilters)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestUpdate(t *testing.T) {
	s := open(t, "", nil)
	_, err := s.Put(IndexFilters, "f", expr.Not(expr.Compare(expr.KindRelLT, expr.TagProp("player", "age"), expr.Int(3))))
	require.NoError(t, err)

	e, err := s.Update(IndexFilters, "f", func(n expr.Node) (expr.Node, error) {
		return expr.Compare(expr.KindRelGE, expr.TagProp("player", "age"), expr.Int(3)), nil
	})
	require.NoError(t, err)
	got, err := s.Get(IndexFilters, "f")
	require.NoError(t, err)
	require.Equal(t, "(player.age>=3)", expr.ToString(got.Expr))
	require.Equal(t, e.Fingerprint, got.Fingerprint)

	boom := errors.New("boom")
	_, err = s.Update(IndexFilters, "f", func(expr.Node) (expr.Node, error) { return nil, boom })
	require.True(t, errors.Is(err, boom))
	got, err = s.Get(IndexFilters, "f")
	require.NoError(t, err)
	require.Equal(t, "(player.age>=3)", expr.ToString(got.Expr))

	_, err = s.Update(IndexFilters, "missing", func(n expr.Node) (expr.Node, error) { return n, nil })
	require.True(t, errors.Is(err, ErrNotFound))
}

func mustEncode(t *testing.T, n expr.Node) []byte {
	buf, err := expr.Encode(n)
	require.NoError(t, err)
	return buf
}

func TestRecord(t *testing.T) {
	enc := mustEncode(t, filter())
	rec, sum := marshal(compr.Compression("zstd"), enc)
	r, err := unmarshal(rec)
	require.NoError(t, err)
	require.Equal(t, "zstd", r.algo)
	require.Equal(t, sum, r.sum)
	out, err := r.decompress()
	require.NoError(t, err)
	require.Equal(t, enc, out)

	for i := 0; i < len(rec)-len(r.payload); i++ {
		_, err := unmarshal(rec[:i])
		require.True(t, errors.Is(err, ErrCorrupt), "truncated at %d", i)
	}
	bad := append([]byte{}, rec...)
	bad[0] = recordVersion + 1
	_, err = unmarshal(bad)
	require.ErrorContains(t, err, "record version")

	r.algo = "lz4"
	_, err = r.decompress()
	require.ErrorContains(t, err, "unknown compression")

	require.Len(t, sum.Short(), 12)
	require.Len(t, sum.String(), 64)
}

func TestOpenErrors(t *testing.T) {
	_, err := Open(Options{InMemory: true, Compression: "lz4"})
	require.ErrorContains(t, err, "unknown compression")
	_, err = Open(Options{})
	require.ErrorContains(t, err, "no directory")
}

func TestReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(Options{Dir: dir})
	require.NoError(t, err)
	sum, err := s.Put(IndexFilters, "f", filter())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(Options{Dir: dir, Compression: "s2"})
	require.NoError(t, err)
	defer s.Close()
	e, err := s.Get(IndexFilters, "f")
	require.NoError(t, err)
	require.Equal(t, sum, e.Fingerprint)
	require.Equal(t, "zstd", e.Algo)
}

func TestBadgerLogger(t *testing.T) {
	var buf bytes.Buffer
	l := badgerLogger{log.NewLogfmtLogger(&buf)}
	l.Warningf("value log %d truncated\n", 3)
	require.Equal(t, "level=warn component=badger msg=\"value log 3 truncated\"\n", buf.String())
}
