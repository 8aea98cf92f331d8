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
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/SnellerInc/graphexpr/expr"
	"github.com/SnellerInc/graphexpr/store"

	"github.com/go-kit/log/level"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	require.Equal(t, 512, c.MaxExpressionDepth)
	require.Equal(t, 128, c.RegexCacheSize)
	require.Equal(t, "info", c.LogLevel)
	require.Equal(t, store.Options{
		Dir:         "gexpr.db",
		Compression: "zstd",
		MaxDepth:    expr.DefaultMaxDepth,
	}, c.StoreOptions())
}

func TestParse(t *testing.T) {
	c, err := Parse([]byte(`
max_expression_depth: 64
log_level: debug
store:
  in_memory: true
  compression_level: best
`))
	require.NoError(t, err)
	require.Equal(t, 64, c.MaxExpressionDepth)
	require.Equal(t, 128, c.RegexCacheSize)
	require.Equal(t, "debug", c.LogLevel)
	require.True(t, c.Store.InMemory)
	require.Equal(t, "zstd-best", c.StoreOptions().Compression)
	require.Equal(t, 64, c.StoreOptions().MaxDepth)
	require.NoError(t, c.Apply())
}

func TestParseErrors(t *testing.T) {
	testcases := []struct {
		in, want string
	}{
		{"max_expression_depth: 0", "max_expression_depth must be positive"},
		{"regex_cache_size: -1", "regex_cache_size must be positive"},
		{"log_level: loud", "unknown log_level"},
		{"store: {compression_level: lz4}", "unknown store.compression_level"},
		{"store: {dir: \"\"}", "store.dir is required"},
		{"max_depth: 3", "unknown field"},
		{"max_expression_depth: [1]", "config"},
	}
	for _, tc := range testcases {
		_, err := Parse([]byte(tc.in))
		require.ErrorContains(t, err, tc.want, tc.in)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gexpr.yaml")
	require.NoError(t, os.WriteFile(path, []byte("regex_cache_size: 4\n"), 0644))
	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 4, c.RegexCacheSize)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("log_level: loud\n"), 0644))
	_, err = Load(path)
	require.ErrorContains(t, err, path)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "warn")
	require.NoError(t, err)
	level.Info(logger).Log("msg", "hidden")
	level.Warn(logger).Log("msg", "shown")
	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "level=warn")
	require.Contains(t, out, "msg=shown")
	require.Contains(t, out, "ts=")
	require.Contains(t, out, "caller=")

	_, err = NewLogger(&buf, "loud")
	require.Error(t, err)
}
