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
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/SnellerInc/graphexpr/expr"

	"github.com/stretchr/testify/require"
)

type env struct {
	t      *testing.T
	dir    string
	config string
}

func newEnv(t *testing.T) *env {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "gexpr.yaml")
	body := "log_level: warn\nstore:\n  dir: " + filepath.Join(dir, "db") + "\n  compression_level: better\n"
	require.NoError(t, os.WriteFile(cfg, []byte(body), 0644))
	return &env{t: t, dir: dir, config: cfg}
}

// run executes gexpr with args and returns stdout
func (e *env) run(stdin []byte, args ...string) (string, error) {
	var out, errs bytes.Buffer
	root := newRoot(&errs)
	root.SetArgs(append([]string{"--config", e.config}, args...))
	root.SetOut(&out)
	root.SetIn(bytes.NewReader(stdin))
	err := root.Execute()
	return out.String(), err
}

func (e *env) write(name string, n expr.Node) string {
	buf, err := expr.Encode(n)
	require.NoError(e.t, err)
	path := filepath.Join(e.dir, name)
	require.NoError(e.t, os.WriteFile(path, buf, 0644))
	return path
}

func TestPutGetList(t *testing.T) {
	e := newEnv(t)
	f := expr.And(
		expr.Compare(expr.KindRelLT, expr.Arith(expr.KindAdd, expr.TagProp("player", "age"), expr.Int(1)), expr.Int(40)),
		expr.Not(expr.Eq(expr.TagProp("player", "name"), expr.String("Tim"))))

	out, err := e.run(nil, "put", "filter", "young", e.write("young.bin", f))
	require.NoError(t, err)
	require.Len(t, strings.TrimSpace(out), 64)

	buf, err := expr.Encode(expr.Arith(expr.KindAdd, expr.Int(1), expr.Int(2)))
	require.NoError(t, err)
	_, err = e.run(buf, "put", "default", "three", "-")
	require.NoError(t, err)

	out, err = e.run(nil, "get", "filter", "young")
	require.NoError(t, err)
	require.Equal(t, expr.ToString(f)+"\n", out)

	exported := filepath.Join(e.dir, "out.bin")
	_, err = e.run(nil, "get", "filter", "young", "-o", exported)
	require.NoError(t, err)
	raw, err := os.ReadFile(exported)
	require.NoError(t, err)
	n, err := expr.Decode(raw)
	require.NoError(t, err)
	require.True(t, f.Equals(n))

	out, err = e.run(nil, "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[0], "default three "), lines[0])
	require.True(t, strings.HasSuffix(lines[0], "(1+2)"), lines[0])
	require.True(t, strings.HasPrefix(lines[1], "filter  young "), lines[1])

	out, err = e.run(nil, "eval", "default", "three")
	require.NoError(t, err)
	require.Equal(t, "INT 3\n", out)

	_, err = e.run(nil, "eval", "filter", "young")
	require.ErrorContains(t, err, "depends on its input")

	require.NoError(t, run1(e, "rm", "default", "three"))
	_, err = e.run(nil, "get", "default", "three")
	require.ErrorContains(t, err, "expression not found")
}

func run1(e *env, args ...string) error {
	_, err := e.run(nil, args...)
	return err
}

func TestTransform(t *testing.T) {
	e := newEnv(t)
	f := expr.Not(expr.Compare(expr.KindRelLT,
		expr.Arith(expr.KindAdd, expr.TagProp("player", "age"), expr.Int(1)),
		expr.Arith(expr.KindMultiply, expr.Int(4), expr.Int(10))))
	require.NoError(t, run1(e, "put", "filter", "f", e.write("f.bin", f)))

	out, err := e.run(nil, "transform", "-n", "f")
	require.NoError(t, err)
	require.Equal(t, "(player.age>=39)\n", out)
	out, err = e.run(nil, "get", "filter", "f")
	require.NoError(t, err)
	require.Equal(t, expr.ToString(f)+"\n", out)

	out, err = e.run(nil, "transform", "f")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(out, " (player.age>=39)\n"), out)
	out, err = e.run(nil, "get", "filter", "f")
	require.NoError(t, err)
	require.Equal(t, "(player.age>=39)\n", out)

	_, err = e.run(nil, "transform", "missing")
	require.ErrorContains(t, err, "expression not found")
}

func TestErrors(t *testing.T) {
	e := newEnv(t)
	_, err := e.run(nil, "put", "nowhere", "a", "-")
	require.ErrorContains(t, err, "unknown namespace")
	_, err = e.run([]byte{1, 2, 3}, "put", "default", "a", "-")
	require.ErrorContains(t, err, "expr.Decode")
	_, err = e.run(nil, "put", "default", "a", filepath.Join(e.dir, "missing.bin"))
	require.ErrorContains(t, err, "reading input")
	_, err = e.run(nil, "get", "default")
	require.Error(t, err)

	var errs bytes.Buffer
	root := newRoot(&errs)
	root.SetArgs([]string{"--config", filepath.Join(e.dir, "missing.yaml"), "list"})
	require.Error(t, root.Execute())
}
