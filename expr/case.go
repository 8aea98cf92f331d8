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

package expr

import (
	"strings"

	"github.com/SnellerInc/graphexpr/internal/wire"
	"github.com/SnellerInc/graphexpr/value"
)

// When is one WHEN ... THEN ... arm of a Case.
type When struct {
	When, Then Node
}

// Case is a CASE expression.
//
// With a Cond it is the generic form, which picks
// the first arm whose WHEN equals Cond. Without one
// it is the conditional form, which picks the first
// arm whose WHEN is true. Ternary marks a
// conditional Case with a single arm that was
// written as (c ? a : b); it only changes the text.
type Case struct {
	Cond    Node
	Whens   []When
	Default Node
	Ternary bool
}

// Ternary returns (cond ? then : otherwise).
func Ternary(cond, then, otherwise Node) *Case {
	return &Case{
		Whens:   []When{{When: cond, Then: then}},
		Default: otherwise,
		Ternary: true,
	}
}

func (c *Case) Kind() Kind { return KindCase }

// Eval returns the THEN of the selected arm, the
// default when no arm matches, or NULL when there
// is no default. In the conditional form a NULL
// condition does not match and a condition that
// is neither NULL nor a bool is BadType.
func (c *Case) Eval(ctx Context) value.Value {
	if c.Cond != nil {
		cv := c.Cond.Eval(ctx)
		for i := range c.Whens {
			if value.Equal(cv, c.Whens[i].When.Eval(ctx)).IsTrue() {
				return c.Whens[i].Then.Eval(ctx)
			}
		}
	} else {
		for i := range c.Whens {
			w := c.Whens[i].When.Eval(ctx)
			if !w.IsBool() && !w.IsNull() {
				return value.BadType()
			}
			if w.IsTrue() {
				return c.Whens[i].Then.Eval(ctx)
			}
		}
	}
	if c.Default != nil {
		return c.Default.Eval(ctx)
	}
	return value.Null
}

func (c *Case) Equals(x Node) bool {
	o, ok := x.(*Case)
	if !ok || c.Ternary != o.Ternary || len(c.Whens) != len(o.Whens) ||
		!Equal(c.Cond, o.Cond) || !Equal(c.Default, o.Default) {
		return false
	}
	for i := range c.Whens {
		if !Equal(c.Whens[i].When, o.Whens[i].When) || !Equal(c.Whens[i].Then, o.Whens[i].Then) {
			return false
		}
	}
	return true
}

func (c *Case) Clone() Node {
	whens := make([]When, len(c.Whens))
	for i := range c.Whens {
		whens[i] = When{When: Clone(c.Whens[i].When), Then: Clone(c.Whens[i].Then)}
	}
	return &Case{
		Cond:    Clone(c.Cond),
		Whens:   whens,
		Default: Clone(c.Default),
		Ternary: c.Ternary,
	}
}

func (c *Case) walk(v Visitor) {
	walkOpt(v, c.Cond)
	for i := range c.Whens {
		walkOpt(v, c.Whens[i].When)
		walkOpt(v, c.Whens[i].Then)
	}
	walkOpt(v, c.Default)
}

func (c *Case) rewrite(r Rewriter) Node {
	c.Cond = Rewrite(r, c.Cond)
	for i := range c.Whens {
		c.Whens[i].When = Rewrite(r, c.Whens[i].When)
		c.Whens[i].Then = Rewrite(r, c.Whens[i].Then)
	}
	c.Default = Rewrite(r, c.Default)
	return c
}

func (c *Case) text(dst *strings.Builder) {
	if c.Ternary && len(c.Whens) == 1 && c.Default != nil {
		dst.WriteByte('(')
		c.Whens[0].When.text(dst)
		dst.WriteString(" ? ")
		c.Whens[0].Then.text(dst)
		dst.WriteString(" : ")
		c.Default.text(dst)
		dst.WriteByte(')')
		return
	}
	dst.WriteString("CASE")
	if c.Cond != nil {
		dst.WriteByte(' ')
		c.Cond.text(dst)
	}
	for i := range c.Whens {
		dst.WriteString(" WHEN ")
		c.Whens[i].When.text(dst)
		dst.WriteString(" THEN ")
		c.Whens[i].Then.text(dst)
	}
	if c.Default != nil {
		dst.WriteString(" ELSE ")
		c.Default.text(dst)
	}
	dst.WriteString(" END")
}

func (c *Case) Encode(dst *wire.Buffer) error {
	dst.WriteTag(byte(KindCase))
	dst.WriteBool(c.Ternary)
	if err := encodeNodes(dst, c.Cond, c.Default); err != nil {
		return err
	}
	dst.BeginList(len(c.Whens))
	for i := range c.Whens {
		if err := encodeNodes(dst, c.Whens[i].When, c.Whens[i].Then); err != nil {
			return err
		}
	}
	return nil
}
