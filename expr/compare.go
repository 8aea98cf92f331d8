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
	"regexp"
	"strings"
	"sync"

	"github.com/SnellerInc/graphexpr/internal/wire"
	"github.com/SnellerInc/graphexpr/value"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Relational is a comparison, membership
// or string-matching operation.
type Relational struct {
	Op          Kind
	Left, Right Node
}

// Compare returns the relational node (left op right).
func Compare(op Kind, left, right Node) *Relational {
	if !op.IsRelational() {
		panic("expr.Compare: " + op.String() + " is not a relational operator")
	}
	return &Relational{Op: op, Left: left, Right: right}
}

// Eq returns (left==right).
func Eq(left, right Node) *Relational {
	return &Relational{Op: KindRelEQ, Left: left, Right: right}
}

func (c *Relational) Kind() Kind { return c.Op }

func (c *Relational) Eval(ctx Context) value.Value {
	l := c.Left.Eval(ctx)
	r := c.Right.Eval(ctx)
	switch c.Op {
	case KindRelEQ:
		return value.Equal(l, r)
	case KindRelNE:
		return value.NotEqual(l, r)
	case KindRelLT:
		return value.Less(l, r)
	case KindRelLE:
		return value.LessEqual(l, r)
	case KindRelGT:
		return value.Greater(l, r)
	case KindRelGE:
		return value.GreaterEqual(l, r)
	case KindRelREG:
		return regexMatch(l, r)
	case KindRelIn:
		return value.In(l, r)
	case KindRelNotIn:
		return value.NotIn(l, r)
	case KindContains:
		return value.Contains(l, r)
	case KindNotContains:
		return value.Not(value.Contains(l, r))
	case KindStartsWith:
		return value.StartsWith(l, r)
	case KindNotStartsWith:
		return value.Not(value.StartsWith(l, r))
	case KindEndsWith:
		return value.EndsWith(l, r)
	case KindNotEndsWith:
		return value.Not(value.EndsWith(l, r))
	}
	panic("expr: bad relational kind " + c.Op.String())
}

func (c *Relational) Equals(x Node) bool {
	o, ok := x.(*Relational)
	return ok && c.Op == o.Op && Equal(c.Left, o.Left) && Equal(c.Right, o.Right)
}

func (c *Relational) Clone() Node {
	return &Relational{Op: c.Op, Left: Clone(c.Left), Right: Clone(c.Right)}
}

func (c *Relational) walk(v Visitor) {
	walkOpt(v, c.Left)
	walkOpt(v, c.Right)
}

func (c *Relational) rewrite(r Rewriter) Node {
	c.Left = Rewrite(r, c.Left)
	c.Right = Rewrite(r, c.Right)
	return c
}

func (c *Relational) text(dst *strings.Builder) {
	dst.WriteByte('(')
	c.Left.text(dst)
	dst.WriteString(opText[c.Op])
	c.Right.text(dst)
	dst.WriteByte(')')
}

func (c *Relational) Encode(dst *wire.Buffer) error {
	dst.WriteTag(byte(c.Op))
	return encodeNodes(dst, c.Left, c.Right)
}

// DefaultRegexCacheSize is the number of compiled
// patterns kept by the =~ operator.
const DefaultRegexCacheSize = 128

var (
	regexLock  sync.Mutex
	regexCache *lru.Cache[string, *regexp.Regexp]
)

func init() {
	regexCache, _ = lru.New[string, *regexp.Regexp](DefaultRegexCacheSize)
}

// SetRegexCacheSize resizes the cache of compiled
// regular expressions used by the =~ operator.
func SetRegexCacheSize(n int) error {
	c, err := lru.New[string, *regexp.Regexp](n)
	if err != nil {
		return err
	}
	regexLock.Lock()
	regexCache = c
	regexLock.Unlock()
	return nil
}

func compileRegex(pattern string) (*regexp.Regexp, error) {
	regexLock.Lock()
	c := regexCache
	regexLock.Unlock()
	if re, ok := c.Get(pattern); ok {
		return re, nil
	}
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return nil, err
	}
	c.Add(pattern, re)
	return re, nil
}

// regexMatch matches the whole of a against the
// pattern b; an invalid pattern yields BadData
func regexMatch(a, b value.Value) value.Value {
	switch {
	case a.IsBadNull():
		return a
	case b.IsBadNull():
		return b
	case a.IsNull() || b.IsNull():
		return value.Null
	case a.IsEmpty() || b.IsEmpty():
		return value.Empty
	case !a.IsString() || !b.IsString():
		return value.BadType()
	}
	re, err := compileRegex(b.AsString())
	if err != nil {
		return value.NullOf(value.NullBadData)
	}
	return value.Bool(re.MatchString(a.AsString()))
}
