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
	"errors"
	"fmt"

	"github.com/SnellerInc/graphexpr/aggregate"
	"github.com/SnellerInc/graphexpr/function"
	"github.com/SnellerInc/graphexpr/value"
)

// TypeError is the error type returned
// from Deduce when an expression is ill-typed.
type TypeError struct {
	At  Node
	Msg string
}

// SemanticError is the error type returned
// from Check when an expression is invalid
// regardless of the types of its inputs.
type SemanticError struct {
	Msg string
}

// Error implements error
func (t *TypeError) Error() string {
	return t.Msg
}

func (s *SemanticError) Error() string {
	return s.Msg
}

func errtype(e Node, format string, args ...any) *TypeError {
	return &TypeError{At: e, Msg: fmt.Sprintf(format, args...)}
}

func errsemantic(format string, args ...any) *SemanticError {
	return &SemanticError{Msg: fmt.Sprintf(format, args...)}
}

// DefaultMaxDepth is the default limit
// on the depth of an expression tree.
const DefaultMaxDepth = 512

// ErrTooDeep is matched by the errors returned
// for expressions nested deeper than allowed.
var ErrTooDeep = errors.New("expression too deep")

// DepthError reports an expression that
// exceeds the maximum depth Max.
type DepthError struct {
	Max int
}

func (d *DepthError) Error() string {
	return fmt.Sprintf("The above expression's depth exceeds the maximum depth:%d", d.Max)
}

func (d *DepthError) Is(target error) bool { return target == ErrTooDeep }

type children []Node

func (c *children) Visit(n Node) Visitor {
	if n != nil {
		*c = append(*c, n)
	}
	return nil
}

// Children returns the direct children of n in order.
func Children(n Node) []Node {
	var c children
	n.walk(&c)
	return c
}

// CheckDepth returns a *DepthError if the tree
// rooted at n has more than max levels.
// It walks the tree breadth-first so that it
// never recurses deeper than the tree it checks.
func CheckDepth(n Node, max int) error {
	level := []Node{n}
	for depth := 1; len(level) > 0; depth++ {
		if depth > max {
			return &DepthError{Max: max}
		}
		var next []Node
		for _, x := range level {
			next = append(next, Children(x)...)
		}
		level = next
	}
	return nil
}

type checker interface {
	check() error
}

type checkwalk struct {
	errors []error
}

func (c *checkwalk) Visit(n Node) Visitor {
	if n == nil {
		return nil
	}
	ce, ok := n.(checker)
	if ok {
		err := ce.check()
		if err != nil {
			c.errors = append(c.errors, err)
			return nil
		}
	}
	return c
}

func combine(err []error) error {
	if len(err) == 1 {
		return err[0]
	}
	return fmt.Errorf("%w and %d other errors", err[0], len(err)-1)
}

// Check verifies that n is no deeper than
// maxDepth and that every function, aggregate,
// cast and predicate in it is well formed.
func Check(n Node, maxDepth int) error {
	if err := CheckDepth(n, maxDepth); err != nil {
		return err
	}
	c := &checkwalk{}
	Walk(c, n)
	if c.errors == nil {
		return nil
	}
	return combine(c.errors)
}

func (f *FunctionCall) check() error {
	_, err := function.Get(f.Name, len(f.Args))
	return err
}

func (a *Aggregate) check() error {
	_, err := aggregate.Get(a.Name)
	return err
}

func (t *TypeCasting) check() error {
	switch t.To {
	case value.BoolType, value.IntType, value.FloatType, value.StringType:
		return nil
	}
	return errsemantic("Type cast to `%s' is not supported: `%s'", t.To, ToString(t))
}

func (p *Predicate) check() error {
	switch p.Name {
	case PredAll, PredAny, PredSingle, PredNone:
		if p.Filter == nil {
			return errsemantic("Predicate `%s' requires a filter: `%s'", p.Name, ToString(p))
		}
		return nil
	case PredExists:
		switch p.Collection.(type) {
		case *Attribute, *Subscript, *LabelAttribute:
			return nil
		}
		return errsemantic("The exists function only accept property expressions, but got `%s'", ToString(p.Collection))
	}
	return errsemantic("Unknown predicate `%s'", p.Name)
}
