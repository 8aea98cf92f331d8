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

	"github.com/SnellerInc/graphexpr/aggregate"
	"github.com/SnellerInc/graphexpr/function"
	"github.com/SnellerInc/graphexpr/internal/wire"
	"github.com/SnellerInc/graphexpr/value"
)

// FunctionCall is a call of a built-in scalar function.
type FunctionCall struct {
	Name string
	Args []Node
}

// Call returns name(args...).
func Call(name string, args ...Node) *FunctionCall {
	return &FunctionCall{Name: name, Args: args}
}

func (f *FunctionCall) Kind() Kind { return KindFunctionCall }

// Eval calls the function. A name or arity that
// the registry does not know yields BadData;
// validation reports those before execution.
func (f *FunctionCall) Eval(ctx Context) value.Value {
	fn, err := function.Get(f.Name, len(f.Args))
	if err != nil {
		return value.NullOf(value.NullBadData)
	}
	return fn.Call(evalAll(ctx, f.Args))
}

// Pure returns whether the call always produces
// the same result for the same arguments.
// Unknown functions are not pure.
func (f *FunctionCall) Pure() bool {
	ok, err := function.IsPure(f.Name, len(f.Args))
	return err == nil && ok
}

func (f *FunctionCall) Equals(x Node) bool {
	o, ok := x.(*FunctionCall)
	return ok && strings.EqualFold(f.Name, o.Name) && equalAll(f.Args, o.Args)
}

func (f *FunctionCall) Clone() Node {
	return &FunctionCall{Name: f.Name, Args: cloneAll(f.Args)}
}

func (f *FunctionCall) walk(v Visitor) { walkAll(v, f.Args) }

func (f *FunctionCall) rewrite(r Rewriter) Node {
	rewriteAll(r, f.Args)
	return f
}

func (f *FunctionCall) text(dst *strings.Builder) {
	dst.WriteString(f.Name)
	dst.WriteByte('(')
	textAll(dst, f.Args, ",")
	dst.WriteByte(')')
}

func (f *FunctionCall) Encode(dst *wire.Buffer) error {
	dst.WriteTag(byte(KindFunctionCall))
	dst.WriteString(f.Name)
	return encodeList(dst, f.Args)
}

// Aggregate is an aggregate function applied to
// an argument, e.g. COUNT(distinct $-.age).
// A nil Arg stands for '*'.
//
// Aggregate nodes hold no accumulator state:
// the state lives in an aggregate.Data that
// the executor passes to Apply, or binds
// through an AggContext before calling Eval.
type Aggregate struct {
	Name     string
	Arg      Node
	Distinct bool
}

// Agg returns the aggregate name(arg).
func Agg(name string, arg Node, distinct bool) *Aggregate {
	return &Aggregate{Name: strings.ToUpper(name), Arg: arg, Distinct: distinct}
}

func (a *Aggregate) Kind() Kind { return KindAggregate }

// Eval applies the aggregate to the Data bound
// to a in ctx and returns the running result.
// It returns NULL when ctx binds no Data.
func (a *Aggregate) Eval(ctx Context) value.Value {
	ac, ok := ctx.(AggContext)
	if !ok {
		return value.Null
	}
	d := ac.AggData(a)
	if d == nil {
		return value.Null
	}
	return a.Apply(ctx, d)
}

// Apply evaluates the argument against ctx,
// feeds it to the aggregate function with d
// as the accumulator and returns the running
// result. With Distinct set, values already
// seen by d are skipped.
func (a *Aggregate) Apply(ctx Context, d *aggregate.Data) value.Value {
	fn, err := aggregate.Get(a.Name)
	if err != nil {
		return value.NullOf(value.NullBadData)
	}
	v := value.True
	if a.Arg != nil {
		v = a.Arg.Eval(ctx)
	}
	return aggregate.Apply(fn, d, v, a.Distinct)
}

func (a *Aggregate) Equals(x Node) bool {
	o, ok := x.(*Aggregate)
	return ok && strings.EqualFold(a.Name, o.Name) && a.Distinct == o.Distinct && Equal(a.Arg, o.Arg)
}

func (a *Aggregate) Clone() Node {
	return &Aggregate{Name: a.Name, Arg: Clone(a.Arg), Distinct: a.Distinct}
}

func (a *Aggregate) walk(v Visitor) { walkOpt(v, a.Arg) }

func (a *Aggregate) rewrite(r Rewriter) Node {
	a.Arg = Rewrite(r, a.Arg)
	return a
}

func (a *Aggregate) text(dst *strings.Builder) {
	dst.WriteString(a.Name)
	dst.WriteByte('(')
	if a.Distinct {
		dst.WriteString("distinct ")
	}
	if a.Arg == nil {
		dst.WriteByte('*')
	} else {
		a.Arg.text(dst)
	}
	dst.WriteByte(')')
}

func (a *Aggregate) Encode(dst *wire.Buffer) error {
	dst.WriteTag(byte(KindAggregate))
	dst.WriteString(a.Name)
	dst.WriteBool(a.Distinct)
	return encodeNodes(dst, a.Arg)
}
