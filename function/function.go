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

// Package function is the registry of scalar
// built-in functions callable from expressions.
package function

import (
	"fmt"
	"strings"

	"github.com/SnellerInc/graphexpr/fuzzy"
	"github.com/SnellerInc/graphexpr/value"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

var (
	// ErrUnknown is matched by errors reporting
	// an unregistered function name.
	ErrUnknown = errors.New("unknown function")
	// ErrArity is matched by errors reporting a
	// call with the wrong number of arguments.
	ErrArity = errors.New("arity mismatch")
	// ErrArgType is matched by errors reporting
	// arguments of unacceptable types.
	ErrArgType = errors.New("argument type mismatch")
)

// UnknownError is returned when a function
// name is not registered.
type UnknownError struct {
	Name string
	// Suggestion is the closest registered
	// name, if any is close enough.
	Suggestion string
}

func (u *UnknownError) Error() string {
	return fmt.Sprintf("Function `%s' not defined", u.Name)
}

func (u *UnknownError) Unwrap() error { return ErrUnknown }

// sig is one accepted argument signature.
// A variadic sig accepts any number of
// trailing arguments of type rest.
type sig struct {
	args []value.Type
	rest value.Type
	ret  value.Type
}

func (s *sig) arity() (min, max int) {
	if s.rest != 0 {
		return len(s.args), -1
	}
	return len(s.args), len(s.args)
}

func accepts(want, got value.Type) bool {
	return got.Superior() || want&got != 0
}

func (s *sig) match(args []value.Type) bool {
	if len(args) < len(s.args) || (s.rest == 0 && len(args) != len(s.args)) {
		return false
	}
	for i := range args {
		want := s.rest
		if i < len(s.args) {
			want = s.args[i]
		}
		if !accepts(want, args[i]) {
			return false
		}
	}
	return true
}

func of(ret value.Type, args ...value.Type) sig {
	return sig{args: args, ret: ret}
}

func variadic(ret, rest value.Type, args ...value.Type) sig {
	return sig{args: args, rest: rest, ret: ret}
}

// Func is one registered function.
type Func struct {
	name string
	sigs []sig
	// pure reports, per arity, whether the
	// function returns the same result for the
	// same arguments
	pure func(arity int) bool
	// lenient functions see NULL and EMPTY
	// arguments; others return NULL for them
	lenient bool
	eval    func(args []value.Value) value.Value
}

// Name returns the registered name of f.
func (f *Func) Name() string { return f.name }

// Arity returns the bounds on the number of
// arguments f accepts. max is -1 when f is variadic.
func (f *Func) Arity() (min, max int) {
	min, max = -1, 0
	for i := range f.sigs {
		lo, hi := f.sigs[i].arity()
		if min < 0 || lo < min {
			min = lo
		}
		if hi < 0 || (max >= 0 && hi > max) {
			max = hi
		}
	}
	return min, max
}

// Pure reports whether a call with
// the given number of arguments is pure.
func (f *Func) Pure(arity int) bool {
	return f.pure(arity)
}

// ReturnType returns the result type of a call
// with arguments of the given types.
func (f *Func) ReturnType(args []value.Type) (value.Type, error) {
	for i := range f.sigs {
		if f.sigs[i].match(args) {
			return f.sigs[i].ret, nil
		}
	}
	names := make([]string, len(args))
	for i := range args {
		names[i] = args[i].String()
	}
	return 0, errors.Wrapf(ErrArgType, "Parameter's type error: %s(%s)", f.name, strings.Join(names, ", "))
}

// Call evaluates f over args. Arguments of
// unacceptable types produce BadType.
func (f *Func) Call(args []value.Value) value.Value {
	types := make([]value.Type, len(args))
	for i := range args {
		if !f.lenient && args[i].IsAbnormal() {
			if args[i].IsBadNull() {
				return args[i]
			}
			return value.Null
		}
		types[i] = args[i].Type()
	}
	if _, err := f.ReturnType(types); err != nil {
		return value.BadType()
	}
	return f.eval(args)
}

func always(int) bool { return true }
func never(int) bool  { return false }

// registry is populated by init and read-only afterwards
var registry = make(map[string]*Func)

func register(f *Func) {
	if f.pure == nil {
		f.pure = always
	}
	if _, ok := registry[f.name]; ok {
		panic("function: duplicate registration of " + f.name)
	}
	registry[f.name] = f
}

func alias(name, to string) {
	f := *registry[to]
	f.name = name
	registry[name] = &f
}

// Lookup returns the function registered under
// name, matched case-insensitively.
func Lookup(name string) (*Func, error) {
	f, ok := registry[strings.ToLower(name)]
	if !ok {
		u := &UnknownError{Name: name}
		u.Suggestion, _ = fuzzy.Closest(name, Names(), 2)
		return nil, u
	}
	return f, nil
}

// Get returns the function registered under name
// after checking that it accepts arity arguments.
func Get(name string, arity int) (*Func, error) {
	f, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	min, max := f.Arity()
	if arity >= min && (max < 0 || arity <= max) {
		return f, nil
	}
	var want string
	switch {
	case max < 0:
		want = fmt.Sprintf("at least %d", min)
	case min == max:
		want = fmt.Sprint(min)
	default:
		want = fmt.Sprintf("%d-%d", min, max)
	}
	return nil, errors.Wrapf(ErrArity, "Arity not match for function `%s': provided %d but %s expected", name, arity, want)
}

// IsPure reports whether calling name
// with arity arguments is pure.
func IsPure(name string, arity int) (bool, error) {
	f, err := Get(name, arity)
	if err != nil {
		return false, err
	}
	return f.Pure(arity), nil
}

// ReturnType deduces the result type of
// calling name with arguments of types args.
func ReturnType(name string, args []value.Type) (value.Type, error) {
	f, err := Get(name, len(args))
	if err != nil {
		return 0, err
	}
	return f.ReturnType(args)
}

// Names returns every registered name in sorted order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
