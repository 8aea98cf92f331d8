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
	"fmt"
	"strings"

	"github.com/SnellerInc/graphexpr/aggregate"
	"github.com/SnellerInc/graphexpr/date"
	"github.com/SnellerInc/graphexpr/function"
	"github.com/SnellerInc/graphexpr/value"
)

// ColumnDef names a typed column of an
// input or a variable.
type ColumnDef struct {
	Name string
	Type value.Type
}

// SchemaSource resolves the types of
// tag and edge properties.
type SchemaSource interface {
	TagPropType(tag, prop string) (value.Type, error)
	EdgePropType(edge, prop string) (value.Type, error)
}

// StaticSchema is a SchemaSource backed by maps
// from tag (or edge) name to property types.
type StaticSchema struct {
	Tags  map[string]map[string]value.Type
	Edges map[string]map[string]value.Type
}

func lookupProp(what string, m map[string]map[string]value.Type, owner, prop string) (value.Type, error) {
	props, ok := m[owner]
	if !ok {
		return 0, fmt.Errorf("not found %s `%s'.", what, owner)
	}
	t, ok := props[prop]
	if !ok {
		return 0, fmt.Errorf("not found the property `%s'.", prop)
	}
	return t, nil
}

func (s *StaticSchema) TagPropType(tag, prop string) (value.Type, error) {
	return lookupProp("tag", s.Tags, tag, prop)
}

func (s *StaticSchema) EdgePropType(edge, prop string) (value.Type, error) {
	return lookupProp("edge", s.Edges, edge, prop)
}

// DeduceEnv is the static environment
// of type deduction.
type DeduceEnv struct {
	// Inputs are the columns of the
	// input of the clause ($-).
	Inputs []ColumnDef
	// Vars are the columns of each
	// variable defined so far.
	Vars map[string][]ColumnDef
	// Schema resolves property types;
	// it may be nil if the expression
	// has no tag or edge properties.
	Schema SchemaSource
	// VidType is the type of vertex ids.
	// It defaults to STRING.
	VidType value.Type
}

// Deduce computes the static type of n in env.
//
// The result may be a union of types when n
// can produce values of more than one type.
// NULL and EMPTY unify with every type.
// Deduce returns a *TypeError when an operator
// cannot be applied to the types of its operands
// or when a property cannot be resolved, and a
// *DepthError when n is nested deeper than
// DefaultMaxDepth.
func Deduce(n Node, env *DeduceEnv) (value.Type, error) {
	if env == nil {
		env = &DeduceEnv{}
	}
	d := &deducer{env: env}
	return d.deduce(n)
}

type deducer struct {
	env   *DeduceEnv
	inner map[string]value.Type
	depth int
}

var samples = map[value.Type]value.Value{
	value.EmptyType:    value.Empty,
	value.NullType:     value.Null,
	value.BoolType:     value.True,
	value.IntType:      value.Int(1),
	value.FloatType:    value.Float(1.0),
	value.StringType:   value.String("123"),
	value.DateType:     value.FromDate(date.NewDate(1970, 1, 1)),
	value.TimeType:     value.FromTime(date.NewTime(0, 0, 0, 0)),
	value.DateTimeType: value.FromDateTime(date.NewDateTime(1970, 1, 1, 0, 0, 0, 0)),
	value.VertexType:   value.FromVertex(&value.Vertex{Vid: value.String("")}),
	value.EdgeType:     value.FromEdge(&value.Edge{Src: value.String(""), Dst: value.String("")}),
	value.PathType:     value.FromPath(&value.Path{Src: value.Vertex{Vid: value.String("")}}),
	value.ListType:     value.ListOf(),
	value.MapType:      value.FromMap(value.NewMap()),
	value.SetType:      value.SetOf(),
	value.DataSetType:  value.FromDataSet(&value.DataSet{}),
}

// each calls fn for every single type in the union t
func each(t value.Type, fn func(value.Type)) {
	for x := value.EmptyType; x <= value.NullType; x <<= 1 {
		if t&x != 0 {
			fn(x)
		}
	}
}

// probe applies op to samples of every pair of
// types from l and r and returns the union of
// the types of the results that are not bad nulls
func probe(l, r value.Type, op func(a, b value.Value) value.Value) value.Type {
	var out value.Type
	each(l, func(lt value.Type) {
		each(r, func(rt value.Type) {
			v := op(samples[lt], samples[rt])
			if !v.IsBadNull() {
				out |= v.Type()
			}
		})
	})
	return out
}

func probe1(t value.Type, op func(v value.Value) value.Value) value.Type {
	return probe(t, value.NullType, func(a, _ value.Value) value.Value { return op(a) })
}

func (d *deducer) binary(n Node, sym string, l, r Node, op func(a, b value.Value) value.Value) (value.Type, error) {
	lt, err := d.deduce(l)
	if err != nil {
		return 0, err
	}
	rt, err := d.deduce(r)
	if err != nil {
		return 0, err
	}
	out := probe(lt, rt, op)
	if out == 0 {
		return 0, errtype(n, "`%s' is not a valid expression, can not apply `%s' to `%s' and `%s'.",
			ToString(n), sym, lt, rt)
	}
	return out, nil
}

func (d *deducer) unary(n Node, sym string, t value.Type, op func(v value.Value) value.Value) (value.Type, error) {
	out := probe1(t, op)
	if out == 0 {
		return 0, errtype(n, "`%s' is not a valid expression, can not apply `%s' to %s.", ToString(n), sym, t)
	}
	return out, nil
}

func (d *deducer) all(lst []Node) error {
	for i := range lst {
		if _, err := d.deduce(lst[i]); err != nil {
			return err
		}
	}
	return nil
}

// accepts returns whether a value of type t
// may be one of the types in want
func accepts(t, want value.Type) bool {
	return t&(want|value.NullType|value.EmptyType) != 0
}

var arithOps = map[Kind]func(a, b value.Value) value.Value{
	KindAdd:      value.Add,
	KindMinus:    value.Sub,
	KindMultiply: value.Mul,
	KindDivision: value.Div,
	KindMod:      value.Mod,
}

var stringOps = map[Kind]func(a, b value.Value) value.Value{
	KindContains:      value.Contains,
	KindNotContains:   value.Contains,
	KindStartsWith:    value.StartsWith,
	KindNotStartsWith: value.StartsWith,
	KindEndsWith:      value.EndsWith,
	KindNotEndsWith:   value.EndsWith,
	KindRelREG: func(a, b value.Value) value.Value {
		if a.IsString() && b.IsString() {
			return value.True
		}
		return value.StartsWith(a, b)
	},
}

func (d *deducer) deduce(n Node) (value.Type, error) {
	if d.depth >= DefaultMaxDepth {
		return 0, &DepthError{Max: DefaultMaxDepth}
	}
	d.depth++
	t, err := d.deduceNode(n)
	d.depth--
	return t, err
}

func (d *deducer) deduceNode(n Node) (value.Type, error) {
	switch n := n.(type) {
	case *Constant:
		return n.Val.Type(), nil
	case *Arithmetic:
		return d.binary(n, n.Op.Symbol(), n.Left, n.Right, arithOps[n.Op])
	case *Unary:
		return d.deduceUnary(n)
	case *TypeCasting:
		return d.deduceCast(n)
	case *Relational:
		return d.deduceRelational(n)
	case *Logical:
		return d.deduceLogical(n)
	case *Subscript:
		return d.deduceSubscript(n)
	case *SubscriptRange:
		lt, err := d.deduce(n.List)
		if err != nil {
			return 0, err
		}
		if !accepts(lt, value.ListType) {
			return 0, errtype(n, "`%s' is not a valid expression, can not apply `[..]' to `%s'.", ToString(n), lt)
		}
		for _, b := range []Node{n.Lo, n.Hi} {
			if b == nil {
				continue
			}
			bt, err := d.deduce(b)
			if err != nil {
				return 0, err
			}
			if !accepts(bt, value.IntType) {
				return 0, errtype(n, "`%s' is not a valid expression, the range bound `%s' is not an integer.", ToString(n), ToString(b))
			}
		}
		return value.ListType, nil
	case *Attribute:
		return d.deduceAttribute(n)
	case *Label:
		return 0, errtype(n, "LabelExpression can not be instantiated.")
	case *LabelAttribute:
		return 0, errtype(n, "LabelAttributeExpression can not be instantiated.")
	case *LabelTagProperty:
		if d.env.Schema == nil {
			return 0, errtype(n, "`%s', not found tag `%s'.", ToString(n), n.Tag)
		}
		t, err := d.env.Schema.TagPropType(n.Tag, n.Prop)
		if err != nil {
			return 0, errtype(n, "`%s', %s", ToString(n), err)
		}
		return t, nil
	case *FunctionCall:
		args := make([]value.Type, len(n.Args))
		for i := range n.Args {
			t, err := d.deduce(n.Args[i])
			if err != nil {
				return 0, err
			}
			args[i] = t
		}
		t, err := function.ReturnType(n.Name, args)
		if err != nil {
			return 0, errtype(n, "`%s' is not a valid expression : %s", ToString(n), err)
		}
		return t, nil
	case *Aggregate:
		return d.deduceAggregate(n)
	case *Property:
		return d.deduceProperty(n)
	case *Vertex:
		return value.VertexType, nil
	case *Edge:
		return value.EdgeType, nil
	case *UUID:
		return value.StringType, nil
	case *Variable:
		if t, ok := d.inner[n.Name]; ok {
			return t, nil
		}
		if n.Inner {
			return value.AnyType, nil
		}
		return value.DataSetType, nil
	case *VersionedVariable:
		if _, err := d.deduce(n.Version); err != nil {
			return 0, err
		}
		return value.DataSetType, nil
	case *List:
		return value.ListType, d.all(n.Items)
	case *Set:
		return value.SetType, d.all(n.Items)
	case *Map:
		for i := range n.Items {
			if _, err := d.deduce(n.Items[i].Val); err != nil {
				return 0, err
			}
		}
		return value.MapType, nil
	case *Case:
		return d.deduceCase(n)
	case *PathBuild:
		for _, item := range n.Items {
			t, err := d.deduce(item)
			if err != nil {
				return 0, err
			}
			if !accepts(t, value.VertexType|value.EdgeType|value.PathType) {
				return 0, errtype(n, "`%s' is not a valid expression, `%s' is not a vertex, an edge or a path.", ToString(n), ToString(item))
			}
		}
		return value.PathType, nil
	case *Column:
		i := n.Index
		if i < 0 {
			i += len(d.env.Inputs)
		}
		if i >= 0 && i < len(d.env.Inputs) {
			return d.env.Inputs[i].Type, nil
		}
		return value.AnyType, nil
	case *ListComprehension:
		if err := d.collection(n, n.Collection); err != nil {
			return 0, err
		}
		restore := d.bind(n.Var, value.AnyType)
		defer restore()
		if n.Filter != nil {
			if err := d.condition(n, n.Filter); err != nil {
				return 0, err
			}
		}
		if n.Mapping != nil {
			if _, err := d.deduce(n.Mapping); err != nil {
				return 0, err
			}
		}
		return value.ListType, nil
	case *Predicate:
		if n.Name == PredExists {
			if _, err := d.deduce(n.Collection); err != nil {
				return 0, err
			}
			return value.BoolType, nil
		}
		if err := d.collection(n, n.Collection); err != nil {
			return 0, err
		}
		restore := d.bind(n.Var, value.AnyType)
		defer restore()
		if n.Filter != nil {
			if err := d.condition(n, n.Filter); err != nil {
				return 0, err
			}
		}
		return value.BoolType, nil
	case *Reduce:
		init, err := d.deduce(n.Initial)
		if err != nil {
			return 0, err
		}
		if err := d.collection(n, n.Collection); err != nil {
			return 0, err
		}
		restoreAcc := d.bind(n.Acc, value.AnyType)
		defer restoreAcc()
		restoreVar := d.bind(n.Var, value.AnyType)
		defer restoreVar()
		mt, err := d.deduce(n.Mapping)
		if err != nil {
			return 0, err
		}
		return init | mt, nil
	}
	panic(fmt.Sprintf("expr.Deduce: unexpected node %T", n))
}

// bind makes name an inner variable of
// type t and returns a function that
// restores the previous binding
func (d *deducer) bind(name string, t value.Type) func() {
	if d.inner == nil {
		d.inner = make(map[string]value.Type)
	}
	old, ok := d.inner[name]
	d.inner[name] = t
	return func() {
		if ok {
			d.inner[name] = old
		} else {
			delete(d.inner, name)
		}
	}
}

func (d *deducer) collection(n, coll Node) error {
	t, err := d.deduce(coll)
	if err != nil {
		return err
	}
	if !accepts(t, value.ListType) {
		return errtype(n, "`%s' is not a valid expression, `%s' is not a list.", ToString(n), ToString(coll))
	}
	return nil
}

func (d *deducer) condition(n, cond Node) error {
	t, err := d.deduce(cond)
	if err != nil {
		return err
	}
	if !accepts(t, value.BoolType) {
		return errtype(n, "`%s' is not a valid expression, the condition `%s' is not a boolean.", ToString(n), ToString(cond))
	}
	return nil
}

func (d *deducer) deduceUnary(n *Unary) (value.Type, error) {
	t, err := d.deduce(n.Operand)
	if err != nil {
		return 0, err
	}
	switch n.Op {
	case KindUnaryPlus:
		return t, nil
	case KindUnaryNegate:
		return d.unary(n, "-", t, value.Neg)
	case KindUnaryNot:
		return d.unary(n, "!", t, value.Not)
	case KindUnaryIncr:
		return d.unary(n, "++", t, func(v value.Value) value.Value { return value.Add(v, value.Int(1)) })
	case KindUnaryDecr:
		return d.unary(n, "--", t, func(v value.Value) value.Value { return value.Sub(v, value.Int(1)) })
	}
	return value.BoolType, nil
}

// castable returns whether a value of
// type from may be converted to type to
func castable(from, to value.Type) bool {
	if from.Superior() || from&to != 0 {
		return true
	}
	switch to {
	case value.StringType:
		return true
	case value.BoolType:
		return from&value.StringType != 0
	case value.IntType, value.FloatType:
		return from&(value.NumericType|value.StringType) != 0
	}
	return false
}

func (d *deducer) deduceCast(n *TypeCasting) (value.Type, error) {
	t, err := d.deduce(n.Operand)
	if err != nil {
		return 0, err
	}
	if IsEvaluable(n.Operand) {
		v := n.Eval(&MapContext{})
		if v.IsNull() {
			return 0, errtype(n, "`%s' is not a valid expression ", ToString(n))
		}
		return v.Type(), nil
	}
	if !castable(t, n.To) {
		return 0, errtype(n, "Can not convert %s 's type : %s to %s", ToString(n.Operand), t, n.To)
	}
	return n.To, nil
}

func (d *deducer) deduceRelational(n *Relational) (value.Type, error) {
	if op, ok := stringOps[n.Op]; ok {
		if _, err := d.binary(n, n.Op.Symbol(), n.Left, n.Right, op); err != nil {
			return 0, err
		}
		return value.BoolType, nil
	}
	if _, err := d.deduce(n.Left); err != nil {
		return 0, err
	}
	rt, err := d.deduce(n.Right)
	if err != nil {
		return 0, err
	}
	if (n.Op == KindRelIn || n.Op == KindRelNotIn) && !accepts(rt, value.ListType|value.SetType|value.MapType) {
		return 0, errtype(n, "`%s': Invalid expression for IN operator, expecting List/Set/Map", ToString(n))
	}
	return value.BoolType, nil
}

func (d *deducer) deduceLogical(n *Logical) (value.Type, error) {
	var op func(a, b value.Value) value.Value
	var sym string
	switch n.Op {
	case KindLogicalAnd:
		op, sym = value.And, "&&"
	case KindLogicalOr:
		op, sym = value.Or, "||"
	default:
		op, sym = value.Xor, "^"
	}
	if len(n.Operands) == 0 {
		return value.BoolType, nil
	}
	acc, err := d.deduce(n.Operands[0])
	if err != nil {
		return 0, err
	}
	for _, x := range n.Operands[1:] {
		t, err := d.deduce(x)
		if err != nil {
			return 0, err
		}
		out := probe(acc, t, op)
		if out == 0 {
			return 0, errtype(n, "`%s' is not a valid expression, can not apply `%s' to `%s' and `%s'.",
				ToString(n), sym, acc, t)
		}
		acc = out
	}
	return acc, nil
}

func (d *deducer) deduceSubscript(n *Subscript) (value.Type, error) {
	lt, err := d.deduce(n.Left)
	if err != nil {
		return 0, err
	}
	rt, err := d.deduce(n.Right)
	if err != nil {
		return 0, err
	}
	if lt.Superior() {
		return lt, nil
	}
	var out value.Type
	if lt&value.ListType != 0 && accepts(rt, value.IntType) {
		out |= value.AnyType
	}
	if lt&(value.MapType|value.VertexType|value.EdgeType) != 0 {
		out |= value.AnyType
	}
	if lt&value.DataSetType != 0 && accepts(rt, value.IntType) {
		out |= value.ListType
	}
	if out == 0 {
		return 0, errtype(n, "`%s' is not a valid expression, can not apply `[]' to `%s' and `%s'.", ToString(n), lt, rt)
	}
	return out, nil
}

func (d *deducer) deduceAttribute(n *Attribute) (value.Type, error) {
	lt, err := d.deduce(n.Left)
	if err != nil {
		return 0, err
	}
	if lt.Superior() {
		return lt, nil
	}
	var out value.Type
	if lt&(value.MapType|value.VertexType|value.EdgeType) != 0 {
		out |= value.AnyType
	}
	if lt&(value.DateType|value.TimeType|value.DateTimeType) != 0 {
		out |= value.IntType | value.NullType
	}
	if out == 0 {
		return 0, errtype(n, "`%s' is not a valid expression, can not apply `.' to `%s'.", ToString(n), lt)
	}
	return out, nil
}

func (d *deducer) deduceAggregate(n *Aggregate) (value.Type, error) {
	if !aggregate.Find(n.Name) {
		return 0, errtype(n, "Unknown aggregate function `%s'", n.Name)
	}
	arg := value.BoolType
	if n.Arg != nil {
		t, err := d.deduce(n.Arg)
		if err != nil {
			return 0, err
		}
		arg = t
	}
	switch strings.ToUpper(n.Name) {
	case "COUNT":
		return value.IntType, nil
	case "AVG", "STD":
		return value.FloatType | value.NullType, nil
	case "BIT_AND", "BIT_OR", "BIT_XOR":
		return value.IntType | value.NullType, nil
	case "COLLECT":
		return value.ListType, nil
	case "COLLECT_SET":
		return value.SetType, nil
	}
	return arg | value.NullType, nil
}

func (d *deducer) deduceProperty(n *Property) (value.Type, error) {
	switch n.Op {
	case KindEdgeSrc, KindEdgeDst:
		if d.env.VidType != 0 {
			return d.env.VidType, nil
		}
		return value.StringType, nil
	case KindEdgeType, KindEdgeRank:
		return value.IntType, nil
	case KindInputProperty:
		return d.column(n, d.env.Inputs, n.Prop)
	case KindVarProperty:
		cols, ok := d.env.Vars[n.Ref]
		if !ok {
			return 0, errtype(n, "`%s', not exist variable `%s'", ToString(n), n.Ref)
		}
		return d.column(n, cols, n.Prop)
	}
	if d.env.Schema == nil {
		return 0, errtype(n, "`%s', not found tag `%s'.", ToString(n), n.Ref)
	}
	var t value.Type
	var err error
	if n.Op == KindEdgeProperty {
		t, err = d.env.Schema.EdgePropType(n.Ref, n.Prop)
	} else {
		t, err = d.env.Schema.TagPropType(n.Ref, n.Prop)
	}
	if err != nil {
		return 0, errtype(n, "`%s', %s", ToString(n), err)
	}
	return t, nil
}

func (d *deducer) column(n Node, cols []ColumnDef, name string) (value.Type, error) {
	if name == "*" {
		return value.AnyType, nil
	}
	for i := range cols {
		if cols[i].Name == name {
			return cols[i].Type, nil
		}
	}
	return 0, errtype(n, "`%s', not exist prop `%s'", ToString(n), name)
}

func (d *deducer) deduceCase(n *Case) (value.Type, error) {
	if n.Cond != nil {
		if _, err := d.deduce(n.Cond); err != nil {
			return 0, err
		}
	}
	var out value.Type
	for i := range n.Whens {
		if n.Cond == nil {
			if err := d.condition(n, n.Whens[i].When); err != nil {
				return 0, err
			}
		} else if _, err := d.deduce(n.Whens[i].When); err != nil {
			return 0, err
		}
		t, err := d.deduce(n.Whens[i].Then)
		if err != nil {
			return 0, err
		}
		out |= t
	}
	if n.Default == nil {
		return out | value.NullType, nil
	}
	t, err := d.deduce(n.Default)
	if err != nil {
		return 0, err
	}
	return out | t, nil
}
