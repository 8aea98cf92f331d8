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
)

// Kind identifies the variant of a Node.
// The kind of a node is fixed when it is
// constructed and determines its shape.
type Kind uint8

const (
	KindConstant Kind = iota + 1
	KindAdd
	KindMinus
	KindMultiply
	KindDivision
	KindMod
	KindUnaryPlus
	KindUnaryNegate
	KindUnaryNot
	KindUnaryIncr
	KindUnaryDecr
	KindIsNull
	KindIsNotNull
	KindIsEmpty
	KindIsNotEmpty
	KindRelEQ
	KindRelNE
	KindRelLT
	KindRelLE
	KindRelGT
	KindRelGE
	KindRelREG
	KindRelIn
	KindRelNotIn
	KindContains
	KindNotContains
	KindStartsWith
	KindNotStartsWith
	KindEndsWith
	KindNotEndsWith
	KindSubscript
	KindSubscriptRange
	KindAttribute
	KindLabel
	KindLabelAttribute
	KindLabelTagProperty
	KindLogicalAnd
	KindLogicalOr
	KindLogicalXor
	KindTypeCasting
	KindFunctionCall
	KindAggregate
	KindTagProperty
	KindEdgeProperty
	KindInputProperty
	KindVarProperty
	KindSrcProperty
	KindDstProperty
	KindEdgeSrc
	KindEdgeType
	KindEdgeRank
	KindEdgeDst
	KindVertex
	KindEdge
	KindUUID
	KindVariable
	KindVersionedVariable
	KindList
	KindSet
	KindMap
	KindCase
	KindPathBuild
	KindColumn
	KindListComprehension
	KindPredicate
	KindReduce

	maxKind
)

var kindNames = [maxKind]string{
	KindConstant:          "Constant",
	KindAdd:               "Add",
	KindMinus:             "Minus",
	KindMultiply:          "Multiply",
	KindDivision:          "Division",
	KindMod:               "Mod",
	KindUnaryPlus:         "UnaryPlus",
	KindUnaryNegate:       "UnaryNegate",
	KindUnaryNot:          "UnaryNot",
	KindUnaryIncr:         "AutoIncrement",
	KindUnaryDecr:         "AutoDecrement",
	KindIsNull:            "IsNull",
	KindIsNotNull:         "IsNotNull",
	KindIsEmpty:           "IsEmpty",
	KindIsNotEmpty:        "IsNotEmpty",
	KindRelEQ:             "Equal",
	KindRelNE:             "NotEqual",
	KindRelLT:             "LessThan",
	KindRelLE:             "LessEqual",
	KindRelGT:             "GreaterThan",
	KindRelGE:             "GreaterEqual",
	KindRelREG:            "RegexMatch",
	KindRelIn:             "In",
	KindRelNotIn:          "NotIn",
	KindContains:          "Contains",
	KindNotContains:       "NotContains",
	KindStartsWith:        "StartsWith",
	KindNotStartsWith:     "NotStartsWith",
	KindEndsWith:          "EndsWith",
	KindNotEndsWith:       "NotEndsWith",
	KindSubscript:         "Subscript",
	KindSubscriptRange:    "SubscriptRange",
	KindAttribute:         "Attribute",
	KindLabel:             "Label",
	KindLabelAttribute:    "LabelAttribute",
	KindLabelTagProperty:  "LabelTagProperty",
	KindLogicalAnd:        "LogicalAnd",
	KindLogicalOr:         "LogicalOr",
	KindLogicalXor:        "LogicalXor",
	KindTypeCasting:       "TypeCasting",
	KindFunctionCall:      "FunctionCall",
	KindAggregate:         "Aggregate",
	KindTagProperty:       "TagProp",
	KindEdgeProperty:      "EdgeProp",
	KindInputProperty:     "InputProp",
	KindVarProperty:       "VarProp",
	KindSrcProperty:       "SrcProp",
	KindDstProperty:       "DstProp",
	KindEdgeSrc:           "EdgeSrc",
	KindEdgeType:          "EdgeType",
	KindEdgeRank:          "EdgeRank",
	KindEdgeDst:           "EdgeDst",
	KindVertex:            "Vertex",
	KindEdge:              "Edge",
	KindUUID:              "UUID",
	KindVariable:          "Variable",
	KindVersionedVariable: "VersionedVariable",
	KindList:              "List",
	KindSet:               "Set",
	KindMap:               "Map",
	KindCase:              "Case",
	KindPathBuild:         "PathBuild",
	KindColumn:            "Column",
	KindListComprehension: "ListComprehension",
	KindPredicate:         "Predicate",
	KindReduce:            "Reduce",
}

func (k Kind) String() string {
	if k < maxKind && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Unknown"
}

// IsArithmetic returns whether k is a binary
// arithmetic operator.
func (k Kind) IsArithmetic() bool {
	return k >= KindAdd && k <= KindMod
}

// IsUnary returns whether k is a unary operator.
func (k Kind) IsUnary() bool {
	return k >= KindUnaryPlus && k <= KindIsNotEmpty
}

// IsRelational returns whether k is a
// relational (comparison) operator.
func (k Kind) IsRelational() bool {
	return k >= KindRelEQ && k <= KindNotEndsWith
}

// IsLogical returns whether k is AND, OR or XOR.
func (k Kind) IsLogical() bool {
	return k >= KindLogicalAnd && k <= KindLogicalXor
}

// IsProperty returns whether k reads a
// property or edge field from the context.
func (k Kind) IsProperty() bool {
	return k >= KindTagProperty && k <= KindEdgeDst
}

// IsContainer returns whether k is a
// list, set or map literal.
func (k Kind) IsContainer() bool {
	return k == KindList || k == KindSet || k == KindMap
}

// operator text of binary operators as it
// appears between the two operands
var opText = map[Kind]string{
	KindAdd:           "+",
	KindMinus:         "-",
	KindMultiply:      "*",
	KindDivision:      "/",
	KindMod:           "%",
	KindRelEQ:         "==",
	KindRelNE:         "!=",
	KindRelLT:         "<",
	KindRelLE:         "<=",
	KindRelGT:         ">",
	KindRelGE:         ">=",
	KindRelREG:        "=~",
	KindRelIn:         " IN ",
	KindRelNotIn:      " NOT IN ",
	KindContains:      " CONTAINS ",
	KindNotContains:   " NOT CONTAINS ",
	KindStartsWith:    " STARTS WITH ",
	KindNotStartsWith: " NOT STARTS WITH ",
	KindEndsWith:      " ENDS WITH ",
	KindNotEndsWith:   " NOT ENDS WITH ",
	KindLogicalAnd:    " AND ",
	KindLogicalOr:     " OR ",
	KindLogicalXor:    " XOR ",
}

// Symbol returns the operator symbol of a binary
// operator kind (e.g. "+" or "STARTS WITH"),
// or the empty string for other kinds.
func (k Kind) Symbol() string {
	return strings.TrimSpace(opText[k])
}
