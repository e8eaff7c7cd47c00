// ==============================================================================================
// FILE: ast/expr.go
// ==============================================================================================
// PACKAGE: ast
// PURPOSE: Expression node variants: binary operators (keyed by operation),
//          unary negation, function calls, array indexing, primaries
//          (literals and identifier references), and parenthesized groups.
// ==============================================================================================

package ast

import (
	"bytes"

	"sigmafox/source"
	"sigmafox/token"
)

// BinaryExpr covers every binary operator level in the grammar: assignment,
// equality, comparison, concatenation, term, factor, magnitude, extraction,
// and derivation. Op is the operator token's kind.
type BinaryExpr struct {
	Loc   source.Location
	Op    token.Kind
	Left  Expression
	Right Expression
}

func (n *BinaryExpr) Location() source.Location { return n.Loc }
func (n *BinaryExpr) Accept(v Visitor)          { v.VisitBinaryExpr(n) }
func (n *BinaryExpr) expressionNode()           {}
func (n *BinaryExpr) String() string {
	var b bytes.Buffer
	b.WriteString("(")
	b.WriteString(n.Left.String())
	b.WriteString(" ")
	b.WriteString(string(n.Op))
	b.WriteString(" ")
	b.WriteString(n.Right.String())
	b.WriteString(")")
	return b.String()
}

// UnaryExpr is prefix negation ("-expr").
type UnaryExpr struct {
	Loc     source.Location
	Op      token.Kind
	Operand Expression
}

func (n *UnaryExpr) Location() source.Location { return n.Loc }
func (n *UnaryExpr) Accept(v Visitor)          { v.VisitUnaryExpr(n) }
func (n *UnaryExpr) expressionNode()           {}
func (n *UnaryExpr) String() string            { return "(-" + n.Operand.String() + ")" }

// FunctionCall is name(arg, arg, ...) — only reachable once the symbol
// table confirms name is bound as a FUNCTION (§4.E).
type FunctionCall struct {
	Loc       source.Location
	Name      string
	Arguments []Expression
}

func (n *FunctionCall) Location() source.Location { return n.Loc }
func (n *FunctionCall) Accept(v Visitor)          { v.VisitFunctionCall(n) }
func (n *FunctionCall) expressionNode()           {}
func (n *FunctionCall) String() string {
	var b bytes.Buffer
	b.WriteString(n.Name)
	b.WriteString("(")
	b.WriteString(joinStrings(n.Arguments, ", "))
	b.WriteString(")")
	return b.String()
}

// ArrayIndex is name(i, j, ...) — only reachable once the symbol table
// confirms name is bound as an ARRAY (§4.E).
type ArrayIndex struct {
	Loc     source.Location
	Name    string
	Indices []Expression
}

func (n *ArrayIndex) Location() source.Location { return n.Loc }
func (n *ArrayIndex) Accept(v Visitor)          { v.VisitArrayIndex(n) }
func (n *ArrayIndex) expressionNode()           {}
func (n *ArrayIndex) String() string {
	var b bytes.Buffer
	b.WriteString(n.Name)
	b.WriteString("(")
	b.WriteString(joinStrings(n.Indices, ", "))
	b.WriteString(")")
	return b.String()
}

// Primary is a leaf expression: a literal or a bare identifier reference.
// Kind holds the originating token kind (token.INTEGER, token.REAL,
// token.COMPLEX, token.STRING, or token.IDENT).
type Primary struct {
	Loc    source.Location
	Kind   token.Kind
	Lexeme string

	IntValue    int64
	RealValue   float64 // also the real part of a COMPLEX literal
	StringValue string
	Name        string // set when Kind == token.IDENT
}

func (n *Primary) Location() source.Location { return n.Loc }
func (n *Primary) Accept(v Visitor)          { v.VisitPrimary(n) }
func (n *Primary) expressionNode()           {}
func (n *Primary) String() string {
	if n.Kind == token.STRING {
		return "\"" + n.StringValue + "\""
	}
	return n.Lexeme
}

// DataTypeOf returns the primary's literal DataType, or UNKNOWN for an
// identifier reference (whose type comes from the bound symbol instead).
func (n *Primary) DataTypeOf() DataType {
	switch n.Kind {
	case token.INTEGER:
		return INTEGER
	case token.REAL:
		return REAL
	case token.COMPLEX:
		return COMPLEX
	case token.STRING:
		return STRING
	default:
		return UNKNOWN
	}
}

// Grouping is a parenthesized expression, kept as its own node so the
// reference printer can round-trip explicit grouping.
type Grouping struct {
	Loc   source.Location
	Inner Expression
}

func (n *Grouping) Location() source.Location { return n.Loc }
func (n *Grouping) Accept(v Visitor)          { v.VisitGrouping(n) }
func (n *Grouping) expressionNode()           {}
func (n *Grouping) String() string            { return "(" + n.Inner.String() + ")" }
