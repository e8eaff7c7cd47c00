// ==============================================================================================
// FILE: parser/expr.go
// ==============================================================================================
// PACKAGE: parser
// PURPOSE: The expression grammar: an explicit precedence ladder from
//          equality down to primaries, with symbol-table-driven
//          disambiguation of function calls, array indexing, and plain
//          identifier references at the point an IDENT is seen (§4.E).
// ==============================================================================================

package parser

import (
	"strconv"
	"strings"

	"sigmafox/ast"
	"sigmafox/diag"
	"sigmafox/source"
	"sigmafox/symtab"
	"sigmafox/token"
)

// parseExpr parses the precedence ladder with no assignment and no bare
// procedure-call: the lowercase `expr` nonterminal used for variable-decl
// storage/dimensions, READ/WRITE operands, loop bounds, and call/index
// argument lists.
func (p *Parser) parseExpr() ast.Expression { return p.parseEquality() }

// parseExpression parses the `expression` nonterminal: the same ladder,
// but checked first for the assignment pattern (an assignable left-hand
// side immediately followed by ':='). Used at expression-statement
// position, and recursively for a chained assignment's right-hand side.
func (p *Parser) parseExpression() ast.Expression {
	left := p.parseEquality()
	if p.at(token.ASSIGN) && isAssignable(left) {
		loc := p.win.Current.Location
		p.advance() // ':='
		right := p.parseExpression()
		p.onAssignment(left)
		return &ast.BinaryExpr{Loc: loc, Op: token.ASSIGN, Left: left, Right: right}
	}
	return left
}

func isAssignable(e ast.Expression) bool {
	switch v := e.(type) {
	case *ast.Primary:
		return v.Kind == token.IDENT
	case *ast.ArrayIndex:
		return true
	default:
		return false
	}
}

// onAssignment promotes a DECLARED symbol to VARIABLE the moment it is
// assigned, so later statements in the same parse see an up-to-date kind
// for disambiguation (a function's own name, bound DECLARED inside its own
// body to receive its return value, is promoted the same way).
func (p *Parser) onAssignment(left ast.Expression) {
	var name string
	var loc source.Location
	switch v := left.(type) {
	case *ast.Primary:
		name, loc = v.Name, v.Loc
	case *ast.ArrayIndex:
		name, loc = v.Name, v.Loc
	}
	sym, found := p.syms.LookupAny(name)
	if !found {
		p.errorAt(loc, diag.Declaration, diag.CodeUndeclaredIdentifier, name, "undeclared identifier %q", name)
		return
	}
	if sym.Kind == symtab.DECLARED {
		sym.Kind = symtab.VARIABLE
	}
}

// parseBinaryLevel is the generic left-associative binary-precedence-level
// helper every rung of the ladder is built from.
func (p *Parser) parseBinaryLevel(next func() ast.Expression, ops ...token.Kind) ast.Expression {
	left := next()
	for p.atAny(ops...) {
		opTok := p.win.Current
		p.advance()
		right := next()
		left = &ast.BinaryExpr{Loc: opTok.Location, Op: opTok.Kind, Left: left, Right: right}
	}
	return left
}

func (p *Parser) atAny(ks ...token.Kind) bool {
	for _, k := range ks {
		if p.win.Current.Kind == k {
			return true
		}
	}
	return false
}

func (p *Parser) parseEquality() ast.Expression {
	return p.parseBinaryLevel(p.parseComparison, token.EQ, token.HASH)
}
func (p *Parser) parseComparison() ast.Expression {
	return p.parseBinaryLevel(p.parseConcatenation, token.LT, token.LE, token.GT, token.GE)
}
func (p *Parser) parseConcatenation() ast.Expression {
	return p.parseBinaryLevel(p.parseTerm, token.AMP)
}
func (p *Parser) parseTerm() ast.Expression {
	return p.parseBinaryLevel(p.parseFactor, token.PLUS, token.MINUS)
}
func (p *Parser) parseFactor() ast.Expression {
	return p.parseBinaryLevel(p.parseMagnitude, token.STAR, token.SLASH)
}
func (p *Parser) parseMagnitude() ast.Expression {
	return p.parseBinaryLevel(p.parseExtraction, token.CARET)
}
func (p *Parser) parseExtraction() ast.Expression {
	return p.parseBinaryLevel(p.parseDerivation, token.PIPE)
}
func (p *Parser) parseDerivation() ast.Expression {
	return p.parseBinaryLevel(p.parseUnary, token.PERCENT)
}

func (p *Parser) parseUnary() ast.Expression {
	if p.at(token.MINUS) {
		loc := p.win.Current.Location
		p.advance()
		operand := p.parseUnary()
		return &ast.UnaryExpr{Loc: loc, Op: token.MINUS, Operand: operand}
	}
	return p.parseCallOrIndexOrPrimary()
}

// parseCallOrIndexOrPrimary resolves an IDENT by consulting the symbol
// table: a FUNCTION symbol followed by '(' is a function call, an ARRAY
// symbol followed by '(' is an index expression, anything else falls
// through to a plain primary (§4.E: disambiguation by declared kind, not
// by syntax alone).
func (p *Parser) parseCallOrIndexOrPrimary() ast.Expression {
	if p.at(token.IDENT) {
		tok := p.win.Current
		if sym, found := p.syms.LookupAny(tok.Lexeme); found {
			switch sym.Kind {
			case symtab.FUNCTION:
				p.advance()
				args := p.parseParenArgList(false)
				if len(args) != sym.Arity {
					p.errorAt(tok.Location, diag.Declaration, diag.CodeArityMismatch, tok.Lexeme,
						"function %q expects %d argument(s), got %d", tok.Lexeme, sym.Arity, len(args))
					panic(bail{})
				}
				return &ast.FunctionCall{Loc: tok.Location, Name: tok.Lexeme, Arguments: args}
			case symtab.ARRAY:
				p.advance()
				idx := p.parseParenArgList(true)
				if len(idx) != sym.Arity {
					p.errorAt(tok.Location, diag.Declaration, diag.CodeArityMismatch, tok.Lexeme,
						"array %q has %d dimension(s), got %d index expression(s)", tok.Lexeme, sym.Arity, len(idx))
					panic(bail{})
				}
				return &ast.ArrayIndex{Loc: tok.Location, Name: tok.Lexeme, Indices: idx}
			}
		}
	}
	return p.parsePrimary()
}

func (p *Parser) parseParenArgList(requireAtLeastOne bool) []ast.Expression {
	p.expect(token.LPAREN, diag.CodeUnexpectedToken, "'('")
	var args []ast.Expression
	if !p.at(token.RPAREN) {
		args = append(args, p.parseExpr())
		for p.at(token.COMMA) {
			p.advance()
			args = append(args, p.parseExpr())
		}
	} else if requireAtLeastOne {
		p.errorAt(p.win.Current.Location, diag.Syntactic, diag.CodeUnexpectedToken, p.win.Current.Lexeme,
			"expected at least one index expression")
	}
	p.expect(token.RPAREN, diag.CodeMissingRParen, "')'")
	return args
}

func (p *Parser) parsePrimary() ast.Expression {
	tok := p.win.Current
	switch tok.Kind {
	case token.INTEGER:
		p.advance()
		v, _ := strconv.ParseInt(tok.Lexeme, 10, 64)
		return &ast.Primary{Loc: tok.Location, Kind: token.INTEGER, Lexeme: tok.Lexeme, IntValue: v}
	case token.REAL:
		p.advance()
		v, _ := strconv.ParseFloat(tok.Lexeme, 64)
		return &ast.Primary{Loc: tok.Location, Kind: token.REAL, Lexeme: tok.Lexeme, RealValue: v}
	case token.COMPLEX:
		p.advance()
		trimmed := strings.TrimSuffix(strings.TrimSuffix(tok.Lexeme, "i"), "I")
		v, _ := strconv.ParseFloat(trimmed, 64)
		return &ast.Primary{Loc: tok.Location, Kind: token.COMPLEX, Lexeme: tok.Lexeme, RealValue: v}
	case token.STRING:
		p.advance()
		return &ast.Primary{Loc: tok.Location, Kind: token.STRING, Lexeme: tok.Lexeme, StringValue: tok.Lexeme}
	case token.IDENT:
		p.advance()
		if _, found := p.syms.LookupAny(tok.Lexeme); !found {
			p.errorAt(tok.Location, diag.Declaration, diag.CodeUndeclaredIdentifier, tok.Lexeme, "undeclared identifier %q", tok.Lexeme)
		}
		return &ast.Primary{Loc: tok.Location, Kind: token.IDENT, Lexeme: tok.Lexeme, Name: tok.Lexeme}
	case token.LPAREN:
		p.advance()
		inner := p.parseExpr()
		p.expect(token.RPAREN, diag.CodeMissingRParen, "')'")
		return &ast.Grouping{Loc: tok.Location, Inner: inner}
	default:
		p.errorAt(tok.Location, diag.Syntactic, diag.CodeUnexpectedToken, tok.Lexeme, "unexpected token %q in expression", tok.Lexeme)
		panic(bail{})
	}
}
