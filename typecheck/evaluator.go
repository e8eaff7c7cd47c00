// ==============================================================================================
// FILE: typecheck/evaluator.go
// ==============================================================================================
// PACKAGE: typecheck
// PURPOSE: The expression-type evaluator: a bottom-up fold over an
//          Expression producing a DataType, driven through the AST's
//          visitor protocol rather than a type switch (§6 "sole protocol").
//          Adapted from the teacher's Eval(node, env) object.Object fold —
//          same shape, static types instead of runtime values.
// ==============================================================================================

package typecheck

import (
	"sigmafox/ast"
	"sigmafox/symtab"
	"sigmafox/token"
)

// Evaluator computes the DataType of an Expression tree. It holds no
// diagnostics of its own — that's BlockValidator's job — and is safe to
// reuse across many Eval calls against the same symbol table.
//
// callSite, when set, lets a BlockValidator intercept every FunctionCall:
// instead of reading the callee's return-slot type as-is, it substitutes
// argument types into the callee's parameters and re-validates its body
// under a reconstructed scope (§4.E's call-site descent). A bare Evaluator
// with no callSite wired falls back to a direct read of the return slot.
type Evaluator struct {
	syms     *symtab.Table
	result   ast.DataType
	callSite func(n *ast.FunctionCall) ast.DataType
}

// NewEvaluator builds an Evaluator resolving identifiers against syms.
func NewEvaluator(syms *symtab.Table) *Evaluator {
	return &Evaluator{syms: syms}
}

// Eval folds expr down to its DataType per §4.E's bottom-up rules.
func (e *Evaluator) Eval(expr ast.Expression) ast.DataType {
	expr.Accept(e)
	return e.result
}

func (e *Evaluator) VisitBinaryExpr(n *ast.BinaryExpr) {
	switch n.Op {
	case token.ASSIGN:
		// assignment node -> right side's kind, written back onto the LHS
		// variable node's data-type (§4.E "assignments... result updates
		// the LHS variable node's data-type").
		t := e.Eval(n.Right)
		e.result = t
		e.writeBack(n.Left, t)
	case token.AMP:
		// concatenation -> STRING if both sides STRING, else ERROR.
		left := e.Eval(n.Left)
		right := e.Eval(n.Right)
		if left == ast.STRING && right == ast.STRING {
			e.result = ast.STRING
		} else {
			e.result = ast.ERRORTYPE
		}
	case token.EQ, token.HASH, token.LT, token.LE, token.GT, token.GE:
		// equality/comparison -> INTEGER (treated as boolean).
		e.Eval(n.Left)
		e.Eval(n.Right)
		e.result = ast.INTEGER
	default:
		// arithmetic binary (+, -, *, /, ^, |, %) -> widening lattice join.
		left := e.Eval(n.Left)
		right := e.Eval(n.Right)
		if left == ast.STRING || right == ast.STRING {
			e.result = ast.ERRORTYPE
			return
		}
		e.result = ast.Widen(left, right)
	}
}

func (e *Evaluator) VisitUnaryExpr(n *ast.UnaryExpr) {
	// unary negation -> child's kind (error on STRING).
	t := e.Eval(n.Operand)
	if t == ast.STRING {
		e.result = ast.ERRORTYPE
		return
	}
	e.result = t
}

func (e *Evaluator) VisitFunctionCall(n *ast.FunctionCall) {
	if e.callSite != nil {
		e.result = e.callSite(n)
		return
	}
	for _, arg := range n.Arguments {
		e.Eval(arg)
	}
	sym, found := e.syms.LookupAny(n.Name)
	if !found {
		e.result = ast.UNKNOWN
		return
	}
	decl, ok := sym.DefiningNode.(*ast.FunctionDecl)
	if !ok || decl.ReturnSlot == nil {
		e.result = ast.UNKNOWN
		return
	}
	e.result = decl.ReturnSlot.DataType
}

// writeBack resolves lhs the same way parser.isAssignable restricts it
// (a bare identifier or an array index) and, if it names a VariableDecl,
// overwrites that declaration's DataType with t.
func (e *Evaluator) writeBack(lhs ast.Expression, t ast.DataType) {
	var name string
	switch v := lhs.(type) {
	case *ast.Primary:
		name = v.Name
	case *ast.ArrayIndex:
		name = v.Name
	default:
		return
	}
	sym, found := e.syms.LookupAny(name)
	if !found {
		return
	}
	if decl, ok := sym.DefiningNode.(*ast.VariableDecl); ok {
		decl.DataType = t
	}
}

func (e *Evaluator) VisitArrayIndex(n *ast.ArrayIndex) {
	for _, idx := range n.Indices {
		e.Eval(idx)
	}
	sym, found := e.syms.LookupAny(n.Name)
	if !found {
		e.result = ast.UNKNOWN
		return
	}
	decl, ok := sym.DefiningNode.(*ast.VariableDecl)
	if !ok {
		e.result = ast.UNKNOWN
		return
	}
	e.result = decl.DataType
}

func (e *Evaluator) VisitPrimary(n *ast.Primary) {
	if n.Kind != token.IDENT {
		// literal -> its kind.
		e.result = n.DataTypeOf()
		return
	}
	// identifier -> the symbol's variable-node's data-type (or UNKNOWN).
	sym, found := e.syms.LookupAny(n.Name)
	if !found {
		e.result = ast.UNKNOWN
		return
	}
	if decl, ok := sym.DefiningNode.(*ast.VariableDecl); ok {
		e.result = decl.DataType
		return
	}
	e.result = ast.UNKNOWN
}

func (e *Evaluator) VisitGrouping(n *ast.Grouping) {
	e.result = e.Eval(n.Inner)
}

// The remaining Visit* methods exist only to satisfy ast.Visitor —
// expressions never contain statement nodes, so Eval never reaches them.
func (e *Evaluator) VisitRoot(*ast.Root)                                     {}
func (e *Evaluator) VisitModule(*ast.Module)                                 {}
func (e *Evaluator) VisitMain(*ast.Main)                                     {}
func (e *Evaluator) VisitInclude(*ast.Include)                               {}
func (e *Evaluator) VisitFunctionDecl(*ast.FunctionDecl)                     {}
func (e *Evaluator) VisitProcedureDecl(*ast.ProcedureDecl)                   {}
func (e *Evaluator) VisitVariableDecl(*ast.VariableDecl)                     {}
func (e *Evaluator) VisitScope(*ast.Scope)                                   {}
func (e *Evaluator) VisitIf(*ast.If)                                         {}
func (e *Evaluator) VisitElseIf(*ast.ElseIf)                                 {}
func (e *Evaluator) VisitWhile(*ast.While)                                   {}
func (e *Evaluator) VisitLoop(*ast.Loop)                                     {}
func (e *Evaluator) VisitRead(*ast.Read)                                     {}
func (e *Evaluator) VisitWrite(*ast.Write)                                   {}
func (e *Evaluator) VisitExpressionStatement(*ast.ExpressionStatement)       {}
func (e *Evaluator) VisitProcedureCallStatement(*ast.ProcedureCallStatement) {}
