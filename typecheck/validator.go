// ==============================================================================================
// FILE: typecheck/validator.go
// ==============================================================================================
// PACKAGE: typecheck
// PURPOSE: The block validator: descends a parsed tree (manually, per the
//          visitor protocol's "no automatic descent" contract), evaluates
//          every expression reachable from a declaration, WRITE value
//          list, READ/loop-bound expression, or assignment, and reports a
//          TYPE_MISMATCH diagnostic wherever the evaluator resolves ERROR.
//          The parser's own scope discipline (push per function/procedure
//          body, Main, and every if/elseif/while/loop/scope, pop on exit)
//          leaves only the root scope intact once parsing finishes — every
//          other scope was popped and its symbols discarded. This pass
//          walks the same tree again, so it reconstructs each of those
//          scopes in lockstep with the parser before validating the
//          statements that live inside it. At a call site it substitutes
//          argument types into the callee's parameters and re-validates the
//          callee's body under its own reconstructed scope, refining its
//          return-slot type for any caller further down the same pass.
// ==============================================================================================

package typecheck

import (
	"github.com/pkg/errors"

	"sigmafox/ast"
	"sigmafox/diag"
	"sigmafox/source"
	"sigmafox/symtab"
)

// BlockValidator walks a parsed tree reporting type-mismatch diagnostics.
// It is constructed once per parser run and shares that parser's symbol
// table; diagnostics go to whichever bag the caller passes in.
type BlockValidator struct {
	syms *symtab.Table
	bag  *diag.Bag
	eval *Evaluator

	visiting  map[ast.Node]bool // recursion guard for recursive call chains
	validated map[ast.Node]bool // functions/procedures validated at least once
}

// NewBlockValidator builds a validator over syms, reporting into bag. The
// evaluator it drives is wired with a call-site hook so a FunctionCall
// expression descends into the callee's body (scope reconstructed, argument
// types substituted) instead of reading a possibly-stale return-slot type.
func NewBlockValidator(syms *symtab.Table, bag *diag.Bag) *BlockValidator {
	bv := &BlockValidator{
		syms:      syms,
		bag:       bag,
		visiting:  make(map[ast.Node]bool),
		validated: make(map[ast.Node]bool),
	}
	bv.eval = NewEvaluator(syms)
	bv.eval.callSite = bv.evalCallSite
	return bv
}

// ValidateRoot validates a parsed root: every global declaration, then Main
// under its own reconstructed scope — mirroring parser.parseMain's withScope.
// A function or procedure is normally validated at its call sites, where
// argument types give its parameters something concrete to widen against;
// anything declared but never called still needs checking for its own
// sake, so a final sweep validates whatever the call-site passes skipped.
func (bv *BlockValidator) ValidateRoot(n *ast.Root) {
	bv.validateStatements(n.Globals)
	if n.Main != nil {
		bv.withScope(func() { bv.validateStatements(n.Main.Body) })
	}
	bv.validateUncalledDecls(n.Globals)
}

// ValidateModule validates a parsed module's global declarations, then
// sweeps any of its own functions/procedures no call site reached.
func (bv *BlockValidator) ValidateModule(n *ast.Module) {
	bv.validateStatements(n.Globals)
	bv.validateUncalledDecls(n.Globals)
}

// validateUncalledDecls validates, as if called with no arguments, every
// top-level function/procedure declaration validateStatement left
// unvisited — catching type errors intrinsic to a body that no call site
// in this pass ever substituted argument types into.
func (bv *BlockValidator) validateUncalledDecls(stmts []ast.Statement) {
	for _, s := range stmts {
		switch n := s.(type) {
		case *ast.FunctionDecl:
			if !bv.validated[n] {
				bv.validateFunctionBody(n, nil)
			}
		case *ast.ProcedureDecl:
			if !bv.validated[n] {
				bv.validateProcedureBody(n, nil)
			}
		}
	}
}

// withScope pushes a scope, runs fn, and pops unconditionally — the same
// bracketing parser.withScope applies around every structured statement.
func (bv *BlockValidator) withScope(fn func()) {
	bv.syms.Push()
	defer bv.syms.Pop()
	fn()
}

// declareLocal re-inserts a symbol into whatever scope is current. Parsing
// already inserted it once, into a scope that may since have been popped
// (and its contents discarded); this restores it for the second pass. A
// Redeclared outcome against the still-live root scope is harmless — it
// just leaves the original, identical binding in place.
func (bv *BlockValidator) declareLocal(name string, kind symtab.Kind, node ast.Node) {
	bv.syms.InsertLocal(name, &symtab.Symbol{Name: name, Kind: kind, DefiningNode: node})
}

// declareVariable re-derives a VariableDecl's symbol kind the same way
// parser.parseVariableDecl does: ARRAY if dimensioned, VARIABLE if it has
// an initializer, otherwise DECLARED.
func (bv *BlockValidator) declareVariable(n *ast.VariableDecl) {
	kind := symtab.DECLARED
	switch {
	case len(n.Dimensions) > 0:
		kind = symtab.ARRAY
	case n.Initializer != nil:
		kind = symtab.VARIABLE
	}
	bv.declareLocal(n.Name, kind, n)
}

func (bv *BlockValidator) validateStatements(stmts []ast.Statement) {
	for _, s := range stmts {
		bv.validateStatement(s)
	}
}

func (bv *BlockValidator) validateStatement(s ast.Statement) {
	switch n := s.(type) {
	case *ast.VariableDecl:
		bv.declareVariable(n)
		bv.validateVariableDecl(n)
	case *ast.Scope:
		bv.withScope(func() { bv.validateStatements(n.Body) })
	case *ast.If:
		bv.eval.Eval(n.Condition)
		bv.withScope(func() { bv.validateStatements(n.Body) })
		if n.ElseIf != nil {
			bv.validateElseIf(n.ElseIf)
		}
	case *ast.While:
		bv.eval.Eval(n.Condition)
		bv.withScope(func() { bv.validateStatements(n.Body) })
	case *ast.Loop:
		// Initial/Terminal/Step are resolved in the outer scope, the same
		// as parser.parseLoop parses them before opening the loop's scope.
		bv.checkExpr(n.Initial, n.Loc)
		bv.checkExpr(n.Terminal, n.Loc)
		if n.Step != nil {
			bv.checkExpr(n.Step, n.Loc)
		}
		bv.withScope(func() {
			if n.IteratorVar != nil {
				bv.declareLocal(n.IteratorVar.Name, symtab.VARIABLE, n.IteratorVar)
			}
			bv.validateStatements(n.Body)
		})
	case *ast.Read:
		bv.checkExpr(n.Unit, n.Loc)
	case *ast.Write:
		bv.checkExpr(n.Unit, n.Loc)
		for _, v := range n.Values {
			bv.checkExpr(v, n.Loc)
		}
	case *ast.ExpressionStatement:
		bv.checkExpr(n.Expr, n.Loc)
	case *ast.ProcedureCallStatement:
		bv.validateCallSite(n.Name, n.Arguments, n.Loc)
	case *ast.FunctionDecl:
		// Re-declared so later statements in this (possibly reconstructed)
		// scope can resolve it. The body itself is validated at its call
		// sites, where argument types give its parameters something
		// concrete to widen against; validateUncalledDecls catches whatever
		// no call site ever reached.
		bv.declareLocal(n.Name, symtab.FUNCTION, n)
	case *ast.ProcedureDecl:
		bv.declareLocal(n.Name, symtab.PROCEDURE, n)
	case *ast.Include:
		if n.Module != nil {
			bv.ValidateModule(n.Module)
		}
	}
}

func (bv *BlockValidator) validateElseIf(n *ast.ElseIf) {
	bv.eval.Eval(n.Condition)
	bv.withScope(func() { bv.validateStatements(n.Body) })
	if n.ElseIf != nil {
		bv.validateElseIf(n.ElseIf)
	}
}

// validateVariableDecl evaluates storage/dimension expressions (for their
// side effect of surfacing nested ERRORs) and, when an initializer is
// present, resolves its type and reports TYPE_MISMATCH at the declaration
// site if it comes back ERROR (S6).
func (bv *BlockValidator) validateVariableDecl(n *ast.VariableDecl) {
	if n.Storage != nil {
		bv.eval.Eval(n.Storage)
	}
	for _, d := range n.Dimensions {
		bv.eval.Eval(d)
	}
	if n.Initializer == nil {
		return
	}
	t := bv.eval.Eval(n.Initializer)
	if n.DataType == ast.UNKNOWN {
		n.DataType = t
	}
	if t == ast.ERRORTYPE {
		bv.bag.Report(diag.Diagnostic{
			Category: diag.Declaration,
			Severity: diag.SeverityError,
			Code:     diag.CodeTypeMismatch,
			Location: n.Loc,
			Message:  "initializer's type does not resolve to a valid data type",
			Lexeme:   n.Name,
		})
	}
}

// checkExpr evaluates expr and reports TYPE_MISMATCH at loc if it resolves
// to ERROR — the generalization the block validator applies uniformly to
// WRITE values and READ/loop-bound expressions, not just declarations.
func (bv *BlockValidator) checkExpr(expr ast.Expression, loc source.Location) {
	if expr == nil {
		return
	}
	if bv.eval.Eval(expr) == ast.ERRORTYPE {
		bv.bag.Report(diag.Diagnostic{
			Category: diag.Declaration,
			Severity: diag.SeverityError,
			Code:     diag.CodeTypeMismatch,
			Location: loc,
			Message:  "expression's type does not resolve to a valid data type",
		})
	}
}

// validateCallSite evaluates each argument, then descends into the callee
// (a PROCEDURE — a FunctionCall expression goes through evalCallSite
// instead, since by parser construction a ProcedureCallStatement only ever
// names a PROCEDURE symbol).
func (bv *BlockValidator) validateCallSite(name string, args []ast.Expression, loc source.Location) {
	argTypes := make([]ast.DataType, len(args))
	for i, a := range args {
		argTypes[i] = bv.eval.Eval(a)
	}
	sym, found := bv.syms.LookupAny(name)
	if !found {
		// A ProcedureCallStatement only exists because the parser itself
		// resolved name to a PROCEDURE symbol at parse time (§4.E); a miss
		// here means the symbol table changed shape between parsing and
		// validation — an invariant violation, not an ordinary diagnostic.
		bv.reportInvariantViolation(name, loc)
		return
	}
	switch decl := sym.DefiningNode.(type) {
	case *ast.FunctionDecl:
		bv.validateFunctionBody(decl, argTypes)
	case *ast.ProcedureDecl:
		bv.validateProcedureBody(decl, argTypes)
	}
}

// evalCallSite is the Evaluator.callSite hook: it lets a FunctionCall
// expression drive the same substitute-and-descend behavior a
// ProcedureCallStatement gets from validateCallSite, instead of reading a
// possibly-UNKNOWN return-slot type off the callee.
func (bv *BlockValidator) evalCallSite(n *ast.FunctionCall) ast.DataType {
	argTypes := make([]ast.DataType, len(n.Arguments))
	for i, a := range n.Arguments {
		argTypes[i] = bv.eval.Eval(a)
	}
	sym, found := bv.syms.LookupAny(n.Name)
	if !found {
		bv.reportInvariantViolation(n.Name, n.Loc)
		return ast.UNKNOWN
	}
	decl, ok := sym.DefiningNode.(*ast.FunctionDecl)
	if !ok {
		return ast.UNKNOWN
	}
	return bv.validateFunctionBody(decl, argTypes)
}

// validateFunctionBody substitutes argTypes into decl's parameters,
// reconstructs the function's own body scope the way parser.parseFunctionDecl
// built it the first time (parameters as PARAMETER, the function's own name
// rebound as the DECLARED return slot), validates the body under it, and
// returns the return slot's resulting type. A recursion guard skips a callee
// already being validated higher up the same call chain, returning its
// return slot's type as currently refined — a recursive function's result
// type is whatever the outer validation pass already settled on.
func (bv *BlockValidator) validateFunctionBody(decl *ast.FunctionDecl, argTypes []ast.DataType) ast.DataType {
	if decl.ReturnSlot == nil {
		return ast.UNKNOWN
	}
	if bv.visiting[decl] {
		return decl.ReturnSlot.DataType
	}
	bv.visiting[decl] = true
	bv.validated[decl] = true
	defer delete(bv.visiting, decl)

	for i, p := range decl.Parameters {
		if i < len(argTypes) {
			p.DataType = argTypes[i]
		}
	}
	bv.withScope(func() {
		for _, p := range decl.Parameters {
			bv.declareLocal(p.Name, symtab.PARAMETER, p)
		}
		bv.declareLocal(decl.Name, symtab.DECLARED, decl.ReturnSlot)
		bv.validateStatements(decl.Body)
	})
	return decl.ReturnSlot.DataType
}

// validateProcedureBody is validateFunctionBody's procedure counterpart:
// same parameter substitution and scope reconstruction, no return slot.
func (bv *BlockValidator) validateProcedureBody(decl *ast.ProcedureDecl, argTypes []ast.DataType) {
	if bv.visiting[decl] {
		return
	}
	bv.visiting[decl] = true
	bv.validated[decl] = true
	defer delete(bv.visiting, decl)

	for i, p := range decl.Parameters {
		if i < len(argTypes) {
			p.DataType = argTypes[i]
		}
	}
	bv.withScope(func() {
		for _, p := range decl.Parameters {
			bv.declareLocal(p.Name, symtab.PARAMETER, p)
		}
		bv.validateStatements(decl.Body)
	})
}

// reportInvariantViolation records a §7 internal/invariant diagnostic: a
// bug signal, not a recoverable source error. The error is built with
// pkg/errors.WithStack, but only its message text is kept in the
// diagnostic; the stack trace is not recorded.
func (bv *BlockValidator) reportInvariantViolation(name string, loc source.Location) {
	err := errors.WithStack(errors.Errorf("symbol %q unlocatable at a call site the parser already resolved", name))
	bv.bag.Report(diag.Diagnostic{
		Category: diag.Internal,
		Severity: diag.SeverityError,
		Code:     diag.CodeInvariantViolation,
		Location: loc,
		Message:  err.Error(),
		Lexeme:   name,
	})
}
