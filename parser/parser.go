// ==============================================================================================
// FILE: parser/parser.go
// ==============================================================================================
// PACKAGE: parser
// PURPOSE: A recursive-descent parser with panic-mode error recovery. It
//          converts a token stream (from the lexer) into an AST, consulting
//          the scoped symbol table at every identifier reference to
//          disambiguate procedure calls, function calls, and array indexing
//          by kind rather than by syntax. This is the component that
//          defines the grammar and error-recovery strategy of SigmaFox.
// ==============================================================================================

package parser

import (
	"fmt"

	"go.uber.org/zap"

	"sigmafox/ast"
	"sigmafox/config"
	"sigmafox/diag"
	"sigmafox/graph"
	"sigmafox/lexer"
	"sigmafox/source"
	"sigmafox/symtab"
	"sigmafox/token"
)

// bail is the sentinel panic value a statement parser raises to unwind to
// the nearest recovery point. It carries no data; the diagnostic itself was
// already reported at the point of failure.
type bail struct{}

// Parser parses exactly one source file, either as a root (include* +
// global* + main) or as a module (include* + global* only). It owns its
// own symbol table and diagnostic bag; the dependency graph owns the
// Parser itself once constructed through it (§9's cyclic-ownership note).
type Parser struct {
	file *source.File
	win  *lexer.Window
	syms *symtab.Table
	bag  *diag.Bag
	g    *graph.Graph
	cfg  *config.Settings
	log  *zap.SugaredLogger

	root *ast.Root
	mod  *ast.Module

	moduleParsed bool
	moduleOK     bool
}

// New constructs a Parser over file. g is consulted whenever an INCLUDE
// statement is matched; settings carries warnings-as-errors; log may be
// nil (a no-op logger is substituted).
func New(file *source.File, g *graph.Graph, settings *config.Settings, log *zap.SugaredLogger) *Parser {
	if settings == nil {
		settings = config.Default()
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Parser{
		file: file,
		win:  lexer.NewWindow(lexer.New(file)),
		syms: symtab.New(),
		bag:  diag.NewBag(settings.WarningsAsErrors, log),
		g:    g,
		cfg:  settings,
		log:  log,
	}
}

// ErrorCount reports the number of diagnostics this parser's own run has
// accumulated that count toward failure (§6 Driver API).
func (p *Parser) ErrorCount() int { return p.bag.ErrorCount() }

// Diagnostics returns every diagnostic this parser has reported, in
// discovery order.
func (p *Parser) Diagnostics() []diag.Diagnostic { return p.bag.All() }

// ScopesBalanced reports whether every scope this parser pushed was popped
// by the time its top-level parse returned (§8 invariant #5, surfaced to
// includers as INCLUDE_SCOPE_IMBALANCE when false).
func (p *Parser) ScopesBalanced() bool { return p.syms.Depth() == 0 }

// Root returns the AST built by ParseAsRoot, or nil if it was never called.
func (p *Parser) Root() *ast.Root { return p.root }

// Module returns the AST built by ParseAsModule, or nil if it was never
// called. Calling ParseAsModule more than once returns the same Module
// pointer every time (§8 invariant #6).
func (p *Parser) Module() *ast.Module { return p.mod }

// Symbols exposes the parser's own symbol table, for the semantic passes
// that run after a successful parse.
func (p *Parser) Symbols() *symtab.Table { return p.syms }

// ParseAsRoot parses the file as include* global* main, and returns true
// iff no error was reported during the parse.
func (p *Parser) ParseAsRoot() bool {
	p.log.Debugw("parse_as_root: enter", "file", p.file.Path)
	loc := p.win.Current.Location
	globals := p.parseTopLevel(func(k token.Kind) bool { return k == token.BEGIN })
	main := p.parseMain()
	p.root = &ast.Root{Loc: loc, Globals: globals, Main: main}
	ok := p.bag.ErrorCount() == 0
	p.log.Debugw("parse_as_root: exit", "file", p.file.Path, "ok", ok, "errors", p.bag.ErrorCount())
	return ok
}

// ParseAsModule parses the file as include* global* (no main). Subsequent
// calls are memoized: the module is parsed exactly once and the same
// result is returned every time, so a file included from two different
// paths is never re-parsed (§4.D diamonds, §8 invariant #6).
func (p *Parser) ParseAsModule() bool {
	if p.moduleParsed {
		return p.moduleOK
	}
	p.moduleParsed = true
	p.log.Debugw("parse_as_module: enter", "file", p.file.Path)
	loc := p.win.Current.Location
	globals := p.parseTopLevel(func(token.Kind) bool { return false })
	p.mod = &ast.Module{Loc: loc, Globals: globals}
	p.moduleOK = p.bag.ErrorCount() == 0
	p.log.Debugw("parse_as_module: exit", "file", p.file.Path, "ok", p.moduleOK, "errors", p.bag.ErrorCount())
	return p.moduleOK
}

// --- token-stream helpers ---------------------------------------------------

func (p *Parser) at(k token.Kind) bool { return p.win.Current.Kind == k }

func (p *Parser) advance() token.Token {
	t := p.win.Current
	p.win.Shift()
	return t
}

// expect consumes the current token if it matches k, otherwise reports a
// diagnostic and unwinds to the nearest recovery point.
func (p *Parser) expect(k token.Kind, code diag.Code, what string) token.Token {
	if p.win.Current.Kind != k {
		tok := p.win.Current
		p.errorAt(tok.Location, diag.Syntactic, code, tok.Lexeme, "expected %s, found %q", what, tok.Lexeme)
		panic(bail{})
	}
	return p.advance()
}

func (p *Parser) expectIdent() token.Token {
	return p.expect(token.IDENT, diag.CodeMissingIdentifier, "identifier")
}

func (p *Parser) errorAt(loc source.Location, cat diag.Category, code diag.Code, lexeme, format string, args ...any) {
	p.bag.Report(diag.Diagnostic{
		Category: cat, Severity: diag.SeverityError, Code: code,
		Location: loc, Message: fmt.Sprintf(format, args...), Lexeme: lexeme,
	})
}

func (p *Parser) warnAt(loc source.Location, cat diag.Category, code diag.Code, lexeme, format string, args ...any) {
	p.bag.Report(diag.Diagnostic{
		Category: cat, Severity: diag.SeverityWarning, Code: code,
		Location: loc, Message: fmt.Sprintf(format, args...), Lexeme: lexeme,
	})
}

// withScope brackets fn with a scope push/pop, popping even if fn panics —
// every structured statement pushes its own frame this way, so panic-mode
// recovery never leaks an open scope (§4.E, §8 invariant #5).
func (p *Parser) withScope(fn func() []ast.Statement) []ast.Statement {
	p.syms.Push()
	defer p.syms.Pop()
	return fn()
}

func reportOutcome(p *Parser, loc source.Location, name string, outcome symtab.InsertOutcome) {
	switch outcome {
	case symtab.Redeclared:
		p.errorAt(loc, diag.Declaration, diag.CodeRedeclaration, name, "redeclaration of %q in the same scope", name)
	case symtab.Shadowed:
		p.warnAt(loc, diag.Declaration, diag.CodeShadowing, name, "declaration of %q shadows a binding from an enclosing scope", name)
	}
}

// --- top level: includes, function/procedure declarations, main -----------

func isEnd(k token.Kind) bool { return k == token.END }

func (p *Parser) parseTopLevel(stop func(token.Kind) bool) []ast.Statement {
	var out []ast.Statement
	for !stop(p.win.Current.Kind) && p.win.Current.Kind != token.EOF {
		before := p.win.Current
		stmt, ok := p.parseTopLevelStatement()
		if ok && stmt != nil {
			out = append(out, stmt)
		}
		if !ok && p.win.Current == before {
			p.advance() // a restart token this level cannot open: skip it
		}
	}
	return out
}

func (p *Parser) parseTopLevelStatement() (stmt ast.Statement, ok bool) {
	ok = true
	func() {
		defer func() {
			if r := recover(); r != nil {
				if _, isBail := r.(bail); isBail {
					ok = false
					return
				}
				panic(r)
			}
		}()
		switch p.win.Current.Kind {
		case token.INCLUDE:
			stmt = p.parseInclude()
		case token.FUNCTION:
			stmt = p.parseFunctionDecl(true)
		case token.PROCEDURE:
			stmt = p.parseProcedureDecl(true)
		default:
			tok := p.win.Current
			p.errorAt(tok.Location, diag.Syntactic, diag.CodeUnexpectedToken, tok.Lexeme,
				"expected an include, function, or procedure declaration, found %q", tok.Lexeme)
			panic(bail{})
		}
	}()
	if !ok {
		p.synchronizeTopLevel()
	}
	return stmt, ok
}

// synchronizeTopLevel skips tokens until a plausible restart point for a
// broken top-level declaration: a ';' (consumed), or an ENDFUNCTION/
// ENDPROCEDURE keyword, BEGIN or EOF (left untouched). When the failed
// declaration consumed nothing at all, parseTopLevel then skips the token
// itself, so a stray closing keyword (or BEGIN in a module) cannot stall it.
func (p *Parser) synchronizeTopLevel() {
	for {
		k := p.win.Current.Kind
		if k == token.EOF || k == token.BEGIN {
			return
		}
		if k == token.SEMICOLON {
			p.advance()
			return
		}
		if k == token.ENDFUNCTION || k == token.ENDPROCEDURE {
			return
		}
		p.advance()
	}
}

func (p *Parser) parseInclude() *ast.Include {
	loc := p.win.Current.Location
	p.advance() // INCLUDE
	strTok := p.expect(token.STRING, diag.CodeUnexpectedToken, "a string literal")
	p.expect(token.SEMICOLON, diag.CodeMissingSemicolon, "';'")

	userPath := strTok.Lexeme
	toPath := graph.Canonicalize(p.file.Path, userPath)

	if err := p.g.InsertDependency(p.file.Path, toPath); err != nil {
		p.errorAt(loc, diag.Declaration, diag.CodeCyclicalDependency, userPath, "%s", err.Error())
		panic(bail{})
	}
	handle, err := p.g.ParserFor(toPath)
	if err != nil {
		p.errorAt(loc, diag.Declaration, diag.CodeIncludeFailedToParse, userPath,
			"failed to load %q: %s", userPath, err.Error())
		panic(bail{})
	}
	if !handle.ParseAsModule() {
		p.errorAt(loc, diag.Declaration, diag.CodeIncludeFailedToParse, userPath,
			"include %q failed to parse", userPath)
	}
	if !handle.ScopesBalanced() {
		p.errorAt(loc, diag.Declaration, diag.CodeIncludeScopeImbalance, userPath,
			"include %q did not fully pop its scopes", userPath)
	}
	return &ast.Include{Loc: loc, CanonicalPath: toPath, UserPath: userPath, Module: handle.Module()}
}

func (p *Parser) parseMain() (main *ast.Main) {
	loc := p.win.Current.Location
	var body []ast.Statement
	defer func() {
		if r := recover(); r != nil {
			if _, isBail := r.(bail); !isBail {
				panic(r)
			}
			main = &ast.Main{Loc: loc, Body: body}
		}
	}()
	if !p.at(token.BEGIN) {
		tok := p.win.Current
		p.errorAt(tok.Location, diag.Syntactic, diag.CodeUnexpectedToken, tok.Lexeme, "expected 'begin'")
		return &ast.Main{Loc: loc}
	}
	p.advance() // BEGIN
	p.expect(token.SEMICOLON, diag.CodeMissingSemicolon, "';'")
	body = p.withScope(func() []ast.Statement { return p.parseBodyList(isEnd) })
	p.expect(token.END, diag.CodeMissingTerminator, "'end'")
	p.expect(token.SEMICOLON, diag.CodeMissingSemicolon, "';'")
	return &ast.Main{Loc: loc, Body: body}
}

// --- body statements ---------------------------------------------------------

func isEndScope(k token.Kind) bool     { return k == token.ENDSCOPE }
func isIfChainStop(k token.Kind) bool  { return k == token.ELSEIF || k == token.ENDIF }
func isEndWhile(k token.Kind) bool     { return k == token.ENDWHILE }
func isEndLoop(k token.Kind) bool      { return k == token.ENDLOOP }
func isEndFunction(k token.Kind) bool  { return k == token.ENDFUNCTION }
func isEndProcedure(k token.Kind) bool { return k == token.ENDPROCEDURE }

func (p *Parser) parseBodyList(stop func(token.Kind) bool) []ast.Statement {
	var out []ast.Statement
	for !stop(p.win.Current.Kind) && p.win.Current.Kind != token.EOF {
		before := p.win.Current
		stmt, ok := p.parseBodyStatement()
		if ok && stmt != nil {
			out = append(out, stmt)
		}
		if !ok && p.win.Current == before {
			p.advance() // a closing keyword this list does not stop on: skip it
		}
	}
	return out
}

func (p *Parser) parseBodyStatement() (stmt ast.Statement, ok bool) {
	ok = true
	func() {
		defer func() {
			if r := recover(); r != nil {
				if _, isBail := r.(bail); isBail {
					ok = false
					return
				}
				panic(r)
			}
		}()
		stmt = p.parseBodyStatementInner()
	}()
	if !ok {
		p.synchronize()
	}
	return stmt, ok
}

// synchronize is the body-statement-level recovery strategy: skip tokens
// until a ';' (consumed) or a block-closing keyword (left for the
// enclosing parseBodyList to observe and stop on; a list that does not
// stop on it skips it when the failed statement consumed nothing).
func (p *Parser) synchronize() {
	for {
		k := p.win.Current.Kind
		if k == token.EOF {
			return
		}
		if k == token.SEMICOLON {
			p.advance()
			return
		}
		switch k {
		case token.ENDSCOPE, token.ENDIF, token.ENDWHILE, token.ENDLOOP,
			token.ENDPROCEDURE, token.ENDFUNCTION, token.END, token.ELSEIF:
			return
		}
		p.advance()
	}
}

func (p *Parser) parseBodyStatementInner() ast.Statement {
	tok := p.win.Current
	switch tok.Kind {
	case token.VARIABLE:
		return p.parseVariableDecl()
	case token.SCOPE:
		return p.parseScope()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.LOOP:
		return p.parseLoop()
	case token.READ:
		return p.parseRead()
	case token.WRITE:
		return p.parseWrite()
	case token.FUNCTION:
		return p.parseFunctionDecl(false)
	case token.PROCEDURE:
		return p.parseProcedureDecl(false)
	case token.IDENT:
		if sym, found := p.syms.LookupAny(tok.Lexeme); found && sym.Kind == symtab.PROCEDURE {
			p.advance()
			return p.parseProcedureCallTail(tok.Lexeme, tok.Location, sym)
		}
		fallthrough
	default:
		expr := p.parseExpression()
		p.expect(token.SEMICOLON, diag.CodeMissingSemicolon, "';'")
		return &ast.ExpressionStatement{Loc: tok.Location, Expr: expr}
	}
}

func (p *Parser) parseScope() *ast.Scope {
	loc := p.win.Current.Location
	p.advance() // SCOPE
	p.expect(token.SEMICOLON, diag.CodeMissingSemicolon, "';'")
	body := p.withScope(func() []ast.Statement { return p.parseBodyList(isEndScope) })
	p.expect(token.ENDSCOPE, diag.CodeMissingTerminator, "'endscope'")
	p.expect(token.SEMICOLON, diag.CodeMissingSemicolon, "';'")
	return &ast.Scope{Loc: loc, Body: body}
}

func (p *Parser) parseIf() *ast.If {
	loc := p.win.Current.Location
	p.advance() // IF
	cond := p.parseExpr()
	p.expect(token.SEMICOLON, diag.CodeMissingSemicolon, "';'")
	body := p.withScope(func() []ast.Statement { return p.parseBodyList(isIfChainStop) })
	var chain *ast.ElseIf
	if p.at(token.ELSEIF) {
		chain = p.parseElseIf()
	}
	p.expect(token.ENDIF, diag.CodeMissingTerminator, "'endif'")
	p.expect(token.SEMICOLON, diag.CodeMissingSemicolon, "';'")
	return &ast.If{Loc: loc, Condition: cond, Body: body, ElseIf: chain}
}

func (p *Parser) parseElseIf() *ast.ElseIf {
	loc := p.win.Current.Location
	p.advance() // ELSEIF
	cond := p.parseExpr()
	p.expect(token.SEMICOLON, diag.CodeMissingSemicolon, "';'")
	body := p.withScope(func() []ast.Statement { return p.parseBodyList(isIfChainStop) })
	var next *ast.ElseIf
	if p.at(token.ELSEIF) {
		next = p.parseElseIf()
	}
	return &ast.ElseIf{Loc: loc, Condition: cond, Body: body, ElseIf: next}
}

func (p *Parser) parseWhile() *ast.While {
	loc := p.win.Current.Location
	p.advance() // WHILE
	cond := p.parseExpr()
	p.expect(token.SEMICOLON, diag.CodeMissingSemicolon, "';'")
	body := p.withScope(func() []ast.Statement { return p.parseBodyList(isEndWhile) })
	p.expect(token.ENDWHILE, diag.CodeMissingTerminator, "'endwhile'")
	p.expect(token.SEMICOLON, diag.CodeMissingSemicolon, "';'")
	return &ast.While{Loc: loc, Condition: cond, Body: body}
}

func (p *Parser) parseLoop() *ast.Loop {
	loc := p.win.Current.Location
	p.advance() // LOOP
	nameTok := p.expectIdent()
	initial := p.parseExpr()
	terminal := p.parseExpr()
	var step ast.Expression
	if !p.at(token.SEMICOLON) {
		step = p.parseExpr()
	}
	p.expect(token.SEMICOLON, diag.CodeMissingSemicolon, "';'")

	var iterVar *ast.VariableDecl
	body := p.withScope(func() []ast.Statement {
		iterVar = &ast.VariableDecl{Loc: nameTok.Location, Name: nameTok.Lexeme, DataType: ast.INTEGER, StructureType: "scalar"}
		sym := &symtab.Symbol{Name: nameTok.Lexeme, Kind: symtab.VARIABLE, DefiningNode: iterVar}
		_, outcome := p.syms.InsertLocal(nameTok.Lexeme, sym)
		reportOutcome(p, nameTok.Location, nameTok.Lexeme, outcome)
		return p.parseBodyList(isEndLoop)
	})
	p.expect(token.ENDLOOP, diag.CodeMissingTerminator, "'endloop'")
	p.expect(token.SEMICOLON, diag.CodeMissingSemicolon, "';'")
	return &ast.Loop{Loc: loc, Iterator: nameTok.Lexeme, Initial: initial, Terminal: terminal, Step: step, IteratorVar: iterVar, Body: body}
}

func (p *Parser) parseRead() *ast.Read {
	loc := p.win.Current.Location
	p.advance() // READ
	unit := p.parseExpr()
	nameTok := p.expectIdent()
	if _, found := p.syms.LookupAny(nameTok.Lexeme); !found {
		p.errorAt(nameTok.Location, diag.Declaration, diag.CodeUndeclaredIdentifier, nameTok.Lexeme,
			"undeclared identifier %q", nameTok.Lexeme)
	}
	target := &ast.Primary{Loc: nameTok.Location, Kind: token.IDENT, Lexeme: nameTok.Lexeme, Name: nameTok.Lexeme}
	p.expect(token.SEMICOLON, diag.CodeMissingSemicolon, "';'")
	return &ast.Read{Loc: loc, Unit: unit, Target: target}
}

func (p *Parser) parseWrite() *ast.Write {
	loc := p.win.Current.Location
	p.advance() // WRITE
	unit := p.parseExpr()
	values := []ast.Expression{p.parseExpr()}
	for !p.at(token.SEMICOLON) && p.win.Current.Kind != token.EOF {
		values = append(values, p.parseExpr())
	}
	p.expect(token.SEMICOLON, diag.CodeMissingSemicolon, "';'")
	return &ast.Write{Loc: loc, Unit: unit, Values: values}
}

func (p *Parser) parseProcedureCallTail(name string, loc source.Location, sym *symtab.Symbol) ast.Statement {
	var args []ast.Expression
	for !p.at(token.SEMICOLON) && p.win.Current.Kind != token.EOF {
		args = append(args, p.parseExpr())
	}
	if len(args) != sym.Arity {
		p.errorAt(loc, diag.Declaration, diag.CodeArityMismatch, name,
			"procedure %q expects %d argument(s), got %d", name, sym.Arity, len(args))
		panic(bail{})
	}
	p.expect(token.SEMICOLON, diag.CodeMissingSemicolon, "';'")
	return &ast.ProcedureCallStatement{Loc: loc, Name: name, Arguments: args}
}

func (p *Parser) parseVariableDecl() *ast.VariableDecl {
	loc := p.win.Current.Location
	p.advance() // VARIABLE
	nameTok := p.expectIdent()
	storage := p.parseExpr()
	var dims []ast.Expression
	for !p.at(token.ASSIGN) && !p.at(token.SEMICOLON) {
		dims = append(dims, p.parseExpr())
	}
	var init ast.Expression
	if p.at(token.ASSIGN) {
		p.advance()
		init = p.parseExpr()
	}
	p.expect(token.SEMICOLON, diag.CodeMissingSemicolon, "';'")

	structureType := "scalar"
	kind := symtab.DECLARED
	if len(dims) > 0 {
		kind = symtab.ARRAY
		structureType = "array"
	} else if init != nil {
		kind = symtab.VARIABLE
	}

	decl := &ast.VariableDecl{
		Loc: loc, Name: nameTok.Lexeme, Storage: storage, Dimensions: dims,
		Initializer: init, StructureType: structureType,
	}
	sym := &symtab.Symbol{Name: nameTok.Lexeme, Kind: kind, DefiningNode: decl, Arity: len(dims)}
	_, outcome := p.syms.InsertLocal(nameTok.Lexeme, sym)
	reportOutcome(p, loc, nameTok.Lexeme, outcome)
	return decl
}

// --- function / procedure declarations --------------------------------------

func (p *Parser) parseFunctionDecl(isGlobal bool) *ast.FunctionDecl {
	loc := p.win.Current.Location
	p.advance() // FUNCTION
	nameTok := p.expectIdent()
	name := nameTok.Lexeme

	paramToks := p.parseParamNames()
	p.expect(token.SEMICOLON, diag.CodeMissingSemicolon, "';'")

	decl := &ast.FunctionDecl{Loc: loc, Name: name, IsGlobal: isGlobal}
	fnSym := &symtab.Symbol{Name: name, Kind: symtab.FUNCTION, DefiningNode: decl, Arity: len(paramToks)}
	_, outcome := p.syms.InsertLocal(name, fnSym)
	reportOutcome(p, loc, name, outcome)

	var params []*ast.VariableDecl
	var returnSlot *ast.VariableDecl
	body := p.withScope(func() []ast.Statement {
		for _, pt := range paramToks {
			pdecl := &ast.VariableDecl{Loc: pt.Location, Name: pt.Lexeme, StructureType: "scalar"}
			params = append(params, pdecl)
			psym := &symtab.Symbol{Name: pt.Lexeme, Kind: symtab.PARAMETER, DefiningNode: pdecl}
			_, o := p.syms.InsertLocal(pt.Lexeme, psym)
			reportOutcome(p, pt.Location, pt.Lexeme, o)
		}
		returnSlot = &ast.VariableDecl{Loc: loc, Name: name, StructureType: "scalar"}
		retSym := &symtab.Symbol{Name: name, Kind: symtab.DECLARED, DefiningNode: returnSlot}
		p.syms.InsertLocal(name, retSym) // deliberately shadows the enclosing FUNCTION binding

		stmts := p.parseBodyList(isEndFunction)

		if sym, found := p.syms.LookupLocal(name); !found || sym.Kind != symtab.VARIABLE {
			p.errorAt(loc, diag.Declaration, diag.CodeNoReturnValue, name,
				"function %q never assigns its return value", name)
		}
		return stmts
	})

	p.expect(token.ENDFUNCTION, diag.CodeMissingTerminator, "'endfunction'")
	p.expect(token.SEMICOLON, diag.CodeMissingSemicolon, "';'")

	decl.Parameters = params
	decl.Body = body
	decl.ReturnSlot = returnSlot
	return decl
}

func (p *Parser) parseProcedureDecl(isGlobal bool) *ast.ProcedureDecl {
	loc := p.win.Current.Location
	p.advance() // PROCEDURE
	nameTok := p.expectIdent()
	name := nameTok.Lexeme

	paramToks := p.parseParamNames()
	p.expect(token.SEMICOLON, diag.CodeMissingSemicolon, "';'")

	decl := &ast.ProcedureDecl{Loc: loc, Name: name, IsGlobal: isGlobal}
	procSym := &symtab.Symbol{Name: name, Kind: symtab.PROCEDURE, DefiningNode: decl, Arity: len(paramToks)}
	_, outcome := p.syms.InsertLocal(name, procSym)
	reportOutcome(p, loc, name, outcome)

	var params []*ast.VariableDecl
	body := p.withScope(func() []ast.Statement {
		for _, pt := range paramToks {
			pdecl := &ast.VariableDecl{Loc: pt.Location, Name: pt.Lexeme, StructureType: "scalar"}
			params = append(params, pdecl)
			psym := &symtab.Symbol{Name: pt.Lexeme, Kind: symtab.PARAMETER, DefiningNode: pdecl}
			_, o := p.syms.InsertLocal(pt.Lexeme, psym)
			reportOutcome(p, pt.Location, pt.Lexeme, o)
		}
		return p.parseBodyList(isEndProcedure)
	})

	p.expect(token.ENDPROCEDURE, diag.CodeMissingTerminator, "'endprocedure'")
	p.expect(token.SEMICOLON, diag.CodeMissingSemicolon, "';'")

	decl.Parameters = params
	decl.Body = body
	decl.ReturnSlot = &ast.VariableDecl{Loc: loc, Name: name, DataType: ast.VOID, StructureType: "scalar"}
	return decl
}

// parseParamNames reads a run of bare identifiers (no commas, no
// parentheses) terminated by ';'.
func (p *Parser) parseParamNames() []token.Token {
	var out []token.Token
	for p.at(token.IDENT) {
		out = append(out, p.advance())
	}
	return out
}
