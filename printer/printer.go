// ==============================================================================================
// FILE: printer/printer.go
// ==============================================================================================
// PACKAGE: printer
// PURPOSE: The reference printer: a visitor that serializes a parsed tree
//          back into indented, source-shaped text. Grounded on the
//          original reference visitor (original_source's reference.hpp),
//          which walks the same tree shape pushing/popping a tab counter
//          around every nested block and printing one line per node. This
//          port keeps that structure — push/pop indent around children,
//          one rendering per node kind — but writes source-shaped text
//          through a strings.Builder instead of debug-style "BEGIN <KIND>"
//          headers to stdout. The output is close to SigmaFox surface
//          syntax but not identical, and is not parsed back as-is: the
//          tree is wrapped in "begin root"/"end root" (or "begin module"/
//          "end module") lines, the main block opens with "begin" without
//          a ';', and procedure calls render as "call name (args);".
// ==============================================================================================

package printer

import (
	"fmt"
	"strings"

	"sigmafox/ast"
)

// Printer renders a parsed tree as indented source text. It implements
// ast.Visitor; like every other visitor in this module it does not
// auto-descend — each Visit method is responsible for walking its own
// children in order.
type Printer struct {
	out      strings.Builder
	depth    int
	tabWidth int
}

// New builds a Printer using tabWidth spaces per indent level. A tabWidth
// of 0 defaults to 2, matching the teacher's own small-indent convention.
func New(tabWidth int) *Printer {
	if tabWidth <= 0 {
		tabWidth = 2
	}
	return &Printer{tabWidth: tabWidth}
}

// Print renders n and returns the accumulated text. The Printer is reset
// before rendering so a single instance can be reused across trees.
func (p *Printer) Print(n ast.Node) string {
	p.out.Reset()
	p.depth = 0
	n.Accept(p)
	return p.out.String()
}

// String returns whatever has been written so far, without resetting —
// the accessor a caller uses after driving the Printer directly through
// Driver.Visit (which calls Accept, not Print).
func (p *Printer) String() string { return p.out.String() }

func (p *Printer) pushTabs() { p.depth++ }
func (p *Printer) popTabs()  { p.depth-- }

func (p *Printer) line(format string, args ...interface{}) {
	p.out.WriteString(strings.Repeat(" ", p.depth*p.tabWidth))
	fmt.Fprintf(&p.out, format, args...)
	p.out.WriteString("\n")
}

func (p *Printer) statements(stmts []ast.Statement) {
	p.pushTabs()
	for _, s := range stmts {
		s.Accept(p)
	}
	p.popTabs()
}

// ---- top level -------------------------------------------------------

func (p *Printer) VisitRoot(n *ast.Root) {
	p.line("begin root")
	p.statements(n.Globals)
	if n.Main != nil {
		n.Main.Accept(p)
	}
	p.line("end root")
}

func (p *Printer) VisitModule(n *ast.Module) {
	p.line("begin module")
	p.statements(n.Globals)
	p.line("end module")
}

func (p *Printer) VisitMain(n *ast.Main) {
	p.line("begin")
	p.statements(n.Body)
	p.line("end;")
}

func (p *Printer) VisitInclude(n *ast.Include) {
	p.line("include %q;", n.UserPath)
}

// ---- declarations ------------------------------------------------------

func (p *Printer) VisitFunctionDecl(n *ast.FunctionDecl) {
	p.line("function %s%s;", n.Name, p.paramList(n.Parameters))
	p.statements(n.Body)
	p.line("endfunction;")
}

func (p *Printer) VisitProcedureDecl(n *ast.ProcedureDecl) {
	p.line("procedure %s%s;", n.Name, p.paramList(n.Parameters))
	p.statements(n.Body)
	p.line("endprocedure;")
}

func (p *Printer) paramList(params []*ast.VariableDecl) string {
	var b strings.Builder
	for _, param := range params {
		b.WriteString(" ")
		b.WriteString(param.Name)
	}
	return b.String()
}

func (p *Printer) VisitVariableDecl(n *ast.VariableDecl) {
	var b strings.Builder
	b.WriteString("variable ")
	b.WriteString(n.Name)
	if n.Storage != nil {
		b.WriteString(" ")
		b.WriteString(n.Storage.String())
	}
	for _, d := range n.Dimensions {
		b.WriteString(" ")
		b.WriteString(d.String())
	}
	if n.Initializer != nil {
		b.WriteString(" := ")
		b.WriteString(n.Initializer.String())
	}
	b.WriteString(";")
	p.line("%s", b.String())
}

// ---- structured statements --------------------------------------------

func (p *Printer) VisitScope(n *ast.Scope) {
	p.line("scope;")
	p.statements(n.Body)
	p.line("endscope;")
}

func (p *Printer) VisitIf(n *ast.If) {
	p.line("if %s;", n.Condition.String())
	p.statements(n.Body)
	if n.ElseIf != nil {
		p.visitElseIf(n.ElseIf)
	}
	p.line("endif;")
}

func (p *Printer) visitElseIf(n *ast.ElseIf) {
	p.line("elseif %s;", n.Condition.String())
	p.statements(n.Body)
	if n.ElseIf != nil {
		p.visitElseIf(n.ElseIf)
	}
}

// VisitElseIf exists only to satisfy ast.Visitor: an ElseIf node is always
// reached through its parent If/ElseIf's own chain walk, never Accept'd
// directly by the tree (there is no []Statement slot an ElseIf can occupy).
func (p *Printer) VisitElseIf(n *ast.ElseIf) { p.visitElseIf(n) }

func (p *Printer) VisitWhile(n *ast.While) {
	p.line("while %s;", n.Condition.String())
	p.statements(n.Body)
	p.line("endwhile;")
}

func (p *Printer) VisitLoop(n *ast.Loop) {
	s := fmt.Sprintf("loop %s %s %s", n.Iterator, n.Initial.String(), n.Terminal.String())
	if n.Step != nil {
		s += " " + n.Step.String()
	}
	p.line("%s;", s)
	p.statements(n.Body)
	p.line("endloop;")
}

func (p *Printer) VisitRead(n *ast.Read) {
	p.line("read %s %s;", n.Unit.String(), n.Target.String())
}

func (p *Printer) VisitWrite(n *ast.Write) {
	var b strings.Builder
	b.WriteString("write ")
	b.WriteString(n.Unit.String())
	for _, v := range n.Values {
		b.WriteString(" ")
		b.WriteString(v.String())
	}
	b.WriteString(";")
	p.line("%s", b.String())
}

func (p *Printer) VisitExpressionStatement(n *ast.ExpressionStatement) {
	p.line("%s;", n.Expr.String())
}

func (p *Printer) VisitProcedureCallStatement(n *ast.ProcedureCallStatement) {
	var b strings.Builder
	b.WriteString("call ")
	b.WriteString(n.Name)
	b.WriteString(" (")
	for i, a := range n.Arguments {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.String())
	}
	b.WriteString(");")
	p.line("%s", b.String())
}

// ---- expressions --------------------------------------------------------
//
// Expression nodes are never reached directly through a statement's
// []Statement slot — they are rendered inline via their own String()
// method wherever a containing statement needs their text (matching
// every Visit<Statement> method above). These stubs exist solely to
// satisfy ast.Visitor for the rare caller that Accepts an Expression
// node directly against a Printer.

func (p *Printer) VisitBinaryExpr(n *ast.BinaryExpr)   { p.line("%s", n.String()) }
func (p *Printer) VisitUnaryExpr(n *ast.UnaryExpr)     { p.line("%s", n.String()) }
func (p *Printer) VisitFunctionCall(n *ast.FunctionCall) { p.line("%s", n.String()) }
func (p *Printer) VisitArrayIndex(n *ast.ArrayIndex)   { p.line("%s", n.String()) }
func (p *Printer) VisitPrimary(n *ast.Primary)         { p.line("%s", n.String()) }
func (p *Printer) VisitGrouping(n *ast.Grouping)       { p.line("%s", n.String()) }
