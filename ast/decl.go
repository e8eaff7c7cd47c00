// ==============================================================================================
// FILE: ast/decl.go
// ==============================================================================================
// PACKAGE: ast
// PURPOSE: Top-level and declaration node variants: Root, Module, Main,
//          Include, Function/Procedure declarations, and Variable declarations.
// ==============================================================================================

package ast

import (
	"bytes"
	"strings"

	"sigmafox/source"
)

// Root is the AST of a file parsed with parse_as_root: module contents plus
// exactly one Main block.
type Root struct {
	Loc     source.Location
	Globals []Statement
	Main    *Main
}

func (n *Root) Location() source.Location { return n.Loc }
func (n *Root) Accept(v Visitor)          { v.VisitRoot(n) }
func (n *Root) String() string {
	var b bytes.Buffer
	for _, g := range n.Globals {
		b.WriteString(g.String())
		b.WriteString("\n")
	}
	if n.Main != nil {
		b.WriteString(n.Main.String())
	}
	return b.String()
}

// Module is the AST of a file parsed with parse_as_module: include
// statements and global declarations, no Main block.
type Module struct {
	Loc     source.Location
	Globals []Statement
}

func (n *Module) Location() source.Location { return n.Loc }
func (n *Module) Accept(v Visitor)          { v.VisitModule(n) }
func (n *Module) String() string {
	var b bytes.Buffer
	for _, g := range n.Globals {
		b.WriteString(g.String())
		b.WriteString("\n")
	}
	return b.String()
}

// Main is the unique executable entry point of a Root.
type Main struct {
	Loc  source.Location
	Body []Statement
}

func (n *Main) Location() source.Location { return n.Loc }
func (n *Main) Accept(v Visitor)          { v.VisitMain(n) }
func (n *Main) String() string {
	var b bytes.Buffer
	b.WriteString("begin;\n")
	for _, s := range n.Body {
		b.WriteString(s.String())
		b.WriteString("\n")
	}
	b.WriteString("end;")
	return b.String()
}

// Include links the canonicalized path and the user-written path of an
// INCLUDE statement to the included file's Module AST. Module is a
// non-owning reference — see §9's design note on cyclic ownership: the
// dependency graph, not this node, owns the included parser and its AST.
type Include struct {
	Loc           source.Location
	CanonicalPath string
	UserPath      string
	Module        *Module
}

func (n *Include) Location() source.Location { return n.Loc }
func (n *Include) Accept(v Visitor)          { v.VisitInclude(n) }
func (n *Include) String() string            { return "include \"" + n.UserPath + "\";" }
func (n *Include) statementNode()            {}

// FunctionDecl is a FUNCTION ... ENDFUNCTION declaration.
type FunctionDecl struct {
	Loc        source.Location
	Name       string
	Parameters []*VariableDecl
	Body       []Statement
	ReturnSlot *VariableDecl // synthetic Variable node for the return value
	IsGlobal   bool
}

func (n *FunctionDecl) Location() source.Location { return n.Loc }
func (n *FunctionDecl) Accept(v Visitor)          { v.VisitFunctionDecl(n) }
func (n *FunctionDecl) statementNode()            {}
func (n *FunctionDecl) String() string {
	var b bytes.Buffer
	b.WriteString("function ")
	b.WriteString(n.Name)
	for _, p := range n.Parameters {
		b.WriteString(" ")
		b.WriteString(p.Name)
	}
	b.WriteString(";")
	return b.String()
}

// ProcedureDecl is a PROCEDURE ... ENDPROCEDURE declaration. Its return slot
// carries DataType VOID and is never subject to the no-return-value check.
type ProcedureDecl struct {
	Loc        source.Location
	Name       string
	Parameters []*VariableDecl
	Body       []Statement
	ReturnSlot *VariableDecl
	IsGlobal   bool
}

func (n *ProcedureDecl) Location() source.Location { return n.Loc }
func (n *ProcedureDecl) Accept(v Visitor)          { v.VisitProcedureDecl(n) }
func (n *ProcedureDecl) statementNode()            {}
func (n *ProcedureDecl) String() string {
	var b bytes.Buffer
	b.WriteString("procedure ")
	b.WriteString(n.Name)
	for _, p := range n.Parameters {
		b.WriteString(" ")
		b.WriteString(p.Name)
	}
	b.WriteString(";")
	return b.String()
}

// VariableDecl is both a VARIABLE declaration statement and, reused, a
// formal parameter or synthetic return-slot node (Storage/Dimensions/
// Initializer are nil in the latter two uses).
type VariableDecl struct {
	Loc           source.Location
	Name          string
	Storage       Expression   // size expression; nil for parameters/return slots
	Dimensions    []Expression // array dimension expressions, if any
	Initializer   Expression   // optional
	DataType      DataType     // finalized by the semantic passes
	StructureType string       // "scalar" or "array", set once dimensions are known
}

func (n *VariableDecl) Location() source.Location { return n.Loc }
func (n *VariableDecl) Accept(v Visitor)          { v.VisitVariableDecl(n) }
func (n *VariableDecl) statementNode()            {}
func (n *VariableDecl) String() string {
	var b bytes.Buffer
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
	return b.String()
}

// joinStrings renders a Statement/Expression list separated by sep, used by
// several node String() implementations.
func joinStrings[T interface{ String() string }](items []T, sep string) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = it.String()
	}
	return strings.Join(parts, sep)
}
