// ==============================================================================================
// FILE: frontend/driver.go
// ==============================================================================================
// PACKAGE: frontend
// PURPOSE: The Driver API (§6): the consumer-facing seam that composes the
//          dependency graph, the parser, and the semantic visitors into
//          the four operations a caller needs — build a graph, build a
//          parser over a root file, parse it, and walk the result with any
//          ast.Visitor. cmd/sigmafox is the only caller inside this
//          module; everything it needs is exposed here.
// ==============================================================================================

package frontend

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"sigmafox/ast"
	"sigmafox/config"
	"sigmafox/diag"
	"sigmafox/graph"
	"sigmafox/parser"
	"sigmafox/source"
	"sigmafox/symtab"
	"sigmafox/typecheck"
)

// NewDependencyGraph builds an empty dependency graph whose factory reads
// an included file from disk (at the canonical path the including parser
// already resolved) and constructs a parser over it; the including parser
// then parses it as a module.
func NewDependencyGraph(settings *config.Settings, log *zap.SugaredLogger) *graph.Graph {
	var g *graph.Graph
	g = graph.New(func(path string, gg *graph.Graph) (graph.ParserHandle, error) {
		text, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("frontend: read %s: %w", path, err)
		}
		return parser.New(source.NewFile(path, string(text)), gg, settings, log), nil
	})
	return g
}

// Driver owns one root parser over one dependency graph — a single
// front-end run (§5's "Shared resources": the graph owns parsers for the
// lifetime of one run).
type Driver struct {
	g    *graph.Graph
	root *parser.Parser
}

// NewParser builds the root parser over filePath and registers it with g
// under its own canonical path, so a cyclical include that loops back to
// the entry file resolves to this same instance instead of constructing a
// second, distinct root parser (mirrors graph.Register's own doc comment).
func NewParser(filePath string, g *graph.Graph, settings *config.Settings, log *zap.SugaredLogger) (*Driver, error) {
	text, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("frontend: read %s: %w", filePath, err)
	}
	canonical := graph.Canonicalize("", filePath)
	root := parser.New(source.NewFile(canonical, string(text)), g, settings, log)
	g.Register(canonical, root)
	return &Driver{g: g, root: root}, nil
}

// ParseAsRoot parses the entry file as include* global* main and reports
// whether the whole include tree parsed without error.
func (d *Driver) ParseAsRoot() bool {
	ok := d.root.ParseAsRoot()
	return ok && d.allIncludesOK()
}

// ParseAsModule parses the entry file as include* global* (no Main).
func (d *Driver) ParseAsModule() bool {
	ok := d.root.ParseAsModule()
	return ok && d.allIncludesOK()
}

func (d *Driver) allIncludesOK() bool {
	for _, h := range d.g.AllHandles() {
		if h.ErrorCount() > 0 {
			return false
		}
	}
	return true
}

// Validate runs the block validator over the parsed root, refining every
// declaration's and call site's DataType and reporting TYPE_MISMATCH
// diagnostics into bag. It is a no-op if called before a successful parse.
// Validation diagnostics are kept separate from the parser's own bag
// (handed to the caller explicitly) since type-checking is a distinct pass
// from parsing and may run against a tree the caller mutated in between.
func (d *Driver) Validate(bag *diag.Bag) {
	root := d.root.Root()
	if root == nil || d.ErrorCount() > 0 {
		return
	}
	bv := typecheck.NewBlockValidator(d.root.Symbols(), bag)
	bv.ValidateRoot(root)
}

// Visit walks the parsed Root through v, the sole protocol (§6) by which
// external consumers — the reference printer, a future code generator —
// access the tree.
func (d *Driver) Visit(v ast.Visitor) {
	if root := d.root.Root(); root != nil {
		root.Accept(v)
		return
	}
	if mod := d.root.Module(); mod != nil {
		mod.Accept(v)
	}
}

// ErrorCount aggregates the root parser's error count with every included
// module's, matching §6's "parser.error_count()" extended across an
// entire include tree rather than just the entry file.
func (d *Driver) ErrorCount() int {
	n := d.root.ErrorCount()
	for _, h := range d.g.AllHandles() {
		if h == graph.ParserHandle(d.root) {
			continue
		}
		n += h.ErrorCount()
	}
	return n
}

// Diagnostics aggregates every diagnostic reported across the whole
// include tree, root first.
func (d *Driver) Diagnostics() []diag.Diagnostic {
	out := append([]diag.Diagnostic(nil), d.root.Diagnostics()...)
	for _, h := range d.g.AllHandles() {
		if h == graph.ParserHandle(d.root) {
			continue
		}
		out = append(out, h.Diagnostics()...)
	}
	return out
}

// Root exposes the parsed Root for callers that need direct AST access
// (e.g. to pair with typecheck.NewEvaluator against the same symbol table).
func (d *Driver) Root() *ast.Root { return d.root.Root() }

// Symbols exposes the root parser's symbol table, for callers building
// their own Evaluator or BlockValidator against the parsed tree.
func (d *Driver) Symbols() *symtab.Table { return d.root.Symbols() }
