// ==============================================================================================
// FILE: graph/graph.go
// ==============================================================================================
// PACKAGE: graph
// PURPOSE: The dependency-graph manager (§4.D): a map from canonical
//          absolute file path to a lazily-constructed parser handle, with
//          cycle detection on edge insertion. The graph owns every parser
//          it constructs (§9's cyclic-ownership design note); an Include
//          node only ever holds the non-owning Module AST the handle
//          exposes, never the handle itself.
// ==============================================================================================

package graph

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"sigmafox/ast"
	"sigmafox/diag"
)

// ParserHandle is the narrow surface the graph needs from a parser to
// drive lazy module construction. The parser package's *parser.Parser
// satisfies this structurally; graph never imports parser, which is what
// keeps construction (parser -> graph -> parser) from being an import
// cycle.
type ParserHandle interface {
	ParseAsModule() bool
	Module() *ast.Module
	ErrorCount() int
	ScopesBalanced() bool
	Diagnostics() []diag.Diagnostic
}

// Factory lazily builds the parser handle for a canonical path the first
// time it is requested.
type Factory func(canonicalPath string, g *Graph) (ParserHandle, error)

// Graph is the dependency-graph manager. It is single-threaded and owned
// by the driver for the lifetime of one front-end run (§5).
type Graph struct {
	factory Factory
	parsers map[string]ParserHandle
	edges   map[string]map[string]bool // from -> set of to
}

// New creates an empty Graph that constructs parsers via factory.
func New(factory Factory) *Graph {
	return &Graph{
		factory: factory,
		parsers: make(map[string]ParserHandle),
		edges:   make(map[string]map[string]bool),
	}
}

// ErrCyclicalDependency is returned, wrapping the cycle's starting file, by
// InsertDependency when adding the edge would close a cycle.
type ErrCyclicalDependency struct {
	From, To string
}

func (e *ErrCyclicalDependency) Error() string {
	return fmt.Sprintf("cyclical include: %s would reach back to %s", e.To, e.From)
}

// InsertDependency records an edge from -> to. It fails with
// ErrCyclicalDependency if to can already reach from — pessimistically:
// diamonds (the same file included from two different paths) are
// permitted and never re-parsed, but a genuine cycle is rejected
// deterministically regardless of which edge closes it (§4.D, §8 #7).
func (g *Graph) InsertDependency(from, to string) error {
	if from == to || g.reaches(to, from, make(map[string]bool)) {
		return &ErrCyclicalDependency{From: from, To: to}
	}
	if g.edges[from] == nil {
		g.edges[from] = make(map[string]bool)
	}
	g.edges[from][to] = true
	return nil
}

// reaches reports whether start can reach target via recorded edges.
func (g *Graph) reaches(start, target string, visited map[string]bool) bool {
	if start == target {
		return true
	}
	if visited[start] {
		return false
	}
	visited[start] = true
	for next := range g.edges[start] {
		if g.reaches(next, target, visited) {
			return true
		}
	}
	return false
}

// ParserFor returns the cached handle for path, constructing it via the
// factory on first request. Repeated requests for the same canonical path
// return the identical handle (§4.D, §8 #6: two includes with equal
// canonical paths share one Module AST).
func (g *Graph) ParserFor(path string) (ParserHandle, error) {
	if p, ok := g.parsers[path]; ok {
		return p, nil
	}
	p, err := g.factory(path, g)
	if err != nil {
		return nil, err
	}
	g.parsers[path] = p
	return p, nil
}

// Register pre-installs an already-constructed handle under path, used by
// the driver to seed the entry (root) parser before any include resolves
// back to it. Without this, an include cycle that loops back through the
// root file would construct a second, distinct root parser instead of
// detecting the cycle against the original.
func (g *Graph) Register(path string, p ParserHandle) {
	g.parsers[path] = p
}

// AllHandles returns every parser handle constructed or registered so far,
// in no particular order — used by the driver to aggregate diagnostics and
// error counts across the whole include tree.
func (g *Graph) AllHandles() []ParserHandle {
	out := make([]ParserHandle, 0, len(g.parsers))
	for _, p := range g.parsers {
		out = append(out, p)
	}
	return out
}

// Canonicalize resolves includePath relative to the directory containing
// includingFile, then reduces it to an absolute, cleaned form. On
// case-insensitive filesystems (Windows, macOS by default) the result is
// additionally case-folded so two spellings of the same path collide.
func Canonicalize(includingFile, includePath string) string {
	var base string
	if includingFile == "" {
		base = "."
	} else {
		base = filepath.Dir(includingFile)
	}
	joined := includePath
	if !filepath.IsAbs(includePath) {
		joined = filepath.Join(base, includePath)
	}
	abs, err := filepath.Abs(joined)
	if err != nil {
		abs = filepath.Clean(joined)
	}
	if caseInsensitiveFS() {
		abs = strings.ToLower(abs)
	}
	return abs
}

func caseInsensitiveFS() bool {
	return runtime.GOOS == "windows" || runtime.GOOS == "darwin"
}
