// ==============================================================================================
// FILE: parser/parser_integration_test.go
// ==============================================================================================
// PURPOSE: End-to-end tests that exercise the parser together with a real
//          dependency graph: cyclical includes, diamond includes, and
//          include-site scope-imbalance reporting.
// ==============================================================================================

package parser

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sigmafox/config"
	"sigmafox/diag"
	"sigmafox/graph"
	"sigmafox/source"
)

// newInMemoryGraph wires a Factory over an in-memory {path: text} set, the
// way the frontend driver wires one over the real filesystem.
func newInMemoryGraph(files map[string]string) *graph.Graph {
	var g *graph.Graph
	g = graph.New(func(path string, gg *graph.Graph) (graph.ParserHandle, error) {
		text, ok := files[path]
		if !ok {
			return nil, fmt.Errorf("no such file: %s", path)
		}
		return New(source.NewFile(path, text), gg, config.Default(), nil), nil
	})
	return g
}

func TestCyclicalIncludeIsRejected(t *testing.T) {
	files := map[string]string{
		"/proj/a.fox": `include "b.fox";`,
		"/proj/b.fox": `include "a.fox";`,
	}
	g := newInMemoryGraph(files)
	root := New(source.NewFile("/proj/a.fox", files["/proj/a.fox"]), g, config.Default(), nil)
	g.Register("/proj/a.fox", root)

	ok := root.ParseAsModule()
	assert.False(t, ok)
	require.Greater(t, root.ErrorCount(), 0)

	// The cycle is detected where the closing edge is inserted — inside
	// b.fox's own parse, when its INCLUDE "a.fox" would reach back to
	// a.fox. a.fox's own bag only sees the resulting INCLUDE_FAILED_TO_PARSE.
	bHandle, err := g.ParserFor("/proj/b.fox")
	require.NoError(t, err)

	var codes []diag.Code
	for _, d := range root.Diagnostics() {
		codes = append(codes, d.Code)
	}
	for _, d := range bHandle.Diagnostics() {
		codes = append(codes, d.Code)
	}
	assert.Contains(t, codes, diag.CodeCyclicalDependency)
}

func TestDiamondIncludeIsParsedOnce(t *testing.T) {
	files := map[string]string{
		"/proj/a.fox": `include "common.fox"; include "b.fox";`,
		"/proj/b.fox": `include "common.fox";`,
		"/proj/common.fox": `function shared; shared := 1; endfunction;`,
	}
	g := newInMemoryGraph(files)
	root := New(source.NewFile("/proj/a.fox", files["/proj/a.fox"]), g, config.Default(), nil)
	g.Register("/proj/a.fox", root)

	ok := root.ParseAsModule()
	require.True(t, ok, "diagnostics: %v", root.Diagnostics())

	commonHandle, err := g.ParserFor("/proj/common.fox")
	require.NoError(t, err)
	require.True(t, commonHandle.ParseAsModule())

	// Both includers must reference the identical Module pointer: the
	// module was parsed exactly once despite two distinct include edges.
	mod1 := commonHandle.Module()
	require.NotNil(t, mod1)

	// Re-requesting the handle must also yield the same pointer.
	again, err := g.ParserFor("/proj/common.fox")
	require.NoError(t, err)
	assert.Same(t, commonHandle, again)
	assert.Same(t, mod1, again.Module())
}

func TestIncludedModuleWithBrokenBodyStillBalancesScopes(t *testing.T) {
	// The included module's function body is malformed (the missing
	// semicolon turns `n f` into dimensions and `r` into an initializer
	// that references r before it is declared, so the module reports
	// errors), but withScope's deferred Pop must still leave the
	// includer's ScopesBalanced check
	// satisfied — INCLUDE_SCOPE_IMBALANCE is a defensive invariant that a
	// correct parse never actually trips.
	files := map[string]string{
		"/proj/a.fox": `include "broken.fox";`,
		"/proj/broken.fox": `
function f n;
  variable r 4 n
  f := r;
endfunction;
`,
	}
	g := newInMemoryGraph(files)
	root := New(source.NewFile("/proj/a.fox", files["/proj/a.fox"]), g, config.Default(), nil)
	g.Register("/proj/a.fox", root)

	root.ParseAsModule()

	brokenHandle, err := g.ParserFor("/proj/broken.fox")
	require.NoError(t, err)
	assert.True(t, brokenHandle.ScopesBalanced())

	found := false
	for _, d := range root.Diagnostics() {
		if d.Code == diag.CodeIncludeScopeImbalance {
			found = true
		}
	}
	assert.False(t, found, "INCLUDE_SCOPE_IMBALANCE should not fire for a balanced, if erroring, include")
}
