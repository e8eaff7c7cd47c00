// ==============================================================================================
// FILE: printer/printer_test.go
// ==============================================================================================
// PURPOSE: Exercises the reference printer against real parsed trees,
//          checking structural shape (indentation, nesting, block
//          delimiters) rather than byte-for-byte output.
// ==============================================================================================

package printer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sigmafox/config"
	"sigmafox/graph"
	"sigmafox/parser"
	"sigmafox/source"
)

func testParse(t *testing.T, input string) *parser.Parser {
	t.Helper()
	file := source.NewFile("test.fox", input)
	g := graph.New(func(string, *graph.Graph) (graph.ParserHandle, error) {
		t.Fatal("unexpected include in printer test fixture")
		return nil, nil
	})
	p := parser.New(file, g, config.Default(), nil)
	ok := p.ParseAsRoot()
	if !ok {
		for _, d := range p.Diagnostics() {
			t.Logf("diagnostic: %s", d.String())
		}
		t.Fatalf("parse failed with %d error(s)", p.ErrorCount())
	}
	return p
}

func TestPrinterRendersVariableDeclaration(t *testing.T) {
	p := testParse(t, `begin; variable x 4 := 1 + 2; end;`)
	out := New(0).Print(p.Root())

	assert.True(t, strings.HasPrefix(out, "begin root\n"))
	assert.Contains(t, out, "variable x 4 := (1 + 2);")
	assert.True(t, strings.HasSuffix(strings.TrimRight(out, "\n"), "end root"))
}

func TestPrinterNestsIfBranchesWithIncreasingIndent(t *testing.T) {
	input := `begin; if 1 = 1; variable q 4 := 1; elseif 1 = 2; variable q 4 := 2; endif; end;`
	p := testParse(t, input)
	out := New(2).Print(p.Root())

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	var ifLine, firstQLine, elseifLine, secondQLine int = -1, -1, -1, -1
	for i, l := range lines {
		trimmed := strings.TrimSpace(l)
		switch {
		case strings.HasPrefix(trimmed, "if "):
			ifLine = i
		case strings.HasPrefix(trimmed, "elseif "):
			elseifLine = i
		case strings.Contains(trimmed, ":= 1;") && firstQLine == -1:
			firstQLine = i
		case strings.Contains(trimmed, ":= 2;"):
			secondQLine = i
		}
	}
	require.NotEqual(t, -1, ifLine)
	require.NotEqual(t, -1, firstQLine)
	require.NotEqual(t, -1, elseifLine)
	require.NotEqual(t, -1, secondQLine)

	indentOf := func(l string) int { return len(l) - len(strings.TrimLeft(l, " ")) }
	assert.Greater(t, indentOf(lines[firstQLine]), indentOf(lines[ifLine]))
	assert.Greater(t, indentOf(lines[secondQLine]), indentOf(lines[elseifLine]))
	assert.Equal(t, indentOf(lines[ifLine]), indentOf(lines[elseifLine]))
}

func TestPrinterRendersFunctionAndProcedureCall(t *testing.T) {
	input := `
function square n;
  variable r 4 := n * n;
  square := r;
endfunction;
procedure greet n;
  write 1 n;
endprocedure;
begin;
  variable y 4 := square(3);
  greet 7;
end;
`
	p := testParse(t, input)
	out := New(2).Print(p.Root())

	assert.Contains(t, out, "function square n;")
	assert.Contains(t, out, "endfunction;")
	assert.Contains(t, out, "procedure greet n;")
	assert.Contains(t, out, "endprocedure;")
	assert.Contains(t, out, "square(3)")
	assert.Contains(t, out, "call greet (7);")
}

func TestPrinterRendersLoopsAndScopes(t *testing.T) {
	input := `begin; loop i 1 10; scope; variable x 4; endscope; endloop; end;`
	p := testParse(t, input)
	out := New(2).Print(p.Root())

	assert.Contains(t, out, "loop i 1 10;")
	assert.Contains(t, out, "endloop;")
	assert.Contains(t, out, "scope;")
	assert.Contains(t, out, "endscope;")
}

func TestPrinterRendersReadAndWrite(t *testing.T) {
	p := testParse(t, `begin; variable x 4; read 1 x; write 1 x x; end;`)
	out := New(2).Print(p.Root())

	assert.Contains(t, out, "read 1 x;")
	assert.Contains(t, out, "write 1 x x;")
}

func TestPrinterIsReusableAcrossTrees(t *testing.T) {
	pr := New(2)
	first := testParse(t, `begin; variable a 4 := 1; end;`)
	second := testParse(t, `begin; variable b 4 := 2; end;`)

	out1 := pr.Print(first.Root())
	out2 := pr.Print(second.Root())

	assert.Contains(t, out1, "variable a 4 := 1;")
	assert.NotContains(t, out1, "variable b")
	assert.Contains(t, out2, "variable b 4 := 2;")
	assert.NotContains(t, out2, "variable a")
}
