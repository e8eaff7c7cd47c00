// ==============================================================================================
// FILE: typecheck/typecheck_test.go
// ==============================================================================================
// PURPOSE: Unit and integration tests for the expression evaluator and the
//          block validator, driven over real parsed trees the way the
//          teacher's evaluator tests drive over real parsed programs.
// ==============================================================================================

package typecheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sigmafox/ast"
	"sigmafox/config"
	"sigmafox/diag"
	"sigmafox/graph"
	"sigmafox/parser"
	"sigmafox/source"
)

// testParse parses input as a root, failing the test on any parse error.
func testParse(t *testing.T, input string) *parser.Parser {
	t.Helper()
	file := source.NewFile("test.fox", input)
	g := graph.New(func(string, *graph.Graph) (graph.ParserHandle, error) {
		t.Fatal("unexpected include in typecheck test fixture")
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

func TestEvaluatorArithmeticWidening(t *testing.T) {
	p := testParse(t, `begin; variable x 4 := 1 + 2.5; end;`)
	decl := p.Root().Main.Body[0].(*ast.VariableDecl)

	eval := NewEvaluator(p.Symbols())
	assert.Equal(t, ast.REAL, eval.Eval(decl.Initializer))
}

func TestEvaluatorConcatenationRequiresBothStrings(t *testing.T) {
	p := testParse(t, `begin; variable a 4 := "x" & "y"; variable b 4 := 1 + "hi"; end;`)
	concat := p.Root().Main.Body[0].(*ast.VariableDecl)
	mismatch := p.Root().Main.Body[1].(*ast.VariableDecl)

	eval := NewEvaluator(p.Symbols())
	assert.Equal(t, ast.STRING, eval.Eval(concat.Initializer))
	assert.Equal(t, ast.ERRORTYPE, eval.Eval(mismatch.Initializer))
}

func TestEvaluatorComparisonYieldsInteger(t *testing.T) {
	p := testParse(t, `begin; variable x 4 := 1 = 2; end;`)
	decl := p.Root().Main.Body[0].(*ast.VariableDecl)

	eval := NewEvaluator(p.Symbols())
	assert.Equal(t, ast.INTEGER, eval.Eval(decl.Initializer))
}

func TestEvaluatorUnaryNegationErrorsOnString(t *testing.T) {
	p := testParse(t, `begin; variable b 4 := -"hi"; end;`)
	decl := p.Root().Main.Body[0].(*ast.VariableDecl)

	eval := NewEvaluator(p.Symbols())
	assert.Equal(t, ast.ERRORTYPE, eval.Eval(decl.Initializer))
}

func TestEvaluatorFunctionCallReturnsCalleeType(t *testing.T) {
	input := `
function square n;
  variable r 4 := n * n;
  square := r;
endfunction;
begin;
  variable y 4 := square(3);
end;
`
	p := testParse(t, input)
	fn := p.Root().Globals[0].(*ast.FunctionDecl)
	fn.ReturnSlot.DataType = ast.INTEGER // normally refined by the block validator first

	decl := p.Root().Main.Body[0].(*ast.VariableDecl)
	eval := NewEvaluator(p.Symbols())
	assert.Equal(t, ast.INTEGER, eval.Eval(decl.Initializer))
}

func TestBlockValidatorReportsTypeMismatchAtDeclarationSite(t *testing.T) {
	p := testParse(t, `begin; variable a 4 := 1 + "hi"; end;`)

	bag := diag.NewBag(false, nil)
	bv := NewBlockValidator(p.Symbols(), bag)
	bv.ValidateRoot(p.Root())

	require.Equal(t, 1, bag.ErrorCount())
	assert.Equal(t, diag.CodeTypeMismatch, bag.All()[0].Code)
	assert.Equal(t, "a", bag.All()[0].Lexeme)
}

func TestBlockValidatorChecksWriteValues(t *testing.T) {
	p := testParse(t, `begin; write 1 (1 + "hi"); end;`)

	bag := diag.NewBag(false, nil)
	bv := NewBlockValidator(p.Symbols(), bag)
	bv.ValidateRoot(p.Root())

	require.Equal(t, 1, bag.ErrorCount())
	assert.Equal(t, diag.CodeTypeMismatch, bag.All()[0].Code)
}

func TestBlockValidatorSubstitutesArgumentTypesIntoCallee(t *testing.T) {
	input := `
function identity n;
  identity := n;
endfunction;
begin;
  variable y 4 := identity(3);
end;
`
	p := testParse(t, input)
	bag := diag.NewBag(false, nil)
	bv := NewBlockValidator(p.Symbols(), bag)
	bv.ValidateRoot(p.Root())

	require.Equal(t, 0, bag.ErrorCount())
	fn := p.Root().Globals[0].(*ast.FunctionDecl)
	assert.Equal(t, ast.INTEGER, fn.Parameters[0].DataType)
	assert.Equal(t, ast.INTEGER, fn.ReturnSlot.DataType)
}

func TestBlockValidatorValidatesIncludedModule(t *testing.T) {
	files := map[string]string{
		"/proj/a.fox": `include "b.fox"; begin; end;`,
		"/proj/b.fox": "procedure setup;\n  variable bad 4 := 1 + \"hi\";\nendprocedure;\n",
	}
	var g *graph.Graph
	g = graph.New(func(path string, gg *graph.Graph) (graph.ParserHandle, error) {
		text, ok := files[path]
		if !ok {
			t.Fatalf("no such file: %s", path)
		}
		return parser.New(source.NewFile(path, text), gg, config.Default(), nil), nil
	})
	root := parser.New(source.NewFile("/proj/a.fox", files["/proj/a.fox"]), g, config.Default(), nil)
	g.Register("/proj/a.fox", root)
	require.True(t, root.ParseAsRoot())

	bag := diag.NewBag(false, nil)
	bv := NewBlockValidator(root.Symbols(), bag)
	bv.ValidateRoot(root.Root())

	require.Equal(t, 1, bag.ErrorCount())
	assert.Equal(t, diag.CodeTypeMismatch, bag.All()[0].Code)
}
