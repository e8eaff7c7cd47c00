// ==============================================================================================
// FILE: frontend/driver_test.go
// ==============================================================================================
// PURPOSE: Exercises the Driver API end to end: building a graph and a
//          root parser from real files on disk, parsing, validating, and
//          walking the result with the reference printer.
// ==============================================================================================

package frontend

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sigmafox/config"
	"sigmafox/diag"
	"sigmafox/printer"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDriverParsesRootFileWithIncludes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "shared.fox", `function counter; counter := 0; endfunction;`)
	entry := writeFile(t, dir, "main.fox", `
include "shared.fox";
begin;
  variable x 4 := 1 + 2;
end;
`)

	settings := config.Default()
	g := NewDependencyGraph(settings, nil)
	d, err := NewParser(entry, g, settings, nil)
	require.NoError(t, err)

	ok := d.ParseAsRoot()
	require.True(t, ok, "diagnostics: %v", d.Diagnostics())
	assert.Equal(t, 0, d.ErrorCount())
	require.NotNil(t, d.Root())
	require.Len(t, d.Root().Globals, 1)
}

func TestDriverAggregatesErrorsFromIncludedModules(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.fox", `procedure setup; variable bad 4 := undeclared_name; endprocedure;`)
	entry := writeFile(t, dir, "main.fox", `include "broken.fox"; begin; end;`)

	settings := config.Default()
	g := NewDependencyGraph(settings, nil)
	d, err := NewParser(entry, g, settings, nil)
	require.NoError(t, err)

	ok := d.ParseAsRoot()
	assert.False(t, ok)
	assert.Greater(t, d.ErrorCount(), 0)
}

func TestDriverValidatePopulatesTypeMismatchDiagnostics(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.fox", `begin; variable a 4 := 1 + "hi"; end;`)

	settings := config.Default()
	g := NewDependencyGraph(settings, nil)
	d, err := NewParser(entry, g, settings, nil)
	require.NoError(t, err)
	require.True(t, d.ParseAsRoot(), "diagnostics: %v", d.Diagnostics())

	bag := diag.NewBag(false, nil)
	d.Validate(bag)

	require.Equal(t, 1, bag.ErrorCount())
	assert.Equal(t, diag.CodeTypeMismatch, bag.All()[0].Code)
}

func TestDriverVisitDrivesReferencePrinter(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.fox", `begin; variable x 4 := 1 + 2; end;`)

	settings := config.Default()
	g := NewDependencyGraph(settings, nil)
	d, err := NewParser(entry, g, settings, nil)
	require.NoError(t, err)
	require.True(t, d.ParseAsRoot())

	p := printer.New(2)
	d.Visit(p)
	out := p.String()

	assert.True(t, strings.Contains(out, "variable x 4 := (1 + 2);"))
}
