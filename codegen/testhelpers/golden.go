// Package testhelpers provides shared test utilities for codegen packages.
package testhelpers

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"text/template"

	"github.com/stretchr/testify/require"
	gcodegen "goa.design/goa/v3/codegen"
)

// FileContent renders the sections of f and returns the concatenated result.
func FileContent(t *testing.T, f *gcodegen.File) string {
	t.Helper()
	require.NotNil(t, f, "nil generated file")
	var buf bytes.Buffer
	for _, s := range f.SectionTemplates {
		pt, err := template.New(s.Name).Funcs(s.FuncMap).Parse(s.Source)
		require.NoErrorf(t, err, "parse section %s", s.Name)
		var sb bytes.Buffer
		err = pt.Execute(&sb, s.Data)
		require.NoErrorf(t, err, "execute section %s", s.Name)
		buf.Write(sb.Bytes())
	}
	content := buf.String()
	require.NotEmptyf(t, content, "empty content for %s", f.Path)
	return content
}

// GoldenPath returns the path of a golden file relative to the test
// package: testdata/golden/<scenario>/<name>.
func GoldenPath(scenario, name string) string {
	return filepath.Join("testdata", "golden", scenario, name)
}

// AssertGolden compares content with the golden file of scenario. Golden
// files are refreshed with cmd/regolden.
func AssertGolden(t *testing.T, scenario, name, content string) {
	t.Helper()
	p := GoldenPath(scenario, name)
	want, err := os.ReadFile(p)
	require.NoErrorf(t, err, "read golden %s", p)
	require.Equalf(t, string(want), content, "golden mismatch for %s (run go run ./cmd/regolden to refresh)", p)
}
