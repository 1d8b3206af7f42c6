// Package integration provides integration tests against the schema test
// corpus.
//
// These tests load the full testdata/corpus/ folder through the public
// API and make assertions against the lowered native models.
//
// # File Organization
//
//   - corpus_test.go: Shared infrastructure and basic load test
//   - types_test.go: Width selection, shapes, hoisting
//   - tags_test.go: Field and variant tags, SET canonical order
//   - constraints_test.go: SIZE and value range constraints, defaults
//   - errors_test.go: Failures surfaced by Compile
package integration

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/golangsnmp/asnc"
	"github.com/golangsnmp/asnc/internal/native"
)

// corpusResult holds the shared compile result for all tests.
// Loaded once via loadCorpus().
var (
	corpusResult *asnc.Result
	corpusOnce   sync.Once
	corpusErr    error
)

// corpusPath returns the absolute path to the test corpus.
func corpusPath() (string, error) {
	return filepath.Abs(filepath.Join("..", "testdata", "corpus"))
}

// loadCorpus compiles the entire test corpus once and caches the result.
func loadCorpus(t *testing.T) *asnc.Result {
	t.Helper()

	corpusOnce.Do(func() {
		path, err := corpusPath()
		if err != nil {
			corpusErr = err
			return
		}
		if _, err := os.Stat(path); err != nil {
			corpusErr = err
			return
		}
		corpusResult, corpusErr = asnc.Load(context.Background(), asnc.Dir(path), nil)
	})

	if corpusErr != nil {
		t.Fatalf("failed to load corpus: %v", corpusErr)
	}
	return corpusResult
}

// getDefinition retrieves a native definition and fails if not found.
func getDefinition(t *testing.T, res *asnc.Result, module, name string) *asnc.Definition {
	t.Helper()
	model, ok := res.Model(module)
	require.True(t, ok, "module %s should exist", module)
	def, ok := model.Definition(name)
	require.True(t, ok, "definition %s.%s should exist", module, name)
	return def
}

func getShape[T native.Shape](t *testing.T, res *asnc.Result, module, name string) T {
	t.Helper()
	def := getDefinition(t, res, module, name)
	s, ok := def.Shape.(T)
	require.True(t, ok, "%s.%s has shape %T", module, name, def.Shape)
	return s
}

func asType[T native.Type](t *testing.T, ty native.Type) T {
	t.Helper()
	v, ok := ty.(T)
	require.True(t, ok, "type is %T", ty)
	return v
}

// fieldType returns the type of a named struct field.
func fieldType(t *testing.T, s *native.Struct, name string) native.Type {
	t.Helper()
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Type
		}
	}
	require.Fail(t, "field should exist", name)
	return nil
}

// TestCorpusLoads verifies the corpus compiles and every module lowers.
func TestCorpusLoads(t *testing.T) {
	res := loadCorpus(t)

	require.Len(t, res.Modules, 2)
	require.Len(t, res.Models, 2)
	require.Equal(t, "Base", res.Modules[0].Name, "files listed in sorted order")
	for _, mod := range res.Modules {
		require.NoError(t, mod.CheckResolved(), mod.Name)
	}

	t.Logf("Corpus: %d modules, %d native definitions",
		len(res.Models), len(res.Models[0].Definitions)+len(res.Models[1].Definitions))
}

func TestLoadByNamePullsImports(t *testing.T) {
	path, err := corpusPath()
	require.NoError(t, err)

	res, err := asnc.Load(context.Background(), asnc.Dir(path), []string{"Messages"})
	require.NoError(t, err)
	require.Len(t, res.Modules, 2)
	require.Equal(t, "Messages", res.Modules[0].Name)
	require.Equal(t, "Base", res.Modules[1].Name)
}
