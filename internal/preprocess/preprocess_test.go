package preprocess_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jlangtools/jcc/internal/preprocess"
)

type mapLoader map[string][]byte

func (m mapLoader) Load(name string) ([]byte, error) {
	data, ok := m[name]
	if !ok {
		return nil, preprocess.ErrNotFound
	}
	return data, nil
}

func TestRunInlinesIncludes(t *testing.T) {
	loader := mapLoader{
		"main.j": []byte(`#include "util.j"
struct Point { }
`),
		"util.j": []byte("struct Util { }\n"),
	}
	out, err := preprocess.New(loader).Run("main.j")
	require.NoError(t, err)
	require.Contains(t, string(out), "struct Util { }")
	require.Contains(t, string(out), "struct Point { }")
}

func TestRunDetectsCycle(t *testing.T) {
	loader := mapLoader{
		"a.j": []byte(`#include "b.j"`),
		"b.j": []byte(`#include "a.j"`),
	}
	_, err := preprocess.New(loader).Run("a.j")
	require.Error(t, err)
	pErr, ok := err.(*preprocess.Error)
	require.True(t, ok)
	require.Equal(t, preprocess.Cyclic, pErr.Kind)
}

func TestRunReportsNotFound(t *testing.T) {
	loader := mapLoader{"main.j": []byte(`#include "missing.j"`)}
	_, err := preprocess.New(loader).Run("main.j")
	require.Error(t, err)
	pErr, ok := err.(*preprocess.Error)
	require.True(t, ok)
	require.Equal(t, preprocess.NotFound, pErr.Kind)
}

func TestSubstitutionExpandsAfterDirective(t *testing.T) {
	loader := mapLoader{
		"main.j": []byte(`#[VERSION "3"]
const int V = {{VERSION}};
`),
	}
	out, err := preprocess.New(loader).Run("main.j")
	require.NoError(t, err)
	require.Contains(t, string(out), "const int V = 3;")
}

func TestSubstitutionLeavesUndefinedKeyLiteral(t *testing.T) {
	loader := mapLoader{"main.j": []byte(`const int V = {{UNDEFINED}};`)}
	out, err := preprocess.New(loader).Run("main.j")
	require.NoError(t, err)
	require.Contains(t, string(out), "{{UNDEFINED}}")
}

func TestMalformedIncludeIsBadToken(t *testing.T) {
	loader := mapLoader{"main.j": []byte(`#include oops`)}
	_, err := preprocess.New(loader).Run("main.j")
	require.Error(t, err)
	pErr, ok := err.(*preprocess.Error)
	require.True(t, ok)
	require.Equal(t, preprocess.BadToken, pErr.Kind)
}
