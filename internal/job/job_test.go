package job_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jlangtools/jcc/internal/job"
	"github.com/jlangtools/jcc/internal/registry"
)

type mapLoader map[string][]byte

func (m mapLoader) Load(name string) ([]byte, error) {
	if src, ok := m[name]; ok {
		return src, nil
	}
	return nil, errNotFound(name)
}

type errNotFound string

func (e errNotFound) Error() string { return "not found: " + string(e) }

func TestRunEmptySourceSucceedsWithPrologueAndTrailingBanner(t *testing.T) {
	loader := mapLoader{"a.j": []byte("")}
	reg := registry.New()
	res := job.Run([]job.UnitSource{{Name: "a.j", RootFile: "a.j"}}, loader, reg, 0)

	require.False(t, res.Fatal)
	require.Equal(t, 0, res.UnitsFailed)
	require.NotEmpty(t, res.Source)
	require.Contains(t, res.Source, "namespace jcc {")
	require.Contains(t, res.Source, "sha256:")
	require.False(t, res.Report.HasErrors())
}

func TestRunSingleStructRegistersOneType(t *testing.T) {
	loader := mapLoader{"a.j": []byte("namespace N { struct A { int a; } }")}
	reg := registry.New()
	res := job.Run([]job.UnitSource{{Name: "a.j", RootFile: "a.j"}}, loader, reg, 0)

	require.False(t, res.Fatal)
	require.Equal(t, 1, reg.Count())
	require.Contains(t, res.Source, `"_index_names", "_a,"`)
}

func TestRunMainSynthesisAcrossTwoUnits(t *testing.T) {
	loader := mapLoader{
		"a.j": []byte("int main() { return 0; }"),
		"b.j": []byte("struct Aux { int x; }"),
	}
	reg := registry.New()
	res := job.Run([]job.UnitSource{
		{Name: "a.j", RootFile: "a.j"},
		{Name: "b.j", RootFile: "b.j"},
	}, loader, reg, 0)

	require.False(t, res.Fatal)
	require.Equal(t, 0, res.UnitsFailed)
	require.Equal(t, 1, strings.Count(res.Source, "int main(int argc, char **argv)"))
	require.Contains(t, res.Source, "return _main();")
}

func TestRunDoubleMainIsFatalAndProducesNoSource(t *testing.T) {
	loader := mapLoader{
		"a.j": []byte("int main() { return 0; }"),
		"b.j": []byte("int main() { return 1; }"),
	}
	reg := registry.New()
	res := job.Run([]job.UnitSource{
		{Name: "a.j", RootFile: "a.j"},
		{Name: "b.j", RootFile: "b.j"},
	}, loader, reg, 0)

	require.True(t, res.Fatal)
	require.Empty(t, res.Source)
	require.True(t, res.Report.HasErrors())
}

func TestRunPreprocessFailureReportsErrorAndRollsBackRegistry(t *testing.T) {
	loader := mapLoader{}
	reg := registry.New()
	res := job.Run([]job.UnitSource{{Name: "missing.j", RootFile: "missing.j"}}, loader, reg, 0)

	require.False(t, res.Fatal)
	require.Equal(t, 1, res.UnitsFailed)
	require.Empty(t, res.Source)
	require.Equal(t, 0, reg.Count())
}
