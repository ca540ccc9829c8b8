package codegen_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jlangtools/jcc/internal/codegen"
	"github.com/jlangtools/jcc/internal/lexer"
	"github.com/jlangtools/jcc/internal/parser"
	"github.com/jlangtools/jcc/internal/registry"
	"github.com/jlangtools/jcc/pkg/diag"
)

func generate(t *testing.T, src string) (codegen.UnitOutput, *registry.Registry, *diag.Sink) {
	t.Helper()
	toks, err := lexer.Lex("t.j", []byte(src))
	require.NoError(t, err)
	sink := diag.NewSink("t.j")
	f, err := parser.Parse("t.j", toks, sink, 0)
	require.NoError(t, err)
	require.Empty(t, sink.Diagnostics())
	reg := registry.New()
	g := codegen.New(reg, sink, 0)
	return g.GenerateUnit(f), reg, sink
}

func TestGenerateEmptySource(t *testing.T) {
	out, reg, sink := generate(t, "")
	require.Empty(t, out.Body)
	require.False(t, out.HasMain)
	require.Equal(t, 0, reg.Count())
	require.Empty(t, sink.Diagnostics())
}

func TestGenerateSingleStructRegistersOneType(t *testing.T) {
	out, reg, sink := generate(t, "namespace N { struct A { int a; } }")
	require.Empty(t, sink.Diagnostics())
	require.Equal(t, 1, reg.Count())
	name, ok := reg.QualifiedName(0)
	require.True(t, ok)
	require.True(t, strings.HasSuffix(name, "N::A"))
	fields := reg.Fields(0)
	require.Len(t, fields, 1)
	require.Equal(t, registry.Field{Name: "a", TypeName: "int", Count: 1}, fields[0])
	require.Contains(t, out.Body, `"_index_names", "_a,"`)
	require.Contains(t, out.Body, `"_index_types", "_int,"`)
	require.Contains(t, out.Body, `"_index", "_a:_int,"`)
}

func TestGeneratePackedStructWithArrayAndBitfield(t *testing.T) {
	out, reg, sink := generate(t, `struct P { #[packed "true"] int flags : 3; byte buf[8]; }`)
	require.Empty(t, sink.Diagnostics())
	fields := reg.Fields(0)
	require.Equal(t, registry.Field{Name: "flags", TypeName: "int", Count: 1}, fields[0])
	require.Equal(t, registry.Field{Name: "buf", TypeName: "byte", Count: 8}, fields[1])

	pushIdx := strings.Index(out.Body, "#pragma pack(push, 1)")
	classIdx := strings.Index(out.Body, "class _P")
	popIdx := strings.Index(out.Body, "#pragma pack(pop)")
	require.True(t, pushIdx >= 0 && pushIdx < classIdx && classIdx < popIdx)
	require.Contains(t, out.Body, "_int _flags : 3;")
	require.Contains(t, out.Body, "_byte _buf[8];")
}

func TestGenerateVoidFunctionIsNoreturnWithTerminatingLoop(t *testing.T) {
	out, _, sink := generate(t, "void spin() { }")
	require.Empty(t, sink.Diagnostics())
	require.Contains(t, out.Body, "[[noreturn]]")
	require.Contains(t, out.Body, "for (;;) {}")
}

func TestGenerateMainInRootNamespaceIsDetected(t *testing.T) {
	out, reg, sink := generate(t, "int main() { return 0; }")
	require.Empty(t, sink.Diagnostics())
	require.True(t, out.HasMain)
	require.Equal(t, "_main", out.MainRectified)
	require.True(t, reg != nil)
}

func TestGenerateMainInsideNamespaceIsNotRootMain(t *testing.T) {
	out, _, sink := generate(t, "namespace N { int main() { return 0; } }")
	require.Empty(t, sink.Diagnostics())
	require.False(t, out.HasMain)
}

func TestGenerateDynamicArrayFieldUsesVector(t *testing.T) {
	out, _, _ := generate(t, "struct Buf { byte data[]; }")
	require.Contains(t, out.Body, "std::vector<_byte> _data;")
}

func TestRectifyNormalizesDoubleColon(t *testing.T) {
	require.Equal(t, "_ns::_x", codegen.Rectify("ns::::x"))
}

func TestQualifyJoinsNamespacePath(t *testing.T) {
	require.Equal(t, "outer::inner::Leaf", codegen.Qualify([]string{"outer", "inner"}, "Leaf"))
	require.Equal(t, "Leaf", codegen.Qualify(nil, "Leaf"))
}

func TestReflectivePrologueSubstitutesRegistry(t *testing.T) {
	_, reg, _ := generate(t, "struct A { int a; }")
	prologue := codegen.ReflectivePrologue(reg)
	require.NotContains(t, prologue, "JCC_TYPENAMES_MAPPING")
	require.NotContains(t, prologue, "JCC_REFLECTIVE_ENTRIES")
	require.Contains(t, prologue, `case 0: return "_A";`)
}
