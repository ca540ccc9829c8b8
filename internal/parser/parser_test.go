package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jlangtools/jcc/internal/lexer"
	"github.com/jlangtools/jcc/internal/parser"
	"github.com/jlangtools/jcc/pkg/ast"
	"github.com/jlangtools/jcc/pkg/diag"
)

func parse(t *testing.T, src string) (*ast.File, *diag.Sink) {
	t.Helper()
	toks, err := lexer.Lex("t.j", []byte(src))
	require.NoError(t, err)
	sink := diag.NewSink("t.j")
	f, err := parser.Parse("t.j", toks, sink, 0)
	require.NoError(t, err)
	return f, sink
}

func TestParseEmptyFile(t *testing.T) {
	f, sink := parse(t, "")
	require.Empty(t, f.Body)
	require.Empty(t, sink.Diagnostics())
}

func TestParseStructWithField(t *testing.T) {
	f, sink := parse(t, "struct Point { int x; int y; }")
	require.Empty(t, sink.Diagnostics())
	require.Len(t, f.Body, 1)
	def, ok := f.Body[0].(*ast.StructDefinition)
	require.True(t, ok)
	require.Equal(t, "Point", def.Name)
	require.Len(t, def.Fields, 2)
	require.Equal(t, "x", def.Fields[0].Name)
	require.Equal(t, "int", def.Fields[0].Type.Name)
}

func TestParsePackedStructLeadingAttribute(t *testing.T) {
	f, sink := parse(t, `struct Header { #[packed "true"] byte flags; byte tag[4]; }`)
	require.Empty(t, sink.Diagnostics())
	def := f.Body[0].(*ast.StructDefinition)
	require.True(t, def.Packed)
	require.Len(t, def.Fields, 2)
	require.Equal(t, 4, def.Fields[1].Type.ArraySize)
}

func TestParseStructFieldAttributeAttaches(t *testing.T) {
	f, _ := parse(t, `struct Wire { #[endian "big"] dword value; }`)
	def := f.Body[0].(*ast.StructDefinition)
	require.Len(t, def.Fields, 1)
	require.Len(t, def.Fields[0].Attributes, 1)
	require.Equal(t, "endian", def.Fields[0].Attributes[0].Key)
}

func TestParseBitfield(t *testing.T) {
	f, _ := parse(t, "struct Flags { byte a:1; byte b:3; }")
	def := f.Body[0].(*ast.StructDefinition)
	require.Equal(t, 1, def.Fields[0].Type.BitWidth)
	require.Equal(t, 3, def.Fields[1].Type.BitWidth)
}

func TestParseForwardUnionThenClass(t *testing.T) {
	f, sink := parse(t, "union U; class C;")
	require.Empty(t, sink.Diagnostics())
	require.Len(t, f.Body, 2)
	u := f.Body[0].(*ast.UnionDeclaration)
	require.Nil(t, u.Fields)
	c := f.Body[1].(*ast.ClassDeclaration)
	require.Nil(t, c.Members)
}

func TestParseClassDefaultVisibility(t *testing.T) {
	f, _ := parse(t, "class Widget { int id; int area() { return 0; } }")
	c := f.Body[0].(*ast.ClassDeclaration)
	require.Len(t, c.Members, 1)
	require.Equal(t, ast.Private, c.Members[0].Visibility)
	require.Len(t, c.Methods, 1)
	require.Equal(t, ast.Public, c.Methods[0].Visibility)
}

func TestParseEnumWithValues(t *testing.T) {
	f, _ := parse(t, "enum Color { Red = 1, Green, Blue = 3 }")
	e := f.Body[0].(*ast.EnumDeclaration)
	require.Len(t, e.Items, 3)
	require.NotNil(t, e.Items[0].Value)
	require.Nil(t, e.Items[1].Value)
}

func TestParseFunctionDefinitionWithReturn(t *testing.T) {
	f, _ := parse(t, "int add(int a, int b) { return a + b; }")
	fn := f.Body[0].(*ast.FunctionDefinition)
	require.Equal(t, "add", fn.Name)
	require.Len(t, fn.Params, 2)
	require.Len(t, fn.Body.Children, 1)
	ret := fn.Body.Children[0].(*ast.ReturnStatement)
	bin, ok := ret.Value.(*ast.BinaryExpression)
	require.True(t, ok)
	require.Equal(t, "+", bin.Op)
}

func TestParseFunctionDeclarationOnly(t *testing.T) {
	f, _ := parse(t, "void log(string msg);")
	decl := f.Body[0].(*ast.FunctionDeclaration)
	require.Equal(t, "log", decl.Name)
	require.Len(t, decl.Params, 1)
}

func TestParseParameterDefaultIsExpressionSubtree(t *testing.T) {
	f, _ := parse(t, "void f(int x = 1 + 2) { }")
	fn := f.Body[0].(*ast.FunctionDefinition)
	def, ok := fn.Params[0].Default.(*ast.BinaryExpression)
	require.True(t, ok)
	require.Equal(t, "+", def.Op)
}

func TestParseLetVarConstMapping(t *testing.T) {
	f, sink := parse(t, "infer x = 1; global int y = 2; const int z = 3;")
	require.Empty(t, sink.Diagnostics())
	require.Len(t, f.Body, 3)
	require.IsType(t, &ast.LetDeclaration{}, f.Body[0])
	require.IsType(t, &ast.VarDeclaration{}, f.Body[1])
	require.IsType(t, &ast.ConstDeclaration{}, f.Body[2])
}

func TestParseNamespaceBody(t *testing.T) {
	f, _ := parse(t, "namespace net { struct Packet { byte id; } }")
	require.Len(t, f.Body, 1)
	def := f.Body[0].(*ast.SubsystemDefinition)
	require.Equal(t, "net", def.Name)
	require.Len(t, def.Body, 1)
	inner := def.Body[0].(*ast.StructDefinition)
	require.Equal(t, "Packet", inner.Name)
}

func TestParseExportStatement(t *testing.T) {
	f, _ := parse(t, "export main;")
	exp := f.Body[0].(*ast.ExportStatement)
	require.Equal(t, "main", exp.Target)
}

func TestParseNamemapFallsBackToRawNode(t *testing.T) {
	f, sink := parse(t, "namemap foo bar;")
	require.Empty(t, sink.Diagnostics())
	require.IsType(t, &ast.RawNode{}, f.Body[0])
}

func TestParseCastExpression(t *testing.T) {
	f, _ := parse(t, "int f() { return cast(int, 1.5); }")
	fn := f.Body[0].(*ast.FunctionDefinition)
	ret := fn.Body.Children[0].(*ast.ReturnStatement)
	c, ok := ret.Value.(*ast.CastExpression)
	require.True(t, ok)
	require.Equal(t, "int", c.Type.Name)
}

func TestParseRecoversFromMalformedDeclaration(t *testing.T) {
	f, sink := parse(t, "struct ; struct Ok { int a; }")
	require.NotEmpty(t, sink.Diagnostics())
	require.Len(t, f.Body, 1)
	def, ok := f.Body[0].(*ast.StructDefinition)
	require.True(t, ok)
	require.Equal(t, "Ok", def.Name)
}

func TestParseDynamicArrayField(t *testing.T) {
	f, _ := parse(t, "struct Buf { byte data[]; }")
	def := f.Body[0].(*ast.StructDefinition)
	require.Equal(t, ast.DynamicSize, def.Fields[0].Type.ArraySize)
}
