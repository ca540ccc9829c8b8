package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jlangtools/jcc/internal/registry"
	"github.com/jlangtools/jcc/pkg/ast"
	"github.com/jlangtools/jcc/pkg/diag"
)

// Generator walks one compilation unit's tree and emits its target-source
// body, registering every struct it encounters with the shared registry
// and reporting codegen-level failures (duplicate struct names, a second
// observed main) to the unit's sink (spec §4.4).
type Generator struct {
	reg    *registry.Registry
	sink   *diag.Sink
	unixTS int64
}

// New returns a Generator writing into reg and sink.
func New(reg *registry.Registry, sink *diag.Sink, unixTS int64) *Generator {
	return &Generator{reg: reg, sink: sink, unixTS: unixTS}
}

// UnitOutput is one unit's generated body plus the main-synthesis
// bookkeeping the joiner needs to append at most one trampoline per job.
type UnitOutput struct {
	Body          string
	HasMain       bool
	MainRectified string
}

// context threads the two ambient values spec §4.4 requires: the current
// indent level and the namespace-path under traversal. Both are value
// types so each recursive call gets its own independent copy.
type context struct {
	indent int
	ns     []string
}

func (c context) pad() string { return strings.Repeat("    ", c.indent) }

func (c context) indented() context {
	c.indent++
	return c
}

func (c context) inNamespace(name string) context {
	next := make([]string, len(c.ns)+1)
	copy(next, c.ns)
	next[len(c.ns)] = name
	c.ns = next
	return c
}

// GenerateUnit emits f's body. The returned string excludes the file
// banner, prologue, and trailing hash — those are assembled once per job
// by the joiner (internal/job), since the prologue depends on every
// unit's registrations having already happened (spec §5).
func (g *Generator) GenerateUnit(f *ast.File) UnitOutput {
	var b strings.Builder
	var out UnitOutput
	ctx := context{}
	for _, n := range f.Body {
		g.emitTop(&b, ctx, n, &out)
	}
	out.Body = b.String()
	return out
}

func (g *Generator) emitTop(b *strings.Builder, ctx context, n ast.Node, out *UnitOutput) {
	switch v := n.(type) {
	case *ast.SubsystemDefinition:
		fmt.Fprintf(b, "%snamespace %s {\n", ctx.pad(), Rectify(v.Name))
		inner := ctx.indented().inNamespace(v.Name)
		for _, c := range v.Body {
			g.emitTop(b, inner, c, out)
		}
		fmt.Fprintf(b, "%s}\n", ctx.pad())
	case *ast.StructDefinition:
		g.emitStruct(b, ctx, v)
	case *ast.FunctionDefinition:
		g.emitFunctionDefinition(b, ctx, v, out)
	case *ast.ClassDeclaration:
		g.emitClass(b, ctx, v)
	case *ast.EnumDeclaration:
		g.emitEnum(b, ctx, v)
	case *ast.TypeDeclaration:
		fmt.Fprintf(b, "%stypedef %s %s;\n", ctx.pad(), Rectify(v.Underlying.Name), Rectify(v.Name))
	case *ast.ExternalDeclaration:
		fmt.Fprintf(b, "%sextern %s %s;\n", ctx.pad(), Rectify(v.Type.Name), Rectify(v.Name))
	case *ast.VarDeclaration:
		g.emitGlobal(b, ctx, "", v.Name, v.Type, v.Init)
	case *ast.ConstDeclaration:
		g.emitGlobal(b, ctx, "const ", v.Name, v.Type, v.Init)
	case *ast.LetDeclaration:
		g.emitGlobal(b, ctx, "auto ", v.Name, ast.TypeRef{}, v.Init)
	case *ast.ExportStatement:
		fmt.Fprintf(b, "%s// export %s\n", ctx.pad(), Rectify(v.Target))
	case *ast.RawNode:
		fmt.Fprintf(b, "%s%s\n", ctx.pad(), v.Text)
	case *ast.FunctionDeclaration, *ast.StructDeclaration, *ast.UnionDeclaration:
		// Nothing is emitted for function declarations, forward struct
		// declarations, or union declarations, including unions that
		// list fields.
	}
}

// emitStruct implements spec §4.4's seven-step struct emission rule. The
// constructor sets the three _index attributes and the struct-level
// #[...] attributes; attributes attached to individual fields are not
// emitted.
func (g *Generator) emitStruct(b *strings.Builder, ctx context, v *ast.StructDefinition) {
	qualified := Qualify(ctx.ns, v.Name)
	typeid, err := g.reg.Register(qualified, fieldTable(v.Fields))
	if err != nil {
		g.sink.Add(diag.New(diag.Fatal, fmt.Sprintf("codegen: %s", err), v.Pos(), g.unixTS))
		return
	}
	if v.Packed {
		fmt.Fprintf(b, "%s#pragma pack(push, 1)\n", ctx.pad())
	}
	fmt.Fprintf(b, "%sclass %s : public jcc::ReflectiveBase<%d> {\n", ctx.pad(), Rectify(v.Name), typeid)
	fmt.Fprintf(b, "%spublic:\n", ctx.indented().pad())
	body := ctx.indented().indented()

	names, types, index := fieldIndexStrings(v.Fields)
	fmt.Fprintf(b, "%s%s() {\n", ctx.indented().pad(), Rectify(v.Name))
	fmt.Fprintf(b, "%sset_attribute(\"_index_names\", \"%s\");\n", body.pad(), names)
	fmt.Fprintf(b, "%sset_attribute(\"_index_types\", \"%s\");\n", body.pad(), types)
	fmt.Fprintf(b, "%sset_attribute(\"_index\", \"%s\");\n", body.pad(), index)
	for _, attr := range v.Attributes {
		fmt.Fprintf(b, "%sset_attribute(\"%s\", \"%s\");\n", body.pad(), attr.Key, attr.Value)
	}
	fmt.Fprintf(b, "%s}\n", ctx.indented().pad())

	for _, m := range v.Methods {
		g.emitStructMethod(b, ctx.indented(), m)
	}
	for _, f := range v.Fields {
		fmt.Fprintf(b, "%s%s\n", ctx.indented().pad(), fieldDecl(f))
	}
	fmt.Fprintf(b, "%sstatic constexpr unsigned long long size_of = sizeof(%s);\n", ctx.indented().pad(), Rectify(v.Name))

	fmt.Fprintf(b, "%s};\n", ctx.pad())
	if v.Packed {
		fmt.Fprintf(b, "%s#pragma pack(pop)\n", ctx.pad())
	}
}

// fieldTable builds the registry's per-typeid field list: count is
// max(array-size, 1) per spec §3.
func fieldTable(fields []*ast.StructField) []registry.Field {
	out := make([]registry.Field, 0, len(fields))
	for _, f := range fields {
		count := f.Type.ArraySize
		if count < 1 {
			count = 1
		}
		out = append(out, registry.Field{Name: f.Name, TypeName: f.Type.Name, Count: count})
	}
	return out
}

// fieldIndexStrings builds the three CSV constructor attributes spec
// §4.4 step 3 names: _index_names, _index_types, _index. Each entry is
// comma-terminated, matching scenario B's literal `"_a,"`.
func fieldIndexStrings(fields []*ast.StructField) (names, types, index string) {
	var n, t, i strings.Builder
	for _, f := range fields {
		rn := Rectify(f.Name)
		rt := Rectify(f.Type.Name)
		fmt.Fprintf(&n, "%s,", rn)
		fmt.Fprintf(&t, "%s,", rt)
		fmt.Fprintf(&i, "%s:%s,", rn, rt)
	}
	return n.String(), t.String(), i.String()
}

// fieldDecl renders one struct field per spec §4.4's type-mapping rules:
// fixed array, dynamic vector, bitfield, or plain scalar/struct field.
func fieldDecl(f *ast.StructField) string {
	rt := Rectify(f.Type.Name)
	rn := Rectify(f.Name)
	switch {
	case f.Type.BitWidth > 0:
		return fmt.Sprintf("%s %s : %d;", rt, rn, f.Type.BitWidth)
	case f.Type.ArraySize == ast.DynamicSize:
		return fmt.Sprintf("std::vector<%s> %s;", rt, rn)
	case f.Type.ArraySize > ast.ScalarSize:
		return fmt.Sprintf("%s %s[%d];", rt, rn, f.Type.ArraySize)
	default:
		if f.DefaultSrc != "" {
			return fmt.Sprintf("%s %s = %s;", rt, rn, strings.TrimSpace(f.DefaultSrc))
		}
		return fmt.Sprintf("%s %s;", rt, rn)
	}
}

func (g *Generator) emitStructMethod(b *strings.Builder, ctx context, m *ast.StructMethod) {
	sig := fmt.Sprintf("%s %s(%s)", Rectify(m.ReturnType.Name), Rectify(m.Name), paramList(m.Params))
	g.emitFunctionLike(b, ctx, sig, m.ReturnType, m.Params, m.Body)
}

func (g *Generator) emitFunctionDefinition(b *strings.Builder, ctx context, v *ast.FunctionDefinition, out *UnitOutput) {
	if v.Name == "main" && len(ctx.ns) == 0 {
		if !g.reg.ClaimMain() {
			g.sink.Add(diag.New(diag.Fatal, "codegen: more than one user main observed in this job", v.Pos(), g.unixTS))
			return
		}
		out.HasMain = true
		out.MainRectified = Rectify(v.Name)
	}
	sig := fmt.Sprintf("%s %s(%s)", Rectify(v.ReturnType.Name), Rectify(v.Name), paramList(v.Params))
	g.emitFunctionLike(b, ctx, sig, v.ReturnType, v.Params, v.Body)
}

// emitFunctionLike implements spec §4.4's function-emission rule shared
// by free functions and struct methods: a void return is rendered
// noreturn, with an infinite empty loop appended after the body so the
// function never falls off the end (spec §8 testable property 7).
func (g *Generator) emitFunctionLike(b *strings.Builder, ctx context, signature string, ret ast.TypeRef, params []*ast.FunctionParameter, body *ast.Block) {
	noreturn := ret.Name == "void"
	if noreturn {
		fmt.Fprintf(b, "%s[[noreturn]] %s {\n", ctx.pad(), signature)
	} else {
		fmt.Fprintf(b, "%s%s {\n", ctx.pad(), signature)
	}
	inner := ctx.indented()
	if body != nil {
		for _, stmt := range body.Children {
			g.emitStatement(b, inner, stmt)
		}
	}
	if noreturn {
		fmt.Fprintf(b, "%sfor (;;) {}\n", inner.pad())
	}
	fmt.Fprintf(b, "%s}\n", ctx.pad())
}

func paramList(params []*ast.FunctionParameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		t := Rectify(p.Type.Name)
		ref := ""
		if p.IsReference || isUserType(p.Type.Name) {
			ref = "&"
		}
		constQual := ""
		if p.IsConst {
			constQual = "const "
		}
		decl := fmt.Sprintf("%s%s%s %s", constQual, t, ref, Rectify(p.Name))
		if p.Default != nil {
			decl += " = " + exprText(p.Default)
		}
		parts[i] = decl
	}
	return strings.Join(parts, ", ")
}

// isUserType is a conservative heuristic: anything not in the fixed
// scalar-type set is treated as a user struct/class name, which paramList
// passes by reference. paramList adds const only to parameters declared
// const; a user-type parameter is not made const by default.
func isUserType(name string) bool {
	for _, s := range ScalarTypes {
		if s == name {
			return false
		}
	}
	return name != ""
}

func (g *Generator) emitClass(b *strings.Builder, ctx context, v *ast.ClassDeclaration) {
	fmt.Fprintf(b, "%sclass %s {\n", ctx.pad(), Rectify(v.Name))
	inner := ctx.indented()
	for _, vis := range []ast.Visibility{ast.Public, ast.Protected, ast.Private} {
		var members []*ast.ClassMemberDeclaration
		var methods []*ast.ClassMethodDeclaration
		for _, m := range v.Members {
			if m.Visibility == vis {
				members = append(members, m)
			}
		}
		for _, m := range v.Methods {
			if m.Visibility == vis {
				methods = append(methods, m)
			}
		}
		if len(members) == 0 && len(methods) == 0 {
			continue
		}
		fmt.Fprintf(b, "%s%s:\n", ctx.pad(), vis)
		for _, m := range members {
			fmt.Fprintf(b, "%s%s %s;\n", inner.pad(), Rectify(m.Type.Name), Rectify(m.Name))
		}
		for _, m := range methods {
			fmt.Fprintf(b, "%s%s %s(%s);\n", inner.pad(), Rectify(m.ReturnType.Name), Rectify(m.Name), paramList(m.Params))
		}
	}
	fmt.Fprintf(b, "%s};\n", ctx.pad())
}

func (g *Generator) emitEnum(b *strings.Builder, ctx context, v *ast.EnumDeclaration) {
	fmt.Fprintf(b, "%senum class %s {\n", ctx.pad(), Rectify(v.Name))
	inner := ctx.indented()
	for _, it := range v.Items {
		if it.Value != nil {
			fmt.Fprintf(b, "%s%s = %s,\n", inner.pad(), Rectify(it.Name), exprText(it.Value))
		} else {
			fmt.Fprintf(b, "%s%s,\n", inner.pad(), Rectify(it.Name))
		}
	}
	fmt.Fprintf(b, "%s};\n", ctx.pad())
}

func (g *Generator) emitGlobal(b *strings.Builder, ctx context, qualifier, name string, typ ast.TypeRef, init ast.Expr) {
	typeName := typ.Name
	if typeName == "" {
		typeName = "auto"
	} else {
		typeName = Rectify(typeName)
	}
	if init != nil {
		fmt.Fprintf(b, "%s%s%s %s = %s;\n", ctx.pad(), qualifier, typeName, Rectify(name), exprText(init))
		return
	}
	fmt.Fprintf(b, "%s%s%s %s;\n", ctx.pad(), qualifier, typeName, Rectify(name))
}

func (g *Generator) emitStatement(b *strings.Builder, ctx context, n ast.Node) {
	switch v := n.(type) {
	case *ast.ReturnStatement:
		if v.Value == nil {
			fmt.Fprintf(b, "%sreturn;\n", ctx.pad())
			return
		}
		fmt.Fprintf(b, "%sreturn %s;\n", ctx.pad(), exprText(v.Value))
	case *ast.Block:
		if !v.RenderBraces {
			for _, c := range v.Children {
				g.emitStatement(b, ctx, c)
			}
			return
		}
		fmt.Fprintf(b, "%s{\n", ctx.pad())
		inner := ctx.indented()
		for _, c := range v.Children {
			g.emitStatement(b, inner, c)
		}
		fmt.Fprintf(b, "%s}\n", ctx.pad())
	case *ast.RawNode:
		fmt.Fprintf(b, "%s%s\n", ctx.pad(), v.Text)
	case ast.Expr:
		fmt.Fprintf(b, "%s%s;\n", ctx.pad(), exprText(v))
	}
}

// exprText renders an expression subtree as target source text. This is
// the only place expression nodes are turned back into text, keeping the
// generator's string formatting centralized and deterministic (spec §9,
// "keep it string-pure").
func exprText(e ast.Expr) string {
	switch v := e.(type) {
	case *ast.BinaryExpression:
		if v.Op == "." {
			return exprText(v.Left) + "." + exprText(v.Right)
		}
		return fmt.Sprintf("(%s %s %s)", exprText(v.Left), v.Op, exprText(v.Right))
	case *ast.UnaryExpression:
		if strings.HasPrefix(v.Op, "post") {
			return exprText(v.Operand) + strings.TrimPrefix(v.Op, "post")
		}
		return v.Op + exprText(v.Operand)
	case *ast.CastExpression:
		return fmt.Sprintf("(%s)(%s)", Rectify(v.Type.Name), exprText(v.Operand))
	case *ast.CallExpression:
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = exprText(a)
		}
		return fmt.Sprintf("%s(%s)", exprText(v.Callee), strings.Join(args, ", "))
	case *ast.NullExpression:
		return "nullptr"
	case *ast.IdentExpr:
		return Rectify(v.Name)
	case *ast.LiteralExpression:
		return literalText(v)
	default:
		return ""
	}
}

func literalText(v *ast.LiteralExpression) string {
	switch v.LitKind {
	case ast.LiteralString:
		return strconv.Quote(v.Str)
	case ast.LiteralChar:
		return "'" + string(rune(v.Char)) + "'"
	case ast.LiteralInteger:
		return strconv.FormatUint(v.Integer, 10)
	case ast.LiteralFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case ast.LiteralBoolean:
		if v.Bool {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}
