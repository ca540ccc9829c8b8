package ast

import "github.com/jlangtools/jcc/pkg/token"

// Node is the common supertype of every declaration, definition,
// expression, and statement node (spec §3). Only types in this package
// can implement it — isNode is unexported — which is what makes the
// family sealed.
type Node interface {
	Kind() NodeKind
	Pos() token.Position
	isNode()
}

// Expr is a Node that produces a value.
type Expr interface {
	Node
	isExpr()
}

// Stmt is a Node that appears in statement position.
type Stmt interface {
	Node
	isStmt()
}

// base is embedded by every concrete node type and supplies Kind/Pos.
type base struct {
	kind NodeKind
	pos  token.Position
}

func (b base) Kind() NodeKind    { return b.kind }
func (b base) Pos() token.Position { return b.pos }
func (base) isNode()             {}

// TypeRef is the type-annotation form shared by struct fields, function
// parameters, and typedefs: a scalar type name plus the tri-state array
// encoding and optional bitfield width (spec §3, §4.4).
type TypeRef struct {
	Name      string // scalar J type name, or a user struct/class name
	ArraySize int    // ScalarSize, DynamicSize, or a fixed length > 0
	BitWidth  int    // 0 = not a bitfield
}

// Attribute is one `#[KEY "VALUE"]` block attached to a struct field.
type Attribute struct {
	Key   string
	Value string
}

// ---- Declarations ----------------------------------------------------

type TypeDeclaration struct {
	base
	Name       string
	Underlying TypeRef
}

func newBase(k NodeKind, p token.Position) base { return base{kind: k, pos: p} }

func NewTypeDeclaration(p token.Position, name string, underlying TypeRef) *TypeDeclaration {
	return &TypeDeclaration{base: newBase(KindTypeDeclaration, p), Name: name, Underlying: underlying}
}

type StructDeclaration struct {
	base
	Name string
}

func NewStructDeclaration(p token.Position, name string) *StructDeclaration {
	return &StructDeclaration{base: newBase(KindStructDeclaration, p), Name: name}
}

// UnionDeclaration doubles as both the forward declaration (`union Name;`,
// Fields nil) and the full declaration (`union Name { ... }`) — the
// grammar has no separate union-definition node kind (spec §3 lists only
// "UnionDeclaration (forward)").
type UnionDeclaration struct {
	base
	Name   string
	Fields []*UnionField
}

func NewUnionDeclaration(p token.Position, name string, fields []*UnionField) *UnionDeclaration {
	return &UnionDeclaration{base: newBase(KindUnionDeclaration, p), Name: name, Fields: fields}
}

type EnumDeclaration struct {
	base
	Name  string
	Items []*EnumItem
}

func NewEnumDeclaration(p token.Position, name string, items []*EnumItem) *EnumDeclaration {
	return &EnumDeclaration{base: newBase(KindEnumDeclaration, p), Name: name, Items: items}
}

type EnumItem struct {
	base
	Name  string
	Value Expr // nil if auto-assigned
}

func NewEnumItem(p token.Position, name string, value Expr) *EnumItem {
	return &EnumItem{base: newBase(KindEnumItem, p), Name: name, Value: value}
}

type FunctionDeclaration struct {
	base
	Name       string
	Params     []*FunctionParameter
	ReturnType TypeRef
}

func NewFunctionDeclaration(p token.Position, name string, params []*FunctionParameter, ret TypeRef) *FunctionDeclaration {
	return &FunctionDeclaration{base: newBase(KindFunctionDeclaration, p), Name: name, Params: params, ReturnType: ret}
}

// SubsystemDeclaration records a subsystem's name and the dependency list
// of other subsystems it names (spec Glossary: "Subsystem").
type SubsystemDeclaration struct {
	base
	Name    string
	Depends []string
}

func NewSubsystemDeclaration(p token.Position, name string, depends []string) *SubsystemDeclaration {
	return &SubsystemDeclaration{base: newBase(KindSubsystemDeclaration, p), Name: name, Depends: depends}
}

// ClassDeclaration carries its members and methods directly: like union,
// the grammar has no separate class-definition node kind.
type ClassDeclaration struct {
	base
	Name    string
	Members []*ClassMemberDeclaration
	Methods []*ClassMethodDeclaration
}

func NewClassDeclaration(p token.Position, name string, members []*ClassMemberDeclaration, methods []*ClassMethodDeclaration) *ClassDeclaration {
	return &ClassDeclaration{base: newBase(KindClassDeclaration, p), Name: name, Members: members, Methods: methods}
}

type ExternalDeclaration struct {
	base
	Name string
	Type TypeRef
}

func NewExternalDeclaration(p token.Position, name string, typ TypeRef) *ExternalDeclaration {
	return &ExternalDeclaration{base: newBase(KindExternalDeclaration, p), Name: name, Type: typ}
}

type FunctionParameter struct {
	base
	Name        string
	Type        TypeRef
	Default     Expr // nil if no default
	IsConst     bool
	IsReference bool
}

func NewFunctionParameter(p token.Position, name string, typ TypeRef, def Expr, isConst, isRef bool) *FunctionParameter {
	return &FunctionParameter{
		base: newBase(KindFunctionParameter, p), Name: name, Type: typ,
		Default: def, IsConst: isConst, IsReference: isRef,
	}
}

type StructField struct {
	base
	Name       string
	Type       TypeRef
	DefaultSrc string // raw source text of the default-value expression, or ""
	Attributes []Attribute
}

func NewStructField(p token.Position, name string, typ TypeRef, defaultSrc string, attrs []Attribute) *StructField {
	return &StructField{
		base: newBase(KindStructField, p), Name: name, Type: typ,
		DefaultSrc: defaultSrc, Attributes: attrs,
	}
}

type UnionField struct {
	base
	Name string
	Type TypeRef
}

func NewUnionField(p token.Position, name string, typ TypeRef) *UnionField {
	return &UnionField{base: newBase(KindUnionField, p), Name: name, Type: typ}
}

type ClassMemberDeclaration struct {
	base
	Name       string
	Type       TypeRef
	Visibility Visibility
}

func NewClassMemberDeclaration(p token.Position, name string, typ TypeRef, vis Visibility) *ClassMemberDeclaration {
	return &ClassMemberDeclaration{base: newBase(KindClassMemberDeclaration, p), Name: name, Type: typ, Visibility: vis}
}

type ClassMethodDeclaration struct {
	base
	Name       string
	Params     []*FunctionParameter
	ReturnType TypeRef
	Visibility Visibility
}

func NewClassMethodDeclaration(p token.Position, name string, params []*FunctionParameter, ret TypeRef, vis Visibility) *ClassMethodDeclaration {
	return &ClassMethodDeclaration{
		base: newBase(KindClassMethodDeclaration, p), Name: name,
		Params: params, ReturnType: ret, Visibility: vis,
	}
}

type LetDeclaration struct {
	base
	Name string
	Type TypeRef
	Init Expr
}

func NewLetDeclaration(p token.Position, name string, typ TypeRef, init Expr) *LetDeclaration {
	return &LetDeclaration{base: newBase(KindLetDeclaration, p), Name: name, Type: typ, Init: init}
}

type VarDeclaration struct {
	base
	Name string
	Type TypeRef
	Init Expr
}

func NewVarDeclaration(p token.Position, name string, typ TypeRef, init Expr) *VarDeclaration {
	return &VarDeclaration{base: newBase(KindVarDeclaration, p), Name: name, Type: typ, Init: init}
}

type ConstDeclaration struct {
	base
	Name string
	Type TypeRef
	Init Expr
}

func NewConstDeclaration(p token.Position, name string, typ TypeRef, init Expr) *ConstDeclaration {
	return &ConstDeclaration{base: newBase(KindConstDeclaration, p), Name: name, Type: typ, Init: init}
}

// ---- Definitions ------------------------------------------------------

// SubsystemDefinition is the namespace-like container (spec Glossary).
type SubsystemDefinition struct {
	base
	Name string
	Body []Node
}

func NewSubsystemDefinition(p token.Position, name string, body []Node) *SubsystemDefinition {
	return &SubsystemDefinition{base: newBase(KindSubsystemDefinition, p), Name: name, Body: body}
}

type StructDefinition struct {
	base
	Name       string
	Packed     bool
	Fields     []*StructField
	Methods    []*StructMethod
	Attributes []*StructAttribute
}

func NewStructDefinition(p token.Position, name string, packed bool, fields []*StructField, methods []*StructMethod, attrs []*StructAttribute) *StructDefinition {
	return &StructDefinition{
		base: newBase(KindStructDefinition, p), Name: name, Packed: packed,
		Fields: fields, Methods: methods, Attributes: attrs,
	}
}

type FunctionDefinition struct {
	base
	Name       string
	Params     []*FunctionParameter
	ReturnType TypeRef
	Body       *Block
}

func NewFunctionDefinition(p token.Position, name string, params []*FunctionParameter, ret TypeRef, body *Block) *FunctionDefinition {
	return &FunctionDefinition{
		base: newBase(KindFunctionDefinition, p), Name: name,
		Params: params, ReturnType: ret, Body: body,
	}
}

type StructMethod struct {
	base
	Name       string
	Params     []*FunctionParameter
	ReturnType TypeRef
	Body       *Block
	Visibility Visibility
}

func NewStructMethod(p token.Position, name string, params []*FunctionParameter, ret TypeRef, body *Block, vis Visibility) *StructMethod {
	return &StructMethod{
		base: newBase(KindStructMethod, p), Name: name,
		Params: params, ReturnType: ret, Body: body, Visibility: vis,
	}
}

// StructAttribute is a user `#[KEY "VALUE"]` block attached to the
// struct itself (as opposed to one of its fields).
type StructAttribute struct {
	base
	Key   string
	Value string
}

func NewStructAttribute(p token.Position, key, value string) *StructAttribute {
	return &StructAttribute{base: newBase(KindStructAttribute, p), Key: key, Value: value}
}

// ---- Expressions --------------------------------------------------------

type BinaryExpression struct {
	base
	Op    string
	Left  Expr
	Right Expr
}

func (*BinaryExpression) isExpr() {}

func NewBinaryExpression(p token.Position, op string, left, right Expr) *BinaryExpression {
	return &BinaryExpression{base: newBase(KindBinaryExpression, p), Op: op, Left: left, Right: right}
}

type UnaryExpression struct {
	base
	Op      string
	Operand Expr
}

func (*UnaryExpression) isExpr() {}

func NewUnaryExpression(p token.Position, op string, operand Expr) *UnaryExpression {
	return &UnaryExpression{base: newBase(KindUnaryExpression, p), Op: op, Operand: operand}
}

type CastExpression struct {
	base
	Type    TypeRef
	Operand Expr
}

func (*CastExpression) isExpr() {}

func NewCastExpression(p token.Position, typ TypeRef, operand Expr) *CastExpression {
	return &CastExpression{base: newBase(KindCastExpression, p), Type: typ, Operand: operand}
}

type CallExpression struct {
	base
	Callee Expr
	Args   []Expr
}

func (*CallExpression) isExpr() {}

func NewCallExpression(p token.Position, callee Expr, args []Expr) *CallExpression {
	return &CallExpression{base: newBase(KindCallExpression, p), Callee: callee, Args: args}
}

type NullExpression struct {
	base
}

func (*NullExpression) isExpr() {}

func NewNullExpression(p token.Position) *NullExpression {
	return &NullExpression{base: newBase(KindNullExpression, p)}
}

// LiteralExpression covers String/Char/Integer/Float/Boolean literals,
// selected by LitKind (spec §3: "LiteralExpression (+specializations)").
type LiteralExpression struct {
	base
	LitKind LiteralKind
	Str     string
	Char    byte
	Integer uint64
	IntBase token.Radix
	Float   float64
	Bool    bool
}

func (*LiteralExpression) isExpr() {}

func NewStringLiteral(p token.Position, s string) *LiteralExpression {
	return &LiteralExpression{base: newBase(KindLiteralExpression, p), LitKind: LiteralString, Str: s}
}

func NewCharLiteral(p token.Position, c byte) *LiteralExpression {
	return &LiteralExpression{base: newBase(KindLiteralExpression, p), LitKind: LiteralChar, Char: c}
}

func NewIntegerLiteral(p token.Position, v uint64, radix token.Radix) *LiteralExpression {
	return &LiteralExpression{base: newBase(KindLiteralExpression, p), LitKind: LiteralInteger, Integer: v, IntBase: radix}
}

func NewFloatLiteral(p token.Position, v float64) *LiteralExpression {
	return &LiteralExpression{base: newBase(KindLiteralExpression, p), LitKind: LiteralFloat, Float: v}
}

func NewBoolLiteral(p token.Position, v bool) *LiteralExpression {
	return &LiteralExpression{base: newBase(KindLiteralExpression, p), LitKind: LiteralBoolean, Bool: v}
}

// A few node kinds (identifiers used as expressions, for example) are
// represented as a bare LiteralExpression-like reference; the parser
// builds these via NewIdentExpr below, reusing CallExpression.Callee's Expr slot.
type IdentExpr struct {
	base
	Name string
}

func (*IdentExpr) isExpr() {}

func NewIdentExpr(p token.Position, name string) *IdentExpr {
	return &IdentExpr{base: newBase(KindLiteralExpression, p), Name: name}
}

// ---- Statements ---------------------------------------------------------

type ReturnStatement struct {
	base
	Value Expr // nil for a bare `return;`
}

func (*ReturnStatement) isStmt() {}

func NewReturnStatement(p token.Position, value Expr) *ReturnStatement {
	return &ReturnStatement{base: newBase(KindReturnStatement, p), Value: value}
}

type ExportStatement struct {
	base
	Target string
}

func (*ExportStatement) isStmt() {}

func NewExportStatement(p token.Position, target string) *ExportStatement {
	return &ExportStatement{base: newBase(KindExportStatement, p), Target: target}
}

// Block groups statements. RenderBraces=false means its contents are
// emitted inline into the enclosing scope (spec §3).
type Block struct {
	base
	Children     []Node
	RenderBraces bool
}

func (*Block) isStmt() {}

func NewBlock(p token.Position, children []Node, renderBraces bool) *Block {
	return &Block{base: newBase(KindBlock, p), Children: children, RenderBraces: renderBraces}
}

// RawNode is a pass-through target-source fragment (spec §3), used for
// using/namemap directives and for top-level statements that do not
// start with a type.
type RawNode struct {
	base
	Text string
}

func (*RawNode) isStmt() {}

func NewRawNode(p token.Position, text string) *RawNode {
	return &RawNode{base: newBase(KindRawNode, p), Text: text}
}

// File is the root of one compilation unit's tree: a sequence of
// top-level declarations and definitions (spec §4.3, "Top level accepts
// a sequence of...").
type File struct {
	Name string
	Body []Node
}
