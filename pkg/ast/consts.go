package ast

// NodeKind tags the concrete type behind a Node, Expr, or Stmt value. The
// set is closed and grouped into the four node families of spec §3.
type NodeKind int

const (
	// Declarations
	KindTypeDeclaration NodeKind = iota
	KindStructDeclaration
	KindUnionDeclaration
	KindEnumDeclaration
	KindFunctionDeclaration
	KindSubsystemDeclaration
	KindClassDeclaration
	KindExternalDeclaration
	KindFunctionParameter
	KindStructField
	KindUnionField
	KindEnumItem
	KindClassMemberDeclaration
	KindClassMethodDeclaration
	KindLetDeclaration
	KindVarDeclaration
	KindConstDeclaration

	// Definitions
	KindSubsystemDefinition
	KindStructDefinition
	KindFunctionDefinition
	KindStructMethod
	KindStructAttribute

	// Expressions
	KindBinaryExpression
	KindUnaryExpression
	KindCastExpression
	KindCallExpression
	KindNullExpression
	KindLiteralExpression

	// Statements
	KindReturnStatement
	KindExportStatement
	KindBlock
	KindRawNode
)

func (k NodeKind) String() string {
	names := [...]string{
		"TypeDeclaration", "StructDeclaration", "UnionDeclaration", "EnumDeclaration",
		"FunctionDeclaration", "SubsystemDeclaration", "ClassDeclaration", "ExternalDeclaration",
		"FunctionParameter", "StructField", "UnionField", "EnumItem",
		"ClassMemberDeclaration", "ClassMethodDeclaration", "LetDeclaration", "VarDeclaration",
		"ConstDeclaration", "SubsystemDefinition", "StructDefinition", "FunctionDefinition",
		"StructMethod", "StructAttribute", "BinaryExpression", "UnaryExpression",
		"CastExpression", "CallExpression", "NullExpression", "LiteralExpression",
		"ReturnStatement", "ExportStatement", "Block", "RawNode",
	}
	if int(k) < 0 || int(k) >= len(names) {
		return "Unknown"
	}
	return names[k]
}

// Visibility is the tri-state visibility modifier on class members and
// methods (spec §3). Per spec §4.3, absent a modifier, members default
// to Private and methods default to Public.
type Visibility int

const (
	Private Visibility = iota
	Protected
	Public
)

func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Protected:
		return "protected"
	default:
		return "private"
	}
}

// ArraySize tri-state encoding shared by StructField and
// FunctionParameter (spec §3): 0 means scalar, DynamicSize is the
// sentinel for "[]" (an ordered-sequence-of-T), any other positive value
// is a fixed array length.
const (
	ScalarSize  = 0
	DynamicSize = -1
)

// LiteralKind selects which field of LiteralExpression is populated.
type LiteralKind int

const (
	LiteralString LiteralKind = iota
	LiteralChar
	LiteralInteger
	LiteralFloat
	LiteralBoolean
)
