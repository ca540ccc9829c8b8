package parser

import (
	"github.com/jlangtools/jcc/pkg/ast"
	"github.com/jlangtools/jcc/pkg/token"
)

func (p *parser) parseNamespace() (ast.Node, bool) {
	pos := p.cur().Pos
	p.advance() // 'namespace'
	name, ok := p.expectIdentifier()
	if !ok {
		return nil, false
	}
	if p.atPunct(";") {
		p.advance()
		return ast.NewSubsystemDeclaration(pos, name, nil), true
	}
	if !p.expectPunct("{") {
		return nil, false
	}
	p.nsStack = append(p.nsStack, name)
	var body []ast.Node
	for !p.atPunct("}") && !p.atEOF() {
		before := p.pos
		node, itemOK := p.parseTopLevel()
		if node != nil {
			body = append(body, node)
		}
		if !itemOK {
			p.recover()
		}
		if p.pos == before {
			p.advance()
		}
	}
	p.nsStack = p.nsStack[:len(p.nsStack)-1]
	if !p.expectPunct("}") {
		return nil, false
	}
	return ast.NewSubsystemDefinition(pos, name, body), true
}

func (p *parser) parseTypeDeclaration() (ast.Node, bool) {
	pos := p.cur().Pos
	p.advance() // 'typedef'
	underlying, ok := p.parseTypeRef()
	if !ok {
		return nil, false
	}
	name, ok := p.expectIdentifier()
	if !ok {
		return nil, false
	}
	if !p.expectPunct(";") {
		return nil, false
	}
	return ast.NewTypeDeclaration(pos, name, underlying), true
}

// parseLeadingAttributes consumes a run of `#[KEY "VALUE"]` directives
// (spec §6), which the lexer produces as plain Operator/Punctuator/
// Identifier/StringLiteral tokens.
func (p *parser) parseLeadingAttributes() ([]ast.Attribute, bool) {
	var attrs []ast.Attribute
	for p.atOperator("#") {
		p.advance()
		if !p.expectPunct("[") {
			return attrs, false
		}
		key, ok := p.expectIdentifier()
		if !ok {
			return attrs, false
		}
		if p.cur().Kind != token.StringLiteral {
			p.errorf(SyntaxError, "expected string value in #[%s] directive", key)
			return attrs, false
		}
		value := string(p.advance().StrValue)
		if !p.expectPunct("]") {
			return attrs, false
		}
		attrs = append(attrs, ast.Attribute{Key: key, Value: value})
	}
	return attrs, true
}

func (p *parser) parseStruct() (ast.Node, bool) {
	pos := p.cur().Pos
	p.advance() // 'struct'
	name, ok := p.expectIdentifier()
	if !ok {
		return nil, false
	}
	if p.atPunct(";") {
		p.advance()
		return ast.NewStructDeclaration(pos, name), true
	}
	if !p.expectPunct("{") {
		return nil, false
	}

	var fields []*ast.StructField
	var methods []*ast.StructMethod
	var structAttrs []*ast.StructAttribute
	packed := false
	leading := true

	for !p.atPunct("}") && !p.atEOF() {
		attrs, attrsOK := p.parseLeadingAttributes()
		if !attrsOK {
			p.recover()
			continue
		}
		if leading {
			// A leading #[packed ...] always belongs to the struct; other
			// leading attributes do too when no member follows them, and
			// otherwise attach to the first member.
			standalone := p.atPunct("}") || !p.atIdentifier() && !isTypeStart(p)
			var memberAttrs []ast.Attribute
			for _, a := range attrs {
				if !standalone && a.Key != "packed" {
					memberAttrs = append(memberAttrs, a)
					continue
				}
				structAttrs = append(structAttrs, ast.NewStructAttribute(pos, a.Key, a.Value))
				if a.Key == "packed" && a.Value == "true" {
					packed = true
				}
			}
			if standalone {
				continue
			}
			attrs = memberAttrs
		}
		leading = false

		memberType, typeOK := p.parseTypeRef()
		if !typeOK {
			p.recover()
			continue
		}
		memberPos := p.cur().Pos
		memberName, nameOK := p.expectIdentifier()
		if !nameOK {
			p.recover()
			continue
		}

		if p.atPunct("(") {
			params, paramsOK := p.parseParameterList()
			if !paramsOK {
				p.recover()
				continue
			}
			body, bodyOK := p.parseBlock()
			if !bodyOK {
				p.recover()
				continue
			}
			methods = append(methods, ast.NewStructMethod(memberPos, memberName, params, memberType, body, ast.Public))
			continue
		}

		field, fieldOK := p.finishStructField(memberName, memberType, attrs)
		if !fieldOK {
			p.recover()
			continue
		}
		fields = append(fields, field)
	}

	if !p.expectPunct("}") {
		return nil, false
	}
	if p.atPunct(";") {
		p.advance()
	}
	return ast.NewStructDefinition(pos, name, packed, fields, methods, structAttrs), true
}

// finishStructField parses the array/bitfield/default-value tail of a
// struct field once its type and name are known (spec §3, §4.3).
func (p *parser) finishStructField(name string, typ ast.TypeRef, attrs []ast.Attribute) (*ast.StructField, bool) {
	fieldPos := p.cur().Pos
	if p.atPunct("[") {
		p.advance()
		if p.atPunct("]") {
			typ.ArraySize = ast.DynamicSize
		} else {
			lit := p.cur()
			if lit.Kind != token.IntegerLiteral {
				p.errorf(SyntaxError, "expected array size or ']'")
				return nil, false
			}
			p.advance()
			typ.ArraySize = int(lit.IntValue)
		}
		if !p.expectPunct("]") {
			return nil, false
		}
	}
	if p.atPunct(":") {
		p.advance()
		lit := p.cur()
		if lit.Kind != token.IntegerLiteral {
			p.errorf(SyntaxError, "expected bitfield width after ':'")
			return nil, false
		}
		p.advance()
		typ.BitWidth = int(lit.IntValue)
	}
	defaultSrc := ""
	if p.atOperator("=") {
		p.advance()
		defaultSrc = p.consumeRawUntilSemicolon()
	}
	if !p.expectPunct(";") {
		return nil, false
	}
	return ast.NewStructField(fieldPos, name, typ, defaultSrc, attrs), true
}

// consumeRawUntilSemicolon captures the literal source text of a
// default-value expression up to (not including) the terminating ';'.
// StructField stores its default as raw text rather than a parsed
// Expression subtree (spec §3), unlike FunctionParameter defaults.
func (p *parser) consumeRawUntilSemicolon() string {
	text := ""
	for !p.atEOF() && !p.atPunct(";") {
		text += tokenText(p.advance()) + " "
	}
	return text
}

func (p *parser) parseUnion() (ast.Node, bool) {
	pos := p.cur().Pos
	p.advance() // 'union'
	name, ok := p.expectIdentifier()
	if !ok {
		return nil, false
	}
	if p.atPunct(";") {
		p.advance()
		return ast.NewUnionDeclaration(pos, name, nil), true
	}
	if !p.expectPunct("{") {
		return nil, false
	}
	var fields []*ast.UnionField
	for !p.atPunct("}") && !p.atEOF() {
		typ, typeOK := p.parseTypeRef()
		if !typeOK {
			p.recover()
			continue
		}
		fieldPos := p.cur().Pos
		name, nameOK := p.expectIdentifier()
		if !nameOK {
			p.recover()
			continue
		}
		if !p.expectPunct(";") {
			p.recover()
			continue
		}
		fields = append(fields, ast.NewUnionField(fieldPos, name, typ))
	}
	if !p.expectPunct("}") {
		return nil, false
	}
	if p.atPunct(";") {
		p.advance()
	}
	return ast.NewUnionDeclaration(pos, name, fields), true
}

func (p *parser) parseEnum() (ast.Node, bool) {
	pos := p.cur().Pos
	p.advance() // 'enum'
	name, ok := p.expectIdentifier()
	if !ok {
		return nil, false
	}
	if p.atPunct(";") {
		p.advance()
		return ast.NewEnumDeclaration(pos, name, nil), true
	}
	if !p.expectPunct("{") {
		return nil, false
	}
	var items []*ast.EnumItem
	for !p.atPunct("}") && !p.atEOF() {
		itemPos := p.cur().Pos
		itemName, nameOK := p.expectIdentifier()
		if !nameOK {
			p.recover()
			continue
		}
		var value ast.Expr
		if p.atOperator("=") {
			p.advance()
			value, ok = p.parseExpr(0)
			if !ok {
				p.recover()
				continue
			}
		}
		items = append(items, ast.NewEnumItem(itemPos, itemName, value))
		if p.atPunct(",") {
			p.advance()
		}
	}
	if !p.expectPunct("}") {
		return nil, false
	}
	if p.atPunct(";") {
		p.advance()
	}
	return ast.NewEnumDeclaration(pos, name, items), true
}

func (p *parser) parseVisibility() ast.Visibility {
	switch {
	case p.atKeyword("public"):
		p.advance()
		return ast.Public
	case p.atKeyword("private"):
		p.advance()
		return ast.Private
	case p.atKeyword("protected"):
		p.advance()
		return ast.Protected
	default:
		return -1 // sentinel: "not specified"
	}
}

func (p *parser) parseClass() (ast.Node, bool) {
	pos := p.cur().Pos
	p.advance() // 'class'
	name, ok := p.expectIdentifier()
	if !ok {
		return nil, false
	}
	if p.atPunct(";") {
		p.advance()
		return ast.NewClassDeclaration(pos, name, nil, nil), true
	}
	if !p.expectPunct("{") {
		return nil, false
	}
	var members []*ast.ClassMemberDeclaration
	var methods []*ast.ClassMethodDeclaration
	for !p.atPunct("}") && !p.atEOF() {
		vis := p.parseVisibility()
		typ, typeOK := p.parseTypeRef()
		if !typeOK {
			p.recover()
			continue
		}
		memberPos := p.cur().Pos
		memberName, nameOK := p.expectIdentifier()
		if !nameOK {
			p.recover()
			continue
		}
		if p.atPunct("(") {
			params, paramsOK := p.parseParameterList()
			if !paramsOK {
				p.recover()
				continue
			}
			methodVis := vis
			if methodVis == -1 {
				methodVis = ast.Public // spec §4.3: methods default to Public
			}
			if p.atPunct("{") {
				body, bodyOK := p.parseBlock()
				if !bodyOK {
					p.recover()
					continue
				}
				methods = append(methods, ast.NewClassMethodDeclaration(memberPos, memberName, params, typ, methodVis))
				_ = body // method body is recorded via StructMethod for struct members; class methods here are declared only, per spec §3 ("ClassMethodDeclaration").
			} else if p.expectPunct(";") {
				methods = append(methods, ast.NewClassMethodDeclaration(memberPos, memberName, params, typ, methodVis))
			} else {
				p.recover()
			}
			continue
		}
		memberVis := vis
		if memberVis == -1 {
			memberVis = ast.Private // spec §4.3: members default to Private
		}
		if !p.expectPunct(";") {
			p.recover()
			continue
		}
		members = append(members, ast.NewClassMemberDeclaration(memberPos, memberName, typ, memberVis))
	}
	if !p.expectPunct("}") {
		return nil, false
	}
	if p.atPunct(";") {
		p.advance()
	}
	return ast.NewClassDeclaration(pos, name, members, methods), true
}

func (p *parser) parseExternal() (ast.Node, bool) {
	pos := p.cur().Pos
	p.advance() // 'extern'
	typ, ok := p.parseTypeRef()
	if !ok {
		return nil, false
	}
	name, ok := p.expectIdentifier()
	if !ok {
		return nil, false
	}
	if !p.expectPunct(";") {
		return nil, false
	}
	return ast.NewExternalDeclaration(pos, name, typ), true
}

func (p *parser) parseExport() (ast.Node, bool) {
	pos := p.cur().Pos
	p.advance() // 'export'
	target, ok := p.expectIdentifier()
	if !ok {
		return nil, false
	}
	if !p.expectPunct(";") {
		return nil, false
	}
	return ast.NewExportStatement(pos, target), true
}

func (p *parser) parseConstDeclaration() (ast.Node, bool) {
	pos := p.cur().Pos
	p.advance() // 'const'
	typ, ok := p.parseTypeRef()
	if !ok {
		return nil, false
	}
	name, ok := p.expectIdentifier()
	if !ok {
		return nil, false
	}
	var init ast.Expr
	if p.atOperator("=") {
		p.advance()
		init, ok = p.parseExpr(0)
		if !ok {
			return nil, false
		}
	}
	if !p.expectPunct(";") {
		return nil, false
	}
	return ast.NewConstDeclaration(pos, name, typ, init), true
}

func (p *parser) parseVarDeclaration() (ast.Node, bool) {
	pos := p.cur().Pos
	p.advance() // 'global'
	typ, ok := p.parseTypeRef()
	if !ok {
		return nil, false
	}
	name, ok := p.expectIdentifier()
	if !ok {
		return nil, false
	}
	var init ast.Expr
	if p.atOperator("=") {
		p.advance()
		init, ok = p.parseExpr(0)
		if !ok {
			return nil, false
		}
	}
	if !p.expectPunct(";") {
		return nil, false
	}
	return ast.NewVarDeclaration(pos, name, typ, init), true
}

func (p *parser) parseLetDeclaration() (ast.Node, bool) {
	pos := p.cur().Pos
	p.advance() // 'infer'
	name, ok := p.expectIdentifier()
	if !ok {
		return nil, false
	}
	if p.atOperator("=") {
		p.advance()
	} else {
		p.errorf(UnexpectedTokenError, "infer declaration requires an initializer")
		return nil, false
	}
	init, ok := p.parseExpr(0)
	if !ok {
		return nil, false
	}
	if !p.expectPunct(";") {
		return nil, false
	}
	return ast.NewLetDeclaration(pos, name, ast.TypeRef{}, init), true
}

// parseFunctionOrFallback parses `<Type> <Name> ( <params> ) ;|{...}`.
// Anything else at top level is not describable by the grammar the spec
// gives us and is preserved verbatim as a RawNode.
func (p *parser) parseFunctionOrFallback() (ast.Node, bool) {
	if !isTypeStart(p) {
		return p.parseRawDirectiveStatement()
	}
	pos := p.cur().Pos
	retType, ok := p.parseTypeRef()
	if !ok {
		return nil, false
	}
	name, ok := p.expectIdentifier()
	if !ok {
		return nil, false
	}
	if !p.atPunct("(") {
		p.errorf(SyntaxError, "expected '(' after function name %q", name)
		return nil, false
	}
	params, ok := p.parseParameterList()
	if !ok {
		return nil, false
	}
	if p.atPunct(";") {
		p.advance()
		return ast.NewFunctionDeclaration(pos, name, params, retType), true
	}
	body, ok := p.parseBlock()
	if !ok {
		return nil, false
	}
	return ast.NewFunctionDefinition(pos, name, params, retType, body), true
}

func (p *parser) parseParameterList() ([]*ast.FunctionParameter, bool) {
	if !p.expectPunct("(") {
		return nil, false
	}
	var params []*ast.FunctionParameter
	for !p.atPunct(")") && !p.atEOF() {
		if len(params) > 0 {
			if !p.expectPunct(",") {
				return nil, false
			}
		}
		paramPos := p.cur().Pos
		isConst := false
		if p.atKeyword("const") {
			isConst = true
			p.advance()
		}
		typ, ok := p.parseTypeRef()
		if !ok {
			return nil, false
		}
		isRef := false
		if p.atOperator("&") {
			isRef = true
			p.advance()
		}
		name, ok := p.expectIdentifier()
		if !ok {
			return nil, false
		}
		var def ast.Expr
		if p.atOperator("=") {
			p.advance()
			def, ok = p.parseExpr(0)
			if !ok {
				return nil, false
			}
		}
		params = append(params, ast.NewFunctionParameter(paramPos, name, typ, def, isConst, isRef))
	}
	if !p.expectPunct(")") {
		return nil, false
	}
	return params, true
}

func (p *parser) parseBlock() (*ast.Block, bool) {
	pos := p.cur().Pos
	if !p.expectPunct("{") {
		return nil, false
	}
	var children []ast.Node
	for !p.atPunct("}") && !p.atEOF() {
		before := p.pos
		stmt, ok := p.parseStatement()
		if stmt != nil {
			children = append(children, stmt)
		}
		if !ok {
			p.recover()
		}
		if p.pos == before {
			p.advance()
		}
	}
	if !p.expectPunct("}") {
		return nil, false
	}
	return ast.NewBlock(pos, children, true), true
}

func (p *parser) parseStatement() (ast.Node, bool) {
	switch {
	case p.atKeyword("return"):
		return p.parseReturnStatement()
	case p.atPunct("{"):
		return p.parseBlock()
	default:
		pos := p.cur().Pos
		expr, ok := p.parseExpr(0)
		if !ok {
			return nil, false
		}
		if !p.expectPunct(";") {
			return nil, false
		}
		_ = pos
		return expr, true
	}
}

func (p *parser) parseReturnStatement() (ast.Node, bool) {
	pos := p.cur().Pos
	p.advance() // 'return'
	if p.atPunct(";") {
		p.advance()
		return ast.NewReturnStatement(pos, nil), true
	}
	value, ok := p.parseExpr(0)
	if !ok {
		return nil, false
	}
	if !p.expectPunct(";") {
		return nil, false
	}
	return ast.NewReturnStatement(pos, value), true
}
