package parser

import (
	"github.com/jlangtools/jcc/pkg/ast"
	"github.com/jlangtools/jcc/pkg/token"
)

// binaryPrecedence gives each binary operator's binding power (spec §6's
// Operators table, ordered the way a C-family grammar conventionally
// groups them: assignment loosest, member access tightest). Operators
// absent from this table never parse as infix ("," and "@" are left to
// their call sites — argument lists and attribute syntax — rather than
// general expressions).
var binaryPrecedence = map[string]int{
	"=": 1, "+=": 1, "-=": 1, "*=": 1, "/=": 1, "%=": 1,
	"|=": 1, "&=": 1, "^=": 1, "<<=": 1, ">>=": 1, ">>>=": 1,
	"^^=": 1, "||=": 1, "&&=": 1,
	"??": 2,
	"||": 3, "^^": 3,
	"&&": 4,
	"|":  5,
	"^":  6,
	"&":  7,
	"==": 8, "!=": 8,
	"<": 9, "<=": 9, ">": 9, ">=": 9,
	"<<": 10, ">>": 10,
	"+": 11, "-": 11,
	"*": 12, "/": 12, "%": 12, "//": 12,
}

// rightAssoc holds the operators that group right-to-left: assignment.
var rightAssoc = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"|=": true, "&=": true, "^=": true, "<<=": true, ">>=": true, ">>>=": true,
	"^^=": true, "||=": true, "&&=": true,
}

// parseExpr parses an expression via precedence climbing, stopping at
// the first binary operator whose precedence is below minBP. Function
// parameter default values and return-statement operands both go
// through this so they are re-emittable as proper subtrees rather than
// raw text (spec §4.3).
func (p *parser) parseExpr(minBP int) (ast.Expr, bool) {
	left, ok := p.parseUnary()
	if !ok {
		return nil, false
	}
	for {
		t := p.cur()
		if t.Kind != token.Operator {
			break
		}
		bp, known := binaryPrecedence[t.Text]
		if !known || bp < minBP {
			break
		}
		op := t.Text
		pos := t.Pos
		p.advance()
		nextMin := bp + 1
		if rightAssoc[op] {
			nextMin = bp
		}
		right, ok := p.parseExpr(nextMin)
		if !ok {
			return nil, false
		}
		left = ast.NewBinaryExpression(pos, op, left, right)
	}
	return left, true
}

var unaryPrefixOps = map[string]bool{
	"!": true, "~": true, "-": true, "+": true, "++": true, "--": true,
	"new": true, "delete": true,
}

func (p *parser) parseUnary() (ast.Expr, bool) {
	t := p.cur()
	if t.Kind == token.Operator && unaryPrefixOps[t.Text] {
		op := t.Text
		pos := t.Pos
		p.advance()
		operand, ok := p.parseUnary()
		if !ok {
			return nil, false
		}
		return ast.NewUnaryExpression(pos, op, operand), true
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (ast.Expr, bool) {
	expr, ok := p.parsePrimary()
	if !ok {
		return nil, false
	}
	for {
		switch {
		case p.atPunct("("):
			args, ok := p.parseArgList()
			if !ok {
				return nil, false
			}
			expr = ast.NewCallExpression(expr.Pos(), expr, args)
		case p.atOperator("."):
			pos := p.cur().Pos
			p.advance()
			name, ok := p.expectIdentifier()
			if !ok {
				return nil, false
			}
			expr = ast.NewBinaryExpression(pos, ".", expr, ast.NewIdentExpr(pos, name))
		case p.atOperator("++") || p.atOperator("--"):
			op := "post" + p.cur().Text
			pos := p.cur().Pos
			p.advance()
			expr = ast.NewUnaryExpression(pos, op, expr)
		default:
			return expr, true
		}
	}
}

func (p *parser) parseArgList() ([]ast.Expr, bool) {
	if !p.expectPunct("(") {
		return nil, false
	}
	var args []ast.Expr
	if !p.atPunct(")") {
		for {
			arg, ok := p.parseExpr(1)
			if !ok {
				return nil, false
			}
			args = append(args, arg)
			if p.atPunct(",") {
				p.advance()
				continue
			}
			break
		}
	}
	if !p.expectPunct(")") {
		return nil, false
	}
	return args, true
}

// parsePrimary parses literals, identifiers, the cast(Type, expr) form
// (spec is silent on cast syntax; this form avoids the parenthesized-
// expression-vs-cast ambiguity a bare `(Type) expr` would introduce in a
// recursive-descent parser with no symbol table), and parenthesized
// sub-expressions.
func (p *parser) parsePrimary() (ast.Expr, bool) {
	t := p.cur()
	switch t.Kind {
	case token.IntegerLiteral:
		p.advance()
		return ast.NewIntegerLiteral(t.Pos, t.IntValue, t.IntRadix), true
	case token.FloatLiteral:
		p.advance()
		return ast.NewFloatLiteral(t.Pos, t.FloatValue), true
	case token.StringLiteral:
		p.advance()
		if t.StrSingleQuoted && len(t.StrValue) == 1 {
			return ast.NewCharLiteral(t.Pos, t.StrValue[0]), true
		}
		return ast.NewStringLiteral(t.Pos, string(t.StrValue)), true
	case token.Identifier:
		if t.Ident == "cast" {
			return p.parseCast()
		}
		if t.Ident == "null" {
			p.advance()
			return ast.NewNullExpression(t.Pos), true
		}
		p.advance()
		return ast.NewIdentExpr(t.Pos, t.Ident), true
	case token.Punctuator:
		if t.Text == "(" {
			p.advance()
			inner, ok := p.parseExpr(1)
			if !ok {
				return nil, false
			}
			if !p.expectPunct(")") {
				return nil, false
			}
			return inner, true
		}
	}
	p.errorf(SyntaxError, "unexpected token %q in expression", t.Text)
	return nil, false
}

// parseCast handles cast(Type, expr).
func (p *parser) parseCast() (ast.Expr, bool) {
	pos := p.cur().Pos
	p.advance() // "cast"
	if !p.expectPunct("(") {
		return nil, false
	}
	typ, ok := p.parseTypeRef()
	if !ok {
		return nil, false
	}
	if !p.expectPunct(",") {
		return nil, false
	}
	operand, ok := p.parseExpr(1)
	if !ok {
		return nil, false
	}
	if !p.expectPunct(")") {
		return nil, false
	}
	return ast.NewCastExpression(pos, typ, operand), true
}
