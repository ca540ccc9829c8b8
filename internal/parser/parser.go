// Package parser implements the recursive-descent parser that turns a
// lexed token list into a pkg/ast tree (spec §4.3).
package parser

import (
	"github.com/jlangtools/jcc/pkg/ast"
	"github.com/jlangtools/jcc/pkg/diag"
	"github.com/jlangtools/jcc/pkg/token"
)

// Parse builds the tree for one compilation unit. Errors are reported
// non-fatally to sink and recovered to the next top-level boundary
// (spec §7); the returned error is always nil, and a token that nothing
// consumes is skipped so parsing always makes progress.
func Parse(file string, tokens *token.TokenList, sink *diag.Sink, unixTS int64) (*ast.File, error) {
	p := &parser{
		file:   file,
		toks:   tokens.Significant(),
		sink:   sink,
		unixTS: unixTS,
	}
	return p.parseFile(), nil
}

type parser struct {
	file    string
	toks    []token.Token
	pos     int
	sink    *diag.Sink
	unixTS  int64
	nsStack []string
}

func (p *parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[p.pos]
}

func (p *parser) atEOF() bool { return p.cur().Kind == token.EOF }

func (p *parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *parser) atPunct(text string) bool {
	t := p.cur()
	if text == "," && t.Kind == token.Operator && t.Text == "," {
		// The lexer tries operators before punctuators, so ',' always
		// arrives as an Operator token; list separators accept it here.
		return true
	}
	return t.Kind == token.Punctuator && t.Text == text
}

func (p *parser) atOperator(text string) bool {
	t := p.cur()
	return t.Kind == token.Operator && t.Text == text
}

func (p *parser) atKeyword(word string) bool {
	t := p.cur()
	return t.Kind == token.Keyword && t.Text == word
}

func (p *parser) atIdentifier() bool { return p.cur().Kind == token.Identifier }

// errorf records a non-fatal Error diagnostic at the current position.
func (p *parser) errorf(kind Kind, format string, args ...any) {
	msg := describe(kind, format, args...)
	p.sink.Add(diag.New(diag.Error, msg, p.cur().Pos, p.unixTS))
}

func (p *parser) expectPunct(text string) bool {
	if p.atPunct(text) {
		p.advance()
		return true
	}
	p.errorf(UnexpectedTokenError, "expected %q, got %q", text, p.cur().Text)
	return false
}

func (p *parser) expectKeyword(word string) bool {
	if p.atKeyword(word) {
		p.advance()
		return true
	}
	p.errorf(UnexpectedTokenError, "expected keyword %q", word)
	return false
}

func (p *parser) expectIdentifier() (string, bool) {
	if p.atIdentifier() {
		return p.advance().Ident, true
	}
	p.errorf(UnexpectedTokenError, "expected identifier, got %q", p.cur().Text)
	return "", false
}

// recover skips tokens until the next top-level boundary: a ';' or '}'
// at the nesting depth active when recovery began, or EOF (spec §7:
// "recovered... to the next top-level boundary").
func (p *parser) recover() {
	depth := 0
	for !p.atEOF() {
		switch {
		case p.atPunct("(") || p.atPunct("[") || p.atPunct("{"):
			depth++
			p.advance()
		case p.atPunct(")") || p.atPunct("]"):
			if depth > 0 {
				depth--
			}
			p.advance()
		case p.atPunct("}"):
			if depth == 0 {
				p.advance()
				return
			}
			depth--
			p.advance()
		case p.atPunct(";"):
			p.advance()
			if depth == 0 {
				return
			}
		default:
			p.advance()
		}
	}
}

func (p *parser) parseFile() *ast.File {
	f := &ast.File{Name: p.file}
	for !p.atEOF() {
		before := p.pos
		node, ok := p.parseTopLevel()
		if node != nil {
			f.Body = append(f.Body, node)
		}
		if !ok {
			p.recover()
		}
		if p.pos == before {
			// Guarantee forward progress on a token neither parseTopLevel
			// nor recover consumed.
			p.advance()
		}
	}
	return f
}

// parseTopLevel dispatches one top-level item (spec §4.3: "namespace/
// subsystem definitions, type declarations, struct/union/enum
// declarations and definitions, function declarations and definitions,
// class declarations, raw export statements").
func (p *parser) parseTopLevel() (ast.Node, bool) {
	switch {
	case p.atKeyword("namespace"):
		return p.parseNamespace()
	case p.atKeyword("typedef"):
		return p.parseTypeDeclaration()
	case p.atKeyword("struct"):
		return p.parseStruct()
	case p.atKeyword("union"):
		return p.parseUnion()
	case p.atKeyword("enum"):
		return p.parseEnum()
	case p.atKeyword("class"):
		return p.parseClass()
	case p.atKeyword("extern"):
		return p.parseExternal()
	case p.atKeyword("export"):
		return p.parseExport()
	case p.atKeyword("const"):
		return p.parseConstDeclaration()
	case p.atKeyword("global"):
		return p.parseVarDeclaration()
	case p.atKeyword("infer"):
		return p.parseLetDeclaration()
	case p.atKeyword("using") || p.atKeyword("namemap"):
		return p.parseRawDirectiveStatement()
	default:
		return p.parseFunctionOrFallback()
	}
}

// parseRawDirectiveStatement handles keywords whose grammar the source
// spec does not otherwise describe (using/namemap): the statement's
// literal source text is preserved as a pass-through RawNode rather than
// guessed at.
func (p *parser) parseRawDirectiveStatement() (ast.Node, bool) {
	pos := p.cur().Pos
	var text string
	for !p.atEOF() {
		t := p.advance()
		text += tokenText(t)
		if t.Kind == token.Punctuator && t.Text == ";" {
			break
		}
		text += " "
	}
	return ast.NewRawNode(pos, text), true
}

func tokenText(t token.Token) string {
	switch t.Kind {
	case token.Identifier:
		return t.Ident
	case token.StringLiteral:
		return string(t.StrValue)
	default:
		return t.Text
	}
}
