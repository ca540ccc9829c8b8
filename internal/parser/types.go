package parser

import (
	"strings"

	"github.com/jlangtools/jcc/pkg/ast"
	"github.com/jlangtools/jcc/pkg/token"
)

// scalarTypeKeywords is the subset of the closed keyword set that can
// start a type reference (spec §6 lists the full keyword set; this is
// the type-position subset of it). Scalar aliases such as byte, short,
// word, dword, qword, address, string, routine (spec §4.4's type
// mapping table) are ordinary identifiers — typically introduced by a
// typedef in the runtime prologue — rather than reserved keywords, so
// they fall through the identifier branch below.
var scalarTypeKeywords = map[string]bool{
	"intn": true, "uintn": true, "float": true, "double": true,
	"int": true, "signed": true, "unsigned": true, "long": true,
	"bool": true, "bit": true, "char": true, "void": true, "auto": true,
}

func isTypeKeyword(t token.Token) bool {
	return t.Kind == token.Keyword && scalarTypeKeywords[t.Text]
}

// isTypeStart reports whether the parser's current token can begin a
// type reference: a scalar type keyword or a (possibly qualified) user
// type name.
func isTypeStart(p *parser) bool {
	t := p.cur()
	return t.Kind == token.Identifier || isTypeKeyword(t)
}

// parseTypeRef parses a (possibly namespace-qualified) type name. Array
// size and bitfield width are filled in by the caller, since only
// struct fields and function parameters carry that tail syntax and each
// has slightly different rules (spec §3).
func (p *parser) parseTypeRef() (ast.TypeRef, bool) {
	name, ok := p.parseTypeName()
	if !ok {
		return ast.TypeRef{}, false
	}
	return ast.TypeRef{Name: name}, true
}

func (p *parser) parseTypeName() (string, bool) {
	var parts []string
	for {
		var part string
		switch {
		case p.atIdentifier():
			part = p.advance().Ident
		case isTypeKeyword(p.cur()):
			part = p.advance().Text
		default:
			if len(parts) == 0 {
				p.errorf(SyntaxError, "expected a type name, got %q", p.cur().Text)
				return "", false
			}
			return strings.Join(parts, "::"), true
		}
		parts = append(parts, part)
		if p.atPunct("::") {
			p.advance()
			continue
		}
		return strings.Join(parts, "::"), true
	}
}
