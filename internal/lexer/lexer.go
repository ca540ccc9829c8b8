// Package lexer implements the single-pass state-machine tokenizer for
// preprocessed J source (spec §4.2).
package lexer

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/jlangtools/jcc/pkg/token"
)

// Kind discriminates the lexer's failure modes.
type Kind int

const (
	InvalidLiteral Kind = iota
	InvalidIdentifier
	InvalidOperator
	InvalidPunctuator
	UnexpectedEOF
	UnexpectedToken
)

func (k Kind) String() string {
	switch k {
	case InvalidLiteral:
		return "InvalidLiteral"
	case InvalidIdentifier:
		return "InvalidIdentifier"
	case InvalidOperator:
		return "InvalidOperator"
	case InvalidPunctuator:
		return "InvalidPunctuator"
	case UnexpectedEOF:
		return "UnexpectedEOF"
	case UnexpectedToken:
		return "UnexpectedToken"
	default:
		return "Unknown"
	}
}

// Error reports a single lexer failure with its source position.
type Error struct {
	Kind Kind
	Pos  token.Position
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Pos.String(), e.Kind, e.Msg)
}

// Lex tokenizes source, which must already be valid UTF-8 (the caller's
// preprocessing boundary is responsible for that check). A logical
// trailing newline is assumed so EOF never lands mid-state.
func Lex(file string, source []byte) (*token.TokenList, error) {
	if !utf8.Valid(source) {
		return nil, &Error{Kind: UnexpectedEOF, Pos: token.Position{File: file, Line: 1, Column: 1}, Msg: "source is not valid UTF-8"}
	}
	l := &lexer{file: file, src: source, line: 1, col: 1}
	return l.run()
}

type lexer struct {
	file string
	src  []byte
	pos  int
	line int
	col  int
}

func (l *lexer) position() token.Position {
	return token.Position{File: l.file, Line: l.line, Column: l.col}
}

func (l *lexer) eof() bool { return l.pos >= len(l.src) }

func (l *lexer) peekAt(offset int) byte {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *lexer) peek() byte { return l.peekAt(0) }

func (l *lexer) advance() byte {
	b := l.src[l.pos]
	l.pos++
	if b == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return b
}

func (l *lexer) run() (*token.TokenList, error) {
	list := token.NewTokenList()
	for !l.eof() {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		if pushErr := list.Push(tok); pushErr != nil {
			return nil, &Error{Kind: UnexpectedToken, Pos: tok.Pos, Msg: pushErr.Error()}
		}
	}
	list.Push(token.Token{Kind: token.EOF, Pos: l.position()})
	return list, nil
}

// next implements the maximal-munch policy of spec §4.2: comments,
// then operators longest-first, then punctuators, then string openers,
// then keywords guarded by the identifier-boundary rule, then
// identifiers, then numbers, then whitespace.
func (l *lexer) next() (token.Token, error) {
	start := l.position()
	c := l.peek()

	if c == '/' && l.peekAt(1) == '/' {
		return l.lexSingleLineComment(start)
	}
	if c == '/' && l.peekAt(1) == '*' {
		return l.lexMultiLineComment(start)
	}
	if op, ok := l.matchOperator(); ok {
		for range op {
			l.advance()
		}
		return token.Token{Kind: token.Operator, Pos: start, Text: op}, nil
	}
	if punct, ok := l.matchPunctuator(); ok {
		for range punct {
			l.advance()
		}
		return token.Token{Kind: token.Punctuator, Pos: start, Text: punct}, nil
	}
	if c == '"' || c == '\'' {
		return l.lexString(start, c)
	}
	if word, ok := l.matchWordOperator(); ok {
		for range word {
			l.advance()
		}
		return token.Token{Kind: token.Operator, Pos: start, Text: word}, nil
	}
	if kw, ok := l.matchKeyword(); ok {
		for range kw {
			l.advance()
		}
		return token.Token{Kind: token.Keyword, Pos: start, Text: kw}, nil
	}
	if token.IsIdentStart(c) {
		return l.lexIdentifier(start)
	}
	if c >= '0' && c <= '9' {
		return l.lexNumber(start)
	}
	if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
		return l.lexWhitespace(start)
	}
	return token.Token{}, &Error{Kind: UnexpectedToken, Pos: start, Msg: fmt.Sprintf("unexpected byte %q", c)}
}

// matchOperator tries every entry of token.Operators, longest first (the
// table is already ordered that way), requiring an exact prefix match.
func (l *lexer) matchOperator() (string, bool) {
	for _, op := range token.Operators {
		if l.hasPrefix(op) {
			return op, true
		}
	}
	return "", false
}

func (l *lexer) matchPunctuator() (string, bool) {
	for _, p := range token.Punctuators {
		if l.hasPrefix(p) {
			return p, true
		}
	}
	return "", false
}

func (l *lexer) matchWordOperator() (string, bool) {
	return l.matchBoundaryWord(token.WordOperators)
}

func (l *lexer) matchKeyword() (string, bool) {
	return l.matchBoundaryWord(token.Keywords)
}

// matchBoundaryWord checks every candidate in table against the input at
// the current position, requiring that the match not be immediately
// followed by another identifier character — the rule that keeps a
// keyword from eating an identifier prefix (spec §4.2 point 5).
func (l *lexer) matchBoundaryWord(table map[string]bool) (string, bool) {
	best := ""
	for word := range table {
		if len(word) <= len(best) {
			continue
		}
		if !l.hasPrefix(word) {
			continue
		}
		next := l.peekAt(len(word))
		if next != 0 && token.IsIdentChar(next) {
			continue
		}
		best = word
	}
	if best == "" {
		return "", false
	}
	return best, true
}

func (l *lexer) hasPrefix(s string) bool {
	for i := 0; i < len(s); i++ {
		if l.peekAt(i) != s[i] {
			return false
		}
	}
	return true
}

func (l *lexer) lexSingleLineComment(start token.Position) (token.Token, error) {
	begin := l.pos
	for !l.eof() && l.peek() != '\n' {
		l.advance()
	}
	return token.Token{Kind: token.SingleLineComment, Pos: start, Text: string(l.src[begin:l.pos])}, nil
}

func (l *lexer) lexMultiLineComment(start token.Position) (token.Token, error) {
	begin := l.pos
	l.advance()
	l.advance()
	for {
		if l.eof() {
			return token.Token{}, &Error{Kind: InvalidLiteral, Pos: start, Msg: "unterminated multi-line comment"}
		}
		if l.peek() == '*' && l.peekAt(1) == '/' {
			l.advance()
			l.advance()
			break
		}
		l.advance()
	}
	return token.Token{Kind: token.MultiLineComment, Pos: start, Text: string(l.src[begin:l.pos])}, nil
}

func (l *lexer) lexIdentifier(start token.Position) (token.Token, error) {
	begin := l.pos
	for !l.eof() && token.IsIdentChar(l.peek()) {
		l.advance()
	}
	name := string(l.src[begin:l.pos])
	return token.Token{Kind: token.Identifier, Pos: start, Ident: name}, nil
}

func (l *lexer) lexWhitespace(start token.Position) (token.Token, error) {
	begin := l.pos
	for !l.eof() {
		switch l.peek() {
		case ' ', '\t', '\r', '\n':
			l.advance()
		default:
			return token.Token{Kind: token.Whitespace, Pos: start, Text: string(l.src[begin:l.pos])}, nil
		}
	}
	return token.Token{Kind: token.Whitespace, Pos: start, Text: string(l.src[begin:l.pos])}, nil
}

// lexString implements the StringLiteral state plus its escape-pending
// sub-modifier (spec §4.2). Quote kind (single/double) is remembered so
// the code generator can preserve it.
func (l *lexer) lexString(start token.Position, quote byte) (token.Token, error) {
	l.advance() // opening quote
	var out []byte
	for {
		if l.eof() {
			return token.Token{}, &Error{Kind: InvalidLiteral, Pos: start, Msg: "unterminated string literal"}
		}
		c := l.peek()
		if c == '\n' {
			return token.Token{}, &Error{Kind: InvalidLiteral, Pos: start, Msg: "newline inside string literal"}
		}
		if c == quote {
			l.advance()
			break
		}
		if c == '\\' {
			l.advance()
			if l.eof() {
				return token.Token{}, &Error{Kind: InvalidLiteral, Pos: start, Msg: "unterminated escape in string literal"}
			}
			esc := l.advance()
			switch esc {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			case '0':
				out = append(out, 0)
			case '\\':
				out = append(out, '\\')
			default:
				out = append(out, esc)
			}
			continue
		}
		out = append(out, c)
		l.advance()
	}
	return token.Token{
		Kind:            token.StringLiteral,
		Pos:             start,
		StrValue:        out,
		StrSingleQuoted: quote == '\'',
	}, nil
}

// lexNumber implements the NumberLiteral state: radix-prefixed integers
// or a decimal integer/float (spec §4.2). Integers are stored as their
// unsigned 64-bit value with the original radix recorded; no hexadecimal
// text form is produced.
func (l *lexer) lexNumber(start token.Position) (token.Token, error) {
	if l.peek() == '0' && (l.peekAt(1) == 'x' || l.peekAt(1) == 'X') {
		return l.lexRadixInteger(start, 16, token.Hex, isHexDigit)
	}
	if l.peek() == '0' && l.peekAt(1) == 'b' {
		return l.lexRadixInteger(start, 2, token.Binary, isBinDigit)
	}
	if l.peek() == '0' && l.peekAt(1) == 'o' {
		return l.lexRadixInteger(start, 8, token.Octal, isOctDigit)
	}
	if l.peek() == '0' && l.peekAt(1) == 'd' {
		l.advance()
		l.advance()
		return l.lexDecimalDigits(start, token.Decimal)
	}
	return l.lexDecimalOrFloat(start)
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
func isBinDigit(b byte) bool { return b == '0' || b == '1' }
func isOctDigit(b byte) bool { return b >= '0' && b <= '7' }

func (l *lexer) lexRadixInteger(start token.Position, base int, radix token.Radix, digit func(byte) bool) (token.Token, error) {
	l.advance() // '0'
	l.advance() // radix letter
	begin := l.pos
	for !l.eof() && digit(l.peek()) {
		l.advance()
	}
	if l.pos == begin {
		return token.Token{}, &Error{Kind: InvalidLiteral, Pos: start, Msg: "radix integer literal has no digits"}
	}
	digits := string(l.src[begin:l.pos])
	v, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		return token.Token{}, &Error{Kind: InvalidLiteral, Pos: start, Msg: "integer literal overflows 64 bits"}
	}
	return token.Token{Kind: token.IntegerLiteral, Pos: start, IntValue: v, IntRadix: radix}, nil
}

func (l *lexer) lexDecimalDigits(start token.Position, radix token.Radix) (token.Token, error) {
	begin := l.pos
	for !l.eof() && l.peek() >= '0' && l.peek() <= '9' {
		l.advance()
	}
	if l.pos == begin {
		return token.Token{}, &Error{Kind: InvalidLiteral, Pos: start, Msg: "decimal integer literal has no digits"}
	}
	digits := string(l.src[begin:l.pos])
	v, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return token.Token{}, &Error{Kind: InvalidLiteral, Pos: start, Msg: "integer literal overflows 64 bits"}
	}
	return token.Token{Kind: token.IntegerLiteral, Pos: start, IntValue: v, IntRadix: radix}, nil
}

// lexDecimalOrFloat handles `[0-9]+(\.[0-9]+)?(e[+-]?[0-9]+)?`, producing
// a FloatLiteral only when a fractional or exponent part is present.
func (l *lexer) lexDecimalOrFloat(start token.Position) (token.Token, error) {
	begin := l.pos
	for !l.eof() && l.peek() >= '0' && l.peek() <= '9' {
		l.advance()
	}
	isFloat := false
	if l.peek() == '.' && l.peekAt(1) >= '0' && l.peekAt(1) <= '9' {
		isFloat = true
		l.advance()
		for !l.eof() && l.peek() >= '0' && l.peek() <= '9' {
			l.advance()
		}
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		offset := 1
		if l.peekAt(1) == '+' || l.peekAt(1) == '-' {
			offset = 2
		}
		if d := l.peekAt(offset); d >= '0' && d <= '9' {
			isFloat = true
			for i := 0; i < offset; i++ {
				l.advance()
			}
			for !l.eof() && l.peek() >= '0' && l.peek() <= '9' {
				l.advance()
			}
		}
	}
	text := string(l.src[begin:l.pos])
	if isFloat {
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return token.Token{}, &Error{Kind: InvalidLiteral, Pos: start, Msg: "malformed float literal"}
		}
		return token.Token{Kind: token.FloatLiteral, Pos: start, FloatValue: v}, nil
	}
	v, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return token.Token{}, &Error{Kind: InvalidLiteral, Pos: start, Msg: "integer literal overflows 64 bits"}
	}
	return token.Token{Kind: token.IntegerLiteral, Pos: start, IntValue: v, IntRadix: token.Decimal}, nil
}
