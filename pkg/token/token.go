package token

import "errors"

// ErrFrozen is returned by Push/Pop once a TokenList has been frozen.
var ErrFrozen = errors.New("token: list is frozen")

// ErrEmpty is returned by Pop on an empty TokenList.
var ErrEmpty = errors.New("token: list is empty")

// Token is a tagged variant carrying a source position and exactly one
// payload selected by Kind (spec §3). Rather than a union, the payload
// fields are simply zero for kinds that don't use them — Go has no space
// advantage to a real union here and this keeps every field directly
// addressable.
type Token struct {
	Kind Kind
	Pos  Position

	// Text is the raw lexeme for Keyword, Operator, Punctuator,
	// SingleLineComment, MultiLineComment and Whitespace tokens.
	Text string

	// Ident holds the interned identifier text for Identifier tokens.
	Ident string

	// IntValue/IntRadix are set for IntegerLiteral tokens. The value is
	// always the canonical unsigned 64-bit magnitude; IntRadix records
	// the literal's original textual base for round-tripping.
	IntValue uint64
	IntRadix Radix

	// FloatValue is set for FloatLiteral tokens.
	FloatValue float64

	// StrValue is the escape-expanded byte content of a StringLiteral.
	// StrSingleQuoted records whether the source used ' or " so the
	// generator can preserve the author's quoting style.
	StrValue        []byte
	StrSingleQuoted bool
}

// TokenList is an ordered sequence of Tokens, grown by Push and shrunk
// from the end by Pop. Once frozen,
// Push and Pop fail (spec §3: "Once frozen, push/pop operations fail").
type TokenList struct {
	tokens []Token
	frozen bool
}

// NewTokenList returns an empty, unfrozen TokenList.
func NewTokenList() *TokenList {
	return &TokenList{}
}

// Push appends t to the list. It fails if the list is frozen or if t's
// position would violate the non-decreasing-position invariant.
func (l *TokenList) Push(t Token) error {
	if l.frozen {
		return ErrFrozen
	}
	if n := len(l.tokens); n > 0 {
		last := l.tokens[n-1].Pos
		if t.Pos.File == last.File && t.Pos.Before(last) {
			return errors.New("token: position moved backward")
		}
	}
	l.tokens = append(l.tokens, t)
	return nil
}

// Pop removes and returns the last token in the list.
func (l *TokenList) Pop() (Token, error) {
	if l.frozen {
		return Token{}, ErrFrozen
	}
	n := len(l.tokens)
	if n == 0 {
		return Token{}, ErrEmpty
	}
	t := l.tokens[n-1]
	l.tokens = l.tokens[:n-1]
	return t, nil
}

// Freeze prevents further mutation. Idempotent.
func (l *TokenList) Freeze() { l.frozen = true }

// Frozen reports whether the list has been frozen.
func (l *TokenList) Frozen() bool { return l.frozen }

// Len returns the number of tokens, including trivia.
func (l *TokenList) Len() int { return len(l.tokens) }

// At returns the token at index i.
func (l *TokenList) At(i int) Token { return l.tokens[i] }

// All returns the full underlying slice, including trivia. Callers that
// need to skip trivia should use Significant.
func (l *TokenList) All() []Token { return l.tokens }

// Significant returns a copy of the list with Whitespace and Comment
// tokens removed, for consumers (parser, code generator) that must
// ignore trivia per spec §3.
func (l *TokenList) Significant() []Token {
	out := make([]Token, 0, len(l.tokens))
	for _, t := range l.tokens {
		if !t.Kind.IsTrivia() {
			out = append(out, t)
		}
	}
	return out
}
