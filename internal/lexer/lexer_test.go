package lexer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jlangtools/jcc/internal/lexer"
	"github.com/jlangtools/jcc/pkg/token"
)

func significant(t *testing.T, src string) []token.Token {
	t.Helper()
	list, err := lexer.Lex("t.j", []byte(src))
	require.NoError(t, err)
	sig := list.Significant()
	require.Greater(t, len(sig), 0)
	require.Equal(t, token.EOF, sig[len(sig)-1].Kind)
	return sig[:len(sig)-1]
}

func TestKeywordBoundaryDoesNotEatIdentifierPrefix(t *testing.T) {
	toks := significant(t, "intx")
	require.Len(t, toks, 1)
	require.Equal(t, token.Identifier, toks[0].Kind)
	require.Equal(t, "intx", toks[0].Ident)
}

func TestKeywordMatchesAtBoundary(t *testing.T) {
	toks := significant(t, "int x")
	require.Len(t, toks, 2)
	require.Equal(t, token.Keyword, toks[0].Kind)
	require.Equal(t, "int", toks[0].Text)
	require.Equal(t, token.Identifier, toks[1].Kind)
}

func TestMaximalMunchOperators(t *testing.T) {
	toks := significant(t, ">>>=")
	require.Len(t, toks, 1)
	require.Equal(t, ">>>=", toks[0].Text)
}

func TestDoubleColonBeforeColon(t *testing.T) {
	toks := significant(t, "a::b")
	require.Len(t, toks, 3)
	require.Equal(t, "::", toks[1].Text)
}

func TestHexIntegerLiteral(t *testing.T) {
	toks := significant(t, "0xFF")
	require.Len(t, toks, 1)
	require.Equal(t, token.IntegerLiteral, toks[0].Kind)
	require.Equal(t, uint64(255), toks[0].IntValue)
	require.Equal(t, token.Hex, toks[0].IntRadix)
}

func TestBinaryIntegerOverflowIsInvalidLiteral(t *testing.T) {
	_, err := lexer.Lex("t.j", []byte("0b1"+strings.Repeat("0", 70)))
	require.Error(t, err)
	lexErr, ok := err.(*lexer.Error)
	require.True(t, ok)
	require.Equal(t, lexer.InvalidLiteral, lexErr.Kind)
}

func TestFloatLiteralWithExponent(t *testing.T) {
	toks := significant(t, "1.5e2")
	require.Len(t, toks, 1)
	require.Equal(t, token.FloatLiteral, toks[0].Kind)
	require.InDelta(t, 150.0, toks[0].FloatValue, 0.0001)
}

func TestDecimalIntegerNotFloat(t *testing.T) {
	toks := significant(t, "42")
	require.Len(t, toks, 1)
	require.Equal(t, token.IntegerLiteral, toks[0].Kind)
}

func TestStringLiteralEscapes(t *testing.T) {
	toks := significant(t, `"a\nb\tc"`)
	require.Len(t, toks, 1)
	require.Equal(t, token.StringLiteral, toks[0].Kind)
	require.Equal(t, "a\nb\tc", string(toks[0].StrValue))
	require.False(t, toks[0].StrSingleQuoted)
}

func TestSingleQuotedStringRemembersQuoteKind(t *testing.T) {
	toks := significant(t, "'x'")
	require.Len(t, toks, 1)
	require.True(t, toks[0].StrSingleQuoted)
}

func TestUnterminatedStringIsInvalidLiteral(t *testing.T) {
	_, err := lexer.Lex("t.j", []byte(`"abc`))
	require.Error(t, err)
	lexErr, ok := err.(*lexer.Error)
	require.True(t, ok)
	require.Equal(t, lexer.InvalidLiteral, lexErr.Kind)
}

func TestNewlineInsideStringIsInvalidLiteral(t *testing.T) {
	_, err := lexer.Lex("t.j", []byte("\"abc\ndef\""))
	require.Error(t, err)
}

func TestUnterminatedMultiLineCommentIsInvalid(t *testing.T) {
	_, err := lexer.Lex("t.j", []byte("/* never closes"))
	require.Error(t, err)
}

func TestSingleLineCommentStopsAtNewline(t *testing.T) {
	list, err := lexer.Lex("t.j", []byte("// hi\nint x;"))
	require.NoError(t, err)
	var kinds []token.Kind
	for _, tok := range list.All() {
		kinds = append(kinds, tok.Kind)
	}
	require.Contains(t, kinds, token.SingleLineComment)
}

func TestWordOperatorsAreNotIdentifiers(t *testing.T) {
	toks := significant(t, "new Foo")
	require.Equal(t, token.Operator, toks[0].Kind)
	require.Equal(t, "new", toks[0].Text)
}

func TestUnexpectedTokenReportsPosition(t *testing.T) {
	_, err := lexer.Lex("t.j", []byte("int x = $;"))
	require.Error(t, err)
	lexErr, ok := err.(*lexer.Error)
	require.True(t, ok)
	require.Equal(t, lexer.UnexpectedToken, lexErr.Kind)
	require.Equal(t, 1, lexErr.Pos.Line)
}
