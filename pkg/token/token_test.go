package token_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jlangtools/jcc/pkg/token"
)

func TestTokenListPushPop(t *testing.T) {
	l := token.NewTokenList()
	require.NoError(t, l.Push(token.Token{Kind: token.Identifier, Ident: "a", Pos: token.Position{Line: 1, Column: 1}}))
	require.NoError(t, l.Push(token.Token{Kind: token.Identifier, Ident: "b", Pos: token.Position{Line: 1, Column: 3}}))
	require.Equal(t, 2, l.Len())

	tok, err := l.Pop()
	require.NoError(t, err)
	require.Equal(t, "b", tok.Ident)
	require.Equal(t, 1, l.Len())
}

func TestTokenListFreezeBlocksMutation(t *testing.T) {
	l := token.NewTokenList()
	require.NoError(t, l.Push(token.Token{Kind: token.Identifier, Ident: "a"}))
	l.Freeze()

	err := l.Push(token.Token{Kind: token.Identifier, Ident: "b"})
	require.ErrorIs(t, err, token.ErrFrozen)

	_, err = l.Pop()
	require.ErrorIs(t, err, token.ErrFrozen)
}

func TestTokenListRejectsBackwardPosition(t *testing.T) {
	l := token.NewTokenList()
	require.NoError(t, l.Push(token.Token{Pos: token.Position{Line: 2, Column: 5}}))
	err := l.Push(token.Token{Pos: token.Position{Line: 2, Column: 1}})
	require.Error(t, err)
}

func TestSignificantDropsTrivia(t *testing.T) {
	l := token.NewTokenList()
	require.NoError(t, l.Push(token.Token{Kind: token.Whitespace, Text: " "}))
	require.NoError(t, l.Push(token.Token{Kind: token.Identifier, Ident: "a", Pos: token.Position{Line: 1, Column: 2}}))
	require.NoError(t, l.Push(token.Token{Kind: token.SingleLineComment, Text: "// x", Pos: token.Position{Line: 1, Column: 3}}))

	sig := l.Significant()
	require.Len(t, sig, 1)
	require.Equal(t, "a", sig[0].Ident)
}

func TestKeywordBoundaryTablesClosed(t *testing.T) {
	require.True(t, token.Keywords["namespace"])
	require.False(t, token.Keywords["namespaces"])
	require.True(t, token.WordOperators["new"])
}
