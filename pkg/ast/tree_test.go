package ast

import (
	"testing"

	"github.com/jlangtools/jcc/pkg/token"
)

func TestBinaryExpressionChildren(t *testing.T) {
	pos := token.Position{File: "a.j", Line: 1, Column: 1}
	left := NewIntegerLiteral(pos, 1, token.Decimal)
	right := NewIntegerLiteral(pos, 2, token.Decimal)
	expr := NewBinaryExpression(pos, "+", left, right)

	children := Children(expr)
	if len(children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(children))
	}
	if children[0] != Node(left) || children[1] != Node(right) {
		t.Error("children should be left then right in order")
	}
}

func TestWalkVisitsEveryNode(t *testing.T) {
	pos := token.Position{}
	body := NewBlock(pos, []Node{
		NewReturnStatement(pos, NewIntegerLiteral(pos, 0, token.Decimal)),
	}, true)

	var kinds []NodeKind
	Walk(body, func(n Node) bool {
		kinds = append(kinds, n.Kind())
		return true
	})

	if len(kinds) != 3 {
		t.Fatalf("expected 3 visited nodes (block, return, literal), got %d", len(kinds))
	}
	if kinds[0] != KindBlock || kinds[1] != KindReturnStatement || kinds[2] != KindLiteralExpression {
		t.Errorf("unexpected visit order: %v", kinds)
	}
}

func TestWalkStopsDescentWhenVisitReturnsFalse(t *testing.T) {
	pos := token.Position{}
	body := NewBlock(pos, []Node{
		NewReturnStatement(pos, NewIntegerLiteral(pos, 0, token.Decimal)),
	}, true)

	var kinds []NodeKind
	Walk(body, func(n Node) bool {
		kinds = append(kinds, n.Kind())
		return n.Kind() != KindReturnStatement
	})

	if len(kinds) != 2 {
		t.Fatalf("expected traversal to stop before the literal, got %d visits", len(kinds))
	}
}

func TestNodeKindStringCoversAllKinds(t *testing.T) {
	for k := KindTypeDeclaration; k <= KindRawNode; k++ {
		if k.String() == "Unknown" {
			t.Errorf("NodeKind %d missing a String() entry", int(k))
		}
	}
}

func TestVisibilityDefaults(t *testing.T) {
	if Private.String() != "private" || Public.String() != "public" || Protected.String() != "protected" {
		t.Error("Visibility.String() values must be lowercase keywords")
	}
}
