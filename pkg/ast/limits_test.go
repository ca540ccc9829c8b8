package ast

import (
	"strings"
	"testing"

	"github.com/jlangtools/jcc/pkg/token"
)

func TestDefaultLimits(t *testing.T) {
	limits := DefaultLimits()
	if limits.MaxDepth != 256 {
		t.Errorf("expected MaxDepth=256, got %d", limits.MaxDepth)
	}
	if limits.MaxChildren != 65536 {
		t.Errorf("expected MaxChildren=65536, got %d", limits.MaxChildren)
	}
}

func TestValidateDepth(t *testing.T) {
	limits := Limits{MaxDepth: 3, MaxChildren: 100}

	leaf := NewStringLiteral(token.Position{}, "1")
	one := NewBlock(token.Position{}, []Node{leaf}, true)
	two := NewBlock(token.Position{}, []Node{one}, true)

	if err := ValidateDepth(two, limits); err != nil {
		t.Errorf("depth within limit failed validation: %v", err)
	}

	three := NewBlock(token.Position{}, []Node{two}, true)
	err := ValidateDepth(three, limits)
	if err == nil {
		t.Fatal("expected error for depth exceeding MaxDepth")
	}
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if ve.Limit != "MaxDepth" {
		t.Errorf("expected MaxDepth error, got %s", ve.Limit)
	}
}

func TestValidateChildren(t *testing.T) {
	limits := Limits{MaxDepth: 256, MaxChildren: 2}

	children := []Node{
		NewStringLiteral(token.Position{}, "1"),
		NewStringLiteral(token.Position{}, "2"),
	}
	block := NewBlock(token.Position{}, children, true)
	if err := ValidateChildren(block, limits); err != nil {
		t.Errorf("child count at limit failed validation: %v", err)
	}

	over := NewBlock(token.Position{}, append(children, NewStringLiteral(token.Position{}, "3")), true)
	err := ValidateChildren(over, limits)
	if err == nil {
		t.Fatal("expected error for child count exceeding MaxChildren")
	}
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if ve.Limit != "MaxChildren" {
		t.Errorf("expected MaxChildren error, got %s", ve.Limit)
	}
	if ve.Current != 3 {
		t.Errorf("expected current=3, got %d", ve.Current)
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Limit: "MaxDepth", Current: 300, Maximum: 256}
	msg := err.Error()
	if !strings.Contains(msg, "MaxDepth") {
		t.Errorf("error message should contain limit name: %s", msg)
	}
	if !strings.Contains(msg, "300") {
		t.Errorf("error message should contain current value: %s", msg)
	}
}
