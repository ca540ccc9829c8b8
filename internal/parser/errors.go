package parser

import "fmt"

// Kind discriminates the parser's diagnostic categories (spec §4.3).
type Kind int

const (
	UnexpectedTokenError Kind = iota
	SyntaxError
	SemanticError
)

func (k Kind) String() string {
	switch k {
	case UnexpectedTokenError:
		return "UnexpectedTokenError"
	case SemanticError:
		return "SemanticError"
	default:
		return "SyntaxError"
	}
}

// describe renders a Kind-tagged message for the diagnostic sink.
func describe(k Kind, format string, args ...any) string {
	return fmt.Sprintf("%s: %s", k, fmt.Sprintf(format, args...))
}
