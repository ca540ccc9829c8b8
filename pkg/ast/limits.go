package ast

import "fmt"

// Limits bounds the shape of a parsed tree that the job driver accepts
// before code generation, the Go-struct analog of the source compiler's
// recursion-depth guard (spec §4.3 edge cases: "pathological nesting
// must not exhaust the stack").
type Limits struct {
	// MaxDepth is the maximum nesting depth of expressions and blocks.
	MaxDepth int
	// MaxChildren is the maximum number of direct children a Block may
	// hold. Declaration member lists are not checked against it.
	MaxChildren int
}

// DefaultLimits returns limits generous enough for ordinary source, the
// tree equivalent of the registry hive's DefaultLimits.
func DefaultLimits() Limits {
	return Limits{MaxDepth: 256, MaxChildren: 65536}
}

// ValidationError reports a single limit violation.
type ValidationError struct {
	Limit   string
	Current int
	Maximum int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("ast limit exceeded: %s is %d (max %d)", e.Limit, e.Current, e.Maximum)
}

// ValidateDepth walks n and returns an error if any path from n exceeds
// limits.MaxDepth.
func ValidateDepth(n Node, limits Limits) error {
	depth := measureDepth(n)
	if depth > limits.MaxDepth {
		return &ValidationError{Limit: "MaxDepth", Current: depth, Maximum: limits.MaxDepth}
	}
	return nil
}

func measureDepth(n Node) int {
	children := Children(n)
	if len(children) == 0 {
		return 1
	}
	max := 0
	for _, c := range children {
		if d := measureDepth(c); d > max {
			max = d
		}
	}
	return max + 1
}

// ValidateChildren checks that every Block in the tree rooted at n stays
// within limits.MaxChildren.
func ValidateChildren(n Node, limits Limits) error {
	var err error
	Walk(n, func(cur Node) bool {
		if err != nil {
			return false
		}
		if blk, ok := cur.(*Block); ok && len(blk.Children) > limits.MaxChildren {
			err = &ValidationError{Limit: "MaxChildren", Current: len(blk.Children), Maximum: limits.MaxChildren}
			return false
		}
		return true
	})
	return err
}
