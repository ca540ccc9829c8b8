package ast

// Children returns the direct child nodes of n, in source order. Leaf
// node kinds (literals, identifiers, declarations with no nested nodes)
// return nil. This is the single place that knows the shape of every
// node kind, so adding a new kind only requires extending this switch
// and the one in Walk's caller, not threading per-kind traversal logic
// throughout the codebase (spec §9 Design Notes).
func Children(n Node) []Node {
	switch v := n.(type) {
	case *UnionDeclaration:
		out := make([]Node, 0, len(v.Fields))
		for _, f := range v.Fields {
			out = append(out, f)
		}
		return out
	case *ClassDeclaration:
		out := make([]Node, 0, len(v.Members)+len(v.Methods))
		for _, m := range v.Members {
			out = append(out, m)
		}
		for _, m := range v.Methods {
			out = append(out, m)
		}
		return out
	case *EnumDeclaration:
		out := make([]Node, 0, len(v.Items))
		for _, it := range v.Items {
			out = append(out, it)
		}
		return out
	case *EnumItem:
		if v.Value != nil {
			return []Node{v.Value}
		}
	case *FunctionDeclaration:
		out := make([]Node, 0, len(v.Params))
		for _, p := range v.Params {
			out = append(out, p)
		}
		return out
	case *FunctionParameter:
		if v.Default != nil {
			return []Node{v.Default}
		}
	case *ClassMethodDeclaration:
		out := make([]Node, 0, len(v.Params))
		for _, p := range v.Params {
			out = append(out, p)
		}
		return out
	case *LetDeclaration:
		if v.Init != nil {
			return []Node{v.Init}
		}
	case *VarDeclaration:
		if v.Init != nil {
			return []Node{v.Init}
		}
	case *ConstDeclaration:
		if v.Init != nil {
			return []Node{v.Init}
		}
	case *SubsystemDefinition:
		return v.Body
	case *StructDefinition:
		out := make([]Node, 0, len(v.Fields)+len(v.Methods)+len(v.Attributes))
		for _, f := range v.Fields {
			out = append(out, f)
		}
		for _, m := range v.Methods {
			out = append(out, m)
		}
		for _, a := range v.Attributes {
			out = append(out, a)
		}
		return out
	case *FunctionDefinition:
		out := make([]Node, 0, len(v.Params)+1)
		for _, p := range v.Params {
			out = append(out, p)
		}
		if v.Body != nil {
			out = append(out, v.Body)
		}
		return out
	case *StructMethod:
		out := make([]Node, 0, len(v.Params)+1)
		for _, p := range v.Params {
			out = append(out, p)
		}
		if v.Body != nil {
			out = append(out, v.Body)
		}
		return out
	case *BinaryExpression:
		return []Node{v.Left, v.Right}
	case *UnaryExpression:
		return []Node{v.Operand}
	case *CastExpression:
		return []Node{v.Operand}
	case *CallExpression:
		out := make([]Node, 0, len(v.Args)+1)
		out = append(out, v.Callee)
		for _, a := range v.Args {
			out = append(out, a)
		}
		return out
	case *ReturnStatement:
		if v.Value != nil {
			return []Node{v.Value}
		}
	case *Block:
		return v.Children
	}
	return nil
}

// Visit is called once per node during a Walk. Returning false stops
// descent into that node's children, but sibling traversal continues.
type Visit func(Node) bool

// Walk performs a pre-order traversal of the tree rooted at n, grounded
// on the source walker's "visit, then recurse into every child kind"
// shape but expressed as one generic Children-driven recursion instead
// of a hand-written switch per caller.
func Walk(n Node, visit Visit) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, visit)
	}
}

// WalkFile walks every top-level node of f in order.
func WalkFile(f *File, visit Visit) {
	for _, n := range f.Body {
		Walk(n, visit)
	}
}
