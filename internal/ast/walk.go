package ast

// Children returns the direct child nodes of n in source order. This is
// the traversal the reference graph and parent assignment are derived
// from; a new node kind must be added here.
func Children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		// Typed nils arrive through interface-valued fields; skip them.
		if c != nil {
			out = append(out, c)
		}
	}

	switch n := n.(type) {
	case *SourceFile:
		for _, s := range n.Statements {
			add(s)
		}
	case *LetDeclaration:
		add(n.Pattern)
		for _, p := range n.Params {
			add(p)
		}
		if n.TypeAssert != nil {
			add(n.TypeAssert)
		}
		if n.Body != nil {
			add(n.Body)
		}
		for _, s := range n.Block {
			add(s)
		}
	case *Param:
		add(n.Pattern)
	case *StructDeclaration:
		add(n.Name)
		for _, f := range n.Fields {
			add(f)
		}
	case *StructFieldDecl:
		add(n.Name)
		if n.Type != nil {
			add(n.Type)
		}
	case *EnumDeclaration:
		add(n.Name)
		for _, m := range n.Members {
			add(m)
		}
	case *EnumMember:
		add(n.Name)
	case *TypeDeclaration:
		add(n.Name)
		if n.Type != nil {
			add(n.Type)
		}
	case *ModuleDeclaration:
		add(n.Name)
		for _, s := range n.Body {
			add(s)
		}
	case *IfStatement:
		for _, c := range n.Cases {
			add(c)
		}
	case *IfCase:
		if n.Test != nil {
			add(n.Test)
		}
		for _, s := range n.Body {
			add(s)
		}
	case *ReturnStatement:
		if n.Expr != nil {
			add(n.Expr)
		}
	case *ExpressionStatement:
		add(n.Expr)

	case *ConstantExpression, *Identifier:
		// leaves
	case *ReferenceExpression:
		for _, p := range n.ModulePath {
			add(p)
		}
		add(n.Name)
	case *CallExpression:
		add(n.Func)
		for _, a := range n.Args {
			add(a)
		}
	case *NamedTupleExpression:
		add(n.Name)
		for _, a := range n.Args {
			add(a)
		}
	case *InfixExpression:
		add(n.Left)
		add(n.Right)
	case *NestedExpression:
		add(n.Inner)

	case *BindPattern:
		add(n.Name)
	case *WrappedOperator:
		// leaf
	case *StructPattern:
		add(n.Name)
		for _, f := range n.Fields {
			add(f)
		}
	case *PunnedStructPatternField:
		add(n.Name)
	case *StructPatternField:
		add(n.Name)
		add(n.Pattern)
	case *VariadicStructPatternElement:
		if n.Pattern != nil {
			add(n.Pattern)
		}

	case *ReferenceTypeExpression:
		add(n.Name)
		for _, a := range n.Args {
			add(a)
		}
	case *ArrowTypeExpression:
		for _, p := range n.Params {
			add(p)
		}
		add(n.Return)
	case *NestedTypeExpression:
		add(n.Inner)
	}
	return out
}

// SetParents assigns parent links for the whole subtree under root.
// Already-assigned links are left alone, so the pass is idempotent.
func SetParents(root Node) {
	for _, child := range Children(root) {
		if child.Parent() == nil {
			child.SetParent(root)
		}
		SetParents(child)
	}
}
