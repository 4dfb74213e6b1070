package checker

import (
	"fmt"

	"github.com/loomlang/loom/internal/ast"
	"github.com/loomlang/loom/internal/diagnostics"
	"github.com/loomlang/loom/internal/scope"
	"github.com/loomlang/loom/internal/token"
	"github.com/loomlang/loom/internal/typesystem"
)

// inferGroup infers one strongly connected group of let declarations.
// All declarations in the group share a frame, and the frame's variables
// and constraints become the scheme of every binding the group
// introduces: let-generalization extended to mutually recursive groups.
func (c *Checker) inferGroup(group []*ast.LetDeclaration) {
	groupCtx := c.pushContext(nil)
	persistEnv := groupCtx.env.parent

	children := make(map[*ast.LetDeclaration]*inferContext, len(group))

	// First pass: allocate a skeleton arrow type per declaration and
	// bind it, so bodies can refer to every member of the group.
	for _, d := range group {
		child := c.pushChildContext(groupCtx)
		child.returnType = c.freshVar()

		params := make([]typesystem.Type, len(d.Params))
		for i, p := range d.Params {
			pv := c.freshVar()
			params[i] = pv
			c.bindPattern(child.env, p.Pattern, monoScheme(pv))
		}

		ft := typesystem.TArrow{Params: params, Return: child.returnType}
		if d.TypeAssert != nil {
			asserted := c.typeFromExpr(d.TypeAssert, make(map[string]typesystem.TVar))
			c.addConstraint(&EqualConstraint{Left: asserted, Right: ft, Node: d.TypeAssert})
		}

		c.popContext(child)
		children[d] = child
		c.declTypes[d] = ft

		c.bindPattern(persistEnv, d.Pattern, &Scheme{
			TypeVars:    groupCtx.typeVars,
			Constraints: groupCtx.constraints,
			Body:        ft,
		})
	}

	// Second pass: infer the bodies against the skeletons.
	for _, d := range group {
		child := children[d]
		c.pushExistingContext(child)
		if d.Body != nil {
			t := c.inferExpression(d.Body)
			c.addConstraint(&EqualConstraint{Left: t, Right: child.returnType, Node: d.Body})
		} else {
			for _, stmt := range d.Block {
				c.inferStatement(stmt)
			}
		}
		c.popContext(child)
	}

	for _, d := range group {
		delete(c.declTypes, d)
	}

	c.popContext(groupCtx)

	// The group's constraints stay alive twice over: the original copies
	// flow to the root to be solved exactly once (so errors inside a
	// never-instantiated declaration still surface), and the schemes
	// above re-emit freshened copies at each instantiation. They must
	// not land in an enclosing group's list: that list is shared with
	// the enclosing schemes, and this group's variables are not renamed
	// by those schemes' instantiations.
	root := c.contexts[0]
	root.constraints.items = append(root.constraints.items, groupCtx.constraints.items...)
}

// instantiate replaces a scheme's generalized variables with fresh ones
// and re-emits its deferred constraints under the same renaming.
func (c *Checker) instantiate(s *Scheme) typesystem.Type {
	if s.TypeVars.Len() == 0 && len(s.Constraints.items) == 0 {
		return s.Body
	}
	fresh := typesystem.NewSubst()
	for _, v := range s.TypeVars.All() {
		fresh.Set(v, c.freshVar())
	}
	for _, dc := range s.Constraints.items {
		c.addConstraint(renameConstraint(dc, fresh))
	}
	return s.Body.Apply(fresh)
}

func renameConstraint(con Constraint, fresh *typesystem.Subst) Constraint {
	switch cn := con.(type) {
	case *EqualConstraint:
		return &EqualConstraint{
			Left:  cn.Left.Apply(fresh),
			Right: cn.Right.Apply(fresh),
			Node:  cn.Node,
		}
	case *ManyConstraint:
		elems := make([]Constraint, len(cn.Elements))
		for i, e := range cn.Elements {
			elems[i] = renameConstraint(e, fresh)
		}
		return &ManyConstraint{Elements: elems}
	}
	panic(fmt.Sprintf("unexpected constraint %T", con))
}

// bindPattern binds every name of a pattern in env. Struct pattern
// members get independent fresh variables; relating them to the
// scrutinized struct's fields is out of scope for the checker.
func (c *Checker) bindPattern(env *typeEnv, p ast.Pattern, s *Scheme) {
	switch pat := p.(type) {
	case *ast.BindPattern:
		env.set(pat.Name.Value, s)
	case *ast.WrappedOperator:
		env.set(pat.Op.Literal, s)
	case *ast.StructPattern:
		for _, f := range pat.Fields {
			switch field := f.(type) {
			case *ast.PunnedStructPatternField:
				env.set(field.Name.Value, monoScheme(c.freshVar()))
			case *ast.StructPatternField:
				c.bindPattern(env, field.Pattern, monoScheme(c.freshVar()))
			case *ast.VariadicStructPatternElement:
				if field.Pattern != nil {
					c.bindPattern(env, field.Pattern, monoScheme(c.freshVar()))
				}
			}
		}
	default:
		panic(fmt.Sprintf("unexpected pattern %T", p))
	}
}

func (c *Checker) inferStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		if s.Expr != nil {
			c.inferExpression(s.Expr)
		}
	case *ast.IfStatement:
		for _, cs := range s.Cases {
			if cs.Test != nil {
				t := c.inferExpression(cs.Test)
				c.addConstraint(&EqualConstraint{Left: t, Right: c.tBool, Node: cs.Test})
			}
			for _, inner := range cs.Body {
				c.inferStatement(inner)
			}
		}
	case *ast.ReturnStatement:
		var t typesystem.Type = typesystem.TTuple{}
		if s.Expr != nil {
			t = c.inferExpression(s.Expr)
		}
		if rt := c.nearestReturnType(); rt != nil {
			c.addConstraint(&EqualConstraint{Left: rt, Right: t, Node: s})
		}
	case *ast.LetDeclaration:
		// A let nested in a body generalizes on its own.
		c.inferGroup([]*ast.LetDeclaration{s})
	case *ast.StructDeclaration, *ast.EnumDeclaration, *ast.TypeDeclaration, *ast.ModuleDeclaration:
		// Scope introduction only.
	default:
		panic(fmt.Sprintf("unexpected statement %T", stmt))
	}
}

// nearestReturnType finds the return type of the innermost frame that
// has one; nil at the file level.
func (c *Checker) nearestReturnType() typesystem.Type {
	for i := len(c.contexts) - 1; i >= 0; i-- {
		if rt := c.contexts[i].returnType; rt != nil {
			return rt
		}
	}
	return nil
}

func (c *Checker) inferExpression(expr ast.Expression) typesystem.Type {
	switch e := expr.(type) {
	case *ast.ConstantExpression:
		if e.Token.Type == token.STRING {
			return c.tString
		}
		return c.tInt

	case *ast.NestedExpression:
		return c.inferExpression(e.Inner)

	case *ast.ReferenceExpression:
		if len(e.ModulePath) > 0 {
			c.bindingNotFound(qualifiedName(e), e.GetToken())
			return typesystem.TAny{}
		}
		return c.resolveValue(e.Name.Value, e.GetToken(), e)

	case *ast.NamedTupleExpression:
		return c.inferNamedTuple(e)

	case *ast.CallExpression:
		opT := c.inferExpression(e.Func)
		args := make([]typesystem.Type, len(e.Args))
		for i, a := range e.Args {
			args[i] = c.inferExpression(a)
		}
		ret := c.freshVar()
		c.addConstraint(&EqualConstraint{
			Left:  opT,
			Right: typesystem.TArrow{Params: args, Return: ret},
			Node:  e,
		})
		return ret

	case *ast.InfixExpression:
		opT := c.resolveValue(e.Op.Literal, e.Op, e)
		lt := c.inferExpression(e.Left)
		rt := c.inferExpression(e.Right)
		ret := c.freshVar()
		c.addConstraint(&EqualConstraint{
			Left:  typesystem.TArrow{Params: []typesystem.Type{lt, rt}, Return: ret},
			Right: opT,
			Node:  e,
		})
		return ret

	default:
		panic(fmt.Sprintf("unexpected expression %T", expr))
	}
}

// resolveValue resolves a value name at a use site. A declaration still
// being inferred in the current group yields its cached monomorphic
// type, so mutual recursion unifies against shared variables; anything
// else goes through the environment and instantiates.
func (c *Checker) resolveValue(name string, tok token.Token, at ast.Node) typesystem.Type {
	if sc := c.resolver.ScopeOf(at); sc != nil {
		if entry, ok := sc.Lookup(name, scope.KindVar); ok {
			if let, ok := entry.Decl.(*ast.LetDeclaration); ok {
				if cached, ok := c.declTypes[let]; ok {
					return cached
				}
			}
		}
	}
	if scheme, ok := c.top().env.lookup(name); ok {
		return c.instantiate(scheme)
	}
	c.bindingNotFound(name, tok)
	return typesystem.TAny{}
}

// inferNamedTuple types a data constructor application: the constructor
// must name a nominal type, and the argument types fill its slots.
func (c *Checker) inferNamedTuple(e *ast.NamedTupleExpression) typesystem.Type {
	args := make([]typesystem.Type, len(e.Args))
	for i, a := range e.Args {
		args[i] = c.inferExpression(a)
	}

	var con typesystem.TCon
	found := false

	if sc := c.resolver.ScopeOf(e); sc != nil {
		if entry, ok := sc.Lookup(e.Name.Value, scope.KindVar); ok {
			con, found = c.conOf(entry.Decl)
		}
	}
	if !found {
		if scheme, ok := c.top().env.lookup(e.Name.Value); ok {
			if tc, ok := c.instantiate(scheme).(typesystem.TCon); ok {
				con = tc
				found = true
			}
		}
	}
	if !found {
		c.bindingNotFound(e.Name.Value, e.GetToken())
		return typesystem.TAny{}
	}

	return typesystem.TCon{ID: con.ID, Name: con.Name, Args: args}
}

// typeFromExpr evaluates a type expression. Lowercase names act as
// fresh (unifiable, not rigid) type variables scoped to one annotation;
// vars maps them so repeated occurrences share a variable.
func (c *Checker) typeFromExpr(te ast.TypeExpression, vars map[string]typesystem.TVar) typesystem.Type {
	switch t := te.(type) {
	case *ast.NestedTypeExpression:
		return c.typeFromExpr(t.Inner, vars)

	case *ast.ArrowTypeExpression:
		params := make([]typesystem.Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = c.typeFromExpr(p, vars)
		}
		return typesystem.TArrow{Params: params, Return: c.typeFromExpr(t.Return, vars)}

	case *ast.ReferenceTypeExpression:
		name := t.Name.Value
		if t.Name.Token.Type == token.IDENT {
			if v, ok := vars[name]; ok {
				return v
			}
			v := c.freshVar()
			vars[name] = v
			return v
		}
		args := make([]typesystem.Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = c.typeFromExpr(a, vars)
		}
		return c.resolveTypeName(name, args, t)

	default:
		panic(fmt.Sprintf("unexpected type expression %T", te))
	}
}

func (c *Checker) resolveTypeName(name string, args []typesystem.Type, at ast.Node) typesystem.Type {
	switch name {
	case "Int":
		return c.tInt
	case "String":
		return c.tString
	case "Bool":
		return c.tBool
	}
	if sc := c.resolver.ScopeOf(at); sc != nil {
		if entry, ok := sc.Lookup(name, scope.KindType); ok {
			switch d := entry.Decl.(type) {
			case *ast.StructDeclaration, *ast.EnumDeclaration:
				if con, ok := c.conOf(d); ok {
					return typesystem.TCon{ID: con.ID, Name: con.Name, Args: args}
				}
			case *ast.TypeDeclaration:
				if c.aliasStack[d] {
					c.bindingNotFound(name, at.GetToken())
					return typesystem.TAny{}
				}
				c.aliasStack[d] = true
				out := c.typeFromExpr(d.Type, make(map[string]typesystem.TVar))
				delete(c.aliasStack, d)
				return out
			}
		}
	}
	c.bindingNotFound(name, at.GetToken())
	return typesystem.TAny{}
}

func (c *Checker) bindingNotFound(name string, tok token.Token) {
	d := diagnostics.New(diagnostics.ErrC001, tok, fmt.Sprintf("binding %q not found", name))
	d.File = c.file
	c.diags.Add(d)
}

func qualifiedName(e *ast.ReferenceExpression) string {
	out := ""
	for _, p := range e.ModulePath {
		out += p.Value + "."
	}
	return out + e.Name.Value
}
