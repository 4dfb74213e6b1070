package checker

import (
	"fmt"

	"github.com/loomlang/loom/internal/ast"
	"github.com/loomlang/loom/internal/depgraph"
	"github.com/loomlang/loom/internal/diagnostics"
	"github.com/loomlang/loom/internal/scope"
	"github.com/loomlang/loom/internal/typesystem"
)

// Checker runs name resolution, dependency analysis and type inference
// over one source file. A Checker must not be shared between concurrent
// checks; every counter and the substitution belong to one session.
type Checker struct {
	diags    *diagnostics.Bag
	file     string
	resolver *scope.Resolver

	subst     *typesystem.Subst
	nextVarID int
	nextConID int

	contexts []*inferContext

	// declTypes caches the monomorphic type of each declaration in the
	// group currently being inferred, so mutually recursive references
	// unify against the same variables instead of fresh instantiations.
	declTypes map[*ast.LetDeclaration]typesystem.Type

	// cons memoizes the nominal constructor assigned to each struct or
	// enum declaration.
	cons map[ast.Node]typesystem.TCon

	// aliasStack guards type alias expansion against cycles.
	aliasStack map[*ast.TypeDeclaration]bool

	tInt    typesystem.TCon
	tString typesystem.TCon
	tBool   typesystem.TCon
}

func New(diags *diagnostics.Bag) *Checker {
	c := &Checker{
		diags:      diags,
		subst:      typesystem.NewSubst(),
		declTypes:  make(map[*ast.LetDeclaration]typesystem.Type),
		cons:       make(map[ast.Node]typesystem.TCon),
		aliasStack: make(map[*ast.TypeDeclaration]bool),
	}
	c.tInt = typesystem.TCon{ID: c.allocConID(), Name: "Int"}
	c.tString = typesystem.TCon{ID: c.allocConID(), Name: "String"}
	c.tBool = typesystem.TCon{ID: c.allocConID(), Name: "Bool"}
	return c
}

func (c *Checker) allocConID() int {
	id := c.nextConID
	c.nextConID++
	return id
}

// Subst exposes the accumulated solution for downstream tooling.
func (c *Checker) Subst() *typesystem.Subst {
	return c.subst
}

// Check walks the file, generates constraints per dependency group and
// solves them. Diagnostics land in the bag in discovery order.
func (c *Checker) Check(file *ast.SourceFile) {
	c.file = file.File
	ast.SetParents(file)
	c.resolver = scope.NewResolver()

	root := c.pushContext(nil)
	c.loadBuiltins(root.env)

	graph := depgraph.Build(file, c.resolver)
	for _, group := range graph.SCCs() {
		c.inferGroup(group)
	}

	c.inferLooseStatements(file.Statements)

	c.popContext(root)
	if len(c.contexts) != 0 {
		panic("context stack not empty after check")
	}

	c.solve(&ManyConstraint{Elements: root.constraints.items})
}

// inferLooseStatements infers the non-declaration statements of a file
// or module body. Let declarations were already handled in dependency
// order; type-introducing declarations only contribute scope entries.
func (c *Checker) inferLooseStatements(stmts []ast.Statement) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.LetDeclaration, *ast.StructDeclaration, *ast.EnumDeclaration, *ast.TypeDeclaration:
			// nothing to do here
		case *ast.ModuleDeclaration:
			c.inferLooseStatements(s.Body)
		default:
			c.inferStatement(stmt)
		}
	}
}

func (c *Checker) pushContext(returnType typesystem.Type) *inferContext {
	var parentEnv *typeEnv
	if len(c.contexts) > 0 {
		parentEnv = c.top().env
	}
	ctx := &inferContext{
		typeVars:    typesystem.NewVarSet(),
		constraints: &constraintList{},
		env:         newTypeEnv(parentEnv),
		returnType:  returnType,
	}
	c.contexts = append(c.contexts, ctx)
	return ctx
}

// pushChildContext pushes a frame that shares the group's variable set
// and constraint list but has its own environment and return type.
func (c *Checker) pushChildContext(group *inferContext) *inferContext {
	ctx := &inferContext{
		typeVars:    group.typeVars,
		constraints: group.constraints,
		env:         newTypeEnv(group.env),
	}
	c.contexts = append(c.contexts, ctx)
	return ctx
}

// pushExistingContext re-enters a frame built earlier for the same
// declaration.
func (c *Checker) pushExistingContext(ctx *inferContext) {
	c.contexts = append(c.contexts, ctx)
}

func (c *Checker) popContext(expected *inferContext) {
	if len(c.contexts) == 0 || c.top() != expected {
		panic("context stack push/pop mismatch")
	}
	c.contexts = c.contexts[:len(c.contexts)-1]
}

func (c *Checker) top() *inferContext {
	return c.contexts[len(c.contexts)-1]
}

// freshVar allocates a type variable owned by the innermost frame.
func (c *Checker) freshVar() typesystem.TVar {
	v := typesystem.TVar{ID: c.nextVarID}
	c.nextVarID++
	c.top().typeVars.Add(v)
	return v
}

// addConstraint attaches con to the innermost frame whose variables it
// mentions, falling back to the root. Constraints land where every
// variable they constrain is already introduced, but no earlier than
// their generalization boundary.
func (c *Checker) addConstraint(con Constraint) {
	switch cn := con.(type) {
	case *ManyConstraint:
		for _, e := range cn.Elements {
			c.addConstraint(e)
		}
	case *EqualConstraint:
		for i := len(c.contexts) - 1; i >= 1; i-- {
			f := c.contexts[i]
			if f.typeVars.Intersects(cn.Left) || f.typeVars.Intersects(cn.Right) {
				f.constraints.add(cn)
				return
			}
		}
		c.contexts[0].constraints.add(cn)
	default:
		panic(fmt.Sprintf("unexpected constraint %T", con))
	}
}

// loadBuiltins preloads the root environment.
func (c *Checker) loadBuiltins(env *typeEnv) {
	env.set("Int", monoScheme(c.tInt))
	env.set("String", monoScheme(c.tString))
	env.set("Bool", monoScheme(c.tBool))
	env.set("True", monoScheme(c.tBool))
	env.set("False", monoScheme(c.tBool))

	intBin := typesystem.TArrow{
		Params: []typesystem.Type{c.tInt, c.tInt},
		Return: c.tInt,
	}
	for _, op := range []string{"+", "-", "*", "/"} {
		env.set(op, monoScheme(intBin))
	}

	// == is polymorphic: a -> a -> Bool for any a.
	a := typesystem.TVar{ID: c.nextVarID}
	c.nextVarID++
	eqVars := typesystem.NewVarSet()
	eqVars.Add(a)
	env.set("==", &Scheme{
		TypeVars:    eqVars,
		Constraints: &constraintList{},
		Body: typesystem.TArrow{
			Params: []typesystem.Type{a, a},
			Return: c.tBool,
		},
	})

	env.set("not", monoScheme(typesystem.TArrow{
		Params: []typesystem.Type{c.tBool},
		Return: c.tBool,
	}))
}

// conOf returns the nominal constructor for a struct or enum
// declaration, assigning an id on first use. Enum members share their
// enum's constructor.
func (c *Checker) conOf(decl ast.Node) (typesystem.TCon, bool) {
	if con, ok := c.cons[decl]; ok {
		return con, true
	}
	switch d := decl.(type) {
	case *ast.StructDeclaration:
		con := typesystem.TCon{ID: c.allocConID(), Name: d.Name.Value}
		c.cons[decl] = con
		return con, true
	case *ast.EnumDeclaration:
		con := typesystem.TCon{ID: c.allocConID(), Name: d.Name.Value}
		c.cons[decl] = con
		return con, true
	case *ast.EnumMember:
		if parent, ok := d.Parent().(*ast.EnumDeclaration); ok {
			return c.conOf(parent)
		}
	}
	return typesystem.TCon{}, false
}
