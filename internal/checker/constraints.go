package checker

import (
	"github.com/loomlang/loom/internal/ast"
	"github.com/loomlang/loom/internal/typesystem"
)

// Constraint is an obligation the solver discharges after the file walk.
type Constraint interface {
	constraint()
}

// EqualConstraint demands structural equality of two types. Node carries
// the source location blamed when unification fails.
type EqualConstraint struct {
	Left  typesystem.Type
	Right typesystem.Type
	Node  ast.Node
}

func (*EqualConstraint) constraint() {}

// ManyConstraint groups constraints; the solver traverses it recursively.
type ManyConstraint struct {
	Elements []Constraint
}

func (*ManyConstraint) constraint() {}

// constraintList is a shared, growable constraint collection. A group
// frame and the schemes generalized from it hold the same list, so
// constraints recorded while the group is being inferred are visible to
// every later instantiation.
type constraintList struct {
	items []Constraint
}

func (cl *constraintList) add(c Constraint) {
	cl.items = append(cl.items, c)
}

// Scheme is a polymorphic type: a body quantified over TypeVars, plus
// the constraints that could not be discharged before generalization.
// Instantiation freshens the quantified variables and re-emits each
// deferred constraint under the same renaming.
type Scheme struct {
	TypeVars    *typesystem.VarSet
	Constraints *constraintList
	Body        typesystem.Type
}

// monoScheme wraps a plain type with nothing generalized.
func monoScheme(t typesystem.Type) *Scheme {
	return &Scheme{
		TypeVars:    typesystem.NewVarSet(),
		Constraints: &constraintList{},
		Body:        t,
	}
}

// typeEnv is one frame of the environment stack; inner frames shadow
// outer ones.
type typeEnv struct {
	parent   *typeEnv
	bindings map[string]*Scheme
}

func newTypeEnv(parent *typeEnv) *typeEnv {
	return &typeEnv{parent: parent, bindings: make(map[string]*Scheme)}
}

func (e *typeEnv) set(name string, s *Scheme) {
	e.bindings[name] = s
}

func (e *typeEnv) lookup(name string) (*Scheme, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if s, ok := cur.bindings[name]; ok {
			return s, true
		}
	}
	return nil, false
}

// inferContext is one frame of the checker's context stack. typeVars
// records the fresh variables introduced while this frame was innermost;
// constraints collects the equalities those variables bound.
// returnType is the type a ReturnStatement in this frame unifies with,
// nil outside declaration bodies.
type inferContext struct {
	typeVars    *typesystem.VarSet
	constraints *constraintList
	env         *typeEnv
	returnType  typesystem.Type
}
