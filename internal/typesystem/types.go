package typesystem

import (
	"fmt"
	"strings"
)

// Type is the interface for all types in our system. Types are immutable
// value trees; Apply returns the receiver itself when nothing changed so
// unchanged subtrees stay shared.
type Type interface {
	String() string
	Apply(s *Subst) Type
	FreeTypeVariables() []TVar
}

// TVar represents a type variable. Ids are assigned monotonically by the
// checker and are unique for a whole check session.
type TVar struct {
	ID int
}

func (t TVar) String() string {
	return fmt.Sprintf("t%d", t.ID)
}

func (t TVar) Apply(s *Subst) Type {
	out, _ := apply(t, s)
	return out
}

func (t TVar) FreeTypeVariables() []TVar {
	return []TVar{t}
}

// TCon represents a nominal type constructor (e.g. Int, Bool, a user enum).
// Identity is the ID; Name is for display only. Arity is uniform: every
// occurrence of the same ID carries the same number of arguments.
type TCon struct {
	ID   int
	Name string
	Args []Type
}

func (t TCon) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return t.Name + " " + strings.Join(parts, " ")
}

func (t TCon) Apply(s *Subst) Type {
	out, _ := apply(t, s)
	return out
}

func (t TCon) FreeTypeVariables() []TVar {
	return freeOfAll(t.Args)
}

// TArrow represents a function type with an ordered parameter list.
type TArrow struct {
	Params []Type
	Return Type
}

func (t TArrow) String() string {
	parts := make([]string, 0, len(t.Params)+1)
	for _, p := range t.Params {
		if _, ok := p.(TArrow); ok {
			parts = append(parts, "("+p.String()+")")
		} else {
			parts = append(parts, p.String())
		}
	}
	parts = append(parts, t.Return.String())
	return strings.Join(parts, " -> ")
}

func (t TArrow) Apply(s *Subst) Type {
	out, _ := apply(t, s)
	return out
}

func (t TArrow) FreeTypeVariables() []TVar {
	vars := freeOfAll(t.Params)
	return append(vars, t.Return.FreeTypeVariables()...)
}

// TTuple represents an ordered tuple; the empty tuple is the unit type.
type TTuple struct {
	Elements []Type
}

func (t TTuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (t TTuple) Apply(s *Subst) Type {
	out, _ := apply(t, s)
	return out
}

func (t TTuple) FreeTypeVariables() []TVar {
	return freeOfAll(t.Elements)
}

// TAny is the error sentinel produced when name resolution fails. It
// unifies with everything so one unknown name does not cascade.
type TAny struct{}

func (t TAny) String() string {
	return "Any"
}

func (t TAny) Apply(s *Subst) Type {
	return t
}

func (t TAny) FreeTypeVariables() []TVar {
	return nil
}

// apply is the single traversal behind every Apply method. The second
// result reports whether anything changed; callers use it to keep
// unchanged subtrees shared instead of reallocating them.
func apply(t Type, s *Subst) (Type, bool) {
	switch typ := t.(type) {
	case TVar:
		if mapped, ok := s.Get(typ); ok {
			out, _ := apply(mapped, s)
			return out, true
		}
		return typ, false

	case TCon:
		newArgs, changed := applyAll(typ.Args, s)
		if !changed {
			return typ, false
		}
		return TCon{ID: typ.ID, Name: typ.Name, Args: newArgs}, true

	case TArrow:
		newParams, paramsChanged := applyAll(typ.Params, s)
		newReturn, returnChanged := apply(typ.Return, s)
		if !paramsChanged && !returnChanged {
			return typ, false
		}
		return TArrow{Params: newParams, Return: newReturn}, true

	case TTuple:
		newElems, changed := applyAll(typ.Elements, s)
		if !changed {
			return typ, false
		}
		return TTuple{Elements: newElems}, true

	default:
		return t, false
	}
}

// HasVar reports whether v occurs anywhere in t.
func HasVar(t Type, v TVar) bool {
	for _, fv := range t.FreeTypeVariables() {
		if fv.ID == v.ID {
			return true
		}
	}
	return false
}

func applyAll(ts []Type, s *Subst) ([]Type, bool) {
	changed := false
	out := make([]Type, len(ts))
	for i, t := range ts {
		applied, didChange := apply(t, s)
		out[i] = applied
		if didChange {
			changed = true
		}
	}
	if !changed {
		return ts, false
	}
	return out, true
}

func freeOfAll(ts []Type) []TVar {
	var vars []TVar
	for _, t := range ts {
		vars = append(vars, t.FreeTypeVariables()...)
	}
	return vars
}
