package typesystem

import (
	"strings"
	"testing"
)

func TestSubstTransitiveLookup(t *testing.T) {
	s := NewSubst()
	a := TVar{ID: 0}
	b := TVar{ID: 1}
	intCon := TCon{ID: 0, Name: "Int"}

	s.Set(a, b)
	s.Set(b, intCon)

	got, ok := s.Get(a)
	if !ok {
		t.Fatal("expected a to be mapped")
	}
	if got.String() != "Int" {
		t.Errorf("expected transitive lookup to yield Int, got %s", got)
	}

	// After compression a second lookup resolves directly.
	got, _ = s.Get(a)
	if got.String() != "Int" {
		t.Errorf("expected compressed lookup to yield Int, got %s", got)
	}
}

func TestSubstSetTwicePanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic on double set")
		}
	}()
	s := NewSubst()
	v := TVar{ID: 7}
	s.Set(v, TCon{ID: 0, Name: "Int"})
	s.Set(v, TCon{ID: 1, Name: "String"})
}

func TestApplySharesUnchangedTrees(t *testing.T) {
	s := NewSubst()
	s.Set(TVar{ID: 99}, TCon{ID: 0, Name: "Int"})

	arrow := TArrow{
		Params: []Type{TCon{ID: 1, Name: "String"}},
		Return: TCon{ID: 0, Name: "Int"},
	}
	applied := arrow.Apply(s).(TArrow)
	if &applied.Params[0] != &arrow.Params[0] {
		t.Error("expected unchanged parameter slice to be shared")
	}
}

func TestApplyRebuildsChangedTrees(t *testing.T) {
	s := NewSubst()
	v := TVar{ID: 3}
	s.Set(v, TCon{ID: 0, Name: "Int"})

	arrow := TArrow{Params: []Type{v}, Return: v}
	applied := arrow.Apply(s)
	if applied.String() != "Int -> Int" {
		t.Errorf("expected Int -> Int, got %s", applied)
	}
	// Applying again changes nothing: the substitution is idempotent
	// once fully applied.
	again := applied.Apply(s)
	if again.String() != applied.String() {
		t.Errorf("expected idempotent application, got %s then %s", applied, again)
	}
}

func TestHasVar(t *testing.T) {
	v := TVar{ID: 5}
	nested := TArrow{
		Params: []Type{TTuple{Elements: []Type{v}}},
		Return: TCon{ID: 0, Name: "Int"},
	}
	if !HasVar(nested, v) {
		t.Error("expected v to occur in nested type")
	}
	if HasVar(nested, TVar{ID: 6}) {
		t.Error("did not expect t6 to occur")
	}
}

func TestVarSetIntersectsAndOrder(t *testing.T) {
	vs := NewVarSet()
	for _, id := range []int{4, 2, 9} {
		vs.Add(TVar{ID: id})
	}
	vs.Add(TVar{ID: 2}) // duplicate

	if vs.Len() != 3 {
		t.Fatalf("expected 3 members, got %d", vs.Len())
	}
	all := vs.All()
	want := []int{4, 2, 9}
	for i, v := range all {
		if v.ID != want[i] {
			t.Errorf("expected insertion order %v, got %v at %d", want, v.ID, i)
		}
	}

	arrow := TArrow{Params: []Type{TVar{ID: 9}}, Return: TCon{ID: 0, Name: "Int"}}
	if !vs.Intersects(arrow) {
		t.Error("expected intersection via t9")
	}
	vs.Delete(TVar{ID: 9})
	if vs.Intersects(arrow) {
		t.Error("expected no intersection after delete")
	}
}

func TestTypeStrings(t *testing.T) {
	intCon := TCon{ID: 0, Name: "Int"}
	boolCon := TCon{ID: 2, Name: "Bool"}
	tests := []struct {
		typ  Type
		want string
	}{
		{TVar{ID: 3}, "t3"},
		{intCon, "Int"},
		{TCon{ID: 5, Name: "List", Args: []Type{intCon}}, "List Int"},
		{TArrow{Params: []Type{intCon, intCon}, Return: boolCon}, "Int -> Int -> Bool"},
		{TTuple{}, "()"},
		{TAny{}, "Any"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}

	// Arrow parameters that are themselves arrows get parenthesised.
	hof := TArrow{
		Params: []Type{TArrow{Params: []Type{intCon}, Return: intCon}},
		Return: intCon,
	}
	if got := hof.String(); !strings.HasPrefix(got, "(") {
		t.Errorf("expected parenthesised arrow parameter, got %q", got)
	}
}
