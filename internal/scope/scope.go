package scope

// Name resolution over the syntax tree. Scopes are built lazily, one per
// scope-bearing node (source file, module declaration, let declaration),
// and live in a side table keyed by node identity so the tree itself is
// never mutated.

import (
	"github.com/loomlang/loom/internal/ast"
)

// Kind is a bitmask of declaration namespaces. A lookup passes the union
// of the kinds it will accept.
type Kind uint8

const (
	KindVar Kind = 1 << iota
	KindType
	KindModule
)

// Entry is one declaration visible in a scope. Decl is the declaring
// node: a LetDeclaration, Param, StructDeclaration, EnumDeclaration,
// EnumMember, TypeDeclaration or ModuleDeclaration.
type Entry struct {
	Kind Kind
	Decl ast.Node
}

// Scope indexes the names declared under one anchor node.
type Scope struct {
	anchor   ast.Node
	resolver *Resolver
	entries  map[string][]Entry
}

// Resolver owns the scope side table for one check session. It must not
// be reused across re-parses of the same tree.
type Resolver struct {
	scopes map[ast.Node]*Scope
}

func NewResolver() *Resolver {
	return &Resolver{scopes: make(map[ast.Node]*Scope)}
}

// isScopeBearing reports whether n anchors a scope.
func isScopeBearing(n ast.Node) bool {
	switch n.(type) {
	case *ast.SourceFile, *ast.ModuleDeclaration, *ast.LetDeclaration:
		return true
	}
	return false
}

// ScopeOf returns the scope for the nearest scope-bearing node at or
// above n, building it on first access.
func (r *Resolver) ScopeOf(n ast.Node) *Scope {
	anchor := n
	for anchor != nil && !isScopeBearing(anchor) {
		anchor = anchor.Parent()
	}
	if anchor == nil {
		return nil
	}
	if s, ok := r.scopes[anchor]; ok {
		return s
	}
	s := &Scope{anchor: anchor, resolver: r, entries: make(map[string][]Entry)}
	r.scopes[anchor] = s
	s.build()
	return s
}

// Lookup finds the first declaration named name whose kind intersects
// mask, walking outward through enclosing scopes.
func (s *Scope) Lookup(name string, mask Kind) (Entry, bool) {
	for cur := s; cur != nil; cur = cur.parent() {
		for _, e := range cur.entries[name] {
			if e.Kind&mask != 0 {
				return e, true
			}
		}
	}
	return Entry{}, false
}

// parent returns the scope of the nearest scope-bearing ancestor of the
// anchor, or nil at the source file.
func (s *Scope) parent() *Scope {
	p := s.anchor.Parent()
	if p == nil {
		return nil
	}
	return s.resolver.ScopeOf(p)
}

func (s *Scope) add(name string, kind Kind, decl ast.Node) {
	s.entries[name] = append(s.entries[name], Entry{Kind: kind, Decl: decl})
}

// build populates the scope by walking the anchor to depth one in a
// node-specific pattern.
func (s *Scope) build() {
	switch anchor := s.anchor.(type) {
	case *ast.SourceFile:
		for _, stmt := range anchor.Statements {
			s.addDeclaration(stmt)
		}
	case *ast.ModuleDeclaration:
		for _, stmt := range anchor.Body {
			s.addDeclaration(stmt)
		}
	case *ast.LetDeclaration:
		for _, p := range anchor.Params {
			s.addPattern(p.Pattern, p)
		}
		for _, stmt := range anchor.Block {
			s.addNestedLets(stmt)
		}
	}
}

// addDeclaration indexes one direct child declaration of a file or
// module anchor. Statements contribute no bindings.
func (s *Scope) addDeclaration(stmt ast.Statement) {
	switch d := stmt.(type) {
	case *ast.ModuleDeclaration:
		s.add(d.Name.Value, KindModule, d)
	case *ast.StructDeclaration:
		// The struct name doubles as its constructor.
		s.add(d.Name.Value, KindType|KindVar, d)
	case *ast.EnumDeclaration:
		s.add(d.Name.Value, KindType, d)
		for _, m := range d.Members {
			s.add(m.Name.Value, KindVar, m)
		}
	case *ast.TypeDeclaration:
		s.add(d.Name.Value, KindType, d)
	case *ast.LetDeclaration:
		s.addPattern(d.Pattern, d)
	}
}

// addNestedLets collects let bindings in a let declaration's body.
// If statements do not open scopes, so lets inside their arms belong to
// the enclosing declaration.
func (s *Scope) addNestedLets(stmt ast.Statement) {
	switch d := stmt.(type) {
	case *ast.LetDeclaration:
		s.addPattern(d.Pattern, d)
	case *ast.IfStatement:
		for _, c := range d.Cases {
			for _, inner := range c.Body {
				s.addNestedLets(inner)
			}
		}
	}
}

// addPattern indexes every name a pattern binds, attributing each to
// decl.
func (s *Scope) addPattern(p ast.Pattern, decl ast.Node) {
	switch pat := p.(type) {
	case *ast.BindPattern:
		s.add(pat.Name.Value, KindVar, decl)
	case *ast.WrappedOperator:
		s.add(pat.Op.Literal, KindVar, decl)
	case *ast.StructPattern:
		for _, f := range pat.Fields {
			switch field := f.(type) {
			case *ast.PunnedStructPatternField:
				s.add(field.Name.Value, KindVar, decl)
			case *ast.StructPatternField:
				s.addPattern(field.Pattern, decl)
			case *ast.VariadicStructPatternElement:
				if field.Pattern != nil {
					s.addPattern(field.Pattern, decl)
				}
			}
		}
	}
}
