package depgraph

import (
	"testing"

	"github.com/loomlang/loom/internal/ast"
	"github.com/loomlang/loom/internal/diagnostics"
	"github.com/loomlang/loom/internal/lexer"
	"github.com/loomlang/loom/internal/parser"
	"github.com/loomlang/loom/internal/scope"
)

func buildGraph(t *testing.T, input string) *Graph {
	t.Helper()
	bag := diagnostics.NewBag()
	p := parser.New(lexer.New(input), "test.loom", bag)
	file := p.ParseSourceFile()
	if bag.HasErrors() {
		for _, d := range bag.Items() {
			t.Log(d.Error())
		}
		t.Fatal("unexpected parse errors")
	}
	ast.SetParents(file)
	return Build(file, scope.NewResolver())
}

func nameOf(d *ast.LetDeclaration) string {
	switch p := d.Pattern.(type) {
	case *ast.BindPattern:
		return p.Name.Value
	case *ast.WrappedOperator:
		return p.Op.Literal
	}
	return "?"
}

func sccNames(groups [][]*ast.LetDeclaration) [][]string {
	out := make([][]string, len(groups))
	for i, g := range groups {
		for _, d := range g {
			out[i] = append(out[i], nameOf(d))
		}
	}
	return out
}

func TestDependenciesComeFirst(t *testing.T) {
	g := buildGraph(t, `
let c = a 2
let a x = x
let b = a 1
`)
	groups := sccNames(g.SCCs())
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %v", groups)
	}
	// a has no dependencies, so it must come before both users,
	// whatever their source order.
	posOf := func(name string) int {
		for i, group := range groups {
			for _, n := range group {
				if n == name {
					return i
				}
			}
		}
		t.Fatalf("%s not found in %v", name, groups)
		return -1
	}
	if posOf("a") > posOf("c") || posOf("a") > posOf("b") {
		t.Errorf("expected a before its users, got %v", groups)
	}
}

func TestMutualRecursionFormsOneGroup(t *testing.T) {
	g := buildGraph(t, `
let f n = g n
let g n = f n
let user = f 1
`)
	groups := g.SCCs()
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %v", sccNames(groups))
	}
	if len(groups[0]) != 2 {
		t.Fatalf("expected the cycle first, got %v", sccNames(groups))
	}
	if len(groups[1]) != 1 || nameOf(groups[1][0]) != "user" {
		t.Errorf("expected user last, got %v", sccNames(groups))
	}
}

func TestSelfRecursionIsASingletonCycle(t *testing.T) {
	g := buildGraph(t, `
let loop n = loop n
`)
	groups := g.SCCs()
	if len(groups) != 1 || len(groups[0]) != 1 {
		t.Fatalf("expected a single singleton group, got %v", sccNames(groups))
	}
}

func TestParamReferenceRetargetsToDeclaration(t *testing.T) {
	// The reference to x inside f resolves to a parameter; the edge is
	// retargeted to f itself, forming a self-loop, not an edge to some
	// other vertex.
	g := buildGraph(t, `
let f x = x
let u = f 1
`)
	if len(g.Decls()) != 2 {
		t.Fatalf("expected 2 vertices, got %d", len(g.Decls()))
	}
	if !g.edgeSet[0][0] {
		t.Errorf("expected a self-loop on f, got edges %v", g.edges)
	}
	groups := g.SCCs()
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %v", sccNames(groups))
	}
}

func TestModuleLetsAreVertices(t *testing.T) {
	g := buildGraph(t, `
mod geo.
  let area r = r * r
let a = 1
`)
	if len(g.Decls()) != 2 {
		t.Fatalf("expected module lets to be vertices, got %d", len(g.Decls()))
	}
}

func TestQualifiedReferencesIgnored(t *testing.T) {
	g := buildGraph(t, `
mod geo.
  let area r = r * r
let a = geo.area 2
`)
	// The qualified reference adds no edge; both declarations are
	// singleton groups.
	groups := g.SCCs()
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %v", sccNames(groups))
	}
}

func TestNestedReferencesCountForTheEnclosingDeclaration(t *testing.T) {
	g := buildGraph(t, `
let helper x = x
let f y.
  let inner = helper y
  return inner
`)
	groups := sccNames(g.SCCs())
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %v", groups)
	}
	if groups[0][0] != "helper" {
		t.Errorf("expected helper first, got %v", groups)
	}
}

func TestUnknownReferencesAddNoEdges(t *testing.T) {
	g := buildGraph(t, `
let f x = frobnicate x
`)
	groups := g.SCCs()
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %v", sccNames(groups))
	}
}
