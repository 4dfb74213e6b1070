package depgraph

// Dependency analysis over top-level let declarations. An edge u -> v
// means u's body references v, so v must be generalized before u.
// Tarjan's algorithm yields the strongly connected components with
// dependencies first, which is exactly the order the checker
// generalizes groups in.

import (
	"github.com/loomlang/loom/internal/ast"
	"github.com/loomlang/loom/internal/scope"
)

// Graph is an index-based adjacency structure over the declarations of
// one source file. Vertex ids are assigned in source order.
type Graph struct {
	decls   []*ast.LetDeclaration
	index   map[*ast.LetDeclaration]int
	edges   [][]int
	edgeSet []map[int]bool
}

// Build collects the top-level let declarations of file (including those
// directly inside module declarations) and records which declaration's
// body references which other.
func Build(file *ast.SourceFile, resolver *scope.Resolver) *Graph {
	g := &Graph{index: make(map[*ast.LetDeclaration]int)}
	collect(file.Statements, g)

	for i, d := range g.decls {
		g.walk(d, i, resolver)
	}
	return g
}

func collect(stmts []ast.Statement, g *Graph) {
	for _, stmt := range stmts {
		switch d := stmt.(type) {
		case *ast.LetDeclaration:
			g.index[d] = len(g.decls)
			g.decls = append(g.decls, d)
			g.edges = append(g.edges, nil)
			g.edgeSet = append(g.edgeSet, make(map[int]bool))
		case *ast.ModuleDeclaration:
			collect(d.Body, g)
		}
	}
}

// Decls returns the graph's vertices in source order.
func (g *Graph) Decls() []*ast.LetDeclaration {
	return g.decls
}

func (g *Graph) addEdge(from, to int) {
	if g.edgeSet[from][to] {
		return
	}
	g.edgeSet[from][to] = true
	g.edges[from] = append(g.edges[from], to)
}

// walk scans the body of the declaration at vertex from for references
// to other vertices.
func (g *Graph) walk(d *ast.LetDeclaration, from int, resolver *scope.Resolver) {
	var visit func(n ast.Node)
	visit = func(n ast.Node) {
		if ref, ok := n.(*ast.ReferenceExpression); ok {
			// Module-qualified references are unsupported; the checker
			// reports them, the graph just skips them.
			if len(ref.ModulePath) == 0 {
				g.resolveEdge(ref, from, resolver)
			}
			return
		}
		for _, c := range ast.Children(n) {
			visit(c)
		}
	}
	if d.Body != nil {
		visit(d.Body)
	}
	for _, stmt := range d.Block {
		visit(stmt)
	}
}

func (g *Graph) resolveEdge(ref *ast.ReferenceExpression, from int, resolver *scope.Resolver) {
	sc := resolver.ScopeOf(ref)
	if sc == nil {
		return
	}
	entry, ok := sc.Lookup(ref.Name.Value, scope.KindVar)
	if !ok {
		return
	}
	target := entry.Decl
	// A reference to a parameter captures the enclosing declaration.
	if p, ok := target.(*ast.Param); ok {
		target = p.Parent()
	}
	if let, ok := target.(*ast.LetDeclaration); ok {
		if to, ok := g.index[let]; ok {
			g.addEdge(from, to)
		}
	}
}

// SCCs returns the strongly connected components in reverse topological
// order: every group comes after the groups it depends on.
func (g *Graph) SCCs() [][]*ast.LetDeclaration {
	n := len(g.decls)
	const unvisited = -1

	indexOf := make([]int, n)
	lowlink := make([]int, n)
	onStack := make([]bool, n)
	for i := range indexOf {
		indexOf[i] = unvisited
	}

	var (
		counter int
		stack   []int
		out     [][]*ast.LetDeclaration
		strong  func(v int)
	)

	strong = func(v int) {
		indexOf[v] = counter
		lowlink[v] = counter
		counter++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.edges[v] {
			if indexOf[w] == unvisited {
				strong(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if indexOf[w] < lowlink[v] {
					lowlink[v] = indexOf[w]
				}
			}
		}

		if lowlink[v] == indexOf[v] {
			var comp []*ast.LetDeclaration
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				comp = append(comp, g.decls[w])
				if w == v {
					break
				}
			}
			out = append(out, comp)
		}
	}

	for v := 0; v < n; v++ {
		if indexOf[v] == unvisited {
			strong(v)
		}
	}
	return out
}
