// Package pkggraph models installed packages and their declared dependency
// requirements as an immutable directed graph, and implements the structural
// queries over it: roots, children, filtering, reversal, cycle detection and
// conflict detection.
//
// The forward graph maps each installed distribution (*Dist) to its declared
// requirements (*Req) in declaration order. Reverse turns the mapping around:
// requirement-keyed entries whose children are the distributions that declare
// them. Graphs are never mutated after construction; Filter, Reverse and Sort
// allocate new graphs, so a single graph can safely be analyzed from multiple
// goroutines.
package pkggraph

import (
	"slices"
	"sort"
)

// Graph is an ordered, immutable mapping from entry nodes to their children,
// with an O(1) key index built once at construction.
type Graph struct {
	reversed bool
	order    []string
	nodes    map[string]Node
	children map[string][]Node
}

// builder accumulates entries before freezing them into a Graph, keeping the
// mutation phase and the immutable result apart.
type builder struct {
	g *Graph
}

func newBuilder(reversed bool) *builder {
	return &builder{g: &Graph{
		reversed: reversed,
		nodes:    make(map[string]Node),
		children: make(map[string][]Node),
	}}
}

// ensure registers n as an entry node and returns the canonical instance:
// the first node added under a key wins, later additions are dropped in
// favor of the existing entry.
func (b *builder) ensure(n Node) Node {
	if existing, ok := b.g.nodes[n.Key()]; ok {
		return existing
	}
	b.g.nodes[n.Key()] = n
	b.g.order = append(b.g.order, n.Key())
	return n
}

// set registers an entry together with its full child list.
func (b *builder) set(n Node, children []Node) {
	b.ensure(n)
	b.g.children[n.Key()] = children
}

// appendChild appends one child to an existing entry.
func (b *builder) appendChild(key string, child Node) {
	b.g.children[key] = append(b.g.children[key], child)
}

// freeze returns the accumulated graph. The builder must not be used
// afterwards.
func (b *builder) freeze() *Graph {
	g := b.g
	b.g = nil
	return g
}

// Len returns the number of entry nodes.
func (g *Graph) Len() int { return len(g.order) }

// Reversed reports whether entries are requirements (true) or installed
// distributions (false).
func (g *Graph) Reversed() bool { return g.reversed }

// Keys returns the entry nodes in graph order. The slice is freshly
// allocated; the nodes are shared.
func (g *Graph) Keys() []Node {
	nodes := make([]Node, len(g.order))
	for i, k := range g.order {
		nodes[i] = g.nodes[k]
	}
	return nodes
}

// NodeFor returns the entry node for a key, if present.
func (g *Graph) NodeFor(key string) (Node, bool) {
	n, ok := g.nodes[key]
	return n, ok
}

// ChildrenOf returns the children of the entry with the given key, empty if
// the key is unknown. The returned slice must not be modified.
func (g *Graph) ChildrenOf(key string) []Node {
	return g.children[key]
}

// branchKeys returns the set of keys appearing as children anywhere in the
// graph.
func (g *Graph) branchKeys() map[string]bool {
	keys := make(map[string]bool)
	for _, cs := range g.children {
		for _, c := range cs {
			keys[c.Key()] = true
		}
	}
	return keys
}

// Roots returns the entry nodes that never appear as a child of any other
// entry, in graph order.
func (g *Graph) Roots() []Node {
	branches := g.branchKeys()
	var roots []Node
	for _, k := range g.order {
		if !branches[k] {
			roots = append(roots, g.nodes[k])
		}
	}
	return roots
}

// Sort returns a copy of the graph with entries ordered alphabetically by
// key and each child list ordered alphabetically by key. Renderers rely on
// this for deterministic output and never re-sort themselves.
func (g *Graph) Sort() *Graph {
	b := newBuilder(g.reversed)
	order := slices.Clone(g.order)
	sort.Strings(order)
	for _, k := range order {
		children := slices.Clone(g.children[k])
		sort.SliceStable(children, func(i, j int) bool {
			return children[i].Key() < children[j].Key()
		})
		b.set(g.nodes[k], children)
	}
	return b.freeze()
}
