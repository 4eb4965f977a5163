package pkggraph

// Reverse turns the graph upside-down: the directions of all edges flip, and
// keys and values swap roles. Reversing a forward graph yields entries keyed
// by requirement with the declaring distributions as children, each carrying
// the specific requirement it satisfies so reverse rendering can label the
// edge. Reversing again reconstructs a graph structurally equivalent to the
// original.
//
// Reverse works purely on the nodes present in the graph, so the order of
// Filter and Reverse matters: filtering a reversed graph filters by the
// reversed notion of "children".
func (g *Graph) Reverse() *Graph {
	if g.reversed {
		return g.unreverse()
	}

	b := newBuilder(true)
	branches := g.branchKeys()
	for _, key := range g.order {
		dist := g.nodes[key].(*Dist)
		for _, c := range g.children[key] {
			req := c.(*Req)
			// Reuse the canonical requirement node if an earlier
			// edge already introduced this key.
			entry := b.ensure(req)
			b.appendChild(entry.Key(), dist.AsParentOf(req))
		}
		// True roots are not depended upon by anything; keep them
		// visible as requirement-keyed entries with no children.
		if !branches[key] {
			b.set(dist.AsRequirement(), nil)
		}
	}
	return b.freeze()
}

// unreverse rebuilds the forward form from a reversed graph.
func (g *Graph) unreverse() *Graph {
	b := newBuilder(false)
	branches := g.branchKeys()
	for _, key := range g.order {
		req := g.nodes[key].(*Req)
		for _, c := range g.children[key] {
			dist := c.(*Dist)
			entry := b.ensure(dist.AsParentOf(nil))
			b.appendChild(entry.Key(), req)
		}
		// A requirement that is never a parent in the reversed form
		// is a true leaf; reintroduce its distribution as a childless
		// entry. Missing dependencies have no distribution to restore.
		if !branches[key] && req.dist != nil {
			b.ensure(req.dist)
		}
	}
	return b.freeze()
}
