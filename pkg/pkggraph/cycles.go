package pkggraph

import "slices"

// Cycles reports simple-path cycles in a forward graph. For every entry node
// a depth-first traversal carries the chain of keys walked so far; a child
// whose key is already on the chain closes a cycle, reported as the chain
// with that key appended. The traversal does not descend past missing
// dependencies.
//
// The same underlying cycle is reported once per rotation and once per entry
// it is reachable from. That redundancy is deliberate; collapsing rotations
// is a presentation decision left to renderers.
func Cycles(g *Graph) [][]string {
	var cycles [][]string

	var walk func(key string, chain []string)
	walk = func(key string, chain []string) {
		for _, c := range g.children[key] {
			req, ok := c.(*Req)
			if !ok {
				continue
			}
			childKey := req.Key()
			if slices.Contains(chain, childKey) {
				cycle := append(slices.Clone(chain), childKey)
				cycles = append(cycles, cycle)
				continue
			}
			if req.Dist() == nil {
				continue
			}
			if _, present := g.nodes[childKey]; !present {
				continue
			}
			walk(childKey, append(chain, childKey))
		}
	}

	for _, key := range g.order {
		walk(key, []string{key})
	}
	return cycles
}
