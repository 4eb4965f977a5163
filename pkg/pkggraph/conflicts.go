package pkggraph

// Conflict pairs a distribution with its unsatisfied requirements, in
// declaration order.
type Conflict struct {
	Dist         *Dist
	Requirements []*Req
}

// Conflicts reports the requirements of a forward graph whose installed
// version fails the declared specifier, grouped by declaring distribution in
// graph order. A requirement without a specifier never conflicts; one with a
// specifier whose target is missing always does.
func Conflicts(g *Graph) []Conflict {
	var conflicts []Conflict
	for _, key := range g.order {
		dist, ok := g.nodes[key].(*Dist)
		if !ok {
			continue
		}
		var bad []*Req
		for _, c := range g.children[key] {
			req, ok := c.(*Req)
			if !ok {
				continue
			}
			if req.IsConflicting() {
				bad = append(bad, req)
			}
		}
		if len(bad) > 0 {
			conflicts = append(conflicts, Conflict{Dist: dist, Requirements: bad})
		}
	}
	return conflicts
}
