package render

import (
	"encoding/json"

	"deptree/pkg/pkggraph"
)

// jsonEntry is one element of the flat JSON output.
type jsonEntry struct {
	Package      pkggraph.Record   `json:"package"`
	Dependencies []pkggraph.Record `json:"dependencies"`
}

// JSON renders the graph as a flat JSON array: one entry per package with
// its direct dependencies. Output is key-ordered and suitable for machine
// consumption.
func JSON(g *pkggraph.Graph) (string, error) {
	sorted := g.Sort()
	entries := make([]jsonEntry, 0, sorted.Len())
	for _, n := range sorted.Keys() {
		deps := make([]pkggraph.Record, 0)
		for _, c := range sorted.ChildrenOf(n.Key()) {
			deps = append(deps, c.AsRecord())
		}
		entries = append(entries, jsonEntry{Package: n.AsRecord(), Dependencies: deps})
	}

	out, err := json.MarshalIndent(entries, "", "    ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}
