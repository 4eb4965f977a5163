package render

import (
	"fmt"
	"sort"
	"strings"

	"deptree/pkg/pkggraph"
)

// mermaidReserved lists identifiers Mermaid rejects as node names; such keys
// get a numeric suffix.
var mermaidReserved = map[string]bool{
	"C4Component": true, "C4Container": true, "C4Deployment": true,
	"C4Dynamic": true, "_blank": true, "_parent": true, "_self": true,
	"_top": true, "call": true, "class": true, "classDef": true,
	"click": true, "end": true, "flowchart": true, "flowchart-v2": true,
	"graph": true, "interpolate": true, "linkStyle": true, "style": true,
	"subgraph": true,
}

// mermaidIDs assigns stable Mermaid-safe identifiers to graph keys.
type mermaidIDs map[string]string

func (m mermaidIDs) id(key string) string {
	if id, ok := m[key]; ok {
		return id
	}
	if !mermaidReserved[key] {
		m[key] = key
		return key
	}
	for n := 0; ; n++ {
		candidate := fmt.Sprintf("%s_%d", key, n)
		taken := false
		for _, id := range m {
			if id == candidate {
				taken = true
				break
			}
		}
		if !taken {
			m[key] = candidate
			return candidate
		}
	}
}

// Mermaid renders the graph as a Mermaid flowchart. Missing dependencies are
// drawn with a dashed class; reversed graphs label edges with the
// originating requirement's specifier. Node and edge lines are sorted for
// deterministic output.
func Mermaid(g *pkggraph.Graph) string {
	ids := make(mermaidIDs)
	nodes := make(map[string]bool)
	edges := make(map[string]bool)

	if g.Reversed() {
		for _, n := range g.Keys() {
			req := n.(*pkggraph.Req)
			label := req.ProjectName() + "\\n" + missingOrVersion(req)
			key := ids.id(req.Key())
			nodes[fmt.Sprintf("%s[\"%s\"]", key, label)] = true
			for _, c := range g.ChildrenOf(req.Key()) {
				dist := c.(*pkggraph.Dist)
				edgeLabel := "any"
				if dist.Via() != nil && dist.Via().VersionSpec() != "" {
					edgeLabel = dist.Via().VersionSpec()
				}
				edges[fmt.Sprintf("%s -- \"%s\" --> %s", key, edgeLabel, ids.id(dist.Key()))] = true
			}
		}
	} else {
		for _, n := range g.Keys() {
			dist := n.(*pkggraph.Dist)
			label := dist.ProjectName() + "\\n" + dist.Version()
			key := ids.id(dist.Key())
			nodes[fmt.Sprintf("%s[\"%s\"]", key, label)] = true
			for _, c := range g.ChildrenOf(dist.Key()) {
				req := c.(*pkggraph.Req)
				depKey := ids.id(req.Key())
				if req.IsMissing() {
					depLabel := req.ProjectName() + "\\n(missing)"
					nodes[fmt.Sprintf("%s[\"%s\"]:::missing", depKey, depLabel)] = true
					edges[fmt.Sprintf("%s -.-> %s", key, depKey)] = true
					continue
				}
				edgeLabel := req.VersionSpec()
				if edgeLabel == "" {
					edgeLabel = "any"
				}
				edges[fmt.Sprintf("%s -- \"%s\" --> %s", key, edgeLabel, depKey)] = true
			}
		}
	}

	const indent = "    "
	var b strings.Builder
	b.WriteString("flowchart TD\n")
	b.WriteString(indent + "classDef missing stroke-dasharray: 5\n")
	for _, line := range sortedKeys(nodes) {
		b.WriteString(indent + line + "\n")
	}
	for _, line := range sortedKeys(edges) {
		b.WriteString(indent + line + "\n")
	}
	return b.String()
}

// missingOrVersion labels a requirement node with its installed version or
// a missing marker.
func missingOrVersion(req *pkggraph.Req) string {
	if req.IsMissing() {
		return "(missing)"
	}
	return req.InstalledVersion()
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
