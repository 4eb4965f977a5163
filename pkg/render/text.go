// Package render turns a package graph into its textual representations:
// indented tree, pip-freeze lines, flat JSON, nested JSON and a Mermaid
// flowchart. Graphviz output lives in the dot subpackage to keep the
// graphviz dependency out of callers that never need it.
//
// All renderers operate on the graph accessor contract only and sort the
// graph themselves where determinism is required.
package render

import (
	"fmt"
	"io"
	"strings"

	"deptree/pkg/pkggraph"
)

// TextOptions controls the tree renderer.
type TextOptions struct {
	// MaxDepth limits how deep branches are expanded; negative means
	// unlimited, zero shows only the top level.
	MaxDepth int

	// ListAll lists every package at the top level instead of only the
	// ones nothing depends on.
	ListAll bool

	// Unicode selects box-drawing bullets; plain "-" indentation is used
	// otherwise (for legacy encodings).
	Unicode bool

	// IncludeLicense appends license metadata to top-level lines.
	IncludeLicense bool
}

// within reports whether a depth is still inside the configured limit.
func (o TextOptions) within(depth int) bool {
	return o.MaxDepth < 0 || depth <= o.MaxDepth
}

// TopLevel returns the nodes rendered at the first depth of the tree, from a
// sorted copy of the graph: all entries when listAll is set, otherwise only
// the entries no other package depends on.
func TopLevel(g *pkggraph.Graph, listAll bool) (*pkggraph.Graph, []pkggraph.Node) {
	sorted := g.Sort()
	if listAll {
		return sorted, sorted.Keys()
	}
	return sorted, sorted.Roots()
}

// Text writes the dependency tree to w.
func Text(w io.Writer, g *pkggraph.Graph, opts TextOptions) error {
	sorted, nodes := TopLevel(g, opts.ListAll)

	var lines []string
	for _, n := range nodes {
		if opts.Unicode {
			lines = append(lines, unicodeBranch(sorted, opts, branchState{node: n, chain: []string{n.ProjectName()}})...)
		} else {
			lines = append(lines, asciiBranch(sorted, opts, n, false, 0, []string{n.ProjectName()}, 0)...)
		}
	}

	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}

// branchState carries the per-branch rendering context for the unicode
// layout: the indentation bookkeeping mirrors how each ancestor was placed.
type branchState struct {
	node            pkggraph.Node
	hasParent       bool
	indent          int
	chain           []string
	prefix          string
	depth           int
	hasGrandParent  bool
	isLastChild     bool
	parentIsLastKid bool
}

func unicodeBranch(g *pkggraph.Graph, opts TextOptions, st branchState) []string {
	nodeStr := pkggraph.RenderNode(st.node, st.hasParent, false)
	nextPrefix := ""
	nextIndent := st.indent + 2

	if st.hasParent {
		bullet := "├── "
		if st.isLastChild {
			bullet = "└── "
		}
		prefix := st.prefix
		if st.hasGrandParent {
			nextIndent--
			if st.parentIsLastKid {
				prefix += strings.Repeat(" ", st.indent+1-st.depth)
			} else {
				prefix += "│" + strings.Repeat(" ", st.indent-st.depth)
			}
			// Keep the bullet aligned with the project name rather
			// than the space before it.
			prefix += " "
		}
		nextPrefix = prefix
		nodeStr = prefix + bullet + nodeStr
	} else if opts.IncludeLicense {
		nodeStr += " " + licenseOf(st.node)
	}

	result := []string{nodeStr}
	children := renderableChildren(g, st.node, st.chain, opts, st.depth)
	for i, c := range children {
		result = append(result, unicodeBranch(g, opts, branchState{
			node:            c,
			hasParent:       true,
			indent:          nextIndent,
			chain:           append(st.chain, c.ProjectName()),
			prefix:          nextPrefix,
			depth:           st.depth + 1,
			hasGrandParent:  st.hasParent,
			isLastChild:     i == len(children)-1,
			parentIsLastKid: st.isLastChild,
		})...)
	}
	return result
}

func asciiBranch(g *pkggraph.Graph, opts TextOptions, node pkggraph.Node, hasParent bool, indent int, chain []string, depth int) []string {
	nodeStr := pkggraph.RenderNode(node, hasParent, false)
	if hasParent {
		nodeStr = strings.Repeat(" ", indent) + "- " + nodeStr
	} else if opts.IncludeLicense {
		nodeStr += " " + licenseOf(node)
	}

	result := []string{nodeStr}
	for _, c := range renderableChildren(g, node, chain, opts, depth) {
		result = append(result, asciiBranch(g, opts, c, true, indent+2, append(chain, c.ProjectName()), depth+1)...)
	}
	return result
}

// renderableChildren selects the children expanded under node: those not
// already on the current branch (breaking cycles) and within the depth
// limit.
func renderableChildren(g *pkggraph.Graph, node pkggraph.Node, chain []string, opts TextOptions, depth int) []pkggraph.Node {
	if !opts.within(depth + 1) {
		return nil
	}
	var out []pkggraph.Node
	for _, c := range g.ChildrenOf(node.Key()) {
		onChain := false
		for _, name := range chain {
			if name == c.ProjectName() {
				onChain = true
				break
			}
		}
		if !onChain {
			out = append(out, c)
		}
	}
	return out
}

// licenseOf formats the license column for top-level lines.
func licenseOf(n pkggraph.Node) string {
	dist, ok := n.(*pkggraph.Dist)
	if !ok {
		if req, isReq := n.(*pkggraph.Req); isReq && req.Dist() != nil {
			dist = req.Dist()
		}
	}
	if dist == nil || dist.License() == "" {
		return "(Unknown license)"
	}
	return "(" + dist.License() + ")"
}
