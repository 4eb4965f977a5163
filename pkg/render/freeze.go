package render

import (
	"fmt"
	"io"
	"strings"

	"deptree/pkg/pkggraph"
)

// FreezeOptions controls the pip-freeze style renderer.
type FreezeOptions struct {
	// MaxDepth limits how deep branches are expanded; negative means
	// unlimited.
	MaxDepth int

	// ListAll lists every package at the top level instead of only the
	// ones nothing depends on.
	ListAll bool
}

// Freeze writes "name==version" requirement lines to w, indenting
// dependencies two spaces per level. The output of the top level (without
// indentation) is a valid requirements file.
func Freeze(w io.Writer, g *pkggraph.Graph, opts FreezeOptions) error {
	sorted, nodes := TopLevel(g, opts.ListAll)
	text := TextOptions{MaxDepth: opts.MaxDepth}

	var lines []string
	var walk func(node pkggraph.Node, hasParent bool, indent int, chain []string, depth int)
	walk = func(node pkggraph.Node, hasParent bool, indent int, chain []string, depth int) {
		line := pkggraph.RenderNode(node, hasParent, true)
		if hasParent {
			line = strings.Repeat(" ", indent) + line
		}
		lines = append(lines, line)
		for _, c := range renderableChildren(sorted, node, chain, text, depth) {
			walk(c, true, indent+2, append(chain, c.ProjectName()), depth+1)
		}
	}

	for _, n := range nodes {
		walk(n, false, 0, []string{n.ProjectName()}, 0)
	}

	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}
