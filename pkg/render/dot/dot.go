// Package dot renders a package graph in Graphviz formats. The DOT source is
// generated directly with a sorted body so output is deterministic; binary
// formats are produced from it with goccy/go-graphviz.
package dot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-graphviz"

	"deptree/pkg/pkggraph"
)

// ErrUnsupportedFormat is returned for output formats Dump cannot produce.
var ErrUnsupportedFormat = errors.New("unsupported graphviz output format")

var formats = map[string]graphviz.Format{
	"svg":  graphviz.SVG,
	"png":  graphviz.PNG,
	"jpg":  graphviz.JPG,
	"jpeg": graphviz.JPG,
}

// Options configures Graphviz rendering.
type Options struct {
	// Format names the output format: "dot" for the source itself, or one
	// of svg, png, jpg.
	Format string

	// MaxDepth limits how many edge hops from the top-level packages are
	// drawn; negative means unlimited.
	MaxDepth int
}

// Dump renders the graph in the requested Graphviz format. The "dot" format
// returns the source bytes without invoking graphviz at all.
func Dump(g *pkggraph.Graph, opts Options) ([]byte, error) {
	format, ok := formats[opts.Format]
	if opts.Format != "dot" && !ok {
		return nil, fmt.Errorf("%w %q, supported formats are: dot, jpg, jpeg, png, svg", ErrUnsupportedFormat, opts.Format)
	}

	src := Source(g, opts.MaxDepth)
	if opts.Format == "dot" {
		return []byte(src), nil
	}

	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	parsed, err := graphviz.ParseBytes([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer parsed.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, parsed, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// Source generates the DOT representation of the graph. Body lines are
// sorted so the same graph always produces byte-identical source. Missing
// dependencies are drawn dashed; edges carry the declared specifier or
// "any". maxDepth below zero disables the depth cut.
func Source(g *pkggraph.Graph, maxDepth int) string {
	depths := hopDepths(g)
	within := func(key string) bool {
		if maxDepth < 0 {
			return true
		}
		d, ok := depths[key]
		return ok && d <= maxDepth
	}
	expandable := func(key string) bool {
		return maxDepth < 0 || depths[key] < maxDepth
	}

	body := make(map[string]bool)
	if g.Reversed() {
		for _, n := range g.Keys() {
			req := n.(*pkggraph.Req)
			if !within(req.Key()) {
				continue
			}
			version := req.InstalledVersion()
			if req.IsMissing() {
				version = "(missing)"
			}
			body[nodeLine(req.Key(), req.ProjectName()+"\\n"+version, false)] = true
			if !expandable(req.Key()) {
				continue
			}
			for _, c := range g.ChildrenOf(req.Key()) {
				dist := c.(*pkggraph.Dist)
				if !within(dist.Key()) {
					continue
				}
				label := "any"
				if dist.Via() != nil && dist.Via().VersionSpec() != "" {
					label = dist.Via().VersionSpec()
				}
				body[edgeLine(req.Key(), dist.Key(), label, false)] = true
			}
		}
	} else {
		for _, n := range g.Keys() {
			dist := n.(*pkggraph.Dist)
			if !within(dist.Key()) {
				continue
			}
			body[nodeLine(dist.Key(), dist.ProjectName()+"\\n"+dist.Version(), false)] = true
			if !expandable(dist.Key()) {
				continue
			}
			for _, c := range g.ChildrenOf(dist.Key()) {
				req := c.(*pkggraph.Req)
				if !within(req.Key()) {
					continue
				}
				if req.IsMissing() {
					body[nodeLine(req.Key(), req.ProjectName()+"\\n(missing)", true)] = true
					body[edgeLine(dist.Key(), req.Key(), "", true)] = true
					continue
				}
				label := req.VersionSpec()
				if label == "" {
					label = "any"
				}
				body[edgeLine(dist.Key(), req.Key(), label, false)] = true
			}
		}
	}

	lines := make([]string, 0, len(body))
	for l := range body {
		lines = append(lines, l)
	}
	sort.Strings(lines)

	var b strings.Builder
	b.WriteString("digraph {\n")
	for _, l := range lines {
		b.WriteString(l)
	}
	b.WriteString("}\n")
	return b.String()
}

func nodeLine(key, label string, dashed bool) string {
	if dashed {
		return fmt.Sprintf("\t%q [label=\"%s\" style=dashed]\n", key, label)
	}
	return fmt.Sprintf("\t%q [label=\"%s\"]\n", key, label)
}

func edgeLine(from, to, label string, dashed bool) string {
	if dashed {
		return fmt.Sprintf("\t%q -> %q [style=dashed]\n", from, to)
	}
	return fmt.Sprintf("\t%q -> %q [label=%q]\n", from, to, label)
}

// hopDepths walks breadth-first from the top-level entries and records the
// shortest hop count to every reachable key.
func hopDepths(g *pkggraph.Graph) map[string]int {
	type item struct {
		key   string
		depth int
	}
	depths := make(map[string]int, g.Len())
	var queue []item
	for _, n := range g.Roots() {
		queue = append(queue, item{n.Key(), 0})
	}
	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]
		if _, seen := depths[it.key]; seen {
			continue
		}
		depths[it.key] = it.depth
		for _, c := range g.ChildrenOf(it.key) {
			if _, seen := depths[c.Key()]; !seen {
				queue = append(queue, item{c.Key(), it.depth + 1})
			}
		}
	}
	return depths
}
