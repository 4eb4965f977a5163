package pkggraph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

var (
	// ErrBadPattern is returned by Filter when a glob pattern does not
	// compile.
	ErrBadPattern = errors.New("invalid filter pattern")

	// ErrPatternOverlap is returned by Filter when the include and
	// exclude sets share a pattern after normalization.
	ErrPatternOverlap = errors.New("include and exclude patterns must be disjoint")

	// ErrPatternNoMatch is returned by Filter when an include pattern
	// matches no package in the graph.
	ErrPatternNoMatch = errors.New("no packages matched")
)

// pattern is a compiled filter pattern together with its normalized text.
type pattern struct {
	text string
	g    glob.Glob
}

func compilePatterns(raw []string) ([]pattern, error) {
	patterns := make([]pattern, 0, len(raw))
	for _, p := range raw {
		text := strings.ToLower(strings.TrimSpace(p))
		g, err := glob.Compile(text)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrBadPattern, p, err)
		}
		patterns = append(patterns, pattern{text: text, g: g})
	}
	return patterns, nil
}

func anyMatch(patterns []pattern, key string) bool {
	for _, p := range patterns {
		if p.g.Match(key) {
			return true
		}
	}
	return false
}

// Filter returns a graph restricted by glob patterns matched
// case-insensitively against normalized keys. With include patterns, the
// result is the transitive closure of every matching node, minus excluded
// children at each step. With only exclude patterns, every node is visited
// and excluded children pruned everywhere. With neither, the receiver is
// returned unchanged.
//
// Filter fails when the two pattern sets overlap after normalization, when
// a pattern does not compile, or when an include pattern matches nothing.
func (g *Graph) Filter(include, exclude []string) (*Graph, error) {
	if include == nil && exclude == nil {
		return g, nil
	}

	incl, err := compilePatterns(include)
	if err != nil {
		return nil, err
	}
	excl, err := compilePatterns(exclude)
	if err != nil {
		return nil, err
	}

	if overlap := patternOverlap(incl, excl); len(overlap) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrPatternOverlap, strings.Join(overlap, ", "))
	}

	matched := make(map[string]bool, len(incl))
	b := newBuilder(g.reversed)
	seen := make(map[string]bool)
	var stack []Node

	for _, key := range g.order {
		node := g.nodes[key]
		if anyMatch(excl, key) {
			continue
		}
		if include == nil {
			stack = append(stack, node)
		} else {
			for _, p := range incl {
				if p.g.Match(key) {
					matched[p.text] = true
					stack = append(stack, node)
				}
			}
		}

		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if seen[n.Key()] {
				continue
			}
			seen[n.Key()] = true

			var kept []Node
			for _, c := range g.children[n.Key()] {
				if anyMatch(excl, c.Key()) {
					continue
				}
				kept = append(kept, c)
				if seen[c.Key()] {
					continue
				}
				// A child without a corresponding entry is a
				// missing dependency, not an error; it simply
				// is not expanded further.
				if child, ok := g.nodes[c.Key()]; ok {
					stack = append(stack, child)
				}
			}
			b.set(n, kept)
		}
	}

	if include != nil {
		var unmatched []string
		for _, p := range incl {
			if !matched[p.text] {
				unmatched = append(unmatched, p.text)
			}
		}
		if len(unmatched) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrPatternNoMatch, strings.Join(unmatched, ", "))
		}
	}

	return b.freeze(), nil
}

func patternOverlap(include, exclude []pattern) []string {
	seen := make(map[string]bool, len(include))
	for _, p := range include {
		seen[p.text] = true
	}
	var overlap []string
	for _, p := range exclude {
		if seen[p.text] {
			overlap = append(overlap, p.text)
		}
	}
	return overlap
}
