package render

import (
	"encoding/json"
	"slices"

	"deptree/pkg/pkggraph"
)

// treeEntry is one node of the nested JSON output, mirroring the text tree
// layout.
type treeEntry struct {
	Key              string      `json:"key"`
	PackageName      string      `json:"package_name"`
	InstalledVersion string      `json:"installed_version"`
	RequiredVersion  string      `json:"required_version"`
	Dependencies     []treeEntry `json:"dependencies"`
}

// JSONTree renders the graph as nested JSON rooted at the packages nothing
// depends on. At the top level the required version mirrors the installed
// one; branches carry their declared specifier (or "Any").
func JSONTree(g *pkggraph.Graph) (string, error) {
	sorted, roots := TopLevel(g, false)

	var walk func(node pkggraph.Node, hasParent bool, chain []string) treeEntry
	walk = func(node pkggraph.Node, hasParent bool, chain []string) treeEntry {
		rec := node.AsRecord()
		entry := treeEntry{
			Key:              rec.Key,
			PackageName:      rec.PackageName,
			InstalledVersion: rec.InstalledVersion,
			RequiredVersion:  rec.RequiredVersion,
			Dependencies:     []treeEntry{},
		}
		if !hasParent {
			entry.RequiredVersion = rec.InstalledVersion
		} else if entry.RequiredVersion == "" {
			entry.RequiredVersion = "Any"
		}

		for _, c := range sorted.ChildrenOf(node.Key()) {
			if slices.Contains(chain, c.ProjectName()) {
				continue
			}
			entry.Dependencies = append(entry.Dependencies, walk(c, true, append(chain, c.ProjectName())))
		}
		return entry
	}

	entries := make([]treeEntry, 0, len(roots))
	for _, n := range roots {
		entries = append(entries, walk(n, false, []string{n.ProjectName()}))
	}

	out, err := json.MarshalIndent(entries, "", "    ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}
