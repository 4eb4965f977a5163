package cli

import (
	"fmt"
	"io"
	"strings"

	"deptree/pkg/pkggraph"
	"deptree/pkg/render"
	"deptree/pkg/render/dot"
)

// renderOutput writes the graph to w in the format selected by the flags.
// Text is the default; exactly one of the alternative formats can be active
// at a time (enforced at flag level).
func renderOutput(w io.Writer, g *pkggraph.Graph, o *options) error {
	switch {
	case o.json:
		out, err := render.JSON(g)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, out)
		return err

	case o.jsonTree:
		out, err := render.JSONTree(g)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, out)
		return err

	case o.mermaid:
		_, err := fmt.Fprint(w, render.Mermaid(g))
		return err

	case o.graphOutput != "":
		out, err := dot.Dump(g, dot.Options{Format: o.graphOutput, MaxDepth: o.depth})
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err

	case o.freeze:
		return render.Freeze(w, g, render.FreezeOptions{
			MaxDepth: o.depth,
			ListAll:  o.all,
		})

	default:
		return render.Text(w, g, render.TextOptions{
			MaxDepth:       o.depth,
			ListAll:        o.all,
			Unicode:        utfEncoding(o.encoding),
			IncludeLicense: o.license,
		})
	}
}

// utfEncoding reports whether the output encoding can carry the box-drawing
// characters of the unicode tree layout.
func utfEncoding(encoding string) bool {
	return strings.HasPrefix(strings.ToLower(encoding), "utf")
}

// splitPatterns splits a comma separated flag value into patterns, nil when
// the flag was not given.
func splitPatterns(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	patterns := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	if len(patterns) == 0 {
		return nil
	}
	return patterns
}
