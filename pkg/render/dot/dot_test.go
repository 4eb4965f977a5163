package dot

import (
	"errors"
	"strings"
	"testing"

	"deptree/pkg/pkggraph"
)

func buildGraph(t *testing.T, records []pkggraph.DistRecord) *pkggraph.Graph {
	t.Helper()
	g, report := pkggraph.Build(records)
	if report.HasAnomalies() {
		t.Fatalf("unexpected anomalies: %+v", report)
	}
	return g
}

func TestSource(t *testing.T) {
	g := buildGraph(t, []pkggraph.DistRecord{
		{Name: "a", Version: "1.0", Requires: []string{"b>=1.0"}},
		{Name: "b", Version: "1.0"},
	})

	got := Source(g, -1)
	want := "digraph {\n" +
		"\t\"a\" -> \"b\" [label=\">=1.0\"]\n" +
		"\t\"a\" [label=\"a\\n1.0\"]\n" +
		"\t\"b\" [label=\"b\\n1.0\"]\n" +
		"}\n"
	if got != want {
		t.Errorf("Source = %q, want %q", got, want)
	}
}

func TestSource_Deterministic(t *testing.T) {
	g := buildGraph(t, []pkggraph.DistRecord{
		{Name: "b", Version: "1.0"},
		{Name: "a", Version: "1.0", Requires: []string{"b>=1.0"}},
	})
	first := Source(g, -1)
	for i := 0; i < 5; i++ {
		if next := Source(g, -1); next != first {
			t.Fatalf("Source is not deterministic: %q vs %q", first, next)
		}
	}
}

func TestSource_MissingDependencyDashed(t *testing.T) {
	g := buildGraph(t, []pkggraph.DistRecord{
		{Name: "a", Version: "1.0", Requires: []string{"gone>=2.0"}},
	})
	got := Source(g, -1)
	if !strings.Contains(got, "\t\"gone\" [label=\"gone\\n(missing)\" style=dashed]\n") {
		t.Errorf("Source = %q, want dashed missing node", got)
	}
	if !strings.Contains(got, "\t\"a\" -> \"gone\" [style=dashed]\n") {
		t.Errorf("Source = %q, want dashed edge", got)
	}
}

func TestSource_AnyEdgeLabel(t *testing.T) {
	g := buildGraph(t, []pkggraph.DistRecord{
		{Name: "a", Version: "1.0", Requires: []string{"b"}},
		{Name: "b", Version: "1.0"},
	})
	if got := Source(g, -1); !strings.Contains(got, `[label="any"]`) {
		t.Errorf("Source = %q, want any label for unconstrained edge", got)
	}
}

func TestSource_MaxDepth(t *testing.T) {
	g := buildGraph(t, []pkggraph.DistRecord{
		{Name: "a", Version: "1.0", Requires: []string{"b"}},
		{Name: "b", Version: "1.0", Requires: []string{"c"}},
		{Name: "c", Version: "1.0"},
	})
	got := Source(g, 1)
	if strings.Contains(got, `"c"`) {
		t.Errorf("Source = %q, want c cut off beyond depth 1", got)
	}
	if !strings.Contains(got, `"a" -> "b"`) {
		t.Errorf("Source = %q, want the first hop kept", got)
	}
}

func TestSource_Reverse(t *testing.T) {
	g := buildGraph(t, []pkggraph.DistRecord{
		{Name: "a", Version: "1.0", Requires: []string{"b>=1.0"}},
		{Name: "b", Version: "1.0"},
	})
	got := Source(g.Reverse(), -1)
	if !strings.Contains(got, "\t\"b\" -> \"a\" [label=\">=1.0\"]\n") {
		t.Errorf("Source = %q, want reversed labeled edge", got)
	}
}

func TestDump_DotFormat(t *testing.T) {
	g := buildGraph(t, []pkggraph.DistRecord{{Name: "a", Version: "1.0"}})
	out, err := Dump(g, Options{Format: "dot", MaxDepth: -1})
	if err != nil {
		t.Fatalf("Dump error: %v", err)
	}
	if !strings.HasPrefix(string(out), "digraph {") {
		t.Errorf("Dump = %q, want DOT source", out)
	}
}

func TestDump_UnsupportedFormat(t *testing.T) {
	g := buildGraph(t, []pkggraph.DistRecord{{Name: "a", Version: "1.0"}})
	_, err := Dump(g, Options{Format: "gif", MaxDepth: -1})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("Dump error = %v, want ErrUnsupportedFormat", err)
	}
	if !strings.Contains(err.Error(), "svg") {
		t.Errorf("error %q does not list the supported formats", err)
	}
}
