package render

import (
	"strings"
	"testing"

	"deptree/pkg/pkggraph"
)

func TestMermaid(t *testing.T) {
	got := Mermaid(sampleGraph(t))
	want := "flowchart TD\n" +
		"    classDef missing stroke-dasharray: 5\n" +
		"    a[\"a\\n1.0\"]\n" +
		"    b[\"b\\n1.0\"]\n" +
		"    a -- \">=1.0\" --> b\n"
	if got != want {
		t.Errorf("Mermaid = %q, want %q", got, want)
	}
}

func TestMermaid_MissingDependency(t *testing.T) {
	g, _ := pkggraph.Build([]pkggraph.DistRecord{
		{Name: "a", Version: "1.0", Requires: []string{"gone>=2.0"}},
	})
	got := Mermaid(g)
	if !strings.Contains(got, `gone["gone\n(missing)"]:::missing`) {
		t.Errorf("Mermaid = %q, want dashed missing node", got)
	}
	if !strings.Contains(got, "a -.-> gone") {
		t.Errorf("Mermaid = %q, want dashed edge to missing node", got)
	}
}

func TestMermaid_ReservedIdentifier(t *testing.T) {
	g, _ := pkggraph.Build([]pkggraph.DistRecord{
		{Name: "graph", Version: "1.0"},
	})
	got := Mermaid(g)
	if !strings.Contains(got, `graph_0["graph\n1.0"]`) {
		t.Errorf("Mermaid = %q, want reserved id renamed to graph_0", got)
	}
}

func TestMermaid_Reverse(t *testing.T) {
	got := Mermaid(sampleGraph(t).Reverse())
	if !strings.Contains(got, "b -- \">=1.0\" --> a") {
		t.Errorf("Mermaid = %q, want reverse edge labeled with the specifier", got)
	}
	if !strings.Contains(got, `b["b\n1.0"]`) {
		t.Errorf("Mermaid = %q, want requirement node labeled with installed version", got)
	}
}
