package cli

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"deptree/pkg/pkggraph"
)

func testGraph(t *testing.T) *pkggraph.Graph {
	t.Helper()
	g, report := pkggraph.Build([]pkggraph.DistRecord{
		{Name: "a", Version: "1.0", Requires: []string{"b>=1.0"}},
		{Name: "b", Version: "1.0"},
	})
	if report.HasAnomalies() {
		t.Fatalf("unexpected anomalies: %+v", report)
	}
	return g
}

func TestRenderOutput_Text(t *testing.T) {
	var buf bytes.Buffer
	o := &options{depth: -1, encoding: "utf-8"}
	if err := renderOutput(&buf, testGraph(t), o); err != nil {
		t.Fatalf("renderOutput error: %v", err)
	}
	want := "a==1.0\n└── b [required: >=1.0, installed: 1.0]\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestRenderOutput_ASCIIEncoding(t *testing.T) {
	var buf bytes.Buffer
	o := &options{depth: -1, encoding: "ascii"}
	if err := renderOutput(&buf, testGraph(t), o); err != nil {
		t.Fatalf("renderOutput error: %v", err)
	}
	if strings.Contains(buf.String(), "└──") {
		t.Errorf("output = %q, want no box-drawing characters for ascii", buf.String())
	}
}

func TestRenderOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	o := &options{depth: -1, json: true}
	if err := renderOutput(&buf, testGraph(t), o); err != nil {
		t.Fatalf("renderOutput error: %v", err)
	}
	var entries []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entries); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("JSON has %d entries, want 2", len(entries))
	}
}

func TestRenderOutput_Freeze(t *testing.T) {
	var buf bytes.Buffer
	o := &options{depth: -1, freeze: true}
	if err := renderOutput(&buf, testGraph(t), o); err != nil {
		t.Fatalf("renderOutput error: %v", err)
	}
	want := "a==1.0\n  b==1.0\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestRenderOutput_Mermaid(t *testing.T) {
	var buf bytes.Buffer
	o := &options{depth: -1, mermaid: true}
	if err := renderOutput(&buf, testGraph(t), o); err != nil {
		t.Fatalf("renderOutput error: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "flowchart TD\n") {
		t.Errorf("output = %q, want a mermaid flowchart", buf.String())
	}
}

func TestRenderOutput_GraphvizDot(t *testing.T) {
	var buf bytes.Buffer
	o := &options{depth: -1, graphOutput: "dot"}
	if err := renderOutput(&buf, testGraph(t), o); err != nil {
		t.Fatalf("renderOutput error: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "digraph {") {
		t.Errorf("output = %q, want DOT source", buf.String())
	}
}

func TestUTFEncoding(t *testing.T) {
	cases := []struct {
		encoding string
		want     bool
	}{
		{"utf-8", true},
		{"UTF-8", true},
		{"utf-16", true},
		{"ascii", false},
		{"latin-1", false},
	}
	for _, tc := range cases {
		if got := utfEncoding(tc.encoding); got != tc.want {
			t.Errorf("utfEncoding(%q) = %v, want %v", tc.encoding, got, tc.want)
		}
	}
}

func TestSplitPatterns(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a,b", []string{"a", "b"}},
		{"a, b ,c", []string{"a", "b", "c"}},
		{" , ", nil},
	}
	for _, tc := range cases {
		if got := splitPatterns(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("splitPatterns(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
