package pkggraph

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Foo.Bar", "foo-bar"},
		{"foo-bar", "foo-bar"},
		{"FOO_BAR", "foo-bar"},
		{"foo__bar", "foo-bar"},
		{"zope.interface", "zope-interface"},
		{"simple", "simple"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
		if again := Normalize(Normalize(tc.in)); again != tc.want {
			t.Errorf("Normalize not idempotent for %q: %q", tc.in, again)
		}
	}
}

func TestRenderStrings(t *testing.T) {
	g, _ := Build([]DistRecord{
		{Name: "a", Version: "1.0", Requires: []string{"b>=1.0"}},
		{Name: "b", Version: "1.0"},
	})

	a, _ := g.NodeFor("a")
	if got := a.RenderAsRoot(false); got != "a==1.0" {
		t.Errorf("dist root = %q, want %q", got, "a==1.0")
	}

	req := g.ChildrenOf("a")[0].(*Req)
	if got := req.RenderAsBranch(false); got != "b [required: >=1.0, installed: 1.0]" {
		t.Errorf("req branch = %q, want %q", got, "b [required: >=1.0, installed: 1.0]")
	}
	if got := req.RenderAsBranch(true); got != "b==1.0" {
		t.Errorf("frozen req branch = %q, want %q", got, "b==1.0")
	}
}

func TestRenderStrings_MissingAndAny(t *testing.T) {
	g, _ := Build([]DistRecord{
		{Name: "a", Version: "1.0", Requires: []string{"gone>=2.0", "b"}},
		{Name: "b", Version: "1.0"},
	})

	children := g.ChildrenOf("a")
	missing := children[0].(*Req)
	if got := missing.InstalledVersion(); got != UnknownVersion {
		t.Errorf("missing InstalledVersion = %q, want %q", got, UnknownVersion)
	}
	if !missing.IsMissing() {
		t.Error("IsMissing() = false for unresolved requirement")
	}
	if got := missing.RenderAsBranch(false); got != "gone [required: >=2.0, installed: ?]" {
		t.Errorf("missing branch = %q", got)
	}

	unpinned := children[1].(*Req)
	if got := unpinned.RenderAsBranch(false); got != "b [required: Any, installed: 1.0]" {
		t.Errorf("any branch = %q", got)
	}
	if rec := unpinned.AsRecord(); rec.RequiredVersion != "Any" {
		t.Errorf("AsRecord RequiredVersion = %q, want Any", rec.RequiredVersion)
	}
}

func TestIsConflicting_Policy(t *testing.T) {
	g, _ := Build([]DistRecord{
		{Name: "a", Version: "1.0", Requires: []string{"gone>=2.0", "alsogone", "b==2.0", "c>=1.0"}},
		{Name: "b", Version: "1.0"},
		{Name: "c", Version: "1.5"},
	})

	children := g.ChildrenOf("a")
	cases := []struct {
		idx  int
		name string
		want bool
	}{
		{0, "missing with specifier", true},
		{1, "missing without specifier", false},
		{2, "installed failing specifier", true},
		{3, "installed satisfying specifier", false},
	}
	for _, tc := range cases {
		req := children[tc.idx].(*Req)
		if got := req.IsConflicting(); got != tc.want {
			t.Errorf("%s: IsConflicting() = %v, want %v", tc.name, got, tc.want)
		}
	}
}
