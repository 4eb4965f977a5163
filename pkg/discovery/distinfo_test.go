package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"deptree/pkg/pkggraph"
)

func writeDistInfo(t *testing.T, root, dir, metadata string) {
	t.Helper()
	full := filepath.Join(root, dir)
	if err := os.MkdirAll(full, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(full, "METADATA"), []byte(metadata), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScanPaths(t *testing.T) {
	root := t.TempDir()
	writeDistInfo(t, root, "flask-2.3.0.dist-info", ""+
		"Metadata-Version: 2.1\n"+
		"Name: Flask\n"+
		"Version: 2.3.0\n"+
		"License: BSD-3-Clause\n"+
		"Requires-Dist: Werkzeug>=2.3.3\n"+
		"Requires-Dist: click>=8.1.3\n"+
		"\n"+
		"Flask is a lightweight web framework.\n")
	writeDistInfo(t, root, "click-8.1.3.dist-info", ""+
		"Name: click\n"+
		"Version: 8.1.3\n"+
		"Classifier: Development Status :: 5 - Production/Stable\n"+
		"Classifier: License :: OSI Approved :: BSD License\n")

	// Non dist-info entries are ignored.
	if err := os.MkdirAll(filepath.Join(root, "flask"), 0o755); err != nil {
		t.Fatal(err)
	}

	records, err := ScanPaths([]string{root})
	if err != nil {
		t.Fatalf("ScanPaths error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("ScanPaths returned %d records, want 2", len(records))
	}

	byName := map[string]pkggraph.DistRecord{}
	for _, r := range records {
		byName[r.Name] = r
	}

	flask := byName["Flask"]
	if flask.Version != "2.3.0" || flask.License != "BSD-3-Clause" {
		t.Errorf("flask record = %+v", flask)
	}
	if len(flask.Requires) != 2 || flask.Requires[0] != "Werkzeug>=2.3.3" {
		t.Errorf("flask requires = %v", flask.Requires)
	}

	click := byName["click"]
	if click.License != "BSD License" {
		t.Errorf("click license = %q, want classifier fallback %q", click.License, "BSD License")
	}
}

func TestScanPaths_MissingDir(t *testing.T) {
	if _, err := ScanPaths([]string{filepath.Join(t.TempDir(), "nope")}); err == nil {
		t.Error("ScanPaths must fail for unreadable directories")
	}
}

func TestDedupe(t *testing.T) {
	records := []pkggraph.DistRecord{
		{Name: "Foo", Version: "1.0"},
		{Name: "bar", Version: "2.0"},
		{Name: "foo", Version: "3.0"},
	}
	unique, dups := Dedupe(records)

	if len(unique) != 2 {
		t.Fatalf("unique has %d entries, want 2", len(unique))
	}
	if unique[0].Version != "1.0" || unique[1].Name != "bar" {
		t.Errorf("unique = %+v, want first-seen order kept", unique)
	}
	if len(dups) != 1 {
		t.Fatalf("dups has %d entries, want 1", len(dups))
	}
	if dups[0].Key != "foo" || dups[0].Kept.Version != "1.0" || dups[0].Dropped.Version != "3.0" {
		t.Errorf("dup = %+v", dups[0])
	}
}

func TestDedupe_NoDuplicates(t *testing.T) {
	unique, dups := Dedupe([]pkggraph.DistRecord{{Name: "a"}, {Name: "b"}})
	if len(unique) != 2 || len(dups) != 0 {
		t.Errorf("Dedupe = %v, %v; want 2 unique, 0 dups", unique, dups)
	}
}
