// Package discovery enumerates the installed distributions of a target
// Python environment. Two sources are supported: asking the target
// interpreter itself (a subprocess emitting JSON, so any interpreter on the
// machine can be inspected, not just the one on PATH) and scanning
// site-packages style directories for *.dist-info metadata directly.
//
// Discovery runs once, before any graph is built, and produces the flat
// records the graph builder consumes.
package discovery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	"deptree/pkg/pkggraph"
)

// probeScript is executed by the target interpreter to dump its installed
// distributions as a JSON array. It only uses the standard library so it
// works in any environment from Python 3.8 up.
const probeScript = `
import json, site, sys
from importlib.metadata import distributions

mode = sys.argv[1] if len(sys.argv) > 1 else ""
paths = None
if mode == "local" and sys.prefix != getattr(sys, "base_prefix", sys.prefix):
    paths = site.getsitepackages([sys.prefix])
elif mode == "user":
    paths = [site.getusersitepackages()]

out = []
for d in (distributions(path=paths) if paths is not None else distributions()):
    meta = d.metadata
    out.append({
        "name": meta["Name"] or "",
        "version": d.version or "",
        "requires": list(d.requires or []),
        "license": meta["License"] or "",
    })
print(json.dumps(out))
`

// Options restricts which installations are reported.
type Options struct {
	// LocalOnly reports only the virtualenv's own site-packages when the
	// interpreter runs inside one with global access.
	LocalOnly bool

	// UserOnly reports only installations in the user site directory.
	UserOnly bool
}

// Duplicate records a distribution dropped because another one with the same
// normalized key was seen first.
type Duplicate struct {
	Key     string
	Kept    pkggraph.DistRecord
	Dropped pkggraph.DistRecord
}

// Interpreter asks the given Python interpreter for its installed
// distributions. The subprocess is the only blocking external call in the
// program and honors ctx cancellation.
func Interpreter(ctx context.Context, python string, opts Options) ([]pkggraph.DistRecord, error) {
	mode := ""
	switch {
	case opts.LocalOnly:
		mode = "local"
	case opts.UserOnly:
		mode = "user"
	}

	cmd := exec.CommandContext(ctx, python, "-c", probeScript, mode)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			return nil, fmt.Errorf("query interpreter %s: %w: %s", python, err, msg)
		}
		return nil, fmt.Errorf("query interpreter %s: %w", python, err)
	}

	var records []pkggraph.DistRecord
	if err := json.Unmarshal(stdout.Bytes(), &records); err != nil {
		return nil, fmt.Errorf("decode interpreter output: %w", err)
	}
	return records, nil
}

// Dedupe applies the first-seen-wins rule on normalized keys, returning the
// unique records in input order and the dropped duplicates for diagnostics.
func Dedupe(records []pkggraph.DistRecord) ([]pkggraph.DistRecord, []Duplicate) {
	seen := make(map[string]pkggraph.DistRecord, len(records))
	unique := make([]pkggraph.DistRecord, 0, len(records))
	var dups []Duplicate

	for _, rec := range records {
		key := pkggraph.Normalize(rec.Name)
		if first, ok := seen[key]; ok {
			dups = append(dups, Duplicate{Key: key, Kept: first, Dropped: rec})
			continue
		}
		seen[key] = rec
		unique = append(unique, rec)
	}
	return unique, dups
}
