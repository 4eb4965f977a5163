package pkggraph

// DistRecord is one installed package as reported by discovery: the declared
// name, the installed version and the raw requirement strings from its
// metadata, in declaration order.
type DistRecord struct {
	Name     string   `json:"name"`
	Version  string   `json:"version"`
	Requires []string `json:"requires"`
	License  string   `json:"license,omitempty"`
}

// MalformedRequirement records a requirement string that could not be parsed
// and was skipped for its distribution.
type MalformedRequirement struct {
	Dist string // project name of the declaring distribution
	Raw  string // the offending requirement string
	Err  error
}

// DuplicateDist records an input record dropped because an earlier record
// already claimed its normalized key.
type DuplicateDist struct {
	Key     string
	Kept    DistRecord
	Dropped DistRecord
}

// BuildReport accumulates the recoverable anomalies observed while building
// a graph. Construction never fails on them; callers surface the report once
// after the whole input has been processed.
type BuildReport struct {
	Malformed  []MalformedRequirement
	Duplicates []DuplicateDist
}

// HasAnomalies reports whether anything was recorded.
func (r *BuildReport) HasAnomalies() bool {
	return len(r.Malformed) > 0 || len(r.Duplicates) > 0
}

// Build constructs the forward dependency graph from discovery records.
//
// The build is two-phase. First every record is normalized and indexed,
// first writer wins on key collisions (later duplicates are reported, not
// merged). Then each distribution's requirement strings are parsed and
// resolved against the index: extra-gated and marker-failing requirements
// are skipped, malformed ones are reported and skipped, and duplicates per
// distribution (by target key) keep the first occurrence. A requirement
// whose target is not installed stays in the graph as a missing dependency.
func Build(records []DistRecord) (*Graph, *BuildReport) {
	report := &BuildReport{}

	dists := make([]*Dist, 0, len(records))
	rawRequires := make([][]string, 0, len(records))
	index := make(map[string]*Dist, len(records))
	for _, rec := range records {
		key := Normalize(rec.Name)
		if first, ok := index[key]; ok {
			report.Duplicates = append(report.Duplicates, DuplicateDist{
				Key:     key,
				Kept:    DistRecord{Name: first.rawName, Version: first.version},
				Dropped: rec,
			})
			continue
		}
		d := &Dist{key: key, rawName: rec.Name, version: rec.Version, license: rec.License}
		index[key] = d
		dists = append(dists, d)
		rawRequires = append(rawRequires, rec.Requires)
	}

	b := newBuilder(false)
	for i, d := range dists {
		seen := make(map[string]bool)
		for _, raw := range rawRequires[i] {
			parsed, err := parseRequirement(raw)
			if err != nil {
				report.Malformed = append(report.Malformed, MalformedRequirement{
					Dist: d.ProjectName(),
					Raw:  raw,
					Err:  err,
				})
				continue
			}
			if parsed.skip {
				continue
			}
			key := Normalize(parsed.name)
			if seen[key] {
				continue
			}
			seen[key] = true

			req := &Req{key: key, rawName: parsed.name, spec: parsed.spec, dist: index[key]}
			if req.dist != nil {
				// Declared names are sometimes inconsistently cased;
				// prefer the installed distribution's spelling.
				req.rawName = req.dist.rawName
			}
			d.reqs = append(d.reqs, req)
		}

		children := make([]Node, len(d.reqs))
		for i, r := range d.reqs {
			children[i] = r
		}
		b.set(d, children)
	}

	return b.freeze(), report
}
