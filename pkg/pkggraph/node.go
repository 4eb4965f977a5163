package pkggraph

import (
	"fmt"
	"regexp"
	"strings"

	"deptree/pkg/pep440"
)

// UnknownVersion is the sentinel installed version for requirements whose
// target package is not installed.
const UnknownVersion = "?"

var separatorsRE = regexp.MustCompile(`[-_.]+`)

// Normalize derives the canonical lookup key for a package name: case-folded,
// with runs of ".", "_" and "-" collapsed to a single "-". The function is
// idempotent and total; keys are the only valid basis for equality across
// the graph.
func Normalize(name string) string {
	return strings.ToLower(separatorsRE.ReplaceAllString(name, "-"))
}

// projectName collapses separator runs but preserves the declared casing.
// Used for display, never for lookup.
func projectName(name string) string {
	return separatorsRE.ReplaceAllString(name, "-")
}

// Record is the flat representation of a node handed to JSON renderers.
type Record struct {
	Key              string `json:"key"`
	PackageName      string `json:"package_name"`
	InstalledVersion string `json:"installed_version"`
	RequiredVersion  string `json:"required_version,omitempty"`
}

// Node is a vertex in the dependency graph. The two variants are *Dist (an
// installed package) and *Req (a declared dependency edge); they share the
// key contract and differ only in variant-specific data.
type Node interface {
	// Key returns the normalized identity used for all graph lookups.
	Key() string

	// ProjectName returns the display name (canonical casing).
	ProjectName() string

	// RenderAsRoot renders the node as a top-level tree entry.
	RenderAsRoot(frozen bool) string

	// RenderAsBranch renders the node as a child of another node.
	RenderAsBranch(frozen bool) string

	// AsRecord returns the flat record for JSON output.
	AsRecord() Record
}

// RenderNode renders a node as a root or branch depending on whether it has
// a parent in the current traversal.
func RenderNode(n Node, hasParent, frozen bool) string {
	if hasParent {
		return n.RenderAsBranch(frozen)
	}
	return n.RenderAsRoot(frozen)
}

// Dist is an installed package. Identity is the normalized key: two Dist
// values with equal keys are the same graph node even when their originating
// requirements differ.
type Dist struct {
	key     string
	rawName string
	version string
	license string
	reqs    []*Req

	// via is the requirement this instance was produced to satisfy, set
	// only on copies made by AsParentOf. It selects the branch label when
	// the graph is rendered in reverse.
	via *Req
}

func (d *Dist) Key() string         { return d.key }
func (d *Dist) ProjectName() string { return projectName(d.rawName) }

// Version returns the installed version string.
func (d *Dist) Version() string { return d.version }

// License returns the declared license metadata, possibly empty.
func (d *Dist) License() string { return d.license }

// Requirements returns the parsed, deduplicated requirements in declaration
// order. The returned slice must not be modified.
func (d *Dist) Requirements() []*Req { return d.reqs }

// Via returns the requirement this instance satisfies when it appears as a
// reverse-graph child, or nil on ordinary forward nodes.
func (d *Dist) Via() *Req { return d.via }

func (d *Dist) RenderAsRoot(frozen bool) string {
	return fmt.Sprintf("%s==%s", d.ProjectName(), d.version)
}

func (d *Dist) RenderAsBranch(frozen bool) string {
	if frozen || d.via == nil {
		return d.RenderAsRoot(frozen)
	}
	parent := d.via.ProjectName()
	if spec := d.via.VersionSpec(); spec != "" {
		parent += spec
	}
	return fmt.Sprintf("%s==%s [requires: %s]", d.ProjectName(), d.version, parent)
}

// AsParentOf returns a Dist carrying req as its originating requirement,
// reusing the receiver when no association exists on either side.
func (d *Dist) AsParentOf(req *Req) *Dist {
	if req == nil && d.via == nil {
		return d
	}
	clone := *d
	clone.via = req
	return &clone
}

// AsRequirement converts the distribution into a self-requirement pinned to
// the installed version, used to keep true roots visible in reversed graphs.
func (d *Dist) AsRequirement() *Req {
	spec, _ := pep440.ParseSpecifier("==" + d.version)
	return &Req{key: d.key, rawName: d.rawName, spec: spec, dist: d}
}

func (d *Dist) AsRecord() Record {
	return Record{Key: d.key, PackageName: d.ProjectName(), InstalledVersion: d.version}
}

// Req is a declared dependency edge: a target key, an optional version
// specifier and, when the target is installed, the resolved distribution.
type Req struct {
	key     string
	rawName string
	spec    *pep440.Specifier // nil means any version is acceptable
	dist    *Dist             // nil means the dependency is missing
}

func (r *Req) Key() string         { return r.key }
func (r *Req) ProjectName() string { return projectName(r.rawName) }

// Dist returns the resolved distribution, or nil for a missing dependency.
func (r *Req) Dist() *Dist { return r.dist }

// Specifier returns the parsed version constraints, or nil for "any".
func (r *Req) Specifier() *pep440.Specifier { return r.spec }

// VersionSpec returns the display form of the specifier ("" when absent),
// with clauses deterministically ordered.
func (r *Req) VersionSpec() string { return r.spec.String() }

// InstalledVersion returns the resolved distribution's version, or the
// UnknownVersion sentinel when the dependency is missing.
func (r *Req) InstalledVersion() string {
	if r.dist == nil {
		return UnknownVersion
	}
	return r.dist.version
}

// IsMissing reports whether no installed distribution satisfies the key.
func (r *Req) IsMissing() bool { return r.dist == nil }

// IsConflicting reports whether the installed version fails the declared
// specifier. A requirement without a specifier never conflicts; one with a
// specifier but an unknown installed version always does.
func (r *Req) IsConflicting() bool {
	if r.spec == nil {
		return false
	}
	installed := r.InstalledVersion()
	if installed == UnknownVersion {
		return true
	}
	return !r.spec.Check(installed)
}

func (r *Req) RenderAsRoot(frozen bool) string {
	if frozen {
		if r.dist != nil {
			return r.dist.RenderAsRoot(frozen)
		}
		return r.ProjectName()
	}
	return fmt.Sprintf("%s==%s", r.ProjectName(), r.InstalledVersion())
}

func (r *Req) RenderAsBranch(frozen bool) string {
	if frozen {
		return r.RenderAsRoot(frozen)
	}
	required := r.VersionSpec()
	if required == "" {
		required = "Any"
	}
	return fmt.Sprintf("%s [required: %s, installed: %s]", r.ProjectName(), required, r.InstalledVersion())
}

func (r *Req) AsRecord() Record {
	required := r.VersionSpec()
	if required == "" {
		required = "Any"
	}
	return Record{
		Key:              r.key,
		PackageName:      r.ProjectName(),
		InstalledVersion: r.InstalledVersion(),
		RequiredVersion:  required,
	}
}
