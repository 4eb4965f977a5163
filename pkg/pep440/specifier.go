package pep440

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ErrInvalidSpecifier is returned by ParseSpecifier when a clause cannot be
// split into an operator and a version.
var ErrInvalidSpecifier = errors.New("invalid specifier")

var clauseRE = regexp.MustCompile(`^(===|==|!=|~=|>=|<=|>|<)\s*(.+?)\s*$`)

// clause is a single operator/version pair within a specifier.
type clause struct {
	op  string
	raw string // version text exactly as declared, without the operator

	ver    *semver.Version // parsed version, nil for "===" and prefix clauses
	prefix []string        // release components for "==x.y.*" style clauses
}

// Specifier is a parsed set of version constraints such as ">=1.0,<2.0".
// All clauses must hold for a version to satisfy the specifier. The zero
// value is not used; an absent specifier ("any version") is a nil
// *Specifier.
type Specifier struct {
	clauses []clause
}

// ParseSpecifier parses a comma-joined list of operator/version clauses.
// Surrounding parentheses are tolerated ("(>=1.0,<2.0)" is common in
// dist-info metadata). Empty input yields a nil Specifier, meaning any
// version is acceptable.
func ParseSpecifier(raw string) (*Specifier, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var spec Specifier
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		c, err := parseClause(part)
		if err != nil {
			return nil, err
		}
		spec.clauses = append(spec.clauses, c)
	}
	if len(spec.clauses) == 0 {
		return nil, nil
	}
	return &spec, nil
}

func parseClause(part string) (clause, error) {
	m := clauseRE.FindStringSubmatch(part)
	if m == nil {
		return clause{}, fmt.Errorf("%w: %q", ErrInvalidSpecifier, part)
	}
	c := clause{op: m[1], raw: m[2]}

	// Arbitrary equality compares raw strings, nothing to parse.
	if c.op == "===" {
		return c, nil
	}

	if base, ok := strings.CutSuffix(c.raw, ".*"); ok {
		if c.op != "==" && c.op != "!=" {
			return clause{}, fmt.Errorf("%w: %q: wildcard requires == or !=", ErrInvalidSpecifier, part)
		}
		c.prefix = strings.Split(base, ".")
		return c, nil
	}

	v, err := ParseVersion(c.raw)
	if err != nil {
		return clause{}, fmt.Errorf("%w: %q", ErrInvalidSpecifier, part)
	}
	c.ver = v
	return c, nil
}

// String renders the specifier with clauses ordered deterministically,
// descending by their textual form so ">=" sorts before "<". This is a
// display contract only; satisfaction does not depend on clause order.
func (s *Specifier) String() string {
	if s == nil || len(s.clauses) == 0 {
		return ""
	}
	parts := make([]string, len(s.clauses))
	for i, c := range s.clauses {
		parts[i] = c.op + c.raw
	}
	sort.Sort(sort.Reverse(sort.StringSlice(parts)))
	return strings.Join(parts, ",")
}

// Check reports whether the installed version satisfies every clause of the
// specifier. A nil specifier admits anything. An installed version that does
// not parse satisfies nothing.
func (s *Specifier) Check(installed string) bool {
	if s == nil {
		return true
	}
	v, err := ParseVersion(installed)
	if err != nil {
		return false
	}
	for _, c := range s.clauses {
		if !c.check(v, installed) {
			return false
		}
	}
	return true
}

func (c clause) check(v *semver.Version, installed string) bool {
	switch {
	case c.op == "===":
		return strings.TrimSpace(installed) == c.raw
	case c.prefix != nil:
		match := matchesPrefix(v, c.prefix)
		if c.op == "!=" {
			return !match
		}
		return match
	case c.op == "~=":
		return compatibleRelease(v, c)
	}

	cmp := v.Compare(c.ver)
	switch c.op {
	case "==":
		return cmp == 0
	case "!=":
		return cmp != 0
	case ">":
		return cmp > 0
	case ">=":
		return cmp >= 0
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	}
	return false
}

// matchesPrefix implements "==x.y.*": the declared release components must
// equal the installed version's leading components.
func matchesPrefix(v *semver.Version, prefix []string) bool {
	got := []uint64{v.Major(), v.Minor(), v.Patch()}
	for i, want := range prefix {
		if i >= len(got) {
			break
		}
		if want != fmt.Sprintf("%d", got[i]) {
			return false
		}
	}
	return true
}

// compatibleRelease implements "~=x.y[.z]": at least the declared version,
// and the release series fixed through all but the last declared component.
func compatibleRelease(v *semver.Version, c clause) bool {
	if v.Compare(c.ver) < 0 {
		return false
	}
	parts := strings.Split(c.raw, ".")
	if len(parts) < 2 {
		return true
	}
	return matchesPrefix(v, parts[:len(parts)-1])
}
