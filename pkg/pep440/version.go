// Package pep440 parses Python package versions and version specifiers and
// answers whether an installed version satisfies a declared specifier.
//
// It is a thin layer over github.com/Masterminds/semver/v3: versions are
// translated from PEP 440 spelling (epochs, "1.0a1", ".dev2", ".post1") into
// semver form before comparison. Satisfaction is evaluated clause by clause
// with plain version comparison, so pre-release versions match inequality
// operators instead of being rejected wholesale.
package pep440

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ErrInvalidVersion is returned by ParseVersion when the input cannot be
// interpreted as a PEP 440 version.
var ErrInvalidVersion = errors.New("invalid version")

var versionRE = regexp.MustCompile(
	`^v?(\d+(?:\.\d+)*)` + // 1: release segment
		`(?:[._-]?(a|alpha|b|beta|c|pre|preview|rc)[._-]?(\d*))?` + // 2, 3: pre-release
		`(?:[._-]?(post|rev|r)[._-]?(\d*))?` + // 4, 5: post-release
		`(?:[._-]?(dev)[._-]?(\d*))?$`, // 6, 7: dev-release
)

// preTags maps PEP 440 pre-release spellings onto semver pre-release
// identifiers that preserve PEP 440 ordering (alpha < beta < rc).
var preTags = map[string]string{
	"a": "alpha", "alpha": "alpha",
	"b": "beta", "beta": "beta",
	"c": "rc", "pre": "rc", "preview": "rc", "rc": "rc",
}

// ParseVersion parses a version string, accepting both semver and PEP 440
// spellings. Epochs ("1!2.0") and local segments ("+cu118") are stripped
// before comparison. Returns ErrInvalidVersion (wrapped) when the string is
// not a version at all.
func ParseVersion(raw string) (*semver.Version, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return nil, fmt.Errorf("%w: empty string", ErrInvalidVersion)
	}

	// Epoch and local segments have no semver counterpart.
	if i := strings.Index(s, "!"); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.Index(s, "+"); i >= 0 {
		s = s[:i]
	}

	if v, err := semver.StrictNewVersion(s); err == nil {
		return v, nil
	}

	m := versionRE.FindStringSubmatch(s)
	if m == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidVersion, raw)
	}

	translated := padRelease(m[1])
	switch {
	case m[2] != "":
		translated += "-" + preIdentifier(m[2], m[3], m[7])
	case m[6] != "":
		// A dev release without a pre-release tag sorts below every
		// tagged pre-release: numeric identifiers precede alphabetic
		// ones in semver ordering.
		translated += "-0.dev." + orZero(m[7])
	}
	if m[4] != "" {
		// Post-releases compare equal to their base here; the ordinal
		// is kept as build metadata for display round-trips only.
		translated += "+post." + orZero(m[5])
	}

	v, err := semver.NewVersion(translated)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidVersion, raw)
	}
	return v, nil
}

// padRelease widens or truncates a dotted release segment to the three
// components semver requires. Releases with more than three components
// (rare, e.g. "4.2.1.1") lose the tail.
func padRelease(release string) string {
	parts := strings.Split(release, ".")
	for len(parts) < 3 {
		parts = append(parts, "0")
	}
	return strings.Join(parts[:3], ".")
}

// preIdentifier builds the semver pre-release identifier for a PEP 440
// pre-release tag, folding a trailing dev segment into it when present.
func preIdentifier(tag, num, devNum string) string {
	id := preTags[tag] + "." + orZero(num)
	if devNum != "" {
		id += ".dev." + devNum
	}
	return id
}

func orZero(num string) string {
	if num == "" {
		return "0"
	}
	return num
}
