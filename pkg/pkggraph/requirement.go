package pkggraph

import (
	"errors"
	"fmt"
	"regexp"
	"runtime"
	"strings"

	"deptree/pkg/pep440"
)

// ErrMalformedRequirement is returned (wrapped) when a declared requirement
// string cannot be parsed.
var ErrMalformedRequirement = errors.New("malformed requirement")

var (
	reqNameRE   = regexp.MustCompile(`^\s*([A-Za-z0-9][A-Za-z0-9._-]*)`)
	extrasRE    = regexp.MustCompile(`^\s*\[[^\]]*\]`)
	extraGateRE = regexp.MustCompile(`\bextra\s*==`)
	markerExprE = regexp.MustCompile(`\b(sys_platform|os_name|platform_system)\s*(==|!=)\s*['"]([^'"]+)['"]`)
)

// parsedReq is the outcome of parsing one declared requirement string.
type parsedReq struct {
	name string
	spec *pep440.Specifier
	skip bool // extra-gated or failing an environment marker
}

// parseRequirement parses a PEP 508-style requirement: a name, optional
// extras (dropped), an optional specifier (bare or parenthesized) and an
// optional ";"-separated environment marker. URL requirements ("name @ url")
// carry no usable specifier and resolve as "any".
func parseRequirement(raw string) (parsedReq, error) {
	rest := strings.TrimSpace(raw)
	if rest == "" {
		return parsedReq{}, fmt.Errorf("%w: empty string", ErrMalformedRequirement)
	}

	var marker string
	if i := strings.Index(rest, ";"); i >= 0 {
		marker = strings.TrimSpace(rest[i+1:])
		rest = strings.TrimSpace(rest[:i])
	}

	m := reqNameRE.FindStringSubmatch(rest)
	if m == nil {
		return parsedReq{}, fmt.Errorf("%w: %q: no package name", ErrMalformedRequirement, raw)
	}
	name := m[1]
	rest = rest[len(m[0]):]
	rest = extrasRE.ReplaceAllString(rest, "")
	rest = strings.TrimSpace(rest)

	if marker != "" && !markerApplies(marker) {
		return parsedReq{name: name, skip: true}, nil
	}

	// Direct references pin a URL, not a version range.
	if strings.HasPrefix(rest, "@") {
		return parsedReq{name: name}, nil
	}

	spec, err := pep440.ParseSpecifier(rest)
	if err != nil {
		return parsedReq{}, fmt.Errorf("%w: %q: %v", ErrMalformedRequirement, raw, err)
	}
	return parsedReq{name: name, spec: spec}, nil
}

// markerApplies evaluates an environment marker against the current
// platform. Extra-gated requirements never apply (optional features are not
// part of the base graph). Simple and-joined platform comparisons are
// evaluated; anything more elaborate is kept conservatively.
func markerApplies(marker string) bool {
	if extraGateRE.MatchString(marker) {
		return false
	}
	if strings.Contains(marker, " or ") {
		return true
	}
	for _, expr := range markerExprE.FindAllStringSubmatch(marker, -1) {
		got := markerValue(expr[1])
		want := expr[3]
		if expr[2] == "==" && got != want {
			return false
		}
		if expr[2] == "!=" && got == want {
			return false
		}
	}
	return true
}

func markerValue(name string) string {
	switch name {
	case "sys_platform":
		if runtime.GOOS == "windows" {
			return "win32"
		}
		return runtime.GOOS
	case "os_name":
		if runtime.GOOS == "windows" {
			return "nt"
		}
		return "posix"
	case "platform_system":
		switch runtime.GOOS {
		case "windows":
			return "Windows"
		case "darwin":
			return "Darwin"
		default:
			return "Linux"
		}
	}
	return ""
}
