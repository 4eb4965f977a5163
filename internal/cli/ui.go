package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"deptree/pkg/discovery"
	"deptree/pkg/pkggraph"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	styleWarnBanner = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	styleError      = lipgloss.NewStyle().Foreground(colorRed)
	styleDim        = lipgloss.NewStyle().Foreground(colorDim)
)

// separator closes off a warning block, keeping it visually apart from the
// rendered tree that follows on stdout.
var separator = strings.Repeat("-", 72)

// =============================================================================
// Warning Output
// =============================================================================

// warningPrinter writes the pre-render warning blocks to stderr and tracks
// whether any failure-relevant warning was emitted.
type warningPrinter struct {
	out    io.Writer
	level  string
	warned bool
}

// shouldWarn reports whether warnings are displayed at all.
func (w *warningPrinter) shouldWarn() bool {
	return w.level != warnSilence
}

// exitErr returns the sentinel error that makes the run exit non-zero when
// failure-relevant warnings were shown under --warn fail.
func (w *warningPrinter) exitErr() error {
	if w.warned && w.level == warnFail {
		return errWarningsFound
	}
	return nil
}

// singleLine emits one warning line, counting towards the failure exit.
func (w *warningPrinter) singleLine(line string) {
	if !w.shouldWarn() {
		return
	}
	w.warned = true
	fmt.Fprintln(w.out, styleWarnBanner.Render("Warning!!!")+" "+line)
}

// duplicates reports distributions dropped during discovery because their
// normalized name was already taken. Informational only: it never flips the
// run into the failure exit.
func (w *warningPrinter) duplicates(dups []discovery.Duplicate) {
	if !w.shouldWarn() || len(dups) == 0 {
		return
	}
	fmt.Fprintln(w.out, styleWarnBanner.Render("Warning!!! Duplicate package metadata found:"))
	for _, d := range dups {
		fmt.Fprintf(w.out, "  %-32s %-16s (using %s)\n", d.Dropped.Name, d.Dropped.Version, d.Kept.Version)
	}
	fmt.Fprintln(w.out, styleDim.Render("NOTE: This warning isn't a failure warning."))
	fmt.Fprintln(w.out, separator)
}

// malformed reports requirement strings that could not be parsed and were
// skipped while building the graph.
func (w *warningPrinter) malformed(reqs []pkggraph.MalformedRequirement) {
	if !w.shouldWarn() || len(reqs) == 0 {
		return
	}
	w.warned = true
	fmt.Fprintln(w.out, styleWarnBanner.Render("Warning!!! Malformed requirement strings found:"))
	for _, m := range reqs {
		fmt.Fprintf(w.out, "* %s: %q (%v)\n", m.Dist, m.Raw, m.Err)
	}
	fmt.Fprintln(w.out, separator)
}

// conflicts reports requirements whose installed version is missing or does
// not satisfy the declared specifier, listed per declaring package in
// alphabetical order.
func (w *warningPrinter) conflicts(conflicts []pkggraph.Conflict) {
	if !w.shouldWarn() || len(conflicts) == 0 {
		return
	}
	w.warned = true
	sorted := make([]pkggraph.Conflict, len(conflicts))
	copy(sorted, conflicts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Dist.Key() < sorted[j].Dist.Key() })

	fmt.Fprintln(w.out, styleWarnBanner.Render("Warning!!! Possibly conflicting dependencies found:"))
	for _, c := range sorted {
		fmt.Fprintf(w.out, "* %s\n", c.Dist.RenderAsRoot(false))
		for _, req := range c.Requirements {
			fmt.Fprintf(w.out, " - %s\n", req.RenderAsBranch(false))
		}
	}
	fmt.Fprintln(w.out, separator)
}

// cycles reports dependency cycles as project-name chains, sorted by the
// first package being cycled back into.
func (w *warningPrinter) cycles(g *pkggraph.Graph, cycles [][]string) {
	if !w.shouldWarn() || len(cycles) == 0 {
		return
	}
	w.warned = true
	lines := make([]string, 0, len(cycles))
	for _, chain := range cycles {
		names := make([]string, len(chain))
		for i, key := range chain {
			names[i] = key
			if n, ok := g.NodeFor(key); ok {
				names[i] = n.ProjectName()
			}
		}
		lines = append(lines, "* "+strings.Join(names, " => "))
	}
	sort.Strings(lines)

	fmt.Fprintln(w.out, styleWarnBanner.Render("Warning!! Cyclic dependencies found:"))
	for _, l := range lines {
		fmt.Fprintln(w.out, l)
	}
	fmt.Fprintln(w.out, separator)
}

// printError writes a styled error line to stderr. Used for fatal errors
// after cobra's own error printing is silenced.
func printError(w io.Writer, err error) {
	fmt.Fprintln(w, styleError.Render("Error:")+" "+err.Error())
}
