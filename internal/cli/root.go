package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"deptree/pkg/discovery"
	"deptree/pkg/pkggraph"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// This is typically called by the main package during initialization with
// values injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Warning control levels accepted by --warn.
const (
	warnSilence  = "silence"
	warnSuppress = "suppress"
	warnFail     = "fail"
)

// errWarningsFound is returned when --warn fail saw warnings. It carries the
// non-zero exit status; the warnings themselves were already printed.
var errWarningsFound = errors.New("warnings found")

// options collects every flag of the root command.
type options struct {
	warn        string
	python      string
	paths       []string
	packages    string
	exclude     string
	localOnly   bool
	userOnly    bool
	freeze      bool
	all         bool
	depth       int
	reverse     bool
	license     bool
	json        bool
	jsonTree    bool
	mermaid     bool
	graphOutput string
	encoding    string
}

// Execute runs the deptree CLI and returns an error if the run fails or if
// --warn fail saw warnings. This is the main entry point for the
// application.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible via loggerFromContext.
func Execute() error {
	var verbose bool
	opts := &options{
		warn:     warnSuppress,
		python:   "python3",
		depth:    -1,
		encoding: "utf-8",
	}

	root := &cobra.Command{
		Use:           "deptree",
		Short:         "Dependency tree of the installed Python packages",
		Long:          `deptree inspects the packages installed in a Python environment and renders their dependency relationships as a tree, freeze file, JSON, Mermaid flowchart or Graphviz graph, warning about conflicting and cyclic dependencies along the way.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("deptree %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	f := root.Flags()
	f.StringVarP(&opts.warn, "warn", "w", opts.warn, "warning control: silence, suppress or fail")
	f.StringVar(&opts.python, "python", opts.python, `Python interpreter to inspect; "auto" detects the active virtualenv`)
	f.StringArrayVar(&opts.paths, "path", nil, "restrict where packages are looked for (can be used multiple times)")
	f.StringVarP(&opts.packages, "packages", "p", "", "comma separated list of packages to show, wildcards supported")
	f.StringVarP(&opts.exclude, "exclude", "e", "", "comma separated list of packages to not show, wildcards supported")
	f.BoolVarP(&opts.localOnly, "local-only", "l", false, "if in a virtualenv with global access, do not show globally installed packages")
	f.BoolVarP(&opts.userOnly, "user-only", "u", false, "only show installations in the user site dir")
	f.BoolVarP(&opts.freeze, "freeze", "f", false, "print names so as to write freeze files")
	f.BoolVarP(&opts.all, "all", "a", false, "list all deps at top level (text and freeze render only)")
	f.IntVarP(&opts.depth, "depth", "d", opts.depth, "limit the depth of the tree, negative means unlimited (text and freeze render only)")
	f.BoolVarP(&opts.reverse, "reverse", "r", false, "render the tree in reverse: sub-dependencies listed with the packages that need them")
	f.BoolVar(&opts.license, "license", false, "list the license(s) of a package (text render only)")
	f.BoolVarP(&opts.json, "json", "j", false, "raw JSON output usable by external tools")
	f.BoolVar(&opts.jsonTree, "json-tree", false, "nested JSON mimicking the text format layout")
	f.BoolVar(&opts.mermaid, "mermaid", false, "https://mermaid.js.org flow diagram")
	f.StringVar(&opts.graphOutput, "graph-output", "", "Graphviz rendering with the given output format, e.g. dot, png, svg")
	f.StringVar(&opts.encoding, "encoding", opts.encoding, "the encoding to use when writing the output")

	root.MarkFlagsMutuallyExclusive("json", "json-tree", "mermaid", "graph-output")
	root.MarkFlagsMutuallyExclusive("local-only", "user-only")
	root.MarkFlagsMutuallyExclusive("license", "freeze")

	err := root.ExecuteContext(context.Background())
	if err != nil && !errors.Is(err, errWarningsFound) {
		printError(os.Stderr, err)
	}
	return err
}

// run executes the whole pipeline: discover, dedupe, build, warn, reverse,
// filter, render.
func run(cmd *cobra.Command, o *options) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	if err := applyConfigDefaults(cmd, o, logger); err != nil {
		return err
	}

	if len(o.paths) > 0 && (o.localOnly || o.userOnly) {
		return errors.New("cannot use --path with --local-only or --user-only")
	}
	switch o.warn {
	case warnSilence, warnSuppress, warnFail:
	default:
		return fmt.Errorf("invalid --warn value %q, expected silence, suppress or fail", o.warn)
	}

	// Warnings are only meaningful when a human reads the output.
	level := o.warn
	if o.json || o.jsonTree || o.graphOutput != "" {
		level = warnSilence
	}
	wp := &warningPrinter{out: cmd.ErrOrStderr(), level: level}

	records, err := discover(ctx, o, logger)
	if err != nil {
		return err
	}

	records, dups := discovery.Dedupe(records)
	wp.duplicates(dups)

	p := newProgress(logger)
	graph, report := pkggraph.Build(records)
	p.done(fmt.Sprintf("Built dependency graph of %d packages", graph.Len()))
	wp.malformed(report.Malformed)

	// Conflicts and cycles are detected on the forward, unfiltered graph.
	if wp.shouldWarn() {
		wp.conflicts(pkggraph.Conflicts(graph))
		wp.cycles(graph, pkggraph.Cycles(graph))
	}

	if o.reverse {
		graph = graph.Reverse()
	}

	include := splitPatterns(o.packages)
	exclude := splitPatterns(o.exclude)
	if include != nil || exclude != nil {
		filtered, err := graph.Filter(include, exclude)
		if err != nil {
			wp.singleLine(err.Error())
			if exitErr := wp.exitErr(); exitErr != nil {
				return exitErr
			}
			return nil
		}
		graph = filtered
	}

	if err := renderOutput(cmd.OutOrStdout(), graph, o); err != nil {
		return err
	}
	return wp.exitErr()
}

// discover enumerates the installed distributions from the configured
// source: explicit metadata paths or the target interpreter.
func discover(ctx context.Context, o *options, logger *charmlog.Logger) ([]pkggraph.DistRecord, error) {
	if len(o.paths) > 0 {
		logger.Debugf("scanning %d metadata paths", len(o.paths))
		return discovery.ScanPaths(o.paths)
	}

	python, err := resolvePython(o.python)
	if err != nil {
		return nil, err
	}
	logger.Debugf("querying interpreter %s", python)
	return discovery.Interpreter(ctx, python, discovery.Options{
		LocalOnly: o.localOnly,
		UserOnly:  o.userOnly,
	})
}

// resolvePython maps the "auto" interpreter choice to the active virtualenv.
func resolvePython(python string) (string, error) {
	if python != "auto" {
		return python, nil
	}
	venv := os.Getenv("VIRTUAL_ENV")
	if venv == "" {
		return "", errors.New(`--python auto requires an activated virtual environment (VIRTUAL_ENV is not set)`)
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(venv, "Scripts", "python.exe"), nil
	}
	return filepath.Join(venv, "bin", "python"), nil
}
