// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jshint/jshint-sub001/lint"
)

type lintFlags struct {
	json        bool
	report      bool
	text        bool
	checks      string
	list        bool
	excludes    []string
	extraExt    []string
	set         []string
	concurrency int
	filename    string
}

// LintCommand creates the "lint" cobra command.  Embedders can pass
// WithAnalyzers, WithPredefined or WithOptions to extend the checks.
func LintCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts)
	var flags lintFlags

	cmd := &cobra.Command{
		Use:   "lint [flags] [files...]",
		Short: "Check JavaScript source files for errors and likely mistakes",
		Long: `Check JavaScript source files for errors and likely mistakes.

Each file is parsed in a single pass; the parser reports syntax errors and
warnings as it goes, and a set of independent checks then look at whole
functions and lines.  Problems are reported with a code such as W117 which
can be used to silence them.

With no files, or with "-", reads from stdin.  A directory, or a path ending
in "/...", is searched recursively for .js files.  Paths listed in a
.jshintignore file in the working directory are skipped.

Exit codes:
  0  No problems found
  1  One or more problems were reported
  2  Bad invocation (invalid flags or options, unreadable files)

To silence a code for the rest of a file or function:
  /* jshint -W117 */

To silence everything on a line:
  x = 1; // jshint ignore:line

Available checks (use --checks to select specific ones):
` + lint.AnalyzerDoc() + `
Examples:
  jshint lint file.js                          # Check a single file
  jshint lint src/...                          # Check a directory tree
  jshint lint --set undef --set esversion=6 .  # Override options
  jshint lint --json file.js                   # Output diagnostics as JSON
  jshint lint --report file.js                 # Diagnostics and summary as JSON
  jshint lint --exclude='*.min.js' src         # Exclude files by name
  cat file.js | jshint lint --filename=file.js # Check stdin`,
		Run: func(cmd *cobra.Command, args []string) {
			r := &lintRun{
				cfg:    cfg,
				flags:  flags,
				v:      viper.GetViper(),
				rc:     rc,
				stdin:  cmd.InOrStdin(),
				stdout: cmd.OutOrStdout(),
				stderr: cmd.ErrOrStderr(),
			}
			if code := r.run(cmd.Context(), args); code != 0 {
				os.Exit(code)
			}
		},
	}

	cmd.Flags().BoolVar(&flags.json, "json", false,
		"Output diagnostics as JSON.")
	cmd.Flags().BoolVar(&flags.report, "report", false,
		"Output diagnostics and the scope summary of each file as JSON.")
	cmd.Flags().BoolVar(&flags.text, "text", false,
		"Output one line per diagnostic: file:line:col: message (code).")
	cmd.Flags().StringVar(&flags.checks, "checks", "",
		"Comma-separated list of checks to run (default: all).")
	cmd.Flags().BoolVar(&flags.list, "list", false,
		"List available checks and exit.")
	cmd.Flags().StringArrayVar(&flags.excludes, "exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
	cmd.Flags().StringSliceVar(&flags.extraExt, "extra-ext", nil,
		"Additional file extensions to search directories for.")
	cmd.Flags().StringArrayVar(&flags.set, "set", nil,
		`Set an option: "name", "name=value", "-W117" (may be repeated).`)
	cmd.Flags().IntVar(&flags.concurrency, "concurrency", 0,
		"Number of files checked at once (default: one per CPU).")
	cmd.Flags().StringVar(&flags.filename, "filename", "<stdin>",
		"Name reported for source read from stdin.")

	return cmd
}

// lintRun is one invocation of the lint command.
type lintRun struct {
	cfg    *cmdConfig
	flags  lintFlags
	v      *viper.Viper
	rc     *rcFile
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (r *lintRun) errorf(format string, args ...interface{}) int {
	fmt.Fprintf(r.stderr, "jshint lint: "+format+"\n", args...) //nolint:errcheck // best-effort output
	return 2
}

// run lints args and returns the process exit code.
func (r *lintRun) run(ctx context.Context, args []string) int {
	if ctx == nil {
		ctx = context.Background()
	}
	analyzers := r.cfg.allAnalyzers()
	if r.flags.list {
		names := make([]string, len(analyzers))
		for i, a := range analyzers {
			names[i] = a.Name
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintln(r.stdout, name) //nolint:errcheck // best-effort output
		}
		return 0
	}

	if r.flags.checks != "" {
		selected := make(map[string]bool)
		for _, name := range strings.Split(r.flags.checks, ",") {
			selected[strings.TrimSpace(name)] = true
		}
		var filtered []*lint.Analyzer
		for _, a := range analyzers {
			if selected[a.Name] {
				filtered = append(filtered, a)
				delete(selected, a.Name)
			}
		}
		for name := range selected {
			return r.errorf("unknown check: %s", name)
		}
		analyzers = filtered
	}

	opts, err := buildOptions(r.v, r.rc, r.flags.set)
	if err != nil {
		return r.errorf("%v", err)
	}
	r.cfg.apply(opts)

	l := &lint.Linter{
		Analyzers:   analyzers,
		Options:     opts,
		Concurrency: r.flags.concurrency,
		Logger:      logger,
	}

	var results []*lint.FileResult
	sources := make(map[string][]byte)
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		src, err := io.ReadAll(r.stdin)
		if err != nil {
			return r.errorf("reading stdin: %v", err)
		}
		res, err := l.LintSource(src, r.flags.filename)
		if err != nil {
			return r.errorf("%v", err)
		}
		results = []*lint.FileResult{res}
		sources[r.flags.filename] = src
	} else {
		excludes := r.flags.excludes
		if wd, err := os.Getwd(); err == nil {
			ignored, err := readIgnoreFile(wd)
			if err != nil {
				return r.errorf("%v", err)
			}
			excludes = append(excludes, ignored...)
		}
		exts := append(append([]string{}, defaultExtensions...), r.flags.extraExt...)
		paths, err := expandArgs(args, excludes, exts)
		if err != nil {
			return r.errorf("%v", err)
		}
		results, err = l.LintPaths(ctx, paths)
		if err != nil {
			return r.errorf("%v", err)
		}
	}

	diags := lint.Flatten(results)
	switch {
	case r.flags.report:
		if err := lint.FormatReport(r.stdout, results); err != nil {
			return r.errorf("%v", err)
		}
	case len(diags) == 0:
	case r.flags.json:
		if err := lint.FormatJSON(r.stdout, diags); err != nil {
			return r.errorf("%v", err)
		}
	case r.flags.text:
		lint.FormatText(r.stdout, diags)
	default:
		renderLintDiagnostics(r.stderr, diags, sources)
	}
	if len(diags) > 0 {
		return 1
	}
	return 0
}

func init() {
	rootCmd.AddCommand(LintCommand())
}
