// Copyright © 2018 The ELPS authors

// Package linttest runs fixture files and table driven suites through the
// parser and compares the diagnostics it reports with expectations.
//
// A fixture is an ECMAScript file whose expected diagnostics are written in
// line comments on the line they are expected at:
//
//	x = 1; // expect: W117
//	a // expect: W030 W033
//
// Directive comments in the fixture set its options.
package linttest

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"testing"

	"github.com/mattn/go-zglob"
	"github.com/stretchr/testify/assert"

	"github.com/jshint/jshint-sub001/options"
	"github.com/jshint/jshint-sub001/parser/tdop"
	"github.com/jshint/jshint-sub001/report"
)

var expectPattern = regexp.MustCompile(`//\s*expect:\s*(.*)$`)

// Expectations returns the codes expected on each line of src.
func Expectations(src []byte) map[int][]report.Code {
	want := make(map[int][]report.Code)
	for i, line := range strings.Split(string(src), "\n") {
		m := expectPattern.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m == nil {
			continue
		}
		for _, code := range strings.Fields(m[1]) {
			want[i+1] = append(want[i+1], report.Code(code))
		}
		sort.Slice(want[i+1], func(a, b int) bool { return want[i+1][a] < want[i+1][b] })
	}
	return want
}

// ByLine groups diagnostics by line with codes sorted.
func ByLine(diags []report.Diagnostic) map[int][]report.Code {
	got := make(map[int][]report.Code)
	for _, d := range diags {
		got[d.Line] = append(got[d.Line], d.Code)
	}
	for line := range got {
		codes := got[line]
		sort.Slice(codes, func(a, b int) bool { return codes[a] < codes[b] })
	}
	return got
}

// Runner lints fixture files.
type Runner struct {
	// Options returns the options in force at the start of every fixture.
	// When Options is nil the defaults are used.
	Options func() *options.Options
}

func (r *Runner) options() *options.Options {
	if r.Options == nil {
		return options.Default()
	}
	return r.Options()
}

// Lint parses source with the runner's options.
func (r *Runner) Lint(path string, source []byte) *tdop.Result {
	return tdop.Parse(source, &tdop.Config{File: filepath.Base(path), Options: r.options()})
}

// RunFixture checks the diagnostics of source against its expectations.
func (r *Runner) RunFixture(t testing.TB, path string, source []byte) {
	t.Helper()
	res := r.Lint(path, source)
	want := Expectations(source)
	got := ByLine(res.Diagnostics)
	if !assert.Equal(t, want, got, "diagnostics of %s", path) {
		for _, d := range res.Diagnostics {
			t.Logf("%s:%s", filepath.Base(path), d)
		}
	}
}

// RunFixtureFile reads and checks a single fixture.
func (r *Runner) RunFixtureFile(t *testing.T, path string) {
	source, err := os.ReadFile(path) //#nosec G304
	if err != nil {
		t.Errorf("Unable to read fixture: %v", err)
		return
	}
	r.RunFixture(t, path, source)
}

// RunFixtureDir checks every .js file below dir as a subtest named after
// its path relative to dir.
func (r *Runner) RunFixtureDir(t *testing.T, dir string) {
	paths, err := zglob.Glob(filepath.Join(dir, "**", "*.js"))
	if err != nil {
		t.Fatalf("Unable to list fixtures: %v", err)
	}
	if len(paths) == 0 {
		t.Fatalf("No fixtures found in %s", dir)
	}
	sort.Strings(paths)
	for _, path := range paths {
		name, err := filepath.Rel(dir, path)
		if err != nil {
			name = path
		}
		path := path
		// Each fixture runs independently; a failure in one does not stop
		// the rest of the directory.
		t.Run(filepath.ToSlash(name), func(t *testing.T) {
			r.RunFixtureFile(t, path)
		})
	}
}

// TestSuite is a set of named sources and the codes each must produce, in
// emission order.
type TestSuite []struct {
	Name    string
	Source  string
	Options func(o *options.Options)
	Codes   []report.Code
}

// RunTestSuite parses each source with fresh options and compares the
// reported codes.
func RunTestSuite(t *testing.T, tests TestSuite) {
	for i, test := range tests {
		o := options.Default()
		if test.Options != nil {
			test.Options(o)
		}
		res := tdop.Parse([]byte(test.Source), &tdop.Config{File: "test.js", Options: o})
		var codes []report.Code
		for _, d := range res.Diagnostics {
			codes = append(codes, d.Code)
		}
		if !assert.Equal(t, test.Codes, codes, "test %d %q", i, test.Name) {
			for _, d := range res.Diagnostics {
				t.Logf("test %d %q: %s", i, test.Name, d)
			}
		}
	}
}

// BenchmarkParse returns a benchmark which parses the file at path.
func BenchmarkParse(path string) func(*testing.B) {
	return func(b *testing.B) {
		buf, err := os.ReadFile(path) //#nosec G304
		if err != nil {
			b.Fatalf("Unable to read source file %v: %v", path, err)
		}
		b.SetBytes(int64(len(buf)))
		for i := 0; i < b.N; i++ {
			res := tdop.Parse(bytes.Clone(buf), &tdop.Config{File: path})
			if res.Incomplete {
				b.Fatalf("Parse stopped early: %v", res.Diagnostics)
			}
		}
	}
}
