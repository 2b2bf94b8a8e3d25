// Copyright © 2024 The ELPS authors

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jshint/jshint-sub001/lint"
	"github.com/jshint/jshint-sub001/options"
)

func TestLintCommand_DefaultFlags(t *testing.T) {
	cmd := LintCommand()
	assert.Equal(t, "lint [flags] [files...]", cmd.Use)

	for _, name := range []string{"json", "report", "text", "checks", "list", "exclude", "extra-ext", "set", "concurrency", "filename"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag: %s", name)
	}
	assert.Contains(t, cmd.Long, "max-statements")
}

// newRun returns a lintRun with empty configuration and captured output.
func newRun(flags lintFlags, stdin string, opts ...Option) (*lintRun, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	if flags.filename == "" {
		flags.filename = "<stdin>"
	}
	return &lintRun{
		cfg:    newCmdConfig(opts),
		flags:  flags,
		v:      viper.New(),
		stdin:  strings.NewReader(stdin),
		stdout: &stdout,
		stderr: &stderr,
	}, &stdout, &stderr
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLintRun(t *testing.T) {
	clean := writeFile(t, "clean.js", "var a = 1;\na += 1;\n")
	undef := writeFile(t, "undef.js", "x = 1;\n")

	tests := []struct {
		name   string
		flags  lintFlags
		args   []string
		stdin  string
		code   int
		stdout string
		stderr string
	}{
		{
			name: "clean file",
			args: []string{clean},
			code: 0,
		},
		{
			name: "implied global without undef",
			args: []string{undef},
			code: 0,
		},
		{
			name:   "undefined with text output",
			flags:  lintFlags{set: []string{"undef"}, text: true},
			args:   []string{undef},
			code:   1,
			stdout: undef + ":1:1: 'x' is not defined. (W117)\n",
		},
		{
			name:   "code disabled",
			flags:  lintFlags{set: []string{"undef", "-W117"}, text: true},
			args:   []string{undef},
			code:   0,
			stdout: "",
		},
		{
			name:   "stdin with filename",
			flags:  lintFlags{set: []string{"undef=true"}, text: true, filename: "app.js"},
			args:   []string{"-"},
			stdin:  "y = 2;\n",
			code:   1,
			stdout: "app.js:1:1: 'y' is not defined. (W117)\n",
		},
		{
			name:   "predefined global",
			flags:  lintFlags{set: []string{"undef", "globals=y,z"}, text: true},
			stdin:  "var w = y + z;\nw += 1;\n",
			code:   0,
			stdout: "",
		},
		{
			name:   "annotated output",
			flags:  lintFlags{set: []string{"undef"}},
			stdin:  "x = 1;\n",
			code:   1,
			stderr: "warning[W117]: 'x' is not defined.",
		},
		{
			name:   "list checks",
			flags:  lintFlags{list: true},
			code:   0,
			stdout: strings.Join(lint.AnalyzerNames(), "\n") + "\n",
		},
		{
			name:   "unknown check",
			flags:  lintFlags{checks: "max-len,bogus"},
			args:   []string{clean},
			code:   2,
			stderr: "unknown check: bogus",
		},
		{
			name:   "bad option",
			flags:  lintFlags{set: []string{"maxlen=wide"}},
			args:   []string{clean},
			code:   2,
			stderr: "option maxlen",
		},
		{
			name:   "missing file",
			args:   []string{filepath.Join(t.TempDir(), "missing.js")},
			code:   2,
			stderr: "jshint lint:",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r, stdout, stderr := newRun(test.flags, test.stdin)
			code := r.run(context.Background(), test.args)
			assert.Equal(t, test.code, code, "stderr: %s", stderr)
			if test.stdout != "" || test.code == 0 {
				assert.Equal(t, test.stdout, stdout.String())
			}
			if test.stderr != "" {
				assert.Contains(t, stderr.String(), test.stderr)
			}
		})
	}
}

func TestLintRun_JSON(t *testing.T) {
	r, stdout, _ := newRun(lintFlags{json: true, set: []string{"undef"}}, "x = 1;\n")
	require.Equal(t, 1, r.run(context.Background(), nil))

	var diags []map[string]interface{}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &diags))
	require.Len(t, diags, 1)
	assert.Equal(t, "W117", diags[0]["code"])
	assert.Equal(t, "jshint", diags[0]["analyzer"])
	assert.Equal(t, "warning", diags[0]["severity"])
	pos := diags[0]["pos"].(map[string]interface{})
	assert.Equal(t, "<stdin>", pos["file"])
	assert.Equal(t, float64(1), pos["line"])
}

func TestLintRun_Report(t *testing.T) {
	path := writeFile(t, "summary.js", "function f(a) { return a; }\nf(g);\n")
	r, stdout, _ := newRun(lintFlags{report: true}, "")
	require.Equal(t, 0, r.run(context.Background(), []string{path}))

	var results []struct {
		File    string `json:"file"`
		Summary struct {
			Functions []struct {
				Name string `json:"name"`
			} `json:"functions"`
			Implieds []struct {
				Name string `json:"name"`
			} `json:"implieds"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, path, results[0].File)
	require.Len(t, results[0].Summary.Functions, 1)
	assert.Equal(t, "f", results[0].Summary.Functions[0].Name)
	require.Len(t, results[0].Summary.Implieds, 1)
	assert.Equal(t, "g", results[0].Summary.Implieds[0].Name)
}

func TestLintRun_EmbedderOptions(t *testing.T) {
	flags := lintFlags{set: []string{"undef"}, text: true}
	r, stdout, _ := newRun(flags, "host.log(x);\n",
		WithPredefined(map[string]bool{"host": false}),
		WithOptions(func(o *options.Options) { o.Globals["x"] = false }),
	)
	assert.Equal(t, 0, r.run(context.Background(), nil), stdout.String())
}

func TestBuildOptions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, rcName)
	require.NoError(t, os.WriteFile(path, []byte(`{
  // comments are allowed
  "undef": true,
  "esversion": 6, /* block */
  "maxlen": 80,
  "globals": {"jQuery": false, "MyApp": true}
}`), 0o600))

	v := viper.New()
	rcf, err := readConfig(v, path)
	require.NoError(t, err)
	assert.Equal(t, path, rcf.Path)
	assert.Equal(t, map[string]bool{"jQuery": false, "MyApp": true}, rcf.Globals)

	opts, err := buildOptions(v, rcf, []string{"maxlen=100", "-W098", "predef=a,b"})
	require.NoError(t, err)
	assert.True(t, opts.Undef)
	assert.Equal(t, 6, opts.ESVersion)
	assert.Equal(t, 100, opts.MaxLen)
	assert.True(t, opts.Ignored["W098"])
	assert.Equal(t, false, opts.Globals["jQuery"])
	assert.Equal(t, true, opts.Globals["MyApp"])
	assert.Contains(t, opts.Globals, "a")
	assert.Contains(t, opts.Globals, "b")
}

func TestBuildOptions_Environment(t *testing.T) {
	t.Setenv("JSHINT_UNDEF", "true")
	v := viper.New()
	v.SetEnvPrefix("jshint")
	v.AutomaticEnv()

	opts, err := buildOptions(v, nil, nil)
	require.NoError(t, err)
	assert.True(t, opts.Undef)
}

func TestReadConfig_Errors(t *testing.T) {
	_, err := readConfig(viper.New(), filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)

	path := writeFile(t, rcName, `{"undef": `)
	_, err = readConfig(viper.New(), path)
	assert.Error(t, err)
}

func TestStripComments(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`{"a": 1}`, `{"a": 1}`},
		{"{\"a\": 1} // done", "{\"a\": 1}        "},
		{"{/* x\ny */\"a\": 1}", "{    \n    \"a\": 1}"},
		{`{"url": "http://x/*y*/"}`, `{"url": "http://x/*y*/"}`},
		{`{"q": "a\"//b"}`, `{"q": "a\"//b"}`},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, string(stripComments([]byte(test.src))), "%q", test.src)
	}
}

func TestFindConfig(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o700))
	home := t.TempDir()

	assert.Equal(t, "", findConfig(nested, ""))

	homeRC := filepath.Join(home, rcName)
	require.NoError(t, os.WriteFile(homeRC, []byte("{}"), 0o600))
	assert.Equal(t, homeRC, findConfig(nested, home))

	rootRC := filepath.Join(root, "a", rcName)
	require.NoError(t, os.WriteFile(rootRC, []byte("{}"), 0o600))
	assert.Equal(t, rootRC, findConfig(nested, home))
}

func TestReadIgnoreFile(t *testing.T) {
	dir := t.TempDir()
	patterns, err := readIgnoreFile(dir)
	require.NoError(t, err)
	assert.Nil(t, patterns)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ignoreName),
		[]byte("# vendored\nnode_modules/\n\n*.min.js\n"), 0o600))
	patterns, err = readIgnoreFile(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"node_modules", "*.min.js"}, patterns)
}
