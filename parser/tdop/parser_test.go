// Copyright © 2024 The ELPS authors

package tdop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jshint/jshint-sub001/analysis"
	"github.com/jshint/jshint-sub001/options"
	"github.com/jshint/jshint-sub001/report"
)

// lint parses src with the default options modified by set.
func lint(t *testing.T, src string, set func(o *options.Options)) *Result {
	t.Helper()
	o := options.Default()
	if set != nil {
		set(o)
	}
	r := Parse([]byte(src), &Config{File: "test.js", Options: o})
	require.NotNil(t, r)
	require.NotNil(t, r.Summary)
	return r
}

func codes(r *Result) []report.Code {
	var cs []report.Code
	for _, d := range r.Diagnostics {
		cs = append(cs, d.Code)
	}
	return cs
}

func es6(o *options.Options) { o.ESVersion = 6 }

func unusedNames(s *analysis.Summary) []string {
	var names []string
	for _, u := range s.Unused {
		names = append(names, u.Name)
	}
	return names
}

func TestParse_Clean(t *testing.T) {
	tests := []struct {
		name string
		src  string
		set  func(o *options.Options)
	}{
		{"empty", "", nil},
		{"call before declaration", "fn(); function fn(){}", nil},
		{"var", "var a = 1, b = a + 2;", nil},
		{"function", "function f(a, b) { return a * b; }\nf(1, 2);", nil},
		{"if else", "var a; if (a) { a = 1; } else { a = 2; }", nil},
		{"classic for", "for (var i = 0; i < 2; i++) {}", nil},
		{"while", "var n = 3; while (n) { n--; }", nil},
		{"object", "var o = { a: 1, 'b': 2, get c() { return 3; }, set c(v) {} };", nil},
		{"array", "var a = [1, 2, 3];", nil},
		{"arrow", "var f = (a, b) => a + b; f(1, 2);", es6},
		{"single param arrow", "var g = x => x * 2; g(1);", es6},
		{"destructuring", "var [a, b] = [1, 2]; var {c, d} = {c: a, d: b};", es6},
		{"class", "class A extends Object { constructor() { super(); } m() { return 1; } }", es6},
		{"template", "var a = 1; var s = `x${a}y`;", es6},
		{"for of", "for (const v of [1, 2]) { v.toString(); }", es6},
		{"switch", "var a; switch (a) { case 1: a = 2; break; default: a = 3; }", nil},
		{"try", "try { JSON.parse('1'); } catch (e) { e.toString(); } finally {}", nil},
		{"module", "import a from 'a';\nexport default a;", func(o *options.Options) { o.ESVersion = 6; o.Module = true }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := lint(t, test.src, test.set)
			assert.Empty(t, r.Diagnostics, "%v", r.Diagnostics)
			assert.False(t, r.Incomplete)
		})
	}
}

func TestParse_Latedef(t *testing.T) {
	src := "fn(); function fn(){}"
	r := lint(t, src, func(o *options.Options) { o.Latedef = options.LatedefOn })
	require.Len(t, r.Diagnostics, 1)
	assert.Equal(t, report.Code("W003"), r.Diagnostics[0].Code)
	assert.Equal(t, 1, r.Diagnostics[0].Line)
	assert.Equal(t, 1, r.Diagnostics[0].Col)
	assert.Equal(t, []string{"fn"}, r.Diagnostics[0].Args)

	r = lint(t, src, func(o *options.Options) { o.Latedef = options.LatedefNoFunc })
	assert.Empty(t, r.Diagnostics)
}

func TestParse_UnusedParam(t *testing.T) {
	unused := func(o *options.Options) { o.Unused = options.UnusedLastParam }

	r := lint(t, "function f(a){ return a; } f();", unused)
	assert.Empty(t, r.Diagnostics)

	r = lint(t, "function f(a){ return 1; } f();", unused)
	require.Len(t, r.Diagnostics, 1)
	d := r.Diagnostics[0]
	assert.Equal(t, report.Code("W098"), d.Code)
	assert.Equal(t, 1, d.Line)
	assert.Equal(t, 12, d.Col)
	assert.Equal(t, []string{"a"}, d.Args)
}

func TestParse_Undef(t *testing.T) {
	r := lint(t, "x = 1;", func(o *options.Options) { o.Undef = true })
	require.Len(t, r.Diagnostics, 1)
	assert.Equal(t, report.Code("W117"), r.Diagnostics[0].Code)
	assert.Equal(t, []string{"x"}, r.Diagnostics[0].Args)

	r = lint(t, "x = 1;", func(o *options.Options) {
		o.Undef = true
		o.Globals["x"] = true
	})
	assert.Empty(t, r.Diagnostics)

	r = lint(t, "x = 1;", nil)
	assert.Empty(t, r.Diagnostics)
	require.Len(t, r.Summary.Implied, 1)
	assert.Equal(t, "x", r.Summary.Implied[0].Name)
}

func TestParse_UnclosedString(t *testing.T) {
	r := lint(t, `var s = "abc`, nil)
	assert.NotEmpty(t, r.Diagnostics)
	assert.NotContains(t, codes(r), report.Code("E042"))
	assert.False(t, r.Incomplete)
}

func TestParse_BlockScopedUnused(t *testing.T) {
	r := lint(t, "{ let y = 1; }", es6)
	assert.Empty(t, r.Diagnostics)
	assert.Contains(t, unusedNames(r.Summary), "y")
	for _, u := range r.Summary.Unused {
		if u.Name == "y" {
			assert.Equal(t, "let", u.Kind)
			assert.Equal(t, 1, u.Line)
			assert.Equal(t, 7, u.Col)
		}
	}

	r = lint(t, "{ let y = 1; y; }", es6)
	assert.NotContains(t, unusedNames(r.Summary), "y")
}

func TestParse_Termination(t *testing.T) {
	inputs := []string{
		")))",
		"function (",
		"{[(",
		"a b c",
		"var",
		"if (",
		"for (;;",
		"class {",
		"`${",
		"switch (x) { case",
		"}}}}",
		"var a = {get: 1, set",
		"import",
		"=> =>",
		"(a, b",
		"new new new",
		"a ? b",
		"do",
		"x.",
		"[...",
		"label: label: label:",
		"/* jshint",
		"'\\",
	}
	for _, src := range inputs {
		t.Run(src, func(t *testing.T) {
			first := lint(t, src, es6)
			second := lint(t, src, es6)
			assert.Equal(t, first.Diagnostics, second.Diagnostics)
			assert.Equal(t, first.Incomplete, second.Incomplete)
			assert.Equal(t, first.Summary, second.Summary)
		})
	}
}

func TestParse_Fatal(t *testing.T) {
	r := lint(t, "if (", nil)
	assert.True(t, r.Incomplete)
	cs := codes(r)
	require.NotEmpty(t, cs)
	assert.Equal(t, report.Code("E042"), cs[len(cs)-1])
	assert.Contains(t, cs, report.Code("E006"))

	r = lint(t, "function (a, {", nil)
	last := r.Diagnostics[len(r.Diagnostics)-1]
	require.Equal(t, report.Code("E042"), last.Code)
	assert.Equal(t, []string{"100"}, last.Args)
}

func TestParse_MaxErr(t *testing.T) {
	src := "a\nb\nc\nd\ne\nf\n"
	r := lint(t, src, func(o *options.Options) { o.MaxErr = 2 })
	assert.True(t, r.Incomplete)
	cs := codes(r)
	require.Len(t, cs, 3)
	assert.Equal(t, report.Code("E043"), cs[2])

	r = lint(t, "/* jshint maxerr: 1 */\na\nb\n", nil)
	assert.True(t, r.Incomplete)
	assert.Equal(t, []report.Code{"W030", "E043"}, codes(r))
}

func TestParse_Warnings(t *testing.T) {
	tests := []struct {
		name string
		src  string
		set  func(o *options.Options)
		want report.Code
	}{
		{"no effect", "a;", nil, "W030"},
		{"missing semicolon", "var a = 1\nvar b = 2;", nil, "W033"},
		{"curly", "if (a) b();", func(o *options.Options) { o.Curly = true }, "W116"},
		{"eqeqeq", "if (a == b) {}", func(o *options.Options) { o.Eqeqeq = true }, "W116"},
		{"eqnull", "if (a == null) {}", nil, "W041"},
		{"cond assignment", "if (a = b) {}", nil, "W084"},
		{"debugger", "debugger;", nil, "W087"},
		{"with", "with (a) {}", nil, "W085"},
		{"forin", "for (var k in o) { f(k); }", func(o *options.Options) { o.Forin = true }, "W089"},
		{"unreachable", "while (a) { break; f(); }", nil, "W027"},
		{"redeclared", "function f() { var a; var a; } f();", nil, "W004"},
		{"function in block", "if (x) { function g() {} }", nil, "W082"},
		{"typeof", "if (typeof a == 'strnig') {}", nil, "W122"},
		{"eval", "eval('1');", nil, "W061"},
		{"new side effects", "new Foo();", func(o *options.Options) { o.Nonew = true }, "W031"},
		{"duplicate key", "var o = {a: 1, a: 2};", nil, "W075"},
		{"setter only", "var o = {set a(v) {}};", nil, "W078"},
		{"read only global", "/* global x */\nx = 1;", nil, "W020"},
		{"let in es5", "let x = 1;", nil, "W104"},
		{"exponent in es5", "var a = 2 ** 3;", nil, "W119"},
		{"lexical in braceless body", "if (a) let x = 1;", es6, "E048"},
		{"plusplus", "var i = 0; i++;", func(o *options.Options) { o.Plusplus = true }, "W016"},
		{"fall through", "switch (a) { case 1: f(); case 2: break; }", nil, "W086"},
		{"missing strict", "function f() { return 1; }", func(o *options.Options) { o.Strict = options.StrictFunc }, "E007"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := lint(t, test.src, test.set)
			assert.Contains(t, codes(r), test.want, "%v", r.Diagnostics)
		})
	}
}

func TestParse_LoopFunc(t *testing.T) {
	src := "for (var i = 0; i < 3; i++) { var f = function () { return i; }; }"
	r := lint(t, src, nil)
	var found *report.Diagnostic
	for i := range r.Diagnostics {
		if r.Diagnostics[i].Code == "W083" {
			found = &r.Diagnostics[i]
		}
	}
	require.NotNil(t, found, "%v", r.Diagnostics)
	assert.Equal(t, []string{"'i'"}, found.Args)

	r = lint(t, src, func(o *options.Options) { o.Loopfunc = true })
	assert.NotContains(t, codes(r), report.Code("W083"))
}

func TestParse_Directives(t *testing.T) {
	r := lint(t, "/* jshint undef: true */\nx = 1;", nil)
	assert.Equal(t, []report.Code{"W117"}, codes(r))

	r = lint(t, "/* global x: true */\n/* jshint undef: true */\nx = 1;", nil)
	assert.Empty(t, r.Diagnostics)

	r = lint(t, "/* jshint -W117 */\nx = 1;", func(o *options.Options) { o.Undef = true })
	assert.Empty(t, r.Diagnostics)

	r = lint(t, "x = 1; // jshint ignore:line\ny = 2;", func(o *options.Options) { o.Undef = true })
	require.Len(t, r.Diagnostics, 1)
	assert.Equal(t, 2, r.Diagnostics[0].Line)

	r = lint(t, "/* jshint nosuchoption: true */", nil)
	assert.Equal(t, []report.Code{"E001"}, codes(r))

	r = lint(t, "var a = 1;\n/* jshint esversion: 6 */", nil)
	assert.Equal(t, []report.Code{"E055"}, codes(r))

	r = lint(t, "switch (a) { case 1: f();\n/* falls through */\ncase 2: break; }", nil)
	assert.NotContains(t, codes(r), report.Code("W086"))
}

func TestParse_FunctionScopedOptions(t *testing.T) {
	src := "function f() {\n/* jshint undef: true */\nx = 1;\n}\nf();\ny = 2;"
	r := lint(t, src, nil)
	require.Len(t, r.Diagnostics, 1, "%v", r.Diagnostics)
	assert.Equal(t, report.Code("W117"), r.Diagnostics[0].Code)
	assert.Equal(t, 3, r.Diagnostics[0].Line)
}

func TestParse_Exported(t *testing.T) {
	unused := func(o *options.Options) { o.Unused = options.UnusedVars }
	r := lint(t, "var a = 1;\nfunction g() {}", unused)
	assert.Len(t, r.Diagnostics, 2)

	r = lint(t, "/* exported a, g */\nvar a = 1;\nfunction g() {}", unused)
	assert.Empty(t, r.Diagnostics)
}

func TestParse_EditionGating(t *testing.T) {
	src := "const a = 1; a.toString();"
	assert.Contains(t, codes(lint(t, src, nil)), report.Code("W104"))
	assert.Empty(t, lint(t, src, es6).Diagnostics)

	src = "var o = {...a};"
	assert.Contains(t, codes(lint(t, src, es6)), report.Code("W119"))
	assert.Empty(t, lint(t, src, func(o *options.Options) { o.ESVersion = 9 }).Diagnostics)

	src = "var a = b ?? c;"
	assert.Contains(t, codes(lint(t, src, es6)), report.Code("W119"))
	assert.Empty(t, lint(t, src, func(o *options.Options) { o.ESVersion = 11 }).Diagnostics)
}

func TestParse_Summary(t *testing.T) {
	src := "function outer(a) {\n  var b = a;\n  return function inner() { return b; };\n}\nouter(1);"
	r := lint(t, src, nil)
	assert.Empty(t, r.Diagnostics)
	var names []string
	for _, f := range r.Summary.Functions {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"outer", "inner"}, names)
	assert.Equal(t, []string{"a"}, r.Summary.Functions[0].Params)
	assert.Contains(t, r.Summary.Functions[0].Closure, "b")
	assert.Contains(t, r.Summary.Functions[1].Outer, "b")
	assert.Contains(t, r.Summary.Globals, "outer")
}

func TestParse_NameHints(t *testing.T) {
	src := "var a = function () {};\nvar o = { m: function () {} };\no.p = function () {};"
	r := lint(t, src, nil)
	var names []string
	for _, f := range r.Summary.Functions {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"a", "m", "p"}, names)
}

func TestParse_Eval(t *testing.T) {
	r := lint(t, "eval('a b');", func(o *options.Options) { o.Evil = true })
	assert.Contains(t, codes(r), report.Code("E058"))
	assert.NotContains(t, codes(r), report.Code("W061"))

	r = lint(t, "eval('a b');", nil)
	assert.Contains(t, codes(r), report.Code("W061"))
	assert.Contains(t, codes(r), report.Code("E058"))
}

func TestParse_EvalTimers(t *testing.T) {
	tests := []struct {
		name string
		src  string
		evil bool
		want []report.Code
		skip []report.Code
	}{
		{"setTimeout", "setTimeout('a b', 1);", false, []report.Code{"W066", "E058"}, nil},
		{"setTimeout evil", "setTimeout('a b', 1);", true, []report.Code{"E058"}, []report.Code{"W066"}},
		{"window.setInterval evil", "window.setInterval('a b', 1);", true, []report.Code{"E058"}, []report.Code{"W066"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := lint(t, test.src, func(o *options.Options) { o.Evil = test.evil })
			for _, c := range test.want {
				assert.Contains(t, codes(r), c)
			}
			for _, c := range test.skip {
				assert.NotContains(t, codes(r), c)
			}
		})
	}
}

func TestParse_EmptyRadixLiteral(t *testing.T) {
	r := lint(t, "var x = 0x;\nvar y = 0b;", es6)
	var bad []report.Diagnostic
	for _, d := range r.Diagnostics {
		if d.Code == "W045" {
			bad = append(bad, d)
		}
	}
	require.Len(t, bad, 2)
	assert.Equal(t, []string{"0x"}, bad[0].Args)
	assert.Equal(t, 1, bad[0].Line)
	assert.Equal(t, []string{"0b"}, bad[1].Args)
	assert.Equal(t, 2, bad[1].Line)
}
