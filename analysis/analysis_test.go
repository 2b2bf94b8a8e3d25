// Copyright © 2024 The ELPS authors

package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jshint/jshint-sub001/options"
	"github.com/jshint/jshint-sub001/report"
)

type diag struct {
	code report.Code
	line int
	col  int
	args []string
}

func (d diag) String() string {
	return fmt.Sprintf("%d:%d %s %v", d.line, d.col, d.code, d.args)
}

// newResolver is a test helper returning a resolver and the diagnostics it
// reports.
func newResolver(t *testing.T, opts *options.Options, predef map[string]bool) (*Resolver, *[]diag) {
	t.Helper()
	if opts == nil {
		opts = options.Default()
	}
	var diags []diag
	r := NewResolver(&Config{
		Options:    func() *options.Options { return opts },
		Predefined: predef,
		Warn: func(code report.Code, line, col int, args ...string) {
			diags = append(diags, diag{code, line, col, args})
		},
	})
	return r, &diags
}

func codes(diags []diag) []report.Code {
	var cs []report.Code
	for _, d := range diags {
		cs = append(cs, d.code)
	}
	return cs
}

func TestBindingKind_String(t *testing.T) {
	assert.Equal(t, "unused", KindUnused.String())
	assert.Equal(t, "unction", KindUnction.String())
	assert.Equal(t, "closure", KindClosure.String())
	assert.Equal(t, "implied", KindImplied.String())
	assert.Equal(t, "unknown", BindingKind(99).String())
}

func TestUse_PromotesKind(t *testing.T) {
	r, diags := newResolver(t, nil, nil)
	v := r.Declare("a", KindVar, 1, 5)
	fn := r.Declare("f", KindFunction, 2, 10)
	assert.Equal(t, KindUnused, v.Kind)
	assert.Equal(t, KindUnction, fn.Kind)

	r.Use("a", 3, 1)
	r.Use("f", 3, 4)
	assert.Equal(t, KindVar, v.Kind)
	assert.Equal(t, KindFunction, fn.Kind)
	r.Finish()
	assert.Empty(t, *diags)
}

func TestClosure_Transition(t *testing.T) {
	r, diags := newResolver(t, nil, nil)
	a := r.Declare("a", KindVar, 1, 5)
	outer := r.PushFunct(FunctFunction, "outer", 2, 1)
	r.PushBlock(true)
	for i := 0; i < 3; i++ {
		r.PushFunct(FunctFunction, "inner", 3+i, 1)
		r.PushBlock(true)
		r.Use("a", 3+i, 10)
		r.PopFunct(3+i, 20)
	}
	r.PopFunct(9, 1)
	assert.Equal(t, KindClosure, a.Kind)

	r.PushFunct(FunctFunction, "again", 10, 1)
	r.Use("a", 10, 20)
	r.PopFunct(10, 30)
	assert.Equal(t, KindClosure, a.Kind)
	r.Use("a", 11, 1)
	assert.Equal(t, KindClosure, a.Kind)

	r.Finish()
	assert.Empty(t, *diags)
	assert.True(t, a.Used)

	s := r.Summary()
	require.Len(t, s.Functions, 5)
	assert.Equal(t, "outer", s.Functions[0].Name)
	assert.Equal(t, outer.Line, s.Functions[0].Line)
	assert.Equal(t, []string{"a"}, s.Functions[1].Global)
	assert.Equal(t, []string{"a"}, s.Functions[4].Global)
}

func TestClosure_OuterFunction(t *testing.T) {
	r, diags := newResolver(t, nil, nil)
	r.PushFunct(FunctFunction, "outer", 1, 1)
	r.PushBlock(true)
	b := r.Declare("b", KindVar, 2, 5)
	r.PushFunct(FunctFunction, "inner", 3, 1)
	r.PushBlock(true)
	r.Use("b", 4, 1)
	r.PopFunct(5, 1)
	r.PopFunct(6, 1)
	r.Finish()
	assert.Empty(t, *diags)
	assert.Equal(t, KindClosure, b.Kind)
	s := r.Summary()
	require.Len(t, s.Functions, 2)
	assert.Equal(t, []string{"b"}, s.Functions[0].Closure)
	assert.Equal(t, []string{"b"}, s.Functions[1].Outer)
}

func TestHoisting_InnerReferenceSatisfiedLater(t *testing.T) {
	opts := options.Default()
	opts.Undef = true
	opts.Latedef = options.LatedefOn
	r, diags := newResolver(t, opts, nil)
	r.PushFunct(FunctFunction, "a", 1, 1)
	r.PushBlock(true)
	r.Use("later", 1, 15)
	r.PopFunct(1, 30)
	v := r.Declare("later", KindVar, 2, 5)
	r.Finish()
	assert.Empty(t, *diags)
	assert.Equal(t, KindClosure, v.Kind)
	assert.Empty(t, r.Summary().Implied)
}

func TestLatedef(t *testing.T) {
	tests := []struct {
		mode  options.LatedefMode
		kind  BindingKind
		codes []report.Code
	}{
		{options.LatedefOff, KindFunction, nil},
		{options.LatedefOn, KindFunction, []report.Code{"W003"}},
		{options.LatedefNoFunc, KindFunction, nil},
		{options.LatedefNoFunc, KindVar, []report.Code{"W003"}},
	}
	for _, test := range tests {
		opts := options.Default()
		opts.Latedef = test.mode
		r, diags := newResolver(t, opts, nil)
		r.Use("fn", 1, 1)
		r.Declare("fn", test.kind, 1, 15)
		r.Finish()
		assert.Equal(t, test.codes, codes(*diags), "latedef=%d kind=%v", test.mode, test.kind)
	}
}

func TestLatedef_Location(t *testing.T) {
	opts := options.Default()
	opts.Latedef = options.LatedefOn
	r, diags := newResolver(t, opts, nil)
	r.Use("fn", 1, 1)
	r.Declare("fn", KindFunction, 1, 16)
	require.Len(t, *diags, 1)
	assert.Equal(t, diag{"W003", 1, 1, []string{"fn"}}, (*diags)[0])
}

func TestTemporalDeadZone(t *testing.T) {
	r, diags := newResolver(t, nil, nil)
	r.PushBlock(false)
	r.Use("x", 2, 3)
	r.Declare("x", KindLet, 3, 7)
	r.PopBlock()
	r.Finish()
	require.Len(t, *diags, 1)
	assert.Equal(t, diag{"E056", 2, 3, []string{"x", "let"}}, (*diags)[0])
}

func TestTemporalDeadZone_OtherBlock(t *testing.T) {
	opts := options.Default()
	opts.Undef = true
	r, diags := newResolver(t, opts, nil)
	r.PushBlock(false)
	r.Use("x", 2, 3)
	r.PopBlock()
	r.PushBlock(false)
	r.Declare("x", KindConst, 4, 9)
	r.Use("x", 5, 1)
	r.PopBlock()
	r.Finish()
	assert.Equal(t, []report.Code{"W117"}, codes(*diags))
	require.Len(t, r.Summary().Implied, 1)
	assert.Equal(t, ImpliedGlobal{Name: "x", Lines: []int{2}}, r.Summary().Implied[0])
}

func TestUndefined(t *testing.T) {
	tests := []struct {
		undef  bool
		predef map[string]bool
		codes  []report.Code
	}{
		{true, nil, []report.Code{"W117"}},
		{false, nil, nil},
		{true, map[string]bool{"x": true}, nil},
		{true, map[string]bool{"x": false}, []report.Code{"W020"}},
	}
	for _, test := range tests {
		opts := options.Default()
		opts.Undef = test.undef
		r, diags := newResolver(t, opts, test.predef)
		r.Assign("x", 1, 1)
		r.Finish()
		assert.Equal(t, test.codes, codes(*diags), "undef=%v predef=%v", test.undef, test.predef)
	}
}

func TestUndefined_Forgiven(t *testing.T) {
	opts := options.Default()
	opts.Undef = true
	r, diags := newResolver(t, opts, nil)
	r.Forgive(r.Use("maybe", 1, 8))
	r.Finish()
	assert.Empty(t, *diags)
	assert.Empty(t, r.Summary().Implied)
}

func TestUndefined_CapturedAtReference(t *testing.T) {
	opts := options.Default()
	r, diags := newResolver(t, nil, nil)
	r.opts = func() *options.Options { return opts }
	r.Use("a", 1, 1)
	opts = opts.Clone()
	opts.Undef = true
	r.Use("b", 2, 1)
	r.Finish()
	require.Len(t, *diags, 1)
	assert.Equal(t, diag{"W117", 2, 1, []string{"b"}}, (*diags)[0])
	s := r.Summary()
	require.Len(t, s.Implied, 2)
	assert.Equal(t, "a", s.Implied[0].Name)
	assert.Equal(t, "b", s.Implied[1].Name)
}

func TestUnused_Params(t *testing.T) {
	tests := []struct {
		mode  options.UnusedMode
		used  []bool
		codes []string
	}{
		{options.UnusedOff, []bool{false, false}, nil},
		{options.UnusedVars, []bool{false, false}, nil},
		{options.UnusedLastParam, []bool{false, true, false}, []string{"p2"}},
		{options.UnusedLastParam, []bool{true}, nil},
		{options.UnusedStrict, []bool{false, true, false}, []string{"p0", "p2"}},
	}
	for _, test := range tests {
		opts := options.Default()
		opts.Unused = test.mode
		r, diags := newResolver(t, opts, nil)
		r.PushFunct(FunctFunction, "f", 1, 1)
		for i := range test.used {
			r.DeclareParam(fmt.Sprintf("p%d", i), 1, 12+i*3)
		}
		r.PushBlock(true)
		for i, used := range test.used {
			if used {
				r.Use(fmt.Sprintf("p%d", i), 2, 1)
			}
		}
		r.PopFunct(3, 1)
		r.Finish()
		var names []string
		for _, d := range *diags {
			assert.Equal(t, report.Code("W098"), d.code)
			names = append(names, d.args[0])
		}
		assert.Equal(t, test.codes, names, "mode=%v used=%v", test.mode, test.used)
	}
}

func TestUnused_BlockScoped(t *testing.T) {
	opts := options.Default()
	opts.Unused = options.UnusedLastParam
	r, diags := newResolver(t, opts, nil)
	r.PushBlock(false)
	r.Declare("y", KindLet, 1, 7)
	r.PopBlock()
	r.PushBlock(false)
	r.Declare("z", KindLet, 2, 7)
	r.Use("z", 2, 14)
	r.PopBlock()
	r.Finish()
	require.Len(t, *diags, 1)
	assert.Equal(t, diag{"W098", 1, 7, []string{"y"}}, (*diags)[0])
	s := r.Summary()
	require.Len(t, s.Unused, 1)
	assert.Equal(t, UnusedBinding{Name: "y", Line: 1, Col: 7, Kind: "let", Function: "(global)"}, s.Unused[0])
}

func TestUnused_AssignmentIsNotUse(t *testing.T) {
	opts := options.Default()
	opts.Unused = options.UnusedVars
	r, diags := newResolver(t, opts, nil)
	r.Declare("a", KindVar, 1, 5)
	r.Assign("a", 1, 8)
	r.Finish()
	assert.Equal(t, []report.Code{"W098"}, codes(*diags))
}

func TestUnused_Exported(t *testing.T) {
	opts := options.Default()
	opts.Unused = options.UnusedVars
	r, diags := newResolver(t, opts, nil)
	r.Declare("a", KindVar, 1, 5)
	r.Declare("b", KindFunction, 2, 10)
	r.Export("b")
	r.Export("a")
	r.Finish()
	assert.Empty(t, *diags)
}

func TestUnused_DirectiveGlobal(t *testing.T) {
	opts := options.Default()
	opts.Unused = options.UnusedVars
	r, diags := newResolver(t, opts, nil)
	r.DeclareGlobal("jQuery", false, 1, 11)
	r.DeclareGlobal("unusedGlobal", false, 1, 19)
	r.PushFunct(FunctFunction, "f", 2, 1)
	r.Use("jQuery", 2, 15)
	r.PopFunct(2, 30)
	r.Finish()
	require.Len(t, *diags, 1)
	assert.Equal(t, diag{"W098", 1, 19, []string{"unusedGlobal"}}, (*diags)[0])
}

func TestUnused_ModeCapturedAtDeclaration(t *testing.T) {
	opts := options.Default()
	r, diags := newResolver(t, nil, nil)
	r.opts = func() *options.Options { return opts }
	r.Declare("quiet", KindVar, 1, 5)
	opts = opts.Clone()
	opts.Unused = options.UnusedVars
	r.Declare("loud", KindVar, 2, 5)
	r.Finish()
	require.Len(t, *diags, 1)
	assert.Equal(t, []string{"loud"}, (*diags)[0].args)
	assert.Len(t, r.Summary().Unused, 2)
}

func TestRedeclaration(t *testing.T) {
	tests := []struct {
		name   string
		shadow options.ShadowMode
		run    func(r *Resolver)
		codes  []report.Code
	}{
		{"var twice in function", options.ShadowInner, func(r *Resolver) {
			r.PushFunct(FunctFunction, "f", 1, 1)
			r.Declare("a", KindVar, 1, 10)
			r.Declare("a", KindVar, 1, 20)
		}, []report.Code{"W004"}},
		{"var twice at top level", options.ShadowInner, func(r *Resolver) {
			r.Declare("a", KindVar, 1, 5)
			r.Declare("a", KindVar, 2, 5)
		}, nil},
		{"tolerated", options.ShadowTolerate, func(r *Resolver) {
			r.PushFunct(FunctFunction, "f", 1, 1)
			r.Declare("a", KindVar, 1, 10)
			r.Declare("a", KindVar, 1, 20)
		}, nil},
		{"const over const", options.ShadowTolerate, func(r *Resolver) {
			r.Declare("c", KindConst, 1, 7)
			r.Declare("c", KindConst, 2, 7)
		}, []report.Code{"E011"}},
		{"var over let", options.ShadowInner, func(r *Resolver) {
			r.Declare("a", KindLet, 1, 5)
			r.PushBlock(false)
			r.Declare("a", KindVar, 2, 5)
		}, []report.Code{"E011"}},
		{"let over param", options.ShadowInner, func(r *Resolver) {
			r.PushFunct(FunctFunction, "f", 1, 1)
			r.DeclareParam("a", 1, 12)
			r.PushBlock(true)
			r.Declare("a", KindLet, 2, 5)
		}, []report.Code{"E011"}},
		{"inner shadow allowed", options.ShadowInner, func(r *Resolver) {
			r.Declare("a", KindVar, 1, 5)
			r.PushFunct(FunctFunction, "f", 2, 1)
			r.Declare("a", KindVar, 2, 15)
		}, nil},
		{"outer shadow", options.ShadowOuter, func(r *Resolver) {
			r.Declare("a", KindVar, 1, 5)
			r.PushFunct(FunctFunction, "f", 2, 1)
			r.Declare("a", KindVar, 2, 15)
		}, []report.Code{"W123"}},
		{"outer block shadow", options.ShadowOuter, func(r *Resolver) {
			r.Declare("a", KindLet, 1, 5)
			r.PushBlock(false)
			r.Declare("a", KindLet, 2, 5)
		}, []report.Code{"W123"}},
		{"read-only predefined", options.ShadowInner, func(r *Resolver) {
			r.Declare("Array", KindVar, 1, 5)
		}, []report.Code{"W079"}},
	}
	for _, test := range tests {
		opts := options.Default()
		opts.Shadow = test.shadow
		r, diags := newResolver(t, opts, map[string]bool{"Array": false})
		test.run(r)
		assert.Equal(t, test.codes, codes(*diags), test.name)
	}
}

func TestAssignmentChecks(t *testing.T) {
	tests := []struct {
		decl BindingKind
		code report.Code
	}{
		{KindConst, "E013"},
		{KindFunction, "W021"},
		{KindClass, "W021"},
		{KindImport, "E013"},
	}
	for _, test := range tests {
		r, diags := newResolver(t, nil, nil)
		r.Declare("n", test.decl, 1, 1)
		r.Assign("n", 2, 1)
		assert.Equal(t, []report.Code{test.code}, codes(*diags), test.decl.String())
	}

	r, diags := newResolver(t, nil, nil)
	r.PushFunct(FunctCatch, "(catch)", 1, 1)
	r.Declare("e", KindException, 1, 8)
	r.PushBlock(true)
	r.Assign("e", 1, 12)
	assert.Equal(t, []report.Code{"W022"}, codes(*diags))
}

func TestCatch_VarHoists(t *testing.T) {
	opts := options.Default()
	opts.Undef = true
	r, diags := newResolver(t, opts, nil)
	f := r.PushFunct(FunctFunction, "f", 1, 1)
	r.PushBlock(true)
	c := r.PushFunct(FunctCatch, "(catch)", 2, 3)
	e := r.Declare("e", KindException, 2, 10)
	r.PushBlock(true)
	v := r.Declare("v", KindVar, 3, 9)
	r.Use("e", 3, 13)
	r.Use("v", 3, 16)
	r.PopBlock()
	r.PopFunct(4, 3)
	r.PopFunct(6, 1)
	r.Finish()

	assert.Empty(t, *diags)
	assert.Equal(t, f.ID, v.Funct)
	assert.Equal(t, c.ID, e.Funct)
	assert.Equal(t, KindVar, v.Kind)
	assert.Equal(t, KindException, e.Kind)
	assert.True(t, e.Used)
	s := r.Summary()
	require.Len(t, s.Functions, 1)
	assert.Equal(t, "f", s.Functions[0].Name)
}

func TestOutOfScopeVar(t *testing.T) {
	r, diags := newResolver(t, nil, nil)
	r.PushFunct(FunctFunction, "f", 1, 1)
	r.PushBlock(true)
	r.PushBlock(false)
	r.Declare("a", KindVar, 2, 9)
	r.PopBlock()
	r.Use("a", 3, 3)
	assert.Equal(t, []report.Code{"W038"}, codes(*diags))

	opts := options.Default()
	opts.Funcscope = true
	r, diags = newResolver(t, opts, nil)
	r.PushFunct(FunctFunction, "f", 1, 1)
	r.PushBlock(true)
	r.PushBlock(false)
	r.Declare("a", KindVar, 2, 9)
	r.PopBlock()
	r.Use("a", 3, 3)
	assert.Empty(t, *diags)
}

func TestLabels(t *testing.T) {
	r, diags := newResolver(t, nil, nil)
	r.PushBlock(false)
	r.AddLabel("outer", 1, 1)
	assert.True(t, r.HasLabel("outer"))
	r.Use("outer", 2, 5)
	r.PushFunct(FunctFunction, "f", 3, 1)
	assert.False(t, r.HasLabel("outer"))
	r.Use("outer", 3, 15)
	r.PopFunct(3, 30)
	r.PopBlock()
	assert.False(t, r.HasLabel("outer"))
	assert.Equal(t, []report.Code{"W037", "W038"}, codes(*diags))
}

func TestArguments(t *testing.T) {
	opts := options.Default()
	opts.Undef = true
	r, diags := newResolver(t, opts, nil)
	r.PushFunct(FunctFunction, "f", 1, 1)
	r.PushFunct(FunctArrow, "(arrow)", 1, 15)
	r.Use("arguments", 1, 20)
	r.PopFunct(1, 30)
	r.PopFunct(1, 31)
	r.Use("arguments", 2, 1)
	r.Finish()
	require.Len(t, *diags, 1)
	assert.Equal(t, diag{"W117", 2, 1, []string{"arguments"}}, (*diags)[0])
}

func TestNameSelf(t *testing.T) {
	opts := options.Default()
	opts.Unused = options.UnusedStrict
	r, diags := newResolver(t, opts, nil)
	r.PushFunct(FunctFunction, "g", 1, 9)
	r.NameSelf("g", 1, 18)
	r.PushBlock(true)
	r.Use("g", 1, 22)
	r.PopFunct(1, 30)
	r.Finish()
	assert.Empty(t, *diags)
}

func TestMetrics_RollUpFromCatch(t *testing.T) {
	r, _ := newResolver(t, nil, nil)
	f := r.PushFunct(FunctFunction, "f", 1, 1)
	r.PushFunct(FunctCatch, "(catch)", 2, 1)
	r.Metrics().Statements++
	r.Metrics().Complexity++
	assert.Equal(t, 1, f.Metrics.Statements)
	assert.Equal(t, 2, f.Metrics.Complexity)
	assert.Same(t, f, r.Function())
}

func TestFinish_ClosesOpenScopes(t *testing.T) {
	opts := options.Default()
	opts.Undef = true
	r, diags := newResolver(t, opts, nil)
	r.PushFunct(FunctFunction, "f", 1, 1)
	r.PushBlock(true)
	r.Use("missing", 2, 1)
	r.Finish()
	assert.True(t, r.IsGlobal())
	assert.Equal(t, []report.Code{"W117"}, codes(*diags))
}

func TestDeterminism(t *testing.T) {
	run := func() ([]diag, *Summary) {
		opts := options.Default()
		opts.Undef = true
		opts.Unused = options.UnusedStrict
		r, diags := newResolver(t, opts, nil)
		for i := 0; i < 10; i++ {
			r.Declare(fmt.Sprintf("v%d", i), KindVar, i+1, 5)
			r.PushFunct(FunctFunction, fmt.Sprintf("f%d", i), i+1, 10)
			r.DeclareParam("p", i+1, 20)
			r.Use(fmt.Sprintf("g%d", i), i+1, 25)
			r.PopFunct(i+1, 30)
		}
		r.Finish()
		return *diags, r.Summary()
	}
	d1, s1 := run()
	d2, s2 := run()
	assert.Equal(t, d1, d2)
	assert.Equal(t, s1, s2)
	assert.Len(t, s1.Functions, 10)
	assert.Len(t, s1.Implied, 10)
}

func TestPredefined(t *testing.T) {
	o := options.Default()
	names := Predefined(o)
	assert.Contains(t, names, "JSON")
	assert.NotContains(t, names, "Promise")
	assert.NotContains(t, names, "window")

	o.ESVersion = 6
	o.Browser = true
	o.Globals["app"] = true
	names = Predefined(o)
	assert.Contains(t, names, "Promise")
	assert.Contains(t, names, "window")
	assert.True(t, names["app"])
	assert.False(t, names["undefined"])
}
