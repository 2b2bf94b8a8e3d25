// Copyright © 2024 The ELPS authors

// Package analysis resolves variable bindings for the parser as it runs.
//
// The Resolver keeps an arena of functs (function level scopes, including
// the program and catch clauses) each holding a stack of block frames.  The
// parser reports declarations and references in source order; references
// that cannot be satisfied yet wait on a work-list until a later
// declaration resolves them (hoisting), their funct is popped and they move
// outward, or Finish treats them as globals.
package analysis

import (
	"sort"

	"github.com/jshint/jshint-sub001/options"
	"github.com/jshint/jshint-sub001/report"
)

// WarnFunc receives semantic diagnostics.
type WarnFunc func(code report.Code, line, col int, args ...string)

// Config controls a Resolver.
type Config struct {
	// Options returns the options in force at the current position.
	Options func() *options.Options

	// Predefined maps known global names to whether they are writable.
	Predefined map[string]bool

	Warn WarnFunc
}

// Resolver tracks bindings for one parse.
type Resolver struct {
	functs    []*Funct
	cur       FunctID
	nextFrame int

	predefined map[string]bool
	// globals declared by directive comments, reported when unused.
	directive      map[string]*Binding
	directiveOrder []*Binding
	exported       map[string]bool

	implied      map[string]*ImpliedGlobal
	impliedOrder []*ImpliedGlobal
	unused       []UnusedBinding
	// top level bindings are checked for use at Finish so later exports
	// apply to them.
	deferred []*Binding

	opts func() *options.Options
	warn WarnFunc
}

// NewResolver returns a resolver positioned in the top level funct.
func NewResolver(cfg *Config) *Resolver {
	if cfg == nil {
		cfg = &Config{}
	}
	r := &Resolver{
		predefined: make(map[string]bool, len(cfg.Predefined)),
		directive:  make(map[string]*Binding),
		exported:   make(map[string]bool),
		implied:    make(map[string]*ImpliedGlobal),
		opts:       cfg.Options,
		warn:       cfg.Warn,
	}
	if r.opts == nil {
		def := options.Default()
		r.opts = func() *options.Options { return def }
	}
	if r.warn == nil {
		r.warn = func(report.Code, int, int, ...string) {}
	}
	for name, writable := range cfg.Predefined {
		r.predefined[name] = writable
	}
	top := &Funct{ID: 0, Parent: NoFunct, Kind: FunctGlobal, Name: "(global)", Line: 1, Col: 1}
	top.Metrics.Complexity = 1
	top.Metrics.Depth = -1
	top.frames = []*frame{r.newFrame()}
	r.functs = append(r.functs, top)
	return r
}

func (r *Resolver) newFrame() *frame {
	fr := newFrame(r.nextFrame)
	r.nextFrame++
	return fr
}

// Current returns the innermost open funct.
func (r *Resolver) Current() *Funct {
	return r.functs[r.cur]
}

// Funct returns the funct with the given id.
func (r *Resolver) Funct(id FunctID) *Funct {
	return r.functs[id]
}

// Functs returns every funct created so far in creation order.
func (r *Resolver) Functs() []*Funct {
	return r.functs
}

// IsGlobal reports whether the innermost open funct is the top level.
func (r *Resolver) IsGlobal() bool {
	return r.cur == 0
}

// Metrics returns the metrics of the nearest enclosing function.  Catch
// clauses and comprehensions roll their statements into it.
func (r *Resolver) Metrics() *Metrics {
	f := r.Current()
	for f.Kind.transparent() && f.Parent != NoFunct {
		f = r.functs[f.Parent]
	}
	return &f.Metrics
}

// Function returns the nearest enclosing funct which is not a catch clause
// or comprehension.
func (r *Resolver) Function() *Funct {
	f := r.Current()
	for f.Kind.transparent() && f.Parent != NoFunct {
		f = r.functs[f.Parent]
	}
	return f
}

// PushFunct opens a new funct nested in the current one.
func (r *Resolver) PushFunct(kind FunctKind, name string, line, col int) *Funct {
	parent := r.Current()
	f := &Funct{
		ID:     FunctID(len(r.functs)),
		Parent: parent.ID,
		Kind:   kind,
		Name:   name,
		Line:   line,
		Col:    col,
		Strict: parent.Strict,
	}
	f.Metrics.Complexity = 1
	f.Metrics.Depth = -1
	f.frames = []*frame{r.newFrame()}
	r.functs = append(r.functs, f)
	r.cur = f.ID
	return f
}

// PopFunct closes the current funct.  Unused bindings are reported and
// references that remain unresolved move to the parent.
func (r *Resolver) PopFunct(endLine, endCol int) {
	f := r.Current()
	if f.Parent == NoFunct {
		return
	}
	f.EndLine, f.EndCol = endLine, endCol
	for len(f.frames) > 1 {
		r.PopBlock()
	}
	r.reportFunct(f)
	parent := r.functs[f.Parent]
	r.cur = parent.ID
	pending := f.pending
	f.pending = nil
	for _, ref := range pending {
		if ref.resolved {
			continue
		}
		r.propagate(ref, parent, !f.Kind.transparent())
	}
}

// PushBlock opens a block frame in the current funct and returns its id.
// Function bodies are marked so that lexical declarations in them conflict
// with parameters.
func (r *Resolver) PushBlock(body bool) int {
	f := r.Current()
	fr := r.newFrame()
	fr.isBody = body
	f.frames = append(f.frames, fr)
	return fr.id
}

// PopBlock closes the innermost block frame of the current funct and
// reports its unused lexical bindings.
func (r *Resolver) PopBlock() {
	f := r.Current()
	if len(f.frames) <= 1 {
		return
	}
	fr := f.top()
	f.frames = f.frames[:len(f.frames)-1]
	r.reportFrame(f, fr)
}

// BlockDepth returns the number of open block frames in the current funct.
func (r *Resolver) BlockDepth() int {
	return len(r.Current().frames) - 1
}

func (r *Resolver) newBinding(f *Funct, name string, kind BindingKind, line, col int) *Binding {
	return &Binding{
		Name:   name,
		Kind:   kind,
		Decl:   kind,
		Line:   line,
		Col:    col,
		Funct:  f.ID,
		Block:  f.top().id,
		Unused: r.opts().Unused,
	}
}

// Declare introduces name in the current scope.  Var and function
// declarations hoist to the nearest function; let, const, class and import
// bindings belong to the innermost block.
func (r *Resolver) Declare(name string, kind BindingKind, line, col int) *Binding {
	switch kind {
	case KindVar, KindUnused:
		return r.declareVar(name, KindUnused, line, col)
	case KindFunction, KindUnction:
		return r.declareVar(name, KindUnction, line, col)
	case KindException:
		return r.declareException(name, line, col)
	case KindConst, KindLet, KindClass, KindImport:
		return r.declareLexical(name, kind, line, col)
	}
	return nil
}

func (r *Resolver) declareVar(name string, kind BindingKind, line, col int) *Binding {
	opts := r.opts()
	f := r.Current()
	target := r.Function()
	for fn := f; ; fn = r.functs[fn.Parent] {
		for _, fr := range fn.frames {
			if b, ok := fr.names[name]; ok && b.Decl.lexical() {
				r.warn("E011", line, col, name)
				return b
			}
		}
		if fn == target {
			break
		}
	}
	if existing, ok := target.frames[0].names[name]; ok {
		if existing.Self {
			return r.replaceSelf(target, existing, kind, line, col)
		}
		if opts.Shadow != options.ShadowTolerate && target.Kind != FunctGlobal {
			r.warn("W004", line, col, name)
		}
		if kind == KindUnction && existing.Decl == KindUnused && !existing.Param {
			existing.Decl = KindUnction
			if existing.Kind == KindUnused {
				existing.Kind = KindUnction
			}
		}
		return existing
	}
	r.checkOuterShadow(target, name, line, col)
	b := r.newBinding(target, name, kind, line, col)
	b.Block = f.top().id
	target.frames[0].names[name] = b
	target.frames[0].order = append(target.frames[0].order, b)
	target.bindings = append(target.bindings, b)
	r.checkRedefinition(target, name, line, col)
	r.resolvePending(f, target, target.frames[0], b)
	return b
}

// replaceSelf turns the implicit name of a function expression into a real
// declaration.
func (r *Resolver) replaceSelf(f *Funct, self *Binding, kind BindingKind, line, col int) *Binding {
	b := r.newBinding(f, self.Name, kind, line, col)
	f.frames[0].names[self.Name] = b
	f.frames[0].order = append(f.frames[0].order, b)
	f.bindings = append(f.bindings, b)
	return b
}

func (r *Resolver) declareLexical(name string, kind BindingKind, line, col int) *Binding {
	f := r.Current()
	fr := f.top()
	if existing, ok := fr.names[name]; ok {
		r.warn("E011", line, col, name)
		return existing
	}
	if fr != f.frames[0] {
		if existing, ok := f.frames[0].names[name]; ok && !existing.Self {
			if (fr.isBody && existing.Param) || existing.Block == fr.id {
				r.warn("E011", line, col, name)
				return existing
			}
		}
	}
	r.checkOuterShadow(f, name, line, col)
	b := r.newBinding(f, name, kind, line, col)
	fr.names[name] = b
	fr.order = append(fr.order, b)
	f.bindings = append(f.bindings, b)
	if fr == f.frames[0] {
		r.checkRedefinition(f, name, line, col)
	}
	r.resolvePending(f, f, fr, b)
	return b
}

func (r *Resolver) declareException(name string, line, col int) *Binding {
	f := r.Current()
	if existing, ok := f.frames[0].names[name]; ok {
		r.warn("E011", line, col, name)
		return existing
	}
	r.checkOuterShadow(f, name, line, col)
	b := r.newBinding(f, name, KindException, line, col)
	f.frames[0].names[name] = b
	f.frames[0].order = append(f.frames[0].order, b)
	f.bindings = append(f.bindings, b)
	return b
}

// DeclareParam adds a formal parameter to the current funct.
func (r *Resolver) DeclareParam(name string, line, col int) *Binding {
	f := r.Current()
	if existing, ok := f.frames[0].names[name]; ok && !existing.Self {
		r.warn("W004", line, col, name)
		return existing
	}
	r.checkOuterShadow(f, name, line, col)
	b := r.newBinding(f, name, KindUnused, line, col)
	b.Param = true
	b.Index = len(f.paramList)
	f.Params = append(f.Params, name)
	f.paramList = append(f.paramList, b)
	f.frames[0].names[name] = b
	f.frames[0].order = append(f.frames[0].order, b)
	f.bindings = append(f.bindings, b)
	return b
}

// NameSelf binds the name of a function or class expression inside its own
// body.  The binding is never reported as unused.
func (r *Resolver) NameSelf(name string, line, col int) *Binding {
	f := r.Current()
	b := r.newBinding(f, name, KindFunction, line, col)
	b.Decl = KindUnction
	b.Used = true
	b.Self = true
	f.frames[0].names[name] = b
	return b
}

func (r *Resolver) checkOuterShadow(f *Funct, name string, line, col int) {
	if r.opts().Shadow != options.ShadowOuter {
		return
	}
	if len(f.frames) > 1 {
		for _, fr := range f.frames[:len(f.frames)-1] {
			if b, ok := fr.names[name]; ok && !b.Self {
				r.warn("W123", line, col, name)
				return
			}
		}
	}
	for id := f.Parent; id != NoFunct; id = r.functs[id].Parent {
		if b, _ := r.functs[id].lookup(name); b != nil {
			r.warn("W123", line, col, name)
			return
		}
	}
	if _, ok := r.predefined[name]; ok {
		r.warn("W123", line, col, name)
	}
}

func (r *Resolver) checkRedefinition(f *Funct, name string, line, col int) {
	if f.Kind != FunctGlobal {
		return
	}
	if writable, ok := r.predefined[name]; ok && !writable {
		r.warn("W079", line, col, name)
	}
}

// resolvePending satisfies waiting references to b.  Refs in from and the
// transparent functs between it and target are considered.
func (r *Resolver) resolvePending(from, target *Funct, fr *frame, b *Binding) {
	opts := r.opts()
	for fn := from; ; fn = r.functs[fn.Parent] {
		kept := fn.pending[:0]
		for _, ref := range fn.pending {
			if ref.resolved || ref.Name != b.Name || (fn == target && !ref.onChain(fr.id)) {
				if !ref.resolved {
					kept = append(kept, ref)
				}
				continue
			}
			if !ref.inner && target.Kind != FunctComprehension {
				switch {
				case b.Decl.lexical():
					r.warn("E056", ref.Line, ref.Col, b.Name, b.Decl.declName())
				case opts.Latedef == options.LatedefOn,
					opts.Latedef == options.LatedefNoFunc && b.Decl != KindUnction:
					r.warn("W003", ref.Line, ref.Col, b.Name)
				}
			}
			r.bind(ref, b, target)
		}
		fn.pending = kept
		if fn == target {
			break
		}
	}
}

// AddLabel declares a statement label in the innermost block.
func (r *Resolver) AddLabel(name string, line, col int) *Binding {
	f := r.Current()
	if existing := r.findLabel(name); existing != nil {
		r.warn("E011", line, col, name)
		return existing
	}
	b := r.newBinding(f, name, KindLabel, line, col)
	b.Used = true
	f.top().labels[name] = b
	return b
}

// PopLabel removes a label once the statement it names is complete.
func (r *Resolver) PopLabel(name string) {
	f := r.Current()
	for i := len(f.frames) - 1; i >= 0; i-- {
		if _, ok := f.frames[i].labels[name]; ok {
			delete(f.frames[i].labels, name)
			return
		}
	}
}

// HasLabel reports whether name is a label visible from the current
// position.
func (r *Resolver) HasLabel(name string) bool {
	return r.findLabel(name) != nil
}

func (r *Resolver) findLabel(name string) *Binding {
	for fn := r.Current(); ; fn = r.functs[fn.Parent] {
		if b := fn.lookupLabel(name); b != nil {
			return b
		}
		if !fn.Kind.transparent() || fn.Parent == NoFunct {
			return nil
		}
	}
}

// Lookup returns the binding visible for name from the current position
// without recording a reference.
func (r *Resolver) Lookup(name string) *Binding {
	for fn := r.Current(); fn != nil; {
		if b, _ := fn.lookup(name); b != nil {
			return b
		}
		if fn.Parent == NoFunct {
			return nil
		}
		fn = r.functs[fn.Parent]
	}
	return nil
}

// Use records a read of name.
func (r *Resolver) Use(name string, line, col int) *Ref {
	return r.reference(&Ref{Name: name, Line: line, Col: col}, true)
}

// Assign records a write to name.  Writes do not count as uses.
func (r *Resolver) Assign(name string, line, col int) *Ref {
	return r.reference(&Ref{Name: name, Line: line, Col: col, Write: true}, false)
}

// Modify records a read-modify-write of name such as x += 1 or x++.
func (r *Resolver) Modify(name string, line, col int) *Ref {
	return r.reference(&Ref{Name: name, Line: line, Col: col, Write: true}, true)
}

// MarkWrite turns a recorded read into a read-modify-write, as when the
// operand of ++ turns out to be a plain name.
func (r *Resolver) MarkWrite(ref *Ref) {
	if ref == nil || ref.Write {
		return
	}
	ref.Write = true
	if ref.resolved && ref.binding != nil {
		r.checkWrite(ref, ref.binding)
	}
}

// Forgive suppresses the undefined name diagnostic for ref, as for the
// operand of typeof.
func (r *Resolver) Forgive(ref *Ref) {
	if ref != nil {
		ref.forgiven = true
	}
}

func (r *Resolver) reference(ref *Ref, read bool) *Ref {
	ref.read = read
	f := r.Current()
	ref.funct, ref.origin = f.ID, f.ID
	ref.chain = f.chain()
	ref.undef = r.opts().Undef
	for fn := f; ; fn = r.functs[fn.Parent] {
		if b, fr := fn.lookup(ref.Name); b != nil {
			r.checkBlockScope(fn, fr, b, ref)
			r.bind(ref, b, fn)
			return ref
		}
		if fn.lookupLabel(ref.Name) != nil {
			r.warn("W037", ref.Line, ref.Col, ref.Name)
			ref.resolved = true
			return ref
		}
		if !fn.Kind.transparent() || fn.Parent == NoFunct {
			break
		}
	}
	if ref.Name == "arguments" && r.hasArguments(f) {
		ref.resolved = true
		return ref
	}
	f.pending = append(f.pending, ref)
	return ref
}

// hasArguments reports whether an arguments object is in scope.  Arrow
// functions see the arguments of their enclosing function.
func (r *Resolver) hasArguments(f *Funct) bool {
	for fn := f; fn.Parent != NoFunct; fn = r.functs[fn.Parent] {
		switch fn.Kind {
		case FunctFunction, FunctMethod:
			return true
		}
	}
	return false
}

// checkBlockScope warns about a var read outside the block it was declared
// in.
func (r *Resolver) checkBlockScope(f *Funct, fr *frame, b *Binding, ref *Ref) {
	if fr != f.frames[0] || b.Param || b.Self || b.Decl != KindUnused {
		return
	}
	if b.Block == f.frames[0].id || r.opts().Funcscope {
		return
	}
	cur := r.Current()
	if f.isOpen(b.Block) || cur.isOpen(b.Block) {
		return
	}
	r.warn("W038", ref.Line, ref.Col, ref.Name)
}

// propagate moves an unresolved reference into the parent funct.
func (r *Resolver) propagate(ref *Ref, parent *Funct, inner bool) {
	ref.inner = ref.inner || inner
	ref.funct = parent.ID
	ref.chain = parent.chain()
	for fn := parent; ; fn = r.functs[fn.Parent] {
		if b, _ := fn.lookup(ref.Name); b != nil {
			r.bind(ref, b, fn)
			return
		}
		if fn.lookupLabel(ref.Name) != nil {
			r.warn("W038", ref.Line, ref.Col, ref.Name)
			ref.resolved = true
			return
		}
		if !fn.Kind.transparent() || fn.Parent == NoFunct {
			break
		}
	}
	if ref.Name == "arguments" && r.hasArguments(parent) {
		ref.resolved = true
		return
	}
	parent.pending = append(parent.pending, ref)
}

// bind resolves ref to b declared in f.
func (r *Resolver) bind(ref *Ref, b *Binding, f *Funct) {
	ref.resolved = true
	ref.binding = b
	if ref.Write {
		r.checkWrite(ref, b)
	}
	if ref.read {
		b.touch(ref.inner)
	}
	if ref.inner && ref.origin != f.ID {
		kind := KindOuter
		if f.Kind == FunctGlobal {
			kind = KindGlobal
		}
		r.functs[ref.origin].recordUse(ref.Name, kind)
	}
}

func (r *Resolver) checkWrite(ref *Ref, b *Binding) {
	switch b.Decl {
	case KindConst, KindImport:
		r.warn("E013", ref.Line, ref.Col, ref.Name)
	case KindUnction, KindFunction:
		r.warn("W021", ref.Line, ref.Col, ref.Name, "function")
	case KindClass:
		r.warn("W021", ref.Line, ref.Col, ref.Name, "class")
	case KindException:
		r.warn("W022", ref.Line, ref.Col)
	}
}

// Predefine adds names to the predefined global table.
func (r *Resolver) Predefine(names map[string]bool) {
	for name, writable := range names {
		r.predefined[name] = writable
	}
}

// Blacklist removes name from the predefined global table.
func (r *Resolver) Blacklist(name string) {
	delete(r.predefined, name)
}

// IsPredefined reports whether name is a known global and whether it may be
// assigned.
func (r *Resolver) IsPredefined(name string) (writable bool, ok bool) {
	writable, ok = r.predefined[name]
	return writable, ok
}

// DeclareGlobal records a global declared by a directive comment.  It is
// reported at Finish if nothing references it.
func (r *Resolver) DeclareGlobal(name string, writable bool, line, col int) {
	r.predefined[name] = writable
	if _, ok := r.directive[name]; ok {
		return
	}
	b := &Binding{
		Name:   name,
		Kind:   KindImplied,
		Decl:   KindImplied,
		Line:   line,
		Col:    col,
		Funct:  0,
		Unused: r.opts().Unused,
	}
	r.directive[name] = b
	r.directiveOrder = append(r.directiveOrder, b)
}

// Export marks name as used from outside the file.
func (r *Resolver) Export(name string) {
	r.exported[name] = true
	if b, _ := r.functs[0].lookup(name); b != nil {
		b.Exported = true
	}
}

// Finish closes any open scopes and drains the work-list: references left
// at the top level resolve to predefined globals or become implied
// globals.  Unused top level bindings are reported last.
func (r *Resolver) Finish() {
	for r.cur != 0 {
		f := r.Current()
		r.PopFunct(f.Line, f.Col)
	}
	top := r.functs[0]
	for len(top.frames) > 1 {
		r.PopBlock()
	}
	pending := top.pending
	top.pending = nil
	for _, ref := range pending {
		if ref.resolved {
			continue
		}
		r.resolveGlobal(ref)
	}
	r.reportFrame(top, top.frames[0])
	sort.SliceStable(r.deferred, func(i, j int) bool {
		a, b := r.deferred[i], r.deferred[j]
		return a.Line < b.Line || (a.Line == b.Line && a.Col < b.Col)
	})
	for _, b := range r.deferred {
		if b.Used || b.Exported || r.exported[b.Name] {
			continue
		}
		r.reportUnused(b)
	}
	r.deferred = nil
	for _, b := range r.directiveOrder {
		if b.Used || r.exported[b.Name] {
			continue
		}
		r.addUnused(b, "global")
		if b.Unused != options.UnusedOff {
			r.warn("W098", b.Line, b.Col, b.Name)
		}
	}
}

func (r *Resolver) resolveGlobal(ref *Ref) {
	ref.resolved = true
	if writable, ok := r.predefined[ref.Name]; ok {
		if b, ok := r.directive[ref.Name]; ok && ref.read {
			b.Used = true
		}
		if ref.Write && !writable {
			r.warn("W020", ref.Line, ref.Col)
		}
		return
	}
	if ref.forgiven {
		return
	}
	if ref.origin != 0 {
		r.functs[ref.origin].recordUse(ref.Name, KindImplied)
	}
	ig, ok := r.implied[ref.Name]
	if !ok {
		ig = &ImpliedGlobal{Name: ref.Name}
		r.implied[ref.Name] = ig
		r.impliedOrder = append(r.impliedOrder, ig)
	}
	ig.Lines = append(ig.Lines, ref.Line)
	if ref.undef {
		r.warn("W117", ref.Line, ref.Col, ref.Name)
	}
}

func (r *Resolver) reportFrame(f *Funct, fr *frame) {
	if fr.reported {
		return
	}
	fr.reported = true
	if f.ID == 0 {
		r.deferred = append(r.deferred, fr.order...)
		return
	}
	for _, b := range fr.order {
		if b.Param || b.Used || b.Exported {
			continue
		}
		r.reportUnused(b)
	}
}

// reportFunct reports the function level bindings of f, including the
// trailing parameters which were never used.
func (r *Resolver) reportFunct(f *Funct) {
	fr := f.frames[0]
	lastUsed := -1
	for _, p := range f.paramList {
		if p.Used {
			lastUsed = p.Index
		}
	}
	for _, b := range fr.order {
		if !b.Param || b.Used {
			continue
		}
		mode := b.Unused
		if mode == options.UnusedOff {
			continue
		}
		if mode == options.UnusedStrict || (mode == options.UnusedLastParam && b.Index > lastUsed) {
			r.addUnused(b, "parameter")
			r.warn("W098", b.Line, b.Col, b.Name)
		}
	}
	r.reportFrame(f, fr)
}

func (r *Resolver) reportUnused(b *Binding) {
	if b.Param || b.Self || b.Decl == KindLabel {
		return
	}
	mode := b.Unused
	if b.Decl == KindException && mode != options.UnusedStrict {
		return
	}
	r.addUnused(b, b.Decl.declName())
	if mode != options.UnusedOff {
		r.warn("W098", b.Line, b.Col, b.Name)
	}
}

func (r *Resolver) addUnused(b *Binding, kind string) {
	name := ""
	if b.Funct >= 0 && int(b.Funct) < len(r.functs) {
		name = r.functs[b.Funct].Name
	}
	r.unused = append(r.unused, UnusedBinding{
		Name:     b.Name,
		Line:     b.Line,
		Col:      b.Col,
		Kind:     kind,
		Function: name,
	})
}
