// Copyright © 2024 The ELPS authors

package options

// Stack is a stack of option snapshots.  Entering a scope shares the
// enclosing snapshot; the first mutation inside the scope copies it, so
// changes never leak into enclosing or sibling scopes.
type Stack struct {
	frames []frame
}

type frame struct {
	opts  *Options
	owned bool
}

// NewStack returns a stack whose base snapshot is base.
func NewStack(base *Options) *Stack {
	return &Stack{frames: []frame{{opts: base, owned: true}}}
}

// Current returns the active snapshot.  The returned value must not be
// modified; use Mutable.
func (s *Stack) Current() *Options {
	return s.frames[len(s.frames)-1].opts
}

// Base returns the outermost snapshot, which holds the settings made by
// directives outside any function or block.
func (s *Stack) Base() *Options {
	return s.frames[0].opts
}

// Push enters a scope sharing the current snapshot.
func (s *Stack) Push() {
	s.frames = append(s.frames, frame{opts: s.Current()})
}

// Pop leaves the innermost scope.  The base snapshot is never popped.
func (s *Stack) Pop() {
	if len(s.frames) > 1 {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// Depth returns the number of pushed scopes.
func (s *Stack) Depth() int {
	return len(s.frames) - 1
}

// Mutable returns a snapshot owned by the innermost scope, copying the
// shared snapshot when necessary.
func (s *Stack) Mutable() *Options {
	top := &s.frames[len(s.frames)-1]
	if !top.owned {
		top.opts = top.opts.Clone()
		top.owned = true
	}
	return top.opts
}
