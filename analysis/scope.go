// Copyright © 2024 The ELPS authors

package analysis

// FunctID addresses a Funct in the resolver's arena.
type FunctID int

// NoFunct is the parent of the top level funct.
const NoFunct FunctID = -1

// FunctKind classifies the kind of funct.
type FunctKind int

const (
	FunctGlobal        FunctKind = iota // program level
	FunctFunction                       // function declaration or expression
	FunctArrow                          // arrow function
	FunctMethod                         // object or class method
	FunctCatch                          // catch clause
	FunctComprehension                  // array comprehension
)

func (k FunctKind) String() string {
	switch k {
	case FunctGlobal:
		return "global"
	case FunctFunction:
		return "function"
	case FunctArrow:
		return "arrow"
	case FunctMethod:
		return "method"
	case FunctCatch:
		return "catch"
	case FunctComprehension:
		return "comprehension"
	default:
		return "unknown"
	}
}

// transparent reports whether names declared with var pass through a funct
// of kind k to its parent.
func (k FunctKind) transparent() bool {
	return k == FunctCatch || k == FunctComprehension
}

// Metrics accumulates size and complexity measurements for a function.
type Metrics struct {
	Statements int `json:"statements"`
	// Depth is the current block nesting depth.
	Depth      int `json:"-"`
	MaxDepth   int `json:"depth"`
	Complexity int `json:"complexity"`
}

// Funct is a function level scope.
type Funct struct {
	ID      FunctID
	Parent  FunctID
	Kind    FunctKind
	Name    string
	Line    int
	Col     int
	EndLine int
	EndCol  int
	Params  []string
	Metrics Metrics

	Generator bool
	Async     bool
	Strict    bool

	// frames[0] holds parameters, var and function declarations.
	frames  []*frame
	pending []*Ref
	// uses records names this funct reads from enclosing functs.
	uses      map[string]BindingKind
	useOrder  []string
	bindings  []*Binding
	paramList []*Binding
}

// frame is a block scope.
type frame struct {
	id       int
	names    map[string]*Binding
	labels   map[string]*Binding
	order    []*Binding
	isBody   bool
	reported bool
}

func newFrame(id int) *frame {
	return &frame{
		id:     id,
		names:  make(map[string]*Binding),
		labels: make(map[string]*Binding),
	}
}

func (f *Funct) top() *frame {
	return f.frames[len(f.frames)-1]
}

// chain returns the ids of the open frames, outermost first.
func (f *Funct) chain() []int {
	ids := make([]int, len(f.frames))
	for i, fr := range f.frames {
		ids[i] = fr.id
	}
	return ids
}

// lookup finds name in the open frames of f, innermost first.
func (f *Funct) lookup(name string) (*Binding, *frame) {
	for i := len(f.frames) - 1; i >= 0; i-- {
		if b, ok := f.frames[i].names[name]; ok {
			return b, f.frames[i]
		}
	}
	return nil, nil
}

func (f *Funct) lookupLabel(name string) *Binding {
	for i := len(f.frames) - 1; i >= 0; i-- {
		if b, ok := f.frames[i].labels[name]; ok {
			return b
		}
	}
	return nil
}

func (f *Funct) isOpen(id int) bool {
	for _, fr := range f.frames {
		if fr.id == id {
			return true
		}
	}
	return false
}

func (f *Funct) recordUse(name string, kind BindingKind) {
	if f.uses == nil {
		f.uses = make(map[string]BindingKind)
	}
	if _, ok := f.uses[name]; !ok {
		f.useOrder = append(f.useOrder, name)
	}
	f.uses[name] = kind
}

// Bindings returns the names declared directly in f in declaration order.
func (f *Funct) Bindings() []*Binding {
	return f.bindings
}

// Binding returns the function level binding for name, or nil.
func (f *Funct) Binding(name string) *Binding {
	return f.frames[0].names[name]
}

// Captured returns the names f reads from enclosing functions or the top
// level, in first use order.
func (f *Funct) Captured() []string {
	var names []string
	for _, name := range f.useOrder {
		switch f.uses[name] {
		case KindOuter, KindGlobal:
			names = append(names, name)
		}
	}
	return names
}
