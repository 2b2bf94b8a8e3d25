// Copyright © 2024 The ELPS authors

package analysis

// Summary describes the functions and globals of a parsed file.
type Summary struct {
	Functions []FunctionInfo  `json:"functions"`
	Globals   []string        `json:"globals"`
	Implied   []ImpliedGlobal `json:"implieds"`
	Unused    []UnusedBinding `json:"unused"`
}

// FunctionInfo describes one function.
type FunctionInfo struct {
	Name    string   `json:"name"`
	Kind    string   `json:"kind"`
	Line    int      `json:"line"`
	Col     int      `json:"character"`
	EndLine int      `json:"last"`
	EndCol  int      `json:"lastcharacter"`
	Params  []string `json:"param,omitempty"`
	Metrics Metrics  `json:"metrics"`
	// Closure lists bindings of the function read by nested functions.
	Closure []string `json:"closure,omitempty"`
	// Outer lists names read from enclosing functions.
	Outer []string `json:"outer,omitempty"`
	// Global lists top level and implied global names read by the function.
	Global []string `json:"global,omitempty"`
}

// ImpliedGlobal is a name used as a global without being declared.
type ImpliedGlobal struct {
	Name  string `json:"name"`
	Lines []int  `json:"line"`
}

// UnusedBinding is a binding which was never read.
type UnusedBinding struct {
	Name     string `json:"name"`
	Line     int    `json:"line"`
	Col      int    `json:"character"`
	Kind     string `json:"kind"`
	Function string `json:"function,omitempty"`
}

// Summary builds the summary from the current state.  It may be called
// after an aborted parse, in which case open functs are reported as they
// stand.
func (r *Resolver) Summary() *Summary {
	s := &Summary{
		Globals: []string{},
		Implied: []ImpliedGlobal{},
		Unused:  append([]UnusedBinding{}, r.unused...),
	}
	for _, f := range r.functs {
		if f.Kind == FunctGlobal {
			for _, b := range f.bindings {
				if b.Funct == f.ID && !b.Param {
					s.Globals = append(s.Globals, b.Name)
				}
			}
			continue
		}
		if f.Kind.transparent() {
			continue
		}
		s.Functions = append(s.Functions, functionInfo(f))
	}
	for _, ig := range r.impliedOrder {
		s.Implied = append(s.Implied, ImpliedGlobal{Name: ig.Name, Lines: append([]int(nil), ig.Lines...)})
	}
	return s
}

func functionInfo(f *Funct) FunctionInfo {
	info := FunctionInfo{
		Name:    f.Name,
		Kind:    f.Kind.String(),
		Line:    f.Line,
		Col:     f.Col,
		EndLine: f.EndLine,
		EndCol:  f.EndCol,
		Params:  append([]string(nil), f.Params...),
		Metrics: f.Metrics,
	}
	for _, b := range f.bindings {
		if b.Kind == KindClosure {
			info.Closure = append(info.Closure, b.Name)
		}
	}
	for _, name := range f.useOrder {
		switch f.uses[name] {
		case KindOuter:
			info.Outer = append(info.Outer, name)
		case KindGlobal, KindImplied:
			info.Global = append(info.Global, name)
		}
	}
	return info
}
