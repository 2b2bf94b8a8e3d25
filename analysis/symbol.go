// Copyright © 2024 The ELPS authors

package analysis

import "github.com/jshint/jshint-sub001/options"

// BindingKind is the state of a name within a funct.  Declared kinds move
// forward as the name is referenced (Unused becomes Var, Unction becomes
// Function, either becomes Closure when read from a nested function) and
// never move back.
type BindingKind int

const (
	KindUnused    BindingKind = iota // var declared, not yet read
	KindVar                          // var declared and read
	KindUnction                      // function declared, not yet read
	KindFunction                     // function declared and read
	KindConst                        // const declaration
	KindLet                          // let declaration
	KindClass                        // class declaration
	KindLabel                        // statement label
	KindException                    // catch clause parameter
	KindClosure                      // read from a nested function
	KindOuter                        // reference to an enclosing function's binding
	KindGlobal                       // reference to a top level binding
	KindImplied                      // assumed global, never declared
	KindImport                       // module import binding
)

func (k BindingKind) String() string {
	switch k {
	case KindUnused:
		return "unused"
	case KindVar:
		return "var"
	case KindUnction:
		return "unction"
	case KindFunction:
		return "function"
	case KindConst:
		return "const"
	case KindLet:
		return "let"
	case KindClass:
		return "class"
	case KindLabel:
		return "label"
	case KindException:
		return "exception"
	case KindClosure:
		return "closure"
	case KindOuter:
		return "outer"
	case KindGlobal:
		return "global"
	case KindImplied:
		return "implied"
	case KindImport:
		return "import"
	default:
		return "unknown"
	}
}

// lexical reports whether k is block scoped.
func (k BindingKind) lexical() bool {
	switch k {
	case KindConst, KindLet, KindClass, KindImport:
		return true
	}
	return false
}

// declName is the word used for k in diagnostics.
func (k BindingKind) declName() string {
	switch k {
	case KindUnused, KindVar:
		return "var"
	case KindUnction, KindFunction:
		return "function"
	case KindException:
		return "exception"
	}
	return k.String()
}

// Binding is a declared name.
type Binding struct {
	Name string
	// Kind is the current state of the binding.
	Kind BindingKind
	// Decl is the kind the binding was declared with.
	Decl  BindingKind
	Line  int
	Col   int
	Funct FunctID
	// Block is the id of the innermost block open at the declaration.
	Block int
	Param bool
	// Index is the parameter position for parameters.
	Index    int
	Used     bool
	Exported bool
	// Unused is the unused-binding policy in force at the declaration.
	Unused options.UnusedMode
	// Self marks the name of a function expression bound inside itself.
	Self bool
}

// touch records a read of b.  Crossing a function boundary turns the
// binding into a closure.
func (b *Binding) touch(inner bool) {
	b.Used = true
	switch b.Kind {
	case KindUnused:
		b.Kind = KindVar
	case KindUnction:
		b.Kind = KindFunction
	}
	if !inner {
		return
	}
	switch b.Kind {
	case KindVar, KindFunction, KindConst, KindLet, KindClass, KindImport:
		b.Kind = KindClosure
	}
}
