// Copyright © 2024 The ELPS authors

package analysis

// Ref is a reference which has not been resolved to a declaration yet.
// Refs wait in the pending list of a funct until a later declaration
// satisfies them, until the funct is popped and they move to its parent, or
// until Finish treats them as globals.
type Ref struct {
	Name string
	Line int
	Col  int
	// Write marks an assignment target.
	Write bool

	read   bool
	funct  FunctID
	origin FunctID
	chain  []int
	// inner marks a ref which came from a nested function.
	inner    bool
	undef    bool
	forgiven bool
	resolved bool
	binding  *Binding
}

func (r *Ref) onChain(id int) bool {
	for _, c := range r.chain {
		if c == id {
			return true
		}
	}
	return false
}

// Resolved reports whether a declaration has satisfied the reference.
func (r *Ref) Resolved() bool {
	return r.resolved
}
