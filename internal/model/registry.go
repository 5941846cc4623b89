package model

// Registry is the append-only, index-stable variable catalog for one
// program point (spec.md §4.1). Variables are never removed or
// reordered; derivation passes only ever append.
type Registry struct {
	vars []*VarInfo
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// AddVariable appends a new variable and returns its stable index.
func (r *Registry) AddVariable(name string, kind Kind) int {
	idx := len(r.vars)
	r.vars = append(r.vars, &VarInfo{
		Index: idx,
		Name:  name,
		Kind:  kind,
	})
	return idx
}

// Len returns the current variable count (the "N" of spec.md §4.3).
func (r *Registry) Len() int {
	return len(r.vars)
}

// At returns the variable at index i.
func (r *Registry) At(i int) *VarInfo {
	return r.vars[i]
}

// All returns the full variable slice, in index order. Callers must not
// mutate the slice's length; per-element mutation through the returned
// pointers is the normal way invariants get assigned.
func (r *Registry) All() []*VarInfo {
	return r.vars
}

// UnionEqual merges i and j into the same equality class (spec.md §4.5).
// EqualTo is kept symmetric and sorted on both sides, and merging is
// transitive: every existing member of either class learns about every
// member of the other.
func (r *Registry) UnionEqual(i, j int) {
	if i == j {
		return
	}
	classI := append([]int{i}, r.vars[i].EqualTo...)
	classJ := append([]int{j}, r.vars[j].EqualTo...)
	for _, a := range classI {
		for _, b := range classJ {
			if a == b {
				continue
			}
			r.vars[a].addEqual(b)
			r.vars[b].addEqual(a)
		}
	}
}

// ClearAllInvariants wipes every variable's invariant fields without
// touching the registry's variable list (spec.md §3 "Lifecycle").
func (r *Registry) ClearAllInvariants() {
	for _, v := range r.vars {
		v.ClearInvariants()
	}
}
