package model

import "sort"

// Kind distinguishes scalar from sequence variables (spec.md §3).
type Kind int

const (
	Scalar Kind = iota
	Sequence
)

func (k Kind) String() string {
	if k == Sequence {
		return "sequence"
	}
	return "scalar"
}

// LenKind tags how a sequence variable's derived_len is known (spec.md §3).
type LenKind int

const (
	LenNone LenKind = iota
	LenConst
	LenIndex
)

// DerivedLen is the derived_len attribute of a sequence VarInfo: either
// unset, a known-but-unnamed constant, or the index of the scalar variable
// holding the length.
type DerivedLen struct {
	Kind  LenKind
	Index int // valid only when Kind == LenIndex
}

func NoLen() DerivedLen         { return DerivedLen{Kind: LenNone} }
func ConstLen() DerivedLen      { return DerivedLen{Kind: LenConst} }
func IndexLen(i int) DerivedLen { return DerivedLen{Kind: LenIndex, Index: i} }

// VarInfo is one variable tracked at a program point: observed or derived,
// scalar or sequence (spec.md §3).
type VarInfo struct {
	Index      int
	Name       string
	Kind       Kind
	IsDerived  bool
	DerivedLen DerivedLen

	// Invariant is the singleton invariant for this variable. Any concrete
	// type (invariant.SingleScalar / invariant.SingleSequence); typed as
	// interface{} here to avoid a model<->invariant import cycle, since
	// invariant construction needs to read VarInfo fields (Name, Kind,
	// DerivedLen) to decide _obvious flags.
	Invariant interface{}

	// Invariants holds multi-arity invariants keyed by a canonical
	// co-variable key: "j" for the pair (this, j), or "j,k" (sorted) for
	// the triple (this, j, k) where this.Index is the smallest of the
	// three. Concrete invariant types live in package invariant.
	Invariants map[string]interface{}

	// EqualTo is the sorted list of indices of variables proven equal to
	// this one (spec.md §3 "Invariants that must always hold" #4: this is
	// always maintained symmetrically).
	EqualTo []int
}

// IsCanonical reports whether v is the lowest-indexed member of its
// equality class (spec.md §3).
func (v *VarInfo) IsCanonical() bool {
	if len(v.EqualTo) == 0 {
		return true
	}
	return v.Index <= v.EqualTo[0]
}

// addEqual records j in v's EqualTo list, keeping it sorted and unique.
func (v *VarInfo) addEqual(j int) {
	for _, e := range v.EqualTo {
		if e == j {
			return
		}
	}
	v.EqualTo = append(v.EqualTo, j)
	sort.Ints(v.EqualTo)
}

// invariantKey builds the map key for Invariants given the other
// co-variable index(es), sorted ascending.
func invariantKey(others ...int) string {
	sorted := append([]int(nil), others...)
	sort.Ints(sorted)
	out := ""
	for i, idx := range sorted {
		if i > 0 {
			out += ","
		}
		out += itoa(idx)
	}
	return out
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

// PairInvariant returns the stored invariant for the pair (v, j), if any.
func (v *VarInfo) PairInvariant(j int) (interface{}, bool) {
	if v.Invariants == nil {
		return nil, false
	}
	inv, ok := v.Invariants[invariantKey(j)]
	return inv, ok
}

// SetPairInvariant stores the invariant for the pair (v, j).
func (v *VarInfo) SetPairInvariant(j int, inv interface{}) {
	if v.Invariants == nil {
		v.Invariants = make(map[string]interface{})
	}
	v.Invariants[invariantKey(j)] = inv
}

// TripleInvariant returns the stored invariant for the triple (v, j, k), if any.
func (v *VarInfo) TripleInvariant(j, k int) (interface{}, bool) {
	if v.Invariants == nil {
		return nil, false
	}
	inv, ok := v.Invariants[invariantKey(j, k)]
	return inv, ok
}

// SetTripleInvariant stores the invariant for the triple (v, j, k).
func (v *VarInfo) SetTripleInvariant(j, k int, inv interface{}) {
	if v.Invariants == nil {
		v.Invariants = make(map[string]interface{})
	}
	v.Invariants[invariantKey(j, k)] = inv
}

// ClearInvariants wipes the invariant fields without destroying the
// variable or any stored values (spec.md §3 "Lifecycle").
func (v *VarInfo) ClearInvariants() {
	v.Invariant = nil
	v.Invariants = nil
}
