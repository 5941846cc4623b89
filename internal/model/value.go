// Package model implements the variable registry, the value model, and the
// per-program-point value-tuple tabulator (spec.md §3, §4.1).
package model

import (
	"fmt"
	"math/big"
	"strings"
)

// Value is a single observed or derived value: either a scalar (big.Int
// payload), a sequence of scalar Values, or the distinct "missing" marker
// (spec.md §4.6, §6's "uninit"/sequence-whose-first-element-is-uninit
// rule). big.Int is used for scalar payloads rather than int64 so that
// traces carrying values outside the machine-word range do not overflow
// invariant arithmetic silently (see SPEC_FULL.md §3).
type Value struct {
	Missing bool
	Seq     bool
	Int     *big.Int
	Elems   []Value
}

// Missing returns the canonical missing scalar value.
func Missing() Value { return Value{Missing: true} }

// MissingSeq returns the canonical missing sequence value.
func MissingSeq() Value { return Value{Missing: true, Seq: true} }

// Int wraps an integer scalar.
func Int(i int64) Value { return Value{Int: big.NewInt(i)} }

// BigInt wraps an arbitrary-precision integer scalar.
func BigInt(i *big.Int) Value { return Value{Int: new(big.Int).Set(i)} }

// Sequence wraps a slice of scalar Values, applying the trace grammar's
// rule (spec.md §6) that a sequence whose first element is missing is
// wholly missing.
func Sequence(elems []Value) Value {
	if len(elems) > 0 && elems[0].Missing {
		return MissingSeq()
	}
	return Value{Seq: true, Elems: elems}
}

// Len returns the length of a non-missing sequence value.
func (v Value) Len() int {
	if !v.Seq || v.Missing {
		return 0
	}
	return len(v.Elems)
}

// Equal reports whether two values are structurally identical — used by
// the tabulator to decide whether two tuples are the same sample and by
// the exact-constant equality shortcut in the inference driver.
func (v Value) Equal(other Value) bool {
	if v.Missing != other.Missing || v.Seq != other.Seq {
		return false
	}
	if v.Missing {
		return true
	}
	if v.Seq {
		if len(v.Elems) != len(other.Elems) {
			return false
		}
		for i := range v.Elems {
			if !v.Elems[i].Equal(other.Elems[i]) {
				return false
			}
		}
		return true
	}
	return v.Int.Cmp(other.Int) == 0
}

// Key returns a canonical string encoding of the value, used as (part of)
// a map key by the tabulator. Go map keys must be comparable, and a Value
// containing a slice is not, so every stored tuple is keyed by the
// concatenation of its slots' Key() strings rather than by the tuple
// itself.
func (v Value) Key() string {
	if v.Missing {
		if v.Seq {
			return "seq:?"
		}
		return "?"
	}
	if v.Seq {
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			parts[i] = e.Key()
		}
		return "seq:(" + strings.Join(parts, ",") + ")"
	}
	return v.Int.String()
}

func (v Value) String() string {
	if v.Missing {
		return "missing"
	}
	if v.Seq {
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, " ") + "]"
	}
	return fmt.Sprintf("%v", v.Int)
}
