package trace

import (
	"math/big"
	"strings"

	"dinv/internal/model"
)

// toValue converts a parsed ValueAST into a model.Value, applying
// spec.md §6's policies: "uninit" is the missing marker, "NIL" is
// treated as 0, and a sequence whose first element is "uninit" is
// wholly missing (model.Sequence already implements that last rule).
//
// Decimal literals are accepted by the grammar (spec.md §6's value
// grammar includes them) but rounded to the nearest integer here: every
// invariant in spec.md §4.4 (modulus, gcd, bitwise function pools,
// linear fits with integer coefficients) is defined over integers, and
// VarInfo's value model (SPEC_FULL.md §3) carries a single big.Int
// payload, not a float/rational one. Rounding half away from zero keeps
// the common case (traced doubles that are integral, e.g. "3.0") exact.
func toValue(v *ValueAST) model.Value {
	switch {
	case v.Seq != nil:
		elems := make([]model.Value, len(v.Seq.Elems))
		for i, e := range v.Seq.Elems {
			elems[i] = toValue(e)
		}
		return model.Sequence(elems)
	case v.Uninit:
		return model.Missing()
	case v.NilLit:
		return model.Int(0)
	case v.Decimal != nil:
		return model.BigInt(roundDecimal(*v.Decimal))
	case v.Integer != nil:
		n, ok := new(big.Int).SetString(*v.Integer, 10)
		if !ok {
			return model.Missing()
		}
		return model.BigInt(n)
	default:
		return model.Missing()
	}
}

// roundDecimal rounds a decimal literal string (spec.md §6 grammar:
// "-?[0-9]*\.[0-9]+") to the nearest integer, half away from zero.
func roundDecimal(s string) *big.Int {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" {
		intPart = "0"
	}
	n, ok := new(big.Int).SetString(intPart, 10)
	if !ok {
		n = big.NewInt(0)
	}
	if len(fracPart) > 0 && fracPart[0] >= '5' {
		n.Add(n, big.NewInt(1))
	}
	if neg {
		n.Neg(n)
	}
	return n
}

// ParseEntryValue parses one entry's raw value field (spec.md §6) into
// a model.Value, returning ok=false if the lexeme is unrecognized
// (the caller reports errors.MalformedValue, fatal to the file per
// spec.md §7).
func ParseEntryValue(raw string) (model.Value, bool) {
	ast, err := ParseValue(strings.TrimSpace(raw))
	if err != nil {
		return model.Value{}, false
	}
	return toValue(ast), true
}
