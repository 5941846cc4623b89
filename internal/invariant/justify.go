package invariant

import "math"

// DefaultConfidence is the α used by the negative-invariant justification
// test when engine.Options does not override it (spec.md §6).
const DefaultConfidence = 0.01

// justified reports whether a negative property (value != k, a modulus,
// a nonmodulus) is statistically justified at confidence alpha: the test
// is (1-p)^samples < alpha, where p is the a-priori probability of the
// property holding by chance across `samples` independent observations.
// Computed in log space (spec.md §4.4, §9) so it stays correct for large
// sample counts, where (1-p)^samples underflows to 0 well before the
// comparison would naturally become uninteresting.
func justified(p float64, samples int, alpha float64) bool {
	if samples <= 0 {
		return false
	}
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	// log((1-p)^samples) = samples * log(1-p)
	logLHS := float64(samples) * math.Log(1-p)
	logAlpha := math.Log(alpha)
	return logLHS < logAlpha
}

// minJustified implements spec.md §4.4's min_justified rule: count >= 3
// AND (count > 2*expected OR (count > 0.5*expected AND the interior
// neighbour's count is also > 0.5*expected)), where expected =
// samples/range. A single-sample program point trivially justifies both
// bounds (spec.md §8 "Boundary behaviors").
func minJustified(samples int, countAtMin, countAtNeighbor int, rng int) bool {
	if samples == 1 {
		return true
	}
	if countAtMin < 3 {
		return false
	}
	if rng <= 0 {
		return true
	}
	expected := float64(samples) / float64(rng)
	if float64(countAtMin) > 2*expected {
		return true
	}
	return float64(countAtMin) > 0.5*expected && float64(countAtNeighbor) > 0.5*expected
}
