package invariant

import "dinv/internal/model"

// Row is one distinct stored tuple plus its occurrence count, the shape
// every Build* function in this package consumes. The engine builds Rows
// directly from model.Tabulator.Each.
type Row struct {
	Values []model.Value
	Count  int
}

// Options carries the tuning knobs from spec.md §6 that invariant
// construction itself consults.
type Options struct {
	NegativeConfidence float64
	OneOfThreshold     int
}

// DefaultOptions mirrors spec.md §6's stated defaults.
func DefaultOptions() Options {
	return Options{
		NegativeConfidence: DefaultConfidence,
		OneOfThreshold:     5,
	}
}

func samplesAndDistinct(rows []Row) (samples, distinct int) {
	distinct = len(rows)
	for _, r := range rows {
		samples += r.Count
	}
	return
}
