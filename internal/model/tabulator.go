package model

// Tabulator maps value-tuples observed at a program point to occurrence
// counts (spec.md §4.1). Tuples are stored by a canonical string key
// (model.Value.Key) rather than by the tuple itself, since a tuple
// containing a sequence slot is not a comparable Go value and therefore
// cannot be used directly as a map key.
type Tabulator struct {
	counts map[string]int
	tuples map[string][]Value
	order  []string // insertion order, for deterministic iteration
	total  int
}

// NewTabulator creates an empty tabulator.
func NewTabulator() *Tabulator {
	return &Tabulator{
		counts: make(map[string]int),
		tuples: make(map[string][]Value),
	}
}

func tupleKey(tuple []Value) string {
	key := ""
	for i, v := range tuple {
		if i > 0 {
			key += "|"
		}
		key += v.Key()
	}
	return key
}

// Accumulate increments the occurrence count for tuple, storing it the
// first time it is seen.
func (t *Tabulator) Accumulate(tuple []Value) {
	key := tupleKey(tuple)
	if _, ok := t.counts[key]; !ok {
		stored := append([]Value(nil), tuple...)
		t.tuples[key] = stored
		t.order = append(t.order, key)
	}
	t.counts[key]++
	t.total++
}

// Samples returns the cumulative sample count (sum of occurrence
// counts).
func (t *Tabulator) Samples() int {
	return t.total
}

// Distinct returns the number of distinct stored tuples.
func (t *Tabulator) Distinct() int {
	return len(t.order)
}

// Each calls f once per distinct stored tuple, with its occurrence
// count, in insertion order. f must not mutate tuple.
func (t *Tabulator) Each(f func(tuple []Value, count int)) {
	for _, key := range t.order {
		f(t.tuples[key], t.counts[key])
	}
}

// ExtendAll appends one computed slot to every stored tuple (used by
// derivation passes to lengthen tuples in lockstep with the registry,
// spec.md §4.1). The old slots are kept, so distinct old tuples stay
// distinct after extension. The result is rebuilt into a fresh map —
// summing counts per extended key — rather than mutated during iteration, per the
// "iteration over dictionaries whose keys depend on current structure"
// design note (spec.md §9).
func (t *Tabulator) ExtendAll(f func(tuple []Value) Value) {
	newCounts := make(map[string]int, len(t.counts))
	newTuples := make(map[string][]Value, len(t.tuples))
	var newOrder []string

	for _, key := range t.order {
		old := t.tuples[key]
		count := t.counts[key]
		extended := append(append([]Value(nil), old...), f(old))
		newKey := tupleKey(extended)
		if _, ok := newCounts[newKey]; !ok {
			newTuples[newKey] = extended
			newOrder = append(newOrder, newKey)
		}
		newCounts[newKey] += count
	}

	t.counts = newCounts
	t.tuples = newTuples
	t.order = newOrder
}

// Arity returns the slot count of the stored tuples (0 if none stored
// yet); used by tests asserting spec.md §3 invariant #1.
func (t *Tabulator) Arity() int {
	if len(t.order) == 0 {
		return 0
	}
	return len(t.tuples[t.order[0]])
}
