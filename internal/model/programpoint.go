package model

// ProgramPoint is a named trace location (spec.md §3), e.g.
// "F:::BEGIN" or "F:::END", together with the variables observed or
// derived there and the tabulated samples recorded at it.
type ProgramPoint struct {
	Name     string
	Registry *Registry
	Table    *Tabulator

	// k0, k1, k2 is the driver's monotone index triple (spec.md §4.3),
	// persisted here so a point can be re-entered across driver runs
	// (e.g. after ClearInvariants) without losing its progress marker.
	K0, K1, K2 int
}

// NewProgramPoint creates an empty program point ready for variable
// registration and sample accumulation.
func NewProgramPoint(name string) *ProgramPoint {
	return &ProgramPoint{
		Name:     name,
		Registry: NewRegistry(),
		Table:    NewTabulator(),
	}
}
