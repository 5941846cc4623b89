package engine

import (
	"time"

	"dinv/internal/derive"
	"dinv/internal/model"
	"dinv/internal/stats"
)

// Driver runs the fixpoint inference loop of spec.md §4.3 over one
// program point at a time. Distinct program points share no mutable
// state (spec.md §5) and may be driven concurrently by the caller.
type Driver struct {
	Options Options
	Stats   *stats.Collector // nil disables collection regardless of Options.CollectStats
}

// NewDriver creates a driver with opts, wiring a stats collector when
// opts.CollectStats is set.
func NewDriver(opts Options, collector *stats.Collector) *Driver {
	d := &Driver{Options: opts}
	if opts.CollectStats {
		d.Stats = collector
	}
	return d
}

// Run drives point to its fixpoint: the (k0, k1, k2) loop of spec.md
// §4.3, terminating when no pass appends a further variable.
func (d *Driver) Run(point *model.ProgramPoint) {
	ctx := &derive.Context{Reg: point.Registry, Tab: point.Table}

	for point.K2 < point.Registry.Len() {
		n := point.Registry.Len()

		d.timed(point.Name, "infer", func() {
			d.inferRange(point, point.K0, n)
		})
		d.timed(point.Name, "pass1", func() {
			d.deriveRange(ctx, derive.Pass1, point.K1, point.K0)
		})
		d.timed(point.Name, "pass2", func() {
			d.deriveRange(ctx, derive.Pass2, point.K2, point.K1)
		})

		point.K0, point.K1, point.K2 = n, point.K0, point.K1
	}

	if d.Stats != nil {
		d.Stats.RecordSamples(point.Name, point.Table.Samples())
	}
}

func (d *Driver) timed(point, phase string, f func()) {
	if d.Stats == nil {
		f()
		return
	}
	start := time.Now()
	f()
	d.Stats.RecordPhase(point, phase, time.Since(start))
}

// inferRange implements spec.md §4.3 step 2: singleton invariants for
// every index in [lo, hi), then pairwise, then (unless disabled)
// ternary invariants for every unordered pair/triple touching the
// range.
func (d *Driver) inferRange(point *model.ProgramPoint, lo, hi int) {
	reg, tab := point.Registry, point.Table
	for i := lo; i < hi; i++ {
		inferSingleton(reg, tab, i, d.Options)
	}

	n := reg.Len()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if i < lo && j < lo {
				continue
			}
			inferPair(reg, tab, i, j, d.Options)
		}
	}

	if d.Options.NoTernaryInvariants {
		return
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for k := j + 1; k < n; k++ {
				if i < lo && j < lo && k < lo {
					continue
				}
				inferTriple(reg, tab, i, j, k, d.Options)
			}
		}
	}
}

// deriveRange implements spec.md §4.3 steps 3/4: call every introducer
// of pass over the variables newly settled into [lo, hi).
func (d *Driver) deriveRange(ctx *derive.Context, pass *derive.Pass, lo, hi int) {
	for i := lo; i < hi; i++ {
		pass.RunSeed(ctx, i)
	}
	for i := lo; i < hi; i++ {
		for j := i + 1; j < hi; j++ {
			pass.RunPair(ctx, i, j)
		}
	}
}
