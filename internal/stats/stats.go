// Package stats implements the Statistics collector component of
// spec.md §2: per-program-point sample counters and per-(point,phase)
// timing histograms. Collection is entirely optional (engine.Options.
// CollectStats, default on per spec.md §6) and never affects inference
// results — it is an observational side channel, not part of the core.
package stats

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Collector records per-point sample counts and per-(point,phase)
// timings using prometheus.CounterVec/HistogramVec, the ecosystem-
// standard client for exposing exactly this shape of cumulative counter
// and timing-distribution metric (label-keyed counters/histograms
// registered against a private registry, mirroring how a long-running
// Go service exposes internal metrics without coupling callers to the
// Prometheus types directly).
type Collector struct {
	registry *prometheus.Registry
	samples  *prometheus.CounterVec
	phases   *prometheus.HistogramVec
}

// NewCollector creates a Collector with its own private registry, so
// that running the engine as a library never collides with a host
// process's default Prometheus registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	samples := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dinv_point_samples_total",
		Help: "Cumulative sample count observed at a program point.",
	}, []string{"point"})
	phases := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dinv_phase_duration_seconds",
		Help:    "Wall-clock duration of one driver phase at a program point.",
		Buckets: prometheus.DefBuckets,
	}, []string{"point", "phase"})
	reg.MustRegister(samples, phases)
	return &Collector{registry: reg, samples: samples, phases: phases}
}

// RecordSamples adds n to the cumulative sample count for point.
func (c *Collector) RecordSamples(point string, n int) {
	if c == nil {
		return
	}
	c.samples.WithLabelValues(point).Add(float64(n))
}

// RecordPhase records how long one driver phase ("infer", "pass1",
// "pass2") took at point.
func (c *Collector) RecordPhase(point, phase string, d time.Duration) {
	if c == nil {
		return
	}
	c.phases.WithLabelValues(point, phase).Observe(d.Seconds())
}

// Registry exposes the underlying Prometheus registry, e.g. for a host
// process that wants to serve /metrics alongside dinv's own output.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// PointSummary is a plain-struct snapshot of one program point's
// recorded statistics, gathered from the registry for internal/report
// to print without depending on Prometheus types directly.
type PointSummary struct {
	Point        string
	Samples      int
	PhaseSeconds map[string]float64 // phase -> cumulative observed seconds
}

// Snapshot gathers the registry's current metric families into plain
// PointSummary values, one per distinct "point" label seen so far.
func (c *Collector) Snapshot() []PointSummary {
	if c == nil {
		return nil
	}
	families, err := c.registry.Gather()
	if err != nil {
		return nil
	}
	byPoint := map[string]*PointSummary{}
	var order []string
	get := func(point string) *PointSummary {
		if s, ok := byPoint[point]; ok {
			return s
		}
		s := &PointSummary{Point: point, PhaseSeconds: map[string]float64{}}
		byPoint[point] = s
		order = append(order, point)
		return s
	}
	for _, fam := range families {
		switch fam.GetName() {
		case "dinv_point_samples_total":
			for _, m := range fam.Metric {
				point := labelValue(m.Label, "point")
				get(point).Samples = int(m.GetCounter().GetValue())
			}
		case "dinv_phase_duration_seconds":
			for _, m := range fam.Metric {
				point := labelValue(m.Label, "point")
				phase := labelValue(m.Label, "phase")
				get(point).PhaseSeconds[phase] = m.GetHistogram().GetSampleSum()
			}
		}
	}
	out := make([]PointSummary, 0, len(order))
	for _, p := range order {
		out = append(out, *byPoint[p])
	}
	return out
}

func labelValue(labels []*dto.LabelPair, name string) string {
	for _, l := range labels {
		if l.GetName() == name {
			return l.GetValue()
		}
	}
	return ""
}
