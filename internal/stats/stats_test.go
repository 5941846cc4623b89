package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorRecordsSamplesAndPhases(t *testing.T) {
	c := NewCollector()
	c.RecordSamples("F:::BEGIN", 10)
	c.RecordSamples("F:::BEGIN", 5)
	c.RecordPhase("F:::BEGIN", "infer", 2*time.Millisecond)
	c.RecordPhase("F:::BEGIN", "pass1", 1*time.Millisecond)

	snap := c.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "F:::BEGIN", snap[0].Point)
	assert.Equal(t, 15, snap[0].Samples)
	assert.Greater(t, snap[0].PhaseSeconds["infer"], 0.0)
	assert.Greater(t, snap[0].PhaseSeconds["pass1"], 0.0)
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.RecordSamples("x", 1)
		c.RecordPhase("x", "infer", time.Millisecond)
		assert.Nil(t, c.Snapshot())
	})
}

func TestSnapshotSeparatesMultiplePoints(t *testing.T) {
	c := NewCollector()
	c.RecordSamples("A:::BEGIN", 3)
	c.RecordSamples("B:::END", 7)

	snap := c.Snapshot()
	require.Len(t, snap, 2)
	totals := map[string]int{}
	for _, s := range snap {
		totals[s.Point] = s.Samples
	}
	assert.Equal(t, 3, totals["A:::BEGIN"])
	assert.Equal(t, 7, totals["B:::END"])
}
