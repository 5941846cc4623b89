package report_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dinv/internal/engine"
	"dinv/internal/report"
	"dinv/internal/trace"
)

func driveTrace(t *testing.T, src string) string {
	t.Helper()
	points, err := trace.Ingest("t.dtrace", src, trace.Options{})
	require.NoError(t, err)
	require.Len(t, points, 1)

	d := engine.NewDriver(engine.DefaultOptions(), nil)
	d.Run(points[0])

	var sb strings.Builder
	report.Print(&sb, points[0], report.Options{})
	return sb.String()
}

func TestReportFormatsSingletonRange(t *testing.T) {
	src := "F:::ENTER\n" +
		"x\t1\n" +
		"\n" +
		"F:::ENTER\n" +
		"x\t2\n" +
		"\n" +
		"F:::ENTER\n" +
		"x\t3\n"

	out := driveTrace(t, src)
	assert.Contains(t, out, "F:::ENTER")
	assert.Contains(t, out, "x:")
	// Each bound is seen once, below the three-occurrence minimum for a
	// justified bound, so both print as "?".
	assert.Contains(t, out, "in [?..?]")
}

func TestReportFormatsEqualityGroup(t *testing.T) {
	src := "F:::ENTER\n" +
		"x\t5\n" +
		"y\t5\n" +
		"\n" +
		"F:::ENTER\n" +
		"x\t7\n" +
		"y\t7\n"

	out := driveTrace(t, src)
	assert.Contains(t, out, "x = y")
}

func TestReportFormatsPairwiseComparison(t *testing.T) {
	src := "F:::ENTER\n" +
		"x\t1\n" +
		"y\t2\n" +
		"\n" +
		"F:::ENTER\n" +
		"x\t2\n" +
		"y\t4\n" +
		"\n" +
		"F:::ENTER\n" +
		"x\t3\n" +
		"y\t6\n"

	out := driveTrace(t, src)
	assert.Contains(t, out, "x, y:")
	assert.Contains(t, out, "y = 2*x + 0")
}

func TestReportSuppressesUnconstrainedByDefault(t *testing.T) {
	src := "F:::ENTER\n" +
		"a[]\tuninit\n"

	points, err := trace.Ingest("t.dtrace", src, trace.Options{})
	require.NoError(t, err)

	d := engine.NewDriver(engine.DefaultOptions(), nil)
	d.Run(points[0])

	var sb strings.Builder
	report.Print(&sb, points[0], report.Options{ShowUnconstrained: false})
	withoutUnconstrained := sb.String()

	sb.Reset()
	report.Print(&sb, points[0], report.Options{ShowUnconstrained: true})
	withUnconstrained := sb.String()

	assert.NotEqual(t, withoutUnconstrained, withUnconstrained)
}
