// Command dinv is the command-line surface of spec.md §6: it reads one
// or more trace files, drives the fixpoint inference engine over every
// program point found, and prints the reporter output. Argument parsing
// is the standard library's flag package (see DESIGN.md for why no
// ecosystem config library is wired here); structured logging and
// multi-file error aggregation follow the teacher pack's
// hashicorp-nomad idiom rather than the teacher itself, which has
// neither.
package main

import (
	"flag"
	"fmt"
	"os"
	"regexp"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"

	"dinv/internal/engine"
	"dinv/internal/errors"
	"dinv/internal/model"
	"dinv/internal/report"
	"dinv/internal/stats"
	"dinv/internal/trace"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("dinv", flag.ContinueOnError)
	var (
		noTernary     = fs.Bool("no-ternary-invariants", engine.DefaultOptions().NoTernaryInvariants, "skip triple-of-scalars inference")
		noInvocations = fs.Bool("no-invocation-counts", engine.DefaultOptions().NoInvocationCounts, "do not inject per-function call counters")
		noStats       = fs.Bool("no-stats", !engine.DefaultOptions().CollectStats, "do not collect per-point timing/shape statistics")
		confidence    = fs.Float64("confidence", engine.DefaultOptions().NegativeInvariantConfidence, "alpha for negative-invariant statistical justification")
		oneOf         = fs.Int("one-of-threshold", engine.DefaultOptions().OneOfThreshold, "max distinct values kept as an explicit one-of enumeration")
		selectExpr    = fs.String("select", "", "case-insensitive regular expression filtering program-point labels")
		showStats     = fs.Bool("show-stats", false, "print collected statistics alongside the report")
		showUnconstr  = fs.Bool("show-unconstrained", false, "include invariants that carried no useful information")
		verbose       = fs.Bool("v", false, "enable verbose structured logging")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: dinv [flags] trace-file [trace-file ...]")
		return 2
	}

	level := hclog.Warn
	if *verbose {
		level = hclog.Debug
	}
	logger := hclog.New(&hclog.LoggerOptions{Name: "dinv", Level: level})

	opts := engine.Options{
		NoTernaryInvariants:         *noTernary,
		NoInvocationCounts:          *noInvocations,
		CollectStats:                !*noStats,
		NegativeInvariantConfidence: *confidence,
		OneOfThreshold:              *oneOf,
	}

	var sel *regexp.Regexp
	if *selectExpr != "" {
		compiled, err := regexp.Compile("(?i)" + *selectExpr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "dinv: invalid -select pattern: %s\n", err)
			return 2
		}
		sel = compiled
	}

	collector := stats.NewCollector()
	driver := engine.NewDriver(opts, collector)

	var allPoints []*pointResult
	var merr *multierror.Error
	for _, path := range fs.Args() {
		logger.Debug("ingesting trace file", "path", path)
		points, err := ingestFile(path, trace.Options{
			Select:                 sel,
			InjectInvocationCounts: !opts.NoInvocationCounts,
		})
		if err != nil {
			logger.Error("failed to ingest trace file", "path", path, "error", err)
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", path, err))
			continue
		}
		for _, p := range points {
			allPoints = append(allPoints, &pointResult{point: p})
		}
	}

	if merr.ErrorOrNil() != nil && len(allPoints) == 0 {
		fmt.Fprintln(os.Stderr, merr.Error())
		return 1
	}

	runConcurrently(driver, allPoints, logger)

	for _, r := range allPoints {
		report.Print(os.Stdout, r.point, report.Options{ShowUnconstrained: *showUnconstr})
	}
	if *showStats {
		report.PrintStats(os.Stdout, collector.Snapshot())
	}

	if merr.ErrorOrNil() != nil {
		fmt.Fprintln(os.Stderr, merr.Error())
		return 1
	}
	return 0
}

type pointResult struct {
	point *model.ProgramPoint
}

func ingestFile(path string, opts trace.Options) ([]*model.ProgramPoint, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	points, err := trace.Ingest(path, string(source), opts)
	if err != nil {
		if ee, ok := err.(errors.EngineError); ok {
			reporter := errors.NewErrorReporter(path, string(source))
			return nil, fmt.Errorf("%s", reporter.FormatError(ee))
		}
		return nil, err
	}
	return points, nil
}

// runConcurrently drives every program point's fixpoint independently
// (spec.md §5: "different points may be processed independently and in
// parallel"); each Driver.Run call only touches its own point's
// registry and tabulator.
func runConcurrently(driver *engine.Driver, results []*pointResult, logger hclog.Logger) {
	var wg sync.WaitGroup
	for _, r := range results {
		r := r
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Debug("running driver", "point", r.point.Name)
			driver.Run(r.point)
		}()
	}
	wg.Wait()
}
