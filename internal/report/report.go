// Package report implements the downstream reporter output of spec.md
// §6.3: one text block per program point, grouped by equality class,
// singleton invariant, pairwise invariant (with "!=" -only relations
// deferred to their own section), and ternary invariant last. This is an
// external interface per spec.md §1/§6, built to the minimum the core
// needs — colorized headers follow the teacher's use of
// `github.com/fatih/color` in internal/errors/reporter.go and main.go.
package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"dinv/internal/invariant"
	"dinv/internal/model"
	"dinv/internal/stats"
)

// Options carries the reporter-facing knobs of spec.md §6.3.
type Options struct {
	// ShowUnconstrained, when true, prints invariants that carried
	// nothing beyond bare observation (suppressed by default).
	ShowUnconstrained bool
}

// Print writes one program point's report to w.
func Print(w io.Writer, point *model.ProgramPoint, opts Options) {
	header := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Fprintf(w, "%s\n", header(point.Name))

	reg := point.Registry
	printEqualityGroups(w, reg)
	printSingletons(w, reg, opts)
	printPairwise(w, reg, opts)
	printTernary(w, reg, opts)
	fmt.Fprintln(w)
}

func asInvariant(raw interface{}) (invariant.Invariant, bool) {
	inv, ok := raw.(invariant.Invariant)
	return inv, ok
}

// equalityConstant reports the constant value of v's equality class,
// when the class is exact (spec.md §6.3: "optionally annotated with the
// constant").
func equalityConstant(v *model.VarInfo) (model.Value, bool) {
	inv, ok := asInvariant(v.Invariant)
	if !ok {
		return model.Value{}, false
	}
	b := inv.Meta()
	if b.Distinct == 1 && !b.CanBeMissing && len(b.OneOf) == 1 {
		return b.OneOf[0], true
	}
	return model.Value{}, false
}

func printEqualityGroups(w io.Writer, reg *model.Registry) {
	for _, v := range reg.All() {
		if !v.IsCanonical() || len(v.EqualTo) == 0 {
			continue
		}
		line := v.Name
		for _, idx := range v.EqualTo {
			line += " = " + reg.At(idx).Name
		}
		if val, ok := equalityConstant(v); ok {
			line += " = " + val.String()
		}
		fmt.Fprintln(w, line)
	}
}

func printSingletons(w io.Writer, reg *model.Registry, opts Options) {
	for _, v := range reg.All() {
		if !v.IsCanonical() {
			continue
		}
		inv, ok := asInvariant(v.Invariant)
		if !ok {
			continue
		}
		if inv.IsUnconstrained() && !opts.ShowUnconstrained {
			continue
		}
		text := inv.Format(nil)
		if text == "" && !opts.ShowUnconstrained {
			continue
		}
		fmt.Fprintf(w, "%s: %s%s\n", v.Name, text, invariant.Suffix(inv.Meta()))
	}
}

// isNeOnly reports whether a pairwise invariant's sole content is a
// justified "!=" comparison, the deferred section of spec.md §6.3.
func isNeOnly(inv invariant.Invariant) bool {
	t, ok := inv.(*invariant.TwoScalar)
	if !ok {
		return false
	}
	return t.Comparison == "!=" && t.Linear == nil && len(t.Functions) == 0 && len(t.InvFunctions) == 0
}

func pairNames(a, b *model.VarInfo) func(int) string {
	return func(pos int) string {
		if pos == 0 {
			return a.Name
		}
		return b.Name
	}
}

func printPairwise(w io.Writer, reg *model.Registry, opts Options) {
	vars := reg.All()
	var main, neOnly []string

	for _, vi := range vars {
		if !vi.IsCanonical() {
			continue
		}
		for j := vi.Index + 1; j < len(vars); j++ {
			vj := vars[j]
			if !vj.IsCanonical() {
				continue
			}
			raw, ok := vi.PairInvariant(j)
			if !ok {
				continue
			}
			inv, ok := asInvariant(raw)
			if !ok {
				continue
			}
			if inv.IsUnconstrained() && !opts.ShowUnconstrained {
				continue
			}
			text := inv.Format(pairNames(vi, vj))
			if text == "" && !opts.ShowUnconstrained {
				continue
			}
			line := fmt.Sprintf("%s, %s: %s%s", vi.Name, vj.Name, text, invariant.Suffix(inv.Meta()))
			if isNeOnly(inv) {
				neOnly = append(neOnly, line)
			} else {
				main = append(main, line)
			}
		}
	}

	for _, l := range main {
		fmt.Fprintln(w, l)
	}
	if len(neOnly) > 0 {
		section := color.New(color.FgYellow).SprintFunc()
		fmt.Fprintln(w, section("!= only:"))
		for _, l := range neOnly {
			fmt.Fprintln(w, l)
		}
	}
}

func tripleNames(a, b, c *model.VarInfo) func(int) string {
	return func(pos int) string {
		switch pos {
		case 0:
			return a.Name
		case 1:
			return b.Name
		default:
			return c.Name
		}
	}
}

func printTernary(w io.Writer, reg *model.Registry, opts Options) {
	vars := reg.All()
	for _, vi := range vars {
		if !vi.IsCanonical() {
			continue
		}
		for j := vi.Index + 1; j < len(vars); j++ {
			vj := vars[j]
			if !vj.IsCanonical() {
				continue
			}
			for k := j + 1; k < len(vars); k++ {
				vk := vars[k]
				if !vk.IsCanonical() {
					continue
				}
				raw, ok := vi.TripleInvariant(j, k)
				if !ok {
					continue
				}
				inv, ok := asInvariant(raw)
				if !ok {
					continue
				}
				if inv.IsUnconstrained() && !opts.ShowUnconstrained {
					continue
				}
				text := inv.Format(tripleNames(vi, vj, vk))
				if text == "" && !opts.ShowUnconstrained {
					continue
				}
				fmt.Fprintf(w, "%s, %s, %s: %s%s\n", vi.Name, vj.Name, vk.Name, text, invariant.Suffix(inv.Meta()))
			}
		}
	}
}

// PrintStats writes one line per program point summarizing its sample
// count and per-phase timings (spec.md §6's collect_stats knob,
// surfaced here rather than duplicated into a second printer).
func PrintStats(w io.Writer, snapshot []stats.PointSummary) {
	label := color.New(color.FgMagenta).SprintFunc()
	for _, s := range snapshot {
		fmt.Fprintf(w, "%s %s: %d samples", label("stats"), s.Point, s.Samples)
		for phase, secs := range s.PhaseSeconds {
			fmt.Fprintf(w, ", %s=%.6fs", phase, secs)
		}
		fmt.Fprintln(w)
	}
}
