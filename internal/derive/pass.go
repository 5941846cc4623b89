// Package derive implements the derivation passes of spec.md §4.2: pass
// 1 (sizes) and pass 2 (aggregates, elements, prefix slices), each a
// bundle of six introducers keyed by the arity/type of the seed
// variable(s) they consume.
package derive

import "dinv/internal/model"

// Context is the mutable state an introducer operates on: the program
// point's variable registry and its value-tuple table.
type Context struct {
	Reg *model.Registry
	Tab *model.Tabulator
}

// Pass is a bundle of six introducers (spec.md §9: "an array of six
// function pointers indexed by signature is the natural representation"),
// grounded on the teacher's OptimizationPass/pass-list idiom
// (internal/ir/optimizations.go) but narrowed to this fixed signature set
// rather than an open-ended pass list, since spec.md defines exactly two
// passes with exactly six introducer slots each. Each introducer returns
// true if it appended at least one new variable.
type Pass struct {
	Name                 string
	FromSequence         func(ctx *Context, seed int) bool
	FromScalar           func(ctx *Context, seed int) bool
	FromSequenceSequence func(ctx *Context, i, j int) bool
	FromSequenceScalar   func(ctx *Context, seq, scalar int) bool
	FromScalarSequence   func(ctx *Context, scalar, seq int) bool
	FromScalarScalar     func(ctx *Context, i, j int) bool
}

// RunSeed calls the introducer matching a single seed variable's kind,
// returning false if the pass defines no such introducer.
func (p *Pass) RunSeed(ctx *Context, seed int) bool {
	v := ctx.Reg.At(seed)
	switch v.Kind {
	case model.Sequence:
		if p.FromSequence != nil {
			return p.FromSequence(ctx, seed)
		}
	case model.Scalar:
		if p.FromScalar != nil {
			return p.FromScalar(ctx, seed)
		}
	}
	return false
}

// RunPair calls the introducer matching an ordered pair (i, j)'s kinds,
// returning false if the pass defines no such introducer.
func (p *Pass) RunPair(ctx *Context, i, j int) bool {
	vi, vj := ctx.Reg.At(i), ctx.Reg.At(j)
	switch {
	case vi.Kind == model.Sequence && vj.Kind == model.Sequence:
		if p.FromSequenceSequence != nil {
			return p.FromSequenceSequence(ctx, i, j)
		}
	case vi.Kind == model.Sequence && vj.Kind == model.Scalar:
		if p.FromSequenceScalar != nil {
			return p.FromSequenceScalar(ctx, i, j)
		}
	case vi.Kind == model.Scalar && vj.Kind == model.Sequence:
		if p.FromScalarSequence != nil {
			return p.FromScalarSequence(ctx, i, j)
		}
	case vi.Kind == model.Scalar && vj.Kind == model.Scalar:
		if p.FromScalarScalar != nil {
			return p.FromScalarScalar(ctx, i, j)
		}
	}
	return false
}
