package derive

import "dinv/internal/model"

// Pass1 introduces exactly one kind of derived variable: the length of
// every original sequence that does not already have one (spec.md §4.2).
var Pass1 = &Pass{
	Name:         "pass1",
	FromSequence: pass1FromSequence,
}

func pass1FromSequence(ctx *Context, seed int) bool {
	s := ctx.Reg.At(seed)
	if s.IsDerived || s.DerivedLen.Kind != model.LenNone {
		return false
	}
	idx := ctx.Reg.AddVariable("size("+s.Name+")", model.Scalar)
	ctx.Reg.At(idx).IsDerived = true
	ctx.Tab.ExtendAll(func(tuple []model.Value) model.Value {
		v := tuple[seed]
		if v.Missing {
			return model.Missing()
		}
		return model.Int(int64(v.Len()))
	})
	s.DerivedLen = model.IndexLen(idx)
	return true
}
