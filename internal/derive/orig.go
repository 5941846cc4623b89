package derive

import "dinv/internal/model"

// RegisterOrig appends one "<name>_orig" variable per BEGIN formal
// parameter to reg, mirroring each parameter's Kind (spec.md §4.2's
// closing paragraph: "additional derived variables introduced at
// trace-load time ... so that END invariants may compare entry vs. exit
// values"). This is invoked once by internal/trace when it builds an
// END program point's registry, not by the engine's fixpoint loop — it
// is a one-time trace-load step, not a pass.
func RegisterOrig(reg *model.Registry, params []string, kinds []model.Kind) []int {
	idxs := make([]int, len(params))
	for i, p := range params {
		idxs[i] = reg.AddVariable(p+"_orig", kinds[i])
		reg.At(idxs[i]).IsDerived = true
	}
	return idxs
}
