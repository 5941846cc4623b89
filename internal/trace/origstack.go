package trace

import "dinv/internal/model"

// funcState is the per-function bookkeeping spec.md §6 calls for: "On
// BEGIN events, the engine snapshots parameter values onto a per-
// function stack; on END it pops and exposes them as _orig variables."
// Recursive/re-entrant calls are handled correctly because the stack is
// LIFO: the innermost BEGIN is always the one an END pops.
type funcState struct {
	paramNames []string
	paramKinds []model.Kind
	stack      [][]model.Value
}

// origStacks tracks one funcState per function tag, keyed by the TAG
// portion of a program point label (e.g. "F" for "F:::BEGIN").
type origStacks struct {
	byFunc map[string]*funcState
}

func newOrigStacks() *origStacks {
	return &origStacks{byFunc: make(map[string]*funcState)}
}

func (o *origStacks) state(fn string) *funcState {
	fs, ok := o.byFunc[fn]
	if !ok {
		fs = &funcState{}
		o.byFunc[fn] = fs
	}
	return fs
}

// push records one BEGIN invocation's parameter values. paramNames and
// paramKinds are taken from the BEGIN label's declared parameter list
// when present, else from the record's own entry order (formal
// parameters are indistinguishable from other logged variables in that
// case, matching how an instrumented program with no declared signature
// would be traced).
func (o *origStacks) push(fn string, paramNames []string, paramKinds []model.Kind, values []model.Value) {
	fs := o.state(fn)
	if fs.paramNames == nil {
		fs.paramNames = paramNames
		fs.paramKinds = paramKinds
	}
	fs.stack = append(fs.stack, values)
}

// pop returns the most recent BEGIN snapshot for fn, or nil if none is
// outstanding (an END with no matching BEGIN: _orig injection is
// skipped for that occurrence).
func (o *origStacks) pop(fn string) []model.Value {
	fs, ok := o.byFunc[fn]
	if !ok || len(fs.stack) == 0 {
		return nil
	}
	n := len(fs.stack) - 1
	v := fs.stack[n]
	fs.stack = fs.stack[:n]
	return v
}

// params returns the parameter name/kind lists recorded for fn by its
// first BEGIN, used once to register "<name>_orig" variables on the
// matching END program point.
func (o *origStacks) params(fn string) ([]string, []model.Kind) {
	fs, ok := o.byFunc[fn]
	if !ok {
		return nil, nil
	}
	return fs.paramNames, fs.paramKinds
}
