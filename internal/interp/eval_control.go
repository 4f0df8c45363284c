package interp

import (
	"bailey/internal/errors"
	"bailey/internal/heap"
	"bailey/internal/ir"
	"bailey/internal/stack"
)

// evalControl dispatches a Control step to the target address execution
// should jump to next: Call enters a new call frame and jumps to the
// callee's entry; If enters a new block frame within the current call frame
// and jumps to the chosen branch's entry. Neither case falls through to the
// following instruction the way a Simple step does — returnInfo is handed to
// the new frame and only consulted again once the jumped-to block
// eventually exits (ExitBlock).
func (in *Interpreter) evalControl(step ir.Control, returnInfo stack.ReturnInfo) ir.TargetAddress {
	switch s := step.(type) {
	case ir.CallStep:
		return in.evalCall(s, returnInfo)
	case ir.IfStep:
		return in.evalIf(s, returnInfo)
	default:
		errors.NewFault(errors.FaultUnboundVariable, "unrecognized control step %T", step)
		panic("unreachable")
	}
}

// evalCall resolves the callee closure, checks its arity, pushes a new call
// frame, and binds the closure's captured environment, its arguments, and
// (for recursive self-calls) its own name — in that order, matching the
// original evaluator — before jumping to its body.
func (in *Interpreter) evalCall(s ir.CallStep, returnInfo stack.ReturnInfo) ir.TargetAddress {
	closureAddress := in.evalVar(s.Func)

	argValues := make([]heap.Address, len(s.Args))
	for i, arg := range s.Args {
		argValues[i] = in.evalVar(arg)
	}

	closure := in.heap.Deref(closureAddress).CheckClosure()

	if len(closure.Params) != len(s.Args) {
		errors.NewFault(errors.FaultArgumentCount, "closure %q expects %d arguments, got %d", closure.Name, len(closure.Params), len(s.Args))
	}

	in.stack.EnterFunction(returnInfo)

	for name, value := range closure.Environment {
		in.setVar(name, value)
	}
	for i, name := range closure.Params {
		in.setVar(name, argValues[i])
	}

	// Binding the closure's own name to its own address last is what lets
	// the body recursively call itself by name.
	in.setVar(closure.Name, closureAddress)

	return closure.Body
}

// evalIf resolves the branch condition and enters a new block frame carrying
// returnInfo before jumping to the chosen branch's entry — the branch's own
// ExitBlock pops that frame and resumes at returnInfo.ReturnAddress, the same
// way a call's ExitBlock resumes through the call frame evalCall pushed.
// Without this, the branch would exit through whatever frame happened to be
// current, returning control to the wrong place.
func (in *Interpreter) evalIf(s ir.IfStep, returnInfo stack.ReturnInfo) ir.TargetAddress {
	conditionAddress := in.evalVar(s.Condition)
	condition := in.heap.Deref(conditionAddress).CheckBool()

	in.stack.EnterBlock(returnInfo)

	if condition {
		return s.BranchSuccess
	}
	return s.BranchFailure
}
