// Package interp implements bailey's iterative interpreter: a single
// dispatch loop stepping a program counter over (function, block,
// instruction) addresses, backed by internal/heap for refcounted values and
// internal/stack for the call/block frame stack. There is no host-language
// recursion mirroring source-level function calls — every Call and If is a
// jump, which is what lets deeply recursive bailey programs run without
// growing the Go call stack.
package interp

import (
	"bailey/internal/errors"
	"bailey/internal/heap"
	"bailey/internal/ir"
	"bailey/internal/stack"
)

// Interpreter runs one Program to completion. It is not safe for concurrent
// use and not intended to be reused across runs.
type Interpreter struct {
	program *ir.Program
	heap    *heap.Heap
	stack   *stack.Stack
	pc      ir.TargetAddress
}

// New creates an Interpreter positioned at program's entry point (function
// 0's first block).
func New(program *ir.Program) *Interpreter {
	return &Interpreter{
		program: program,
		heap:    heap.New(),
		stack:   stack.New(),
		pc:      program.Functions[0].Entry(0),
	}
}

// Run drives the dispatch loop to completion and returns the value the
// program's outermost block exits with. It panics with *errors.RuntimeFault
// on any of the faults named in spec — callers that want a diagnostic
// instead of a crash should recover and pass the value to errors.Recover.
func (in *Interpreter) Run() heap.Value {
	for {
		if result, done := in.step(); done {
			return result
		}
	}
}

// Heap exposes the interpreter's heap, for tests asserting on refcounts and
// leftover live cells after a run.
func (in *Interpreter) Heap() *heap.Heap {
	return in.heap
}

// setVar roots value at address by incrementing its refcount and binding it
// in the current block frame — the only place a cell's refcount moves from
// 0 ("in transit", per internal/heap) to 1 or more.
func (in *Interpreter) setVar(name string, address heap.Address) {
	in.heap.Inc(address)
	in.stack.SetVar(name, address)
}

func (in *Interpreter) evalVar(ref ir.VariableReference) heap.Address {
	return in.stack.LookupVar(ref.Name)
}

// step executes the instruction at the current program counter and reports
// whether the program has finished (the outermost block exited with no
// caller to return to).
func (in *Interpreter) step() (heap.Value, bool) {
	instruction := in.program.GetInstruction(in.pc)

	switch inst := instruction.(type) {
	case ir.EnterBlock:
		in.pc = in.pc.Next()
		return heap.Value{}, false

	case ir.ExitBlock:
		return in.execExitBlock(inst)

	case ir.Assignment:
		in.pc = in.execAssignment(in.pc, inst)
		return heap.Value{}, false

	default:
		errors.NewFault(errors.FaultUnboundVariable, "unrecognized instruction %T", instruction)
		panic("unreachable")
	}
}

// execExitBlock pops the current block frame, resolves its declared result
// variable, and either returns the final program value (no caller to
// resume) or roots the result in the caller's frame and resumes at the
// caller's return address. Locals are dropped only after the result has
// been rooted, so a result that is itself one of the block's locals
// survives the drop.
func (in *Interpreter) execExitBlock(inst ir.ExitBlock) (heap.Value, bool) {
	block := in.stack.ExitBlock()

	resultAddress := block.LookupVar(inst.Result.Name)

	returnInfo := block.ReturnInfo
	if returnInfo.ResultVariable == "" {
		result := in.heap.Deref(resultAddress)
		for _, address := range block.Values() {
			in.heap.Dec(address)
		}
		return result, true
	}

	in.setVar(returnInfo.ResultVariable, resultAddress)
	for _, address := range block.Values() {
		in.heap.Dec(address)
	}
	in.pc = returnInfo.ReturnAddress
	return heap.Value{}, false
}

// execAssignment evaluates one Assignment's definition and returns the next
// program counter: for a Var alias or a Simple step this is always the
// following instruction; for a Control step it is wherever eval_control
// transfers to (a call's callee entry, or an If branch's block entry).
func (in *Interpreter) execAssignment(address ir.TargetAddress, inst ir.Assignment) ir.TargetAddress {
	switch def := inst.Definition.(type) {
	case ir.VarDefinition:
		value := in.evalVar(def.Ref)
		in.setVar(inst.Name, value)
		return address.Next()

	case ir.StepDefinition:
		switch step := def.Step.(type) {
		case ir.Simple:
			value := in.evalSimple(step)
			in.setVar(inst.Name, value)
			return address.Next()

		case ir.Control:
			returnInfo := stack.ReturnInfo{ResultVariable: inst.Name, ReturnAddress: address.Next()}
			return in.evalControl(step, returnInfo)

		default:
			errors.NewFault(errors.FaultUnboundVariable, "unrecognized step %T", def.Step)
			panic("unreachable")
		}

	default:
		errors.NewFault(errors.FaultUnboundVariable, "unrecognized definition %T", inst.Definition)
		panic("unreachable")
	}
}
