package interp

import (
	"bailey/internal/ast"
	"bailey/internal/errors"
	"bailey/internal/heap"
	"bailey/internal/ir"
)

// evalSimple allocates a fresh heap cell for a Simple step and returns its
// address, with a refcount of 0 — the caller (execAssignment) is the one
// that roots it via setVar. The one exception is Get, which allocates
// nothing and returns the existing address of the tuple field.
func (in *Interpreter) evalSimple(step ir.Simple) heap.Address {
	switch s := step.(type) {
	case ir.LiteralStep:
		return in.evalLiteral(s.Value)
	case ir.ClosureStep:
		return in.evalClosure(s)
	case ir.BinOpStep:
		return in.evalBinOp(s)
	case ir.TupleStep:
		return in.evalTuple(s)
	case ir.SetStep:
		return in.evalSet(s)
	default:
		errors.NewFault(errors.FaultUnboundVariable, "unrecognized simple step %T", step)
		panic("unreachable")
	}
}

func (in *Interpreter) evalLiteral(c ast.Constant) heap.Address {
	if c.IsBool {
		return in.heap.Alloc(heap.BoolValue(c.Bool))
	}
	return in.heap.Alloc(heap.IntValue(c.Int))
}

// evalClosure captures the current value of every one of the lifted
// function's free names into the closure's environment, eagerly — a
// closure's captures are fixed at the point it is allocated, not at the
// point it is later called.
func (in *Interpreter) evalClosure(s ir.ClosureStep) heap.Address {
	fn := in.program.Functions[s.FunctionIndex]

	environment := make(map[string]heap.Address, len(s.FreeNames))
	for _, name := range s.FreeNames {
		environment[name] = in.stack.LookupVar(name)
	}
	for _, address := range environment {
		in.heap.Inc(address)
	}

	return in.heap.Alloc(heap.Value{
		Kind: heap.KindClosure,
		Clo: &heap.Closure{
			Name:        fn.Name,
			Params:      fn.Params,
			Environment: environment,
			Body:        fn.Entry(s.FunctionIndex),
		},
	})
}

func (in *Interpreter) evalBinOp(s ir.BinOpStep) heap.Address {
	lhsAddress := in.evalVar(s.Lhs)
	rhsAddress := in.evalVar(s.Rhs)

	switch s.Op {
	case ast.Add:
		lhs := in.heap.Deref(lhsAddress).CheckInt()
		rhs := in.heap.Deref(rhsAddress).CheckInt()
		return in.heap.Alloc(heap.IntValue(lhs + rhs))
	case ast.Sub:
		lhs := in.heap.Deref(lhsAddress).CheckInt()
		rhs := in.heap.Deref(rhsAddress).CheckInt()
		return in.heap.Alloc(heap.IntValue(lhs - rhs))
	case ast.Eq:
		lhs := in.heap.Deref(lhsAddress).CheckInt()
		rhs := in.heap.Deref(rhsAddress).CheckInt()
		return in.heap.Alloc(heap.BoolValue(lhs == rhs))
	case ast.Get:
		fields := in.heap.Deref(lhsAddress).CheckTuple()
		index := in.heap.Deref(rhsAddress).CheckInt()
		if index < 0 || int(index) >= len(fields) {
			errors.NewFault(errors.FaultIndexOutOfRange, "tuple field index %d out of range (len %d)", index, len(fields))
		}
		// No increment here: the field address is merely aliased, and the
		// caller's setVar roots it in the new binding, which is where the
		// increment belongs.
		return fields[index]
	default:
		errors.NewFault(errors.FaultTypeMismatch, "unrecognized binary operator %v", s.Op)
		panic("unreachable")
	}
}

// evalTuple allocates a new tuple cell referencing the already-live
// addresses of its fields, incrementing each one since the tuple now also
// owns a reference to it.
func (in *Interpreter) evalTuple(s ir.TupleStep) heap.Address {
	fields := make([]heap.Address, len(s.Args))
	for i, ref := range s.Args {
		fields[i] = in.evalVar(ref)
	}
	for _, address := range fields {
		in.heap.Inc(address)
	}
	return in.heap.Alloc(heap.Value{Kind: heap.KindTuple, Fields: fields})
}

// evalSet mutates Index of Tuple in place and returns a fresh empty tuple
// (bailey has no unit value, so Set's own result is simply discarded by
// convention). The increment of the new field value happens before the
// decrement of the old one so that setting a field to itself does not free
// the value being assigned.
func (in *Interpreter) evalSet(s ir.SetStep) heap.Address {
	tupleAddress := in.evalVar(s.Tuple)
	newValueAddress := in.evalVar(s.NewValue)

	tuple := in.heap.DerefMut(tupleAddress)
	fields := tuple.CheckTuple()
	if s.Index >= uint32(len(fields)) {
		errors.NewFault(errors.FaultIndexOutOfRange, "tuple field index %d out of range (len %d)", s.Index, len(fields))
	}

	oldValueAddress := fields[s.Index]
	fields[s.Index] = newValueAddress

	in.heap.Inc(newValueAddress)
	in.heap.Dec(oldValueAddress)

	return in.heap.Alloc(heap.Value{Kind: heap.KindTuple, Fields: nil})
}
