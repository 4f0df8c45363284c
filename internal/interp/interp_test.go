package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bailey/internal/ast"
	"bailey/internal/errors"
	"bailey/internal/heap"
	"bailey/internal/ir"
	"bailey/internal/scenario"
)

// runScenario normalizes and runs a named scenario, requiring no build
// errors, and returns the resulting Interpreter (so tests can also assert
// on its heap) and value.
func runScenario(t *testing.T, name string, arg int32) (*Interpreter, heap.Value) {
	t.Helper()
	expr, ok := scenario.Build(name, arg)
	require.True(t, ok, "unrecognized scenario %q", name)

	program, errs := ir.Normalize(expr)
	require.Empty(t, errs)

	in := New(program)
	return in, in.Run()
}

func TestLiteral42(t *testing.T) {
	in, v := runScenario(t, "literal", 0)
	assert.Equal(t, int32(42), v.CheckInt())
	assert.Equal(t, 0, in.Heap().Len(), "no garbage left behind after the outermost block exits")
}

func TestAddTwoThree(t *testing.T) {
	_, v := runScenario(t, "arithmetic", 0)
	assert.Equal(t, int32(5), v.CheckInt())
}

func TestConditionalEq(t *testing.T) {
	_, v := runScenario(t, "conditional", 0)
	assert.Equal(t, int32(10), v.CheckInt())
}

func TestTupleGetSet(t *testing.T) {
	in, v := runScenario(t, "tuple", 0)
	assert.Equal(t, int32(4), v.CheckInt())
	assert.Equal(t, 0, in.Heap().Len())
}

func TestFibHelperTen(t *testing.T) {
	in, v := runScenario(t, "fib", 10)
	assert.Equal(t, int32(55), v.CheckInt())
	assert.Equal(t, 0, in.Heap().Len(), "tail-recursive calls leave no residue")
}

func TestClosureCapture(t *testing.T) {
	in, v := runScenario(t, "closure", 0)
	assert.Equal(t, int32(42), v.CheckInt())
	assert.Equal(t, 0, in.Heap().Len())
}

func TestRunUnwindsEveryCallFrame(t *testing.T) {
	in, _ := runScenario(t, "fib", 10)
	assert.Equal(t, 0, in.stack.Depth(), "the root block's exit pops the initial call frame too")
}

func TestFormatValueNestedTuple(t *testing.T) {
	in, _ := runScenario(t, "literal", 0)
	a := in.Heap().Alloc(heap.IntValue(1))
	b := in.Heap().Alloc(heap.IntValue(2))
	tuple := heap.Value{Kind: heap.KindTuple, Fields: []heap.Address{a, b}}
	assert.Equal(t, "(1, 2)", in.FormatValue(tuple))
}

func TestFormatValueClosure(t *testing.T) {
	in, _ := runScenario(t, "literal", 0)
	clo := heap.Value{Kind: heap.KindClosure, Clo: &heap.Closure{Name: "f"}}
	assert.Equal(t, "<closure f>", in.FormatValue(clo))
}

func TestIfInNonTailPositionResumesEnclosingBlock(t *testing.T) {
	// if sits in a Let's definition, not in tail position of its enclosing
	// block — the branch's own ExitBlock must resume after the If, binding
	// x and running the +10, rather than returning the branch's raw value.
	expr := &ast.Let{
		Name: "x",
		Definition: &ast.If{
			Condition:     &ast.Literal{Value: ast.BoolConstant(true)},
			BranchSuccess: &ast.Literal{Value: ast.IntConstant(1)},
			BranchFailure: &ast.Literal{Value: ast.IntConstant(2)},
		},
		Body: &ast.BinaryOp{
			Op:  ast.Add,
			Lhs: &ast.Var{Name: "x"},
			Rhs: &ast.Literal{Value: ast.IntConstant(10)},
		},
	}

	program, errs := ir.Normalize(expr)
	require.Empty(t, errs)

	in := New(program)
	v := in.Run()
	assert.Equal(t, int32(11), v.CheckInt())
	assert.Equal(t, 0, in.Heap().Len())
	assert.Equal(t, 0, in.stack.Depth())
}

func TestEqOnBoolOperandFaults(t *testing.T) {
	// Eq's CheckInt calls expect integer operands; applying it to a bool is
	// a type mismatch.
	expr := &ast.BinaryOp{
		Op:  ast.Eq,
		Lhs: &ast.Literal{Value: ast.BoolConstant(true)},
		Rhs: &ast.Literal{Value: ast.IntConstant(1)},
	}
	fault := runAndCaptureFault(t, expr)
	assert.Equal(t, errors.FaultTypeMismatch, fault.Code)
}

func TestGetIndexOutOfRangeFaults(t *testing.T) {
	t1 := &ast.Var{Name: "t"}
	expr := &ast.Let{
		Name:       "t",
		Definition: &ast.Tuple{Values: []ast.Expr{&ast.Literal{Value: ast.IntConstant(1)}}},
		Body:       &ast.BinaryOp{Op: ast.Get, Lhs: t1, Rhs: &ast.Literal{Value: ast.IntConstant(1)}},
	}
	fault := runAndCaptureFault(t, expr)
	assert.Equal(t, errors.FaultIndexOutOfRange, fault.Code)
}

func TestSetIndexOutOfRangeFaults(t *testing.T) {
	t1 := &ast.Var{Name: "t"}
	expr := &ast.Let{
		Name:       "t",
		Definition: &ast.Tuple{Values: []ast.Expr{&ast.Literal{Value: ast.IntConstant(1)}}},
		Body: &ast.Set{
			Tuple:    t1,
			Index:    1,
			NewValue: &ast.Literal{Value: ast.IntConstant(9)},
		},
	}
	fault := runAndCaptureFault(t, expr)
	assert.Equal(t, errors.FaultIndexOutOfRange, fault.Code)
}

func TestCallArgumentCountMismatchFaults(t *testing.T) {
	expr := &ast.Let{
		Name: "f",
		Definition: &ast.Fun{
			Name: "f",
			Args: []string{"x", "y"},
			Body: &ast.Var{Name: "x"},
		},
		Body: &ast.Call{
			Func: &ast.Var{Name: "f"},
			Args: []ast.Expr{&ast.Literal{Value: ast.IntConstant(1)}},
		},
	}
	fault := runAndCaptureFault(t, expr)
	assert.Equal(t, errors.FaultArgumentCount, fault.Code)
}

func TestSetNewEqualsOldLeavesCellAlive(t *testing.T) {
	// Setting a tuple field to its own current value must not free it: the
	// increment of the new value happens before the decrement of the old.
	t1 := &ast.Var{Name: "t"}
	expr := &ast.Let{
		Name:       "t",
		Definition: &ast.Tuple{Values: []ast.Expr{&ast.Literal{Value: ast.IntConstant(1)}}},
		Body: &ast.Let{
			Name: "_",
			Definition: &ast.Set{
				Tuple:    t1,
				Index:    0,
				NewValue: &ast.BinaryOp{Op: ast.Get, Lhs: t1, Rhs: &ast.Literal{Value: ast.IntConstant(0)}},
			},
			Body: &ast.BinaryOp{Op: ast.Get, Lhs: t1, Rhs: &ast.Literal{Value: ast.IntConstant(0)}},
		},
	}
	program, errs := ir.Normalize(expr)
	require.Empty(t, errs)
	in := New(program)
	v := in.Run()
	assert.Equal(t, int32(1), v.CheckInt())
}

// runAndCaptureFault normalizes and runs expr, requiring the run to panic
// with a *errors.RuntimeFault, and returns it.
func runAndCaptureFault(t *testing.T, expr ast.Expr) (fault *errors.RuntimeFault) {
	t.Helper()
	program, errs := ir.Normalize(expr)
	require.Empty(t, errs)

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a fault panic")
		f, ok := r.(*errors.RuntimeFault)
		require.True(t, ok, "expected *errors.RuntimeFault, got %T", r)
		fault = f
	}()
	New(program).Run()
	return nil
}
