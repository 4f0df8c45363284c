package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bailey/internal/ast"
	"bailey/internal/errors"
	"bailey/internal/ir"
)

func TestFrameLayoutResolvesLocalBinding(t *testing.T) {
	program, errs := ir.Normalize(&ast.Literal{Value: ast.IntConstant(42)})
	require.Empty(t, errs)

	layout := ComputeProgramFrameLayout(program)
	block := program.Functions[0].Blocks[0]
	name := block.LocalNames()[0]

	ref := layout.LookupVar(0, 0, name)
	assert.Equal(t, LocalReference{Offset: 0}, ref)
}

func TestFrameLayoutResolvesArgument(t *testing.T) {
	expr := &ast.Fun{Name: "f", Args: []string{"y"}, Body: &ast.Var{Name: "y"}}
	program, errs := ir.Normalize(expr)
	require.Empty(t, errs)

	layout := ComputeProgramFrameLayout(program)
	ref := layout.LookupVar(1, 0, "y")
	assert.Equal(t, ArgumentReference{Offset: 0}, ref)
}

func TestFrameLayoutResolvesSelfName(t *testing.T) {
	expr := &ast.Fun{Name: "f", Args: nil, Body: &ast.Var{Name: "f"}}
	program, errs := ir.Normalize(expr)
	require.Empty(t, errs)

	layout := ComputeProgramFrameLayout(program)
	ref := layout.LookupVar(1, 0, "f")
	assert.Equal(t, This{}, ref)
}

func TestFrameLayoutResolvesClosureCapture(t *testing.T) {
	expr := &ast.Let{
		Name:       "x",
		Definition: &ast.Literal{Value: ast.IntConstant(7)},
		Body: &ast.Let{
			Name: "f",
			Definition: &ast.Fun{
				Name: "f",
				Args: []string{"y"},
				Body: &ast.BinaryOp{Op: ast.Add, Lhs: &ast.Var{Name: "x"}, Rhs: &ast.Var{Name: "y"}},
			},
			Body: &ast.Call{Func: &ast.Var{Name: "f"}, Args: []ast.Expr{&ast.Literal{Value: ast.IntConstant(35)}}},
		},
	}
	program, errs := ir.Normalize(expr)
	require.Empty(t, errs)

	layout := ComputeProgramFrameLayout(program)
	ref := layout.LookupVar(1, 0, "x")
	assert.Equal(t, ClosureReference{Offset: 0}, ref)
}

func TestFrameLayoutWalksToParentBlock(t *testing.T) {
	expr := &ast.Let{
		Name:       "x",
		Definition: &ast.Literal{Value: ast.IntConstant(1)},
		Body: &ast.If{
			Condition:     &ast.Literal{Value: ast.BoolConstant(true)},
			BranchSuccess: &ast.Var{Name: "x"},
			BranchFailure: &ast.Var{Name: "x"},
		},
	}
	program, errs := ir.Normalize(expr)
	require.Empty(t, errs)

	layout := ComputeProgramFrameLayout(program)
	ref := layout.LookupVar(0, 1, "x")
	_, ok := ref.(LocalReference)
	assert.True(t, ok, "x is bound in the parent block (0), found by walking up from block 1")
}

func TestFrameLayoutKeepsShadowedLocalSlotsDistinct(t *testing.T) {
	// Two nested lets bind the same source name "x" within a single block:
	// the normalizer does not alpha-rename Let binders, so both Assignments
	// are named "x". Each must still get its own slot, and FrameSize must
	// count both.
	expr := &ast.Let{
		Name:       "x",
		Definition: &ast.Literal{Value: ast.IntConstant(1)},
		Body: &ast.Let{
			Name:       "x",
			Definition: &ast.Literal{Value: ast.IntConstant(2)},
			Body:       &ast.Var{Name: "x"},
		},
	}
	program, errs := ir.Normalize(expr)
	require.Empty(t, errs)

	block := program.Functions[0].Blocks[0]
	names := block.LocalNames()
	count := 0
	for _, n := range names {
		if n == "x" {
			count++
		}
	}
	require.Equal(t, 2, count, "both lets bind the source name \"x\" in the same block")

	lastX := 0
	for i, n := range names {
		if n == "x" {
			lastX = i
		}
	}

	layout := ComputeProgramFrameLayout(program)
	ref := layout.LookupVar(0, 0, "x")
	// The later binding shadows the earlier one: resolution must land on the
	// last "x" slot, not the first.
	local, ok := ref.(LocalReference)
	require.True(t, ok)
	assert.Equal(t, lastX, local.Offset)
	assert.Equal(t, len(names), layout.FrameSize(0, 0), "FrameSize must count every local slot, not just distinct names")
}

func TestFrameLayoutLookupVarMissFaults(t *testing.T) {
	program, errs := ir.Normalize(&ast.Literal{Value: ast.IntConstant(1)})
	require.Empty(t, errs)
	layout := ComputeProgramFrameLayout(program)

	fault := captureFault(t, func() { layout.LookupVar(0, 0, "nowhere") })
	assert.Equal(t, errors.FaultUnboundVariable, fault.Code)
}

func captureFault(t *testing.T, fn func()) (fault *errors.RuntimeFault) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a fault panic")
		f, ok := r.(*errors.RuntimeFault)
		require.True(t, ok, "expected *errors.RuntimeFault, got %T", r)
		fault = f
	}()
	fn()
	return nil
}
