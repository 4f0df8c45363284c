// Package scenario builds named ast.Expr trees by hand for every worked
// example bailey ships with: the end-to-end scenarios and the original
// prototype's Fibonacci driver. None of this is parsed from text — bailey
// has no surface syntax (see the Non-goals around source-level parsing) —
// so a scenario is just a Go function returning an already-built tree,
// shared by the root driver, the cmd/bailey CLI, the REPL, and the tests.
package scenario

import "bailey/internal/ast"

// Names lists every scenario recognized by -scenario and the REPL, in a
// stable order for usage text.
var Names = []string{"literal", "arithmetic", "conditional", "tuple", "fib", "closure"}

// Build returns the expression for a named scenario. fib is the only
// scenario that consumes arg; every other scenario ignores it. It returns
// false if name is not a recognized scenario.
func Build(name string, arg int32) (ast.Expr, bool) {
	switch name {
	case "literal":
		return Literal42(), true
	case "arithmetic":
		return AddTwoThree(), true
	case "conditional":
		return ConditionalEq(), true
	case "tuple":
		return TupleGetSet(), true
	case "fib":
		return FibHelper(arg), true
	case "closure":
		return ClosureCapture(), true
	default:
		return nil, false
	}
}

// Literal42 is spec.md §8 scenario 1: a bare literal, expected result 42.
func Literal42() ast.Expr {
	return &ast.Literal{Value: ast.IntConstant(42)}
}

// AddTwoThree is scenario 2: Add(Literal 2, Literal 3), expected result 5.
func AddTwoThree() ast.Expr {
	return &ast.BinaryOp{
		Op:  ast.Add,
		Lhs: &ast.Literal{Value: ast.IntConstant(2)},
		Rhs: &ast.Literal{Value: ast.IntConstant(3)},
	}
}

// ConditionalEq is scenario 3: If(Eq(1, 1), 10, 20), expected result 10.
func ConditionalEq() ast.Expr {
	return &ast.If{
		Condition: &ast.BinaryOp{
			Op:  ast.Eq,
			Lhs: &ast.Literal{Value: ast.IntConstant(1)},
			Rhs: &ast.Literal{Value: ast.IntConstant(1)},
		},
		BranchSuccess: &ast.Literal{Value: ast.IntConstant(10)},
		BranchFailure: &ast.Literal{Value: ast.IntConstant(20)},
	}
}

// TupleGetSet is scenario 4:
//
//	let t = (1,2,3) in (Set(t,1, Add(Get(t,0), Get(t,2))); Get(t,1))
//
// expected result 4. The Set's own result is bound to a throwaway name
// purely so normalization has somewhere to put it; the block's tail is the
// final Get.
func TupleGetSet() ast.Expr {
	t := &ast.Var{Name: "t"}
	return &ast.Let{
		Name: "t",
		Definition: &ast.Tuple{Values: []ast.Expr{
			&ast.Literal{Value: ast.IntConstant(1)},
			&ast.Literal{Value: ast.IntConstant(2)},
			&ast.Literal{Value: ast.IntConstant(3)},
		}},
		Body: &ast.Let{
			Name: "_",
			Definition: &ast.Set{
				Tuple: t,
				Index: 1,
				NewValue: &ast.BinaryOp{
					Op:  ast.Add,
					Lhs: &ast.BinaryOp{Op: ast.Get, Lhs: t, Rhs: &ast.Literal{Value: ast.IntConstant(0)}},
					Rhs: &ast.BinaryOp{Op: ast.Get, Lhs: t, Rhs: &ast.Literal{Value: ast.IntConstant(2)}},
				},
			},
			Body: &ast.BinaryOp{Op: ast.Get, Lhs: t, Rhs: &ast.Literal{Value: ast.IntConstant(1)}},
		},
	}
}

// fibHelperDef is the tail-recursive Fibonacci helper from the original
// prototype's fib.rs: fib_helper(n, a, b) = if n == 0 then b else
// fib_helper(n-1, a+b, a).
func fibHelperDef() ast.Expr {
	return &ast.Fun{
		Name: "fib_helper",
		Args: []string{"n", "a", "b"},
		Body: &ast.If{
			Condition: &ast.BinaryOp{
				Op:  ast.Eq,
				Lhs: &ast.Var{Name: "n"},
				Rhs: &ast.Literal{Value: ast.IntConstant(0)},
			},
			BranchSuccess: &ast.Var{Name: "b"},
			BranchFailure: &ast.Call{
				Func: &ast.Var{Name: "fib_helper"},
				Args: []ast.Expr{
					&ast.BinaryOp{Op: ast.Sub, Lhs: &ast.Var{Name: "n"}, Rhs: &ast.Literal{Value: ast.IntConstant(1)}},
					&ast.BinaryOp{Op: ast.Add, Lhs: &ast.Var{Name: "a"}, Rhs: &ast.Var{Name: "b"}},
					&ast.Var{Name: "a"},
				},
			},
		},
	}
}

func fibDef() ast.Expr {
	return &ast.Fun{
		Name: "fib",
		Args: []string{"n"},
		Body: &ast.Call{
			Func: &ast.Var{Name: "fib_helper"},
			Args: []ast.Expr{
				&ast.Var{Name: "n"},
				&ast.Literal{Value: ast.IntConstant(1)},
				&ast.Literal{Value: ast.IntConstant(0)},
			},
		},
	}
}

// FibHelper is scenario 5: fib(n) computed by the tail-recursive helper
// above, with accumulators seeded a=1, b=0. FibHelper(10) evaluates to 55.
func FibHelper(n int32) ast.Expr {
	return &ast.Let{
		Name:       "fib_helper",
		Definition: fibHelperDef(),
		Body: &ast.Let{
			Name:       "fib",
			Definition: fibDef(),
			Body: &ast.Call{
				Func: &ast.Var{Name: "fib"},
				Args: []ast.Expr{&ast.Literal{Value: ast.IntConstant(n)}},
			},
		},
	}
}

// ClosureCapture is scenario 6:
//
//	let x = 7 in let f = fun(y) -> x + y in f(35)
//
// expected result 42, with free_names(f) = {x}.
func ClosureCapture() ast.Expr {
	return &ast.Let{
		Name:       "x",
		Definition: &ast.Literal{Value: ast.IntConstant(7)},
		Body: &ast.Let{
			Name: "f",
			Definition: &ast.Fun{
				Name: "f",
				Args: []string{"y"},
				Body: &ast.BinaryOp{Op: ast.Add, Lhs: &ast.Var{Name: "x"}, Rhs: &ast.Var{Name: "y"}},
			},
			Body: &ast.Call{
				Func: &ast.Var{Name: "f"},
				Args: []ast.Expr{&ast.Literal{Value: ast.IntConstant(35)}},
			},
		},
	}
}
