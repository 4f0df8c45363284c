package ir

import (
	"strconv"

	"bailey/internal/ast"
	"bailey/internal/errors"
)

// Normalizer turns a source expression tree into a flat Program: every
// nested subexpression becomes a named step in a basic block, every nested
// Fun is lifted into its own entry in the program's function table, and
// variable scoping is checked as it goes. It mirrors the teacher's
// semantic.Analyzer in accumulating every error it finds rather than
// stopping at the first one.
type Normalizer struct {
	program         *Program
	currentFunction int
	currentBlock    int
	varCounter      int
	scope           []map[string]bool
	errs            []*errors.BuildError
}

// NewNormalizer creates a Normalizer ready to normalize a top-level
// expression as the body of an implicit entry function with no parameters.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		program: &Program{Functions: []*Function{{Name: "toplevel", Blocks: nil}}},
		scope:   []map[string]bool{make(map[string]bool)},
	}
}

// Normalize normalizes e as the program's entry point, returning the flat
// Program together with every build error found along the way. A non-empty
// error slice means the Program is not safe to run.
func Normalize(e ast.Expr) (*Program, []*errors.BuildError) {
	n := NewNormalizer()
	n.normalizeBlockNoParent(0, e)
	return n.program, n.errs
}

func (n *Normalizer) addError(code, format string, args ...interface{}) {
	n.errs = append(n.errs, errors.NewBuildError(code, format, args...))
}

// pushScope opens a new lexical scope that inherits the bindings visible at
// the point it is opened.
func (n *Normalizer) pushScope() {
	parent := n.scope[len(n.scope)-1]
	child := make(map[string]bool, len(parent))
	for name := range parent {
		child[name] = true
	}
	n.scope = append(n.scope, child)
}

func (n *Normalizer) popScope() {
	n.scope = n.scope[:len(n.scope)-1]
}

func (n *Normalizer) bind(name string) {
	n.scope[len(n.scope)-1][name] = true
}

func (n *Normalizer) isBound(name string) bool {
	return n.scope[len(n.scope)-1][name]
}

func (n *Normalizer) fresh() string {
	name := "__gen" + strconv.Itoa(n.varCounter)
	n.varCounter++
	return name
}

func (n *Normalizer) emit(functionIndex, blockIndex int, inst Instruction) {
	block := n.program.Functions[functionIndex].Blocks[blockIndex]
	block.Instructions = append(block.Instructions, inst)
}

// normalizeAtom normalizes e and guarantees the result is a bare variable
// reference: composite right-hand sides are bound to a fresh name first.
// This is what keeps every operand of every Step a VariableReference, which
// in turn is what lets the heap's refcount-0-after-alloc rule work: nothing
// ever reads an allocated value before it has been rooted by an Assignment.
func (n *Normalizer) normalizeAtom(functionIndex, blockIndex int, e ast.Expr) VariableReference {
	def := n.normalizeRHS(functionIndex, blockIndex, e)

	if v, ok := def.(VarDefinition); ok {
		return v.Ref
	}

	name := n.fresh()
	n.emit(functionIndex, blockIndex, Assignment{Name: name, Definition: def})
	n.bind(name)
	return VariableReference{Name: name}
}

// normalizeRHS normalizes e into a Definition without forcing it to be
// bound to a name — used for the tail position of a block and of a Let
// body, where there is no need to introduce an extra assignment.
func (n *Normalizer) normalizeRHS(functionIndex, blockIndex int, e ast.Expr) Definition {
	switch expr := e.(type) {
	case *ast.Literal:
		return StepDefinition{Step: LiteralStep{Value: expr.Value}}

	case *ast.Var:
		if !n.isBound(expr.Name) {
			n.addError(errors.ErrorUndefinedVariable, "undefined variable %q", expr.Name)
		}
		return VarDefinition{Ref: VariableReference{Name: expr.Name}}

	case *ast.Fun:
		return n.normalizeFun(expr)

	case *ast.Call:
		fn := n.normalizeAtom(functionIndex, blockIndex, expr.Func)
		args := make([]VariableReference, len(expr.Args))
		for i, a := range expr.Args {
			args[i] = n.normalizeAtom(functionIndex, blockIndex, a)
		}
		return StepDefinition{Step: CallStep{Func: fn, Args: args}}

	case *ast.BinaryOp:
		lhs := n.normalizeAtom(functionIndex, blockIndex, expr.Lhs)
		rhs := n.normalizeAtom(functionIndex, blockIndex, expr.Rhs)
		return StepDefinition{Step: BinOpStep{Op: expr.Op, Lhs: lhs, Rhs: rhs}}

	case *ast.Let:
		def := n.normalizeRHS(functionIndex, blockIndex, expr.Definition)
		n.emit(functionIndex, blockIndex, Assignment{Name: expr.Name, Definition: def})
		n.bind(expr.Name)
		return n.normalizeRHS(functionIndex, blockIndex, expr.Body)

	case *ast.If:
		cond := n.normalizeAtom(functionIndex, blockIndex, expr.Condition)
		success := n.normalizeBlock(functionIndex, expr.BranchSuccess)
		failure := n.normalizeBlock(functionIndex, expr.BranchFailure)
		return StepDefinition{Step: IfStep{Condition: cond, BranchSuccess: success, BranchFailure: failure}}

	case *ast.Tuple:
		args := make([]VariableReference, len(expr.Values))
		for i, v := range expr.Values {
			args[i] = n.normalizeAtom(functionIndex, blockIndex, v)
		}
		return StepDefinition{Step: TupleStep{Args: args}}

	case *ast.Set:
		tuple := n.normalizeAtom(functionIndex, blockIndex, expr.Tuple)
		newValue := n.normalizeAtom(functionIndex, blockIndex, expr.NewValue)
		return StepDefinition{Step: SetStep{Tuple: tuple, Index: expr.Index, NewValue: newValue}}

	default:
		n.addError(errors.ErrorUndefinedVariable, "unrecognized expression node %T", e)
		return StepDefinition{Step: LiteralStep{Value: ast.IntConstant(0)}}
	}
}

// normalizeBlock allocates a fresh block within functionIndex for one branch
// of an If, normalizes e as its tail expression, and returns the block's
// entry address. It always runs while functionIndex is still the enclosing
// block's function, so the new block's parent is simply whatever block was
// active when normalizeBlock was called. The tail is always bound to a fresh
// name inside the new block, even when it is a bare variable, because the
// interpreter resolves an ExitBlock result in the exiting block frame alone.
func (n *Normalizer) normalizeBlock(functionIndex int, e ast.Expr) TargetAddress {
	function := n.program.Functions[functionIndex]
	blockIndex := len(function.Blocks)
	parent := n.currentBlock
	function.Blocks = append(function.Blocks, &Block{ParentBlock: &parent})

	oldFunction, oldBlock := n.currentFunction, n.currentBlock
	n.currentFunction, n.currentBlock = functionIndex, blockIndex

	n.pushScope()
	n.emit(functionIndex, blockIndex, EnterBlock{})
	def := n.normalizeRHS(functionIndex, blockIndex, e)
	result := VariableReference{Name: n.fresh()}
	n.emit(functionIndex, blockIndex, Assignment{Name: result.Name, Definition: def})
	n.bind(result.Name)
	n.emit(functionIndex, blockIndex, ExitBlock{Result: result})
	n.popScope()

	n.currentFunction, n.currentBlock = oldFunction, oldBlock

	return TargetAddress{Function: functionIndex, Block: blockIndex, Instruction: 0}
}

// normalizeFun lifts a nested function literal into its own entry in the
// program's function table, normalizes its body in that new context, and
// computes its free variables once the body is fully built — mirroring the
// order of operations in the let-normalizing compiler this is adapted from.
func (n *Normalizer) normalizeFun(fn *ast.Fun) Definition {
	seen := make(map[string]bool, len(fn.Args))
	for _, arg := range fn.Args {
		if seen[arg] {
			n.addError(errors.ErrorDuplicateParameter, "function %q declares parameter %q more than once", fn.Name, arg)
		}
		seen[arg] = true
		if arg == fn.Name {
			n.addError(errors.ErrorDuplicateSelfName, "function %q's parameter %q collides with its own name", fn.Name, arg)
		}
	}

	functionIndex := len(n.program.Functions)
	n.program.Functions = append(n.program.Functions, &Function{Name: fn.Name, Params: fn.Args})

	n.pushScope()
	n.bind(fn.Name)
	for _, arg := range fn.Args {
		n.bind(arg)
	}

	entry := n.normalizeBlockNoParent(functionIndex, fn.Body)

	n.popScope()

	freeNames := ComputeFreeVars(n.program, fn.Name, fn.Args, entry)
	n.program.Functions[functionIndex].FreeNames = freeNames

	return StepDefinition{Step: ClosureStep{FunctionIndex: functionIndex, FreeNames: freeNames}}
}

// normalizeBlockNoParent is normalizeBlock specialized for a function's
// outermost block, which has no parent block to record.
func (n *Normalizer) normalizeBlockNoParent(functionIndex int, e ast.Expr) TargetAddress {
	function := n.program.Functions[functionIndex]
	blockIndex := len(function.Blocks)
	function.Blocks = append(function.Blocks, &Block{})

	oldFunction, oldBlock := n.currentFunction, n.currentBlock
	n.currentFunction, n.currentBlock = functionIndex, blockIndex

	n.emit(functionIndex, blockIndex, EnterBlock{})
	result := n.normalizeAtom(functionIndex, blockIndex, e)
	n.emit(functionIndex, blockIndex, ExitBlock{Result: result})

	n.currentFunction, n.currentBlock = oldFunction, oldBlock

	return TargetAddress{Function: functionIndex, Block: blockIndex, Instruction: 0}
}
