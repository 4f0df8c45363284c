// Package ir defines the flat intermediate program produced by
// let-normalization (see Normalizer in builder.go) and consumed by the
// interpreter (internal/interp) and, optionally, by frame layout
// (internal/semantic).
package ir

import (
	"bailey/internal/ast"
)

// TargetAddress names a point in a Program: a specific instruction of a
// specific block of a specific function. Block targets produced by the
// normalizer always point at instruction 0 (EnterBlock) of the named
// block; call targets name a function's entry block the same way.
type TargetAddress struct {
	Function    int
	Block       int
	Instruction int
}

// Next returns the address of the following instruction in the same block.
func (t TargetAddress) Next() TargetAddress {
	return TargetAddress{Function: t.Function, Block: t.Block, Instruction: t.Instruction + 1}
}

// Program is an ordered list of functions. Function 0 is always the
// distinguished "toplevel" function with no parameters.
type Program struct {
	Functions []*Function
}

// GetInstruction resolves a, panicking (a build/runtime invariant
// violation, never expected in practice) if any component is out of range.
func (p *Program) GetInstruction(a TargetAddress) Instruction {
	fn := p.Functions[a.Function]
	block := fn.Blocks[a.Block]
	return block.Instructions[a.Instruction]
}

// Function is a lifted, normalized function: a name, parameter list, the
// set of names captured from enclosing scopes, and its blocks. Blocks[0] is
// always the function's entry block.
type Function struct {
	Name      string
	Params    []string
	FreeNames []string
	Blocks    []*Block
}

// Entry is the function's entry target address.
func (f *Function) Entry(functionIndex int) TargetAddress {
	return TargetAddress{Function: functionIndex, Block: 0, Instruction: 0}
}

// Block is a lexical scope within a function. ParentBlock, when present,
// identifies the enclosing block within the same function (the relation
// forms a tree rooted at the function's entry block); it is used by frame
// layout to nest block-local slot ranges. Free-variable analysis does not
// read it: it reaches nested blocks through If targets.
type Block struct {
	ParentBlock  *int
	Instructions []Instruction
}

// LocalNames returns the names bound directly within this block by
// Assignment instructions, in declaration order (used by frame layout).
func (b *Block) LocalNames() []string {
	names := make([]string, 0, len(b.Instructions))
	for _, inst := range b.Instructions {
		if a, ok := inst.(Assignment); ok {
			names = append(names, a.Name)
		}
	}
	return names
}

// Instruction is one of EnterBlock, ExitBlock or Assignment. EnterBlock is
// always the first instruction of a block and ExitBlock always the last.
type Instruction interface {
	isInstruction()
}

// EnterBlock marks the start of a block.
type EnterBlock struct{}

// ExitBlock marks the end of a block; Result names the block-local variable
// holding the block's result value.
type ExitBlock struct {
	Result VariableReference
}

// Assignment binds Name to the result of evaluating Definition.
type Assignment struct {
	Name       string
	Definition Definition
}

func (EnterBlock) isInstruction() {}
func (ExitBlock) isInstruction()  {}
func (Assignment) isInstruction() {}

// VariableReference names a previously bound variable. Every reference in a
// normalized Program resolves to some enclosing assignment, block-exit
// result, function argument, function self-name, or closure capture.
type VariableReference struct {
	Name string
}

// Definition is the right-hand side of an Assignment: either a bare
// variable reference (an alias) or a non-atomic Step.
type Definition interface {
	isDefinition()
}

// VarDefinition aliases another variable without computing anything new.
type VarDefinition struct {
	Ref VariableReference
}

// StepDefinition wraps a Step (Simple or Control).
type StepDefinition struct {
	Step Step
}

func (VarDefinition) isDefinition()  {}
func (StepDefinition) isDefinition() {}

// Step is a non-atomic right-hand side: a value-producing Simple step or a
// control-transferring Control step.
type Step interface {
	isStep()
}

// Simple steps always produce a value without affecting the program
// counter beyond advancing to the next instruction.
type Simple interface {
	Step
	isSimple()
}

// LiteralStep allocates a fresh Int or Bool cell.
type LiteralStep struct {
	Value ast.Constant
}

// ClosureStep allocates a closure value referencing a lifted function and
// its captured names.
type ClosureStep struct {
	FunctionIndex int
	FreeNames     []string
}

// BinOpStep applies a primitive binary operator to two resolved operands.
type BinOpStep struct {
	Op  ast.BinOp
	Lhs VariableReference
	Rhs VariableReference
}

// TupleStep constructs a tuple from a list of resolved field references.
type TupleStep struct {
	Args []VariableReference
}

// SetStep mutates field Index of Tuple in place to NewValue.
type SetStep struct {
	Tuple    VariableReference
	Index    uint32
	NewValue VariableReference
}

func (LiteralStep) isStep()  {}
func (ClosureStep) isStep()  {}
func (BinOpStep) isStep()    {}
func (TupleStep) isStep()    {}
func (SetStep) isStep()      {}
func (LiteralStep) isSimple() {}
func (ClosureStep) isSimple() {}
func (BinOpStep) isSimple()   {}
func (TupleStep) isSimple()   {}
func (SetStep) isSimple()     {}

// Control steps may transfer execution: Call enters a new call frame,
// If transfers to one of two block targets without entering a call frame.
type Control interface {
	Step
	isControl()
}

// CallStep invokes a closure-valued variable with a list of argument
// variables.
type CallStep struct {
	Func VariableReference
	Args []VariableReference
}

// IfStep branches on a boolean-valued variable to one of two block entry
// targets.
type IfStep struct {
	Condition     VariableReference
	BranchSuccess TargetAddress
	BranchFailure TargetAddress
}

func (CallStep) isStep() {}
func (IfStep) isStep()   {}
func (CallStep) isControl() {}
func (IfStep) isControl()   {}
