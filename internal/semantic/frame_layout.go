// Package semantic computes frame layout: it resolves every name a
// normalized function can read — local let-bindings, arguments, the
// function's own name, and closure captures — to a stable slot a
// register-based interpreter could index directly instead of looking names
// up by string. The current interpreter (internal/interp) does not consume
// this layout; it resolves names against internal/stack by string lookup.
// Frame layout is carried purely as an informative, independently testable
// component, the way the original prototype's register backend was never
// finished past this stage either.
package semantic

import (
	"bailey/internal/errors"
	"bailey/internal/ir"
)

// Reference is a resolved variable slot.
type Reference interface {
	isReference()
}

// LocalReference names a slot bound by a let-assignment within the current
// function, counting from the base of the function's frame.
type LocalReference struct{ Offset int }

// ArgumentReference names one of the function's declared parameters.
type ArgumentReference struct{ Offset int }

// ClosureReference names one of the function's captured free variables.
type ClosureReference struct{ Offset int }

// This resolves to the function's own name, for recursive self-calls.
type This struct{}

func (LocalReference) isReference()    {}
func (ArgumentReference) isReference() {}
func (ClosureReference) isReference()  {}
func (This) isReference()              {}

// ProgramFrameLayout is the resolved layout for every function in a Program.
type ProgramFrameLayout struct {
	functions []*functionFrameLayout
}

type functionFrameLayout struct {
	thisName         string
	offsetsArguments map[string]ArgumentReference
	offsetsFreeVars  map[string]ClosureReference
	blocks           []*blockFrameLayout
}

// localSlot is one block-local binding, in declaration order. A slice
// instead of a map so that a block rebinding the same source name (legal —
// the normalizer does not alpha-rename Let binders) keeps every slot instead
// of silently losing the earlier one under a repeated map key.
type localSlot struct {
	name string
	ref  LocalReference
}

type blockFrameLayout struct {
	startOffset      int
	locals           []localSlot
	parentBlockIndex *int
}

func (b *blockFrameLayout) endOffset() int {
	return b.startOffset + len(b.locals)
}

// lookup searches locals from most to least recently declared, so a
// shadowing rebinding resolves to its own slot rather than an earlier one
// sharing its name.
func (b *blockFrameLayout) lookup(name string) (LocalReference, bool) {
	for i := len(b.locals) - 1; i >= 0; i-- {
		if b.locals[i].name == name {
			return b.locals[i].ref, true
		}
	}
	return LocalReference{}, false
}

// FrameSize reports how many local slots a block needs.
func (l *ProgramFrameLayout) FrameSize(functionIndex, blockIndex int) int {
	fn := l.function(functionIndex)
	block := l.block(fn, blockIndex)
	return len(block.locals)
}

// LookupVar resolves name as seen from blockIndex within functionIndex:
// first searching local bindings from innermost to outermost enclosing
// block, then the function's arguments, its own name, and finally its
// closure environment.
func (l *ProgramFrameLayout) LookupVar(functionIndex, blockIndex int, name string) Reference {
	fn := l.function(functionIndex)

	currentBlockIndex := &blockIndex
	for currentBlockIndex != nil {
		block := l.block(fn, *currentBlockIndex)
		if offset, ok := block.lookup(name); ok {
			return offset
		}
		currentBlockIndex = block.parentBlockIndex
	}

	if offset, ok := fn.offsetsArguments[name]; ok {
		return offset
	}
	if fn.thisName == name {
		return This{}
	}
	if offset, ok := fn.offsetsFreeVars[name]; ok {
		return offset
	}

	errors.NewFault(errors.FaultUnboundVariable, "failed to resolve variable offset for %q", name)
	panic("unreachable")
}

func (l *ProgramFrameLayout) function(functionIndex int) *functionFrameLayout {
	if functionIndex < 0 || functionIndex >= len(l.functions) {
		errors.NewFault(errors.FaultUnboundVariable, "unknown function index %d", functionIndex)
	}
	return l.functions[functionIndex]
}

func (l *ProgramFrameLayout) block(fn *functionFrameLayout, blockIndex int) *blockFrameLayout {
	if blockIndex < 0 || blockIndex >= len(fn.blocks) {
		errors.NewFault(errors.FaultUnboundVariable, "unknown block index %d", blockIndex)
	}
	return fn.blocks[blockIndex]
}

// ComputeProgramFrameLayout computes the frame layout for every function in
// program.
func ComputeProgramFrameLayout(program *ir.Program) *ProgramFrameLayout {
	layouts := make([]*functionFrameLayout, len(program.Functions))
	for i, fn := range program.Functions {
		layouts[i] = computeFunctionFrameLayout(fn)
	}
	return &ProgramFrameLayout{functions: layouts}
}

func computeFunctionFrameLayout(fn *ir.Function) *functionFrameLayout {
	blockLayouts := make([]*blockFrameLayout, len(fn.Blocks))

	for i, b := range fn.Blocks {
		startOffset := 0
		if b.ParentBlock != nil {
			startOffset = blockLayouts[*b.ParentBlock].endOffset()
		}

		names := b.LocalNames()
		locals := make([]localSlot, len(names))
		for j, name := range names {
			locals[j] = localSlot{name: name, ref: LocalReference{Offset: startOffset + j}}
		}

		blockLayouts[i] = &blockFrameLayout{
			startOffset:      startOffset,
			locals:           locals,
			parentBlockIndex: b.ParentBlock,
		}
	}

	offsetsArguments := make(map[string]ArgumentReference, len(fn.Params))
	for i, name := range fn.Params {
		offsetsArguments[name] = ArgumentReference{Offset: i}
	}

	offsetsFreeVars := make(map[string]ClosureReference, len(fn.FreeNames))
	for i, name := range fn.FreeNames {
		offsetsFreeVars[name] = ClosureReference{Offset: i}
	}

	return &functionFrameLayout{
		thisName:         fn.Name,
		offsetsArguments: offsetsArguments,
		offsetsFreeVars:  offsetsFreeVars,
		blocks:           blockLayouts,
	}
}
