// Package stack implements the interpreter's runtime call stack: a stack of
// call frames, each holding a stack of block frames, each holding the heap
// addresses bound to the names visible in that block. It is deliberately not
// safe for concurrent use, matching internal/heap.
package stack

import (
	"bailey/internal/errors"
	"bailey/internal/heap"
	"bailey/internal/ir"
)

// ReturnInfo records where control should resume, and which variable in the
// resuming block should receive the result, once the current block or
// function finishes. It is threaded through EnterBlock/EnterFunction and
// handed back by ExitBlock so the interpreter's dispatch loop knows where to
// go next. The zero value (empty ResultVariable) marks the outermost block
// of the whole program, which has nowhere to return to — New's initial call
// frame carries exactly this zero ReturnInfo.
type ReturnInfo struct {
	ResultVariable string
	ReturnAddress  ir.TargetAddress
}

// BlockFrame holds the variables bound within a single block: a flat list of
// heap addresses in binding order, plus a name-to-offset index. Addresses are
// appended, never removed, so offsets stay stable for the life of the frame.
type BlockFrame struct {
	values          []heap.Address
	variableOffsets map[string]int
	ReturnInfo      ReturnInfo
}

func newBlockFrame(returnInfo ReturnInfo) *BlockFrame {
	return &BlockFrame{
		variableOffsets: make(map[string]int),
		ReturnInfo:      returnInfo,
	}
}

// lookupVar returns the address bound to name in this block, or false if
// this block does not bind it — the caller walks outward to enclosing
// blocks.
func (b *BlockFrame) lookupVar(name string) (heap.Address, bool) {
	offset, ok := b.variableOffsets[name]
	if !ok {
		return 0, false
	}
	return b.values[offset], true
}

func (b *BlockFrame) setVar(name string, value heap.Address) {
	offset := len(b.values)
	b.values = append(b.values, value)
	b.variableOffsets[name] = offset
}

// Values returns every address this block frame bound, in binding order —
// used on block exit to drop everything the block owns, once the result has
// been re-rooted in the parent frame.
func (b *BlockFrame) Values() []heap.Address {
	return b.values
}

// LookupVar resolves name against this block frame alone (not its
// enclosing blocks) — used on block exit, after the frame has already been
// popped off the Stack, to find the address an ExitBlock instruction names
// as its result.
func (b *BlockFrame) LookupVar(name string) heap.Address {
	address, ok := b.lookupVar(name)
	if !ok {
		errors.NewFault(errors.FaultUnboundVariable, "variable %q is not bound in the exiting block frame", name)
	}
	return address
}

// callStackFrame is one function activation: a stack of nested block frames,
// innermost last. A function body is itself a block, so a fresh activation
// always has exactly one block frame until nested If branches push more.
type callStackFrame struct {
	blocks []*BlockFrame
}

func newCallStackFrame(returnInfo ReturnInfo) *callStackFrame {
	return &callStackFrame{blocks: []*BlockFrame{newBlockFrame(returnInfo)}}
}

func (f *callStackFrame) enterBlock(returnInfo ReturnInfo) {
	f.blocks = append(f.blocks, newBlockFrame(returnInfo))
}

func (f *callStackFrame) exitBlock() *BlockFrame {
	if len(f.blocks) == 0 {
		errors.NewFault(errors.FaultUnboundVariable, "exiting block while no more block frames")
	}
	last := f.blocks[len(f.blocks)-1]
	f.blocks = f.blocks[:len(f.blocks)-1]
	return last
}

func (f *callStackFrame) currentBlock() *BlockFrame {
	if len(f.blocks) == 0 {
		errors.NewFault(errors.FaultUnboundVariable, "expected an active block frame")
	}
	return f.blocks[len(f.blocks)-1]
}

// lookupVar walks the nested block frames from innermost to outermost,
// returning the address bound to the lexically closest binding of name.
func (f *callStackFrame) lookupVar(name string) (heap.Address, bool) {
	for i := len(f.blocks) - 1; i >= 0; i-- {
		if address, ok := f.blocks[i].lookupVar(name); ok {
			return address, true
		}
	}
	return 0, false
}

// Stack is the interpreter's call stack. A freshly constructed Stack starts
// with one call frame and one block frame so that top-level code runs the
// same way a function body does.
type Stack struct {
	frames []*callStackFrame
}

func New() *Stack {
	return &Stack{frames: []*callStackFrame{newCallStackFrame(ReturnInfo{})}}
}

// EnterFunction pushes a fresh call frame for a Call step's target function.
func (s *Stack) EnterFunction(returnInfo ReturnInfo) {
	s.frames = append(s.frames, newCallStackFrame(returnInfo))
}

// EnterBlock pushes a fresh block frame within the current call frame, for
// an If step's chosen branch.
func (s *Stack) EnterBlock(returnInfo ReturnInfo) {
	s.currentFrame().enterBlock(returnInfo)
}

// ExitBlock pops the innermost block frame. If that leaves the current call
// frame with no block frames left, the call frame itself is popped — the
// function's outermost block has finished, so the whole activation is gone.
func (s *Stack) ExitBlock() *BlockFrame {
	frame := s.currentFrame()
	block := frame.exitBlock()
	if len(frame.blocks) == 0 {
		s.frames = s.frames[:len(s.frames)-1]
	}
	return block
}

// SetVar binds name to value in the innermost block frame of the current
// call frame. It does not touch the heap's refcount — callers that want a
// rooted binding increment separately (see interp.Interpreter.setVar).
func (s *Stack) SetVar(name string, value heap.Address) {
	s.currentFrame().currentBlock().setVar(name, value)
}

// LookupVar resolves name against the current call frame's block frames,
// innermost first. A miss is a fault: the normalizer guarantees every Var
// node resolves to a binding that is live by the time it executes.
func (s *Stack) LookupVar(name string) heap.Address {
	address, ok := s.currentFrame().lookupVar(name)
	if !ok {
		errors.NewFault(errors.FaultUnboundVariable, "variable %q is not bound in the current stack frame", name)
	}
	return address
}

func (s *Stack) currentFrame() *callStackFrame {
	if len(s.frames) == 0 {
		errors.NewFault(errors.FaultUnboundVariable, "stack should not be empty")
	}
	return s.frames[len(s.frames)-1]
}

// Depth reports the number of live call frames, for tests asserting that a
// run unwinds every call frame, the initial one included.
func (s *Stack) Depth() int {
	return len(s.frames)
}
