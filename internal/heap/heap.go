// Package heap implements the reference-counted heap that backs the
// interpreter's runtime values. It is deliberately not safe for concurrent
// use: one Heap belongs to exactly one interpreter (see internal/interp),
// matching the single-threaded, synchronous execution model of the system.
package heap

import (
	"fmt"

	"bailey/internal/errors"
	"bailey/internal/ir"
)

// Address identifies a heap cell. Addresses are assigned by a monotonically
// increasing counter and, per the ownership model, are never reused within
// a run even after the cell they named has been freed.
type Address uint64

func (a Address) String() string { return fmt.Sprintf("#%d", a) }

// Kind tags the runtime representation of a Value.
type Kind int

const (
	KindInt Kind = iota
	KindBool
	KindTuple
	KindClosure
)

// Value is a tagged heap cell. Exactly one of the fields is meaningful,
// selected by Kind.
type Value struct {
	Kind   Kind
	Int    int32
	Bool   bool
	Fields []Address // Tuple: field values, in declaration order
	Clo    *Closure  // Closure
}

// Closure is a first-class function value: its own name (bound inside the
// body to support recursive self-calls), its parameter names, its captured
// environment, and the address of its entry point in the flat program.
type Closure struct {
	Name        string
	Params      []string
	Environment map[string]Address
	Body        ir.TargetAddress
}

func IntValue(v int32) Value { return Value{Kind: KindInt, Int: v} }
func BoolValue(v bool) Value { return Value{Kind: KindBool, Bool: v} }

// CheckInt returns the value's integer payload, or a fatal fault if it is
// not an Int.
func (v Value) CheckInt() int32 {
	if v.Kind != KindInt {
		errors.NewFault(errors.FaultTypeMismatch, "expected int value, got %v", v.Kind)
	}
	return v.Int
}

// CheckBool returns the value's boolean payload, or a fatal fault if it is
// not a Bool.
func (v Value) CheckBool() bool {
	if v.Kind != KindBool {
		errors.NewFault(errors.FaultTypeMismatch, "expected bool value, got %v", v.Kind)
	}
	return v.Bool
}

// CheckTuple returns the value's field addresses, or a fatal fault if it is
// not a Tuple.
func (v Value) CheckTuple() []Address {
	if v.Kind != KindTuple {
		errors.NewFault(errors.FaultTypeMismatch, "expected tuple value, got %v", v.Kind)
	}
	return v.Fields
}

// CheckClosure returns the value's closure payload, or a fatal fault if it
// is not a Closure.
func (v Value) CheckClosure() *Closure {
	if v.Kind != KindClosure {
		errors.NewFault(errors.FaultTypeMismatch, "expected closure value, got %v", v.Kind)
	}
	return v.Clo
}

type cell struct {
	refcount uint32
	value    Value
}

// Heap maps addresses to refcounted values.
type Heap struct {
	memory      map[Address]*cell
	nextAddress Address
}

func New() *Heap {
	return &Heap{memory: make(map[Address]*cell)}
}

// Alloc inserts value with a refcount of 0 — the cell is "in transit" until
// the caller roots it via a slot setter (Interpreter.setVar), which
// increments. An allocated address that is discarded without being stored
// stays on the heap: Dec cannot release it, since Dec on a refcount of 0
// faults with FaultRefcountUnderflow.
func (h *Heap) Alloc(value Value) Address {
	address := h.nextAddress
	h.nextAddress++
	h.memory[address] = &cell{refcount: 0, value: value}
	return address
}

func (h *Heap) lookup(address Address) *cell {
	c, ok := h.memory[address]
	if !ok {
		errors.NewFault(errors.FaultInvalidAddress, "invalid heap address %s", address)
	}
	return c
}

// Deref returns the value stored at address.
func (h *Heap) Deref(address Address) Value {
	return h.lookup(address).value
}

// DerefMut returns a pointer to the value stored at address for in-place
// mutation (used only by Set on tuples).
func (h *Heap) DerefMut(address Address) *Value {
	return &h.lookup(address).value
}

// Inc increments address's refcount.
func (h *Heap) Inc(address Address) {
	h.lookup(address).refcount++
}

// Dec decrements address's refcount, freeing the cell (and recursively
// decrementing everything it owns) if the count reaches zero.
func (h *Heap) Dec(address Address) {
	c := h.lookup(address)
	if c.refcount == 0 {
		errors.NewFault(errors.FaultRefcountUnderflow, "refcount underflow at %s", address)
	}
	c.refcount--
	if c.refcount == 0 {
		h.free(address)
	}
}

func (h *Heap) free(address Address) {
	c := h.memory[address]
	value := c.value
	delete(h.memory, address)

	switch value.Kind {
	case KindInt, KindBool:
		// leaves: nothing owned
	case KindTuple:
		for _, field := range value.Fields {
			h.Dec(field)
		}
	case KindClosure:
		for _, captured := range value.Clo.Environment {
			h.Dec(captured)
		}
	}
}

// Refcount reports the current refcount of address, for tests.
func (h *Heap) Refcount(address Address) uint32 {
	return h.lookup(address).refcount
}

// Len reports the number of live cells, for tests asserting that a run
// leaves no garbage behind.
func (h *Heap) Len() int {
	return len(h.memory)
}

