package errors

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// RuntimeFault is a fatal runtime error: a type mismatch in a primitive, an
// out-of-range tuple index, an argument-count mismatch, a variable lookup
// miss, an invalid heap address, or a refcount underflow (spec.md §7).
// These are programming errors in the source program or the implementation
// itself; bailey treats them as assertions and never recovers from them —
// internal/heap, internal/stack and internal/interp raise one by panicking
// with *RuntimeFault, and the top-level driver recovers exactly once to
// print a diagnostic before exiting non-zero.
type RuntimeFault struct {
	Code    string
	Message string
}

func (f *RuntimeFault) Error() string {
	return fmt.Sprintf("[%s] %s", f.Code, f.Message)
}

// NewFault constructs a RuntimeFault with a formatted message and panics
// with it. Callers that want to format rather than raise should use
// NewFaultValue instead.
func NewFault(code, format string, args ...interface{}) {
	panic(NewFaultValue(code, format, args...))
}

// NewFaultValue constructs a RuntimeFault without raising it.
func NewFaultValue(code, format string, args ...interface{}) *RuntimeFault {
	return &RuntimeFault{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Report writes a colorized diagnostic for a recovered RuntimeFault,
// following the teacher's ErrorReporter style of bold level + dim code.
func (f *RuntimeFault) Report(w io.Writer) {
	bold := color.New(color.FgRed, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	fmt.Fprintf(w, "%s %s %s\n", bold("runtime fault"), dim("["+f.Code+"]"), f.Message)
	fmt.Fprintf(w, "  %s\n", Description(f.Code))
}

// Recover turns a recovered panic value into a *RuntimeFault, wrapping any
// other panic value (an implementation bug, not a spec'd fault) as an
// unlabeled fault so the caller has one uniform shape to report.
func Recover(r interface{}) *RuntimeFault {
	if f, ok := r.(*RuntimeFault); ok {
		return f
	}
	return &RuntimeFault{Code: "E0200", Message: fmt.Sprintf("%v", r)}
}
