// Package errors defines bailey's two kinds of failure (see spec.md §7):
// build errors, returned as a structured result from normalization, and
// runtime faults, which are fatal and abort the interpreter. Error-code
// ranges and the colorized reporter are adapted from the teacher's own
// internal/errors package.
package errors

// Build error codes (E01xx): problems the normalizer finds while turning a
// source expression into a flat program.
const (
	ErrorUndefinedVariable  = "E0101"
	ErrorDuplicateSelfName  = "E0102"
	ErrorDuplicateParameter = "E0103"
)

// Runtime fault codes (E02xx): fatal assertions the interpreter raises.
// These never recover; RuntimeFault.Report only formats them for a
// top-level diagnostic before the process exits.
const (
	FaultTypeMismatch      = "E0201"
	FaultIndexOutOfRange   = "E0202"
	FaultArgumentCount     = "E0203"
	FaultUnboundVariable   = "E0204"
	FaultInvalidAddress    = "E0205"
	FaultRefcountUnderflow = "E0206"
)

// Description returns a human-readable description of a build or fault
// code, falling back to a generic message for unknown codes.
func Description(code string) string {
	switch code {
	case ErrorUndefinedVariable:
		return "variable is used but not bound by any enclosing scope"
	case ErrorDuplicateSelfName:
		return "a function's self-name collides with one of its own parameters"
	case ErrorDuplicateParameter:
		return "a function declares the same parameter name more than once"
	case FaultTypeMismatch:
		return "primitive operation applied to a value of the wrong kind"
	case FaultIndexOutOfRange:
		return "tuple field index is out of range"
	case FaultArgumentCount:
		return "call supplied the wrong number of arguments"
	case FaultUnboundVariable:
		return "variable lookup failed against the live stack frames"
	case FaultInvalidAddress:
		return "heap address does not name a live cell"
	case FaultRefcountUnderflow:
		return "attempted to decrement a cell whose refcount was already zero"
	case "E0200":
		return "unlabeled internal fault"
	default:
		return "unknown error code"
	}
}
