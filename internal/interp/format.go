package interp

import (
	"fmt"
	"strings"

	"bailey/internal/heap"
)

// FormatValue renders a value as text, resolving nested tuple fields
// recursively against this Interpreter's heap, so every field address must
// still be live. Run drops all of the outermost block's locals on exit,
// the result's own cell included; the fields of a tuple returned by Run are
// therefore freed unless something else still holds them, and formatting
// such a tuple faults with FaultInvalidAddress.
func (in *Interpreter) FormatValue(v heap.Value) string {
	switch v.Kind {
	case heap.KindInt:
		return fmt.Sprintf("%d", v.Int)
	case heap.KindBool:
		return fmt.Sprintf("%t", v.Bool)
	case heap.KindTuple:
		parts := make([]string, len(v.Fields))
		for i, address := range v.Fields {
			parts[i] = in.FormatValue(in.heap.Deref(address))
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case heap.KindClosure:
		return fmt.Sprintf("<closure %s>", v.Clo.Name)
	default:
		return fmt.Sprintf("<unknown value kind %d>", v.Kind)
	}
}
