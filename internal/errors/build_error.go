package errors

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// BuildError is a structured result from normalization: an unresolved name,
// or another static problem the normalizer can detect without running the
// program. Normalization accumulates every BuildError it finds rather than
// stopping at the first one, the way the teacher's semantic.Analyzer
// accumulates every SemanticError in a single pass.
type BuildError struct {
	Code    string
	Message string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// NewBuildError constructs a BuildError with a formatted message.
func NewBuildError(code, format string, args ...interface{}) *BuildError {
	return &BuildError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Report writes a colorized diagnostic for a BuildError, in the same bold
// level + dim code style as RuntimeFault.Report. bailey has no source-level
// syntax, so unlike the teacher's parser diagnostics there is no line or
// column to point at — just the code and message.
func (e *BuildError) Report(w io.Writer) {
	bold := color.New(color.FgYellow, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	fmt.Fprintf(w, "%s %s %s\n", bold("build error"), dim("["+e.Code+"]"), e.Message)
	fmt.Fprintf(w, "  %s\n", Description(e.Code))
}
