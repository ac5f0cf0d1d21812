package evaluator

import "fmt"

// InternalError reports a bound program that breaks the evaluator's
// contract: an unresolved label, an unknown node, a missing function body or
// an unsupported conversion target. A well-formed program never raises one.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string { return "internal error: " + e.Message }

func internalErrorf(format string, a ...interface{}) *InternalError {
	return &InternalError{Message: fmt.Sprintf(format, a...)}
}

// RuntimeError aborts evaluation on a value the program could not handle,
// such as text that does not convert to a number.
type RuntimeError struct {
	Message  string
	Function string
}

func (e *RuntimeError) Error() string {
	if e.Function == "" {
		return "runtime error: " + e.Message
	}
	return fmt.Sprintf("runtime error in %s: %s", e.Function, e.Message)
}
