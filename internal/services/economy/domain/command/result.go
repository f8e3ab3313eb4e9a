// Package command provides the shared result plumbing for economy use cases.
//
// Expected business-rule violations are reported through a failed Result
// whose ErrorMessage is final-form and stable; callers key off substrings.
// Only infrastructure faults surface as Go errors.
package command

import "fmt"

// Result reports the outcome of one economy command.
type Result struct {
	Success      bool
	ErrorMessage string
}

// OK returns a successful result.
func OK() Result {
	return Result{Success: true}
}

// Fail returns a failed result carrying a final-form error message.
func Fail(message string) Result {
	return Result{ErrorMessage: message}
}

// Failf returns a failed result with a formatted error message.
func Failf(format string, args ...any) Result {
	return Result{ErrorMessage: fmt.Sprintf(format, args...)}
}
