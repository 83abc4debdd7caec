package main

import "fmt"

const (
	exitFatal      = 1
	exitStepFailed = 2
)

// ExitError carries the exit status of modmk out of the command's RunE.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }
