package doctor

import "errors"

// Process exit codes reported by a failed run.
const (
	ExitNoProjectRoot      = 1
	ExitFailure            = 2
	ExitNoVersion          = 3
	ExitUnsupportedVersion = 4
	ExitRuleSetLoad        = 5
	ExitUnsupportedTarget  = 6
	ExitUpToDate           = 7
	ExitDowngrade          = 8
)

// CommandError is a run failure carrying the exit code and the message
// shown to the user.
type CommandError struct {
	Code    int
	Message string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "command failed"
}

func (e *CommandError) Unwrap() error { return e.Err }

func newCommandError(code int, message string, err error) *CommandError {
	return &CommandError{Code: code, Message: message, Err: err}
}

// ExitCode maps err to a process exit code: 0 for nil, the CommandError
// code when err wraps one, ExitFailure otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ce *CommandError
	if errors.As(err, &ce) && ce.Code != 0 {
		return ce.Code
	}
	return ExitFailure
}
