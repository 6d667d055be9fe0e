package errors

import "errors"

// Exit codes returned by the tsgen binary.
const (
	ExitSuccess = 0

	// ExitGeneralError covers task failures and anything unclassified.
	ExitGeneralError = 1

	// ExitValidationError covers invalid configuration and cyclic task graphs.
	ExitValidationError = 2

	ExitPermissionDenied = 4

	// ExitNotFound covers unknown tasks, missing markers and missing files.
	ExitNotFound = 5

	// ExitConflict means scaffolding would overwrite existing files.
	ExitConflict = 7
)

// exitClasses maps sentinels to exit codes, checked in order.
var exitClasses = []struct {
	sentinel error
	code     int
}{
	{ErrValidation, ExitValidationError},
	{ErrPermission, ExitPermissionDenied},
	{ErrNotFound, ExitNotFound},
	{ErrConflict, ExitConflict},
	{ErrTaskFailed, ExitGeneralError},
}

var exitNames = map[int]string{
	ExitSuccess:          "Success",
	ExitGeneralError:     "General Error",
	ExitValidationError:  "Validation Error",
	ExitPermissionDenied: "Permission Denied",
	ExitNotFound:         "Not Found",
	ExitConflict:         "Conflict",
}

// ExitError carries the exit code a command failed with.
type ExitError struct {
	Code int
	Err  error

	// Printed is set when the command layer already reported the error.
	Printed bool
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError returns an unprinted ExitError.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{Err: err, Code: code}
}

// ExitCodeFromError returns the code of the outermost ExitError in err's
// chain, or the code of the first sentinel err matches.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	for _, c := range exitClasses {
		if errors.Is(err, c.sentinel) {
			return c.code
		}
	}
	return ExitGeneralError
}

// ExitCodeName returns a display name for code, or "Unknown".
func ExitCodeName(code int) string {
	if name, ok := exitNames[code]; ok {
		return name
	}
	return "Unknown"
}
