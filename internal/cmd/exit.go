package cmd

import (
	terrors "github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/errors"
)

// Exit codes, aliased from internal/errors.
const (
	ExitSuccess         = terrors.ExitSuccess
	ExitGeneralError    = terrors.ExitGeneralError
	ExitValidationError = terrors.ExitValidationError
	ExitNotFound        = terrors.ExitNotFound
	ExitConflict        = terrors.ExitConflict
)

// ExitError is a type alias to internal/errors.ExitError.
type ExitError = terrors.ExitError
