// Package main is the entry point for the tsgen CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/cmd"
	terrors "github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/errors"
)

func main() {
	rootCmd := cmd.NewRootCmd()

	if err := rootCmd.Execute(); err != nil {
		var exitErr *terrors.ExitError
		if errors.As(err, &exitErr) {
			// Only print if the command layer hasn't already printed it
			if !exitErr.Printed {
				fmt.Fprintln(os.Stderr, err)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(terrors.ExitCodeFromError(err))
	}
}
