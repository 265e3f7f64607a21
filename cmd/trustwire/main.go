// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"log/slog"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		if errors.Is(err, ErrInvalidInput) {
			exitFunc(ExitConfigError)
			return
		}
		exitFunc(ExitFailure)
	}
}
