// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package wire

import (
	"fmt"
	"strings"
)

// RenderBlock renders the environment targets as shell assignments in
// the syntax of the profile's shell family. The output carries no
// markers; the store adds those when the block is applied.
func RenderBlock(shell Shell, targets []Target) string {
	var b strings.Builder
	for _, t := range targets {
		switch shell {
		case ShellFish:
			fmt.Fprintf(&b, "set -gx %s %q\n", t.Name, t.Value)
		case ShellPowerShell:
			fmt.Fprintf(&b, "$env:%s = %q\n", t.Name, t.Value)
		default:
			fmt.Fprintf(&b, "export %s=%q\n", t.Name, t.Value)
		}
	}
	return b.String()
}

// SourceLine returns the profile line that loads a standalone env file,
// in the syntax of the profile's shell family.
func SourceLine(shell Shell, envFilePath string) string {
	switch shell {
	case ShellFish:
		return fmt.Sprintf("source %q\n", envFilePath)
	case ShellPowerShell:
		return fmt.Sprintf(". %q\n", envFilePath)
	default:
		return fmt.Sprintf("[ -f %q ] && . %q\n", envFilePath, envFilePath)
	}
}
