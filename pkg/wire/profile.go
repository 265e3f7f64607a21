// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package wire

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Shell identifies the shell family the profile belongs to. The family
// determines the syntax of the generated environment block.
type Shell string

const (
	// ShellPosix covers bash, zsh and other sh-compatible shells.
	ShellPosix Shell = "posix"

	// ShellFish covers the fish shell.
	ShellFish Shell = "fish"

	// ShellPowerShell covers Windows PowerShell and pwsh.
	ShellPowerShell Shell = "powershell"
)

// PlatformProfile is the shell family plus the resolved profile file
// path, computed once at startup and passed explicitly into the
// propagator instead of being queried ad hoc.
type PlatformProfile struct {
	// Shell is the detected shell family.
	Shell Shell

	// ProfilePath is the startup file the managed block is written to.
	ProfilePath string
}

// DetectProfile resolves the platform profile from GOOS and the SHELL
// environment variable. An empty override accepts the detection result;
// a non-empty profilePath override replaces the resolved path.
func DetectProfile(profilePath string) (PlatformProfile, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return PlatformProfile{}, fmt.Errorf("%w: resolve home directory: %w", ErrProfileNotFound, err)
	}

	p := detectForPlatform(runtime.GOOS, os.Getenv("SHELL"), home)
	if profilePath != "" {
		p.ProfilePath = profilePath
	}
	return p, nil
}

// detectForPlatform is the pure detection core, split out for tests.
func detectForPlatform(goos, shellEnv, home string) PlatformProfile {
	if goos == "windows" {
		return PlatformProfile{
			Shell: ShellPowerShell,
			ProfilePath: filepath.Join(home, "Documents", "WindowsPowerShell",
				"Microsoft.PowerShell_profile.ps1"),
		}
	}

	shellName := filepath.Base(shellEnv)
	switch {
	case shellName == "fish":
		return PlatformProfile{
			Shell:       ShellFish,
			ProfilePath: filepath.Join(home, ".config", "fish", "config.fish"),
		}
	case strings.Contains(shellName, "zsh"):
		return PlatformProfile{
			Shell:       ShellPosix,
			ProfilePath: filepath.Join(home, ".zshrc"),
		}
	default:
		return PlatformProfile{
			Shell:       ShellPosix,
			ProfilePath: filepath.Join(home, ".bashrc"),
		}
	}
}
