// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package wire

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"github.com/jeremyhahn/go-trustwire/pkg/atomicfile"
)

const (
	// MarkerBegin delimits the start of the managed block in text
	// configuration files.
	MarkerBegin = "# >>> trustwire managed block >>>"

	// MarkerEnd delimits the end of the managed block.
	MarkerEnd = "# <<< trustwire managed block <<<"

	profileFilePerm = 0o644
)

// ProcessEnvStore is an EnvStore over the current process environment.
// Chained invocations in the same run observe targets set here.
type ProcessEnvStore struct{}

// Get returns the value of name in the process environment.
func (ProcessEnvStore) Get(name string) (string, bool) {
	return os.LookupEnv(name)
}

// Set assigns value to name in the process environment.
func (ProcessEnvStore) Set(name, value string) error {
	return os.Setenv(name, value)
}

// Remove unsets name in the process environment.
func (ProcessEnvStore) Remove(name string) error {
	return os.Unsetenv(name)
}

// FileStore applies marked blocks to a text configuration file (shell
// profile or standalone env file). Writes are atomic and serialized with
// a file lock; repeated applies replace the existing block instead of
// appending a second copy.
type FileStore struct {
	path string
	lock *flock.Flock
}

// NewFileStore creates a store for the given file. The file and its
// directory are created on first apply if absent.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: file path required", ErrInvalidConfig)
	}
	return &FileStore{
		path: path,
		lock: flock.New(path + ".lock"),
	}, nil
}

// Path returns the file this store writes to.
func (s *FileStore) Path() string {
	return s.path
}

// ApplyMarkedBlock writes content between the begin/end markers,
// replacing any existing marked block. Text outside the markers is
// preserved untouched.
func (s *FileStore) ApplyMarkedBlock(content string) error {
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", s.path, err)
	}
	defer func() { _ = s.lock.Unlock() }()

	existing, err := os.ReadFile(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read %s: %w", s.path, err)
	}

	updated := replaceMarkedBlock(string(existing), content)

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create profile dir: %w", err)
	}
	if err := atomicfile.WriteFile(s.path, []byte(updated), profileFilePerm); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

// EnsureLine appends line to the file unless an identical line is
// already present. Used for the profile's source line when the block
// lives in a standalone env file.
func (s *FileStore) EnsureLine(line string) error {
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", s.path, err)
	}
	defer func() { _ = s.lock.Unlock() }()

	existing, err := os.ReadFile(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read %s: %w", s.path, err)
	}

	want := strings.TrimRight(line, "\n")
	for _, l := range strings.Split(string(existing), "\n") {
		if strings.TrimSpace(l) == want {
			return nil
		}
	}

	updated := string(existing)
	if updated != "" && !strings.HasSuffix(updated, "\n") {
		updated += "\n"
	}
	updated += want + "\n"

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create profile dir: %w", err)
	}
	if err := atomicfile.WriteFile(s.path, []byte(updated), profileFilePerm); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

// replaceMarkedBlock returns text with the managed block replaced by
// content, or appended when no block exists yet.
func replaceMarkedBlock(text, content string) string {
	block := MarkerBegin + "\n" + strings.TrimRight(content, "\n") + "\n" + MarkerEnd + "\n"

	begin := strings.Index(text, MarkerBegin)
	end := strings.Index(text, MarkerEnd)
	if begin >= 0 && end > begin {
		after := text[end+len(MarkerEnd):]
		after = strings.TrimPrefix(after, "\n")
		return text[:begin] + block + after
	}

	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if text != "" {
		text += "\n"
	}
	return text + block
}
