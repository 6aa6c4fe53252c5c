// Package annex provides bulkurl.Store implementations: a thin wrapper
// around the git-annex command line, and an in-memory store for tests and
// dry-run verification.
package annex

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/vvka-141/bulkurl/pkg/bulkurl"
)

// Runner executes an external command in dir and returns its combined
// output. Factored out so tests can assert on command construction without
// a git-annex installation.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err,
			strings.TrimSpace(string(out)))
	}
	return out, nil
}

// GitAnnexStore drives git-annex repositories. Containers are nested
// annex repositories initialized beneath the dataset root.
type GitAnnexStore struct {
	runner Runner
	logger bulkurl.Logger
}

// NewStore creates a GitAnnexStore that shells out to git.
// Panics if logger is nil.
func NewStore(logger bulkurl.Logger) *GitAnnexStore {
	return NewStoreWithRunner(execRunner{}, logger)
}

// NewStoreWithRunner creates a GitAnnexStore with a custom command runner.
// Panics if runner or logger is nil.
func NewStoreWithRunner(runner Runner, logger bulkurl.Logger) *GitAnnexStore {
	if runner == nil {
		panic("runner cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &GitAnnexStore{runner: runner, logger: logger}
}

// Exists reports whether path is already present on disk. Annexed files
// are often dangling symlinks until their content is downloaded, so a
// plain stat is not enough.
func (s *GitAnnexStore) Exists(path string) bool {
	if _, err := os.Lstat(path); err == nil {
		return true
	}
	return false
}

// Remove deletes the artifact at path.
func (s *GitAnnexStore) Remove(path string) error {
	return os.Remove(path)
}

// AddURL registers url as the content of the file at relpath inside the
// repository at dir.
func (s *GitAnnexStore) AddURL(ctx context.Context, dir, relpath, url string, fast bool) error {
	args := []string{"annex", "addurl", "--file", relpath}
	if fast {
		args = append(args, "--fast")
	}
	args = append(args, url)
	_, err := s.runner.Run(ctx, dir, "git", args...)
	return err
}

// SetMetadata attaches fields to the file at relpath inside the repository
// at dir. Fields are passed in sorted order so repeated runs issue
// identical commands.
func (s *GitAnnexStore) SetMetadata(ctx context.Context, dir, relpath string, fields map[string]string) error {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	args := []string{"annex", "metadata", relpath}
	for _, name := range names {
		args = append(args, "-s", name+"="+fields[name])
	}
	_, err := s.runner.Run(ctx, dir, "git", args...)
	return err
}

// CreateContainer initializes a nested annex repository at path.
func (s *GitAnnexStore) CreateContainer(ctx context.Context, path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("failed to create container directory: %w", err)
	}
	if _, err := s.runner.Run(ctx, path, "git", "init"); err != nil {
		return err
	}
	if _, err := s.runner.Run(ctx, path, "git", "annex", "init"); err != nil {
		return err
	}
	s.logger.Verbose("Initialized container at %s", path)
	return nil
}

// Commit records all staged changes in the repository at dir.
func (s *GitAnnexStore) Commit(ctx context.Context, dir, message string) error {
	if _, err := s.runner.Run(ctx, dir, "git", "add", "--all"); err != nil {
		return err
	}
	_, err := s.runner.Run(ctx, dir, "git", "commit", "-m", message)
	return err
}
