// Package adapter contains infrastructure adapters for the jamcheck CLI.
package adapter

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"

	m "jamcheck.dev/pkg/jamcheck/internal/model"
)

// RepoFSAdapter abstracts filesystem-specific operations the domain layer
// relies on when locating the repository and scanning the package under
// check. It intentionally hides direct `os` access so the harness logic can
// be tested without touching the disk.
type RepoFSAdapter interface {
	// ResolveRoot returns the absolute directory containing the running
	// executable, with any symbolic link in the executable's own path
	// dereferenced first.
	ResolveRoot() (m.Path, error)

	// Walk traverses the provided root path. When recursive is false the
	// implementation should limit itself to the root directory (no sub-dirs).
	Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// HashFile returns a stable fingerprint (SHA-256) for the file at path.
	HashFile(path m.Path) (string, error)

	// FileInfo returns metadata for a path so the domain can check existence
	// or distinguish between files and directories when necessary.
	FileInfo(path m.Path) (os.FileInfo, error)

	// RelPath returns the relative path from base to target.
	RelPath(base, target m.Path) (m.Path, error)

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// FilepathWalkFunc mirrors the callback shape used by filepath.Walk. It is
// defined here to avoid leaking the standard-library type directly into the
// domain layer.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

// LocalRepoFSAdapter is the concrete implementation backed by the os and
// path/filepath packages.
type LocalRepoFSAdapter struct{}

// NewLocalRepoFSAdapter constructs a LocalRepoFSAdapter ready to be wired
// into the harness.
func NewLocalRepoFSAdapter() *LocalRepoFSAdapter {
	return &LocalRepoFSAdapter{}
}

// ResolveRoot locates the directory holding the running executable. Symlinks
// are dereferenced so an installed symlink (e.g. from a bin directory) still
// resolves to the real checkout.
func (a *LocalRepoFSAdapter) ResolveRoot() (m.Path, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable path: %w", err)
	}

	real, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("dereference executable path %s: %w", exe, err)
	}

	abs, err := filepath.Abs(filepath.Dir(real))
	if err != nil {
		return "", fmt.Errorf("absolutize root of %s: %w", real, err)
	}

	return m.Path(abs), nil
}

// Walk iterates over files under root, optionally descending into subdirectories.
func (a *LocalRepoFSAdapter) Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error {
	rootStr := string(root)

	return filepath.Walk(rootStr, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fn(path, info, err)
		}

		if info.IsDir() && !recursive && path != rootStr {
			return filepath.SkipDir
		}

		return fn(path, info, nil)
	})
}

// ReadFile loads file contents from disk.
func (a *LocalRepoFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// HashFile returns the SHA-256 hash of the file at the provided path.
func (a *LocalRepoFSAdapter) HashFile(path m.Path) (string, error) {
	f, err := os.Open(string(path))
	if err != nil {
		return "", err
	}

	defer func() {
		_ = f.Close()
	}()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalRepoFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// RelPath returns the relative path from base to target.
func (a *LocalRepoFSAdapter) RelPath(base, target m.Path) (m.Path, error) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", err
	}

	return m.Path(rel), nil
}

// JoinPath joins path elements into a single path.
func (a *LocalRepoFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}
