// Copyright 2025 Alibaba Group Holding Ltd.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package storage is the filesystem gateway: every path it accepts is relative
// to a single storage root and may not escape it.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/alibaba/opensandbox/folderd/pkg/errdefs"
)

// Gateway is the set of filesystem operations the folder manager relies on.
type Gateway interface {
	EnsureRoot(ctx context.Context) error
	CreateDir(ctx context.Context, rel string) error
	RemoveDirAll(ctx context.Context, rel string) error
	WriteFile(ctx context.Context, rel string, content []byte) error
	ReadFile(ctx context.Context, rel string) ([]byte, error)
	RemoveFile(ctx context.Context, rel string) error
	Exists(ctx context.Context, rel string) bool
	IsDir(ctx context.Context, rel string) bool
	ListDir(ctx context.Context, rel string) ([]string, error)
}

// Local implements Gateway on the local filesystem.
type Local struct {
	root string
}

// NewLocal returns a gateway rooted at root. The directory is not created
// until EnsureRoot is called.
func NewLocal(root string) (*Local, error) {
	if root == "" {
		return nil, errors.New("storage root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("invalid storage root %s: %w", root, err)
	}
	return &Local{root: abs}, nil
}

// Root returns the absolute storage root.
func (l *Local) Root() string { return l.root }

func (l *Local) resolve(rel string) (string, error) {
	if rel == "" {
		return l.root, nil
	}
	clean := filepath.FromSlash(rel)
	if !filepath.IsLocal(clean) {
		return "", fmt.Errorf("%w: path %q escapes storage root", errdefs.ErrInvalidInput, rel)
	}
	return filepath.Join(l.root, clean), nil
}

// EnsureRoot creates the storage root and its parents. Idempotent.
func (l *Local) EnsureRoot(_ context.Context) error {
	if err := os.MkdirAll(l.root, 0o755); err != nil {
		return fmt.Errorf("%w: create storage root %s: %w", errdefs.ErrIO, l.root, err)
	}
	return nil
}

// CreateDir creates a single directory. It fails if the path exists.
func (l *Local) CreateDir(_ context.Context, rel string) error {
	path, err := l.resolve(rel)
	if err != nil {
		return err
	}
	if err := os.Mkdir(path, 0o755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: directory %s", errdefs.ErrAlreadyExists, rel)
		}
		return fmt.Errorf("%w: create directory %s: %w", errdefs.ErrIO, rel, err)
	}
	return nil
}

// RemoveDirAll removes a directory and everything below it.
func (l *Local) RemoveDirAll(_ context.Context, rel string) error {
	path, err := l.resolve(rel)
	if err != nil {
		return err
	}
	if path == l.root {
		return fmt.Errorf("%w: refusing to remove storage root", errdefs.ErrInvalidInput)
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: directory %s", errdefs.ErrNotFound, rel)
		}
		return fmt.Errorf("%w: stat %s: %w", errdefs.ErrIO, rel, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", errdefs.ErrNotFound, rel)
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("%w: remove directory %s: %w", errdefs.ErrIO, rel, err)
	}
	return nil
}

// WriteFile creates or overwrites a file through a temp file and rename.
func (l *Local) WriteFile(_ context.Context, rel string, content []byte) error {
	path, err := l.resolve(rel)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".folderd-*.tmp")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: directory of %s", errdefs.ErrNotFound, rel)
		}
		return fmt.Errorf("%w: create temp for %s: %w", errdefs.ErrIO, rel, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write %s: %w", errdefs.ErrIO, rel, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close temp for %s: %w", errdefs.ErrIO, rel, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: chmod %s: %w", errdefs.ErrIO, rel, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: rename temp to %s: %w", errdefs.ErrIO, rel, err)
	}
	return nil
}

// ReadFile returns the content of a regular file.
func (l *Local) ReadFile(_ context.Context, rel string) ([]byte, error) {
	path, err := l.resolve(rel)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: file %s", errdefs.ErrNotFound, rel)
		}
		return nil, fmt.Errorf("%w: stat %s: %w", errdefs.ErrIO, rel, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", errdefs.ErrNotFound, rel)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", errdefs.ErrIO, rel, err)
	}
	return data, nil
}

// RemoveFile deletes a regular file.
func (l *Local) RemoveFile(_ context.Context, rel string) error {
	path, err := l.resolve(rel)
	if err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: file %s", errdefs.ErrNotFound, rel)
		}
		return fmt.Errorf("%w: stat %s: %w", errdefs.ErrIO, rel, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", errdefs.ErrNotFound, rel)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("%w: remove %s: %w", errdefs.ErrIO, rel, err)
	}
	return nil
}

// Exists reports whether anything is present at rel.
func (l *Local) Exists(_ context.Context, rel string) bool {
	path, err := l.resolve(rel)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// IsDir reports whether rel is an existing directory.
func (l *Local) IsDir(_ context.Context, rel string) bool {
	path, err := l.resolve(rel)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ListDir returns the sorted names of the direct children of rel.
func (l *Local) ListDir(_ context.Context, rel string) ([]string, error) {
	path, err := l.resolve(rel)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: directory %s", errdefs.ErrNotFound, rel)
		}
		return nil, fmt.Errorf("%w: list %s: %w", errdefs.ErrIO, rel, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}
