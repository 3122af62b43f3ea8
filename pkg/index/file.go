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

package index

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps the document in one JSON file on local disk.
type FileStore struct {
	path string
}

// NewFileStore returns a store persisting to path.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("index file path is required")
	}
	return &FileStore{path: path}, nil
}

// Path returns the index file location.
func (s *FileStore) Path() string { return s.path }

// Load reads the index file. A missing file is an empty document.
func (s *FileStore) Load(_ context.Context) (Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Document{}, nil
		}
		return nil, fmt.Errorf("read index %s: %w", s.path, err)
	}
	return Decode(data)
}

// Save writes the document to a temp file next to the index and renames it
// into place, so readers never observe a partial document.
func (s *FileStore) Save(_ context.Context, doc Document) error {
	data, err := Encode(doc)
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create index dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".folderd-index-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for index: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp for index: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp to %s: %w", s.path, err)
	}
	return nil
}

// Close is a no-op for file stores.
func (s *FileStore) Close() error { return nil }
