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

// Package manager keeps the index document and the storage root in agreement
// while folders and files are created, read, updated and deleted.
package manager

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/alibaba/opensandbox/folderd/pkg/errdefs"
	"github.com/alibaba/opensandbox/folderd/pkg/events"
	"github.com/alibaba/opensandbox/folderd/pkg/idgen"
	"github.com/alibaba/opensandbox/folderd/pkg/index"
	"github.com/alibaba/opensandbox/folderd/pkg/log"
	"github.com/alibaba/opensandbox/folderd/pkg/metrics"
	"github.com/alibaba/opensandbox/folderd/pkg/storage"
)

// folderPathSeparator splits a folder directory name into name and id.
const folderPathSeparator = "_"

// FolderInfo is returned by CreateFolder.
type FolderInfo struct {
	ID        string
	Name      string
	Path      string
	CreatedAt time.Time
}

// FileInfo is returned by CreateFile.
type FileInfo struct {
	ID           string
	Name         string
	Path         string
	CreatedAt    time.Time
	LastModified time.Time
}

// Manager orchestrates the index store and the filesystem gateway. One mutex
// covers every load/save pair, so operations from one process never lose
// each other's updates.
type Manager struct {
	mu        sync.Mutex
	store     index.Store
	fs        storage.Gateway
	publisher events.Publisher
	now       func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithPublisher delivers committed changes to p.
func WithPublisher(p events.Publisher) Option {
	return func(m *Manager) { m.publisher = p }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// New returns a Manager over store and fs.
func New(store index.Store, fs storage.Gateway, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		fs:    fs,
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init creates the storage root and writes the index back, creating it on
// first run.
func (m *Manager) Init(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fs.EnsureRoot(ctx); err != nil {
		return err
	}
	doc, err := m.load(ctx)
	if err != nil {
		return err
	}
	return m.save(ctx, doc)
}

// CreateFolder creates the folder directory and then records it in the index.
func (m *Manager) CreateFolder(ctx context.Context, name string) (info FolderInfo, err error) {
	defer m.observe("create_folder", &err)

	if strings.TrimSpace(name) == "" {
		return FolderInfo{}, invalidInput("valid folder name is required")
	}
	if strings.ContainsAny(name, `/\`) {
		return FolderInfo{}, invalidInput("folder name %q must not contain path separators", name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.load(ctx)
	if err != nil {
		return FolderInfo{}, err
	}
	if doc.FolderByName(name) != nil {
		return FolderInfo{}, fmt.Errorf("%w: folder name %q already exists", errdefs.ErrConflict, name)
	}

	id, err := idgen.Unique(doc.HasFolderID)
	if err != nil {
		return FolderInfo{}, fmt.Errorf("%w: %w", errdefs.ErrIO, err)
	}
	dir := index.DirName(name, id)
	if err := m.fs.CreateDir(ctx, dir); err != nil {
		return FolderInfo{}, err
	}

	now := m.now()
	doc = append(doc, index.Folder{
		ID:        id,
		Name:      name,
		Files:     []index.File{},
		CreatedAt: now,
	})
	if err := m.save(ctx, doc); err != nil {
		m.rollback("folder directory "+dir, func() error { return m.fs.RemoveDirAll(ctx, dir) })
		return FolderInfo{}, err
	}

	log.Info("created folder %s", dir)
	m.publish(events.Event{Type: events.FolderCreated, FolderID: id, Name: name, Path: dir})
	return FolderInfo{ID: id, Name: name, Path: dir, CreatedAt: now}, nil
}

// ListFolders returns the index as stored. The filesystem is not consulted.
func (m *Manager) ListFolders(ctx context.Context) (doc index.Document, err error) {
	defer m.observe("list_folders", &err)

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.load(ctx)
}

// CreateFile writes a new file into the folder named by folderPath
// ("{name}_{id}") and appends it to the folder's entry.
func (m *Manager) CreateFile(ctx context.Context, folderPath, fileName, content string) (info FileInfo, err error) {
	defer m.observe("create_file", &err)

	if strings.TrimSpace(folderPath) == "" || strings.TrimSpace(fileName) == "" {
		return FileInfo{}, invalidInput("folder path and file name are required")
	}
	if strings.ContainsAny(fileName, `/\`) {
		return FileInfo{}, invalidInput("file name %q must not contain path separators", fileName)
	}
	_, folderID := SplitFolderPath(folderPath)

	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.load(ctx)
	if err != nil {
		return FileInfo{}, err
	}
	folder := doc.FolderByID(folderID)
	if folder == nil {
		return FileInfo{}, fmt.Errorf("%w: %s", ErrFolderNotIndexed, folderPath)
	}
	if !m.fs.IsDir(ctx, folderPath) {
		return FileInfo{}, fmt.Errorf("%w: %s", ErrFolderNotOnDisk, folderPath)
	}

	id, err := idgen.Unique(doc.HasFileID)
	if err != nil {
		return FileInfo{}, fmt.Errorf("%w: %w", errdefs.ErrIO, err)
	}
	rel := index.FilePath(fileName, id)
	full := path.Join(folderPath, rel)
	if err := m.fs.WriteFile(ctx, full, []byte(content)); err != nil {
		return FileInfo{}, err
	}

	now := m.now()
	folder.Files = append(folder.Files, index.File{
		ID:           id,
		Name:         fileName,
		Path:         rel,
		CreatedAt:    now,
		LastModified: now,
	})
	if err := m.save(ctx, doc); err != nil {
		m.rollback("file "+full, func() error { return m.fs.RemoveFile(ctx, full) })
		return FileInfo{}, err
	}

	log.Info("created file %s", full)
	m.publish(events.Event{Type: events.FileCreated, FolderID: folderID, FileID: id, Name: fileName, Path: full})
	return FileInfo{ID: id, Name: fileName, Path: rel, CreatedAt: now, LastModified: now}, nil
}

// ReadFile returns the content at folderPath/fileName. The index is not
// consulted, so any file under the storage root can be read by its path.
func (m *Manager) ReadFile(ctx context.Context, folderPath, fileName string) (content string, err error) {
	defer m.observe("read_file", &err)

	if strings.TrimSpace(folderPath) == "" || strings.TrimSpace(fileName) == "" {
		return "", invalidInput("folder path and file name are required")
	}
	data, err := m.fs.ReadFile(ctx, path.Join(folderPath, fileName))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// UpdateFile overwrites the content of an indexed file. The stored relative
// path is resolved under the caller's folderPath.
func (m *Manager) UpdateFile(ctx context.Context, fileID, folderPath, content string) (lastModified time.Time, err error) {
	defer m.observe("update_file", &err)

	if content == "" {
		return time.Time{}, invalidInput("file content is required")
	}
	if strings.TrimSpace(folderPath) == "" {
		return time.Time{}, invalidInput("folder path is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.load(ctx)
	if err != nil {
		return time.Time{}, err
	}
	folder, file := doc.FindFile(fileID)
	if file == nil {
		return time.Time{}, fmt.Errorf("%w: %s", ErrFileNotIndexed, fileID)
	}

	full := path.Join(folderPath, file.Path)
	if err := m.fs.WriteFile(ctx, full, []byte(content)); err != nil {
		return time.Time{}, err
	}

	now := m.now()
	if !now.After(file.LastModified) {
		now = file.LastModified.Add(time.Millisecond)
	}
	file.LastModified = now
	if err := m.save(ctx, doc); err != nil {
		m.diverged("file "+full+" was overwritten", err)
		return time.Time{}, err
	}

	log.Info("updated file %s", full)
	m.publish(events.Event{Type: events.FileUpdated, FolderID: folder.ID, FileID: fileID, Name: file.Name, Path: full})
	return now, nil
}

// DeleteFile removes the file from disk and then from its folder's entry.
func (m *Manager) DeleteFile(ctx context.Context, fileID, folderPath string) (err error) {
	defer m.observe("delete_file", &err)

	if strings.TrimSpace(folderPath) == "" {
		return invalidInput("folder path is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.load(ctx)
	if err != nil {
		return err
	}
	folder, file := doc.FindFile(fileID)
	if file == nil {
		return fmt.Errorf("%w: %s", ErrFileNotIndexed, fileID)
	}

	full := path.Join(folderPath, file.Path)
	name := file.Name
	if err := m.fs.RemoveFile(ctx, full); err != nil {
		return err
	}

	folder.RemoveFile(fileID)
	if err := m.save(ctx, doc); err != nil {
		m.diverged("file "+full+" was removed", err)
		return err
	}

	log.Info("deleted file %s", full)
	m.publish(events.Event{Type: events.FileDeleted, FolderID: folder.ID, FileID: fileID, Name: name, Path: full})
	return nil
}

// DeleteFolder removes the folder directory, derived from the index entry,
// and then the entry itself.
func (m *Manager) DeleteFolder(ctx context.Context, folderID string) (err error) {
	defer m.observe("delete_folder", &err)

	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.load(ctx)
	if err != nil {
		return err
	}
	folder := doc.FolderByID(folderID)
	if folder == nil {
		return fmt.Errorf("%w: %s", ErrFolderNotIndexed, folderID)
	}

	dir := folder.DirName()
	name := folder.Name
	if err := m.fs.RemoveDirAll(ctx, dir); err != nil {
		return err
	}

	if err := m.save(ctx, doc.RemoveFolder(folderID)); err != nil {
		m.diverged("folder directory "+dir+" was removed", err)
		return err
	}

	log.Info("deleted folder %s", dir)
	m.publish(events.Event{Type: events.FolderDeleted, FolderID: folderID, Name: name, Path: dir})
	return nil
}

// Stats returns the folder and file counts of the index.
func (m *Manager) Stats(ctx context.Context) (folders, files int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.load(ctx)
	if err != nil {
		return 0, 0, err
	}
	folders, files = doc.Counts()
	return folders, files, nil
}

// SplitFolderPath splits "{name}_{id}" on the first separator. Folder names
// that themselves contain the separator do not round-trip.
func SplitFolderPath(folderPath string) (name, id string) {
	name, id, _ = strings.Cut(folderPath, folderPathSeparator)
	return name, id
}

func (m *Manager) load(ctx context.Context) (index.Document, error) {
	doc, err := m.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load index: %w", errdefs.ErrIO, err)
	}
	return doc, nil
}

func (m *Manager) save(ctx context.Context, doc index.Document) error {
	if err := m.store.Save(ctx, doc); err != nil {
		return fmt.Errorf("%w: save index: %w", errdefs.ErrIO, err)
	}
	metrics.SetIndexSize(doc.Counts())
	return nil
}

// rollback undoes a filesystem step whose index update could not be saved.
func (m *Manager) rollback(what string, undo func() error) {
	if err := undo(); err != nil {
		log.Error("failed to roll back %s after index save failure: %v", what, err)
	}
}

// diverged records a filesystem change that cannot be undone and is not in
// the index. Audit reports the result.
func (m *Manager) diverged(what string, err error) {
	log.Error("index out of sync: %s but the index save failed: %v", what, err)
}

func (m *Manager) publish(event events.Event) {
	if m.publisher == nil {
		return
	}
	if event.Timestamp == 0 {
		event.Timestamp = m.now().UnixMilli()
	}
	m.publisher.Publish(event)
}

func (m *Manager) observe(op string, errp *error) {
	err := *errp
	metrics.RecordOperation(op, err)
	if err == nil {
		return
	}
	if errdefs.HTTPStatus(err) >= 500 {
		log.Error("%s failed: %v", op, err)
		return
	}
	log.Warn("%s rejected: %v", op, err)
}
