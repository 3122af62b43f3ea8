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

package manager

import (
	"context"
	"path"
	"time"

	"github.com/alibaba/opensandbox/folderd/pkg/metrics"
)

// Divergence kinds reported by Audit.
const (
	MissingDirectory = "missing_directory"
	MissingFile      = "missing_file"
	OrphanDirectory  = "orphan_directory"
)

// Divergence is one disagreement between the index and the storage root.
type Divergence struct {
	Kind     string
	FolderID string
	FileID   string
	Path     string
}

// Report is the result of an Audit.
type Report struct {
	CheckedAt   time.Time
	Folders     int
	Files       int
	Divergences []Divergence
}

// Consistent reports whether the audit found nothing.
func (r Report) Consistent() bool {
	return len(r.Divergences) == 0
}

// Audit compares the index with the storage root without changing either.
// It reports indexed folders and files that are missing on disk, and folder
// directories on disk that no index entry claims.
func (m *Manager) Audit(ctx context.Context) (report Report, err error) {
	defer m.observe("audit", &err)

	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.load(ctx)
	if err != nil {
		return Report{}, err
	}

	report.CheckedAt = m.now()
	report.Folders, report.Files = doc.Counts()
	report.Divergences = []Divergence{}

	claimed := make(map[string]struct{}, len(doc))
	for _, folder := range doc {
		dir := folder.DirName()
		claimed[dir] = struct{}{}
		if !m.fs.IsDir(ctx, dir) {
			report.Divergences = append(report.Divergences, Divergence{
				Kind:     MissingDirectory,
				FolderID: folder.ID,
				Path:     dir,
			})
			continue
		}
		for _, file := range folder.Files {
			rel := path.Join(dir, file.Path)
			if !m.fs.Exists(ctx, rel) {
				report.Divergences = append(report.Divergences, Divergence{
					Kind:     MissingFile,
					FolderID: folder.ID,
					FileID:   file.ID,
					Path:     rel,
				})
			}
		}
	}

	names, err := m.fs.ListDir(ctx, "")
	if err != nil {
		return Report{}, err
	}
	for _, name := range names {
		if _, ok := claimed[name]; ok || !m.fs.IsDir(ctx, name) {
			continue
		}
		report.Divergences = append(report.Divergences, Divergence{
			Kind: OrphanDirectory,
			Path: name,
		})
	}

	metrics.SetAuditDivergences(len(report.Divergences))
	return report, nil
}
