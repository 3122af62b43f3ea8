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
	"fmt"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/alibaba/opensandbox/folderd/pkg/index"
)

// SearchFiles returns the files of one folder whose names match a glob
// pattern. An empty pattern matches every file.
func (m *Manager) SearchFiles(ctx context.Context, folderID, pattern string) (files []index.File, err error) {
	defer m.observe("search_files", &err)

	if pattern == "" {
		pattern = "*"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, invalidInput("invalid search pattern %q", pattern)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.load(ctx)
	if err != nil {
		return nil, err
	}
	folder := doc.FolderByID(folderID)
	if folder == nil {
		return nil, fmt.Errorf("%w: %s", ErrFolderNotIndexed, folderID)
	}

	files = make([]index.File, 0, len(folder.Files))
	for _, file := range folder.Files {
		matched, err := doublestar.Match(pattern, file.Name)
		if err != nil {
			return nil, invalidInput("invalid search pattern %q: %v", pattern, err)
		}
		if matched {
			files = append(files, file)
		}
	}
	return files, nil
}
