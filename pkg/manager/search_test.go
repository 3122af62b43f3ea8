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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alibaba/opensandbox/folderd/pkg/errdefs"
)

func TestSearchFiles(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	folder, err := f.m.CreateFolder(ctx, "notes")
	require.NoError(t, err)
	for _, name := range []string{"todo", "todo-later", "readme", "draft1", "draft2"} {
		_, err := f.m.CreateFile(ctx, folder.Path, name, name)
		require.NoError(t, err)
	}

	tests := []struct {
		pattern string
		want    []string
	}{
		{"", []string{"todo", "todo-later", "readme", "draft1", "draft2"}},
		{"todo*", []string{"todo", "todo-later"}},
		{"draft?", []string{"draft1", "draft2"}},
		{"{readme,todo}", []string{"todo", "readme"}},
		{"nothing*", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			files, err := f.m.SearchFiles(ctx, folder.ID, tt.pattern)
			require.NoError(t, err)
			names := make([]string, 0, len(files))
			for _, file := range files {
				names = append(names, file.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestSearchFilesErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	folder, err := f.m.CreateFolder(ctx, "notes")
	require.NoError(t, err)

	_, err = f.m.SearchFiles(ctx, folder.ID, "[unclosed")
	assert.ErrorIs(t, err, errdefs.ErrInvalidInput)

	_, err = f.m.SearchFiles(ctx, "missing", "*")
	assert.ErrorIs(t, err, ErrFolderNotIndexed)
}
