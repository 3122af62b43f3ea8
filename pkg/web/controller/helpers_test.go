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

package controller

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alibaba/opensandbox/folderd/pkg/index"
	"github.com/alibaba/opensandbox/folderd/pkg/manager"
	"github.com/alibaba/opensandbox/folderd/pkg/storage"
)

func newTestManager(t *testing.T) (*manager.Manager, string) {
	t.Helper()
	dir := t.TempDir()

	local, err := storage.NewLocal(filepath.Join(dir, "Mfolder"))
	require.NoError(t, err)
	store, err := index.NewFileStore(filepath.Join(dir, "FilesList.json"))
	require.NoError(t, err)

	mgr := manager.New(store, local)
	require.NoError(t, mgr.Init(context.Background()))
	return mgr, local.Root()
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}
