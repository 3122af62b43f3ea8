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
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alibaba/opensandbox/folderd/pkg/manager"
	"github.com/alibaba/opensandbox/folderd/pkg/web/model"
)

func createFolder(t *testing.T, mgr *manager.Manager, name string) model.CreateFolderResponse {
	t.Helper()
	ctx, w := newTestContext(http.MethodPost, "/folders", mustJSON(t, model.CreateFolderRequest{FolderName: name}))
	NewFolderController(ctx, mgr).CreateFolder()
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp model.CreateFolderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCreateFolder(t *testing.T) {
	mgr, root := newTestManager(t)

	resp := createFolder(t, mgr, "notes")
	assert.Equal(t, "notes", resp.Name)
	assert.Len(t, resp.ID, 9)
	assert.Equal(t, "notes_"+resp.ID, resp.Path)
	assert.False(t, resp.CreatedAt.IsZero())
	assert.DirExists(t, filepath.Join(root, resp.Path))
}

func TestCreateFolderRejectsBadInput(t *testing.T) {
	mgr, _ := newTestManager(t)

	for _, body := range []string{``, `{}`, `{"folderName":""}`, `{"folderName":"   "}`, `not json`} {
		ctx, w := newTestContext(http.MethodPost, "/folders", []byte(body))
		NewFolderController(ctx, mgr).CreateFolder()
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
	}
}

func TestCreateFolderDuplicateName(t *testing.T) {
	mgr, _ := newTestManager(t)
	createFolder(t, mgr, "notes")

	ctx, w := newTestContext(http.MethodPost, "/folders", []byte(`{"folderName":"notes"}`))
	NewFolderController(ctx, mgr).CreateFolder()

	assert.Equal(t, http.StatusConflict, w.Code)
	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, model.ErrorCodeFolderExists, resp.Code)
}

func TestListFolders(t *testing.T) {
	mgr, _ := newTestManager(t)

	ctx, w := newTestContext(http.MethodGet, "/folders", nil)
	NewFolderController(ctx, mgr).ListFolders()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"folders":[]}`, w.Body.String())

	created := createFolder(t, mgr, "notes")

	ctx, w = newTestContext(http.MethodGet, "/folders", nil)
	NewFolderController(ctx, mgr).ListFolders()
	require.Equal(t, http.StatusOK, w.Code)

	var raw map[string][]map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	require.Len(t, raw["folders"], 1)
	folder := raw["folders"][0]
	assert.Equal(t, created.ID, folder["Folder_id"])
	assert.Equal(t, "notes", folder["Folder_name"])
	assert.Equal(t, []any{}, folder["files"])
	assert.Contains(t, folder, "createdAt")
}

func TestDeleteFolder(t *testing.T) {
	mgr, root := newTestManager(t)
	created := createFolder(t, mgr, "notes")

	ctx, w := newTestContext(http.MethodDelete, "/folders/"+created.ID, nil, gin.Param{Key: "folderId", Value: created.ID})
	NewFolderController(ctx, mgr).DeleteFolder()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
	assert.NoDirExists(t, filepath.Join(root, created.Path))

	ctx, w = newTestContext(http.MethodDelete, "/folders/"+created.ID, nil, gin.Param{Key: "folderId", Value: created.ID})
	NewFolderController(ctx, mgr).DeleteFolder()
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchFilesEndpoint(t *testing.T) {
	mgr, _ := newTestManager(t)
	created := createFolder(t, mgr, "notes")
	for _, name := range []string{"todo", "readme"} {
		_, err := mgr.CreateFile(context.Background(), created.Path, name, "x")
		require.NoError(t, err)
	}

	param := gin.Param{Key: "folderId", Value: created.ID}

	ctx, w := newTestContext(http.MethodGet, "/folders/"+created.ID+"/files?pattern=todo*", nil, param)
	NewFolderController(ctx, mgr).SearchFiles()
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Files []map[string]any `json:"files"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Files, 1)
	assert.Equal(t, "todo", resp.Files[0]["File_name"])

	ctx, w = newTestContext(http.MethodGet, "/folders/"+created.ID+"/files?pattern=%5B", nil, param)
	NewFolderController(ctx, mgr).SearchFiles()
	assert.Equal(t, http.StatusBadRequest, w.Code)

	ctx, w = newTestContext(http.MethodGet, "/folders/missing/files", nil, gin.Param{Key: "folderId", Value: "missing"})
	NewFolderController(ctx, mgr).SearchFiles()
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuditEndpoint(t *testing.T) {
	mgr, root := newTestManager(t)
	created := createFolder(t, mgr, "notes")

	ctx, w := newTestContext(http.MethodGet, "/audit", nil)
	NewFolderController(ctx, mgr).Audit()
	require.Equal(t, http.StatusOK, w.Code)

	var resp model.AuditResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Consistent)
	assert.Empty(t, resp.Divergences)

	require.NoError(t, os.RemoveAll(filepath.Join(root, created.Path)))

	ctx, w = newTestContext(http.MethodGet, "/audit", nil)
	NewFolderController(ctx, mgr).Audit()
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Consistent)
	require.Len(t, resp.Divergences, 1)
	assert.Equal(t, manager.MissingDirectory, resp.Divergences[0].Kind)
	assert.Equal(t, created.ID, resp.Divergences[0].FolderID)
}
