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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alibaba/opensandbox/folderd/pkg/manager"
	"github.com/alibaba/opensandbox/folderd/pkg/web/model"
)

func createFile(t *testing.T, mgr *manager.Manager, folderPath, name, content string) model.CreateFileResponse {
	t.Helper()
	body := mustJSON(t, model.CreateFileRequest{FolderPath: folderPath, FileName: name, Content: content})
	ctx, w := newTestContext(http.MethodPost, "/files", body)
	NewFileController(ctx, mgr).CreateFile()
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp model.CreateFileResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func readFile(t *testing.T, mgr *manager.Manager, folderPath, fileName string) *httptest.ResponseRecorder {
	t.Helper()
	ctx, w := newTestContext(http.MethodGet, "/files/"+folderPath+"/"+fileName, nil,
		gin.Param{Key: "folderPath", Value: folderPath},
		gin.Param{Key: "fileName", Value: fileName},
	)
	NewFileController(ctx, mgr).ReadFile()
	return w
}

func TestFileLifecycle(t *testing.T) {
	mgr, _ := newTestManager(t)
	folder := createFolder(t, mgr, "notes")

	created := createFile(t, mgr, folder.Path, "todo", "hello")
	assert.Equal(t, "todo", created.Name)
	assert.Equal(t, "todo_"+created.ID+".js", created.Path)
	assert.Equal(t, created.CreatedAt, created.LastModified)

	got := readFile(t, mgr, folder.Path, created.Path)
	require.Equal(t, http.StatusOK, got.Code)
	assert.JSONEq(t, `{"content":"hello"}`, got.Body.String())

	body := mustJSON(t, model.UpdateFileRequest{FolderPath: folder.Path, Content: "world"})
	ctx, w := newTestContext(http.MethodPut, "/files/"+created.ID, body, gin.Param{Key: "fileId", Value: created.ID})
	NewFileController(ctx, mgr).UpdateFile()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated model.UpdateFileResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.True(t, updated.Success)
	assert.True(t, updated.LastModified.After(created.CreatedAt))

	got = readFile(t, mgr, folder.Path, created.Path)
	assert.JSONEq(t, `{"content":"world"}`, got.Body.String())

	body = mustJSON(t, model.DeleteFileRequest{FolderPath: folder.Path})
	ctx, w = newTestContext(http.MethodDelete, "/files/"+created.ID, body, gin.Param{Key: "fileId", Value: created.ID})
	NewFileController(ctx, mgr).DeleteFile()
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	got = readFile(t, mgr, folder.Path, created.Path)
	assert.Equal(t, http.StatusNotFound, got.Code)
}

func TestCreateFileErrors(t *testing.T) {
	mgr, _ := newTestManager(t)
	folder := createFolder(t, mgr, "notes")

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"missing folder path", `{"fileName":"todo","content":"x"}`, http.StatusBadRequest},
		{"missing file name", `{"folderPath":"` + folder.Path + `","content":"x"}`, http.StatusBadRequest},
		{"unknown folder", `{"folderPath":"notes_nope","fileName":"todo","content":"x"}`, http.StatusNotFound},
		{"empty content allowed", `{"folderPath":"` + folder.Path + `","fileName":"todo"}`, http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, w := newTestContext(http.MethodPost, "/files", []byte(tt.body))
			NewFileController(ctx, mgr).CreateFile()
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestUpdateFileErrors(t *testing.T) {
	mgr, _ := newTestManager(t)
	folder := createFolder(t, mgr, "notes")
	file := createFile(t, mgr, folder.Path, "todo", "x")

	tests := []struct {
		name   string
		fileID string
		body   string
		status int
	}{
		{"empty content", file.ID, `{"folderPath":"` + folder.Path + `","content":""}`, http.StatusBadRequest},
		{"missing content", file.ID, `{"folderPath":"` + folder.Path + `"}`, http.StatusBadRequest},
		{"unknown file", "nope", `{"folderPath":"` + folder.Path + `","content":"y"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, w := newTestContext(http.MethodPut, "/files/"+tt.fileID, []byte(tt.body), gin.Param{Key: "fileId", Value: tt.fileID})
			NewFileController(ctx, mgr).UpdateFile()
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestDeleteFileUnknown(t *testing.T) {
	mgr, _ := newTestManager(t)
	folder := createFolder(t, mgr, "notes")

	ctx, w := newTestContext(http.MethodDelete, "/files/nope", []byte(`{"folderPath":"`+folder.Path+`"}`), gin.Param{Key: "fileId", Value: "nope"})
	NewFileController(ctx, mgr).DeleteFile()
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReadFileMissing(t *testing.T) {
	mgr, _ := newTestManager(t)
	folder := createFolder(t, mgr, "notes")

	got := readFile(t, mgr, folder.Path, "absent.js")
	assert.Equal(t, http.StatusNotFound, got.Code)
}
