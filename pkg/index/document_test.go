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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() Document {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return Document{
		{
			ID:        "abc123xyz",
			Name:      "notes",
			CreatedAt: now,
			Files: []File{
				{ID: "def456uvw", Name: "todo", Path: "todo_def456uvw.js", CreatedAt: now, LastModified: now},
				{ID: "ghi789rst", Name: "ideas", Path: "ideas_ghi789rst.js", CreatedAt: now, LastModified: now},
			},
		},
		{ID: "zzz000aaa", Name: "empty", CreatedAt: now, Files: []File{}},
	}
}

func TestPathHelpers(t *testing.T) {
	folder := Folder{ID: "abc123xyz", Name: "notes"}
	assert.Equal(t, "notes_abc123xyz", folder.DirName())
	assert.Equal(t, "todo_def456uvw.js", FilePath("todo", "def456uvw"))
}

func TestDocumentLookups(t *testing.T) {
	doc := sampleDocument()

	require.NotNil(t, doc.FolderByID("abc123xyz"))
	assert.Nil(t, doc.FolderByID("missing"))
	require.NotNil(t, doc.FolderByName("empty"))
	assert.Nil(t, doc.FolderByName("Empty"))

	folder, file := doc.FindFile("ghi789rst")
	require.NotNil(t, file)
	assert.Equal(t, "notes", folder.Name)
	assert.Equal(t, "ideas", file.Name)

	folder, file = doc.FindFile("nope")
	assert.Nil(t, folder)
	assert.Nil(t, file)

	assert.True(t, doc.HasFolderID("zzz000aaa"))
	assert.True(t, doc.HasFileID("def456uvw"))
	assert.False(t, doc.HasFileID("zzz000aaa"))
}

func TestFindFileReturnsPointerIntoDocument(t *testing.T) {
	doc := sampleDocument()
	_, file := doc.FindFile("def456uvw")
	require.NotNil(t, file)

	later := file.LastModified.Add(time.Minute)
	file.LastModified = later

	assert.Equal(t, later, doc[0].Files[0].LastModified)
}

func TestRemoveFileAndFolder(t *testing.T) {
	doc := sampleDocument()

	assert.True(t, doc[0].RemoveFile("def456uvw"))
	assert.False(t, doc[0].RemoveFile("def456uvw"))
	require.Len(t, doc[0].Files, 1)
	assert.Equal(t, "ghi789rst", doc[0].Files[0].ID)

	doc = doc.RemoveFolder("abc123xyz")
	require.Len(t, doc, 1)
	assert.Equal(t, "empty", doc[0].Name)

	folders, files := doc.Counts()
	assert.Equal(t, 1, folders)
	assert.Equal(t, 0, files)
}

func TestEncodeDecode(t *testing.T) {
	data, err := Encode(sampleDocument())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Folder_id": "abc123xyz"`)
	assert.Contains(t, string(data), `"File_path": "todo_def456uvw.js"`)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, sampleDocument(), decoded)
}

func TestDecodeLegacyDocument(t *testing.T) {
	// legacy index layout: millisecond timestamps, no folder createdAt
	legacy := []byte(`[{"Folder_id":"k2j3h4g5f","Folder_name":"old","files":[
		{"File_id":"q1w2e3r4t","File_name":"a","File_path":"a_q1w2e3r4t.js",
		 "createdAt":"2024-05-01T10:00:00.000Z","lastModified":"2024-05-01T10:00:00.000Z"}]}]`)

	doc, err := Decode(legacy)
	require.NoError(t, err)
	require.Len(t, doc, 1)
	assert.True(t, doc[0].CreatedAt.IsZero())
	assert.Equal(t, 2024, doc[0].Files[0].CreatedAt.Year())
}

func TestDecodeEmptyAndNull(t *testing.T) {
	doc, err := Decode(nil)
	require.NoError(t, err)
	assert.Empty(t, doc)

	doc, err = Decode([]byte("null"))
	require.NoError(t, err)
	assert.NotNil(t, doc)

	doc, err = Decode([]byte(`[{"Folder_id":"a","Folder_name":"b"}]`))
	require.NoError(t, err)
	assert.NotNil(t, doc[0].Files)

	_, err = Decode([]byte("{not json"))
	assert.Error(t, err)
}
