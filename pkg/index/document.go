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

// Package index holds the folder/file catalog and the stores that persist it
// as a single document.
package index

import (
	"encoding/json"
	"fmt"
	"time"
)

// File is one text file tracked inside a Folder.
type File struct {
	ID           string    `json:"File_id"`
	Name         string    `json:"File_name"`
	Path         string    `json:"File_path"`
	CreatedAt    time.Time `json:"createdAt"`
	LastModified time.Time `json:"lastModified"`
}

// Folder is one directory under the storage root. Its directory is named
// "{Name}_{ID}".
type Folder struct {
	ID        string    `json:"Folder_id"`
	Name      string    `json:"Folder_name"`
	Files     []File    `json:"files"`
	CreatedAt time.Time `json:"createdAt"`
}

// Document is the whole persisted catalog, in creation order.
type Document []Folder

// DirName returns the on-disk directory name of the folder.
func (f *Folder) DirName() string {
	return DirName(f.Name, f.ID)
}

// DirName composes a folder directory name.
func DirName(name, id string) string {
	return name + "_" + id
}

// FilePath composes the relative path of a file inside its folder directory.
func FilePath(name, id string) string {
	return name + "_" + id + ".js"
}

// FileByID returns the file with the given id, or nil.
func (f *Folder) FileByID(id string) *File {
	for i := range f.Files {
		if f.Files[i].ID == id {
			return &f.Files[i]
		}
	}
	return nil
}

// RemoveFile filters the file out of the folder and reports whether it was present.
func (f *Folder) RemoveFile(id string) bool {
	kept := f.Files[:0]
	removed := false
	for _, file := range f.Files {
		if file.ID == id {
			removed = true
			continue
		}
		kept = append(kept, file)
	}
	f.Files = kept
	return removed
}

// FolderByID returns a pointer into the document, or nil.
func (d Document) FolderByID(id string) *Folder {
	for i := range d {
		if d[i].ID == id {
			return &d[i]
		}
	}
	return nil
}

// FolderByName returns a pointer into the document, or nil.
func (d Document) FolderByName(name string) *Folder {
	for i := range d {
		if d[i].Name == name {
			return &d[i]
		}
	}
	return nil
}

// FindFile locates a file by id across all folders.
func (d Document) FindFile(fileID string) (*Folder, *File) {
	for i := range d {
		if file := d[i].FileByID(fileID); file != nil {
			return &d[i], file
		}
	}
	return nil, nil
}

// HasFolderID reports whether any folder uses id.
func (d Document) HasFolderID(id string) bool {
	return d.FolderByID(id) != nil
}

// HasFileID reports whether any file in any folder uses id.
func (d Document) HasFileID(id string) bool {
	_, file := d.FindFile(id)
	return file != nil
}

// RemoveFolder returns the document without the folder id.
func (d Document) RemoveFolder(id string) Document {
	out := make(Document, 0, len(d))
	for _, folder := range d {
		if folder.ID != id {
			out = append(out, folder)
		}
	}
	return out
}

// Counts returns the number of folders and files in the document.
func (d Document) Counts() (folders, files int) {
	for _, folder := range d {
		files += len(folder.Files)
	}
	return len(d), files
}

// Encode serializes the document the way it is stored on disk.
func Encode(doc Document) ([]byte, error) {
	if doc == nil {
		doc = Document{}
	}
	for i := range doc {
		if doc[i].Files == nil {
			doc[i].Files = []File{}
		}
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Decode parses a stored document. Empty input yields an empty document.
func Decode(data []byte) (Document, error) {
	if len(data) == 0 {
		return Document{}, nil
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode index document: %w", err)
	}
	if doc == nil {
		doc = Document{}
	}
	for i := range doc {
		if doc[i].Files == nil {
			doc[i].Files = []File{}
		}
	}
	return doc, nil
}
