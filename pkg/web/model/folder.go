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

package model

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/alibaba/opensandbox/folderd/pkg/index"
)

// CreateFolderRequest is the body of POST /folders.
type CreateFolderRequest struct {
	FolderName string `json:"folderName" validate:"required"`
}

func (r *CreateFolderRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// CreateFolderResponse describes a newly created folder.
type CreateFolderResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListFoldersResponse returns the whole index.
type ListFoldersResponse struct {
	Folders index.Document `json:"folders"`
}

// SearchFilesResponse lists the files of a folder matching a pattern.
type SearchFilesResponse struct {
	Files []index.File `json:"files"`
}

// SuccessResponse acknowledges a mutation with no other result.
type SuccessResponse struct {
	Success bool `json:"success"`
}
