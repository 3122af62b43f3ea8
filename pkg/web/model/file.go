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
)

// CreateFileRequest is the body of POST /files. Content may be empty.
type CreateFileRequest struct {
	FolderPath string `json:"folderPath" validate:"required"`
	FileName   string `json:"fileName" validate:"required"`
	Content    string `json:"content"`
}

func (r *CreateFileRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// UpdateFileRequest is the body of PUT /files/:fileId.
type UpdateFileRequest struct {
	FolderPath string `json:"folderPath" validate:"required"`
	Content    string `json:"content" validate:"required"`
}

func (r *UpdateFileRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// DeleteFileRequest is the body of DELETE /files/:fileId.
type DeleteFileRequest struct {
	FolderPath string `json:"folderPath" validate:"required"`
}

func (r *DeleteFileRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// CreateFileResponse describes a newly created file.
type CreateFileResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Path         string    `json:"path"`
	CreatedAt    time.Time `json:"createdAt"`
	LastModified time.Time `json:"lastModified"`
}

// ReadFileResponse carries the content of a file.
type ReadFileResponse struct {
	Content string `json:"content"`
}

// UpdateFileResponse reports the new modification time.
type UpdateFileResponse struct {
	Success      bool      `json:"success"`
	LastModified time.Time `json:"lastModified"`
}
