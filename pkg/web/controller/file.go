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
	"github.com/gin-gonic/gin"

	"github.com/alibaba/opensandbox/folderd/pkg/manager"
	"github.com/alibaba/opensandbox/folderd/pkg/web/model"
)

// FileController handles file requests.
type FileController struct {
	*basicController
	manager *manager.Manager
}

func NewFileController(ctx *gin.Context, mgr *manager.Manager) *FileController {
	return &FileController{basicController: newBasicController(ctx), manager: mgr}
}

// CreateFile writes a new file into an existing folder.
func (c *FileController) CreateFile() {
	var request model.CreateFileRequest
	if !c.bindRequest(&request) {
		return
	}

	info, err := c.manager.CreateFile(c.ctx.Request.Context(), request.FolderPath, request.FileName, request.Content)
	if err != nil {
		c.RespondManagerError(err)
		return
	}

	c.RespondCreated(model.CreateFileResponse{
		ID:           info.ID,
		Name:         info.Name,
		Path:         info.Path,
		CreatedAt:    info.CreatedAt,
		LastModified: info.LastModified,
	})
}

// ReadFile returns the content stored at :folderPath/:fileName.
func (c *FileController) ReadFile() {
	content, err := c.manager.ReadFile(c.ctx.Request.Context(), c.ctx.Param("folderPath"), c.ctx.Param("fileName"))
	if err != nil {
		c.RespondManagerError(err)
		return
	}
	c.RespondSuccess(model.ReadFileResponse{Content: content})
}

// UpdateFile overwrites the content of an indexed file.
func (c *FileController) UpdateFile() {
	var request model.UpdateFileRequest
	if !c.bindRequest(&request) {
		return
	}

	lastModified, err := c.manager.UpdateFile(c.ctx.Request.Context(), c.ctx.Param("fileId"), request.FolderPath, request.Content)
	if err != nil {
		c.RespondManagerError(err)
		return
	}
	c.RespondSuccess(model.UpdateFileResponse{Success: true, LastModified: lastModified})
}

// DeleteFile removes an indexed file.
func (c *FileController) DeleteFile() {
	var request model.DeleteFileRequest
	if !c.bindRequest(&request) {
		return
	}

	if err := c.manager.DeleteFile(c.ctx.Request.Context(), c.ctx.Param("fileId"), request.FolderPath); err != nil {
		c.RespondManagerError(err)
		return
	}
	c.RespondSuccess(model.SuccessResponse{Success: true})
}
