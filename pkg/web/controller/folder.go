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

// FolderController handles folder requests.
type FolderController struct {
	*basicController
	manager *manager.Manager
}

func NewFolderController(ctx *gin.Context, mgr *manager.Manager) *FolderController {
	return &FolderController{basicController: newBasicController(ctx), manager: mgr}
}

// CreateFolder creates a folder directory and its index entry.
func (c *FolderController) CreateFolder() {
	var request model.CreateFolderRequest
	if !c.bindRequest(&request) {
		return
	}

	info, err := c.manager.CreateFolder(c.ctx.Request.Context(), request.FolderName)
	if err != nil {
		c.RespondManagerError(err)
		return
	}

	c.RespondCreated(model.CreateFolderResponse{
		ID:        info.ID,
		Name:      info.Name,
		Path:      info.Path,
		CreatedAt: info.CreatedAt,
	})
}

// ListFolders returns the index.
func (c *FolderController) ListFolders() {
	doc, err := c.manager.ListFolders(c.ctx.Request.Context())
	if err != nil {
		c.RespondManagerError(err)
		return
	}
	c.RespondSuccess(model.ListFoldersResponse{Folders: doc})
}

// DeleteFolder removes a folder and everything in it.
func (c *FolderController) DeleteFolder() {
	folderID := c.ctx.Param("folderId")
	if err := c.manager.DeleteFolder(c.ctx.Request.Context(), folderID); err != nil {
		c.RespondManagerError(err)
		return
	}
	c.RespondSuccess(model.SuccessResponse{Success: true})
}

// SearchFiles lists the folder's files whose names match the pattern query.
func (c *FolderController) SearchFiles() {
	folderID := c.ctx.Param("folderId")
	files, err := c.manager.SearchFiles(c.ctx.Request.Context(), folderID, c.ctx.Query("pattern"))
	if err != nil {
		c.RespondManagerError(err)
		return
	}
	c.RespondSuccess(model.SearchFilesResponse{Files: files})
}

// Audit reports where the index and the storage root disagree.
func (c *FolderController) Audit() {
	report, err := c.manager.Audit(c.ctx.Request.Context())
	if err != nil {
		c.RespondManagerError(err)
		return
	}
	c.RespondSuccess(model.NewAuditResponse(report))
}
