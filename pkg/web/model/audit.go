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

	"github.com/alibaba/opensandbox/folderd/pkg/manager"
)

// Divergence is one disagreement between the index and the storage root.
type Divergence struct {
	Kind     string `json:"kind"`
	FolderID string `json:"folderId,omitempty"`
	FileID   string `json:"fileId,omitempty"`
	Path     string `json:"path"`
}

// AuditResponse is the body of GET /audit.
type AuditResponse struct {
	CheckedAt   time.Time    `json:"checkedAt"`
	Consistent  bool         `json:"consistent"`
	Folders     int          `json:"folders"`
	Files       int          `json:"files"`
	Divergences []Divergence `json:"divergences"`
}

func NewAuditResponse(report manager.Report) AuditResponse {
	resp := AuditResponse{
		CheckedAt:   report.CheckedAt,
		Consistent:  report.Consistent(),
		Folders:     report.Folders,
		Files:       report.Files,
		Divergences: make([]Divergence, 0, len(report.Divergences)),
	}
	for _, d := range report.Divergences {
		resp.Divergences = append(resp.Divergences, Divergence(d))
	}
	return resp
}
