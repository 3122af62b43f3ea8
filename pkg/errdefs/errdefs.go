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

// Package errdefs defines the error kinds shared by the storage gateway,
// the index store and the folder manager. Callers match them with errors.Is.
package errdefs

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidInput marks a missing or blank required field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict marks a duplicate folder name.
	ErrConflict = errors.New("conflict")
	// ErrAlreadyExists is reported by the gateway when a path is already taken.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotFound marks a folder or file absent from the index or the disk.
	ErrNotFound = errors.New("not found")
	// ErrIO marks an underlying storage failure.
	ErrIO = errors.New("io error")
)

// HTTPStatus maps an error to the status code the HTTP layer answers with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict), errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
