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
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alibaba/opensandbox/folderd/pkg/errdefs"
	"github.com/alibaba/opensandbox/folderd/pkg/web/model"
)

type basicController struct {
	ctx *gin.Context
}

func newBasicController(ctx *gin.Context) *basicController {
	return &basicController{ctx: ctx}
}

func (c *basicController) RespondError(status int, code model.ErrorCode, message ...string) {
	resp := model.ErrorResponse{
		Code:    code,
		Message: "",
	}
	if len(message) > 0 {
		resp.Message = message[0]
	}
	c.ctx.JSON(status, resp)
}

// RespondManagerError answers with the status and code matching err's kind.
func (c *basicController) RespondManagerError(err error) {
	c.RespondError(errdefs.HTTPStatus(err), errorCode(err), err.Error())
}

func (c *basicController) RespondSuccess(data any) {
	if data == nil {
		c.ctx.Status(http.StatusOK)
		return
	}
	c.ctx.JSON(http.StatusOK, data)
}

func (c *basicController) RespondCreated(data any) {
	c.ctx.JSON(http.StatusCreated, data)
}

func (c *basicController) QueryInt64(query string, defaultValue int64) int64 {
	val, err := strconv.ParseInt(query, 10, 64)
	if err != nil {
		return defaultValue
	}
	return val
}

// bindJSON decodes the request body into target. An empty body leaves
// target untouched so that field validation reports what is missing.
func (c *basicController) bindJSON(target any) error {
	if c.ctx.Request.Body == nil || c.ctx.Request.Body == http.NoBody {
		return nil
	}
	decoder := json.NewDecoder(c.ctx.Request.Body)
	if err := decoder.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

type validatable interface {
	Validate() error
}

// bindRequest decodes and validates the body, answering 400 on failure.
func (c *basicController) bindRequest(request validatable) bool {
	if err := c.bindJSON(request); err != nil {
		c.RespondError(
			http.StatusBadRequest,
			model.ErrorCodeInvalidRequest,
			fmt.Sprintf("error parsing request, MAYBE invalid body format. %v", err),
		)
		return false
	}
	if err := request.Validate(); err != nil {
		c.RespondError(
			http.StatusBadRequest,
			model.ErrorCodeInvalidRequest,
			fmt.Sprintf("invalid request, validation error %v", err),
		)
		return false
	}
	return true
}

func errorCode(err error) model.ErrorCode {
	switch {
	case errors.Is(err, errdefs.ErrInvalidInput):
		return model.ErrorCodeInvalidRequest
	case errors.Is(err, errdefs.ErrConflict), errors.Is(err, errdefs.ErrAlreadyExists):
		return model.ErrorCodeFolderExists
	case errors.Is(err, errdefs.ErrNotFound):
		return model.ErrorCodeNotFound
	default:
		return model.ErrorCodeRuntimeError
	}
}
