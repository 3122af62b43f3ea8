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

package web

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/alibaba/opensandbox/folderd/pkg/log"
	"github.com/alibaba/opensandbox/folderd/pkg/manager"
	"github.com/alibaba/opensandbox/folderd/pkg/metrics"
	"github.com/alibaba/opensandbox/folderd/pkg/web/controller"
)

// NewRouter builds a Gin engine with all folderd routes.
func NewRouter(mgr *manager.Manager, source controller.EventSource, allowOrigins []string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware(allowOrigins), logMiddleware(), metricsMiddleware())

	r.GET("/ping", controller.PingHandler)

	folders := r.Group("/folders")
	{
		folders.POST("", withFolder(mgr, func(c *controller.FolderController) { c.CreateFolder() }))
		folders.GET("", withFolder(mgr, func(c *controller.FolderController) { c.ListFolders() }))
		folders.DELETE("/:folderId", withFolder(mgr, func(c *controller.FolderController) { c.DeleteFolder() }))
		folders.GET("/:folderId/files", withFolder(mgr, func(c *controller.FolderController) { c.SearchFiles() }))
	}

	files := r.Group("/files")
	{
		files.POST("", withFile(mgr, func(c *controller.FileController) { c.CreateFile() }))
		files.GET("/:folderPath/:fileName", withFile(mgr, func(c *controller.FileController) { c.ReadFile() }))
		files.PUT("/:fileId", withFile(mgr, func(c *controller.FileController) { c.UpdateFile() }))
		files.DELETE("/:fileId", withFile(mgr, func(c *controller.FileController) { c.DeleteFile() }))
	}

	r.GET("/audit", withFolder(mgr, func(c *controller.FolderController) { c.Audit() }))

	stream := r.Group("/events")
	{
		stream.GET("", withEvents(source, func(c *controller.EventController) { c.StreamEvents() }))
		stream.GET("/ws", withEvents(source, func(c *controller.EventController) { c.WatchEvents() }))
	}

	metric := r.Group("/metrics")
	{
		metric.GET("", withMetric(mgr, func(c *controller.MetricController) { c.GetMetrics() }))
		metric.GET("/watch", withMetric(mgr, func(c *controller.MetricController) { c.WatchMetrics() }))
		metric.GET("/prometheus", gin.WrapH(metrics.Handler()))
	}

	return r
}

func withFolder(mgr *manager.Manager, fn func(*controller.FolderController)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		fn(controller.NewFolderController(ctx, mgr))
	}
}

func withFile(mgr *manager.Manager, fn func(*controller.FileController)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		fn(controller.NewFileController(ctx, mgr))
	}
}

func withEvents(source controller.EventSource, fn func(*controller.EventController)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		fn(controller.NewEventController(ctx, source))
	}
}

func withMetric(mgr *manager.Manager, fn func(*controller.MetricController)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		fn(controller.NewMetricController(ctx, mgr))
	}
}

// corsMiddleware allows every origin unless a list without "*" is given.
func corsMiddleware(allowOrigins []string) gin.HandlerFunc {
	config := cors.DefaultConfig()
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}

	config.AllowAllOrigins = len(allowOrigins) == 0
	for _, origin := range allowOrigins {
		if origin == "*" {
			config.AllowAllOrigins = true
		}
	}
	if !config.AllowAllOrigins {
		config.AllowOrigins = allowOrigins
	}

	return cors.New(config)
}

func logMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		log.Info("Requested: %v - %v", ctx.Request.Method, ctx.Request.URL.String())
		ctx.Next()
	}
}

func metricsMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordHTTPRequest(ctx.Request.Method, route, ctx.Writer.Status(), time.Since(start))
	}
}
