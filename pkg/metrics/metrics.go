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

// Package metrics provides Prometheus metrics for the folderd server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folderd_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "folderd_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folderd_operations_total",
			Help: "Folder and file operations by outcome",
		},
		[]string{"op", "status"},
	)

	indexFolders = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "folderd_index_folders",
			Help: "Number of folders in the index after the last save",
		},
	)

	indexFiles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "folderd_index_files",
			Help: "Number of files in the index after the last save",
		},
	)

	auditDivergences = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "folderd_audit_divergences",
			Help: "Index/filesystem divergences found by the last audit",
		},
	)

	eventSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "folderd_event_subscribers",
			Help: "Number of connected event stream clients",
		},
	)
)

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordOperation records the outcome of a manager operation.
func RecordOperation(op string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	operationsTotal.WithLabelValues(op, status).Inc()
}

// SetIndexSize publishes the folder and file counts.
func SetIndexSize(folders, files int) {
	indexFolders.Set(float64(folders))
	indexFiles.Set(float64(files))
}

// SetAuditDivergences publishes the result of the last audit.
func SetAuditDivergences(n int) {
	auditDivergences.Set(float64(n))
}

// SetEventSubscribers publishes the number of streaming clients.
func SetEventSubscribers(n int) {
	eventSubscribers.Set(float64(n))
}
