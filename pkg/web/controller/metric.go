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
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"

	"github.com/alibaba/opensandbox/folderd/pkg/log"
	"github.com/alibaba/opensandbox/folderd/pkg/web/model"
)

// StatsReader reports the size of the index.
type StatsReader interface {
	Stats(ctx context.Context) (folders, files int, err error)
}

// MetricController handles host and index metrics requests
type MetricController struct {
	*basicController
	stats StatsReader
}

func NewMetricController(ctx *gin.Context, stats StatsReader) *MetricController {
	return &MetricController{basicController: newBasicController(ctx), stats: stats}
}

// GetMetrics returns current host metrics and index counts
func (c *MetricController) GetMetrics() {
	metrics, err := c.readMetrics(c.ctx.Request.Context())
	if err != nil {
		c.RespondError(
			http.StatusInternalServerError,
			model.ErrorCodeRuntimeError,
			fmt.Sprintf("error reading runtime metrics. %v", err),
		)
		return
	}

	c.RespondSuccess(metrics)
}

// WatchMetrics streams metrics via SSE every interval seconds (default 1)
func (c *MetricController) WatchMetrics() {
	interval := c.QueryInt64(c.ctx.Query("interval"), 1)
	if interval < 1 {
		interval = 1
	}
	c.setupSSEResponse()

	for {
		select {
		case <-c.ctx.Request.Context().Done():
			return
		case <-time.After(time.Duration(interval) * time.Second):
			func() {
				if flusher, ok := c.ctx.Writer.(http.Flusher); ok {
					defer flusher.Flush()
				}
				metrics, err := c.readMetrics(c.ctx.Request.Context())
				if err != nil {
					msg, _ := json.Marshal(map[string]string{ //nolint:errchkjson
						"error": err.Error(),
					})
					_, err = c.ctx.Writer.Write(append(msg, '\n'))
					if err != nil {
						log.Error("WatchMetrics write data %s error: %v", string(msg), err)
					}
				} else {
					msg, _ := json.Marshal(metrics) //nolint:errchkjson
					_, err = c.ctx.Writer.Write(append(msg, '\n'))
					if err != nil {
						log.Error("WatchMetrics write data %s error: %v", string(msg), err)
					}
				}
			}()
		}
	}
}

// readMetrics collects current CPU, memory and index metrics
func (c *MetricController) readMetrics(ctx context.Context) (*model.Metrics, error) {
	metric := model.NewMetrics()

	metric.CpuCount = float64(runtime.GOMAXPROCS(-1))
	cpuPercent, err := cpu.Percent(time.Second, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get CPU percent: %w", err)
	}
	if len(cpuPercent) > 0 {
		metric.CpuUsedPct = cpuPercent[0]
	}

	vmStat, err := mem.VirtualMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to get memory info: %w", err)
	}
	metric.MemTotalMiB = float64(vmStat.Total) / 1024 / 1024
	metric.MemUsedMiB = float64(vmStat.Used) / 1024 / 1024

	if c.stats != nil {
		metric.Folders, metric.Files, err = c.stats.Stats(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read index stats: %w", err)
		}
	}

	return metric, nil
}
