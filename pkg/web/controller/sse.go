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
	"io"
	"net/http"
	"sync"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/alibaba/opensandbox/folderd/pkg/events"
	"github.com/alibaba/opensandbox/folderd/pkg/log"
)

var sseHeaders = map[string]string{
	"Content-Type":      "text/event-stream",
	"Cache-Control":     "no-cache",
	"Connection":        "keep-alive",
	"X-Accel-Buffering": "no",
}

var ssePingInterval = 3 * time.Second

func (c *basicController) setupSSEResponse() {
	for key, value := range sseHeaders {
		c.ctx.Writer.Header().Set(key, value)
	}
	if flusher, ok := c.ctx.Writer.(http.Flusher); ok {
		flusher.Flush()
	}
}

// sseWriter serializes frames written by the event loop and the ping loop.
type sseWriter struct {
	sync.Mutex
	c *basicController
}

// writeSingleEvent serializes one SSE frame.
func (w *sseWriter) writeSingleEvent(handler string, data []byte, verbose bool) {
	c := w.c
	if c == nil || c.ctx == nil || c.ctx.Writer == nil {
		return
	}

	select {
	case <-c.ctx.Request.Context().Done():
		log.Warn("StreamEvent.%s: client disconnected", handler)
		return
	default:
	}

	w.Lock()
	defer w.Unlock()
	defer func() {
		if flusher, ok := c.ctx.Writer.(http.Flusher); ok {
			flusher.Flush()
		}
	}()

	payload := append(data, '\n', '\n')
	n, err := c.ctx.Writer.Write(payload)
	if err == nil && n != len(payload) {
		err = io.ErrShortWrite
	}

	if err != nil {
		log.Error("StreamEvent.%s write data %s error: %v", handler, string(data), err)
	} else if verbose {
		log.Debug("StreamEvent.%s write data %s", handler, string(data))
	}
}

// ping periodically keeps the SSE connection alive.
func (w *sseWriter) ping(ctx context.Context) {
	wait.Until(func() {
		payload := events.Event{
			Type:      events.Ping,
			Timestamp: time.Now().UnixMilli(),
		}.ToJSON()
		w.writeSingleEvent("Ping", payload, false)
	}, ssePingInterval, ctx.Done())
}
