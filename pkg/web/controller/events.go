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
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/alibaba/opensandbox/folderd/pkg/events"
	"github.com/alibaba/opensandbox/folderd/pkg/log"
	"github.com/alibaba/opensandbox/folderd/pkg/util/safego"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// EventSource hands out subscriptions to index change events.
type EventSource interface {
	Subscribe() (uint64, <-chan events.Event)
	Unsubscribe(id uint64)
}

// EventController streams index change events.
type EventController struct {
	*basicController
	source EventSource
}

func NewEventController(ctx *gin.Context, source EventSource) *EventController {
	return &EventController{basicController: newBasicController(ctx), source: source}
}

// StreamEvents streams change events via SSE until the client goes away.
func (c *EventController) StreamEvents() {
	id, ch := c.source.Subscribe()
	defer c.source.Unsubscribe(id)

	ctx, cancel := context.WithCancel(c.ctx.Request.Context())
	writer := &sseWriter{c: c.basicController}

	c.setupSSEResponse()
	pingDone := safego.GoDone(func() { writer.ping(ctx) })
	defer func() {
		cancel()
		<-pingDone
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event := <-ch:
			writer.writeSingleEvent("StreamEvents", event.ToJSON(), true)
		}
	}
}

// WatchEvents streams change events over a websocket. Messages from the
// client are read only to notice when it closes.
func (c *EventController) WatchEvents() {
	conn, err := upgrader.Upgrade(c.ctx.Writer, c.ctx.Request, nil)
	if err != nil {
		log.Warn("WatchEvents: websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	id, ch := c.source.Subscribe()
	defer c.source.Unsubscribe(id)

	closed := safego.GoDone(func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case <-c.ctx.Request.Context().Done():
			return
		case event := <-ch:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(event); err != nil {
				log.Warn("WatchEvents: write event %s: %v", event.Type, err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
