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

// Package events fans index change notifications out to streaming clients.
package events

import (
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v4"
)

// Event types published by the folder manager.
const (
	FolderCreated = "folder.created"
	FolderDeleted = "folder.deleted"
	FileCreated   = "file.created"
	FileUpdated   = "file.updated"
	FileDeleted   = "file.deleted"

	// Ping is written by streaming endpoints to keep idle connections open.
	Ping = "ping"
)

const subscriberBuffer = 64

// Event describes one committed change to the index.
type Event struct {
	Type      string `json:"type"`
	FolderID  string `json:"folderId,omitempty"`
	FileID    string `json:"fileId,omitempty"`
	Name      string `json:"name,omitempty"`
	Path      string `json:"path,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// ToJSON serializes the event for streaming.
func (e Event) ToJSON() []byte {
	bytes, _ := json.Marshal(e)
	return bytes
}

// Publisher accepts events. The folder manager depends on this, not on Broadcaster.
type Publisher interface {
	Publish(Event)
}

// Broadcaster delivers every published event to every subscriber.
// Channels are never closed by the broadcaster; Unsubscribe only stops delivery.
type Broadcaster struct {
	nextID      atomic.Uint64
	subscribers *xsync.Map[uint64, chan Event]
	onChange    func(int)
}

// NewBroadcaster returns an empty broadcaster. onChange, when set, is called
// with the subscriber count after every Subscribe and Unsubscribe.
func NewBroadcaster(onChange func(int)) *Broadcaster {
	return &Broadcaster{
		subscribers: xsync.NewMap[uint64, chan Event](),
		onChange:    onChange,
	}
}

// Subscribe registers a new subscriber. The caller must call Unsubscribe with
// the returned id when done.
func (b *Broadcaster) Subscribe() (uint64, <-chan Event) {
	id := b.nextID.Add(1)
	ch := make(chan Event, subscriberBuffer)
	b.subscribers.Store(id, ch)
	b.notify()
	return id, ch
}

// Unsubscribe stops delivery to the subscriber.
func (b *Broadcaster) Unsubscribe(id uint64) {
	if _, ok := b.subscribers.LoadAndDelete(id); ok {
		b.notify()
	}
}

// Publish sends the event to all subscribers without blocking; slow
// subscribers miss events once their buffer is full.
func (b *Broadcaster) Publish(event Event) {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UnixMilli()
	}
	b.subscribers.Range(func(_ uint64, ch chan Event) bool {
		select {
		case ch <- event:
		default:
		}
		return true
	})
}

// Count returns the number of subscribers.
func (b *Broadcaster) Count() int {
	return b.subscribers.Size()
}

func (b *Broadcaster) notify() {
	if b.onChange != nil {
		b.onChange(b.Count())
	}
}
