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

// Package audit periodically compares the index with the storage root and
// logs what disagrees.
package audit

import (
	"context"
	"errors"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/alibaba/opensandbox/folderd/pkg/log"
	"github.com/alibaba/opensandbox/folderd/pkg/manager"
)

// Auditor produces an index/disk consistency report.
type Auditor interface {
	Audit(ctx context.Context) (manager.Report, error)
}

// Scheduler runs an Auditor on a fixed interval.
type Scheduler struct {
	auditor   Auditor
	scheduler *gocron.Scheduler
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewScheduler prepares a scheduler; nothing runs until Start.
func NewScheduler(auditor Auditor, interval time.Duration) (*Scheduler, error) {
	if interval <= 0 {
		return nil, errors.New("audit interval must be positive")
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		auditor:   auditor,
		scheduler: gocron.NewScheduler(time.UTC),
		ctx:       ctx,
		cancel:    cancel,
	}
	s.scheduler.SingletonModeAll()
	if _, err := s.scheduler.Every(interval).Do(func() { _, _ = s.RunOnce(s.ctx) }); err != nil {
		cancel()
		return nil, err
	}
	return s, nil
}

// Start runs the first audit immediately and then every interval.
func (s *Scheduler) Start() {
	s.scheduler.StartAsync()
}

// Stop cancels a running audit and waits for the scheduler to halt.
func (s *Scheduler) Stop() {
	s.cancel()
	s.scheduler.Stop()
}

// RunOnce audits once and logs every divergence at warn level.
func (s *Scheduler) RunOnce(ctx context.Context) (manager.Report, error) {
	report, err := s.auditor.Audit(ctx)
	if err != nil {
		log.Error("Index audit failed: %v", err)
		return manager.Report{}, err
	}

	if report.Consistent() {
		log.Debug("Index audit: %d folders, %d files, consistent", report.Folders, report.Files)
		return report, nil
	}
	for _, d := range report.Divergences {
		log.Warn("Index audit: %s folder=%s file=%s path=%s", d.Kind, d.FolderID, d.FileID, d.Path)
	}
	return report, nil
}
