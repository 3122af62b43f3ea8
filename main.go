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

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "go.uber.org/automaxprocs/maxprocs"

	"github.com/alibaba/opensandbox/folderd/pkg/audit"
	"github.com/alibaba/opensandbox/folderd/pkg/events"
	"github.com/alibaba/opensandbox/folderd/pkg/flag"
	"github.com/alibaba/opensandbox/folderd/pkg/index"
	"github.com/alibaba/opensandbox/folderd/pkg/log"
	"github.com/alibaba/opensandbox/folderd/pkg/manager"
	"github.com/alibaba/opensandbox/folderd/pkg/metrics"
	"github.com/alibaba/opensandbox/folderd/pkg/storage"
	"github.com/alibaba/opensandbox/folderd/pkg/util/safego"
	"github.com/alibaba/opensandbox/folderd/pkg/web"
)

// main initializes and starts the folderd server.
func main() {
	flag.InitFlags()

	log.SetLevel(flag.ServerLogLevel)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	safego.InitPanicLogger(ctx)

	store, err := index.Open(ctx, index.Config{
		Backend:   flag.IndexBackend,
		Path:      flag.IndexFile,
		DSN:       flag.MySQLDSN,
		Bucket:    flag.S3Bucket,
		Key:       flag.S3Key,
		Region:    flag.S3Region,
		Endpoint:  flag.S3Endpoint,
		AccessKey: flag.S3AccessKey,
		SecretKey: flag.S3SecretKey,
	})
	if err != nil {
		log.Fatal("failed to open %s index: %v", flag.IndexBackend, err)
	}
	defer store.Close()

	gateway, err := storage.NewLocal(flag.StorageRoot)
	if err != nil {
		log.Fatal("failed to open storage root: %v", err)
	}

	broadcaster := events.NewBroadcaster(metrics.SetEventSubscribers)
	mgr := manager.New(store, gateway, manager.WithPublisher(broadcaster))
	if err := mgr.Init(ctx); err != nil {
		log.Fatal("failed to initialize storage: %v", err)
	}

	if flag.AuditInterval > 0 {
		scheduler, err := audit.NewScheduler(mgr, flag.AuditInterval)
		if err != nil {
			log.Fatal("failed to schedule index audit: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	engine := web.NewRouter(mgr, broadcaster, flag.AllowedOrigins())
	addr := fmt.Sprintf(":%d", flag.ServerPort)
	server := newServer(ctx, addr, engine)

	serveErr := make(chan error, 1)
	safego.Go(func() {
		log.Info("folderd listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	})

	select {
	case err := <-serveErr:
		log.Error("failed to start folderd server: %v", err)
	case <-ctx.Done():
		log.Info("shutting down folderd")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), flag.ApiGracefulShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown: %v", err)
	}
}

// newServer builds the HTTP server. Request contexts derive from ctx, so
// streaming handlers end when the process is asked to stop.
func newServer(ctx context.Context, addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:        addr,
		Handler:     handler,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
}
