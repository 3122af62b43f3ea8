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

package index

import (
	"context"
	"fmt"
)

// Store loads and saves the whole Document. Implementations keep no state
// between calls beyond their location.
type Store interface {
	// Load returns the persisted document, or an empty one on first run.
	Load(ctx context.Context) (Document, error)
	// Save overwrites the persisted document.
	Save(ctx context.Context, doc Document) error
	// Close releases the resources held by the store.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile  = "file"
	BackendMySQL = "mysql"
	BackendS3    = "s3"
)

// Config selects and configures a Store backend.
type Config struct {
	Backend string

	// file
	Path string

	// mysql
	DSN string

	// s3
	Bucket    string
	Key       string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// Open builds the Store described by cfg.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", BackendFile:
		return NewFileStore(cfg.Path)
	case BackendMySQL:
		return NewMySQLStore(ctx, cfg.DSN)
	case BackendS3:
		return NewS3StoreFromConfig(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown index backend: %s", cfg.Backend)
	}
}
