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
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/client-go/util/retry"

	"github.com/alibaba/opensandbox/folderd/pkg/log"
)

const (
	mysqlTable = "folderd_index"
	mysqlRowID = 1
)

var mysqlConnectBackoff = wait.Backoff{
	Steps:    10,
	Duration: 500 * time.Millisecond,
	Factor:   1.5,
	Jitter:   0.1,
}

// MySQLStore keeps the document as a single row in a MySQL table.
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore connects to dsn, waits for the server to answer and creates
// the index table when missing.
func NewMySQLStore(ctx context.Context, dsn string) (*MySQLStore, error) {
	if dsn == "" {
		return nil, errors.New("mysql dsn is required")
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("create mysql connector: %w", err)
	}
	db := sql.OpenDB(connector)

	err = retry.OnError(mysqlConnectBackoff, func(err error) bool {
		log.Warn("mysql index not reachable, retrying: %v", err)
		return ctx.Err() == nil
	}, func() error {
		return db.PingContext(ctx)
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}

	store := &MySQLStore{db: db}
	if err := store.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *MySQLStore) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+mysqlTable+` (
		id TINYINT UNSIGNED NOT NULL PRIMARY KEY,
		document LONGTEXT NOT NULL,
		updated_at TIMESTAMP(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6) ON UPDATE CURRENT_TIMESTAMP(6)
	)`)
	if err != nil {
		return fmt.Errorf("create %s table: %w", mysqlTable, err)
	}
	return nil
}

// Load reads the document row. A missing row is an empty document.
func (s *MySQLStore) Load(ctx context.Context) (Document, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT document FROM `+mysqlTable+` WHERE id = ?`, mysqlRowID).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, nil
		}
		return nil, fmt.Errorf("select index document: %w", err)
	}
	return Decode(data)
}

// Save upserts the document row.
func (s *MySQLStore) Save(ctx context.Context, doc Document) error {
	data, err := Encode(doc)
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO `+mysqlTable+` (id, document) VALUES (?, ?) ON DUPLICATE KEY UPDATE document = VALUES(document)`,
		mysqlRowID, data)
	if err != nil {
		return fmt.Errorf("upsert index document: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *MySQLStore) Close() error {
	return s.db.Close()
}
