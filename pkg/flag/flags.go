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

package flag

import (
	"strings"
	"time"
)

var (
	// ServerPort controls the HTTP listener port.
	ServerPort int

	// ServerLogLevel controls the server log verbosity.
	ServerLogLevel int

	// StorageRoot is the directory holding one subdirectory per folder.
	StorageRoot string

	// IndexBackend selects where the index document lives: file, mysql or s3.
	IndexBackend string

	// IndexFile is the index path for the file backend.
	IndexFile string

	// MySQLDSN is the data source name for the mysql backend.
	MySQLDSN string

	// S3Bucket, S3Key, S3Region and S3Endpoint locate the index object for the s3 backend.
	S3Bucket   string
	S3Key      string
	S3Region   string
	S3Endpoint string

	// S3AccessKey and S3SecretKey are static credentials. When empty the
	// default AWS credential chain is used.
	S3AccessKey string
	S3SecretKey string

	// CorsAllowOrigins is a comma separated origin list; empty or "*" allows all.
	CorsAllowOrigins string

	// AuditInterval schedules the index audit. Zero disables it.
	AuditInterval time.Duration

	// ApiGracefulShutdownTimeout bounds how long in-flight requests may run on shutdown.
	ApiGracefulShutdownTimeout time.Duration
)

// AllowedOrigins splits CorsAllowOrigins, dropping blanks.
func AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(CorsAllowOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
