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
	"errors"
	"flag"
	"io/fs"
	stdlog "log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/alibaba/opensandbox/folderd/pkg/log"
)

const (
	dotEnvFile                 = ".env"
	configFileEnv              = "FOLDERD_CONFIG"
	portEnv                    = "FOLDERD_PORT"
	logLevelEnv                = "FOLDERD_LOG_LEVEL"
	storageRootEnv             = "FOLDERD_STORAGE_ROOT"
	indexBackendEnv            = "FOLDERD_INDEX_BACKEND"
	indexFileEnv               = "FOLDERD_INDEX_FILE"
	mysqlDSNEnv                = "FOLDERD_MYSQL_DSN"
	s3BucketEnv                = "FOLDERD_S3_BUCKET"
	s3KeyEnv                   = "FOLDERD_S3_KEY"
	s3RegionEnv                = "FOLDERD_S3_REGION"
	s3EndpointEnv              = "FOLDERD_S3_ENDPOINT"
	s3AccessKeyEnv             = "FOLDERD_S3_ACCESS_KEY"
	s3SecretKeyEnv             = "FOLDERD_S3_SECRET_KEY"
	corsAllowOriginsEnv        = "FOLDERD_CORS_ALLOW_ORIGINS"
	auditIntervalEnv           = "FOLDERD_AUDIT_INTERVAL"
	gracefulShutdownTimeoutEnv = "FOLDERD_API_GRACE_SHUTDOWN"
)

// InitFlags resolves settings from defaults, the .env file, the environment,
// the YAML file named by FOLDERD_CONFIG and finally the command line.
func InitFlags() {
	setDefaults()

	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn("Failed to load %s: %v", dotEnvFile, err)
	}
	loadEnv()

	if path := os.Getenv(configFileEnv); path != "" {
		override, err := LoadConfigOverrideFile(path)
		if err != nil {
			stdlog.Panicf("Failed to load config file %s: %v", path, err)
		}
		override.Merge()
	}

	registerFlags(flag.CommandLine)

	// Parse flags - these override everything above
	flag.Parse()

	log.Info("Storage root is: %s", StorageRoot)
	log.Info("Index backend is: %s", IndexBackend)
}

func setDefaults() {
	ServerPort = 3000
	ServerLogLevel = 6
	StorageRoot = "Mfolder"
	IndexBackend = "file"
	IndexFile = "FilesList.json"
	MySQLDSN = ""
	S3Bucket = ""
	S3Key = "FilesList.json"
	S3Region = ""
	S3Endpoint = ""
	S3AccessKey = ""
	S3SecretKey = ""
	CorsAllowOrigins = "*"
	AuditInterval = 0
	ApiGracefulShutdownTimeout = time.Second * 3
}

func loadEnv() {
	envInt(portEnv, &ServerPort)
	envInt(logLevelEnv, &ServerLogLevel)
	envString(storageRootEnv, &StorageRoot)
	envString(indexBackendEnv, &IndexBackend)
	envString(indexFileEnv, &IndexFile)
	envString(mysqlDSNEnv, &MySQLDSN)
	envString(s3BucketEnv, &S3Bucket)
	envString(s3KeyEnv, &S3Key)
	envString(s3RegionEnv, &S3Region)
	envString(s3EndpointEnv, &S3Endpoint)
	envString(s3AccessKeyEnv, &S3AccessKey)
	envString(s3SecretKeyEnv, &S3SecretKey)
	envString(corsAllowOriginsEnv, &CorsAllowOrigins)
	envDuration(auditIntervalEnv, &AuditInterval)
	envDuration(gracefulShutdownTimeoutEnv, &ApiGracefulShutdownTimeout)
}

func registerFlags(set *flag.FlagSet) {
	set.IntVar(&ServerPort, "port", ServerPort, "Server listening port (default: 3000)")
	set.IntVar(&ServerLogLevel, "log-level", ServerLogLevel, "Server log level (0=LevelEmergency, 1=LevelAlert, 2=LevelCritical, 3=LevelError, 4=LevelWarning, 5=LevelNotice, 6=LevelInformational, 7=LevelDebug, default: 6)")
	set.StringVar(&StorageRoot, "storage-root", StorageRoot, "Directory holding the folder directories")
	set.StringVar(&IndexBackend, "index-backend", IndexBackend, "Index backend: file, mysql or s3")
	set.StringVar(&IndexFile, "index-file", IndexFile, "Index file path for the file backend")
	set.StringVar(&MySQLDSN, "mysql-dsn", MySQLDSN, "MySQL DSN for the mysql backend")
	set.StringVar(&S3Bucket, "s3-bucket", S3Bucket, "Bucket for the s3 backend")
	set.StringVar(&S3Key, "s3-key", S3Key, "Object key for the s3 backend")
	set.StringVar(&S3Region, "s3-region", S3Region, "Region for the s3 backend")
	set.StringVar(&S3Endpoint, "s3-endpoint", S3Endpoint, "Custom endpoint for S3 compatible stores")
	set.StringVar(&S3AccessKey, "s3-access-key", S3AccessKey, "Static access key for the s3 backend")
	set.StringVar(&S3SecretKey, "s3-secret-key", S3SecretKey, "Static secret key for the s3 backend")
	set.StringVar(&CorsAllowOrigins, "cors-allow-origins", CorsAllowOrigins, "Comma separated allowed origins, * for any")
	set.DurationVar(&AuditInterval, "audit-interval", AuditInterval, "Index audit interval, 0 disables the audit")
	set.DurationVar(&ApiGracefulShutdownTimeout, "graceful-shutdown-timeout", ApiGracefulShutdownTimeout, "API graceful shutdown timeout duration (default: 3s)")
}

func envString(key string, dst *string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}

func envInt(key string, dst *int) {
	value := os.Getenv(key)
	if value == "" {
		return
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		stdlog.Panicf("Failed to parse %s from env: %v", key, err)
	}
	*dst = parsed
}

func envDuration(key string, dst *time.Duration) {
	value := os.Getenv(key)
	if value == "" {
		return
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		stdlog.Panicf("Failed to parse %s from env: %v", key, err)
	}
	*dst = duration
}
