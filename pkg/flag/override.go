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
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigOverride is the YAML config file. Pointer fields distinguish unset
// from zero values.
type ConfigOverride struct {
	Port             *int           `yaml:"port,omitempty"`
	LogLevel         *int           `yaml:"log_level,omitempty"`
	StorageRoot      *string        `yaml:"storage_root,omitempty"`
	IndexBackend     *string        `yaml:"index_backend,omitempty"`
	IndexFile        *string        `yaml:"index_file,omitempty"`
	MySQLDSN         *string        `yaml:"mysql_dsn,omitempty"`
	S3Bucket         *string        `yaml:"s3_bucket,omitempty"`
	S3Key            *string        `yaml:"s3_key,omitempty"`
	S3Region         *string        `yaml:"s3_region,omitempty"`
	S3Endpoint       *string        `yaml:"s3_endpoint,omitempty"`
	S3AccessKey      *string        `yaml:"s3_access_key,omitempty"`
	S3SecretKey      *string        `yaml:"s3_secret_key,omitempty"`
	CorsAllowOrigins *string        `yaml:"cors_allow_origins,omitempty"`
	AuditInterval    *time.Duration `yaml:"audit_interval,omitempty"`
	GracefulShutdown *time.Duration `yaml:"graceful_shutdown_timeout,omitempty"`
}

// LoadConfigOverrideFile reads a YAML config file without applying it.
func LoadConfigOverrideFile(path string) (*ConfigOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var override ConfigOverride
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config file %s: %w", path, err)
	}
	return &override, nil
}

// Merge applies the non-nil values of the override to the package settings.
func (o *ConfigOverride) Merge() {
	mergeValue(&ServerPort, o.Port)
	mergeValue(&ServerLogLevel, o.LogLevel)
	mergeValue(&StorageRoot, o.StorageRoot)
	mergeValue(&IndexBackend, o.IndexBackend)
	mergeValue(&IndexFile, o.IndexFile)
	mergeValue(&MySQLDSN, o.MySQLDSN)
	mergeValue(&S3Bucket, o.S3Bucket)
	mergeValue(&S3Key, o.S3Key)
	mergeValue(&S3Region, o.S3Region)
	mergeValue(&S3Endpoint, o.S3Endpoint)
	mergeValue(&S3AccessKey, o.S3AccessKey)
	mergeValue(&S3SecretKey, o.S3SecretKey)
	mergeValue(&CorsAllowOrigins, o.CorsAllowOrigins)
	mergeValue(&AuditInterval, o.AuditInterval)
	mergeValue(&ApiGracefulShutdownTimeout, o.GracefulShutdown)
}

func mergeValue[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
