/*
 *  Copyright (c) 2025, WSO2 LLC. (http://www.wso2.org) All Rights Reserved.
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 *
 */

package config

import (
	"fmt"
	"sync"

	"github.com/kelseyhightower/envconfig"
)

// Server holds the configuration parameters for the application.
type Server struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"DEBUG"`

	// Server configurations
	Port string `envconfig:"PORT" default:"9443"`

	// Database configurations
	Database     Database `envconfig:"DATABASE"`
	DBSchemaPath string   `envconfig:"DB_SCHEMA_PATH" default:"./internal/database/schema.sql"`

	// Token signing configurations
	Token Token `envconfig:"TOKEN"`

	// OAuth authorization server configurations
	OAuth OAuth `envconfig:"OAUTH"`

	// Rate limiting configurations
	RateLimit RateLimit `envconfig:"RATE_LIMIT"`

	// Webhook delivery configurations
	Webhook Webhook `envconfig:"WEBHOOK"`

	// Versioned endpoint registry seed file
	EndpointRegistryPath string `envconfig:"ENDPOINT_REGISTRY_PATH" default:"./resources/endpoints.yaml"`

	// DeprecationDocsURL is advertised in Link headers on deprecated endpoints
	DeprecationDocsURL string `envconfig:"DEPRECATION_DOCS_URL" default:"https://developer.example.com/docs/deprecations"`

	// OpenAPI document served to developers
	OpenAPIPath string `envconfig:"OPENAPI_PATH" default:"./resources/openapi.yaml"`

	// WebSocket configurations for the delivery event stream
	WebSocket WebSocket `envconfig:"WEBSOCKET"`

	// TLS configurations
	TLS TLS `envconfig:"TLS"`
}

// TLS holds TLS certificate configuration
type TLS struct {
	CertDir string `envconfig:"CERT_DIR" default:"./data/certs"`
}

// Token holds bearer-token signing configuration
type Token struct {
	SecretKey string `envconfig:"SECRET_KEY" default:"your-secret-key-change-in-production"`
	// TTLSeconds is the lifetime of API-key bearer tokens and OAuth access tokens.
	TTLSeconds int `envconfig:"TTL_SECONDS" default:"3600"`
}

// OAuth holds authorization-server configuration
type OAuth struct {
	// AuthorizationCodeTTLSeconds is the lifetime of issued authorization codes.
	AuthorizationCodeTTLSeconds int `envconfig:"CODE_TTL_SECONDS" default:"600"`
	// RefreshTokenTTLSeconds is the lifetime of issued refresh tokens.
	RefreshTokenTTLSeconds int `envconfig:"REFRESH_TOKEN_TTL_SECONDS" default:"2592000"`
	// TokenEndpointRatePerMin throttles the token endpoint per client IP.
	TokenEndpointRatePerMin int `envconfig:"TOKEN_ENDPOINT_RATE_PER_MINUTE" default:"60"`
}

// RateLimit holds default per-API-key quota thresholds
type RateLimit struct {
	RequestsPerMinute int `envconfig:"REQUESTS_PER_MINUTE" default:"60"`
	RequestsPerHour   int `envconfig:"REQUESTS_PER_HOUR" default:"1000"`
	RequestsPerDay    int `envconfig:"REQUESTS_PER_DAY" default:"10000"`
}

// Webhook holds webhook delivery configuration
type Webhook struct {
	// DeliveryTimeout is the HTTP timeout for a single delivery attempt, in seconds.
	DeliveryTimeout int `envconfig:"DELIVERY_TIMEOUT" default:"10"`
	// MaxFailures is the consecutive-failure ceiling after which a webhook is disabled.
	MaxFailures int `envconfig:"MAX_FAILURES" default:"5"`
	// DispatchWorkers is the number of concurrent delivery workers.
	DispatchWorkers int `envconfig:"DISPATCH_WORKERS" default:"4"`
}

// WebSocket holds WebSocket-specific configuration
type WebSocket struct {
	MaxConnections    int `envconfig:"WS_MAX_CONNECTIONS" default:"1000"`
	ConnectionTimeout int `envconfig:"WS_CONNECTION_TIMEOUT" default:"30"` // seconds
}

// Database holds database-specific configuration
type Database struct {
	Driver string `envconfig:"DRIVER" default:"sqlite3"`
	// DBPath is the file path for SQLite databases.
	// Use DATABASE_DB_PATH to override; keeping it distinct from the OS PATH variable.
	Path            string `envconfig:"DB_PATH" default:"./data/developer_api.db"`
	Host            string `envconfig:"HOST" default:"localhost"`
	Port            int    `envconfig:"PORT" default:"5432"`
	Name            string `envconfig:"NAME" default:"developer_api"`
	User            string `envconfig:"USER" default:""`
	Password        string `envconfig:"PASSWORD" default:""`
	SSLMode         string `envconfig:"SSL_MODE" default:"disable"`
	MaxOpenConns    int    `envconfig:"MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int    `envconfig:"MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime int    `envconfig:"CONN_MAX_LIFETIME" default:"300"` // seconds

	// ExecuteSchemaDDL controls whether to run the schema DDL (CREATE TABLE, etc.) on startup.
	// Set to false when the DB user lacks DDL privileges (e.g. deployed Postgres with restricted role).
	// Env: DATABASE_EXECUTE_SCHEMA_DDL (default: true)
	ExecuteSchemaDDL bool `envconfig:"EXECUTE_SCHEMA_DDL" default:"true"`
}

// package-level variable and mutex for thread safety
var (
	processOnce     sync.Once
	settingInstance *Server
)

// GetConfig initializes and returns a singleton instance of the Server struct.
// It uses sync.Once to ensure that the initialization logic is executed only once,
// making it safe for concurrent use. If there is an error during the initialization,
// the function will panic.
func GetConfig() *Server {
	var err error
	processOnce.Do(func() {
		settingInstance = &Server{}
		err = envconfig.Process("", settingInstance)
		if err == nil {
			err = validateConfig(settingInstance)
		}
	})
	if err != nil {
		panic(err)
	}
	return settingInstance
}

// validateConfig checks cross-field constraints that envconfig defaults cannot express
func validateConfig(cfg *Server) error {
	if cfg.Token.SecretKey == "" {
		return fmt.Errorf("TOKEN_SECRET_KEY must not be empty")
	}
	if cfg.Token.TTLSeconds <= 0 {
		return fmt.Errorf("TOKEN_TTL_SECONDS must be positive")
	}
	if cfg.OAuth.AuthorizationCodeTTLSeconds <= 0 {
		return fmt.Errorf("OAUTH_CODE_TTL_SECONDS must be positive")
	}
	if cfg.OAuth.RefreshTokenTTLSeconds <= 0 {
		return fmt.Errorf("OAUTH_REFRESH_TOKEN_TTL_SECONDS must be positive")
	}
	if cfg.RateLimit.RequestsPerMinute <= 0 || cfg.RateLimit.RequestsPerHour <= 0 || cfg.RateLimit.RequestsPerDay <= 0 {
		return fmt.Errorf("rate limit thresholds must be positive")
	}
	if cfg.Webhook.MaxFailures <= 0 {
		return fmt.Errorf("WEBHOOK_MAX_FAILURES must be positive")
	}
	return nil
}
