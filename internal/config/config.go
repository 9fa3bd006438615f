// Package config provides configuration structures and validation for the application.
// It handles environment-based configuration for all major components including
// server settings, the document store, the payment gateway, and operational parameters.
package config

import (
	"errors"
	"strings"
	"time"
)

// Config holds the complete application configuration with settings for all components.
// Each field represents a major subsystem's configuration (e.g., HTTP server, document
// store, payment gateway) and is validated during application startup.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	MongoDB     MongoDBConfig
	Midtrans    MidtransConfig
	Retry       RetryConfig
	RateLimit   RateLimitConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port            int           // Port to listen on
	ShutdownTimeout time.Duration // Grace period for server shutdown
	ReadTimeout     time.Duration // Maximum duration for reading entire request
	WriteTimeout    time.Duration // Maximum duration for writing response
	IdleTimeout     time.Duration // Maximum duration to wait for next request
}

// MongoDBConfig contains MongoDB configuration
type MongoDBConfig struct {
	URI             string
	Database        string
	Timeout         time.Duration
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
}

// MidtransConfig contains payment gateway credentials and endpoint settings.
// ServerKey doubles as the notification signing secret; its absence is a
// fatal startup condition, never a per-request error.
type MidtransConfig struct {
	ServerKey string        // Merchant server key, also the signature secret
	BaseURL   string        // Snap API base URL (sandbox or production)
	Timeout   time.Duration // HTTP timeout for gateway calls
}

// RetryConfig bounds the resilient writer. A failed store write is re-issued
// up to MaxAttempts times, Delay apart, under an overall Timeout per write.
type RetryConfig struct {
	MaxAttempts int
	Delay       time.Duration
	Timeout     time.Duration
}

// RateLimitConfig tunes the intake admission gate
type RateLimitConfig struct {
	MinInterval time.Duration // Minimum spacing between admitted requests per client
	MaxClients  int           // Capacity of the client tracking map
}

// validate performs comprehensive validation of all configuration values,
// ensuring they meet minimum requirements and logical constraints
func (c *Config) validate() error {
	var validationErrors []string

	// Validate Server config
	if c.Server.Port <= 0 {
		validationErrors = append(validationErrors, "SERVER_PORT must be greater than 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	}
	if c.Server.ReadTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_READ_TIMEOUT must be greater than 0")
	}
	if c.Server.WriteTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_WRITE_TIMEOUT must be greater than 0")
	}
	if c.Server.IdleTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_IDLE_TIMEOUT must be greater than 0")
	}

	// Validate MongoDB config
	if c.MongoDB.URI == "" {
		validationErrors = append(validationErrors, "MONGO_URI is required")
	}
	if c.MongoDB.Database == "" {
		validationErrors = append(validationErrors, "MONGO_DATABASE is required")
	}
	if c.MongoDB.Timeout <= 0 {
		validationErrors = append(validationErrors, "MONGO_TIMEOUT must be greater than 0")
	}
	if c.MongoDB.MaxPoolSize <= 0 {
		validationErrors = append(validationErrors, "MONGO_MAX_POOL_SIZE must be greater than 0")
	}
	if c.MongoDB.MinPoolSize <= 0 {
		validationErrors = append(validationErrors, "MONGO_MIN_POOL_SIZE must be greater than 0")
	}
	if c.MongoDB.MaxConnIdleTime <= 0 {
		validationErrors = append(validationErrors, "MONGO_MAX_CONN_IDLE_TIME must be greater than 0")
	}

	// Validate Midtrans config
	if c.Midtrans.ServerKey == "" {
		validationErrors = append(validationErrors, "MIDTRANS_SERVER_KEY is required")
	}
	if c.Midtrans.BaseURL == "" {
		validationErrors = append(validationErrors, "MIDTRANS_BASE_URL is required")
	}
	if c.Midtrans.Timeout <= 0 {
		validationErrors = append(validationErrors, "MIDTRANS_TIMEOUT must be greater than 0")
	}

	// Validate Retry config
	if c.Retry.MaxAttempts <= 0 {
		validationErrors = append(validationErrors, "RETRY_MAX_ATTEMPTS must be greater than 0")
	}
	if c.Retry.Delay < 0 {
		validationErrors = append(validationErrors, "RETRY_DELAY must not be negative")
	}
	if c.Retry.Timeout <= 0 {
		validationErrors = append(validationErrors, "RETRY_TIMEOUT must be greater than 0")
	}

	// Validate RateLimit config
	if c.RateLimit.MinInterval <= 0 {
		validationErrors = append(validationErrors, "RATE_LIMIT_MIN_INTERVAL must be greater than 0")
	}
	if c.RateLimit.MaxClients <= 0 {
		validationErrors = append(validationErrors, "RATE_LIMIT_MAX_CLIENTS must be greater than 0")
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}

	return nil
}
