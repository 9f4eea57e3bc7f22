// Package config provides configuration structures and validation for the application.
// It handles environment-based configuration for both the API gateway and the
// stream consumer, covering the HTTP server, database, upstream stream and
// optional dead-letter queue settings.
package config

import (
	"errors"
	"strings"
	"time"
)

// Config holds the complete application configuration with settings for all components.
// Each field represents a major subsystem's configuration and is validated during
// application startup.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	Postgres    PostgresConfig
	Stream      StreamConfig
	Kafka       KafkaConfig
	Metrics     MetricsConfig
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

// PostgresConfig contains PostgreSQL configuration
type PostgresConfig struct {
	URL             string        // Database connection string
	MaxConns        int32         // Maximum number of open connections
	MinConns        int32         // Maximum number of idle connections
	ConnMaxLifetime time.Duration // Maximum lifetime of a connection
	ConnMaxIdleTime time.Duration // Maximum idle time of a connection
	MigrationsPath  string        // Path to migration files
}

// StreamConfig contains the upstream expense feed configuration
type StreamConfig struct {
	URL                string        // Upstream stream endpoint
	Type               string        // Stream type selector, e.g. "expense"
	MaxRetries         int           // Maximum processing attempts per event
	RetryBackoff       time.Duration // Wait between processing attempts
	ReconnectWait      time.Duration // Wait before reconnecting after a connection failure
	ConnectTimeout     time.Duration // TCP connect timeout
	ReadTimeout        time.Duration // Response header timeout
	MaxConnectAttempts int           // Connection attempt ceiling, 0 = unlimited
}

// KafkaConfig contains the optional dead-letter queue configuration.
// The DLQ is disabled when DLQTopic is empty.
type KafkaConfig struct {
	Brokers           string
	DLQTopic          string
	NumPartitions     int // Number of partitions for topic creation
	ReplicationFactor int // Replication factor for topic creation
	WriteTimeout      time.Duration
}

// MetricsConfig contains the Prometheus endpoint configuration
type MetricsConfig struct {
	Port int // Port for the /metrics listener, 0 disables it
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

	// Validate PostgreSQL config
	if c.Postgres.URL == "" {
		validationErrors = append(validationErrors, "POSTGRES_URL is required")
	}
	if c.Postgres.MaxConns <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONNS must be greater than 0")
	}
	if c.Postgres.MinConns <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MIN_CONNS must be greater than 0")
	}
	if c.Postgres.ConnMaxLifetime <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_LIFETIME must be greater than 0")
	}
	if c.Postgres.ConnMaxIdleTime <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_IDLE_TIME must be greater than 0")
	}

	// Validate Stream config
	if c.Stream.URL == "" {
		validationErrors = append(validationErrors, "STREAM_URL is required")
	}
	if c.Stream.Type == "" {
		validationErrors = append(validationErrors, "STREAM_TYPE is required")
	}
	if c.Stream.MaxRetries <= 0 {
		validationErrors = append(validationErrors, "STREAM_MAX_RETRIES must be greater than 0")
	}
	if c.Stream.RetryBackoff <= 0 {
		validationErrors = append(validationErrors, "STREAM_RETRY_BACKOFF must be greater than 0")
	}
	if c.Stream.ReconnectWait <= 0 {
		validationErrors = append(validationErrors, "STREAM_RECONNECT_WAIT must be greater than 0")
	}
	if c.Stream.ConnectTimeout <= 0 {
		validationErrors = append(validationErrors, "STREAM_CONNECT_TIMEOUT must be greater than 0")
	}
	if c.Stream.ReadTimeout <= 0 {
		validationErrors = append(validationErrors, "STREAM_READ_TIMEOUT must be greater than 0")
	}
	if c.Stream.MaxConnectAttempts < 0 {
		validationErrors = append(validationErrors, "STREAM_MAX_CONNECT_ATTEMPTS must not be negative")
	}

	// Validate Kafka config only when the DLQ is enabled
	if c.Kafka.DLQTopic != "" {
		if len(c.Kafka.Brokers) == 0 {
			validationErrors = append(validationErrors, "KAFKA_BROKERS is required when KAFKA_DLQ_TOPIC is set")
		}
		if c.Kafka.WriteTimeout <= 0 {
			validationErrors = append(validationErrors, "KAFKA_WRITE_TIMEOUT must be greater than 0")
		}
	}

	if c.Metrics.Port < 0 {
		validationErrors = append(validationErrors, "METRICS_PORT must not be negative")
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}

	return nil
}
