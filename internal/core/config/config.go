// Package config provides configuration management for the remap process.
package config

import (
	"fmt"
	"time"

	"github.com/solatis/remap/internal/types"
)

// RemapConfig holds every process setting.
type RemapConfig struct {
	// remap.*
	ProgramFile     string
	Workers         int
	DropOnError     bool
	MaxBatchSize    int
	MaxSourceLength int

	// server.*
	Host           string
	Port           int
	RequestTimeout time.Duration
	MaxPayloadSize int

	// enrichment.*
	EnrichmentDBURL string

	// log.*
	LogLevel  string
	LogFormat string
}

// DefaultRemapConfig returns configuration with default values.
// Workers of 0 means one per CPU.
func DefaultRemapConfig() *RemapConfig {
	return &RemapConfig{
		ProgramFile:     "",
		Workers:         0,
		DropOnError:     false,
		MaxBatchSize:    10000,
		MaxSourceLength: types.DefaultMaxSourceLength,
		Host:            "0.0.0.0",
		Port:            50061,
		RequestTimeout:  30 * time.Second,
		MaxPayloadSize:  types.MaxPayloadSize,
		EnrichmentDBURL: "",
		LogLevel:        "info",
		LogFormat:       "json",
	}
}

// Addr returns host:port for the gRPC listener.
func (c *RemapConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate checks ranges.
func (c *RemapConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port must be between 1 and 65535, got %d", types.ErrInvalidConfig, c.Port)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", types.ErrInvalidConfig, c.Workers)
	}
	if c.MaxBatchSize <= 0 {
		return fmt.Errorf("%w: max_batch_size must be positive, got %d", types.ErrInvalidConfig, c.MaxBatchSize)
	}
	if c.MaxSourceLength <= 0 {
		return fmt.Errorf("%w: max_source_length must be positive, got %d", types.ErrInvalidConfig, c.MaxSourceLength)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request_timeout must be positive, got %v", types.ErrInvalidConfig, c.RequestTimeout)
	}
	if c.MaxPayloadSize <= 0 {
		return fmt.Errorf("%w: max_payload_size must be positive, got %d", types.ErrInvalidConfig, c.MaxPayloadSize)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level must be debug, info, warn or error, got %q", types.ErrInvalidConfig, c.LogLevel)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("%w: log.format must be json or text, got %q", types.ErrInvalidConfig, c.LogFormat)
	}
	return nil
}
