package config

import (
	"fmt"
	"time"
)

// BaseConfig is the single unified configuration structure for Monograph.
// It provides the configuration options shared by the adapter, the store
// and the CLI, organized into logical sections.
type BaseConfig struct {
	// Core identification fields

	// Name identifies the adapter instance
	Name string `yaml:"name" json:"name"`
	// Type specifies the configuration role (e.g., "adapter", "export", "import")
	Type string `yaml:"type" json:"type"`
	// Version indicates the configuration version
	Version string `yaml:"version" json:"version"`

	// Performance settings control batch and cursor sizing
	Performance PerformanceConfig `yaml:"performance" json:"performance"`

	// Timeouts define various timeout durations
	Timeouts TimeoutConfig `yaml:"timeouts" json:"timeouts"`

	// Reliability settings for error handling and resilience
	Reliability ReliabilityConfig `yaml:"reliability" json:"reliability"`

	// Security configuration for database credentials
	Security SecurityConfig `yaml:"security" json:"security"`

	// Observability settings for monitoring and debugging
	Observability ObservabilityConfig `yaml:"observability" json:"observability"`
}

// PerformanceConfig contains all performance-related settings.
// These control how much read and write traffic is grouped per round trip.
type PerformanceConfig struct {
	// BatchSize controls the number of documents inserted together
	BatchSize int `yaml:"batch_size" json:"batch_size"`
	// FetchBatchSize sets the cursor batch size hint for collection reads
	FetchBatchSize int32 `yaml:"fetch_batch_size" json:"fetch_batch_size"`
}

// TimeoutConfig contains all timeout-related settings.
// These prevent operations from hanging indefinitely.
type TimeoutConfig struct {
	// Request timeout for individual operations
	Request time.Duration `yaml:"request" json:"request"`
	// Connection timeout for establishing connections
	Connection time.Duration `yaml:"connection" json:"connection"`
}

// ReliabilityConfig contains reliability and error handling settings.
type ReliabilityConfig struct {
	// RetryAttempts sets maximum retry attempts for failed batch flushes
	RetryAttempts int `yaml:"retry_attempts" json:"retry_attempts"`
	// RetryDelay is the initial delay between retries
	RetryDelay time.Duration `yaml:"retry_delay" json:"retry_delay"`
	// RetryMultiplier increases delay exponentially
	RetryMultiplier float64 `yaml:"retry_multiplier" json:"retry_multiplier"`
	// MaxRetryDelay caps the maximum retry delay
	MaxRetryDelay time.Duration `yaml:"max_retry_delay" json:"max_retry_delay"`
}

// SecurityConfig contains credentials for the document database.
// Connection details live in the Credentials map so the same structure
// works unchanged across deployments; use ${ENV_VAR} references in YAML
// rather than literal secrets.
type SecurityConfig struct {
	// Credentials stores database connection settings (uri, database, graphs_collection)
	Credentials map[string]string `yaml:"credentials" json:"credentials"`
}

// ObservabilityConfig contains monitoring and observability settings.
type ObservabilityConfig struct {
	// EnableMetrics activates Prometheus metrics collection
	EnableMetrics bool `yaml:"enable_metrics" json:"enable_metrics"`
	// EnableTracing activates span export around adapter operations
	EnableTracing bool `yaml:"enable_tracing" json:"enable_tracing"`
	// LogLevel sets logging verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level" json:"log_level"`
}

// NewBaseConfig creates a new BaseConfig with sensible defaults.
// Specific invocations override the defaults as needed.
func NewBaseConfig(name, configType string) *BaseConfig {
	return &BaseConfig{
		Name:    name,
		Type:    configType,
		Version: "1.0.0",
		Performance: PerformanceConfig{
			BatchSize:      1000,
			FetchBatchSize: 1000,
		},
		Timeouts: TimeoutConfig{
			Request:    30 * time.Second,
			Connection: 10 * time.Second,
		},
		Reliability: ReliabilityConfig{
			RetryAttempts:   3,
			RetryDelay:      time.Second,
			RetryMultiplier: 2.0,
			MaxRetryDelay:   30 * time.Second,
		},
		Security: SecurityConfig{
			Credentials: make(map[string]string),
		},
		Observability: ObservabilityConfig{
			EnableMetrics: true,
			EnableTracing: false,
			LogLevel:      "info",
		},
	}
}

// Validate validates the configuration for correctness.
// It checks required fields and ensures values are within acceptable ranges.
// Callers should run this after loading configuration to catch errors early.
func (bc *BaseConfig) Validate() error {
	if bc.Name == "" {
		return fmt.Errorf("name is required")
	}
	if bc.Type == "" {
		return fmt.Errorf("type is required")
	}
	if bc.Performance.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive")
	}
	if bc.Performance.FetchBatchSize <= 0 {
		return fmt.Errorf("fetch_batch_size must be positive")
	}
	if bc.Reliability.RetryAttempts < 0 {
		return fmt.Errorf("retry_attempts cannot be negative")
	}
	if bc.Reliability.RetryMultiplier < 1 {
		return fmt.Errorf("retry_multiplier must be at least 1")
	}
	if bc.Reliability.MaxRetryDelay < bc.Reliability.RetryDelay {
		return fmt.Errorf("max_retry_delay cannot be below retry_delay")
	}
	switch bc.Observability.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error")
	}
	return nil
}

// HasCredentials returns true if credentials are configured
func (s *SecurityConfig) HasCredentials() bool {
	return len(s.Credentials) > 0
}

// Credential returns a credential value, or the fallback when unset
func (s *SecurityConfig) Credential(key, fallback string) string {
	if v, ok := s.Credentials[key]; ok && v != "" {
		return v
	}
	return fallback
}
