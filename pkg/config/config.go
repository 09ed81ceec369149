package config

import (
	"fmt"
	"time"

	"github.com/queryweave/queryweave/engine/compiler"
	"github.com/queryweave/queryweave/engine/llm"
	"github.com/queryweave/queryweave/engine/schema"
	"github.com/queryweave/queryweave/pkg/logger"
)

// Config is the full service configuration, loaded from defaults, an
// optional YAML file, environment variables, and CLI flags.
type Config struct {
	Server ServerConfig `koanf:"server" validate:"required"`
	Source SourceConfig `koanf:"source" validate:"required"`
	LLM    llm.Config   `koanf:"llm"    validate:"required"`
	Retry  RetryConfig  `koanf:"retry"  validate:"required"`
	Log    LogConfig    `koanf:"log"    validate:"required"`
}

type ServerConfig struct {
	Host string `koanf:"host" validate:"required"`
	Port int    `koanf:"port" validate:"gte=1,lte=65535"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SourceConfig describes the table the compiled query reads from and its
// column schema. The schema is configuration, never inferred from a live
// data source.
type SourceConfig struct {
	Table   string         `koanf:"table"`
	View    string         `koanf:"view"`
	Columns []ColumnConfig `koanf:"columns" validate:"min=1,dive"`
}

type ColumnConfig struct {
	Name string `koanf:"name" validate:"required"`
	Type string `koanf:"type" validate:"required"`
}

type RetryConfig struct {
	MaxAttempts int           `koanf:"max_attempts" validate:"gte=1,lte=100"`
	BackoffBase time.Duration `koanf:"backoff_base"`
	BackoffMax  time.Duration `koanf:"backoff_max"`
	Jitter      bool          `koanf:"jitter"`
}

type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `koanf:"json"`
}

// Default returns the built-in configuration. The source table is left
// empty on purpose: compilation fails with a clear error until it is set.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080},
		Source: SourceConfig{
			Columns: []ColumnConfig{
				{Name: "OrderID", Type: "STRING"},
				{Name: "CustomerName", Type: "STRING"},
				{Name: "ProductCategory", Type: "STRING"},
				{Name: "SalesAmount", Type: "FLOAT"},
			},
		},
		LLM: llm.Config{
			Provider: llm.ProviderGoogle,
			Model:    "gemini-2.0-flash",
		},
		Retry: RetryConfig{
			MaxAttempts: 5,
			BackoffBase: time.Second,
			BackoffMax:  30 * time.Second,
		},
		Log: LogConfig{Level: "info"},
	}
}

// SourceSchema materializes the configured columns into an ordered schema.
func (c *Config) SourceSchema() (schema.Schema, error) {
	out := make(schema.Schema, 0, len(c.Source.Columns))
	for _, col := range c.Source.Columns {
		fieldType, err := schema.ParseFieldType(col.Type)
		if err != nil {
			return nil, fmt.Errorf("source column %q: %w", col.Name, err)
		}
		out = append(out, schema.Column{Name: col.Name, Type: fieldType})
	}
	return out, nil
}

// RetryPolicy converts the retry section into the compiler's policy.
func (c *Config) RetryPolicy() compiler.RetryPolicy {
	return compiler.RetryPolicy{
		MaxAttempts: c.Retry.MaxAttempts,
		BackoffBase: c.Retry.BackoffBase,
		BackoffMax:  c.Retry.BackoffMax,
		Jitter:      c.Retry.Jitter,
	}
}

// CompilerConfig assembles the compiler configuration.
func (c *Config) CompilerConfig() (compiler.Config, error) {
	sourceSchema, err := c.SourceSchema()
	if err != nil {
		return compiler.Config{}, err
	}
	return compiler.Config{
		SourceTable:  c.Source.Table,
		SourceSchema: sourceSchema,
		ViewName:     c.Source.View,
		Retry:        c.RetryPolicy(),
	}, nil
}

// LoggerConfig maps the log section onto the logger package.
func (c *Config) LoggerConfig() *logger.Config {
	cfg := logger.DefaultConfig()
	cfg.Level = logger.LogLevel(c.Log.Level)
	cfg.JSON = c.Log.JSON
	return cfg
}
