// Package config provides centralized configuration management for the importer.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Input     InputConfig
	Normalize NormalizeConfig
	Emit      EmitConfig
	Server    ServerConfig
	Logging   LoggingConfig
}

// InputConfig describes the bookings CSV export.
type InputConfig struct {
	// Path is the CSV file converted by the convert and preview commands
	Path string `env:"BOOKINGS_INPUT_PATH" envAlt:"CSV_FILE" default:"Fully_Cleaned_Bookings_Data.csv"`

	// Encoding is the byte encoding of the export: utf-8, windows-1252 or iso-8859-1 (default: utf-8)
	Encoding string `env:"BOOKINGS_INPUT_ENCODING" default:"utf-8"`

	// Delimiter is the single-character field separator (default: ,)
	Delimiter string `env:"BOOKINGS_INPUT_DELIMITER" default:","`
}

// NormalizeConfig holds field coercion policies.
type NormalizeConfig struct {
	// SeparatorPolicy decides how commas in numbers are read: comma-decimal or comma-thousands
	SeparatorPolicy string `env:"NORMALIZE_SEPARATOR_POLICY" default:"comma-decimal"`

	// CoercionPolicy is lenient (invalid values become NULL) or strict (invalid values reject the row)
	CoercionPolicy string `env:"NORMALIZE_COERCION_POLICY" default:"lenient"`
}

// EmitConfig holds SQL rendering settings.
type EmitConfig struct {
	// Style is insert (multi-row INSERT batches) or procedure (server-side import function)
	Style string `env:"EMIT_STYLE" default:"insert"`

	// Conflict is ignore (ON CONFLICT DO NOTHING) or upsert (recompute metrics on conflict)
	Conflict string `env:"EMIT_CONFLICT" default:"ignore"`

	// BatchSize is the number of campaigns per statement group (default: 20)
	BatchSize int `env:"EMIT_BATCH_SIZE" default:"20"`

	// Limit caps the number of campaigns emitted; 0 emits all
	Limit int `env:"EMIT_LIMIT" default:"0"`

	// IncludeEntities emits brand and influencer inserts ahead of campaigns (default: true)
	IncludeEntities bool `env:"EMIT_INCLUDE_ENTITIES" default:"true"`

	// OutputPath receives the SQL; empty writes to stdout
	OutputPath string `env:"EMIT_OUTPUT_PATH"`

	// JSONPath optionally receives the normalized campaigns as JSON
	JSONPath string `env:"EMIT_JSON_PATH"`
}

// ServerConfig holds HTTP server settings for the serve command.
type ServerConfig struct {
	// Host is the interface to bind to (default: 127.0.0.1)
	Host string `env:"SERVER_HOST" default:"127.0.0.1"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading a request (default: 30s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"30s"`

	// WriteTimeout is the maximum duration for writing a response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown (default: 15s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"15s"`

	// MaxUploadSize is the largest accepted CSV in bytes (default: 32MB)
	MaxUploadSize int64 `env:"SERVER_MAX_UPLOAD_SIZE" default:"33554432"`

	// MaxConcurrent caps conversions running at once (default: 4)
	MaxConcurrent int `env:"SERVER_MAX_CONCURRENT" default:"4"`

	// QueueWait is how long a request waits for a free conversion slot (default: 30s)
	QueueWait time.Duration `env:"SERVER_QUEUE_WAIT" default:"30s"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// DelimiterRune returns the configured field separator as a rune.
func (c *InputConfig) DelimiterRune() rune {
	for _, r := range c.Delimiter {
		return r
	}
	return ','
}
