package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Accepted values for the enumerated settings.
var (
	validEncodings        = map[string]bool{"utf-8": true, "windows-1252": true, "iso-8859-1": true}
	validSeparatorPolicy  = map[string]bool{"comma-decimal": true, "comma-thousands": true}
	validCoercionPolicies = map[string]bool{"lenient": true, "strict": true}
	validStyles           = map[string]bool{"insert": true, "procedure": true}
	validConflicts        = map[string]bool{"ignore": true, "upsert": true}
	validLevels           = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validFormats          = map[string]bool{"text": true, "json": true}
)

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
// Returns an error if required values are missing or validation fails.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// loadStruct recursively populates struct fields from environment variables.
func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		if !fieldVal.CanSet() {
			continue
		}

		if field.Type.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Time{}) {
			if err := loadStruct(fieldVal); err != nil {
				return err
			}
			continue
		}

		envName := field.Tag.Get("env")
		envAlt := field.Tag.Get("envAlt")
		defaultVal := field.Tag.Get("default")
		required := field.Tag.Get("required") == "true"

		if envName == "" {
			continue
		}

		// Try primary env var, then alternate
		value := os.Getenv(envName)
		if value == "" && envAlt != "" {
			value = os.Getenv(envAlt)
		}

		if value == "" {
			if required {
				return fmt.Errorf("required environment variable %s is not set", envName)
			}
			value = defaultVal
		}

		if value == "" {
			continue
		}

		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.Set(reflect.ValueOf(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer: %w", err)
			}
			field.SetInt(i)
		}

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Input validation
	if strings.TrimSpace(c.Input.Path) == "" {
		errs = append(errs, "BOOKINGS_INPUT_PATH must not be empty")
	}
	if !validEncodings[strings.ToLower(c.Input.Encoding)] {
		errs = append(errs, fmt.Sprintf("BOOKINGS_INPUT_ENCODING (%q) must be one of: utf-8, windows-1252, iso-8859-1", c.Input.Encoding))
	}
	if utf8.RuneCountInString(c.Input.Delimiter) != 1 {
		errs = append(errs, fmt.Sprintf("BOOKINGS_INPUT_DELIMITER (%q) must be a single character", c.Input.Delimiter))
	} else if r := c.Input.DelimiterRune(); r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		errs = append(errs, fmt.Sprintf("BOOKINGS_INPUT_DELIMITER (%q) is not a usable separator", c.Input.Delimiter))
	}

	// Normalize validation
	if !validSeparatorPolicy[c.Normalize.SeparatorPolicy] {
		errs = append(errs, fmt.Sprintf("NORMALIZE_SEPARATOR_POLICY (%q) must be one of: comma-decimal, comma-thousands", c.Normalize.SeparatorPolicy))
	}
	if !validCoercionPolicies[c.Normalize.CoercionPolicy] {
		errs = append(errs, fmt.Sprintf("NORMALIZE_COERCION_POLICY (%q) must be one of: lenient, strict", c.Normalize.CoercionPolicy))
	}

	// Emit validation
	if !validStyles[c.Emit.Style] {
		errs = append(errs, fmt.Sprintf("EMIT_STYLE (%q) must be one of: insert, procedure", c.Emit.Style))
	}
	if !validConflicts[c.Emit.Conflict] {
		errs = append(errs, fmt.Sprintf("EMIT_CONFLICT (%q) must be one of: ignore, upsert", c.Emit.Conflict))
	}
	if c.Emit.BatchSize <= 0 {
		errs = append(errs, "EMIT_BATCH_SIZE must be positive")
	}
	if c.Emit.Limit < 0 {
		errs = append(errs, "EMIT_LIMIT must be non-negative")
	}

	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.WriteTimeout < 0 {
		errs = append(errs, "SERVER_WRITE_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}
	if c.Server.MaxUploadSize <= 0 {
		errs = append(errs, "SERVER_MAX_UPLOAD_SIZE must be positive")
	}
	if c.Server.MaxConcurrent <= 0 {
		errs = append(errs, "SERVER_MAX_CONCURRENT must be positive")
	}
	if c.Server.QueueWait <= 0 {
		errs = append(errs, "SERVER_QUEUE_WAIT must be positive")
	}

	// Logging validation
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a compact representation of the config for logging.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Input: {Path: %q, Encoding: %q, Delimiter: %q}, ",
		c.Input.Path, c.Input.Encoding, c.Input.Delimiter))
	b.WriteString(fmt.Sprintf("Normalize: {Separator: %q, Coercion: %q}, ",
		c.Normalize.SeparatorPolicy, c.Normalize.CoercionPolicy))
	b.WriteString(fmt.Sprintf("Emit: {Style: %q, Conflict: %q, BatchSize: %d, Limit: %d, Entities: %v}, ",
		c.Emit.Style, c.Emit.Conflict, c.Emit.BatchSize, c.Emit.Limit, c.Emit.IncludeEntities))
	b.WriteString(fmt.Sprintf("Server: {Addr: %q}, ", c.Server.Addr()))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}
