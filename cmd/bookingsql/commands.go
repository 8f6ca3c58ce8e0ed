package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/JonMunkholm/bookingsql/internal/config"
	"github.com/JonMunkholm/bookingsql/internal/core"
	"github.com/JonMunkholm/bookingsql/internal/logging"
	"github.com/JonMunkholm/bookingsql/internal/sqlemit"
	"github.com/JonMunkholm/bookingsql/internal/web"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// overrides are per-run flag values that take precedence over the environment.
type overrides struct {
	input    string
	output   string
	encoding string
	style    string
	conflict string
	limit    int
	strict   bool
	json     string
}

func newRootCmd() *cobra.Command {
	var (
		ov  overrides
		cfg *config.Config
	)

	root := &cobra.Command{
		Use:           "bookingsql",
		Short:         "Convert the bookings CSV export into SQL",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadConfig(cmd, ov)
			if err != nil {
				return err
			}
			cfg = loaded
			logging.Setup(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr())
			slog.Debug("configuration loaded", "config", cfg.String())
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, cfg)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&ov.input, "input", "", "CSV file to read (overrides BOOKINGS_INPUT_PATH)")
	flags.StringVar(&ov.output, "output", "", "SQL file to write, stdout when empty (overrides EMIT_OUTPUT_PATH)")
	flags.StringVar(&ov.encoding, "encoding", "", "Input encoding: utf-8, windows-1252, iso-8859-1")
	flags.StringVar(&ov.style, "style", "", "SQL style: "+sqlemit.Describe())
	flags.StringVar(&ov.conflict, "conflict", "", "Conflict mode: ignore or upsert")
	flags.IntVar(&ov.limit, "limit", 0, "Emit only the first N campaigns")
	flags.BoolVar(&ov.strict, "strict", false, "Reject rows with unparsable fields instead of storing NULL")
	flags.StringVar(&ov.json, "json", "", "Also write the normalized campaigns as JSON to this file")

	root.AddCommand(
		&cobra.Command{
			Use:   "convert",
			Short: "Convert the CSV and write SQL (default)",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runConvert(cmd, cfg)
			},
		},
		&cobra.Command{
			Use:   "preview",
			Short: "Report what a conversion would produce without writing SQL",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runPreview(cmd, cfg)
			},
		},
		&cobra.Command{
			Use:   "serve",
			Short: "Serve conversions over HTTP",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServe(cmd.Context(), cfg)
			},
		},
	)

	return root
}

// loadConfig reads the environment and applies the flags that were set.
func loadConfig(cmd *cobra.Command, ov overrides) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Input.Path = ov.input
	}
	if flags.Changed("output") {
		cfg.Emit.OutputPath = ov.output
	}
	if flags.Changed("encoding") {
		cfg.Input.Encoding = ov.encoding
	}
	if flags.Changed("style") {
		cfg.Emit.Style = ov.style
	}
	if flags.Changed("conflict") {
		cfg.Emit.Conflict = ov.conflict
	}
	if flags.Changed("limit") {
		cfg.Emit.Limit = ov.limit
	}
	if flags.Changed("strict") {
		if ov.strict {
			cfg.Normalize.CoercionPolicy = string(core.Strict)
		} else {
			cfg.Normalize.CoercionPolicy = string(core.Lenient)
		}
	}
	if flags.Changed("json") {
		cfg.Emit.JSONPath = ov.json
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// newService wires the pipeline described by cfg.
func newService(cfg *config.Config) (*core.Service, error) {
	sep, err := core.ParseSeparatorPolicy(cfg.Normalize.SeparatorPolicy)
	if err != nil {
		return nil, err
	}
	policy, err := core.ParseCoercionPolicy(cfg.Normalize.CoercionPolicy)
	if err != nil {
		return nil, err
	}

	emitter, err := sqlemit.New(sqlemit.Options{
		Style:           cfg.Emit.Style,
		Conflict:        cfg.Emit.Conflict,
		BatchSize:       cfg.Emit.BatchSize,
		Limit:           cfg.Emit.Limit,
		IncludeEntities: cfg.Emit.IncludeEntities,
	})
	if err != nil {
		return nil, err
	}

	return core.NewService(core.Options{
		Reader: core.ReaderOptions{
			Path:      cfg.Input.Path,
			Encoding:  cfg.Input.Encoding,
			Delimiter: cfg.Input.DelimiterRune(),
		},
		Separator: sep,
		Policy:    policy,
		JSONPath:  cfg.Emit.JSONPath,
	}, emitter), nil
}

func runConvert(cmd *cobra.Command, cfg *config.Config) error {
	svc, err := newService(cfg)
	if err != nil {
		return err
	}

	if cfg.Emit.OutputPath == "" {
		_, err := svc.ConvertFile(cmd.Context(), cfg.Input.Path, cmd.OutOrStdout())
		return err
	}

	var out bytes.Buffer
	result, err := svc.ConvertFile(cmd.Context(), cfg.Input.Path, &out)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfg.Emit.OutputPath, out.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write sql: %w", err)
	}

	slog.Info("sql written", "path", cfg.Emit.OutputPath, "campaigns", result.Stats.CampaignsEmitted)
	return nil
}

func runPreview(cmd *cobra.Command, cfg *config.Config) error {
	svc, err := newService(cfg)
	if err != nil {
		return err
	}

	result, err := svc.PreviewFile(cmd.Context(), cfg.Input.Path)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		RunID      string                 `json:"runId"`
		Stats      core.Stats             `json:"stats"`
		Collisions []core.HandleCollision `json:"collisions,omitempty"`
	}{result.RunID, result.Stats, result.Collisions})
}

// runServe runs the HTTP server until ctx is cancelled, then shuts it down
// within the configured timeout.
func runServe(ctx context.Context, cfg *config.Config) error {
	svc, err := newService(cfg)
	if err != nil {
		return err
	}
	server := web.NewServer(svc, cfg.Server)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
