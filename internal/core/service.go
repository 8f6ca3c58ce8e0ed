package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/JonMunkholm/bookingsql/internal/logging"
	"github.com/JonMunkholm/bookingsql/internal/schema"
	"github.com/google/uuid"
)

// Options configures a Service.
type Options struct {
	Reader    ReaderOptions
	Separator SeparatorPolicy
	Policy    CoercionPolicy

	// JSONPath optionally receives the normalized campaigns of every
	// conversion as JSON.
	JSONPath string
}

// Service runs the read, normalize, collect and emit pipeline.
// A Service holds no per-run state and is safe for concurrent use.
type Service struct {
	opts    Options
	emitter Emitter
}

// NewService creates a Service rendering SQL with emitter.
func NewService(opts Options, emitter Emitter) *Service {
	if opts.Separator == "" {
		opts.Separator = CommaDecimal
	}
	if opts.Policy == "" {
		opts.Policy = Lenient
	}
	return &Service{opts: opts, emitter: emitter}
}

// Convert reads the whole CSV from r and writes the SQL to w. Nothing is
// written to w unless reading and emission both succeed.
func (s *Service) Convert(ctx context.Context, r io.Reader, w io.Writer) (*Result, error) {
	return s.run(ctx, func(ctx context.Context) (*Input, error) {
		return ReadAll(ctx, r, s.opts.Reader)
	}, w)
}

// ConvertFile converts the CSV file at path. The file handle is released
// before any SQL is written.
func (s *Service) ConvertFile(ctx context.Context, path string, w io.Writer) (*Result, error) {
	return s.run(ctx, func(ctx context.Context) (*Input, error) {
		return ReadFile(ctx, path, s.opts.Reader)
	}, w)
}

// Preview runs everything except emission and reports the statistics.
func (s *Service) Preview(ctx context.Context, r io.Reader) (*Result, error) {
	return s.run(ctx, func(ctx context.Context) (*Input, error) {
		return ReadAll(ctx, r, s.opts.Reader)
	}, nil)
}

// PreviewFile previews the CSV file at path.
func (s *Service) PreviewFile(ctx context.Context, path string) (*Result, error) {
	return s.run(ctx, func(ctx context.Context) (*Input, error) {
		return ReadFile(ctx, path, s.opts.Reader)
	}, nil)
}

// run executes one pipeline pass. A nil w makes it a preview.
func (s *Service) run(ctx context.Context, read func(context.Context) (*Input, error), w io.Writer) (*Result, error) {
	startTime := time.Now()
	runID := uuid.NewString()
	ctx = logging.ContextWithRunID(ctx, runID)
	logger := logging.FromContext(ctx)

	in, err := read(ctx)
	if err != nil {
		logger.Error("read failed", "error", err)
		return nil, err
	}

	collector, stats, err := s.collect(ctx, in)
	if err != nil {
		return nil, err
	}

	result := &Result{
		RunID:      runID,
		Stats:      stats,
		Collisions: collector.Collisions(),
	}

	if w != nil {
		if s.emitter == nil {
			return nil, errors.New("no emitter configured")
		}

		ds := collector.Dataset(runID)
		var buf bytes.Buffer
		emitted, err := s.emitter.Emit(&buf, ds)
		if err != nil {
			return nil, fmt.Errorf("write sql: %w", err)
		}
		if s.opts.JSONPath != "" {
			if err := writeJSONDump(s.opts.JSONPath, ds); err != nil {
				return nil, err
			}
		}
		if _, err := buf.WriteTo(w); err != nil {
			return nil, fmt.Errorf("write sql: %w", err)
		}
		result.Stats.CampaignsEmitted = emitted
	}

	result.Duration = time.Since(startTime)
	logger.Info("conversion complete",
		"rows", stats.RowsRead,
		"skipped", stats.RowsSkipped,
		"rejected", stats.RowsRejected,
		"coercion_failures", stats.CoercionFailures,
		"campaigns", stats.Campaigns,
		"emitted", result.Stats.CampaignsEmitted,
		"brands", stats.Brands,
		"influencers", stats.Influencers,
		"collisions", stats.HandleCollisions,
		"duplicates", stats.DuplicateCampaigns,
		"duration", result.Duration,
	)

	return result, nil
}

// collect normalizes every row and accumulates the run's entities.
func (s *Service) collect(ctx context.Context, in *Input) (*Collector, Stats, error) {
	logger := logging.FromContext(ctx)
	norm := Normalizer{Separator: s.opts.Separator}
	collector := NewCollector()
	stats := Stats{
		FailuresByColumn: make(map[string]int),
		BytesRead:        in.BytesRead,
	}

	if missing := CheckHeader(in.Header, schema.BookingsFieldSpecs); len(missing) > 0 {
		stats.MissingColumns = missing
		logger.Warn("expected columns missing, values read as empty", "columns", missing)
	}

	for i, row := range in.Rows {
		if i%ContextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, Stats{}, fmt.Errorf("normalize cancelled: %w", err)
			}
		}
		stats.RowsRead++

		camp, failures, skip := norm.Normalize(row)
		if skip != SkipNone {
			stats.RowsSkipped++
			logger.Debug("row skipped", "line", row.Line, "reason", string(skip))
			continue
		}

		for _, f := range failures {
			stats.CoercionFailures++
			stats.FailuresByColumn[f.Column]++
			logger.Debug("invalid field", "line", f.Line, "column", f.Column, "raw", f.Raw, "kind", f.Kind.String())
		}

		if s.opts.Policy == Strict && len(failures) > 0 {
			stats.RowsRejected++
			logger.Warn("row rejected", "error", &RowRejectedError{Line: row.Line, Fields: failures})
			continue
		}

		collector.AddBrand(camp.Brand)

		handle, collision := collector.AddInfluencer(camp.Influencer)
		if collision != nil {
			logger.Warn("influencer handle collision",
				"name", collision.Name,
				"owner", collision.Owner,
				"handle", collision.Base,
				"assigned", collision.Assigned,
			)
		}
		camp.Handle = handle

		if firstLine, dup := collector.AddCampaign(camp); dup {
			logger.Warn("duplicate campaign key",
				"line", camp.Line,
				"first_line", firstLine,
				"brand", camp.Brand,
				"handle", camp.Handle,
			)
		}
	}

	stats.Campaigns = len(collector.Campaigns())
	stats.Brands = len(collector.Brands())
	stats.Influencers = len(collector.Influencers())
	stats.HandleCollisions = len(collector.Collisions())
	stats.DuplicateCampaigns = collector.Duplicates()

	if stats.CoercionFailures > 0 {
		logger.Warn("fields could not be parsed", "count", stats.CoercionFailures, "by_column", stats.FailuresByColumn)
	}

	return collector, stats, nil
}

// jsonDump is the layout of the optional campaigns side file.
type jsonDump struct {
	RunID       string       `json:"runId"`
	Brands      []string     `json:"brands"`
	Influencers []Influencer `json:"influencers"`
	Campaigns   []Campaign   `json:"campaigns"`
}

func writeJSONDump(path string, ds *Dataset) error {
	data, err := json.MarshalIndent(jsonDump{
		RunID:       ds.RunID,
		Brands:      ds.Brands,
		Influencers: ds.Influencers,
		Campaigns:   ds.Campaigns,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json dump: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json dump: %w", err)
	}
	return nil
}
