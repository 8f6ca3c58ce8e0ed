// Package sqlemit renders a collected bookings dataset as PostgreSQL
// statements for the brands, influencers and campaigns tables.
//
// Two styles are registered: "insert" writes multi-row INSERT batches and
// "procedure" writes a temporary import function plus one call per campaign.
// The conflict mode is independent of the style.
package sqlemit

import (
	"fmt"
	"io"

	"github.com/JonMunkholm/bookingsql/internal/core"
)

// Style keys.
const (
	StyleInsert    = "insert"
	StyleProcedure = "procedure"
)

// Conflict modes.
const (
	ConflictIgnore = "ignore"
	ConflictUpsert = "upsert"
)

// DefaultBatchSize is the number of campaigns per statement group.
const DefaultBatchSize = 20

// Options configures an Emitter.
type Options struct {
	Style           string
	Conflict        string
	BatchSize       int
	Limit           int // 0 emits every campaign
	IncludeEntities bool
}

// Emitter renders datasets with one style and conflict mode.
type Emitter struct {
	opts  Options
	style StyleDefinition
}

var _ core.Emitter = (*Emitter)(nil)

// New validates opts and returns an Emitter.
func New(opts Options) (*Emitter, error) {
	if opts.Style == "" {
		opts.Style = StyleInsert
	}
	if opts.Conflict == "" {
		opts.Conflict = ConflictIgnore
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}

	style, ok := Get(opts.Style)
	if !ok {
		return nil, fmt.Errorf("unknown emit style %q (available: %s)", opts.Style, Describe())
	}
	if opts.Conflict != ConflictIgnore && opts.Conflict != ConflictUpsert {
		return nil, fmt.Errorf("unknown conflict mode %q", opts.Conflict)
	}
	if opts.Limit < 0 {
		return nil, fmt.Errorf("invalid limit %d", opts.Limit)
	}

	return &Emitter{opts: opts, style: style}, nil
}

// Options returns the effective options.
func (e *Emitter) Options() Options {
	return e.opts
}

// Emit writes the SQL for ds to w and returns the number of campaigns
// written.
func (e *Emitter) Emit(w io.Writer, ds *core.Dataset) (int, error) {
	campaigns := ds.Campaigns
	if e.opts.Limit > 0 && len(campaigns) > e.opts.Limit {
		campaigns = campaigns[:e.opts.Limit]
	}

	sw := &sqlWriter{w: w}
	e.writeHeader(sw, ds, len(campaigns))

	if e.opts.IncludeEntities {
		writeBrands(sw, ds.Brands, e.opts)
		writeInfluencers(sw, ds.Influencers, e.opts)
	}

	if len(campaigns) > 0 {
		e.style.Render(sw, campaigns, e.opts)
	}

	if sw.err != nil {
		return 0, sw.err
	}
	return len(campaigns), nil
}

func (e *Emitter) writeHeader(sw *sqlWriter, ds *core.Dataset, emitted int) {
	sw.line("-- Bookings import")
	if ds.RunID != "" {
		sw.printf("-- Run: %s\n", ds.RunID)
	}
	sw.printf("-- Style: %s, conflict: %s\n", e.opts.Style, e.opts.Conflict)
	sw.printf("-- Brands: %d, influencers: %d, campaigns: %d", len(ds.Brands), len(ds.Influencers), emitted)
	if emitted < len(ds.Campaigns) {
		sw.printf(" (limited from %d)", len(ds.Campaigns))
	}
	sw.line("")
	sw.line("")
}

// batches calls fn with the bounds of each group of n items.
func batches(total, n int, fn func(index, start, end int)) {
	for i, start := 0, 0; start < total; i, start = i+1, start+n {
		end := min(start+n, total)
		fn(i+1, start, end)
	}
}

// sqlWriter keeps the first write error and ignores later writes.
type sqlWriter struct {
	w   io.Writer
	err error
}

func (sw *sqlWriter) printf(format string, args ...any) {
	if sw.err != nil {
		return
	}
	_, sw.err = fmt.Fprintf(sw.w, format, args...)
}

func (sw *sqlWriter) line(s string) {
	if sw.err != nil {
		return
	}
	_, sw.err = io.WriteString(sw.w, s+"\n")
}
