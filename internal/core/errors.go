package core

import (
	"errors"
	"fmt"

	"github.com/JonMunkholm/bookingsql/internal/schema"
)

// ErrEmptySource is returned when the input has no header row.
var ErrEmptySource = errors.New("empty file: no header row")

// SourceReadError is a fatal failure to read the CSV source. No output is
// produced for a run that hits one.
type SourceReadError struct {
	Path string // Input path, empty for in-memory sources
	Line int    // Source line, 0 when the failure is not tied to a line
	Err  error
}

func (e *SourceReadError) Error() string {
	path := e.Path
	if path == "" {
		path = "input"
	}
	if e.Line > 0 {
		return fmt.Sprintf("read %s: line %d: %v", path, e.Line, e.Err)
	}
	return fmt.Sprintf("read %s: %v", path, e.Err)
}

func (e *SourceReadError) Unwrap() error {
	return e.Err
}

// FieldCoercionError describes a non-empty cell that could not be parsed.
// Under the lenient policy the field becomes NULL; under strict the row is
// rejected.
type FieldCoercionError struct {
	Line   int
	Column string
	Raw    string
	Kind   schema.FieldType
}

func (e *FieldCoercionError) Error() string {
	return fmt.Sprintf("line %d: invalid %s in column %q: %q", e.Line, e.Kind, e.Column, e.Raw)
}

// RowRejectedError is returned for a row dropped by the strict policy.
type RowRejectedError struct {
	Line   int
	Fields []*FieldCoercionError
}

func (e *RowRejectedError) Error() string {
	return fmt.Sprintf("line %d: row rejected: %d invalid field(s), first: %v", e.Line, len(e.Fields), e.Fields[0])
}

func (e *RowRejectedError) Unwrap() error {
	return e.Fields[0]
}

// SkipReason explains why a row produced no campaign. Skips are expected
// data conditions, not errors.
type SkipReason string

const (
	SkipNone              SkipReason = ""
	SkipMissingBrand      SkipReason = "missing brand"
	SkipMissingInfluencer SkipReason = "missing influencer"
)
