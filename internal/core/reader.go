package core

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"
)

// ContextCheckInterval is how often, in rows, to check for context cancellation.
var ContextCheckInterval = 100

// ReaderOptions configures how the CSV source is decoded and split.
type ReaderOptions struct {
	Path      string // Used in error messages only
	Encoding  string // utf-8 (default), windows-1252 or iso-8859-1
	Delimiter rune   // Field separator, ',' when zero
}

// RowReader yields the data records of one CSV source. The header row is
// read when the reader is created.
type RowReader struct {
	csv     *csv.Reader
	counter *StreamingCountingReader
	header  []string
	idx     HeaderIndex
	path    string
	done    bool
}

// NewRowReader reads the header row from r. An input without a header row
// fails with ErrEmptySource.
func NewRowReader(r io.Reader, opts ReaderOptions) (*RowReader, error) {
	decoded, counter, err := WrapForStreaming(r, opts.Encoding)
	if err != nil {
		return nil, &SourceReadError{Path: opts.Path, Err: err}
	}

	cr := csv.NewReader(decoded)
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}
	cr.FieldsPerRecord = 0 // every record must match the header width

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &SourceReadError{Path: opts.Path, Err: ErrEmptySource}
	}
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			err = fmt.Errorf("invalid csv header: %w", err)
		}
		return nil, &SourceReadError{Path: opts.Path, Line: 1, Err: err}
	}

	return &RowReader{
		csv:     cr,
		counter: counter,
		header:  header,
		idx:     MakeHeaderIndex(header),
		path:    opts.Path,
	}, nil
}

// Header returns the header row as read from the source.
func (rr *RowReader) Header() []string {
	return rr.header
}

// BytesRead returns the raw source bytes consumed so far.
func (rr *RowReader) BytesRead() int64 {
	return rr.counter.BytesRead
}

// All returns the lazy sequence of data rows. The sequence is finite and
// cannot be restarted: a second iteration yields nothing. Iteration stops
// after the first error.
func (rr *RowReader) All() iter.Seq2[RawRow, error] {
	return func(yield func(RawRow, error) bool) {
		if rr.done {
			return
		}
		defer func() { rr.done = true }()

		for {
			record, err := rr.csv.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(RawRow{}, rr.wrapErr(err))
				return
			}

			line, _ := rr.csv.FieldPos(0)
			if !yield(rr.toRow(record, line), nil) {
				return
			}
		}
	}
}

func (rr *RowReader) toRow(record []string, line int) RawRow {
	fields := make(map[string]string, len(rr.idx))
	for name, pos := range rr.idx {
		if pos < len(record) {
			fields[name] = strings.TrimSpace(record[pos])
		}
	}
	return RawRow{Line: line, Fields: fields}
}

func (rr *RowReader) wrapErr(err error) error {
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		return &SourceReadError{Path: rr.path, Line: perr.StartLine, Err: fmt.Errorf("invalid csv: %w", err)}
	}
	return &SourceReadError{Path: rr.path, Err: err}
}

// Rows returns the lazy row sequence of r. A header failure is yielded as
// the only element.
func Rows(r io.Reader, opts ReaderOptions) iter.Seq2[RawRow, error] {
	return func(yield func(RawRow, error) bool) {
		rr, err := NewRowReader(r, opts)
		if err != nil {
			yield(RawRow{}, err)
			return
		}
		for row, err := range rr.All() {
			if !yield(row, err) {
				return
			}
		}
	}
}

// Input is a fully read CSV source.
type Input struct {
	Header    []string
	Rows      []RawRow
	BytesRead int64
}

// ReadAll reads r to completion. Any read failure discards the rows read so far.
func ReadAll(ctx context.Context, r io.Reader, opts ReaderOptions) (*Input, error) {
	rr, err := NewRowReader(r, opts)
	if err != nil {
		return nil, err
	}

	in := &Input{Header: rr.Header()}
	for row, err := range rr.All() {
		if err != nil {
			return nil, err
		}
		if len(in.Rows)%ContextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("read cancelled: %w", err)
			}
		}
		in.Rows = append(in.Rows, row)
	}
	in.BytesRead = rr.BytesRead()

	return in, nil
}

// Source is an opened CSV file. Close must be called to release the handle.
type Source struct {
	file *os.File
	opts ReaderOptions
}

// OpenSource opens the CSV file at path.
func OpenSource(path string, opts ReaderOptions) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &SourceReadError{Path: path, Err: err}
	}
	opts.Path = path
	return &Source{file: f, opts: opts}, nil
}

// ReadAll reads the whole file.
func (s *Source) ReadAll(ctx context.Context) (*Input, error) {
	return ReadAll(ctx, s.file, s.opts)
}

// Close releases the file handle.
func (s *Source) Close() error {
	return s.file.Close()
}

// ReadFile opens, reads and closes the CSV file at path.
func ReadFile(ctx context.Context, path string, opts ReaderOptions) (*Input, error) {
	src, err := OpenSource(path, opts)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return src.ReadAll(ctx)
}
