// Package sink writes crawl results to a persistent table.
package sink

import (
	"errors"
	"fmt"
	"slices"
)

// Output types accepted by Open.
const (
	TypeCSV    = "csv"
	TypeSQLite = "sqlite"
)

// ErrSchemaMismatch is returned when a row's header differs from the header
// fixed by the first row written since the last reset.
var ErrSchemaMismatch = errors.New("row header does not match table header")

// Row is one output record.
type Row interface {
	Header() []string
	Values() []string
}

// Sink is an append-only table that can be reset. Implementations assume a
// single writer.
type Sink interface {
	// Reset truncates the table to empty.
	Reset() error
	// Append writes row. The first row after a reset also fixes the header.
	Append(row Row) error
	Close() error
}

// DefaultPath returns the output file used for outputType when no path is
// configured.
func DefaultPath(outputType string) string {
	if outputType == TypeSQLite {
		return DefaultSQLitePath
	}
	return DefaultCSVPath
}

// Open returns the sink for the given output type and path. An empty path
// selects DefaultPath(outputType).
func Open(outputType, path string) (Sink, error) {
	switch outputType {
	case TypeCSV, "":
		return NewCSVSink(path)
	case TypeSQLite:
		return NewSQLiteSink(path, DefaultTable)
	default:
		return nil, fmt.Errorf("unsupported output type: %s", outputType)
	}
}

// checkRow validates row against the fixed header, if any.
func checkRow(header []string, row Row) error {
	values := row.Values()
	if len(values) != len(row.Header()) {
		return fmt.Errorf("row has %d values for %d columns", len(values), len(row.Header()))
	}
	if header != nil && !slices.Equal(header, row.Header()) {
		return fmt.Errorf("%w: have %v, got %v", ErrSchemaMismatch, header, row.Header())
	}
	return nil
}
