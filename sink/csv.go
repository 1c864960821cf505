package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultCSVPath is the output file used when none is configured.
const DefaultCSVPath = "news_data.csv"

// CSVSink writes rows to a comma-separated UTF-8 file with a single header
// row.
type CSVSink struct {
	path   string
	file   *os.File
	header []string
}

// NewCSVSink opens (creating if needed) the CSV file at path. Existing content
// is kept until Reset is called.
func NewCSVSink(path string) (*CSVSink, error) {
	if path == "" {
		path = DefaultCSVPath
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open output file: %w", err)
	}

	return &CSVSink{path: path, file: file}, nil
}

// Path returns the output file path.
func (s *CSVSink) Path() string {
	return s.path
}

// Reset truncates the file and forgets the header.
func (s *CSVSink) Reset() error {
	if err := s.file.Truncate(0); err != nil {
		return fmt.Errorf("failed to truncate output file: %w", err)
	}
	if _, err := s.file.Seek(0, 0); err != nil {
		return fmt.Errorf("failed to rewind output file: %w", err)
	}
	s.header = nil
	return nil
}

// Append writes row, preceded by the header row when the file is empty.
func (s *CSVSink) Append(row Row) error {
	if err := checkRow(s.header, row); err != nil {
		return err
	}

	info, err := s.file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat output file: %w", err)
	}

	w := csv.NewWriter(s.file)
	if info.Size() == 0 {
		if err := w.Write(row.Header()); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	if err := w.Write(row.Values()); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush output file: %w", err)
	}

	if s.header == nil {
		s.header = row.Header()
	}
	return nil
}

// Close closes the output file.
func (s *CSVSink) Close() error {
	return s.file.Close()
}
