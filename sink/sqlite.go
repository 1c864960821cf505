package sink

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Defaults used when no table or path is configured.
const (
	DefaultTable      = "articles"
	DefaultSQLitePath = "news_data.db"
)

// SQLiteSink writes rows to a SQLite table whose columns come from the first
// row's header. All columns are TEXT.
type SQLiteSink struct {
	db     *sql.DB
	table  string
	header []string
}

// NewSQLiteSink opens the database at dbPath. The table is created on the
// first Append.
func NewSQLiteSink(dbPath, table string) (*SQLiteSink, error) {
	if table == "" {
		table = DefaultTable
	}
	if dbPath == "" {
		dbPath = DefaultSQLitePath
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &SQLiteSink{db: db, table: table}, nil
}

// Reset drops the table.
func (s *SQLiteSink) Reset() error {
	if _, err := s.db.Exec("DROP TABLE IF EXISTS " + quoteIdent(s.table)); err != nil {
		return fmt.Errorf("failed to reset table: %w", err)
	}
	s.header = nil
	return nil
}

// Append inserts row, creating the table from the row's header first if
// needed.
func (s *SQLiteSink) Append(row Row) error {
	if err := checkRow(s.header, row); err != nil {
		return err
	}

	header := row.Header()
	if s.header == nil {
		if err := s.createTable(header); err != nil {
			return err
		}
	}

	columns := make([]string, len(header))
	placeholders := make([]string, len(header))
	for i, name := range header {
		columns[i] = quoteIdent(name)
		placeholders[i] = "?"
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(s.table),
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)

	values := row.Values()
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}

	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to insert row: %w", err)
	}

	if s.header == nil {
		s.header = header
	}
	return nil
}

func (s *SQLiteSink) createTable(header []string) error {
	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = quoteIdent(name) + " TEXT"
	}

	schema := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		row_id INTEGER PRIMARY KEY AUTOINCREMENT,
		%s
	);
	`, quoteIdent(s.table), strings.Join(columns, ",\n\t\t"))

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// Rows returns every row in insertion order, header first. Mostly useful for
// inspection and tests.
func (s *SQLiteSink) Rows() ([][]string, error) {
	if s.header == nil {
		return nil, nil
	}

	columns := make([]string, len(s.header))
	for i, name := range s.header {
		columns[i] = quoteIdent(name)
	}

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY row_id",
		strings.Join(columns, ", "), quoteIdent(s.table))

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query rows: %w", err)
	}
	defer rows.Close()

	result := [][]string{append([]string(nil), s.header...)}
	for rows.Next() {
		values := make([]sql.NullString, len(s.header))
		dest := make([]any, len(values))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		record := make([]string, len(values))
		for i, v := range values {
			record[i] = v.String
		}
		result = append(result, record)
	}

	return result, rows.Err()
}

// Close closes the database connection.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
