package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"mudlark/internal/fileutil"
)

// Table is a CSV dataset: a header and rows of equal width.
type Table struct {
	Header []string
	Rows   [][]string
}

// ReadStats counts what ReadCSV had to skip.
type ReadStats struct {
	Rows        int
	SkippedRows int
}

// ReadFile loads the CSV at path.
func ReadFile(path string) (*Table, ReadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ReadStats{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	table, stats, err := ReadCSV(f)
	if err != nil {
		return nil, stats, fmt.Errorf("read dataset %s: %w", path, err)
	}
	return table, stats, nil
}

// ReadCSV parses a CSV with a header row. Leading spaces in fields are
// dropped and rows whose width differs from the header are skipped.
func ReadCSV(r io.Reader) (*Table, ReadStats, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var stats ReadStats
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, stats, ErrEmptyInput
	}
	if err != nil {
		return nil, stats, fmt.Errorf("read header: %w", err)
	}
	header = slices.Clone(header)
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	table := &Table{Header: header}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("read row %d: %w", stats.Rows+stats.SkippedRows+2, err)
		}
		if len(record) != len(header) {
			stats.SkippedRows++
			continue
		}
		table.Rows = append(table.Rows, slices.Clone(record))
		stats.Rows++
	}
	return table, stats, nil
}

// WriteCSV encodes the table with its header row.
func (t *Table) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Header); err != nil {
		return err
	}
	if err := writer.WriteAll(t.Rows); err != nil {
		return err
	}
	return writer.Error()
}

// WriteCSVFile writes the table to path atomically.
func (t *Table) WriteCSVFile(path string) error {
	return fileutil.WriteAtomic(path, 0o644, t.WriteCSV)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Index returns the position of column in the header.
func (t *Table) Index(column string) (int, bool) {
	idx := slices.Index(t.Header, column)
	return idx, idx >= 0
}

// Require returns the header positions of columns, failing with a
// ColumnError for the first one that is missing.
func (t *Table) Require(use ColumnUse, columns ...string) ([]int, error) {
	out := make([]int, len(columns))
	for i, column := range columns {
		idx, ok := t.Index(column)
		if !ok {
			return nil, &ColumnError{Column: column, Use: use}
		}
		out[i] = idx
	}
	return out, nil
}

// Column returns a copy of every value in column.
func (t *Table) Column(column string) ([]string, error) {
	idx, err := t.Require(UseText, column)
	if err != nil {
		return nil, err
	}
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[idx[0]]
	}
	return values, nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = slices.Clone(row)
	}
	return t.withRows(rows)
}

func (t *Table) withRows(rows [][]string) *Table {
	return &Table{Header: slices.Clone(t.Header), Rows: rows}
}
