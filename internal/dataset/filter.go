package dataset

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
)

// KeepColumns drops every column not listed in keep, except textColumn. The
// original column order is preserved.
func (t *Table) KeepColumns(keep []string, textColumn string) (*Table, error) {
	if _, err := t.Require(UseKeep, keep...); err != nil {
		return nil, err
	}
	if _, err := t.Require(UseText, textColumn); err != nil {
		return nil, err
	}

	var indexes []int
	for i, name := range t.Header {
		if name == textColumn || slices.Contains(keep, name) {
			indexes = append(indexes, i)
		}
	}

	out := &Table{Header: make([]string, len(indexes)), Rows: make([][]string, len(t.Rows))}
	for j, idx := range indexes {
		out.Header[j] = t.Header[idx]
	}
	for r, row := range t.Rows {
		projected := make([]string, len(indexes))
		for j, idx := range indexes {
			projected[j] = row[idx]
		}
		out.Rows[r] = projected
	}
	return out, nil
}

// DropDuplicates keeps the first row for each distinct value of column.
func (t *Table) DropDuplicates(column string) (*Table, error) {
	idx, err := t.Require(UseText, column)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(t.Rows))
	rows := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		value := row[idx[0]]
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		rows = append(rows, row)
	}
	return t.withRows(rows), nil
}

// DropLongRows keeps rows whose column holds fewer than maxWords
// whitespace-separated words. A non-positive maxWords keeps every row.
func (t *Table) DropLongRows(column string, maxWords int) (*Table, error) {
	idx, err := t.Require(UseText, column)
	if err != nil {
		return nil, err
	}
	if maxWords <= 0 {
		return t.withRows(slices.Clone(t.Rows)), nil
	}
	rows := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		if len(strings.Fields(row[idx[0]])) < maxWords {
			rows = append(rows, row)
		}
	}
	return t.withRows(rows), nil
}

// Sample draws n rows without replacement using a source seeded from seed.
// Sampled rows keep their relative order.
func (t *Table) Sample(n int, seed int64) (*Table, error) {
	if n < 0 {
		return nil, fmt.Errorf("sample size must be non-negative, got %d", n)
	}
	if n > len(t.Rows) {
		return nil, fmt.Errorf("%w: asked for %d rows, dataset has %d", ErrSampleTooLarge, n, len(t.Rows))
	}
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
	picked := rng.Perm(len(t.Rows))[:n]
	slices.Sort(picked)

	rows := make([][]string, n)
	for i, idx := range picked {
		rows[i] = t.Rows[idx]
	}
	return t.withRows(rows), nil
}

// Rename replaces header names using renames (old -> new).
func (t *Table) Rename(renames map[string]string) *Table {
	out := t.withRows(t.Rows)
	for i, name := range out.Header {
		if renamed, ok := renames[name]; ok && renamed != "" {
			out.Header[i] = renamed
		}
	}
	return out
}
