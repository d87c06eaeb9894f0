package mappingstore

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"mudlark/internal/fileutil"
)

// WriteTerms dumps the anonymised surface terms to path. A .json path gets a
// term -> label object; any other path gets one "term, label" line per term,
// sorted by term.
func WriteTerms(path string, terms []Term) error {
	sorted := make([]Term, len(terms))
	copy(sorted, terms)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Term < sorted[j].Term })

	return fileutil.WithLock(path, func() error {
		return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
			if isJSONPath(path) {
				obj := make(map[string]string, len(sorted))
				for _, t := range sorted {
					obj[t.Term] = t.Label
				}
				return encodeJSON(w, obj)
			}
			for _, t := range sorted {
				if _, err := fmt.Fprintf(w, "%s, %s\n", t.Term, t.Label); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

// WriteColumnMappings dumps every column's raw -> output pairs as a JSON
// object keyed by column name.
func WriteColumnMappings(path string, columns map[string][]ColumnValue) error {
	obj := make(map[string]map[string]string, len(columns))
	for column, values := range columns {
		pairs := make(map[string]string, len(values))
		for _, v := range values {
			pairs[v.Raw] = v.Output
		}
		obj[column] = pairs
	}
	return fileutil.WithLock(path, func() error {
		return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
			return encodeJSON(w, obj)
		})
	})
}

func encodeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(v)
}

func isJSONPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
