package mappingstore

import (
	"mudlark/internal/anonymise"
)

// LabelLookup resolves an asset label to the first surface term recorded for
// it, or to its canonical key when the run stored no terms.
func (r *Record) LabelLookup() func(label string) (string, bool) {
	byLabel := make(map[string]string, len(r.Labels))
	for _, l := range r.Labels {
		if _, ok := byLabel[l.Label]; !ok {
			byLabel[l.Label] = l.Key
		}
	}
	terms := make(map[string]string, len(r.Terms))
	for _, t := range r.Terms {
		if _, ok := terms[t.Label]; !ok {
			terms[t.Label] = t.Term
		}
	}
	return func(label string) (string, bool) {
		if term, ok := terms[label]; ok {
			return term, true
		}
		key, ok := byLabel[label]
		return key, ok
	}
}

// RestoreText replaces every label in text with its original identifier.
// Unknown labels are left in place.
func (r *Record) RestoreText(text string) string {
	return anonymise.Restore(text, r.LabelLookup())
}

// ColumnReverser maps anonymised outputs back to raw values for one column.
// The column may be named by its source or output name.
func (r *Record) ColumnReverser(column string) (func(output string) string, bool) {
	name := column
	for _, spec := range r.ColumnSpecs {
		if spec.OutputName == column || spec.Name == column {
			name = spec.Name
			break
		}
	}
	values, ok := r.Columns[name]
	if !ok {
		return nil, false
	}
	reverse := make(map[string]string, len(values))
	for _, v := range values {
		if _, seen := reverse[v.Output]; !seen {
			reverse[v.Output] = v.Raw
		}
	}
	return func(output string) string {
		if raw, ok := reverse[output]; ok {
			return raw
		}
		return output
	}, true
}
