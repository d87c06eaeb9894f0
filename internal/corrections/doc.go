// Package corrections loads the wrong -> correct word table applied before any
// morphological normalisation.
//
// Keys match case-insensitively and only as whole words. The table is read
// once and shared read-only across workers. Words that are either keys or part
// of a corrected value are reported as protected so that tense and plural rules
// never rewrite them.
package corrections
