// Package columns anonymises auxiliary dataset columns.
//
// A YAML column config lists the columns to keep, each with one handler:
// None (or Passthrough) keeps the value, RandomiseInteger swaps each distinct
// value for an unused seven digit integer, FLOC relabels every level of a
// dotted or dashed functional location independently, and ToUniqueString
// numbers distinct values behind an optional prefix. Every handler records
// its raw -> output mapping so a run can be reversed.
package columns
