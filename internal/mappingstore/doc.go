// Package mappingstore persists the mapping tables of each dataset run in
// SQLite so anonymised output can be reversed later.
//
// A run records its asset identifier keys, the surface terms that produced
// them, and the raw -> output pairs of every anonymised column. Runs are keyed
// by a UUID. The schema is applied from embedded migrations on Open.
//
// The package also writes the flat dump files (terms list, column mapping
// JSON) that sit next to a run's output.
package mappingstore
