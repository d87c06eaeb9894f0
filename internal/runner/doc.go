// Package runner executes a dataset normalisation run end to end.
//
// A run loads every configured collaborator first (corrections dictionary,
// column config), so configuration errors surface before any row is touched.
// It then filters the table, prepares each row's text on a bounded worker
// pool, collects every asset identifier key in row order, seals the label
// registry with the run seed, and finishes the rows in parallel. Column
// anonymisation, dumps and the mapping store are handled afterwards.
//
// All mapping state lives on the run. Nothing is shared between runs.
package runner
