// Package main hosts the mudlark CLI entrypoint and command graph.
//
// The Cobra command tree normalises single texts or whole CSV datasets,
// explains which tense and plural rules fire for a word, inspects the mapping
// store that keeps every anonymised run, and reverses anonymised text. It
// centralizes configuration resolution and logger setup so subcommands only
// translate flags into config overrides.
//
// Keep this package lean: the rule engine, dataset handling and persistence
// live in internal packages.
package main
