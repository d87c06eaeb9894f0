// Package inflect reduces maintenance-log tokens to a canonical present-tense,
// singular form.
//
// Both transforms are ordered lists of named rules. The first rule that fires
// decides the output and later rules are skipped, so the order of each list is
// part of its behaviour. Rules only read package-level tables and the
// caller's protected vocabulary, which makes an Inflector safe for concurrent
// use.
package inflect
