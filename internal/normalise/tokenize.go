package normalise

import "strings"

// Tokenize splits cleaned text on whitespace.
func Tokenize(text string) []string {
	return strings.Fields(text)
}

// Detokenize joins tokens with single spaces.
func Detokenize(tokens []string) string {
	return strings.Join(tokens, " ")
}
