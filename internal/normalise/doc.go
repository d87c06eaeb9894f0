// Package normalise turns a noisy maintenance work order into canonical text.
//
// The pipeline runs typo correction, surface cleanup, optional identifier
// anonymisation, lower-casing and repeat collapsing, tokenisation, then the
// tense and plural rules of package inflect, and finally rejoins the tokens
// with single spaces. A Pipeline only reads shared tables and can be used
// from many goroutines; identifier labels come from the anonymise.Resolver the
// caller passes in.
package normalise
