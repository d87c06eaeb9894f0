package normalise

import (
	"mudlark/internal/anonymise"
	"mudlark/internal/corrections"
	"mudlark/internal/inflect"
)

// Pipeline normalises single texts or dataset rows.
type Pipeline struct {
	dict            *corrections.Dictionary
	inflector       *inflect.Inflector
	collapseRepeats bool
	anonymise       bool
}

// Option customises a Pipeline.
type Option func(*Pipeline)

// WithCollapseRepeats toggles repeated-letter collapsing. It is on by default.
func WithCollapseRepeats(enabled bool) Option {
	return func(p *Pipeline) { p.collapseRepeats = enabled }
}

// WithAnonymisation toggles asset identifier replacement.
func WithAnonymisation(enabled bool) Option {
	return func(p *Pipeline) { p.anonymise = enabled }
}

// New builds a pipeline around dict. A nil dict disables corrections.
func New(dict *corrections.Dictionary, opts ...Option) *Pipeline {
	p := &Pipeline{
		dict:            dict,
		collapseRepeats: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	var vocab inflect.Vocabulary
	if dict != nil {
		vocab = dict
	}
	p.inflector = inflect.New(vocab)
	return p
}

// Anonymises reports whether identifiers are replaced.
func (p *Pipeline) Anonymises() bool { return p.anonymise }

// Inflector exposes the tense and plural rules used by the pipeline.
func (p *Pipeline) Inflector() *inflect.Inflector { return p.inflector }

// Prepared is a row after correction and cleanup, before identifiers are
// labelled. Preparing every row first lets a dataset run observe all keys
// before any label is assigned.
type Prepared struct {
	Text  string
	Spans []anonymise.Span
}

// Result is a normalised text.
type Result struct {
	Text          string                   `json:"text"`
	Tokens        []string                 `json:"tokens"`
	Substitutions []anonymise.Substitution `json:"substitutions,omitempty"`
}

// Prepare corrects typos, cleans the surface form and, when anonymisation is
// enabled, detects identifier spans. Letter case is preserved so that the
// substitution log records identifiers as written.
func (p *Pipeline) Prepare(text string) Prepared {
	text = Fold(text)
	if p.dict != nil {
		text = p.dict.Correct(text)
	}
	text = Cleanup(text)

	prep := Prepared{Text: text}
	if p.anonymise {
		prep.Spans = anonymise.Detect(text)
	}
	return prep
}

// Finish labels identifiers through r, lower-cases and collapses the rest of
// the text and applies the tense and plural rules token by token. r may be
// nil when prep carries no spans.
func (p *Pipeline) Finish(prep Prepared, r anonymise.Resolver) Result {
	text := prep.Text
	var subs []anonymise.Substitution
	if len(prep.Spans) > 0 && r != nil {
		text, subs = anonymise.ReplaceFunc(prep.Text, prep.Spans, r, p.surface)
	} else {
		text = p.surface(text)
	}

	tokens := Tokenize(text)
	for i, tok := range tokens {
		tokens[i] = p.Token(tok)
	}
	return Result{
		Text:          Detokenize(tokens),
		Tokens:        tokens,
		Substitutions: subs,
	}
}

// Normalise runs the whole pipeline on one text. Identifiers, if enabled, are
// labelled in first-seen order.
func (p *Pipeline) Normalise(text string) Result {
	var reg anonymise.Resolver
	if p.anonymise {
		reg = anonymise.NewRegistry(anonymise.ModeFirstSeen)
	}
	return p.Finish(p.Prepare(text), reg)
}

// Token applies the tense rules and then the plural rules to one token.
// Asset labels are returned untouched.
func (p *Pipeline) Token(tok string) string {
	if anonymise.IsLabel(tok) {
		return tok
	}
	return p.inflector.Singular(p.inflector.Tense(tok))
}

func (p *Pipeline) surface(text string) string {
	text = Lower(text)
	if p.collapseRepeats {
		text = CollapseRepeats(text)
	}
	return text
}
