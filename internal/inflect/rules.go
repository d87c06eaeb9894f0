package inflect

import "strings"

// Vocabulary reports words that must never be rewritten, typically the keys
// and corrected values of a corrections dictionary.
type Vocabulary interface {
	Protected(word string) bool
}

// rule is one step of a transform. Apply returns the rewritten token and true
// when the rule fires.
type rule struct {
	Name  string
	Apply func(t token) (string, bool)
}

// token carries the word and, for tense rules, the stem left after removing
// "-ed" or "-ing".
type token struct {
	word   string
	stem   string
	suffix string
}

// RuleUnchanged is reported by Explain when no rule fired.
const RuleUnchanged = "unchanged"

// Inflector applies the tense and plural rule lists.
type Inflector struct {
	vocab    Vocabulary
	tense    []rule
	singular []rule
}

// New builds an Inflector. A nil vocabulary protects nothing.
func New(vocab Vocabulary) *Inflector {
	in := &Inflector{vocab: vocab}
	in.tense = tenseRules(in.protected)
	in.singular = singularRules(in.protected)
	return in
}

func (in *Inflector) protected(t token) (string, bool) {
	if in.vocab != nil && in.vocab.Protected(t.word) {
		return t.word, true
	}
	return "", false
}

// Tense converts token to its present-tense form.
func (in *Inflector) Tense(word string) string {
	out, _ := in.ExplainTense(word)
	return out
}

// ExplainTense returns the present-tense form and the name of the rule that
// produced it.
func (in *Inflector) ExplainTense(word string) (string, string) {
	return run(in.tense, newTenseToken(word))
}

// Singular converts token to its singular form.
func (in *Inflector) Singular(word string) string {
	out, _ := in.ExplainSingular(word)
	return out
}

// ExplainSingular returns the singular form and the name of the rule that
// produced it.
func (in *Inflector) ExplainSingular(word string) (string, string) {
	return run(in.singular, token{word: word})
}

// TenseRules lists the tense rule names in evaluation order.
func (in *Inflector) TenseRules() []string { return ruleNames(in.tense) }

// SingularRules lists the plural rule names in evaluation order.
func (in *Inflector) SingularRules() []string { return ruleNames(in.singular) }

func run(rules []rule, t token) (string, string) {
	for _, rule := range rules {
		if out, ok := rule.Apply(t); ok {
			return out, rule.Name
		}
	}
	return t.word, RuleUnchanged
}

func ruleNames(rules []rule) []string {
	names := make([]string, len(rules))
	for i, rule := range rules {
		names[i] = rule.Name
	}
	return names
}

func newTenseToken(word string) token {
	switch {
	case strings.HasSuffix(word, "ed"):
		return token{word: word, stem: strings.TrimSuffix(word, "ed"), suffix: "ed"}
	case strings.HasSuffix(word, "ing"):
		return token{word: word, stem: strings.TrimSuffix(word, "ing"), suffix: "ing"}
	default:
		return token{word: word}
	}
}

func when(pred func(t token) bool, out func(t token) string) func(t token) (string, bool) {
	return func(t token) (string, bool) {
		if pred(t) {
			return out(t), true
		}
		return "", false
	}
}

func keepWord(t token) string { return t.word }
func keepStem(t token) string { return t.stem }
func stemPlusE(t token) string { return t.stem + "e" }

func stemSuffix(suffix string) func(t token) bool {
	return func(t token) bool { return strings.HasSuffix(t.stem, suffix) }
}

func stemIn(s set) func(t token) bool {
	return func(t token) bool { return s.has(t.stem) }
}

func stemIs(stem string) func(t token) bool {
	return func(t token) bool { return t.stem == stem }
}
