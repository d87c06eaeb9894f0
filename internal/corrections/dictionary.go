package corrections

import (
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"mudlark/internal/logging"
)

//go:embed mwo_corrections.csv
var defaultCorrections string

const (
	headerWrong   = "wrong"
	headerCorrect = "correct"
)

// Entry is one wrong -> correct substitution.
type Entry struct {
	Wrong   string `json:"wrong"`
	Correct string `json:"correct"`
}

// Dictionary is an immutable, case-insensitive corrections table. It is safe
// for concurrent use once constructed.
type Dictionary struct {
	entries    []Entry
	lookup     map[string]string
	vocabulary map[string]struct{}
	pattern    *regexp.Regexp
	source     string
}

var (
	defaultOnce sync.Once
	defaultDict *Dictionary
	defaultErr  error
)

// Default returns the built-in maintenance work order dictionary.
func Default() (*Dictionary, error) {
	defaultOnce.Do(func() {
		defaultDict, defaultErr = parse(strings.NewReader(defaultCorrections), "builtin:mwo_corrections.csv")
	})
	return defaultDict, defaultErr
}

// Load reads the dictionary at path, falling back to the built-in table when
// path is empty.
func Load(path string, logger *slog.Logger) (*Dictionary, error) {
	logger = logging.NewComponentLogger(logger, "corrections")

	if strings.TrimSpace(path) == "" {
		dict, err := Default()
		if err != nil {
			return nil, err
		}
		logger.Debug("using built-in corrections dictionary", logging.Int("entries", dict.Len()))
		return dict, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corrections dictionary: %w", err)
	}
	defer file.Close()

	dict, err := parse(file, path)
	if err != nil {
		return nil, err
	}
	logger.Info("corrections dictionary loaded",
		logging.String(logging.FieldEventType, "dictionary_loaded"),
		logging.String(logging.FieldPath, path),
		logging.Int("entries", dict.Len()),
	)
	return dict, nil
}

// Parse reads a two column wrong,correct CSV.
func Parse(r io.Reader) (*Dictionary, error) {
	return parse(r, "")
}

// New builds a dictionary from in-memory entries. Earlier entries win when
// the same wrong word appears twice.
func New(entries []Entry) *Dictionary {
	d := &Dictionary{
		lookup:     make(map[string]string, len(entries)),
		vocabulary: make(map[string]struct{}),
	}
	for _, entry := range entries {
		key := strings.ToLower(strings.TrimSpace(entry.Wrong))
		value := strings.TrimSpace(entry.Correct)
		if key == "" {
			continue
		}
		if _, exists := d.lookup[key]; exists {
			continue
		}
		d.lookup[key] = value
		d.entries = append(d.entries, Entry{Wrong: key, Correct: value})
		for _, word := range strings.Fields(strings.ToLower(value)) {
			d.vocabulary[word] = struct{}{}
		}
	}
	d.pattern = compilePattern(d.entries)
	return d
}

func parse(r io.Reader, source string) (*Dictionary, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &MalformedDictionaryError{Source: source, Reason: "file is empty"}
		}
		return nil, &MalformedDictionaryError{Source: source, Reason: "unreadable header", Err: err}
	}
	if len(header) < 2 {
		return nil, &MalformedDictionaryError{Source: source, Reason: fmt.Sprintf("expected 2 columns, found %d", len(header))}
	}
	if normalizeHeader(header[0]) != headerWrong || normalizeHeader(header[1]) != headerCorrect {
		return nil, &MalformedDictionaryError{
			Source: source,
			Reason: fmt.Sprintf("header must be %q,%q, found %q,%q", headerWrong, headerCorrect, header[0], header[1]),
		}
	}

	var entries []Entry
	line := 1
	for {
		record, err := reader.Read()
		line++
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &MalformedDictionaryError{Source: source, Reason: fmt.Sprintf("line %d", line), Err: err}
		}
		if len(record) < 2 {
			continue
		}
		entries = append(entries, Entry{Wrong: record[0], Correct: record[1]})
	}

	d := New(entries)
	d.source = source
	return d, nil
}

func normalizeHeader(value string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(value, "\ufeff")))
}

// compilePattern builds one alternation of every key, longest first. Word
// boundaries are only required on sides where the key starts or ends with a
// word character, so keys such as "a/c" and "r&r" still match.
func compilePattern(entries []Entry) *regexp.Regexp {
	if len(entries) == 0 {
		return nil
	}
	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		keys = append(keys, entry.Wrong)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		var b strings.Builder
		first, _ := utf8.DecodeRuneInString(key)
		last, _ := utf8.DecodeLastRuneInString(key)
		if isWordRune(first) {
			b.WriteString(`\b`)
		}
		b.WriteString(regexp.QuoteMeta(key))
		if isWordRune(last) {
			b.WriteString(`\b`)
		}
		parts = append(parts, b.String())
	}
	return regexp.MustCompile(`(?i)(?:` + strings.Join(parts, "|") + `)`)
}

func isWordRune(r rune) bool {
	return r == '_' || (r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r)))
}

// Len reports the number of distinct corrections.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Source names where the dictionary came from.
func (d *Dictionary) Source() string {
	if d == nil {
		return ""
	}
	return d.source
}

// Entries returns a copy of the corrections in load order.
func (d *Dictionary) Entries() []Entry {
	if d == nil {
		return nil
	}
	out := make([]Entry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Lookup returns the correction for word, matching case-insensitively.
func (d *Dictionary) Lookup(word string) (string, bool) {
	if d == nil {
		return "", false
	}
	value, ok := d.lookup[strings.ToLower(word)]
	return value, ok
}

// Protected reports whether word is a dictionary key or part of a corrected
// value. Morphological rules must leave such words alone.
func (d *Dictionary) Protected(word string) bool {
	if d == nil {
		return false
	}
	lower := strings.ToLower(word)
	if _, ok := d.lookup[lower]; ok {
		return true
	}
	_, ok := d.vocabulary[lower]
	return ok
}

// Correct replaces every whole-word occurrence of a key in text.
func (d *Dictionary) Correct(text string) string {
	if d == nil || d.pattern == nil {
		return text
	}
	return d.pattern.ReplaceAllStringFunc(text, func(match string) string {
		if value, ok := d.lookup[strings.ToLower(match)]; ok {
			return value
		}
		return match
	})
}
