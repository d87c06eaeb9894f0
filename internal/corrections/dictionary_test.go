package corrections_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mudlark/internal/corrections"
)

func TestParseAndLookup(t *testing.T) {
	dict, err := corrections.Parse(strings.NewReader("wrong,correct\npummp,pump\nBoken, broken\npummp,pimp\n"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if dict.Len() != 2 {
		t.Fatalf("Len = %d, want 2 (first-seen wins on duplicates)", dict.Len())
	}

	tests := []struct {
		word   string
		want   string
		wantOK bool
	}{
		{"pummp", "pump", true},
		{"PUMMP", "pump", true},
		{"boken", "broken", true},
		{"pump", "", false},
	}
	for _, tt := range tests {
		got, ok := dict.Lookup(tt.word)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Lookup(%q) = %q, %v; want %q, %v", tt.word, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseRejectsMalformedSources(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"single column", "wrong\npummp\n"},
		{"header mismatch", "typo,fix\npummp,pump\n"},
		{"swapped header", "correct,wrong\npump,pummp\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := corrections.Parse(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, corrections.ErrMalformedDictionary) {
				t.Fatalf("expected ErrMalformedDictionary, got %v", err)
			}
			var malformed *corrections.MalformedDictionaryError
			if !errors.As(err, &malformed) {
				t.Fatalf("expected *MalformedDictionaryError, got %T", err)
			}
		})
	}
}

func TestCorrectReplacesWholeWordsOnly(t *testing.T) {
	dict := corrections.New([]corrections.Entry{
		{Wrong: "a/c", Correct: "air conditioner"},
		{Wrong: "leakin", Correct: "leak"},
		{Wrong: "gw", Correct: "gland water"},
		{Wrong: "pummp", Correct: "pump"},
	})

	tests := []struct {
		in   string
		want string
	}{
		{"a/c leakin", "air conditioner leak"},
		{"pummp is Broken", "pump is Broken"},
		{"PUMMP failed", "pump failed"},
		{"gw gwx xgw", "gland water gwx xgw"},
		{"no typos here", "no typos here"},
	}
	for _, tt := range tests {
		if got := dict.Correct(tt.in); got != tt.want {
			t.Errorf("Correct(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCorrectIsSinglePass(t *testing.T) {
	dict := corrections.New([]corrections.Entry{
		{Wrong: "aa", Correct: "bb"},
		{Wrong: "bb", Correct: "cc"},
	})
	if got := dict.Correct("aa bb"); got != "bb cc" {
		t.Fatalf("Correct = %q, want %q", got, "bb cc")
	}
}

func TestProtected(t *testing.T) {
	dict := corrections.New([]corrections.Entry{
		{Wrong: "wtp", Correct: "water treatment pump"},
	})
	for _, word := range []string{"wtp", "WTP", "water", "treatment", "pump"} {
		if !dict.Protected(word) {
			t.Errorf("expected %q to be protected", word)
		}
	}
	if dict.Protected("pumps") {
		t.Error("did not expect pumps to be protected")
	}
}

func TestDefaultDictionary(t *testing.T) {
	dict, err := corrections.Default()
	if err != nil {
		t.Fatalf("Default returned error: %v", err)
	}
	tests := map[string]string{
		"a/c leakin":              "air conditioner leak",
		"accum boken":             "accumulator broken",
		"conmon":                  "condition monitoring",
		"wtp reapair and repalce": "water treatment pump repair and replace",
		"gw innadequate":          "gland water inadequate",
	}
	for in, want := range tests {
		if got := dict.Correct(in); got != want {
			t.Errorf("Correct(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrections.csv")
	if err := os.WriteFile(path, []byte("wrong,correct\nbrkn,broken\n"), 0o644); err != nil {
		t.Fatalf("write dictionary: %v", err)
	}

	dict, err := corrections.Load(path, nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if dict.Source() != path {
		t.Fatalf("Source = %q, want %q", dict.Source(), path)
	}
	if got, _ := dict.Lookup("brkn"); got != "broken" {
		t.Fatalf("Lookup(brkn) = %q", got)
	}

	builtin, err := corrections.Load("", nil)
	if err != nil {
		t.Fatalf("Load(\"\") returned error: %v", err)
	}
	if builtin.Len() == 0 {
		t.Fatal("expected built-in dictionary to have entries")
	}

	if _, err := corrections.Load(filepath.Join(t.TempDir(), "missing.csv"), nil); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
