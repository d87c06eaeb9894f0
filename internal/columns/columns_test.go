package columns_test

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"mudlark/internal/columns"
)

func TestParseConfig(t *testing.T) {
	input := `
columns:
  - name: work_order
    handler: ToUniqueString
    new_name: wo
    prefix: WO-
  - name: floc
    handler: FLOC
  - name: cost
    handler: None
output_path: mappings.json
`
	cfg, err := columns.ParseConfig(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseConfig returned error: %v", err)
	}
	if len(cfg.Columns) != 3 {
		t.Fatalf("len(Columns) = %d, want 3", len(cfg.Columns))
	}
	first := cfg.Columns[0]
	if first.Handler != columns.HandlerToUniqueString || first.Prefix != "WO-" || first.OutputName() != "wo" {
		t.Fatalf("unexpected first spec %+v", first)
	}
	if cfg.Columns[1].OutputName() != "floc" {
		t.Fatalf("OutputName without new_name = %q, want floc", cfg.Columns[1].OutputName())
	}
	if cfg.OutputPath != "mappings.json" {
		t.Fatalf("OutputPath = %q", cfg.OutputPath)
	}
	if got := strings.Join(cfg.Names(), ","); got != "work_order,floc,cost" {
		t.Fatalf("Names = %q", got)
	}
}

func TestParseConfigRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"no columns", "columns: []\n"},
		{"unknown key", "columns:\n  - name: a\n    handler: None\n    salt: x\n"},
		{"unknown handler", "columns:\n  - name: a\n    handler: Hash\n"},
		{"missing name", "columns:\n  - handler: None\n"},
		{"duplicate column", "columns:\n  - name: a\n    handler: None\n  - name: a\n    handler: FLOC\n"},
		{"duplicate output", "columns:\n  - name: a\n    handler: None\n  - name: b\n    handler: None\n    new_name: a\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := columns.ParseConfig(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, columns.ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoadConfigReportsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "columns.yaml")
	if err := os.WriteFile(path, []byte("columns:\n  - name: a\n    handler: Nope\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := columns.LoadConfig(path)
	var cfgErr *columns.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigError, got %v", err)
	}
	if cfgErr.Path != path {
		t.Fatalf("Path = %q, want %q", cfgErr.Path, path)
	}
}

func TestFLOCRelabelsEachLevel(t *testing.T) {
	anon := columns.NewAnonymiser([]columns.Spec{{Name: "floc", Handler: columns.HandlerFLOC}}, 1)

	tests := []struct {
		in   string
		want string
	}{
		{"123-45-67", "1-1-1"},
		{"123-45-68", "1-1-2"},
		{"123-46-67", "1-2-1"},
		{"900.45.67", "2-1-1"},
		{"123-45-67", "1-1-1"},
	}
	for _, tt := range tests {
		got, err := anon.Apply("floc", tt.in)
		if err != nil {
			t.Fatalf("Apply(%q) returned error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("Apply(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRandomiseIntegerIsUniqueAndSeeded(t *testing.T) {
	specs := []columns.Spec{{Name: "id", Handler: columns.HandlerRandomiseInteger}}
	run := func(seed int64) []string {
		anon := columns.NewAnonymiser(specs, seed)
		out := make([]string, 0, 50)
		for i := range 50 {
			got, err := anon.Apply("id", strconv.Itoa(i))
			if err != nil {
				t.Fatalf("Apply returned error: %v", err)
			}
			out = append(out, got)
		}
		return out
	}

	first := run(42)
	second := run(42)
	seen := make(map[string]struct{}, len(first))
	for i, got := range first {
		if got != second[i] {
			t.Fatalf("same seed produced %q and %q", got, second[i])
		}
		n, err := strconv.Atoi(got)
		if err != nil || n < 1_000_000 || n > 9_999_999 {
			t.Fatalf("output %q is not a seven digit integer", got)
		}
		if _, dup := seen[got]; dup {
			t.Fatalf("output %q assigned twice", got)
		}
		seen[got] = struct{}{}
	}

	anon := columns.NewAnonymiser(specs, 42)
	a, _ := anon.Apply("id", "77")
	b, _ := anon.Apply("id", "77")
	if a != b {
		t.Fatalf("repeated value mapped to %q and %q", a, b)
	}
}

func TestToUniqueStringAndPassthrough(t *testing.T) {
	anon := columns.NewAnonymiser([]columns.Spec{
		{Name: "site", Handler: columns.HandlerToUniqueString, Prefix: "Site"},
		{Name: "cost", Handler: columns.HandlerPassthrough},
	}, 0)

	steps := []struct {
		column string
		in     string
		want   string
	}{
		{"site", "Karratha", "Site1"},
		{"site", "Dampier", "Site2"},
		{"site", "Karratha", "Site1"},
		{"site", "", ""},
		{"cost", "1200", "1200"},
	}
	for _, s := range steps {
		got, err := anon.Apply(s.column, s.in)
		if err != nil {
			t.Fatalf("Apply(%q, %q) returned error: %v", s.column, s.in, err)
		}
		if got != s.want {
			t.Errorf("Apply(%q, %q) = %q, want %q", s.column, s.in, got, s.want)
		}
	}

	if _, err := anon.Apply("missing", "x"); err == nil {
		t.Fatal("expected error for unconfigured column")
	}

	mappings := anon.Mappings()
	site := mappings["site"]
	if len(site) != 2 || site[0].Raw != "Karratha" || site[0].Output != "Site1" || site[1].Output != "Site2" {
		t.Fatalf("site mappings = %+v", site)
	}
	if len(mappings["cost"]) != 1 {
		t.Fatalf("cost mappings = %+v", mappings["cost"])
	}
}
