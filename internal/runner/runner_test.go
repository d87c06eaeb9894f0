package runner_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mudlark/internal/anonymise"
	"mudlark/internal/config"
	"mudlark/internal/dataset"
	"mudlark/internal/logging"
	"mudlark/internal/runner"
	"mudlark/internal/testsupport"
)

func table(texts ...string) *dataset.Table {
	t := &dataset.Table{Header: []string{"id", "text"}}
	for i, text := range texts {
		t.Rows = append(t.Rows, []string{string(rune('a' + i)), text})
	}
	return t
}

func process(t *testing.T, cfg *config.Config, in *dataset.Table) *runner.Result {
	t.Helper()
	result, err := runner.Process(context.Background(), runner.Dependencies{Config: cfg, Logger: logging.NewNop()}, in)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	return result
}

func TestProcessSharesLabelsAcrossSurfaceVariants(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithAnonymisation())
	in := table("ABC 124 is broken", "ABC 123 has a problem", "ABC-124 is broken")

	result := process(t, cfg, in)
	docs := result.Documents
	if len(docs) != 3 {
		t.Fatalf("len(Documents) = %d, want 3", len(docs))
	}

	first, second, third := docs[0].Tokens[0], docs[1].Tokens[0], docs[2].Tokens[0]
	for _, label := range []string{first, second, third} {
		if !anonymise.IsLabel(label) {
			t.Fatalf("expected a label, got %q", label)
		}
	}
	if first != third {
		t.Fatalf("surface variants got different labels: %q and %q", first, third)
	}
	if first == second {
		t.Fatalf("distinct identifiers share label %q", first)
	}
	if got := strings.Join(docs[0].Tokens[1:], " "); got != "is broken" {
		t.Fatalf("remaining tokens = %q", got)
	}
	if len(result.Labels) != 2 {
		t.Fatalf("len(Labels) = %d, want 2", len(result.Labels))
	}
	if len(result.Terms) != 3 {
		t.Fatalf("len(Terms) = %d, want 3 surface terms", len(result.Terms))
	}
	if in.Rows[0][1] != "ABC 124 is broken" {
		t.Fatal("input table was modified")
	}
}

func TestProcessLabelsDependOnlyOnSeed(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithAnonymisation())
	cfg.Normalise.Seed = 99

	labelsByKey := func(r *runner.Result) map[string]string {
		out := make(map[string]string, len(r.Labels))
		for _, e := range r.Labels {
			out[e.Key] = e.Label
		}
		return out
	}

	forward := process(t, cfg, table("QRS 1 seized", "ABC 123 leak", "XYZ-9 tripped", "ABC123 reset"))
	again := process(t, cfg, table("QRS 1 seized", "ABC 123 leak", "XYZ-9 tripped", "ABC123 reset"))
	reversed := process(t, cfg, table("ABC123 reset", "XYZ-9 tripped", "ABC 123 leak", "QRS 1 seized"))

	for i := range forward.Documents {
		if forward.Documents[i].Original != again.Documents[i].Original {
			t.Fatalf("row %d differs between identical runs", i)
		}
	}
	want := labelsByKey(forward)
	for _, other := range []*runner.Result{again, reversed} {
		got := labelsByKey(other)
		if len(got) != len(want) {
			t.Fatalf("label count %d, want %d", len(got), len(want))
		}
		for key, label := range want {
			if got[key] != label {
				t.Fatalf("key %q labelled %q, want %q", key, got[key], label)
			}
		}
	}
}

func TestProcessWithoutAnonymisation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	result := process(t, cfg, table("pummp is Broken", "ABC 124 leakin"))

	if got := result.Documents[0].Original; got != "pump is broken" {
		t.Fatalf("row 0 = %q, want %q", got, "pump is broken")
	}
	if got := result.Documents[1].Original; !strings.HasPrefix(got, "abc 124") {
		t.Fatalf("row 1 = %q, identifiers should stay when anonymisation is off", got)
	}
	if len(result.Labels) != 0 || len(result.Terms) != 0 {
		t.Fatalf("unexpected mappings: %+v %+v", result.Labels, result.Terms)
	}
}

func TestProcessFilters(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Dataset.DropDuplicates = true
	cfg.Dataset.MaxWords = 3

	result := process(t, cfg, table("pump leak", "pump leak", "replace the seal now", "check valve"))
	if result.Rows != 2 || result.InputRows != 4 {
		t.Fatalf("Rows = %d, InputRows = %d", result.Rows, result.InputRows)
	}

	cfg.Dataset.MaxRows = 10
	_, err := runner.Process(context.Background(), runner.Dependencies{Config: cfg}, table("a b", "c d"))
	if !errors.Is(err, dataset.ErrSampleTooLarge) {
		t.Fatalf("expected ErrSampleTooLarge, got %v", err)
	}
}

func TestProcessValidatesQuickGraphIDColumns(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Dataset.QuickGraphIDColumns = []string{"id", "missing"}

	_, err := runner.Process(context.Background(), runner.Dependencies{Config: cfg}, table("pump leak"))
	var colErr *dataset.ColumnError
	if !errors.As(err, &colErr) || colErr.Column != "missing" {
		t.Fatalf("expected ColumnError for missing, got %v", err)
	}

	cfg.Dataset.QuickGraphIDColumns = []string{"id"}
	result := process(t, cfg, table("pump leak"))
	if result.Documents[0].ExternalID != "id: a" {
		t.Fatalf("ExternalID = %q", result.Documents[0].ExternalID)
	}
}

const columnConfig = `columns:
  - name: id
    handler: ToUniqueString
    prefix: WO
  - name: floc
    handler: FLOC
    new_name: location
`

func TestRunWritesCSVDumpsAndStore(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithAnonymisation(),
		testsupport.WithOutputFormat(config.OutputCSV),
		testsupport.WithColumnConfig(columnConfig),
		testsupport.WithDumps(),
	)
	base := testsupport.BaseDir(cfg)
	input := testsupport.WriteCSV(t, base, "input.csv",
		"id,text,floc,cost",
		"1,pummp is Broken,123-45-67,10",
		"2,ABC 124 leakin,123-45-68,20",
	)
	output := filepath.Join(base, "out", "output.csv")
	store := testsupport.MustOpenStore(t, cfg)

	result, err := runner.Run(context.Background(), runner.Dependencies{
		Config: cfg,
		Store:  store,
		Logger: logging.NewNop(),
	}, runner.Request{InputPath: input, OutputPath: output})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	want := "id,text,location\nWO1,pump is broken,1-1-1\nWO2,Asset1 leak,1-1-2\n"
	if got := testsupport.ReadFile(t, output); got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
	if got := testsupport.ReadFile(t, cfg.Dumps.AnonymisedTermsPath); got != "ABC 124, Asset1\n" {
		t.Fatalf("terms dump = %q", got)
	}
	if got := testsupport.ReadFile(t, cfg.Dumps.ColumnMappingsPath); !strings.Contains(got, `"123-45-68": "1-1-2"`) {
		t.Fatalf("column dump = %q", got)
	}

	rec, err := store.Load(context.Background(), "latest")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if rec.Run.ID != result.RunID || rec.Run.TextColumn != "text" || rec.Run.Rows != 2 {
		t.Fatalf("stored run = %+v", rec.Run)
	}
	if got := rec.RestoreText("Asset1 leak"); got != "ABC 124 leak" {
		t.Fatalf("RestoreText = %q", got)
	}
	reverse, ok := rec.ColumnReverser("location")
	if !ok || reverse("1-1-1") != "123-45-67" {
		t.Fatal("column reversal failed")
	}
}

func TestRunFailsBeforeWritingOnConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *config.Config, base string)
		check  func(t *testing.T, err error)
	}{
		{
			name: "missing corrections file",
			mutate: func(cfg *config.Config, base string) {
				cfg.Normalise.CorrectionsPath = filepath.Join(base, "nope.csv")
			},
			check: func(t *testing.T, err error) {
				if !errors.Is(err, os.ErrNotExist) {
					t.Fatalf("expected not-exist error, got %v", err)
				}
			},
		},
		{
			name: "keep column missing from dataset",
			mutate: func(cfg *config.Config, base string) {
				path := filepath.Join(base, "columns.yaml")
				testsupport.WriteFile(t, path, "columns:\n  - name: site\n    handler: None\n")
				cfg.Dataset.ColumnConfigPath = path
				cfg.Dataset.OutputFormat = config.OutputCSV
			},
			check: func(t *testing.T, err error) {
				if err == nil || !strings.Contains(err.Error(), "was not found in the input dataset") {
					t.Fatalf("unexpected error %v", err)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testsupport.NewConfig(t)
			base := testsupport.BaseDir(cfg)
			tt.mutate(cfg, base)
			input := testsupport.WriteCSV(t, base, "input.csv", "id,text", "1,pump leak")
			output := filepath.Join(base, "output.json")

			_, err := runner.Run(context.Background(), runner.Dependencies{Config: cfg}, runner.Request{InputPath: input, OutputPath: output})
			tt.check(t, err)
			if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
				t.Fatal("output written despite error")
			}
		})
	}
}
