package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mudlark/internal/testsupport"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	dbPath     string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Chdir(base)

	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "mudlark.toml"),
		dbPath:     filepath.Join(base, "data", "mappings.db"),
	}
	content := fmt.Sprintf("[normalise]\nseed = 5\n\n[dumps]\nmapping_db_path = %q\n\n[logging]\nlevel = \"error\"\n", env.dbPath)
	testsupport.WriteFile(t, env.configPath, content)
	return env
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestNormaliseText(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"normalise-text", "pummp is Broken"}, env.configPath)
	if err != nil {
		t.Fatalf("normalise-text: %v", err)
	}
	if out != "pump is broken\n" {
		t.Fatalf("output = %q", out)
	}

	out, _, err = runCLI(t, []string{"normalise-text", "--anonymise", "--json", "ABC 124 is broken"}, env.configPath)
	if err != nil {
		t.Fatalf("normalise-text --json: %v", err)
	}
	var decoded normaliseTextOutput
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if decoded.Output != "Asset1 is broken" {
		t.Fatalf("Output = %q", decoded.Output)
	}
	if len(decoded.Substitutions) != 1 || decoded.Substitutions[0].Span != "ABC 124" {
		t.Fatalf("Substitutions = %+v", decoded.Substitutions)
	}
}

func TestExplain(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"explain", "hopping", "boxes"}, env.configPath)
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	requireContains(t, out, "Word\tTense\tRule\tSingular\tRule")
	requireContains(t, out, "hopping\thop\tdouble-consonant\thop\t")
	requireContains(t, out, "boxes\tboxes\tno-tense-suffix\tbox\tsibilant-es")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "builtin:mwo_corrections.csv")

	target := filepath.Join(env.baseDir, "generated", "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config already exists")
	}

	out, _, err = runCLI(t, []string{"config", "validate"}, target)
	if err != nil {
		t.Fatalf("validate generated config: %v", err)
	}
	requireContains(t, out, "Configuration valid")
}

func TestNormaliseCSVAndReverse(t *testing.T) {
	env := setupCLITestEnv(t)
	input := testsupport.WriteCSV(t, env.baseDir, "input.csv",
		"id,text",
		"1,pummp is Broken",
		"2,ABC 124 leakin",
	)
	output := filepath.Join(env.baseDir, "out.csv")

	out, _, err := runCLI(t, []string{
		"normalise-csv", input,
		"--output", output,
		"--output-format", "csv",
		"--anonymise",
	}, env.configPath)
	if err != nil {
		t.Fatalf("normalise-csv: %v", err)
	}
	requireContains(t, out, "Saved 2 rows")

	want := "id,text\n1,pump is broken\n2,Asset1 leak\n"
	if got := testsupport.ReadFile(t, output); got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}

	out, _, err = runCLI(t, []string{"mappings", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("mappings list: %v", err)
	}
	requireContains(t, out, "ID\tCreated\tSource\tRows\tAssets\tColumns")
	requireContains(t, out, "\t2\t1\t0")

	out, _, err = runCLI(t, []string{"mappings", "show", "latest"}, env.configPath)
	if err != nil {
		t.Fatalf("mappings show: %v", err)
	}
	requireContains(t, out, "ABC 124\tAsset1")

	out, _, err = runCLI(t, []string{"reverse", "latest", "Asset1", "leak"}, env.configPath)
	if err != nil {
		t.Fatalf("reverse: %v", err)
	}
	if out != "ABC 124 leak\n" {
		t.Fatalf("reverse output = %q", out)
	}

	restored := filepath.Join(env.baseDir, "restored.csv")
	if _, _, err := runCLI(t, []string{"reverse", "latest", "--input", output, "--output", restored}, env.configPath); err != nil {
		t.Fatalf("reverse --input: %v", err)
	}
	requireContains(t, testsupport.ReadFile(t, restored), "2,ABC 124 leak")
}

func TestMappingsRequireDatabase(t *testing.T) {
	env := setupCLITestEnv(t)
	bare := filepath.Join(env.baseDir, "bare.toml")
	testsupport.WriteFile(t, bare, "[logging]\nlevel = \"error\"\n")

	_, _, err := runCLI(t, []string{"mappings", "list"}, bare)
	if err == nil || !strings.Contains(err.Error(), "mapping_db_path") {
		t.Fatalf("expected mapping_db_path error, got %v", err)
	}
}
