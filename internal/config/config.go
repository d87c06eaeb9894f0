package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Normalise contains settings for the text normalisation pipeline.
type Normalise struct {
	// CorrectionsPath points at a wrong,correct CSV. Empty selects the
	// built-in maintenance work order dictionary.
	CorrectionsPath string `toml:"corrections_path"`
	CollapseRepeats bool   `toml:"collapse_repeats"`
	AnonymiseText   bool   `toml:"anonymise_text"`
	// Seed drives the asset label shuffle and the integer column pool.
	// Zero means a fresh seed is drawn for every run.
	Seed int64 `toml:"seed"`
}

// Dataset contains settings for CSV normalisation runs.
type Dataset struct {
	TextColumn          string   `toml:"text_column"`
	OutputFormat        string   `toml:"output_format"`
	MaxRows             int      `toml:"max_rows"`
	MaxWords            int      `toml:"max_words"`
	DropDuplicates      bool     `toml:"drop_duplicates"`
	ColumnConfigPath    string   `toml:"column_config_path"`
	QuickGraphIDColumns []string `toml:"quickgraph_id_columns"`
	Workers             int      `toml:"workers"`
}

// Dumps contains destinations for the reversible mapping side-tables.
type Dumps struct {
	AnonymisedTermsPath string `toml:"anonymised_terms_path"`
	ColumnMappingsPath  string `toml:"column_mappings_path"`
	MappingDBPath       string `toml:"mapping_db_path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	Dir    string `toml:"dir"`
}

// Config encapsulates all configuration values for Mudlark.
type Config struct {
	Normalise Normalise `toml:"normalise"`
	Dataset   Dataset   `toml:"dataset"`
	Dumps     Dumps     `toml:"dumps"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigLocation)
}

// Load locates, parses, and validates a configuration file. Environment
// overrides are applied after the file is decoded. The returned config has all
// path fields expanded.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.applyEnv(dotenvPath); err != nil {
		return nil, "", false, err
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigLocation)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	for _, candidate := range []string{defaultPath, projectPath} {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true, nil
		}
	}

	return defaultPath, false, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// QuickGraph reports whether the run writes QuickGraph JSON.
func (c *Config) QuickGraph() bool {
	return c.Dataset.OutputFormat == OutputQuickGraph
}
