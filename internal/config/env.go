package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// envPrefix namespaces every override variable.
const envPrefix = "MUDLARK_"

type envBinding struct {
	name  string
	apply func(c *Config, value string) error
}

var envBindings = []envBinding{
	{"CORRECTIONS_PATH", func(c *Config, v string) error { c.Normalise.CorrectionsPath = v; return nil }},
	{"COLLAPSE_REPEATS", boolBinding(func(c *Config) *bool { return &c.Normalise.CollapseRepeats })},
	{"ANONYMISE_TEXT", boolBinding(func(c *Config) *bool { return &c.Normalise.AnonymiseText })},
	{"SEED", func(c *Config, v string) error {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		c.Normalise.Seed = seed
		return nil
	}},
	{"TEXT_COLUMN", func(c *Config, v string) error { c.Dataset.TextColumn = v; return nil }},
	{"OUTPUT_FORMAT", func(c *Config, v string) error { c.Dataset.OutputFormat = v; return nil }},
	{"WORKERS", intBinding(func(c *Config) *int { return &c.Dataset.Workers })},
	{"COLUMN_CONFIG_PATH", func(c *Config, v string) error { c.Dataset.ColumnConfigPath = v; return nil }},
	{"MAPPING_DB", func(c *Config, v string) error { c.Dumps.MappingDBPath = v; return nil }},
	{"LOG_LEVEL", func(c *Config, v string) error { c.Logging.Level = v; return nil }},
	{"LOG_FORMAT", func(c *Config, v string) error { c.Logging.Format = v; return nil }},
	{"LOG_DIR", func(c *Config, v string) error { c.Logging.Dir = v; return nil }},
}

// applyEnv overlays MUDLARK_* variables. Values from the process environment
// win over values read from the .env file.
func (c *Config) applyEnv(dotenv string) error {
	values, err := readDotenv(dotenv)
	if err != nil {
		return err
	}
	for _, binding := range envBindings {
		key := envPrefix + binding.name
		value, ok := os.LookupEnv(key)
		if !ok {
			value, ok = values[key]
		}
		if !ok {
			continue
		}
		if err := binding.apply(c, strings.TrimSpace(value)); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

func readDotenv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return values, nil
}

func boolBinding(field func(*Config) *bool) func(*Config, string) error {
	return func(c *Config, v string) error {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*field(c) = parsed
		return nil
	}
}

func intBinding(field func(*Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*field(c) = parsed
		return nil
	}
}
