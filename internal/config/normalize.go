package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDataset()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	fields := []struct {
		key   string
		value *string
	}{
		{"normalise.corrections_path", &c.Normalise.CorrectionsPath},
		{"dataset.column_config_path", &c.Dataset.ColumnConfigPath},
		{"dumps.anonymised_terms_path", &c.Dumps.AnonymisedTermsPath},
		{"dumps.column_mappings_path", &c.Dumps.ColumnMappingsPath},
		{"dumps.mapping_db_path", &c.Dumps.MappingDBPath},
		{"logging.dir", &c.Logging.Dir},
	}
	for _, field := range fields {
		trimmed := strings.TrimSpace(*field.value)
		expanded, err := expandPath(trimmed)
		if err != nil {
			return fmt.Errorf("%s: %w", field.key, err)
		}
		*field.value = expanded
	}
	return nil
}

func (c *Config) normalizeDataset() {
	c.Dataset.TextColumn = strings.TrimSpace(c.Dataset.TextColumn)
	c.Dataset.OutputFormat = strings.ToLower(strings.TrimSpace(c.Dataset.OutputFormat))
	if c.Dataset.OutputFormat == "" {
		c.Dataset.OutputFormat = defaultOutputFormat
	}
	if c.Dataset.Workers <= 0 {
		c.Dataset.Workers = defaultWorkers()
	}
	c.Dataset.QuickGraphIDColumns = ParseList(strings.Join(c.Dataset.QuickGraphIDColumns, ","))
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// ParseList splits a comma separated list, trimming blanks and duplicates.
// "my_id, surname" yields ["my_id", "surname"].
func ParseList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
