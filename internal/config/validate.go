package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDataset(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDataset() error {
	if c.Dataset.TextColumn == "" {
		return errors.New("dataset.text_column must be set")
	}
	switch c.Dataset.OutputFormat {
	case OutputCSV, OutputQuickGraph:
	default:
		return fmt.Errorf("dataset.output_format must be either %q or %q, got %q", OutputCSV, OutputQuickGraph, c.Dataset.OutputFormat)
	}
	if c.Dataset.MaxRows < 0 {
		return errors.New("dataset.max_rows must be zero (unlimited) or positive")
	}
	if c.Dataset.MaxWords < 0 {
		return errors.New("dataset.max_words must be zero (unlimited) or positive")
	}
	if c.Dataset.Workers > maxWorkers {
		return fmt.Errorf("dataset.workers must be at most %d", maxWorkers)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
