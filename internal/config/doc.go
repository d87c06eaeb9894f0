// Package config loads, normalizes, and validates Mudlark configuration data.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and applies overrides from an optional .env file and MUDLARK_*
// environment variables. The Config type centralizes every knob the CLI and
// the dataset runner need so that a run can be reproduced from one file.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
