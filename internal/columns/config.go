package columns

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.yaml.in/yaml/v4"
)

// Handler names a column anonymisation strategy.
type Handler string

const (
	HandlerNone             Handler = "None"
	HandlerPassthrough      Handler = "Passthrough"
	HandlerRandomiseInteger Handler = "RandomiseInteger"
	HandlerFLOC             Handler = "FLOC"
	HandlerToUniqueString   Handler = "ToUniqueString"
)

// Handlers lists every accepted handler name.
var Handlers = []Handler{
	HandlerNone,
	HandlerPassthrough,
	HandlerRandomiseInteger,
	HandlerFLOC,
	HandlerToUniqueString,
}

// Valid reports whether h is a known handler.
func (h Handler) Valid() bool {
	for _, known := range Handlers {
		if h == known {
			return true
		}
	}
	return false
}

// Spec configures one retained column.
type Spec struct {
	Name    string  `yaml:"name" json:"name"`
	Handler Handler `yaml:"handler" json:"handler"`
	NewName string  `yaml:"new_name,omitempty" json:"new_name,omitempty"`
	Prefix  string  `yaml:"prefix,omitempty" json:"prefix,omitempty"`
}

// OutputName is the column header written to the output dataset.
func (s Spec) OutputName() string {
	if s.NewName != "" {
		return s.NewName
	}
	return s.Name
}

// Config is the decoded column config file.
type Config struct {
	Columns    []Spec `yaml:"columns"`
	OutputPath string `yaml:"output_path,omitempty"`
}

// ErrInvalidConfig is wrapped by every ConfigError.
var ErrInvalidConfig = errors.New("invalid column config")

// ConfigError reports a column config that cannot be used.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", ErrInvalidConfig, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", ErrInvalidConfig, e.Path, e.Err)
}

func (e *ConfigError) Unwrap() []error {
	return []error{ErrInvalidConfig, e.Err}
}

// LoadConfig reads and validates the YAML column config at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read column config: %w", err)
	}
	cfg, err := ParseConfig(bytes.NewReader(data))
	if err != nil {
		var cfgErr *ConfigError
		if errors.As(err, &cfgErr) {
			cfgErr.Path = path
		}
		return nil, err
	}
	return cfg, nil
}

// ParseConfig decodes a column config. Unknown keys are rejected.
func ParseConfig(r io.Reader) (*Config, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var cfg Config
	if err := decoder.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ConfigError{Err: errors.New("file is empty")}
		}
		return nil, &ConfigError{Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks handler names and column uniqueness.
func (c *Config) Validate() error {
	if len(c.Columns) == 0 {
		return &ConfigError{Err: errors.New("columns must list at least one column")}
	}
	seen := make(map[string]struct{}, len(c.Columns))
	outputs := make(map[string]struct{}, len(c.Columns))
	for i := range c.Columns {
		spec := &c.Columns[i]
		spec.Name = strings.TrimSpace(spec.Name)
		spec.NewName = strings.TrimSpace(spec.NewName)
		if spec.Name == "" {
			return &ConfigError{Err: fmt.Errorf("columns[%d].name must be set", i)}
		}
		if !spec.Handler.Valid() {
			return &ConfigError{Err: fmt.Errorf("column %q: unknown handler %q (want one of %s)", spec.Name, spec.Handler, handlerList())}
		}
		if _, dup := seen[spec.Name]; dup {
			return &ConfigError{Err: fmt.Errorf("column %q is configured more than once", spec.Name)}
		}
		seen[spec.Name] = struct{}{}
		if _, dup := outputs[spec.OutputName()]; dup {
			return &ConfigError{Err: fmt.Errorf("output column %q is produced more than once", spec.OutputName())}
		}
		outputs[spec.OutputName()] = struct{}{}
	}
	return nil
}

// Names returns the configured source column names in order.
func (c *Config) Names() []string {
	names := make([]string, len(c.Columns))
	for i, spec := range c.Columns {
		names[i] = spec.Name
	}
	return names
}

func handlerList() string {
	names := make([]string, len(Handlers))
	for i, h := range Handlers {
		names[i] = string(h)
	}
	return strings.Join(names, ", ")
}
