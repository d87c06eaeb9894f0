package config

import "runtime"

const (
	defaultConfigLocation = "~/.config/mudlark/config.toml"
	projectConfigName     = "mudlark.toml"
	dotenvPath            = ".env"

	// OutputCSV writes the normalised dataset back out as CSV.
	OutputCSV = "csv"
	// OutputQuickGraph writes a QuickGraph-compatible JSON document.
	OutputQuickGraph = "quickgraph"

	defaultTextColumn   = "text"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
	maxWorkers          = 64
	defaultOutputFormat = OutputQuickGraph
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Normalise: Normalise{
			CollapseRepeats: true,
		},
		Dataset: Dataset{
			TextColumn:   defaultTextColumn,
			OutputFormat: defaultOutputFormat,
			Workers:      defaultWorkers(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func defaultWorkers() int {
	n := runtime.GOMAXPROCS(0)
	if n > 8 {
		return 8
	}
	if n < 1 {
		return 1
	}
	return n
}
