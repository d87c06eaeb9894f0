package mappingstore

import (
	"time"
)

// Run summarises one persisted dataset run.
type Run struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	Source     string    `json:"source"`
	Output     string    `json:"output"`
	TextColumn string    `json:"text_column"`
	Seed       int64     `json:"seed"`
	Rows       int       `json:"rows"`
	Assets     int       `json:"assets"`
	Columns    int       `json:"columns"`
}

// AssetLabel maps a canonical identifier key to its label.
type AssetLabel struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Term maps a surface identifier, as it appeared in the text, to its label.
type Term struct {
	Term  string `json:"term"`
	Label string `json:"label"`
}

// ColumnValue is one raw -> output pair of an anonymised column.
type ColumnValue struct {
	Raw    string `json:"raw"`
	Output string `json:"output"`
}

// ColumnSpec records how a column was anonymised and what it was renamed to.
type ColumnSpec struct {
	Name       string `json:"name"`
	OutputName string `json:"output_name"`
	Handler    string `json:"handler"`
}

// Record is everything stored for a run.
type Record struct {
	Run         Run                      `json:"run"`
	Labels      []AssetLabel             `json:"labels"`
	Terms       []Term                   `json:"terms"`
	ColumnSpecs []ColumnSpec             `json:"column_specs"`
	Columns     map[string][]ColumnValue `json:"columns"`
}
