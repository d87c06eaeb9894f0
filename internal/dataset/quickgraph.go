package dataset

import (
	"encoding/json"
	"io"
	"strings"

	"mudlark/internal/fileutil"
)

// QuickGraphDocument is one entry of a QuickGraph import file.
type QuickGraphDocument struct {
	Original   string   `json:"original"`
	Tokens     []string `json:"tokens"`
	ExternalID string   `json:"external_id,omitempty"`
}

// ValidateQuickGraphIDs checks that every id column exists.
func (t *Table) ValidateQuickGraphIDs(idColumns []string) error {
	_, err := t.Require(UseQuickGraphID, idColumns...)
	return err
}

// QuickGraph converts the table into QuickGraph documents. Tokens are the
// whitespace-separated words of textColumn; the external id joins each id
// column as "column: value".
func (t *Table) QuickGraph(textColumn string, idColumns []string) ([]QuickGraphDocument, error) {
	textIdx, err := t.Require(UseText, textColumn)
	if err != nil {
		return nil, err
	}
	idIdx, err := t.Require(UseQuickGraphID, idColumns...)
	if err != nil {
		return nil, err
	}

	docs := make([]QuickGraphDocument, len(t.Rows))
	for r, row := range t.Rows {
		text := row[textIdx[0]]
		tokens := strings.Fields(text)
		if tokens == nil {
			tokens = []string{}
		}
		parts := make([]string, len(idIdx))
		for i, idx := range idIdx {
			parts[i] = idColumns[i] + ": " + row[idx]
		}
		docs[r] = QuickGraphDocument{
			Original:   text,
			Tokens:     tokens,
			ExternalID: strings.Join(parts, ", "),
		}
	}
	return docs, nil
}

// WriteQuickGraph encodes docs as an indented JSON array.
func WriteQuickGraph(w io.Writer, docs []QuickGraphDocument) error {
	if docs == nil {
		docs = []QuickGraphDocument{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(docs)
}

// WriteQuickGraphFile writes docs to path atomically.
func WriteQuickGraphFile(path string, docs []QuickGraphDocument) error {
	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return WriteQuickGraph(w, docs)
	})
}
