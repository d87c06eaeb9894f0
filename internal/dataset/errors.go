package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingColumn is wrapped by every ColumnError.
	ErrMissingColumn = errors.New("column not found")
	// ErrSampleTooLarge reports a sample request larger than the table.
	ErrSampleTooLarge = errors.New("cannot take a larger sample than the population")
	// ErrEmptyInput reports a CSV source without a header row.
	ErrEmptyInput = errors.New("input dataset is empty")
)

// ColumnUse describes why a column was required.
type ColumnUse int

const (
	UseText ColumnUse = iota
	UseKeep
	UseQuickGraphID
)

// ColumnError reports a required column that the table does not have.
type ColumnError struct {
	Column string
	Use    ColumnUse
}

func (e *ColumnError) Error() string {
	switch e.Use {
	case UseKeep:
		return fmt.Sprintf("The column '%s' was not found in the input dataset. Please check all columns listed in the column config exist in the input dataset.", e.Column)
	case UseQuickGraphID:
		return fmt.Sprintf("The column '%s' that is listed in the id_columns does not exist in the dataset.", e.Column)
	default:
		return fmt.Sprintf("The text column '%s' was not found in the input dataset.", e.Column)
	}
}

func (e *ColumnError) Unwrap() error {
	return ErrMissingColumn
}
