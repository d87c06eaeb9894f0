package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mudlark/internal/dataset"
	"mudlark/internal/mappingstore"
)

func newReverseCommand(ctx *commandContext) *cobra.Command {
	var (
		inputPath  string
		outputPath string
		textColumn string
	)

	cmd := &cobra.Command{
		Use:   "reverse <run-id|prefix|latest> [text]...",
		Short: "Restore original identifiers in anonymised text or CSV output",
		Long: "Replaces Asset labels with the identifiers they stood for in the given run. " +
			"With --input, the text column and every anonymised column of a CSV are restored.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if inputPath == "" && len(args) < 2 {
				return errors.New("provide text to reverse or --input with a CSV file")
			}
			return ctx.withStore(cmd, func(store *mappingstore.Store) error {
				rec, err := store.Load(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if inputPath == "" {
					fmt.Fprintln(cmd.OutOrStdout(), rec.RestoreText(strings.Join(args[1:], " ")))
					return nil
				}
				if outputPath == "" {
					return errors.New("--output is required with --input")
				}

				column := textColumn
				if column == "" {
					column = rec.Run.TextColumn
				}
				restored, err := reverseTable(rec, inputPath, column)
				if err != nil {
					return err
				}
				if err := restored.WriteCSVFile(outputPath); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Restored %d rows to %s\n", restored.Len(), outputPath)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Anonymised CSV produced by the run")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Where to write the restored CSV")
	cmd.Flags().StringVar(&textColumn, "text-column", "", "Text column (defaults to the run's text column)")
	return cmd
}

func reverseTable(rec *mappingstore.Record, path, textColumn string) (*dataset.Table, error) {
	table, _, err := dataset.ReadFile(path)
	if err != nil {
		return nil, err
	}
	textIdx, err := table.Require(dataset.UseText, textColumn)
	if err != nil {
		return nil, err
	}

	reversers := make(map[int]func(string) string)
	for i, name := range table.Header {
		if reverse, ok := rec.ColumnReverser(name); ok {
			reversers[i] = reverse
		}
	}
	for _, row := range table.Rows {
		row[textIdx[0]] = rec.RestoreText(row[textIdx[0]])
		for i, reverse := range reversers {
			row[i] = reverse(row[i])
		}
	}

	renames := make(map[string]string)
	for _, spec := range rec.ColumnSpecs {
		if spec.OutputName != spec.Name {
			renames[spec.OutputName] = spec.Name
		}
	}
	return table.Rename(renames), nil
}
