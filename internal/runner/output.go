package runner

import (
	"context"
	"fmt"
	"log/slog"

	"mudlark/internal/columns"
	"mudlark/internal/config"
	"mudlark/internal/dataset"
	"mudlark/internal/logging"
	"mudlark/internal/mappingstore"
)

func writeOutputs(ctx context.Context, deps Dependencies, req Request, result *Result, logger *slog.Logger) error {
	cfg := deps.Config
	logger = logger.With(logging.String(logging.FieldRunID, result.RunID))

	if req.OutputPath != "" {
		var err error
		switch cfg.Dataset.OutputFormat {
		case config.OutputCSV:
			err = result.Table.WriteCSVFile(req.OutputPath)
		case config.OutputQuickGraph:
			err = dataset.WriteQuickGraphFile(req.OutputPath, result.Documents)
		}
		if err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		logger.Info("saved output", logging.String(logging.FieldPath, req.OutputPath))
	}

	if path := cfg.Dumps.AnonymisedTermsPath; path != "" {
		if len(result.Terms) == 0 {
			logger.Info("no anonymised terms to dump", logging.String(logging.FieldPath, path))
		} else {
			if err := mappingstore.WriteTerms(path, result.Terms); err != nil {
				return fmt.Errorf("dump anonymised terms: %w", err)
			}
			logger.Info("dumped anonymised terms",
				logging.Int("terms", len(result.Terms)),
				logging.String(logging.FieldPath, path),
			)
		}
	}

	if path := columnMappingsPath(deps); path != "" && result.Columns != nil {
		if err := mappingstore.WriteColumnMappings(path, toColumnValues(result.Columns)); err != nil {
			return fmt.Errorf("dump column mappings: %w", err)
		}
		logger.Info("dumped column mappings", logging.String(logging.FieldPath, path))
	}

	if deps.Store != nil {
		rec := Record(result, req)
		if err := deps.Store.Save(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// Record converts a run result into a mapping store record.
func Record(result *Result, req Request) *mappingstore.Record {
	rec := &mappingstore.Record{
		Run: mappingstore.Run{
			ID:         result.RunID,
			Source:     req.InputPath,
			Output:     req.OutputPath,
			TextColumn: result.TextColumn,
			Seed:       result.Seed,
			Rows:       result.Rows,
		},
		Terms:   result.Terms,
		Columns: toColumnValues(result.Columns),
	}
	for _, entry := range result.Labels {
		rec.Labels = append(rec.Labels, mappingstore.AssetLabel{Key: entry.Key, Label: entry.Label})
	}
	for _, spec := range result.ColumnSpecs {
		rec.ColumnSpecs = append(rec.ColumnSpecs, mappingstore.ColumnSpec{
			Name:       spec.Name,
			OutputName: spec.OutputName(),
			Handler:    string(spec.Handler),
		})
	}
	return rec
}

func columnMappingsPath(deps Dependencies) string {
	if deps.Config.Dumps.ColumnMappingsPath != "" {
		return deps.Config.Dumps.ColumnMappingsPath
	}
	if deps.Columns != nil {
		return deps.Columns.OutputPath
	}
	return ""
}

func toColumnValues(in map[string][]columns.Mapping) map[string][]mappingstore.ColumnValue {
	if in == nil {
		return nil
	}
	out := make(map[string][]mappingstore.ColumnValue, len(in))
	for column, pairs := range in {
		values := make([]mappingstore.ColumnValue, len(pairs))
		for i, p := range pairs {
			values[i] = mappingstore.ColumnValue{Raw: p.Raw, Output: p.Output}
		}
		out[column] = values
	}
	return out
}
