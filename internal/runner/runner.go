package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"mudlark/internal/anonymise"
	"mudlark/internal/columns"
	"mudlark/internal/config"
	"mudlark/internal/corrections"
	"mudlark/internal/dataset"
	"mudlark/internal/logging"
	"mudlark/internal/mappingstore"
	"mudlark/internal/normalise"
)

const progressInterval = 100

// Dependencies are the collaborators a run needs. Nil Dictionary and Columns
// are loaded from Config; a nil Store skips persistence.
type Dependencies struct {
	Config     *config.Config
	Dictionary *corrections.Dictionary
	Columns    *columns.Config
	Store      *mappingstore.Store
	Logger     *slog.Logger
}

// Request names the input and output files of a run.
type Request struct {
	InputPath  string
	OutputPath string
}

// Result describes a finished run.
type Result struct {
	RunID       string
	Seed        int64
	Format      string
	TextColumn  string
	InputRows   int
	SkippedRows int
	Rows        int
	Table       *dataset.Table
	Documents   []dataset.QuickGraphDocument
	Labels      []anonymise.Entry
	Terms       []mappingstore.Term
	Columns     map[string][]columns.Mapping
	ColumnSpecs []columns.Spec
	Duration    time.Duration
}

// Run reads the input CSV, processes it and writes the output, dumps and
// mapping record.
func Run(ctx context.Context, deps Dependencies, req Request) (*Result, error) {
	if err := deps.resolve(); err != nil {
		return nil, err
	}
	logger := logging.NewComponentLogger(deps.Logger, "runner")

	table, stats, err := dataset.ReadFile(req.InputPath)
	if err != nil {
		return nil, err
	}
	if stats.SkippedRows > 0 {
		logging.WarnWithContext(logger, "skipped malformed rows", "dataset_rows_skipped",
			logging.Int("skipped", stats.SkippedRows),
			logging.String(logging.FieldPath, req.InputPath),
			logging.String(logging.FieldErrorHint, "check the row has as many fields as the header"),
			logging.String(logging.FieldImpact, "skipped rows are missing from the output"),
		)
	}
	logger.Info("normalising csv",
		logging.String(logging.FieldPath, req.InputPath),
		logging.Int("rows", stats.Rows),
		logging.Bool("anonymise_text", deps.Config.Normalise.AnonymiseText),
	)

	result, err := Process(ctx, deps, table)
	if err != nil {
		return nil, err
	}
	result.SkippedRows = stats.SkippedRows

	if err := writeOutputs(ctx, deps, req, result, logger); err != nil {
		return nil, err
	}
	return result, nil
}

// Process runs the filters and both normalisation passes over table. Nothing
// is written to disk.
func Process(ctx context.Context, deps Dependencies, table *dataset.Table) (*Result, error) {
	if err := deps.resolve(); err != nil {
		return nil, err
	}
	cfg := deps.Config
	logger := logging.NewComponentLogger(deps.Logger, "runner")
	started := time.Now()

	seed := cfg.Normalise.Seed
	if seed == 0 {
		seed = freshSeed()
	}
	result := &Result{
		RunID:      uuid.NewString(),
		Seed:       seed,
		Format:     cfg.Dataset.OutputFormat,
		TextColumn: cfg.Dataset.TextColumn,
		InputRows:  table.Len(),
	}
	logger = logger.With(logging.String(logging.FieldRunID, result.RunID))

	table, err := filterTable(deps, table, seed, logger)
	if err != nil {
		return nil, err
	}
	texts, err := table.Column(cfg.Dataset.TextColumn)
	if err != nil {
		return nil, err
	}

	pipeline := normalise.New(deps.Dictionary,
		normalise.WithCollapseRepeats(cfg.Normalise.CollapseRepeats),
		normalise.WithAnonymisation(cfg.Normalise.AnonymiseText),
	)

	prepared, err := prepareRows(ctx, pipeline, texts, cfg.Dataset.Workers)
	if err != nil {
		return nil, err
	}

	registry := anonymise.NewRegistry(anonymise.ModeDataset)
	for _, prep := range prepared {
		for _, span := range prep.Spans {
			registry.Observe(span.Key)
		}
	}
	registry.Seal(seed)
	logger.Debug("asset registry sealed", logging.Int("assets", registry.Len()))

	finished, err := finishRows(ctx, pipeline, prepared, registry, cfg.Dataset.Workers, logger)
	if err != nil {
		return nil, err
	}

	textIdx, _ := table.Index(cfg.Dataset.TextColumn)
	for i, res := range finished {
		table.Rows[i][textIdx] = res.Text
	}
	result.Labels = registry.Entries()
	result.Terms = collectTerms(finished)

	if deps.Columns != nil && cfg.Dataset.OutputFormat == config.OutputCSV {
		if err := anonymiseColumns(deps.Columns, table, seed, result, logger); err != nil {
			return nil, err
		}
	}

	if cfg.Dataset.OutputFormat == config.OutputQuickGraph {
		docs, err := table.QuickGraph(cfg.Dataset.TextColumn, cfg.Dataset.QuickGraphIDColumns)
		if err != nil {
			return nil, err
		}
		result.Documents = docs
	}

	result.Table = table
	result.Rows = table.Len()
	result.Duration = time.Since(started)
	logger.Info("dataset normalised",
		logging.Int("rows", result.Rows),
		logging.Int("assets", len(result.Labels)),
		logging.Duration("duration", result.Duration),
		logging.String(logging.FieldEventType, "run_complete"),
	)
	return result, nil
}

func (d *Dependencies) resolve() error {
	if d.Config == nil {
		return errors.New("runner requires a config")
	}
	if err := d.Config.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if d.Dictionary == nil {
		dict, err := corrections.Load(d.Config.Normalise.CorrectionsPath, d.Logger)
		if err != nil {
			return err
		}
		d.Dictionary = dict
	}
	if d.Columns == nil && d.Config.Dataset.ColumnConfigPath != "" {
		cols, err := columns.LoadConfig(d.Config.Dataset.ColumnConfigPath)
		if err != nil {
			return err
		}
		d.Columns = cols
	}
	return nil
}

func filterTable(deps Dependencies, table *dataset.Table, seed int64, logger *slog.Logger) (*dataset.Table, error) {
	cfg := deps.Config
	textColumn := cfg.Dataset.TextColumn
	if _, err := table.Require(dataset.UseText, textColumn); err != nil {
		return nil, err
	}

	switch cfg.Dataset.OutputFormat {
	case config.OutputQuickGraph:
		if deps.Columns != nil {
			logging.WarnWithContext(logger, "column config ignored", "column_config_ignored",
				logging.String(logging.FieldErrorHint, "column_config_path only applies when output_format = csv"),
				logging.String(logging.FieldImpact, "auxiliary columns are not anonymised"),
			)
		}
		if err := table.ValidateQuickGraphIDs(cfg.Dataset.QuickGraphIDColumns); err != nil {
			return nil, err
		}
	case config.OutputCSV:
		if len(cfg.Dataset.QuickGraphIDColumns) > 0 {
			logging.WarnWithContext(logger, "quickgraph id columns ignored", "quickgraph_ids_ignored",
				logging.String(logging.FieldErrorHint, "quickgraph_id_columns only applies when output_format = quickgraph"),
				logging.String(logging.FieldImpact, "no external ids are written"),
			)
		}
		if deps.Columns != nil {
			before := len(table.Header)
			kept, err := table.KeepColumns(deps.Columns.Names(), textColumn)
			if err != nil {
				return nil, err
			}
			table = kept
			logger.Info("dropped unwanted columns", logging.Int("dropped", before-len(table.Header)))
		}
	}

	if cfg.Dataset.DropDuplicates {
		before := table.Len()
		deduped, err := table.DropDuplicates(textColumn)
		if err != nil {
			return nil, err
		}
		table = deduped
		logger.Info("dropped duplicate rows", logging.Int("dropped", before-table.Len()), logging.Int("rows", table.Len()))
	}

	if cfg.Dataset.MaxWords > 0 {
		before := table.Len()
		short, err := table.DropLongRows(textColumn, cfg.Dataset.MaxWords)
		if err != nil {
			return nil, err
		}
		table = short
		logger.Info("dropped long rows",
			logging.Int("dropped", before-table.Len()),
			logging.Int("max_words", cfg.Dataset.MaxWords),
		)
	}

	if cfg.Dataset.MaxRows > 0 {
		sampled, err := table.Sample(cfg.Dataset.MaxRows, seed)
		if err != nil {
			return nil, err
		}
		table = sampled
		logger.Info("randomly sampled rows", logging.Int("rows", table.Len()))
	}
	return table.Clone(), nil
}

func prepareRows(ctx context.Context, pipeline *normalise.Pipeline, texts []string, workers int) ([]normalise.Prepared, error) {
	prepared := make([]normalise.Prepared, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, text := range texts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			prepared[i] = pipeline.Prepare(text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("prepare rows: %w", err)
	}
	return prepared, nil
}

func finishRows(ctx context.Context, pipeline *normalise.Pipeline, prepared []normalise.Prepared, registry *anonymise.Registry, workers int, logger *slog.Logger) ([]normalise.Result, error) {
	var resolver anonymise.Resolver
	if pipeline.Anonymises() {
		resolver = registry
	}

	finished := make([]normalise.Result, len(prepared))
	total := len(prepared)
	var done atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, prep := range prepared {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			finished[i] = pipeline.Finish(prep, resolver)
			if n := done.Add(1); n%progressInterval == 0 {
				logger.Info("normalisation progress",
					logging.Int64("completed", n),
					logging.Int("total", total),
				)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("normalise rows: %w", err)
	}
	return finished, nil
}

// collectTerms returns one entry per distinct surface identifier in row
// order of first appearance.
func collectTerms(finished []normalise.Result) []mappingstore.Term {
	seen := make(map[string]struct{})
	var terms []mappingstore.Term
	for _, res := range finished {
		for _, sub := range res.Substitutions {
			if _, ok := seen[sub.Span]; ok {
				continue
			}
			seen[sub.Span] = struct{}{}
			terms = append(terms, mappingstore.Term{Term: sub.Span, Label: sub.Label})
		}
	}
	return terms
}

func anonymiseColumns(cfg *columns.Config, table *dataset.Table, seed int64, result *Result, logger *slog.Logger) error {
	anon := columns.NewAnonymiser(cfg.Columns, seed)
	renames := make(map[string]string)
	for _, spec := range cfg.Columns {
		idx, ok := table.Index(spec.Name)
		if !ok {
			return &dataset.ColumnError{Column: spec.Name, Use: dataset.UseKeep}
		}
		logger.Info("processing column",
			logging.String(logging.FieldColumn, spec.Name),
			logging.String("handler", string(spec.Handler)),
		)
		for r, row := range table.Rows {
			out, err := anon.Apply(spec.Name, row[idx])
			if err != nil {
				return fmt.Errorf("row %d: %w", r, err)
			}
			row[idx] = out
		}
		if spec.NewName != "" {
			renames[spec.Name] = spec.NewName
		}
	}
	*table = *table.Rename(renames)
	result.Columns = anon.Mappings()
	result.ColumnSpecs = anon.Specs()
	return nil
}

func freshSeed() int64 {
	for {
		if seed := rand.Int64(); seed != 0 {
			return seed
		}
	}
}
