package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mudlark/internal/anonymise"
	"mudlark/internal/config"
	"mudlark/internal/corrections"
	"mudlark/internal/mappingstore"
	"mudlark/internal/normalise"
	"mudlark/internal/runner"
)

type normaliseTextOutput struct {
	Input         string                   `json:"input"`
	Output        string                   `json:"output"`
	Tokens        []string                 `json:"tokens"`
	Substitutions []anonymise.Substitution `json:"substitutions,omitempty"`
}

func newNormaliseTextCommand(ctx *commandContext) *cobra.Command {
	var (
		correctionsPath string
		anonymiseText   bool
		collapseRepeats bool
		jsonOutput      bool
	)

	cmd := &cobra.Command{
		Use:   "normalise-text <text>...",
		Short: "Normalise a single piece of text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("corrections") {
				cfg.Normalise.CorrectionsPath = correctionsPath
			}
			if cmd.Flags().Changed("anonymise") {
				cfg.Normalise.AnonymiseText = anonymiseText
			}
			if cmd.Flags().Changed("collapse-repeats") {
				cfg.Normalise.CollapseRepeats = collapseRepeats
			}

			pipeline, err := ctx.pipeline(cfg)
			if err != nil {
				return err
			}

			input := strings.Join(args, " ")
			result := pipeline.Normalise(input)
			if jsonOutput {
				return writeJSON(cmd, normaliseTextOutput{
					Input:         input,
					Output:        result.Text,
					Tokens:        result.Tokens,
					Substitutions: result.Substitutions,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Text)
			return nil
		},
	}

	cmd.Flags().StringVar(&correctionsPath, "corrections", "", "Corrections CSV (wrong,correct); empty uses the built-in dictionary")
	cmd.Flags().BoolVar(&anonymiseText, "anonymise", false, "Replace asset identifiers with Asset labels")
	cmd.Flags().BoolVar(&collapseRepeats, "collapse-repeats", true, "Collapse runs of repeated letters")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newNormaliseCSVCommand(ctx *commandContext) *cobra.Command {
	var (
		outputPath      string
		textColumn      string
		outputFormat    string
		maxRows         int
		maxWords        int
		dropDuplicates  bool
		columnConfig    string
		idColumns       string
		correctionsPath string
		anonymiseText   bool
		seed            int64
		workers         int
		dumpTerms       string
		noStore         bool
		jsonOutput      bool
	)

	cmd := &cobra.Command{
		Use:   "normalise-csv <input.csv>",
		Short: "Normalise the text column of a CSV dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("text-column") {
				cfg.Dataset.TextColumn = strings.TrimSpace(textColumn)
			}
			if flags.Changed("output-format") {
				cfg.Dataset.OutputFormat = strings.ToLower(strings.TrimSpace(outputFormat))
			}
			if flags.Changed("max-rows") {
				cfg.Dataset.MaxRows = maxRows
			}
			if flags.Changed("max-words") {
				cfg.Dataset.MaxWords = maxWords
			}
			if flags.Changed("drop-duplicates") {
				cfg.Dataset.DropDuplicates = dropDuplicates
			}
			if flags.Changed("column-config") {
				cfg.Dataset.ColumnConfigPath = columnConfig
			}
			if flags.Changed("quickgraph-id-columns") {
				cfg.Dataset.QuickGraphIDColumns = config.ParseList(idColumns)
			}
			if flags.Changed("corrections") {
				cfg.Normalise.CorrectionsPath = correctionsPath
			}
			if flags.Changed("anonymise") {
				cfg.Normalise.AnonymiseText = anonymiseText
			}
			if flags.Changed("seed") {
				cfg.Normalise.Seed = seed
			}
			if flags.Changed("workers") {
				cfg.Dataset.Workers = workers
			}
			if flags.Changed("dump-terms") {
				cfg.Dumps.AnonymisedTermsPath = dumpTerms
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			deps := runner.Dependencies{Config: cfg, Logger: logger}
			req := runner.Request{InputPath: args[0], OutputPath: outputPath}

			execute := func() (*runner.Result, error) {
				return runner.Run(cmd.Context(), deps, req)
			}
			var result *runner.Result
			if cfg.Dumps.MappingDBPath != "" && !noStore {
				err = ctx.withStore(cmd, func(store *mappingstore.Store) error {
					deps.Store = store
					var runErr error
					result, runErr = execute()
					return runErr
				})
			} else {
				result, err = execute()
			}
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, map[string]any{
					"run_id":       result.RunID,
					"seed":         result.Seed,
					"format":       result.Format,
					"input_rows":   result.InputRows,
					"skipped_rows": result.SkippedRows,
					"rows":         result.Rows,
					"assets":       len(result.Labels),
					"output":       outputPath,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Saved %d rows to %s (%s)\n", result.Rows, outputPath, result.Format)
			fmt.Fprintf(out, "Run %s, seed %d, %d asset identifiers\n", result.RunID, result.Seed, len(result.Labels))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output path (.csv or QuickGraph .json)")
	cmd.Flags().StringVar(&textColumn, "text-column", "", "Name of the text column")
	cmd.Flags().StringVar(&outputFormat, "output-format", "", "csv or quickgraph")
	cmd.Flags().IntVar(&maxRows, "max-rows", 0, "Randomly sample this many rows (0 keeps all)")
	cmd.Flags().IntVar(&maxWords, "max-words", 0, "Drop rows with at least this many words (0 disables)")
	cmd.Flags().BoolVar(&dropDuplicates, "drop-duplicates", false, "Drop rows whose text duplicates an earlier row")
	cmd.Flags().StringVar(&columnConfig, "column-config", "", "YAML column config (csv output only)")
	cmd.Flags().StringVar(&idColumns, "quickgraph-id-columns", "", "Comma separated columns forming the QuickGraph external_id")
	cmd.Flags().StringVar(&correctionsPath, "corrections", "", "Corrections CSV (wrong,correct)")
	cmd.Flags().BoolVar(&anonymiseText, "anonymise", false, "Replace asset identifiers in the text column")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Seed for label shuffling and sampling (0 draws one)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Rows normalised in parallel")
	cmd.Flags().StringVar(&dumpTerms, "dump-terms", "", "Write anonymised terms to this path")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "Do not record the run in the mapping store")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output run summary as JSON")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func newExplainCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "explain <word>...",
		Short: "Show which tense and plural rules fire for each word",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			pipeline, err := ctx.pipeline(cfg)
			if err != nil {
				return err
			}
			inflector := pipeline.Inflector()

			type explanation struct {
				Word         string `json:"word"`
				Tense        string `json:"tense"`
				TenseRule    string `json:"tense_rule"`
				Singular     string `json:"singular"`
				SingularRule string `json:"singular_rule"`
			}
			var explained []explanation
			for _, arg := range args {
				for _, word := range normalise.Tokenize(normalise.Lower(arg)) {
					tense, tenseRule := inflector.ExplainTense(word)
					singular, singularRule := inflector.ExplainSingular(tense)
					explained = append(explained, explanation{
						Word:         word,
						Tense:        tense,
						TenseRule:    tenseRule,
						Singular:     singular,
						SingularRule: singularRule,
					})
				}
			}

			if jsonOutput {
				return writeJSON(cmd, explained)
			}
			rows := make([][]string, len(explained))
			for i, e := range explained {
				rows[i] = []string{e.Word, e.Tense, e.TenseRule, e.Singular, e.SingularRule}
			}
			printTable(cmd.OutOrStdout(), []string{"Word", "Tense", "Rule", "Singular", "Rule"}, rows, nil)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func (c *commandContext) pipeline(cfg *config.Config) (*normalise.Pipeline, error) {
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	dict, err := corrections.Load(cfg.Normalise.CorrectionsPath, logger)
	if err != nil {
		return nil, err
	}
	return normalise.New(dict,
		normalise.WithCollapseRepeats(cfg.Normalise.CollapseRepeats),
		normalise.WithAnonymisation(cfg.Normalise.AnonymiseText),
	), nil
}
