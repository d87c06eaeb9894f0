package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"mudlark/internal/mappingstore"
)

func newMappingsCommand(ctx *commandContext) *cobra.Command {
	mappingsCmd := &cobra.Command{
		Use:   "mappings",
		Short: "Inspect anonymisation mappings kept by previous runs",
	}

	mappingsCmd.AddCommand(newMappingsListCommand(ctx))
	mappingsCmd.AddCommand(newMappingsShowCommand(ctx))
	mappingsCmd.AddCommand(newMappingsDeleteCommand(ctx))

	return mappingsCmd
}

func newMappingsListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd, func(store *mappingstore.Store) error {
				runs, err := store.ListRuns(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOutput {
					if runs == nil {
						runs = []mappingstore.Run{}
					}
					return writeJSON(cmd, runs)
				}
				if len(runs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
					return nil
				}
				rows := make([][]string, len(runs))
				for i, run := range runs {
					rows[i] = []string{
						shortID(run.ID),
						run.CreatedAt.Local().Format(time.DateTime),
						run.Source,
						strconv.Itoa(run.Rows),
						strconv.Itoa(run.Assets),
						strconv.Itoa(run.Columns),
					}
				}
				printTable(cmd.OutOrStdout(),
					[]string{"ID", "Created", "Source", "Rows", "Assets", "Columns"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
				)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newMappingsShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <run-id|prefix|latest>",
		Short: "Show the identifier and column mappings of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd, func(store *mappingstore.Store) error {
				rec, err := store.Load(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, rec)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Run:         %s\n", rec.Run.ID)
				fmt.Fprintf(out, "Created:     %s\n", rec.Run.CreatedAt.Local().Format(time.DateTime))
				fmt.Fprintf(out, "Source:      %s\n", rec.Run.Source)
				fmt.Fprintf(out, "Output:      %s\n", rec.Run.Output)
				fmt.Fprintf(out, "Text column: %s\n", rec.Run.TextColumn)
				fmt.Fprintf(out, "Seed:        %d\n", rec.Run.Seed)
				fmt.Fprintf(out, "Anonymised:  %s\n", yesNo(len(rec.Labels) > 0 || len(rec.Columns) > 0))

				if len(rec.Terms) > 0 {
					fmt.Fprintln(out)
					rows := make([][]string, len(rec.Terms))
					for i, term := range rec.Terms {
						rows[i] = []string{term.Term, term.Label}
					}
					printTable(out, []string{"Term", "Label"}, rows, nil)
				}
				for _, spec := range rec.ColumnSpecs {
					values := rec.Columns[spec.Name]
					fmt.Fprintln(out)
					fmt.Fprintf(out, "Column %s -> %s (%s)\n", spec.Name, spec.OutputName, spec.Handler)
					rows := make([][]string, len(values))
					for i, v := range values {
						rows[i] = []string{v.Raw, v.Output}
					}
					printTable(out, []string{"Raw", "Output"}, rows, nil)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newMappingsDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <run-id|prefix>",
		Short: "Delete a recorded run and its mappings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd, func(store *mappingstore.Store) error {
				id, err := store.Delete(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", id)
				return nil
			})
		},
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
