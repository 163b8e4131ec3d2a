package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/legalchunk/internal/app"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Chunk every document in the input directory",
	Long: `Chunk every supported document (.txt, .md, .docx) in the input directory
and write one .txt file per document to the output directory.

Documents whose content is unchanged since the last run are skipped unless
--force is given. A failing document is reported and the batch continues.

Examples:
  legalchunk run
  legalchunk run --input-dir ./laws --output-dir ./chunks --max-tokens 8000
  legalchunk run --manifest off`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := app.New(cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		a.Orchestrator.Start(ctx)
		sum, err := a.Orchestrator.RunDir(ctx, cfg.InputDir)
		a.Orchestrator.Stop()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Documents:   %d\n", sum.Total)
		fmt.Fprintf(out, "Succeeded:   %d\n", sum.Succeeded)
		fmt.Fprintf(out, "Over budget: %d\n", sum.OverBudget)
		fmt.Fprintf(out, "Oversized:   %d\n", sum.Oversized)
		fmt.Fprintf(out, "Skipped:     %d\n", sum.Skipped)
		fmt.Fprintf(out, "Failed:      %d\n", sum.Failed)

		if sum.Failed > 0 {
			return fmt.Errorf("%d of %d documents failed", sum.Failed, sum.Total)
		}
		return nil
	},
}
