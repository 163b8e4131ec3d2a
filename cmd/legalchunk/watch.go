package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/legalchunk/internal/app"
	"github.com/dgallion1/legalchunk/internal/watch"
)

var watchBacklog bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Chunk documents as they appear in the input directory",
	Long: `Watch the input directory and chunk each supported document once writes
to it have settled. Runs until interrupted.

Examples:
  legalchunk watch
  legalchunk watch --backlog=false`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := os.MkdirAll(cfg.InputDir, 0o755); err != nil {
			return err
		}

		a, err := app.New(cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		orch := a.Orchestrator
		orch.Start(ctx)
		defer orch.Stop()

		if watchBacklog {
			if _, err := orch.RunDir(ctx, cfg.InputDir); err != nil && !errors.Is(err, ctx.Err()) {
				return err
			}
		}

		w := watch.New(cfg.InputDir, cfg.WatchDebounce, func(path string) {
			job, err := orch.SubmitFile(ctx, path)
			if err != nil {
				logger.Error("enqueue failed", "file", path, "error", err)
				return
			}
			logger.Info("document queued", "file", path, "job_id", job.ID)
		}, logger)
		return w.Run(ctx)
	},
}

func init() {
	watchCmd.Flags().BoolVar(&watchBacklog, "backlog", true, "chunk documents already present before watching")
}
