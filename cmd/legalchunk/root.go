package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dgallion1/legalchunk/internal/config"
)

var (
	flagInputDir       string
	flagOutputDir      string
	flagMaxTokens      int
	flagEncoding       string
	flagFootnotePolicy string
	flagWorkers        int
	flagManifest       string
	flagForce          bool
	flagVerbose        bool

	// Resolved by PersistentPreRunE.
	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "legalchunk",
	Short: "Split Vietnamese legal documents into token-budgeted chunks",
	Long: `legalchunk turns Vietnamese legal texts into retrieval-ready chunks.

Each document is cut at its structural markers (Chương, Mục, Điều, Phụ lục,
Biểu số), footnotes are inlined, header-only chapters are merged into the next
article, and anything over the token budget is split on paragraph and line
boundaries. Every chunk is prefixed with the document title.

Configuration comes from the environment (and an optional .env file);
flags override it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = applyFlags(cmd, loaded)
		logger = newLogger(cmd.ErrOrStderr(), flagVerbose)
		return cfg.Validate()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagInputDir, "input-dir", "", "directory of source documents (env INPUT_DIR)")
	pf.StringVar(&flagOutputDir, "output-dir", "", "directory for chunked output (env OUTPUT_DIR)")
	pf.IntVar(&flagMaxTokens, "max-tokens", 0, "token budget per chunk (env MAX_TOKENS)")
	pf.StringVar(&flagEncoding, "encoding", "", "tiktoken encoding (env TOKEN_ENCODING)")
	pf.StringVar(&flagFootnotePolicy, "footnote-policy", "", "second-occurrence or first-line-marker (env FOOTNOTE_POLICY)")
	pf.IntVar(&flagWorkers, "workers", 0, "concurrent documents (env WORKER_COUNT)")
	pf.StringVar(&flagManifest, "manifest", "", "run manifest path, \"off\" disables resume (env MANIFEST_PATH)")
	pf.BoolVar(&flagForce, "force", false, "reprocess documents the manifest marks unchanged")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(runCmd, watchCmd, chunkCmd, versionCmd)
}

// applyFlags overlays the flags the user actually set onto c.
func applyFlags(cmd *cobra.Command, c config.Config) config.Config {
	fs := cmd.Flags()
	if fs.Changed("input-dir") {
		c.InputDir = flagInputDir
	}
	if fs.Changed("output-dir") {
		c.OutputDir = flagOutputDir
	}
	if fs.Changed("max-tokens") {
		c.MaxTokens = flagMaxTokens
	}
	if fs.Changed("encoding") {
		c.TokenEncoding = flagEncoding
	}
	if fs.Changed("footnote-policy") {
		c.FootnotePolicy = flagFootnotePolicy
	}
	if fs.Changed("workers") && flagWorkers > 0 {
		c.WorkerCount = flagWorkers
	}
	if fs.Changed("manifest") {
		c.ManifestPath = flagManifest
		if flagManifest == "off" {
			c.ManifestPath = ""
		}
	}
	if fs.Changed("force") {
		c.Force = flagForce
	}
	return c
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if w == nil {
		w = os.Stderr
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
