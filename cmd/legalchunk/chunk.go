package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dgallion1/legalchunk/internal/assemble"
	"github.com/dgallion1/legalchunk/internal/chunker"
	"github.com/dgallion1/legalchunk/internal/parser"
	"github.com/dgallion1/legalchunk/internal/tokenizer"
)

var chunkOut string

var chunkCmd = &cobra.Command{
	Use:   "chunk <file>",
	Short: "Chunk a single document and print the result",
	Long: `Chunk one document and write the assembled chunks to stdout, or to the
file named by --out. The manifest and output directory are not touched.

Examples:
  legalchunk chunk luat_dat_dai.txt
  legalchunk chunk nghi_dinh.docx --max-tokens 2000 --out nghi_dinh.txt`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		p, err := parser.ForFile(path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		doc, err := p.Parse(bytes.NewReader(data), filepath.Base(path))
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}

		ch := chunker.New(chunker.Config{
			MaxTokens: cfg.MaxTokens,
			Footnotes: cfg.Footnotes(),
		}, tokenizer.New(cfg.TokenEncoding, logger))
		res := ch.Process(doc)

		logger.Info("chunked document",
			"file", doc.Filename,
			"title", res.Title,
			"units", len(res.Units),
			"split", res.Split,
			"oversized", res.Oversized,
			"footnotes", res.Footnotes,
		)
		if len(res.Unresolved) > 0 {
			logger.Warn("unresolved footnotes", "refs", res.Unresolved)
		}

		var w io.Writer = cmd.OutOrStdout()
		if chunkOut != "" {
			f, err := os.Create(chunkOut)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		if _, err := assemble.Write(w, res.Units); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	},
}

func init() {
	chunkCmd.Flags().StringVarP(&chunkOut, "out", "o", "", "write to this file instead of stdout")
}
