package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"lexi-drafting-be/internal/bootstrap"
	"lexi-drafting-be/internal/service"
	"lexi-drafting-be/pkg/export"

	"github.com/spf13/cobra"
)

var extractStats bool

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract a reusable template from a plain text or Markdown file",
	Long: `Runs the extraction pipeline on a local file and prints the resulting
template as Markdown with YAML front-matter. Without a configured LLM the
variables are limited to placeholders already present in the text.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().BoolVar(&extractStats, "stats", false, "print extraction stats as JSON to stderr")
}

func runExtract(cmd *cobra.Command, args []string) error {
	path := args[0]
	text, err := readTextFile(path)
	if err != nil {
		return err
	}
	if _, err := service.DetectTextMime(filepath.Base(path), []byte(text)); err != nil {
		return err
	}

	ctx := cmd.Context()
	orc, _, err := bootstrap.NewOracle(ctx, cfg, log, log)
	if err != nil {
		return err
	}
	pipeline := bootstrap.NewPipeline(orc, cfg, log)

	res, err := pipeline.Extract(ctx, text, filepath.Base(path))
	if err != nil {
		return err
	}

	doc, err := export.Markdown(&res.Template)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), doc)

	if extractStats {
		enc := json.NewEncoder(cmd.ErrOrStderr())
		enc.SetIndent("", "  ")
		return enc.Encode(res.Stats)
	}
	return nil
}
