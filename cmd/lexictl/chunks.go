package main

import (
	"fmt"
	"strings"

	"lexi-drafting-be/internal/bootstrap"

	"github.com/spf13/cobra"
)

var chunksCmd = &cobra.Command{
	Use:   "chunks <file>",
	Short: "Show how a file is split for extraction",
	Args:  cobra.ExactArgs(1),
	RunE:  runChunks,
}

func runChunks(cmd *cobra.Command, args []string) error {
	text, err := readTextFile(args[0])
	if err != nil {
		return err
	}

	// Chunking never reaches the oracle.
	pipeline := bootstrap.NewPipeline(nil, cfg, log)
	out := cmd.OutOrStdout()
	chunks := pipeline.Chunks(text)
	for i, ch := range chunks {
		overlap := 0
		if i > 0 {
			overlap = ch.Overlap(chunks[i-1])
		}
		preview := strings.Join(strings.Fields(ch.Text), " ")
		if r := []rune(preview); len(r) > 60 {
			preview = string(r[:60]) + "..."
		}
		fmt.Fprintf(out, "#%d [%d,%d) overlap=%d %q\n", i+1, ch.Start, ch.End, overlap, preview)
	}
	fmt.Fprintf(out, "%d chunks\n", len(chunks))
	return nil
}
