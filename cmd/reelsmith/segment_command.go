package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"reelsmith/internal/config"
	"reelsmith/internal/segment"
	"reelsmith/internal/textutil"
	"reelsmith/internal/transcript"
)

func newSegmentCommand(configFlag *string) *cobra.Command {
	var maxWords int
	var softRatio float64
	var plain bool

	cmd := &cobra.Command{
		Use:   "segment <transcript.json>",
		Short: "Segment a transcript file into blocks without calling any model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := config.Load(*configFlag)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if maxWords <= 0 {
				maxWords = cfg.Pipeline.BlockMaxWords
			}
			if softRatio <= 0 {
				softRatio = cfg.Pipeline.SoftLimitRatio
			}

			payload, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read transcript: %w", err)
			}
			var raw transcript.RawTranscript
			if err := json.Unmarshal(payload, &raw); err != nil {
				return fmt.Errorf("parse transcript: %w", err)
			}
			if len(raw.Words) == 0 {
				return fmt.Errorf("transcript %s contains no words", args[0])
			}

			textual, _, _ := transcript.Dehydrate(raw)
			segmenter, err := segment.NewSegmenter(maxWords, softRatio)
			if err != nil {
				return fmt.Errorf("build segmenter: %w", err)
			}
			blocks := segmenter.Segment(textual)

			headers := []string{"BLOCK", "SPEAKER", "WORDS", "START", "END", "TEXT"}
			rows := make([][]string, 0, len(blocks))
			for _, block := range blocks {
				rows = append(rows, []string{
					block.ID,
					block.Speaker,
					strconv.Itoa(block.WordCount()),
					fmt.Sprintf("%.2f", block.StartTime),
					fmt.Sprintf("%.2f", block.EndTime),
					textutil.Truncate(block.Text, 60),
				})
			}

			out := cmd.OutOrStdout()
			if plain || !isTerminal(out) {
				fmt.Fprint(out, renderPlain(headers, rows))
				return nil
			}
			aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft}
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().IntVar(&maxWords, "max-words", 0, "Hard per-block word limit (defaults to config)")
	cmd.Flags().Float64Var(&softRatio, "soft-ratio", 0, "Soft limit as a fraction of the hard limit (defaults to config)")
	cmd.Flags().BoolVar(&plain, "plain", false, "Force tab-separated output")
	return cmd
}
