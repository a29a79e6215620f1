package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gregtatum/firefox-translations-training/internal/config"
	"github.com/gregtatum/firefox-translations-training/internal/logging"
	"github.com/gregtatum/firefox-translations-training/internal/metrics"
	"github.com/gregtatum/firefox-translations-training/internal/shuffle"
)

func newSampleCommand() *cobra.Command {
	var (
		input         string
		output        string
		seed          string
		maxLines      int
		maxWords      int
		totalByteSize int64
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Shuffle a corpus down to a bounded in-memory sample",
		Long: "Sample and shuffle a corpus in a single pass, retaining at most\n" +
			"--max-lines lines in memory. Sentences longer than --max-words are\n" +
			"dropped. Best suited to corpora that fit the sample budget; larger\n" +
			"streams are sampled against --total-byte-size.",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.Component("sample")

			if totalByteSize == 0 && input != "-" {
				info, err := os.Stat(input)
				if err != nil {
					return fmt.Errorf("stat %s: %w", input, err)
				}
				totalByteSize = info.Size()
			}

			stream, err := openInput(input)
			if err != nil {
				return err
			}
			defer stream.Close()

			started := time.Now()
			result, err := shuffle.Reservoir(stream, shuffle.ReservoirOptions{
				Seed:               seed,
				MaxLines:           maxLines,
				MaxWordsInSentence: maxWords,
				TotalByteSize:      totalByteSize,
			})
			if err != nil {
				return fmt.Errorf("sample %s: %w", input, err)
			}

			out, err := openOutput(output)
			if err != nil {
				return err
			}
			for _, line := range result.Lines {
				if err := out.WriteLine(line); err != nil {
					out.Close()
					return err
				}
			}
			if err := out.Close(); err != nil {
				return err
			}

			logger.Info("sampled corpus",
				"input", input,
				"output", output,
				"lines", len(result.Lines),
				"dropped", result.Dropped,
				"duration", time.Since(started).String(),
			)
			if m := metrics.Get(); m != nil {
				m.LinesRead.WithLabelValues(seed).Add(float64(stream.Count()))
				m.LinesWritten.WithLabelValues(seed).Add(float64(len(result.Lines)))
				m.LinesDropped.WithLabelValues(seed).Add(float64(result.Dropped))
				m.ShuffleDuration.WithLabelValues(seed, config.ModeReservoir).Observe(time.Since(started).Seconds())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "-", "corpus file to sample (- for stdin)")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "destination file (- for stdout)")
	cmd.Flags().StringVar(&seed, "seed", "", "seed for the deterministic shuffle, usually the dataset key")
	cmd.Flags().IntVar(&maxLines, "max-lines", 1_000_000, "maximum lines retained in memory and emitted")
	cmd.Flags().IntVar(&maxWords, "max-words", 100, "drop sentences with more words than this")
	cmd.Flags().Int64Var(&totalByteSize, "total-byte-size", 0, "estimated corpus size in bytes (default: input file size)")
	cmd.MarkFlagRequired("seed")

	return cmd
}
