package main

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/gregtatum/firefox-translations-training/internal/fetch"
	"github.com/gregtatum/firefox-translations-training/internal/lines"
	"github.com/gregtatum/firefox-translations-training/internal/logging"
	"github.com/gregtatum/firefox-translations-training/internal/stats"
)

func newAnalyzeCommand() *cobra.Command {
	var (
		input      string
		graphWidth int
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Report the statistical distribution of a corpus",
		Long: "Stream a corpus from a local path or URL and report log-scale\n" +
			"distributions of sentence lengths (codepoints) and word counts.",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.Component("analyze")

			var (
				stream *lines.Reader
				err    error
			)
			if scheme := fetch.Scheme(input); scheme == "file" {
				stream, err = openInput(input)
			} else {
				stream, err = fetch.OpenLines(cmd.Context(), input)
			}
			if err != nil {
				return err
			}
			defer stream.Close()

			lengths := stats.NewLogDistribution("string length")
			words := stats.NewLogDistribution("words")

			for {
				line, ok := stream.Next()
				if !ok {
					break
				}
				lengths.Count(utf8.RuneCountInString(line))
				words.Count(len(strings.Fields(line)))
			}
			if err := stream.Err(); err != nil {
				return fmt.Errorf("read %s: %w", input, err)
			}

			logger.Info("analyzed corpus", "input", input, "lines", stream.Count())

			fmt.Fprintf(os.Stdout, "%s: %d lines\n", input, stream.Count())
			lengths.ReportLogScale(os.Stdout, graphWidth)
			words.ReportLogScale(os.Stdout, graphWidth)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "-", "corpus path or URL (- for stdin)")
	cmd.Flags().IntVar(&graphWidth, "graph-width", 25, "width of the report bar graphs")

	return cmd
}
