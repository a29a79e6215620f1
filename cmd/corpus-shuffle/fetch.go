package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/gregtatum/firefox-translations-training/internal/fetch"
	"github.com/gregtatum/firefox-translations-training/internal/logging"
	"github.com/gregtatum/firefox-translations-training/internal/metrics"
)

func newFetchCommand() *cobra.Command {
	var (
		url    string
		output string
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download a corpus to the local filesystem",
		Long: "Stream a corpus from an HTTP server or bucket storage (gs://,\n" +
			"s3://, file://) to a local file. The download is atomic: the\n" +
			"destination only appears once the transfer completes.",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.Component("fetch")

			started := time.Now()
			written, err := fetch.Download(cmd.Context(), url, output)
			if err != nil {
				if m := metrics.Get(); m != nil {
					m.FetchErrors.WithLabelValues(fetch.Scheme(url)).Inc()
				}
				return err
			}

			logger.Info("downloaded corpus",
				"url", url,
				"output", output,
				"bytes", written,
				"duration", time.Since(started).String(),
			)
			if m := metrics.Get(); m != nil {
				m.BytesDownloaded.WithLabelValues(fetch.Scheme(url)).Add(float64(written))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "corpus location to download")
	cmd.Flags().StringVarP(&output, "output", "o", "", "local destination path")
	cmd.MarkFlagRequired("url")
	cmd.MarkFlagRequired("output")

	return cmd
}
