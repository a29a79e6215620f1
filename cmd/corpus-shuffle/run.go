package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gregtatum/firefox-translations-training/internal/config"
	"github.com/gregtatum/firefox-translations-training/internal/dataset"
	"github.com/gregtatum/firefox-translations-training/internal/fetch"
	"github.com/gregtatum/firefox-translations-training/internal/lines"
	"github.com/gregtatum/firefox-translations-training/internal/logging"
	"github.com/gregtatum/firefox-translations-training/internal/metrics"
	"github.com/gregtatum/firefox-translations-training/internal/shuffle"
)

func newRunCommand(cfg config.Config) *cobra.Command {
	var jobsPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Prepare every dataset listed in a YAML job file",
		Long: "Run the full preparation for each dataset in a job file: stream\n" +
			"the corpus from its source, shuffle it with the dataset key as the\n" +
			"seed, and write the result. Datasets run sequentially; the first\n" +
			"failure stops the run.",
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := config.LoadJobs(jobsPath)
			if err != nil {
				return err
			}

			runID := logging.GenerateRunID()
			ctx := logging.WithRunID(cmd.Context(), runID)

			for i := range jobs.Datasets {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := runJob(ctx, cfg, &jobs.Datasets[i]); err != nil {
					return fmt.Errorf("dataset %s: %w", jobs.Datasets[i].Dataset, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&jobsPath, "jobs", "", "YAML file listing datasets to prepare")
	cmd.MarkFlagRequired("jobs")

	return cmd
}

func runJob(ctx context.Context, cfg config.Config, job *config.Job) error {
	d, err := dataset.Parse(job.Dataset)
	if err != nil {
		return err
	}
	logger := logging.DatasetLogger(logging.RunID(ctx), d.Key, d.Importer, d.Name)

	if job.URL == "" {
		return fmt.Errorf("dataset %s has no source url", d.Key)
	}

	stream, err := fetch.OpenLines(ctx, job.URL)
	if err != nil {
		return err
	}
	defer stream.Close()

	out, err := openOutput(job.Output)
	if err != nil {
		return err
	}

	started := time.Now()
	switch job.Mode {
	case config.ModeExternal:
		err = runExternal(cfg, job, d, stream, out, logger)
	case config.ModeReservoir:
		err = runReservoir(job, d, stream, out, logger)
	}
	if err != nil {
		out.Close()
		if m := metrics.Get(); m != nil {
			m.ShuffleErrors.WithLabelValues(d.Key, job.Mode).Inc()
		}
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if m := metrics.Get(); m != nil {
		m.LinesRead.WithLabelValues(d.Key).Add(float64(stream.Count()))
		m.ShuffleDuration.WithLabelValues(d.Key, job.Mode).Observe(time.Since(started).Seconds())
	}
	return nil
}

func runExternal(cfg config.Config, job *config.Job, d dataset.Dataset, stream *lines.Reader, out *lines.Writer, logger *slog.Logger) error {
	dir, err := makeChunkDir(cfg.Shuffle.ChunkDir)
	if err != nil {
		return err
	}
	if !cfg.Shuffle.KeepChunks {
		defer os.RemoveAll(dir)
	}

	buckets, err := shuffle.External(stream, out, shuffle.ExternalOptions{
		Seed:        d.Key,
		ChunkBytes:  job.ChunkBytes,
		BucketBytes: job.BucketBytes,
		ChunkDir:    dir,
		KeepChunks:  cfg.Shuffle.KeepChunks,
	})
	if err != nil {
		return err
	}

	logger.Info("shuffled dataset",
		"output", job.Output,
		"lines", stream.Count(),
		"buckets", buckets,
	)
	if m := metrics.Get(); m != nil {
		m.LinesWritten.WithLabelValues(d.Key).Add(float64(stream.Count()))
		m.BucketsFlushed.WithLabelValues(d.Key).Add(float64(buckets))
	}
	return nil
}

func runReservoir(job *config.Job, d dataset.Dataset, stream *lines.Reader, out *lines.Writer, logger *slog.Logger) error {
	result, err := shuffle.Reservoir(stream, shuffle.ReservoirOptions{
		Seed:               d.Key,
		MaxLines:           job.MaxLines,
		MaxWordsInSentence: job.MaxWordsInSentence,
		TotalByteSize:      job.TotalByteSize,
	})
	if err != nil {
		return err
	}

	for _, line := range result.Lines {
		if err := out.WriteLine(line); err != nil {
			return err
		}
	}

	logger.Info("sampled dataset",
		"output", job.Output,
		"lines", len(result.Lines),
		"dropped", result.Dropped,
	)
	if m := metrics.Get(); m != nil {
		m.LinesWritten.WithLabelValues(d.Key).Add(float64(len(result.Lines)))
		m.LinesDropped.WithLabelValues(d.Key).Add(float64(result.Dropped))
	}
	return nil
}
