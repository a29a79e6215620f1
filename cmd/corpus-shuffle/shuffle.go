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

func newShuffleCommand(cfg config.Config) *cobra.Command {
	var (
		input       string
		output      string
		seed        string
		chunkBytes  int64
		bucketBytes int64
		chunkDir    string
		keepChunks  bool
	)

	cmd := &cobra.Command{
		Use:   "shuffle",
		Short: "Shuffle a large corpus through disk-backed chunks",
		Long: "Shuffle a corpus of any size by staging it in bounded chunk files\n" +
			"on disk, holding at most one bucket of lines in memory. The output\n" +
			"ordering is reproducible from the seed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.Component("shuffle")

			stream, err := openInput(input)
			if err != nil {
				return err
			}
			defer stream.Close()

			out, err := openOutput(output)
			if err != nil {
				return err
			}

			if chunkDir == "" {
				chunkDir = cfg.Shuffle.ChunkDir
			}
			dir, err := makeChunkDir(chunkDir)
			if err != nil {
				return err
			}
			if !keepChunks && !cfg.Shuffle.KeepChunks {
				defer os.RemoveAll(dir)
			}

			started := time.Now()
			buckets, err := shuffle.External(stream, out, shuffle.ExternalOptions{
				Seed:        seed,
				ChunkBytes:  chunkBytes,
				BucketBytes: bucketBytes,
				ChunkDir:    dir,
				KeepChunks:  keepChunks || cfg.Shuffle.KeepChunks,
			})
			if err != nil {
				out.Close()
				return fmt.Errorf("shuffle %s: %w", input, err)
			}
			if err := out.Close(); err != nil {
				return err
			}

			logger.Info("shuffled corpus",
				"input", input,
				"output", output,
				"lines", stream.Count(),
				"buckets", buckets,
				"duration", time.Since(started).String(),
			)
			if m := metrics.Get(); m != nil {
				m.LinesRead.WithLabelValues(seed).Add(float64(stream.Count()))
				m.LinesWritten.WithLabelValues(seed).Add(float64(stream.Count()))
				m.BucketsFlushed.WithLabelValues(seed).Add(float64(buckets))
				m.ShuffleDuration.WithLabelValues(seed, config.ModeExternal).Observe(time.Since(started).Seconds())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "-", "corpus file to shuffle (- for stdin)")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "destination file (- for stdout)")
	cmd.Flags().StringVar(&seed, "seed", "", "seed for the deterministic shuffle, usually the dataset key")
	cmd.Flags().Int64Var(&chunkBytes, "chunk-bytes", 100_000_000, "byte budget per staged chunk file")
	cmd.Flags().Int64Var(&bucketBytes, "bucket-bytes", 250_000_000, "byte budget for the in-memory bucket")
	cmd.Flags().StringVar(&chunkDir, "chunk-dir", "", "directory for chunk staging (default temp dir)")
	cmd.Flags().BoolVar(&keepChunks, "keep-chunks", false, "retain chunk files for debugging")
	cmd.MarkFlagRequired("seed")

	return cmd
}
