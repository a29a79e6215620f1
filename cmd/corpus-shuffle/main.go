// Command corpus-shuffle prepares machine-translation training
// corpora: it downloads datasets, reports their statistical shape, and
// shuffles them reproducibly under bounded memory.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gregtatum/firefox-translations-training/internal/config"
	"github.com/gregtatum/firefox-translations-training/internal/logging"
	"github.com/gregtatum/firefox-translations-training/internal/metrics"
)

// Version is set at build time via -ldflags.
var (
	Version = "dev"
	GitSHA  = "unknown"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	cfg := config.MustLoad()
	logging.Setup(logging.Config{Format: cfg.Log.Format, Level: cfg.Log.Level})

	if cfg.Metrics.Enabled {
		metrics.Init("corpus_shuffle")
		go func() {
			if err := metrics.StartServer(cfg.Metrics.Address); err != nil {
				log.Printf("[metrics] server stopped: %v", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown handler
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		sig := <-ch
		log.Printf("[shutdown] received signal: %v", sig)
		cancel()
	}()

	root := newRoot(cfg)
	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// newRoot constructs the root command and registers the subcommands.
func newRoot(cfg config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "corpus-shuffle",
		Short:         "Prepare and shuffle machine-translation training corpora",
		Version:       Version + " (" + GitSHA + ")",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newShuffleCommand(cfg))
	root.AddCommand(newSampleCommand())
	root.AddCommand(newAnalyzeCommand())
	root.AddCommand(newFetchCommand())
	root.AddCommand(newRunCommand(cfg))
	return root
}
