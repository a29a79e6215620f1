package config

import "os"

// Config holds process-level settings sourced from the environment.
// Per-dataset work is described separately in YAML job files.
type Config struct {
	Log     LogConfig
	Metrics MetricsConfig
	Shuffle ShuffleConfig
}

type LogConfig struct {
	Format string // "json" | "text"
	Level  string // "debug" | "info" | "warn" | "error"
}

type MetricsConfig struct {
	Enabled bool
	Address string
}

type ShuffleConfig struct {
	// ChunkDir is where transient shuffle chunks are staged. Empty
	// means the platform temp directory.
	ChunkDir string

	// KeepChunks retains chunk files after a shuffle, for debugging.
	KeepChunks bool
}

// MustLoad reads process configuration from the environment, applying
// defaults for anything unset.
func MustLoad() Config {
	return Config{
		Log: LogConfig{
			Format: getenvDefault("LOG_FORMAT", "text"),
			Level:  getenvDefault("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Enabled: os.Getenv("METRICS_ENABLED") == "true",
			Address: getenvDefault("METRICS_ADDRESS", ":9090"),
		},
		Shuffle: ShuffleConfig{
			ChunkDir:   os.Getenv("SHUFFLE_CHUNK_DIR"),
			KeepChunks: os.Getenv("SHUFFLE_KEEP_CHUNKS") == "true",
		},
	}
}

func getenvDefault(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}
