package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/gregtatum/firefox-translations-training/internal/lines"
)

// openInput opens path as a line stream; "-" means stdin.
func openInput(path string) (*lines.Reader, error) {
	if path == "-" {
		return lines.NewReader(os.Stdin), nil
	}
	return lines.Open(path)
}

// openOutput opens path for line output; "-" means stdout, which is
// never compressed.
func openOutput(path string) (*lines.Writer, error) {
	if path == "-" {
		return lines.NewWriter(os.Stdout), nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return lines.Create(path)
}

// makeChunkDir creates a unique staging directory for one shuffle run
// under base, or under the platform temp directory when base is empty.
func makeChunkDir(base string) (string, error) {
	if base == "" {
		base = os.TempDir()
	}
	dir := filepath.Join(base, "shuffle-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create chunk directory %s: %w", dir, err)
	}
	return dir, nil
}
