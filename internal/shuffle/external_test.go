package shuffle

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func chunkFiles(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "chunk.*"))
	if err != nil {
		t.Fatalf("glob chunks: %v", err)
	}
	return matches
}

func outputLines(out *bytes.Buffer) []string {
	text := strings.TrimSuffix(out.String(), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func TestExternalShufflesAndCleansUp(t *testing.T) {
	// 1000 one-byte lines through 100-byte chunks and a 250-byte
	// bucket: a couple dozen transient chunks and several full-bucket
	// flushes before the trailing partial one.
	input := make([]string, 1000)
	for i := range input {
		input[i] = string(rune('a' + i%10))
	}

	dir := t.TempDir()
	var out bytes.Buffer

	buckets, err := External(Lines(input...), &out, ExternalOptions{
		Seed:        "s",
		ChunkBytes:  100,
		BucketBytes: 250,
		ChunkDir:    dir,
	})
	if err != nil {
		t.Fatalf("shuffle: %v", err)
	}

	if buckets < 4 {
		t.Errorf("expected at least 4 full buckets, got %d", buckets)
	}

	got := outputLines(&out)
	if len(got) != len(input) {
		t.Fatalf("expected %d output lines, got %d", len(input), len(got))
	}
	gotSorted := sortedCopy(got)
	wantSorted := sortedCopy(input)
	for i := range wantSorted {
		if gotSorted[i] != wantSorted[i] {
			t.Fatal("output is not a permutation of the input")
		}
	}

	if remaining := chunkFiles(t, dir); len(remaining) != 0 {
		t.Errorf("chunk files left behind: %v", remaining)
	}
}

func TestExternalIsDeterministic(t *testing.T) {
	input := make([]string, 500)
	for i := range input {
		input[i] = fmt.Sprintf("sentence number %d", i)
	}

	run := func(seed string) string {
		var out bytes.Buffer
		_, err := External(Lines(input...), &out, ExternalOptions{
			Seed:        seed,
			ChunkBytes:  512,
			BucketBytes: 1024,
			ChunkDir:    t.TempDir(),
		})
		if err != nil {
			t.Fatalf("shuffle: %v", err)
		}
		return out.String()
	}

	first := run("x")
	second := run("x")
	if first != second {
		t.Fatal("same seed produced different output")
	}
	if first == run("y") {
		t.Log("seeds x and y happened to collide; output order identical")
	}
}

func TestExternalKeepsChunksWhenAsked(t *testing.T) {
	input := make([]string, 100)
	for i := range input {
		input[i] = fmt.Sprintf("line %d", i)
	}

	dir := t.TempDir()
	var out bytes.Buffer

	if _, err := External(Lines(input...), &out, ExternalOptions{
		Seed:        "keep",
		ChunkBytes:  64,
		BucketBytes: 256,
		ChunkDir:    dir,
		KeepChunks:  true,
	}); err != nil {
		t.Fatalf("shuffle: %v", err)
	}

	chunks := chunkFiles(t, dir)
	if len(chunks) < 2 {
		t.Fatalf("expected several retained chunks, got %v", chunks)
	}

	// Chunk indexes are contiguous from zero.
	for i := range chunks {
		path := filepath.Join(dir, fmt.Sprintf("chunk.%d", i))
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing chunk %d: %v", i, err)
		}
	}
}

func TestExternalRespectsChunkBudget(t *testing.T) {
	const chunkBytes = 64

	input := make([]string, 200)
	for i := range input {
		input[i] = fmt.Sprintf("%07d", i)
	}

	dir := t.TempDir()
	var out bytes.Buffer

	if _, err := External(Lines(input...), &out, ExternalOptions{
		Seed:        "budget",
		ChunkBytes:  chunkBytes,
		BucketBytes: 1024,
		ChunkDir:    dir,
		KeepChunks:  true,
	}); err != nil {
		t.Fatalf("shuffle: %v", err)
	}

	for _, path := range chunkFiles(t, dir) {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat %s: %v", path, err)
		}
		if info.Size() > chunkBytes {
			t.Errorf("%s is %d bytes, budget is %d", filepath.Base(path), info.Size(), chunkBytes)
		}
	}
}

func TestExternalWritesOversizedLineWhole(t *testing.T) {
	huge := strings.Repeat("long sentence ", 100)
	input := []string{"a", huge, "b", "c"}

	dir := t.TempDir()
	var out bytes.Buffer

	if _, err := External(Lines(input...), &out, ExternalOptions{
		Seed:        "huge",
		ChunkBytes:  32,
		BucketBytes: 64,
		ChunkDir:    dir,
	}); err != nil {
		t.Fatalf("shuffle: %v", err)
	}

	got := outputLines(&out)
	if len(got) != len(input) {
		t.Fatalf("expected %d lines, got %d", len(input), len(got))
	}
	found := 0
	for _, line := range got {
		if line == huge {
			found++
		}
	}
	if found != 1 {
		t.Fatalf("oversized line appeared %d times", found)
	}
}

func TestExternalEmptyStream(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer

	buckets, err := External(Lines(), &out, ExternalOptions{
		Seed:        "empty",
		ChunkBytes:  100,
		BucketBytes: 100,
		ChunkDir:    dir,
	})
	if err != nil {
		t.Fatalf("shuffle: %v", err)
	}
	if buckets != 0 {
		t.Errorf("expected 0 buckets, got %d", buckets)
	}
	if out.Len() != 0 {
		t.Errorf("expected no output, got %q", out.String())
	}
	if remaining := chunkFiles(t, dir); len(remaining) != 0 {
		t.Errorf("chunk files left behind: %v", remaining)
	}
}

func TestExternalFailsFastOnBadBudgets(t *testing.T) {
	stream := &countingStream{lines: []string{"a", "b"}}
	var out bytes.Buffer

	_, err := External(stream, &out, ExternalOptions{
		Seed:        "bad",
		ChunkBytes:  0,
		BucketBytes: 100,
		ChunkDir:    t.TempDir(),
	})
	if !errors.Is(err, ErrBadConfig) {
		t.Fatalf("expected ErrBadConfig, got %v", err)
	}
	if stream.reads != 0 {
		t.Errorf("stream consumed before validation failed: %d reads", stream.reads)
	}

	_, err = External(stream, &out, ExternalOptions{
		Seed:        "bad",
		ChunkBytes:  100,
		BucketBytes: -1,
		ChunkDir:    t.TempDir(),
	})
	if !errors.Is(err, ErrBadConfig) {
		t.Fatalf("expected ErrBadConfig, got %v", err)
	}
}

func TestExternalPropagatesStreamErrors(t *testing.T) {
	streamErr := errors.New("decompression failed")
	stream := &countingStream{lines: []string{"a", "b"}, err: streamErr}
	var out bytes.Buffer

	_, err := External(stream, &out, ExternalOptions{
		Seed:        "err",
		ChunkBytes:  100,
		BucketBytes: 100,
		ChunkDir:    t.TempDir(),
	})
	if !errors.Is(err, streamErr) {
		t.Fatalf("expected stream error, got %v", err)
	}
}

// countingStream counts reads and optionally fails after its lines run
// out.
type countingStream struct {
	lines []string
	err   error
	reads int
}

func (s *countingStream) Next() (string, bool) {
	if s.reads >= len(s.lines) {
		return "", false
	}
	line := s.lines[s.reads]
	s.reads++
	return line, true
}

func (s *countingStream) Err() error {
	if s.reads >= len(s.lines) {
		return s.err
	}
	return nil
}
