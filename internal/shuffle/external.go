package shuffle

import (
	"bufio"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
)

// ExternalOptions configures a disk-backed chunk-and-bucket shuffle.
type ExternalOptions struct {
	// Seed deterministically initializes the random generator.
	Seed string

	// ChunkBytes is the byte budget for each chunk file written to
	// durable storage, counting one terminator byte per line.
	ChunkBytes int64

	// BucketBytes is the byte budget for the in-memory bucket that
	// accumulates lines read back from chunks.
	BucketBytes int64

	// ChunkDir is the directory for the transient chunk files. Empty
	// means the platform temp directory.
	ChunkDir string

	// KeepChunks retains the chunk files after they are consumed, as a
	// debugging aid.
	KeepChunks bool
}

func (o ExternalOptions) validate() error {
	if o.ChunkBytes <= 0 {
		return fmt.Errorf("%w: chunk bytes %d must be positive", ErrBadConfig, o.ChunkBytes)
	}
	if o.BucketBytes <= 0 {
		return fmt.Errorf("%w: bucket bytes %d must be positive", ErrBadConfig, o.BucketBytes)
	}
	return nil
}

func (o ExternalOptions) chunkDir() string {
	if o.ChunkDir == "" {
		return os.TempDir()
	}
	return o.ChunkDir
}

func chunkPath(dir string, index int) string {
	return filepath.Join(dir, fmt.Sprintf("chunk.%d", index))
}

// External shuffles a large line stream by staging it in chunk files on
// disk, then reading the chunks back in a random order through an
// in-memory bucket that is shuffled and flushed to output each time it
// fills. Lines are written to output with trailing newlines, bucket by
// bucket, and the number of full buckets flushed is returned (a
// trailing partial bucket is flushed but not counted).
//
// At most one bucket is held in memory; on disk, at most one full copy
// of the dataset exists across not-yet-consumed chunks. The ordering is
// fully determined by the seed and the stream's content and byte
// layout, so two streams of equal line count shuffled with the same
// seed and budgets come out in the same order only while their chunk
// boundaries fall at corresponding line indices. Boundaries are
// computed from per-line byte sizes, which differ across the two sides
// of a parallel corpus; callers that need strict alignment must verify
// it holds for their data.
func External(stream LineStream, output io.Writer, opts ExternalOptions) (int, error) {
	if err := opts.validate(); err != nil {
		return 0, err
	}

	dir := opts.chunkDir()
	rng := NewRand(opts.Seed)

	chunkCount, err := writeChunks(stream, dir, opts.ChunkBytes)
	if err != nil {
		return 0, err
	}

	perm := rng.Perm(chunkCount)

	return drainChunks(rng, output, dir, perm, opts)
}

// writeChunks splits the stream into chunk files under dir, each
// bounded by chunkBytes, and returns how many were written. A single
// line larger than the budget still goes into its chunk whole.
func writeChunks(stream LineStream, dir string, chunkBytes int64) (int, error) {
	index := 0
	file, err := os.Create(chunkPath(dir, index))
	if err != nil {
		return 0, fmt.Errorf("create chunk %d: %w", index, err)
	}
	w := bufio.NewWriter(file)

	var written int64
	for {
		line, ok := stream.Next()
		if !ok {
			break
		}
		lineBytes := int64(len(line)) + 1

		if written+lineBytes > chunkBytes {
			if err := closeChunk(w, file, index); err != nil {
				return 0, err
			}
			index++
			file, err = os.Create(chunkPath(dir, index))
			if err != nil {
				return 0, fmt.Errorf("create chunk %d: %w", index, err)
			}
			w = bufio.NewWriter(file)
			written = 0
		}

		if _, err := w.WriteString(line); err != nil {
			return 0, fmt.Errorf("write chunk %d: %w", index, err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return 0, fmt.Errorf("write chunk %d: %w", index, err)
		}
		written += lineBytes
	}

	if err := closeChunk(w, file, index); err != nil {
		return 0, err
	}
	if err := stream.Err(); err != nil {
		return 0, fmt.Errorf("read line stream: %w", err)
	}
	return index + 1, nil
}

func closeChunk(w *bufio.Writer, file *os.File, index int) error {
	if err := w.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("flush chunk %d: %w", index, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close chunk %d: %w", index, err)
	}
	return nil
}

// drainChunks reads chunks back in permuted order, accumulating lines
// into a bucket that is shuffled and flushed whenever it overflows
// bucketBytes. Consumed chunks are deleted unless retention was asked
// for.
func drainChunks(rng *rand.Rand, output io.Writer, dir string, perm []int, opts ExternalOptions) (int, error) {
	var (
		bucket        []string
		bytesInBucket int64
		bucketCount   int
	)

	flush := func() error {
		shuffleStrings(rng, bucket)
		for _, line := range bucket {
			if _, err := io.WriteString(output, line); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			if _, err := io.WriteString(output, "\n"); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
		}
		bucket = bucket[:0]
		bytesInBucket = 0
		return nil
	}

	for _, index := range perm {
		path := chunkPath(dir, index)
		if err := readChunk(path, func(line string) error {
			bucket = append(bucket, line)
			bytesInBucket += int64(len(line)) + 1

			if bytesInBucket > opts.BucketBytes {
				if err := flush(); err != nil {
					return err
				}
				bucketCount++
			}
			return nil
		}); err != nil {
			return bucketCount, err
		}

		if !opts.KeepChunks {
			if err := os.Remove(path); err != nil {
				return bucketCount, fmt.Errorf("remove chunk %d: %w", index, err)
			}
		}
	}

	if len(bucket) > 0 {
		if err := flush(); err != nil {
			return bucketCount, err
		}
	}
	return bucketCount, nil
}

// readChunk reads a chunk file line by line. Lines of any length are
// supported; a chunk holding one oversized line is read back whole.
func readChunk(path string, visit func(line string) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open chunk %s: %w", filepath.Base(path), err)
	}
	defer file.Close()

	r := bufio.NewReader(file)
	for {
		line, err := r.ReadString('\n')
		if len(line) > 0 {
			line = strings.TrimSuffix(line, "\n")
			if err := visit(line); err != nil {
				return err
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read chunk %s: %w", filepath.Base(path), err)
		}
	}
}
