package shuffle

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBadConfig is returned when shuffle options fail validation.
var ErrBadConfig = errors.New("invalid shuffle configuration")

// ReservoirOptions configures a bounded-memory reservoir shuffle.
type ReservoirOptions struct {
	// Seed deterministically initializes the random generator,
	// typically from the dataset key.
	Seed string

	// MaxLines is the reservoir capacity: the maximum number of lines
	// held in memory, and the maximum number of lines returned.
	MaxLines int

	// MaxWordsInSentence drops any line whose whitespace-delimited word
	// count exceeds it. The filter applies only while the reservoir is
	// filling; see the package tests for the observable consequences.
	MaxWordsInSentence int

	// TotalByteSize is the caller's estimate of the full corpus size in
	// bytes, used to derive the sampling probability once the reservoir
	// is full.
	TotalByteSize int64
}

func (o ReservoirOptions) validate() error {
	if o.MaxLines < 0 {
		return fmt.Errorf("%w: max lines %d is negative", ErrBadConfig, o.MaxLines)
	}
	if o.MaxWordsInSentence < 0 {
		return fmt.Errorf("%w: max words in sentence %d is negative", ErrBadConfig, o.MaxWordsInSentence)
	}
	if o.TotalByteSize < 0 {
		return fmt.Errorf("%w: total byte size %d is negative", ErrBadConfig, o.TotalByteSize)
	}
	return nil
}

// ReservoirResult holds the output of a reservoir shuffle.
type ReservoirResult struct {
	// Lines is the shuffled sample, at most MaxLines long.
	Lines []string

	// Dropped counts lines discarded by the word-count filter.
	Dropped int
}

// Reservoir shuffles a line stream while retaining at most
// opts.MaxLines lines in memory.
//
// The final ordering is determined by the seed and the contents of the
// stream, so running this multiple times on the same dataset returns
// the same result, while the same seed over different content yields a
// different ordering.
//
// The reservoir fills from the head of the stream; once full it is
// shuffled in place, and each later line is admitted with a probability
// derived from a running estimate of the corpus line count, evicting
// the oldest resident line. The distribution is close to uniform unless
// the initial content is not representative of the general line size,
// in which case it skews toward the tail. A second shuffle at the end
// mixes late admissions with the initial sample.
func Reservoir(stream LineStream, opts ReservoirOptions) (*ReservoirResult, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	result := &ReservoirResult{}
	if opts.MaxLines == 0 {
		return result, nil
	}

	rng := NewRand(opts.Seed)
	lines := make([]string, 0, opts.MaxLines)
	var totalBytes int64

	// Fill the reservoir up to capacity, measuring total bytes and
	// discarding sentences that are too long.
	for {
		line, ok := stream.Next()
		if !ok {
			break
		}
		totalBytes += int64(len(line))
		if wordCount(line) > opts.MaxWordsInSentence {
			result.Dropped++
			continue
		}
		lines = append(lines, line)
		if len(lines) == opts.MaxLines {
			break
		}
	}
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("read line stream: %w", err)
	}

	shuffleStrings(rng, lines)

	// Consume the rest of the stream, sampling each line based on the
	// probability that admitting it keeps the reservoir representative
	// of the whole corpus. The estimate is adjusted continuously in
	// case the first sampled data was not representative.
	//
	// Eviction is FIFO: the oldest resident line is replaced, not a
	// uniformly random one. The slight skew toward later admissions is
	// a known property of the trained datasets and is kept as is.
	head := 0
	streamed := 0
	for {
		line, ok := stream.Next()
		if !ok {
			break
		}
		streamed++
		totalBytes += int64(len(line))
		averageBytesPerLine := float64(totalBytes) / float64(opts.MaxLines+streamed)
		estimatedLines := float64(opts.TotalByteSize) / averageBytesPerLine
		probability := float64(opts.MaxLines) / estimatedLines

		if rng.Float64() < probability {
			lines[head] = line
			head = (head + 1) % len(lines)
		}
	}
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("read line stream: %w", err)
	}

	// Linearize the ring in admission order before the final shuffle so
	// the output depends only on seed and content.
	ordered := make([]string, 0, len(lines))
	ordered = append(ordered, lines[head:]...)
	ordered = append(ordered, lines[:head]...)

	shuffleStrings(rng, ordered)
	result.Lines = ordered
	return result, nil
}

func wordCount(line string) int {
	return len(strings.Fields(line))
}
