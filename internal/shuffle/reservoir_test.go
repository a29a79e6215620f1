package shuffle

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
)

func totalByteSize(lines []string) int64 {
	var total int64
	for _, line := range lines {
		total += int64(len(line))
	}
	return total
}

func sortedCopy(lines []string) []string {
	out := make([]string, len(lines))
	copy(out, lines)
	sort.Strings(out)
	return out
}

func TestReservoirIsDeterministic(t *testing.T) {
	input := []string{"a", "b", "c", "d", "e"}
	opts := ReservoirOptions{
		Seed:               "x",
		MaxLines:           5,
		MaxWordsInSentence: 10,
		TotalByteSize:      totalByteSize(input),
	}

	first, err := Reservoir(Lines(input...), opts)
	if err != nil {
		t.Fatalf("first shuffle: %v", err)
	}
	second, err := Reservoir(Lines(input...), opts)
	if err != nil {
		t.Fatalf("second shuffle: %v", err)
	}

	if len(first.Lines) != len(input) {
		t.Fatalf("expected %d lines, got %d", len(input), len(first.Lines))
	}
	for i := range first.Lines {
		if first.Lines[i] != second.Lines[i] {
			t.Fatalf("same seed produced different orders:\n%v\n%v", first.Lines, second.Lines)
		}
	}

	got := sortedCopy(first.Lines)
	want := sortedCopy(input)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("output is not a permutation of the input: %v", first.Lines)
		}
	}
}

func TestReservoirOutputIsBounded(t *testing.T) {
	const maxLines = 10

	for _, streamLen := range []int{0, 1, maxLines, 10 * maxLines} {
		t.Run(fmt.Sprintf("stream_of_%d", streamLen), func(t *testing.T) {
			input := make([]string, streamLen)
			for i := range input {
				input[i] = fmt.Sprintf("line %d", i)
			}

			result, err := Reservoir(Lines(input...), ReservoirOptions{
				Seed:               "bound",
				MaxLines:           maxLines,
				MaxWordsInSentence: 100,
				TotalByteSize:      totalByteSize(input),
			})
			if err != nil {
				t.Fatalf("shuffle: %v", err)
			}

			want := streamLen
			if want > maxLines {
				want = maxLines
			}
			if len(result.Lines) != want {
				t.Fatalf("expected %d lines, got %d", want, len(result.Lines))
			}
		})
	}
}

func TestReservoirDropsLongSentences(t *testing.T) {
	tooLong := strings.Repeat("word ", 11)
	input := []string{"one", "two words", tooLong, "three short words"}

	result, err := Reservoir(Lines(input...), ReservoirOptions{
		Seed:               "drop",
		MaxLines:           10,
		MaxWordsInSentence: 10,
		TotalByteSize:      totalByteSize(input),
	})
	if err != nil {
		t.Fatalf("shuffle: %v", err)
	}

	if result.Dropped != 1 {
		t.Fatalf("expected 1 dropped line, got %d", result.Dropped)
	}
	if len(result.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %v", len(result.Lines), result.Lines)
	}
	for _, line := range result.Lines {
		if line == tooLong {
			t.Fatal("over-long sentence survived the filter")
		}
	}
}

func TestReservoirZeroCapacity(t *testing.T) {
	result, err := Reservoir(Lines("a", "b", "c"), ReservoirOptions{
		Seed:               "zero",
		MaxLines:           0,
		MaxWordsInSentence: 10,
		TotalByteSize:      3,
	})
	if err != nil {
		t.Fatalf("shuffle: %v", err)
	}
	if len(result.Lines) != 0 {
		t.Fatalf("expected no lines, got %v", result.Lines)
	}
}

func TestReservoirRejectsNegativeConfig(t *testing.T) {
	cases := []ReservoirOptions{
		{Seed: "s", MaxLines: -1, MaxWordsInSentence: 10, TotalByteSize: 10},
		{Seed: "s", MaxLines: 10, MaxWordsInSentence: -1, TotalByteSize: 10},
		{Seed: "s", MaxLines: 10, MaxWordsInSentence: 10, TotalByteSize: -10},
	}
	for _, opts := range cases {
		if _, err := Reservoir(Lines("a"), opts); !errors.Is(err, ErrBadConfig) {
			t.Fatalf("expected ErrBadConfig for %+v, got %v", opts, err)
		}
	}
}

func TestReservoirSamplesAcrossWholeStream(t *testing.T) {
	// 10k equally sized lines sampled down to 2k. Every decile of the
	// original ordering should be well represented; the estimate-based
	// sampling admits lines from the full stream, not just the head.
	const items = 10_000
	const maxLines = 2_000

	input := make([]string, items)
	for i := range input {
		input[i] = fmt.Sprintf("%09d\t%09d\t%09d", i, i, i)
	}

	result, err := Reservoir(Lines(input...), ReservoirOptions{
		Seed:               "distribution",
		MaxLines:           maxLines,
		MaxWordsInSentence: 100,
		TotalByteSize:      totalByteSize(input),
	})
	if err != nil {
		t.Fatalf("shuffle: %v", err)
	}
	if len(result.Lines) != maxLines {
		t.Fatalf("expected %d lines, got %d", maxLines, len(result.Lines))
	}

	deciles := make([]int, 10)
	seen := make(map[string]bool, maxLines)
	for _, line := range result.Lines {
		if seen[line] {
			t.Fatalf("line duplicated in output: %q", line)
		}
		seen[line] = true

		var index int
		if _, err := fmt.Sscanf(line, "%d", &index); err != nil {
			t.Fatalf("unexpected line %q: %v", line, err)
		}
		deciles[index*10/items]++
	}

	// Expected count is maxLines/10 per decile. Loose bounds: the skew
	// from FIFO eviction and estimation drift stays nowhere near 50%.
	for i, count := range deciles {
		if count < maxLines/20 {
			t.Errorf("decile %d under-sampled: %d of %d", i, count, maxLines)
		}
	}
}
