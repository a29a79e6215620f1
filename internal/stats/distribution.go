// Package stats reports the statistical shape of a corpus: sentence
// lengths and word counts bucketed on a log scale, rendered as aligned
// text tables.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// defaultScale controls how many log-scale buckets cover each factor
// of e.
const defaultScale = 3

// LogDistribution accumulates integer measurements (sentence lengths,
// word counts) into a histogram and reports them on a log scale. The
// histogram is plain mutable state; it is not safe for concurrent use.
type LogDistribution struct {
	Name      string
	Scale     int
	Histogram map[int]int
}

// NewLogDistribution returns an empty distribution with the default
// scale.
func NewLogDistribution(name string) *LogDistribution {
	return &LogDistribution{
		Name:      name,
		Scale:     defaultScale,
		Histogram: make(map[int]int),
	}
}

// Count records one measurement.
func (d *LogDistribution) Count(value int) {
	d.Histogram[value]++
}

// Total returns how many measurements have been recorded.
func (d *LogDistribution) Total() int {
	total := 0
	for _, count := range d.Histogram {
		total += count
	}
	return total
}

// ReportLogScale renders the distribution to w as a table of log-scale
// ranges with a bar graph, widest bar graphWidth characters.
func (d *LogDistribution) ReportLogScale(w io.Writer, graphWidth int) {
	maxValue := 0
	for value := range d.Histogram {
		if value > maxValue {
			maxValue = value
		}
	}

	if maxValue == 0 {
		fmt.Fprintf(w, "%s: (no data)\n", d.Name)
		return
	}

	maxBucket := int(math.Ceil(math.Log(float64(maxValue)))) * d.Scale
	buckets := make([]int, maxBucket+1)
	for value, count := range d.Histogram {
		if value <= 0 {
			continue
		}
		bucket := int(math.Ceil(math.Log(float64(value)) * float64(d.Scale)))
		if bucket < 0 {
			bucket = 0
		}
		buckets[bucket] += count
	}

	maxCount := 0
	for _, count := range buckets {
		if count > maxCount {
			maxCount = count
		}
	}

	table := Table{
		Aligns: []Align{AlignRight, AlignLeft, AlignRight},
		Header: []string{d.Name, "sentences graph", "sentences"},
	}

	for i, count := range buckets {
		if math.Exp(float64(i)/float64(d.Scale)) < 1 {
			continue
		}
		rangeStart := int(math.Ceil(math.Exp(float64(i-1) / float64(d.Scale))))
		rangeEnd := int(math.Ceil(math.Exp(float64(i) / float64(d.Scale))))
		if i == 0 {
			rangeStart = 0
		}

		bar := int(math.Round(float64(count) / float64(maxCount) * float64(graphWidth)))
		table.Rows = append(table.Rows, []string{
			fmt.Sprintf("%d-%d", rangeStart, rangeEnd),
			strings.Repeat("█", bar),
			comma(count),
		})
	}

	fmt.Fprintln(w)
	table.Render(w)
}

// comma formats n with thousands separators.
func comma(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
