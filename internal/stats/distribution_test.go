package stats

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogDistributionReport(t *testing.T) {
	d := NewLogDistribution("words")
	for i := 0; i < 1500; i++ {
		d.Count(5)
	}
	for i := 0; i < 300; i++ {
		d.Count(40)
	}
	d.Count(0) // ignored by the log buckets

	if d.Total() != 1801 {
		t.Fatalf("total = %d", d.Total())
	}

	var out bytes.Buffer
	d.ReportLogScale(&out, 25)
	report := out.String()

	if !strings.Contains(report, "words") {
		t.Error("report missing distribution name")
	}
	if !strings.Contains(report, "1,500") {
		t.Errorf("report missing comma-formatted count:\n%s", report)
	}
	if !strings.Contains(report, "█") {
		t.Error("report missing graph bars")
	}
}

func TestLogDistributionEmpty(t *testing.T) {
	d := NewLogDistribution("empty")

	var out bytes.Buffer
	d.ReportLogScale(&out, 25)

	if !strings.Contains(out.String(), "no data") {
		t.Fatalf("unexpected report: %q", out.String())
	}
}

func TestTableAlignment(t *testing.T) {
	table := Table{
		Aligns: []Align{AlignRight, AlignLeft},
		Header: []string{"n", "name"},
		Rows: [][]string{
			{"1", "alpha"},
			{"100", "b"},
		},
	}

	var out bytes.Buffer
	table.Render(&out)

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), out.String())
	}
	if lines[2] != "|   1 | alpha |" {
		t.Errorf("right-align broken: %q", lines[2])
	}
	if lines[3] != "| 100 | b     |" {
		t.Errorf("left-align broken: %q", lines[3])
	}
}

func TestComma(t *testing.T) {
	cases := map[int]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		1234567:  "1,234,567",
		10000000: "10,000,000",
	}
	for n, want := range cases {
		if got := comma(n); got != want {
			t.Errorf("comma(%d) = %q, want %q", n, got, want)
		}
	}
}
