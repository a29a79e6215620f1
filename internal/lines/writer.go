package lines

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Writer appends lines to a corpus file, compressing with zstd or gzip
// by file extension. Writes are buffered; Close must be called to
// finalize the compressed framing.
type Writer struct {
	w       *bufio.Writer
	closers []func() error
	count   int64
}

// Create creates or truncates a corpus file for line output. `.zst`
// and `.gz` paths are compressed; anything else is written as plain
// text.
func Create(path string) (*Writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create corpus %s: %w", path, err)
	}

	switch filepath.Ext(path) {
	case ".zst":
		enc, err := zstd.NewWriter(file, zstd.WithEncoderConcurrency(1))
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create zstd encoder: %w", err)
		}
		return newWriter(enc, enc.Close, file.Close), nil
	case ".gz":
		enc := gzip.NewWriter(file)
		return newWriter(enc, enc.Close, file.Close), nil
	default:
		return newWriter(file, file.Close), nil
	}
}

// NewWriter wraps an already-open writer for line output. The caller
// keeps ownership of w's lifecycle.
func NewWriter(w io.Writer) *Writer {
	return newWriter(w)
}

func newWriter(w io.Writer, closers ...func() error) *Writer {
	return &Writer{w: bufio.NewWriterSize(w, 1<<20), closers: closers}
}

// WriteLine appends one line, adding the terminator.
func (w *Writer) WriteLine(line string) error {
	if _, err := w.w.WriteString(line); err != nil {
		return fmt.Errorf("write line: %w", err)
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("write line: %w", err)
	}
	w.count++
	return nil
}

// Write implements io.Writer so a Writer can serve directly as a
// shuffle output sink. The payload is expected to carry its own line
// terminators.
func (w *Writer) Write(p []byte) (int, error) {
	return w.w.Write(p)
}

// Count returns how many lines WriteLine has appended.
func (w *Writer) Count() int64 { return w.count }

// Close flushes buffered data and finalizes compression framing.
func (w *Writer) Close() error {
	var first error
	if err := w.w.Flush(); err != nil {
		first = fmt.Errorf("flush corpus: %w", err)
	}
	for _, close := range w.closers {
		if err := close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
