// Package lines reads and writes line-oriented corpus files,
// transparently handling zstd and gzip compression by file extension.
package lines

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Reader streams terminator-stripped lines from a corpus file or
// reader. It is forward-only and single-pass: once a line is consumed
// it cannot be revisited.
//
// Reader satisfies the shuffle package's LineStream contract.
type Reader struct {
	r       *bufio.Reader
	closers []func() error
	count   int64
	err     error
	done    bool
}

// Open opens a corpus file as a line stream, decompressing `.zst` and
// `.gz` files by extension. Anything else is read as plain text.
func Open(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus %s: %w", path, err)
	}
	return Decode(file, path)
}

// Decode wraps an already-open reader as a line stream, picking the
// decompressor from name's extension. If r is an io.Closer, Close
// closes it after any decoder.
func Decode(r io.Reader, name string) (*Reader, error) {
	switch filepath.Ext(name) {
	case ".zst":
		dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			closeIfCloser(r)
			return nil, fmt.Errorf("create zstd decoder: %w", err)
		}
		lr := NewReader(dec.IOReadCloser())
		lr.closers = append(lr.closers, closerFunc(r))
		return lr, nil
	case ".gz":
		dec, err := gzip.NewReader(r)
		if err != nil {
			closeIfCloser(r)
			return nil, fmt.Errorf("create gzip decoder for %s: %w", name, err)
		}
		lr := NewReader(dec)
		lr.closers = append(lr.closers, closerFunc(r))
		return lr, nil
	default:
		return NewReader(r), nil
	}
}

func closeIfCloser(r io.Reader) {
	if c, ok := r.(io.Closer); ok {
		c.Close()
	}
}

func closerFunc(r io.Reader) func() error {
	if c, ok := r.(io.Closer); ok {
		return c.Close
	}
	return func() error { return nil }
}

// NewReader wraps an already-open reader as a line stream. If r is an
// io.Closer it is closed by Close.
func NewReader(r io.Reader) *Reader {
	lr := &Reader{r: bufio.NewReaderSize(r, 1<<20)}
	if c, ok := r.(io.Closer); ok {
		lr.closers = append(lr.closers, c.Close)
	}
	return lr
}

// Next returns the next line with its terminator stripped. It returns
// false once the stream is exhausted or has failed; Err distinguishes
// the two. Lines of any length are supported.
func (r *Reader) Next() (string, bool) {
	if r.done {
		return "", false
	}

	line, err := r.r.ReadString('\n')
	if err == io.EOF {
		r.done = true
		if len(line) == 0 {
			return "", false
		}
		r.count++
		return trimTerminator(line), true
	}
	if err != nil {
		r.done = true
		r.err = err
		return "", false
	}

	r.count++
	return trimTerminator(line), true
}

// Err reports the failure that ended the stream, if any.
func (r *Reader) Err() error { return r.err }

// Count returns how many lines have been produced so far.
func (r *Reader) Count() int64 { return r.count }

// Close releases the underlying file and decoder.
func (r *Reader) Close() error {
	var first error
	for _, close := range r.closers {
		if err := close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func trimTerminator(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
