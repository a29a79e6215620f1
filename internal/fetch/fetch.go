// Package fetch downloads corpora from HTTP servers and blob storage
// (file://, gs://, s3://) to the local filesystem, or opens them
// directly as line streams.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// driver
	_ "gocloud.dev/blob/gcsblob"  // gs:// driver
	_ "gocloud.dev/blob/s3blob"   // s3:// driver

	"github.com/gregtatum/firefox-translations-training/internal/lines"
)

// copyBufferSize streams downloads to disk in 1 MiB chunks.
const copyBufferSize = 1 << 20

// Download streams the corpus at rawURL into destination and returns
// the byte count. The write is atomic: data lands in a temp file that
// is renamed into place only on success.
func Download(ctx context.Context, rawURL, destination string) (int64, error) {
	body, err := open(ctx, rawURL)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	if err := os.MkdirAll(filepath.Dir(destination), 0755); err != nil {
		return 0, fmt.Errorf("create directory for %s: %w", destination, err)
	}

	tempPath := destination + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return 0, fmt.Errorf("create temp file %s: %w", tempPath, err)
	}

	written, err := io.CopyBuffer(file, body, make([]byte, copyBufferSize))
	if err != nil {
		file.Close()
		os.Remove(tempPath)
		return 0, fmt.Errorf("download %s: %w", rawURL, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return 0, fmt.Errorf("close temp file %s: %w", tempPath, err)
	}

	if err := os.Rename(tempPath, destination); err != nil {
		os.Remove(tempPath)
		return 0, fmt.Errorf("rename %s to %s: %w", tempPath, destination, err)
	}
	return written, nil
}

// OpenLines opens the corpus at rawURL as a line stream without
// materializing it on disk, decompressing by the URL path's extension.
// The caller owns closing the returned reader.
func OpenLines(ctx context.Context, rawURL string) (*lines.Reader, error) {
	body, err := open(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return lines.Decode(body, rawURL)
}

// Scheme reports the URL scheme used for a corpus location, with bare
// paths treated as local files.
func Scheme(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" {
		return "file"
	}
	return u.Scheme
}

func open(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" {
		// A bare path with no scheme.
		file, err := os.Open(rawURL)
		if err != nil {
			return nil, fmt.Errorf("open corpus %s: %w", rawURL, err)
		}
		return file, nil
	}

	switch u.Scheme {
	case "http", "https":
		return openHTTP(ctx, rawURL)
	case "gs", "s3", "file":
		return openBlob(ctx, rawURL)
	default:
		return nil, fmt.Errorf("unsupported corpus url scheme %q in %s", u.Scheme, rawURL)
	}
}

func openHTTP(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", rawURL, err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", rawURL, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("download %s: unexpected status %s", rawURL, resp.Status)
	}
	return resp.Body, nil
}

// openBlob reads a key from bucket storage through gocloud, so gs://
// and s3:// corpora use the same path as local file:// buckets.
func openBlob(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse corpus url %s: %w", rawURL, err)
	}

	key := strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return nil, fmt.Errorf("corpus url %s has no object key", rawURL)
	}

	var bucketURL string
	if u.Scheme == "file" {
		// fileblob buckets address a directory; the key is the file name.
		dir := filepath.Dir(filepath.Join(u.Host, u.Path))
		key = filepath.Base(u.Path)
		bucketURL = "file://" + dir
	} else {
		bucketURL = fmt.Sprintf("%s://%s", u.Scheme, u.Host)
	}

	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("open bucket %s: %w", bucketURL, err)
	}

	r, err := bucket.NewReader(ctx, key, nil)
	if err != nil {
		bucket.Close()
		return nil, fmt.Errorf("open %s: %w", rawURL, err)
	}
	return &blobReader{Reader: r, bucket: bucket}, nil
}

// blobReader ties a bucket's lifetime to its open reader.
type blobReader struct {
	*blob.Reader
	bucket *blob.Bucket
}

func (r *blobReader) Close() error {
	err := r.Reader.Close()
	if cerr := r.bucket.Close(); err == nil {
		err = cerr
	}
	return err
}
