// Package compression opens compressed CSF lists transparently.
//
// The algorithm is chosen from the file extension:
//
//	.gz       gzip
//	.zst      zstandard
//	.lz4      lz4 frame
//	.s2 .sz   s2 (snappy compatible stream)
//
// Anything else is read as plain text.
package compression

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Algorithm represents a compression algorithm.
type Algorithm string

const (
	// None represents no compression
	None Algorithm = "none"
	// Gzip represents gzip compression
	Gzip Algorithm = "gzip"
	// Zstd represents zstandard compression
	Zstd Algorithm = "zstd"
	// LZ4 represents lz4 frame compression
	LZ4 Algorithm = "lz4"
	// S2 represents s2 stream compression
	S2 Algorithm = "s2"
)

// Level represents compression level for writers.
type Level int

const (
	Fastest Level = 1
	Default Level = 5
	Best    Level = 9
)

// DetectAlgorithm maps a file extension to an algorithm.
func DetectAlgorithm(path string) Algorithm {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		return Gzip
	case ".zst", ".zstd":
		return Zstd
	case ".lz4":
		return LZ4
	case ".s2", ".sz":
		return S2
	default:
		return None
	}
}

// Extension returns the canonical file extension for alg.
func Extension(alg Algorithm) string {
	switch alg {
	case Gzip:
		return ".gz"
	case Zstd:
		return ".zst"
	case LZ4:
		return ".lz4"
	case S2:
		return ".s2"
	default:
		return ""
	}
}

// NewReader wraps r with a decompressor for alg.
func NewReader(r io.Reader, alg Algorithm) (io.ReadCloser, error) {
	switch alg {
	case None, "":
		return io.NopCloser(r), nil
	case Gzip:
		return gzip.NewReader(r)
	case Zstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case S2:
		return io.NopCloser(s2.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %s", alg)
	}
}

// NewWriter wraps w with a compressor for alg at the default level. The
// returned writer must be closed to flush the stream; closing does not close w.
func NewWriter(w io.Writer, alg Algorithm) (io.WriteCloser, error) {
	return NewWriterLevel(w, alg, Default)
}

// NewWriterLevel is NewWriter with an explicit level.
func NewWriterLevel(w io.Writer, alg Algorithm, level Level) (io.WriteCloser, error) {
	switch alg {
	case None, "":
		return nopWriteCloser{w}, nil
	case Gzip:
		return gzip.NewWriterLevel(w, gzipLevel(level))
	case Zstd:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstdLevel(level)))
	case LZ4:
		zw := lz4.NewWriter(w)
		if err := zw.Apply(lz4.CompressionLevelOption(lz4Level(level))); err != nil {
			return nil, err
		}
		return zw, nil
	case S2:
		if level >= Best {
			return s2.NewWriter(w, s2.WriterBestCompression()), nil
		}
		return s2.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %s", alg)
	}
}

// file couples a decompressor with the file it reads from.
type file struct {
	io.ReadCloser
	f *os.File
}

func (f *file) Close() error {
	err := f.ReadCloser.Close()
	if cerr := f.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// OpenReader opens path and returns a reader of its decompressed content
// along with the detected algorithm. os.Open errors are returned unwrapped
// so callers can test them with os.IsNotExist.
func OpenReader(path string) (io.ReadCloser, Algorithm, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, None, err
	}
	alg := DetectAlgorithm(path)
	rc, err := NewReader(f, alg)
	if err != nil {
		f.Close()
		return nil, alg, fmt.Errorf("failed to open %s stream: %w", alg, err)
	}
	return &file{ReadCloser: rc, f: f}, alg, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func gzipLevel(level Level) int {
	switch {
	case level <= Fastest:
		return gzip.BestSpeed
	case level >= Best:
		return gzip.BestCompression
	default:
		return gzip.DefaultCompression
	}
}

func zstdLevel(level Level) zstd.EncoderLevel {
	switch {
	case level <= Fastest:
		return zstd.SpeedFastest
	case level >= Best:
		return zstd.SpeedBestCompression
	default:
		return zstd.SpeedDefault
	}
}

func lz4Level(level Level) lz4.CompressionLevel {
	switch {
	case level <= Fastest:
		return lz4.Fast
	case level >= Best:
		return lz4.Level9
	default:
		return lz4.Level5
	}
}
