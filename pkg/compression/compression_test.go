package compression

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var algorithms = []Algorithm{None, Gzip, Zstd, LZ4, S2}

func payload() []byte {
	var b strings.Builder
	for i := 0; i < 2000; i++ {
		b.WriteString("  5s ( 2)  4d-( 4)  4d ( 6)\n")
		b.WriteString("                   3/2      \n")
		b.WriteString("                        4-  \n")
	}
	return []byte(b.String())
}

func TestStreamRoundTrip(t *testing.T) {
	data := payload()
	for _, alg := range algorithms {
		for _, level := range []Level{Fastest, Default, Best} {
			var buf bytes.Buffer
			w, err := NewWriterLevel(&buf, alg, level)
			require.NoError(t, err, alg)
			_, err = w.Write(data)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			if alg != None {
				assert.Less(t, buf.Len(), len(data), "%s should compress repetitive text", alg)
			}

			r, err := NewReader(&buf, alg)
			require.NoError(t, err)
			got, err := io.ReadAll(r)
			require.NoError(t, err)
			require.NoError(t, r.Close())
			assert.Equal(t, data, got, "%s level %d", alg, level)
		}
	}
}

func TestOpenReader(t *testing.T) {
	data := payload()
	for _, alg := range algorithms {
		path := filepath.Join(t.TempDir(), "list.c"+Extension(alg))
		f, err := os.Create(path)
		require.NoError(t, err)
		w, err := NewWriter(f, alg)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
		require.NoError(t, w.Close())
		require.NoError(t, f.Close())

		rc, detected, err := OpenReader(path)
		require.NoError(t, err)
		assert.Equal(t, alg, detected)
		got, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		assert.Equal(t, data, got, alg)
	}
}

func TestOpenReaderErrors(t *testing.T) {
	_, _, err := OpenReader(filepath.Join(t.TempDir(), "missing.c"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))

	// plain text with a gzip extension
	path := filepath.Join(t.TempDir(), "fake.gz")
	require.NoError(t, os.WriteFile(path, []byte("not gzip"), 0o644))
	_, alg, err := OpenReader(path)
	assert.Error(t, err)
	assert.Equal(t, Gzip, alg)
}

func TestDetectAlgorithm(t *testing.T) {
	tests := map[string]Algorithm{
		"a.c":          None,
		"rcsf.inp":     None,
		"a.c.gz":       Gzip,
		"A.C.GZ":       Gzip,
		"a.zst":        Zstd,
		"a.zstd":       Zstd,
		"a.lz4":        LZ4,
		"a.s2":         S2,
		"a.sz":         S2,
		"dir.gz/a.csf": None,
	}
	for path, want := range tests {
		assert.Equal(t, want, DetectAlgorithm(path), path)
	}

	_, err := NewReader(strings.NewReader(""), "brotli")
	assert.Error(t, err)
	_, err = NewWriter(io.Discard, "brotli")
	assert.Error(t, err)
}
