package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/csfs/pkg/errors"
)

func sampleDoc() *Document {
	return &Document{
		HeaderLines: []string{
			"Core subshells:",
			"  1s  2s  2p- 2p",
			"Peel subshells:",
			"  5s  4d- 4d",
			"CSF(s):",
		},
		Source:        "input.c",
		Format:        "parquet",
		PeelSubshells: []string{"5s", "4d-", "4d"},
		ConversionStats: Stats{
			CSFCount:       2,
			TotalLines:     6,
			TruncatedCount: 1,
		},
	}
}

func TestPathFor(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "run_header.toml"), PathFor(filepath.Join("out", "run.parquet"), TOML))
	assert.Equal(t, filepath.Join("out", "run_header.json"), PathFor(filepath.Join("out", "run.parquet"), JSON))
	assert.Equal(t, "run_header.toml", PathFor("run", ""))
	assert.Equal(t, filepath.Join("/a/b.c", "x.y_header.yaml"), PathFor("/a/b.c/x.y.arrow", YAML))
}

func TestWriteReadAllFormats(t *testing.T) {
	for _, format := range []Format{TOML, JSON, YAML} {
		t.Run(string(format), func(t *testing.T) {
			path := PathFor(filepath.Join(t.TempDir(), "run.parquet"), format)
			require.NoError(t, Write(path, sampleDoc(), format))

			doc, err := Read(path)
			require.NoError(t, err)
			assert.Equal(t, sampleDoc(), doc)
		})
	}
}

func TestTOMLLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run_header.toml")
	require.NoError(t, Write(path, sampleDoc(), TOML))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(raw)
	assert.Contains(t, text, "header_lines")
	assert.Contains(t, text, "[conversion_stats]")
	assert.Contains(t, text, "csf_count = 2")
	assert.NotContains(t, text, "skipped_count")
}

func TestHeaderKeptVerbatim(t *testing.T) {
	doc := &Document{HeaderLines: []string{`  quoted "x" \ back`, "", "\ttab", "unicode ✓", "  "}}
	for _, format := range []Format{TOML, JSON, YAML} {
		data, err := Marshal(doc, format)
		require.NoError(t, err)
		got, err := Unmarshal(data, format)
		require.NoError(t, err, format)
		assert.Equal(t, doc.HeaderLines, got.HeaderLines, format)
	}
}

func TestReadErrors(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing_header.toml"))
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindNotFound))

	bad := filepath.Join(t.TempDir(), "bad_header.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = Read(bad)
	assert.True(t, errors.IsType(err, errors.ErrorTypeParse))
}

func TestWriteUnwritable(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	err := Write(filepath.Join(blocker, "x_header.toml"), sampleDoc(), TOML)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindWriteFailed))
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": TOML, "TOML": TOML, "json": JSON, "yml": YAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("ini")
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	assert.Equal(t, JSON, FormatFromPath("a_header.JSON"))
	assert.Equal(t, TOML, FormatFromPath("a_header"))
}
