// Package metadata reads and writes the sidecar document stored next to
// every converted file: the CSF list header and the conversion counters.
package metadata

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/csfs/pkg/errors"
)

// Format is the sidecar serialization.
type Format string

const (
	TOML Format = "toml"
	JSON Format = "json"
	YAML Format = "yaml"
)

// Stats are the conversion counters.
type Stats struct {
	CSFCount       int64 `toml:"csf_count" json:"csf_count" yaml:"csf_count"`
	TotalLines     int64 `toml:"total_lines" json:"total_lines" yaml:"total_lines"`
	TruncatedCount int64 `toml:"truncated_count" json:"truncated_count" yaml:"truncated_count"`
	SkippedCount   int64 `toml:"skipped_count,omitempty" json:"skipped_count,omitempty" yaml:"skipped_count,omitempty"`
}

// Document is the sidecar content.
type Document struct {
	HeaderLines   []string `toml:"header_lines" json:"header_lines" yaml:"header_lines"`
	Source        string   `toml:"source,omitempty" json:"source,omitempty" yaml:"source,omitempty"`
	Format        string   `toml:"format,omitempty" json:"format,omitempty" yaml:"format,omitempty"`
	PeelSubshells []string `toml:"peel_subshells,omitempty" json:"peel_subshells,omitempty" yaml:"peel_subshells,omitempty"`

	ConversionStats Stats `toml:"conversion_stats" json:"conversion_stats" yaml:"conversion_stats"`
}

// ParseFormat resolves a sidecar format name; empty means TOML.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "toml":
		return TOML, nil
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return "", errors.Newf(errors.ErrorTypeConfig, errors.KindNone, "unsupported metadata format: %s", name)
	}
}

// FormatFromPath infers the format from the file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON
	case ".yaml", ".yml":
		return YAML
	default:
		return TOML
	}
}

// PathFor derives the sidecar path of a columnar output:
// <dir>/<stem>_header.<ext>.
func PathFor(output string, format Format) string {
	if format == "" {
		format = TOML
	}
	dir := filepath.Dir(output)
	base := filepath.Base(output)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, stem+"_header."+string(format))
}

// Marshal encodes doc.
func Marshal(doc *Document, format Format) ([]byte, error) {
	switch format {
	case TOML, "":
		var buf bytes.Buffer
		enc := toml.NewEncoder(&buf)
		enc.SetIndentTables(true)
		if err := enc.Encode(doc); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case JSON:
		return json.MarshalIndent(doc, "", "  ")
	case YAML:
		return yaml.Marshal(doc)
	default:
		return nil, fmt.Errorf("unsupported metadata format: %s", format)
	}
}

// Unmarshal decodes data.
func Unmarshal(data []byte, format Format) (*Document, error) {
	doc := &Document{}
	var err error
	switch format {
	case TOML, "":
		err = toml.Unmarshal(data, doc)
	case JSON:
		err = json.Unmarshal(data, doc)
	case YAML:
		err = yaml.Unmarshal(data, doc)
	default:
		err = fmt.Errorf("unsupported metadata format: %s", format)
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Write stores doc at path.
func Write(path string, doc *Document, format Format) error {
	data, err := Marshal(doc, format)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "failed to encode metadata")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to write metadata").
			WithKind(errors.KindWriteFailed).
			WithDetail("path", path)
	}
	return nil
}

// Read loads the document at path, inferring the format from its extension.
func Read(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		kind := errors.KindReadFailed
		if os.IsNotExist(err) {
			kind = errors.KindNotFound
		}
		return nil, errors.Wrap(err, errors.ErrorTypeIO, "failed to read metadata").
			WithKind(kind).
			WithDetail("path", path)
	}
	doc, err := Unmarshal(data, FormatFromPath(path))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeParse, "failed to decode metadata").WithDetail("path", path)
	}
	return doc, nil
}
