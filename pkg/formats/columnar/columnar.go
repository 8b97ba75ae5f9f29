// Package columnar writes and reads converted CSF rows in columnar formats.
package columnar

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Format represents a columnar storage format
type Format string

const (
	// Parquet is Apache Parquet format
	Parquet Format = "parquet"
	// Arrow is the Apache Arrow IPC file format
	Arrow Format = "arrow"
	// Avro is an Apache Avro object container file
	Avro Format = "avro"
)

// Column names of the row schema.
const (
	ColIndex      = "csf_index"
	ColLine1      = "line1"
	ColLine2      = "line2"
	ColLine3      = "line3"
	ColHash       = "csf_hash"
	ColDescriptor = "descriptor"
	ColNormalized = "normalized"
)

// Columns lists the row schema columns in storage order.
var Columns = []string{ColIndex, ColLine1, ColLine2, ColLine3, ColHash, ColDescriptor, ColNormalized}

// Row is one converted CSF record.
type Row struct {
	// Index is the 0-based ordinal of the CSF in its input file.
	Index int64
	Line1 string
	Line2 string
	Line3 string
	// Hash is the xxhash64 of the three lines joined by '\n'.
	Hash uint64
	// Descriptor is nil when descriptors were not generated.
	Descriptor []int32
	// Normalized is nil unless normalization was requested.
	Normalized []float32
}

// Writer writes batches of rows. Every WriteBatch call produces one row
// group (Parquet), record batch (Arrow) or block (Avro), in call order.
type Writer interface {
	// WriteBatch writes rows as one batch
	WriteBatch(rows []Row) error
	// Close finalizes the file footer
	Close() error
	// Format returns the columnar format
	Format() Format
	// RowsWritten returns rows written so far
	RowsWritten() int64
}

// WriterConfig configures columnar writers
type WriterConfig struct {
	Format Format
	// Compression codec. Parquet: snappy, zstd, gzip, lz4, none.
	// Arrow: lz4, zstd, none. Avro: snappy, deflate, none.
	Compression string
}

// DefaultWriterConfig returns default writer configuration
func DefaultWriterConfig() *WriterConfig {
	return &WriterConfig{
		Format:      Parquet,
		Compression: "snappy",
	}
}

// NewWriter creates a new columnar writer on w.
func NewWriter(w io.Writer, config *WriterConfig) (Writer, error) {
	if config == nil {
		config = DefaultWriterConfig()
	}

	switch config.Format {
	case Parquet, "":
		return newParquetWriter(w, config)
	case Arrow:
		return newArrowWriter(w, config)
	case Avro:
		return newAvroWriter(w, config)
	default:
		return nil, fmt.Errorf("unsupported columnar format: %s", config.Format)
	}
}

// ParseFormat resolves a format name.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "parquet", "pq":
		return Parquet, nil
	case "arrow", "ipc", "feather":
		return Arrow, nil
	case "avro":
		return Avro, nil
	default:
		return "", fmt.Errorf("unsupported columnar format: %s", name)
	}
}

// FormatFromPath infers the format from a file extension, defaulting to
// Parquet.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".arrow", ".ipc", ".feather":
		return Arrow
	case ".avro":
		return Avro
	default:
		return Parquet
	}
}

// FormatInfo provides information about columnar formats
type FormatInfo struct {
	Format        Format
	Name          string
	FileExtension string
	MIMEType      string
	Compressions  []string
}

// GetFormatInfo returns information about a columnar format
func GetFormatInfo(format Format) *FormatInfo {
	switch format {
	case Parquet:
		return &FormatInfo{
			Format:        Parquet,
			Name:          "Apache Parquet",
			FileExtension: ".parquet",
			MIMEType:      "application/x-parquet",
			Compressions:  []string{"snappy", "zstd", "gzip", "lz4", "none"},
		}
	case Arrow:
		return &FormatInfo{
			Format:        Arrow,
			Name:          "Apache Arrow",
			FileExtension: ".arrow",
			MIMEType:      "application/vnd.apache.arrow.file",
			Compressions:  []string{"lz4", "zstd", "none"},
		}
	case Avro:
		return &FormatInfo{
			Format:        Avro,
			Name:          "Apache Avro",
			FileExtension: ".avro",
			MIMEType:      "application/avro",
			Compressions:  []string{"snappy", "deflate", "none"},
		}
	default:
		return nil
	}
}
