// Package config holds the conversion configuration shared by the library
// and the CLI.
//
// The configuration is organized into sections:
//   - Performance: line limit, chunk size, workers
//   - Output: columnar format, codec, sidecar format
//   - Descriptors: descriptor mode, peel subshells, normalization
//   - Observability: logging and tracing
//
// Example usage:
//
//	cfg := config.NewConversionConfig()
//	cfg.Performance.Workers = 8
//	cfg.Descriptors.Mode = config.DescriptorsOn
//
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config

import (
	"runtime"

	"github.com/ajitpratap0/csfs/pkg/errors"
	"github.com/ajitpratap0/csfs/pkg/formats/columnar"
	"github.com/ajitpratap0/csfs/pkg/metadata"
)

// Descriptor modes.
const (
	// DescriptorsOff stores the raw lines only
	DescriptorsOff = "off"
	// DescriptorsAuto parses records when a peel list is known
	DescriptorsAuto = "auto"
	// DescriptorsOn requires a peel list and parses every record
	DescriptorsOn = "on"
)

// ConversionConfig is the complete configuration of one conversion.
type ConversionConfig struct {
	// Performance settings control chunking and parallelism
	Performance PerformanceConfig `yaml:"performance" json:"performance"`

	// Output selects the columnar format and the sidecar format
	Output OutputConfig `yaml:"output" json:"output"`

	// Descriptors controls record parsing and normalization
	Descriptors DescriptorConfig `yaml:"descriptors" json:"descriptors"`

	// Observability settings for logging and tracing
	Observability ObservabilityConfig `yaml:"observability" json:"observability"`
}

// PerformanceConfig contains chunking and concurrency settings.
type PerformanceConfig struct {
	// MaxLineLen cuts longer body lines
	MaxLineLen int `yaml:"max_line_len" json:"max_line_len"`
	// ChunkSize is the number of CSF records per batch and per worker chunk
	ChunkSize int `yaml:"chunk_size" json:"chunk_size"`
	// Workers is the parallel worker count; 0 means one per CPU
	Workers int `yaml:"workers" json:"workers"`
	// Parallel selects the worker-pool pipeline
	Parallel bool `yaml:"parallel" json:"parallel"`
}

// OutputConfig contains output format settings.
type OutputConfig struct {
	Format         string `yaml:"format" json:"format"`
	Compression    string `yaml:"compression" json:"compression"`
	MetadataFormat string `yaml:"metadata_format" json:"metadata_format"`
}

// DescriptorConfig contains descriptor settings.
type DescriptorConfig struct {
	// Mode is off, auto or on
	Mode string `yaml:"mode" json:"mode"`
	// PeelSubshells overrides the list found in the CSF header
	PeelSubshells []string `yaml:"peel_subshells" json:"peel_subshells"`
	// Normalize adds the normalized descriptor column
	Normalize bool `yaml:"normalize" json:"normalize"`
	// MaxCumulativeDoubledJ bounds doubled J couplings; 0 selects the
	// electron-only normalization
	MaxCumulativeDoubledJ int `yaml:"max_cumulative_doubled_j" json:"max_cumulative_doubled_j"`
	// Lenient skips records that fail to parse instead of aborting
	Lenient bool `yaml:"lenient" json:"lenient"`
}

// ObservabilityConfig contains logging and tracing settings.
type ObservabilityConfig struct {
	LogLevel     string  `yaml:"log_level" json:"log_level"`
	LogFormat    string  `yaml:"log_format" json:"log_format"`
	Tracing      bool    `yaml:"tracing" json:"tracing"`
	SamplingRate float64 `yaml:"sampling_rate" json:"sampling_rate"`
}

// NewConversionConfig returns a configuration with defaults applied.
func NewConversionConfig() *ConversionConfig {
	return &ConversionConfig{
		Performance: PerformanceConfig{
			MaxLineLen: 256,
			ChunkSize:  30000,
			Workers:    0,
		},
		Output: OutputConfig{
			Format:         string(columnar.Parquet),
			Compression:    "snappy",
			MetadataFormat: string(metadata.TOML),
		},
		Descriptors: DescriptorConfig{
			Mode: DescriptorsAuto,
		},
		Observability: ObservabilityConfig{
			LogLevel:     "info",
			LogFormat:    "console",
			SamplingRate: 1.0,
		},
	}
}

// Validate checks ranges and enumerations.
func (c *ConversionConfig) Validate() error {
	if c.Performance.MaxLineLen <= 0 {
		return invalid("max_line_len must be positive")
	}
	if c.Performance.ChunkSize <= 0 {
		return invalid("chunk_size must be positive")
	}
	if c.Performance.Workers < 0 {
		return invalid("workers cannot be negative")
	}
	if _, err := columnar.ParseFormat(c.Output.Format); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "invalid output format")
	}
	if _, err := metadata.ParseFormat(c.Output.MetadataFormat); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "invalid metadata format")
	}
	switch c.Descriptors.Mode {
	case DescriptorsOff, DescriptorsAuto, DescriptorsOn, "":
	default:
		return invalid("descriptors mode must be off, auto or on").WithDetail("mode", c.Descriptors.Mode)
	}
	if c.Descriptors.Normalize && c.Descriptors.Mode == DescriptorsOff {
		return invalid("normalize requires descriptors")
	}
	if c.Descriptors.MaxCumulativeDoubledJ < 0 {
		return invalid("max_cumulative_doubled_j cannot be negative")
	}
	if c.Observability.SamplingRate < 0 || c.Observability.SamplingRate > 1 {
		return invalid("sampling_rate must be within [0, 1]")
	}
	return nil
}

// GetWorkers returns the number of workers, ensuring it's at least 1
func (p *PerformanceConfig) GetWorkers() int {
	if p.Workers <= 0 {
		return runtime.NumCPU()
	}
	return p.Workers
}

func invalid(msg string) *errors.Error {
	return errors.New(errors.ErrorTypeConfig, msg)
}
