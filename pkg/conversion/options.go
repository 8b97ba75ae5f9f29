package conversion

import (
	"runtime"
	"strings"

	"go.uber.org/zap"

	"github.com/ajitpratap0/csfs/pkg/config"
	"github.com/ajitpratap0/csfs/pkg/errors"
	"github.com/ajitpratap0/csfs/pkg/formats/columnar"
	"github.com/ajitpratap0/csfs/pkg/metadata"
)

// DescriptorMode controls whether records are parsed into descriptors.
type DescriptorMode string

const (
	// DescriptorsOff stores the raw lines only.
	DescriptorsOff DescriptorMode = config.DescriptorsOff
	// DescriptorsAuto parses records when a peel list is known.
	DescriptorsAuto DescriptorMode = config.DescriptorsAuto
	// DescriptorsOn requires a peel list.
	DescriptorsOn DescriptorMode = config.DescriptorsOn
)

const (
	DefaultMaxLineLen = 256
	DefaultChunkSize  = 30000
)

// Options configures one conversion.
type Options struct {
	// MaxLineLen cuts longer body lines; header lines are never cut
	MaxLineLen int
	// ChunkSize is the number of records per output batch and per
	// parallel work unit
	ChunkSize int
	// Workers bounds parallel mode; 0 means one per CPU
	Workers int

	// Format of the output; empty infers it from the output extension
	Format      columnar.Format
	Compression string

	// PeelSubshells overrides the list read from the header
	PeelSubshells []string
	Descriptors   DescriptorMode
	Normalize     bool
	// MaxCumulativeDoubledJ bounds J couplings; 0 normalizes electron
	// counts only
	MaxCumulativeDoubledJ int
	Lenient               bool

	MetadataFormat metadata.Format

	Logger *zap.Logger
}

// DefaultOptions returns the defaults: 256-byte lines, 30000-record chunks,
// snappy compression and a TOML sidecar.
func DefaultOptions() Options {
	return Options{
		MaxLineLen:     DefaultMaxLineLen,
		ChunkSize:      DefaultChunkSize,
		Compression:    "snappy",
		Descriptors:    DescriptorsAuto,
		MetadataFormat: metadata.TOML,
	}
}

// OptionsFromConfig maps a validated configuration onto Options.
func OptionsFromConfig(cfg *config.ConversionConfig) (Options, error) {
	if err := cfg.Validate(); err != nil {
		return Options{}, err
	}
	var format columnar.Format
	if cfg.Output.Format != "" {
		format, _ = columnar.ParseFormat(cfg.Output.Format)
	}
	metaFormat, _ := metadata.ParseFormat(cfg.Output.MetadataFormat)

	opts := Options{
		MaxLineLen:            cfg.Performance.MaxLineLen,
		ChunkSize:             cfg.Performance.ChunkSize,
		Workers:               cfg.Performance.Workers,
		Format:                format,
		Compression:           cfg.Output.Compression,
		PeelSubshells:         cfg.Descriptors.PeelSubshells,
		Descriptors:           DescriptorMode(cfg.Descriptors.Mode),
		Normalize:             cfg.Descriptors.Normalize,
		MaxCumulativeDoubledJ: cfg.Descriptors.MaxCumulativeDoubledJ,
		Lenient:               cfg.Descriptors.Lenient,
		MetadataFormat:        metaFormat,
	}
	return opts.withDefaults(), nil
}

func (o Options) withDefaults() Options {
	if o.MaxLineLen == 0 {
		o.MaxLineLen = DefaultMaxLineLen
	}
	if o.ChunkSize == 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Descriptors == "" {
		o.Descriptors = DescriptorsAuto
	}
	if o.MetadataFormat == "" {
		o.MetadataFormat = metadata.TOML
	}
	o.Descriptors = DescriptorMode(strings.ToLower(string(o.Descriptors)))
	return o
}

func (o Options) validate() error {
	switch {
	case o.MaxLineLen < 0:
		return invalidOption("max line length cannot be negative")
	case o.ChunkSize < 0:
		return invalidOption("chunk size cannot be negative")
	case o.MaxCumulativeDoubledJ < 0:
		return invalidOption("max cumulative doubled J cannot be negative")
	}
	switch o.Descriptors {
	case DescriptorsOff:
		if o.Normalize {
			return invalidOption("normalization requires descriptors")
		}
	case DescriptorsAuto, DescriptorsOn:
	default:
		return invalidOption("unknown descriptor mode").WithDetail("mode", string(o.Descriptors))
	}
	if _, err := columnar.ParseFormat(string(o.Format)); o.Format != "" && err != nil {
		return errors.Wrap(err, errors.ErrorTypeValidation, "invalid output format")
	}
	if _, err := metadata.ParseFormat(string(o.MetadataFormat)); err != nil {
		return errors.Wrap(err, errors.ErrorTypeValidation, "invalid metadata format")
	}
	return nil
}

func invalidOption(msg string) *errors.Error {
	return errors.New(errors.ErrorTypeValidation, msg)
}

// Stats are the counters of one conversion. TotalLines counts body lines
// only, including those of a dropped trailing partial record.
type Stats struct {
	CSFCount       int64
	TotalLines     int64
	TruncatedCount int64
	// SkippedCount is the number of malformed records dropped in lenient
	// mode
	SkippedCount int64
}

func (s *Stats) add(o Stats) {
	s.CSFCount += o.CSFCount
	s.TotalLines += o.TotalLines
	s.TruncatedCount += o.TruncatedCount
	s.SkippedCount += o.SkippedCount
}

func (s Stats) metadata() metadata.Stats {
	return metadata.Stats{
		CSFCount:       s.CSFCount,
		TotalLines:     s.TotalLines,
		TruncatedCount: s.TruncatedCount,
		SkippedCount:   s.SkippedCount,
	}
}

// MetadataPath returns the sidecar path of output: <dir>/<stem>_header.toml.
func MetadataPath(output string) string {
	return metadata.PathFor(output, metadata.TOML)
}
