// Package conversion converts GRASP CSF lists into columnar files.
//
// A CSF list is five header lines followed by three-line records. Every
// complete record becomes one row holding the raw lines, a hash of them and,
// when a peel subshell list is known, the parsed and optionally normalized
// descriptor. The header and the conversion counters go to a sidecar
// document next to the output.
//
// Convert reads and parses on one goroutine. ConvertParallel splits the body
// into chunks parsed by a bounded worker pool; both produce the same rows,
// in the same order, and the same Stats.
package conversion

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/ajitpratap0/csfs/internal/pipeline"
	"github.com/ajitpratap0/csfs/pkg/compression"
	"github.com/ajitpratap0/csfs/pkg/descriptor"
	"github.com/ajitpratap0/csfs/pkg/errors"
	"github.com/ajitpratap0/csfs/pkg/formats/columnar"
	"github.com/ajitpratap0/csfs/pkg/logger"
	"github.com/ajitpratap0/csfs/pkg/metadata"
	"github.com/ajitpratap0/csfs/pkg/metrics"
	"github.com/ajitpratap0/csfs/pkg/observability"
)

const (
	modeSequential = "sequential"
	modeParallel   = "parallel"
)

// bodyFunc consumes the body of a CSF list and writes its rows.
type bodyFunc func(ctx context.Context, job *job) (Stats, error)

// job is the state shared by the header and body phases of one run.
type job struct {
	opts    Options
	lines   *pipeline.LineReader
	builder *rowBuilder
	writer  columnar.Writer
	log     *zap.Logger
}

// Convert converts input to output on the calling goroutine.
func Convert(ctx context.Context, input, output string, opts Options) (Stats, error) {
	return run(ctx, modeSequential, input, output, opts, convertSequential)
}

// ConvertParallel converts input to output with a pool of opts.Workers
// goroutines. Rows and Stats are identical to Convert.
func ConvertParallel(ctx context.Context, input, output string, opts Options) (Stats, error) {
	return run(ctx, modeParallel, input, output, opts, convertParallel)
}

func run(ctx context.Context, mode, input, output string, opts Options, body bodyFunc) (stats Stats, err error) {
	opts = opts.withDefaults()
	if opts.Format == "" {
		opts.Format = columnar.FormatFromPath(output)
	}
	if err := opts.validate(); err != nil {
		return Stats{}, err
	}

	base := opts.Logger
	if base == nil {
		base = logger.Get()
	}
	log := logger.From(ctx, base).With(
		zap.String("mode", mode),
		zap.String("output", output),
		zap.String("format", string(opts.Format)),
	)

	ctx, span := observability.NewSpan(ctx, "csfs.convert")
	span.SetAttribute("csfs.mode", mode)
	span.SetAttribute("csfs.input", input)
	span.SetAttribute("csfs.format", string(opts.Format))
	timer := metrics.NewTimer(mode)
	defer func() {
		elapsed := timer.Stop()
		metrics.ObserveConversion(mode, string(opts.Format), elapsed, err)
		span.Fail(err)
		span.SetAttribute("csfs.csf_count", stats.CSFCount)
		span.End()
	}()

	rc, alg, err := openInput(input)
	if err != nil {
		return Stats{}, err
	}
	defer rc.Close()
	if alg != string(compression.None) {
		log.Debug("decompressing input", zap.String("algorithm", alg))
	}

	lines := pipeline.NewLineReader(rc)
	header, err := readHeader(lines)
	if err != nil {
		return Stats{}, errors.Wrap(err, errors.ErrorTypeIO, "failed to read header").
			WithKind(errors.KindReadFailed).WithDetail("path", input)
	}

	peel, err := resolvePeel(opts, header)
	if err != nil {
		return Stats{}, err
	}
	builder, err := newRowBuilder(peel, opts)
	if err != nil {
		return Stats{}, err
	}

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return Stats{}, errors.Wrap(err, errors.ErrorTypeIO, "failed to create output directory").
			WithKind(errors.KindWriteFailed).WithDetail("path", output)
	}
	writer, err := columnar.Create(output, &columnar.WriterConfig{Format: opts.Format, Compression: opts.Compression})
	if err != nil {
		return Stats{}, err
	}
	sidecar := metadata.PathFor(output, opts.MetadataFormat)

	log.Info("conversion started",
		zap.Int("workers", opts.Workers),
		zap.Int("chunk_size", opts.ChunkSize),
		zap.Strings("peel_subshells", peel),
		zap.Bool("normalize", builder.norm != nil || builder.electronCodes != nil))

	start := time.Now()
	stats, err = body(ctx, &job{
		opts:    opts,
		lines:   lines,
		builder: builder,
		writer:  writer,
		log:     log,
	})
	if err == nil {
		err = writer.Close()
		if err != nil {
			err = errors.Wrap(err, errors.ErrorTypeIO, "failed to finalize output").
				WithKind(errors.KindWriteFailed).WithDetail("path", output)
		}
	} else {
		_ = writer.Close()
	}
	if err == nil {
		err = metadata.Write(sidecar, &metadata.Document{
			HeaderLines:     header,
			Source:          input,
			Format:          string(opts.Format),
			PeelSubshells:   peel,
			ConversionStats: stats.metadata(),
		}, opts.MetadataFormat)
	}
	if err != nil {
		os.Remove(output)
		os.Remove(sidecar)
		log.Error("conversion failed", zap.Error(err))
		return Stats{}, err
	}

	record(mode, string(opts.Format), stats, time.Since(start))
	if stats.TruncatedCount > 0 {
		log.Warn("lines truncated",
			zap.Int64("truncated", stats.TruncatedCount),
			zap.Int("max_line_len", opts.MaxLineLen))
	}
	if stats.SkippedCount > 0 {
		log.Warn("malformed records skipped", zap.Int64("skipped", stats.SkippedCount))
	}
	log.Info("conversion finished",
		zap.Int64("csf_count", stats.CSFCount),
		zap.Int64("total_lines", stats.TotalLines),
		zap.Duration("elapsed", time.Since(start)))
	return stats, nil
}

func openInput(input string) (io.ReadCloser, string, error) {
	rc, alg, err := compression.OpenReader(input)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", errors.Newf(errors.ErrorTypeIO, errors.KindNotFound, "input file not found: %s", input).
				WithDetail("path", input)
		}
		return nil, "", errors.Wrap(err, errors.ErrorTypeIO, "failed to open input").
			WithKind(errors.KindReadFailed).WithDetail("path", input)
	}
	return rc, string(alg), nil
}

// readHeader returns up to HeaderLines lines, verbatim.
func readHeader(lines *pipeline.LineReader) ([]string, error) {
	header := make([]string, 0, descriptor.HeaderLines)
	for len(header) < descriptor.HeaderLines {
		line, err := lines.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		header = append(header, line)
	}
	return header, nil
}

// resolvePeel picks the peel list for the descriptor mode: explicit
// options first, then the header.
func resolvePeel(opts Options, header []string) ([]string, error) {
	if opts.Descriptors == DescriptorsOff {
		return nil, nil
	}
	if len(opts.PeelSubshells) > 0 {
		return opts.PeelSubshells, nil
	}
	if peel, ok := descriptor.PeelFromHeader(header); ok {
		return peel, nil
	}
	if opts.Descriptors == DescriptorsOn {
		return nil, invalidOption("descriptors requested but no peel subshell list was given or found in the header")
	}
	return nil, nil
}

func record(mode, format string, stats Stats, elapsed time.Duration) {
	metrics.RecordsConverted.WithLabelValues(mode, format).Add(float64(stats.CSFCount))
	metrics.LinesTruncated.WithLabelValues(mode).Add(float64(stats.TruncatedCount))
	metrics.RecordsSkipped.WithLabelValues(mode).Add(float64(stats.SkippedCount))
	if s := elapsed.Seconds(); s > 0 {
		metrics.Throughput.WithLabelValues(mode).Set(float64(stats.CSFCount) / s)
	}
}
