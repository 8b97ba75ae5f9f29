package conversion

import (
	"context"
	"io"
	"time"

	"github.com/ajitpratap0/csfs/internal/pipeline"
	"github.com/ajitpratap0/csfs/pkg/errors"
	"github.com/ajitpratap0/csfs/pkg/formats/columnar"
	"github.com/ajitpratap0/csfs/pkg/metrics"
)

// convertSequential reads, parses and writes on the calling goroutine.
// Batches are cut every ChunkSize records so the row groups match the
// parallel pipeline.
func convertSequential(ctx context.Context, j *job) (Stats, error) {
	var (
		stats   Stats
		window  [3]string
		filled  int
		ordinal int64
		batch   = make([]columnar.Row, 0, min(j.opts.ChunkSize, 4096))
	)
	chunkStart := time.Now()

	flush := func() error {
		metrics.ChunkParseDuration.WithLabelValues(modeSequential).Observe(time.Since(chunkStart).Seconds())
		chunkStart = time.Now()
		if len(batch) == 0 {
			return nil
		}
		if err := j.writer.WriteBatch(batch); err != nil {
			return writeError(err)
		}
		batch = batch[:0]
		return nil
	}

	for {
		line, err := j.lines.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Stats{}, readError(err)
		}
		stats.TotalLines++
		line, cut := pipeline.Truncate(line, j.opts.MaxLineLen)
		if cut {
			stats.TruncatedCount++
		}

		window[filled] = line
		filled++
		if filled < 3 {
			continue
		}
		filled = 0

		row, ok, err := j.builder.build(ordinal, window)
		if err != nil {
			return Stats{}, err
		}
		ordinal++
		if ok {
			batch = append(batch, row)
			stats.CSFCount++
		} else {
			stats.SkippedCount++
		}

		if ordinal%int64(j.opts.ChunkSize) == 0 {
			if err := ctx.Err(); err != nil {
				return Stats{}, err
			}
			if err := flush(); err != nil {
				return Stats{}, err
			}
		}
	}
	if err := flush(); err != nil {
		return Stats{}, err
	}
	return stats, nil
}

func readError(err error) error {
	return errors.Wrap(err, errors.ErrorTypeIO, "failed to read input").WithKind(errors.KindReadFailed)
}

func writeError(err error) error {
	return errors.Wrap(err, errors.ErrorTypeIO, "failed to write batch").WithKind(errors.KindWriteFailed)
}
