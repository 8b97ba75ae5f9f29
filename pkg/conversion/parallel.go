package conversion

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/ajitpratap0/csfs/internal/pipeline"
	"github.com/ajitpratap0/csfs/pkg/formats/columnar"
	"github.com/ajitpratap0/csfs/pkg/metrics"
	"github.com/ajitpratap0/csfs/pkg/observability"
	"github.com/ajitpratap0/csfs/pkg/pool"
)

// chunkBuffers recycles the raw line slices of finished chunks.
var chunkBuffers = pool.New(
	func() *[]string { s := make([]string, 0, 3*1024); return &s },
	func(s *[]string) { clear(*s); *s = (*s)[:0] },
)

// chunkResult is the output of one worker for one chunk.
type chunkResult struct {
	rows  []columnar.Row
	stats Stats
}

// convertParallel reads the body in waves of 2×Workers chunks of ChunkSize
// records. Each wave is parsed by the pool into an index-addressed result
// slice, then written in chunk order by this goroutine.
func convertParallel(ctx context.Context, j *job) (Stats, error) {
	var (
		stats      Stats
		workers    = pipeline.NewOrderedPool(j.opts.Workers)
		chunkLines = 3 * j.opts.ChunkSize
		waveSize   = 2 * workers.Workers()
		nextChunk  int64
		wave       int
		throughput = metrics.NewThroughputTracker(modeParallel)
	)

	for {
		if err := ctx.Err(); err != nil {
			return Stats{}, err
		}
		bufs, eof, err := readWave(j.lines, waveSize, chunkLines)
		if err != nil {
			return Stats{}, readError(err)
		}
		if len(bufs) == 0 {
			break
		}
		chunks := make([][]string, len(bufs))
		for i, buf := range bufs {
			chunks[i] = *buf
		}

		results := make([]chunkResult, len(chunks))
		first := nextChunk
		waveCtx, span := observability.NewSpan(ctx, "csfs.wave")
		span.SetAttribute("csfs.wave", wave)
		span.SetAttribute("csfs.chunks", len(chunks))
		err = workers.Run(waveCtx, len(chunks), func(_ context.Context, i int) error {
			base := (first + int64(i)) * int64(j.opts.ChunkSize)
			res, err := processChunk(j, base, chunks[i])
			results[i] = res
			return err
		})
		span.Fail(err)
		span.End()
		for _, buf := range bufs {
			chunkBuffers.Put(buf)
		}
		if err != nil {
			return Stats{}, err
		}

		for i := range results {
			if len(results[i].rows) > 0 {
				if err := j.writer.WriteBatch(results[i].rows); err != nil {
					return Stats{}, writeError(err)
				}
			}
			stats.add(results[i].stats)
			throughput.Increment(results[i].stats.CSFCount)
			results[i].rows = nil
		}
		j.log.Debug("wave written",
			zap.Int("wave", wave),
			zap.Int("chunks", len(chunks)),
			zap.Int64("csf_count", stats.CSFCount))

		nextChunk += int64(len(chunks))
		wave++
		if eof {
			break
		}
	}
	j.log.Debug("parallel pipeline drained",
		zap.Int("waves", wave),
		zap.Float64("records_per_second", throughput.GetAndReset()))
	return stats, nil
}

// readWave reads up to n chunks of chunkLines raw lines into pooled
// buffers. eof reports that the stream ended inside this wave.
func readWave(lines *pipeline.LineReader, n, chunkLines int) (bufs []*[]string, eof bool, err error) {
	bufs = make([]*[]string, 0, n)
	for len(bufs) < n {
		buf := chunkBuffers.Get()
		*buf, err = lines.AppendChunk(*buf, chunkLines)
		if err == io.EOF {
			chunkBuffers.Put(buf)
			return bufs, true, nil
		}
		if err != nil {
			chunkBuffers.Put(buf)
			for _, b := range bufs {
				chunkBuffers.Put(b)
			}
			return nil, false, err
		}
		bufs = append(bufs, buf)
		if len(*buf) < chunkLines {
			return bufs, true, nil
		}
	}
	return bufs, false, nil
}

// processChunk truncates, parses and hashes one chunk whose first record
// has ordinal base. A trailing partial record is counted but not built.
func processChunk(j *job, base int64, lines []string) (chunkResult, error) {
	start := time.Now()
	defer func() {
		metrics.ChunkParseDuration.WithLabelValues(modeParallel).Observe(time.Since(start).Seconds())
	}()

	res := chunkResult{rows: make([]columnar.Row, 0, len(lines)/3)}
	res.stats.TotalLines = int64(len(lines))

	var window [3]string
	for r := 0; r < len(lines); r += 3 {
		for k := 0; k < 3 && r+k < len(lines); k++ {
			line, cut := pipeline.Truncate(lines[r+k], j.opts.MaxLineLen)
			if cut {
				res.stats.TruncatedCount++
			}
			window[k] = line
		}
		if r+3 > len(lines) {
			break
		}
		row, ok, err := j.builder.build(base+int64(r/3), window)
		if err != nil {
			return chunkResult{}, err
		}
		if ok {
			res.rows = append(res.rows, row)
			res.stats.CSFCount++
		} else {
			res.stats.SkippedCount++
		}
	}
	return res, nil
}
