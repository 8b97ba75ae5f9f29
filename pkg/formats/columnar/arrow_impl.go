package columnar

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// arrowWriter implements Writer for the Arrow IPC file format
type arrowWriter struct {
	arrowSchema    *arrow.Schema
	fileWriter     *ipc.FileWriter
	recordBuilder  *array.RecordBuilder
	recordsWritten int64
	mu             sync.Mutex
}

func newArrowWriter(w io.Writer, config *WriterConfig) (*arrowWriter, error) {
	arrowSchema := ArrowSchema()
	pool := memory.NewGoAllocator()

	opts := []ipc.Option{ipc.WithSchema(arrowSchema), ipc.WithAllocator(pool)}
	switch strings.ToLower(config.Compression) {
	case "", "none", "uncompressed", "snappy":
		// no snappy codec in IPC, buffers stay uncompressed
	case "lz4":
		opts = append(opts, ipc.WithLZ4())
	case "zstd":
		opts = append(opts, ipc.WithZstd())
	default:
		return nil, fmt.Errorf("unsupported Arrow compression: %s", config.Compression)
	}

	fw, err := ipc.NewFileWriter(w, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Arrow writer: %w", err)
	}

	return &arrowWriter{
		arrowSchema:   arrowSchema,
		fileWriter:    fw,
		recordBuilder: array.NewRecordBuilder(pool, arrowSchema),
	}, nil
}

func (aw *arrowWriter) WriteBatch(rows []Row) error {
	if len(rows) == 0 {
		return nil
	}
	aw.mu.Lock()
	defer aw.mu.Unlock()

	appendRows(aw.recordBuilder, rows)
	record := aw.recordBuilder.NewRecord()
	defer record.Release()

	if err := aw.fileWriter.Write(record); err != nil {
		return fmt.Errorf("failed to write record batch: %w", err)
	}
	aw.recordsWritten += int64(len(rows))
	return nil
}

func (aw *arrowWriter) Close() error {
	aw.mu.Lock()
	defer aw.mu.Unlock()

	aw.recordBuilder.Release()
	if err := aw.fileWriter.Close(); err != nil {
		return fmt.Errorf("failed to close Arrow writer: %w", err)
	}
	return nil
}

func (aw *arrowWriter) Format() Format {
	return Arrow
}

func (aw *arrowWriter) RowsWritten() int64 {
	return aw.recordsWritten
}

func openArrow(path string) (*os.File, *ipc.FileReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	reader, err := ipc.NewFileReader(f, ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("failed to create Arrow reader: %w", err)
	}
	return f, reader, nil
}

// scanArrow streams the record batches of an Arrow IPC file.
func scanArrow(path string, fn func([]Row) bool) error {
	f, reader, err := openArrow(path)
	if err != nil {
		return err
	}
	defer f.Close()
	defer reader.Close()

	for i := 0; i < reader.NumRecords(); i++ {
		// owned by the reader, released on the next call
		record, err := reader.Record(i)
		if err != nil {
			return fmt.Errorf("failed to read record batch %d: %w", i, err)
		}
		rows, err := rowsFromRecord(record)
		if err != nil {
			return err
		}
		if !fn(rows) {
			return nil
		}
	}
	return nil
}

func arrowInfo(path string) (*FileInfo, error) {
	f, reader, err := openArrow(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	defer reader.Close()

	info := &FileInfo{Format: Arrow, Batches: reader.NumRecords()}
	for _, field := range reader.Schema().Fields() {
		info.Columns = append(info.Columns, field.Name)
	}
	for i := 0; i < reader.NumRecords(); i++ {
		record, err := reader.Record(i)
		if err != nil {
			return nil, fmt.Errorf("failed to read record batch %d: %w", i, err)
		}
		info.Rows += record.NumRows()
	}
	return info, nil
}
