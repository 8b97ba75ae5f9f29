package columnar

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

// parquetWriter implements Writer for Parquet format
type parquetWriter struct {
	arrowSchema    *arrow.Schema
	fileWriter     *pqarrow.FileWriter
	recordBuilder  *array.RecordBuilder
	recordsWritten int64
	mu             sync.Mutex
}

func newParquetWriter(w io.Writer, config *WriterConfig) (*parquetWriter, error) {
	codec, err := getParquetCompression(config.Compression)
	if err != nil {
		return nil, err
	}

	arrowSchema := ArrowSchema()
	pool := memory.NewGoAllocator()

	props := parquet.NewWriterProperties(
		parquet.WithCompression(codec),
		parquet.WithDictionaryDefault(false),
		parquet.WithCreatedBy("csfs"),
	)
	arrowProps := pqarrow.NewArrowWriterProperties(
		pqarrow.WithAllocator(pool),
		pqarrow.WithStoreSchema(),
	)

	fw, err := pqarrow.NewFileWriter(arrowSchema, w, props, arrowProps)
	if err != nil {
		return nil, fmt.Errorf("failed to create Parquet writer: %w", err)
	}

	return &parquetWriter{
		arrowSchema:   arrowSchema,
		fileWriter:    fw,
		recordBuilder: array.NewRecordBuilder(pool, arrowSchema),
	}, nil
}

func (pw *parquetWriter) WriteBatch(rows []Row) error {
	if len(rows) == 0 {
		return nil
	}
	pw.mu.Lock()
	defer pw.mu.Unlock()

	appendRows(pw.recordBuilder, rows)
	record := pw.recordBuilder.NewRecord()
	defer record.Release()

	// Write starts a new row group per call
	if err := pw.fileWriter.Write(record); err != nil {
		return fmt.Errorf("failed to write row group: %w", err)
	}
	pw.recordsWritten += int64(len(rows))
	return nil
}

func (pw *parquetWriter) Close() error {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	pw.recordBuilder.Release()
	if err := pw.fileWriter.Close(); err != nil {
		return fmt.Errorf("failed to close Parquet writer: %w", err)
	}
	return nil
}

func (pw *parquetWriter) Format() Format {
	return Parquet
}

func (pw *parquetWriter) RowsWritten() int64 {
	return pw.recordsWritten
}

func getParquetCompression(compression string) (compress.Compression, error) {
	switch strings.ToLower(compression) {
	case "", "snappy":
		return compress.Codecs.Snappy, nil
	case "zstd":
		return compress.Codecs.Zstd, nil
	case "gzip":
		return compress.Codecs.Gzip, nil
	case "lz4":
		return compress.Codecs.Lz4Raw, nil
	case "none", "uncompressed":
		return compress.Codecs.Uncompressed, nil
	default:
		return compress.Codecs.Uncompressed, fmt.Errorf("unsupported Parquet compression: %s", compression)
	}
}

// scanParquet streams the rows of a Parquet file in batches of at most
// batchSize rows. fn returning false stops the scan.
func scanParquet(ctx context.Context, path string, batchSize int, fn func([]Row) bool) error {
	fr, err := file.OpenParquetFile(path, false)
	if err != nil {
		return fmt.Errorf("failed to open Parquet file: %w", err)
	}
	defer fr.Close()

	arrowReader, err := pqarrow.NewFileReader(fr, pqarrow.ArrowReadProperties{BatchSize: int64(batchSize)}, memory.NewGoAllocator())
	if err != nil {
		return fmt.Errorf("failed to create Arrow reader: %w", err)
	}

	// a nil projection reads no columns
	columns := make([]int, fr.MetaData().Schema.NumColumns())
	for i := range columns {
		columns[i] = i
	}

	for rg := 0; rg < fr.NumRowGroups(); rg++ {
		table, err := arrowReader.ReadRowGroups(ctx, columns, []int{rg})
		if err != nil {
			return fmt.Errorf("failed to read row group %d: %w", rg, err)
		}
		keepGoing, err := scanTable(table, int64(batchSize), fn)
		table.Release()
		if err != nil {
			return err
		}
		if !keepGoing {
			return nil
		}
	}
	return nil
}

func scanTable(table arrow.Table, batchSize int64, fn func([]Row) bool) (bool, error) {
	tr := array.NewTableReader(table, batchSize)
	defer tr.Release()

	for tr.Next() {
		rows, err := rowsFromRecord(tr.Record())
		if err != nil {
			return false, err
		}
		if !fn(rows) {
			return false, nil
		}
	}
	return true, tr.Err()
}

func parquetInfo(path string) (*FileInfo, error) {
	fr, err := file.OpenParquetFile(path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open Parquet file: %w", err)
	}
	defer fr.Close()

	info := &FileInfo{
		Format:  Parquet,
		Rows:    fr.NumRows(),
		Batches: fr.NumRowGroups(),
	}
	arrowReader, err := pqarrow.NewFileReader(fr, pqarrow.ArrowReadProperties{}, memory.NewGoAllocator())
	if err != nil {
		return nil, fmt.Errorf("failed to create Arrow reader: %w", err)
	}
	schema, err := arrowReader.Schema()
	if err != nil {
		return nil, fmt.Errorf("failed to get Arrow schema: %w", err)
	}
	for _, f := range schema.Fields() {
		info.Columns = append(info.Columns, f.Name)
	}
	if fr.NumRowGroups() > 0 {
		rg := fr.MetaData().RowGroup(0)
		if cc, err := rg.ColumnChunk(0); err == nil {
			info.Compression = strings.ToLower(cc.Compression().String())
		}
	}
	return info, nil
}
