package columnar

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/linkedin/goavro/v2"
)

// avroSchema mirrors ArrowSchema. csf_hash is stored as the bit pattern of
// the uint64 in an Avro long.
const avroSchema = `{
  "type": "record",
  "name": "csf",
  "namespace": "csfs",
  "fields": [
    {"name": "csf_index", "type": "long"},
    {"name": "line1", "type": "string"},
    {"name": "line2", "type": "string"},
    {"name": "line3", "type": "string"},
    {"name": "csf_hash", "type": "long"},
    {"name": "descriptor", "type": ["null", {"type": "array", "items": "int"}], "default": null},
    {"name": "normalized", "type": ["null", {"type": "array", "items": "float"}], "default": null}
  ]
}`

// avroWriter implements Writer for Avro format
type avroWriter struct {
	ocfWriter      *goavro.OCFWriter
	recordsWritten int64
	mu             sync.Mutex
}

func newAvroWriter(w io.Writer, config *WriterConfig) (*avroWriter, error) {
	codec, err := goavro.NewCodec(avroSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to create Avro codec: %w", err)
	}

	compression, err := getAvroCompression(config.Compression)
	if err != nil {
		return nil, err
	}

	ocfWriter, err := goavro.NewOCFWriter(goavro.OCFConfig{
		W:               w,
		Codec:           codec,
		CompressionName: compression,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Avro writer: %w", err)
	}

	return &avroWriter{ocfWriter: ocfWriter}, nil
}

func (aw *avroWriter) WriteBatch(rows []Row) error {
	if len(rows) == 0 {
		return nil
	}
	aw.mu.Lock()
	defer aw.mu.Unlock()

	natives := make([]interface{}, len(rows))
	for i := range rows {
		natives[i] = rowToAvroNative(&rows[i])
	}
	// one OCF block per Append
	if err := aw.ocfWriter.Append(natives); err != nil {
		return fmt.Errorf("failed to write Avro block: %w", err)
	}
	aw.recordsWritten += int64(len(rows))
	return nil
}

// Close is a no-op for the OCF stream; every block is complete once
// appended.
func (aw *avroWriter) Close() error {
	return nil
}

func (aw *avroWriter) Format() Format {
	return Avro
}

func (aw *avroWriter) RowsWritten() int64 {
	return aw.recordsWritten
}

func getAvroCompression(compression string) (string, error) {
	switch strings.ToLower(compression) {
	case "", "snappy":
		return goavro.CompressionSnappyLabel, nil
	case "deflate":
		return goavro.CompressionDeflateLabel, nil
	case "none", "null", "uncompressed":
		return goavro.CompressionNullLabel, nil
	default:
		return "", fmt.Errorf("unsupported Avro compression: %s", compression)
	}
}

func rowToAvroNative(r *Row) map[string]interface{} {
	native := map[string]interface{}{
		ColIndex:      r.Index,
		ColLine1:      r.Line1,
		ColLine2:      r.Line2,
		ColLine3:      r.Line3,
		ColHash:       int64(r.Hash),
		ColDescriptor: nil,
		ColNormalized: nil,
	}
	if r.Descriptor != nil {
		items := make([]interface{}, len(r.Descriptor))
		for i, v := range r.Descriptor {
			items[i] = v
		}
		native[ColDescriptor] = goavro.Union("array", items)
	}
	if r.Normalized != nil {
		items := make([]interface{}, len(r.Normalized))
		for i, v := range r.Normalized {
			items[i] = v
		}
		native[ColNormalized] = goavro.Union("array", items)
	}
	return native
}

func avroNativeToRow(datum interface{}) (Row, error) {
	m, ok := datum.(map[string]interface{})
	if !ok {
		return Row{}, fmt.Errorf("unexpected Avro datum %T", datum)
	}
	var row Row
	row.Index, _ = m[ColIndex].(int64)
	row.Line1, _ = m[ColLine1].(string)
	row.Line2, _ = m[ColLine2].(string)
	row.Line3, _ = m[ColLine3].(string)
	if h, ok := m[ColHash].(int64); ok {
		row.Hash = uint64(h)
	}
	if items := unionArray(m[ColDescriptor]); items != nil {
		row.Descriptor = make([]int32, len(items))
		for i, v := range items {
			row.Descriptor[i], _ = v.(int32)
		}
	}
	if items := unionArray(m[ColNormalized]); items != nil {
		row.Normalized = make([]float32, len(items))
		for i, v := range items {
			row.Normalized[i], _ = v.(float32)
		}
	}
	return row, nil
}

// unionArray unwraps a decoded ["null", array] union.
func unionArray(v interface{}) []interface{} {
	u, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}
	items, ok := u["array"].([]interface{})
	if !ok {
		return nil
	}
	return items
}

// scanAvro streams an OCF file block by block.
func scanAvro(path string, fn func([]Row) bool) error {
	_, _, err := walkAvro(path, fn)
	return err
}

// walkAvro decodes every block and returns the block count and the
// writer schema.
func walkAvro(path string, fn func([]Row) bool) (int, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, "", err
	}
	defer f.Close()

	ocfReader, err := goavro.NewOCFReader(bufio.NewReader(f))
	if err != nil {
		return 0, "", fmt.Errorf("failed to create Avro reader: %w", err)
	}
	schema := ocfReader.Codec().Schema()

	blocks := 0
	var block []Row
	for ocfReader.Scan() {
		datum, err := ocfReader.Read()
		if err != nil {
			return blocks, schema, fmt.Errorf("failed to read Avro datum: %w", err)
		}
		row, err := avroNativeToRow(datum)
		if err != nil {
			return blocks, schema, err
		}
		block = append(block, row)
		if ocfReader.RemainingBlockItems() == 0 {
			blocks++
			if fn != nil && !fn(block) {
				return blocks, schema, nil
			}
			block = nil
		}
	}
	if err := ocfReader.Err(); err != nil {
		return blocks, schema, fmt.Errorf("failed to scan Avro file: %w", err)
	}
	if len(block) > 0 {
		blocks++
		if fn != nil {
			fn(block)
		}
	}
	return blocks, schema, nil
}

func avroInfo(path string) (*FileInfo, error) {
	info := &FileInfo{Format: Avro}
	blocks, writerSchema, err := walkAvro(path, func(rows []Row) bool {
		info.Rows += int64(len(rows))
		return true
	})
	if err != nil {
		return nil, err
	}
	info.Batches = blocks

	var schema struct {
		Fields []struct {
			Name string `json:"name"`
		} `json:"fields"`
	}
	if err := json.Unmarshal([]byte(writerSchema), &schema); err != nil {
		return nil, fmt.Errorf("failed to parse Avro schema: %w", err)
	}
	for _, f := range schema.Fields {
		info.Columns = append(info.Columns, f.Name)
	}
	return info, nil
}
