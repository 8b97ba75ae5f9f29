package columnar

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// ArrowSchema returns the Arrow schema of the row layout.
func ArrowSchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: ColIndex, Type: arrow.PrimitiveTypes.Int64},
		{Name: ColLine1, Type: arrow.BinaryTypes.String},
		{Name: ColLine2, Type: arrow.BinaryTypes.String},
		{Name: ColLine3, Type: arrow.BinaryTypes.String},
		{Name: ColHash, Type: arrow.PrimitiveTypes.Uint64},
		{Name: ColDescriptor, Type: arrow.ListOf(arrow.PrimitiveTypes.Int32), Nullable: true},
		{Name: ColNormalized, Type: arrow.ListOf(arrow.PrimitiveTypes.Float32), Nullable: true},
	}, nil)
}

// appendRows appends rows to a record builder created from ArrowSchema.
func appendRows(b *array.RecordBuilder, rows []Row) {
	index := b.Field(0).(*array.Int64Builder)
	line1 := b.Field(1).(*array.StringBuilder)
	line2 := b.Field(2).(*array.StringBuilder)
	line3 := b.Field(3).(*array.StringBuilder)
	hash := b.Field(4).(*array.Uint64Builder)
	desc := b.Field(5).(*array.ListBuilder)
	descValues := desc.ValueBuilder().(*array.Int32Builder)
	norm := b.Field(6).(*array.ListBuilder)
	normValues := norm.ValueBuilder().(*array.Float32Builder)

	for i := range rows {
		r := &rows[i]
		index.Append(r.Index)
		line1.Append(r.Line1)
		line2.Append(r.Line2)
		line3.Append(r.Line3)
		hash.Append(r.Hash)

		if r.Descriptor == nil {
			desc.AppendNull()
		} else {
			desc.Append(true)
			descValues.AppendValues(r.Descriptor, nil)
		}
		if r.Normalized == nil {
			norm.AppendNull()
		} else {
			norm.Append(true)
			normValues.AppendValues(r.Normalized, nil)
		}
	}
}

// rowsFromRecord converts an Arrow record back into rows. Columns are
// looked up by name so projections and reordered files still decode.
func rowsFromRecord(rec arrow.Record) ([]Row, error) {
	schema := rec.Schema()
	col := func(name string) arrow.Array {
		idx := schema.FieldIndices(name)
		if len(idx) == 0 {
			return nil
		}
		return rec.Column(idx[0])
	}

	index, ok := col(ColIndex).(*array.Int64)
	if !ok {
		return nil, fmt.Errorf("column %s missing or not int64", ColIndex)
	}
	var lines [3]*array.String
	for i, name := range []string{ColLine1, ColLine2, ColLine3} {
		if lines[i], ok = col(name).(*array.String); !ok {
			return nil, fmt.Errorf("column %s missing or not string", name)
		}
	}
	hash, _ := col(ColHash).(*array.Uint64)
	desc, _ := col(ColDescriptor).(*array.List)
	norm, _ := col(ColNormalized).(*array.List)

	n := int(rec.NumRows())
	rows := make([]Row, n)
	for i := 0; i < n; i++ {
		rows[i] = Row{
			Index: index.Value(i),
			Line1: lines[0].Value(i),
			Line2: lines[1].Value(i),
			Line3: lines[2].Value(i),
		}
		if hash != nil {
			rows[i].Hash = hash.Value(i)
		}
		if desc != nil && desc.IsValid(i) {
			values := desc.ListValues().(*array.Int32).Int32Values()
			start, end := desc.ValueOffsets(i)
			rows[i].Descriptor = append(make([]int32, 0, end-start), values[start:end]...)
		}
		if norm != nil && norm.IsValid(i) {
			values := norm.ListValues().(*array.Float32).Float32Values()
			start, end := norm.ValueOffsets(i)
			rows[i].Normalized = append(make([]float32, 0, end-start), values[start:end]...)
		}
	}
	return rows, nil
}
