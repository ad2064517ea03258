package tables

import (
	"compress/gzip"
	"fmt"
	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/apache/arrow/go/v18/parquet"
	"github.com/apache/arrow/go/v18/parquet/compress"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	"github.com/willbeason/title-sentiment/pkg/profile"
	"io"
	"os"
	"strconv"
	"strings"
)

// SchemaOptions describes the table as a whole and individual columns.
type SchemaOptions struct {
	// Comment describes the table.
	Comment string
	// RunID identifies the run which produced the table.
	RunID string
	// ColumnComments maps column names to descriptions. Columns without an
	// entry are described as input columns.
	ColumnComments map[string]string
}

func arrowType(kind profile.Kind) arrow.DataType {
	switch kind {
	case profile.KindInteger:
		return arrow.PrimitiveTypes.Int64
	case profile.KindFloat:
		return arrow.PrimitiveTypes.Float64
	default:
		return arrow.BinaryTypes.String
	}
}

// Schema returns the Arrow schema of t. Every field is nullable.
func Schema(t *Table, opts SchemaOptions) *arrow.Schema {
	fields := make([]arrow.Field, len(t.Columns))
	for i, c := range t.Columns {
		description, ok := opts.ColumnComments[c.Name]
		if !ok {
			description = "Input column " + strconv.Quote(c.Name)
		}

		fields[i] = arrow.Field{
			Name:     c.Name,
			Type:     arrowType(c.Kind),
			Nullable: true,
			Metadata: fieldMetadata(description),
		}
	}

	return arrow.NewSchema(fields, schemaMetadata(opts))
}

// NewRecord converts t into a single Arrow record matching schema.
// The caller must Release the record.
func NewRecord(allocator memory.Allocator, schema *arrow.Schema, t *Table) (arrow.Record, error) {
	recordBuilder := array.NewRecordBuilder(allocator, schema)
	defer recordBuilder.Release()

	for j, c := range t.Columns {
		switch builder := recordBuilder.Field(j).(type) {
		case *array.Int64Builder:
			for i, cell := range c.Cells {
				if cell.Null {
					builder.AppendNull()
					continue
				}
				v, err := strconv.ParseInt(strings.TrimSpace(cell.Text), 10, 64)
				if err != nil {
					return nil, fmt.Errorf("column %q row %d: %w", c.Name, i+1, err)
				}
				builder.Append(v)
			}
		case *array.Float64Builder:
			for i := range c.Cells {
				v, ok := c.Float(i)
				if !ok {
					builder.AppendNull()
					continue
				}
				builder.Append(v)
			}
		case *array.StringBuilder:
			for _, cell := range c.Cells {
				if cell.Null {
					builder.AppendNull()
					continue
				}
				builder.Append(cell.Text)
			}
		default:
			return nil, fmt.Errorf("unsupported builder %T for column %q", builder, c.Name)
		}
	}

	return recordBuilder.NewRecord(), nil
}

// WriteParquet writes t to w as a gzip-compressed Parquet file.
// The writer closes w if it implements io.Closer.
func WriteParquet(w io.Writer, t *Table, opts SchemaOptions) error {
	schema := Schema(t, opts)

	record, err := NewRecord(memory.NewGoAllocator(), schema, t)
	if err != nil {
		return err
	}
	defer record.Release()

	writer, err := pqarrow.NewFileWriter(
		schema,
		w,
		parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Gzip),
			parquet.WithCompressionLevel(gzip.BestCompression)),
		pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema()),
	)
	if err != nil {
		return fmt.Errorf("creating parquet writer: %w", err)
	}

	err = writer.Write(record)
	if err != nil {
		_ = writer.Close()
		return fmt.Errorf("writing record: %w", err)
	}
	return writer.Close()
}

// WriteParquetFile writes t to path.
func WriteParquetFile(path string, t *Table, opts SchemaOptions) error {
	outFile, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %q: %w", path, err)
	}
	// Don't close outFile; parquet handles closing it.
	err = WriteParquet(outFile, t, opts)
	if err != nil {
		return fmt.Errorf("writing %q: %w", path, err)
	}
	return nil
}
