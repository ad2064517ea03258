package tables

import (
	"encoding/csv"
	"errors"
	"fmt"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
	"io"
	"io/fs"
	"iter"
	"os"
)

// DefaultEncoding is the encoding of the titles export this tool was written
// for.
const DefaultEncoding = "ISO-8859-1"

var (
	ErrInputNotFound   = errors.New("input file not found")
	ErrUnknownEncoding = errors.New("unknown encoding")
	ErrNoHeader        = errors.New("no header row")
	ErrLongRecord      = errors.New("record has more fields than the header")
)

// ReadOptions controls how delimited text is decoded.
type ReadOptions struct {
	// Encoding is an IANA character set name. Empty means UTF-8.
	Encoding string
	// Comma is the field delimiter. If 0, ','.
	Comma rune
}

// lookupEncoding resolves an IANA character set name. Empty means UTF-8.
func lookupEncoding(name string) (encoding.Encoding, error) {
	if name == "" {
		return encoding.Nop, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrUnknownEncoding, name, err)
	}
	if enc == nil {
		// Known to IANA, but without an implementation in x/text.
		return nil, fmt.Errorf("%w %q: unsupported", ErrUnknownEncoding, name)
	}
	return enc, nil
}

// Decoder returns the decoder for an IANA character set name.
func Decoder(name string) (*encoding.Decoder, error) {
	enc, err := lookupEncoding(name)
	if err != nil {
		return nil, err
	}
	return enc.NewDecoder(), nil
}

// Encoder returns the encoder for an IANA character set name.
func Encoder(name string) (*encoding.Encoder, error) {
	enc, err := lookupEncoding(name)
	if err != nil {
		return nil, err
	}
	return enc.NewEncoder(), nil
}

// Reader reads delimited text one record at a time. The header is read on
// construction.
type Reader struct {
	csv    *csv.Reader
	header []string
	line   int
}

// NewReader decodes r with opts.Encoding and reads the header record.
func NewReader(r io.Reader, opts ReadOptions) (*Reader, error) {
	decoder, err := Decoder(opts.Encoding)
	if err != nil {
		return nil, err
	}

	csvReader := csv.NewReader(transform.NewReader(r, decoder))
	if opts.Comma != 0 {
		csvReader.Comma = opts.Comma
	}
	// Short records are padded with nulls; long ones are rejected in Read.
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true
	csvReader.ReuseRecord = false

	header, err := csvReader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoHeader
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	return &Reader{
		csv:    csvReader,
		header: header,
		line:   1,
	}, nil
}

// Header returns the column names.
func (r *Reader) Header() []string {
	return r.header
}

// Read yields one row of cells per record until the input is exhausted or an
// error occurs. Iteration stops after the first error.
func (r *Reader) Read() iter.Seq2[[]Cell, error] {
	return func(yield func([]Cell, error) bool) {
		for {
			record, err := r.csv.Read()
			if err != nil {
				if !errors.Is(err, io.EOF) {
					yield(nil, fmt.Errorf("reading record %d: %w", r.line+1, err))
				}
				return
			}
			r.line++

			if len(record) > len(r.header) {
				yield(nil, fmt.Errorf("%w: record %d has %d fields, header has %d",
					ErrLongRecord, r.line, len(record), len(r.header)))
				return
			}

			row := make([]Cell, len(r.header))
			for i := range row {
				if i >= len(record) || record[i] == "" {
					row[i] = Cell{Null: true}
				} else {
					row[i] = Cell{Text: record[i]}
				}
			}

			if !yield(row, nil) {
				return
			}
		}
	}
}

// ReadCSV reads a whole delimited table and infers column kinds.
func ReadCSV(r io.Reader, opts ReadOptions) (*Table, error) {
	reader, err := NewReader(r, opts)
	if err != nil {
		return nil, err
	}

	header := reader.Header()
	table := &Table{Columns: make([]*Column, len(header))}
	for i, name := range header {
		table.Columns[i] = &Column{Name: name}
	}

	for row, err := range reader.Read() {
		if err != nil {
			return nil, err
		}
		for i, cell := range row {
			table.Columns[i].Cells = append(table.Columns[i].Cells, cell)
		}
	}

	for _, c := range table.Columns {
		c.Infer()
	}
	return table, nil
}

// ReadCSVFile reads the table at path. A missing file is reported as
// ErrInputNotFound.
func ReadCSVFile(path string, opts ReadOptions) (*Table, error) {
	inFile, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrInputNotFound, err)
		}
		return nil, err
	}
	defer func() {
		_ = inFile.Close()
	}()

	table, err := ReadCSV(inFile, opts)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	return table, nil
}

// WriteCSV writes the header and every row of t as UTF-8 CSV. Null cells are
// written as empty fields.
func WriteCSV(w io.Writer, t *Table) error {
	writer := csv.NewWriter(w)

	err := writer.Write(t.Header())
	if err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	record := make([]string, len(t.Columns))
	for i := range t.Len() {
		for j, c := range t.Columns {
			record[j] = c.Cells[i].Text
		}
		err = writer.Write(record)
		if err != nil {
			return fmt.Errorf("writing record %d: %w", i+1, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteCSVFile writes t to path as UTF-8, replacing any existing file.
func WriteCSVFile(path string, t *Table) error {
	return WriteCSVFileEncoded(path, t, "")
}

// WriteCSVFileEncoded writes t to path in the named IANA character set,
// replacing any existing file. Empty means UTF-8.
func WriteCSVFileEncoded(path string, t *Table, encodingName string) error {
	encoder, err := Encoder(encodingName)
	if err != nil {
		return err
	}

	outFile, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %q: %w", path, err)
	}

	// Closing the transformer flushes bytes it is still holding.
	w := transform.NewWriter(outFile, encoder)
	err = WriteCSV(w, t)
	if err == nil {
		err = w.Close()
	}
	if err != nil {
		_ = outFile.Close()
		return fmt.Errorf("writing %q: %w", path, err)
	}
	return outFile.Close()
}
