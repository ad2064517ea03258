// Package spreadsheet writes tables to .xlsx workbooks with the sentiment
// category column colour-coded through conditional formatting.
package spreadsheet

import (
	"errors"
	"fmt"
	"github.com/willbeason/title-sentiment/pkg/profile"
	"github.com/willbeason/title-sentiment/pkg/tables"
	"github.com/xuri/excelize/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	DefaultSheetName = "Sentiment Analysis"
	XLSXExt          = ".xlsx"

	// defaultSheet is the sheet every new excelize workbook starts with.
	defaultSheet = "Sheet1"
)

var (
	ErrSpreadsheet   = errors.New("writing spreadsheet")
	ErrMissingColumn = errors.New("category column not found")
)

// A CategoryFormat is the cell style applied where the category equals Value.
type CategoryFormat struct {
	Value int
	Fill  string
	Font  string
}

// CategoryFormats are applied to the category column in this order.
var CategoryFormats = []CategoryFormat{
	{Value: 1, Fill: "#C6EFCE", Font: "#006100"},
	{Value: -1, Fill: "#FFC7CE", Font: "#9C0006"},
	{Value: 0, Fill: "#E0E0E0", Font: "#333333"},
}

// Build assembles a workbook holding t on one sheet, with CategoryFormats
// applied to the data rows of categoryColumn. The caller must Close the file.
// Returns ErrMissingColumn before building anything if categoryColumn is not
// in t.
func Build(t *tables.Table, sheet, categoryColumn string) (*excelize.File, error) {
	categoryIdx := t.Index(categoryColumn)
	if categoryIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, categoryColumn)
	}

	f := excelize.NewFile()
	err := build(f, t, sheet, categoryIdx)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func build(f *excelize.File, t *tables.Table, sheet string, categoryIdx int) error {
	err := f.SetSheetName(defaultSheet, sheet)
	if err != nil {
		return fmt.Errorf("naming sheet %q: %w", sheet, err)
	}

	header := make([]interface{}, len(t.Columns))
	for j, name := range t.Header() {
		header[j] = name
	}
	err = f.SetSheetRow(sheet, "A1", &header)
	if err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	row := make([]interface{}, len(t.Columns))
	for i := range t.Len() {
		for j, c := range t.Columns {
			row[j] = cellValue(c, i)
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		err = f.SetSheetRow(sheet, cell, &row)
		if err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	if t.Len() == 0 {
		// No data rows, so there is no range to format.
		return nil
	}
	return formatCategories(f, sheet, categoryIdx, t.Len())
}

// cellValue returns the value excelize should store for row i of c: numbers
// for numeric columns, text otherwise, nil for nulls.
func cellValue(c *tables.Column, i int) interface{} {
	cell := c.Cells[i]
	if cell.Null {
		return nil
	}

	switch c.Kind {
	case profile.KindInteger:
		v, err := strconv.ParseInt(strings.TrimSpace(cell.Text), 10, 64)
		if err == nil {
			return v
		}
	case profile.KindFloat:
		v, ok := c.Float(i)
		if ok {
			return v
		}
	}
	return cell.Text
}

func formatCategories(f *excelize.File, sheet string, categoryIdx, rows int) error {
	col, err := excelize.ColumnNumberToName(categoryIdx + 1)
	if err != nil {
		return err
	}
	// Row 1 is the header.
	rangeRef := fmt.Sprintf("%s2:%s%d", col, col, rows+1)

	opts := make([]excelize.ConditionalFormatOptions, len(CategoryFormats))
	for i, format := range CategoryFormats {
		style, err := f.NewConditionalStyle(&excelize.Style{
			Font: &excelize.Font{Color: format.Font},
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{format.Fill}},
		})
		if err != nil {
			return fmt.Errorf("creating style for category %d: %w", format.Value, err)
		}

		opts[i] = excelize.ConditionalFormatOptions{
			Type:     "cell",
			Criteria: "==",
			Format:   &style,
			Value:    strconv.Itoa(format.Value),
		}
	}

	err = f.SetConditionalFormat(sheet, rangeRef, opts)
	if err != nil {
		return fmt.Errorf("formatting %s: %w", rangeRef, err)
	}
	return nil
}

// Write builds the workbook and saves it to path. The workbook is written to
// a temporary file next to path and renamed into place, so path is either
// left untouched or holds a complete workbook.
func Write(path string, t *tables.Table, sheet, categoryColumn string) error {
	f, err := Build(t, sheet, categoryColumn)
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrSpreadsheet, path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*"+XLSXExt)
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrSpreadsheet, path, err)
	}
	tmpPath := tmp.Name()

	err = f.Write(tmp)
	if err == nil {
		err = tmp.Close()
	} else {
		_ = tmp.Close()
	}
	if err == nil {
		// CreateTemp makes owner-only files.
		err = os.Chmod(tmpPath, 0o644)
	}
	if err == nil {
		err = os.Rename(tmpPath, path)
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w %q: %w", ErrSpreadsheet, path, err)
	}
	return nil
}
