package tables

import (
	"errors"
	"fmt"
	"github.com/willbeason/title-sentiment/pkg/profile"
	"math"
	"slices"
	"strconv"
	"strings"
)

const (
	CSVExt     = ".csv"
	ParquetExt = ".parquet"
)

var (
	ErrColumnNotFound = errors.New("column not found")
	ErrColumnLength   = errors.New("column length does not match table")
)

// A Cell is one value of a Column as it appears in delimited text.
// Null cells are empty fields, or fields missing from a short record.
type Cell struct {
	Text string
	Null bool
}

// Column is a named, typed sequence of cells. Kind is the narrowest type that
// holds every non-null cell.
type Column struct {
	Name  string
	Kind  profile.Kind
	Cells []Cell
}

// NewFloatColumn builds a float column from values.
func NewFloatColumn(name string, values []float64) *Column {
	cells := make([]Cell, len(values))
	for i, v := range values {
		cells[i] = Cell{Text: FormatFloat(v)}
	}
	return &Column{Name: name, Kind: profile.KindFloat, Cells: cells}
}

// NewIntColumn builds an integer column from values.
func NewIntColumn(name string, values []int) *Column {
	cells := make([]Cell, len(values))
	for i, v := range values {
		cells[i] = Cell{Text: strconv.Itoa(v)}
	}
	return &Column{Name: name, Kind: profile.KindInteger, Cells: cells}
}

// NewStringColumn builds a string column. Empty strings are kept as non-null
// values.
func NewStringColumn(name string, values []string) *Column {
	cells := make([]Cell, len(values))
	for i, v := range values {
		cells[i] = Cell{Text: v}
	}
	return &Column{Name: name, Kind: profile.KindString, Cells: cells}
}

// Texts returns the text of every cell; null cells are empty strings.
func (c *Column) Texts() []string {
	result := make([]string, len(c.Cells))
	for i, cell := range c.Cells {
		result[i] = cell.Text
	}
	return result
}

// Infer sets Kind from the current cells.
func (c *Column) Infer() {
	values := make([]string, len(c.Cells))
	nulls := make([]bool, len(c.Cells))
	for i, cell := range c.Cells {
		values[i] = cell.Text
		nulls[i] = cell.Null
	}
	c.Kind = profile.Profile(values, nulls).Kind()
}

// Float returns the numeric value of row i for integer and float columns.
func (c *Column) Float(i int) (float64, bool) {
	cell := c.Cells[i]
	if cell.Null {
		return 0, false
	}
	n, _, ok := profile.ParseNumber(cell.Text)
	return n, ok
}

// Table is an ordered set of equal-length columns. Column order and row order
// are preserved by every reader and writer in this package.
type Table struct {
	Columns []*Column
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Cells)
}

// Header returns the column names in order.
func (t *Table) Header() []string {
	result := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		result[i] = c.Name
	}
	return result
}

// Index returns the position of the named column, or -1.
func (t *Table) Index(name string) int {
	return slices.IndexFunc(t.Columns, func(c *Column) bool {
		return c.Name == name
	})
}

// Column returns the named column.
func (t *Table) Column(name string) (*Column, error) {
	i := t.Index(name)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	return t.Columns[i], nil
}

// Set appends c, or replaces the column of the same name in place.
// Reports whether an existing column was replaced.
func (t *Table) Set(c *Column) (bool, error) {
	if len(t.Columns) > 0 && len(c.Cells) != t.Len() {
		return false, fmt.Errorf("%w: %q has %d rows, table has %d",
			ErrColumnLength, c.Name, len(c.Cells), t.Len())
	}

	if i := t.Index(c.Name); i >= 0 {
		t.Columns[i] = c
		return true, nil
	}
	t.Columns = append(t.Columns, c)
	return false, nil
}

// FillNull replaces the null cells of the named column with empty strings.
func (t *Table) FillNull(name string) error {
	c, err := t.Column(name)
	if err != nil {
		return err
	}

	for i := range c.Cells {
		if c.Cells[i].Null {
			c.Cells[i] = Cell{}
		}
	}
	if c.Kind == profile.KindEmpty {
		c.Kind = profile.KindString
	}
	return nil
}

// DropMatching removes every column whose name contains any of substrs,
// except the columns named in keep, and returns the removed names in their
// original order. Matching is case-sensitive.
func (t *Table) DropMatching(substrs []string, keep ...string) []string {
	var dropped []string
	t.Columns = slices.DeleteFunc(t.Columns, func(c *Column) bool {
		if slices.Contains(keep, c.Name) {
			return false
		}
		for _, s := range substrs {
			if strings.Contains(c.Name, s) {
				dropped = append(dropped, c.Name)
				return true
			}
		}
		return false
	})
	return dropped
}

// Subset returns a new table holding the given rows in the given order.
// Cells are copied; Kinds are re-inferred.
func (t *Table) Subset(rows []int) *Table {
	result := &Table{Columns: make([]*Column, len(t.Columns))}
	for i, c := range t.Columns {
		cells := make([]Cell, len(rows))
		for j, row := range rows {
			cells[j] = c.Cells[row]
		}
		sub := &Column{Name: c.Name, Cells: cells}
		sub.Infer()
		result.Columns[i] = sub
	}
	return result
}

// FormatFloat writes v in its shortest round-trip form, always with a decimal
// point so the value reads back as a float.
func FormatFloat(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
