package tables

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/willbeason/title-sentiment/pkg/profile"
	"strings"
	"testing"
)

func newTable(t *testing.T, csv string) *Table {
	t.Helper()
	table, err := ReadCSV(strings.NewReader(csv), ReadOptions{})
	require.NoError(t, err)
	return table
}

func TestTable_Set(t *testing.T) {
	table := newTable(t, "title,score\nHeat,1\nAlien,2\n")

	replaced, err := table.Set(NewFloatColumn("extra", []float64{0.5, -1}))
	require.NoError(t, err)
	assert.False(t, replaced)
	assert.Equal(t, []string{"title", "score", "extra"}, table.Header())

	replaced, err = table.Set(NewIntColumn("score", []int{7, 8}))
	require.NoError(t, err)
	assert.True(t, replaced)
	assert.Equal(t, []string{"title", "score", "extra"}, table.Header())

	score, err := table.Column("score")
	require.NoError(t, err)
	assert.Equal(t, []string{"7", "8"}, score.Texts())

	_, err = table.Set(NewIntColumn("short", []int{1}))
	assert.ErrorIs(t, err, ErrColumnLength)
}

func TestTable_Column_Missing(t *testing.T) {
	table := newTable(t, "title\nHeat\n")
	_, err := table.Column("description")
	assert.ErrorIs(t, err, ErrColumnNotFound)
	assert.Equal(t, -1, table.Index("description"))
}

func TestTable_FillNull(t *testing.T) {
	table := newTable(t, "title,description\nHeat,A heist\nUntitled,\n")

	require.NoError(t, table.FillNull("description"))
	description, err := table.Column("description")
	require.NoError(t, err)
	assert.Equal(t, []Cell{{Text: "A heist"}, {}}, description.Cells)

	// A column with no values at all becomes an empty string column.
	table = newTable(t, "title,description\nHeat,\n")
	require.NoError(t, table.FillNull("description"))
	description, err = table.Column("description")
	require.NoError(t, err)
	assert.Equal(t, profile.KindString, description.Kind)

	assert.ErrorIs(t, table.FillNull("missing"), ErrColumnNotFound)
}

func TestTable_DropMatching(t *testing.T) {
	table := newTable(t, "title,rating_sentiment_category,rating,old_rating_polarity,description\n"+
		"Heat,1,8.3,0.2,A heist\n")

	dropped := table.DropMatching([]string{"rating_sentiment", "rating_polarity"})
	assert.Equal(t, []string{"rating_sentiment_category", "old_rating_polarity"}, dropped)
	assert.Equal(t, []string{"title", "rating", "description"}, table.Header())

	// Matching is case-sensitive.
	table = newTable(t, "Rating_Sentiment\nx\n")
	assert.Empty(t, table.DropMatching([]string{"rating_sentiment"}))
}

func TestTable_DropMatching_Keep(t *testing.T) {
	table := newTable(t, "rating_polarity_notes,rating_polarity_notes_polarity\nx,0.1\n")

	dropped := table.DropMatching([]string{"rating_polarity"}, "rating_polarity_notes", "rating_polarity_notes_polarity")
	assert.Empty(t, dropped)
	assert.Len(t, table.Columns, 2)
}

func TestTable_Subset(t *testing.T) {
	table := newTable(t, "title,year\nHeat,1995\nAlien,1979\nUp,unknown\n")

	sub := table.Subset([]int{2, 0})
	require.Equal(t, 2, sub.Len())

	title, err := sub.Column("title")
	require.NoError(t, err)
	assert.Equal(t, []string{"Up", "Heat"}, title.Texts())

	// year was a string column in the full table; the subset re-infers it.
	year, err := table.Column("year")
	require.NoError(t, err)
	assert.Equal(t, profile.KindString, year.Kind)
	year, err = table.Subset([]int{0, 1}).Column("year")
	require.NoError(t, err)
	assert.Equal(t, profile.KindInteger, year.Kind)
}

func TestFormatFloat(t *testing.T) {
	tcs := map[string]float64{
		"0.0":   0,
		"1.0":   1,
		"-1.0":  -1,
		"50.0":  50,
		"0.625": 0.625,
		"96.2":  96.2,
	}
	for want, v := range tcs {
		assert.Equal(t, want, FormatFloat(v))
	}
}

func TestColumn_Float(t *testing.T) {
	c := &Column{Name: "rating", Cells: []Cell{{Text: "8.5"}, {Null: true}, {Text: "n/a"}}}

	v, ok := c.Float(0)
	assert.True(t, ok)
	assert.Equal(t, 8.5, v)

	_, ok = c.Float(1)
	assert.False(t, ok)
	_, ok = c.Float(2)
	assert.False(t, ok)
}
