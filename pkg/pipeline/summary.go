package pipeline

import (
	"fmt"
	"github.com/willbeason/bondsmith/jsonio"
	"github.com/willbeason/title-sentiment/pkg/sentiment"
	"github.com/willbeason/title-sentiment/pkg/tables"
	"io"
	"os"
	"slices"
)

// CategorySummary aggregates the rows of one sentiment category.
type CategorySummary struct {
	Category     int     `json:"category"`
	Rows         int     `json:"rows"`
	Share        float64 `json:"share"`
	MeanPolarity float64 `json:"mean_polarity"`
}

// Summarize returns one summary per category, in the order -1, 0, 1. Empty
// categories are included with zero rows.
func Summarize(t *tables.Table, columns sentiment.Columns) ([]CategorySummary, error) {
	polarity, err := t.Column(columns.Polarity)
	if err != nil {
		return nil, err
	}

	summaries := []CategorySummary{{Category: -1}, {Category: 0}, {Category: 1}}
	sums := make([]float64, len(summaries))
	for i := range polarity.Cells {
		p, ok := polarity.Float(i)
		if !ok {
			return nil, fmt.Errorf("column %q row %d: not a number", columns.Polarity, i+1)
		}
		// Categories -1, 0, 1 map to indices 0, 1, 2.
		idx := sentiment.CategoryOf(p) + 1
		summaries[idx].Rows++
		sums[idx] += p
	}

	for i := range summaries {
		if summaries[i].Rows == 0 {
			continue
		}
		summaries[i].MeanPolarity = sums[i] / float64(summaries[i].Rows)
		summaries[i].Share = float64(summaries[i].Rows) / float64(t.Len())
	}
	return summaries, nil
}

// WriteSummary writes one JSON object per line.
func WriteSummary(w io.Writer, summaries []CategorySummary) error {
	return jsonio.NewWriter(w, slices.Values(summaries)).Write()
}

// WriteSummaryFile summarises t and writes the result to path.
func WriteSummaryFile(path string, t *tables.Table, columns sentiment.Columns) error {
	summaries, err := Summarize(t, columns)
	if err != nil {
		return err
	}

	outFile, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %q: %w", path, err)
	}

	err = WriteSummary(outFile, summaries)
	if err != nil {
		_ = outFile.Close()
		return fmt.Errorf("writing %q: %w", path, err)
	}
	return outFile.Close()
}
