package sentiment

import (
	"context"
	"fmt"
	"github.com/vbauerster/mpb"
	"github.com/vbauerster/mpb/decor"
	"github.com/willbeason/title-sentiment/pkg/tables"
	"golang.org/x/sync/errgroup"
	"time"
)

// IncEvery is how many rows a worker scores between progress bar updates.
const IncEvery = 1 << 8

// Options controls how a column is scored.
type Options struct {
	// Workers is the number of concurrent scoring goroutines. Values below 1
	// score sequentially.
	Workers int
	// Progress, when set, receives a bar tracking scored rows.
	Progress *mpb.Progress
}

// Score applies scorer to every text. Results are stored by index, so the
// output order never depends on scheduling.
func Score(ctx context.Context, scorer Scorer, texts []string, opts Options) ([]float64, error) {
	polarities := make([]float64, len(texts))
	if len(texts) == 0 {
		return polarities, nil
	}

	workers := max(opts.Workers, 1)
	chunk := (len(texts) + workers - 1) / workers

	var bar *mpb.Bar
	if opts.Progress != nil {
		bar = opts.Progress.AddBar(int64(len(texts)),
			mpb.AppendDecorators(decor.AverageETA(decor.ET_STYLE_GO)),
			mpb.PrependDecorators(decor.Name("scoring")),
			mpb.PrependDecorators(decor.CountersNoUnit("%d/%d", decor.WCSyncSpace)),
			mpb.BarRemoveOnComplete())
	}
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	for lo := 0; lo < len(texts); lo += chunk {
		hi := min(lo+chunk, len(texts))
		g.Go(func() error {
			lastSeen := lo
			for i := lo; i < hi; i++ {
				polarities[i] = Clamp(scorer.Polarity(texts[i]))

				if (i+1-lo)%IncEvery == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
					if bar != nil {
						bar.IncrBy(i+1-lastSeen, time.Since(start))
					}
					lastSeen = i + 1
				}
			}
			if bar != nil {
				bar.IncrBy(hi-lastSeen, time.Since(start))
			}
			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		if bar != nil {
			opts.Progress.Abort(bar, true)
		}
		return nil, fmt.Errorf("scoring: %w", err)
	}
	return polarities, nil
}

// Derived describes the columns Derive added to a table.
type Derived struct {
	Columns Columns
	// Replaced lists derived columns that already existed in the table and
	// were overwritten in place.
	Replaced []string
}

// Derive scores textColumn and sets the polarity, category and percentage
// columns on t. Existing columns with the same names are overwritten in place
// rather than duplicated. Null text must already have been filled.
func Derive(ctx context.Context, t *tables.Table, textColumn string, scorer Scorer, opts Options) (Derived, error) {
	text, err := t.Column(textColumn)
	if err != nil {
		return Derived{}, err
	}

	polarities, err := Score(ctx, scorer, text.Texts(), opts)
	if err != nil {
		return Derived{}, err
	}

	categories := make([]int, len(polarities))
	percentages := make([]float64, len(polarities))
	for i, p := range polarities {
		categories[i] = CategoryOf(p)
		percentages[i] = PercentageOf(p)
	}

	result := Derived{Columns: ColumnsFor(textColumn)}
	for _, c := range []*tables.Column{
		tables.NewFloatColumn(result.Columns.Polarity, polarities),
		tables.NewIntColumn(result.Columns.Category, categories),
		tables.NewFloatColumn(result.Columns.Percentage, percentages),
	} {
		replaced, err := t.Set(c)
		if err != nil {
			return Derived{}, err
		}
		if replaced {
			result.Replaced = append(result.Replaced, c.Name)
		}
	}

	return result, nil
}
