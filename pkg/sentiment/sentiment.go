// Package sentiment scores text columns and derives the category and
// percentage columns from the resulting polarity.
package sentiment

import "math"

const (
	// DefaultTextColumn holds the synopsis of each title.
	DefaultTextColumn = "description"

	polaritySuffix   = "_polarity"
	categorySuffix   = "_sentiment_category"
	percentageSuffix = "_sentiment_percentage"
)

// StaleColumnMarkers identify sentiment columns left by earlier runs over the
// rating column. Columns containing either are dropped before writing.
var StaleColumnMarkers = []string{"rating_sentiment", "rating_polarity"}

// A Scorer returns the polarity of a text in [-1, 1]. Negative values are
// negative sentiment; 0 is neutral. Implementations must be safe for
// concurrent use.
type Scorer interface {
	Polarity(text string) float64
}

// ScorerFunc adapts a function to the Scorer interface.
type ScorerFunc func(text string) float64

func (f ScorerFunc) Polarity(text string) float64 {
	return f(text)
}

// Columns names the three columns derived from one text column.
type Columns struct {
	Polarity   string
	Category   string
	Percentage string
}

// ColumnsFor returns the derived column names for textColumn.
func ColumnsFor(textColumn string) Columns {
	return Columns{
		Polarity:   textColumn + polaritySuffix,
		Category:   textColumn + categorySuffix,
		Percentage: textColumn + percentageSuffix,
	}
}

// Names returns the derived column names in output order.
func (c Columns) Names() []string {
	return []string{c.Polarity, c.Category, c.Percentage}
}

// CategoryOf returns 1 for positive polarity, -1 for negative and 0 otherwise.
func CategoryOf(polarity float64) int {
	switch {
	case polarity > 0:
		return 1
	case polarity < 0:
		return -1
	default:
		return 0
	}
}

// PercentageOf maps polarity from [-1, 1] onto [0, 100]: -1 is 0%, 0 is 50%
// and 1 is 100%.
func PercentageOf(polarity float64) float64 {
	return (polarity + 1) / 2 * 100
}

// Clamp limits polarity to [-1, 1]. NaN and negative zero become 0, so a
// neutral score is always written as "0.0".
func Clamp(polarity float64) float64 {
	if math.IsNaN(polarity) || polarity == 0 {
		return 0
	}
	return math.Max(-1, math.Min(1, polarity))
}
