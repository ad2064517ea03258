package sentiment

import (
	"errors"
	"fmt"
	"github.com/drankou/go-vader/vader"
)

var ErrLexicon = errors.New("loading VADER lexicon")

// compound is the VADER score normalised to [-1, 1].
const compound = "compound"

// Vader scores text with the VADER lexicon and rule set.
type Vader struct {
	analyzer vader.SentimentIntensityAnalyzer
}

// NewVader loads the word lexicon and the emoji lexicon. Both paths are
// required.
func NewVader(lexiconPath, emojiLexiconPath string) (*Vader, error) {
	if lexiconPath == "" || emojiLexiconPath == "" {
		return nil, fmt.Errorf("%w: both the lexicon and the emoji lexicon are required", ErrLexicon)
	}

	v := &Vader{}
	err := v.analyzer.Init(lexiconPath, emojiLexiconPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLexicon, err)
	}

	return v, nil
}

// Polarity returns the VADER compound score of text. The analyzer only reads
// its lexicons, so concurrent calls are safe.
func (v *Vader) Polarity(text string) float64 {
	return Clamp(v.analyzer.PolarityScores(text)[compound])
}
