package sentiment

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeLexicons writes a small word lexicon and emoji lexicon. Neither file
// may end in a newline: the loader treats every line as an entry.
func writeLexicons(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()

	lexicon := filepath.Join(dir, "vader_lexicon.txt")
	require.NoError(t, os.WriteFile(lexicon, []byte(strings.Join([]string{
		"wonderful\t2.7\t0.64031\t[2, 3, 3, 3, 2, 3, 3, 2, 3, 3]",
		"terrible\t-2.1\t0.83066\t[-3, -2, -2, -1, -3, -2, -2, -2, -2, -2]",
		"beaming face with smiling eyes\t1.6\t0.5\t[2, 1, 2, 2, 1, 2, 1, 2, 2, 1]",
	}, "\n")), 0o644))

	emoji := filepath.Join(dir, "emoji_utf8_lexicon.txt")
	require.NoError(t, os.WriteFile(emoji, []byte("😁\tbeaming face with smiling eyes"), 0o644))

	return lexicon, emoji
}

func TestVader_Polarity(t *testing.T) {
	lexicon, emoji := writeLexicons(t)
	v, err := NewVader(lexicon, emoji)
	require.NoError(t, err)

	tcs := []struct {
		text string
		want int
	}{
		{text: "A wonderful journey", want: 1},
		{text: "A terrible remake", want: -1},
		{text: "A man walks into a bar", want: 0},
		{text: "", want: 0},
	}

	for _, tc := range tcs {
		t.Run(tc.text, func(t *testing.T) {
			p := v.Polarity(tc.text)
			assert.GreaterOrEqual(t, p, -1.0)
			assert.LessOrEqual(t, p, 1.0)
			assert.Equal(t, tc.want, CategoryOf(p))
		})
	}
}

func TestVader_Deterministic(t *testing.T) {
	lexicon, emoji := writeLexicons(t)
	v, err := NewVader(lexicon, emoji)
	require.NoError(t, err)

	text := "A wonderful, terrible film"
	assert.Equal(t, v.Polarity(text), v.Polarity(text))
}

func TestNewVader_Errors(t *testing.T) {
	lexicon, _ := writeLexicons(t)

	_, err := NewVader(lexicon, "")
	assert.ErrorIs(t, err, ErrLexicon)

	_, err = NewVader("", "")
	assert.ErrorIs(t, err, ErrLexicon)

	_, err = NewVader(lexicon, filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, ErrLexicon)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
