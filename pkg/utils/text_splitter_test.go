package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reassemble(chunks []Chunk) string {
	var b strings.Builder
	for i, c := range chunks {
		if i == 0 {
			b.WriteString(c.Text)
			continue
		}
		b.WriteString(string([]rune(c.Text)[c.Overlap(chunks[i-1]):]))
	}
	return b.String()
}

func TestSplitText_ShortTextIsSingleChunk(t *testing.T) {
	chunks := SplitText("Short agreement.", 4000, 200, 100)
	require.Len(t, chunks, 1)
	assert.Equal(t, "Short agreement.", chunks[0].Text)
	assert.Equal(t, 0, chunks[0].Start)
	assert.Equal(t, 16, chunks[0].End)
}

func TestSplitText_ReconstructsOriginal(t *testing.T) {
	sentence := "The Tenant shall pay rent on the first day of each month. "
	texts := map[string]string{
		"sentences":   strings.Repeat(sentence, 40),
		"no_breaks":   strings.Repeat("abcdefghij", 97),
		"unicode":     strings.Repeat("Le locataire paiera le loyer € chaque mois. ", 30),
		"exact_size":  strings.Repeat("x", 300),
		"mixed_marks": strings.Repeat("Is it due? Yes! It is due. ", 25),
	}

	for name, text := range texts {
		t.Run(name, func(t *testing.T) {
			chunks := SplitText(text, 300, 40, 60)
			assert.Equal(t, text, reassemble(chunks))
			for _, c := range chunks {
				assert.LessOrEqual(t, len([]rune(c.Text)), 300)
			}
			assert.Equal(t, len([]rune(text)), chunks[len(chunks)-1].End)
		})
	}
}

func TestSplitText_CutsAfterSentenceTerminator(t *testing.T) {
	text := strings.Repeat("a", 90) + "." + strings.Repeat("b", 200)
	chunks := SplitText(text, 100, 10, 20)

	require.GreaterOrEqual(t, len(chunks), 2)
	assert.Equal(t, 91, chunks[0].End)
	assert.True(t, strings.HasSuffix(chunks[0].Text, "."))
	assert.Equal(t, 81, chunks[1].Start)
}

func TestSplitText_HardCutWithoutTerminator(t *testing.T) {
	text := strings.Repeat("a", 250)
	chunks := SplitText(text, 100, 10, 20)

	require.Len(t, chunks, 3)
	assert.Equal(t, 100, chunks[0].End)
	assert.Equal(t, 90, chunks[1].Start)
	assert.Equal(t, 190, chunks[1].End)
	assert.Equal(t, 250, chunks[2].End)
}

func TestSplitText_TerminatorOutsideLookbackIgnored(t *testing.T) {
	text := strings.Repeat("a", 10) + "." + strings.Repeat("a", 200)
	chunks := SplitText(text, 100, 0, 20)
	assert.Equal(t, 100, chunks[0].End)
}

func TestSplitText_OverlapLargerThanChunkIsClamped(t *testing.T) {
	text := strings.Repeat("z", 500)
	chunks := SplitText(text, 100, 150, 0)
	assert.Equal(t, text, reassemble(chunks))
	assert.Equal(t, 25, chunks[0].End-chunks[1].Start)
}
