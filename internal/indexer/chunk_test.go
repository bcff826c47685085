package indexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkTextShort(t *testing.T) {
	assert.Nil(t, chunkText("   "))
	assert.Equal(t, []string{"short document"}, chunkText("short document"))
}

func TestChunkTextOverlap(t *testing.T) {
	text := strings.Repeat("soil moisture retention depends on organic matter. ", 60)
	chunks := chunkText(text)
	require.Greater(t, len(chunks), 1)

	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), chunkSize)
		assert.NotEmpty(t, c)
	}

	// consecutive chunks share overlapping text
	tail := chunks[0][len(chunks[0])-40:]
	assert.Contains(t, chunks[1], strings.TrimSpace(tail)[:20])
}

func TestChunkTextBreaksOnWhitespace(t *testing.T) {
	words := strings.Repeat("irrigation ", 200)
	for _, c := range chunkText(words) {
		assert.False(t, strings.HasPrefix(c, " "))
		assert.False(t, strings.HasSuffix(c, " "))
	}
}
