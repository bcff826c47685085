package agmarknet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, similarity("Potato", "potato"))
	assert.Equal(t, 0.0, similarity("", "Potato"))
	assert.Greater(t, similarity("Onion", "Onion Green"), similarity("Onion", "Wheat"))
}

func TestMatchMapping(t *testing.T) {
	m := MatchMapping("potato", Commodities)
	require.NotNil(t, m)
	assert.Equal(t, "Potato", m.Text)

	m = MatchMapping("potatoe", Commodities)
	require.NotNil(t, m, "close misspelling should still match")
	assert.Equal(t, "Potato", m.Text)

	assert.Nil(t, MatchMapping("xylophone", Commodities))
}

func TestMatchMappingStates(t *testing.T) {
	m := MatchMapping("maharashtra", States)
	require.NotNil(t, m)
	assert.Equal(t, "MH", m.Value)

	m = MatchMapping("west bengal", States)
	require.NotNil(t, m)
	assert.Equal(t, "West Bengal", m.Text)
}

func TestFilterRecords(t *testing.T) {
	records := []map[string]string{
		{"District_Name": "Pune", "Modal_Price": "1200"},
		{"District_Name": "Nashik", "Modal_Price": "1100"},
		{"District_Name": "Nagpur", "Modal_Price": "1300"},
	}

	kept := FilterRecords("", records, "District_Name")
	assert.Len(t, kept, 3, "empty query keeps everything")

	kept = FilterRecords("nashik", records, "District_Name")
	require.Len(t, kept, 1)
	assert.Equal(t, "Nashik", kept[0]["District_Name"])

	kept = FilterRecords("zzzz", records, "District_Name")
	assert.Empty(t, kept)
}
