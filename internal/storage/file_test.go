package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRecorderRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "turns.jsonl")
	rec, err := NewFileRecorder(path)
	require.NoError(t, err)

	events := []Event{
		{
			Timestamp:      time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC),
			ConversationID: "conv-1",
			Endpoint:       "curator",
			Query:          "what should I plant this kharif season?",
			AgentMessage:   "Based on your soil, consider soybean.",
		},
		{
			Timestamp:      time.Date(2026, 8, 31, 10, 1, 0, 0, time.UTC),
			ConversationID: "conv-1",
			Endpoint:       "curator",
			Query:          "and onion prices?",
			Tasks:          "Fetching mandi prices",
		},
	}
	for _, e := range events {
		require.NoError(t, rec.AppendInteraction(e))
	}

	loaded, err := rec.LoadInteractions()
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "conv-1", loaded[0].ConversationID)
	assert.Equal(t, "Fetching mandi prices", loaded[1].Tasks)
}

func TestFileRecorderEmptyFile(t *testing.T) {
	rec, err := NewFileRecorder(filepath.Join(t.TempDir(), "turns.jsonl"))
	require.NoError(t, err)

	loaded, err := rec.LoadInteractions()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
