package curator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agri-curator/internal/tools"
)

func TestExtractElementJobs(t *testing.T) {
	t.Run("no highlights", func(t *testing.T) {
		jobs := extractElementJobs([]tools.Suggestion{
			{SuggestionID: "s1", Content: "Plain advice with nothing highlighted."},
		})
		assert.Empty(t, jobs)
	})

	t.Run("single highlight is an element", func(t *testing.T) {
		jobs := extractElementJobs([]tools.Suggestion{
			{SuggestionID: "s1", Content: "Consider growing **turmeric** this season."},
		})
		require.Len(t, jobs, 1)
		assert.Equal(t, "turmeric", jobs[0].name)
		assert.Equal(t, "s1", jobs[0].suggestionID)
		assert.Empty(t, jobs[0].topic, "a lone highlight has no separate topic")
	})

	t.Run("first highlight is the topic", func(t *testing.T) {
		jobs := extractElementJobs([]tools.Suggestion{
			{
				SuggestionID: "s1",
				Content:      "**Kharif plan**: sow **soybean** early and intercrop **pigeon pea**.",
			},
		})
		require.Len(t, jobs, 2)
		assert.Equal(t, "soybean", jobs[0].name)
		assert.Equal(t, "pigeon pea", jobs[1].name)
		for _, j := range jobs {
			assert.Equal(t, "Kharif plan", j.topic)
		}
	})

	t.Run("multiple suggestions", func(t *testing.T) {
		jobs := extractElementJobs([]tools.Suggestion{
			{SuggestionID: "s1", Content: "Try **drip irrigation**."},
			{SuggestionID: "s2", Content: "**Rabi crops**: **wheat** and **mustard**."},
		})
		require.Len(t, jobs, 3)
		assert.Equal(t, "s1", jobs[0].suggestionID)
		assert.Equal(t, "s2", jobs[1].suggestionID)
		assert.Equal(t, "s2", jobs[2].suggestionID)
	})
}

func TestFilterNewJobsSkipsEnriched(t *testing.T) {
	stored := []tools.Suggestion{
		{
			SuggestionID: "s1",
			ElementDetails: map[string]any{
				"abc123": map[string]any{"name": "soybean", "summary": "done already"},
			},
		},
	}
	jobs := []elementJob{
		{suggestionID: "s1", name: "soybean"},
		{suggestionID: "s1", name: "pigeon pea"},
		{suggestionID: "s2", name: "soybean"}, // other suggestion, not enriched
	}

	kept := filterNewJobs(jobs, enrichedNames(stored))
	require.Len(t, kept, 2)
	assert.Equal(t, "pigeon pea", kept[0].name)
	assert.Equal(t, "s2", kept[1].suggestionID)
}

func TestEnrichedNamesHandlesStructValues(t *testing.T) {
	// details kept in process memory are structs, not decoded JSON
	stored := []tools.Suggestion{
		{
			SuggestionID: "s1",
			ElementDetails: map[string]any{
				"id1": &ElementDetails{ElementID: "id1", Name: "wheat"},
			},
		},
	}
	done := enrichedNames(stored)
	assert.True(t, done["s1"]["wheat"])
}

func TestGroupBySuggestion(t *testing.T) {
	jobs := []elementJob{
		{suggestionID: "s1", name: "soybean"},
		{suggestionID: "s1", name: "pigeon pea"},
		{suggestionID: "s2", name: "wheat"},
	}
	results := []*ElementDetails{
		{ElementID: "e1", Name: "soybean"},
		nil, // failed element is skipped
		{ElementID: "e3", Name: "wheat"},
	}

	grouped := groupBySuggestion(jobs, results)
	require.Len(t, grouped, 2)
	require.Len(t, grouped["s1"], 1)
	assert.Equal(t, "soybean", grouped["s1"]["e1"].(*ElementDetails).Name)
	require.Len(t, grouped["s2"], 1)
	assert.Contains(t, grouped["s2"], "e3")
}

func TestGatherMergesIntoStoredDetails(t *testing.T) {
	// second enrichment pass must keep earlier details and skip
	// already-enriched elements
	log := tools.NewSuggestionDataLogger(nil)
	ctx := context.Background()

	require.NoError(t, log.Store(ctx, "conv-1", tools.Suggestion{
		SuggestionID: "s1",
		Content:      "**Kharif plan**: sow **soybean** and **pigeon pea**.",
	}))
	require.NoError(t, log.Update(ctx, "conv-1", "s1", map[string]any{
		"element_details": map[string]any{
			"e1": map[string]any{"name": "soybean", "summary": "already enriched"},
		},
	}))

	stored, err := log.Retrieve(ctx, "conv-1")
	require.NoError(t, err)
	jobs := filterNewJobs(extractElementJobs(stored), enrichedNames(stored))
	require.Len(t, jobs, 1, "only the unenriched element remains")
	assert.Equal(t, "pigeon pea", jobs[0].name)

	// persist the new element the way Gather does and check the merge
	details := groupBySuggestion(jobs, []*ElementDetails{{ElementID: "e2", Name: "pigeon pea"}})["s1"]
	for id, d := range stored[0].ElementDetails {
		if _, ok := details[id]; !ok {
			details[id] = d
		}
	}
	require.NoError(t, log.Update(ctx, "conv-1", "s1", map[string]any{"element_details": details}))

	after, err := log.Retrieve(ctx, "conv-1")
	require.NoError(t, err)
	require.Len(t, after[0].ElementDetails, 2)
	assert.Contains(t, after[0].ElementDetails, "e1")
	assert.Contains(t, after[0].ElementDetails, "e2")
}
