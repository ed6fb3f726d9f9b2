package usecases

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mood_journal/internal/ai"
	"mood_journal/internal/models"
)

func score(v float64) *float64 { return &v }

func TestSelectSentiment_HighestScoreWins(t *testing.T) {
	raw := json.RawMessage(`[[{"label":"NEGATIVE","score":0.0001},{"label":"POSITIVE","score":0.9998}]]`)

	label, s, err := SelectSentiment(raw, 0.9)
	require.NoError(t, err)
	assert.Equal(t, models.SentimentPositive, label)
	assert.InDelta(t, 0.9998, s, 1e-9)
}

func TestSelectSentiment_FlatShapeAndLowercaseLabel(t *testing.T) {
	raw := json.RawMessage(`[{"label":"negative","score":0.95},{"label":"positive","score":0.05}]`)

	label, _, err := SelectSentiment(raw, 0.9)
	require.NoError(t, err)
	assert.Equal(t, models.SentimentNegative, label)
}

func TestSelectSentiment_LowConfidenceIsNeutral(t *testing.T) {
	raw := json.RawMessage(`[[{"label":"POSITIVE","score":0.6},{"label":"NEGATIVE","score":0.4}]]`)

	label, s, err := SelectSentiment(raw, 0.9)
	require.NoError(t, err)
	assert.Equal(t, models.SentimentNeutral, label)
	assert.InDelta(t, 0.6, s, 1e-9)
}

func TestSelectSentiment_UnknownLabelIsNeutral(t *testing.T) {
	raw := json.RawMessage(`[[{"label":"LABEL_1","score":0.99}]]`)

	label, _, err := SelectSentiment(raw, 0.9)
	require.NoError(t, err)
	assert.Equal(t, models.SentimentNeutral, label)
}

func TestSelectSentiment_Malformed(t *testing.T) {
	cases := map[string]string{
		"object":        `{"unexpected":"data"}`,
		"empty":         `[]`,
		"empty nested":  `[[]]`,
		"missing score": `[[{"label":"POSITIVE"}]]`,
		"not json":      `oops`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := SelectSentiment(json.RawMessage(body), 0.9)
			assert.ErrorIs(t, err, ErrMalformedSentiment)
		})
	}
}

func TestExtractKeywords_DedupesInFirstSeenOrder(t *testing.T) {
	entities := []ai.Entity{
		{EntityGroup: "PER", Word: "John Doe"},
		{EntityGroup: "LOC", Word: "New York"},
		{EntityGroup: "ORG", Word: "Google"},
		{EntityGroup: "LOC", Word: "New York"},
	}

	assert.Equal(t, []string{"John Doe", "New York", "Google"}, ExtractKeywords(entities, 0.5))
}

func TestExtractKeywords_Filters(t *testing.T) {
	entities := []ai.Entity{
		{EntityGroup: "O", Word: "this"},
		{EntityGroup: "PER", Word: "##son", Score: score(0.99)},
		{EntityGroup: "ORG", Word: "Acme", Score: score(0.2)},
		{EntityGroup: "misc", Word: "  Python  ", Score: score(0.8)},
		{EntityGroup: "LOC", Word: "   "},
		{EntityGroup: "MISC", Word: "Python", Score: score(0.9)},
	}

	assert.Equal(t, []string{"Python"}, ExtractKeywords(entities, 0.5))
}

func TestExtractKeywords_NoEntitiesIsEmptyNotNil(t *testing.T) {
	kw := ExtractKeywords(nil, 0.5)
	require.NotNil(t, kw)
	assert.Empty(t, kw)
}
