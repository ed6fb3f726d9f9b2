package usecases

import (
	"encoding/json"
	"errors"
	"strings"

	"mood_journal/internal/ai"
	"mood_journal/internal/models"
)

var ErrMalformedSentiment = errors.New("malformed sentiment response")

const subwordPrefix = "##"

var keywordGroups = map[string]bool{
	"PER":  true,
	"ORG":  true,
	"LOC":  true,
	"MISC": true,
}

type labelScore struct {
	Label string   `json:"label"`
	Score *float64 `json:"score"`
}

// SelectSentiment picks the highest-scoring label from a classifier payload.
// Both the nested [[...]] and the flat [...] shapes are accepted. A winning
// score below neutralThreshold is reported as NEUTRAL.
func SelectSentiment(raw json.RawMessage, neutralThreshold float64) (models.Sentiment, float64, error) {
	candidates, err := decodeLabelScores(raw)
	if err != nil {
		return "", 0, err
	}

	best := -1
	for i, c := range candidates {
		if c.Score == nil || c.Label == "" {
			return "", 0, ErrMalformedSentiment
		}
		if best < 0 || *c.Score > *candidates[best].Score {
			best = i
		}
	}
	if best < 0 {
		return "", 0, ErrMalformedSentiment
	}

	label := models.Sentiment(strings.ToUpper(strings.TrimSpace(candidates[best].Label)))
	score := *candidates[best].Score
	if !label.Valid() || score < neutralThreshold {
		label = models.SentimentNeutral
	}
	return label, score, nil
}

func decodeLabelScores(raw json.RawMessage) ([]labelScore, error) {
	var nested [][]labelScore
	if err := json.Unmarshal(raw, &nested); err == nil {
		if len(nested) == 0 {
			return nil, ErrMalformedSentiment
		}
		return nested[0], nil
	}

	var flat []labelScore
	if err := json.Unmarshal(raw, &flat); err == nil {
		return flat, nil
	}
	return nil, ErrMalformedSentiment
}

// ExtractKeywords turns NER output into a keyword list: allowed groups only,
// no sub-word fragments, no low-confidence hits, trimmed and deduplicated in
// first-seen order. Entities without a score are kept.
func ExtractKeywords(entities []ai.Entity, minScore float64) []string {
	keywords := []string{}
	seen := make(map[string]bool)

	for _, e := range entities {
		if !keywordGroups[strings.ToUpper(e.EntityGroup)] {
			continue
		}
		if e.Score != nil && *e.Score < minScore {
			continue
		}

		word := strings.TrimSpace(e.Word)
		if word == "" || strings.HasPrefix(word, subwordPrefix) {
			continue
		}
		if seen[word] {
			continue
		}
		seen[word] = true
		keywords = append(keywords, word)
	}
	return keywords
}
