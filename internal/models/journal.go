package models

import (
	"time"
)

type Sentiment string

const (
	SentimentPositive Sentiment = "POSITIVE"
	SentimentNegative Sentiment = "NEGATIVE"
	SentimentNeutral  Sentiment = "NEUTRAL"
)

// Valid reports whether s is one of the three known labels.
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	}
	return false
}

type JournalEntry struct {
	ID             string    `json:"id" db:"id"`
	Content        string    `json:"content" db:"content"`
	Sentiment      Sentiment `json:"sentiment" db:"sentiment"`
	SentimentScore float64   `json:"sentimentScore" db:"sentiment_score"`
	Keywords       []string  `json:"keywords" db:"keywords"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// Analysis is everything derived from an entry's content.
type Analysis struct {
	Sentiment      Sentiment `json:"sentiment"`
	SentimentScore float64   `json:"sentimentScore"`
	Keywords       []string  `json:"keywords"`
}

type EntryFilter struct {
	Search string
	Limit  int
	Offset int
}
