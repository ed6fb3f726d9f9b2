package models

type SentimentCount struct {
	Sentiment  Sentiment `json:"sentiment"`
	Count      int64     `json:"count"`
	Percentage float64   `json:"percentage"`
}

type Stats struct {
	TotalEntries          int64            `json:"totalEntries"`
	SentimentBreakdown    []SentimentCount `json:"sentimentBreakdown"`
	AverageSentimentScore float64          `json:"averageSentimentScore"`
}

type TrendingKeyword struct {
	Keyword string `json:"keyword"`
	Count   int64  `json:"count"`
}
