package storage

import (
	"context"
	"fmt"

	"mood_journal/internal/models"
)

func (db_js *JournalStorage) Stats(ctx context.Context) (models.Stats, error) {
	op := "internal/storage/stats.go Stats"

	stats := models.Stats{SentimentBreakdown: []models.SentimentCount{}}

	err := db_js.db.QueryRow(ctx, `
	SELECT COUNT(*), COALESCE(AVG(sentiment_score), 0)
	FROM journal_entries;
	`).Scan(&stats.TotalEntries, &stats.AverageSentimentScore)
	if err != nil {
		return models.Stats{}, fmt.Errorf("Failure to count entries in %s: %w", op, err)
	}

	if stats.TotalEntries == 0 {
		return stats, nil
	}

	rows, err := db_js.db.Query(ctx, `
	SELECT sentiment, COUNT(*) AS count
	FROM journal_entries
	GROUP BY sentiment
	ORDER BY count DESC, sentiment ASC;
	`)
	if err != nil {
		return models.Stats{}, fmt.Errorf("Failure to group sentiments in %s: %w", op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			sentiment string
			count     int64
		)
		if err := rows.Scan(&sentiment, &count); err != nil {
			return models.Stats{}, fmt.Errorf("Failure to Scan sentiments in %s: %w", op, err)
		}
		stats.SentimentBreakdown = append(stats.SentimentBreakdown, models.SentimentCount{
			Sentiment:  models.Sentiment(sentiment),
			Count:      count,
			Percentage: percentage(count, stats.TotalEntries),
		})
	}

	if err := rows.Err(); err != nil {
		return models.Stats{}, fmt.Errorf("Failure to read sentiments in %s: %w", op, err)
	}

	return stats, nil
}

// TrendingKeywords ties on count break alphabetically so the order is stable.
func (db_js *JournalStorage) TrendingKeywords(ctx context.Context, limit int) ([]models.TrendingKeyword, error) {
	op := "internal/storage/stats.go TrendingKeywords"

	rows, err := db_js.db.Query(ctx, `
	SELECT keyword, COUNT(*) AS count
	FROM (SELECT unnest(keywords) AS keyword FROM journal_entries) AS unnested_keywords
	GROUP BY keyword
	ORDER BY count DESC, keyword ASC
	LIMIT $1;
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("Failure to get trending keywords in %s: %w", op, err)
	}
	defer rows.Close()

	keywords := []models.TrendingKeyword{}
	for rows.Next() {
		var kw models.TrendingKeyword
		if err := rows.Scan(&kw.Keyword, &kw.Count); err != nil {
			return nil, fmt.Errorf("Failure to Scan keywords in %s: %w", op, err)
		}
		keywords = append(keywords, kw)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Failure to read keywords in %s: %w", op, err)
	}

	return keywords, nil
}

func percentage(count, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}
