package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"mood_journal/internal/models"
)

// MemoryJournalStorage keeps entries in process memory. It backs
// STORAGE=memory for local runs without Postgres and mirrors the SQL
// ordering rules of JournalStorage.
type MemoryJournalStorage struct {
	mu      sync.RWMutex
	entries map[string]models.JournalEntry
	now     func() time.Time
}

func NewMemoryJournalStorage() *MemoryJournalStorage {
	return &MemoryJournalStorage{
		entries: make(map[string]models.JournalEntry),
		now:     time.Now,
	}
}

func (m *MemoryJournalStorage) CreateEntry(ctx context.Context, entry *models.JournalEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry.CreatedAt = m.now()
	entry.UpdatedAt = entry.CreatedAt
	entry.Keywords = cloneKeywords(entry.Keywords)
	m.entries[entry.ID] = *entry
	return nil
}

func (m *MemoryJournalStorage) GetEntry(ctx context.Context, id string) (models.JournalEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[id]
	if !ok {
		return models.JournalEntry{}, models.ErrEntryNotFound
	}
	entry.Keywords = cloneKeywords(entry.Keywords)
	return entry, nil
}

func (m *MemoryJournalStorage) ListEntries(ctx context.Context, filter models.EntryFilter) ([]models.JournalEntry, error) {
	needle := strings.ToLower(filter.Search)
	all := m.sorted(func(e models.JournalEntry) bool {
		return needle == "" || strings.Contains(strings.ToLower(e.Content), needle)
	})

	if filter.Offset >= len(all) {
		return []models.JournalEntry{}, nil
	}
	all = all[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(all) {
		all = all[:filter.Limit]
	}
	return all, nil
}

func (m *MemoryJournalStorage) ListEntriesBetween(ctx context.Context, from, to time.Time) ([]models.JournalEntry, error) {
	return m.sorted(func(e models.JournalEntry) bool {
		return !e.CreatedAt.Before(from) && !e.CreatedAt.After(to)
	}), nil
}

func (m *MemoryJournalStorage) UpdateEntry(ctx context.Context, entry *models.JournalEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.entries[entry.ID]
	if !ok {
		return models.ErrEntryNotFound
	}

	stored.Content = entry.Content
	stored.Sentiment = entry.Sentiment
	stored.SentimentScore = entry.SentimentScore
	stored.Keywords = cloneKeywords(entry.Keywords)
	stored.UpdatedAt = m.now()
	m.entries[entry.ID] = stored

	entry.CreatedAt = stored.CreatedAt
	entry.UpdatedAt = stored.UpdatedAt
	return nil
}

func (m *MemoryJournalStorage) DeleteEntry(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[id]; !ok {
		return models.ErrEntryNotFound
	}
	delete(m.entries, id)
	return nil
}

func (m *MemoryJournalStorage) Stats(ctx context.Context) (models.Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := models.Stats{
		TotalEntries:       int64(len(m.entries)),
		SentimentBreakdown: []models.SentimentCount{},
	}
	if stats.TotalEntries == 0 {
		return stats, nil
	}

	counts := make(map[models.Sentiment]int64)
	var scoreSum float64
	for _, e := range m.entries {
		counts[e.Sentiment]++
		scoreSum += e.SentimentScore
	}
	stats.AverageSentimentScore = scoreSum / float64(stats.TotalEntries)

	for sentiment, count := range counts {
		stats.SentimentBreakdown = append(stats.SentimentBreakdown, models.SentimentCount{
			Sentiment:  sentiment,
			Count:      count,
			Percentage: percentage(count, stats.TotalEntries),
		})
	}
	sort.Slice(stats.SentimentBreakdown, func(i, j int) bool {
		a, b := stats.SentimentBreakdown[i], stats.SentimentBreakdown[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Sentiment < b.Sentiment
	})

	return stats, nil
}

func (m *MemoryJournalStorage) TrendingKeywords(ctx context.Context, limit int) ([]models.TrendingKeyword, error) {
	m.mu.RLock()
	counts := make(map[string]int64)
	for _, e := range m.entries {
		for _, kw := range e.Keywords {
			counts[kw]++
		}
	}
	m.mu.RUnlock()

	keywords := make([]models.TrendingKeyword, 0, len(counts))
	for kw, count := range counts {
		keywords = append(keywords, models.TrendingKeyword{Keyword: kw, Count: count})
	}
	sort.Slice(keywords, func(i, j int) bool {
		if keywords[i].Count != keywords[j].Count {
			return keywords[i].Count > keywords[j].Count
		}
		return keywords[i].Keyword < keywords[j].Keyword
	})

	if limit > 0 && limit < len(keywords) {
		keywords = keywords[:limit]
	}
	return keywords, nil
}

// sorted returns matching entries, newest first.
func (m *MemoryJournalStorage) sorted(match func(models.JournalEntry) bool) []models.JournalEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []models.JournalEntry{}
	for _, e := range m.entries {
		if match(e) {
			e.Keywords = cloneKeywords(e.Keywords)
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func cloneKeywords(keywords []string) []string {
	out := make([]string, len(keywords))
	copy(out, keywords)
	return out
}
