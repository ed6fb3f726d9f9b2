package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/araddon/dateparse"
	"github.com/google/uuid"

	"mood_journal/internal/models"
)

const (
	DefaultListLimit     = 20
	MaxListLimit         = 50
	DefaultTrendingLimit = 20
	MaxTrendingLimit     = 50
)

type JournalRepository interface {
	CreateEntry(ctx context.Context, entry *models.JournalEntry) error
	GetEntry(ctx context.Context, id string) (models.JournalEntry, error)
	ListEntries(ctx context.Context, filter models.EntryFilter) ([]models.JournalEntry, error)
	ListEntriesBetween(ctx context.Context, from, to time.Time) ([]models.JournalEntry, error)
	UpdateEntry(ctx context.Context, entry *models.JournalEntry) error
	DeleteEntry(ctx context.Context, id string) error
	Stats(ctx context.Context) (models.Stats, error)
	TrendingKeywords(ctx context.Context, limit int) ([]models.TrendingKeyword, error)
}

type ContentAnalyzer interface {
	AnalyzeContent(ctx context.Context, text string) (models.Analysis, error)
}

type JournalService struct {
	repo             JournalRepository
	analyzer         ContentAnalyzer
	minContentLength int
	logger           *slog.Logger
}

func NewJournalService(repo JournalRepository, analyzer ContentAnalyzer, minContentLength int, logger *slog.Logger) *JournalService {
	if logger == nil {
		logger = slog.Default()
	}
	return &JournalService{
		repo:             repo,
		analyzer:         analyzer,
		minContentLength: minContentLength,
		logger:           logger,
	}
}

// ValidateContent trims content and checks it against the minimum length.
func ValidateContent(content string, minLength int) (string, error) {
	trimmed := strings.TrimSpace(content)
	if utf8.RuneCountInString(trimmed) < minLength {
		return "", fmt.Errorf("%w: content must be a string with at least %d characters", models.ErrInvalidContent, minLength)
	}
	return trimmed, nil
}

func (s *JournalService) CreateEntry(ctx context.Context, content string) (models.JournalEntry, error) {
	op := "usecases.CreateEntry"

	trimmed, err := ValidateContent(content, s.minContentLength)
	if err != nil {
		return models.JournalEntry{}, err
	}

	analysis, err := s.analyzer.AnalyzeContent(ctx, trimmed)
	if err != nil {
		return models.JournalEntry{}, fmt.Errorf("%s: %w", op, err)
	}

	entry := models.JournalEntry{
		ID:             uuid.NewString(),
		Content:        trimmed,
		Sentiment:      analysis.Sentiment,
		SentimentScore: analysis.SentimentScore,
		Keywords:       analysis.Keywords,
	}
	if err := s.repo.CreateEntry(ctx, &entry); err != nil {
		return models.JournalEntry{}, fmt.Errorf("%s: %w", op, err)
	}

	s.logger.InfoContext(ctx, "entry created", "id", entry.ID, "sentiment", entry.Sentiment, "keywords", len(entry.Keywords))
	return entry, nil
}

// UpdateEntry re-analyses the new content and stores content and derived
// fields together. The existence check runs first so a missing entry
// never costs an inference call.
func (s *JournalService) UpdateEntry(ctx context.Context, id, content string) (models.JournalEntry, error) {
	op := "usecases.UpdateEntry"

	trimmed, err := ValidateContent(content, s.minContentLength)
	if err != nil {
		return models.JournalEntry{}, err
	}

	existing, err := s.GetEntry(ctx, id)
	if err != nil {
		return models.JournalEntry{}, err
	}

	analysis, err := s.analyzer.AnalyzeContent(ctx, trimmed)
	if err != nil {
		return models.JournalEntry{}, fmt.Errorf("%s: %w", op, err)
	}

	existing.Content = trimmed
	existing.Sentiment = analysis.Sentiment
	existing.SentimentScore = analysis.SentimentScore
	existing.Keywords = analysis.Keywords

	if err := s.repo.UpdateEntry(ctx, &existing); err != nil {
		return models.JournalEntry{}, fmt.Errorf("%s: %w", op, err)
	}

	s.logger.InfoContext(ctx, "entry updated", "id", existing.ID, "sentiment", existing.Sentiment)
	return existing, nil
}

func (s *JournalService) GetEntry(ctx context.Context, id string) (models.JournalEntry, error) {
	if !isEntryID(id) {
		return models.JournalEntry{}, models.ErrEntryNotFound
	}
	return s.repo.GetEntry(ctx, id)
}

func (s *JournalService) DeleteEntry(ctx context.Context, id string) error {
	if !isEntryID(id) {
		return models.ErrEntryNotFound
	}
	if err := s.repo.DeleteEntry(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "entry deleted", "id", id)
	return nil
}

func (s *JournalService) ListEntries(ctx context.Context, filter models.EntryFilter) ([]models.JournalEntry, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Limit = clampLimit(filter.Limit, DefaultListLimit, MaxListLimit)
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.ListEntries(ctx, filter)
}

// EntriesBetween lists entries created in [start, end]. A date-only end
// covers that whole day.
func (s *JournalService) EntriesBetween(ctx context.Context, start, end string) ([]models.JournalEntry, error) {
	if strings.TrimSpace(start) == "" || strings.TrimSpace(end) == "" {
		return nil, fmt.Errorf("%w: both startDate and endDate query parameters are required", models.ErrInvalidDateRange)
	}

	from, err := dateparse.ParseIn(strings.TrimSpace(start), time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: bad startDate %q", models.ErrInvalidDateRange, start)
	}
	to, err := dateparse.ParseIn(strings.TrimSpace(end), time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: bad endDate %q", models.ErrInvalidDateRange, end)
	}
	if isMidnight(to) {
		to = to.Add(24*time.Hour - time.Nanosecond)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: endDate is before startDate", models.ErrInvalidDateRange)
	}

	return s.repo.ListEntriesBetween(ctx, from, to)
}

func (s *JournalService) Stats(ctx context.Context) (models.Stats, error) {
	return s.repo.Stats(ctx)
}

func (s *JournalService) TrendingKeywords(ctx context.Context, limit int) ([]models.TrendingKeyword, error) {
	return s.repo.TrendingKeywords(ctx, clampLimit(limit, DefaultTrendingLimit, MaxTrendingLimit))
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

func isEntryID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func isMidnight(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}
