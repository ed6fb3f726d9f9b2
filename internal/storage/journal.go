package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"mood_journal/internal/models"
)

// DBTX is satisfied by *pgxpool.Pool, pgx.Tx and pgxmock.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const entryColumns = `id::text, content, sentiment, sentiment_score, keywords, created_at, updated_at`

type JournalStorage struct {
	db DBTX
}

func NewJournalStorage(db DBTX) *JournalStorage {
	return &JournalStorage{
		db: db,
	}
}

func (db_js *JournalStorage) CreateEntry(ctx context.Context, entry *models.JournalEntry) error {
	op := "internal/storage/journal.go CreateEntry"

	sql_query := `
	INSERT INTO journal_entries
	(id, content, sentiment, sentiment_score, keywords)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING created_at, updated_at;
	`

	err := db_js.db.QueryRow(
		ctx,
		sql_query,
		entry.ID,
		entry.Content,
		string(entry.Sentiment),
		entry.SentimentScore,
		nonNil(entry.Keywords),
	).Scan(&entry.CreatedAt, &entry.UpdatedAt)

	if err != nil {
		return fmt.Errorf("Failure to create entry in %s: %w", op, err)
	}

	return nil
}

func (db_js *JournalStorage) GetEntry(ctx context.Context, id string) (models.JournalEntry, error) {
	op := "internal/storage/journal.go GetEntry"

	sql_query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE id = $1;`

	entry, err := scanEntry(db_js.db.QueryRow(ctx, sql_query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.JournalEntry{}, models.ErrEntryNotFound
	}
	if err != nil {
		return models.JournalEntry{}, fmt.Errorf("Failure to get entry in %s: %w", op, err)
	}

	return entry, nil
}

func (db_js *JournalStorage) ListEntries(ctx context.Context, filter models.EntryFilter) ([]models.JournalEntry, error) {
	op := "internal/storage/journal.go ListEntries"

	if filter.Search == "" {
		sql_query := `
		SELECT ` + entryColumns + ` FROM journal_entries
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2;
		`
		return db_js.queryEntries(ctx, op, sql_query, filter.Limit, filter.Offset)
	}

	sql_query := `
	SELECT ` + entryColumns + ` FROM journal_entries
	WHERE content ILIKE $1
	ORDER BY created_at DESC
	LIMIT $2 OFFSET $3;
	`
	return db_js.queryEntries(ctx, op, sql_query, "%"+escapeLike(filter.Search)+"%", filter.Limit, filter.Offset)
}

func (db_js *JournalStorage) ListEntriesBetween(ctx context.Context, from, to time.Time) ([]models.JournalEntry, error) {
	op := "internal/storage/journal.go ListEntriesBetween"

	sql_query := `
	SELECT ` + entryColumns + ` FROM journal_entries
	WHERE created_at >= $1 AND created_at <= $2
	ORDER BY created_at DESC;
	`
	return db_js.queryEntries(ctx, op, sql_query, from, to)
}

// UpdateEntry writes content and every derived field in one statement.
func (db_js *JournalStorage) UpdateEntry(ctx context.Context, entry *models.JournalEntry) error {
	op := "internal/storage/journal.go UpdateEntry"

	sql_query := `
	UPDATE journal_entries SET
	content = $2,
	sentiment = $3,
	sentiment_score = $4,
	keywords = $5,
	updated_at = now()
	WHERE id = $1
	RETURNING created_at, updated_at;
	`

	err := db_js.db.QueryRow(
		ctx,
		sql_query,
		entry.ID,
		entry.Content,
		string(entry.Sentiment),
		entry.SentimentScore,
		nonNil(entry.Keywords),
	).Scan(&entry.CreatedAt, &entry.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrEntryNotFound
	}
	if err != nil {
		return fmt.Errorf("Failure to update entry in %s: %w", op, err)
	}

	return nil
}

func (db_js *JournalStorage) DeleteEntry(ctx context.Context, id string) error {
	op := "internal/storage/journal.go DeleteEntry"

	tag, err := db_js.db.Exec(ctx, `DELETE FROM journal_entries WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("Failure to delete entry in %s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrEntryNotFound
	}

	return nil
}

func (db_js *JournalStorage) queryEntries(ctx context.Context, op, sql_query string, args ...any) ([]models.JournalEntry, error) {
	rows, err := db_js.db.Query(ctx, sql_query, args...)

	if err != nil {
		return nil, fmt.Errorf("Failure to get entries in %s: %w", op, err)
	}
	defer rows.Close()
	entries := []models.JournalEntry{}

	for rows.Next() {
		entry, err := scanEntry(rows)

		if err != nil {
			return nil, fmt.Errorf("Failure to Scan entries in %s: %w", op, err)
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Failure to read entries in %s: %w", op, err)
	}

	return entries, nil
}

func scanEntry(row pgx.Row) (models.JournalEntry, error) {
	var (
		entry     models.JournalEntry
		sentiment string
	)

	err := row.Scan(
		&entry.ID,
		&entry.Content,
		&sentiment,
		&entry.SentimentScore,
		&entry.Keywords, //pgx TEXT[] -> []string
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return models.JournalEntry{}, err
	}

	entry.Sentiment = models.Sentiment(sentiment)
	entry.Keywords = nonNil(entry.Keywords)
	return entry, nil
}

func nonNil(keywords []string) []string {
	if keywords == nil {
		return []string{}
	}
	return keywords
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
