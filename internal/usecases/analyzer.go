package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"mood_journal/internal/ai"
	"mood_journal/internal/models"
)

// InferenceClient is the part of ai.HuggingFaceClient the analyzer needs.
type InferenceClient interface {
	QuerySentiment(ctx context.Context, text string) (json.RawMessage, error)
	QueryEntities(ctx context.Context, text string) ([]ai.Entity, error)
}

type AnalyzerOptions struct {
	NeutralThreshold float64
	EntityMinScore   float64
	Timeout          time.Duration
}

type Analyzer struct {
	client InferenceClient
	opts   AnalyzerOptions
}

func NewAnalyzer(client InferenceClient, opts AnalyzerOptions) *Analyzer {
	return &Analyzer{client: client, opts: opts}
}

// AnalyzeContent runs sentiment and entity recognition concurrently.
// Either call failing fails the whole analysis.
func (a *Analyzer) AnalyzeContent(ctx context.Context, text string) (models.Analysis, error) {
	if a.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.Timeout)
		defer cancel()
	}

	var (
		rawSentiment json.RawMessage
		entities     []ai.Entity
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		raw, err := a.client.QuerySentiment(gctx, text)
		rawSentiment = raw
		return err
	})
	g.Go(func() error {
		ents, err := a.client.QueryEntities(gctx, text)
		entities = ents
		return err
	})
	if err := g.Wait(); err != nil {
		return models.Analysis{}, fmt.Errorf("analyze content: %w", err)
	}

	sentiment, score, err := SelectSentiment(rawSentiment, a.opts.NeutralThreshold)
	if err != nil {
		return models.Analysis{}, fmt.Errorf("analyze content: %w", err)
	}

	return models.Analysis{
		Sentiment:      sentiment,
		SentimentScore: score,
		Keywords:       ExtractKeywords(entities, a.opts.EntityMinScore),
	}, nil
}
