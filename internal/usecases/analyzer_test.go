package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mood_journal/internal/ai"
	"mood_journal/internal/models"
)

type fakeInference struct {
	sentiment    json.RawMessage
	sentimentErr error
	entities     []ai.Entity
	entitiesErr  error
	calls        atomic.Int32

	// barrier holds each call until the other one has started, so a
	// sequential analyzer would time out.
	barrier *sync.WaitGroup
}

func (f *fakeInference) wait(ctx context.Context) error {
	if f.barrier == nil {
		return nil
	}
	f.barrier.Done()
	done := make(chan struct{})
	go func() {
		f.barrier.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeInference) QuerySentiment(ctx context.Context, text string) (json.RawMessage, error) {
	f.calls.Add(1)
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.sentiment, f.sentimentErr
}

func (f *fakeInference) QueryEntities(ctx context.Context, text string) ([]ai.Entity, error) {
	f.calls.Add(1)
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.entities, f.entitiesErr
}

func defaultAnalyzerOptions() AnalyzerOptions {
	return AnalyzerOptions{NeutralThreshold: 0.9, EntityMinScore: 0.5, Timeout: time.Second}
}

func TestAnalyzeContent_CombinesBothModels(t *testing.T) {
	barrier := &sync.WaitGroup{}
	barrier.Add(2)
	client := &fakeInference{
		sentiment: json.RawMessage(`[[{"label":"POSITIVE","score":0.99}]]`),
		entities: []ai.Entity{
			{EntityGroup: "PER", Word: "Ada"},
			{EntityGroup: "PER", Word: "Ada"},
			{EntityGroup: "LOC", Word: "London"},
		},
		barrier: barrier,
	}

	got, err := NewAnalyzer(client, defaultAnalyzerOptions()).AnalyzeContent(context.Background(), "Ada loves London")
	require.NoError(t, err)
	assert.Equal(t, models.SentimentPositive, got.Sentiment)
	assert.InDelta(t, 0.99, got.SentimentScore, 1e-9)
	assert.Equal(t, []string{"Ada", "London"}, got.Keywords)
	assert.Equal(t, int32(2), client.calls.Load())
}

func TestAnalyzeContent_SentimentFailureFails(t *testing.T) {
	client := &fakeInference{
		sentimentErr: &ai.APIError{StatusCode: http.StatusServiceUnavailable, Attempts: 3},
		entities:     []ai.Entity{{EntityGroup: "PER", Word: "Ada"}},
	}

	_, err := NewAnalyzer(client, defaultAnalyzerOptions()).AnalyzeContent(context.Background(), "text")
	require.Error(t, err)
	assert.True(t, ai.IsAPIError(err))
}

func TestAnalyzeContent_EntityFailureFails(t *testing.T) {
	client := &fakeInference{
		sentiment:   json.RawMessage(`[[{"label":"POSITIVE","score":0.99}]]`),
		entitiesErr: errors.New("connection refused"),
	}

	_, err := NewAnalyzer(client, defaultAnalyzerOptions()).AnalyzeContent(context.Background(), "text")
	assert.ErrorContains(t, err, "connection refused")
}

func TestAnalyzeContent_MalformedSentimentFails(t *testing.T) {
	client := &fakeInference{sentiment: json.RawMessage(`{"unexpected":"data"}`)}

	_, err := NewAnalyzer(client, defaultAnalyzerOptions()).AnalyzeContent(context.Background(), "text")
	assert.ErrorIs(t, err, ErrMalformedSentiment)
}
