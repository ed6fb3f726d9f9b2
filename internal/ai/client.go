package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
)

const maxErrorBody = 4 << 10

// APIError is returned when the inference API answers with a non-success
// status that is not retried, or when every attempt was used up.
type APIError struct {
	ModelURL   string
	StatusCode int
	Message    string
	Attempts   int
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("inference api %s: status %d after %d attempt(s): %s", e.ModelURL, e.StatusCode, e.Attempts, e.Message)
	}
	return fmt.Sprintf("inference api %s: status %d after %d attempt(s)", e.ModelURL, e.StatusCode, e.Attempts)
}

type SentimentRequest struct {
	Inputs string `json:"inputs"`
}

type NERRequest struct {
	Inputs  string     `json:"inputs"`
	Options NEROptions `json:"options"`
}

type NEROptions struct {
	GroupEntities bool `json:"group_entities"`
}

type Entity struct {
	EntityGroup string   `json:"entity_group"`
	Word        string   `json:"word"`
	Score       *float64 `json:"score,omitempty"`
	Start       int      `json:"start"`
	End         int      `json:"end"`
}

type HuggingFaceClient struct {
	token        string
	sentimentURL string
	nerURL       string
	policy       RetryPolicy
	http         *http.Client
	logger       *slog.Logger
}

type Option func(*HuggingFaceClient)

func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *HuggingFaceClient) { c.policy = p }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *HuggingFaceClient) { c.http = hc }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *HuggingFaceClient) { c.logger = l }
}

func NewHuggingFaceClient(token, sentimentURL, nerURL string, opts ...Option) *HuggingFaceClient {
	c := &HuggingFaceClient{
		token:        token,
		sentimentURL: sentimentURL,
		nerURL:       nerURL,
		policy:       DefaultRetryPolicy(),
		http:         &http.Client{Timeout: 30 * time.Second},
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// QuerySentiment returns the raw classifier payload; its shape differs
// between models, so decoding is left to the caller.
func (c *HuggingFaceClient) QuerySentiment(ctx context.Context, text string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.Query(ctx, c.sentimentURL, SentimentRequest{Inputs: text}, &raw); err != nil {
		return nil, fmt.Errorf("sentiment: %w", err)
	}
	return raw, nil
}

func (c *HuggingFaceClient) QueryEntities(ctx context.Context, text string) ([]Entity, error) {
	var entities []Entity
	req := NERRequest{Inputs: text, Options: NEROptions{GroupEntities: true}}
	if err := c.Query(ctx, c.nerURL, req, &entities); err != nil {
		return nil, fmt.Errorf("ner: %w", err)
	}
	return entities, nil
}

// Query POSTs payload to modelURL and decodes the JSON answer into out,
// retrying according to the client's RetryPolicy.
func (c *HuggingFaceClient) Query(ctx context.Context, modelURL string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	attempts := 0
	return retry.Do(ctx, c.policy.backoff(), func(ctx context.Context) error {
		attempts++
		status, respBody, err := c.post(ctx, modelURL, body)
		if err != nil {
			return err
		}

		if status < 200 || status > 299 {
			apiErr := &APIError{
				ModelURL:   modelURL,
				StatusCode: status,
				Message:    upstreamMessage(respBody),
				Attempts:   attempts,
			}
			if c.policy.shouldRetry(status) {
				c.logger.WarnContext(ctx, "inference request failed, retrying",
					"url", modelURL, "status", status, "attempt", attempts)
				return retry.RetryableError(apiErr)
			}
			return apiErr
		}

		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response from %s: %w", modelURL, err)
		}
		return nil
	})
}

func (c *HuggingFaceClient) post(ctx context.Context, url string, body []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reader = io.LimitReader(resp.Body, maxErrorBody)
	}
	respBody, err := io.ReadAll(reader)
	if err != nil {
		return 0, nil, fmt.Errorf("read response from %s: %w", url, err)
	}
	return resp.StatusCode, respBody, nil
}

// upstreamMessage pulls the "error" field the inference API puts in
// failure bodies, falling back to the raw text.
func upstreamMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return string(bytes.TrimSpace(body))
}

// IsAPIError reports whether err came from a non-success inference response.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}
