// Package atlas implements a client for a managed document-store HTTPS
// gateway in the Atlas Data API style: every operation is a JSON document
// POSTed to /action/{find,insertOne,updateOne,deleteOne} with an api-key
// header, and reads come back wrapped in a {"documents": [...]} envelope.
package atlas

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

	"github.com/google/uuid"

	"github.com/huskymart/huskymart/internal/metrics"
)

// Client issues document-store operations over HTTPS. It holds no mutable
// state; every call is a self-contained request, so a single Client is safe
// for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	dataSource string
	database   string
	httpClient *http.Client
	limiter    *RateLimiter
	log        *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client (and with it, the
// transport timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRateLimiter injects a limiter consulted before every request.
func WithRateLimiter(r *RateLimiter) Option {
	return func(c *Client) {
		c.limiter = r
	}
}

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// NewClient creates a Data API client rooted at baseURL, e.g.
// "https://data.mongodb-api.com/app/<app>/endpoint/data/v1".
func NewClient(baseURL, apiKey, dataSource, database string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		dataSource: dataSource,
		database:   database,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError reports a non-2xx gateway response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("data api error (status %d): %s", e.StatusCode, e.Body)
}

// payload is the request body shared by all Data API actions. Zero-valued
// optional fields are omitted so each action sees only what it expects.
type payload struct {
	DataSource string         `json:"dataSource"`
	Database   string         `json:"database"`
	Collection string         `json:"collection"`
	Filter     map[string]any `json:"filter,omitempty"`
	Update     map[string]any `json:"update,omitempty"`
	Document   any            `json:"document,omitempty"`
	Sort       map[string]any `json:"sort,omitempty"`
	Limit      int            `json:"limit,omitempty"`
}

// Find runs a filtered query and unmarshals the documents array into out,
// which must be a pointer to a slice.
func (c *Client) Find(ctx context.Context, collection string, filter map[string]any, out any) error {
	var envelope struct {
		Documents json.RawMessage `json:"documents"`
	}
	req := payload{
		DataSource: c.dataSource,
		Database:   c.database,
		Collection: collection,
		Filter:     filter,
	}
	if err := c.do(ctx, "find", req, &envelope); err != nil {
		return err
	}
	if len(envelope.Documents) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Documents, out); err != nil {
		return fmt.Errorf("decoding documents: %w", err)
	}
	return nil
}

// FindOne runs a filtered single-document query. It reports false when no
// document matched; out is only written on a match.
func (c *Client) FindOne(ctx context.Context, collection string, filter map[string]any, out any) (bool, error) {
	var envelope struct {
		Document json.RawMessage `json:"document"`
	}
	req := payload{
		DataSource: c.dataSource,
		Database:   c.database,
		Collection: collection,
		Filter:     filter,
	}
	if err := c.do(ctx, "findOne", req, &envelope); err != nil {
		return false, err
	}
	if len(envelope.Document) == 0 || string(envelope.Document) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(envelope.Document, out); err != nil {
		return false, fmt.Errorf("decoding document: %w", err)
	}
	return true, nil
}

// InsertOne persists doc and returns the store-assigned document id.
func (c *Client) InsertOne(ctx context.Context, collection string, doc any) (string, error) {
	var resp struct {
		InsertedID OID `json:"insertedId"`
	}
	req := payload{
		DataSource: c.dataSource,
		Database:   c.database,
		Collection: collection,
		Document:   doc,
	}
	if err := c.do(ctx, "insertOne", req, &resp); err != nil {
		return "", err
	}
	return string(resp.InsertedID), nil
}

// UpdateResult reports how many documents an update matched and changed.
// A conditional update that lost its predicate race reports zero matches.
type UpdateResult struct {
	MatchedCount  int `json:"matchedCount"`
	ModifiedCount int `json:"modifiedCount"`
}

// UpdateOne applies update to the single document matching filter. The
// store applies filter and update atomically, which is what makes the
// compare-and-swap pattern on top of this call sound.
func (c *Client) UpdateOne(ctx context.Context, collection string, filter, update map[string]any) (UpdateResult, error) {
	var res UpdateResult
	req := payload{
		DataSource: c.dataSource,
		Database:   c.database,
		Collection: collection,
		Filter:     filter,
		Update:     update,
	}
	if err := c.do(ctx, "updateOne", req, &res); err != nil {
		return UpdateResult{}, err
	}
	return res, nil
}

// DeleteOne removes the single document matching filter and returns the
// deleted count (0 or 1).
func (c *Client) DeleteOne(ctx context.Context, collection string, filter map[string]any) (int, error) {
	var resp struct {
		DeletedCount int `json:"deletedCount"`
	}
	req := payload{
		DataSource: c.dataSource,
		Database:   c.database,
		Collection: collection,
		Filter:     filter,
	}
	if err := c.do(ctx, "deleteOne", req, &resp); err != nil {
		return 0, err
	}
	return resp.DeletedCount, nil
}

func (c *Client) do(ctx context.Context, action string, body payload, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			if errors.Is(err, ErrQuotaExceeded) {
				metrics.StoreQuotaHits.Inc()
			}
			return fmt.Errorf("rate limit: %w", err)
		}
	}

	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling %s request: %w", action, err)
	}

	url := c.baseURL + "/action/" + action
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating %s request: %w", action, err)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("api-key", c.apiKey)
	httpReq.Header.Set("X-Request-Id", requestID)

	metrics.StoreRequestsTotal.WithLabelValues(action).Inc()
	start := time.Now()

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues(action).Inc()
		return fmt.Errorf("executing %s request: %w", action, err)
	}
	defer resp.Body.Close()

	metrics.StoreRequestDuration.WithLabelValues(action).Observe(time.Since(start).Seconds())

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues(action).Inc()
		return fmt.Errorf("reading %s response: %w", action, err)
	}

	c.log.Debug("data api call",
		"action", action,
		"collection", body.Collection,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start),
	)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		metrics.StoreErrorsTotal.WithLabelValues(action).Inc()
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decoding %s response: %w", action, err)
		}
	}

	return nil
}
