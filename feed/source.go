// Package feed retrieves and parses the tabular question feed, a CSV
// published from a spreadsheet. The feed is the source of truth for both
// question content and scheduling; callers re-read it rather than caching
// long-term, so a short TTL cache absorbs bursts without hiding edits.
package feed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/quizbr/quizbot/models"
)

// ErrQuestionNotFound is returned by FindByID for an unknown identifier.
var ErrQuestionNotFound = errors.New("question not found in feed")

// Source exposes the question feed to the scheduler and the command
// handlers.
type Source interface {
	FetchAll(ctx context.Context) ([]models.QuestionRecord, error)
	FindByID(ctx context.Context, id string) (models.QuestionRecord, error)
}

// Client fetches the CSV feed over HTTP.
type Client struct {
	url    string
	http   *http.Client
	ttl    time.Duration
	clock  func() time.Time
	logger *zap.Logger
	sf     singleflight.Group

	mu        sync.RWMutex
	cached    []models.QuestionRecord
	expiresAt time.Time
}

// NewClient creates a feed client. ttl of zero disables caching.
func NewClient(url string, ttl time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		url:    url,
		http:   &http.Client{Timeout: 30 * time.Second},
		ttl:    ttl,
		clock:  time.Now,
		logger: logger,
	}
}

// FetchAll returns every valid question in the feed. Invalid rows are
// skipped with a warning; they never abort the batch.
func (c *Client) FetchAll(ctx context.Context) ([]models.QuestionRecord, error) {
	now := c.clock()

	c.mu.RLock()
	if c.cached != nil && c.expiresAt.After(now) {
		records := c.cached
		c.mu.RUnlock()
		return records, nil
	}
	c.mu.RUnlock()

	// Collapse a scheduler tick and a manual command arriving together
	// into one HTTP request.
	result, err, _ := c.sf.Do("feed", func() (interface{}, error) {
		records, err := c.fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.cached = records
		c.expiresAt = c.clock().Add(c.ttl)
		c.mu.Unlock()
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.QuestionRecord), nil
}

// FindByID scans the feed for one identifier.
func (c *Client) FindByID(ctx context.Context, id string) (models.QuestionRecord, error) {
	records, err := c.FetchAll(ctx)
	if err != nil {
		return models.QuestionRecord{}, err
	}
	for _, q := range records {
		if q.ID == id {
			return q, nil
		}
	}
	return models.QuestionRecord{}, fmt.Errorf("%w: %s", ErrQuestionNotFound, id)
}

func (c *Client) fetch(ctx context.Context) ([]models.QuestionRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	records, err := parseCSV(resp.Body, c.logger)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("feed fetched", zap.Int("questions", len(records)))
	return records, nil
}
