package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

// JSONFeedProvider pulls a JSON array of feed items from a configured URL,
// or from a local file when feed_path is set. Feeds that need transformation
// are expected to be adapted upstream into the FeedItem shape.
type JSONFeedProvider struct {
	cfg    SourceConfig
	client *http.Client
}

func NewJSONFeedProvider(cfg SourceConfig) *JSONFeedProvider {
	timeout := time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &JSONFeedProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

func (p *JSONFeedProvider) Name() string { return p.cfg.ID }

func (p *JSONFeedProvider) Fetch(ctx context.Context) ([]FeedItem, error) {
	if p.cfg.FeedPath != "" {
		data, err := os.ReadFile(p.cfg.FeedPath)
		if err != nil {
			return nil, fmt.Errorf("source %s: read feed file: %w", p.cfg.ID, err)
		}
		return decodeFeed(p.cfg.ID, data)
	}

	if p.cfg.FeedURL == "" {
		return nil, fmt.Errorf("source %s: no feed_url or feed_path configured", p.cfg.ID)
	}

	retries := p.cfg.Fetch.MaxRetries
	if retries <= 0 {
		retries = 2
	}

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * 2 * time.Second):
			}
		}

		items, err := p.fetchOnce(ctx)
		if err == nil {
			return items, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("source %s: %w", p.cfg.ID, lastErr)
}

func (p *JSONFeedProvider) fetchOnce(ctx context.Context) ([]FeedItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.FeedURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "tender-radar/1.0")
	if p.cfg.Fetch.AcceptLanguage != "" {
		req.Header.Set("Accept-Language", p.cfg.Fetch.AcceptLanguage)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var items []FeedItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	return items, nil
}

func decodeFeed(sourceID string, data []byte) ([]FeedItem, error) {
	var items []FeedItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("source %s: decode feed: %w", sourceID, err)
	}
	return items, nil
}
