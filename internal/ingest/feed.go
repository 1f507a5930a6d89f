package ingest

import "context"

// FeedItem is one untrusted, unnormalized record as emitted by a source
// feed. Everything is string-typed because independently operated feeds
// disagree about date and amount formats; normalization happens in
// FromFeed, not here.
type FeedItem struct {
	ExternalID      string   `json:"external_id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Organization    string   `json:"organization"`
	RawValue        string   `json:"raw_value"`
	RawCurrency     string   `json:"raw_currency"`
	RawDeadline     string   `json:"raw_deadline"`
	RawPublished    string   `json:"raw_published"`
	Category        string   `json:"category"`
	SourceURL       string   `json:"source_url"`
	Requirements    []string `json:"requirements"`
	RequirementsRaw string   `json:"requirements_raw"`
	Location        string   `json:"location"`
}

// Provider supplies raw records from one source feed. Which strategy
// produced the records (API pull, file drop, static sample data) is
// irrelevant to the matching core; anything that yields FeedItems plugs
// in here.
type Provider interface {
	Name() string
	Fetch(ctx context.Context) ([]FeedItem, error)
}

// IngestionStats holds metrics about one provider run. Failures are
// surfaced to the caller instead of being silently swallowed per record.
type IngestionStats struct {
	TotalFound int `json:"total_found"`
	TotalSaved int `json:"total_saved"`
	Errors     int `json:"errors"`
}
