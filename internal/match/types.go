package match

// Priority is the coarse relevance bucket derived from the match score.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// RawOpportunity is one procurement notice as handed over by an ingestion
// source, before any relevance judgment. IDs are caller-assigned and only
// unique per batch; collisions across independent feeds are expected.
type RawOpportunity struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Organization  string   `json:"organization"`
	Value         float64  `json:"value"`
	Currency      string   `json:"currency"`
	Deadline      string   `json:"deadline"`
	PublishedDate string   `json:"published_date,omitempty"`
	Category      string   `json:"category,omitempty"`
	SourceID      string   `json:"source_id"`
	SourceURL     string   `json:"source_url,omitempty"`
	Requirements  []string `json:"requirements,omitempty"`
	Location      string   `json:"location,omitempty"`
}

// MatchedOpportunity augments a RawOpportunity with the scoring verdict.
// It is derived, stateless and recomputed from scratch on every pass.
type MatchedOpportunity struct {
	RawOpportunity
	MatchScore      int      `json:"match_score"`
	MatchedServices []string `json:"matched_services"`
	MatchedKeywords []string `json:"matched_keywords"`
	RelevanceReason string   `json:"relevance_reason"`
	Priority        Priority `json:"priority"`
}
