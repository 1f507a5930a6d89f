package models

import (
	"time"

	"github.com/google/uuid"
)

// Opportunity is a stored tender notice after normalization and scoring.
// DeadlineRaw keeps the original feed text so unparseable deadlines are
// never silently lost; DeadlineAt is nil when parsing failed.
type Opportunity struct {
	ID            uuid.UUID  `json:"id"`
	ExternalID    string     `json:"external_id"`
	SourceID      string     `json:"source_id"`
	SourceURL     string     `json:"source_url"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Organization  string     `json:"organization"`
	Category      string     `json:"category"`
	Location      string     `json:"location"`
	Value         float64    `json:"value"`
	Currency      string     `json:"currency"`
	DeadlineRaw   string     `json:"deadline_raw"`
	DeadlineAt    *time.Time `json:"deadline_at"`
	PublishedDate string     `json:"published_date"`
	Requirements  []string   `json:"requirements"`

	Matched         bool     `json:"matched"`
	MatchScore      int      `json:"match_score"`
	Priority        string   `json:"priority"`
	MatchedServices []string `json:"matched_services"`
	MatchedKeywords []string `json:"matched_keywords"`
	RelevanceReason string   `json:"relevance_reason"`

	SourceRunID *string   `json:"source_run_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IngestRun records one execution of a source feed pull.
type IngestRun struct {
	RunID       uuid.UUID  `json:"run_id"`
	SourceID    string     `json:"source_id"`
	Status      string     `json:"status"` // "running", "completed", "failed"
	ItemsFound  int        `json:"items_found"`
	ItemsSaved  int        `json:"items_saved"`
	Errors      int        `json:"errors"`
	Details     string     `json:"details,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// User is an account that can track opportunities.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
