package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkamau/tender-radar/internal/models"
)

var ErrNotFound = errors.New("not found")

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

type ListParams struct {
	Source       string
	Priority     string
	MatchedOnly  bool
	DeadlineDays int    // Only opportunities closing within N days
	Query        string // Substring match on title/organization
	SortBy       string // "score" (default), "deadline", "created"
	Limit        int
	Offset       int
}

type ListResult struct {
	Opportunities []models.Opportunity `json:"opportunities"`
	Total         int                  `json:"total"`
	Limit         int                  `json:"limit"`
	Offset        int                  `json:"offset"`
}

const selectCols = `id, external_id, source_id, source_url, title, description,
	organization, category, location, value, currency, deadline_raw, deadline_at,
	published_date, requirements, matched, match_score, priority, matched_services,
	matched_keywords, relevance_reason, source_run_id, created_at, updated_at`

func scanOpportunity(scan func(dest ...interface{}) error) (models.Opportunity, error) {
	var o models.Opportunity
	var sourceURL, description, organization, category, location *string
	var deadlineRaw, publishedDate, relevanceReason *string
	var runID *uuid.UUID

	err := scan(
		&o.ID, &o.ExternalID, &o.SourceID, &sourceURL, &o.Title, &description,
		&organization, &category, &location, &o.Value, &o.Currency, &deadlineRaw, &o.DeadlineAt,
		&publishedDate, &o.Requirements, &o.Matched, &o.MatchScore, &o.Priority, &o.MatchedServices,
		&o.MatchedKeywords, &relevanceReason, &runID, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return o, err
	}

	if sourceURL != nil {
		o.SourceURL = *sourceURL
	}
	if description != nil {
		o.Description = *description
	}
	if organization != nil {
		o.Organization = *organization
	}
	if category != nil {
		o.Category = *category
	}
	if location != nil {
		o.Location = *location
	}
	if deadlineRaw != nil {
		o.DeadlineRaw = *deadlineRaw
	}
	if publishedDate != nil {
		o.PublishedDate = *publishedDate
	}
	if relevanceReason != nil {
		o.RelevanceReason = *relevanceReason
	}
	if runID != nil {
		s := runID.String()
		o.SourceRunID = &s
	}

	return o, nil
}

// SaveOpportunity upserts on (source_id, external_id) so repeated ingests of
// the same notice update it in place. Returns true when a new row was created.
func (s *Store) SaveOpportunity(ctx context.Context, o *models.Opportunity) (bool, error) {
	var created bool
	err := s.pool.QueryRow(ctx, `
		INSERT INTO opportunities (
			external_id, source_id, source_url, title, description,
			organization, category, location, value, currency,
			deadline_raw, deadline_at, published_date, requirements,
			matched, match_score, priority, matched_services,
			matched_keywords, relevance_reason, source_run_id
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21
		)
		ON CONFLICT (source_id, external_id) DO UPDATE SET
			source_url = EXCLUDED.source_url,
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			organization = EXCLUDED.organization,
			category = EXCLUDED.category,
			location = EXCLUDED.location,
			value = EXCLUDED.value,
			currency = EXCLUDED.currency,
			deadline_raw = EXCLUDED.deadline_raw,
			deadline_at = EXCLUDED.deadline_at,
			published_date = EXCLUDED.published_date,
			requirements = EXCLUDED.requirements,
			matched = EXCLUDED.matched,
			match_score = EXCLUDED.match_score,
			priority = EXCLUDED.priority,
			matched_services = EXCLUDED.matched_services,
			matched_keywords = EXCLUDED.matched_keywords,
			relevance_reason = EXCLUDED.relevance_reason,
			source_run_id = EXCLUDED.source_run_id,
			updated_at = NOW()
		RETURNING id, (created_at = updated_at)`,
		o.ExternalID, o.SourceID, o.SourceURL, o.Title, o.Description,
		o.Organization, o.Category, o.Location, o.Value, o.Currency,
		o.DeadlineRaw, o.DeadlineAt, o.PublishedDate, o.Requirements,
		o.Matched, o.MatchScore, o.Priority, o.MatchedServices,
		o.MatchedKeywords, o.RelevanceReason, o.SourceRunID,
	).Scan(&o.ID, &created)
	if err != nil {
		return false, fmt.Errorf("save opportunity %q: %w", o.ExternalID, err)
	}
	return created, nil
}

// buildListQuery assembles the WHERE and ORDER BY clauses for
// ListOpportunities. Split out so filter construction stays testable
// without a live database.
func buildListQuery(p ListParams) (whereClause, orderClause string, args []interface{}) {
	var where []string

	add := func(clause string, val interface{}) {
		args = append(args, val)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if p.MatchedOnly {
		where = append(where, "matched = TRUE")
	}
	if p.Source != "" {
		add("source_id = $%d", p.Source)
	}
	if p.Priority != "" {
		add("priority = $%d", p.Priority)
	}
	if p.DeadlineDays > 0 {
		add("deadline_at IS NOT NULL AND deadline_at >= NOW() AND deadline_at <= NOW() + make_interval(days => $%d)", p.DeadlineDays)
	}
	if p.Query != "" {
		args = append(args, p.Query)
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(title ILIKE '%%' || $%d || '%%' OR organization ILIKE '%%' || $%d || '%%')", n, n))
	}

	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	orderClause = " ORDER BY match_score DESC, deadline_at ASC NULLS LAST"
	switch p.SortBy {
	case "deadline":
		orderClause = " ORDER BY deadline_at ASC NULLS LAST, match_score DESC"
	case "created":
		orderClause = " ORDER BY created_at DESC"
	}

	return whereClause, orderClause, args
}

func (s *Store) ListOpportunities(ctx context.Context, p ListParams) (ListResult, error) {
	if p.Limit <= 0 || p.Limit > 200 {
		p.Limit = 50
	}
	if p.Offset < 0 {
		p.Offset = 0
	}

	whereClause, orderClause, args := buildListQuery(p)

	result := ListResult{Limit: p.Limit, Offset: p.Offset}
	countSQL := "SELECT COUNT(*) FROM opportunities" + whereClause
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&result.Total); err != nil {
		return result, fmt.Errorf("count opportunities: %w", err)
	}

	listArgs := append(args, p.Limit, p.Offset)
	listSQL := fmt.Sprintf("SELECT %s FROM opportunities%s%s LIMIT $%d OFFSET $%d",
		selectCols, whereClause, orderClause, len(args)+1, len(args)+2)

	rows, err := s.pool.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return result, fmt.Errorf("list opportunities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		o, err := scanOpportunity(rows.Scan)
		if err != nil {
			return result, err
		}
		result.Opportunities = append(result.Opportunities, o)
	}
	return result, rows.Err()
}

func (s *Store) GetOpportunity(ctx context.Context, id uuid.UUID) (models.Opportunity, error) {
	row := s.pool.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM opportunities WHERE id = $1", selectCols), id)
	o, err := scanOpportunity(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return o, ErrNotFound
	}
	return o, err
}

// Stats summarizes the stored corpus for the dashboard endpoint.
type Stats struct {
	Total      int            `json:"total"`
	Matched    int            `json:"matched"`
	Discarded  int            `json:"discarded"`
	ByPriority map[string]int `json:"by_priority"`
	Urgent     int            `json:"urgent"`
	TotalValue float64        `json:"total_value"`
}

func (s *Store) GetStats(ctx context.Context, urgentWindow time.Duration) (Stats, error) {
	stats := Stats{ByPriority: map[string]int{}}

	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE matched),
			COUNT(*) FILTER (WHERE matched AND deadline_at IS NOT NULL
				AND deadline_at >= NOW() AND deadline_at <= NOW() + $1::interval),
			COALESCE(SUM(value) FILTER (WHERE matched), 0)
		FROM opportunities`,
		urgentWindow,
	).Scan(&stats.Total, &stats.Matched, &stats.Urgent, &stats.TotalValue)
	if err != nil {
		return stats, fmt.Errorf("stats totals: %w", err)
	}
	stats.Discarded = stats.Total - stats.Matched

	rows, err := s.pool.Query(ctx,
		"SELECT priority, COUNT(*) FROM opportunities WHERE matched GROUP BY priority")
	if err != nil {
		return stats, fmt.Errorf("stats by priority: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var priority string
		var count int
		if err := rows.Scan(&priority, &count); err != nil {
			return stats, err
		}
		stats.ByPriority[priority] = count
	}
	return stats, rows.Err()
}

// CreateIngestRun opens a run record and returns its ID.
func (s *Store) CreateIngestRun(ctx context.Context, sourceID string) (uuid.UUID, error) {
	var runID uuid.UUID
	err := s.pool.QueryRow(ctx,
		"INSERT INTO ingest_runs (source_id, status) VALUES ($1, 'running') RETURNING run_id",
		sourceID).Scan(&runID)
	return runID, err
}

func (s *Store) CompleteIngestRun(ctx context.Context, runID uuid.UUID, status string, found, saved, errCount int, details string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE ingest_runs SET
			status = $1,
			items_found = $2,
			items_saved = $3,
			errors = $4,
			details = $5,
			completed_at = NOW()
		WHERE run_id = $6`,
		status, found, saved, errCount, details, runID)
	return err
}

func (s *Store) ListIngestRuns(ctx context.Context, limit int) ([]models.IngestRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	rows, err := s.pool.Query(ctx, `
		SELECT run_id, source_id, status, items_found, items_saved, errors,
			COALESCE(details::text, ''), started_at, completed_at
		FROM ingest_runs ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list ingest runs: %w", err)
	}
	defer rows.Close()

	var runs []models.IngestRun
	for rows.Next() {
		var r models.IngestRun
		if err := rows.Scan(&r.RunID, &r.SourceID, &r.Status, &r.ItemsFound,
			&r.ItemsSaved, &r.Errors, &r.Details, &r.StartedAt, &r.CompletedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (s *Store) CreateUser(ctx context.Context, email, passwordHash string) (models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash) VALUES ($1, $2)
		RETURNING id, email, password_hash, created_at`,
		email, passwordHash,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, created_at FROM users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, ErrNotFound
	}
	return u, err
}

func (s *Store) TrackOpportunity(ctx context.Context, userID, oppID uuid.UUID, note string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO tracked_opportunities (user_id, opportunity_id, note)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, opportunity_id) DO UPDATE SET note = EXCLUDED.note`,
		userID, oppID, note)
	return err
}

func (s *Store) UntrackOpportunity(ctx context.Context, userID, oppID uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		"DELETE FROM tracked_opportunities WHERE user_id = $1 AND opportunity_id = $2",
		userID, oppID)
	return err
}

func (s *Store) ListTracked(ctx context.Context, userID uuid.UUID) ([]models.Opportunity, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM opportunities o
		JOIN tracked_opportunities t ON t.opportunity_id = o.id
		WHERE t.user_id = $1
		ORDER BY o.match_score DESC, o.deadline_at ASC NULLS LAST`,
		qualifyCols(selectCols, "o")), userID)
	if err != nil {
		return nil, fmt.Errorf("list tracked: %w", err)
	}
	defer rows.Close()

	var out []models.Opportunity
	for rows.Next() {
		o, err := scanOpportunity(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// qualifyCols prefixes every column in a comma-separated list with a table
// alias so the list can be reused in JOIN queries.
func qualifyCols(cols, alias string) string {
	parts := strings.Split(cols, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
