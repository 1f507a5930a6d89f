package ingest

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkamau/tender-radar/internal/db"
	"github.com/mkamau/tender-radar/internal/match"
	"github.com/mkamau/tender-radar/internal/models"
)

type Pipeline struct {
	Store    *db.Store
	Registry *Registry
	Profile  *match.Profile
}

func NewPipeline(pool *pgxpool.Pool, registry *Registry, profile *match.Profile) *Pipeline {
	return &Pipeline{
		Store:    db.NewStore(pool),
		Registry: registry,
		Profile:  profile,
	}
}

// IngestSource pulls one configured feed, normalizes and scores its records,
// and saves everything. Records that fail normalization are counted as
// errors and skipped; one bad record never aborts the batch.
func (p *Pipeline) IngestSource(ctx context.Context, sourceID string) (IngestionStats, error) {
	cfg, err := p.Registry.Find(sourceID)
	if err != nil {
		return IngestionStats{}, err
	}

	provider, err := NewProvider(cfg)
	if err != nil {
		return IngestionStats{}, err
	}

	runID, err := p.Store.CreateIngestRun(ctx, sourceID)
	if err != nil {
		log.Printf("[Warn] Failed to create ingest run for %s: %v", sourceID, err)
	}

	start := time.Now()
	stats := IngestionStats{}

	defer func() {
		status := "completed"
		if stats.TotalSaved == 0 && stats.TotalFound > 0 {
			status = "failed"
		}
		details := fmt.Sprintf(`{"duration_ms": %d}`, time.Since(start).Milliseconds())
		if err := p.Store.CompleteIngestRun(ctx, runID, status, stats.TotalFound, stats.TotalSaved, stats.Errors, details); err != nil {
			log.Printf("Failed to update ingest run %s: %v", runID, err)
		}
	}()

	log.Printf("Starting ingestion for source: %s", sourceID)

	items, err := provider.Fetch(ctx)
	if err != nil {
		stats.Errors++
		return stats, fmt.Errorf("fetch %s: %w", sourceID, err)
	}
	stats.TotalFound = len(items)

	opportunities, skipped := FromFeedBatch(items, sourceID, cfg.DefaultCurrency)
	stats.Errors += skipped

	opportunities = match.Dedupe(opportunities)

	runIDStr := runID.String()
	for _, opp := range opportunities {
		record := toStored(opp, &runIDStr)

		if matched := match.Score(opp, p.Profile); matched != nil {
			record.Matched = true
			record.MatchScore = matched.MatchScore
			record.Priority = string(matched.Priority)
			record.MatchedServices = matched.MatchedServices
			record.MatchedKeywords = matched.MatchedKeywords
			record.RelevanceReason = matched.RelevanceReason
		}

		if _, err := p.Store.SaveOpportunity(ctx, &record); err != nil {
			log.Printf("Failed to save %q: %v", record.Title, err)
			stats.Errors++
			continue
		}
		stats.TotalSaved++
	}

	log.Printf("Ingestion complete for %s: %d/%d saved in %s",
		sourceID, stats.TotalSaved, stats.TotalFound, time.Since(start).Round(time.Millisecond))
	return stats, nil
}

// IngestAll runs every configured source in order. Errors are collected per
// source so one broken feed does not block the others.
func (p *Pipeline) IngestAll(ctx context.Context) map[string]IngestionStats {
	results := make(map[string]IngestionStats, len(p.Registry.Sources))
	for _, src := range p.Registry.Sources {
		stats, err := p.IngestSource(ctx, src.ID)
		if err != nil {
			log.Printf("Source %s failed: %v", src.ID, err)
		}
		results[src.ID] = stats
	}
	return results
}

// toStored converts a normalized record to its database shape, parsing the
// deadline once so the store can index it.
func toStored(opp match.RawOpportunity, runID *string) models.Opportunity {
	record := models.Opportunity{
		ExternalID:    opp.ID,
		SourceID:      opp.SourceID,
		SourceURL:     opp.SourceURL,
		Title:         opp.Title,
		Description:   opp.Description,
		Organization:  opp.Organization,
		Category:      opp.Category,
		Location:      opp.Location,
		Value:         opp.Value,
		Currency:      opp.Currency,
		DeadlineRaw:   opp.Deadline,
		PublishedDate: opp.PublishedDate,
		Requirements:  opp.Requirements,
		SourceRunID:   runID,
	}
	if deadline, ok := match.ParseDate(opp.Deadline); ok {
		record.DeadlineAt = &deadline
	}
	return record
}
