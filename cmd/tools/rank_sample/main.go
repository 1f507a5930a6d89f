// Scores the built-in sample feed against the default provider profile and
// prints the ranked result. Useful for eyeballing profile changes without a
// database or server.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/mkamau/tender-radar/internal/ingest"
	"github.com/mkamau/tender-radar/internal/match"
)

func main() {
	profile, err := match.LoadProfile(os.Getenv("PROFILE_PATH"))
	if err != nil {
		log.Fatalf("Failed to load provider profile: %v", err)
	}

	registry, err := ingest.LoadRegistry(os.Getenv("SOURCES_PATH"))
	if err != nil {
		log.Fatalf("Failed to load source registry: %v", err)
	}

	cfg, err := registry.Find("sample")
	if err != nil {
		log.Fatal(err)
	}
	provider, err := ingest.NewProvider(cfg)
	if err != nil {
		log.Fatal(err)
	}

	items, err := provider.Fetch(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	opportunities, skipped := ingest.FromFeedBatch(items, cfg.ID, cfg.DefaultCurrency)
	opportunities = match.Dedupe(opportunities)

	now := time.Now()
	ranked := match.RankBatch(opportunities, profile)
	summary := match.Summarize(ranked, len(items), now)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Score", "Priority", "Days Left", "Value", "Title", "Why"})

	for _, m := range ranked {
		t.AppendRow(table.Row{
			m.MatchScore,
			m.Priority,
			match.DaysUntilDeadline(m.Deadline, now),
			match.FormatValue(m.Value, m.Currency),
			m.Title,
			m.RelevanceReason,
		})
	}
	t.Render()

	fmt.Printf("\n%d fetched, %d skipped, %d matched (%d high, %d medium, %d low), %d urgent, pipeline value %s\n",
		summary.Total, skipped, summary.Matched,
		summary.ByPriority[match.PriorityHigh],
		summary.ByPriority[match.PriorityMedium],
		summary.ByPriority[match.PriorityLow],
		summary.Urgent,
		match.FormatValue(summary.TotalValue, "KES"),
	)
}
