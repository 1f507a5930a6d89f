package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/mkamau/tender-radar/internal/db"
)

func main() {
	ctx := context.Background()
	pool, err := db.Connect(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	store := db.NewStore(pool)
	runs, err := store.ListIngestRuns(ctx, 10)
	if err != nil {
		log.Fatal(err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Source", "Status", "Found", "Saved", "Errors", "Duration", "Started At"})

	for _, r := range runs {
		duration := "Running..."
		if r.CompletedAt != nil {
			duration = r.CompletedAt.Sub(r.StartedAt).Round(time.Second).String()
		}
		t.AppendRow(table.Row{r.SourceID, r.Status, r.ItemsFound, r.ItemsSaved, r.Errors, duration, r.StartedAt.Format("15:04:05")})
	}
	t.Render()
}
