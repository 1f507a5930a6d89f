package main

import (
	"context"
	"log"
	"os"

	"github.com/mkamau/tender-radar/internal/api"
	"github.com/mkamau/tender-radar/internal/db"
	"github.com/mkamau/tender-radar/internal/ingest"
	"github.com/mkamau/tender-radar/internal/match"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	profile, err := match.LoadProfile(os.Getenv("PROFILE_PATH"))
	if err != nil {
		log.Fatalf("Failed to load provider profile: %v", err)
	}

	registry, err := ingest.LoadRegistry(os.Getenv("SOURCES_PATH"))
	if err != nil {
		log.Fatalf("Failed to load source registry: %v", err)
	}

	srv := api.NewServer(pool, registry, profile)
	log.Printf("Server starting on port %s...", port)
	if err := srv.Start(port); err != nil {
		log.Fatal(err)
	}
}
