package main

import (
	"context"
	"log"

	"github.com/BerylCAtieno/rankrent-factory/internal/a2a"
	"github.com/BerylCAtieno/rankrent-factory/internal/api"
	"github.com/BerylCAtieno/rankrent-factory/internal/artifact"
	"github.com/BerylCAtieno/rankrent-factory/internal/config"
	"github.com/BerylCAtieno/rankrent-factory/internal/planner"
	"github.com/BerylCAtieno/rankrent-factory/internal/provider"
	"github.com/BerylCAtieno/rankrent-factory/internal/session"
	"github.com/BerylCAtieno/rankrent-factory/internal/store"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// A missing key is not fatal: the planner reports it on every run.
	var llm provider.Provider
	llm, err = provider.New(ctx, cfg.Provider, cfg.APIKey)
	if err != nil {
		log.Printf("WARN: model provider unavailable: %v", err)
		llm = nil
	} else {
		defer llm.Close()
		log.Printf("Using %s model provider", llm.Name())
	}
	blueprints := planner.New(llm, cfg.Planner())

	plans, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		log.Fatalf("Failed to open plan store: %v", err)
	}
	defer plans.Close()

	var assets artifact.Store = artifact.NewMemoryStore()
	if cfg.Artifact.S3().Enabled() {
		s3, err := artifact.NewS3Store(cfg.Artifact.S3())
		if err != nil {
			log.Fatalf("Failed to create S3 artifact store: %v", err)
		}
		assets = s3
		log.Printf("Site assets published to s3 bucket %s", cfg.Artifact.Bucket)
	}
	archiver := store.NewArchiver(plans, assets)

	sessions, err := session.NewRegistry(cfg.SessionCapacity, blueprints, archiver)
	if err != nil {
		log.Fatalf("Failed to create session registry: %v", err)
	}

	a2aHandler := a2a.NewA2AHandler(blueprints, archiver, cfg.PublicURL)
	router := api.NewServer(sessions, blueprints, archiver, a2aHandler).Router()

	port := cfg.Port
	log.Printf("Rank & Rent Factory starting on port %s", port)
	log.Printf("Agent card available at: http://localhost:%s/.well-known/agent.json", port)
	log.Printf("A2A endpoint available at: http://localhost:%s%s", port, a2a.BlueprintRPC)
	log.Printf("Session API available at: http://localhost:%s/api/sessions", port)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
