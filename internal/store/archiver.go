package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/BerylCAtieno/rankrent-factory/internal/artifact"
	"github.com/BerylCAtieno/rankrent-factory/internal/models"
	"github.com/google/uuid"
)

// Archiver records a finished plan and publishes its site assets.
type Archiver struct {
	plans  Store
	assets artifact.Store
}

// NewArchiver returns an Archiver. assets may be nil when only plan records
// are kept.
func NewArchiver(plans Store, assets artifact.Store) *Archiver {
	return &Archiver{plans: plans, assets: assets}
}

// Archive stores plan under a fresh id. A failed asset upload is only logged;
// the record is kept.
func (a *Archiver) Archive(ctx context.Context, plan *models.BusinessPlan) (string, error) {
	if plan == nil {
		return "", fmt.Errorf("plan is required")
	}
	id := uuid.NewString()
	rec := Record{ID: id, CreatedAt: time.Now().UTC(), Plan: plan}
	if err := a.plans.Save(ctx, rec); err != nil {
		return "", fmt.Errorf("failed to save plan: %w", err)
	}
	if a.assets != nil {
		if err := artifact.Publish(ctx, a.assets, id, plan.SiteAssets); err != nil {
			log.Printf("WARN: plan %s: %v", id, err)
		}
	}
	log.Printf("STATE: archived plan %s (%d assets)", id, len(plan.SiteAssets))
	return id, nil
}

func (a *Archiver) Plans() Store { return a.plans }

func (a *Archiver) Assets() artifact.Store { return a.assets }
