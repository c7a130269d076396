// Package store archives generated plans so they can be listed and
// downloaded after the session that produced them is gone.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BerylCAtieno/rankrent-factory/internal/models"
)

var ErrNotFound = errors.New("plan not found")

// Record is one archived plan.
type Record struct {
	ID        string               `json:"id"`
	CreatedAt time.Time            `json:"createdAt"`
	Plan      *models.BusinessPlan `json:"plan"`
}

// Summary is the listing form of a Record.
type Summary struct {
	ID         string          `json:"id"`
	Location   string          `json:"location"`
	Niche      string          `json:"niche"`
	Language   models.Language `json:"language"`
	AssetCount int             `json:"assetCount"`
	CreatedAt  time.Time       `json:"createdAt"`
}

func summarize(r Record) Summary {
	return Summary{
		ID:         r.ID,
		Location:   r.Plan.Location,
		Niche:      r.Plan.Niche,
		Language:   r.Plan.Language,
		AssetCount: len(r.Plan.SiteAssets),
		CreatedAt:  r.CreatedAt,
	}
}

// Store persists plan records. List returns newest first.
type Store interface {
	Save(ctx context.Context, rec Record) error
	Get(ctx context.Context, id string) (Record, error)
	List(ctx context.Context, limit int) ([]Summary, error)
	Close() error
}

// Drivers accepted by Open.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// Open returns the store for driver. SQL drivers need a DSN.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverMemory:
		return NewMemoryStore(), nil
	case DriverSQLite:
		return OpenSQL(ctx, DriverSQLite, dsn)
	case DriverPostgres, "postgres":
		return OpenSQL(ctx, DriverPostgres, dsn)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

func validateRecord(rec Record) error {
	if strings.TrimSpace(rec.ID) == "" {
		return fmt.Errorf("plan id is required")
	}
	if rec.Plan == nil {
		return fmt.Errorf("plan is required")
	}
	return nil
}
