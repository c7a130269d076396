package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/BerylCAtieno/rankrent-factory/internal/models"
	_ "github.com/glebarez/go-sqlite"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const schemaSQL = `CREATE TABLE IF NOT EXISTS plans (
	id TEXT PRIMARY KEY,
	location TEXT NOT NULL,
	niche TEXT NOT NULL,
	language TEXT NOT NULL,
	asset_count INTEGER NOT NULL,
	created_at TEXT NOT NULL,
	plan TEXT NOT NULL
)`

// SQLStore keeps plans in one table. The same statements run on sqlite and
// postgres; placeholders are rebound for postgres.
type SQLStore struct {
	db     *sql.DB
	driver string
}

func OpenSQL(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("%s store: dsn is required", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s store: %w", driver, err)
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create plans table: %w", err)
	}
	return &SQLStore{db: db, driver: driver}, nil
}

// rebind turns ? placeholders into $n for postgres.
func (s *SQLStore) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLStore) Save(ctx context.Context, rec Record) error {
	if err := validateRecord(rec); err != nil {
		return err
	}
	body, err := json.Marshal(rec.Plan)
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	query := s.rebind(`INSERT INTO plans (id, location, niche, language, asset_count, created_at, plan)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	_, err = s.db.ExecContext(ctx, query,
		rec.ID,
		rec.Plan.Location,
		rec.Plan.Niche,
		string(rec.Plan.Language),
		len(rec.Plan.SiteAssets),
		rec.CreatedAt.UTC().Format(time.RFC3339Nano),
		string(body),
	)
	if err != nil {
		return fmt.Errorf("insert plan: %w", err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (Record, error) {
	query := s.rebind(`SELECT id, created_at, plan FROM plans WHERE id = ?`)
	var (
		rec       Record
		createdAt string
		body      string
	)
	err := s.db.QueryRowContext(ctx, query, strings.TrimSpace(id)).Scan(&rec.ID, &createdAt, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("select plan: %w", err)
	}
	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return Record{}, fmt.Errorf("parse created_at: %w", err)
	}
	var plan models.BusinessPlan
	if err := json.Unmarshal([]byte(body), &plan); err != nil {
		return Record{}, fmt.Errorf("decode plan: %w", err)
	}
	rec.Plan = &plan
	return rec, nil
}

func (s *SQLStore) List(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 100
	}
	query := s.rebind(`SELECT id, location, niche, language, asset_count, created_at
		FROM plans ORDER BY created_at DESC, id ASC LIMIT ?`)
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum       Summary
			lang      string
			createdAt string
		)
		if err := rows.Scan(&sum.ID, &sum.Location, &sum.Niche, &lang, &sum.AssetCount, &createdAt); err != nil {
			return nil, err
		}
		sum.Language = models.Language(lang)
		if sum.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
