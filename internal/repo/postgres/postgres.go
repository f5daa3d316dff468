package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/hamed0406/sitesync/internal/domain"
	"github.com/hamed0406/sitesync/internal/repo"
)

var (
	_ repo.SiteStore  = (*Store)(nil)
	_ repo.AlertStore = (*Store)(nil)
)

// Schema creates the tables used by Store. It is idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS sites (
  seq         BIGSERIAL,
  identifier  TEXT PRIMARY KEY,
  name        TEXT NOT NULL,
  monitoring  BOOLEAN NOT NULL DEFAULT false,
  monitors    JSONB NOT NULL DEFAULT '[]'::jsonb,
  updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_sites_seq ON sites (seq);

CREATE TABLE IF NOT EXISTS alerts (
  key          TEXT PRIMARY KEY,
  last_status  TEXT NOT NULL,
  last_sent_at TIMESTAMPTZ NULL
);
`

type Store struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

func New(ctx context.Context, dsn string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Store{pool: pool, log: log}, nil
}

// EnsureSchema applies Schema.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// ---- SiteStore ----

func (s *Store) ListSites(ctx context.Context) ([]domain.Site, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT identifier, name, monitoring, monitors
		   FROM sites
		  ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	defer rows.Close()

	out := []domain.Site{}
	for rows.Next() {
		site, err := scanSite(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, site)
	}
	return out, rows.Err()
}

func (s *Store) GetSite(ctx context.Context, identifier string) (*domain.Site, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT identifier, name, monitoring, monitors
		   FROM sites
		  WHERE identifier = $1`, identifier)
	site, err := scanSite(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &site, nil
}

func (s *Store) UpsertSite(ctx context.Context, site domain.Site) error {
	monitors, err := encodeMonitors(site.Monitors)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO sites (identifier, name, monitoring, monitors, updated_at)
		 VALUES ($1, $2, $3, $4::jsonb, now())
		 ON CONFLICT (identifier)
		 DO UPDATE SET name = EXCLUDED.name,
		               monitoring = EXCLUDED.monitoring,
		               monitors = EXCLUDED.monitors,
		               updated_at = EXCLUDED.updated_at`,
		site.Identifier, site.Name, site.Monitoring, monitors,
	)
	if err != nil {
		return fmt.Errorf("upsert site %s: %w", site.Identifier, err)
	}
	return nil
}

func (s *Store) DeleteSite(ctx context.Context, identifier string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sites WHERE identifier = $1`, identifier)
	if err != nil {
		return false, fmt.Errorf("delete site %s: %w", identifier, err)
	}
	return tag.RowsAffected() > 0, nil
}

// ReplaceSites swaps the whole table in one transaction, keeping the order of sites.
func (s *Store) ReplaceSites(ctx context.Context, sites []domain.Site) error {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM sites`); err != nil {
			return fmt.Errorf("clear sites: %w", err)
		}
		for _, site := range sites {
			monitors, err := encodeMonitors(site.Monitors)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO sites (identifier, name, monitoring, monitors)
				 VALUES ($1, $2, $3, $4::jsonb)`,
				site.Identifier, site.Name, site.Monitoring, monitors,
			); err != nil {
				return fmt.Errorf("insert site %s: %w", site.Identifier, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info("sites_replaced", zap.Int("count", len(sites)))
	return nil
}

func scanSite(row pgx.Row) (domain.Site, error) {
	var (
		site     domain.Site
		monitors []byte
	)
	if err := row.Scan(&site.Identifier, &site.Name, &site.Monitoring, &monitors); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Site{}, err
		}
		return domain.Site{}, fmt.Errorf("scan site: %w", err)
	}
	if err := json.Unmarshal(monitors, &site.Monitors); err != nil {
		return domain.Site{}, fmt.Errorf("decode monitors of %s: %w", site.Identifier, err)
	}
	return site, nil
}

func encodeMonitors(monitors []domain.Monitor) (string, error) {
	if monitors == nil {
		monitors = []domain.Monitor{}
	}
	b, err := json.Marshal(monitors)
	if err != nil {
		return "", fmt.Errorf("encode monitors: %w", err)
	}
	return string(b), nil
}
