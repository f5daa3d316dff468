package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hamed0406/sitesync/internal/domain"
	"github.com/hamed0406/sitesync/internal/repo"
)

func (s *Store) Get(ctx context.Context, key string) (*repo.AlertRecord, error) {
	const q = `SELECT last_status, last_sent_at FROM alerts WHERE key=$1`
	var (
		r        repo.AlertRecord
		status   string
		lastSent *time.Time
	)
	r.Key = key
	err := s.pool.QueryRow(ctx, q, key).Scan(&status, &lastSent)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get alert %s: %w", key, err)
	}
	r.LastStatus = domain.MonitorStatus(status)
	r.LastSentAt = lastSent
	return &r, nil
}

func (s *Store) Set(ctx context.Context, key string, status domain.MonitorStatus, sentAt time.Time) error {
	const q = `
		INSERT INTO alerts (key, last_status, last_sent_at)
		VALUES ($1,$2,$3)
		ON CONFLICT (key)
		DO UPDATE SET last_status=EXCLUDED.last_status, last_sent_at=EXCLUDED.last_sent_at
	`
	var ts *time.Time
	if !sentAt.IsZero() {
		ts = &sentAt
	}
	if _, err := s.pool.Exec(ctx, q, key, string(status), ts); err != nil {
		return fmt.Errorf("set alert %s: %w", key, err)
	}
	return nil
}
