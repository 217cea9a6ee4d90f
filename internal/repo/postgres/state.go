package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/hamed0406/mcstatus/internal/domain"
	"github.com/hamed0406/mcstatus/internal/repo"
)

// Scope returns the state store for one domain.
func (s *Store) Scope(name string) repo.StateStore {
	return &stateStore{s: s, domain: domain.NormalizeName(name)}
}

type stateStore struct {
	s      *Store
	domain string
}

// Load returns the row for the domain, inserting a fresh one if none exists.
func (st *stateStore) Load(ctx context.Context) (*domain.NotificationRecord, error) {
	const q = `SELECT message_id, server_state, updated_at FROM notification_state WHERE domain=$1`
	var rec domain.NotificationRecord
	err := st.s.pool.QueryRow(ctx, q, st.domain).Scan(&rec.MessageID, &rec.LastServerState, &rec.LastUpdate)
	if errors.Is(err, pgx.ErrNoRows) {
		fresh := domain.NewRecord()
		if err := st.Save(ctx, fresh); err != nil {
			return nil, err
		}
		st.s.log.Info("state_created", zap.String("domain", st.domain), zap.String("backend", "postgres"))
		return fresh, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load state %s: %w", st.domain, err)
	}
	st.s.log.Info("state_loaded",
		zap.String("domain", st.domain),
		zap.String("backend", "postgres"),
		zap.String("message_id", rec.LiveMessage()),
		zap.Stringer("last_state", rec.State()),
	)
	return &rec, nil
}

// Save upserts the record, stamping LastUpdate.
func (st *stateStore) Save(ctx context.Context, rec *domain.NotificationRecord) error {
	const q = `
		INSERT INTO notification_state (domain, message_id, server_state, updated_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (domain)
		DO UPDATE SET message_id=EXCLUDED.message_id, server_state=EXCLUDED.server_state, updated_at=EXCLUDED.updated_at
	`
	rec.LastUpdate = time.Now().UTC()
	if _, err := st.s.pool.Exec(ctx, q, st.domain, rec.MessageID, rec.LastServerState, rec.LastUpdate); err != nil {
		return fmt.Errorf("save state %s: %w", st.domain, err)
	}
	return nil
}
