package repo

import (
	"context"

	"github.com/hamed0406/mcstatus/internal/domain"
)

// StateStore persists the notification record of one monitored domain.
// Load never returns a nil record when err is nil.
type StateStore interface {
	Load(ctx context.Context) (*domain.NotificationRecord, error)
	Save(ctx context.Context, rec *domain.NotificationRecord) error
}

// Scoper hands out a StateStore per domain for backends that hold many records.
type Scoper interface {
	Scope(domain string) StateStore
}
