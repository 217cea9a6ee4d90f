package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hamed0406/mcstatus/internal/domain"
	"github.com/hamed0406/mcstatus/internal/repo"
)

var _ repo.Scoper = (*Store)(nil)

// Store keeps notification records in process memory, keyed by domain.
type Store struct {
	mu      sync.Mutex
	records map[string]*domain.NotificationRecord
}

func New() *Store {
	return &Store{records: make(map[string]*domain.NotificationRecord)}
}

func (m *Store) Scope(name string) repo.StateStore {
	return &scoped{store: m, key: domain.NormalizeName(name)}
}

type scoped struct {
	store *Store
	key   string
}

func (s *scoped) Load(ctx context.Context) (*domain.NotificationRecord, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	rec, ok := s.store.records[s.key]
	if !ok {
		rec = domain.NewRecord()
		s.store.records[s.key] = rec
	}
	return rec.Clone(), nil
}

func (s *scoped) Save(ctx context.Context, rec *domain.NotificationRecord) error {
	rec.LastUpdate = time.Now().UTC()
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	s.store.records[s.key] = rec.Clone()
	return nil
}
