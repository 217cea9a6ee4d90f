package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/mcstatus/internal/domain"
	"github.com/hamed0406/mcstatus/internal/repo"
)

var _ repo.StateStore = (*Store)(nil)

// Store keeps the notification record in a single JSON file.
type Store struct {
	path string
	log  *zap.Logger
	now  func() time.Time
}

func New(path string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{path: path, log: log, now: time.Now}
}

func (s *Store) Path() string { return s.path }

// Load reads the record. A missing file yields a fresh record that is written
// immediately; an unreadable or corrupt file yields a fresh record and is left
// for the next Save to overwrite.
func (s *Store) Load(ctx context.Context) (*domain.NotificationRecord, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		rec := domain.NewRecord()
		if err := s.Save(ctx, rec); err != nil {
			s.log.Warn("state_save_failed", zap.String("path", s.path), zap.Error(err))
		}
		s.log.Info("state_created", zap.String("path", s.path))
		return rec, nil
	}
	if err != nil {
		s.log.Error("state_load_failed", zap.String("path", s.path), zap.Error(err))
		return domain.NewRecord(), nil
	}

	var rec domain.NotificationRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		s.log.Error("state_load_failed", zap.String("path", s.path), zap.Error(err))
		return domain.NewRecord(), nil
	}
	s.log.Info("state_loaded",
		zap.String("path", s.path),
		zap.String("message_id", rec.LiveMessage()),
		zap.Stringer("last_state", rec.State()),
	)
	return &rec, nil
}

// Save overwrites the file with rec, stamping LastUpdate.
func (s *Store) Save(_ context.Context, rec *domain.NotificationRecord) error {
	rec.LastUpdate = s.now().UTC()
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := atomicWrite(s.path, data); err != nil {
		return fmt.Errorf("write state %s: %w", s.path, err)
	}
	return nil
}

// atomicWrite replaces path through a synced temp file in the same directory.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".state-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
