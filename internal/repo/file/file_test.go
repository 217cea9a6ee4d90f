package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamed0406/mcstatus/internal/domain"
)

func TestLoad_MissingFileCreatesFreshRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "message-state.json")
	s := New(path, nil)

	rec, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, rec.MessageID)
	assert.Nil(t, rec.LastServerState)

	raw, err := os.ReadFile(path)
	require.NoError(t, err, "state file should be written on first load")
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Contains(t, m, "lastMessageId")
	assert.Nil(t, m["lastMessageId"])
	assert.Nil(t, m["lastServerState"])
	assert.NotEmpty(t, m["lastUpdate"])
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	s := New(path, nil)
	fixed := time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	rec := domain.NewRecord()
	rec.SetMessage("111")
	rec.SetState(domain.StateOnline)
	require.NoError(t, s.Save(context.Background(), rec))
	assert.Equal(t, fixed, rec.LastUpdate)

	got, err := New(path, nil).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "111", got.LiveMessage())
	assert.Equal(t, domain.StateOnline, got.State())
	assert.True(t, got.LastUpdate.Equal(fixed))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestLoad_CorruptFileYieldsFreshRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	rec, err := New(path, nil).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StateUnknown, rec.State())
	assert.Empty(t, rec.LiveMessage())
}

func TestSave_UnwritableLocation(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	// parent "directory" is a regular file
	s := New(filepath.Join(blocker, "state.json"), nil)
	err := s.Save(context.Background(), domain.NewRecord())
	assert.Error(t, err)
}
