//go:build integration

package postgres

// go test -tags=integration ./internal/repo/postgres -run StateRoundTrip -count=1

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/mcstatus/internal/domain"
)

func TestStateRoundTrip(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL empty")
	}

	ctx := context.Background()
	store, err := New(ctx, dsn, zap.NewNop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	// unique domain per run so reruns start from an empty row
	name := fmt.Sprintf("test-%d.example.com", time.Now().UTC().UnixNano())
	st := store.Scope(name)

	rec, err := st.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rec.MessageID != nil || rec.LastServerState != nil {
		t.Fatalf("expected fresh record, got %+v", rec)
	}

	rec.SetMessage("111")
	rec.SetState(domain.StateOffline)
	if err := st.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Scope(name).Load(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.LiveMessage() != "111" || got.State() != domain.StateOffline {
		t.Fatalf("unexpected record after reload: %+v", got)
	}

	got.SetMessage("")
	if err := st.Save(ctx, got); err != nil {
		t.Fatalf("Save cleared id: %v", err)
	}
	again, _ := st.Load(ctx)
	if again.MessageID != nil {
		t.Fatalf("expected NULL message id, got %q", again.LiveMessage())
	}
}
