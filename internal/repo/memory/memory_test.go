package memory

import (
	"context"
	"testing"

	"github.com/hamed0406/mcstatus/internal/domain"
)

func TestMemoryStore_LoadCreatesFreshRecord(t *testing.T) {
	ctx := context.Background()
	s := New()

	rec, err := s.Scope("play.example.com").Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rec.State() != domain.StateUnknown || rec.LiveMessage() != "" {
		t.Fatalf("expected fresh record, got %+v", rec)
	}
	if _, ok := s.records["play.example.com"]; !ok || len(s.records) != 1 {
		t.Fatalf("unexpected records: %v", s.records)
	}
}

func TestMemoryStore_ScopesAreIndependent(t *testing.T) {
	ctx := context.Background()
	s := New()

	a := s.Scope("a.example.com")
	rec, _ := a.Load(ctx)
	rec.SetMessage("111")
	rec.SetState(domain.StateOnline)
	if err := a.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// mutating the saved pointer must not leak into the store
	rec.SetMessage("999")

	got, err := s.Scope("A.Example.com.").Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.LiveMessage() != "111" || got.State() != domain.StateOnline {
		t.Fatalf("unexpected record: %+v", got)
	}

	b, _ := s.Scope("b.example.com").Load(ctx)
	if b.LiveMessage() != "" {
		t.Fatalf("scope b sees scope a's message: %q", b.LiveMessage())
	}
}
