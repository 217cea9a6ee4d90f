package repo_test

import (
	"testing"

	"github.com/hamed0406/mcstatus/internal/repo"
	"github.com/hamed0406/mcstatus/internal/repo/file"
	"github.com/hamed0406/mcstatus/internal/repo/memory"
	pg "github.com/hamed0406/mcstatus/internal/repo/postgres"
)

// Compile-time interface satisfaction checks.
// Using external test package avoids import cycle.
func TestInterfaceSatisfaction(t *testing.T) {
	var _ repo.StateStore = file.New("state.json", nil)
	var _ repo.Scoper = memory.New()
	var _ repo.StateStore = memory.New().Scope("play.example.com")

	var _ repo.Scoper = (*pg.Store)(nil)
}
