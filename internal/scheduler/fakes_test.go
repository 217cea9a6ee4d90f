package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/hamed0406/mcstatus/internal/domain"
	"github.com/hamed0406/mcstatus/internal/notify"
	"github.com/hamed0406/mcstatus/internal/repo"
	"github.com/hamed0406/mcstatus/internal/repo/memory"
)

// --- fakes ---

type fakeResolver struct {
	mu   sync.Mutex
	eps  map[string]domain.Endpoint
	seen []string
}

func (f *fakeResolver) Resolve(_ context.Context, name string) (domain.Endpoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, name)
	ep, ok := f.eps[domain.NormalizeName(name)]
	if !ok {
		return domain.Endpoint{}, fmt.Errorf("lookup %s: %w", name, domain.ErrNotFound)
	}
	return ep, nil
}

type fakeProber struct {
	mu     sync.Mutex
	online bool
	calls  int
}

func (f *fakeProber) set(online bool) {
	f.mu.Lock()
	f.online = online
	f.mu.Unlock()
}

func (f *fakeProber) Probe(_ context.Context, _ string, _ int) domain.ProbeResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.online {
		return domain.ProbeResult{Online: true, LatencyMS: 7}
	}
	return domain.ProbeResult{Reason: domain.ReasonConnectionError, Detail: "connection refused"}
}

type fakeChannel struct {
	mu        sync.Mutex
	calls     []string
	notices   []domain.Notice
	next      int
	deleteErr error
	postErr   error
}

func (f *fakeChannel) DeleteMessage(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "delete:"+id)
	return f.deleteErr
}

func (f *fakeChannel) PostMessage(_ context.Context, n domain.Notice) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, n)
	if f.postErr != nil {
		f.calls = append(f.calls, "post:error")
		return "", f.postErr
	}
	f.next++
	id := fmt.Sprintf("m%d", f.next)
	f.calls = append(f.calls, "post:"+id)
	return id, nil
}

func (f *fakeChannel) log() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return strings.Join(f.calls, ",")
}

func (f *fakeChannel) reset() {
	f.mu.Lock()
	f.calls = nil
	f.notices = nil
	f.mu.Unlock()
}

type fakeStore struct {
	mu      sync.Mutex
	rec     *domain.NotificationRecord
	saves   []*domain.NotificationRecord
	loadErr error
	saveErr error
}

func (f *fakeStore) Load(context.Context) (*domain.NotificationRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.rec == nil {
		f.rec = domain.NewRecord()
	}
	return f.rec.Clone(), nil
}

func (f *fakeStore) Save(_ context.Context, rec *domain.NotificationRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves = append(f.saves, rec.Clone())
	if f.saveErr != nil {
		return f.saveErr
	}
	f.rec = rec.Clone()
	return nil
}

func (f *fakeStore) last() *domain.NotificationRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.saves) == 0 {
		return nil
	}
	return f.saves[len(f.saves)-1]
}

var errBoom = errors.New("boom")

func channelErr(op string, code int) error {
	return &notify.ChannelError{Op: op, StatusCode: code, Body: "nope"}
}

// countingScoper records every key a store was scoped for.
type countingScoper struct {
	*memory.Store
	mu   sync.Mutex
	keys map[string]bool
}

func (c *countingScoper) Scope(name string) repo.StateStore {
	c.mu.Lock()
	c.keys[name] = true
	c.mu.Unlock()
	return c.Store.Scope(name)
}
