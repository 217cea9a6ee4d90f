package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hamed0406/mcstatus/internal/domain"
	"github.com/hamed0406/mcstatus/internal/notify"
	"github.com/hamed0406/mcstatus/internal/probe"
	"github.com/hamed0406/mcstatus/internal/repo"
)

// CheckReport is what one resolve+probe pass observed.
type CheckReport struct {
	Domain   string
	Endpoint *domain.Endpoint // nil when the SRV lookup failed
	Result   domain.ProbeResult
	Observed domain.ObservedState
	At       time.Time
}

func (r CheckReport) Resolved() bool { return r.Endpoint != nil }

// PostOutcome describes the post attempted by a cycle.
type PostOutcome struct {
	Attempted  bool   `json:"-"`
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode,omitempty"`
	MessageID  string `json:"messageId,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Outcome is the result of a notification cycle.
type Outcome struct {
	CheckReport
	CycleID  string
	Previous domain.ObservedState
	Changed  bool // the channel was updated
	Post     PostOutcome
}

// adhocSlot is the record key shared by every domain other than the
// configured one.
const adhocSlot = "*"

// StatusNotifier mirrors server state transitions into a chat channel. The
// configured domain owns one live message; all other domains share a second
// one, so the channel never holds more than two.
type StatusNotifier struct {
	log      *zap.Logger
	resolver probe.Resolver
	prober   probe.Prober
	channel  notify.Channel
	primary  repo.StateStore
	adhoc    repo.Scoper
	domain   string
	now      func() time.Time

	mu      sync.Mutex
	records map[string]*tracked
}

type tracked struct {
	mu    sync.Mutex
	store repo.StateStore
	rec   *domain.NotificationRecord
}

// NewStatusNotifier wires the notifier. primary persists the record of the
// configured domain; every other domain uses the single shared record
// scoped from adhoc.
func NewStatusNotifier(
	log *zap.Logger,
	resolver probe.Resolver,
	prober probe.Prober,
	channel notify.Channel,
	primary repo.StateStore,
	adhoc repo.Scoper,
	configured string,
) *StatusNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &StatusNotifier{
		log:      log,
		resolver: resolver,
		prober:   prober,
		channel:  channel,
		primary:  primary,
		adhoc:    adhoc,
		domain:   domain.NormalizeName(configured),
		now:      time.Now,
		records:  make(map[string]*tracked),
	}
}

// Load reads the configured domain's record ahead of the first cycle.
func (n *StatusNotifier) Load(ctx context.Context) error {
	_, err := n.track(ctx, n.domain)
	return err
}

// Snapshot returns a copy of the record held for name, if it has been loaded.
func (n *StatusNotifier) Snapshot(name string) (*domain.NotificationRecord, bool) {
	n.mu.Lock()
	t, ok := n.records[n.slot(name)]
	n.mu.Unlock()
	if !ok {
		return nil, false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rec.Clone(), true
}

// Check resolves and probes name without touching any record.
func (n *StatusNotifier) Check(ctx context.Context, name string) CheckReport {
	return n.observe(ctx, name, n.log.With(zap.String("domain", name)))
}

// NotifyNow observes name and replaces its message whatever the previous state.
func (n *StatusNotifier) NotifyNow(ctx context.Context, name string) Outcome {
	return n.RunCycle(ctx, name, true)
}

// RunCycle observes name and, if the state changed or force is set, deletes
// the previous message and posts a new one. The record is saved after the
// decision, after a successful delete, and after the post.
func (n *StatusNotifier) RunCycle(ctx context.Context, name string, force bool) Outcome {
	out := Outcome{CycleID: uuid.NewString()}
	log := n.log.With(zap.String("cycle_id", out.CycleID), zap.String("domain", name))

	out.CheckReport = n.observe(ctx, name, log)

	if !out.Resolved() && n.slot(name) == adhocSlot {
		log.Info("adhoc_unresolved_skipped")
		return out
	}

	// Once a decision is taken the cycle runs to completion.
	ctx = context.WithoutCancel(ctx)

	t, err := n.track(ctx, name)
	if err != nil {
		log.Error("state_unavailable", zap.Error(err))
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	out.Previous = t.rec.State()
	if out.Observed == out.Previous && !force {
		log.Info("no_change", zap.Stringer("state", out.Observed))
		return out
	}

	log.Info("state_changed",
		zap.Stringer("from", out.Previous),
		zap.Stringer("to", out.Observed),
		zap.Bool("forced", force),
	)
	t.rec.SetState(out.Observed)
	n.save(ctx, t, log)

	out.Changed = true
	out.Post = n.replaceMessage(ctx, t, out.CheckReport, log)
	return out
}

func (n *StatusNotifier) observe(ctx context.Context, name string, log *zap.Logger) CheckReport {
	r := CheckReport{Domain: name}
	ep, err := n.resolver.Resolve(ctx, name)
	if err != nil {
		log.Warn("srv_resolution_failed", zap.Error(err))
		r.Result = domain.ProbeResult{
			Reason: domain.ReasonResolutionFailed,
			Detail: "could not resolve SRV record",
		}
		r.Observed = domain.StateOffline
		r.At = n.now()
		return r
	}

	r.Endpoint = &ep
	r.Result = n.prober.Probe(ctx, ep.Host, ep.Port)
	r.Observed = domain.StateOf(r.Result)
	r.At = n.now()
	log.Debug("probe_done",
		zap.String("host", ep.Host),
		zap.Int("port", ep.Port),
		zap.Bool("online", r.Result.Online),
		zap.Int64("latency_ms", r.Result.LatencyMS),
		zap.String("reason", string(r.Result.Reason)),
	)
	return r
}

// replaceMessage runs delete-then-post. Caller holds t.mu.
func (n *StatusNotifier) replaceMessage(ctx context.Context, t *tracked, r CheckReport, log *zap.Logger) PostOutcome {
	old := t.rec.LiveMessage()
	if err := n.channel.DeleteMessage(ctx, old); err != nil {
		log.Warn("message_delete_failed", zap.String("message_id", old), zap.Error(err))
		t.rec.SetMessage("")
	} else {
		t.rec.SetMessage("")
		if old != "" {
			log.Info("message_deleted", zap.String("message_id", old))
			n.save(ctx, t, log)
		}
	}

	po := PostOutcome{Attempted: true}
	id, err := n.channel.PostMessage(ctx, domain.Notice{
		Domain:   r.Domain,
		Endpoint: r.Endpoint,
		Result:   r.Result,
		At:       r.At,
	})
	if err != nil {
		po.Error = err.Error()
		var ce *notify.ChannelError
		if errors.As(err, &ce) {
			po.StatusCode = ce.StatusCode
		}
		log.Warn("message_post_failed", zap.Error(err))
	} else {
		t.rec.SetMessage(id)
		po.Success = true
		po.MessageID = id
		log.Info("message_posted", zap.String("message_id", id), zap.Stringer("state", r.Observed))
	}
	n.save(ctx, t, log)
	return po
}

func (n *StatusNotifier) save(ctx context.Context, t *tracked, log *zap.Logger) {
	if err := t.store.Save(ctx, t.rec); err != nil {
		log.Error("state_save_failed", zap.Error(err))
	}
}

// slot maps a domain to its record key.
func (n *StatusNotifier) slot(name string) string {
	if key := domain.NormalizeName(name); key == n.domain {
		return key
	}
	return adhocSlot
}

// track returns the cached record for name, loading it on first use. On a
// load error the record starts fresh in memory and the error is returned.
func (n *StatusNotifier) track(ctx context.Context, name string) (*tracked, error) {
	key := n.slot(name)

	n.mu.Lock()
	defer n.mu.Unlock()
	if t, ok := n.records[key]; ok {
		return t, nil
	}

	store := n.primary
	if key == adhocSlot {
		store = n.adhoc.Scope(key)
	}
	t := &tracked{store: store}
	rec, err := store.Load(ctx)
	if err != nil || rec == nil {
		rec = domain.NewRecord()
	}
	t.rec = rec
	n.records[key] = t
	return t, err
}
