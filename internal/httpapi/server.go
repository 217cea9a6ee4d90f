package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/hamed0406/mcstatus/internal/domain"
	apimw "github.com/hamed0406/mcstatus/internal/httpapi/middleware"
	"github.com/hamed0406/mcstatus/internal/probe"
	"github.com/hamed0406/mcstatus/internal/scheduler"
)

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Monitor is the part of the status notifier the HTTP surface drives.
type Monitor interface {
	Check(ctx context.Context, name string) scheduler.CheckReport
	NotifyNow(ctx context.Context, name string) scheduler.Outcome
	Snapshot(name string) (*domain.NotificationRecord, bool)
}

type Server struct {
	Logger   *zap.Logger
	Monitor  Monitor
	Domain   string
	Interval time.Duration

	// Per-IP budget for /discord; RateRPM <= 0 disables the limit.
	RateRPM   int
	RateBurst int

	// TrustProxy takes the client address from X-Real-IP / X-Forwarded-For.
	// Only enable it behind a reverse proxy that sets those headers.
	TrustProxy bool

	// Diagnose explains a failed SRV lookup. Optional.
	Diagnose func(ctx context.Context, name string) probe.DNSStatus

	now func() time.Time
}

func NewServer(l *zap.Logger, m Monitor, configured string, interval time.Duration) *Server {
	return &Server{
		Logger:    l,
		Monitor:   m,
		Domain:    configured,
		Interval:  interval,
		RateRPM:   10,
		RateBurst: 3,
		now:       time.Now,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	if s.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(apimw.Recover(s.Logger))
	r.Use(apimw.RequestLogger(s.Logger))
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/health", s.handleHealth)
	r.Get("/status/{domain}", s.handleStatus)
	r.With(apimw.RateLimit(s.RateRPM, s.RateBurst)).Get("/discord/{domain}", s.handleDiscord)

	return r
}

func (s *Server) timestamp() string {
	return s.now().UTC().Format(timestampLayout)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"success":                 true,
		"message":                 "Webhook funcionando correctamente",
		"domain_configurado":      s.Domain,
		"intervalo_actualizacion": fmt.Sprintf("%g segundos", s.Interval.Seconds()),
		"timestamp":               s.timestamp(),
	}
	if rec, ok := s.Monitor.Snapshot(s.Domain); ok {
		resp["estado"] = map[string]any{
			"lastServerState": rec.State().String(),
			"lastMessageId":   rec.MessageID,
			"lastUpdate":      rec.LastUpdate.UTC().Format(timestampLayout),
		}
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(chi.URLParam(r, "domain"))
	rep := s.Monitor.Check(r.Context(), name)

	if !rep.Resolved() {
		resp := map[string]any{
			"success":   false,
			"message":   "could not resolve SRV record",
			"domain":    name,
			"online":    false,
			"timestamp": s.timestamp(),
		}
		if s.Diagnose != nil {
			dns := s.Diagnose(r.Context(), name)
			s.Logger.Info("dns_check",
				zap.String("domain", dns.Domain),
				zap.String("class", string(dns.Class)),
				zap.Bool("has_a_or_aaaa", dns.HasAOrAAAA),
				zap.Strings("nameservers", dns.Nameservers),
				zap.String("resolver_error", dns.ResolverError),
			)
			resp["dns"] = dns
		}
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, resp)
		return
	}

	resp := map[string]any{
		"success":   true,
		"domain":    name,
		"server":    rep.Endpoint,
		"timestamp": s.timestamp(),
	}
	for k, v := range probeFields(rep.Result) {
		resp[k] = v
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

func (s *Server) handleDiscord(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(chi.URLParam(r, "domain"))
	out := s.Monitor.NotifyNow(r.Context(), name)

	resp := map[string]any{
		"success":   out.Resolved(),
		"domain":    name,
		"discord":   out.Post,
		"timestamp": s.timestamp(),
	}
	if out.Resolved() {
		resp["message"] = "status checked and sent to Discord"
		resp["server"] = out.Endpoint
		resp["status"] = probeFields(out.Result)
	} else if out.Post.Attempted {
		resp["message"] = "could not resolve SRV record; offline status sent to Discord"
	} else {
		resp["message"] = "could not resolve SRV record; nothing sent to Discord"
	}

	s.Logger.Info("discord_on_demand",
		zap.String("domain", name),
		zap.String("cycle_id", out.CycleID),
		zap.Bool("resolved", out.Resolved()),
		zap.Bool("posted", out.Post.Success),
	)
	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

func probeFields(res domain.ProbeResult) map[string]any {
	m := map[string]any{"online": res.Online}
	if res.Online {
		m["latency"] = res.LatencyMS
		return m
	}
	if res.Detail != "" {
		m["error"] = res.Detail
	}
	if res.Reason != domain.ReasonNone {
		m["reason"] = string(res.Reason)
	}
	return m
}
