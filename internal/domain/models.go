package domain

import (
	"errors"
	"net"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound is returned when a domain has no usable SRV record.
var ErrNotFound = errors.New("srv record not found")

// NormalizeName lower-cases a domain and strips surrounding space and the
// trailing root dot, so "Play.Example.com." and "play.example.com" compare equal.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimSuffix(name, ".")
	return strings.ToLower(name)
}

// Endpoint is the host and port advertised by a _minecraft._tcp SRV record.
type Endpoint struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

func (e Endpoint) Address() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

type FailureReason string

const (
	ReasonNone             FailureReason = ""
	ReasonConnectionError  FailureReason = "connection_error"
	ReasonTimeout          FailureReason = "timeout"
	ReasonResolutionFailed FailureReason = "resolution_failed"
)

// ProbeResult is the outcome of one reachability probe.
// LatencyMS is only meaningful when Online is true; Reason only when it is false.
type ProbeResult struct {
	Online    bool          `json:"online"`
	LatencyMS int64         `json:"latency_ms"`
	Reason    FailureReason `json:"reason,omitempty"`
	Detail    string        `json:"error,omitempty"`
}

type ObservedState int

const (
	StateUnknown ObservedState = iota
	StateOnline
	StateOffline
)

func (s ObservedState) String() string {
	switch s {
	case StateOnline:
		return "ONLINE"
	case StateOffline:
		return "OFFLINE"
	default:
		return "UNKNOWN"
	}
}

// StateOf maps a probe result onto the two observable states.
func StateOf(r ProbeResult) ObservedState {
	if r.Online {
		return StateOnline
	}
	return StateOffline
}

// NotificationRecord is the persisted memory of the last notification sent
// for a domain. Nil pointers serialize as JSON null.
type NotificationRecord struct {
	MessageID       *string   `json:"lastMessageId"`
	LastServerState *bool     `json:"lastServerState"`
	LastUpdate      time.Time `json:"lastUpdate"`
}

// NewRecord returns the record used when nothing has been persisted yet.
func NewRecord() *NotificationRecord {
	return &NotificationRecord{LastUpdate: time.Now().UTC()}
}

func (r *NotificationRecord) State() ObservedState {
	if r.LastServerState == nil {
		return StateUnknown
	}
	if *r.LastServerState {
		return StateOnline
	}
	return StateOffline
}

// SetState records an observed state. StateUnknown is ignored: once a state
// has been observed the record never goes back to null.
func (r *NotificationRecord) SetState(s ObservedState) {
	switch s {
	case StateOnline:
		v := true
		r.LastServerState = &v
	case StateOffline:
		v := false
		r.LastServerState = &v
	}
}

// LiveMessage returns the id of the message currently believed to be posted,
// or "" if there is none.
func (r *NotificationRecord) LiveMessage() string {
	if r.MessageID == nil {
		return ""
	}
	return *r.MessageID
}

// SetMessage stores id as the live message; "" clears it.
func (r *NotificationRecord) SetMessage(id string) {
	if id == "" {
		r.MessageID = nil
		return
	}
	r.MessageID = &id
}

func (r *NotificationRecord) Clone() *NotificationRecord {
	c := &NotificationRecord{LastUpdate: r.LastUpdate}
	if r.MessageID != nil {
		id := *r.MessageID
		c.MessageID = &id
	}
	if r.LastServerState != nil {
		s := *r.LastServerState
		c.LastServerState = &s
	}
	return c
}

// Notice is everything a channel needs to render a status message.
// Endpoint is nil when the SRV lookup failed.
type Notice struct {
	Domain   string
	Endpoint *Endpoint
	Result   ProbeResult
	At       time.Time
}
