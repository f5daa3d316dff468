package domain

import (
	"net"
	"strconv"
	"time"
)

type MonitorType string

const (
	MonitorHTTP MonitorType = "http"
	MonitorPort MonitorType = "port"
	MonitorPing MonitorType = "ping"
	MonitorDNS  MonitorType = "dns"
)

type MonitorStatus string

const (
	StatusUp       MonitorStatus = "up"
	StatusDown     MonitorStatus = "down"
	StatusPending  MonitorStatus = "pending"
	StatusPaused   MonitorStatus = "paused"
	StatusDegraded MonitorStatus = "degraded"
)

// DefaultHistoryLimit bounds Monitor.History when the backend is not told otherwise.
const DefaultHistoryLimit = 100

// StatusSample is one entry of a monitor's history, newest first.
type StatusSample struct {
	Status       MonitorStatus `json:"status"`
	ResponseTime float64       `json:"response_time_ms"`
	Details      string        `json:"details,omitempty"`
	Timestamp    time.Time     `json:"timestamp"`
}

type Monitor struct {
	ID              string         `json:"id"`
	Type            MonitorType    `json:"type"`
	URL             string         `json:"url,omitempty"`
	Host            string         `json:"host,omitempty"`
	Port            int            `json:"port,omitempty"`
	CheckIntervalMS int64          `json:"check_interval_ms"`
	TimeoutMS       int64          `json:"timeout_ms"`
	RetryAttempts   int            `json:"retry_attempts"`
	Monitoring      bool           `json:"monitoring"`
	Status          MonitorStatus  `json:"status"`
	ResponseTime    float64        `json:"response_time_ms"`
	LastChecked     *time.Time     `json:"last_checked,omitempty"`
	History         []StatusSample `json:"history,omitempty"`
}

type Site struct {
	Identifier string    `json:"identifier"`
	Name       string    `json:"name"`
	Monitoring bool      `json:"monitoring"`
	Monitors   []Monitor `json:"monitors"`
}

// SiteUpdate carries the fields a caller wants to change; nil means unchanged.
type SiteUpdate struct {
	Name       *string   `json:"name,omitempty"`
	Monitoring *bool     `json:"monitoring,omitempty"`
	Monitors   []Monitor `json:"monitors,omitempty"`
}

// Target returns what a probe for this monitor should be pointed at.
func (m Monitor) Target() string {
	switch m.Type {
	case MonitorHTTP:
		return m.URL
	case MonitorPort:
		return net.JoinHostPort(m.Host, strconv.Itoa(m.Port))
	default:
		return m.Host
	}
}

// Validate checks the type-specific configuration of m.
func (m Monitor) Validate() error {
	bad := func() error {
		return &ValidationError{Code: CodeInvalidMonitor, Op: "validate_monitor", Monitor: m.ID}
	}
	switch m.Type {
	case MonitorHTTP:
		if m.URL == "" {
			return bad()
		}
	case MonitorPort:
		if m.Host == "" || m.Port <= 0 || m.Port > 65535 {
			return bad()
		}
	case MonitorPing, MonitorDNS:
		if m.Host == "" {
			return bad()
		}
	default:
		return bad()
	}
	if m.TimeoutMS < 0 || m.RetryAttempts < 0 || m.CheckIntervalMS < 0 {
		return bad()
	}
	return nil
}

// WithSample returns a copy of m carrying s as its current state, with s
// prepended to a history bounded by limit.
func (m Monitor) WithSample(s StatusSample, limit int) Monitor {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	n := len(m.History) + 1
	if n > limit {
		n = limit
	}
	hist := make([]StatusSample, 0, n)
	hist = append(hist, s)
	for _, h := range m.History {
		if len(hist) == n {
			break
		}
		hist = append(hist, h)
	}

	out := m.Clone()
	out.Status = s.Status
	out.ResponseTime = s.ResponseTime
	ts := s.Timestamp
	out.LastChecked = &ts
	out.History = hist
	return out
}

func (m Monitor) Clone() Monitor {
	out := m
	if m.History != nil {
		out.History = append([]StatusSample(nil), m.History...)
	}
	if m.LastChecked != nil {
		ts := *m.LastChecked
		out.LastChecked = &ts
	}
	return out
}

// Monitor looks up a monitor by id.
func (s Site) Monitor(id string) (Monitor, bool) {
	for _, m := range s.Monitors {
		if m.ID == id {
			return m, true
		}
	}
	return Monitor{}, false
}

// Clone returns a deep copy so callers can build a replacement without
// touching the committed value.
func (s Site) Clone() Site {
	out := s
	if s.Monitors != nil {
		out.Monitors = make([]Monitor, len(s.Monitors))
		for i, m := range s.Monitors {
			out.Monitors[i] = m.Clone()
		}
	}
	return out
}

// WithMonitor returns a copy of s where the monitor sharing m's id is replaced by m.
func (s Site) WithMonitor(m Monitor) Site {
	out := s.Clone()
	for i := range out.Monitors {
		if out.Monitors[i].ID == m.ID {
			out.Monitors[i] = m
			break
		}
	}
	out.Monitoring = out.AnyMonitoring()
	return out
}

// AnyMonitoring reports whether at least one monitor of s is active.
func (s Site) AnyMonitoring() bool {
	for _, m := range s.Monitors {
		if m.Monitoring {
			return true
		}
	}
	return false
}
