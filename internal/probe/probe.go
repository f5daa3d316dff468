package probe

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/hamed0406/sitesync/internal/domain"
)

// CheckResult is the unified result of a single probe.
//
// Fields:
//   - StatusCode: HTTP status code when available; 0 for transport/DNS errors.
//   - Name: which checker produced the result ("HTTP", "PORT", "DNS", ...).
type CheckResult struct {
	Name       string  `json:"name"`
	Success    bool    `json:"success"`
	Message    string  `json:"message"`
	LatencyMS  float64 `json:"latency_ms,omitempty"`
	StatusCode int     `json:"status_code,omitempty"`
}

// Checker performs a single check for a given target.
type Checker interface {
	Check(ctx context.Context, target string) CheckResult
}

// Options are the defaults ForMonitor falls back to when a monitor leaves a
// setting at zero.
type Options struct {
	Timeout      time.Duration
	RetryBackoff time.Duration
}

const (
	defaultTimeout  = 10 * time.Second
	defaultPingPort = 443
)

// ForMonitor picks the checker and target for m. Monitors with retry attempts
// get their checker wrapped in a RetryChecker.
func ForMonitor(m domain.Monitor, opts Options) (Checker, string) {
	timeout := time.Duration(m.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = opts.Timeout
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	var (
		c      Checker
		target = m.Target()
	)
	switch m.Type {
	case domain.MonitorHTTP:
		c = NewHTTPChecker(timeout)
	case domain.MonitorPort:
		c = NewPortChecker(timeout)
	case domain.MonitorDNS:
		c = NewDNSChecker(timeout)
	default:
		// ping: the host must resolve and accept a TCP connection
		port := m.Port
		if port == 0 {
			port = defaultPingPort
		}
		target = net.JoinHostPort(m.Host, strconv.Itoa(port))
		c = NewMultiChecker(NewDNSChecker(timeout), NewPortChecker(timeout))
	}

	if m.RetryAttempts > 0 {
		c = &RetryChecker{Inner: c, Attempts: m.RetryAttempts + 1, Backoff: opts.RetryBackoff}
	}
	return c, target
}

// Sample converts a result into a history entry.
func Sample(r CheckResult, at time.Time) domain.StatusSample {
	status := domain.StatusDown
	if r.Success {
		status = domain.StatusUp
	}
	return domain.StatusSample{
		Status:       status,
		ResponseTime: r.LatencyMS,
		Details:      r.Message,
		Timestamp:    at,
	}
}

func sinceMS(start time.Time) float64 {
	return time.Since(start).Seconds() * 1000
}
