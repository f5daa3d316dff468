package probe

import (
	"context"
	"net"
	"time"
)

// PortChecker reports whether a TCP connection to host:port can be opened.
type PortChecker struct {
	Dialer *net.Dialer
}

func NewPortChecker(timeout time.Duration) *PortChecker {
	return &PortChecker{Dialer: &net.Dialer{Timeout: timeout}}
}

func (p *PortChecker) Check(ctx context.Context, target string) CheckResult {
	start := time.Now()
	conn, err := p.Dialer.DialContext(ctx, "tcp", target)
	latency := sinceMS(start)
	if err != nil {
		return CheckResult{Name: "PORT", Success: false, Message: err.Error(), LatencyMS: latency}
	}
	_ = conn.Close()
	return CheckResult{Name: "PORT", Success: true, Message: "connected", LatencyMS: latency}
}
