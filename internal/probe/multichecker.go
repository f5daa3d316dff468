package probe

import (
	"context"
	"strings"
)

// MultiChecker runs every checker against the same target in order and
// stops at the first failure. It succeeds only if all of them do.
type MultiChecker struct {
	Checkers []Checker
}

func NewMultiChecker(checkers ...Checker) *MultiChecker {
	return &MultiChecker{Checkers: checkers}
}

func (m *MultiChecker) Run(ctx context.Context, target string) []CheckResult {
	results := make([]CheckResult, 0, len(m.Checkers))
	for _, c := range m.Checkers {
		r := c.Check(ctx, target)
		results = append(results, r)
		if !r.Success {
			break
		}
	}
	return results
}

func (m *MultiChecker) Check(ctx context.Context, target string) CheckResult {
	out := CheckResult{Name: "MULTI", Success: true}
	var msgs []string
	for _, r := range m.Run(ctx, target) {
		out.LatencyMS += r.LatencyMS
		msgs = append(msgs, r.Name+": "+r.Message)
		if !r.Success {
			out.Success = false
		}
	}
	out.Message = strings.Join(msgs, "; ")
	return out
}
