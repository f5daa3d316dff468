package sitesync

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/hamed0406/sitesync/internal/domain"
	"github.com/hamed0406/sitesync/internal/telemetry"
)

// SanitizeSites drops malformed entries and de-duplicates by identifier,
// keeping the first occurrence and the original order. It returns at most one
// warning per kind.
func SanitizeSites(sites []domain.Site) ([]domain.Site, []domain.IntegrityWarning) {
	out := make([]domain.Site, 0, len(sites))
	seen := make(map[string]struct{}, len(sites))
	reported := make(map[string]struct{})
	var malformed, duplicates []string

	for i, s := range sites {
		if reason := malformedReason(s); reason != "" {
			malformed = append(malformed, fmt.Sprintf("#%d(%s)", i, reason))
			continue
		}
		if _, ok := seen[s.Identifier]; ok {
			if _, ok := reported[s.Identifier]; !ok {
				reported[s.Identifier] = struct{}{}
				duplicates = append(duplicates, s.Identifier)
			}
			continue
		}
		seen[s.Identifier] = struct{}{}
		out = append(out, s)
	}

	var warnings []domain.IntegrityWarning
	if len(duplicates) > 0 {
		warnings = append(warnings, domain.IntegrityWarning{Kind: domain.WarningDuplicate, Identifiers: duplicates})
	}
	if len(malformed) > 0 {
		warnings = append(warnings, domain.IntegrityWarning{Kind: domain.WarningMalformed, Identifiers: malformed})
	}
	return out, warnings
}

func malformedReason(s domain.Site) string {
	if strings.TrimSpace(s.Identifier) == "" {
		return "empty identifier"
	}
	ids := make(map[string]struct{}, len(s.Monitors))
	for _, m := range s.Monitors {
		if m.ID == "" {
			return s.Identifier + ": monitor without id"
		}
		if _, dup := ids[m.ID]; dup {
			return s.Identifier + ": duplicate monitor " + m.ID
		}
		ids[m.ID] = struct{}{}
	}
	return ""
}

func logIntegrity(ctx context.Context, logger *zap.Logger, metrics *telemetry.SyncMetrics, source string, warnings []domain.IntegrityWarning) {
	for _, w := range warnings {
		metrics.RecordIntegrityWarning(ctx, w.Kind)
		switch w.Kind {
		case domain.WarningDuplicate:
			logger.Warn("site_integrity_duplicates",
				zap.String("source", source),
				zap.Strings("duplicates", w.Identifiers),
			)
		default:
			logger.Warn("site_integrity_malformed",
				zap.String("source", source),
				zap.Strings("entries", w.Identifiers),
			)
		}
	}
}
