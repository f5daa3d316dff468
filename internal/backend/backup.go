package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/hamed0406/sitesync/internal/domain"
)

// DownloadBackup serializes every site into a versioned JSON document.
func (e *Engine) DownloadBackup(ctx context.Context) (domain.BackupPayload, error) {
	sites, err := e.GetSites(ctx)
	if err != nil {
		return domain.BackupPayload{}, err
	}
	created := e.now()
	data, err := json.MarshalIndent(domain.BackupDocument{
		Version:   domain.BackupVersion,
		CreatedAt: created,
		Sites:     sites,
	}, "", "  ")
	if err != nil {
		return domain.BackupPayload{}, fmt.Errorf("encode backup: %w", err)
	}

	return domain.BackupPayload{
		FileName: "sitesync-backup-" + created.Format("20060102T150405Z") + ".json",
		Data:     data,
		Metadata: domain.BackupMetadata{
			Version:   domain.BackupVersion,
			CreatedAt: created,
			SiteCount: len(sites),
			SizeBytes: len(data),
		},
	}, nil
}

// RestoreBackup replaces every stored site with the content of payload and
// publishes a bulk-sync event carrying the restored list.
func (e *Engine) RestoreBackup(ctx context.Context, payload domain.BackupPayload) ([]domain.Site, error) {
	const op = "restore_backup"
	sites, err := decodeBackup(payload.Data)
	if err != nil {
		e.logger.Warn("backup_rejected", zap.String("file", payload.FileName), zap.Error(err))
		return nil, &domain.ValidationError{Code: domain.CodeInvalidBackup, Op: op}
	}

	e.mu.Lock()
	err = e.store.ReplaceSites(ctx, sites)
	if err == nil {
		e.touch()
	}
	e.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	e.metrics.RecordMutation(ctx, op)
	e.logger.Info("backup_restored", zap.String("file", payload.FileName), zap.Int("sites", len(sites)))
	e.publishSync(ctx, domain.SyncEvent{
		Action:    domain.SyncBulk,
		Sites:     sites,
		Source:    domain.SourceDatabase,
		Timestamp: e.now(),
	})
	return sites, nil
}

func decodeBackup(data []byte) ([]domain.Site, error) {
	var doc domain.BackupDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if doc.Version != domain.BackupVersion {
		return nil, fmt.Errorf("unsupported version %q", doc.Version)
	}
	if doc.Sites == nil {
		return nil, fmt.Errorf("missing sites")
	}

	seen := make(map[string]struct{}, len(doc.Sites))
	for i, s := range doc.Sites {
		if strings.TrimSpace(s.Identifier) == "" || len(s.Monitors) == 0 {
			return nil, fmt.Errorf("site #%d is incomplete", i)
		}
		if _, dup := seen[s.Identifier]; dup {
			return nil, fmt.Errorf("duplicate site %s", s.Identifier)
		}
		seen[s.Identifier] = struct{}{}
		monitors := make(map[string]struct{}, len(s.Monitors))
		for _, m := range s.Monitors {
			if m.ID == "" {
				return nil, fmt.Errorf("site %s has a monitor without id", s.Identifier)
			}
			if _, dup := monitors[m.ID]; dup {
				return nil, fmt.Errorf("site %s has duplicate monitor %s", s.Identifier, m.ID)
			}
			monitors[m.ID] = struct{}{}
			if err := m.Validate(); err != nil {
				return nil, fmt.Errorf("site %s: %w", s.Identifier, err)
			}
		}
	}
	return doc.Sites, nil
}
