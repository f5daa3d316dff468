// Package httpclient talks to the sitesync HTTP API. Client satisfies
// repo.Backend and repo.EventChannel, so the sync core can run against a
// remote daemon.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/hamed0406/sitesync/internal/domain"
	"github.com/hamed0406/sitesync/internal/repo"
)

var (
	_ repo.Backend      = (*Client)(nil)
	_ repo.EventChannel = (*Client)(nil)
)

type Client struct {
	base   string
	key    string
	http   *http.Client
	logger *zap.Logger

	timeout      time.Duration
	retries      int
	retryWait    time.Duration
	reconnectMin time.Duration
	reconnectMax time.Duration
}

type Option func(*Client)

func WithAPIKey(key string) Option {
	return func(c *Client) { c.key = key }
}

// WithHTTPClient replaces the transport. Its Timeout must be zero or event
// streams get cut off.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTimeout bounds every non-streaming request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRetry sets how often a failed GET is retried and the first wait.
func WithRetry(retries int, wait time.Duration) Option {
	return func(c *Client) {
		c.retries = retries
		c.retryWait = wait
	}
}

// WithReconnect bounds the wait between event stream reconnects.
func WithReconnect(initial, limit time.Duration) Option {
	return func(c *Client) {
		c.reconnectMin = initial
		c.reconnectMax = limit
	}
}

func New(base string, opts ...Option) (*Client, error) {
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid API base %q", base)
	}
	c := &Client{
		base:         strings.TrimRight(base, "/"),
		http:         &http.Client{},
		logger:       zap.NewNop(),
		timeout:      10 * time.Second,
		retries:      3,
		retryWait:    200 * time.Millisecond,
		reconnectMin: 500 * time.Millisecond,
		reconnectMax: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// callError turns a non-2xx response into a *domain.BackendCallError.
func callError(op string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body errorBody
	if json.Unmarshal(raw, &body) != nil {
		body.Error = strings.TrimSpace(string(raw))
	}
	return &domain.BackendCallError{
		Op:         op,
		StatusCode: resp.StatusCode,
		Code:       body.Code,
		Message:    body.Error,
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.key != "" {
		req.Header.Set("X-API-Key", c.key)
	}
	return req, nil
}

// do sends one request and decodes a 2xx body into out (if non-nil). GETs are
// retried with exponential backoff on transport errors and 5xx answers.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return fmt.Errorf("%s: encode: %w", op, err)
		}
	}

	attempt := func() error {
		rctx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := c.newRequest(rctx, method, path, body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("%s: %w", op, err))
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			err := callError(op, resp)
			if resp.StatusCode < 500 {
				return backoff.Permanent(err)
			}
			return err
		}
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("%s: decode: %w", op, err))
		}
		return nil
	}

	if method != http.MethodGet || c.retries <= 0 {
		err := attempt()
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			return perm.Err
		}
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryWait
	b.MaxElapsedTime = 0
	b.Reset()
	return backoff.RetryNotify(attempt,
		backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.retries)), ctx),
		func(err error, wait time.Duration) {
			c.logger.Warn("request_retry", zap.String("op", op), zap.Duration("wait", wait), zap.Error(err))
		},
	)
}

func sitePath(identifier string) string {
	return "/api/sites/" + url.PathEscape(identifier)
}

func monitorPath(identifier, monitorID string) string {
	return sitePath(identifier) + "/monitors/" + url.PathEscape(monitorID)
}

// ---- SiteService ----

func (c *Client) GetSites(ctx context.Context) ([]domain.Site, error) {
	var sites []domain.Site
	if err := c.do(ctx, "get_sites", http.MethodGet, "/api/sites", nil, &sites); err != nil {
		return nil, err
	}
	if sites == nil {
		sites = []domain.Site{}
	}
	return sites, nil
}

func (c *Client) AddSite(ctx context.Context, site domain.Site) (domain.Site, error) {
	var out domain.Site
	err := c.do(ctx, "add_site", http.MethodPost, "/api/sites", site, &out)
	return out, err
}

func (c *Client) RemoveSite(ctx context.Context, identifier string) error {
	return c.do(ctx, "remove_site", http.MethodDelete, sitePath(identifier), nil, nil)
}

func (c *Client) UpdateSite(ctx context.Context, identifier string, update domain.SiteUpdate) (domain.Site, error) {
	var out domain.Site
	err := c.do(ctx, "update_site", http.MethodPatch, sitePath(identifier), update, &out)
	return out, err
}

func (c *Client) RemoveMonitor(ctx context.Context, identifier, monitorID string) (domain.Site, error) {
	var out domain.Site
	err := c.do(ctx, "remove_monitor", http.MethodDelete, monitorPath(identifier, monitorID), nil, &out)
	return out, err
}

func (c *Client) DownloadBackup(ctx context.Context) (domain.BackupPayload, error) {
	var out domain.BackupPayload
	err := c.do(ctx, "download_backup", http.MethodGet, "/api/backup", nil, &out)
	return out, err
}

func (c *Client) RestoreBackup(ctx context.Context, payload domain.BackupPayload) ([]domain.Site, error) {
	var out []domain.Site
	if err := c.do(ctx, "restore_backup", http.MethodPost, "/api/backup/restore", payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ---- MonitoringService ----

func (c *Client) StartMonitoring(ctx context.Context, identifier, monitorID string) error {
	return c.do(ctx, "start_monitoring", http.MethodPost, monitorPath(identifier, monitorID)+"/start", nil, nil)
}

func (c *Client) StopMonitoring(ctx context.Context, identifier, monitorID string) error {
	return c.do(ctx, "stop_monitoring", http.MethodPost, monitorPath(identifier, monitorID)+"/stop", nil, nil)
}

func (c *Client) StartSiteMonitoring(ctx context.Context, identifier string) error {
	return c.do(ctx, "start_site_monitoring", http.MethodPost, sitePath(identifier)+"/start", nil, nil)
}

func (c *Client) StopSiteMonitoring(ctx context.Context, identifier string) error {
	return c.do(ctx, "stop_site_monitoring", http.MethodPost, sitePath(identifier)+"/stop", nil, nil)
}

func (c *Client) CheckSiteNow(ctx context.Context, identifier, monitorID string) error {
	return c.do(ctx, "check_now", http.MethodPost, monitorPath(identifier, monitorID)+"/check", nil, nil)
}

// ---- sync ----

func (c *Client) GetSyncStatus(ctx context.Context) (domain.SyncStatusSummary, error) {
	var out domain.SyncStatusSummary
	err := c.do(ctx, "sync_status", http.MethodGet, "/api/sync/status", nil, &out)
	return out, err
}

func (c *Client) RequestFullSync(ctx context.Context) error {
	return c.do(ctx, "full_sync", http.MethodPost, "/api/sync/full", nil, nil)
}
