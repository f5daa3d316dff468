package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hamed0406/sitesync/internal/backend"
	"github.com/hamed0406/sitesync/internal/domain"
	"github.com/hamed0406/sitesync/internal/httpapi"
	apimw "github.com/hamed0406/sitesync/internal/httpapi/middleware"
	"github.com/hamed0406/sitesync/internal/probe"
	"github.com/hamed0406/sitesync/internal/repo/memory"
)

type okChecker struct{}

func (okChecker) Check(context.Context, string) probe.CheckResult {
	return probe.CheckResult{Name: "HTTP", Success: true, StatusCode: 200, LatencyMS: 7, Message: "200 OK"}
}

func setupDaemon(t *testing.T) (*backend.Engine, string) {
	t.Helper()
	t.Setenv("LOG_DIR", t.TempDir())

	engine := backend.New(memory.New(),
		backend.WithCheckerFactory(func(m domain.Monitor) (probe.Checker, string) { return okChecker{}, m.Target() }),
	)
	api := httpapi.NewServer(zap.NewNop(), engine)
	keys := apimw.Keys{Public: []string{"pub_test"}, Admin: []string{"adm_test"}}
	ts := httptest.NewServer(api.Router(keys, nil, httpapi.Limits{
		PublicRPM: 10_000, PublicBurst: 10_000, AdminRPM: 10_000, AdminBurst: 10_000,
	}))
	t.Cleanup(func() {
		ts.Close()
		engine.Close()
	})
	return engine, ts.URL
}

func runCLI(t *testing.T, base string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(viper.New())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--api", base, "--key", "adm_test"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func site(t *testing.T, engine *backend.Engine, id string) domain.Site {
	t.Helper()
	sites, err := engine.GetSites(context.Background())
	require.NoError(t, err)
	for _, s := range sites {
		if s.Identifier == id {
			return s
		}
	}
	t.Fatalf("site %s not found", id)
	return domain.Site{}
}

func TestCLI_SiteLifecycle(t *testing.T) {
	engine, base := setupDaemon(t)

	out, err := runCLI(t, base, "add", "Shop", "--id", "shop", "--http", "shop.example.com", "--port", "db.example.com:5432", "--retries", "1")
	require.NoError(t, err)
	assert.Equal(t, "added shop (2 monitors)\n", out)

	shop := site(t, engine, "shop")
	require.Len(t, shop.Monitors, 2)
	web := shop.Monitors[0]
	assert.Equal(t, "https://shop.example.com", web.URL)
	assert.Equal(t, 1, web.RetryAttempts)

	out, err = runCLI(t, base, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "https://shop.example.com")
	assert.Contains(t, out, "db.example.com:5432")
	assert.Contains(t, out, "pending")

	out, err = runCLI(t, base, "monitor", "check", "shop", web.ID)
	require.NoError(t, err)
	assert.Equal(t, "checked shop/"+web.ID+"\n", out)
	checked, _ := site(t, engine, "shop").Monitor(web.ID)
	assert.Equal(t, domain.StatusUp, checked.Status)

	_, err = runCLI(t, base, "monitor", "timeout", "shop", web.ID, "5s")
	require.NoError(t, err)
	_, err = runCLI(t, base, "monitor", "interval", "shop", web.ID, "2m")
	require.NoError(t, err)
	_, err = runCLI(t, base, "monitor", "retries", "shop", web.ID, "3")
	require.NoError(t, err)
	tuned, _ := site(t, engine, "shop").Monitor(web.ID)
	assert.EqualValues(t, 5000, tuned.TimeoutMS)
	assert.EqualValues(t, 120000, tuned.CheckIntervalMS)
	assert.Equal(t, 3, tuned.RetryAttempts)
	assert.Equal(t, domain.StatusUp, tuned.Status, "settings keep runtime state")

	out, err = runCLI(t, base, "stop", "shop")
	require.NoError(t, err)
	assert.Equal(t, "stopped shop\n", out)
	for _, m := range site(t, engine, "shop").Monitors {
		assert.False(t, m.Monitoring)
		assert.Equal(t, domain.StatusPaused, m.Status)
	}

	out, err = runCLI(t, base, "monitor", "start", "shop", web.ID)
	require.NoError(t, err)
	assert.Equal(t, "started shop/"+web.ID+"\n", out)

	_, err = runCLI(t, base, "monitor", "remove", "shop", shop.Monitors[1].ID)
	require.NoError(t, err)
	_, err = runCLI(t, base, "monitor", "remove", "shop", web.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "last monitor")
	assert.Len(t, site(t, engine, "shop").Monitors, 1)

	out, err = runCLI(t, base, "monitor", "add", "shop", "--dns", "shop.example.com")
	require.NoError(t, err)
	assert.Equal(t, "shop now has 2 monitors\n", out)

	out, err = runCLI(t, base, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "database")

	out, err = runCLI(t, base, "remove", "shop")
	require.NoError(t, err)
	assert.Equal(t, "removed shop\n", out)

	out, err = runCLI(t, base, "list")
	require.NoError(t, err)
	assert.Equal(t, "no sites\n", out)
}

func TestCLI_BackupRoundTrip(t *testing.T) {
	engine, base := setupDaemon(t)
	_, err := runCLI(t, base, "add", "Blog", "--id", "blog", "--ping", "blog.example.com")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "backup.json")
	out, err := runCLI(t, base, "backup", "download", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path+" (1 sites")

	_, err = runCLI(t, base, "remove", "blog")
	require.NoError(t, err)

	out, err = runCLI(t, base, "backup", "restore", path)
	require.NoError(t, err)
	assert.Contains(t, out, "restored 1 sites")
	assert.Equal(t, "Blog", site(t, engine, "blog").Name)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"version":"1"`), 0o600))
	_, err = runCLI(t, base, "backup", "restore", bad)
	require.ErrorIs(t, err, domain.ErrInvalidBackup)
}

func TestCLI_Import(t *testing.T) {
	engine, base := setupDaemon(t)
	path := filepath.Join(t.TempDir(), "sites.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
sites:
  - identifier: shop
    name: Shop
    monitors:
      - type: http
        url: https://shop.example.com
        interval: 1m
        timeout: 5s
        retries: 2
  - name: Mail
    monitors:
      - type: port
        host: mail.example.com
        port: 25
`), 0o600))

	out, err := runCLI(t, base, "import", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "added shop\n")
	assert.Contains(t, out, "2 of 2 sites imported")

	m := site(t, engine, "shop").Monitors[0]
	assert.EqualValues(t, 60000, m.CheckIntervalMS)
	assert.EqualValues(t, 5000, m.TimeoutMS)
	assert.Equal(t, 2, m.RetryAttempts)

	out, err = runCLI(t, base, "import", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "skipped shop (exists)")

	sites, err := engine.GetSites(context.Background())
	require.NoError(t, err)
	assert.Len(t, sites, 3, "sites without an identifier are created again")
}

func TestCLI_RejectsBadInput(t *testing.T) {
	_, base := setupDaemon(t)

	_, err := runCLI(t, base, "add", "Shop")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no monitor given")

	_, err = runCLI(t, base, "add", "Shop", "--port", "db.example.com")
	require.Error(t, err)

	_, err = runCLI(t, base, "monitor", "check", "ghost", "web")
	require.ErrorIs(t, err, domain.ErrSiteNotFound)

	root := newRootCmd(viper.New())
	root.SetArgs([]string{"--api", base, "--key", "pub_test", "add", "Shop", "--http", "shop.example.com"})
	root.SetOut(&bytes.Buffer{})
	err = root.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FORBIDDEN")
}

func TestParseMonitor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		typ     domain.MonitorType
		raw     string
		want    domain.Monitor
		wantErr bool
	}{
		{name: "http adds scheme", typ: domain.MonitorHTTP, raw: "example.com",
			want: domain.Monitor{Type: domain.MonitorHTTP, URL: "https://example.com"}},
		{name: "http keeps scheme", typ: domain.MonitorHTTP, raw: "http://example.com/health",
			want: domain.Monitor{Type: domain.MonitorHTTP, URL: "http://example.com/health"}},
		{name: "port", typ: domain.MonitorPort, raw: "db:5432",
			want: domain.Monitor{Type: domain.MonitorPort, Host: "db", Port: 5432}},
		{name: "port out of range", typ: domain.MonitorPort, raw: "db:70000", wantErr: true},
		{name: "port missing", typ: domain.MonitorPort, raw: "db", wantErr: true},
		{name: "dns", typ: domain.MonitorDNS, raw: " example.com ",
			want: domain.Monitor{Type: domain.MonitorDNS, Host: "example.com"}},
		{name: "ping empty", typ: domain.MonitorPing, raw: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseMonitor(tt.typ, tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadSites(t *testing.T) {
	t.Parallel()

	_, err := loadSites(strings.NewReader("sites:\n  - name: A\n    colour: red\n"), 0)
	require.Error(t, err, "unknown keys are rejected")

	_, err = loadSites(strings.NewReader(""), 0)
	require.EqualError(t, err, "site file is empty")

	_, err = loadSites(strings.NewReader("sites:\n  - name: A\n    monitors:\n      - type: http\n        url: https://a\n        interval: soon\n"), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sites[0].monitors[0]: interval")

	sites, err := loadSites(strings.NewReader("sites:\n  - name: A\n    monitors:\n      - type: dns\n        host: a.example\n"), 4)
	require.NoError(t, err)
	require.Len(t, sites, 1)
	assert.Equal(t, 4, sites[0].Monitors[0].RetryAttempts)
}
