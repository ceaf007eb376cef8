package httpserver

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/blockpanel/internal/clock"
	"github.com/MrSnakeDoc/blockpanel/internal/domain"
	"github.com/MrSnakeDoc/blockpanel/internal/events"
	"github.com/MrSnakeDoc/blockpanel/internal/httpserver/deps"
	"github.com/MrSnakeDoc/blockpanel/internal/i18n"
	"github.com/MrSnakeDoc/blockpanel/internal/logger"
	"github.com/MrSnakeDoc/blockpanel/internal/metrics"
	"github.com/MrSnakeDoc/blockpanel/internal/panel"
	"github.com/MrSnakeDoc/blockpanel/internal/registry"
	"github.com/MrSnakeDoc/blockpanel/internal/resolver"
	"github.com/MrSnakeDoc/blockpanel/internal/wizard"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type memStore struct {
	mu  sync.Mutex
	end time.Time
	ok  bool
}

func (s *memStore) LoadLockdown(context.Context) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.end, s.ok, nil
}

func (s *memStore) SaveLockdown(_ context.Context, end time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.end, s.ok = end, true
	return nil
}

func (s *memStore) ClearLockdown(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.end, s.ok = time.Time{}, false
	return nil
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type testEnv struct {
	srv    *httptest.Server
	clock  *clock.Manual
	panel  *panel.Panel
	broker *events.Broker
}

func newTestEnv(t *testing.T, mutate func(*deps.Deps)) *testEnv {
	t.Helper()

	clk := clock.NewManual(t0)
	reg := registry.New()
	require.NoError(t, reg.Load([]*domain.Application{
		domain.NewApplication("discord", "Discord", "discord.com", t0),
		domain.NewApplication("instagram", "Instagram", "instagram.com", t0),
	}))

	promReg := prometheus.NewRegistry()
	m := metrics.New(promReg)
	broker := events.NewBroker(logger.Nop())
	p := panel.New(reg,
		resolver.NewStatic(map[string]string{"telegram": "telegram.org"}, "", m),
		&memStore{},
		panel.Options{Clock: clk, Metrics: m, Publisher: broker, Ticket: func() int { return 404 }})

	d := deps.Deps{
		Logger:        logger.Nop(),
		StartTime:     t0,
		Version:       "test",
		TimeNow:       func() time.Time { return t0.Add(time.Minute) },
		Panel:         p,
		Broker:        broker,
		Redis:         pinger{},
		ResolverMode:  "static",
		DefaultLocale: i18n.RU,
		Metrics:       promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}),
		AddRateLimit:  deps.RateLimit{Burst: 100, PerMinute: 100},
		Heartbeat:     time.Hour,
	}
	if mutate != nil {
		mutate(&d)
	}

	srv := httptest.NewServer(NewRouter(d))
	t.Cleanup(func() {
		broker.Close()
		srv.Close()
		p.Close()
	})
	return &testEnv{srv: srv, clock: clk, panel: p, broker: broker}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, r)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

type appJSON struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Domain  string `json:"domain"`
	IconURL string `json:"icon_url"`
	Status  string `json:"status"`
}

type errorJSON struct {
	Error  string `json:"error"`
	Notice *struct {
		Key  string `json:"key"`
		Text string `json:"text"`
	} `json:"notice"`
}

func TestAddApplication(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.do(t, http.MethodPost, "/api/apps", `{"name":"Telegram"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	app := decode[appJSON](t, resp)
	assert.Equal(t, "Telegram", app.Name)
	assert.Equal(t, "telegram.org", app.Domain)
	assert.Equal(t, "ACTIVE", app.Status)
	assert.Equal(t, "https://www.google.com/s2/favicons?domain=telegram.org&sz=256", app.IconURL)

	resp = env.do(t, http.MethodGet, "/api/apps", "")
	apps := decode[[]appJSON](t, resp)
	require.Len(t, apps, 3)
	assert.Equal(t, "Telegram", apps[0].Name)
}

func TestAddValidation(t *testing.T) {
	env := newTestEnv(t, nil)

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/api/apps", `{"name":"   "}`).StatusCode)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/api/apps", `not json`).StatusCode)
	assert.Len(t, env.panel.Apps(), 2)
}

func TestForbiddenAddLocksDown(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.do(t, http.MethodPost, "/api/apps?lang=en", `{"name":"РОСКОМНАДЗОР"}`)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	body := decode[struct {
		Lockdown panel.LockdownView `json:"lockdown"`
	}](t, resp)
	assert.True(t, body.Lockdown.Active)
	assert.Equal(t, "15:00", body.Lockdown.Remaining)
	require.NotNil(t, body.Lockdown.Notice)
	assert.Equal(t, i18n.T(i18n.EN, i18n.LockdownAlertTrigger), body.Lockdown.Notice.Text)

	resp = env.do(t, http.MethodGet, "/api/lockdown", "")
	lv := decode[panel.LockdownView](t, resp)
	assert.True(t, lv.Active)
	assert.Equal(t, 900, lv.RemainingSeconds)

	// Unblock refused with a notice, delete silently ignored.
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/api/apps/discord/toggle", "").StatusCode)
	resp = env.do(t, http.MethodPost, "/api/apps/discord/toggle?lang=en", "")
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	e := decode[errorJSON](t, resp)
	require.NotNil(t, e.Notice)
	assert.Equal(t, string(i18n.LockdownRestrictUnblock), e.Notice.Key)
	assert.Equal(t, i18n.T(i18n.EN, i18n.LockdownRestrictUnblock), e.Notice.Text)

	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodPost, "/api/apps/instagram/delete", "").StatusCode)
	assert.False(t, env.panel.Wizard().Open)
}

func TestToggleUnknown(t *testing.T) {
	env := newTestEnv(t, nil)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPost, "/api/apps/nope/toggle", "").StatusCode)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPost, "/api/apps/nope/delete", "").StatusCode)
}

func TestWizardOverHTTP(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.do(t, http.MethodPost, "/api/apps/discord/delete", "")
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	snap := decode[wizard.Snapshot](t, resp)
	assert.Equal(t, wizard.StepInitializing, snap.Step)

	assert.Equal(t, http.StatusConflict,
		env.do(t, http.MethodPut, "/api/wizard/acknowledgements/0", `{"checked":true}`).StatusCode)

	env.clock.Advance(20 * time.Second)
	for _, i := range []string{"0", "1", "2"} {
		require.Equal(t, http.StatusOK,
			env.do(t, http.MethodPut, "/api/wizard/acknowledgements/"+i, `{"checked":true}`).StatusCode)
	}
	assert.Equal(t, http.StatusBadRequest,
		env.do(t, http.MethodPut, "/api/wizard/acknowledgements/7", `{"checked":true}`).StatusCode)
	assert.Equal(t, http.StatusBadRequest,
		env.do(t, http.MethodPut, "/api/wizard/acknowledgements/x", `{"checked":true}`).StatusCode)

	resp = env.do(t, http.MethodPost, "/api/wizard/submit", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap = decode[wizard.Snapshot](t, resp)
	assert.Equal(t, wizard.StepQueue, snap.Step)
	assert.Equal(t, 404, snap.Ticket)

	env.clock.Advance(wizard.QueueDuration + 2*time.Second)
	assert.Equal(t, http.StatusConflict, env.do(t, http.MethodPost, "/api/wizard/confirm", "").StatusCode)

	env.clock.Advance(3 * time.Second)
	resp = env.do(t, http.MethodPost, "/api/wizard/confirm", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "discord", decode[appJSON](t, resp).ID)

	resp = env.do(t, http.MethodGet, "/api/wizard", "")
	assert.False(t, decode[wizard.Snapshot](t, resp).Open)
	assert.Len(t, env.panel.Apps(), 1)
}

func TestWizardCancel(t *testing.T) {
	env := newTestEnv(t, nil)

	require.Equal(t, http.StatusAccepted, env.do(t, http.MethodPost, "/api/apps/instagram/delete", "").StatusCode)
	resp := env.do(t, http.MethodPost, "/api/wizard/cancel", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decode[wizard.Snapshot](t, resp).Open)
	assert.Len(t, env.panel.Apps(), 2)
}

func TestLocale(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.do(t, http.MethodGet, "/api/locale", "")
	body := decode[map[string]any](t, resp)
	assert.Equal(t, "ru", body["locale"])
	assert.Equal(t, "ru", body["default"])

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPut, "/api/locale", `{"locale":"de"}`).StatusCode)

	resp = env.do(t, http.MethodPut, "/api/locale", `{"locale":"EN"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, i18n.EN, env.panel.Locale())

	resp = env.do(t, http.MethodGet, "/api/state", "")
	view := decode[panel.View](t, resp)
	assert.Equal(t, i18n.EN, view.Locale)
	assert.Equal(t, i18n.T(i18n.EN, i18n.HeaderTitle), view.Strings[string(i18n.HeaderTitle)])
	assert.Equal(t, 2, view.Total)
}

func TestPageRenders(t *testing.T) {
	env := newTestEnv(t, nil)
	_, _, err := env.panel.RequestDelete("discord")
	require.NoError(t, err)

	resp := env.do(t, http.MethodGet, "/?lang=en", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	page := string(body)
	assert.Contains(t, page, i18n.T(i18n.EN, i18n.HeaderTitle))
	assert.Contains(t, page, "Discord")
	assert.Contains(t, page, "https://www.google.com/s2/favicons?domain=instagram.com&amp;sz=256")
	assert.Contains(t, page, `data-step="INITIALIZING"`)
}

func TestEnforceHostOnMutations(t *testing.T) {
	env := newTestEnv(t, func(d *deps.Deps) { d.AllowedHosts = []string{"panel.example.com"} })

	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodPost, "/api/apps", `{"name":"Telegram"}`).StatusCode)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/apps", "").StatusCode)
}

func TestAddRateLimited(t *testing.T) {
	env := newTestEnv(t, func(d *deps.Deps) { d.AddRateLimit = deps.RateLimit{Burst: 1, PerMinute: 1} })

	assert.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/apps", `{"name":"Telegram"}`).StatusCode)
	resp := env.do(t, http.MethodPost, "/api/apps", `{"name":"Signal"}`)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
}

func TestProbes(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.do(t, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	h := decode[map[string]any](t, resp)
	assert.Equal(t, "ok", h["status"])
	assert.Equal(t, 60.0, h["uptime_seconds"])

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/readyz", "").StatusCode)

	resp = env.do(t, http.MethodGet, "/infra", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "operational", decode[map[string]any](t, resp)["mode"])

	resp = env.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "blockpanel_applications")
}

func TestReadyzFailsWithoutRedis(t *testing.T) {
	env := newTestEnv(t, func(d *deps.Deps) { d.Redis = pinger{err: errors.New("connection refused")} })

	assert.Equal(t, http.StatusServiceUnavailable, env.do(t, http.MethodGet, "/readyz", "").StatusCode)
	resp := env.do(t, http.MethodGet, "/infra", "")
	assert.Equal(t, "degraded", decode[map[string]any](t, resp)["mode"])
}

func TestInfraRestricted(t *testing.T) {
	env := newTestEnv(t, func(d *deps.Deps) { d.AllowedCIDRS = []string{"10.0.0.0/8"} })

	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, "/infra", "").StatusCode)
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, "/metrics", "").StatusCode)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/healthz", "").StatusCode)
}

func TestEventStream(t *testing.T) {
	env := newTestEnv(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, env.srv.URL+"/api/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := make(chan string, 64)
	go func() {
		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			lines <- sc.Text()
		}
		close(lines)
	}()

	waitFor := func(want string) {
		t.Helper()
		deadline := time.After(2 * time.Second)
		for {
			select {
			case l, ok := <-lines:
				require.True(t, ok, "stream closed before %q", want)
				if l == want {
					return
				}
			case <-deadline:
				t.Fatalf("no %q line", want)
			}
		}
	}

	waitFor("event: connected")
	require.Eventually(t, func() bool { return env.broker.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	_, err = env.panel.Add(context.Background(), "Telegram")
	require.NoError(t, err)
	waitFor("event: app_added")
}

type fakeCache struct {
	flushed     int
	invalidated []string
}

func (c *fakeCache) InvalidateCache(_ context.Context, name string) error {
	c.invalidated = append(c.invalidated, name)
	return nil
}

func (c *fakeCache) FlushCache(context.Context) error {
	c.flushed++
	return nil
}

func TestResolverCacheAdmin(t *testing.T) {
	cache := &fakeCache{}
	env := newTestEnv(t, func(d *deps.Deps) { d.ResolverCache = cache })

	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, "/infra/resolver-cache/Telegram", "").StatusCode)
	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, "/infra/resolver-cache", "").StatusCode)
	assert.Equal(t, []string{"Telegram"}, cache.invalidated)
	assert.Equal(t, 1, cache.flushed)
}

func TestResolverCacheDisabled(t *testing.T) {
	env := newTestEnv(t, nil)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, "/infra/resolver-cache", "").StatusCode)
}
