package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/blockpanel/internal/logger"
	"github.com/MrSnakeDoc/blockpanel/internal/metrics"
	"github.com/MrSnakeDoc/blockpanel/internal/store/redis"
)

// fakeMessagesAPI answers the Messages endpoint with a fixed text block.
func fakeMessagesAPI(t *testing.T, answer string, status int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if !strings.HasSuffix(r.URL.Path, "/v1/messages") {
			http.NotFound(w, r)
			return
		}
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), "primary website domain")

		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"type":"error","error":{"type":"api_error","message":"boom"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":            "msg_test",
			"type":          "message",
			"role":          "assistant",
			"model":         "test-model",
			"stop_reason":   "end_turn",
			"stop_sequence": nil,
			"content":       []map[string]any{{"type": "text", "text": answer}},
			"usage":         map[string]any{"input_tokens": 10, "output_tokens": 3},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestAnthropic(url string) *AnthropicResolver {
	return NewAnthropic(AnthropicOptions{
		APIKey:  "test-key",
		Model:   "test-model",
		BaseURL: url + "/",
		Timeout: 2 * time.Second,
	}, logger.Nop(), nil)
}

func TestAnthropicResolver(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		status int
		want   string
	}{
		{"plain answer", "telegram.org", http.StatusOK, "telegram.org"},
		{"noisy answer", "  https://www.Telegram.org/\n", http.StatusOK, "telegram.org"},
		{"not a hostname", "I am not sure", http.StatusOK, DefaultFallback},
		{"empty answer", "", http.StatusOK, DefaultFallback},
		{"service error", "", http.StatusInternalServerError, DefaultFallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := fakeMessagesAPI(t, tt.answer, tt.status)
			got, err := newTestAnthropic(srv.URL).Resolve(context.Background(), "Telegram")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnthropicResolverCancelled(t *testing.T) {
	srv, _ := fakeMessagesAPI(t, "telegram.org", http.StatusOK)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestAnthropic(srv.URL).Resolve(ctx, "Telegram")
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestStaticResolver(t *testing.T) {
	r := NewStatic(map[string]string{"Telegram": "telegram.org", "Broken": "not a host"}, "", nil)

	got, err := r.Resolve(context.Background(), "  telegram ")
	require.NoError(t, err)
	assert.Equal(t, "telegram.org", got)

	got, err = r.Resolve(context.Background(), "Broken")
	require.NoError(t, err)
	assert.Equal(t, DefaultFallback, got)

	got, err = r.Resolve(context.Background(), "Unknown")
	require.NoError(t, err)
	assert.Equal(t, DefaultFallback, got)
}

func TestStaticResolverCountsTableHits(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	r := NewStatic(map[string]string{"telegram": "telegram.org"}, "", m)

	_, err := r.Resolve(context.Background(), "Telegram")
	require.NoError(t, err)
	_, err = r.Resolve(context.Background(), "Unknown")
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ResolverRequests.WithLabelValues(metrics.OutcomeStatic)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ResolverRequests.WithLabelValues(metrics.OutcomeModel)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ResolverRequests.WithLabelValues(metrics.OutcomeFallback)))
}

func newCacheStore(t *testing.T) (*redis.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redis.NewStore(client), mr
}

func TestCachingResolverServesFromCache(t *testing.T) {
	srv, calls := fakeMessagesAPI(t, "telegram.org", http.StatusOK)
	store, mr := newCacheStore(t)
	r := NewCaching(newTestAnthropic(srv.URL), store, time.Hour, "", logger.Nop(), nil)

	for i := 0; i < 3; i++ {
		got, err := r.Resolve(context.Background(), "Telegram")
		require.NoError(t, err)
		assert.Equal(t, "telegram.org", got)
	}
	assert.Equal(t, int32(1), calls.Load())

	mr.FastForward(2 * time.Hour)
	_, err := r.Resolve(context.Background(), "Telegram")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCachingResolverSkipsFallback(t *testing.T) {
	srv, calls := fakeMessagesAPI(t, "", http.StatusOK)
	store, _ := newCacheStore(t)
	r := NewCaching(newTestAnthropic(srv.URL), store, time.Hour, "", logger.Nop(), nil)

	for i := 0; i < 2; i++ {
		got, err := r.Resolve(context.Background(), "Mystery")
		require.NoError(t, err)
		assert.Equal(t, DefaultFallback, got)
	}
	assert.Equal(t, int32(2), calls.Load())
}

func TestCachingResolverBypassesBrokenCache(t *testing.T) {
	store, mr := newCacheStore(t)
	mr.Close()

	r := NewCaching(NewStatic(map[string]string{"vk": "vk.com"}, "", nil), store, time.Hour, "", logger.Nop(), nil)
	got, err := r.Resolve(context.Background(), "VK")
	require.NoError(t, err)
	assert.Equal(t, "vk.com", got)
}
