package deps

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/blockpanel/internal/events"
	"github.com/MrSnakeDoc/blockpanel/internal/i18n"
	"github.com/MrSnakeDoc/blockpanel/internal/logger"
	"github.com/MrSnakeDoc/blockpanel/internal/panel"
)

// Pinger reports whether a backing service answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CacheAdmin drops cached name resolutions.
type CacheAdmin interface {
	InvalidateCache(ctx context.Context, name string) error
	FlushCache(ctx context.Context) error
}

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	Version       string
	Commit        string
	BuildDate     string
	GoVersion     string
	TimeNow       func() time.Time // for testing, defaults to time.Now
	AllowedHosts  []string         // Host headers allowed on mutating API routes
	AllowedCIDRS  []string         // IPs allowed to access /infra and /metrics
	TrustProxy    bool             // true if running behind a trusted reverse proxy (e.g., cloudflared)
	Panel         *panel.Panel     // The operator session
	Broker        *events.Broker   // Live update fan-out for /api/events
	Redis         Pinger           // Lockdown store and resolver cache backend
	ResolverMode  string           // "anthropic" or "static", reported by /infra
	ResolverCache CacheAdmin       // nil when resolutions are not cached
	DefaultLocale i18n.Locale
	Metrics       http.Handler  // Prometheus exposition handler
	AddRateLimit  RateLimit     // Token bucket on POST /api/apps
	APITimeout    time.Duration // Per-request timeout on JSON routes
	Heartbeat     time.Duration // SSE keep-alive interval
}

// RateLimit configures the per-IP limiter on application adds.
type RateLimit struct {
	Burst     int
	PerMinute int
}
