// Package resolver maps an application name to the hostname used for its icon.
package resolver

import (
	"context"
	"strings"

	"github.com/MrSnakeDoc/blockpanel/internal/domain"
	"github.com/MrSnakeDoc/blockpanel/internal/metrics"
)

// DefaultFallback is returned whenever no usable hostname can be produced.
const DefaultFallback = "google.com"

// Resolver maps an application name to a hostname.
// Implementations return an error only when ctx is done; every other
// failure degrades to a fallback hostname.
type Resolver interface {
	Resolve(ctx context.Context, name string) (string, error)
}

// Func adapts a function to Resolver.
type Func func(ctx context.Context, name string) (string, error)

func (f Func) Resolve(ctx context.Context, name string) (string, error) { return f(ctx, name) }

// StaticResolver answers from a fixed table. Used when no model is configured
// and in tests.
type StaticResolver struct {
	table    map[string]string
	fallback string
	metrics  *metrics.Metrics
}

// NewStatic builds a StaticResolver. Keys are matched case-insensitively.
func NewStatic(table map[string]string, fallback string, m *metrics.Metrics) *StaticResolver {
	if fallback == "" {
		fallback = DefaultFallback
	}
	t := make(map[string]string, len(table))
	for k, v := range table {
		t[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return &StaticResolver{table: t, fallback: fallback, metrics: m}
}

func (s *StaticResolver) Resolve(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if host := domain.NormalizeDomain(s.table[strings.ToLower(strings.TrimSpace(name))]); host != "" {
		s.metrics.Resolved(metrics.OutcomeStatic)
		return host, nil
	}
	s.metrics.Resolved(metrics.OutcomeFallback)
	return s.fallback, nil
}

// KnownDomains backs the static resolver when no model is configured.
var KnownDomains = map[string]string{
	"discord":   "discord.com",
	"instagram": "instagram.com",
	"telegram":  "telegram.org",
	"whatsapp":  "whatsapp.com",
	"youtube":   "youtube.com",
	"facebook":  "facebook.com",
	"twitter":   "x.com",
	"x":         "x.com",
	"tiktok":    "tiktok.com",
	"signal":    "signal.org",
	"linkedin":  "linkedin.com",
	"twitch":    "twitch.tv",
	"spotify":   "spotify.com",
	"netflix":   "netflix.com",
	"viber":     "viber.com",
	"vk":        "vk.com",
	"wikipedia": "wikipedia.org",
}
