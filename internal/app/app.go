package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/blockpanel/internal/config"
	"github.com/MrSnakeDoc/blockpanel/internal/events"
	"github.com/MrSnakeDoc/blockpanel/internal/httpserver"
	"github.com/MrSnakeDoc/blockpanel/internal/httpserver/deps"
	"github.com/MrSnakeDoc/blockpanel/internal/logger"
	"github.com/MrSnakeDoc/blockpanel/internal/metrics"
	"github.com/MrSnakeDoc/blockpanel/internal/panel"
	"github.com/MrSnakeDoc/blockpanel/internal/redis"
	"github.com/MrSnakeDoc/blockpanel/internal/registry"
	"github.com/MrSnakeDoc/blockpanel/internal/resolver"
	"github.com/MrSnakeDoc/blockpanel/internal/sources/seed"
	redisstore "github.com/MrSnakeDoc/blockpanel/internal/store/redis"
	"github.com/MrSnakeDoc/blockpanel/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	panel       *panel.Panel
	broker      *events.Broker
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		DB:             cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("Redis initialized successfully")

	store := redisstore.NewStore(redisClient)

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(promRegistry)

	reg, err := loadRegistry(cfg.SeedFile, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to load seed applications: %v", err)
		os.Exit(1)
	}

	res, mode := newResolver(cfg, store, loggerClient, m)

	broker := events.NewBroker(loggerClient.Named("events"))

	p := panel.New(reg, res, store, panel.Options{
		LockdownDuration: cfg.LockdownDuration,
		NoticeDuration:   cfg.NoticeDuration,
		DefaultLocale:    cfg.DefaultLocale,
		Logger:           loggerClient.Named("panel"),
		Metrics:          m,
		Publisher:        broker,
	})

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		TimeNow:       time.Now,
		AllowedHosts:  cfg.AllowedHosts,
		AllowedCIDRS:  cfg.AllowedCIDRS,
		TrustProxy:    cfg.TrustProxy,
		Panel:         p,
		Broker:        broker,
		Redis:         store,
		ResolverMode:  mode,
		DefaultLocale: cfg.DefaultLocale,
		Metrics:       promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}),
		AddRateLimit:  deps.RateLimit{Burst: cfg.AddRateBurst, PerMinute: cfg.AddRatePerMinute},
		APITimeout:    cfg.APITimeout,
	}

	if mode == "anthropic" && cfg.ResolverCacheTTL > 0 {
		d.ResolverCache = store
	}

	server := httpserver.New(cfg.ListenPort, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		panel:       p,
		broker:      broker,
	}
}

// loadRegistry builds the registry from the seed file, in file order.
func loadRegistry(path string, log logger.Logger) (*registry.Registry, error) {
	f, err := seed.NewLoader(path).Load()
	if err != nil {
		return nil, err
	}
	apps, err := seed.NewMapper().MapApplications(f)
	if err != nil {
		return nil, err
	}

	reg := registry.New()
	if err := reg.Load(apps); err != nil {
		return nil, err
	}
	log.Info("seed applications loaded",
		logger.String("file", path),
		logger.Int("count", len(apps)))
	return reg, nil
}

// newResolver picks the model-backed resolver when an API key is set and the
// static table otherwise. Model answers are cached in redis.
func newResolver(cfg *config.Config, store *redisstore.Store, log logger.Logger, m *metrics.Metrics) (resolver.Resolver, string) {
	if cfg.ResolverAPIKey == "" {
		log.Warn("no resolver API key configured, using the static domain table")
		return resolver.NewStatic(resolver.KnownDomains, cfg.ResolverFallback, m), "static"
	}

	var res resolver.Resolver = resolver.NewAnthropic(resolver.AnthropicOptions{
		APIKey:   cfg.ResolverAPIKey,
		Model:    cfg.ResolverModel,
		BaseURL:  cfg.ResolverBaseURL,
		Timeout:  cfg.ResolverTimeout,
		Fallback: cfg.ResolverFallback,
	}, log.Named("resolver"), m)

	if cfg.ResolverCacheTTL > 0 {
		res = resolver.NewCaching(res, store, cfg.ResolverCacheTTL, cfg.ResolverFallback, log.Named("resolver"), m)
	}
	log.Info("resolver configured",
		logger.String("model", cfg.ResolverModel),
		logger.Duration("cache_ttl", cfg.ResolverCacheTTL))
	return res, "anthropic"
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting BlockPanel v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Info(version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Resume a lockdown that survived a restart
	if err := a.panel.Start(ctx); err != nil {
		return fmt.Errorf("failed to restore lockdown: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	// Stop timers, then end event streams so Shutdown does not wait on them
	a.panel.Close()
	a.broker.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ BlockPanel stopped cleanly")
	return nil
}
