package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrSnakeDoc/blockpanel/internal/i18n"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	SeedFile      string      // path to the seed.yaml file (empty = start with an empty registry)
	DefaultLocale i18n.Locale // locale the panel starts in

	LockdownDuration time.Duration // how long a forbidden add locks the panel (default: 15m)
	NoticeDuration   time.Duration // how long the lockdown toast stays visible (default: 5s)

	// Resolver
	ResolverAPIKey   string        // empty => static table resolver
	ResolverModel    string        // ex: "claude-3-5-haiku-latest"
	ResolverBaseURL  string        // optional, overrides the API endpoint
	ResolverTimeout  time.Duration // per call (default: 10s)
	ResolverFallback string        // domain used when resolution fails (default: google.com)
	ResolverCacheTTL time.Duration // 0 disables the redis cache

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // optional, restrict mutating requests to specific Host headers
	AllowedCIDRS []string // optional, restrict /infra and /metrics to specific IPs (e.g. "1.2.3.4, 10.0.0.0/8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)

	AddRateBurst     int           // POST /api/apps burst per client
	AddRatePerMinute int           // POST /api/apps sustained rate per client
	APITimeout       time.Duration // per-request timeout on /api routes (not the event stream)
}

func Load() *Config {
	if err := loadEnvFiles(); err != nil {
		panic(fmt.Sprintf("❌ FATAL: %v", err))
	}

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("BLOCKPANEL_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("BLOCKPANEL_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("BLOCKPANEL_LOG_LEVEL", "info"),
		PrettyLog: mustBool("BLOCKPANEL_PRETTY_LOG", true),

		// Panel
		SeedFile:         getenv("BLOCKPANEL_SEED_FILE", "configs/seed.yaml"),
		DefaultLocale:    mustLocale("BLOCKPANEL_DEFAULT_LOCALE", i18n.Default),
		LockdownDuration: mustDuration("BLOCKPANEL_LOCKDOWN_DURATION", 15*time.Minute),
		NoticeDuration:   mustDuration("BLOCKPANEL_NOTICE_DURATION", 5*time.Second),

		// Resolver
		ResolverAPIKey:   getenv("BLOCKPANEL_RESOLVER_API_KEY", os.Getenv("ANTHROPIC_API_KEY")),
		ResolverModel:    getenv("BLOCKPANEL_RESOLVER_MODEL", ""),
		ResolverBaseURL:  getenv("BLOCKPANEL_RESOLVER_BASE_URL", ""),
		ResolverTimeout:  mustDuration("BLOCKPANEL_RESOLVER_TIMEOUT", 10*time.Second),
		ResolverFallback: getenv("BLOCKPANEL_RESOLVER_FALLBACK", "google.com"),
		ResolverCacheTTL: mustDuration("BLOCKPANEL_RESOLVER_CACHE_TTL", 24*time.Hour),

		// Redis settings
		RedisAddr:             requireEnv("BLOCKPANEL_REDIS_ADDR"),
		RedisUser:             getenv("BLOCKPANEL_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("BLOCKPANEL_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("BLOCKPANEL_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("BLOCKPANEL_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("BLOCKPANEL_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("BLOCKPANEL_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("BLOCKPANEL_TRUST_PROXY", false),

		AddRateBurst:     getenvInt("BLOCKPANEL_ADD_RATE_BURST", 5),
		AddRatePerMinute: getenvInt("BLOCKPANEL_ADD_RATE_PER_MINUTE", 10),
		APITimeout:       mustDuration("BLOCKPANEL_API_TIMEOUT", 15*time.Second),
	}

	// Validate Redis password configuration
	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: BLOCKPANEL_REDIS_PASSWORD is required when BLOCKPANEL_REDIS_PASSWORD_REQUIRED=true")
	}
	if cfg.LockdownDuration <= 0 || cfg.NoticeDuration <= 0 {
		panic("❌ FATAL: BLOCKPANEL_LOCKDOWN_DURATION and BLOCKPANEL_NOTICE_DURATION must be positive")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		if cfg.ResolverAPIKey != "" {
			cfgCopy.ResolverAPIKey = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// loadEnvFiles loads ENV_FILE when set, otherwise .env.local then .env.
// Variables already present in the environment are never overridden, and a
// missing file is not an error.
func loadEnvFiles() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}

	for _, f := range []string{".env.local", ".env"} {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func mustLocale(key string, def i18n.Locale) i18n.Locale {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	l, err := i18n.ParseLocale(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid locale for %s: %v", key, err))
	}
	return l
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
