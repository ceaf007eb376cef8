package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MrSnakeDoc/blockpanel/internal/i18n"
)

func TestRequireEnv(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		shouldSet bool
		wantPanic bool
	}{
		{
			name:      "variable set",
			key:       "TEST_VAR",
			value:     "test_value",
			shouldSet: true,
			wantPanic: false,
		},
		{
			name:      "variable not set",
			key:       "TEST_VAR_MISSING",
			shouldSet: false,
			wantPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.shouldSet {
				t.Setenv(tt.key, tt.value)
			}

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnv() should have panicked")
					}
				}()
			}

			result := requireEnv(tt.key)
			if !tt.wantPanic && result != tt.value {
				t.Errorf("requireEnv() = %v, want %v", result, tt.value)
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{
			name:     "valid duration",
			key:      "TEST_DURATION",
			value:    "15m",
			def:      1 * time.Second,
			expected: 15 * time.Minute,
		},
		{
			name:     "invalid duration uses default",
			key:      "TEST_DURATION_INVALID",
			value:    "invalid",
			def:      10 * time.Second,
			expected: 10 * time.Second,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_DURATION_MISSING",
			value:    "",
			def:      5 * time.Second,
			expected: 5 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}

			result := mustDuration(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      bool
		expected bool
	}{
		{name: "true value", value: "true", def: false, expected: true},
		{name: "false value", value: "false", def: true, expected: false},
		{name: "invalid value uses default", value: "invalid", def: true, expected: true},
		{name: "missing variable uses default", value: "", def: false, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv("TEST_BOOL", tt.value)
			}

			result := mustBool("TEST_BOOL", tt.def)
			if result != tt.expected {
				t.Errorf("mustBool() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustLocale(t *testing.T) {
	t.Run("missing variable uses default", func(t *testing.T) {
		if got := mustLocale("TEST_LOCALE_MISSING", i18n.RU); got != i18n.RU {
			t.Errorf("mustLocale() = %v, want %v", got, i18n.RU)
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		t.Setenv("TEST_LOCALE", "EN")
		if got := mustLocale("TEST_LOCALE", i18n.RU); got != i18n.EN {
			t.Errorf("mustLocale() = %v, want %v", got, i18n.EN)
		}
	})

	t.Run("unsupported locale panics", func(t *testing.T) {
		t.Setenv("TEST_LOCALE", "de")
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("mustLocale() should have panicked")
			}
		}()
		mustLocale("TEST_LOCALE", i18n.RU)
	})
}

func TestSplitAndTrim(t *testing.T) {
	got := splitAndTrim(` panel.example.com , "10.0.0.1:8080",, 'localhost' `)
	want := []string{"panel.example.com", "10.0.0.1:8080", "localhost"}

	if len(got) != len(want) {
		t.Fatalf("splitAndTrim() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("splitAndTrim()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if splitAndTrim("") != nil {
		t.Error("splitAndTrim(\"\") should be nil")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
	t.Setenv("BLOCKPANEL_REDIS_ADDR", "localhost:6379")

	cfg := Load()

	if cfg.ListenPort != ":8080" {
		t.Errorf("ListenPort = %q, want :8080", cfg.ListenPort)
	}
	if cfg.DefaultLocale != i18n.Default {
		t.Errorf("DefaultLocale = %q, want %q", cfg.DefaultLocale, i18n.Default)
	}
	if cfg.LockdownDuration != 15*time.Minute {
		t.Errorf("LockdownDuration = %v, want 15m", cfg.LockdownDuration)
	}
	if cfg.NoticeDuration != 5*time.Second {
		t.Errorf("NoticeDuration = %v, want 5s", cfg.NoticeDuration)
	}
	if cfg.ResolverFallback != "google.com" {
		t.Errorf("ResolverFallback = %q, want google.com", cfg.ResolverFallback)
	}
	if cfg.SeedFile != "configs/seed.yaml" {
		t.Errorf("SeedFile = %q, want configs/seed.yaml", cfg.SeedFile)
	}
	if cfg.AllowedHosts != nil {
		t.Errorf("AllowedHosts = %v, want nil", cfg.AllowedHosts)
	}
}

func TestLoadRequiresRedisAddr(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
	t.Setenv("BLOCKPANEL_REDIS_ADDR", "")

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Load() should have panicked without BLOCKPANEL_REDIS_ADDR")
		}
	}()
	Load()
}

func TestLoadPasswordRequired(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
	t.Setenv("BLOCKPANEL_REDIS_ADDR", "localhost:6379")
	t.Setenv("BLOCKPANEL_REDIS_PASSWORD_REQUIRED", "true")
	t.Setenv("BLOCKPANEL_REDIS_PASSWORD", "")

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Load() should have panicked without a redis password")
		}
	}()
	Load()
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panel.env")
	content := "BLOCKPANEL_REDIS_ADDR=redis:6379\n" +
		"BLOCKPANEL_DEFAULT_LOCALE=en\n" +
		"BLOCKPANEL_LOCKDOWN_DURATION=1m\n" +
		"BLOCKPANEL_ALLOWED_HOSTS=panel.example.com, localhost\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}

	// godotenv sets process env directly; register the keys so they are
	// restored after the test.
	t.Setenv("ENV_FILE", path)
	for _, k := range []string{
		"BLOCKPANEL_REDIS_ADDR", "BLOCKPANEL_DEFAULT_LOCALE",
		"BLOCKPANEL_LOCKDOWN_DURATION", "BLOCKPANEL_ALLOWED_HOSTS",
	} {
		t.Setenv(k, "")
		if err := os.Unsetenv(k); err != nil {
			t.Fatalf("failed to unset %s: %v", k, err)
		}
	}
	// Already-set variables win over the file.
	t.Setenv("BLOCKPANEL_LISTEN_PORT", ":9090")

	cfg := Load()

	if cfg.RedisAddr != "redis:6379" {
		t.Errorf("RedisAddr = %q, want redis:6379", cfg.RedisAddr)
	}
	if cfg.DefaultLocale != i18n.EN {
		t.Errorf("DefaultLocale = %q, want en", cfg.DefaultLocale)
	}
	if cfg.LockdownDuration != time.Minute {
		t.Errorf("LockdownDuration = %v, want 1m", cfg.LockdownDuration)
	}
	if len(cfg.AllowedHosts) != 2 || cfg.AllowedHosts[0] != "panel.example.com" {
		t.Errorf("AllowedHosts = %v", cfg.AllowedHosts)
	}
	if cfg.ListenPort != ":9090" {
		t.Errorf("ListenPort = %q, want :9090", cfg.ListenPort)
	}
}
