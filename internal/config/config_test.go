package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Port != "5175" || cfg.Addr() != ":5175" {
		t.Fatalf("port = %q", cfg.Port)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Fatalf("session ttl = %s", cfg.SessionTTL)
	}
	if cfg.JWTTTL() != 14*24*time.Hour {
		t.Fatalf("jwt ttl = %s", cfg.JWTTTL())
	}
	if cfg.Production() {
		t.Fatal("production by default")
	}
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SESSION_TTL", "45m")
	t.Setenv("DAILY_SALT", "pepper")
	cfg, err := Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Port != "9000" || cfg.SessionTTL != 45*time.Minute || cfg.DailySalt != "pepper" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"bad duration", map[string]string{"SESSION_TTL": "soon"}, "parse env:"},
		{"bad int", map[string]string{"JWT_EXPIRES_DAYS": "two"}, "parse env:"},
		{"zero expiry", map[string]string{"JWT_EXPIRES_DAYS": "0"}, "JWT_EXPIRES_DAYS"},
		{"production default secret", map[string]string{"NODE_ENV": "production"}, "JWT_SECRET"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Parse()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want %q", err, tc.want)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("LOG_LEVEL=debug\nCOOKIE_NAME=from_file\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("COOKIE_NAME", "from_env")
	// godotenv sets LOG_LEVEL for the rest of the process; restore it.
	t.Setenv("LOG_LEVEL", "")
	os.Unsetenv("LOG_LEVEL")

	cfg, err := Load(path, filepath.Join(dir, "missing.env"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("log level = %q, want value from file", cfg.LogLevel)
	}
	if cfg.CookieName != "from_env" {
		t.Fatalf("cookie name = %q, environment must win", cfg.CookieName)
	}
}
