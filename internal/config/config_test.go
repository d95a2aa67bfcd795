package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"INORDER_CONFIG", "INORDER_PORT", "INORDER_BASE_URL", "INORDER_DB_PATH",
		"INORDER_DB_MAX_OPEN_CONNS", "INORDER_DB_CONN_MAX_IDLE_TIME", "INORDER_QUERY_TIMEOUT",
		"INORDER_FLUSH_INTERVAL", "INORDER_BUFFER_SIZE", "INORDER_BOT_CACHE_SIZE",
		"INORDER_TRACK_RATE_LIMIT", "INORDER_TRACK_RATE_WINDOW", "INORDER_TRENDING_LIMIT",
		"INORDER_TRENDING_FALLBACK_SIZE", "INORDER_POPULAR_TODAY_LIMIT",
		"INORDER_LOG_LEVEL", "INORDER_LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("port = %q, want %q", cfg.Port, "8080")
	}
	if cfg.DBPath != "./inorder.db" {
		t.Errorf("dbpath = %q, want %q", cfg.DBPath, "./inorder.db")
	}
	if cfg.DBMaxOpenConns != 2 {
		t.Errorf("max open conns = %d, want 2", cfg.DBMaxOpenConns)
	}
	if cfg.DBConnMaxIdleTime != time.Second {
		t.Errorf("idle time = %v, want %v", cfg.DBConnMaxIdleTime, time.Second)
	}
	if cfg.QueryTimeout != 5*time.Second {
		t.Errorf("query timeout = %v, want %v", cfg.QueryTimeout, 5*time.Second)
	}
	if cfg.TrendingLimit != 3 || cfg.TrendingFallbackSize != 6 || cfg.PopularTodayLimit != 5 {
		t.Errorf("limits = %d/%d/%d, want 3/6/5", cfg.TrendingLimit, cfg.TrendingFallbackSize, cfg.PopularTodayLimit)
	}
	if cfg.BaseURL != "https://inorderbookseries.com" {
		t.Errorf("base url = %q", cfg.BaseURL)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("INORDER_PORT", "9090")
	t.Setenv("INORDER_DB_PATH", "/tmp/test.db")
	t.Setenv("INORDER_DB_MAX_OPEN_CONNS", "4")
	t.Setenv("INORDER_FLUSH_INTERVAL", "10s")
	t.Setenv("INORDER_BUFFER_SIZE", "500")
	t.Setenv("INORDER_BASE_URL", "http://localhost:9090/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("port = %q, want %q", cfg.Port, "9090")
	}
	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("dbpath = %q, want %q", cfg.DBPath, "/tmp/test.db")
	}
	if cfg.DBMaxOpenConns != 4 {
		t.Errorf("max open conns = %d, want 4", cfg.DBMaxOpenConns)
	}
	if cfg.FlushInterval != 10*time.Second {
		t.Errorf("flush = %v, want %v", cfg.FlushInterval, 10*time.Second)
	}
	if cfg.BufferSize != 500 {
		t.Errorf("buffer = %d, want %d", cfg.BufferSize, 500)
	}
	if cfg.BaseURL != "http://localhost:9090" {
		t.Errorf("base url = %q, want trailing slash trimmed", cfg.BaseURL)
	}
}

func TestLoad_YAMLFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "inorder.yaml")
	content := "port: \"7070\"\ntrending_limit: 4\nlog_format: console\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("INORDER_CONFIG", path)
	t.Setenv("INORDER_PORT", "6060")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "6060" {
		t.Errorf("port = %q, want env to win over file", cfg.Port)
	}
	if cfg.TrendingLimit != 4 {
		t.Errorf("trending limit = %d, want 4 from file", cfg.TrendingLimit)
	}
	if cfg.LogFormat != "console" {
		t.Errorf("log format = %q, want console", cfg.LogFormat)
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("INORDER_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoad_ZeroBufferSize(t *testing.T) {
	clearEnv(t)
	t.Setenv("INORDER_BUFFER_SIZE", "0")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for zero buffer size")
	}
}

func TestLoad_NegativeFlushInterval(t *testing.T) {
	clearEnv(t)
	t.Setenv("INORDER_FLUSH_INTERVAL", "-1s")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for negative flush interval")
	}
}

func TestLoad_InvalidInt(t *testing.T) {
	clearEnv(t)
	t.Setenv("INORDER_BUFFER_SIZE", "lots")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric buffer size")
	}
}
