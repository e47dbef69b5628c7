package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadServerDefaults(t *testing.T) {
	c := LoadServer()
	if c.Addr != ":8080" || c.DBPath != "findora.sqlite3" || c.Photos.Backend != "local" {
		t.Errorf("unexpected defaults %+v", c)
	}
	if !c.AllowRegistration {
		t.Error("registration should default to open")
	}
	if err := c.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadServerFromEnv(t *testing.T) {
	t.Setenv("FINDORA_ADDR", "127.0.0.1:9000")
	t.Setenv("FINDORA_ALLOW_REGISTRATION", "false")
	t.Setenv("FINDORA_PHOTO_BACKEND", "s3")
	t.Setenv("FINDORA_S3_BUCKET", "photos")
	t.Setenv("AWS_ENDPOINT_URL", "http://localhost:4566")

	c := LoadServer()
	if c.Addr != "127.0.0.1:9000" || c.AllowRegistration {
		t.Errorf("env not applied: %+v", c)
	}
	if c.Photos.S3Bucket != "photos" || c.Photos.S3Endpoint != "http://localhost:4566" {
		t.Errorf("s3 settings not applied: %+v", c.Photos)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("expected valid config: %v", err)
	}
}

func TestServerValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(c *Server)
	}{
		{"no addr", func(c *Server) { c.Addr = "" }},
		{"bad level", func(c *Server) { c.LogLevel = "loud" }},
		{"s3 without bucket", func(c *Server) { c.Photos.Backend = "s3" }},
		{"unknown backend", func(c *Server) { c.Photos.Backend = "ftp" }},
		{"relative prefix", func(c *Server) { c.Photos.URLPrefix = "uploads" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := LoadServer()
			tt.edit(&c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadDashboard(t *testing.T) {
	t.Setenv("FINDORA_POLL_INTERVAL", "3s")
	t.Setenv("FINDORA_REDIS_DB", "2")
	t.Setenv("FINDORA_SESSION", "redis")

	c := LoadDashboard()
	if c.PollInterval != 3*time.Second || c.RedisDB != 2 || c.Session != "redis" {
		t.Errorf("env not applied: %+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("expected valid config: %v", err)
	}
}

func TestDashboardInvalidValuesFallBack(t *testing.T) {
	t.Setenv("FINDORA_POLL_INTERVAL", "soon")
	t.Setenv("FINDORA_REDIS_DB", "two")

	c := LoadDashboard()
	if c.PollInterval != 10*time.Second || c.RedisDB != 0 {
		t.Errorf("expected defaults for invalid values, got %+v", c)
	}
}

func TestDashboardValidate(t *testing.T) {
	c := LoadDashboard()
	c.APIURL = "localhost:8080"
	if err := c.Validate(); err == nil {
		t.Error("expected error for url without scheme")
	}

	c = LoadDashboard()
	c.Session = "cookie"
	if err := c.Validate(); err == nil {
		t.Error("expected error for unknown session store")
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("FINDORA_TEST_VALUE=from-file\nFINDORA_ADDR=:1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FINDORA_ADDR", ":2")
	t.Setenv("FINDORA_TEST_VALUE", "")
	os.Unsetenv("FINDORA_TEST_VALUE")

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile: %v", err)
	}
	if got := os.Getenv("FINDORA_TEST_VALUE"); got != "from-file" {
		t.Errorf("expected value from file, got %q", got)
	}
	if got := os.Getenv("FINDORA_ADDR"); got != ":2" {
		t.Errorf("file must not override the environment, got %q", got)
	}

	if err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing file should be ignored: %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	if l, err := ParseLevel("warn"); err != nil || l != slog.LevelWarn {
		t.Errorf("got %v %v", l, err)
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("expected error")
	}
}
