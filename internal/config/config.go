// Package config reads settings from the environment, optionally seeded
// from a .env file. Command-line flags override what is loaded here.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnvFile loads variables from path into the environment without
// overriding ones already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Server configures cmd/findora.
type Server struct {
	Addr     string
	DBPath   string
	LogPath  string
	LogLevel string

	// AdminName and AdminEmail seed the first admin account when the
	// database has none.
	AdminName  string
	AdminEmail string

	AllowRegistration bool

	Photos Photos
}

// Photos selects where uploaded photos are kept.
type Photos struct {
	Backend   string // "local" or "s3"
	Dir       string
	URLPrefix string

	S3Bucket    string
	S3Region    string
	S3Prefix    string
	S3PublicURL string
	S3Endpoint  string
}

// LoadServer reads the server settings.
func LoadServer() Server {
	return Server{
		Addr:              getEnv("FINDORA_ADDR", ":8080"),
		DBPath:            getEnv("FINDORA_DB", "findora.sqlite3"),
		LogPath:           getEnv("FINDORA_LOG", ""),
		LogLevel:          getEnv("FINDORA_LOG_LEVEL", "info"),
		AdminName:         getEnv("FINDORA_ADMIN_NAME", "Admin"),
		AdminEmail:        getEnv("FINDORA_ADMIN_EMAIL", "admin@findora.local"),
		AllowRegistration: getEnvBool("FINDORA_ALLOW_REGISTRATION", true),
		Photos: Photos{
			Backend:     getEnv("FINDORA_PHOTO_BACKEND", "local"),
			Dir:         getEnv("FINDORA_PHOTO_DIR", "uploads"),
			URLPrefix:   getEnv("FINDORA_PHOTO_URL_PREFIX", "/uploads"),
			S3Bucket:    getEnv("FINDORA_S3_BUCKET", ""),
			S3Region:    getEnv("AWS_REGION", "us-east-1"),
			S3Prefix:    getEnv("FINDORA_S3_PREFIX", "found-items"),
			S3PublicURL: getEnv("FINDORA_S3_PUBLIC_URL", ""),
			S3Endpoint:  getEnv("AWS_ENDPOINT_URL", ""),
		},
	}
}

// Validate checks the server settings.
func (c Server) Validate() error {
	if c.Addr == "" {
		return errors.New("missing listen address (FINDORA_ADDR)")
	}
	if c.DBPath == "" {
		return errors.New("missing database path (FINDORA_DB)")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.Photos.Backend {
	case "local":
		if c.Photos.Dir == "" {
			return errors.New("missing photo directory (FINDORA_PHOTO_DIR)")
		}
		if !strings.HasPrefix(c.Photos.URLPrefix, "/") {
			return fmt.Errorf("photo url prefix %q must start with /", c.Photos.URLPrefix)
		}
	case "s3":
		if c.Photos.S3Bucket == "" {
			return errors.New("missing bucket (FINDORA_S3_BUCKET) for s3 photo backend")
		}
	default:
		return fmt.Errorf("unknown photo backend %q (want local or s3)", c.Photos.Backend)
	}
	return nil
}

// Dashboard configures cmd/findora-admin.
type Dashboard struct {
	APIURL       string
	PollInterval time.Duration
	LogPath      string
	LogLevel     string

	// Session is "sqlite", "redis" or "memory".
	Session     string
	SessionPath string
	RedisAddr   string
	RedisDB     int
	RedisKey    string
	SessionTTL  time.Duration
}

// LoadDashboard reads the dashboard settings.
func LoadDashboard() Dashboard {
	return Dashboard{
		APIURL:       getEnv("FINDORA_API_URL", "http://localhost:8080/api"),
		PollInterval: getEnvDuration("FINDORA_POLL_INTERVAL", 10*time.Second),
		LogPath:      getEnv("FINDORA_ADMIN_LOG", ""),
		LogLevel:     getEnv("FINDORA_LOG_LEVEL", "warn"),
		Session:      getEnv("FINDORA_SESSION", "sqlite"),
		SessionPath:  getEnv("FINDORA_SESSION_PATH", defaultSessionPath()),
		RedisAddr:    getEnv("FINDORA_REDIS_ADDR", "localhost:6379"),
		RedisDB:      getEnvInt("FINDORA_REDIS_DB", 0),
		RedisKey:     getEnv("FINDORA_REDIS_KEY", "findora:session"),
		SessionTTL:   getEnvDuration("FINDORA_SESSION_TTL", 24*time.Hour),
	}
}

// Validate checks the dashboard settings.
func (c Dashboard) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid API url %q", c.APIURL)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.PollInterval)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.Session {
	case "memory":
	case "sqlite":
		if c.SessionPath == "" {
			return errors.New("missing session path (FINDORA_SESSION_PATH)")
		}
	case "redis":
		if c.RedisAddr == "" {
			return errors.New("missing redis address (FINDORA_REDIS_ADDR)")
		}
	default:
		return fmt.Errorf("unknown session store %q (want sqlite, redis or memory)", c.Session)
	}
	return nil
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "findora-session.db"
	}
	return filepath.Join(dir, "findora", "session.db")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", v)
		return def
	}
	return n
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid boolean in environment, using default", "key", key, "value", v)
		return def
	}
	return b
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", v)
		return def
	}
	return d
}
