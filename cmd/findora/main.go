package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/findora/findora/internal/api"
	"github.com/findora/findora/internal/config"
	"github.com/findora/findora/internal/db"
	"github.com/findora/findora/internal/logging"
	"github.com/findora/findora/internal/photos"
	"github.com/findora/findora/internal/store"
)

func main() {
	if err := config.LoadEnvFile(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	cfg := config.LoadServer()

	fs := flag.NewFlagSet("findora", flag.ContinueOnError)

	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "")

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "")
	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "")

	fs.StringVar(&cfg.AdminEmail, "email", cfg.AdminEmail, "")
	fs.StringVar(&cfg.AdminEmail, "e", cfg.AdminEmail, "")

	fs.StringVar(&cfg.LogPath, "log", cfg.LogPath, "")
	fs.StringVar(&cfg.LogPath, "l", cfg.LogPath, "")

	fs.StringVar(&cfg.Photos.Backend, "photos", cfg.Photos.Backend, "")
	fs.StringVar(&cfg.Photos.Backend, "p", cfg.Photos.Backend, "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: findora [flags]

Flags:
  -d, -db <path>          SQLite database path (default: findora.sqlite3)
  -a, -addr <host:port>   listen address (default: :8080)
  -e, -email <address>    admin email on first run (default: admin@findora.local)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
  -p, -photos <backend>   photo storage: local or s3 (default: local)
  -h, -help               show this help and exit

Every flag can also be set in the environment or a .env file
(FINDORA_DB, FINDORA_ADDR, FINDORA_ADMIN_EMAIL, FINDORA_LOG,
FINDORA_PHOTO_BACKEND, ...). Flags win.
`)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		fs.Usage()
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	level, _ := config.ParseLevel(cfg.LogLevel)

	// INFO/WARN → stdout, ERROR → stderr, optionally also a log file.
	closeLog, err := logging.Setup(cfg.LogPath, level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	slog.Info("database ready", "path", cfg.DBPath)

	ctx := context.Background()

	// Seed the first admin account.
	password, err := ensureAdmin(ctx, database, cfg.AdminName, cfg.AdminEmail)
	if err != nil {
		slog.Error("failed to create admin account", "error", err)
		os.Exit(1)
	}
	if password != "" {
		printInitResult(cfg.DBPath, cfg.AdminEmail, password)
		fmt.Println()
	}

	// Load JWT secret from database (auto-generated on first run).
	jwtSecret, err := store.GetJWTSecret(ctx, database)
	if err != nil {
		slog.Error("failed to get JWT secret", "error", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()

	photoStore, err := setupPhotos(ctx, cfg.Photos, mux)
	if err != nil {
		slog.Error("failed to set up photo storage", "error", err)
		os.Exit(1)
	}

	mux.Handle("/api/", api.NewRouter(database, jwtSecret, api.Options{
		Photos:            photoStore,
		AllowRegistration: cfg.AllowRegistration,
	}))

	handler := api.LoggingMiddleware(mux)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.Addr, "photos", cfg.Photos.Backend, "registration", cfg.AllowRegistration)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped, closing database")
}

// setupPhotos builds the configured photo store. Local storage is also
// served from mux under its URL prefix.
func setupPhotos(ctx context.Context, cfg config.Photos, mux *http.ServeMux) (photos.Store, error) {
	switch cfg.Backend {
	case "s3":
		s, err := photos.NewS3(ctx, photos.S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Prefix:    cfg.S3Prefix,
			PublicURL: cfg.S3PublicURL,
			Endpoint:  cfg.S3Endpoint,
		})
		if err != nil {
			return nil, err
		}
		slog.Info("storing photos in s3", "bucket", cfg.S3Bucket, "public_url", s.PublicURL)
		return s, nil
	default:
		local, err := photos.NewLocal(cfg.Dir, cfg.URLPrefix)
		if err != nil {
			return nil, err
		}
		prefix := strings.TrimSuffix(cfg.URLPrefix, "/")
		mux.Handle("GET "+prefix+"/", http.StripPrefix(prefix, local.Handler()))
		slog.Info("storing photos locally", "dir", cfg.Dir, "url_prefix", prefix)
		return local, nil
	}
}

// ensureAdmin creates the first admin account with a random password when
// the database has none. It returns the password, or "" if an admin
// already existed.
func ensureAdmin(ctx context.Context, database *sql.DB, name, email string) (string, error) {
	n, err := store.CountAdmins(ctx, database)
	if err != nil {
		return "", err
	}
	if n > 0 {
		return "", nil
	}

	password, err := generatePassword(16)
	if err != nil {
		return "", fmt.Errorf("generating password: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	if _, err := store.CreateAdmin(ctx, database, name, strings.ToLower(email), string(hash)); err != nil {
		return "", fmt.Errorf("creating admin: %w", err)
	}
	return password, nil
}

// printInitResult prints the first-run admin credentials to stdout.
func printInitResult(dbPath, email, password string) {
	fmt.Printf("Database initialized: %s\n", dbPath)
	fmt.Println()
	fmt.Println("Admin account created:")
	fmt.Printf("  Email:    %s\n", email)
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password, it cannot be recovered.")
}

// generatePassword creates a random password of the given length.
func generatePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}
