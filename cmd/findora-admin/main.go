package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/findora/findora/internal/config"
	"github.com/findora/findora/internal/console"
	"github.com/findora/findora/internal/dashboard"
	"github.com/findora/findora/internal/gateway"
	"github.com/findora/findora/internal/logging"
	"github.com/findora/findora/internal/session"
)

func main() {
	if err := config.LoadEnvFile(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	cfg := config.LoadDashboard()

	fs := flag.NewFlagSet("findora-admin", flag.ContinueOnError)

	fs.StringVar(&cfg.APIURL, "url", cfg.APIURL, "")
	fs.StringVar(&cfg.APIURL, "u", cfg.APIURL, "")

	fs.StringVar(&cfg.Session, "session", cfg.Session, "")
	fs.StringVar(&cfg.Session, "s", cfg.Session, "")

	fs.DurationVar(&cfg.PollInterval, "interval", cfg.PollInterval, "")
	fs.DurationVar(&cfg.PollInterval, "i", cfg.PollInterval, "")

	fs.StringVar(&cfg.LogPath, "log", cfg.LogPath, "")
	fs.StringVar(&cfg.LogPath, "l", cfg.LogPath, "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: findora-admin [flags]

Flags:
  -u, -url <url>            API base url (default: http://localhost:8080/api)
  -s, -session <store>      session store: sqlite, redis or memory (default: sqlite)
  -i, -interval <duration>  lost report polling interval (default: 10s)
  -l, -log <path>           log file path (default: no logging)
  -h, -help                 show this help and exit

Settings can also come from the environment or a .env file
(FINDORA_API_URL, FINDORA_SESSION, FINDORA_POLL_INTERVAL, FINDORA_ADMIN_LOG,
FINDORA_SESSION_PATH, FINDORA_REDIS_ADDR, ...). Flags win.
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

	// The terminal belongs to the dashboard, so logs only go to a file.
	closeLog, err := logging.SetupFileOnly(cfg.LogPath, level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	store, closeStore, err := openSession(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer closeStore()

	if err := run(context.Background(), cfg, store, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		closeStore()
		closeLog()
		os.Exit(1)
	}
}

// run logs in when needed and hands the terminal to the console. A logout
// or a session the server rejects returns to the login prompt.
func run(ctx context.Context, cfg config.Dashboard, store session.Store, in io.Reader, out io.Writer) error {
	gw := gateway.New(cfg.APIURL, store)
	con := console.New(in, out)

	if err := gw.Health(ctx); err != nil {
		slog.Warn("api health check failed", "url", cfg.APIURL, "error", err)
		fmt.Fprintf(out, "Peringatan: server %s tidak dapat dihubungi.\n", cfg.APIURL)
	}

	for {
		ok, err := session.IsAdmin(ctx, store)
		if err != nil {
			return fmt.Errorf("reading session: %w", err)
		}
		if !ok {
			err := con.Login(ctx, gw, store)
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
		}

		ctl := dashboard.New(gw, store, dashboard.Options{
			PollInterval: cfg.PollInterval,
			Confirmer:    con,
			Logger:       slog.Default(),
			OnNotice:     con.Notice,
		})
		if err := ctl.Start(ctx); err != nil {
			return err
		}

		err = con.Run(ctx, ctl)
		ctl.Stop()
		if errors.Is(err, console.ErrLoggedOut) {
			continue
		}
		return err
	}
}

// openSession opens the configured session store. The returned close
// function is safe to call more than once.
func openSession(cfg config.Dashboard) (session.Store, func(), error) {
	switch cfg.Session {
	case "redis":
		s, err := session.OpenRedis(cfg.RedisAddr, cfg.RedisDB, cfg.RedisKey, cfg.SessionTTL)
		if err != nil {
			return nil, nil, err
		}
		return s, closeOnce(s.Close), nil
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.SessionPath), 0700); err != nil {
			return nil, nil, fmt.Errorf("creating session directory: %w", err)
		}
		s, err := session.OpenSQLite(cfg.SessionPath)
		if err != nil {
			return nil, nil, err
		}
		return s, closeOnce(s.Close), nil
	default:
		return session.NewMemory(), func() {}, nil
	}
}

func closeOnce(fn func() error) func() {
	done := false
	return func() {
		if done {
			return
		}
		done = true
		if err := fn(); err != nil {
			slog.Warn("closing session store", "error", err)
		}
	}
}
