package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erazemk/wastewise/internal/api"
	"github.com/erazemk/wastewise/internal/auth"
	"github.com/erazemk/wastewise/internal/config"
	"github.com/erazemk/wastewise/internal/market"
	"github.com/erazemk/wastewise/internal/store"
	"github.com/erazemk/wastewise/internal/telemetry"
)

// levelRouter is a slog.Handler that routes records below ERROR to stdout
// and ERROR+ to stderr.
type levelRouter struct {
	level  slog.Level
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= lr.level
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		level:  lr.level,
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		level:  lr.level,
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger configures structured logging. If logPath is non-empty, all
// levels are also written to that file. Returns a cleanup function that
// closes the log file (if opened).
func setupLogger(logPath string, level slog.Level) (func(), error) {
	opts := &slog.HandlerOptions{Level: level}

	var cleanup func()

	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	handler := &levelRouter{
		level:  level,
		stdout: slog.NewTextHandler(stdoutW, opts),
		stderr: slog.NewTextHandler(stderrW, opts),
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

const usage = `Usage: wastewise <init|serve> [flags]

Commands:
  init    create a persistent store and fill it with sample data
  serve   run the HTTP API

Flags (override WASTEWISE_* environment variables):
  -driver <name>          store driver: memory, sqlite, postgres, bolt
  -dsn <dsn>              store file path or connection string
  -a, -addr <host:port>   listen address (serve only)
  -l, -log <path>         log file path (default: stdout/stderr only)
  -seed                   seed sample data into an empty store (serve only)
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init":
		os.Exit(cmdInit(cfg, os.Args[2:]))
	case "serve":
		os.Exit(cmdServe(cfg, os.Args[2:]))
	case "-h", "-help", "--help", "help":
		fmt.Fprint(os.Stdout, usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n%s", os.Args[1], usage)
		os.Exit(1)
	}
}

// newFlagSet registers the flags shared by both commands with defaults
// taken from cfg.
func newFlagSet(name string, cfg *config.Config, logPath *string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&cfg.StoreDriver, "driver", cfg.StoreDriver, "")
	fs.StringVar(&cfg.StoreDSN, "dsn", cfg.StoreDSN, "")
	fs.StringVar(logPath, "log", "", "")
	fs.StringVar(logPath, "l", "", "")
	fs.Usage = func() { fmt.Fprint(os.Stdout, usage) }
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) (exit int, ok bool) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0, false
		}
		return 1, false
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		fs.Usage()
		return 1, false
	}
	return 0, true
}

// warnGeneratedSecrets reports secrets that were not configured. Credentials
// signed with them stop working when the server restarts.
func warnGeneratedSecrets(logger *slog.Logger, cfg *config.Config) {
	for _, name := range cfg.GeneratedSecrets {
		logger.Warn("no secret configured, using a random one", "secret", name)
	}
}

func cmdInit(cfg *config.Config, args []string) int {
	var logPath string
	fs := newFlagSet("init", cfg, &logPath)
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	closeLog, err := setupLogger(logPath, cfg.SlogLevel())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if closeLog != nil {
		defer closeLog()
	}

	if cfg.StoreDriver == store.DriverMemory {
		slog.Error("init needs a persistent store driver", "driver", cfg.StoreDriver)
		return 1
	}

	ctx := context.Background()
	s, err := store.Open(ctx, cfg.StoreDriver, cfg.StoreDSN)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.StoreDriver, "error", err)
		return 1
	}
	defer s.Close()

	if err := market.New(s).Seed(ctx); err != nil {
		slog.Error("failed to seed store", "error", err)
		return 1
	}

	fmt.Printf("Store ready: %s (%s)\n", cfg.StoreDSN, cfg.StoreDriver)
	fmt.Println()
	fmt.Println("Demo account:")
	fmt.Printf("  Username: %s\n", market.DemoUsername)
	fmt.Printf("  Password: %s\n", market.DemoPassword)
	return 0
}

func cmdServe(cfg *config.Config, args []string) int {
	var logPath string
	fs := newFlagSet("serve", cfg, &logPath)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "")
	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "")
	fs.BoolVar(&cfg.Seed, "seed", cfg.Seed, "")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	closeLog, err := setupLogger(logPath, cfg.SlogLevel())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if closeLog != nil {
		defer closeLog()
	}
	warnGeneratedSecrets(slog.Default(), cfg)

	ctx := context.Background()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTelEndpoint)
	if err != nil {
		slog.Error("failed to set up tracing", "error", err)
		return 1
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			slog.Error("failed to flush traces", "error", err)
		}
	}()

	s, err := store.Open(ctx, cfg.StoreDriver, cfg.StoreDSN)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.StoreDriver, "error", err)
		return 1
	}
	defer s.Close()
	slog.Info("store ready", "driver", cfg.StoreDriver)

	m := market.New(s)
	if cfg.Seed {
		if err := m.Seed(ctx); err != nil {
			slog.Error("failed to seed store", "error", err)
			return 1
		}
	}

	handler := api.NewRouter(api.Deps{
		Market:      m,
		Images:      s.Images,
		Revocations: s.Revocations,
		Sessions:    auth.NewSessions(cfg.SessionSecret, cfg.SecureCookies),
		JWTSecret:   cfg.JWTSecret,
	})

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

	slog.Info("server started", "addr", cfg.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		return 1
	}

	slog.Info("server stopped, closing store")
	return 0
}
