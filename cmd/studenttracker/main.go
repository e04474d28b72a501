package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexanderramin/studenttracker/internal/analytics"
	"github.com/alexanderramin/studenttracker/internal/api"
	"github.com/alexanderramin/studenttracker/internal/cli"
	"github.com/alexanderramin/studenttracker/internal/config"
	"github.com/alexanderramin/studenttracker/internal/db"
	"github.com/alexanderramin/studenttracker/internal/repository"
	"github.com/alexanderramin/studenttracker/internal/server"
	"github.com/alexanderramin/studenttracker/internal/service"
	"github.com/alexanderramin/studenttracker/internal/session"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Client call logs go to a file so they never interleave with the TUI.
	var logOut io.Writer = io.Discard
	if cfg.Client.LogCalls {
		if err := os.MkdirAll(cfg.Home, 0o755); err != nil {
			return fmt.Errorf("creating home directory: %w", err)
		}
		f, err := os.OpenFile(cfg.ClientLogPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return fmt.Errorf("opening client log: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	clientLogger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: slog.LevelDebug}))

	// Wire the client side
	store := session.NewFileStore(cfg.SessionPath())
	provider := session.NewIdentityProvider(cfg.Client.Endpoint, cfg.Client.ClientID, store, nil, clientLogger)

	apiCfg := api.DefaultConfig()
	apiCfg.Endpoint = cfg.Client.Endpoint
	apiCfg.TimeoutMs = cfg.Client.RequestTimeoutMs
	client := api.NewClient(apiCfg, api.NewLogObserver(clientLogger))

	app := cli.NewApp(provider, client, analytics.Localizer{Location: time.Local, Layout: cfg.Client.DateLayout})

	// Detect interactive terminal for the TUI and prompts.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	app.Serve = func(ctx context.Context) error {
		return serve(ctx, cfg)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(ctx)
}

// serve runs the identity and log API until ctx is cancelled.
func serve(ctx context.Context, cfg config.Config) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.ParseLogLevel(cfg.Log.Level)}))

	database, err := db.OpenDB(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	users := repository.NewSQLiteUserRepo(database)
	tokens := repository.NewSQLiteTokenRepo(database)
	entries := repository.NewSQLiteLogEntryRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	observer := service.NewLogUseCaseObserver(logger)
	authCfg := service.DefaultAuthConfig()
	authCfg.AccessTTL = cfg.Server.AccessTTL
	authCfg.RefreshTTL = cfg.Server.RefreshTTL
	auth := service.NewAuthService(users, tokens, uow, authCfg, observer)
	logs := service.NewLogService(entries, observer)

	handler := server.New(auth, logs, server.Options{Logger: logger, CORSOrigins: cfg.Server.CORSOrigins})

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.Addr(), err)
	}
	logger.Info("api listening", "addr", ln.Addr().String(), "db", cfg.DB.Path)

	return server.Run(ctx, ln, handler, auth, logger, server.DefaultRunOptions())
}
