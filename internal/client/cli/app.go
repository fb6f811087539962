// Package cli implements the interactive TypeMatch terminal client: a REPL
// over the session controller, notification poller, connection resolver and
// messaging service.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/typematch/typematch/internal/client/api"
	"github.com/typematch/typematch/internal/client/config"
	"github.com/typematch/typematch/internal/client/connections"
	"github.com/typematch/typematch/internal/client/credentials"
	"github.com/typematch/typematch/internal/client/messaging"
	"github.com/typematch/typematch/internal/client/notify"
	"github.com/typematch/typematch/internal/client/session"
	"github.com/typematch/typematch/internal/logging"

	_ "modernc.org/sqlite"
)

type App struct {
	config   *config.Config
	api      *api.Client
	session  *session.Controller
	poller   *notify.Poller
	conns    *connections.Service
	messages *messaging.Service
	db       *sql.DB
	log      logging.Logger
	reader   *bufio.Reader
	out      io.Writer
}

func NewApp(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	db, err := credentials.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing credential database: %w", err)
	}
	store := credentials.NewSQLiteStore(db)

	apiClient := api.New(cfg.BaseURL, api.WithTimeout(cfg.RequestTimeout), api.WithLogger(logger))

	app := &App{
		config: cfg,
		api:    apiClient,
		db:     db,
		log:    logger,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}

	app.session = session.NewController(apiClient, store, logger, app.notifyExpired)
	app.poller = notify.NewPoller(apiClient, app.session, logger)
	app.conns = connections.NewService(apiClient, app.poller)
	app.messages = messaging.NewService(apiClient, app.session, app.poller, logger)

	return app, nil
}

// notifyExpired is the one-shot session-expired alert. It also discards the
// derived notification state, which is meaningless without a user.
func (a *App) notifyExpired() {
	if a.poller != nil {
		a.poller.Reset()
	}
	fmt.Fprintln(a.out, "Your session has expired. Please log in again.")
}

func (a *App) isLoggedIn() bool {
	return a.session.State() == session.StateAuthenticated
}

func (a *App) getStatus() string {
	if user := a.session.CurrentUser(); user != nil {
		s := user.Username
		if a.poller.HasNotifications() {
			s += " *"
		}
		return fmt.Sprintf("(%s)", s)
	}
	return ""
}

func (a *App) Run(ctx context.Context) {
	defer a.db.Close()

	fmt.Fprintln(a.out, "Welcome to TypeMatch CLI (type 'help' for commands)")

	a.session.Start(ctx)
	if a.isLoggedIn() {
		a.poller.Check(ctx)
	}

	go a.StartNotificationWatcher(ctx, a.config.PollInterval)

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

// StartNotificationWatcher periodically refreshes the notification state
// while a user is logged in. The poller itself no-ops when nobody is.
func (a *App) StartNotificationWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			checkCtx, cancel := context.WithTimeout(context.Background(), a.config.RequestTimeout)
			a.poller.Check(checkCtx)
			cancel()

		case <-ctx.Done():
			return
		}
	}
}
