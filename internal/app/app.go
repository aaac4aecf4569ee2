// Package app builds the dependency graph shared by the mailrelay binaries.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mailrelay/mailrelay/internal/config"
	"github.com/mailrelay/mailrelay/internal/database"
	"github.com/mailrelay/mailrelay/internal/dispatch"
	"github.com/mailrelay/mailrelay/internal/email"
	"github.com/mailrelay/mailrelay/internal/handler"
	"github.com/mailrelay/mailrelay/internal/logger"
	"github.com/mailrelay/mailrelay/internal/repository"
	"github.com/mailrelay/mailrelay/internal/source"
)

// App is the composition root: concrete sources and senders are chosen
// here and everything downstream sees only the abstractions.
type App struct {
	Config     *config.Config
	Log        *logger.Logger
	DB         *database.Postgres
	Redis      *database.Redis
	Messages   *repository.MessageRepository
	Sources    *source.Factory
	Dispatcher *dispatch.Service

	files *os.Root
}

// New connects the enabled backing services and wires the dispatcher.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	a := &App{
		Config: cfg,
		Log:    log,
		Sources: &source.Factory{
			ConnectionString: cfg.Source.ConnectionString,
			RedisPrefix:      cfg.Source.RedisPrefix,
		},
	}

	if cfg.Source.FilesDir != "" {
		root, err := os.OpenRoot(cfg.Source.FilesDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open files directory: %w", err)
		}
		a.files = root
	}

	if cfg.Database.Enabled {
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.DB = db
		a.Messages = repository.NewMessageRepository(db)
		a.Sources.Store = a.Messages
		log.Info().Msg("connected to PostgreSQL")
	}

	if cfg.Redis.Enabled {
		rdb, err := database.NewRedis(cfg.Redis)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		a.Redis = rdb
		a.Sources.Keys = rdb
		log.Info().Msg("connected to Redis")
	}

	composer, err := email.NewComposerFromConfig(ctx, cfg.Email, log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize email sender: %w", err)
	}
	log.Info().Str("provider", cfg.Email.Provider).Msg("email sender initialized")

	a.Dispatcher = dispatch.NewService(composer, log)
	return a, nil
}

// HealthChecks returns the health checkers of the connected services.
func (a *App) HealthChecks() map[string]handler.HealthChecker {
	checks := make(map[string]handler.HealthChecker)
	if a.DB != nil {
		checks["postgres"] = a.DB
	}
	if a.Redis != nil {
		checks["redis"] = a.Redis
	}
	return checks
}

// APISources returns the factory for refs supplied by API callers. File
// kinds are confined to source.files_dir, or disabled when it is unset.
func (a *App) APISources() *source.Factory {
	if a.files == nil {
		return a.Sources.Confine(nil)
	}
	return a.Sources.Confine(a.files.FS())
}

// Send builds the source of the given kind and dispatches its body.
func (a *App) Send(ctx context.Context, kind, ref string) (string, error) {
	src, err := a.Sources.New(kind, ref)
	if err != nil {
		return "", err
	}
	return a.Dispatcher.SendMessage(ctx, src)
}

// Close releases the backing service connections.
func (a *App) Close() error {
	var errs []error
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.files != nil {
		errs = append(errs, a.files.Close())
	}
	return errors.Join(errs...)
}
