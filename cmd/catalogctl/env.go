package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/api"
	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/cache"
	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/config"
	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/console"
	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/logging"
	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/metrics"
	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/state"
	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/tracing"
	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/upload"
	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/views"
)

// env is everything one command needs
type env struct {
	cfg     *config.Config
	logger  *logging.Logger
	app     *console.App
	lookups cache.Lookup
	out     io.Writer
	errOut  io.Writer
	yes     bool

	metrics *metrics.Server
	tracer  io.Closer
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadOptional(c.String("config"))
	if err != nil {
		return nil, err
	}
	if u := c.String("base-url"); u != "" {
		cfg.API.BaseURL = u
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*logging.Logger, error) {
	logger, err := logging.NewLogger(logging.FromConfig(cfg.Log))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// setup builds the console for a command
func setup(c *cli.Context) (*env, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	e := &env{
		cfg:    cfg,
		logger: logger,
		out:    c.App.Writer,
		errOut: c.App.ErrWriter,
		yes:    c.Bool("yes"),
	}
	if e.out == nil {
		e.out = os.Stdout
	}
	if e.errOut == nil {
		e.errOut = os.Stderr
	}

	if _, closer, err := tracing.Init(cfg.Tracing); err != nil {
		logger.WithError(err).Warn("Tracing disabled")
	} else {
		e.tracer = closer
	}

	if cfg.Metrics.Port > 0 {
		e.metrics = metrics.NewServer(cfg.Metrics.Port)
		if _, err := e.metrics.Start(); err != nil {
			logger.WithError(err).Warn("Metrics endpoint disabled")
			e.metrics = nil
		}
	}

	store, err := state.Open(cfg.State.Path)
	if err != nil {
		e.close()
		return nil, fmt.Errorf("failed to open state: %w", err)
	}

	lookups, err := cache.New(cfg.Cache)
	if err != nil {
		logger.WithError(err).Warn("Lookup cache unavailable, using memory")
		lookups = cache.NewMemory(cfg.Cache.TTL)
	}
	e.lookups = lookups

	client, err := api.NewClient(api.OptionsFromConfig(cfg.API, logger))
	if err != nil {
		e.close()
		return nil, err
	}

	theme, err := views.ParseTheme(store.Theme())
	if err != nil {
		theme = views.ThemeSystem
	}

	e.app = console.New(console.Options{
		Client:  client,
		State:   store,
		Lookups: lookups,
		Out:     e.out,
		Style:   views.NewStyler(theme, e.out),
		Logger:  logger,
		Rules:   upload.RulesFromConfig(cfg.Upload),
	})
	return e, nil
}

func (e *env) close() {
	if e.lookups != nil {
		if err := e.lookups.Close(); err != nil {
			e.logger.WithError(err).Warn("Failed to close lookup cache")
		}
	}
	if e.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = e.metrics.Shutdown(ctx)
	}
	if e.tracer != nil {
		_ = e.tracer.Close()
	}
}

var errNotLoggedIn = errors.New("not logged in, run `catalogctl login` first")

// withSession runs fn once the stored token has been accepted by the API
func withSession(fn func(c *cli.Context, e *env) error) cli.ActionFunc {
	return withEnv(func(c *cli.Context, e *env) error {
		res, err := e.app.Gate().Check(c.Context)
		if err != nil {
			return err
		}
		if res.View != console.ViewMain {
			return errNotLoggedIn
		}
		return fn(c, e)
	})
}

// withEnv runs fn with a console that may not be logged in
func withEnv(fn func(c *cli.Context, e *env) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		e, err := setup(c)
		if err != nil {
			return err
		}
		defer e.close()
		return fn(c, e)
	}
}
