package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/sandbox"
)

func sandboxCommand() *cli.Command {
	return &cli.Command{
		Name:  "sandbox",
		Usage: "run an in-memory admin API for trying the console",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "port", Usage: "listen port, overrides sandbox.port"},
			&cli.BoolFlag{Name: "seed", Usage: "load a small demo catalog", Value: true},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			if c.IsSet("port") {
				cfg.Sandbox.Port = c.Int("port")
			}

			srv := sandbox.New(cfg.Sandbox, logger)
			if c.Bool("seed") {
				srv.Seed()
			}

			addr, errCh, err := srv.Start()
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Sandbox admin API at http://%s%s (login %q)\n", addr, sandbox.BasePath, cfg.Sandbox.AdminLogin)

			select {
			case <-c.Context.Done():
			case err, ok := <-errCh:
				if ok && err != nil {
					return fmt.Errorf("sandbox server failed: %w", err)
				}
			}

			logger.Info("Shutting down sandbox...")
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}
}
