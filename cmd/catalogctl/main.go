package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "catalogctl: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:                 "catalogctl",
		Usage:                "operator console for the video catalog admin API",
		EnableBashCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the YAML config file",
				Value:   "catalogctl.yaml",
				EnvVars: []string{"CATALOG_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "base-url",
				Usage: "admin API root, overrides api.baseURL",
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "answer yes to confirmation prompts",
			},
		},
		Commands: []*cli.Command{
			loginCommand(),
			logoutCommand(),
			statusCommand(),
			themeCommand(),
			pageCommand(),
			videosCommand(),
			typesCommand(),
			categoriesCommand(),
			usersCommand(),
			filesCommand(),
			uploadCommand(),
			sandboxCommand(),
		},
	}
}
