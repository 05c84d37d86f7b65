package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/console"
	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/views"
)

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "sign in and save the session token",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "login", Aliases: []string{"u"}, Usage: "admin login"},
			&cli.StringFlag{Name: "password", Usage: "password (prompted when omitted)", EnvVars: []string{"CATALOG_PASSWORD"}},
		},
		Action: withEnv(func(c *cli.Context, e *env) error {
			p := stdinPrompter(e)

			login := c.String("login")
			if login == "" {
				var err error
				if login, err = p.line("Login: "); err != nil {
					return err
				}
			}
			password := c.String("password")
			if password == "" {
				var err error
				if password, err = p.password("Password: "); err != nil {
					return err
				}
			}

			res, err := e.app.Gate().Login(c.Context, login, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Logged in. Current page: %s\n", res.Page)
			return nil
		}),
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "end the session",
		Action: withEnv(func(c *cli.Context, e *env) error {
			if err := e.app.Gate().Logout(c.Context); err != nil {
				return err
			}
			fmt.Fprintln(e.out, "Logged out")
			return nil
		}),
	}
}

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "show the session, page and theme",
		Action: withEnv(func(c *cli.Context, e *env) error {
			fmt.Fprintf(e.out, "API:    %s\n", e.app.Client().BaseURL())
			fmt.Fprintf(e.out, "Theme:  %s\n", orDefault(e.app.State().Theme(), string(views.ThemeSystem)))

			if e.app.State().Token() == "" {
				fmt.Fprintln(e.out, "Session: not logged in")
				return nil
			}

			res, err := e.app.Gate().Check(c.Context)
			switch {
			case err != nil:
				fmt.Fprintf(e.out, "Session: not verified (%v)\n", err)
			case res.View == console.ViewLogin:
				fmt.Fprintln(e.out, "Session: expired, token cleared")
				return nil
			default:
				printIdentity(e)
			}
			fmt.Fprintf(e.out, "Page:   %s\n", e.app.Router().Current())
			return nil
		}),
	}
}

// printIdentity reports what the token says about the operator. The token
// is opaque to the API, so a token that does not decode is still a session.
func printIdentity(e *env) {
	id, err := e.app.Gate().Whoami()
	if err != nil {
		fmt.Fprintln(e.out, "Session: active (identity unavailable)")
		return
	}
	fmt.Fprintf(e.out, "Session: %s (admin: %t)\n", id.Username, id.Admin)
	if !id.ExpiresAt.IsZero() {
		fmt.Fprintf(e.out, "Expires: %s\n", id.ExpiresAt.Local().Format(time.RFC1123))
	}
}

func themeCommand() *cli.Command {
	return &cli.Command{
		Name:      "theme",
		Usage:     "show or set the colour theme",
		ArgsUsage: "[light|dark|system]",
		Action: withEnv(func(c *cli.Context, e *env) error {
			if c.NArg() == 0 {
				fmt.Fprintln(e.out, orDefault(e.app.State().Theme(), string(views.ThemeSystem)))
				return nil
			}
			theme, err := views.ParseTheme(c.Args().First())
			if err != nil {
				return err
			}
			if err := e.app.State().SetTheme(string(theme)); err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Theme set to %s\n", theme)
			return nil
		}),
	}
}

func pageCommand() *cli.Command {
	return &cli.Command{
		Name:      "page",
		Usage:     "switch to a panel and show its list",
		ArgsUsage: "[videos|content-types|users|categories]",
		Action: withSession(func(c *cli.Context, e *env) error {
			panel := e.app.Router().Current()
			if c.NArg() > 0 {
				var err error
				if panel, err = console.ParsePanel(c.Args().First()); err != nil {
					return err
				}
			}
			if err := e.app.Router().Switch(c.Context, panel); err != nil {
				return err
			}
			return e.app.Render(panel)
		}),
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
