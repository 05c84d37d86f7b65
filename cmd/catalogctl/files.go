package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/console"
	"github.com/therealutkarshpriyadarshi/catalogadmin/pkg/models"
)

func kindArg(c *cli.Context) (models.MediaKind, error) {
	if c.NArg() == 0 {
		return "", fmt.Errorf("missing media kind argument (video or img)")
	}
	return models.ParseMediaKind(c.Args().First())
}

func pickerFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "search", Usage: "case-insensitive name filter"},
		&cli.StringFlag{Name: "sort", Aliases: []string{"s"}, Usage: "name, size or mod_time; repeating the saved field flips the order"},
	}
}

// openPicker loads the folder listing and applies --search and --sort
func openPicker(c *cli.Context, e *env, kind models.MediaKind, target console.FieldSetter) (*console.Picker, error) {
	p := e.app.Picker()
	if err := p.Open(c.Context, kind, target); err != nil {
		return nil, err
	}
	if field := c.String("sort"); field != "" {
		if _, err := p.SortBy(field); err != nil {
			return nil, err
		}
	}
	p.Search(c.String("search"))
	return p, nil
}

func filesCommand() *cli.Command {
	return &cli.Command{
		Name:  "files",
		Usage: "browse the server media folders",
		Subcommands: []*cli.Command{
			{
				Name:      "list",
				ArgsUsage: "<video|img>",
				Flags:     pickerFlags(),
				Action: withSession(func(c *cli.Context, e *env) error {
					kind, err := kindArg(c)
					if err != nil {
						return err
					}
					p, err := openPicker(c, e, kind, nil)
					if err != nil {
						return err
					}
					return p.Render()
				}),
			},
			{
				Name:      "pick",
				Usage:     "choose a file and store it on a video or category",
				ArgsUsage: "<video|img>",
				Flags: append(pickerFlags(),
					&cli.StringFlag{Name: "select", Usage: "file name to pick", Required: true},
					&cli.Int64Flag{Name: "video", Usage: "video id to update"},
					&cli.StringFlag{Name: "field", Usage: "video field to set: url or img", Value: "url"},
					&cli.Int64Flag{Name: "category", Usage: "category id to update (image only)"},
				),
				Action: withSession(pickFile),
			},
		},
	}
}

func pickFile(c *cli.Context, e *env) error {
	kind, err := kindArg(c)
	if err != nil {
		return err
	}

	var (
		target console.FieldSetter
		submit func() error
		what   string
	)
	switch {
	case c.IsSet("video") && c.IsSet("category"):
		return fmt.Errorf("--video and --category are mutually exclusive")
	case c.IsSet("video"):
		editor := e.app.VideoEditor()
		form, err := editor.Open(c.Context, models.ID(c.Int64("video")))
		if err != nil {
			return err
		}
		switch c.String("field") {
		case "url":
			target = form.URLTarget()
		case "img":
			target = form.ImageTarget()
		default:
			return fmt.Errorf("unknown video field %q (want url or img)", c.String("field"))
		}
		submit = func() error { return editor.Submit(c.Context, form) }
		what = "Video " + form.ID.String()
	case c.IsSet("category"):
		if kind != models.MediaImage {
			return fmt.Errorf("categories only take images")
		}
		editor := e.app.CategoryEditor()
		form, err := editor.Open(c.Context, models.ID(c.Int64("category")))
		if err != nil {
			return err
		}
		target = form.ImageTarget()
		submit = func() error { return editor.Submit(c.Context, form) }
		what = "Category " + form.ID.String()
	}

	p, err := openPicker(c, e, kind, target)
	if err != nil {
		return err
	}
	if err := p.Select(c.String("select")); err != nil {
		return err
	}
	name, err := p.Confirm()
	if err != nil {
		return err
	}

	if submit == nil {
		fmt.Fprintln(e.out, name)
		return nil
	}
	if err := submit(); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "%s now uses %s\n", what, name)
	return nil
}
