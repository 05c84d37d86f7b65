package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/console"
	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/sorting"
	"github.com/therealutkarshpriyadarshi/catalogadmin/pkg/models"
)

func sortFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "sort", Aliases: []string{"s"}, Usage: "sort field; repeating the saved field flips the order"},
		&cli.StringFlag{Name: "order", Usage: "asc or desc"},
	}
}

// applySort updates the saved sort of panel from --sort and --order
func applySort(c *cli.Context, e *env, panel console.Panel) error {
	field := c.String("sort")
	if field == "" {
		return nil
	}
	switch order := sorting.Order(strings.ToLower(c.String("order"))); order {
	case "":
		_, err := e.app.Router().SortPanel(panel, field)
		return err
	case sorting.Asc, sorting.Desc:
		return e.app.Router().SetSort(panel, sorting.State{Field: field, Order: order})
	default:
		return fmt.Errorf("unknown order %q (want asc or desc)", order)
	}
}

func listCommand(panel console.Panel) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: fmt.Sprintf("list %s (sortable by %s)", panel, strings.Join(console.SortFields(panel), ", ")),
		Flags: sortFlags(),
		Action: withSession(func(c *cli.Context, e *env) error {
			if err := applySort(c, e, panel); err != nil {
				return err
			}
			if err := e.app.Router().Switch(c.Context, panel); err != nil {
				return err
			}
			return e.app.Render(panel)
		}),
	}
}

func idArg(c *cli.Context) (models.ID, error) {
	if c.NArg() == 0 {
		return 0, fmt.Errorf("missing id argument")
	}
	return models.ParseID(c.Args().First())
}

func toIDs(values []int64) []models.ID {
	ids := make([]models.ID, 0, len(values))
	for _, v := range values {
		ids = append(ids, models.ID(v))
	}
	return ids
}

func refNames(refs []models.Ref) string {
	if len(refs) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(refs))
	for _, r := range refs {
		parts = append(parts, fmt.Sprintf("%s (%s)", r.Name, r.ID))
	}
	return strings.Join(parts, ", ")
}

func printFields(w io.Writer, fields [][2]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, f := range fields {
		value := f[1]
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(tw, "%s:\t%s\n", f[0], value)
	}
	return tw.Flush()
}

func saved(e *env, what string, id models.ID) {
	fmt.Fprintf(e.out, "%s %s saved\n", what, id)
}

// Videos

func videoFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "name"},
		&cli.StringFlag{Name: "url", Usage: "video file, e.g. from `files pick video`"},
		&cli.StringFlag{Name: "img", Usage: "preview image file name"},
		&cli.StringFlag{Name: "description"},
		&cli.Int64SliceFlag{Name: "category", Usage: "category id, repeatable; replaces the selection"},
		&cli.Int64SliceFlag{Name: "remove-category", Usage: "category id to drop from the selection"},
	}
}

func applyVideoFlags(c *cli.Context, e *env, form *console.VideoForm) error {
	if c.IsSet("name") {
		form.Name = c.String("name")
	}
	if c.IsSet("url") {
		form.URL = c.String("url")
	}
	if c.IsSet("img") {
		form.ImgURL = c.String("img")
	}
	if c.IsSet("description") {
		form.Description = c.String("description")
	}
	if c.IsSet("category") {
		if err := e.app.VideoEditor().SelectCategories(c.Context, form, toIDs(c.Int64Slice("category"))); err != nil {
			return err
		}
	}
	for _, id := range c.Int64Slice("remove-category") {
		form.RemoveRef(models.ID(id))
	}
	return nil
}

func printVideo(w io.Writer, f *console.VideoForm) error {
	return printFields(w, [][2]string{
		{"ID", f.ID.String()},
		{"Name", f.Name},
		{"URL", f.URL},
		{"Image", f.ImgURL},
		{"Description", f.Description},
		{"Categories", refNames(f.Categories)},
	})
}

func videosCommand() *cli.Command {
	return &cli.Command{
		Name:    "videos",
		Aliases: []string{"video"},
		Usage:   "manage videos",
		Subcommands: []*cli.Command{
			listCommand(console.PanelVideos),
			{
				Name:      "get",
				ArgsUsage: "<id>",
				Action: withSession(func(c *cli.Context, e *env) error {
					id, err := idArg(c)
					if err != nil {
						return err
					}
					form, err := e.app.VideoEditor().Open(c.Context, id)
					if err != nil {
						return err
					}
					return printVideo(e.out, form)
				}),
			},
			{
				Name:  "create",
				Flags: videoFlags(),
				Action: withSession(func(c *cli.Context, e *env) error {
					editor := e.app.VideoEditor()
					form, err := editor.Open(c.Context, 0)
					if err != nil {
						return err
					}
					if err := applyVideoFlags(c, e, form); err != nil {
						return err
					}
					if err := editor.Submit(c.Context, form); err != nil {
						return err
					}
					saved(e, "Video", form.ID)
					return nil
				}),
			},
			{
				Name:      "update",
				ArgsUsage: "<id>",
				Flags:     videoFlags(),
				Action: withSession(func(c *cli.Context, e *env) error {
					id, err := idArg(c)
					if err != nil {
						return err
					}
					editor := e.app.VideoEditor()
					form, err := editor.Open(c.Context, id)
					if err != nil {
						return err
					}
					if err := applyVideoFlags(c, e, form); err != nil {
						return err
					}
					if err := editor.Submit(c.Context, form); err != nil {
						return err
					}
					saved(e, "Video", form.ID)
					return nil
				}),
			},
			{
				Name:      "delete",
				ArgsUsage: "<id>",
				Action: withSession(func(c *cli.Context, e *env) error {
					id, err := idArg(c)
					if err != nil {
						return err
					}
					editor := e.app.VideoEditor()
					form, err := editor.Open(c.Context, id)
					if err != nil {
						return err
					}
					if err := editor.Delete(c.Context, form, stdinPrompter(e).confirmer(e.yes)); err != nil {
						return err
					}
					fmt.Fprintf(e.out, "Video %s deleted\n", id)
					return nil
				}),
			},
		},
	}
}

// Content types

func typesCommand() *cli.Command {
	nameFlag := &cli.StringFlag{Name: "name"}

	return &cli.Command{
		Name:    "types",
		Aliases: []string{"content-types", "type"},
		Usage:   "manage content types",
		Subcommands: []*cli.Command{
			listCommand(console.PanelTypes),
			{
				Name:      "get",
				ArgsUsage: "<id>",
				Action: withSession(func(c *cli.Context, e *env) error {
					id, err := idArg(c)
					if err != nil {
						return err
					}
					form, err := e.app.TypeEditor().Open(c.Context, id)
					if err != nil {
						return err
					}
					return printFields(e.out, [][2]string{{"ID", form.ID.String()}, {"Name", form.Name}})
				}),
			},
			{
				Name:  "create",
				Flags: []cli.Flag{nameFlag},
				Action: withSession(func(c *cli.Context, e *env) error {
					editor := e.app.TypeEditor()
					form, err := editor.Open(c.Context, 0)
					if err != nil {
						return err
					}
					form.Name = c.String("name")
					if err := editor.Submit(c.Context, form); err != nil {
						return err
					}
					saved(e, "Content type", form.ID)
					return nil
				}),
			},
			{
				Name:      "update",
				ArgsUsage: "<id>",
				Flags:     []cli.Flag{nameFlag},
				Action: withSession(func(c *cli.Context, e *env) error {
					id, err := idArg(c)
					if err != nil {
						return err
					}
					editor := e.app.TypeEditor()
					form, err := editor.Open(c.Context, id)
					if err != nil {
						return err
					}
					if c.IsSet("name") {
						form.Name = c.String("name")
					}
					if err := editor.Submit(c.Context, form); err != nil {
						return err
					}
					saved(e, "Content type", form.ID)
					return nil
				}),
			},
			{
				Name:      "delete",
				ArgsUsage: "<id>",
				Action: withSession(func(c *cli.Context, e *env) error {
					id, err := idArg(c)
					if err != nil {
						return err
					}
					editor := e.app.TypeEditor()
					form, err := editor.Open(c.Context, id)
					if err != nil {
						return err
					}
					if err := editor.Delete(c.Context, form, stdinPrompter(e).confirmer(e.yes)); err != nil {
						return err
					}
					fmt.Fprintf(e.out, "Content type %s deleted\n", id)
					return nil
				}),
			},
		},
	}
}

// Categories

func categoryFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "name"},
		&cli.StringFlag{Name: "img", Usage: "image file name, e.g. from `files pick img`"},
		&cli.Int64SliceFlag{Name: "type", Usage: "content type id, repeatable; replaces the selection"},
		&cli.Int64SliceFlag{Name: "remove-type", Usage: "content type id to drop from the selection"},
	}
}

func applyCategoryFlags(c *cli.Context, e *env, form *console.CategoryForm) error {
	if c.IsSet("name") {
		form.Name = c.String("name")
	}
	if c.IsSet("img") {
		form.ImgURL = c.String("img")
	}
	if c.IsSet("type") {
		if err := e.app.CategoryEditor().SelectTypes(c.Context, form, toIDs(c.Int64Slice("type"))); err != nil {
			return err
		}
	}
	for _, id := range c.Int64Slice("remove-type") {
		form.RemoveRef(models.ID(id))
	}
	return nil
}

func categoriesCommand() *cli.Command {
	return &cli.Command{
		Name:    "categories",
		Aliases: []string{"category"},
		Usage:   "manage categories",
		Subcommands: []*cli.Command{
			listCommand(console.PanelCategories),
			{
				Name:      "get",
				ArgsUsage: "<id>",
				Action: withSession(func(c *cli.Context, e *env) error {
					id, err := idArg(c)
					if err != nil {
						return err
					}
					form, err := e.app.CategoryEditor().Open(c.Context, id)
					if err != nil {
						return err
					}
					return printFields(e.out, [][2]string{
						{"ID", form.ID.String()},
						{"Name", form.Name},
						{"Image", form.ImgURL},
						{"Types", refNames(form.Types)},
					})
				}),
			},
			{
				Name:  "create",
				Flags: categoryFlags(),
				Action: withSession(func(c *cli.Context, e *env) error {
					editor := e.app.CategoryEditor()
					form, err := editor.Open(c.Context, 0)
					if err != nil {
						return err
					}
					if err := applyCategoryFlags(c, e, form); err != nil {
						return err
					}
					if err := editor.Submit(c.Context, form); err != nil {
						return err
					}
					saved(e, "Category", form.ID)
					return nil
				}),
			},
			{
				Name:      "update",
				ArgsUsage: "<id>",
				Flags:     categoryFlags(),
				Action: withSession(func(c *cli.Context, e *env) error {
					id, err := idArg(c)
					if err != nil {
						return err
					}
					editor := e.app.CategoryEditor()
					form, err := editor.Open(c.Context, id)
					if err != nil {
						return err
					}
					if err := applyCategoryFlags(c, e, form); err != nil {
						return err
					}
					if err := editor.Submit(c.Context, form); err != nil {
						return err
					}
					saved(e, "Category", form.ID)
					return nil
				}),
			},
			{
				Name:      "delete",
				ArgsUsage: "<id>",
				Action: withSession(func(c *cli.Context, e *env) error {
					id, err := idArg(c)
					if err != nil {
						return err
					}
					editor := e.app.CategoryEditor()
					form, err := editor.Open(c.Context, id)
					if err != nil {
						return err
					}
					if err := editor.Delete(c.Context, form, stdinPrompter(e).confirmer(e.yes)); err != nil {
						return err
					}
					fmt.Fprintf(e.out, "Category %s deleted\n", id)
					return nil
				}),
			},
		},
	}
}

// Users

func userFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "username"},
		&cli.BoolFlag{Name: "admin"},
		&cli.Int64Flag{Name: "type", Usage: "content type id; 0 clears it"},
		&cli.BoolFlag{Name: "password", Usage: "prompt for a new password"},
	}
}

func applyUserFlags(c *cli.Context, e *env, form *console.UserForm) error {
	if c.IsSet("username") {
		form.Username = c.String("username")
	}
	if c.IsSet("admin") {
		form.Admin = c.Bool("admin")
	}
	if c.IsSet("type") {
		if id := models.ID(c.Int64("type")); id.IsZero() {
			form.ClearType()
		} else if err := e.app.UserEditor().PickType(c.Context, form, id); err != nil {
			return err
		}
	}
	if c.Bool("password") {
		p := stdinPrompter(e)
		password, err := p.password("New password: ")
		if err != nil {
			return err
		}
		form.Password = password
	}
	return nil
}

func usersCommand() *cli.Command {
	return &cli.Command{
		Name:    "users",
		Aliases: []string{"user"},
		Usage:   "manage user accounts",
		Subcommands: []*cli.Command{
			listCommand(console.PanelUsers),
			{
				Name:      "get",
				ArgsUsage: "<id>",
				Action: withSession(func(c *cli.Context, e *env) error {
					id, err := idArg(c)
					if err != nil {
						return err
					}
					form, err := e.app.UserEditor().Open(c.Context, id)
					if err != nil {
						return err
					}
					admin := "no"
					if form.Admin {
						admin = "yes"
					}
					typeID := ""
					if !form.ContentTypeID.IsZero() {
						typeID = form.ContentTypeID.String()
					}
					return printFields(e.out, [][2]string{
						{"ID", form.ID.String()},
						{"Username", form.Username},
						{"Admin", admin},
						{"Content type ID", typeID},
						{"Content type", form.ContentTypeName},
					})
				}),
			},
			{
				Name:  "create",
				Flags: userFlags(),
				Action: withSession(func(c *cli.Context, e *env) error {
					editor := e.app.UserEditor()
					form, err := editor.Open(c.Context, 0)
					if err != nil {
						return err
					}
					if err := applyUserFlags(c, e, form); err != nil {
						return err
					}
					if err := editor.Submit(c.Context, form); err != nil {
						return err
					}
					saved(e, "User", form.ID)
					return nil
				}),
			},
			{
				Name:      "update",
				ArgsUsage: "<id>",
				Flags:     userFlags(),
				Action: withSession(func(c *cli.Context, e *env) error {
					id, err := idArg(c)
					if err != nil {
						return err
					}
					editor := e.app.UserEditor()
					form, err := editor.Open(c.Context, id)
					if err != nil {
						return err
					}
					if err := applyUserFlags(c, e, form); err != nil {
						return err
					}
					if err := editor.Submit(c.Context, form); err != nil {
						return err
					}
					saved(e, "User", form.ID)
					return nil
				}),
			},
			{
				Name:      "delete",
				ArgsUsage: "<id>",
				Action: withSession(func(c *cli.Context, e *env) error {
					id, err := idArg(c)
					if err != nil {
						return err
					}
					editor := e.app.UserEditor()
					form, err := editor.Open(c.Context, id)
					if err != nil {
						return err
					}
					if err := editor.Delete(c.Context, form, stdinPrompter(e).confirmer(e.yes)); err != nil {
						return err
					}
					fmt.Fprintf(e.out, "User %s deleted\n", id)
					return nil
				}),
			},
		},
	}
}
