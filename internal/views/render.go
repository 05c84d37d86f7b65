// Package views renders catalog lists as terminal tables.
package views

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/sorting"
	"github.com/therealutkarshpriyadarshi/catalogadmin/pkg/models"
)

const (
	placeholderImage = "/img/placeholder.jpg"
	missing          = "-"
)

// Renderer writes tables to w
type Renderer struct {
	w     io.Writer
	style Styler
}

// NewRenderer creates a renderer
func NewRenderer(w io.Writer, style Styler) *Renderer {
	return &Renderer{w: w, style: style}
}

// column is a header cell; field is set when the column is sortable
type column struct {
	title string
	field string
}

func (r *Renderer) table(cols []column, st sorting.State, rows [][]string) error {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.title
		if c.field != "" && c.field == st.Field {
			headers[i] += " " + marker(st.Order)
		}
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	// styled after alignment so escape codes do not skew column widths
	out := buf.String()
	header, rest, _ := strings.Cut(out, "\n")
	_, err := fmt.Fprintf(r.w, "%s\n%s", r.style.Header(strings.TrimRight(header, " ")), rest)
	return err
}

func (r *Renderer) empty(msg string) error {
	_, err := fmt.Fprintln(r.w, msg)
	return err
}

func marker(o sorting.Order) string {
	if o == sorting.Desc {
		return "▼"
	}
	return "▲"
}

func orMissing(s string) string {
	if strings.TrimSpace(s) == "" {
		return missing
	}
	return s
}

func imageURL(name string) string {
	if name == "" {
		return placeholderImage
	}
	return "/img/" + name
}

func refCells(refs []models.Ref) (ids, names string) {
	if len(refs) == 0 {
		return missing, missing
	}
	idParts := make([]string, len(refs))
	nameParts := make([]string, len(refs))
	for i, ref := range refs {
		idParts[i] = ref.ID.String()
		nameParts[i] = ref.Name
	}
	return strings.Join(idParts, ", "), strings.Join(nameParts, ", ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// Videos renders the video table
func (r *Renderer) Videos(videos []models.Video, st sorting.State) error {
	if len(videos) == 0 {
		return r.empty("no videos available")
	}

	cols := []column{
		{title: "ID", field: "id"},
		{title: "PREVIEW"},
		{title: "NAME", field: "name"},
		{title: "DESCRIPTION"},
		{title: "FILE"},
		{title: "CATEGORY IDS"},
		{title: "CATEGORIES"},
		{title: "CREATED", field: "created_at"},
	}

	rows := make([][]string, 0, len(videos))
	for _, v := range videos {
		ids, names := refCells(v.Categories)
		rows = append(rows, []string{
			v.ID.String(),
			imageURL(v.ImgURL),
			orMissing(v.Name),
			orMissing(v.Description),
			orMissing(v.Filename()),
			ids,
			names,
			sorting.FormatDate(v.CreatedAt),
		})
	}
	return r.table(cols, st, rows)
}

// Categories renders the category table
func (r *Renderer) Categories(categories []models.Category, st sorting.State) error {
	if len(categories) == 0 {
		return r.empty("no categories available")
	}

	cols := []column{
		{title: "ID", field: "id"},
		{title: "PREVIEW"},
		{title: "NAME", field: "name"},
		{title: "TYPE IDS"},
		{title: "TYPES"},
		{title: "CREATED", field: "date_created"},
	}

	rows := make([][]string, 0, len(categories))
	for _, c := range categories {
		ids, names := refCells(c.Types)
		rows = append(rows, []string{
			c.ID.String(),
			imageURL(c.ImgURL),
			orMissing(c.Name),
			ids,
			names,
			sorting.FormatDate(c.DateCreated),
		})
	}
	return r.table(cols, st, rows)
}

// ContentTypes renders the content type table
func (r *Renderer) ContentTypes(types []models.ContentType, st sorting.State) error {
	if len(types) == 0 {
		return r.empty("no content types available")
	}

	cols := []column{
		{title: "ID", field: "id"},
		{title: "NAME", field: "name"},
		{title: "CREATED", field: "created_at"},
	}

	rows := make([][]string, 0, len(types))
	for _, t := range types {
		rows = append(rows, []string{t.ID.String(), orMissing(t.Name), sorting.FormatDate(t.CreatedAt)})
	}
	return r.table(cols, st, rows)
}

// Users renders the user table
func (r *Renderer) Users(users []models.User, st sorting.State) error {
	if len(users) == 0 {
		return r.empty("no users available")
	}

	cols := []column{
		{title: "ID", field: "id"},
		{title: "USERNAME", field: "username"},
		{title: "TYPE ID", field: "content_type_id"},
		{title: "TYPE", field: "content_type_name"},
		{title: "ADMIN", field: "admin"},
		{title: "CREATED", field: "date_created"},
	}

	rows := make([][]string, 0, len(users))
	for _, u := range users {
		typeID := missing
		if !u.ContentTypeID.IsZero() {
			typeID = u.ContentTypeID.String()
		}
		rows = append(rows, []string{
			u.ID.String(),
			orMissing(u.Username),
			typeID,
			orMissing(u.ContentTypeName),
			yesNo(u.Admin),
			sorting.FormatDate(u.DateCreated),
		})
	}
	return r.table(cols, st, rows)
}

// Files renders a media folder listing; selected is marked with "*"
func (r *Renderer) Files(files []models.FileInfo, st sorting.State, selected string) error {
	if len(files) == 0 {
		return r.empty("no files found")
	}

	cols := []column{
		{title: " "},
		{title: "NAME", field: "name"},
		{title: "SIZE", field: "size"},
		{title: "MODIFIED", field: "mod_time"},
	}

	rows := make([][]string, 0, len(files))
	for _, f := range files {
		mark := " "
		if selected != "" && f.Name == selected {
			mark = "*"
		}
		rows = append(rows, []string{
			mark,
			f.Name,
			fmt.Sprintf("%.2f MB", f.SizeMB()),
			formatTimestamp(f.ModTime),
		})
	}
	return r.table(cols, st, rows)
}

func formatTimestamp(s string) string {
	if strings.TrimSpace(s) == "" {
		return missing
	}
	t := sorting.ParseDate(s)
	if t.Equal(time.Unix(0, 0)) {
		return s
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

// Summary writes an accent-styled status line
func (r *Renderer) Summary(line string) error {
	_, err := fmt.Fprintln(r.w, r.style.Accent(line))
	return err
}
