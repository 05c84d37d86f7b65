package console

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/sorting"
	"github.com/therealutkarshpriyadarshi/catalogadmin/pkg/models"
)

// Picker browses a server-side media folder and writes the chosen file
// name into a form field.
type Picker struct {
	app      *App
	kind     models.MediaKind
	target   FieldSetter
	files    []models.FileInfo
	search   string
	selected string
}

// Picker returns a file picker
func (a *App) Picker() *Picker { return &Picker{app: a} }

// Open fetches the listing of kind. An empty folder is an empty listing.
func (p *Picker) Open(ctx context.Context, kind models.MediaKind, target FieldSetter) error {
	p.kind = kind
	p.target = target
	p.search = ""
	p.selected = ""
	return p.Refresh(ctx)
}

// Refresh refetches the listing, keeping the search and the selection
// when the selected file still exists.
func (p *Picker) Refresh(ctx context.Context) error {
	files, err := p.app.RefreshFiles(ctx, p.kind)
	if err != nil {
		return err
	}
	p.files = files
	if p.selected != "" && !slices.ContainsFunc(files, func(f models.FileInfo) bool { return f.Name == p.selected }) {
		p.selected = ""
	}
	return nil
}

// Kind returns the media folder being browsed
func (p *Picker) Kind() models.MediaKind { return p.kind }

// Sort returns the file list sort
func (p *Picker) Sort() sorting.State { return p.app.SortState(PanelFiles) }

// Visible returns the allowed files matching the search, sorted
func (p *Picker) Visible() []models.FileInfo {
	rule := p.app.rules[p.kind]
	term := strings.ToLower(p.search)

	out := make([]models.FileInfo, 0, len(p.files))
	for _, f := range p.files {
		if !rule.AllowsName(f.Name) {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(f.Name), term) {
			continue
		}
		out = append(out, f)
	}
	return sorting.SortFiles(out, p.Sort())
}

// Search filters by a case-insensitive substring
func (p *Picker) Search(term string) { p.search = strings.TrimSpace(term) }

// ClearSearch drops the filter
func (p *Picker) ClearSearch() { p.search = "" }

// SortBy toggles the sort on field; a new field starts descending
func (p *Picker) SortBy(field string) (sorting.State, error) {
	if !slices.Contains(SortFields(PanelFiles), field) {
		return sorting.State{}, fmt.Errorf("cannot sort files by %q (want one of %v)", field, SortFields(PanelFiles))
	}
	st := p.Sort().Toggle(field, sorting.FileListPolicy)
	if err := p.app.state.SetSort(string(PanelFiles), st); err != nil {
		return st, fmt.Errorf("failed to save sort: %w", err)
	}
	return st, nil
}

// Select marks one visible file
func (p *Picker) Select(name string) error {
	if !slices.ContainsFunc(p.Visible(), func(f models.FileInfo) bool { return f.Name == name }) {
		return fmt.Errorf("file %q is not in the list", name)
	}
	p.selected = name
	return nil
}

// Selected returns the marked file name
func (p *Picker) Selected() string { return p.selected }

// Confirm writes the selection into the target field
func (p *Picker) Confirm() (string, error) {
	if p.selected == "" {
		return "", ErrNoSelection
	}
	if p.target != nil {
		p.target.Set(p.selected)
	}
	return p.selected, nil
}

// Render writes the visible listing
func (p *Picker) Render() error {
	return p.app.renderer.Files(p.Visible(), p.Sort(), p.selected)
}
