package console

import (
	"context"
	"fmt"
	"slices"

	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/sorting"
)

// Router switches between panels and keeps their sort state
type Router struct {
	app *App
}

// Current returns the saved page, or DefaultPanel
func (r *Router) Current() Panel {
	if p, err := ParsePanel(r.app.state.Page()); err == nil {
		return p
	}
	return DefaultPanel
}

// Switch saves panel as the current page and loads its list
func (r *Router) Switch(ctx context.Context, panel Panel) error {
	if !slices.Contains(Panels, panel) {
		return fmt.Errorf("unknown panel %q", panel)
	}
	if err := r.app.state.SetPage(string(panel)); err != nil {
		return fmt.Errorf("failed to save current page: %w", err)
	}
	return r.app.Reload(ctx, panel)
}

// SortPanel toggles the sort of panel on field and saves it. Selecting
// the active field flips the order; a new field starts ascending.
func (r *Router) SortPanel(panel Panel, field string) (sorting.State, error) {
	if !slices.Contains(SortFields(panel), field) {
		return sorting.State{}, fmt.Errorf("cannot sort %s by %q (want one of %v)", panel, field, SortFields(panel))
	}

	st := r.app.SortState(panel).Toggle(field, sorting.TablePolicy)
	if err := r.app.state.SetSort(string(panel), st); err != nil {
		return st, fmt.Errorf("failed to save sort: %w", err)
	}
	return st, nil
}

// SetSort stores an explicit sort for panel
func (r *Router) SetSort(panel Panel, st sorting.State) error {
	if !slices.Contains(SortFields(panel), st.Field) {
		return fmt.Errorf("cannot sort %s by %q (want one of %v)", panel, st.Field, SortFields(panel))
	}
	if err := r.app.state.SetSort(string(panel), st); err != nil {
		return fmt.Errorf("failed to save sort: %w", err)
	}
	return nil
}
