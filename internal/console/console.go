// Package console is the operator console: it ties the API client, the
// persisted state and the renderers together behind an App view-model.
package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/api"
	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/cache"
	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/logging"
	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/sorting"
	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/state"
	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/upload"
	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/views"
	"github.com/therealutkarshpriyadarshi/catalogadmin/pkg/models"
)

// Panel is one page of the console
type Panel string

const (
	PanelVideos     Panel = "videos"
	PanelTypes      Panel = "content-types"
	PanelUsers      Panel = "users"
	PanelCategories Panel = "categories"

	// PanelFiles only keys the file picker's sort state
	PanelFiles Panel = "files"
)

// Panels lists the navigable pages in menu order
var Panels = []Panel{PanelVideos, PanelTypes, PanelUsers, PanelCategories}

// DefaultPanel is shown when no page was saved
const DefaultPanel = PanelVideos

// ParsePanel accepts a panel name or a common alias
func ParsePanel(s string) (Panel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "videos", "video":
		return PanelVideos, nil
	case "content-types", "types", "type":
		return PanelTypes, nil
	case "users", "user":
		return PanelUsers, nil
	case "categories", "category":
		return PanelCategories, nil
	default:
		return "", fmt.Errorf("unknown panel %q (want videos, content-types, users or categories)", s)
	}
}

// Options configures an App
type Options struct {
	Client  *api.Client
	State   *state.Store
	Lookups cache.Lookup
	Out     io.Writer
	Style   views.Styler
	Logger  *logging.Logger
	Rules   upload.Rules
}

// App is the console view-model. It holds the loaded lists and
// selections of one session; nothing is kept in package variables.
type App struct {
	client   *api.Client
	state    *state.Store
	lookups  cache.Lookup
	renderer *views.Renderer
	logger   *logging.Logger
	rules    upload.Rules

	videos     []models.Video
	types      []models.ContentType
	users      []models.User
	categories []models.Category
	loaded     map[Panel]bool
	files      map[models.MediaKind][]models.FileInfo
}

// New creates an App. The stored token, if any, is handed to the client.
func New(opts Options) *App {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	lookups := opts.Lookups
	if lookups == nil {
		lookups = cache.NewMemory(0)
	}
	rules := opts.Rules
	if rules == nil {
		rules = upload.DefaultRules()
	}

	if token := opts.State.Token(); token != "" && opts.Client.Token() == "" {
		opts.Client.SetToken(token)
	}

	return &App{
		client:   opts.Client,
		state:    opts.State,
		lookups:  lookups,
		renderer: views.NewRenderer(out, opts.Style),
		logger:   logger,
		rules:    rules,
		loaded:   make(map[Panel]bool),
		files:    make(map[models.MediaKind][]models.FileInfo),
	}
}

// Client returns the API client
func (a *App) Client() *api.Client { return a.client }

// State returns the persisted state store
func (a *App) State() *state.Store { return a.state }

// Renderer returns the table renderer
func (a *App) Renderer() *views.Renderer { return a.renderer }

// Router returns the page router
func (a *App) Router() *Router { return &Router{app: a} }

// Gate returns the session gate
func (a *App) Gate() *Gate { return &Gate{app: a} }

// Videos returns the loaded video list
func (a *App) Videos() []models.Video { return a.videos }

// Types returns the loaded content type list
func (a *App) Types() []models.ContentType { return a.types }

// Users returns the loaded user list
func (a *App) Users() []models.User { return a.users }

// Categories returns the loaded category list
func (a *App) Categories() []models.Category { return a.categories }

// Files returns the last fetched listing of a media folder
func (a *App) Files(kind models.MediaKind) []models.FileInfo { return a.files[kind] }

// Reload fetches the list shown on panel. Content types and categories
// also refresh the lookup cache.
func (a *App) Reload(ctx context.Context, panel Panel) error {
	switch panel {
	case PanelVideos:
		videos, err := a.client.ListVideos(ctx)
		if err != nil {
			return failure(err, "failed to load videos")
		}
		a.videos = videos
	case PanelTypes:
		types, err := a.client.ListTypes(ctx)
		if err != nil {
			return failure(err, "failed to load content types")
		}
		a.types = types
		if err := a.lookups.SetTypes(ctx, types); err != nil {
			a.logger.WithError(err).Warn("Failed to cache content types")
		}
	case PanelUsers:
		users, err := a.client.ListUsers(ctx)
		if err != nil {
			return failure(err, "failed to load users")
		}
		a.users = users
	case PanelCategories:
		categories, err := a.client.ListCategories(ctx)
		if err != nil {
			return failure(err, "failed to load categories")
		}
		a.categories = categories
		if err := a.lookups.SetCategories(ctx, categories); err != nil {
			a.logger.WithError(err).Warn("Failed to cache categories")
		}
	default:
		return fmt.Errorf("unknown panel %q", panel)
	}

	a.loaded[panel] = true
	return nil
}

// reloadAfterWrite refreshes a panel after a successful write. The write
// already happened, so a failed refresh is only logged.
func (a *App) reloadAfterWrite(ctx context.Context, panel Panel, kinds ...cache.Kind) {
	if len(kinds) > 0 {
		if err := a.lookups.Invalidate(ctx, kinds...); err != nil {
			a.logger.WithError(err).Warn("Failed to invalidate lookup cache")
		}
	}
	if err := a.Reload(ctx, panel); err != nil {
		a.logger.WithError(err).WithField("panel", string(panel)).Warn("Failed to reload list")
	}
}

// SortState returns the sort of a panel; unsorted when none was chosen.
// The file picker defaults to newest first.
func (a *App) SortState(panel Panel) sorting.State {
	if st, ok := a.state.Sort(string(panel)); ok {
		return st
	}
	if panel == PanelFiles {
		return sorting.DefaultFileSort
	}
	return sorting.State{}
}

// SortFields lists the sortable fields of a panel
func SortFields(panel Panel) []string {
	switch panel {
	case PanelVideos:
		return sorting.Videos.Fields()
	case PanelTypes:
		return sorting.ContentTypes.Fields()
	case PanelUsers:
		return sorting.Users.Fields()
	case PanelCategories:
		return sorting.Categories.Fields()
	case PanelFiles:
		return sorting.Files.Fields()
	}
	return nil
}

// Render writes the loaded list of panel in its current sort order
func (a *App) Render(panel Panel) error {
	st := a.SortState(panel)
	switch panel {
	case PanelVideos:
		return a.renderer.Videos(sorting.Sort(a.videos, sorting.Videos, st), st)
	case PanelTypes:
		return a.renderer.ContentTypes(sorting.Sort(a.types, sorting.ContentTypes, st), st)
	case PanelUsers:
		return a.renderer.Users(sorting.Sort(a.users, sorting.Users, st), st)
	case PanelCategories:
		return a.renderer.Categories(sorting.Sort(a.categories, sorting.Categories, st), st)
	}
	return fmt.Errorf("unknown panel %q", panel)
}

// LookupTypes returns the content types used by the editors, from the
// lookup cache when possible.
func (a *App) LookupTypes(ctx context.Context) ([]models.ContentType, error) {
	if a.loaded[PanelTypes] {
		return a.types, nil
	}
	types, ok, err := a.lookups.Types(ctx)
	if err != nil {
		a.logger.WithError(err).Warn("Lookup cache read failed")
	}
	if ok && len(types) > 0 {
		return types, nil
	}
	if err := a.Reload(ctx, PanelTypes); err != nil {
		return nil, err
	}
	return a.types, nil
}

// LookupCategories returns the categories used by the editors, from the
// lookup cache when possible.
func (a *App) LookupCategories(ctx context.Context) ([]models.Category, error) {
	if a.loaded[PanelCategories] {
		return a.categories, nil
	}
	categories, ok, err := a.lookups.Categories(ctx)
	if err != nil {
		a.logger.WithError(err).Warn("Lookup cache read failed")
	}
	if ok && len(categories) > 0 {
		return categories, nil
	}
	if err := a.Reload(ctx, PanelCategories); err != nil {
		return nil, err
	}
	return a.categories, nil
}

// RefreshFiles fetches the listing of a media folder
func (a *App) RefreshFiles(ctx context.Context, kind models.MediaKind) ([]models.FileInfo, error) {
	files, err := a.client.ListFiles(ctx, kind)
	if err != nil {
		return nil, failure(err, fmt.Sprintf("failed to load %s", kind.Label()))
	}
	a.files[kind] = files
	return files, nil
}
