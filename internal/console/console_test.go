package console

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/api"
	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/config"
	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/sandbox"
	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/sorting"
	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/state"
	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/upload"
	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/views"
	"github.com/therealutkarshpriyadarshi/catalogadmin/pkg/models"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	app      *App
	out      *bytes.Buffer
	requests *atomic.Int64
	sandbox  *sandbox.Server
}

// newEnv starts a sandbox backend and returns a console that is not
// logged in yet.
func newEnv(t *testing.T) *testEnv {
	t.Helper()

	sb := sandbox.New(config.SandboxConfig{AdminLogin: "admin", AdminPassword: "secret"}, nil)
	requests := &atomic.Int64{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		sb.Handler().ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	return newEnvWithServer(t, srv.URL+sandbox.BasePath, requests, sb)
}

func newEnvWithServer(t *testing.T, baseURL string, requests *atomic.Int64, sb *sandbox.Server) *testEnv {
	t.Helper()

	client, err := api.NewClient(api.Options{BaseURL: baseURL})
	require.NoError(t, err)

	store, err := state.Open(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	out := &bytes.Buffer{}
	app := New(Options{Client: client, State: store, Out: out, Style: views.Plain()})
	return &testEnv{app: app, out: out, requests: requests, sandbox: sb}
}

// loggedIn returns an env with an authenticated session
func loggedIn(t *testing.T) *testEnv {
	t.Helper()

	env := newEnv(t)
	_, err := env.app.Gate().Login(context.Background(), "admin", "secret")
	require.NoError(t, err)
	return env
}

func TestParsePanel(t *testing.T) {
	tests := map[string]Panel{
		"videos":        PanelVideos,
		"Types":         PanelTypes,
		"content-types": PanelTypes,
		" users ":       PanelUsers,
		"category":      PanelCategories,
	}
	for in, want := range tests {
		got, err := ParsePanel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParsePanel("files")
	assert.Error(t, err)
}

func TestGateCheckUnauthorizedClearsToken(t *testing.T) {
	env := newEnv(t)
	require.NoError(t, env.app.State().SetToken("stale"))
	env.app.Client().SetToken("stale")

	res, err := env.app.Gate().Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ViewLogin, res.View)
	assert.Empty(t, env.app.State().Token())
	assert.Empty(t, env.app.Client().Token())
}

func TestGateCheckOtherFailureKeepsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	env := newEnvWithServer(t, srv.URL, nil, nil)
	require.NoError(t, env.app.State().SetToken("kept"))

	_, err := env.app.Gate().Check(context.Background())
	require.Error(t, err)
	assert.Equal(t, "failed to check session", err.Error())
	assert.Equal(t, "kept", env.app.State().Token())
}

func TestGateLoginRequiresBothFields(t *testing.T) {
	env := newEnv(t)

	_, err := env.app.Gate().Login(context.Background(), "  ", "secret")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "fill in all fields", verr.Message)
	assert.Zero(t, env.requests.Load())
}

func TestGateLoginRejected(t *testing.T) {
	env := newEnv(t)

	_, err := env.app.Gate().Login(context.Background(), "admin", "nope")
	require.Error(t, err)
	assert.Equal(t, "Invalid login or password", err.Error())
	assert.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Empty(t, env.app.State().Token())
}

func TestGateLoginRestoresSavedPage(t *testing.T) {
	env := newEnv(t)
	require.NoError(t, env.app.State().SetPage(string(PanelUsers)))

	res, err := env.app.Gate().Login(context.Background(), " admin ", "secret")
	require.NoError(t, err)
	assert.Equal(t, ViewMain, res.View)
	assert.Equal(t, PanelUsers, res.Page)
	assert.NotEmpty(t, env.app.State().Token())

	res, err = env.app.Gate().Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ViewMain, res.View)
}

func TestGateLogoutClearsSession(t *testing.T) {
	env := loggedIn(t)
	require.NoError(t, env.app.Router().Switch(context.Background(), PanelTypes))

	require.NoError(t, env.app.Gate().Logout(context.Background()))
	assert.Empty(t, env.app.State().Token())
	assert.Empty(t, env.app.State().Page())
	assert.Equal(t, DefaultPanel, env.app.Router().Current())
}

func TestWhoami(t *testing.T) {
	env := newEnv(t)

	_, err := env.app.Gate().Whoami()
	assert.Error(t, err)

	expires := time.Now().Add(time.Hour).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Username:         "ops",
		IsAdmin:          true,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(expires)},
	}).SignedString([]byte("server-only"))
	require.NoError(t, err)
	require.NoError(t, env.app.State().SetToken(token))

	id, err := env.app.Gate().Whoami()
	require.NoError(t, err)
	assert.Equal(t, "ops", id.Username)
	assert.True(t, id.Admin)
	assert.True(t, id.ExpiresAt.Equal(expires))
	assert.False(t, id.Expired(time.Now()))
	assert.True(t, id.Expired(expires.Add(time.Minute)))
}

func TestRouterSwitchAndRender(t *testing.T) {
	env := loggedIn(t)
	env.sandbox.Seed()
	ctx := context.Background()

	require.NoError(t, env.app.Router().Switch(ctx, PanelVideos))
	assert.Equal(t, PanelVideos, env.app.Router().Current())
	assert.Len(t, env.app.Videos(), 2)

	st, err := env.app.Router().SortPanel(PanelVideos, "name")
	require.NoError(t, err)
	assert.Equal(t, sorting.State{Field: "name", Order: sorting.Asc}, st)

	st, err = env.app.Router().SortPanel(PanelVideos, "name")
	require.NoError(t, err)
	assert.Equal(t, sorting.Desc, st.Order)

	saved, ok := env.app.State().Sort(string(PanelVideos))
	require.True(t, ok)
	assert.Equal(t, st, saved)

	require.NoError(t, env.app.Render(PanelVideos))
	out := env.out.String()
	assert.Less(t, bytes.Index([]byte(out), []byte("Sintel")), bytes.Index([]byte(out), []byte("Big Buck Bunny")))

	_, err = env.app.Router().SortPanel(PanelVideos, "date_created")
	assert.Error(t, err)
}

func TestRenderEmptyPanel(t *testing.T) {
	env := loggedIn(t)

	require.NoError(t, env.app.Router().Switch(context.Background(), PanelUsers))
	require.NoError(t, env.app.Render(PanelUsers))
	assert.Contains(t, env.out.String(), "no users available")
}

func TestVideoEditorLifecycle(t *testing.T) {
	env := loggedIn(t)
	env.sandbox.Seed()
	ctx := context.Background()
	editor := env.app.VideoEditor()

	form, err := editor.Open(ctx, 0)
	require.NoError(t, err)
	assert.False(t, form.CanDelete)

	before := env.requests.Load()
	form.URL = "/video/new.mp4"
	err = editor.Submit(ctx, form)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "name", verr.Field)
	assert.Equal(t, before, env.requests.Load())

	form.Name = "New"
	require.NoError(t, editor.SelectCategories(ctx, form, []models.ID{3, 4}))
	require.Len(t, form.Categories, 2)
	form.RemoveRef(4)
	require.NoError(t, editor.Submit(ctx, form))
	require.False(t, form.ID.IsZero())
	assert.Len(t, env.app.Videos(), 3)

	opened, err := editor.Open(ctx, form.ID)
	require.NoError(t, err)
	assert.True(t, opened.CanDelete)
	assert.Equal(t, "New", opened.Name)
	assert.Equal(t, []models.Ref{{ID: 3, Name: "Drama"}}, opened.Categories)

	declined := ConfirmFunc(func(prompt string) (bool, error) {
		assert.Equal(t, "Delete this video?", prompt)
		return false, nil
	})
	before = env.requests.Load()
	assert.ErrorIs(t, editor.Delete(ctx, opened, declined), ErrCancelled)
	assert.Equal(t, before, env.requests.Load())

	require.NoError(t, editor.Delete(ctx, opened, AlwaysConfirm))
	assert.Len(t, env.app.Videos(), 2)

	_, err = editor.Open(ctx, opened.ID)
	assert.ErrorIs(t, err, api.ErrNotFound)
	assert.Equal(t, "Video not found", err.Error())
}

func TestSelectUnknownCategory(t *testing.T) {
	env := loggedIn(t)
	env.sandbox.Seed()

	form := &VideoForm{}
	err := env.app.VideoEditor().SelectCategories(context.Background(), form, []models.ID{42})
	assert.EqualError(t, err, "category 42 not found")
}

func TestTypeEditorRefreshesLookups(t *testing.T) {
	env := loggedIn(t)
	ctx := context.Background()
	editor := env.app.TypeEditor()

	types, err := env.app.LookupTypes(ctx)
	require.NoError(t, err)
	assert.Empty(t, types)

	form, err := editor.Open(ctx, 0)
	require.NoError(t, err)
	assert.Error(t, editor.Submit(ctx, form))

	form.Name = "Series"
	require.NoError(t, editor.Submit(ctx, form))

	types, err = env.app.LookupTypes(ctx)
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.Equal(t, "Series", types[0].Name)

	require.NoError(t, editor.Delete(ctx, &TypeForm{ID: form.ID, CanDelete: true}, nil))
	assert.Empty(t, env.app.Types())
}

func TestCategoryEditor(t *testing.T) {
	env := loggedIn(t)
	env.sandbox.Seed()
	ctx := context.Background()
	editor := env.app.CategoryEditor()

	before := env.requests.Load()
	require.NoError(t, env.app.Reload(ctx, PanelCategories))
	require.Equal(t, before+1, env.requests.Load())

	_, err := editor.Open(ctx, 99)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	assert.Equal(t, before+1, env.requests.Load())

	form, err := editor.Open(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Drama", form.Name)
	assert.Equal(t, []models.Ref{{ID: 1, Name: "Movies"}}, form.Types)

	require.NoError(t, editor.SelectTypes(ctx, form, []models.ID{1, 2}))
	form.ImageTarget().Set("drama-new.jpg")
	require.NoError(t, editor.Submit(ctx, form))

	updated, err := env.app.Client().GetCategory(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "drama-new.jpg", updated.ImgURL)
	assert.Len(t, updated.Types, 2)
}

func TestCategoryEditorReloadsStaleCache(t *testing.T) {
	env := loggedIn(t)
	env.sandbox.Seed()
	ctx := context.Background()
	editor := env.app.CategoryEditor()

	// a lookup cache filled before Cartoons existed
	require.NoError(t, env.app.lookups.SetCategories(ctx, []models.Category{{ID: 3, Name: "Drama"}}))

	before := env.requests.Load()
	form, err := editor.Open(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, "Cartoons", form.Name)
	// one list reload, then the GET
	assert.Equal(t, before+2, env.requests.Load())

	_, err = editor.Open(ctx, 99)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	assert.Equal(t, before+2, env.requests.Load())
}

func TestUserEditor(t *testing.T) {
	env := loggedIn(t)
	env.sandbox.Seed()
	ctx := context.Background()
	editor := env.app.UserEditor()

	form, err := editor.Open(ctx, 0)
	require.NoError(t, err)

	before := env.requests.Load()
	err = editor.Submit(ctx, form)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "username is required", verr.Message)
	assert.Equal(t, before, env.requests.Load())

	form.Username = "viewer"
	require.NoError(t, editor.PickType(ctx, form, 2))
	assert.Equal(t, "Kids", form.ContentTypeName)
	err = editor.Submit(ctx, form)
	assert.ErrorIs(t, err, ErrUserExists)

	form.Username = "editor"
	form.Admin = true
	form.Password = "pw"
	require.NoError(t, editor.Submit(ctx, form))
	assert.Empty(t, form.Password)
	assert.Len(t, env.app.Users(), 2)

	// the stored password is kept when the form leaves it blank
	opened, err := editor.Open(ctx, form.ID)
	require.NoError(t, err)
	assert.True(t, opened.Admin)
	assert.Equal(t, models.ID(2), opened.ContentTypeID)
	opened.Username = "chief"
	require.NoError(t, editor.Submit(ctx, opened))

	_, err = env.app.Gate().Login(ctx, "chief", "pw")
	require.NoError(t, err)
}

func TestUserFormRequest(t *testing.T) {
	form := &UserForm{Username: "bob"}
	req := form.request()
	assert.Nil(t, req.ContentTypeID)
	assert.Nil(t, req.ContentTypeName)
	assert.Empty(t, req.Password)

	form = &UserForm{Username: "bob", ContentTypeID: 7, ContentTypeName: "Kids", Password: "secret"}
	req = form.request()
	require.NotNil(t, req.ContentTypeID)
	assert.Equal(t, "7", *req.ContentTypeID)
	assert.Equal(t, "Kids", *req.ContentTypeName)
	assert.Equal(t, api.HashPassword("secret"), req.Password)
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestUploadThenPick(t *testing.T) {
	env := loggedIn(t)
	env.sandbox.Seed()
	ctx := context.Background()
	dir := t.TempDir()

	refs := []string{
		writeFile(t, dir, "b-logo.png", pngHeader),
		writeFile(t, dir, "setup.exe", []byte("MZ\x90\x00")),
		writeFile(t, dir, "a-logo.png", pngHeader),
		filepath.Join(dir, "missing.png"),
	}

	var completed atomic.Bool
	report := env.app.Upload(ctx, models.MediaImage, upload.LocalSource{}, refs, upload.Hooks{
		OnComplete: func(context.Context, upload.BatchResult) { completed.Store(true) },
	})
	assert.True(t, completed.Load())
	assert.Equal(t, "2 uploaded, 0 failed", report.Result.Summary())
	require.Len(t, report.Rejections, 2)
	assert.Equal(t, upload.ReasonUnreadable, report.Rejections[0].Reason)
	assert.Equal(t, upload.ReasonUnsupported, report.Rejections[1].Reason)
	assert.Len(t, env.app.Files(models.MediaImage), 2)

	form, err := env.app.VideoEditor().Open(ctx, 5)
	require.NoError(t, err)

	picker := env.app.Picker()
	_, err = picker.Confirm()
	assert.ErrorIs(t, err, ErrNoSelection)

	require.NoError(t, picker.Open(ctx, models.MediaImage, form.ImageTarget()))
	assert.Len(t, picker.Visible(), 2)

	st, err := picker.SortBy("name")
	require.NoError(t, err)
	assert.Equal(t, sorting.Desc, st.Order)
	assert.Equal(t, "b-logo.png", picker.Visible()[0].Name)

	picker.Search("A-LO")
	require.Len(t, picker.Visible(), 1)
	assert.Error(t, picker.Select("b-logo.png"))
	require.NoError(t, picker.Select("a-logo.png"))

	picker.ClearSearch()
	assert.Len(t, picker.Visible(), 2)

	name, err := picker.Confirm()
	require.NoError(t, err)
	assert.Equal(t, "a-logo.png", name)
	assert.Equal(t, "a-logo.png", form.ImgURL)

	require.NoError(t, picker.Render())
	assert.Contains(t, env.out.String(), "*  a-logo.png")
}

func TestPickerEmptyFolder(t *testing.T) {
	env := loggedIn(t)

	picker := env.app.Picker()
	require.NoError(t, picker.Open(context.Background(), models.MediaVideo, nil))
	assert.Empty(t, picker.Visible())
	assert.Equal(t, sorting.DefaultFileSort, picker.Sort())

	require.NoError(t, picker.Render())
	assert.Contains(t, env.out.String(), "no files found")
}
