package console

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/api"
	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/cache"
	"github.com/therealutkarshpriyadarshi/catalogadmin/pkg/models"
)

// Confirmer asks the operator to approve a destructive action
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(prompt string) (bool, error)

func (f ConfirmFunc) Confirm(prompt string) (bool, error) { return f(prompt) }

// AlwaysConfirm approves every prompt
var AlwaysConfirm = ConfirmFunc(func(string) (bool, error) { return true, nil })

// FieldSetter receives the file chosen in the picker
type FieldSetter interface {
	Set(value string)
}

// FieldFunc adapts a function to FieldSetter
type FieldFunc func(value string)

func (f FieldFunc) Set(value string) { f(value) }

func confirm(c Confirmer, prompt string) error {
	if c == nil {
		c = AlwaysConfirm
	}
	ok, err := c.Confirm(prompt)
	if err != nil {
		return fmt.Errorf("confirmation failed: %w", err)
	}
	if !ok {
		return ErrCancelled
	}
	return nil
}

// removeRef drops id from refs
func removeRef(refs []models.Ref, id models.ID) []models.Ref {
	return slices.DeleteFunc(refs, func(r models.Ref) bool { return r.ID == id })
}

// pickRefs resolves ids against a lookup list, keeping the given order
func pickRefs[T any](ids []models.ID, items []T, ref func(T) models.Ref, what string) ([]models.Ref, error) {
	out := make([]models.Ref, 0, len(ids))
	for _, id := range ids {
		i := slices.IndexFunc(items, func(item T) bool { return ref(item).ID == id })
		if i < 0 {
			return nil, fmt.Errorf("%s %s not found", what, id)
		}
		if !slices.ContainsFunc(out, func(r models.Ref) bool { return r.ID == id }) {
			out = append(out, ref(items[i]))
		}
	}
	return out, nil
}

func refIDs(refs []models.Ref) []int64 {
	return models.RefIDs(refs)
}

// Videos

// VideoForm is the video editor's form
type VideoForm struct {
	ID          models.ID
	Name        string
	URL         string
	ImgURL      string
	Description string
	Categories  []models.Ref
	CanDelete   bool
}

// RemoveRef drops a selected category
func (f *VideoForm) RemoveRef(id models.ID) { f.Categories = removeRef(f.Categories, id) }

// URLTarget lets the picker fill the video file
func (f *VideoForm) URLTarget() FieldSetter { return FieldFunc(func(v string) { f.URL = v }) }

// ImageTarget lets the picker fill the preview image
func (f *VideoForm) ImageTarget() FieldSetter { return FieldFunc(func(v string) { f.ImgURL = v }) }

// VideoEditor creates, edits and deletes videos
type VideoEditor struct {
	app *App
}

// VideoEditor returns the video editor
func (a *App) VideoEditor() *VideoEditor { return &VideoEditor{app: a} }

// Open returns a blank form for a zero id, otherwise the stored video
func (e *VideoEditor) Open(ctx context.Context, id models.ID) (*VideoForm, error) {
	if id.IsZero() {
		return &VideoForm{}, nil
	}
	v, err := e.app.client.GetVideo(ctx, id)
	if err != nil {
		return nil, failure(err, "failed to load video")
	}
	return &VideoForm{
		ID:          v.ID,
		Name:        v.Name,
		URL:         v.URL,
		ImgURL:      v.ImgURL,
		Description: v.Description,
		Categories:  append([]models.Ref{}, v.Categories...),
		CanDelete:   true,
	}, nil
}

// SelectCategories replaces the selected categories with ids
func (e *VideoEditor) SelectCategories(ctx context.Context, form *VideoForm, ids []models.ID) error {
	categories, err := e.app.LookupCategories(ctx)
	if err != nil {
		return err
	}
	refs, err := pickRefs(ids, categories, func(c models.Category) models.Ref {
		return models.Ref{ID: c.ID, Name: c.Name}
	}, "category")
	if err != nil {
		return err
	}
	form.Categories = refs
	return nil
}

// Submit creates or updates the video and reloads the video list
func (e *VideoEditor) Submit(ctx context.Context, form *VideoForm) error {
	if strings.TrimSpace(form.Name) == "" {
		return invalid("name", "video name is required")
	}
	if strings.TrimSpace(form.URL) == "" {
		return invalid("url", "video url is required")
	}

	req := models.VideoRequest{
		Name:        form.Name,
		URL:         form.URL,
		ImgURL:      form.ImgURL,
		Description: form.Description,
		CategoryIDs: refIDs(form.Categories),
	}

	var err error
	if form.ID.IsZero() {
		var resp *models.SuccessResponse
		if resp, err = e.app.client.CreateVideo(ctx, req); err == nil {
			form.ID = resp.ID
		}
	} else {
		_, err = e.app.client.UpdateVideo(ctx, form.ID, req)
	}
	if err != nil {
		return failure(err, "failed to save video")
	}

	e.app.reloadAfterWrite(ctx, PanelVideos)
	return nil
}

// Delete removes the video after confirmation
func (e *VideoEditor) Delete(ctx context.Context, form *VideoForm, c Confirmer) error {
	if !form.CanDelete || form.ID.IsZero() {
		return errors.New("video has not been saved")
	}
	if err := confirm(c, "Delete this video?"); err != nil {
		return err
	}
	if _, err := e.app.client.DeleteVideo(ctx, form.ID); err != nil {
		return failure(err, "failed to delete video")
	}
	e.app.reloadAfterWrite(ctx, PanelVideos)
	return nil
}

// Content types

// TypeForm is the content type editor's form
type TypeForm struct {
	ID        models.ID
	Name      string
	CanDelete bool
}

// TypeEditor creates, edits and deletes content types
type TypeEditor struct {
	app *App
}

// TypeEditor returns the content type editor
func (a *App) TypeEditor() *TypeEditor { return &TypeEditor{app: a} }

// Open returns a blank form for a zero id, otherwise the stored type
func (e *TypeEditor) Open(ctx context.Context, id models.ID) (*TypeForm, error) {
	if id.IsZero() {
		return &TypeForm{}, nil
	}
	t, err := e.app.client.GetType(ctx, id)
	if err != nil {
		return nil, failure(err, "failed to load content type")
	}
	return &TypeForm{ID: t.ID, Name: t.Name, CanDelete: true}, nil
}

// Submit creates or updates the content type and reloads the list
func (e *TypeEditor) Submit(ctx context.Context, form *TypeForm) error {
	if strings.TrimSpace(form.Name) == "" {
		return invalid("name", "content type name is required")
	}

	req := models.TypeRequest{Name: form.Name}
	var err error
	if form.ID.IsZero() {
		var resp *models.SuccessResponse
		if resp, err = e.app.client.CreateType(ctx, req); err == nil {
			form.ID = resp.ID
		}
	} else {
		_, err = e.app.client.UpdateType(ctx, form.ID, req)
	}
	if err != nil {
		return failure(err, "failed to save content type")
	}

	e.app.reloadAfterWrite(ctx, PanelTypes, cache.KindTypes)
	return nil
}

// Delete removes the content type after confirmation
func (e *TypeEditor) Delete(ctx context.Context, form *TypeForm, c Confirmer) error {
	if !form.CanDelete || form.ID.IsZero() {
		return errors.New("content type has not been saved")
	}
	if err := confirm(c, "Delete this content type?"); err != nil {
		return err
	}
	if _, err := e.app.client.DeleteType(ctx, form.ID); err != nil {
		return failure(err, "failed to delete content type")
	}
	e.app.reloadAfterWrite(ctx, PanelTypes, cache.KindTypes)
	return nil
}

// Categories

// CategoryForm is the category editor's form
type CategoryForm struct {
	ID        models.ID
	Name      string
	ImgURL    string
	Types     []models.Ref
	CanDelete bool
}

// RemoveRef drops a selected content type
func (f *CategoryForm) RemoveRef(id models.ID) { f.Types = removeRef(f.Types, id) }

// ImageTarget lets the picker fill the category image
func (f *CategoryForm) ImageTarget() FieldSetter { return FieldFunc(func(v string) { f.ImgURL = v }) }

// CategoryEditor creates, edits and deletes categories
type CategoryEditor struct {
	app *App
}

// CategoryEditor returns the category editor
func (a *App) CategoryEditor() *CategoryEditor { return &CategoryEditor{app: a} }

// Open returns a blank form for a zero id. Any other id must be in the
// category list before the category is fetched; a cached list that lacks
// the id is reloaded once.
func (e *CategoryEditor) Open(ctx context.Context, id models.ID) (*CategoryForm, error) {
	if id.IsZero() {
		return &CategoryForm{}, nil
	}

	known, err := e.app.LookupCategories(ctx)
	if err != nil {
		return nil, err
	}
	has := func(c models.Category) bool { return c.ID == id }
	if !slices.ContainsFunc(known, has) && !e.app.loaded[PanelCategories] {
		// the list came from the lookup cache and may predate the category
		if err := e.app.Reload(ctx, PanelCategories); err != nil {
			return nil, err
		}
		known = e.app.categories
	}
	if !slices.ContainsFunc(known, has) {
		return nil, ErrCategoryNotFound
	}

	c, err := e.app.client.GetCategory(ctx, id)
	if err != nil {
		return nil, failure(err, "failed to load category")
	}
	return &CategoryForm{
		ID:        c.ID,
		Name:      c.Name,
		ImgURL:    c.ImgURL,
		Types:     append([]models.Ref{}, c.Types...),
		CanDelete: true,
	}, nil
}

// SelectTypes replaces the selected content types with ids
func (e *CategoryEditor) SelectTypes(ctx context.Context, form *CategoryForm, ids []models.ID) error {
	types, err := e.app.LookupTypes(ctx)
	if err != nil {
		return err
	}
	refs, err := pickRefs(ids, types, func(t models.ContentType) models.Ref {
		return models.Ref{ID: t.ID, Name: t.Name}
	}, "content type")
	if err != nil {
		return err
	}
	form.Types = refs
	return nil
}

// Submit creates or updates the category and reloads the list
func (e *CategoryEditor) Submit(ctx context.Context, form *CategoryForm) error {
	if strings.TrimSpace(form.Name) == "" {
		return invalid("name", "category name is required")
	}

	req := models.CategoryRequest{
		Name:    form.Name,
		ImgURL:  form.ImgURL,
		TypeIDs: refIDs(form.Types),
	}
	var err error
	if form.ID.IsZero() {
		var resp *models.SuccessResponse
		if resp, err = e.app.client.CreateCategory(ctx, req); err == nil {
			form.ID = resp.ID
		}
	} else {
		_, err = e.app.client.UpdateCategory(ctx, form.ID, req)
	}
	if err != nil {
		return failure(err, "failed to save category")
	}

	e.app.reloadAfterWrite(ctx, PanelCategories, cache.KindCategories)
	return nil
}

// Delete removes the category after confirmation
func (e *CategoryEditor) Delete(ctx context.Context, form *CategoryForm, c Confirmer) error {
	if !form.CanDelete || form.ID.IsZero() {
		return errors.New("category has not been saved")
	}
	if err := confirm(c, "Delete this category?"); err != nil {
		return err
	}
	if _, err := e.app.client.DeleteCategory(ctx, form.ID); err != nil {
		return failure(err, "failed to delete category")
	}
	e.app.reloadAfterWrite(ctx, PanelCategories, cache.KindCategories)
	return nil
}

// Users

// UserForm is the user editor's form. Password is plain text and is
// hashed on submit; leave it blank to keep the stored one.
type UserForm struct {
	ID              models.ID
	Username        string
	Admin           bool
	ContentTypeID   models.ID
	ContentTypeName string
	Password        string
	CanDelete       bool
}

// UserEditor creates, edits and deletes user accounts
type UserEditor struct {
	app *App
}

// UserEditor returns the user editor
func (a *App) UserEditor() *UserEditor { return &UserEditor{app: a} }

// Open loads the content type lookup, then returns a blank form for a
// zero id or the stored user.
func (e *UserEditor) Open(ctx context.Context, id models.ID) (*UserForm, error) {
	if _, err := e.app.LookupTypes(ctx); err != nil {
		return nil, err
	}
	if id.IsZero() {
		return &UserForm{}, nil
	}

	u, err := e.app.client.GetUser(ctx, id)
	if err != nil {
		return nil, failure(err, "failed to load user")
	}
	return &UserForm{
		ID:              u.ID,
		Username:        u.Username,
		Admin:           u.Admin,
		ContentTypeID:   u.ContentTypeID,
		ContentTypeName: u.ContentTypeName,
		CanDelete:       true,
	}, nil
}

// PickType sets the user's content type from the lookup list
func (e *UserEditor) PickType(ctx context.Context, form *UserForm, id models.ID) error {
	types, err := e.app.LookupTypes(ctx)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(types, func(t models.ContentType) bool { return t.ID == id })
	if i < 0 {
		return fmt.Errorf("content type %s not found", id)
	}
	form.ContentTypeID = types[i].ID
	form.ContentTypeName = types[i].Name
	return nil
}

// ClearType unsets the user's content type
func (f *UserForm) ClearType() {
	f.ContentTypeID = 0
	f.ContentTypeName = ""
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// request builds the wire body: empty content type fields become null
// and a blank password is left out.
func (f *UserForm) request() models.UserRequest {
	req := models.UserRequest{
		Username:        f.Username,
		Admin:           f.Admin,
		ContentTypeName: optional(f.ContentTypeName),
	}
	if !f.ContentTypeID.IsZero() {
		req.ContentTypeID = optional(f.ContentTypeID.String())
	}
	if strings.TrimSpace(f.Password) != "" {
		req.Password = api.HashPassword(f.Password)
	}
	return req
}

// Submit creates or updates the user and reloads the list. A taken
// username yields ErrUserExists.
func (e *UserEditor) Submit(ctx context.Context, form *UserForm) error {
	if strings.TrimSpace(form.Username) == "" {
		return invalid("username", "username is required")
	}

	req := form.request()
	var err error
	if form.ID.IsZero() {
		var resp *models.SuccessResponse
		if resp, err = e.app.client.CreateUser(ctx, req); err == nil {
			form.ID = resp.ID
		}
	} else {
		_, err = e.app.client.UpdateUser(ctx, form.ID, req)
	}
	if errors.Is(err, api.ErrConflict) {
		return fmt.Errorf("%w: %s", ErrUserExists, form.Username)
	}
	if err != nil {
		return failure(err, "failed to save user")
	}

	form.Password = ""
	e.app.reloadAfterWrite(ctx, PanelUsers)
	return nil
}

// Delete removes the user after confirmation
func (e *UserEditor) Delete(ctx context.Context, form *UserForm, c Confirmer) error {
	if !form.CanDelete || form.ID.IsZero() {
		return errors.New("user has not been saved")
	}
	if err := confirm(c, "Delete this user?"); err != nil {
		return err
	}
	if _, err := e.app.client.DeleteUser(ctx, form.ID); err != nil {
		return failure(err, "failed to delete user")
	}
	e.app.reloadAfterWrite(ctx, PanelUsers)
	return nil
}
