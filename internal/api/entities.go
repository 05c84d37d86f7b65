package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/therealutkarshpriyadarshi/catalogadmin/pkg/models"
)

const (
	videosPath     = "/video"
	typesPath      = "/type"
	categoriesPath = "/category"
	usersPath      = "/users"
)

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// list fetches a collection. The backend answers 404 for some empty
// collections, which is reported as an empty slice.
func list[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var out []T
	if _, err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		if isNotFound(err) {
			return []T{}, nil
		}
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func get[T any](ctx context.Context, c *Client, path string, id models.ID) (*T, error) {
	var out T
	if _, err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("%s/%d", path, id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) mutate(ctx context.Context, method, path string, body interface{}) (*models.SuccessResponse, error) {
	var out models.SuccessResponse
	if _, err := c.doJSON(ctx, method, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func itemPath(path string, id models.ID) string {
	return fmt.Sprintf("%s/%d", path, id)
}

// ListVideos returns all videos
func (c *Client) ListVideos(ctx context.Context) ([]models.Video, error) {
	return list[models.Video](ctx, c, videosPath)
}

// GetVideo returns one video
func (c *Client) GetVideo(ctx context.Context, id models.ID) (*models.Video, error) {
	return get[models.Video](ctx, c, videosPath, id)
}

// CreateVideo adds a video
func (c *Client) CreateVideo(ctx context.Context, req models.VideoRequest) (*models.SuccessResponse, error) {
	return c.mutate(ctx, http.MethodPost, videosPath, req)
}

// UpdateVideo replaces a video
func (c *Client) UpdateVideo(ctx context.Context, id models.ID, req models.VideoRequest) (*models.SuccessResponse, error) {
	return c.mutate(ctx, http.MethodPut, itemPath(videosPath, id), req)
}

// DeleteVideo removes a video
func (c *Client) DeleteVideo(ctx context.Context, id models.ID) (*models.SuccessResponse, error) {
	return c.mutate(ctx, http.MethodDelete, itemPath(videosPath, id), nil)
}

// ListTypes returns all content types
func (c *Client) ListTypes(ctx context.Context) ([]models.ContentType, error) {
	return list[models.ContentType](ctx, c, typesPath)
}

// GetType returns one content type
func (c *Client) GetType(ctx context.Context, id models.ID) (*models.ContentType, error) {
	return get[models.ContentType](ctx, c, typesPath, id)
}

// CreateType adds a content type
func (c *Client) CreateType(ctx context.Context, req models.TypeRequest) (*models.SuccessResponse, error) {
	return c.mutate(ctx, http.MethodPost, typesPath, req)
}

// UpdateType renames a content type
func (c *Client) UpdateType(ctx context.Context, id models.ID, req models.TypeRequest) (*models.SuccessResponse, error) {
	return c.mutate(ctx, http.MethodPut, itemPath(typesPath, id), req)
}

// DeleteType removes a content type
func (c *Client) DeleteType(ctx context.Context, id models.ID) (*models.SuccessResponse, error) {
	return c.mutate(ctx, http.MethodDelete, itemPath(typesPath, id), nil)
}

// ListCategories returns all categories
func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	return list[models.Category](ctx, c, categoriesPath)
}

// GetCategory returns one category
func (c *Client) GetCategory(ctx context.Context, id models.ID) (*models.Category, error) {
	return get[models.Category](ctx, c, categoriesPath, id)
}

// CreateCategory adds a category
func (c *Client) CreateCategory(ctx context.Context, req models.CategoryRequest) (*models.SuccessResponse, error) {
	return c.mutate(ctx, http.MethodPost, categoriesPath, req)
}

// UpdateCategory replaces a category
func (c *Client) UpdateCategory(ctx context.Context, id models.ID, req models.CategoryRequest) (*models.SuccessResponse, error) {
	return c.mutate(ctx, http.MethodPut, itemPath(categoriesPath, id), req)
}

// DeleteCategory removes a category
func (c *Client) DeleteCategory(ctx context.Context, id models.ID) (*models.SuccessResponse, error) {
	return c.mutate(ctx, http.MethodDelete, itemPath(categoriesPath, id), nil)
}

// ListUsers returns all user accounts
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	return list[models.User](ctx, c, usersPath)
}

// GetUser returns one user account
func (c *Client) GetUser(ctx context.Context, id models.ID) (*models.User, error) {
	return get[models.User](ctx, c, usersPath, id)
}

// CreateUser adds a user account
func (c *Client) CreateUser(ctx context.Context, req models.UserRequest) (*models.SuccessResponse, error) {
	return c.mutate(ctx, http.MethodPost, usersPath, req)
}

// UpdateUser replaces a user account
func (c *Client) UpdateUser(ctx context.Context, id models.ID, req models.UserRequest) (*models.SuccessResponse, error) {
	return c.mutate(ctx, http.MethodPut, itemPath(usersPath, id), req)
}

// DeleteUser removes a user account
func (c *Client) DeleteUser(ctx context.Context, id models.ID) (*models.SuccessResponse, error) {
	return c.mutate(ctx, http.MethodDelete, itemPath(usersPath, id), nil)
}
