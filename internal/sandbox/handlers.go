package sandbox

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/api"
	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/middleware"
	"github.com/therealutkarshpriyadarshi/catalogadmin/pkg/models"
)

var fileNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+\.[a-zA-Z0-9]+$`)

var allowedMIME = map[models.MediaKind][]string{
	models.MediaVideo: {"video/mp4", "video/quicktime", "video/webm", "video/ogg", "application/ogg"},
	models.MediaImage: {"image/jpeg", "image/png", "image/gif", "image/webp", "image/svg+xml"},
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, models.ErrorResponse{Error: message})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Auth

func (s *Server) signIn(c *gin.Context) {
	var req models.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	login := strings.TrimSpace(req.Login)
	ok := login == s.cfg.AdminLogin && req.Password == api.HashPassword(s.cfg.AdminPassword)
	if !ok {
		_, ok = s.store.adminByCredentials(login, req.Password)
	}
	if !ok {
		respondError(c, http.StatusUnauthorized, "Invalid login or password")
		return
	}

	token, err := s.auth.GenerateToken(login)
	if err != nil {
		s.logger.ErrorWithErr("Failed to generate token", err)
		respondError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.TokenCookie, token, int(s.auth.TTL().Seconds()), BasePath, "", false, true)
	c.JSON(http.StatusOK, models.SignInResponse{Message: models.SignInSuccessMessage})
}

func (s *Server) logout(c *gin.Context) {
	c.SetCookie(middleware.TokenCookie, "", -1, BasePath, "", false, true)
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Logged out successfully"})
}

// Videos

func (s *Server) listVideos(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.listVideos())
}

func (s *Server) getVideo(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		respondError(c, http.StatusBadRequest, "Invalid video ID")
		return
	}
	v, err := s.store.getVideo(id)
	if err != nil {
		respondError(c, http.StatusNotFound, "Video not found")
		return
	}
	c.JSON(http.StatusOK, v)
}

func bindVideo(c *gin.Context) (models.VideoRequest, bool) {
	var req models.VideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request format")
		return req, false
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.URL) == "" {
		respondError(c, http.StatusBadRequest, "Name and url are required")
		return req, false
	}
	return req, true
}

func (s *Server) createVideo(c *gin.Context) {
	req, ok := bindVideo(c)
	if !ok {
		return
	}
	id, _ := s.store.putVideo(0, req)
	c.JSON(http.StatusCreated, models.SuccessResponse{ID: models.ID(id), Message: "Video created successfully"})
}

func (s *Server) updateVideo(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		respondError(c, http.StatusBadRequest, "Invalid video ID")
		return
	}
	req, ok := bindVideo(c)
	if !ok {
		return
	}
	if _, err := s.store.putVideo(id, req); err != nil {
		respondError(c, http.StatusNotFound, "Video not found")
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{ID: models.ID(id), Message: "Video updated successfully"})
}

func (s *Server) deleteVideo(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		respondError(c, http.StatusBadRequest, "Invalid video ID")
		return
	}
	if err := s.store.deleteVideo(id); err != nil {
		respondError(c, http.StatusNotFound, "Video not found")
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{ID: models.ID(id), Message: "Video deleted successfully"})
}

// Content types

func (s *Server) listTypes(c *gin.Context) {
	types := s.store.listTypes()
	if len(types) == 0 {
		respondError(c, http.StatusNotFound, "No types found")
		return
	}
	c.JSON(http.StatusOK, types)
}

func (s *Server) getType(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		respondError(c, http.StatusBadRequest, "Invalid type ID")
		return
	}
	t, err := s.store.getType(id)
	if err != nil {
		respondError(c, http.StatusNotFound, "Type not found")
		return
	}
	c.JSON(http.StatusOK, t)
}

func bindType(c *gin.Context) (string, bool) {
	var req models.TypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request format")
		return "", false
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		respondError(c, http.StatusBadRequest, "Name is required")
		return "", false
	}
	return name, true
}

func (s *Server) createType(c *gin.Context) {
	name, ok := bindType(c)
	if !ok {
		return
	}
	t, _ := s.store.putType(0, name)
	c.JSON(http.StatusCreated, t)
}

func (s *Server) updateType(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		respondError(c, http.StatusBadRequest, "Invalid type ID")
		return
	}
	name, ok := bindType(c)
	if !ok {
		return
	}
	t, err := s.store.putType(id, name)
	if err != nil {
		respondError(c, http.StatusNotFound, "Type not found")
		return
	}
	c.JSON(http.StatusOK, t)
}

func (s *Server) deleteType(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		respondError(c, http.StatusBadRequest, "Invalid type ID")
		return
	}
	if err := s.store.deleteType(id); err != nil {
		respondError(c, http.StatusNotFound, "Type not found")
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{ID: models.ID(id), Message: "Type deleted successfully"})
}

// Categories

func (s *Server) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.listCategories())
}

func (s *Server) getCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		respondError(c, http.StatusBadRequest, "Invalid category ID")
		return
	}
	cat, err := s.store.getCategory(id)
	if err != nil {
		respondError(c, http.StatusNotFound, "Category not found")
		return
	}
	c.JSON(http.StatusOK, cat)
}

func bindCategory(c *gin.Context) (models.CategoryRequest, bool) {
	var req models.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request format")
		return req, false
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(c, http.StatusBadRequest, "Name is required")
		return req, false
	}
	return req, true
}

func (s *Server) createCategory(c *gin.Context) {
	req, ok := bindCategory(c)
	if !ok {
		return
	}
	cat, _ := s.store.putCategory(0, req)
	c.JSON(http.StatusCreated, cat)
}

func (s *Server) updateCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		respondError(c, http.StatusBadRequest, "Invalid category ID")
		return
	}
	req, ok := bindCategory(c)
	if !ok {
		return
	}
	cat, err := s.store.putCategory(id, req)
	if err != nil {
		respondError(c, http.StatusNotFound, "Category not found")
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (s *Server) deleteCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		respondError(c, http.StatusBadRequest, "Invalid category ID")
		return
	}
	if err := s.store.deleteCategory(id); err != nil {
		respondError(c, http.StatusNotFound, "Category not found")
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{ID: models.ID(id), Message: "Category deleted successfully"})
}

// Users

// userBody is a user as the backend sends it: ids are strings
type userBody struct {
	ID              string  `json:"id"`
	Username        string  `json:"username"`
	Admin           bool    `json:"admin"`
	ContentTypeID   *string `json:"content_type_id"`
	ContentTypeName *string `json:"content_type_name"`
	DateCreated     string  `json:"date_created"`
}

func toUserBody(u models.User) userBody {
	out := userBody{
		ID:          u.ID.String(),
		Username:    u.Username,
		Admin:       u.Admin,
		DateCreated: u.DateCreated,
	}
	if !u.ContentTypeID.IsZero() {
		id := u.ContentTypeID.String()
		out.ContentTypeID = &id
	}
	if u.ContentTypeName != "" {
		name := u.ContentTypeName
		out.ContentTypeName = &name
	}
	return out
}

func (s *Server) listUsers(c *gin.Context) {
	users := s.store.listUsers()
	if len(users) == 0 {
		respondError(c, http.StatusNotFound, "No users found")
		return
	}
	out := make([]userBody, 0, len(users))
	for _, u := range users {
		out = append(out, toUserBody(u))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		respondError(c, http.StatusBadRequest, "Invalid user ID")
		return
	}
	u, err := s.store.getUser(id)
	if err != nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	c.JSON(http.StatusOK, toUserBody(u))
}

// bindUser validates a user body. A stored password satisfies the admin
// password requirement on update.
func (s *Server) bindUser(c *gin.Context, id int64) (userInput, bool) {
	var req models.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request format")
		return userInput{}, false
	}

	in := userInput{
		username:     strings.TrimSpace(req.Username),
		admin:        req.Admin,
		passwordHash: req.Password,
	}
	if in.username == "" {
		respondError(c, http.StatusBadRequest, "Username is required")
		return in, false
	}
	if req.ContentTypeID == nil || strings.TrimSpace(*req.ContentTypeID) == "" {
		respondError(c, http.StatusBadRequest, "Content type is required")
		return in, false
	}
	typeID, err := models.ParseID(*req.ContentTypeID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid content type ID")
		return in, false
	}
	in.contentTypeID = int64(typeID)

	if in.admin && in.passwordHash == "" && !s.store.hasPassword(id) {
		respondError(c, http.StatusBadRequest, "Password is required for admin users")
		return in, false
	}
	return in, true
}

func (s *Server) saveUser(c *gin.Context, id int64, status int) {
	in, ok := s.bindUser(c, id)
	if !ok {
		return
	}
	u, err := s.store.putUser(id, in)
	switch {
	case errors.Is(err, errDuplicate):
		respondError(c, http.StatusConflict, "User with this name already exists")
	case errors.Is(err, errNotFound):
		respondError(c, http.StatusNotFound, "User not found")
	default:
		c.JSON(status, toUserBody(u))
	}
}

func (s *Server) createUser(c *gin.Context) {
	s.saveUser(c, 0, http.StatusCreated)
}

func (s *Server) updateUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		respondError(c, http.StatusBadRequest, "Invalid user ID")
		return
	}
	s.saveUser(c, id, http.StatusOK)
}

func (s *Server) deleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		respondError(c, http.StatusBadRequest, "Invalid user ID")
		return
	}
	if err := s.store.deleteUser(id); err != nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{ID: models.ID(id), Message: "User deleted successfully"})
}

// Media files

func (s *Server) listFiles(kind models.MediaKind) gin.HandlerFunc {
	notFound := "No video files found"
	if kind == models.MediaImage {
		notFound = "No image files found"
	}
	return func(c *gin.Context) {
		files := s.store.listFiles(kind)
		if len(files) == 0 {
			respondError(c, http.StatusNotFound, notFound)
			return
		}
		c.JSON(http.StatusOK, files)
	}
}

func (s *Server) maxSize(kind models.MediaKind) int64 {
	if kind == models.MediaImage {
		return s.cfg.MaxImageSize
	}
	return s.cfg.MaxVideoSize
}

func (s *Server) uploadFile(kind models.MediaKind) gin.HandlerFunc {
	field := kind.FormField()
	label := "Video"
	if kind == models.MediaImage {
		label = "Image"
	}

	return func(c *gin.Context) {
		header, err := c.FormFile(field)
		if err != nil {
			respondError(c, http.StatusBadRequest, fmt.Sprintf("No %s file provided", field))
			return
		}
		if !fileNamePattern.MatchString(header.Filename) {
			respondError(c, http.StatusBadRequest, "Invalid file name")
			return
		}

		limit := s.maxSize(kind)
		if header.Size > limit {
			respondError(c, http.StatusBadRequest, "File too large")
			return
		}

		f, err := header.Open()
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to read file")
			return
		}
		defer f.Close()

		data, err := io.ReadAll(io.LimitReader(f, limit+1))
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to read file")
			return
		}
		if int64(len(data)) > limit {
			respondError(c, http.StatusBadRequest, "File too large")
			return
		}

		detected := mimetype.Detect(data)
		if !mimetype.EqualsAny(detected.String(), allowedMIME[kind]...) {
			respondError(c, http.StatusBadRequest, fmt.Sprintf("Unsupported file type: %s", detected.String()))
			return
		}

		s.store.saveFile(kind, header.Filename, data)
		c.JSON(http.StatusOK, models.MessageResponse{
			Message: fmt.Sprintf("%s %s uploaded successfully", label, header.Filename),
		})
	}
}
