// Package sandbox serves an in-memory copy of the catalog admin API for
// local demos and tests.
package sandbox

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/config"
	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/logging"
	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/middleware"
	"github.com/therealutkarshpriyadarshi/catalogadmin/pkg/models"
)

// BasePath is where the admin API is mounted
const BasePath = "/admin"

// Server is the sandbox admin backend
type Server struct {
	cfg    config.SandboxConfig
	store  *store
	auth   *middleware.Authenticator
	router *gin.Engine
	logger *logging.Logger
	srv    *http.Server
}

// New creates a sandbox server. Missing settings fall back to the
// sandbox defaults.
func New(cfg config.SandboxConfig, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if cfg.AdminLogin == "" {
		cfg.AdminLogin = "admin"
	}
	if cfg.SigningKey == "" {
		cfg.SigningKey = "sandbox-signing-key"
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 12 * time.Hour
	}
	if cfg.MaxImageSize <= 0 {
		cfg.MaxImageSize = 20 * 1024 * 1024
	}
	if cfg.MaxVideoSize <= 0 {
		cfg.MaxVideoSize = 500 * 1024 * 1024
	}

	s := &Server{
		cfg:    cfg,
		store:  newStore(),
		auth:   middleware.NewAuthenticator(cfg.SigningKey, cfg.TokenTTL),
		logger: logger,
	}
	s.router = s.setupRouter()
	return s
}

func (s *Server) setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(s.logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	admin := router.Group(BasePath)
	if s.cfg.RateLimit > 0 {
		admin.Use(middleware.RateLimit(middleware.NewRateLimiter(s.cfg.RateLimit, s.cfg.Burst)))
	}

	admin.POST("/signin", s.signIn)
	admin.POST("/logout", s.logout)

	authed := admin.Group("")
	authed.Use(s.auth.JWTAuth())
	{
		// Videos
		authed.GET("/video", s.listVideos)
		authed.GET("/video/:id", s.getVideo)
		authed.POST("/video", s.createVideo)
		authed.PUT("/video/:id", s.updateVideo)
		authed.DELETE("/video/:id", s.deleteVideo)

		// Content types
		authed.GET("/type", s.listTypes)
		authed.GET("/type/:id", s.getType)
		authed.POST("/type", s.createType)
		authed.PUT("/type/:id", s.updateType)
		authed.DELETE("/type/:id", s.deleteType)

		// Categories
		authed.GET("/category", s.listCategories)
		authed.GET("/category/:id", s.getCategory)
		authed.POST("/category", s.createCategory)
		authed.PUT("/category/:id", s.updateCategory)
		authed.DELETE("/category/:id", s.deleteCategory)

		// Users
		authed.GET("/users", s.listUsers)
		authed.GET("/users/:id", s.getUser)
		authed.POST("/users", s.createUser)
		authed.PUT("/users/:id", s.updateUser)
		authed.DELETE("/users/:id", s.deleteUser)

		// Media files
		authed.GET("/files/video", s.listFiles(models.MediaVideo))
		authed.GET("/files/img", s.listFiles(models.MediaImage))
		authed.POST("/files/video", s.uploadFile(models.MediaVideo))
		authed.POST("/files/img", s.uploadFile(models.MediaImage))
	}

	return router
}

// Handler returns the HTTP handler serving the sandbox
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the configured listen address
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
}

// Start listens on the configured address and serves in the background.
// Serve errors other than a clean shutdown are sent on the returned channel.
func (s *Server) Start() (net.Addr, <-chan error, error) {
	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to listen on %s: %w", s.Addr(), err)
	}

	s.srv = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", ln.Addr().String()).Info("Sandbox API listening")
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	return ln.Addr(), errCh, nil
}

// Shutdown gracefully stops a started server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

// Seed fills the catalog with a small demo data set
func (s *Server) Seed() {
	movies, _ := s.store.putType(0, "Movies")
	kids, _ := s.store.putType(0, "Kids")

	drama, _ := s.store.putCategory(0, models.CategoryRequest{
		Name: "Drama", ImgURL: "drama.jpg", TypeIDs: []int64{int64(movies.ID)},
	})
	cartoons, _ := s.store.putCategory(0, models.CategoryRequest{
		Name: "Cartoons", ImgURL: "cartoons.jpg", TypeIDs: []int64{int64(kids.ID)},
	})

	_, _ = s.store.putVideo(0, models.VideoRequest{
		Name: "Big Buck Bunny", URL: "/video/bunny.mp4", ImgURL: "bunny.jpg",
		Description: "Open movie", CategoryIDs: []int64{int64(cartoons.ID)},
	})
	_, _ = s.store.putVideo(0, models.VideoRequest{
		Name: "Sintel", URL: "/video/sintel.mp4", ImgURL: "sintel.jpg",
		CategoryIDs: []int64{int64(drama.ID)},
	})

	_, _ = s.store.putUser(0, userInput{username: "viewer", contentTypeID: int64(kids.ID)})
}
