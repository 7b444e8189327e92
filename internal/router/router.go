package router

import (
	"net/http"
	"path"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"

	"docmanager/internal/auth"
	"docmanager/internal/blob"
	"docmanager/internal/handler"
	"docmanager/internal/service"
)

// Handlers groups the HTTP handlers mounted by Register.
type Handlers struct {
	Auth      *handler.AuthHandler
	Documents *handler.DocumentHandler
	Users     *handler.UserHandler
	Seed      *handler.SeedHandler

	// FilesDir is served under blob.LocalURLPrefix to logged-in callers.
	// Empty when uploads go to object storage.
	FilesDir string
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	tokens *auth.TokenIssuer,
	sessions service.SessionService,
	log logrus.FieldLogger,
	h Handlers,
) {
	e.Use(RequestLogger(log))
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/logout", h.Auth.Logout)

	// Secured routes: a valid bearer that is also the active session
	secured := api.Group("", BearerToken(tokens), RequireSession(sessions))

	secured.GET("/auth/me", h.Auth.Me)

	secured.GET("/documents", h.Documents.ListDocuments)
	secured.GET("/documents/search", h.Documents.SearchDocuments)
	secured.GET("/documents/:id", h.Documents.GetDocument)
	secured.POST("/documents", h.Documents.UploadDocument)
	secured.PATCH("/documents/:id", h.Documents.UpdateDocument)
	secured.DELETE("/documents/:id", h.Documents.DeleteDocument)

	secured.GET("/users", h.Users.ListUsers)
	secured.GET("/users/:id", h.Users.GetUser)
	secured.POST("/users", h.Users.CreateUser)
	secured.PATCH("/users/:id", h.Users.UpdateUser)
	secured.DELETE("/users/:id", h.Users.DeleteUser)

	secured.POST("/admin/reset", h.Seed.Reset)

	if h.FilesDir != "" {
		files := e.Group(blob.LocalURLPrefix, BearerToken(tokens), RequireSession(sessions))
		files.GET("/*", serveFiles(h.FilesDir))
	}
}

func serveFiles(root string) echo.HandlerFunc {
	return func(c echo.Context) error {
		name := path.Clean("/" + c.Param("*"))
		if name == "/" {
			return echo.ErrNotFound
		}
		return c.File(filepath.Join(root, filepath.FromSlash(name)))
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
