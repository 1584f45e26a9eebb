package router

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"puppaka/internal/auth"
	"puppaka/internal/config"
	"puppaka/internal/handler"
	"puppaka/internal/metrics"
	appmw "puppaka/internal/middleware"
	"puppaka/internal/model"
	"puppaka/web"
)

// submitsPerMinute limits login and contact form submissions per client IP.
const submitsPerMinute = 5

// Handlers groups the HTTP handlers the router dispatches to.
type Handlers struct {
	Public *handler.PublicHandler
	Auth   *handler.AuthHandler
	Admin  *handler.AdminHandler
	API    *handler.APIHandler
	Health *handler.HealthHandler
}

// Dependencies are the collaborators of the middleware chain.
type Dependencies struct {
	Tokens    *auth.TokenService
	Sessions  appmw.SessionResumer
	Readiness *appmw.Readiness
	Metrics   *metrics.Metrics
	Renderer  echo.Renderer
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, h Handlers, deps Dependencies) {
	e.Renderer = deps.Renderer
	e.HTTPErrorHandler = handler.ErrorHandler
	e.Validator = &CustomValidator{validator: model.Validator()}

	e.Pre(middleware.RemoveTrailingSlash())

	e.Use(middleware.RequestID())
	e.Use(deps.Metrics.Middleware())
	e.Use(requestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Skipper: func(c echo.Context) bool { return c.Path() == "/metrics" },
	}))
	e.Use(deps.Readiness.Middleware())
	e.Use(apiOnly(echo.WrapMiddleware(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))))
	e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		Skipper:        skipCSRF,
		TokenLookup:    "form:_csrf",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   cfg.SecureCookies,
		CookieSameSite: http.SameSiteLaxMode,
	}))

	e.GET("/health", h.Health.Live)
	e.GET("/metrics", echo.WrapHandler(deps.Metrics.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.StaticFS("/static", echo.MustSubFS(web.FS, "static"))
	e.Static("/uploads", cfg.UploadDir)

	// Public pages
	e.GET("/", h.Public.Home)
	e.GET("/blog", h.Public.Blog)
	e.GET("/blog/:slug", h.Public.Post)
	e.GET("/portfolio", h.Public.Portfolio)
	e.GET("/portfolio/:slug", h.Public.Project)
	e.GET("/about", h.Public.About)
	e.GET("/contact", h.Public.ContactForm)
	e.POST("/contact", h.Public.SubmitContact, submitLimiter())

	// Auth gate
	e.GET(appmw.LoginPath, h.Auth.LoginForm)
	e.POST(appmw.LoginPath, h.Auth.Login, submitLimiter())

	// Admin routes (require a live session)
	admin := e.Group("/admin",
		appmw.SessionGate(deps.Tokens, deps.Sessions, cfg.SecureCookies),
		middleware.BodyLimit(bodyLimit(cfg.UploadMaxBytes)),
	)
	admin.GET("", h.Admin.Dashboard)
	admin.GET("/logout", h.Auth.Logout)

	admin.GET("/posts", h.Admin.Posts)
	admin.GET("/posts/new", h.Admin.NewPost)
	admin.POST("/posts", h.Admin.CreatePost)
	admin.GET("/posts/:id/edit", h.Admin.EditPost)
	admin.POST("/posts/:id", h.Admin.UpdatePost)
	admin.POST("/posts/:id/delete", h.Admin.DeletePost)

	admin.GET("/projects", h.Admin.Projects)
	admin.GET("/projects/new", h.Admin.NewProject)
	admin.POST("/projects", h.Admin.CreateProject)
	admin.GET("/projects/:id/edit", h.Admin.EditProject)
	admin.POST("/projects/:id", h.Admin.UpdateProject)
	admin.POST("/projects/:id/delete", h.Admin.DeleteProject)

	admin.GET("/contacts", h.Admin.Contacts)
	admin.POST("/contacts/:id/read", h.Admin.MarkContactRead)
	admin.POST("/contacts/:id/delete", h.Admin.DeleteContact)

	admin.GET("/settings", h.Admin.Settings)
	admin.POST("/settings/password", h.Admin.ChangePassword)

	// JSON API
	api := e.Group("/api")
	api.GET("/health", h.Health.Check)
	api.GET("/posts", h.API.ListPosts)
	api.GET("/posts/:slug", h.API.GetPost)
	api.GET("/projects", h.API.ListProjects)
	api.GET("/projects/:slug", h.API.GetProject)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// AlwaysOpenPaths answer before bootstrap has finished.
var AlwaysOpenPaths = []string{"/health", "/api/health", "/metrics"}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			slog.LogAttrs(c.Request().Context(), level, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote_ip", v.RemoteIP),
				slog.String("request_id", v.RequestID),
			)
			return nil
		},
	})
}

func submitLimiter() echo.MiddlewareFunc {
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Every(time.Minute / submitsPerMinute),
			Burst:     submitsPerMinute,
			ExpiresIn: 10 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many attempts, please try again later")
		},
	})
}

func apiOnly(mw echo.MiddlewareFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		wrapped := mw(next)
		return func(c echo.Context) error {
			if strings.HasPrefix(c.Request().URL.Path, "/api/") {
				return wrapped(c)
			}
			return next(c)
		}
	}
}

func skipCSRF(c echo.Context) bool {
	path := c.Request().URL.Path
	for _, prefix := range []string{"/api/", "/static/", "/uploads/", "/swagger/"} {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return path == "/health" || path == "/metrics"
}

// bodyLimit leaves room for a featured image plus a handful of gallery images.
func bodyLimit(uploadMax int64) string {
	return fmt.Sprintf("%dK", (uploadMax*8+1<<20)/1024)
}
