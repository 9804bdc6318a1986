package api

import (
	"fmt"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/admin-console/docs"
	"github.com/99minutos/admin-console/internal/api/handler"
	"github.com/99minutos/admin-console/internal/api/middleware"
	"github.com/99minutos/admin-console/internal/core/ports"
	"github.com/99minutos/admin-console/internal/core/service"
)

// UserAPI is the user service the console talks to, with fault injection for
// the development debug route.
type UserAPI interface {
	ports.UserAPI
	handler.FaultInjector
}

// Deps holds everything the router wires into handlers and middleware.
type Deps struct {
	API         UserAPI
	Sessions    *service.SessionManager
	Guard       *service.RouteGuard
	Layouts     *service.LayoutLoader
	Tokens      *middleware.Tokens
	Health      map[string]handler.Pinger
	Log         zerolog.Logger
	Development bool
	// Registerer and Gatherer default to the prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log)...)
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "console",
		Registerer: d.Registerer,
	}))

	// --- Console routes: client session, then layout, then guard ---
	authHandler := handler.NewAuthHandler(d.Sessions, d.Tokens, !d.Development)
	userHandler := handler.NewUserHandler(d.API)
	dashboardHandler := handler.NewDashboardHandler(d.API)

	handlers := map[string]echo.HandlerFunc{
		"dashboard":    dashboardHandler.Dashboard,
		"users":        userHandler.List,
		"create-user":  userHandler.CreatePage,
		"store-user":   userHandler.Create,
		"user":         userHandler.Get,
		"update-user":  userHandler.Update,
		"delete-user":  userHandler.Delete,
		"roles":        userHandler.Roles,
		"login":        authHandler.LoginPage,
		"authenticate": authHandler.Login,
		"logout":       authHandler.Logout,
		"unauthorized": handler.Unauthorized,
	}

	client := middleware.Client(d.Tokens, d.Sessions)
	for _, route := range Routes {
		h, ok := handlers[route.Name]
		if !ok {
			panic(fmt.Sprintf("api: no handler for route %q", route.Name))
		}
		e.Add(route.Method, route.Path, h,
			client,
			middleware.Layout(d.Layouts, route.Layout),
			middleware.Guard(d.Guard, route),
		)
	}

	e.RouteNotFound(NotFoundRoute.Path, handler.NotFound,
		client,
		middleware.Layout(d.Layouts, NotFoundRoute.Layout),
		middleware.Guard(d.Guard, NotFoundRoute),
	)

	// --- Health probes, metrics and docs (no session required) ---
	healthHandler := handler.NewHealthHandler(d.Health)
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – is session storage up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	if d.Development {
		debugHandler := handler.NewDebugHandler(d.API)
		e.POST("/debug/fail-next", debugHandler.FailNext)
	}

	return e
}
