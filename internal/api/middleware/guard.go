package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/admin-console/internal/core/domain"
	"github.com/99minutos/admin-console/internal/core/ports"
	"github.com/99minutos/admin-console/internal/core/service"
)

// Guard gates route behind the session of the caller. A forced navigation
// left by an expired session wins over the requested route.
func Guard(guard *service.RouteGuard, route domain.Route) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var session ports.SessionStore
			if client := ClientFrom(c); client != nil {
				if to := client.TakeRedirect(); to != "" && to != c.Request().URL.Path {
					return c.Redirect(http.StatusFound, to)
				}
				session = client.Store()
			}

			verdict := guard.Check(c.Request().Context(), session, route)
			if !verdict.Allowed() {
				return c.Redirect(http.StatusFound, verdict.Location)
			}
			return next(c)
		}
	}
}

// Layout resolves the layout of route for the handler to render with.
func Layout(loader *service.LayoutLoader, name domain.LayoutName) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ContextLayout, loader.Resolve(name))
			return next(c)
		}
	}
}

// LayoutFrom returns the layout resolved by Layout.
func LayoutFrom(c echo.Context) (service.Layout, bool) {
	layout, ok := c.Get(ContextLayout).(service.Layout)
	return layout, ok
}
