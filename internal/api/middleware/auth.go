package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/admin-console/internal/core/service"
)

const (
	ContextClient = "client"
	ContextLayout = "layout"
)

// Client resolves the caller's session from the bearer token or the session
// cookie. Requests without a valid token carry on anonymously; the route guard
// decides what they may see.
func Client(tokens *Tokens, sessions *service.SessionManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c)
			if raw == "" {
				if cookie, err := c.Cookie(CookieName); err == nil {
					raw = cookie.Value
				}
			}
			if raw == "" {
				return next(c)
			}

			sid, err := tokens.Parse(raw)
			if err != nil {
				zerolog.Ctx(c.Request().Context()).Debug().Err(err).Msg("ignoring client token")
				return next(c)
			}
			c.Set(ContextClient, sessions.Open(sid))
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	parts := strings.SplitN(c.Request().Header.Get(echo.HeaderAuthorization), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// ClientFrom returns the session resolved by Client, or nil for anonymous requests.
func ClientFrom(c echo.Context) *service.ClientSession {
	client, _ := c.Get(ContextClient).(*service.ClientSession)
	return client
}
