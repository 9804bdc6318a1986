package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/admin-console/internal/api/middleware"
	"github.com/99minutos/admin-console/internal/core/domain"
	"github.com/99minutos/admin-console/internal/core/service"
)

// envelope is the uniform result shape of every user API call. Operation
// specific payload fields sit next to it and are null on failure.
type envelope struct {
	IsSuccess bool   `json:"isSuccess"`
	Message   string `json:"message"`
}

func (e *envelope) fail(message string) {
	e.IsSuccess = false
	e.Message = message
}

type failable interface {
	fail(message string)
}

// Envelope is the failure body written for errors that reach the echo error handler.
func Envelope(message string) any {
	return &envelope{Message: message}
}

// page is the body of every page route: the resolved layout chrome plus the page data.
type page struct {
	Layout service.RenderedLayout `json:"layout"`
	Page   any                    `json:"page"`
}

// StatusFor maps a user API failure to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInactiveAccount):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrSimulatedFailure):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondFailure writes body as a failed envelope for err.
func respondFailure(c echo.Context, err error, body failable) error {
	apiErr := domain.AsAPIError(err)
	status := StatusFor(apiErr)
	if status == http.StatusInternalServerError {
		zerolog.Ctx(c.Request().Context()).Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("user api call failed unexpectedly")
	}
	body.fail(apiErr.Message)
	return c.JSON(status, body)
}

// render writes data inside the layout resolved for the route.
func render(c echo.Context, status int, data any) error {
	layout, ok := middleware.LayoutFrom(c)
	if !ok {
		return c.JSON(status, data)
	}
	return c.JSON(status, page{Layout: layout.Render(viewer(c)), Page: data})
}
