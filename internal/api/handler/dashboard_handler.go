package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/99minutos/admin-console/internal/core/domain"
	"github.com/99minutos/admin-console/internal/core/ports"
)

type DashboardHandler struct {
	api ports.UserAPI
}

func NewDashboardHandler(api ports.UserAPI) *DashboardHandler {
	return &DashboardHandler{api: api}
}

type userCounts struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
	Pending  int `json:"pending"`
}

type dashboardEnvelope struct {
	envelope
	Counts *userCounts `json:"counts"`
}

// Dashboard renders user counts by status. The counts are fetched concurrently;
// active is derived from the others since status filters match by substring.
//
// @Summary      Dashboard
// @Tags         pages
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardEnvelope
// @Failure      503  {object}  dashboardEnvelope
// @Router       / [get]
func (h *DashboardHandler) Dashboard(c echo.Context) error {
	var counts userCounts
	g, ctx := errgroup.WithContext(c.Request().Context())

	count := func(filter string, into *int) {
		g.Go(func() error {
			res, err := h.api.GetUsers(ctx, ports.GetUsersParams{Filter: filter, Limit: 1})
			if err != nil {
				return err
			}
			*into = res.Total
			return nil
		})
	}
	count("", &counts.Total)
	count("status="+string(domain.StatusInactive), &counts.Inactive)
	count("status="+string(domain.StatusPending), &counts.Pending)

	if err := g.Wait(); err != nil {
		return respondFailure(c, err, &dashboardEnvelope{})
	}
	counts.Active = counts.Total - counts.Inactive - counts.Pending

	return render(c, http.StatusOK, dashboardEnvelope{envelope: envelope{IsSuccess: true}, Counts: &counts})
}

type messagePage struct {
	Message string `json:"message"`
}

// Unauthorized is the page a signed-in user lands on when a route needs a
// permission they lack.
//
// @Summary      Unauthorized page
// @Tags         pages
// @Produce      json
// @Success      200  {object}  messagePage
// @Router       /401 [get]
func Unauthorized(c echo.Context) error {
	return render(c, http.StatusOK, messagePage{Message: "You are not authorized to view this page"})
}

// NotFound is the catch-all page for paths no route matches.
func NotFound(c echo.Context) error {
	return render(c, http.StatusNotFound, messagePage{Message: "Page not found"})
}
