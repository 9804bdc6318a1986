package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// FaultInjector schedules simulated user API failures.
type FaultInjector interface {
	FailNext(n int)
	ScheduledFailures() int
}

type DebugHandler struct {
	faults FaultInjector
}

func NewDebugHandler(faults FaultInjector) *DebugHandler {
	return &DebugHandler{faults: faults}
}

type failNextQuery struct {
	N int `query:"n" validate:"min=0,max=100"`
}

// FailNext makes the next n user API calls fail with the simulated service error.
// Only mounted in development.
//
// @Summary      Schedule simulated failures
// @Tags         debug
// @Produce      json
// @Param        n    query     int  false  "Number of calls to fail (default 1)"
// @Success      200  {object}  map[string]int
// @Router       /debug/fail-next [post]
func (h *DebugHandler) FailNext(c echo.Context) error {
	q := failNextQuery{N: 1}
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "n must be an integer")
	}
	if err := c.Validate(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.faults.FailNext(q.N)
	return c.JSON(http.StatusOK, map[string]int{"scheduled": h.faults.ScheduledFailures()})
}
