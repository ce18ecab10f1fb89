package users

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Aleph-Alpha/schema-management/v1/logger"
	"github.com/Aleph-Alpha/schema-management/v1/metrics"
	"github.com/Aleph-Alpha/schema-management/v1/tracer"
)

// NewServer builds the echo instance serving h. m and t may be nil.
func NewServer(h *Handler, log logger.Logger, m metrics.MetricsCollector, t *tracer.Tracer) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(RequestObserver(log, m, t))

	h.RegisterRoutes(e)
	return e
}
