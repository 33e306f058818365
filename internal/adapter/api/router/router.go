package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Setup mounts every route. Handlers must be initialised with handler.Setup first.
func Setup(e *echo.Echo, metricsHandler http.Handler, apiMiddlewares ...echo.MiddlewareFunc) {
	api := e.Group("/api", apiMiddlewares...)

	SetupMessageRouter(api)
	SetupDonorRouter(api)
	SetupCharityRouter(api)
	SetupProfileRouter(api)
	SetupHealthRouter(e, metricsHandler)
}
