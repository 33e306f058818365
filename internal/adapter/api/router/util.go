package router

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"charityconnect/internal/adapter/api/middleware"
)

// APIMiddlewares builds the /api chain: per-IP rate limiting, then token verification when auth is on.
// A nil limiter or auth middleware is skipped.
func APIMiddlewares(authMiddleware *middleware.AuthMiddleware, limiter middleware.Limiter, logger *slog.Logger) []echo.MiddlewareFunc {
	var mws []echo.MiddlewareFunc
	if limiter != nil {
		mws = append(mws, middleware.RateLimit(limiter, logger))
	}
	if authMiddleware != nil {
		mws = append(mws, authMiddleware.Authenticate)
	}
	return mws
}
