package api

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"charityconnect/internal/adapter/api/handler"
	apimiddleware "charityconnect/internal/adapter/api/middleware"
	"charityconnect/internal/adapter/api/router"
	"charityconnect/internal/infrastructure/metrics"
	"charityconnect/internal/usecase"
	"charityconnect/pkg/response"
)

type Dependencies struct {
	MessageUseCase *usecase.MessageUseCase
	DonorUseCase   *usecase.DonorUseCase
	CharityUseCase *usecase.CharityUseCase
	ProfileUseCase *usecase.ProfileUseCase

	Metrics *metrics.Metrics
	Logger  *slog.Logger

	// Verifier turns on token authentication for /api routes when set.
	Verifier apimiddleware.TokenVerifier
	// Limiter turns on per-IP rate limiting for /api routes when set.
	Limiter apimiddleware.Limiter

	// RequestLog enables Echo's access log.
	RequestLog bool
}

// NewServer wires handlers, middleware and routes into a ready to start Echo instance.
func NewServer(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	if deps.RequestLog {
		e.Use(middleware.Logger())
	}
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = NewValidator()
	e.HTTPErrorHandler = errorHandler(deps.Logger)

	handler.Setup(deps.MessageUseCase, deps.DonorUseCase, deps.CharityUseCase, deps.ProfileUseCase)

	var authMiddleware *apimiddleware.AuthMiddleware
	if deps.Verifier != nil {
		authMiddleware = apimiddleware.NewAuthMiddleware(deps.Verifier)
	}

	router.Setup(e, deps.Metrics.Handler(), router.APIMiddlewares(authMiddleware, deps.Limiter, deps.Logger)...)

	return e
}

// errorHandler renders errors that escape handlers (routing misses, middleware refusals) in the response envelope.
func errorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		if werr := response.Error(c, err); werr != nil {
			logger.Error("Failed to write error response", "path", c.Path(), "error", werr)
		}
	}
}
