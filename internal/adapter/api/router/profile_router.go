package router

import (
	"github.com/labstack/echo/v4"

	"charityconnect/internal/adapter/api/handler"
)

func SetupProfileRouter(api *echo.Group) {
	profileHandler := handler.GetProfileHandler()

	api.GET("/profile", profileHandler.GetProfile)
	api.POST("/profile", profileHandler.CreateProfile)
}
