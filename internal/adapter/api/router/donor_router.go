package router

import (
	"github.com/labstack/echo/v4"

	"charityconnect/internal/adapter/api/handler"
)

func SetupDonorRouter(api *echo.Group) {
	donorHandler := handler.GetDonorHandler()

	donors := api.Group("/donor")
	donors.POST("", donorHandler.CreateDonor)
	donors.GET("/email/:email", donorHandler.GetDonorByEmail)
	donors.GET("/:id", donorHandler.GetDonor)
	donors.GET("/:id/feed", donorHandler.Feed)
	donors.PATCH("/:id/messages/init", donorHandler.InitMessages)

	// Follow graph
	donors.POST("/:donorId/follow/:charityId", donorHandler.Follow)
	donors.POST("/:donorId/unfollow/:charityId", donorHandler.Unfollow)
}
