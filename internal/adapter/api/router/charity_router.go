package router

import (
	"github.com/labstack/echo/v4"

	"charityconnect/internal/adapter/api/handler"
)

func SetupCharityRouter(api *echo.Group) {
	charityHandler := handler.GetCharityHandler()

	api.GET("/charities", charityHandler.ListCharities)
	api.GET("/feed", charityHandler.Feed)

	charities := api.Group("/charity")
	charities.POST("", charityHandler.CreateCharity)
	charities.GET("", charityHandler.ListCharities)
	charities.GET("/email/:email", charityHandler.GetCharityByEmail)
	charities.GET("/:id", charityHandler.GetCharity)
	charities.PUT("/:id", charityHandler.UpdateCharity)
	charities.PATCH("/:id/messages/init", charityHandler.InitMessages)

	// Posts
	charities.POST("/:id/posts", charityHandler.CreatePost)
	charities.GET("/:id/posts", charityHandler.ListPosts)
	charities.GET("/:id/posts/:postId", charityHandler.GetPost)
	charities.POST("/:id/posts/:postId/comments", charityHandler.AddComment)
}
