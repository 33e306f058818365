package router

import (
	"github.com/labstack/echo/v4"

	"charityconnect/internal/adapter/api/handler"
)

func SetupMessageRouter(api *echo.Group) {
	messageHandler := handler.GetMessageHandler()

	messages := api.Group("/messages")
	messages.POST("", messageHandler.SendMessage)
	messages.POST("/direct", messageHandler.SendDirect)
	messages.GET("/direct/:id/:model", messageHandler.DirectMessages)

	// Ledger reads
	messages.GET("/conversation/:id1/:id2", messageHandler.GetConversation)
	messages.GET("/conversations/:id/:role", messageHandler.ListConversations)
	messages.PUT("/read/:conversationId/:recipientId", messageHandler.MarkRead)
}
