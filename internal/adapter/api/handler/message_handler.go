package handler

import (
	"github.com/labstack/echo/v4"

	"charityconnect/internal/usecase"
	"charityconnect/pkg/response"
)

type MessageHandler struct {
	messageUseCase *usecase.MessageUseCase
}

func NewMessageHandler(messageUseCase *usecase.MessageUseCase) *MessageHandler {
	return &MessageHandler{
		messageUseCase: messageUseCase,
	}
}

type sendMessageRequest struct {
	From      string `json:"from" validate:"required"`
	FromModel string `json:"fromModel" validate:"required"`
	To        string `json:"to" validate:"required"`
	ToModel   string `json:"toModel" validate:"required"`
	Text      string `json:"text" validate:"required"`
}

type directMessageRequest struct {
	FromID    string `json:"fromId" validate:"required"`
	FromModel string `json:"fromModel" validate:"required"`
	ToID      string `json:"toId" validate:"required"`
	ToModel   string `json:"toModel" validate:"required"`
	Message   string `json:"message" validate:"required"`
}

type markReadResponse struct {
	ModifiedCount int64 `json:"modifiedCount"`
}

// SendMessage handles POST /api/messages
func (h *MessageHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	message, err := h.messageUseCase.SendMessage(c.Request().Context(), usecase.SendMessageInput{
		From:      req.From,
		FromModel: req.FromModel,
		To:        req.To,
		ToModel:   req.ToModel,
		Text:      req.Text,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

// SendDirect handles POST /api/messages/direct
func (h *MessageHandler) SendDirect(c echo.Context) error {
	var req directMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	summary, err := h.messageUseCase.SendDirect(c.Request().Context(), usecase.SendMessageInput{
		From:      req.FromID,
		FromModel: req.FromModel,
		To:        req.ToID,
		ToModel:   req.ToModel,
		Text:      req.Message,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, summary)
}

// GetConversation handles GET /api/messages/conversation/:id1/:id2?role1=&role2=
func (h *MessageHandler) GetConversation(c echo.Context) error {
	messages, err := h.messageUseCase.GetConversation(
		c.Request().Context(),
		c.Param("id1"), c.QueryParam("role1"),
		c.Param("id2"), c.QueryParam("role2"),
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}

// ListConversations handles GET /api/messages/conversations/:id/:role
func (h *MessageHandler) ListConversations(c echo.Context) error {
	conversations, err := h.messageUseCase.ListConversations(c.Request().Context(), c.Param("id"), c.Param("role"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, conversations)
}

// MarkRead handles PUT /api/messages/read/:conversationId/:recipientId
func (h *MessageHandler) MarkRead(c echo.Context) error {
	modified, err := h.messageUseCase.MarkRead(c.Request().Context(), c.Param("conversationId"), c.Param("recipientId"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, markReadResponse{ModifiedCount: modified})
}

// DirectMessages handles GET /api/messages/direct/:id/:model
func (h *MessageHandler) DirectMessages(c echo.Context) error {
	messages, err := h.messageUseCase.DirectMessages(c.Request().Context(), c.Param("id"), c.Param("model"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}
