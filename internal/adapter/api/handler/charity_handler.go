package handler

import (
	"github.com/labstack/echo/v4"

	"charityconnect/internal/domain/entity"
	"charityconnect/internal/usecase"
	"charityconnect/pkg/response"
	"charityconnect/pkg/utils"
)

type CharityHandler struct {
	charityUseCase *usecase.CharityUseCase
}

func NewCharityHandler(charityUseCase *usecase.CharityUseCase) *CharityHandler {
	return &CharityHandler{
		charityUseCase: charityUseCase,
	}
}

type createCharityRequest struct {
	Name         string               `json:"name" validate:"required"`
	Email        string               `json:"email" validate:"required,email"`
	Address      string               `json:"address"`
	Phone        string               `json:"phone"`
	PaymentLinks []entity.PaymentLink `json:"paymentLinks"`
}

type updateCharityRequest struct {
	Name         string               `json:"name" validate:"required"`
	Email        string               `json:"email" validate:"required,email"`
	Address      string               `json:"address"`
	Phone        string               `json:"phone"`
	PaymentLinks []entity.PaymentLink `json:"paymentLinks"`
	BankDetails  *entity.BankDetails  `json:"bankDetails"`
}

type createPostRequest struct {
	Text  string `json:"text" validate:"required"`
	Image string `json:"image"`
}

type addCommentRequest struct {
	From    string `json:"from" validate:"required"`
	To      string `json:"to" validate:"required"`
	Message string `json:"message" validate:"required"`
}

func (h *CharityHandler) CreateCharity(c echo.Context) error {
	var req createCharityRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	charity, err := h.charityUseCase.CreateCharity(c.Request().Context(), usecase.CreateCharityInput{
		Name:         req.Name,
		Email:        req.Email,
		Address:      req.Address,
		Phone:        req.Phone,
		PaymentLinks: req.PaymentLinks,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, charity)
}

func (h *CharityHandler) ListCharities(c echo.Context) error {
	charities, err := h.charityUseCase.ListCharities(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, charities)
}

func (h *CharityHandler) GetCharityByEmail(c echo.Context) error {
	charity, err := h.charityUseCase.GetCharityByEmail(c.Request().Context(), c.Param("email"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, charity)
}

func (h *CharityHandler) GetCharity(c echo.Context) error {
	charity, err := h.charityUseCase.GetCharity(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, charity)
}

func (h *CharityHandler) UpdateCharity(c echo.Context) error {
	var req updateCharityRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	charity, err := h.charityUseCase.UpdateCharity(c.Request().Context(), c.Param("id"), usecase.UpdateCharityInput{
		Name:         req.Name,
		Email:        req.Email,
		Address:      req.Address,
		Phone:        req.Phone,
		PaymentLinks: req.PaymentLinks,
		BankDetails:  req.BankDetails,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, charity)
}

func (h *CharityHandler) CreatePost(c echo.Context) error {
	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	post, err := h.charityUseCase.CreatePost(c.Request().Context(), c.Param("id"), usecase.CreatePostInput{
		Text:  req.Text,
		Image: req.Image,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, post)
}

func (h *CharityHandler) ListPosts(c echo.Context) error {
	posts, err := h.charityUseCase.ListPosts(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, posts)
}

func (h *CharityHandler) GetPost(c echo.Context) error {
	post, err := h.charityUseCase.GetPost(c.Request().Context(), c.Param("id"), c.Param("postId"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, post)
}

func (h *CharityHandler) AddComment(c echo.Context) error {
	var req addCommentRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	comment, err := h.charityUseCase.AddComment(c.Request().Context(), c.Param("id"), c.Param("postId"), usecase.AddCommentInput{
		From:    req.From,
		To:      req.To,
		Message: req.Message,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, comment)
}

func (h *CharityHandler) InitMessages(c echo.Context) error {
	messages, err := h.charityUseCase.InitMessages(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}

// Feed handles GET /api/feed
func (h *CharityHandler) Feed(c echo.Context) error {
	posts, err := h.charityUseCase.Feed(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	if page, ok := utils.GetPaginationParams(c); ok {
		return response.Success(c, utils.Paginate(posts, page))
	}
	return response.Success(c, posts)
}
