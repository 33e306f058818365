package handler

import (
	"github.com/labstack/echo/v4"

	"charityconnect/internal/usecase"
	"charityconnect/pkg/response"
	"charityconnect/pkg/utils"
)

type DonorHandler struct {
	donorUseCase *usecase.DonorUseCase
}

func NewDonorHandler(donorUseCase *usecase.DonorUseCase) *DonorHandler {
	return &DonorHandler{
		donorUseCase: donorUseCase,
	}
}

type createDonorRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

func (h *DonorHandler) CreateDonor(c echo.Context) error {
	var req createDonorRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	donor, err := h.donorUseCase.CreateDonor(c.Request().Context(), usecase.CreateDonorInput{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
		Phone:   req.Phone,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, donor)
}

func (h *DonorHandler) GetDonorByEmail(c echo.Context) error {
	donor, err := h.donorUseCase.GetDonorByEmail(c.Request().Context(), c.Param("email"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, donor)
}

func (h *DonorHandler) GetDonor(c echo.Context) error {
	donor, err := h.donorUseCase.GetDonor(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, donor)
}

func (h *DonorHandler) Follow(c echo.Context) error {
	result, err := h.donorUseCase.Follow(c.Request().Context(), c.Param("donorId"), c.Param("charityId"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

func (h *DonorHandler) Unfollow(c echo.Context) error {
	result, err := h.donorUseCase.Unfollow(c.Request().Context(), c.Param("donorId"), c.Param("charityId"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

func (h *DonorHandler) Feed(c echo.Context) error {
	posts, err := h.donorUseCase.Feed(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	if page, ok := utils.GetPaginationParams(c); ok {
		return response.Success(c, utils.Paginate(posts, page))
	}
	return response.Success(c, posts)
}

func (h *DonorHandler) InitMessages(c echo.Context) error {
	messages, err := h.donorUseCase.InitMessages(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}
