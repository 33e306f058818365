package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	apperrors "charityconnect/pkg/errors"
)

type Response struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *ErrorInfo  `json:"error,omitempty"`
	Timestamp string      `json:"timestamp"`
}

type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func Success(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{
		Success:   true,
		Data:      data,
		Timestamp: now(),
	})
}

func Created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, Response{
		Success:   true,
		Data:      data,
		Timestamp: now(),
	})
}

func Fail(c echo.Context, status int, code, message string) error {
	return c.JSON(status, Response{
		Success:   false,
		Timestamp: now(),
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	})
}

// Error maps validation errors, AppErrors and echo.HTTPErrors to their status; anything else is a 500.
func Error(c echo.Context, err error) error {
	var validationErr validator.ValidationErrors
	if errors.As(err, &validationErr) {
		return Fail(c, http.StatusBadRequest, "VALIDATION_ERROR", validationMessage(validationErr))
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return Fail(c, appErr.Status, appErr.Code, appErr.Message)
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return Fail(c, httpErr.Code, strings.ToUpper(strings.ReplaceAll(http.StatusText(httpErr.Code), " ", "_")), fmt.Sprint(httpErr.Message))
	}

	return Fail(c, http.StatusInternalServerError, apperrors.CodeInternal, "An unexpected error occurred")
}

func validationMessage(validationErr validator.ValidationErrors) string {
	if len(validationErr) == 0 {
		return "Invalid input data"
	}

	err := validationErr[0]
	field := jsonFieldName(err)
	param := err.Param()

	switch err.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return field + " must be at least " + param
	case "max":
		return field + " must be at most " + param
	case "oneof":
		return field + " must be one of: " + param
	case "email":
		return field + " must be a valid email address"
	default:
		return field + " is invalid"
	}
}

// jsonFieldName prefers the json tag name registered on the validator, falling back to the lowered struct field.
func jsonFieldName(err validator.FieldError) string {
	if name := err.Field(); name != "" && name != err.StructField() {
		return name
	}
	return strings.ToLower(err.StructField())
}
