// Package response renders the unified API envelope.
package response

import (
	"net/http"

	deliverycontext "vkladovke/internal/delivery/context"
	domainerrors "vkladovke/internal/domain/errors"

	"github.com/labstack/echo/v4"
)

// Success writes a successful response with the request ID in the meta block.
func Success(c echo.Context, statusCode int, data any) error {
	return c.JSON(statusCode, domainerrors.SuccessResponse{
		Data: data,
		Meta: &domainerrors.MetaInfo{RequestID: deliverycontext.GetRequestID(c)},
	})
}

// Error writes an error response with a business error code and a
// user-facing message.
func Error(c echo.Context, statusCode int, errorCode, message string, details any) error {
	return c.JSON(statusCode, domainerrors.ErrorResponse{
		Error: &domainerrors.ErrorInfo{
			Code:    errorCode,
			Message: message,
			Details: details,
		},
		Meta: &domainerrors.MetaInfo{RequestID: deliverycontext.GetRequestID(c)},
	})
}

// BindingError reports a request body that could not be parsed.
func BindingError(c echo.Context, message string) error {
	return Error(c, http.StatusBadRequest, "INVALID_INPUT", message, nil)
}

// BadRequest 400 error
func BadRequest(c echo.Context, errorCode, message string) error {
	return Error(c, http.StatusBadRequest, errorCode, message, nil)
}

// Unauthorized 401 error
func Unauthorized(c echo.Context, errorCode, message string) error {
	return Error(c, http.StatusUnauthorized, errorCode, message, nil)
}
