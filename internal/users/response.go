package users

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the error body returned by every endpoint.
type ErrorResponse struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

func writeError(c echo.Context, code int, message string, details ...string) error {
	return c.JSON(code, ErrorResponse{
		Code:    code,
		Message: message,
		Errors:  details,
	})
}

func writeNotFound(c echo.Context) error {
	return writeError(c, http.StatusNotFound, ErrNotFound.Error())
}

func writeBadRequest(c echo.Context, message string, details ...string) error {
	return writeError(c, http.StatusBadRequest, message, details...)
}
