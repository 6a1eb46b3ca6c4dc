package server

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"

	"github.com/goliatone/go-users-api/auth"
)

// ErrorResponse is the wire shape every failed request gets.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// ErrorHandler maps rich errors to HTTP responses. Handlers never write
// status codes for failures themselves, they return the error and let this
// translate category and code into the response.
func ErrorHandler(logger auth.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var richErr *errors.Error
		if errors.As(err, &richErr) {
			status := richErr.Code
			if status < http.StatusBadRequest || status > http.StatusNetworkAuthenticationRequired {
				status = http.StatusInternalServerError
			}

			res := ErrorResponse{
				Code:    richErr.TextCode,
				Message: richErr.Message,
			}
			if richErr.Category == errors.CategoryValidation && len(richErr.Metadata) > 0 {
				res.Fields = richErr.Metadata
			}

			if status >= http.StatusInternalServerError && logger != nil {
				logger.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
			}

			return c.Status(status).JSON(res)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(ErrorResponse{
				Code:    "HTTP_ERROR",
				Message: fiberErr.Message,
			})
		}

		if logger != nil {
			logger.Error("unhandled error", "method", c.Method(), "path", c.Path(), "error", err)
		}

		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Internal server error",
		})
	}
}
