package helper

import (
	"net/http"

	. "todoapp/internal/adapter/http/validation"
	"todoapp/internal/core/model/response"

	"github.com/gin-gonic/gin"
)

func SendSuccess(c *gin.Context, statusCode int, data any, message ...string) {
	body := response.SuccessResponse{
		Data: data,
	}

	if len(message) > 0 && message[0] != "" {
		body.Message = message[0]
	}

	c.JSON(statusCode, body)
}

func SendError(c *gin.Context, statusCode int, code string, errors []response.ValidationError, details ...any) {
	body := response.ErrorResponse{
		Error: response.ResponseError{
			Code:   code,
			Errors: errors,
		},
	}

	if len(details) > 0 {
		body.Error.Details = details[0]
	}

	c.JSON(statusCode, body)
}

func SendValidationError(c *gin.Context, err error) {
	SendError(c, http.StatusBadRequest, "VALIDATION_ERROR", FormatValidationErrors(err))
}

func SendBadRequestError(c *gin.Context, field string, message string) {
	SendError(c, http.StatusBadRequest, "BAD_REQUEST", fieldErrors(field, message))
}

func SendUnauthorizedError(c *gin.Context, message string) {
	SendError(c, http.StatusUnauthorized, "UNAUTHORIZED", fieldErrors("auth", message))
}

func SendNotFoundError(c *gin.Context, message string) {
	SendError(c, http.StatusNotFound, "NOT_FOUND", fieldErrors("resource", message))
}

func SendInternalError(c *gin.Context, message string, details ...any) {
	SendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", fieldErrors("server", message), details...)
}

func fieldErrors(field, message string) []response.ValidationError {
	return []response.ValidationError{
		{
			Field:   field,
			Message: message,
		},
	}
}
