package utils

import (
	"github.com/gin-gonic/gin"

	apperrors "listcraft/internal/shared/errors"
)

// APIResponse is the common response envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func SuccessResponse(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Success: false,
		Error:   message,
	})
}

// ErrorResponseFromErr maps an application error to its HTTP status,
// falling back to the provided default code.
func ErrorResponseFromErr(c *gin.Context, defaultCode int, err error) {
	if appErr, ok := apperrors.IsAppError(err); ok {
		ErrorResponse(c, appErr.Code, appErr.Message)
		return
	}
	ErrorResponse(c, defaultCode, err.Error())
}
