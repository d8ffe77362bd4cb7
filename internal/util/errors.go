package util

import (
	"errors"
	"net/http"

	"quizpath_backend/internal/mastery"

	"github.com/gin-gonic/gin"
)

var (
	ErrPermissionDenied   = errors.New("permission denied")
	ErrGenerationFailed   = errors.New("flashcard generation failed")
	ErrGeneratorDisabled  = errors.New("flashcard generation is not configured")
	ErrInvalidUpload      = errors.New("invalid upload")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// StatusOf 错误到 HTTP 状态码的映射
func StatusOf(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case mastery.IsValidationError(err), errors.Is(err, ErrInvalidUpload):
		return http.StatusBadRequest
	case errors.Is(err, mastery.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, mastery.ErrLocked):
		return http.StatusLocked
	case errors.Is(err, ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, ErrGenerationFailed):
		return http.StatusBadGateway
	case errors.Is(err, ErrGeneratorDisabled), errors.Is(err, ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// HandleError 业务错误原样返回信息，未知错误记录日志后返回 500
func HandleError(c *gin.Context, err error) {
	status := StatusOf(err)
	if status == http.StatusInternalServerError {
		LogInternalError(c, err)
		return
	}
	Error(c, status, err.Error())
}
