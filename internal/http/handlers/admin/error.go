package admin

import (
	"errors"

	handlershared "github.com/dealsplit/internal/http/handlers/shared"
	"github.com/dealsplit/internal/http/response"
	"github.com/dealsplit/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

// respondServiceError 按错误类别映射响应：校验 400、不存在 404、状态冲突 409，其余 500
func respondServiceError(c *gin.Context, err error, notFoundKey, failedKey string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		handlershared.RespondErrorWithDetail(c, response.CodeBadRequest, "error.validation_failed", err)
	case errors.Is(err, service.ErrNotFound):
		handlershared.RespondErrorWithDetail(c, response.CodeNotFound, notFoundKey, err)
	case errors.Is(err, service.ErrInvalidTransition):
		handlershared.RespondErrorWithDetail(c, response.CodeConflict, "error.invalid_transition", err)
	default:
		respondError(c, response.CodeInternal, failedKey, err)
	}
}
