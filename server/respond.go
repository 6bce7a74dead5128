package server

import (
	"github.com/gin-gonic/gin"

	"github.com/ByLCY/cvpress/logger"
)

// ErrorBody 统一的错误对象。
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse 包装 ErrorBody。
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// respondError 记录并返回统一格式的错误响应。
func respondError(c *gin.Context, status int, code, message string, details any) {
	ev := logger.Ctx(c.Request.Context()).Warn()
	if status >= 500 {
		ev = logger.Ctx(c.Request.Context()).Error()
	}
	ev.Int("status", status).
		Str("code", code).
		Str("path", c.Request.URL.Path).
		Str("method", c.Request.Method).
		Msg(message)

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}
