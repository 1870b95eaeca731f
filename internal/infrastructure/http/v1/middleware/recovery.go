// Package middleware provides HTTP middleware components.
package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"hobbyshop/internal/core/apperror"
	"hobbyshop/internal/infrastructure/http/v1/dto"
	"hobbyshop/pkg/logger"
)

// Recovery turns a panic into a 500 INTERNAL_ERROR response.
// It is installed outermost, so the error handler has already unwound when
// the panic arrives and Recovery renders the body itself.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logger.Error(c.Request.Context(), "panic recovered",
				"error", rec,
				"method", c.Request.Method,
				"route", c.FullPath(),
				"stack", string(debug.Stack()),
			)

			appErr := apperror.NewInternal(fmt.Errorf("panic: %v", rec))
			_ = c.Error(appErr)
			c.Abort()
			if c.Writer.Written() {
				return
			}

			body := dto.ErrorResponse{
				Code:    appErr.Code,
				Message: appErr.Message,
				Details: map[string]any{"request_id": c.GetString(KeyRequestID)},
			}
			failIdempotency(c, http.StatusInternalServerError, body)
			c.JSON(http.StatusInternalServerError, body)
		}()
		c.Next()
	}
}
