package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"hobbyshop/internal/core/apperror"
	"hobbyshop/internal/core/idempotency"
	"hobbyshop/internal/infrastructure/http/v1/dto"
	"hobbyshop/pkg/logger"
)

// ErrorHandler middleware transforms errors into consistent JSON responses.
// Hides internal errors from clients while logging full details.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		// If response already written by handler, do not override it.
		if c.Writer.Written() {
			return
		}

		if appErr, ok := apperror.AsAppError(err); ok {
			if appErr.Err != nil {
				logger.Error(c.Request.Context(), "request error",
					"code", appErr.Code,
					"cause", appErr.Err,
				)
			}

			body := dto.ErrorResponse{
				Code:    appErr.Code,
				Message: appErr.Message,
				Details: appErr.Details,
			}
			failIdempotency(c, appErr.HTTPStatus, body)
			c.JSON(appErr.HTTPStatus, body)
			return
		}

		// Unknown error - log and return generic message
		logger.Error(c.Request.Context(), "unhandled error",
			"error", err,
		)

		body := dto.ErrorResponse{
			Code:    apperror.CodeInternal,
			Message: "Internal server error",
			Details: map[string]any{
				"request_id": c.GetString(KeyRequestID),
			},
		}
		failIdempotency(c, http.StatusInternalServerError, body)
		c.JSON(http.StatusInternalServerError, body)
	}
}

// failIdempotency records the error response we return for the request's
// idempotency key (best-effort).
func failIdempotency(c *gin.Context, status int, body dto.ErrorResponse) {
	store, key, ok := IdempotencyFrom(c)
	if !ok {
		return
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return
	}
	if err := store.Fail(c.Request.Context(), key, idempotency.Replay{
		StatusCode:  status,
		ContentType: "application/json",
		Body:        raw,
	}); err != nil {
		logger.Warn(c.Request.Context(), "failed to record idempotency failure", "key", key, "error", err)
	}
}
