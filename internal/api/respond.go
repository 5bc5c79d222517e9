package api

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/recetario/backend/internal/apperror"
	"github.com/recetario/backend/internal/middleware"
)

// respondError converts any service error into the single JSON error
// body at the handler boundary. Underlying causes are only exposed for
// server-side failures, matching the {error, details?} contract.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := apperror.HTTPStatus(err)
	body := gin.H{"error": apperror.Message(err)}

	var appErr *apperror.Error
	if status >= 500 && errors.As(err, &appErr) && appErr.Err != nil {
		body["details"] = appErr.Err.Error()
	}

	if status >= 500 {
		logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Error(err))
	} else {
		logger.Warn("request rejected",
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Error(err))
	}

	c.JSON(status, body)
}

// userIDFromContext reads the id the auth gate attached.
func userIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(middleware.UserIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
