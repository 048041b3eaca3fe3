package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"seedit/internal/authz"
	apperrors "seedit/internal/errors"
	"seedit/internal/logger"
	"seedit/internal/middleware"
)

// subject builds the authorization subject for the current request.
func subject(c *gin.Context) authz.Subject {
	return middleware.Subject(c)
}

// requireSubject returns the subject or an error for unauthenticated calls.
func requireSubject(c *gin.Context) (authz.Subject, error) {
	sub := middleware.Subject(c)
	if sub.IsGuest() {
		return sub, apperrors.ErrUnauthenticated
	}
	return sub, nil
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrInternalServer.Code,
			"message": apperrors.ErrInternalServer.Message,
		},
	})
}
