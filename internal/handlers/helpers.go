// Package handlers exposes the HTTP surface. Handlers bind and validate
// input, call the service layer and shape responses; they never touch
// the repositories directly.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "achievo/internal/errors"
	"achievo/internal/logger"
	"achievo/internal/middleware"
)

// getUserID extracts the authenticated user's id set by the auth
// middleware.
func getUserID(c *gin.Context) (primitive.ObjectID, bool) {
	v, exists := c.Get(middleware.UserIDKey)
	if !exists {
		return primitive.NilObjectID, false
	}
	id, ok := v.(primitive.ObjectID)
	return id, ok
}

// parseObjectID parses an ObjectID from its hex form.
func parseObjectID(hex string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(hex)
}

// parsePathID parses an ObjectID from a path parameter.
func parsePathID(c *gin.Context, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		return primitive.NilObjectID, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid id")
	}
	return id, nil
}

// respondWithError maps an error to the shared error envelope.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("request failed",
				"code", appErr.Code,
				"path", c.Request.URL.Path,
				"error", appErr.Internal,
			)
		}
		c.JSON(appErr.StatusCode, gin.H{
			"success": false,
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	logger.Get().Errorw("unhandled error", "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "INTERNAL_ERROR",
			"message": "An internal error occurred",
		},
	})
}

func respondOK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message, "data": data})
}

func respondCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": message, "data": data})
}

func unauthorized(c *gin.Context) {
	respondWithError(c, apperrors.ErrUnauthorized)
}

func invalidInput(c *gin.Context, err error) {
	respondWithError(c, apperrors.Wrap(apperrors.ErrInvalidInput, err))
}
