package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"achievo/internal/services"
)

// AnalyticsHandler serves the analytics overview.
type AnalyticsHandler struct {
	analytics services.AnalyticsServicer
}

// NewAnalyticsHandler creates an AnalyticsHandler.
func NewAnalyticsHandler(analytics services.AnalyticsServicer) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// Overview handles GET /analytics.
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	result, err := h.analytics.Overview(c.Request.Context(), userID, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "", result)
}
