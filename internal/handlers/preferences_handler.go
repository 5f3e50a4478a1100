package handlers

import (
	"github.com/gin-gonic/gin"

	"achievo/internal/models"
	"achievo/internal/services"
)

// PreferencesHandler serves the user preference endpoints.
type PreferencesHandler struct {
	prefs services.PreferencesServicer
}

// NewPreferencesHandler creates a PreferencesHandler.
func NewPreferencesHandler(prefs services.PreferencesServicer) *PreferencesHandler {
	return &PreferencesHandler{prefs: prefs}
}

type updatePreferencesRequest struct {
	DefaultPriority    *string `json:"default_priority" binding:"omitempty,goal_priority"`
	DefaultCategory    *string `json:"default_category" binding:"omitempty,max=50"`
	DateFormat         *string `json:"date_format" binding:"omitempty,max=20"`
	Theme              *string `json:"theme" binding:"omitempty,theme"`
	GoalsPerPage       *int    `json:"goals_per_page" binding:"omitempty,min=5,max=100"`
	AutoArchive        *bool   `json:"auto_archive"`
	ShowAnimations     *bool   `json:"show_animations"`
	ConfirmDelete      *bool   `json:"confirm_delete"`
	EmailNotifications *bool   `json:"email_notifications"`
	DueDateReminders   *bool   `json:"due_date_reminders"`
	WeeklySummary      *bool   `json:"weekly_summary"`
}

// Get handles GET /preferences; the document is created with defaults
// on first read.
func (h *PreferencesHandler) Get(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	prefs, err := h.prefs.Get(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "", prefs)
}

// Update handles PUT /preferences.
func (h *PreferencesHandler) Update(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	var req updatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	input := services.PreferencesInput{
		DefaultCategory:    req.DefaultCategory,
		DateFormat:         req.DateFormat,
		Theme:              req.Theme,
		GoalsPerPage:       req.GoalsPerPage,
		AutoArchive:        req.AutoArchive,
		ShowAnimations:     req.ShowAnimations,
		ConfirmDelete:      req.ConfirmDelete,
		EmailNotifications: req.EmailNotifications,
		DueDateReminders:   req.DueDateReminders,
		WeeklySummary:      req.WeeklySummary,
	}
	if req.DefaultPriority != nil {
		p := models.GoalPriority(*req.DefaultPriority)
		input.DefaultPriority = &p
	}

	prefs, err := h.prefs.Update(c.Request.Context(), userID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "Preferences saved", prefs)
}
