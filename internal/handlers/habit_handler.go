package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	apperrors "achievo/internal/errors"
	"achievo/internal/models"
	"achievo/internal/services"
	"achievo/internal/timeutil"
)

// HabitHandler serves the habit CRUD and completion log endpoints.
type HabitHandler struct {
	habits services.HabitServicer
}

// NewHabitHandler creates a HabitHandler.
func NewHabitHandler(habits services.HabitServicer) *HabitHandler {
	return &HabitHandler{habits: habits}
}

type createHabitRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Frequency   string `json:"frequency" binding:"omitempty,habit_frequency"`
	TargetCount int    `json:"target_count" binding:"omitempty,min=1,max=100"`
	Description string `json:"description" binding:"omitempty,max=500"`
	Category    string `json:"category" binding:"omitempty,max=50"`
}

type updateHabitRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Frequency   *string `json:"frequency" binding:"omitempty,habit_frequency"`
	TargetCount *int    `json:"target_count" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	Category    *string `json:"category" binding:"omitempty,max=50"`
	IsActive    *bool   `json:"is_active"`
}

type logHabitRequest struct {
	Date  string `json:"date" binding:"omitempty"`
	Notes string `json:"notes" binding:"omitempty,max=500"`
}

// List handles GET /habits: active habits with streaks and today's
// progress.
func (h *HabitHandler) List(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	habits, err := h.habits.ListWithStats(c.Request.Context(), userID, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "", gin.H{"habits": habits})
}

// Create handles POST /habits.
func (h *HabitHandler) Create(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	var req createHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	habit, err := h.habits.Create(c.Request.Context(), userID, services.HabitInput{
		Name:        req.Name,
		Frequency:   models.HabitFrequency(req.Frequency),
		TargetCount: req.TargetCount,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondCreated(c, "Habit created", habit)
}

// Get handles GET /habits/:id.
func (h *HabitHandler) Get(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	habitID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	habit, err := h.habits.Get(c.Request.Context(), userID, habitID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "", habit)
}

// Update handles PUT /habits/:id.
func (h *HabitHandler) Update(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	habitID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	var req updateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	update := services.HabitUpdate{
		Name:        req.Name,
		TargetCount: req.TargetCount,
		Description: req.Description,
		Category:    req.Category,
		IsActive:    req.IsActive,
	}
	if req.Frequency != nil {
		f := models.HabitFrequency(*req.Frequency)
		update.Frequency = &f
	}

	habit, err := h.habits.Update(c.Request.Context(), userID, habitID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "Habit updated", habit)
}

// Delete handles DELETE /habits/:id.
func (h *HabitHandler) Delete(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	habitID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.habits.Delete(c.Request.Context(), userID, habitID); err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "Habit deleted", nil)
}

// Log handles POST /habits/:id/log. The date defaults to today; repeat
// logs on the same day increment the counter.
func (h *HabitHandler) Log(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	habitID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	var req logHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		invalidInput(c, err)
		return
	}

	date := time.Now()
	if req.Date != "" {
		date, err = timeutil.ParseDate(req.Date)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid date, expected YYYY-MM-DD"))
			return
		}
	}

	log, err := h.habits.Log(c.Request.Context(), userID, habitID, date, req.Notes)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "Habit logged", log)
}
