package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "achievo/internal/errors"
	"achievo/internal/models"
	"achievo/internal/pagination"
	"achievo/internal/repository"
	"achievo/internal/services"
	"achievo/internal/timeutil"
)

// GoalHandler serves the goal CRUD, bulk and stats endpoints.
type GoalHandler struct {
	goals services.GoalServicer
}

// NewGoalHandler creates a GoalHandler.
func NewGoalHandler(goals services.GoalServicer) *GoalHandler {
	return &GoalHandler{goals: goals}
}

type createGoalRequest struct {
	Text     string `json:"text" binding:"required,min=1,max=500"`
	Priority string `json:"priority" binding:"omitempty,goal_priority"`
	Category string `json:"category" binding:"omitempty,max=50"`
	DueDate  string `json:"due_date" binding:"omitempty"`
}

type updateGoalRequest struct {
	Text      *string `json:"text" binding:"omitempty,min=1,max=500"`
	Priority  *string `json:"priority" binding:"omitempty,goal_priority"`
	Category  *string `json:"category" binding:"omitempty,max=50"`
	Completed *bool   `json:"completed"`
	DueDate   *string `json:"due_date"`
}

type bulkGoalRequest struct {
	Action string   `json:"action" binding:"required,oneof=complete uncomplete delete"`
	IDs    []string `json:"goal_ids" binding:"required,min=1"`
}

type deleteAllGoalsRequest struct {
	Confirm string `json:"confirm" binding:"required"`
}

type listGoalsQuery struct {
	pagination.PageRequest
	Category string `form:"category"`
	Priority string `form:"priority" binding:"omitempty,goal_priority"`
	Status   string `form:"status" binding:"omitempty,oneof=completed pending"`
	Search   string `form:"search"`
}

// parseDueDate parses the optional YYYY-MM-DD due date field.
func parseDueDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := timeutil.ParseDate(raw)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid due date, expected YYYY-MM-DD")
	}
	return &d, nil
}

// List handles GET /goals.
func (h *GoalHandler) List(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	var q listGoalsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		invalidInput(c, err)
		return
	}

	filter := repository.GoalFilter{
		Category: q.Category,
		Priority: models.GoalPriority(q.Priority),
		Status:   q.Status,
		Search:   q.Search,
	}
	page, err := h.goals.List(c.Request.Context(), userID, filter, q.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "", page)
}

// Categories handles GET /goals/categories.
func (h *GoalHandler) Categories(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	cats, err := h.goals.Categories(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "", gin.H{"categories": cats})
}

// Create handles POST /goals.
func (h *GoalHandler) Create(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	var req createGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}
	due, err := parseDueDate(req.DueDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.goals.Create(c.Request.Context(), userID, services.GoalInput{
		Text:     req.Text,
		Priority: models.GoalPriority(req.Priority),
		Category: req.Category,
		DueDate:  due,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondCreated(c, "Goal created", goal)
}

// Get handles GET /goals/:id.
func (h *GoalHandler) Get(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.goals.Get(c.Request.Context(), userID, goalID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "", goal)
}

// Update handles PUT /goals/:id.
func (h *GoalHandler) Update(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	var req updateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	update := services.GoalUpdate{
		Text:      req.Text,
		Category:  req.Category,
		Completed: req.Completed,
	}
	if req.Priority != nil {
		p := models.GoalPriority(*req.Priority)
		update.Priority = &p
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			update.ClearDue = true
		} else {
			due, err := parseDueDate(*req.DueDate)
			if err != nil {
				respondWithError(c, err)
				return
			}
			update.DueDate = due
		}
	}

	goal, err := h.goals.Update(c.Request.Context(), userID, goalID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "Goal updated", goal)
}

// Toggle handles PATCH /goals/:id/toggle.
func (h *GoalHandler) Toggle(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.goals.Toggle(c.Request.Context(), userID, goalID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "Goal toggled", goal)
}

// Delete handles DELETE /goals/:id.
func (h *GoalHandler) Delete(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.goals.Delete(c.Request.Context(), userID, goalID); err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "Goal deleted", nil)
}

// Bulk handles POST /goals/bulk. Unknown or foreign ids are skipped.
func (h *GoalHandler) Bulk(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	var req bulkGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	ids := make([]primitive.ObjectID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	affected, err := h.goals.BulkAction(c.Request.Context(), userID, req.Action, ids)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "Bulk action applied", gin.H{"affected": affected})
}

// DeleteAll handles DELETE /goals. Requires the literal confirmation
// string, same as account deletion.
func (h *GoalHandler) DeleteAll(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	var req deleteAllGoalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}
	if req.Confirm != "delete" {
		respondWithError(c, apperrors.ErrConfirmRequired)
		return
	}

	n, err := h.goals.DeleteAll(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "All goals deleted", gin.H{"deleted": n})
}

// Stats handles GET /stats.
func (h *GoalHandler) Stats(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	stats, err := h.goals.Stats(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "", stats)
}
