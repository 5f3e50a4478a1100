package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	apperrors "achievo/internal/errors"
	"achievo/internal/models"
	"achievo/internal/services"
	"achievo/internal/timeutil"
)

// BillHandler serves the utility bill endpoints.
type BillHandler struct {
	bills services.BillServicer
}

// NewBillHandler creates a BillHandler.
func NewBillHandler(bills services.BillServicer) *BillHandler {
	return &BillHandler{bills: bills}
}

type billRequest struct {
	BillType    string  `json:"bill_type" binding:"required,bill_type"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Consumption float64 `json:"consumption" binding:"omitempty,gte=0"`
	Unit        string  `json:"unit" binding:"omitempty,max=20"`
	Date        string  `json:"date" binding:"omitempty"`
	Notes       string  `json:"notes" binding:"omitempty,max=500"`
}

func (r *billRequest) toInput() (services.BillInput, error) {
	input := services.BillInput{
		BillType:    models.BillType(r.BillType),
		Amount:      r.Amount,
		Consumption: r.Consumption,
		Unit:        r.Unit,
		Notes:       r.Notes,
	}
	if r.Date != "" {
		d, err := timeutil.ParseDate(r.Date)
		if err != nil {
			return input, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid date, expected YYYY-MM-DD")
		}
		input.Date = d
	}
	return input, nil
}

// Overview handles GET /bills: recent entries and current-month totals.
func (h *BillHandler) Overview(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	overview, err := h.bills.Overview(c.Request.Context(), userID, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "", overview)
}

// Create handles POST /bills.
func (h *BillHandler) Create(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	var req billRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondWithError(c, err)
		return
	}

	bill, err := h.bills.Create(c.Request.Context(), userID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondCreated(c, "Bill added", bill)
}

// Get handles GET /bills/:id.
func (h *BillHandler) Get(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	billID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	bill, err := h.bills.Get(c.Request.Context(), userID, billID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "", bill)
}

// Update handles PUT /bills/:id.
func (h *BillHandler) Update(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	billID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	var req billRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondWithError(c, err)
		return
	}

	bill, err := h.bills.Update(c.Request.Context(), userID, billID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "Bill updated", bill)
}

// Delete handles DELETE /bills/:id.
func (h *BillHandler) Delete(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	billID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.bills.Delete(c.Request.Context(), userID, billID); err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "Bill deleted", nil)
}
