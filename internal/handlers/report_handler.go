package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "achievo/internal/errors"
	"achievo/internal/models"
	"achievo/internal/services"
)

// ReportHandler serves the PDF export endpoints.
type ReportHandler struct {
	reports services.ReportServicer
}

// NewReportHandler creates a ReportHandler.
func NewReportHandler(reports services.ReportServicer) *ReportHandler {
	return &ReportHandler{reports: reports}
}

func sendPDF(c *gin.Context, pdf []byte, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// ExportData handles GET /export/data: the full account export.
func (h *ReportHandler) ExportData(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	pdf, filename, err := h.reports.AccountExport(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	sendPDF(c, pdf, filename)
}

// ExportBills handles GET /export/bills/:type.
func (h *ReportHandler) ExportBills(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	billType := models.BillType(c.Param("type"))
	switch billType {
	case models.BillTypeMilk, models.BillTypeWater, models.BillTypeElectricity, models.BillTypeGas, models.BillTypeInternet:
	default:
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Unknown bill type"))
		return
	}

	pdf, filename, err := h.reports.BillsExport(c.Request.Context(), userID, billType)
	if err != nil {
		respondWithError(c, err)
		return
	}
	sendPDF(c, pdf, filename)
}
