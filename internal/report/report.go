// Package report renders the downloadable PDF exports.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"achievo/internal/models"
	"achievo/internal/timeutil"
)

// AccountSummary holds the headline figures printed on the account export.
type AccountSummary struct {
	TotalGoals     int
	CompletedGoals int
	PendingGoals   int
	CompletionRate float64
	TotalHabits    int
	ActiveHabits   int
}

// AccountData is everything the account export renders.
type AccountData struct {
	User        *models.User
	Summary     AccountSummary
	Goals       []models.Goal
	Habits      []models.Habit
	GeneratedAt time.Time
}

func newPDF(title string) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, false)
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 12, title, "", 1, "C", false, 0, "")
	pdf.Ln(2)
	return pdf
}

func sectionHeader(pdf *gofpdf.Fpdf, text string) {
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 9, text, "", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func tableHeader(pdf *gofpdf.Fpdf, widths []float64, labels []string) {
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, label := range labels {
		pdf.CellFormat(widths[i], 8, label, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// RenderAccount produces the full account data export as a PDF.
func RenderAccount(data AccountData) ([]byte, error) {
	pdf := newPDF("Achievo Data Export")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("User: %s (%s)", data.User.Username, data.User.Email), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s", data.GeneratedAt.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	sectionHeader(pdf, "Summary")
	summaryRows := [][2]string{
		{"Total Goals", fmt.Sprintf("%d", data.Summary.TotalGoals)},
		{"Completed Goals", fmt.Sprintf("%d", data.Summary.CompletedGoals)},
		{"Pending Goals", fmt.Sprintf("%d", data.Summary.PendingGoals)},
		{"Completion Rate", fmt.Sprintf("%.1f%%", data.Summary.CompletionRate)},
		{"Total Habits", fmt.Sprintf("%d", data.Summary.TotalHabits)},
		{"Active Habits", fmt.Sprintf("%d", data.Summary.ActiveHabits)},
	}
	pdf.SetFont("Arial", "", 10)
	for _, row := range summaryRows {
		pdf.CellFormat(60, 7, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, row[1], "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	sectionHeader(pdf, "Goals")
	if len(data.Goals) == 0 {
		pdf.CellFormat(0, 7, "No goals yet.", "", 1, "L", false, 0, "")
	} else {
		widths := []float64{90, 25, 30, 20, 25}
		tableHeader(pdf, widths, []string{"Goal", "Priority", "Category", "Status", "Due"})
		for _, g := range data.Goals {
			status := "Pending"
			if g.Completed {
				status = "Done"
			}
			due := "-"
			if g.DueDate != nil {
				due = timeutil.FormatDate(*g.DueDate)
			}
			pdf.CellFormat(widths[0], 7, truncate(g.Text, 52), "1", 0, "L", false, 0, "")
			pdf.CellFormat(widths[1], 7, string(g.Priority), "1", 0, "L", false, 0, "")
			pdf.CellFormat(widths[2], 7, truncate(g.Category, 16), "1", 0, "L", false, 0, "")
			pdf.CellFormat(widths[3], 7, status, "1", 0, "L", false, 0, "")
			pdf.CellFormat(widths[4], 7, due, "1", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(4)

	sectionHeader(pdf, "Habits")
	if len(data.Habits) == 0 {
		pdf.CellFormat(0, 7, "No habits yet.", "", 1, "L", false, 0, "")
	} else {
		widths := []float64{80, 30, 25, 30, 25}
		tableHeader(pdf, widths, []string{"Habit", "Frequency", "Target", "Category", "Active"})
		for _, h := range data.Habits {
			active := "No"
			if h.IsActive {
				active = "Yes"
			}
			pdf.CellFormat(widths[0], 7, truncate(h.Name, 45), "1", 0, "L", false, 0, "")
			pdf.CellFormat(widths[1], 7, string(h.Frequency), "1", 0, "L", false, 0, "")
			pdf.CellFormat(widths[2], 7, fmt.Sprintf("%d/day", h.TargetCount), "1", 0, "L", false, 0, "")
			pdf.CellFormat(widths[3], 7, truncate(h.Category, 16), "1", 0, "L", false, 0, "")
			pdf.CellFormat(widths[4], 7, active, "1", 1, "L", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderBills produces the per-utility bill export as a PDF, with a
// totals row and a summary block.
func RenderBills(username string, billType models.BillType, bills []models.UtilityBill, generatedAt time.Time) ([]byte, error) {
	title := fmt.Sprintf("Achievo %s Bill Report", billTypeTitle(billType))
	pdf := newPDF(title)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("User: %s", username), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s", generatedAt.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	if len(bills) == 0 {
		pdf.CellFormat(0, 7, "No bills recorded.", "", 1, "L", false, 0, "")
	} else {
		widths := []float64{30, 35, 35, 30, 60}
		tableHeader(pdf, widths, []string{"Date", "Amount (Rs.)", "Consumption", "Rate", "Notes"})

		var totalAmount, totalConsumption float64
		for _, b := range bills {
			rate := "-"
			if b.Consumption > 0 {
				rate = fmt.Sprintf("%.2f/%s", b.Amount/b.Consumption, b.Unit)
			}
			pdf.CellFormat(widths[0], 7, timeutil.FormatDate(b.Date), "1", 0, "L", false, 0, "")
			pdf.CellFormat(widths[1], 7, fmt.Sprintf("%.2f", b.Amount), "1", 0, "R", false, 0, "")
			pdf.CellFormat(widths[2], 7, fmt.Sprintf("%.2f %s", b.Consumption, b.Unit), "1", 0, "R", false, 0, "")
			pdf.CellFormat(widths[3], 7, rate, "1", 0, "R", false, 0, "")
			pdf.CellFormat(widths[4], 7, truncate(b.Notes, 35), "1", 1, "L", false, 0, "")
			totalAmount += b.Amount
			totalConsumption += b.Consumption
		}

		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(widths[0], 8, "TOTAL", "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 8, fmt.Sprintf("%.2f", totalAmount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 8, fmt.Sprintf("%.2f", totalConsumption), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3]+widths[4], 8, "", "1", 1, "L", false, 0, "")
		pdf.Ln(4)

		sectionHeader(pdf, "Summary")
		pdf.SetFont("Arial", "", 10)
		n := float64(len(bills))
		avgRate := "-"
		if totalConsumption > 0 {
			avgRate = fmt.Sprintf("Rs. %.2f per unit", totalAmount/totalConsumption)
		}
		rows := [][2]string{
			{"Entries", fmt.Sprintf("%d", len(bills))},
			{"Total Amount", fmt.Sprintf("Rs. %.2f", totalAmount)},
			{"Total Consumption", fmt.Sprintf("%.2f", totalConsumption)},
			{"Average Amount", fmt.Sprintf("Rs. %.2f", totalAmount/n)},
			{"Average Rate", avgRate},
		}
		for _, row := range rows {
			pdf.CellFormat(60, 7, row[0], "1", 0, "L", false, 0, "")
			pdf.CellFormat(60, 7, row[1], "1", 1, "R", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func billTypeTitle(t models.BillType) string {
	switch t {
	case models.BillTypeMilk:
		return "Milk"
	case models.BillTypeWater:
		return "Water"
	case models.BillTypeElectricity:
		return "Electricity"
	case models.BillTypeGas:
		return "Gas"
	case models.BillTypeInternet:
		return "Internet"
	}
	return string(t)
}
