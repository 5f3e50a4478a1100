package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "achievo/internal/errors"
	"achievo/internal/models"
	"achievo/internal/report"
	"achievo/internal/repository"
)

// ReportService implements ReportServicer by gathering a user's data
// and handing it to the PDF renderers.
type ReportService struct {
	users  repository.Users
	goals  repository.Goals
	habits repository.Habits
	bills  repository.Bills
}

// NewReportService creates a ReportService.
func NewReportService(users repository.Users, goals repository.Goals, habits repository.Habits, bills repository.Bills) *ReportService {
	return &ReportService{users: users, goals: goals, habits: habits, bills: bills}
}

// AccountExport renders the full account data PDF. Returns the bytes
// and a download filename.
func (s *ReportService) AccountExport(ctx context.Context, userID primitive.ObjectID) ([]byte, string, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrUserNotFound, err)
	}
	goals, err := s.goals.ListAll(ctx, userID)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	habits, err := s.habits.ListByOwner(ctx, userID)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := report.AccountSummary{TotalGoals: len(goals), TotalHabits: len(habits)}
	for _, g := range goals {
		if g.Completed {
			summary.CompletedGoals++
		}
	}
	summary.PendingGoals = summary.TotalGoals - summary.CompletedGoals
	if summary.TotalGoals > 0 {
		summary.CompletionRate = float64(summary.CompletedGoals) / float64(summary.TotalGoals) * 100
	}
	for _, h := range habits {
		if h.IsActive {
			summary.ActiveHabits++
		}
	}

	now := time.Now()
	pdf, err := report.RenderAccount(report.AccountData{
		User:        user,
		Summary:     summary,
		Goals:       goals,
		Habits:      habits,
		GeneratedAt: now,
	})
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	filename := fmt.Sprintf("achievo_export_%s.pdf", now.Format("20060102"))
	return pdf, filename, nil
}

// BillsExport renders the per-utility bill PDF, oldest bills first.
func (s *ReportService) BillsExport(ctx context.Context, userID primitive.ObjectID, billType models.BillType) ([]byte, string, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrUserNotFound, err)
	}
	bills, err := s.bills.ListByType(ctx, userID, billType, false, 0)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := time.Now()
	pdf, err := report.RenderBills(user.Username, billType, bills, now)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	filename := fmt.Sprintf("achievo_%s_bills_%s.pdf", billType, now.Format("20060102"))
	return pdf, filename, nil
}
