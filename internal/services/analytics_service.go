package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"achievo/internal/analytics"
	apperrors "achievo/internal/errors"
	"achievo/internal/models"
	"achievo/internal/repository"
)

// AnalyticsService implements AnalyticsServicer by fetching the user's
// goals, habits and habit logs once and handing them to the pure
// analytics fold.
type AnalyticsService struct {
	goals  repository.Goals
	habits repository.Habits
	logs   repository.HabitLogs
}

// NewAnalyticsService creates an AnalyticsService.
func NewAnalyticsService(goals repository.Goals, habits repository.Habits, logs repository.HabitLogs) *AnalyticsService {
	return &AnalyticsService{goals: goals, habits: habits, logs: logs}
}

// Overview computes the full analytics payload as of now.
func (s *AnalyticsService) Overview(ctx context.Context, userID primitive.ObjectID, now time.Time) (analytics.Result, error) {
	goals, err := s.goals.ListAll(ctx, userID)
	if err != nil {
		return analytics.Result{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	// Analytics covers active habits only; paused ones drop out of the
	// totals and breakdowns just like the habits list view.
	habits, err := s.habits.ListActiveByOwner(ctx, userID)
	if err != nil {
		return analytics.Result{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logsByHabit := make(map[primitive.ObjectID][]models.HabitLog, len(habits))
	for _, h := range habits {
		logs, err := s.logs.ListByHabit(ctx, h.ID, userID)
		if err != nil {
			return analytics.Result{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		logsByHabit[h.ID] = logs
	}

	return analytics.Compute(goals, habits, logsByHabit, now), nil
}
