package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"achievo/internal/analytics"
	apperrors "achievo/internal/errors"
	"achievo/internal/models"
	"achievo/internal/repository"
	"achievo/internal/timeutil"
)

// HabitService implements HabitServicer.
type HabitService struct {
	habits repository.Habits
	logs   repository.HabitLogs
}

// NewHabitService creates a HabitService.
func NewHabitService(habits repository.Habits, logs repository.HabitLogs) *HabitService {
	return &HabitService{habits: habits, logs: logs}
}

// ListWithStats returns the user's active habits with live progress:
// today's count, whether the target is met, total completions and the
// current streak of days the target was reached.
func (s *HabitService) ListWithStats(ctx context.Context, userID primitive.ObjectID, now time.Time) ([]HabitWithStats, error) {
	habits, err := s.habits.ListActiveByOwner(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	today := timeutil.DateOf(now)
	out := make([]HabitWithStats, 0, len(habits))
	for _, h := range habits {
		logs, err := s.logs.ListByHabit(ctx, h.ID, userID)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		item := HabitWithStats{
			Habit:         h,
			CurrentStreak: analytics.StreakByTarget(logs, h.TargetCount, now),
		}
		for _, l := range logs {
			item.TotalCompletions += l.CompletedCount
			if timeutil.SameDate(l.Date, today) {
				item.CompletedToday = l.CompletedCount
			}
		}
		item.TargetMetToday = item.CompletedToday >= h.TargetCount
		out = append(out, item)
	}
	return out, nil
}

// Create inserts a new active habit for the user.
func (s *HabitService) Create(ctx context.Context, userID primitive.ObjectID, input HabitInput) (*models.Habit, error) {
	habit := &models.Habit{
		Name:        input.Name,
		UserID:      userID,
		Frequency:   input.Frequency,
		TargetCount: input.TargetCount,
		Description: input.Description,
		Category:    input.Category,
		IsActive:    true,
		CreatedAt:   time.Now(),
	}
	if habit.Frequency == "" {
		habit.Frequency = models.FrequencyDaily
	}
	if habit.TargetCount <= 0 {
		habit.TargetCount = 1
	}
	if habit.Category == "" {
		habit.Category = "general"
	}
	if err := s.habits.Insert(ctx, habit); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return habit, nil
}

func (s *HabitService) owned(ctx context.Context, userID, habitID primitive.ObjectID) (*models.Habit, error) {
	habit, err := s.habits.FindByID(ctx, habitID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrHabitNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if habit.UserID != userID {
		return nil, apperrors.ErrHabitNotFound
	}
	return habit, nil
}

// Get returns one of the user's habits.
func (s *HabitService) Get(ctx context.Context, userID, habitID primitive.ObjectID) (*models.Habit, error) {
	return s.owned(ctx, userID, habitID)
}

// Update applies a partial update to one of the user's habits.
func (s *HabitService) Update(ctx context.Context, userID, habitID primitive.ObjectID, update HabitUpdate) (*models.Habit, error) {
	habit, err := s.owned(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		habit.Name = *update.Name
	}
	if update.Frequency != nil {
		habit.Frequency = *update.Frequency
	}
	if update.TargetCount != nil && *update.TargetCount > 0 {
		habit.TargetCount = *update.TargetCount
	}
	if update.Description != nil {
		habit.Description = *update.Description
	}
	if update.Category != nil {
		habit.Category = *update.Category
	}
	if update.IsActive != nil {
		habit.IsActive = *update.IsActive
	}

	if err := s.habits.Update(ctx, habit); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return habit, nil
}

// Delete removes one of the user's habits together with its logs.
func (s *HabitService) Delete(ctx context.Context, userID, habitID primitive.ObjectID) error {
	habit, err := s.owned(ctx, userID, habitID)
	if err != nil {
		return err
	}
	if _, err := s.logs.DeleteByHabit(ctx, habit.ID, userID); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.habits.Delete(ctx, habit.ID); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Log records one completion of the habit on the given day and returns
// the day's log. Repeat calls on the same day increment the counter.
func (s *HabitService) Log(ctx context.Context, userID, habitID primitive.ObjectID, date time.Time, notes string) (*models.HabitLog, error) {
	habit, err := s.owned(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	day := timeutil.DateOf(date)
	if err := s.logs.LogCompletion(ctx, habit.ID, userID, day, notes); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	log, err := s.logs.FindByHabitAndDate(ctx, habit.ID, userID, day)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return log, nil
}
