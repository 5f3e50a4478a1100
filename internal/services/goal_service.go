package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "achievo/internal/errors"
	"achievo/internal/models"
	"achievo/internal/pagination"
	"achievo/internal/repository"
)

// GoalService implements GoalServicer.
type GoalService struct {
	goals repository.Goals
}

// NewGoalService creates a GoalService.
func NewGoalService(goals repository.Goals) *GoalService {
	return &GoalService{goals: goals}
}

// List returns one page of the user's goals, newest first.
func (s *GoalService) List(ctx context.Context, userID primitive.ObjectID, filter repository.GoalFilter, page pagination.PageRequest) (pagination.PageResponse[models.Goal], error) {
	page.Defaults()
	goals, total, err := s.goals.List(ctx, userID, filter, page)
	if err != nil {
		return pagination.PageResponse[models.Goal]{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return pagination.NewPageResponse(goals, page.Page, page.PageSize, total), nil
}

// Categories returns the user's distinct goal categories.
func (s *GoalService) Categories(ctx context.Context, userID primitive.ObjectID) ([]string, error) {
	cats, err := s.goals.DistinctCategories(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if cats == nil {
		cats = []string{}
	}
	return cats, nil
}

// Create inserts a new pending goal for the user.
func (s *GoalService) Create(ctx context.Context, userID primitive.ObjectID, input GoalInput) (*models.Goal, error) {
	goal := &models.Goal{
		Text:     input.Text,
		UserID:   userID,
		Priority: input.Priority,
		Category: input.Category,
		DueDate:  input.DueDate,
	}
	if goal.Priority == "" {
		goal.Priority = models.PriorityMedium
	}
	if goal.Category == "" {
		goal.Category = "general"
	}
	if err := s.goals.Insert(ctx, goal); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goal, nil
}

// owned fetches a goal and checks ownership. A goal belonging to
// another user is reported as not found.
func (s *GoalService) owned(ctx context.Context, userID, goalID primitive.ObjectID) (*models.Goal, error) {
	goal, err := s.goals.FindByID(ctx, goalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if goal.UserID != userID {
		return nil, apperrors.ErrGoalNotFound
	}
	return goal, nil
}

// Get returns one of the user's goals.
func (s *GoalService) Get(ctx context.Context, userID, goalID primitive.ObjectID) (*models.Goal, error) {
	return s.owned(ctx, userID, goalID)
}

// Update applies a partial update to one of the user's goals.
func (s *GoalService) Update(ctx context.Context, userID, goalID primitive.ObjectID, update GoalUpdate) (*models.Goal, error) {
	goal, err := s.owned(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	if update.Text != nil {
		goal.Text = *update.Text
	}
	if update.Priority != nil {
		goal.Priority = *update.Priority
	}
	if update.Category != nil {
		goal.Category = *update.Category
	}
	if update.Completed != nil {
		goal.Completed = *update.Completed
	}
	if update.ClearDue {
		goal.DueDate = nil
	} else if update.DueDate != nil {
		goal.DueDate = update.DueDate
	}

	if err := s.goals.Update(ctx, goal); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goal, nil
}

// Toggle flips a goal's completed flag.
func (s *GoalService) Toggle(ctx context.Context, userID, goalID primitive.ObjectID) (*models.Goal, error) {
	goal, err := s.owned(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	goal.Completed = !goal.Completed
	if err := s.goals.Update(ctx, goal); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goal, nil
}

// Delete removes one of the user's goals.
func (s *GoalService) Delete(ctx context.Context, userID, goalID primitive.ObjectID) error {
	goal, err := s.owned(ctx, userID, goalID)
	if err != nil {
		return err
	}
	if err := s.goals.Delete(ctx, goal.ID); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// BulkAction applies "complete", "uncomplete" or "delete" to the given
// ids. Ids that do not exist or belong to another user are skipped, not
// failed; the returned count covers the goals actually affected.
func (s *GoalService) BulkAction(ctx context.Context, userID primitive.ObjectID, action string, ids []primitive.ObjectID) (int, error) {
	if action != "complete" && action != "uncomplete" && action != "delete" {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Unknown bulk action")
	}

	affected := 0
	for _, id := range ids {
		goal, err := s.owned(ctx, userID, id)
		if err != nil {
			var appErr *apperrors.AppError
			if errors.As(err, &appErr) && appErr.Code == apperrors.ErrGoalNotFound.Code {
				continue
			}
			return affected, err
		}

		switch action {
		case "complete":
			goal.Completed = true
			err = s.goals.Update(ctx, goal)
		case "uncomplete":
			goal.Completed = false
			err = s.goals.Update(ctx, goal)
		case "delete":
			err = s.goals.Delete(ctx, goal.ID)
		}
		if err != nil {
			return affected, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		affected++
	}
	return affected, nil
}

// DeleteAll removes every goal the user owns and returns the count.
func (s *GoalService) DeleteAll(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	n, err := s.goals.DeleteByOwner(ctx, userID)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return n, nil
}

// Stats returns the total/completed/pending counts and completion rate.
func (s *GoalService) Stats(ctx context.Context, userID primitive.ObjectID) (GoalStatsSummary, error) {
	counts, err := s.goals.Counts(ctx, userID)
	if err != nil {
		return GoalStatsSummary{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	summary := GoalStatsSummary{
		Total:     counts.Total,
		Completed: counts.Completed,
		Pending:   counts.Total - counts.Completed,
	}
	if counts.Total > 0 {
		summary.CompletionRate = float64(counts.Completed) / float64(counts.Total) * 100
	}
	return summary, nil
}
