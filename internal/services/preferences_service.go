package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "achievo/internal/errors"
	"achievo/internal/models"
	"achievo/internal/repository"
)

// PreferencesService implements PreferencesServicer. The preference
// document is created lazily with defaults on first read.
type PreferencesService struct {
	prefs repository.Preferences
}

// NewPreferencesService creates a PreferencesService.
func NewPreferencesService(prefs repository.Preferences) *PreferencesService {
	return &PreferencesService{prefs: prefs}
}

// Get returns the user's preferences, creating the default document if
// none exists yet.
func (s *PreferencesService) Get(ctx context.Context, userID primitive.ObjectID) (*models.UserPreferences, error) {
	prefs, err := s.prefs.FindByOwner(ctx, userID)
	if err == nil {
		return prefs, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	prefs = models.DefaultPreferences(userID)
	if err := s.prefs.Insert(ctx, prefs); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return prefs, nil
}

// Update applies a partial preferences update, creating the document
// from defaults first if needed.
func (s *PreferencesService) Update(ctx context.Context, userID primitive.ObjectID, input PreferencesInput) (*models.UserPreferences, error) {
	prefs, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.DefaultPriority != nil {
		prefs.DefaultPriority = *input.DefaultPriority
	}
	if input.DefaultCategory != nil {
		prefs.DefaultCategory = *input.DefaultCategory
	}
	if input.DateFormat != nil {
		prefs.DateFormat = *input.DateFormat
	}
	if input.Theme != nil {
		prefs.Theme = *input.Theme
	}
	if input.GoalsPerPage != nil && *input.GoalsPerPage > 0 {
		prefs.GoalsPerPage = *input.GoalsPerPage
	}
	if input.AutoArchive != nil {
		prefs.AutoArchive = *input.AutoArchive
	}
	if input.ShowAnimations != nil {
		prefs.ShowAnimations = *input.ShowAnimations
	}
	if input.ConfirmDelete != nil {
		prefs.ConfirmDelete = *input.ConfirmDelete
	}
	if input.EmailNotifications != nil {
		prefs.EmailNotifications = *input.EmailNotifications
	}
	if input.DueDateReminders != nil {
		prefs.DueDateReminders = *input.DueDateReminders
	}
	if input.WeeklySummary != nil {
		prefs.WeeklySummary = *input.WeeklySummary
	}

	if err := s.prefs.Upsert(ctx, prefs); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return prefs, nil
}
