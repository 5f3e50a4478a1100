package services

import (
	"context"
	"testing"

	"achievo/internal/models"
	"achievo/internal/testutil"
)

func TestPreferencesLazyCreate(t *testing.T) {
	prefsRepo := testutil.NewMemoryPreferences()
	users := testutil.NewMemoryUsers()
	svc := NewPreferencesService(prefsRepo)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, users)

	prefs, err := svc.Get(ctx, user.ID)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, prefs.DefaultPriority, models.PriorityMedium)
	testutil.AssertEqual(t, prefs.Theme, "light")
	testutil.AssertEqual(t, prefs.GoalsPerPage, 20)

	// Second read returns the stored document, not a new one
	again, err := svc.Get(ctx, user.ID)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, again.ID, prefs.ID)
}

func TestPreferencesPartialUpdate(t *testing.T) {
	prefsRepo := testutil.NewMemoryPreferences()
	users := testutil.NewMemoryUsers()
	svc := NewPreferencesService(prefsRepo)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, users)

	theme := "dark"
	perPage := 50
	updated, err := svc.Update(ctx, user.ID, PreferencesInput{Theme: &theme, GoalsPerPage: &perPage})
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, updated.Theme, "dark")
	testutil.AssertEqual(t, updated.GoalsPerPage, 50)

	// Untouched fields keep their defaults
	testutil.AssertEqual(t, updated.DefaultCategory, "general")
	testutil.AssertEqual(t, updated.ConfirmDelete, true)
}
