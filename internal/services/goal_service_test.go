package services

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "achievo/internal/errors"
	"achievo/internal/models"
	"achievo/internal/pagination"
	"achievo/internal/repository"
	"achievo/internal/testutil"
)

func newGoalService() (*GoalService, *testutil.MemoryGoals, *testutil.MemoryUsers) {
	goals := testutil.NewMemoryGoals()
	users := testutil.NewMemoryUsers()
	return NewGoalService(goals), goals, users
}

func TestGoalCreateDefaults(t *testing.T) {
	svc, _, users := newGoalService()
	ctx := context.Background()
	user := testutil.CreateTestUser(t, users)

	goal, err := svc.Create(ctx, user.ID, GoalInput{Text: "read a book"})
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, goal.Priority, models.PriorityMedium)
	testutil.AssertEqual(t, goal.Category, "general")
	testutil.AssertEqual(t, goal.Completed, false)
}

func TestGoalOwnership(t *testing.T) {
	svc, goals, users := newGoalService()
	ctx := context.Background()

	owner := testutil.CreateTestUser(t, users)
	intruder := testutil.CreateTestUser(t, users)
	goal := testutil.CreateTestGoal(t, goals, owner.ID)

	t.Run("owner can read", func(t *testing.T) {
		got, err := svc.Get(ctx, owner.ID, goal.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, got.ID, goal.ID)
	})

	// A foreign goal is indistinguishable from a missing one
	t.Run("foreign goal reads as not found", func(t *testing.T) {
		_, err := svc.Get(ctx, intruder.ID, goal.ID)
		testutil.AssertAppError(t, err, apperrors.ErrGoalNotFound.Code)
	})

	t.Run("foreign goal cannot be updated", func(t *testing.T) {
		text := "hijacked"
		_, err := svc.Update(ctx, intruder.ID, goal.ID, GoalUpdate{Text: &text})
		testutil.AssertAppError(t, err, apperrors.ErrGoalNotFound.Code)

		stored, err := goals.FindByID(ctx, goal.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, stored.Text, goal.Text)
	})

	t.Run("foreign goal cannot be deleted", func(t *testing.T) {
		err := svc.Delete(ctx, intruder.ID, goal.ID)
		testutil.AssertAppError(t, err, apperrors.ErrGoalNotFound.Code)
	})
}

func TestGoalToggle(t *testing.T) {
	svc, goals, users := newGoalService()
	ctx := context.Background()
	user := testutil.CreateTestUser(t, users)
	goal := testutil.CreateTestGoal(t, goals, user.ID)

	toggled, err := svc.Toggle(ctx, user.ID, goal.ID)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, toggled.Completed, true)

	toggled, err = svc.Toggle(ctx, user.ID, goal.ID)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, toggled.Completed, false)
}

func TestGoalUpdateClearsDueDate(t *testing.T) {
	svc, _, users := newGoalService()
	ctx := context.Background()
	user := testutil.CreateTestUser(t, users)

	due := timeDate(2026, 9, 15)
	goal, err := svc.Create(ctx, user.ID, GoalInput{Text: "with due", DueDate: &due})
	testutil.AssertNoError(t, err)
	if goal.DueDate == nil {
		t.Fatal("expected a due date")
	}

	updated, err := svc.Update(ctx, user.ID, goal.ID, GoalUpdate{ClearDue: true})
	testutil.AssertNoError(t, err)
	if updated.DueDate != nil {
		t.Fatal("expected due date to be cleared")
	}
}

func TestGoalBulkAction(t *testing.T) {
	svc, goals, users := newGoalService()
	ctx := context.Background()

	owner := testutil.CreateTestUser(t, users)
	other := testutil.CreateTestUser(t, users)

	g1 := testutil.CreateTestGoal(t, goals, owner.ID)
	g2 := testutil.CreateTestGoal(t, goals, owner.ID)
	foreign := testutil.CreateTestGoal(t, goals, other.ID)

	t.Run("skips foreign and unknown ids", func(t *testing.T) {
		affected, err := svc.BulkAction(ctx, owner.ID, "complete",
			[]primitive.ObjectID{g1.ID, g2.ID, foreign.ID, primitive.NewObjectID()})
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, affected, 2)

		stored, err := goals.FindByID(ctx, foreign.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, stored.Completed, false)
	})

	t.Run("rejects unknown action", func(t *testing.T) {
		_, err := svc.BulkAction(ctx, owner.ID, "archive", []primitive.ObjectID{g1.ID})
		testutil.AssertAppError(t, err, apperrors.ErrInvalidInput.Code)
	})

	t.Run("bulk delete", func(t *testing.T) {
		affected, err := svc.BulkAction(ctx, owner.ID, "delete", []primitive.ObjectID{g1.ID, g2.ID})
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, affected, 2)
	})
}

func TestGoalListFilters(t *testing.T) {
	svc, goals, users := newGoalService()
	ctx := context.Background()
	user := testutil.CreateTestUser(t, users)

	mk := func(text string, priority models.GoalPriority, completed bool) {
		g := &models.Goal{Text: text, UserID: user.ID, Priority: priority, Category: "general", Completed: completed}
		testutil.AssertNoError(t, goals.Insert(ctx, g))
	}
	mk("buy milk", models.PriorityHigh, false)
	mk("run a marathon", models.PriorityHigh, true)
	mk("read MILK and honey", models.PriorityLow, false)

	t.Run("by priority", func(t *testing.T) {
		page, err := svc.List(ctx, user.ID, repository.GoalFilter{Priority: models.PriorityHigh}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, page.TotalItems, int64(2))
	})

	t.Run("by status", func(t *testing.T) {
		page, err := svc.List(ctx, user.ID, repository.GoalFilter{Status: "pending"}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, page.TotalItems, int64(2))
	})

	t.Run("search is case-insensitive", func(t *testing.T) {
		page, err := svc.List(ctx, user.ID, repository.GoalFilter{Search: "milk"}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, page.TotalItems, int64(2))
	})

	t.Run("pagination caps the page", func(t *testing.T) {
		page, err := svc.List(ctx, user.ID, repository.GoalFilter{}, pagination.PageRequest{Page: 1, PageSize: 2})
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, len(page.Data), 2)
		testutil.AssertEqual(t, page.TotalItems, int64(3))
		testutil.AssertEqual(t, page.TotalPages, 2)
	})
}

func TestGoalStats(t *testing.T) {
	svc, goals, users := newGoalService()
	ctx := context.Background()
	user := testutil.CreateTestUser(t, users)

	for i := 0; i < 4; i++ {
		g := testutil.CreateTestGoal(t, goals, user.ID)
		if i < 3 {
			g.Completed = true
			testutil.AssertNoError(t, goals.Update(ctx, g))
		}
	}

	stats, err := svc.Stats(ctx, user.ID)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, stats.Total, int64(4))
	testutil.AssertEqual(t, stats.Completed, int64(3))
	testutil.AssertEqual(t, stats.Pending, int64(1))
	testutil.AssertEqual(t, stats.CompletionRate, 75.0)
}

func TestGoalDeleteAll(t *testing.T) {
	svc, goals, users := newGoalService()
	ctx := context.Background()

	user := testutil.CreateTestUser(t, users)
	other := testutil.CreateTestUser(t, users)

	testutil.CreateTestGoal(t, goals, user.ID)
	testutil.CreateTestGoal(t, goals, user.ID)
	kept := testutil.CreateTestGoal(t, goals, other.ID)

	n, err := svc.DeleteAll(ctx, user.ID)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, n, int64(2))

	_, err = goals.FindByID(ctx, kept.ID)
	testutil.AssertNoError(t, err)
}
