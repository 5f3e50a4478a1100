package services

import (
	"context"
	"testing"

	apperrors "achievo/internal/errors"
	"achievo/internal/models"
	"achievo/internal/testutil"
)

func newUserService() (*UserService, *testutil.MemoryUsers, *testutil.MemoryGoals, *testutil.MemoryHabits, *testutil.MemoryHabitLogs, *testutil.MemoryBills, *testutil.MemoryPreferences) {
	users := testutil.NewMemoryUsers()
	goals := testutil.NewMemoryGoals()
	habits := testutil.NewMemoryHabits()
	logs := testutil.NewMemoryHabitLogs()
	bills := testutil.NewMemoryBills()
	prefs := testutil.NewMemoryPreferences()
	svc := NewUserService(users, goals, habits, logs, bills, prefs)
	return svc, users, goals, habits, logs, bills, prefs
}

func TestRegister(t *testing.T) {
	svc, _, _, _, _, _, _ := newUserService()
	ctx := context.Background()

	t.Run("creates account", func(t *testing.T) {
		user, err := svc.Register(ctx, "alice", "alice@example.com", "password123")
		testutil.AssertNoError(t, err)
		if user.ID.IsZero() {
			t.Fatal("expected an id to be assigned")
		}
		if !user.HasLocalPassword() {
			t.Fatal("expected a local password hash")
		}
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		_, err := svc.Register(ctx, "alice", "other@example.com", "password123")
		testutil.AssertAppError(t, err, apperrors.ErrDuplicateUsername.Code)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, "alice2", "alice@example.com", "password123")
		testutil.AssertAppError(t, err, apperrors.ErrDuplicateEmail.Code)
	})
}

func TestAuthenticate(t *testing.T) {
	svc, users, _, _, _, _, _ := newUserService()
	ctx := context.Background()

	user := testutil.CreateTestUser(t, users)

	t.Run("valid credentials", func(t *testing.T) {
		got, err := svc.Authenticate(ctx, user.Username, testutil.TestPassword)
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, got.ID, user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, user.Username, "wrong")
		testutil.AssertAppError(t, err, apperrors.ErrInvalidCredentials.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "nobody", "whatever")
		testutil.AssertAppError(t, err, apperrors.ErrInvalidCredentials.Code)
	})
}

func TestAuthenticateLockout(t *testing.T) {
	svc, users, _, _, _, _, _ := newUserService()
	ctx := context.Background()

	user := testutil.CreateTestUser(t, users)

	for i := 0; i < 5; i++ {
		_, err := svc.Authenticate(ctx, user.Username, "wrong")
		testutil.AssertAppError(t, err, apperrors.ErrInvalidCredentials.Code)
	}

	// Even the correct password is rejected while locked
	_, err := svc.Authenticate(ctx, user.Username, testutil.TestPassword)
	testutil.AssertAppError(t, err, apperrors.ErrAccountLocked.Code)
}

func TestAuthenticateResetsFailureCount(t *testing.T) {
	svc, users, _, _, _, _, _ := newUserService()
	ctx := context.Background()

	user := testutil.CreateTestUser(t, users)

	for i := 0; i < 4; i++ {
		svc.Authenticate(ctx, user.Username, "wrong")
	}
	_, err := svc.Authenticate(ctx, user.Username, testutil.TestPassword)
	testutil.AssertNoError(t, err)

	stored, err := users.FindByID(ctx, user.ID)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, stored.FailedLoginAttempts, 0)
}

func TestRefreshTokenLifecycle(t *testing.T) {
	svc, users, _, _, _, _, _ := newUserService()
	ctx := context.Background()

	user := testutil.CreateTestUser(t, users)

	testutil.AssertNoError(t, svc.SetRefreshTokenHash(ctx, user.ID, "hash-1"))

	got, err := svc.VerifyRefreshHash(ctx, user.ID, "hash-1")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got.ID, user.ID)

	_, err = svc.VerifyRefreshHash(ctx, user.ID, "hash-2")
	testutil.AssertAppError(t, err, apperrors.ErrUnauthorized.Code)

	testutil.AssertNoError(t, svc.ClearRefreshToken(ctx, user.ID))
	_, err = svc.VerifyRefreshHash(ctx, user.ID, "hash-1")
	testutil.AssertAppError(t, err, apperrors.ErrUnauthorized.Code)
}

func TestUpdateProfile(t *testing.T) {
	svc, users, _, _, _, _, _ := newUserService()
	ctx := context.Background()

	user := testutil.CreateTestUser(t, users)
	other := testutil.CreateTestUser(t, users)

	t.Run("changes username", func(t *testing.T) {
		updated, err := svc.UpdateProfile(ctx, user.ID, "newname", "", "")
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, updated.Username, "newname")
		testutil.AssertEqual(t, updated.Email, user.Email)
	})

	t.Run("rejects username held by another user", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, user.ID, other.Username, "", "")
		testutil.AssertAppError(t, err, apperrors.ErrDuplicateUsername.Code)
	})

	t.Run("keeping own email is not a conflict", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, user.ID, "", user.Email, "")
		testutil.AssertNoError(t, err)
	})
}

func TestChangePassword(t *testing.T) {
	svc, users, _, _, _, _, _ := newUserService()
	ctx := context.Background()

	user := testutil.CreateTestUser(t, users)

	t.Run("wrong current password", func(t *testing.T) {
		err := svc.ChangePassword(ctx, user.ID, "wrong", "newpassword1")
		testutil.AssertAppError(t, err, apperrors.ErrInvalidCredentials.Code)
	})

	t.Run("changes password", func(t *testing.T) {
		testutil.AssertNoError(t, svc.ChangePassword(ctx, user.ID, testutil.TestPassword, "newpassword1"))
		_, err := svc.Authenticate(ctx, user.Username, "newpassword1")
		testutil.AssertNoError(t, err)
	})

	t.Run("google-only accounts have no password", func(t *testing.T) {
		guser, err := svc.ResolveGoogleUser(ctx, "g-1", "g1@example.com", "G One", "")
		testutil.AssertNoError(t, err)
		err = svc.ChangePassword(ctx, guser.ID, "anything", "newpassword1")
		testutil.AssertAppError(t, err, apperrors.ErrPasswordManaged.Code)
	})
}

func TestResolveGoogleUser(t *testing.T) {
	svc, users, _, _, _, _, _ := newUserService()
	ctx := context.Background()

	t.Run("creates account from profile", func(t *testing.T) {
		user, err := svc.ResolveGoogleUser(ctx, "gid-1", "jane@example.com", "Jane Doe", "http://pic")
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, user.Username, "janedoe")
		testutil.AssertEqual(t, user.GoogleID, "gid-1")
	})

	t.Run("repeat login finds the same account", func(t *testing.T) {
		first, err := svc.ResolveGoogleUser(ctx, "gid-1", "jane@example.com", "Jane Doe", "http://pic")
		testutil.AssertNoError(t, err)
		second, err := svc.ResolveGoogleUser(ctx, "gid-1", "jane@example.com", "Jane Doe", "http://pic")
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, first.ID, second.ID)
	})

	t.Run("collision appends numeric suffix", func(t *testing.T) {
		user, err := svc.ResolveGoogleUser(ctx, "gid-2", "jane2@example.com", "Jane Doe", "")
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, user.Username, "janedoe_1")

		user, err = svc.ResolveGoogleUser(ctx, "gid-3", "jane3@example.com", "Jane Doe", "")
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, user.Username, "janedoe_2")
	})

	t.Run("matching email links the google id", func(t *testing.T) {
		local := testutil.CreateTestUser(t, users)
		user, err := svc.ResolveGoogleUser(ctx, "gid-4", local.Email, "Some Name", "")
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, user.ID, local.ID)
		testutil.AssertEqual(t, user.GoogleID, "gid-4")
	})
}

func TestDeleteAccount(t *testing.T) {
	svc, users, goals, habits, logs, bills, prefs := newUserService()
	ctx := context.Background()

	user := testutil.CreateTestUser(t, users)
	keeper := testutil.CreateTestUser(t, users)

	testutil.CreateTestGoal(t, goals, user.ID)
	habit := testutil.CreateTestHabit(t, habits, user.ID)
	testutil.AssertNoError(t, logs.LogCompletion(ctx, habit.ID, user.ID, habit.CreatedAt, ""))
	testutil.CreateTestBill(t, bills, user.ID, "milk", 0)
	testutil.AssertNoError(t, prefs.Insert(ctx, models.DefaultPreferences(user.ID)))

	keeperGoal := testutil.CreateTestGoal(t, goals, keeper.ID)

	t.Run("requires confirmation", func(t *testing.T) {
		err := svc.DeleteAccount(ctx, user.ID, "yes please")
		testutil.AssertAppError(t, err, apperrors.ErrConfirmRequired.Code)
	})

	t.Run("cascades through owned data", func(t *testing.T) {
		testutil.AssertNoError(t, svc.DeleteAccount(ctx, user.ID, "delete"))

		_, err := users.FindByID(ctx, user.ID)
		testutil.AssertError(t, err)

		remaining, err := goals.ListAll(ctx, user.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, len(remaining), 0)

		userLogs, err := logs.ListByHabit(ctx, habit.ID, user.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, len(userLogs), 0)

		// Other users' data is untouched
		kept, err := goals.FindByID(ctx, keeperGoal.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, kept.UserID, keeper.ID)

		_, err = prefs.FindByOwner(ctx, user.ID)
		testutil.AssertError(t, err)
	})
}
