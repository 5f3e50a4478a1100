package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"achievo/internal/models"
	"achievo/internal/timeutil"
)

var fixtureCounter atomic.Int64

// TestPassword is the plaintext password behind every fixture user.
const TestPassword = "password123"

// CreateTestUser inserts a user with a unique username/email and a
// bcrypt hash of TestPassword.
func CreateTestUser(t *testing.T, users *MemoryUsers) *models.User {
	t.Helper()
	n := fixtureCounter.Add(1)
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	AssertNoError(t, err)
	user := &models.User{
		Username:     fmt.Sprintf("testuser%d", n),
		Email:        fmt.Sprintf("testuser%d@example.com", n),
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	AssertNoError(t, users.Insert(context.Background(), user))
	return user
}

// CreateTestGoal inserts a pending medium-priority goal for the user.
func CreateTestGoal(t *testing.T, goals *MemoryGoals, userID primitive.ObjectID) *models.Goal {
	t.Helper()
	n := fixtureCounter.Add(1)
	goal := &models.Goal{
		Text:     fmt.Sprintf("test goal %d", n),
		UserID:   userID,
		Priority: models.PriorityMedium,
		Category: "general",
	}
	AssertNoError(t, goals.Insert(context.Background(), goal))
	return goal
}

// CreateTestHabit inserts an active daily habit for the user.
func CreateTestHabit(t *testing.T, habits *MemoryHabits, userID primitive.ObjectID) *models.Habit {
	t.Helper()
	n := fixtureCounter.Add(1)
	habit := &models.Habit{
		Name:        fmt.Sprintf("test habit %d", n),
		UserID:      userID,
		Frequency:   models.FrequencyDaily,
		TargetCount: 1,
		Category:    "health",
		IsActive:    true,
	}
	AssertNoError(t, habits.Insert(context.Background(), habit))
	return habit
}

// CreateTestBill inserts a milk bill dated the given number of days ago.
func CreateTestBill(t *testing.T, bills *MemoryBills, userID primitive.ObjectID, billType models.BillType, daysAgo int) *models.UtilityBill {
	t.Helper()
	bill := &models.UtilityBill{
		BillType:    billType,
		UserID:      userID,
		Amount:      60,
		Consumption: 1.5,
		Unit:        "liters",
		Date:        timeutil.DateOf(time.Now().AddDate(0, 0, -daysAgo)),
	}
	AssertNoError(t, bills.Insert(context.Background(), bill))
	return bill
}
