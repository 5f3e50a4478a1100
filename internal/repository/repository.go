// Package repository defines per-entity persistence contracts and their
// MongoDB implementations. Services depend only on the interfaces so the
// store can be swapped or backed by in-memory fakes in tests.
package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"achievo/internal/models"
	"achievo/internal/pagination"
)

// ErrNotFound is returned when a document does not exist. Services map it
// to the entity-specific AppError sentinel.
var ErrNotFound = errors.New("document not found")

// GoalFilter holds optional filters for listing a user's goals.
// Zero values mean "no constraint".
type GoalFilter struct {
	Category string
	Priority models.GoalPriority
	Status   string // "completed" or "pending"
	Search   string // case-insensitive substring of the goal text
}

// GoalCounts holds the aggregate counts behind the stats endpoint.
type GoalCounts struct {
	Total     int64
	Completed int64
}

// Users persists user documents.
type Users interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	// TakenByOther reports whether another user already holds the given
	// username or email; used by profile updates.
	UsernameTakenByOther(ctx context.Context, username string, self primitive.ObjectID) (bool, error)
	EmailTakenByOther(ctx context.Context, email string, self primitive.ObjectID) (bool, error)
	Insert(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Goals persists goal documents.
type Goals interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Goal, error)
	// List returns one page of the user's goals, newest first, plus the
	// total number of matches.
	List(ctx context.Context, userID primitive.ObjectID, filter GoalFilter, page pagination.PageRequest) ([]models.Goal, int64, error)
	// ListAll returns every goal the user owns; the analytics fold and
	// the report exporter consume it.
	ListAll(ctx context.Context, userID primitive.ObjectID) ([]models.Goal, error)
	DistinctCategories(ctx context.Context, userID primitive.ObjectID) ([]string, error)
	Counts(ctx context.Context, userID primitive.ObjectID) (GoalCounts, error)
	Insert(ctx context.Context, goal *models.Goal) error
	Update(ctx context.Context, goal *models.Goal) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByOwner(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

// Habits persists habit documents.
type Habits interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Habit, error)
	ListActiveByOwner(ctx context.Context, userID primitive.ObjectID) ([]models.Habit, error)
	ListByOwner(ctx context.Context, userID primitive.ObjectID) ([]models.Habit, error)
	Insert(ctx context.Context, habit *models.Habit) error
	Update(ctx context.Context, habit *models.Habit) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByOwner(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

// HabitLogs persists per-day habit completion documents.
type HabitLogs interface {
	FindByHabitAndDate(ctx context.Context, habitID, userID primitive.ObjectID, date time.Time) (*models.HabitLog, error)
	// LogCompletion records one completion of the habit on the given
	// storage-form date: the first call of a day inserts a document with
	// completed_count=1, repeat calls increment the counter. The unique
	// (habit_id, date) index guarantees a single row per day even under
	// concurrent calls.
	LogCompletion(ctx context.Context, habitID, userID primitive.ObjectID, date time.Time, notes string) error
	ListByHabit(ctx context.Context, habitID, userID primitive.ObjectID) ([]models.HabitLog, error)
	DeleteByHabit(ctx context.Context, habitID, userID primitive.ObjectID) (int64, error)
	DeleteByOwner(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

// BillTotals aggregates amount and consumption over a set of bills.
type BillTotals struct {
	Amount      float64
	Consumption float64
}

// Bills persists utility bill documents.
type Bills interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.UtilityBill, error)
	// ListByType returns the user's bills of one type ordered by date.
	// limit <= 0 returns all of them.
	ListByType(ctx context.Context, userID primitive.ObjectID, billType models.BillType, newestFirst bool, limit int64) ([]models.UtilityBill, error)
	// MonthlyTotals sums amount and consumption over bills of one type
	// dated on or after monthStart.
	MonthlyTotals(ctx context.Context, userID primitive.ObjectID, billType models.BillType, monthStart time.Time) (BillTotals, error)
	Insert(ctx context.Context, bill *models.UtilityBill) error
	Update(ctx context.Context, bill *models.UtilityBill) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByOwner(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

// Preferences persists the 1:1 user preference documents.
type Preferences interface {
	FindByOwner(ctx context.Context, userID primitive.ObjectID) (*models.UserPreferences, error)
	Insert(ctx context.Context, prefs *models.UserPreferences) error
	Upsert(ctx context.Context, prefs *models.UserPreferences) error
	DeleteByOwner(ctx context.Context, userID primitive.ObjectID) error
}
