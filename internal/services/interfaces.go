// Package services implements the application's business logic on top of
// the repository interfaces. Handlers depend on the *Servicer interfaces
// so they can be tested with mocks.
package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"achievo/internal/analytics"
	"achievo/internal/models"
	"achievo/internal/pagination"
	"achievo/internal/repository"
)

// GoalInput carries the writable goal fields.
type GoalInput struct {
	Text     string
	Priority models.GoalPriority
	Category string
	DueDate  *time.Time
}

// GoalUpdate carries a partial goal update; nil fields are left unchanged.
type GoalUpdate struct {
	Text      *string
	Priority  *models.GoalPriority
	Category  *string
	Completed *bool
	DueDate   *time.Time
	ClearDue  bool
}

// GoalStatsSummary backs the lightweight stats endpoint.
type GoalStatsSummary struct {
	Total          int64   `json:"total"`
	Completed      int64   `json:"completed"`
	Pending        int64   `json:"pending"`
	CompletionRate float64 `json:"completion_rate"`
}

// HabitInput carries the writable habit fields.
type HabitInput struct {
	Name        string
	Frequency   models.HabitFrequency
	TargetCount int
	Description string
	Category    string
}

// HabitUpdate carries a partial habit update; nil fields are left unchanged.
type HabitUpdate struct {
	Name        *string
	Frequency   *models.HabitFrequency
	TargetCount *int
	Description *string
	Category    *string
	IsActive    *bool
}

// HabitWithStats pairs a habit with its live progress figures for the
// habits list. CurrentStreak counts consecutive days the target was met.
type HabitWithStats struct {
	models.Habit
	CurrentStreak    int  `json:"current_streak"`
	CompletedToday   int  `json:"completed_today"`
	TargetMetToday   bool `json:"target_met_today"`
	TotalCompletions int  `json:"total_completions"`
}

// BillInput carries the writable bill fields.
type BillInput struct {
	BillType    models.BillType
	Amount      float64
	Consumption float64
	Unit        string
	Date        time.Time
	Notes       string
}

// BillTypeOverview summarizes one utility for the bills overview.
type BillTypeOverview struct {
	Recent             []models.UtilityBill `json:"recent"`
	MonthlyAmount      float64              `json:"monthly_amount"`
	MonthlyConsumption float64              `json:"monthly_consumption"`
}

// BillOverview is the bills landing payload: recent entries and
// current-month totals for the tracked utilities.
type BillOverview struct {
	Milk  BillTypeOverview `json:"milk"`
	Water BillTypeOverview `json:"water"`
}

// PreferencesInput carries a partial preferences update; nil fields are
// left unchanged.
type PreferencesInput struct {
	DefaultPriority    *models.GoalPriority
	DefaultCategory    *string
	DateFormat         *string
	Theme              *string
	GoalsPerPage       *int
	AutoArchive        *bool
	ShowAnimations     *bool
	ConfirmDelete      *bool
	EmailNotifications *bool
	DueDateReminders   *bool
	WeeklySummary      *bool
}

// UserServicer handles accounts, credentials and the delete cascade.
type UserServicer interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	SetRefreshTokenHash(ctx context.Context, userID primitive.ObjectID, hash string) error
	ClearRefreshToken(ctx context.Context, userID primitive.ObjectID) error
	VerifyRefreshHash(ctx context.Context, userID primitive.ObjectID, hash string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, username, email, profilePic string) (*models.User, error)
	ChangePassword(ctx context.Context, userID primitive.ObjectID, current, newPassword string) error
	ResolveGoogleUser(ctx context.Context, googleID, email, name, picture string) (*models.User, error)
	DeleteAccount(ctx context.Context, userID primitive.ObjectID, confirmation string) error
}

// GoalServicer handles goal CRUD, bulk actions and stats.
type GoalServicer interface {
	List(ctx context.Context, userID primitive.ObjectID, filter repository.GoalFilter, page pagination.PageRequest) (pagination.PageResponse[models.Goal], error)
	Categories(ctx context.Context, userID primitive.ObjectID) ([]string, error)
	Create(ctx context.Context, userID primitive.ObjectID, input GoalInput) (*models.Goal, error)
	Get(ctx context.Context, userID, goalID primitive.ObjectID) (*models.Goal, error)
	Update(ctx context.Context, userID, goalID primitive.ObjectID, update GoalUpdate) (*models.Goal, error)
	Toggle(ctx context.Context, userID, goalID primitive.ObjectID) (*models.Goal, error)
	Delete(ctx context.Context, userID, goalID primitive.ObjectID) error
	BulkAction(ctx context.Context, userID primitive.ObjectID, action string, ids []primitive.ObjectID) (int, error)
	DeleteAll(ctx context.Context, userID primitive.ObjectID) (int64, error)
	Stats(ctx context.Context, userID primitive.ObjectID) (GoalStatsSummary, error)
}

// HabitServicer handles habits and their per-day completion logs.
type HabitServicer interface {
	ListWithStats(ctx context.Context, userID primitive.ObjectID, now time.Time) ([]HabitWithStats, error)
	Create(ctx context.Context, userID primitive.ObjectID, input HabitInput) (*models.Habit, error)
	Get(ctx context.Context, userID, habitID primitive.ObjectID) (*models.Habit, error)
	Update(ctx context.Context, userID, habitID primitive.ObjectID, update HabitUpdate) (*models.Habit, error)
	Delete(ctx context.Context, userID, habitID primitive.ObjectID) error
	Log(ctx context.Context, userID, habitID primitive.ObjectID, date time.Time, notes string) (*models.HabitLog, error)
}

// BillServicer handles utility bills and the bills overview.
type BillServicer interface {
	Overview(ctx context.Context, userID primitive.ObjectID, now time.Time) (BillOverview, error)
	Create(ctx context.Context, userID primitive.ObjectID, input BillInput) (*models.UtilityBill, error)
	Get(ctx context.Context, userID, billID primitive.ObjectID) (*models.UtilityBill, error)
	Update(ctx context.Context, userID, billID primitive.ObjectID, input BillInput) (*models.UtilityBill, error)
	Delete(ctx context.Context, userID, billID primitive.ObjectID) error
	ListByType(ctx context.Context, userID primitive.ObjectID, billType models.BillType) ([]models.UtilityBill, error)
}

// AnalyticsServicer computes the full analytics payload.
type AnalyticsServicer interface {
	Overview(ctx context.Context, userID primitive.ObjectID, now time.Time) (analytics.Result, error)
}

// PreferencesServicer reads and writes user preferences.
type PreferencesServicer interface {
	Get(ctx context.Context, userID primitive.ObjectID) (*models.UserPreferences, error)
	Update(ctx context.Context, userID primitive.ObjectID, input PreferencesInput) (*models.UserPreferences, error)
}

// ReportServicer renders the PDF exports.
type ReportServicer interface {
	AccountExport(ctx context.Context, userID primitive.ObjectID) ([]byte, string, error)
	BillsExport(ctx context.Context, userID primitive.ObjectID, billType models.BillType) ([]byte, string, error)
}
