package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// UserPreferences holds per-user display and behavior options, one
// document per user, created lazily on first read.
type UserPreferences struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID             primitive.ObjectID `bson:"user_id" json:"-"`
	DefaultPriority    GoalPriority       `bson:"default_priority" json:"default_priority"`
	DefaultCategory    string             `bson:"default_category" json:"default_category"`
	DateFormat         string             `bson:"date_format" json:"date_format"`
	Theme              string             `bson:"theme" json:"theme"`
	GoalsPerPage       int                `bson:"goals_per_page" json:"goals_per_page"`
	AutoArchive        bool               `bson:"auto_archive" json:"auto_archive"`
	ShowAnimations     bool               `bson:"show_animations" json:"show_animations"`
	ConfirmDelete      bool               `bson:"confirm_delete" json:"confirm_delete"`
	EmailNotifications bool               `bson:"email_notifications" json:"email_notifications"`
	DueDateReminders   bool               `bson:"due_date_reminders" json:"due_date_reminders"`
	WeeklySummary      bool               `bson:"weekly_summary" json:"weekly_summary"`
}

// DefaultPreferences returns the preference document created on first
// settings view.
func DefaultPreferences(userID primitive.ObjectID) *UserPreferences {
	return &UserPreferences{
		UserID:             userID,
		DefaultPriority:    PriorityMedium,
		DefaultCategory:    "general",
		DateFormat:         "MM/DD/YYYY",
		Theme:              "light",
		GoalsPerPage:       20,
		AutoArchive:        false,
		ShowAnimations:     true,
		ConfirmDelete:      true,
		EmailNotifications: true,
		DueDateReminders:   true,
		WeeklySummary:      false,
	}
}
