package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HabitFrequency represents how often a habit is meant to be performed
type HabitFrequency string

const (
	FrequencyDaily   HabitFrequency = "daily"
	FrequencyWeekly  HabitFrequency = "weekly"
	FrequencyMonthly HabitFrequency = "monthly"
)

// Habit represents a document in the habits collection.
type Habit struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	Frequency   HabitFrequency     `bson:"frequency" json:"frequency"`
	TargetCount int                `bson:"target_count" json:"target_count"`
	Description string             `bson:"description,omitempty" json:"description"`
	Category    string             `bson:"category" json:"category"`
	IsActive    bool               `bson:"is_active" json:"is_active"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// HabitLog aggregates all completions of one habit on one calendar day;
// the (habit_id, date) pair is unique and repeat logs increment
// CompletedCount. Date is stored as a UTC-midnight instant.
//
// Completed is a legacy flag read by the analytics streak but never
// written by the log operation; it stays distinct from the
// CompletedCount >= TargetCount check used on the habits list.
type HabitLog struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	HabitID        primitive.ObjectID `bson:"habit_id" json:"habit_id"`
	UserID         primitive.ObjectID `bson:"user_id" json:"user_id"`
	CompletedCount int                `bson:"completed_count" json:"completed_count"`
	Completed      bool               `bson:"completed" json:"completed"`
	Notes          string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Date           time.Time          `bson:"date" json:"date"`
}
