package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GoalPriority represents the priority of a goal
type GoalPriority string

const (
	PriorityLow    GoalPriority = "low"
	PriorityMedium GoalPriority = "medium"
	PriorityHigh   GoalPriority = "high"
)

// Goal represents a document in the goals collection. DueDate is a
// day-precision field stored as a UTC-midnight instant; UpdatedAt is a
// real instant and drives the completion analytics.
type Goal struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Text      string             `bson:"text" json:"text"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Completed bool               `bson:"completed" json:"completed"`
	Priority  GoalPriority       `bson:"priority" json:"priority"`
	Category  string             `bson:"category" json:"category"`
	DueDate   *time.Time         `bson:"due_date,omitempty" json:"due_date,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
