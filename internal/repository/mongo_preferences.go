package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"achievo/internal/models"
)

type mongoPreferences struct {
	col *mongo.Collection
}

// NewMongoPreferences creates a Preferences repository backed by the
// user_preferences collection.
func NewMongoPreferences(db *mongo.Database) Preferences {
	return &mongoPreferences{col: db.Collection("user_preferences")}
}

func (r *mongoPreferences) FindByOwner(ctx context.Context, userID primitive.ObjectID) (*models.UserPreferences, error) {
	var prefs models.UserPreferences
	if err := r.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&prefs); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &prefs, nil
}

func (r *mongoPreferences) Insert(ctx context.Context, prefs *models.UserPreferences) error {
	res, err := r.col.InsertOne(ctx, prefs)
	if err != nil {
		return err
	}
	prefs.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoPreferences) Upsert(ctx context.Context, prefs *models.UserPreferences) error {
	update := bson.M{"$set": bson.M{
		"user_id":             prefs.UserID,
		"default_priority":    prefs.DefaultPriority,
		"default_category":    prefs.DefaultCategory,
		"date_format":         prefs.DateFormat,
		"theme":               prefs.Theme,
		"goals_per_page":      prefs.GoalsPerPage,
		"auto_archive":        prefs.AutoArchive,
		"show_animations":     prefs.ShowAnimations,
		"confirm_delete":      prefs.ConfirmDelete,
		"email_notifications": prefs.EmailNotifications,
		"due_date_reminders":  prefs.DueDateReminders,
		"weekly_summary":      prefs.WeeklySummary,
	}}
	_, err := r.col.UpdateOne(ctx, bson.M{"user_id": prefs.UserID}, update, options.Update().SetUpsert(true))
	return err
}

func (r *mongoPreferences) DeleteByOwner(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}
