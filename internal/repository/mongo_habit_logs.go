package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"achievo/internal/models"
)

type mongoHabitLogs struct {
	col *mongo.Collection
}

// NewMongoHabitLogs creates a HabitLogs repository backed by the
// habit_logs collection.
func NewMongoHabitLogs(db *mongo.Database) HabitLogs {
	return &mongoHabitLogs{col: db.Collection("habit_logs")}
}

func (r *mongoHabitLogs) FindByHabitAndDate(ctx context.Context, habitID, userID primitive.ObjectID, date time.Time) (*models.HabitLog, error) {
	var log models.HabitLog
	filter := bson.M{"habit_id": habitID, "user_id": userID, "date": date}
	if err := r.col.FindOne(ctx, filter).Decode(&log); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

func (r *mongoHabitLogs) LogCompletion(ctx context.Context, habitID, userID primitive.ObjectID, date time.Time, notes string) error {
	// Single upsert so two same-day calls can never race into two rows;
	// the unique (habit_id, date) index backs this up.
	filter := bson.M{"habit_id": habitID, "user_id": userID, "date": date}
	update := bson.M{
		"$inc": bson.M{"completed_count": 1},
		"$setOnInsert": bson.M{
			"habit_id":  habitID,
			"user_id":   userID,
			"date":      date,
			"completed": false,
			"notes":     notes,
		},
	}
	_, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *mongoHabitLogs) ListByHabit(ctx context.Context, habitID, userID primitive.ObjectID) ([]models.HabitLog, error) {
	cur, err := r.col.Find(ctx, bson.M{"habit_id": habitID, "user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	logs := []models.HabitLog{}
	if err := cur.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *mongoHabitLogs) DeleteByHabit(ctx context.Context, habitID, userID primitive.ObjectID) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"habit_id": habitID, "user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *mongoHabitLogs) DeleteByOwner(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
