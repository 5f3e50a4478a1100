package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"achievo/internal/models"
)

type mongoHabits struct {
	col *mongo.Collection
}

// NewMongoHabits creates a Habits repository backed by the habits collection.
func NewMongoHabits(db *mongo.Database) Habits {
	return &mongoHabits{col: db.Collection("habits")}
}

func (r *mongoHabits) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Habit, error) {
	var habit models.Habit
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&habit); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &habit, nil
}

func (r *mongoHabits) list(ctx context.Context, filter bson.M) ([]models.Habit, error) {
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	habits := []models.Habit{}
	if err := cur.All(ctx, &habits); err != nil {
		return nil, err
	}
	return habits, nil
}

func (r *mongoHabits) ListActiveByOwner(ctx context.Context, userID primitive.ObjectID) ([]models.Habit, error) {
	return r.list(ctx, bson.M{"user_id": userID, "is_active": true})
}

func (r *mongoHabits) ListByOwner(ctx context.Context, userID primitive.ObjectID) ([]models.Habit, error) {
	return r.list(ctx, bson.M{"user_id": userID})
}

func (r *mongoHabits) Insert(ctx context.Context, habit *models.Habit) error {
	res, err := r.col.InsertOne(ctx, habit)
	if err != nil {
		return err
	}
	habit.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoHabits) Update(ctx context.Context, habit *models.Habit) error {
	update := bson.M{"$set": bson.M{
		"name":         habit.Name,
		"frequency":    habit.Frequency,
		"target_count": habit.TargetCount,
		"description":  habit.Description,
		"category":     habit.Category,
		"is_active":    habit.IsActive,
	}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": habit.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoHabits) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoHabits) DeleteByOwner(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
