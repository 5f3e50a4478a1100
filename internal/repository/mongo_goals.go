package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"achievo/internal/models"
	"achievo/internal/pagination"
)

type mongoGoals struct {
	col *mongo.Collection
}

// NewMongoGoals creates a Goals repository backed by the goals collection.
func NewMongoGoals(db *mongo.Database) Goals {
	return &mongoGoals{col: db.Collection("goals")}
}

func (r *mongoGoals) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Goal, error) {
	var goal models.Goal
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&goal); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &goal, nil
}

func goalQuery(userID primitive.ObjectID, filter GoalFilter) bson.M {
	query := bson.M{"user_id": userID}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Priority != "" {
		query["priority"] = filter.Priority
	}
	switch filter.Status {
	case "completed":
		query["completed"] = true
	case "pending":
		query["completed"] = false
	}
	if filter.Search != "" {
		query["text"] = bson.M{"$regex": regexp.QuoteMeta(filter.Search), "$options": "i"}
	}
	return query
}

func (r *mongoGoals) List(ctx context.Context, userID primitive.ObjectID, filter GoalFilter, page pagination.PageRequest) ([]models.Goal, int64, error) {
	query := goalQuery(userID, filter)

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	pagination.Apply(opts, page)

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	goals := []models.Goal{}
	if err := cur.All(ctx, &goals); err != nil {
		return nil, 0, err
	}
	return goals, total, nil
}

func (r *mongoGoals) ListAll(ctx context.Context, userID primitive.ObjectID) ([]models.Goal, error) {
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	goals := []models.Goal{}
	if err := cur.All(ctx, &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *mongoGoals) DistinctCategories(ctx context.Context, userID primitive.ObjectID) ([]string, error) {
	raw, err := r.col.Distinct(ctx, "category", bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	categories := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			categories = append(categories, s)
		}
	}
	return categories, nil
}

func (r *mongoGoals) Counts(ctx context.Context, userID primitive.ObjectID) (GoalCounts, error) {
	total, err := r.col.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return GoalCounts{}, err
	}
	completed, err := r.col.CountDocuments(ctx, bson.M{"user_id": userID, "completed": true})
	if err != nil {
		return GoalCounts{}, err
	}
	return GoalCounts{Total: total, Completed: completed}, nil
}

func (r *mongoGoals) Insert(ctx context.Context, goal *models.Goal) error {
	now := time.Now().UTC()
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = now
	}
	goal.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, goal)
	if err != nil {
		return err
	}
	goal.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoGoals) Update(ctx context.Context, goal *models.Goal) error {
	goal.UpdatedAt = time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"text":       goal.Text,
		"completed":  goal.Completed,
		"priority":   goal.Priority,
		"category":   goal.Category,
		"due_date":   goal.DueDate,
		"updated_at": goal.UpdatedAt,
	}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": goal.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoGoals) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoGoals) DeleteByOwner(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
