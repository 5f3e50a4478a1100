package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"achievo/internal/models"
)

type mongoUsers struct {
	col *mongo.Collection
}

// NewMongoUsers creates a Users repository backed by the users collection.
func NewMongoUsers(db *mongo.Database) Users {
	return &mongoUsers{col: db.Collection("users")}
}

func (r *mongoUsers) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := r.col.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *mongoUsers) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoUsers) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *mongoUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoUsers) FindByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"google_id": googleID})
}

func (r *mongoUsers) UsernameTakenByOther(ctx context.Context, username string, self primitive.ObjectID) (bool, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"username": username, "_id": bson.M{"$ne": self}})
	return count > 0, err
}

func (r *mongoUsers) EmailTakenByOther(ctx context.Context, email string, self primitive.ObjectID) (bool, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"email": email, "_id": bson.M{"$ne": self}})
	return count > 0, err
}

func (r *mongoUsers) Insert(ctx context.Context, user *models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	res, err := r.col.InsertOne(ctx, user)
	if err != nil {
		return err
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoUsers) Update(ctx context.Context, user *models.User) error {
	update := bson.M{"$set": bson.M{
		"username":              user.Username,
		"email":                 user.Email,
		"password_hash":         user.PasswordHash,
		"google_id":             user.GoogleID,
		"profile_pic":           user.ProfilePic,
		"refresh_token_hash":    user.RefreshTokenHash,
		"failed_login_attempts": user.FailedLoginAttempts,
		"locked_until":          user.LockedUntil,
	}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": user.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoUsers) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
