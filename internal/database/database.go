// Package database manages the MongoDB client lifecycle and the index
// bootstrap the application relies on.
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"achievo/internal/config"
	"achievo/internal/logger"
)

const connectTimeout = 10 * time.Second

// Manager owns the Mongo client and database handle. It is created once
// at startup and read-only afterwards.
type Manager struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewManager connects to MongoDB using the configured URI and verifies
// the connection with a ping.
func NewManager(cfg *config.Config) (*Manager, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.Get().Infow("MongoDB connected", "database", cfg.MongoDB)
	return &Manager{client: client, db: client.Database(cfg.MongoDB)}, nil
}

// DB returns the database handle.
func (m *Manager) DB() *mongo.Database {
	return m.db
}

// Close disconnects the Mongo client.
func (m *Manager) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the application depends on. It is
// idempotent and runs at startup; collections are created implicitly on
// first insert.
func (m *Manager) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	specs := map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		"goals": {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		"habits": {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "is_active", Value: 1}}},
		},
		"habit_logs": {
			// One log row per habit per calendar day; the log upsert
			// depends on this.
			{Keys: bson.D{{Key: "habit_id", Value: 1}, {Key: "date", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
		"utility_bills": {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "bill_type", Value: 1}, {Key: "date", Value: -1}}},
		},
		"user_preferences": {
			{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: unique},
		},
	}

	for name, models := range specs {
		if _, err := m.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}
