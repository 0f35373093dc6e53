package database

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/task-assignment-api/internal/config"
	"github.com/yukikurage/task-assignment-api/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongo connects to MongoDB, pings it and returns the client and the application database
func ConnectMongo(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.DB.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.DB.MongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.WithField("database", cfg.DB.MongoDatabase).Info("MongoDB connection established")
	return client, client.Database(cfg.DB.MongoDatabase), nil
}

// EnsureMongoIndexes creates the unique email index and the assignee listing index
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database, log *logrus.Logger) error {
	users := db.Collection(repository.UsersCollection)
	if _, err := users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_email"),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetName("idx_users_role_name"),
		},
	}); err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}

	tasks := db.Collection(repository.TasksCollection)
	if _, err := tasks.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "assignedTo", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("idx_tasks_assignee_created"),
	}); err != nil {
		return fmt.Errorf("failed to create task indexes: %w", err)
	}

	log.Info("MongoDB indexes ensured")
	return nil
}
