package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/task-assignment-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TasksCollection is the MongoDB collection holding task documents
const TasksCollection = "tasks"

// MongoTaskRepository is a MongoDB implementation of TaskRepository
type MongoTaskRepository struct {
	tasks *mongo.Collection
}

// NewMongoTaskRepository creates a TaskRepository backed by db
func NewMongoTaskRepository(db *mongo.Database) TaskRepository {
	return &MongoTaskRepository{tasks: db.Collection(TasksCollection)}
}

// Create inserts a new task document
func (r *MongoTaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if _, err := r.tasks.InsertOne(ctx, task); err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

// FindByID finds a task by its _id
func (r *MongoTaskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := r.tasks.FindOne(ctx, bson.M{"_id": id}).Decode(&task); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// List returns every task
func (r *MongoTaskRepository) List(ctx context.Context) ([]models.Task, error) {
	return r.find(ctx, bson.M{})
}

// ListByAssignee returns the tasks assigned to userID
func (r *MongoTaskRepository) ListByAssignee(ctx context.Context, userID string) ([]models.Task, error) {
	return r.find(ctx, bson.M{"assignedTo": userID})
}

// UpdateStatus sets status and updatedAt on one task
func (r *MongoTaskRepository) UpdateStatus(ctx context.Context, id string, status models.TaskStatus, updatedAt time.Time) error {
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": updatedAt}}
	result, err := r.tasks.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes one task; a missing id deletes nothing and succeeds
func (r *MongoTaskRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.tasks.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

func (r *MongoTaskRepository) find(ctx context.Context, filter bson.M) ([]models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.tasks.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tasks: %w", err)
	}
	defer cursor.Close(ctx)

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}
