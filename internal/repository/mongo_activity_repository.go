package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"cleansweep/internal/db"
	"cleansweep/internal/model"
)

type mongoActivityRepository struct {
	col *mongo.Collection
}

// NewMongoActivityRepository builds a MongoDB-backed activity log repository.
func NewMongoActivityRepository(database *mongo.Database) ActivityRepository {
	return &mongoActivityRepository{col: database.Collection(db.ActivityCollection)}
}

func (r *mongoActivityRepository) CreateBatch(ctx context.Context, logs []model.ActivityLog) error {
	if len(logs) == 0 {
		return nil
	}
	docs := make([]any, len(logs))
	for i := range logs {
		docs[i] = logs[i]
	}
	if _, err := r.col.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false)); err != nil {
		return fmt.Errorf("insert activity logs: %w", err)
	}
	return nil
}

func (r *mongoActivityRepository) Recent(ctx context.Context, limit int) ([]model.ActivityLog, error) {
	cur, err := r.col.Find(ctx, bson.D{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}
	logs := []model.ActivityLog{}
	if err := cur.All(ctx, &logs); err != nil {
		return nil, fmt.Errorf("decode activity: %w", err)
	}
	return logs, nil
}
