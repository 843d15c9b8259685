package db

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	UsersCollection       = "users"
	ReportsCollection     = "reports"
	RedemptionsCollection = "redemptions"
	ActivityCollection    = "activity_logs"
)

// NewMongo connects, pings and ensures indexes. The returned client must be
// disconnected by the caller.
func NewMongo(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	dctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(dctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect %s: %w", RedactURI(uri), err)
	}
	if err := client.Ping(dctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping %s: %w", RedactURI(uri), err)
	}

	database := client.Database(dbName)
	if err := EnsureIndexes(dctx, database); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}
	return client, database, nil
}

// EnsureIndexes creates the unique and lookup indexes the stores rely on.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{
				// at most one document may carry the superadmin slot
				Keys: bson.D{{Key: "superadmin_slot", Value: 1}},
				Options: options.Index().SetUnique(true).
					SetPartialFilterExpression(bson.D{{Key: "superadmin_slot", Value: bson.D{{Key: "$exists", Value: true}}}}),
			},
			{Keys: bson.D{{Key: "total_points", Value: -1}}},
		},
		ReportsCollection: {
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "user", Value: 1}}},
		},
		RedemptionsCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "title", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		ActivityCollection: {
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
	}

	var errs []error
	for name, models := range specs {
		if _, err := database.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			errs = append(errs, fmt.Errorf("%s indexes: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// RedactURI hides credentials in a connection string for logging.
func RedactURI(raw string) string {
	if raw == "" || !strings.Contains(raw, "://") {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	u.User = url.UserPassword("****", "****")
	return u.String()
}
