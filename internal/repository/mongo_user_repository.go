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

type mongoUserRepository struct {
	col *mongo.Collection
}

// NewMongoUserRepository builds a MongoDB-backed user repository.
func NewMongoUserRepository(database *mongo.Database) UserRepository {
	return &mongoUserRepository{col: database.Collection(db.UsersCollection)}
}

func (r *mongoUserRepository) Create(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = newID()
	}
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	ts := now()
	user.CreatedAt, user.UpdatedAt = ts, ts
	if _, err := r.col.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("insert user: %w", translateMongoError(err))
	}
	return nil
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.D) (*model.User, error) {
	var user model.User
	if err := r.col.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, translateMongoError(err)
	}
	return &user, nil
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (r *mongoUserRepository) ExistsWithRole(ctx context.Context, role model.Role) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.D{{Key: "role", Value: role}}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count users by role: %w", err)
	}
	return n > 0, nil
}

func (r *mongoUserRepository) UpdateRole(ctx context.Context, id string, from, to model.Role) error {
	res, err := r.col.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}, {Key: "role", Value: from}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "role", Value: to}, {Key: "updated_at", Value: now()}}}},
	)
	if err != nil {
		return fmt.Errorf("update role: %w", translateMongoError(err))
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoUserRepository) AddPoints(ctx context.Context, id string, delta int) error {
	res, err := r.col.UpdateByID(ctx, id, bson.D{{Key: "$inc", Value: bson.D{{Key: "total_points", Value: delta}}}})
	if err != nil {
		return fmt.Errorf("add points: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoUserRepository) Top(ctx context.Context, limit int) ([]model.User, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "total_points", Value: -1}, {Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.D{{Key: "password_hash", Value: 0}})
	cur, err := r.col.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("top users: %w", err)
	}
	users := []model.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode top users: %w", err)
	}
	return users, nil
}

func (r *mongoUserRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.col.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
