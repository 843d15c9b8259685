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

type mongoRedemptionRepository struct {
	redemptions *mongo.Collection
	users       *mongo.Collection
}

// NewMongoRedemptionRepository builds a MongoDB-backed redemption repository.
func NewMongoRedemptionRepository(database *mongo.Database) RedemptionRepository {
	return &mongoRedemptionRepository{
		redemptions: database.Collection(db.RedemptionsCollection),
		users:       database.Collection(db.UsersCollection),
	}
}

// Redeem claims the reward first so the unique (user_id, title) index settles
// concurrent claims, then spends the points. A failed spend removes the claim.
func (r *mongoRedemptionRepository) Redeem(ctx context.Context, userID string, reward model.Reward) (*model.Redemption, error) {
	redemption := newRedemption(userID, reward)
	if _, err := r.redemptions.InsertOne(ctx, redemption); err != nil {
		err = translateMongoError(err)
		if err == ErrDuplicateKey {
			return nil, err
		}
		return nil, fmt.Errorf("insert redemption: %w", err)
	}

	filter := bson.D{
		{Key: "_id", Value: userID},
		{Key: "$expr", Value: bson.D{{Key: "$gte", Value: bson.A{
			bson.D{{Key: "$subtract", Value: bson.A{"$total_points", "$spent_points"}}},
			reward.Points,
		}}}},
	}
	res, err := r.users.UpdateOne(ctx, filter, bson.D{{Key: "$inc", Value: bson.D{{Key: "spent_points", Value: reward.Points}}}})
	if err == nil && res.MatchedCount == 1 {
		return redemption, nil
	}

	if _, delErr := r.redemptions.DeleteOne(ctx, bson.D{{Key: "_id", Value: redemption.ID}}); delErr != nil && err == nil {
		err = delErr
	}
	if err != nil {
		return nil, fmt.Errorf("spend points: %w", err)
	}
	return nil, ErrInsufficientPoints
}

func (r *mongoRedemptionRepository) ListByUser(ctx context.Context, userID string) ([]model.Redemption, error) {
	cur, err := r.redemptions.Find(ctx,
		bson.D{{Key: "user_id", Value: userID}},
		options.Find().SetSort(bson.D{{Key: "redeemed_at", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list redemptions: %w", err)
	}
	redemptions := []model.Redemption{}
	if err := cur.All(ctx, &redemptions); err != nil {
		return nil, fmt.Errorf("decode redemptions: %w", err)
	}
	return redemptions, nil
}
