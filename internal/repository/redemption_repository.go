package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"cleansweep/internal/model"
)

// RedemptionRepository stores claimed rewards and spends points for them.
type RedemptionRepository interface {
	// Redeem records the claim and spends its points atomically. It returns
	// ErrDuplicateKey when the user already claimed this reward and
	// ErrInsufficientPoints when the user cannot afford it.
	Redeem(ctx context.Context, userID string, reward model.Reward) (*model.Redemption, error)
	ListByUser(ctx context.Context, userID string) ([]model.Redemption, error)
}

type redemptionRepository struct {
	db *gorm.DB
}

// NewRedemptionRepository creates a new redemption repository.
func NewRedemptionRepository(db *gorm.DB) RedemptionRepository {
	return &redemptionRepository{db: db}
}

func newRedemption(userID string, reward model.Reward) *model.Redemption {
	return &model.Redemption{
		ID:          newID(),
		UserID:      userID,
		Title:       reward.Title,
		Description: reward.Description,
		Points:      reward.Points,
		RedeemedAt:  now(),
	}
}

func (r *redemptionRepository) Redeem(ctx context.Context, userID string, reward model.Reward) (*model.Redemption, error) {
	redemption := newRedemption(userID, reward)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(redemption).Error; err != nil {
			return translateGormError(err)
		}
		res := tx.Model(&model.User{}).
			Where("id = ? AND total_points - spent_points >= ?", userID, reward.Points).
			UpdateColumn("spent_points", gorm.Expr("spent_points + ?", reward.Points))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientPoints
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateKey) || errors.Is(err, ErrInsufficientPoints) {
			return nil, err
		}
		return nil, fmt.Errorf("redeem reward: %w", err)
	}
	return redemption, nil
}

func (r *redemptionRepository) ListByUser(ctx context.Context, userID string) ([]model.Redemption, error) {
	redemptions := []model.Redemption{}
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("redeemed_at ASC").
		Find(&redemptions).Error; err != nil {
		return nil, fmt.Errorf("list redemptions: %w", err)
	}
	return redemptions, nil
}
