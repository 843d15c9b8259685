package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"cleansweep/internal/auth"
	"cleansweep/internal/cache"
	apperrors "cleansweep/internal/errors"
	"cleansweep/internal/model"
	"cleansweep/internal/repository"
)

const profileCacheTTL = 5 * time.Minute

// Messages returned by reward operations.
const (
	MsgRewardRequired     = "Reward title is required"
	MsgRewardNotFound     = "Reward not found"
	MsgRewardRedeemed     = "Reward already redeemed"
	MsgInsufficientPoints = "Not enough points to redeem this reward"
)

// Profile is the signed-in user's own view: identity, points and claimed rewards.
type Profile struct {
	model.UserSummary
	TotalPoints     int                `json:"totalPoints"`
	AvailablePoints int                `json:"availablePoints"`
	RedeemedRewards []model.Redemption `json:"redeemedRewards"`
}

// UserService exposes a user's profile and reward redemption.
type UserService interface {
	Profile(ctx context.Context, actor auth.Identity) (*Profile, error)
	Redeem(ctx context.Context, actor auth.Identity, title string) (*Profile, error)
	Rewards() []model.Reward
	// Invalidate drops the cached profile of userID.
	Invalidate(ctx context.Context, userID string)
}

type userService struct {
	users       repository.UserRepository
	redemptions repository.RedemptionRepository
	cache       *cache.Client
	activity    ActivityRecorder
	logger      *zap.Logger
}

// NewUserService builds a UserService with repositories and cache.
func NewUserService(
	users repository.UserRepository,
	redemptions repository.RedemptionRepository,
	cache *cache.Client,
	activity ActivityRecorder,
	logger *zap.Logger,
) UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &userService{users: users, redemptions: redemptions, cache: cache, activity: activity, logger: logger}
}

func (s *userService) cacheKey(id string) string {
	return fmt.Sprintf("profile:%s", id)
}

func (s *userService) Profile(ctx context.Context, actor auth.Identity) (*Profile, error) {
	if err := auth.Authorize(actor.Role, auth.PermViewProfile); err != nil {
		return nil, err
	}

	var cached Profile
	if s.cache.GetJSON(ctx, s.cacheKey(actor.ID), &cached) {
		return &cached, nil
	}

	profile, err := s.load(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, s.cacheKey(actor.ID), profile, profileCacheTTL)
	return profile, nil
}

// Redeem spends points on a catalog reward. Prices come from the catalog only.
func (s *userService) Redeem(ctx context.Context, actor auth.Identity, title string) (*Profile, error) {
	if err := auth.Authorize(actor.Role, auth.PermRedeemReward); err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.Validation(MsgRewardRequired)
	}
	reward, ok := model.FindReward(title)
	if !ok {
		return nil, apperrors.NotFound(MsgRewardNotFound)
	}

	_, err := s.redemptions.Redeem(ctx, actor.ID, reward)
	switch {
	case errors.Is(err, repository.ErrDuplicateKey):
		return nil, apperrors.Conflict(MsgRewardRedeemed)
	case errors.Is(err, repository.ErrInsufficientPoints):
		return nil, apperrors.Conflict(MsgInsufficientPoints)
	case err != nil:
		s.logger.Error("redeem reward", zap.String("user_id", actor.ID), zap.String("reward", title), zap.Error(err))
		return nil, apperrors.Persistence(err)
	}

	s.Invalidate(ctx, actor.ID)
	if s.activity != nil {
		s.activity.Record(ctx, model.ActivityLog{
			Event:   model.EventRewardRedeemed,
			ActorID: actor.ID,
			Detail:  reward.Title,
		})
	}
	return s.load(ctx, actor.ID)
}

func (s *userService) Rewards() []model.Reward {
	return append([]model.Reward(nil), model.RewardCatalog...)
}

func (s *userService) Invalidate(ctx context.Context, userID string) {
	s.cache.Delete(ctx, s.cacheKey(userID))
}

func (s *userService) load(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound(MsgUserNotFound)
		}
		s.logger.Error("find user", zap.String("user_id", userID), zap.Error(err))
		return nil, apperrors.Persistence(err)
	}
	redeemed, err := s.redemptions.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("list redemptions", zap.String("user_id", userID), zap.Error(err))
		return nil, apperrors.Persistence(err)
	}
	return &Profile{
		UserSummary:     user.Summary(),
		TotalPoints:     user.TotalPoints,
		AvailablePoints: user.AvailablePoints(),
		RedeemedRewards: redeemed,
	}, nil
}
