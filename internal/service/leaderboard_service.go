package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"cleansweep/internal/auth"
	"cleansweep/internal/cache"
	apperrors "cleansweep/internal/errors"
	"cleansweep/internal/repository"
)

const (
	leaderboardCacheKey = "leaderboard"
	leaderboardCacheTTL = 30 * time.Second
)

// LeaderboardEntry is one ranked user.
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	ID          string `json:"id"`
	Name        string `json:"name"`
	TotalPoints int    `json:"totalPoints"`
}

// LeaderboardService ranks users by earned points.
type LeaderboardService interface {
	Top(ctx context.Context, actor auth.Identity) ([]LeaderboardEntry, error)
	Invalidate(ctx context.Context)
}

type leaderboardService struct {
	users  repository.UserRepository
	cache  *cache.Client
	size   int
	logger *zap.Logger
}

// NewLeaderboardService builds a leaderboard of the given size.
func NewLeaderboardService(users repository.UserRepository, cache *cache.Client, size int, logger *zap.Logger) LeaderboardService {
	if size <= 0 {
		size = 10
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &leaderboardService{users: users, cache: cache, size: size, logger: logger}
}

func (s *leaderboardService) Top(ctx context.Context, actor auth.Identity) ([]LeaderboardEntry, error) {
	if err := auth.Authorize(actor.Role, auth.PermLeaderboard); err != nil {
		return nil, err
	}

	var entries []LeaderboardEntry
	if s.cache.GetJSON(ctx, leaderboardCacheKey, &entries) {
		return entries, nil
	}

	users, err := s.users.Top(ctx, s.size)
	if err != nil {
		s.logger.Error("load leaderboard", zap.Error(err))
		return nil, apperrors.Persistence(err)
	}
	entries = make([]LeaderboardEntry, len(users))
	for i, u := range users {
		entries[i] = LeaderboardEntry{Rank: i + 1, ID: u.ID, Name: u.Name, TotalPoints: u.TotalPoints}
	}
	s.cache.SetJSON(ctx, leaderboardCacheKey, entries, leaderboardCacheTTL)
	return entries, nil
}

func (s *leaderboardService) Invalidate(ctx context.Context) {
	s.cache.Delete(ctx, leaderboardCacheKey)
}
