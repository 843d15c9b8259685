package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cleansweep/internal/auth"
	apperrors "cleansweep/internal/errors"
	"cleansweep/internal/model"
	"cleansweep/internal/repository"
)

func TestUserService_Profile(t *testing.T) {
	users := new(MockUserRepository)
	redemptions := new(MockRedemptionRepository)
	users.On("FindByID", mock.Anything, "u-1").Return(&model.User{
		ID: "u-1", Name: "Asha", Email: "asha@example.com", Role: model.RoleUser, TotalPoints: 600, SpentPoints: 50,
	}, nil)
	redemptions.On("ListByUser", mock.Anything, "u-1").Return([]model.Redemption{{Title: "Paper Pen", Points: 50}}, nil)

	service := NewUserService(users, redemptions, nil, nil, nil)
	profile, err := service.Profile(context.Background(), reporter)
	require.NoError(t, err)

	assert.Equal(t, "Asha", profile.Name)
	assert.Equal(t, 600, profile.TotalPoints)
	assert.Equal(t, 550, profile.AvailablePoints)
	require.Len(t, profile.RedeemedRewards, 1)
	assert.Equal(t, "Paper Pen", profile.RedeemedRewards[0].Title)
}

func TestUserService_ProfileUnknownUser(t *testing.T) {
	users := new(MockUserRepository)
	users.On("FindByID", mock.Anything, "u-1").Return(nil, repository.ErrNotFound)

	service := NewUserService(users, new(MockRedemptionRepository), nil, nil, nil)
	_, err := service.Profile(context.Background(), reporter)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUserService_Redeem(t *testing.T) {
	pen, _ := model.FindReward("Paper Pen")

	tests := []struct {
		name      string
		title     string
		setupMock func(*MockRedemptionRepository)
		wantErr   error
		wantMsg   string
	}{
		{
			name:  "redeems",
			title: "Paper Pen",
			setupMock: func(m *MockRedemptionRepository) {
				m.On("Redeem", mock.Anything, "u-1", pen).Return(&model.Redemption{Title: pen.Title}, nil)
				m.On("ListByUser", mock.Anything, "u-1").Return([]model.Redemption{{Title: pen.Title, Points: pen.Points}}, nil)
			},
		},
		{
			name:      "blank title",
			title:     " ",
			setupMock: func(m *MockRedemptionRepository) {},
			wantErr:   apperrors.ErrValidation,
			wantMsg:   MsgRewardRequired,
		},
		{
			name:      "unknown reward",
			title:     "Fitness Band",
			setupMock: func(m *MockRedemptionRepository) {},
			wantErr:   apperrors.ErrNotFound,
			wantMsg:   MsgRewardNotFound,
		},
		{
			name:  "already redeemed",
			title: "Paper Pen",
			setupMock: func(m *MockRedemptionRepository) {
				m.On("Redeem", mock.Anything, "u-1", pen).Return(nil, repository.ErrDuplicateKey)
			},
			wantErr: apperrors.ErrConflict,
			wantMsg: MsgRewardRedeemed,
		},
		{
			name:  "not enough points",
			title: "Paper Pen",
			setupMock: func(m *MockRedemptionRepository) {
				m.On("Redeem", mock.Anything, "u-1", pen).Return(nil, repository.ErrInsufficientPoints)
			},
			wantErr: apperrors.ErrConflict,
			wantMsg: MsgInsufficientPoints,
		},
		{
			name:  "store failure",
			title: "Paper Pen",
			setupMock: func(m *MockRedemptionRepository) {
				m.On("Redeem", mock.Anything, "u-1", pen).Return(nil, errors.New("down"))
			},
			wantErr: apperrors.ErrPersistence,
			wantMsg: apperrors.MsgServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			users.On("FindByID", mock.Anything, "u-1").Return(&model.User{ID: "u-1", TotalPoints: 100, SpentPoints: 50}, nil).Maybe()
			redemptions := new(MockRedemptionRepository)
			tt.setupMock(redemptions)
			activity := &fakeActivity{}

			service := NewUserService(users, redemptions, nil, activity, nil)
			profile, err := service.Redeem(context.Background(), reporter, tt.title)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.wantMsg, apperrors.ToResponse(err).Message)
				assert.Empty(t, activity.events())
			} else {
				require.NoError(t, err)
				assert.Equal(t, 50, profile.AvailablePoints)
				assert.Len(t, profile.RedeemedRewards, 1)
				assert.Equal(t, []model.ActivityEvent{model.EventRewardRedeemed}, activity.events())
			}
			redemptions.AssertExpectations(t)
		})
	}
}

func TestUserService_Rewards(t *testing.T) {
	service := NewUserService(new(MockUserRepository), new(MockRedemptionRepository), nil, nil, nil)
	rewards := service.Rewards()
	require.Len(t, rewards, len(model.RewardCatalog))

	rewards[0].Points = 0
	assert.Equal(t, 50, model.RewardCatalog[0].Points)
}

func TestLeaderboardService_Top(t *testing.T) {
	users := new(MockUserRepository)
	users.On("Top", mock.Anything, 3).Return([]model.User{
		{ID: "b", Name: "Bilal", TotalPoints: 150},
		{ID: "a", Name: "Asha", TotalPoints: 100},
	}, nil)

	service := NewLeaderboardService(users, nil, 3, nil)
	entries, err := service.Top(context.Background(), reporter)
	require.NoError(t, err)
	assert.Equal(t, []LeaderboardEntry{
		{Rank: 1, ID: "b", Name: "Bilal", TotalPoints: 150},
		{Rank: 2, ID: "a", Name: "Asha", TotalPoints: 100},
	}, entries)

	_, err = service.Top(context.Background(), auth.Identity{})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestAdminService(t *testing.T) {
	users := new(MockUserRepository)
	reports := new(MockReportRepository)
	users.On("Count", mock.Anything).Return(int64(4), nil)
	reports.On("CountByType", mock.Anything).Return(map[model.ReportType]int64{
		model.ReportTypeReport: 3, model.ReportTypeCleanup: 2,
	}, nil)
	activity := &fakeActivity{}
	activity.Record(context.Background(), model.ActivityLog{Event: model.EventUserRegistered})
	activity.Record(context.Background(), model.ActivityLog{Event: model.EventReportCreated})

	service := NewAdminService(users, reports, activity, nil)
	admin := auth.Identity{ID: "a", Role: model.RoleAdmin}

	dash, err := service.Dashboard(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, &Dashboard{Message: MsgDashboardWelcome, Users: 4, Reports: 5, CleanupReports: 2, WasteReports: 3}, dash)

	logs, err := service.Activity(context.Background(), admin, 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, model.EventReportCreated, logs[0].Event)

	_, err = service.Dashboard(context.Background(), reporter)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	_, err = service.Activity(context.Background(), reporter, 10)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
