package service

import (
	"context"

	"go.uber.org/zap"

	"cleansweep/internal/auth"
	apperrors "cleansweep/internal/errors"
	"cleansweep/internal/model"
	"cleansweep/internal/repository"
)

// MsgDashboardWelcome greets admins on the dashboard.
const MsgDashboardWelcome = "Welcome to the Admin Dashboard"

const maxActivityLimit = 200

// Dashboard summarizes the system for admins.
type Dashboard struct {
	Message        string `json:"message"`
	Users          int64  `json:"users"`
	Reports        int64  `json:"reports"`
	CleanupReports int64  `json:"cleanupReports"`
	WasteReports   int64  `json:"wasteReports"`
}

// AdminService backs the admin-only endpoints.
type AdminService interface {
	Dashboard(ctx context.Context, actor auth.Identity) (*Dashboard, error)
	Activity(ctx context.Context, actor auth.Identity, limit int) ([]model.ActivityLog, error)
}

type adminService struct {
	users    repository.UserRepository
	reports  repository.ReportRepository
	activity ActivityRecorder
	logger   *zap.Logger
}

// NewAdminService builds an AdminService.
func NewAdminService(users repository.UserRepository, reports repository.ReportRepository, activity ActivityRecorder, logger *zap.Logger) AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &adminService{users: users, reports: reports, activity: activity, logger: logger}
}

func (s *adminService) Dashboard(ctx context.Context, actor auth.Identity) (*Dashboard, error) {
	if err := auth.Authorize(actor.Role, auth.PermAdminDashboard); err != nil {
		return nil, err
	}
	users, err := s.users.Count(ctx)
	if err != nil {
		s.logger.Error("count users", zap.Error(err))
		return nil, apperrors.Persistence(err)
	}
	counts, err := s.reports.CountByType(ctx)
	if err != nil {
		s.logger.Error("count reports", zap.Error(err))
		return nil, apperrors.Persistence(err)
	}
	return &Dashboard{
		Message:        MsgDashboardWelcome,
		Users:          users,
		Reports:        counts[model.ReportTypeReport] + counts[model.ReportTypeCleanup],
		CleanupReports: counts[model.ReportTypeCleanup],
		WasteReports:   counts[model.ReportTypeReport],
	}, nil
}

func (s *adminService) Activity(ctx context.Context, actor auth.Identity, limit int) ([]model.ActivityLog, error) {
	if err := auth.Authorize(actor.Role, auth.PermViewActivity); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > maxActivityLimit {
		limit = 50
	}
	logs, err := s.activity.Recent(ctx, limit)
	if err != nil {
		s.logger.Error("recent activity", zap.Error(err))
		return nil, apperrors.Persistence(err)
	}
	return logs, nil
}
