package service

import (
	"context"
	"math"
	"mime/multipart"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"cleansweep/internal/auth"
	apperrors "cleansweep/internal/errors"
	"cleansweep/internal/model"
	"cleansweep/internal/repository"
)

// Messages returned by report operations.
const (
	MsgReportFieldsRequired = "Title, description, type, and at least one media file are required"
	MsgInvalidReportType    = "Invalid report type"
	MsgInvalidCoordinates   = "Latitude and longitude must be valid coordinates"
)

// MediaStore accepts and discards uploaded media.
type MediaStore interface {
	Accept(ctx context.Context, files []*multipart.FileHeader, reportType model.ReportType) ([]string, error)
	Discard(paths []string)
}

// CreateReportInput carries the raw multipart fields of a new report.
type CreateReportInput struct {
	Title       string
	Description string
	Type        string
	Latitude    string
	Longitude   string
	Media       []*multipart.FileHeader
}

// ReportService creates and lists reports.
type ReportService interface {
	CreateReport(ctx context.Context, actor auth.Identity, in CreateReportInput) (*model.Report, error)
	ListReports(ctx context.Context, actor auth.Identity) ([]model.Report, error)
}

type reportService struct {
	reports         repository.ReportRepository
	users           repository.UserRepository
	media           MediaStore
	activity        ActivityRecorder
	pointsPerReport int
	onPointsChanged func(ctx context.Context, userID string)
	logger          *zap.Logger
}

// ReportServiceOption customizes a report service.
type ReportServiceOption func(*reportService)

// WithPointsPerReport sets the points a user earns per report.
func WithPointsPerReport(points int) ReportServiceOption {
	return func(s *reportService) { s.pointsPerReport = points }
}

// WithPointsChanged registers a hook called after a user earned points.
func WithPointsChanged(fn func(ctx context.Context, userID string)) ReportServiceOption {
	return func(s *reportService) { s.onPointsChanged = fn }
}

// NewReportService builds a ReportService.
func NewReportService(
	reports repository.ReportRepository,
	users repository.UserRepository,
	media MediaStore,
	activity ActivityRecorder,
	logger *zap.Logger,
	opts ...ReportServiceOption,
) ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &reportService{
		reports:         reports,
		users:           users,
		media:           media,
		activity:        activity,
		pointsPerReport: 50,
		logger:          logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *reportService) CreateReport(ctx context.Context, actor auth.Identity, in CreateReportInput) (*model.Report, error) {
	if actor.ID == "" {
		return nil, apperrors.Auth(apperrors.MsgNoToken)
	}
	if err := auth.Authorize(actor.Role, auth.PermCreateReport); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	rawType := strings.TrimSpace(in.Type)
	if title == "" || description == "" || rawType == "" || len(in.Media) == 0 {
		return nil, apperrors.Validation(MsgReportFieldsRequired)
	}
	reportType := model.ReportType(rawType)
	if !reportType.Valid() {
		return nil, apperrors.Validation(MsgInvalidReportType)
	}
	lat, err := parseCoordinate(in.Latitude, 90)
	if err != nil {
		return nil, err
	}
	lng, err := parseCoordinate(in.Longitude, 180)
	if err != nil {
		return nil, err
	}

	paths, err := s.media.Accept(ctx, in.Media, reportType)
	if err != nil {
		return nil, err
	}

	report := &model.Report{
		Title:       title,
		Description: description,
		Type:        reportType,
		Latitude:    lat,
		Longitude:   lng,
		MediaURLs:   model.StringList(paths),
		UserID:      actor.ID,
		Severity:    model.SeverityFor(reportType),
		Status:      model.StatusReported,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		s.media.Discard(paths)
		s.logger.Error("create report", zap.String("user_id", actor.ID), zap.Error(err))
		return nil, apperrors.Persistence(err)
	}

	s.awardPoints(ctx, actor.ID)
	if s.activity != nil {
		s.activity.Record(ctx, model.ActivityLog{
			Event:     model.EventReportCreated,
			ActorID:   actor.ID,
			SubjectID: report.ID,
			Detail:    string(report.Type),
		})
	}
	return report, nil
}

// awardPoints never fails the request: the report is already stored.
func (s *reportService) awardPoints(ctx context.Context, userID string) {
	if s.pointsPerReport <= 0 {
		return
	}
	if err := s.users.AddPoints(ctx, userID, s.pointsPerReport); err != nil {
		s.logger.Warn("award report points", zap.String("user_id", userID), zap.Error(err))
		return
	}
	if s.onPointsChanged != nil {
		s.onPointsChanged(ctx, userID)
	}
}

func (s *reportService) ListReports(ctx context.Context, actor auth.Identity) ([]model.Report, error) {
	if err := auth.Authorize(actor.Role, auth.PermListReports); err != nil {
		return nil, err
	}
	reports, err := s.reports.List(ctx, true)
	if err != nil {
		s.logger.Error("list reports", zap.Error(err))
		return nil, apperrors.Persistence(err)
	}
	return reports, nil
}

// parseCoordinate parses an optional coordinate bounded by ±limit.
func parseCoordinate(raw string, limit float64) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || v < -limit || v > limit {
		return nil, apperrors.Validation(MsgInvalidCoordinates)
	}
	return &v, nil
}
