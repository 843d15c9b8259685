package service

import (
	"context"
	"mime/multipart"
	"sync"

	"github.com/stretchr/testify/mock"

	"cleansweep/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) ExistsWithRole(ctx context.Context, role model.Role) (bool, error) {
	args := m.Called(ctx, role)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id string, from, to model.Role) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

func (m *MockUserRepository) AddPoints(ctx context.Context, id string, delta int) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

func (m *MockUserRepository) Top(ctx context.Context, limit int) ([]model.User, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockReportRepository is a mock implementation of ReportRepository.
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Create(ctx context.Context, report *model.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportRepository) List(ctx context.Context, withOwner bool) ([]model.Report, error) {
	args := m.Called(ctx, withOwner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Report), args.Error(1)
}

func (m *MockReportRepository) CountByType(ctx context.Context) (map[model.ReportType]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[model.ReportType]int64), args.Error(1)
}

// MockRedemptionRepository is a mock implementation of RedemptionRepository.
type MockRedemptionRepository struct {
	mock.Mock
}

func (m *MockRedemptionRepository) Redeem(ctx context.Context, userID string, reward model.Reward) (*model.Redemption, error) {
	args := m.Called(ctx, userID, reward)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Redemption), args.Error(1)
}

func (m *MockRedemptionRepository) ListByUser(ctx context.Context, userID string) ([]model.Redemption, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Redemption), args.Error(1)
}

// MockMediaStore is a mock implementation of MediaStore.
type MockMediaStore struct {
	mock.Mock
}

func (m *MockMediaStore) Accept(ctx context.Context, files []*multipart.FileHeader, reportType model.ReportType) ([]string, error) {
	args := m.Called(ctx, files, reportType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockMediaStore) Discard(paths []string) {
	m.Called(paths)
}

// fakeActivity collects recorded entries in memory.
type fakeActivity struct {
	mu      sync.Mutex
	entries []model.ActivityLog
}

func (f *fakeActivity) Record(_ context.Context, entry model.ActivityLog) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
}

func (f *fakeActivity) Recent(context.Context, int) ([]model.ActivityLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.ActivityLog, len(f.entries))
	for i, e := range f.entries {
		out[len(f.entries)-1-i] = e
	}
	return out, nil
}

func (f *fakeActivity) Close() {}

func (f *fakeActivity) events() []model.ActivityEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	events := make([]model.ActivityEvent, len(f.entries))
	for i, e := range f.entries {
		events[i] = e.Event
	}
	return events
}
