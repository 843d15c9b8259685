package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cleansweep/internal/db"
	"cleansweep/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))
	return NewGormStore(gdb)
}

func createUser(t *testing.T, s *Store, name, email string, role model.Role) *model.User {
	t.Helper()
	u := &model.User{Name: name, Email: email, PasswordHash: "x", Role: role}
	if role == model.RoleSuperadmin {
		slot := true
		u.SuperadminSlot = &slot
	}
	require.NoError(t, s.Users.Create(context.Background(), u))
	return u
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := createUser(t, s, "Asha", "asha@example.com", model.RoleUser)
	assert.Len(t, u.ID, 36)

	byEmail, err := s.Users.FindByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byID, err := s.Users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha", byID.Name)

	_, err = s.Users.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.Users.Create(ctx, &model.User{Name: "Dup", Email: "asha@example.com", PasswordHash: "x", Role: model.RoleUser})
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestUserRepository_SingleSuperadmin(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createUser(t, s, "Root", "root@example.com", model.RoleSuperadmin)
	exists, err := s.Users.ExistsWithRole(ctx, model.RoleSuperadmin)
	require.NoError(t, err)
	assert.True(t, exists)

	slot := true
	err = s.Users.Create(ctx, &model.User{
		Name: "Root2", Email: "root2@example.com", PasswordHash: "x",
		Role: model.RoleSuperadmin, SuperadminSlot: &slot,
	})
	assert.ErrorIs(t, err, ErrDuplicateKey)

	// regular users leave the slot empty and never collide
	createUser(t, s, "A", "a@example.com", model.RoleUser)
	createUser(t, s, "B", "b@example.com", model.RoleUser)
}

func TestUserRepository_UpdateRole(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createUser(t, s, "Asha", "asha@example.com", model.RoleUser)

	require.NoError(t, s.Users.UpdateRole(ctx, u.ID, model.RoleUser, model.RoleAdmin))
	got, err := s.Users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, got.Role)

	assert.ErrorIs(t, s.Users.UpdateRole(ctx, u.ID, model.RoleUser, model.RoleAdmin), ErrNotFound)
	assert.ErrorIs(t, s.Users.UpdateRole(ctx, "missing", model.RoleUser, model.RoleAdmin), ErrNotFound)
}

func TestUserRepository_PointsAndTop(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := createUser(t, s, "Asha", "asha@example.com", model.RoleUser)
	b := createUser(t, s, "Bilal", "bilal@example.com", model.RoleUser)
	createUser(t, s, "Chen", "chen@example.com", model.RoleUser)

	require.NoError(t, s.Users.AddPoints(ctx, b.ID, 100))
	require.NoError(t, s.Users.AddPoints(ctx, a.ID, 50))
	require.NoError(t, s.Users.AddPoints(ctx, a.ID, 50))
	assert.ErrorIs(t, s.Users.AddPoints(ctx, "missing", 50), ErrNotFound)

	top, err := s.Users.Top(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Asha", top[0].Name)
	assert.Equal(t, "Bilal", top[1].Name)
	assert.Equal(t, 100, top[0].TotalPoints)

	n, err := s.Users.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestReportRepository_CreateListCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := createUser(t, s, "Asha", "asha@example.com", model.RoleUser)

	first := &model.Report{
		Title: "Dump", Description: "Plastic by the lake", Type: model.ReportTypeReport,
		MediaURLs: model.StringList{"/uploads/1-a.jpg"}, UserID: owner.ID,
	}
	require.NoError(t, s.Reports.Create(ctx, first))
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, model.StatusReported, first.Status)
	assert.Equal(t, model.SeverityNotSpecified, first.Severity)

	time.Sleep(2 * time.Millisecond)
	second := &model.Report{
		Title: "Cleaned", Description: "Done", Type: model.ReportTypeCleanup,
		MediaURLs: model.StringList{"/uploads/2-a.jpg", "/uploads/3-b.mp4"}, UserID: "deleted-user",
	}
	require.NoError(t, s.Reports.Create(ctx, second))

	reports, err := s.Reports.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, second.ID, reports[0].ID)
	assert.Nil(t, reports[0].Owner)
	require.NotNil(t, reports[1].Owner)
	assert.Equal(t, "asha@example.com", reports[1].Owner.Email)
	assert.Equal(t, model.StringList{"/uploads/2-a.jpg", "/uploads/3-b.mp4"}, reports[0].MediaURLs)

	plain, err := s.Reports.List(ctx, false)
	require.NoError(t, err)
	for _, r := range plain {
		assert.Nil(t, r.Owner)
	}

	counts, err := s.Reports.CountByType(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts[model.ReportTypeReport])
	assert.EqualValues(t, 1, counts[model.ReportTypeCleanup])
}

func TestReportRepository_ListEmpty(t *testing.T) {
	s := newTestStore(t)

	reports, err := s.Reports.List(context.Background(), true)
	require.NoError(t, err)
	assert.NotNil(t, reports)
	assert.Empty(t, reports)
}

func TestRedemptionRepository_Redeem(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createUser(t, s, "Asha", "asha@example.com", model.RoleUser)
	require.NoError(t, s.Users.AddPoints(ctx, u.ID, 100))

	pen, _ := model.FindReward("Paper Pen")
	seeds, _ := model.FindReward("Vegetable Seeds")

	red, err := s.Redemptions.Redeem(ctx, u.ID, pen)
	require.NoError(t, err)
	assert.Equal(t, "Paper Pen", red.Title)

	_, err = s.Redemptions.Redeem(ctx, u.ID, pen)
	assert.ErrorIs(t, err, ErrDuplicateKey)

	_, err = s.Redemptions.Redeem(ctx, u.ID, seeds)
	assert.ErrorIs(t, err, ErrInsufficientPoints)

	got, err := s.Users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, got.TotalPoints)
	assert.Equal(t, 50, got.SpentPoints)

	list, err := s.Redemptions.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Paper Pen", list[0].Title)
}

func TestRedemptionRepository_ConcurrentSpend(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createUser(t, s, "Asha", "asha@example.com", model.RoleUser)
	require.NoError(t, s.Users.AddPoints(ctx, u.ID, 1500))

	grow, _ := model.FindReward("5 Grow Bags")
	saplings, _ := model.FindReward("5 Saplings")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, reward := range []model.Reward{grow, saplings} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = s.Redemptions.Redeem(ctx, u.ID, reward)
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrInsufficientPoints)
		}
	}
	assert.Equal(t, 1, succeeded)

	got, err := s.Users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, got.SpentPoints, got.TotalPoints)
}

func TestActivityRepository_BatchAndRecent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Now().UTC()

	require.NoError(t, s.Activity.CreateBatch(ctx, nil))
	require.NoError(t, s.Activity.CreateBatch(ctx, []model.ActivityLog{
		{Event: model.EventUserRegistered, ActorID: "u1", CreatedAt: base},
		{Event: model.EventReportCreated, ActorID: "u1", CreatedAt: base.Add(time.Second)},
		{Event: model.EventRewardRedeemed, ActorID: "u1", Detail: "Paper Pen", CreatedAt: base.Add(2 * time.Second)},
	}))

	recent, err := s.Activity.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, model.EventRewardRedeemed, recent[0].Event)
	assert.Equal(t, model.EventReportCreated, recent[1].Event)
}
