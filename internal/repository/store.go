package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no record matches.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey is returned when a unique constraint rejects a write.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrInsufficientPoints is returned when a redemption costs more than the user has left.
	ErrInsufficientPoints = errors.New("insufficient points")
)

// Store bundles the repositories of one backend.
type Store struct {
	Users       UserRepository
	Reports     ReportRepository
	Redemptions RedemptionRepository
	Activity    ActivityRepository
}

// NewGormStore builds GORM-backed repositories. The DB should be opened with
// TranslateError so unique violations surface as gorm.ErrDuplicatedKey.
func NewGormStore(db *gorm.DB) *Store {
	return &Store{
		Users:       NewUserRepository(db),
		Reports:     NewReportRepository(db),
		Redemptions: NewRedemptionRepository(db),
		Activity:    NewActivityRepository(db),
	}
}

// NewMongoStore builds MongoDB-backed repositories.
func NewMongoStore(db *mongo.Database) *Store {
	return &Store{
		Users:       NewMongoUserRepository(db),
		Reports:     NewMongoReportRepository(db),
		Redemptions: NewMongoRedemptionRepository(db),
		Activity:    NewMongoActivityRepository(db),
	}
}

func newID() string {
	return uuid.NewString()
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func translateGormError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateKey
	}
	return err
}

func translateMongoError(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicateKey
	}
	return err
}
