package model

import "time"

// ActivityEvent names an auditable action.
type ActivityEvent string

const (
	EventUserRegistered         ActivityEvent = "user.registered"
	EventAdminCreated           ActivityEvent = "admin.created"
	EventUserPromoted           ActivityEvent = "user.promoted"
	EventSuperadminBootstrapped ActivityEvent = "superadmin.bootstrapped"
	EventReportCreated          ActivityEvent = "report.created"
	EventRewardRedeemed         ActivityEvent = "reward.redeemed"
)

// ActivityLog is an append-only audit entry.
type ActivityLog struct {
	ID        uint          `json:"id" gorm:"primaryKey" bson:"-"`
	Event     ActivityEvent `json:"event" gorm:"size:50;not null;index" bson:"event"`
	ActorID   string        `json:"actorId,omitempty" gorm:"type:char(36);index" bson:"actor_id,omitempty"`
	SubjectID string        `json:"subjectId,omitempty" gorm:"type:char(36)" bson:"subject_id,omitempty"`
	Detail    string        `json:"detail,omitempty" gorm:"size:500" bson:"detail,omitempty"`
	CreatedAt time.Time     `json:"createdAt" gorm:"index" bson:"created_at"`
}
