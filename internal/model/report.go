package model

import (
	"encoding/json"
	"time"
)

// ReportType distinguishes a waste sighting from a completed cleanup.
type ReportType string

const (
	ReportTypeReport  ReportType = "report"
	ReportTypeCleanup ReportType = "cleanup"
)

// Valid reports whether t is one of the two report types.
func (t ReportType) Valid() bool {
	return t == ReportTypeReport || t == ReportTypeCleanup
}

// MaxMedia is how many media files a report of this type may carry.
func (t ReportType) MaxMedia() int {
	if t == ReportTypeReport {
		return 1
	}
	return 2
}

const (
	SeverityHigh         = "High"
	SeverityNotSpecified = "Not specified"
	StatusReported       = "Reported"
)

// SeverityFor derives a report's severity from its type.
func SeverityFor(t ReportType) string {
	if t == ReportTypeReport {
		return SeverityHigh
	}
	return SeverityNotSpecified
}

// Report is a citizen-submitted waste or cleanup record.
//
// UserID is a weak reference to the owner; Owner is only filled by list queries
// that resolve it.
type Report struct {
	ID          string     `json:"_id" gorm:"type:char(36);primaryKey" bson:"_id"`
	Title       string     `json:"title" gorm:"size:255;not null" bson:"title"`
	Description string     `json:"description" gorm:"type:text;not null" bson:"description"`
	Type        ReportType `json:"type" gorm:"size:20;not null;index" bson:"type"`
	Latitude    *float64   `json:"latitude,omitempty" bson:"latitude,omitempty"`
	Longitude   *float64   `json:"longitude,omitempty" bson:"longitude,omitempty"`
	MediaURLs   StringList `json:"mediaUrls" gorm:"type:text;not null" bson:"media_urls"`
	UserID      string     `json:"-" gorm:"type:char(36);not null;index" bson:"user"`
	Owner       *Owner     `json:"-" gorm:"-" bson:"-"`
	Severity    string     `json:"severity" gorm:"size:50;not null;default:'Not specified'" bson:"severity"`
	Status      string     `json:"status" gorm:"size:50;not null;default:'Reported'" bson:"status"`
	CreatedAt   time.Time  `json:"createdAt" gorm:"index" bson:"created_at"`
}

// MarshalJSON renders "user" as the resolved owner when present, otherwise as
// the bare owner id.
func (r Report) MarshalJSON() ([]byte, error) {
	type alias Report
	var user any = r.UserID
	if r.Owner != nil {
		user = r.Owner
	}
	return json.Marshal(struct {
		alias
		User any `json:"user"`
	}{alias: alias(r), User: user})
}
