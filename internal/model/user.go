package model

import "time"

// Role is the closed set of user roles.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperadmin:
		return true
	}
	return false
}

// User represents an account holder.
//
// SuperadminSlot is non-nil only on the superadmin record. It carries a unique
// index, so the store itself rejects a second superadmin.
type User struct {
	ID             string    `json:"id" gorm:"type:char(36);primaryKey" bson:"_id"`
	Name           string    `json:"name" gorm:"size:255;not null" bson:"name"`
	Email          string    `json:"email" gorm:"uniqueIndex;size:255;not null" bson:"email"`
	PasswordHash   string    `json:"-" gorm:"size:255;not null" bson:"password_hash"`
	Role           Role      `json:"role" gorm:"size:20;not null;default:'user';index" bson:"role"`
	SuperadminSlot *bool     `json:"-" gorm:"uniqueIndex" bson:"superadmin_slot,omitempty"`
	TotalPoints    int       `json:"totalPoints" gorm:"not null;default:0;index" bson:"total_points"`
	SpentPoints    int       `json:"-" gorm:"not null;default:0" bson:"spent_points"`
	CreatedAt      time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" bson:"updated_at"`
}

// AvailablePoints is what the user can still spend on rewards.
func (u *User) AvailablePoints() int {
	return u.TotalPoints - u.SpentPoints
}

// Summary is the public projection returned by auth endpoints.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// UserSummary never carries credentials.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Owner is the shallow projection of a report's owner.
type Owner struct {
	ID    string `json:"id" bson:"_id"`
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
}
