// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents an account on the Whisperwall board. An account is created
// either by local registration (email + password hash) or on first Google
// sign-in (email + google_id, no password). Both identifiers are unique but
// optional; rows where they are NULL do not collide.
type User struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Email    *string `gorm:"uniqueIndex" json:"email,omitempty"`
	Password string  `json:"-"`
	GoogleID *string `gorm:"uniqueIndex" json:"-"`
	// LegacySecrets holds the pre-migration representation of this user's
	// secrets: a JSON array of plain strings imported from the old data
	// model. It is emptied by the startup migration and stays empty.
	LegacySecrets string    `gorm:"type:text" json:"-"`
	Secrets       []Secret  `gorm:"foreignKey:UserID" json:"secrets,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HasPassword reports whether local password login is available for the user.
func (u *User) HasPassword() bool {
	return u.Password != ""
}
