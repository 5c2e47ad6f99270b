package models

import (
	"time"
)

// Secret is a message posted to the board. Secrets are owned by exactly one
// user; deleting a secret removes its replies with it.
type Secret struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"not null" json:"text"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Replies   []Reply   `gorm:"foreignKey:SecretID" json:"replies"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
