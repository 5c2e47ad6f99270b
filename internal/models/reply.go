package models

import (
	"time"
)

// Reply is a threaded response to a Secret. The author does not have to be
// the secret's owner, and only the author may remove the reply.
type Reply struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"not null" json:"text"`
	SecretID  uint      `gorm:"not null;index" json:"secret_id"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
