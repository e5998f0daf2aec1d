package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is one chat entry in a user's conversation with the agent fleet.
// Sender is either "USER" or an agent label (SAFETY_SENTINEL, CITY_CORE, ...).
type Message struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;index;not null"`
	Sender    string    `json:"sender" gorm:"not null"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	Metadata  string    `json:"metadata,omitempty" gorm:"type:text"` // JSON blob: grounding points, capture URLs
	CreatedAt time.Time `json:"timestamp" gorm:"autoCreateTime"`
}
