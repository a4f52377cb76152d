package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is left by the client after a project completes. The rating feeds
// the freelancer's running average through the profile stats fold.
type Review struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID  uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"project_id"`
	ClientID   uuid.UUID `gorm:"type:uuid;index" json:"client_id"`
	RevieweeID uuid.UUID `gorm:"type:uuid;index" json:"reviewee_id"`

	Rating  int    `gorm:"not null" json:"rating"` // 1..5
	Comment string `gorm:"type:text" json:"comment"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Client *User `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}
