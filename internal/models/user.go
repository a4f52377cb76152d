package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleClient     Role = "client"
	RoleFreelancer Role = "freelancer"
	RoleAdmin      Role = "admin"
)

// User is the authenticated principal. Role never changes after creation;
// there is no endpoint that mutates it.
type User struct {
	ID    uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name  string    `gorm:"not null" json:"name"`
	Email string    `gorm:"uniqueIndex;not null" json:"email"`

	Password   string `gorm:"not null" json:"-"`
	Role       Role   `gorm:"type:varchar(20);index" json:"role"`
	IsActive   bool   `gorm:"default:true" json:"is_active"`
	IsVerified bool   `gorm:"default:false" json:"is_verified"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ClientProfile     *ClientProfile     `gorm:"foreignKey:UserID;references:ID" json:"client_profile,omitempty"`
	FreelancerProfile *FreelancerProfile `gorm:"foreignKey:UserID;references:ID" json:"freelancer_profile,omitempty"`
}

// IsAdmin is the admin carve-out used by every ownership check.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// CanMutate reports whether the user may mutate an entity owned by ownerID.
func (u *User) CanMutate(ownerID uuid.UUID) bool {
	if u == nil {
		return false
	}
	return u.ID == ownerID || u.Role == RoleAdmin
}
