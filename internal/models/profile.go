package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ClientProfile is created exactly once per client user; aggregate stats are
// only written through the stats fold, never set directly by callers.
type ClientProfile struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`

	CompanyName string `gorm:"type:varchar(150)" json:"company_name"`
	Industry    string `gorm:"type:varchar(80)" json:"industry"`
	Location    string `gorm:"type:varchar(120)" json:"location"`
	Description string `gorm:"type:text" json:"description"`
	Website     string `gorm:"type:varchar(200)" json:"website"`
	CompanySize string `gorm:"type:varchar(40)" json:"company_size"`

	TotalProjects int     `gorm:"default:0" json:"total_projects"`
	TotalSpent    int64   `gorm:"default:0" json:"total_spent"`
	AverageRating float64 `gorm:"default:0" json:"average_rating"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type FreelancerProfile struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`

	FirstName string `gorm:"type:varchar(80)" json:"first_name"`
	LastName  string `gorm:"type:varchar(80)" json:"last_name"`
	Title     string `gorm:"type:varchar(120)" json:"title"`
	Bio       string `gorm:"type:text" json:"bio"`
	Location  string `gorm:"type:varchar(120)" json:"location"`
	PhotoURL  string `gorm:"type:text" json:"photo_url"`

	HourlyRate int64          `gorm:"default:0" json:"hourly_rate"`
	Skills     datatypes.JSON `json:"skills"`    // ["go", "react", ...]
	Portfolio  datatypes.JSON `json:"portfolio"` // { video_url, images: [...] }

	CompletedProjects int     `gorm:"default:0" json:"completed_projects"`
	TotalEarnings     int64   `gorm:"default:0" json:"total_earnings"`
	AverageRating     float64 `gorm:"default:0" json:"average_rating"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
