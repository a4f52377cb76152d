package models

import (
	"time"

	"github.com/google/uuid"
)

type FileCategory string

const (
	FilePortfolioImage     FileCategory = "portfolio_image"
	FileProfilePhoto       FileCategory = "profile_photo"
	FileProjectAttachment  FileCategory = "project_attachment"
	FileProposalAttachment FileCategory = "proposal_attachment"
	FileMessageAttachment  FileCategory = "message_attachment"
	FileDeliverable        FileCategory = "deliverable"
)

// MaxFileSize is enforced before any storage call is made.
const MaxFileSize = 50 * 1024 * 1024 // 50 MiB

// CategoryIsPublic: public visibility is derived from the category alone.
func CategoryIsPublic(c FileCategory) bool {
	return c == FilePortfolioImage || c == FileProfilePhoto
}

// AllowedMimeTypes is the upload allow-list.
var AllowedMimeTypes = map[string]bool{
	"image/jpeg":         true,
	"image/png":          true,
	"image/webp":         true,
	"image/gif":          true,
	"application/pdf":    true,
	"application/zip":    true,
	"text/plain":         true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":       true,
}

// FileRecord is the metadata row for an uploaded binary. The binary itself
// lives in object storage under StoredName.
type FileRecord struct {
	ID      uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`

	ProjectID  *uuid.UUID `gorm:"type:uuid;index" json:"project_id,omitempty"`
	ProposalID *uuid.UUID `gorm:"type:uuid;index" json:"proposal_id,omitempty"`
	MessageID  *uuid.UUID `gorm:"type:uuid;index" json:"message_id,omitempty"`

	StoredName   string       `gorm:"uniqueIndex;not null" json:"stored_name"`
	OriginalName string       `gorm:"not null" json:"original_name"`
	Size         int64        `json:"size"`
	MimeType     string       `gorm:"type:varchar(120)" json:"mime_type"`
	Category     FileCategory `gorm:"type:varchar(40);index" json:"category"`
	IsPublic     bool         `gorm:"default:false" json:"is_public"`

	UploadedAt time.Time `json:"uploaded_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
