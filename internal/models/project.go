package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ProjectStatus string

const (
	ProjectDraft       ProjectStatus = "draft"
	ProjectPublished   ProjectStatus = "published"
	ProjectInProgress  ProjectStatus = "in_progress"
	ProjectUnderReview ProjectStatus = "under_review"
	ProjectCompleted   ProjectStatus = "completed"
	ProjectCancelled   ProjectStatus = "cancelled"
	ProjectPaused      ProjectStatus = "paused"
)

type ProjectVisibility string

const (
	VisibilityPublic     ProjectVisibility = "public"
	VisibilityPrivate    ProjectVisibility = "private"
	VisibilityInviteOnly ProjectVisibility = "invite_only"
)

type BudgetType string

const (
	BudgetFixed  BudgetType = "fixed"
	BudgetHourly BudgetType = "hourly"
	BudgetRange  BudgetType = "range"
)

type TimelineUnit string

const (
	TimelineDays     TimelineUnit = "days"
	TimelineWeeks    TimelineUnit = "weeks"
	TimelineMonths   TimelineUnit = "months"
	TimelineFlexible TimelineUnit = "flexible"
)

type Project struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ClientID uuid.UUID `gorm:"type:uuid;not null;index" json:"client_id"`

	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Category    string `gorm:"type:varchar(80);index" json:"category"`
	Subcategory string `gorm:"type:varchar(80)" json:"subcategory"`

	// Budget is a tagged union: fixed/hourly use Amount, range uses Min/Max.
	BudgetType   BudgetType `gorm:"type:varchar(20)" json:"budget_type"`
	BudgetAmount int64      `json:"budget_amount"`
	BudgetMin    int64      `json:"budget_min"`
	BudgetMax    int64      `json:"budget_max"`

	// Timeline: flexible has no duration.
	TimelineUnit     TimelineUnit `gorm:"type:varchar(20)" json:"timeline_unit"`
	TimelineDuration int          `json:"timeline_duration"`

	Skills     datatypes.JSON    `json:"skills"`     // ["go", "postgres", ...]
	Milestones datatypes.JSON    `json:"milestones"` // [{title, amount, due_date}, ...]
	Status     ProjectStatus     `gorm:"type:varchar(20);default:'draft';index" json:"status"`
	Visibility ProjectVisibility `gorm:"type:varchar(20);default:'public'" json:"visibility"`
	Featured   bool              `gorm:"default:false;index" json:"featured"`

	AssignedFreelancerID *uuid.UUID `gorm:"type:uuid;index" json:"assigned_freelancer_id,omitempty"`

	ProposalCount int   `gorm:"default:0" json:"proposal_count"`
	ViewCount     int64 `gorm:"default:0" json:"view_count"`

	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	Client             *User `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	AssignedFreelancer *User `gorm:"foreignKey:AssignedFreelancerID" json:"assigned_freelancer,omitempty"`
}

// IsDeletable: once work started or finished the project must stay on record.
func (p *Project) IsDeletable() bool {
	return p.Status != ProjectInProgress && p.Status != ProjectCompleted
}

var projectStatusRank = map[ProjectStatus]int{
	ProjectDraft:       0,
	ProjectPublished:   1,
	ProjectInProgress:  2,
	ProjectUnderReview: 3,
	ProjectCompleted:   4,
}

// CanTransitionTo enforces the one-directional lifecycle. Cancelled is
// reachable from any non-terminal status; Paused toggles with the active
// statuses instead of advancing.
func (p *Project) CanTransitionTo(next ProjectStatus) bool {
	if p.Status == next {
		return false
	}
	switch next {
	case ProjectCancelled:
		return p.Status != ProjectCompleted && p.Status != ProjectCancelled
	case ProjectPaused:
		return p.Status == ProjectPublished || p.Status == ProjectInProgress
	}
	if p.Status == ProjectPaused {
		// resume
		return next == ProjectPublished || next == ProjectInProgress
	}
	from, okFrom := projectStatusRank[p.Status]
	to, okTo := projectStatusRank[next]
	return okFrom && okTo && to > from
}
