package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ProposalStatus string

const (
	ProposalSubmitted   ProposalStatus = "submitted"
	ProposalShortlisted ProposalStatus = "shortlisted"
	ProposalAccepted    ProposalStatus = "accepted"
	ProposalRejected    ProposalStatus = "rejected"
	ProposalWithdrawn   ProposalStatus = "withdrawn"
)

// FeedbackOtherSelected is stamped on sibling proposals when one is accepted.
const FeedbackOtherSelected = "Another freelancer was selected for this project."

type Proposal struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID    uuid.UUID `gorm:"type:uuid;not null;index:idx_proposal_pair" json:"project_id"`
	FreelancerID uuid.UUID `gorm:"type:uuid;not null;index:idx_proposal_pair" json:"freelancer_id"`

	CoverLetter string `gorm:"type:text" json:"cover_letter"`

	BudgetType   BudgetType `gorm:"type:varchar(20)" json:"budget_type"`
	BudgetAmount int64      `json:"budget_amount"`

	TimelineUnit     TimelineUnit `gorm:"type:varchar(20)" json:"timeline_unit"`
	TimelineDuration int          `json:"timeline_duration"`

	Milestones datatypes.JSON `json:"milestones"` // ordered [{title, amount, due_date}]

	Status         ProposalStatus `gorm:"type:varchar(20);default:'submitted';index" json:"status"`
	ViewedByClient bool           `gorm:"default:false" json:"viewed_by_client"`
	IsShortlisted  bool           `gorm:"default:false" json:"is_shortlisted"`
	Feedback       string         `gorm:"type:text" json:"feedback"`

	SubmittedAt time.Time  `json:"submitted_at"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Project    *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Freelancer *User    `gorm:"foreignKey:FreelancerID" json:"freelancer,omitempty"`
}

// IsTerminal: accepted/rejected/withdrawn proposals never change again.
func (p *Proposal) IsTerminal() bool {
	switch p.Status {
	case ProposalAccepted, ProposalRejected, ProposalWithdrawn:
		return true
	}
	return false
}

// ProposalStats is the pure fold over a freelancer's own proposals.
type ProposalStats struct {
	Total       int `json:"total"`
	Submitted   int `json:"submitted"`
	Shortlisted int `json:"shortlisted"`
	Accepted    int `json:"accepted"`
	Rejected    int `json:"rejected"`
	Withdrawn   int `json:"withdrawn"`
	SuccessRate int `json:"success_rate"` // round(accepted/total*100), 0 when total is 0
}
