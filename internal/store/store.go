// Package store defines the narrow persistence contracts the rule layer
// depends on, plus the GORM-backed and in-memory implementations.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/workhive-id/workhive_be/internal/models"
)

// ErrNotFound is returned by every Get* when no row matches, so callers can
// compare with errors.Is regardless of the backing implementation.
var ErrNotFound = errors.New("record not found")

type UserStore interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	SaveUser(ctx context.Context, u *models.User) error
}

type ProjectStore interface {
	CreateProject(ctx context.Context, p *models.Project) error
	GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error)
	SaveProject(ctx context.Context, p *models.Project) error
	DeleteProject(ctx context.Context, id uuid.UUID) error

	// Atomic counter bumps, used by best-effort side effects.
	IncrementProjectViews(ctx context.Context, id uuid.UUID) error
	IncrementProposalCount(ctx context.Context, id uuid.UUID) error

	// ordered=true asks the store to sort by created_at descending. The
	// unordered mode exists for stores that cannot serve the ordered query;
	// both modes must return the same set.
	ListProjectsByClient(ctx context.Context, clientID uuid.UUID, ordered bool) ([]models.Project, error)
	ListPublishedProjects(ctx context.Context, ordered bool) ([]models.Project, error)
	ListFeaturedProjects(ctx context.Context, ordered bool) ([]models.Project, error)
	ListProjectsBySkills(ctx context.Context, skills []string, ordered bool) ([]models.Project, error)
}

type ProposalStore interface {
	CreateProposal(ctx context.Context, p *models.Proposal) error
	GetProposal(ctx context.Context, id uuid.UUID) (*models.Proposal, error)
	SaveProposal(ctx context.Context, p *models.Proposal) error
	GetProposalForProject(ctx context.Context, projectID, freelancerID uuid.UUID) (*models.Proposal, error)
	ListProposalsByProject(ctx context.Context, projectID uuid.UUID) ([]models.Proposal, error)
	ListProposalsByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Proposal, error)
}

type ProfileStore interface {
	GetClientProfile(ctx context.Context, userID uuid.UUID) (*models.ClientProfile, error)
	CreateClientProfile(ctx context.Context, p *models.ClientProfile) error
	SaveClientProfile(ctx context.Context, p *models.ClientProfile) error
	GetFreelancerProfile(ctx context.Context, userID uuid.UUID) (*models.FreelancerProfile, error)
	CreateFreelancerProfile(ctx context.Context, p *models.FreelancerProfile) error
	SaveFreelancerProfile(ctx context.Context, p *models.FreelancerProfile) error
}

type ChatStore interface {
	CreateConversation(ctx context.Context, conv *models.Conversation) error
	GetConversation(ctx context.Context, id uuid.UUID) (*models.Conversation, error)
	FindConversation(ctx context.Context, clientID, freelancerID uuid.UUID) (*models.Conversation, error)
	ListConversationsByUser(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error)
	TouchConversation(ctx context.Context, id uuid.UUID, at time.Time) error

	CreateMessage(ctx context.Context, msg *models.Message) error
	ListMessagesByConversation(ctx context.Context, conversationID uuid.UUID) ([]models.Message, error)
	MarkMessagesRead(ctx context.Context, conversationID, readerID uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
}

type ReviewStore interface {
	CreateReview(ctx context.Context, r *models.Review) error
	GetReviewByProject(ctx context.Context, projectID uuid.UUID) (*models.Review, error)
	ListReviewsByReviewee(ctx context.Context, revieweeID uuid.UUID) ([]models.Review, error)
}

type FileStore interface {
	CreateFile(ctx context.Context, f *models.FileRecord) error
	GetFile(ctx context.Context, id uuid.UUID) (*models.FileRecord, error)
	SaveFile(ctx context.Context, f *models.FileRecord) error
	DeleteFile(ctx context.Context, id uuid.UUID) error
	ListFilesByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.FileRecord, error)
	ListFilesByProject(ctx context.Context, projectID uuid.UUID) ([]models.FileRecord, error)
	ListStoredNames(ctx context.Context) ([]string, error)
}
