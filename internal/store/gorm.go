package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/workhive-id/workhive_be/internal/models"
)

// Gorm implements every store interface on top of Postgres.
type Gorm struct {
	DB *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{DB: db}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// ---- users ----

func (g *Gorm) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := g.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (g *Gorm) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := g.DB.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (g *Gorm) CreateUser(ctx context.Context, u *models.User) error {
	return g.DB.WithContext(ctx).Create(u).Error
}

func (g *Gorm) SaveUser(ctx context.Context, u *models.User) error {
	return g.DB.WithContext(ctx).Save(u).Error
}

// ---- projects ----

func (g *Gorm) CreateProject(ctx context.Context, p *models.Project) error {
	return g.DB.WithContext(ctx).Create(p).Error
}

func (g *Gorm) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var p models.Project
	if err := g.DB.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (g *Gorm) SaveProject(ctx context.Context, p *models.Project) error {
	return g.DB.WithContext(ctx).Save(p).Error
}

func (g *Gorm) DeleteProject(ctx context.Context, id uuid.UUID) error {
	return g.DB.WithContext(ctx).Delete(&models.Project{}, "id = ?", id).Error
}

func (g *Gorm) IncrementProjectViews(ctx context.Context, id uuid.UUID) error {
	return g.DB.WithContext(ctx).Model(&models.Project{}).
		Where("id = ?", id).
		Update("view_count", gorm.Expr("view_count + 1")).Error
}

func (g *Gorm) IncrementProposalCount(ctx context.Context, id uuid.UUID) error {
	return g.DB.WithContext(ctx).Model(&models.Project{}).
		Where("id = ?", id).
		Update("proposal_count", gorm.Expr("proposal_count + 1")).Error
}

func (g *Gorm) listProjects(ctx context.Context, ordered bool, conds func(*gorm.DB) *gorm.DB) ([]models.Project, error) {
	q := conds(g.DB.WithContext(ctx).Model(&models.Project{}))
	if ordered {
		q = q.Order("created_at DESC")
	}
	var out []models.Project
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (g *Gorm) ListProjectsByClient(ctx context.Context, clientID uuid.UUID, ordered bool) ([]models.Project, error) {
	return g.listProjects(ctx, ordered, func(q *gorm.DB) *gorm.DB {
		return q.Where("client_id = ?", clientID)
	})
}

func (g *Gorm) ListPublishedProjects(ctx context.Context, ordered bool) ([]models.Project, error) {
	return g.listProjects(ctx, ordered, func(q *gorm.DB) *gorm.DB {
		return q.Where("status = ? AND visibility = ?", models.ProjectPublished, models.VisibilityPublic)
	})
}

func (g *Gorm) ListFeaturedProjects(ctx context.Context, ordered bool) ([]models.Project, error) {
	return g.listProjects(ctx, ordered, func(q *gorm.DB) *gorm.DB {
		return q.Where("featured = ? AND status = ?", true, models.ProjectPublished)
	})
}

func (g *Gorm) ListProjectsBySkills(ctx context.Context, skills []string, ordered bool) ([]models.Project, error) {
	return g.listProjects(ctx, ordered, func(q *gorm.DB) *gorm.DB {
		q = q.Where("status = ?", models.ProjectPublished)
		if len(skills) == 0 {
			return q
		}
		match := g.DB.Where(datatypes.JSONArrayQuery("skills").Contains(skills[0]))
		for _, s := range skills[1:] {
			match = match.Or(datatypes.JSONArrayQuery("skills").Contains(s))
		}
		return q.Where(match)
	})
}

// ---- proposals ----

func (g *Gorm) CreateProposal(ctx context.Context, p *models.Proposal) error {
	return g.DB.WithContext(ctx).Create(p).Error
}

func (g *Gorm) GetProposal(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	var p models.Proposal
	if err := g.DB.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (g *Gorm) SaveProposal(ctx context.Context, p *models.Proposal) error {
	return g.DB.WithContext(ctx).Save(p).Error
}

func (g *Gorm) GetProposalForProject(ctx context.Context, projectID, freelancerID uuid.UUID) (*models.Proposal, error) {
	var p models.Proposal
	err := g.DB.WithContext(ctx).
		First(&p, "project_id = ? AND freelancer_id = ?", projectID, freelancerID).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (g *Gorm) ListProposalsByProject(ctx context.Context, projectID uuid.UUID) ([]models.Proposal, error) {
	var out []models.Proposal
	err := g.DB.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("submitted_at DESC").
		Find(&out).Error
	return out, err
}

func (g *Gorm) ListProposalsByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Proposal, error) {
	var out []models.Proposal
	err := g.DB.WithContext(ctx).
		Where("freelancer_id = ?", freelancerID).
		Order("submitted_at DESC").
		Find(&out).Error
	return out, err
}

// ---- profiles ----

func (g *Gorm) GetClientProfile(ctx context.Context, userID uuid.UUID) (*models.ClientProfile, error) {
	var p models.ClientProfile
	if err := g.DB.WithContext(ctx).First(&p, "user_id = ?", userID).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (g *Gorm) CreateClientProfile(ctx context.Context, p *models.ClientProfile) error {
	return g.DB.WithContext(ctx).Create(p).Error
}

func (g *Gorm) SaveClientProfile(ctx context.Context, p *models.ClientProfile) error {
	return g.DB.WithContext(ctx).Save(p).Error
}

func (g *Gorm) GetFreelancerProfile(ctx context.Context, userID uuid.UUID) (*models.FreelancerProfile, error) {
	var p models.FreelancerProfile
	if err := g.DB.WithContext(ctx).First(&p, "user_id = ?", userID).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (g *Gorm) CreateFreelancerProfile(ctx context.Context, p *models.FreelancerProfile) error {
	return g.DB.WithContext(ctx).Create(p).Error
}

func (g *Gorm) SaveFreelancerProfile(ctx context.Context, p *models.FreelancerProfile) error {
	return g.DB.WithContext(ctx).Save(p).Error
}

// ---- chat ----

func (g *Gorm) CreateConversation(ctx context.Context, conv *models.Conversation) error {
	return g.DB.WithContext(ctx).Create(conv).Error
}

func (g *Gorm) GetConversation(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	var conv models.Conversation
	if err := g.DB.WithContext(ctx).First(&conv, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &conv, nil
}

func (g *Gorm) FindConversation(ctx context.Context, clientID, freelancerID uuid.UUID) (*models.Conversation, error) {
	var conv models.Conversation
	err := g.DB.WithContext(ctx).
		Where("client_id = ? AND freelancer_id = ?", clientID, freelancerID).
		Order("updated_at DESC").
		First(&conv).Error
	if err != nil {
		return nil, translate(err)
	}
	return &conv, nil
}

func (g *Gorm) ListConversationsByUser(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error) {
	var out []models.Conversation
	err := g.DB.WithContext(ctx).
		Preload("Client").
		Preload("Freelancer").
		Where("client_id = ? OR freelancer_id = ?", userID, userID).
		Order("last_message_at DESC").
		Find(&out).Error
	return out, err
}

func (g *Gorm) TouchConversation(ctx context.Context, id uuid.UUID, at time.Time) error {
	return g.DB.WithContext(ctx).Model(&models.Conversation{}).
		Where("id = ?", id).
		Update("last_message_at", at).Error
}

func (g *Gorm) CreateMessage(ctx context.Context, msg *models.Message) error {
	return g.DB.WithContext(ctx).Create(msg).Error
}

func (g *Gorm) ListMessagesByConversation(ctx context.Context, conversationID uuid.UUID) ([]models.Message, error) {
	var out []models.Message
	err := g.DB.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

func (g *Gorm) MarkMessagesRead(ctx context.Context, conversationID, readerID uuid.UUID) error {
	return g.DB.WithContext(ctx).Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id != ? AND is_read = false", conversationID, readerID).
		Updates(map[string]any{
			"is_read": true,
			"read_at": time.Now(),
		}).Error
}

func (g *Gorm) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := g.DB.WithContext(ctx).Model(&models.Message{}).
		Joins("JOIN conversations ON messages.conversation_id = conversations.id").
		Where("(conversations.client_id = ? OR conversations.freelancer_id = ?) AND messages.sender_id != ? AND messages.is_read = false",
			userID, userID, userID).
		Count(&count).Error
	return count, err
}

// ---- reviews ----

func (g *Gorm) CreateReview(ctx context.Context, r *models.Review) error {
	return g.DB.WithContext(ctx).Create(r).Error
}

func (g *Gorm) GetReviewByProject(ctx context.Context, projectID uuid.UUID) (*models.Review, error) {
	var r models.Review
	if err := g.DB.WithContext(ctx).First(&r, "project_id = ?", projectID).Error; err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

func (g *Gorm) ListReviewsByReviewee(ctx context.Context, revieweeID uuid.UUID) ([]models.Review, error) {
	var out []models.Review
	err := g.DB.WithContext(ctx).
		Where("reviewee_id = ?", revieweeID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// ---- files ----

func (g *Gorm) CreateFile(ctx context.Context, f *models.FileRecord) error {
	return g.DB.WithContext(ctx).Create(f).Error
}

func (g *Gorm) GetFile(ctx context.Context, id uuid.UUID) (*models.FileRecord, error) {
	var f models.FileRecord
	if err := g.DB.WithContext(ctx).First(&f, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

func (g *Gorm) SaveFile(ctx context.Context, f *models.FileRecord) error {
	return g.DB.WithContext(ctx).Save(f).Error
}

func (g *Gorm) DeleteFile(ctx context.Context, id uuid.UUID) error {
	return g.DB.WithContext(ctx).Delete(&models.FileRecord{}, "id = ?", id).Error
}

func (g *Gorm) ListFilesByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.FileRecord, error) {
	var out []models.FileRecord
	err := g.DB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("uploaded_at DESC").
		Find(&out).Error
	return out, err
}

func (g *Gorm) ListFilesByProject(ctx context.Context, projectID uuid.UUID) ([]models.FileRecord, error) {
	var out []models.FileRecord
	err := g.DB.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("uploaded_at DESC").
		Find(&out).Error
	return out, err
}

func (g *Gorm) ListStoredNames(ctx context.Context) ([]string, error) {
	var names []string
	err := g.DB.WithContext(ctx).
		Model(&models.FileRecord{}).
		Pluck("stored_name", &names).Error
	return names, err
}
