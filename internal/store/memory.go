package store

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/workhive-id/workhive_be/internal/models"
)

// Memory keeps everything in maps behind an RWMutex. It backs the test
// suite and local development without Postgres.
type Memory struct {
	mu sync.RWMutex

	users     map[uuid.UUID]*models.User
	projects  map[uuid.UUID]*models.Project
	proposals map[uuid.UUID]*models.Proposal
	files     map[uuid.UUID]*models.FileRecord
	reviews   map[uuid.UUID]*models.Review
	convs     map[uuid.UUID]*models.Conversation
	messages  map[uuid.UUID]*models.Message

	// profiles are keyed by user id, matching the unique user_id index.
	clients map[uuid.UUID]*models.ClientProfile
	frees   map[uuid.UUID]*models.FreelancerProfile
}

func NewMemory() *Memory {
	return &Memory{
		users:     make(map[uuid.UUID]*models.User),
		projects:  make(map[uuid.UUID]*models.Project),
		proposals: make(map[uuid.UUID]*models.Proposal),
		clients:   make(map[uuid.UUID]*models.ClientProfile),
		frees:     make(map[uuid.UUID]*models.FreelancerProfile),
		files:     make(map[uuid.UUID]*models.FileRecord),
		reviews:   make(map[uuid.UUID]*models.Review),
		convs:     make(map[uuid.UUID]*models.Conversation),
		messages:  make(map[uuid.UUID]*models.Message),
	}
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// ---- users ----

func (m *Memory) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *Memory) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) CreateUser(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return errors.New("duplicate email")
		}
	}
	ensureID(&u.ID)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *Memory) SaveUser(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.UpdatedAt = time.Now()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

// ---- projects ----

func (m *Memory) CreateProject(ctx context.Context, p *models.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ensureID(&p.ID)
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	cp := *p
	m.projects[p.ID] = &cp
	return nil
}

func (m *Memory) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *Memory) SaveProject(ctx context.Context, p *models.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[p.ID]; !ok {
		return ErrNotFound
	}
	p.UpdatedAt = time.Now()
	cp := *p
	m.projects[p.ID] = &cp
	return nil
}

func (m *Memory) DeleteProject(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[id]; !ok {
		return ErrNotFound
	}
	delete(m.projects, id)
	return nil
}

func (m *Memory) IncrementProjectViews(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok {
		return ErrNotFound
	}
	p.ViewCount++
	return nil
}

func (m *Memory) IncrementProposalCount(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok {
		return ErrNotFound
	}
	p.ProposalCount++
	return nil
}

func (m *Memory) listProjects(ordered bool, keep func(*models.Project) bool) []models.Project {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Project
	for _, p := range m.projects {
		if keep(p) {
			out = append(out, *p)
		}
	}
	if ordered {
		sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	return out
}

func (m *Memory) ListProjectsByClient(ctx context.Context, clientID uuid.UUID, ordered bool) ([]models.Project, error) {
	return m.listProjects(ordered, func(p *models.Project) bool { return p.ClientID == clientID }), nil
}

func (m *Memory) ListPublishedProjects(ctx context.Context, ordered bool) ([]models.Project, error) {
	return m.listProjects(ordered, func(p *models.Project) bool {
		return p.Status == models.ProjectPublished && p.Visibility == models.VisibilityPublic
	}), nil
}

func (m *Memory) ListFeaturedProjects(ctx context.Context, ordered bool) ([]models.Project, error) {
	return m.listProjects(ordered, func(p *models.Project) bool {
		return p.Featured && p.Status == models.ProjectPublished
	}), nil
}

func (m *Memory) ListProjectsBySkills(ctx context.Context, skills []string, ordered bool) ([]models.Project, error) {
	want := make(map[string]bool, len(skills))
	for _, s := range skills {
		want[s] = true
	}
	return m.listProjects(ordered, func(p *models.Project) bool {
		if p.Status != models.ProjectPublished {
			return false
		}
		if len(want) == 0 {
			return true
		}
		var have []string
		if len(p.Skills) > 0 {
			_ = json.Unmarshal(p.Skills, &have)
		}
		for _, s := range have {
			if want[s] {
				return true
			}
		}
		return false
	}), nil
}

// ---- proposals ----

func (m *Memory) CreateProposal(ctx context.Context, p *models.Proposal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ensureID(&p.ID)
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	cp := *p
	m.proposals[p.ID] = &cp
	return nil
}

func (m *Memory) GetProposal(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.proposals[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *Memory) SaveProposal(ctx context.Context, p *models.Proposal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.proposals[p.ID]; !ok {
		return ErrNotFound
	}
	p.UpdatedAt = time.Now()
	cp := *p
	m.proposals[p.ID] = &cp
	return nil
}

func (m *Memory) GetProposalForProject(ctx context.Context, projectID, freelancerID uuid.UUID) (*models.Proposal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.proposals {
		if p.ProjectID == projectID && p.FreelancerID == freelancerID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) listProposals(keep func(*models.Proposal) bool) []models.Proposal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Proposal
	for _, p := range m.proposals {
		if keep(p) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out
}

func (m *Memory) ListProposalsByProject(ctx context.Context, projectID uuid.UUID) ([]models.Proposal, error) {
	return m.listProposals(func(p *models.Proposal) bool { return p.ProjectID == projectID }), nil
}

func (m *Memory) ListProposalsByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Proposal, error) {
	return m.listProposals(func(p *models.Proposal) bool { return p.FreelancerID == freelancerID }), nil
}

// ---- profiles ----

func (m *Memory) GetClientProfile(ctx context.Context, userID uuid.UUID) (*models.ClientProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.clients[userID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *Memory) CreateClientProfile(ctx context.Context, p *models.ClientProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.clients[p.UserID]; ok {
		return errors.New("duplicate profile")
	}
	ensureID(&p.ID)
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	m.clients[p.UserID] = &cp
	return nil
}

func (m *Memory) SaveClientProfile(ctx context.Context, p *models.ClientProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.clients[p.UserID]; !ok {
		return ErrNotFound
	}
	p.UpdatedAt = time.Now()
	cp := *p
	m.clients[p.UserID] = &cp
	return nil
}

func (m *Memory) GetFreelancerProfile(ctx context.Context, userID uuid.UUID) (*models.FreelancerProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.frees[userID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *Memory) CreateFreelancerProfile(ctx context.Context, p *models.FreelancerProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.frees[p.UserID]; ok {
		return errors.New("duplicate profile")
	}
	ensureID(&p.ID)
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	m.frees[p.UserID] = &cp
	return nil
}

func (m *Memory) SaveFreelancerProfile(ctx context.Context, p *models.FreelancerProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.frees[p.UserID]; !ok {
		return ErrNotFound
	}
	p.UpdatedAt = time.Now()
	cp := *p
	m.frees[p.UserID] = &cp
	return nil
}

// ---- chat ----

func (m *Memory) CreateConversation(ctx context.Context, conv *models.Conversation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ensureID(&conv.ID)
	now := time.Now()
	conv.CreatedAt = now
	conv.UpdatedAt = now
	if conv.LastMessageAt.IsZero() {
		conv.LastMessageAt = now
	}
	cp := *conv
	m.convs[conv.ID] = &cp
	return nil
}

func (m *Memory) GetConversation(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	conv, ok := m.convs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *conv
	return &cp, nil
}

func (m *Memory) FindConversation(ctx context.Context, clientID, freelancerID uuid.UUID) (*models.Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, conv := range m.convs {
		if conv.ClientID == clientID && conv.FreelancerID == freelancerID {
			cp := *conv
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) ListConversationsByUser(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Conversation
	for _, conv := range m.convs {
		if conv.HasParticipant(userID) {
			out = append(out, *conv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastMessageAt.After(out[j].LastMessageAt) })
	return out, nil
}

func (m *Memory) TouchConversation(ctx context.Context, id uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	conv, ok := m.convs[id]
	if !ok {
		return ErrNotFound
	}
	conv.LastMessageAt = at
	conv.UpdatedAt = time.Now()
	return nil
}

func (m *Memory) CreateMessage(ctx context.Context, msg *models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ensureID(&msg.ID)
	now := time.Now()
	msg.CreatedAt = now
	msg.UpdatedAt = now
	if msg.Type == "" {
		msg.Type = "text"
	}
	cp := *msg
	m.messages[msg.ID] = &cp
	return nil
}

func (m *Memory) ListMessagesByConversation(ctx context.Context, conversationID uuid.UUID) ([]models.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Message
	for _, msg := range m.messages {
		if msg.ConversationID == conversationID {
			out = append(out, *msg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) MarkMessagesRead(ctx context.Context, conversationID, readerID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for _, msg := range m.messages {
		if msg.ConversationID == conversationID && msg.SenderID != readerID && !msg.IsRead {
			msg.IsRead = true
			msg.ReadAt = &now
		}
	}
	return nil
}

func (m *Memory) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var count int64
	for _, msg := range m.messages {
		conv, ok := m.convs[msg.ConversationID]
		if !ok || !conv.HasParticipant(userID) {
			continue
		}
		if msg.SenderID != userID && !msg.IsRead {
			count++
		}
	}
	return count, nil
}

// ---- reviews ----

func (m *Memory) CreateReview(ctx context.Context, r *models.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.reviews {
		if existing.ProjectID == r.ProjectID {
			return errors.New("duplicate review")
		}
	}
	ensureID(&r.ID)
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	cp := *r
	m.reviews[r.ID] = &cp
	return nil
}

func (m *Memory) GetReviewByProject(ctx context.Context, projectID uuid.UUID) (*models.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.reviews {
		if r.ProjectID == projectID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) ListReviewsByReviewee(ctx context.Context, revieweeID uuid.UUID) ([]models.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Review
	for _, r := range m.reviews {
		if r.RevieweeID == revieweeID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ---- files ----

func (m *Memory) CreateFile(ctx context.Context, f *models.FileRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ensureID(&f.ID)
	now := time.Now()
	if f.UploadedAt.IsZero() {
		f.UploadedAt = now
	}
	f.CreatedAt = now
	f.UpdatedAt = now
	cp := *f
	m.files[f.ID] = &cp
	return nil
}

func (m *Memory) GetFile(ctx context.Context, id uuid.UUID) (*models.FileRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.files[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (m *Memory) SaveFile(ctx context.Context, f *models.FileRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[f.ID]; !ok {
		return ErrNotFound
	}
	f.UpdatedAt = time.Now()
	cp := *f
	m.files[f.ID] = &cp
	return nil
}

func (m *Memory) DeleteFile(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[id]; !ok {
		return ErrNotFound
	}
	delete(m.files, id)
	return nil
}

func (m *Memory) listFiles(keep func(*models.FileRecord) bool) []models.FileRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.FileRecord
	for _, f := range m.files {
		if keep(f) {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.After(out[j].UploadedAt) })
	return out
}

func (m *Memory) ListFilesByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.FileRecord, error) {
	return m.listFiles(func(f *models.FileRecord) bool { return f.OwnerID == ownerID }), nil
}

func (m *Memory) ListFilesByProject(ctx context.Context, projectID uuid.UUID) ([]models.FileRecord, error) {
	return m.listFiles(func(f *models.FileRecord) bool {
		return f.ProjectID != nil && *f.ProjectID == projectID
	}), nil
}

func (m *Memory) ListStoredNames(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.files))
	for _, f := range m.files {
		names = append(names, f.StoredName)
	}
	return names, nil
}
