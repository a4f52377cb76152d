package repository

import (
	"context"
	"errors"
	"log"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/workhive-id/workhive_be/internal/domain"
	"github.com/workhive-id/workhive_be/internal/models"
	"github.com/workhive-id/workhive_be/internal/store"
)

type ProposalRepo struct {
	Proposals store.ProposalStore
	Projects  store.ProjectStore

	projectRepo *ProjectRepo
}

func NewProposalRepo(proposals store.ProposalStore, projects store.ProjectStore) *ProposalRepo {
	return &ProposalRepo{
		Proposals:   proposals,
		Projects:    projects,
		projectRepo: NewProjectRepo(projects),
	}
}

// AcceptOutcome reports the accept saga: the accepted proposal plus any
// sibling proposals whose rejection could not be written.
type AcceptOutcome struct {
	Accepted      *models.Proposal `json:"accepted"`
	RejectedCount int              `json:"rejected_count"`
	FailedRejects []uuid.UUID      `json:"failed_rejects,omitempty"`
}

// Submit files a proposal on a published project. One proposal per
// freelancer per project, ever; withdrawn proposals still count.
func (r *ProposalRepo) Submit(ctx context.Context, actor *models.User, p *models.Proposal) domain.Result {
	if actor == nil {
		return domain.Fail(domain.CodeUnauthorized, "Sign in to submit a proposal")
	}
	if actor.Role != models.RoleFreelancer {
		return domain.Fail(domain.CodeForbidden, "Only freelancers can submit proposals")
	}
	if strings.TrimSpace(p.CoverLetter) == "" {
		return domain.Fail(domain.CodeValidation, "Cover letter is required")
	}
	if p.BudgetAmount <= 0 {
		return domain.Fail(domain.CodeValidation, "Budget amount must be positive")
	}

	project, err := r.Projects.GetProject(ctx, p.ProjectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Fail(domain.CodeNotFound, "Project not found")
		}
		log.Println("proposal: project lookup failed:", err)
		return domain.Internal()
	}
	if project.Status != models.ProjectPublished {
		return domain.Fail(domain.CodeInvalidStatus, "This project is not accepting proposals")
	}
	if project.ClientID == actor.ID {
		return domain.Fail(domain.CodeForbidden, "You cannot submit a proposal on your own project")
	}

	if _, err := r.Proposals.GetProposalForProject(ctx, p.ProjectID, actor.ID); err == nil {
		return domain.Fail(domain.CodeDuplicate, "You have already submitted a proposal for this project")
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Println("proposal: duplicate check failed:", err)
		return domain.Internal()
	}

	p.FreelancerID = actor.ID
	p.Status = models.ProposalSubmitted
	p.SubmittedAt = time.Now()
	p.ViewedByClient = false
	p.IsShortlisted = false
	p.Feedback = ""
	p.RespondedAt = nil

	if err := r.Proposals.CreateProposal(ctx, p); err != nil {
		log.Println("proposal: create failed:", err)
		return domain.Internal()
	}

	// best-effort counter on the project card
	if err := r.Projects.IncrementProposalCount(ctx, p.ProjectID); err != nil {
		log.Println("proposal: proposal count bump failed:", err)
	}
	return domain.OKMsg(p, "Proposal submitted")
}

// GetByID returns a proposal visible to its freelancer, the project's client
// or an admin. The first client read flips the viewed flag, best effort.
func (r *ProposalRepo) GetByID(ctx context.Context, actor *models.User, id uuid.UUID) domain.Result {
	if actor == nil {
		return domain.Fail(domain.CodeUnauthorized, "Sign in first")
	}
	p, err := r.Proposals.GetProposal(ctx, id)
	if err != nil {
		return r.lookupFail(err)
	}
	project, err := r.Projects.GetProject(ctx, p.ProjectID)
	if err != nil {
		log.Println("proposal: project lookup failed:", err)
		return domain.Internal()
	}

	isFreelancer := p.FreelancerID == actor.ID
	isClient := project.ClientID == actor.ID
	if !isFreelancer && !isClient && !actor.IsAdmin() {
		return domain.Fail(domain.CodeForbidden, "You cannot view this proposal")
	}

	if isClient && !p.ViewedByClient {
		p.ViewedByClient = true
		if err := r.Proposals.SaveProposal(ctx, p); err != nil {
			log.Println("proposal: viewed flag update failed:", err)
			p.ViewedByClient = false
		}
	}
	return domain.OK(p)
}

// UpdateStatus applies a status change with role-dependent permissions:
// clients shortlist, accept and reject; freelancers withdraw. Terminal
// proposals never change again. Accepting runs the saga in Accept.
func (r *ProposalRepo) UpdateStatus(ctx context.Context, actor *models.User, id uuid.UUID, next models.ProposalStatus, feedback string) domain.Result {
	if actor == nil {
		return domain.Fail(domain.CodeUnauthorized, "Sign in first")
	}
	p, err := r.Proposals.GetProposal(ctx, id)
	if err != nil {
		return r.lookupFail(err)
	}
	project, err := r.Projects.GetProject(ctx, p.ProjectID)
	if err != nil {
		log.Println("proposal: project lookup failed:", err)
		return domain.Internal()
	}
	if p.IsTerminal() {
		return domain.Fail(domain.CodeInvalidStatus, "This proposal has already been decided")
	}

	isClient := actor.CanMutate(project.ClientID)
	isFreelancer := p.FreelancerID == actor.ID

	switch next {
	case models.ProposalShortlisted, models.ProposalRejected:
		if !isClient {
			return domain.Fail(domain.CodeForbidden, "Only the project owner can respond to proposals")
		}
	case models.ProposalAccepted:
		if !isClient {
			return domain.Fail(domain.CodeForbidden, "Only the project owner can accept proposals")
		}
		return r.accept(ctx, project, p)
	case models.ProposalWithdrawn:
		if !isFreelancer {
			return domain.Fail(domain.CodeForbidden, "Only the proposal author can withdraw it")
		}
	default:
		return domain.Fail(domain.CodeValidation, "Unknown proposal status")
	}

	now := time.Now()
	p.Status = next
	p.IsShortlisted = next == models.ProposalShortlisted
	if next == models.ProposalRejected || next == models.ProposalWithdrawn {
		p.RespondedAt = &now
	}
	if feedback != "" {
		p.Feedback = feedback
	}
	p.UpdatedAt = now

	if err := r.Proposals.SaveProposal(ctx, p); err != nil {
		log.Println("proposal: status update failed:", err)
		return domain.Internal()
	}
	return domain.OKMsg(p, "Proposal updated")
}

// accept marks the proposal accepted, assigns the freelancer to the project
// and rejects the remaining open proposals. Sibling rejections are best
// effort: failures are collected and reported, never rolled back.
func (r *ProposalRepo) accept(ctx context.Context, project *models.Project, p *models.Proposal) domain.Result {
	if project.Status != models.ProjectPublished {
		return domain.Fail(domain.CodeInvalidStatus, "This project already has an assigned freelancer")
	}

	now := time.Now()
	p.Status = models.ProposalAccepted
	p.RespondedAt = &now
	p.UpdatedAt = now
	if err := r.Proposals.SaveProposal(ctx, p); err != nil {
		log.Println("proposal: accept write failed:", err)
		return domain.Internal()
	}

	if err := r.projectRepo.assignFreelancer(ctx, project, p.FreelancerID); err != nil {
		log.Println("proposal: freelancer assignment failed:", err)
		return domain.Internal()
	}

	outcome := AcceptOutcome{Accepted: p}
	siblings, err := r.Proposals.ListProposalsByProject(ctx, p.ProjectID)
	if err != nil {
		log.Println("proposal: sibling list failed:", err)
		return domain.OKMsg(outcome, "Proposal accepted; other proposals could not be updated")
	}
	for i := range siblings {
		s := &siblings[i]
		if s.ID == p.ID || s.IsTerminal() {
			continue
		}
		s.Status = models.ProposalRejected
		s.Feedback = models.FeedbackOtherSelected
		s.RespondedAt = &now
		s.UpdatedAt = now
		if err := r.Proposals.SaveProposal(ctx, s); err != nil {
			log.Println("proposal: sibling rejection failed:", s.ID, err)
			outcome.FailedRejects = append(outcome.FailedRejects, s.ID)
			continue
		}
		outcome.RejectedCount++
	}

	msg := "Proposal accepted"
	if len(outcome.FailedRejects) > 0 {
		msg = "Proposal accepted; some proposals could not be updated"
	}
	return domain.OKMsg(outcome, msg)
}

// ByProject lists a project's proposals for its client (or an admin).
func (r *ProposalRepo) ByProject(ctx context.Context, actor *models.User, projectID uuid.UUID) domain.Result {
	if actor == nil {
		return domain.Fail(domain.CodeUnauthorized, "Sign in first")
	}
	project, err := r.Projects.GetProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Fail(domain.CodeNotFound, "Project not found")
		}
		log.Println("proposal: project lookup failed:", err)
		return domain.Internal()
	}
	if !actor.CanMutate(project.ClientID) {
		return domain.Fail(domain.CodeForbidden, "Only the project owner can list its proposals")
	}
	items, err := r.Proposals.ListProposalsByProject(ctx, projectID)
	if err != nil {
		log.Println("proposal: list failed:", err)
		return domain.Internal()
	}
	return domain.OK(items)
}

// ByFreelancer lists the acting freelancer's own proposals.
func (r *ProposalRepo) ByFreelancer(ctx context.Context, actor *models.User) domain.Result {
	if actor == nil {
		return domain.Fail(domain.CodeUnauthorized, "Sign in first")
	}
	items, err := r.Proposals.ListProposalsByFreelancer(ctx, actor.ID)
	if err != nil {
		log.Println("proposal: list failed:", err)
		return domain.Internal()
	}
	return domain.OK(items)
}

// Stats folds the freelancer's proposals into per-status counts and a
// success rate. An empty history yields all zeroes.
func (r *ProposalRepo) Stats(ctx context.Context, actor *models.User) domain.Result {
	if actor == nil {
		return domain.Fail(domain.CodeUnauthorized, "Sign in first")
	}
	items, err := r.Proposals.ListProposalsByFreelancer(ctx, actor.ID)
	if err != nil {
		log.Println("proposal: stats list failed:", err)
		return domain.Internal()
	}

	var s models.ProposalStats
	s.Total = len(items)
	for _, p := range items {
		switch p.Status {
		case models.ProposalSubmitted:
			s.Submitted++
		case models.ProposalShortlisted:
			s.Shortlisted++
		case models.ProposalAccepted:
			s.Accepted++
		case models.ProposalRejected:
			s.Rejected++
		case models.ProposalWithdrawn:
			s.Withdrawn++
		}
	}
	if s.Total > 0 {
		s.SuccessRate = int(math.Round(float64(s.Accepted) / float64(s.Total) * 100))
	}
	return domain.OK(s)
}

func (r *ProposalRepo) lookupFail(err error) domain.Result {
	if errors.Is(err, store.ErrNotFound) {
		return domain.Fail(domain.CodeNotFound, "Proposal not found")
	}
	log.Println("proposal: lookup failed:", err)
	return domain.Internal()
}
