// Package repository is the rule layer: ownership checks, status machines
// and aggregate folds live here, on top of the store contracts. Every
// operation takes the acting user and returns the uniform result envelope.
package repository

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/workhive-id/workhive_be/internal/domain"
	"github.com/workhive-id/workhive_be/internal/models"
	"github.com/workhive-id/workhive_be/internal/store"
)

type ProjectRepo struct {
	Projects store.ProjectStore
}

func NewProjectRepo(projects store.ProjectStore) *ProjectRepo {
	return &ProjectRepo{Projects: projects}
}

func validateProject(p *models.Project) string {
	if strings.TrimSpace(p.Title) == "" {
		return "Title is required"
	}
	if strings.TrimSpace(p.Description) == "" {
		return "Description is required"
	}
	switch p.BudgetType {
	case models.BudgetFixed, models.BudgetHourly:
		if p.BudgetAmount <= 0 {
			return "Budget amount must be positive"
		}
	case models.BudgetRange:
		if p.BudgetMin <= 0 || p.BudgetMax < p.BudgetMin {
			return "Budget range is invalid"
		}
	default:
		return "Unknown budget type"
	}
	if p.TimelineUnit != models.TimelineFlexible && p.TimelineDuration <= 0 {
		return "Timeline duration must be positive"
	}
	return ""
}

// Create stores a new project owned by the acting client. Projects start as
// drafts unless explicitly published on creation.
func (r *ProjectRepo) Create(ctx context.Context, actor *models.User, p *models.Project) domain.Result {
	if actor == nil {
		return domain.Fail(domain.CodeUnauthorized, "Sign in to create a project")
	}
	if actor.Role != models.RoleClient {
		return domain.Fail(domain.CodeForbidden, "Only clients can create projects")
	}
	if msg := validateProject(p); msg != "" {
		return domain.Fail(domain.CodeValidation, msg)
	}

	p.ClientID = actor.ID
	if p.Status != models.ProjectPublished {
		p.Status = models.ProjectDraft
	}
	if p.Visibility == "" {
		p.Visibility = models.VisibilityPublic
	}
	p.AssignedFreelancerID = nil
	p.ProposalCount = 0
	p.ViewCount = 0

	if err := r.Projects.CreateProject(ctx, p); err != nil {
		log.Println("project: create failed:", err)
		return domain.Internal()
	}
	return domain.OKMsg(p, "Project created")
}

// GetByID returns the project and bumps the view counter when a non-owner
// reads it. The bump is best effort; a failed increment never fails the read.
func (r *ProjectRepo) GetByID(ctx context.Context, actor *models.User, id uuid.UUID) domain.Result {
	p, err := r.Projects.GetProject(ctx, id)
	if err != nil {
		return r.lookupFail(err)
	}
	if actor == nil || p.ClientID != actor.ID {
		if err := r.Projects.IncrementProjectViews(ctx, id); err != nil {
			log.Println("project: view count bump failed:", err)
		} else {
			p.ViewCount++
		}
	}
	return domain.OK(p)
}

// Update rewrites the mutable fields. Only the owner or an admin may update;
// lifecycle fields go through UpdateStatus and AssignFreelancer instead.
func (r *ProjectRepo) Update(ctx context.Context, actor *models.User, id uuid.UUID, updated *models.Project) domain.Result {
	p, err := r.Projects.GetProject(ctx, id)
	if err != nil {
		return r.lookupFail(err)
	}
	if actor == nil || !actor.CanMutate(p.ClientID) {
		return domain.Fail(domain.CodeForbidden, "You do not own this project")
	}
	if msg := validateProject(updated); msg != "" {
		return domain.Fail(domain.CodeValidation, msg)
	}

	p.Title = updated.Title
	p.Description = updated.Description
	p.Category = updated.Category
	p.Subcategory = updated.Subcategory
	p.BudgetType = updated.BudgetType
	p.BudgetAmount = updated.BudgetAmount
	p.BudgetMin = updated.BudgetMin
	p.BudgetMax = updated.BudgetMax
	p.TimelineUnit = updated.TimelineUnit
	p.TimelineDuration = updated.TimelineDuration
	p.Skills = updated.Skills
	p.Milestones = updated.Milestones
	p.Visibility = updated.Visibility
	p.UpdatedAt = time.Now()

	if err := r.Projects.SaveProject(ctx, p); err != nil {
		log.Println("project: update failed:", err)
		return domain.Internal()
	}
	return domain.OKMsg(p, "Project updated")
}

// Delete removes a project that has not started. In-progress and completed
// projects must stay on record.
func (r *ProjectRepo) Delete(ctx context.Context, actor *models.User, id uuid.UUID) domain.Result {
	p, err := r.Projects.GetProject(ctx, id)
	if err != nil {
		return r.lookupFail(err)
	}
	if actor == nil || !actor.CanMutate(p.ClientID) {
		return domain.Fail(domain.CodeForbidden, "You do not own this project")
	}
	if !p.IsDeletable() {
		return domain.Fail(domain.CodeInvalidStatus, "Cannot delete projects that are in progress or completed")
	}
	if err := r.Projects.DeleteProject(ctx, id); err != nil {
		log.Println("project: delete failed:", err)
		return domain.Internal()
	}
	return domain.OKMsg(nil, "Project deleted")
}

// UpdateStatus moves the project through its lifecycle. Completing a project
// stamps the end date.
func (r *ProjectRepo) UpdateStatus(ctx context.Context, actor *models.User, id uuid.UUID, next models.ProjectStatus) domain.Result {
	p, err := r.Projects.GetProject(ctx, id)
	if err != nil {
		return r.lookupFail(err)
	}
	if actor == nil || !actor.CanMutate(p.ClientID) {
		return domain.Fail(domain.CodeForbidden, "You do not own this project")
	}
	if !p.CanTransitionTo(next) {
		return domain.Fail(domain.CodeInvalidStatus, "Cannot move project from "+string(p.Status)+" to "+string(next))
	}

	p.Status = next
	now := time.Now()
	if next == models.ProjectCompleted {
		p.EndDate = &now
	}
	p.UpdatedAt = now

	if err := r.Projects.SaveProject(ctx, p); err != nil {
		log.Println("project: status update failed:", err)
		return domain.Internal()
	}
	return domain.OKMsg(p, "Project status updated")
}

// assignFreelancer is the project half of the proposal-accept saga: it moves
// the project into in_progress and records who is doing the work.
func (r *ProjectRepo) assignFreelancer(ctx context.Context, p *models.Project, freelancerID uuid.UUID) error {
	now := time.Now()
	p.AssignedFreelancerID = &freelancerID
	p.Status = models.ProjectInProgress
	p.StartDate = &now
	p.UpdatedAt = now
	return r.Projects.SaveProject(ctx, p)
}

func (r *ProjectRepo) lookupFail(err error) domain.Result {
	if errors.Is(err, store.ErrNotFound) {
		return domain.Fail(domain.CodeNotFound, "Project not found")
	}
	log.Println("project: lookup failed:", err)
	return domain.Internal()
}

// list runs the ordered query and, when the store cannot serve it, retries
// unordered and sorts in memory so callers always see newest-first.
func (r *ProjectRepo) list(ctx context.Context, query func(ordered bool) ([]models.Project, error)) domain.Result {
	items, err := query(true)
	if err != nil {
		log.Println("project: ordered list failed, retrying unordered:", err)
		items, err = query(false)
		if err != nil {
			log.Println("project: list failed:", err)
			return domain.Internal()
		}
		sort.Slice(items, func(i, j int) bool {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		})
	}
	return domain.OK(items)
}

func (r *ProjectRepo) ByClient(ctx context.Context, clientID uuid.UUID) domain.Result {
	return r.list(ctx, func(ordered bool) ([]models.Project, error) {
		return r.Projects.ListProjectsByClient(ctx, clientID, ordered)
	})
}

func (r *ProjectRepo) Published(ctx context.Context) domain.Result {
	return r.list(ctx, func(ordered bool) ([]models.Project, error) {
		return r.Projects.ListPublishedProjects(ctx, ordered)
	})
}

func (r *ProjectRepo) Featured(ctx context.Context) domain.Result {
	return r.list(ctx, func(ordered bool) ([]models.Project, error) {
		return r.Projects.ListFeaturedProjects(ctx, ordered)
	})
}

func (r *ProjectRepo) BySkills(ctx context.Context, skills []string) domain.Result {
	if len(skills) == 0 {
		return r.Published(ctx)
	}
	return r.list(ctx, func(ordered bool) ([]models.Project, error) {
		return r.Projects.ListProjectsBySkills(ctx, skills, ordered)
	})
}
