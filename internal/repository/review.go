package repository

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/workhive-id/workhive_be/internal/domain"
	"github.com/workhive-id/workhive_be/internal/models"
	"github.com/workhive-id/workhive_be/internal/store"
)

type ReviewRepo struct {
	Reviews  store.ReviewStore
	Projects store.ProjectStore
	Profiles *ProfileRepo
}

func NewReviewRepo(reviews store.ReviewStore, projects store.ProjectStore, profiles *ProfileRepo) *ReviewRepo {
	return &ReviewRepo{Reviews: reviews, Projects: projects, Profiles: profiles}
}

// Submit leaves the client's review on a completed project, once, and folds
// the rating and earnings into both profiles. The profile folds are best
// effort: a failed fold is logged, the review itself stands.
func (r *ReviewRepo) Submit(ctx context.Context, actor *models.User, projectID uuid.UUID, rating int, comment string) domain.Result {
	if actor == nil {
		return domain.Fail(domain.CodeUnauthorized, "Sign in first")
	}
	if rating < 1 || rating > 5 {
		return domain.Fail(domain.CodeValidation, "Rating must be between 1 and 5")
	}

	project, err := r.Projects.GetProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Fail(domain.CodeNotFound, "Project not found")
		}
		log.Println("review: project lookup failed:", err)
		return domain.Internal()
	}
	if !actor.CanMutate(project.ClientID) {
		return domain.Fail(domain.CodeForbidden, "Only the project owner can leave a review")
	}
	if project.Status != models.ProjectCompleted {
		return domain.Fail(domain.CodeInvalidStatus, "Reviews can only be left on completed projects")
	}
	if project.AssignedFreelancerID == nil {
		return domain.Fail(domain.CodeInvalidStatus, "This project has no assigned freelancer")
	}

	if _, err := r.Reviews.GetReviewByProject(ctx, projectID); err == nil {
		return domain.Fail(domain.CodeDuplicate, "This project has already been reviewed")
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Println("review: duplicate check failed:", err)
		return domain.Internal()
	}

	review := &models.Review{
		ProjectID:  projectID,
		ClientID:   project.ClientID,
		RevieweeID: *project.AssignedFreelancerID,
		Rating:     rating,
		Comment:    strings.TrimSpace(comment),
	}
	if err := r.Reviews.CreateReview(ctx, review); err != nil {
		log.Println("review: create failed:", err)
		return domain.Internal()
	}

	earnings := projectEarnings(project)
	fr := float64(rating)
	if res := r.Profiles.UpdateFreelancerStats(ctx, *project.AssignedFreelancerID, earnings, &fr); !res.Success {
		log.Println("review: freelancer stats fold failed:", res.Error)
	}
	if res := r.Profiles.UpdateClientStats(ctx, project.ClientID, earnings, nil); !res.Success {
		log.Println("review: client stats fold failed:", res.Error)
	}

	return domain.OKMsg(review, "Review submitted")
}

// ByFreelancer lists the public reviews left on a freelancer's work.
func (r *ReviewRepo) ByFreelancer(ctx context.Context, freelancerID uuid.UUID) domain.Result {
	items, err := r.Reviews.ListReviewsByReviewee(ctx, freelancerID)
	if err != nil {
		log.Println("review: list failed:", err)
		return domain.Internal()
	}
	return domain.OK(items)
}

// projectEarnings approximates the payout from the budget fields; range
// budgets settle at the midpoint.
func projectEarnings(p *models.Project) int64 {
	if p.BudgetType == models.BudgetRange {
		return (p.BudgetMin + p.BudgetMax) / 2
	}
	if p.BudgetType == models.BudgetHourly {
		return p.BudgetAmount * int64(timelineHours(p))
	}
	return p.BudgetAmount
}

func timelineHours(p *models.Project) int {
	const workdayHours = 8
	switch p.TimelineUnit {
	case models.TimelineDays:
		return p.TimelineDuration * workdayHours
	case models.TimelineWeeks:
		return p.TimelineDuration * 5 * workdayHours
	case models.TimelineMonths:
		return p.TimelineDuration * 22 * workdayHours
	}
	return workdayHours
}
