package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/workhive-id/workhive_be/internal/domain"
	"github.com/workhive-id/workhive_be/internal/guards"
	"github.com/workhive-id/workhive_be/internal/models"
	"github.com/workhive-id/workhive_be/internal/store"
)

type ProfileRepo struct {
	Profiles store.ProfileStore
}

func NewProfileRepo(profiles store.ProfileStore) *ProfileRepo {
	return &ProfileRepo{Profiles: profiles}
}

// round2 keeps aggregate ratings at two decimals.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CreateClient rejects a second create for the same user; the existing
// profile only changes through Update and the stats folds.
func (r *ProfileRepo) CreateClient(ctx context.Context, actor *models.User, p *models.ClientProfile) domain.Result {
	if actor == nil {
		return domain.Fail(domain.CodeUnauthorized, "Sign in first")
	}
	if actor.Role != models.RoleClient {
		return domain.Fail(domain.CodeForbidden, "Only clients have a client profile")
	}

	if _, err := r.Profiles.GetClientProfile(ctx, actor.ID); err == nil {
		return domain.Fail(domain.CodeDuplicate, "Profile already exists")
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Println("profile: client lookup failed:", err)
		return domain.Internal()
	}

	p.UserID = actor.ID
	p.TotalProjects = 0
	p.TotalSpent = 0
	p.AverageRating = 0
	if err := r.Profiles.CreateClientProfile(ctx, p); err != nil {
		log.Println("profile: client create failed:", err)
		return domain.Internal()
	}
	return domain.OKMsg(p, "Profile created")
}

func (r *ProfileRepo) CreateFreelancer(ctx context.Context, actor *models.User, p *models.FreelancerProfile) domain.Result {
	if actor == nil {
		return domain.Fail(domain.CodeUnauthorized, "Sign in first")
	}
	if actor.Role != models.RoleFreelancer {
		return domain.Fail(domain.CodeForbidden, "Only freelancers have a freelancer profile")
	}

	if _, err := r.Profiles.GetFreelancerProfile(ctx, actor.ID); err == nil {
		return domain.Fail(domain.CodeDuplicate, "Profile already exists")
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Println("profile: freelancer lookup failed:", err)
		return domain.Internal()
	}

	p.UserID = actor.ID
	p.CompletedProjects = 0
	p.TotalEarnings = 0
	p.AverageRating = 0
	if err := r.Profiles.CreateFreelancerProfile(ctx, p); err != nil {
		log.Println("profile: freelancer create failed:", err)
		return domain.Internal()
	}
	return domain.OKMsg(p, "Profile created")
}

// GetClient reads a client profile. Profiles are readable by anyone signed
// in; only owners and admins may write.
func (r *ProfileRepo) GetClient(ctx context.Context, userID uuid.UUID) domain.Result {
	p, err := r.Profiles.GetClientProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Fail(domain.CodeNotFound, "Profile not found")
		}
		log.Println("profile: client lookup failed:", err)
		return domain.Internal()
	}
	return domain.OK(p)
}

func (r *ProfileRepo) GetFreelancer(ctx context.Context, userID uuid.UUID) domain.Result {
	p, err := r.Profiles.GetFreelancerProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Fail(domain.CodeNotFound, "Profile not found")
		}
		log.Println("profile: freelancer lookup failed:", err)
		return domain.Internal()
	}
	return domain.OK(p)
}

// UpdateClient rewrites the descriptive fields. Aggregates are preserved;
// they only move through the stats folds.
func (r *ProfileRepo) UpdateClient(ctx context.Context, actor *models.User, userID uuid.UUID, updated *models.ClientProfile) domain.Result {
	if actor == nil || !actor.CanMutate(userID) {
		return domain.Fail(domain.CodeForbidden, "You cannot edit this profile")
	}
	p, err := r.Profiles.GetClientProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Fail(domain.CodeNotFound, "Profile not found")
		}
		log.Println("profile: client lookup failed:", err)
		return domain.Internal()
	}

	p.CompanyName = updated.CompanyName
	p.Industry = updated.Industry
	p.Location = updated.Location
	p.Description = updated.Description
	p.Website = updated.Website
	p.CompanySize = updated.CompanySize
	p.UpdatedAt = time.Now()

	if err := r.Profiles.SaveClientProfile(ctx, p); err != nil {
		log.Println("profile: client update failed:", err)
		return domain.Internal()
	}
	return domain.OKMsg(p, "Profile updated")
}

func (r *ProfileRepo) UpdateFreelancer(ctx context.Context, actor *models.User, userID uuid.UUID, updated *models.FreelancerProfile) domain.Result {
	if actor == nil || !actor.CanMutate(userID) {
		return domain.Fail(domain.CodeForbidden, "You cannot edit this profile")
	}
	p, err := r.Profiles.GetFreelancerProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Fail(domain.CodeNotFound, "Profile not found")
		}
		log.Println("profile: freelancer lookup failed:", err)
		return domain.Internal()
	}

	p.FirstName = updated.FirstName
	p.LastName = updated.LastName
	p.Title = updated.Title
	p.Bio = updated.Bio
	p.Location = updated.Location
	p.PhotoURL = updated.PhotoURL
	p.HourlyRate = updated.HourlyRate
	p.Skills = updated.Skills
	p.Portfolio = updated.Portfolio
	p.UpdatedAt = time.Now()

	if err := r.Profiles.SaveFreelancerProfile(ctx, p); err != nil {
		log.Println("profile: freelancer update failed:", err)
		return domain.Internal()
	}
	return domain.OKMsg(p, "Profile updated")
}

// UpdateFreelancerStats folds one completed project into the freelancer's
// aggregates. The rating average only moves when a rating was given; the
// completed count always does.
func (r *ProfileRepo) UpdateFreelancerStats(ctx context.Context, userID uuid.UUID, earnings int64, rating *float64) domain.Result {
	p, err := r.Profiles.GetFreelancerProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Fail(domain.CodeNotFound, "Profile not found")
		}
		log.Println("profile: freelancer lookup failed:", err)
		return domain.Internal()
	}

	oldCount := p.CompletedProjects
	p.CompletedProjects = oldCount + 1
	p.TotalEarnings += earnings
	if rating != nil {
		p.AverageRating = round2((p.AverageRating*float64(oldCount) + *rating) / float64(oldCount+1))
	}
	p.UpdatedAt = time.Now()

	if err := r.Profiles.SaveFreelancerProfile(ctx, p); err != nil {
		log.Println("profile: freelancer stats update failed:", err)
		return domain.Internal()
	}
	return domain.OK(p)
}

// UpdateClientStats folds one completed project into the client's
// aggregates, symmetric to the freelancer fold.
func (r *ProfileRepo) UpdateClientStats(ctx context.Context, userID uuid.UUID, spent int64, rating *float64) domain.Result {
	p, err := r.Profiles.GetClientProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Fail(domain.CodeNotFound, "Profile not found")
		}
		log.Println("profile: client lookup failed:", err)
		return domain.Internal()
	}

	oldCount := p.TotalProjects
	p.TotalProjects = oldCount + 1
	p.TotalSpent += spent
	if rating != nil {
		p.AverageRating = round2((p.AverageRating*float64(oldCount) + *rating) / float64(oldCount+1))
	}
	p.UpdatedAt = time.Now()

	if err := r.Profiles.SaveClientProfile(ctx, p); err != nil {
		log.Println("profile: client stats update failed:", err)
		return domain.Internal()
	}
	return domain.OK(p)
}

// Completion reports whether the actor's profile passes the canonical
// completeness gate, plus a cosmetic percentage for the setup UI.
func (r *ProfileRepo) Completion(ctx context.Context, actor *models.User) domain.Result {
	if actor == nil {
		return domain.Fail(domain.CodeUnauthorized, "Sign in first")
	}

	type completion struct {
		Complete bool `json:"complete"`
		Percent  int  `json:"percent"`
	}

	switch actor.Role {
	case models.RoleClient:
		p, err := r.Profiles.GetClientProfile(ctx, actor.ID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			log.Println("profile: client lookup failed:", err)
			return domain.Internal()
		}
		c := completion{Complete: guards.ClientProfileComplete(p)}
		if p != nil {
			fields := []string{p.CompanyName, p.Industry, p.Location, p.Description, p.Website, p.CompanySize}
			c.Percent = percentFilled(fields)
		}
		return domain.OK(c)
	case models.RoleFreelancer:
		p, err := r.Profiles.GetFreelancerProfile(ctx, actor.ID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			log.Println("profile: freelancer lookup failed:", err)
			return domain.Internal()
		}
		c := completion{Complete: guards.FreelancerProfileComplete(p)}
		if p != nil {
			skills := "x"
			var parsed []string
			if len(p.Skills) == 0 || json.Unmarshal(p.Skills, &parsed) != nil || len(parsed) == 0 {
				skills = ""
			}
			fields := []string{p.FirstName, p.LastName, p.Title, p.Bio, p.Location, skills}
			c.Percent = percentFilled(fields)
		}
		return domain.OK(c)
	}
	return domain.Fail(domain.CodeForbidden, "No profile for this role")
}

func percentFilled(fields []string) int {
	filled := 0
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			filled++
		}
	}
	return int(math.Round(float64(filled) / float64(len(fields)) * 100))
}
