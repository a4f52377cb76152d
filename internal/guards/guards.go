// Package guards holds the navigation access-control decisions. Every guard
// is total: for any principal state it returns exactly one decision, never
// blocks past the bounded wait, and fails closed when a lookup errors.
package guards

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/workhive-id/workhive_be/internal/models"
	"github.com/workhive-id/workhive_be/internal/store"
)

// Redirect targets. These are frontend routes, returned to the SPA so it can
// navigate; the fixed set below is the entire guard vocabulary.
const (
	PathLogin           = "/auth/login"
	PathRecovery        = "/auth/recovery"
	PathDashboard       = "/dashboard"
	PathClientHome      = "/dashboard/client"
	PathFreelancerHome  = "/dashboard/freelancer"
	PathAdminHome       = "/dashboard/admin"
	PathProjects        = "/projects"
	PathClientSetup     = "/profile/client/setup"
	PathFreelancerSetup = "/profile/freelancer/setup"
)

// DefaultWaitTimeout bounds how long a guard waits for the session tracker
// to leave its loading state before failing closed.
const DefaultWaitTimeout = 15 * time.Second

type Decision struct {
	Allowed  bool
	Redirect string
}

func Allow() Decision { return Decision{Allowed: true} }

func RedirectTo(path string) Decision { return Decision{Redirect: path} }

func RoleHome(role models.Role) string {
	switch role {
	case models.RoleClient:
		return PathClientHome
	case models.RoleFreelancer:
		return PathFreelancerHome
	case models.RoleAdmin:
		return PathAdminHome
	}
	return PathDashboard
}

// Auth: principal must be present and carry a role. A roleless principal is
// the recoverable "authenticated but no user record" state.
func Auth(p *models.User) Decision {
	if p == nil {
		return RedirectTo(PathLogin)
	}
	if p.Role == "" {
		return RedirectTo(PathRecovery)
	}
	return Allow()
}

// Guest: only anonymous visitors; signed-in users go to their dashboard.
func Guest(p *models.User) Decision {
	if p == nil {
		return Allow()
	}
	return RedirectTo(RoleHome(p.Role))
}

func Role(p *models.User, allowed ...models.Role) Decision {
	if p == nil {
		return RedirectTo(PathLogin)
	}
	for _, r := range allowed {
		if p.Role == r {
			return Allow()
		}
	}
	return RedirectTo(RoleHome(p.Role))
}

func Admin(p *models.User) Decision {
	if p == nil {
		return RedirectTo(PathLogin)
	}
	if p.Role != models.RoleAdmin {
		return RedirectTo(PathDashboard)
	}
	return Allow()
}

// ClientProfileComplete is the canonical completeness gate for clients.
func ClientProfileComplete(p *models.ClientProfile) bool {
	if p == nil {
		return false
	}
	return strings.TrimSpace(p.CompanyName) != "" &&
		strings.TrimSpace(p.Industry) != "" &&
		strings.TrimSpace(p.Location) != "" &&
		strings.TrimSpace(p.Description) != ""
}

// FreelancerProfileComplete is the canonical completeness gate for
// freelancers: the identity fields plus at least one skill.
func FreelancerProfileComplete(p *models.FreelancerProfile) bool {
	if p == nil {
		return false
	}
	if strings.TrimSpace(p.FirstName) == "" ||
		strings.TrimSpace(p.LastName) == "" ||
		strings.TrimSpace(p.Title) == "" ||
		strings.TrimSpace(p.Bio) == "" ||
		strings.TrimSpace(p.Location) == "" {
		return false
	}
	var skills []string
	if len(p.Skills) > 0 {
		_ = json.Unmarshal(p.Skills, &skills)
	}
	return len(skills) > 0
}

// ProfileSetup routes users with a missing or incomplete profile to the
// role-specific setup flow. Admins have no profile to complete.
func ProfileSetup(ctx context.Context, p *models.User, profiles store.ProfileStore) Decision {
	if p == nil {
		return RedirectTo(PathLogin)
	}
	switch p.Role {
	case models.RoleClient:
		cp, err := profiles.GetClientProfile(ctx, p.ID)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				log.Println("guards: client profile lookup failed:", err)
				return RedirectTo(PathLogin)
			}
			return RedirectTo(PathClientSetup)
		}
		if !ClientProfileComplete(cp) {
			return RedirectTo(PathClientSetup)
		}
	case models.RoleFreelancer:
		fp, err := profiles.GetFreelancerProfile(ctx, p.ID)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				log.Println("guards: freelancer profile lookup failed:", err)
				return RedirectTo(PathLogin)
			}
			return RedirectTo(PathFreelancerSetup)
		}
		if !FreelancerProfileComplete(fp) {
			return RedirectTo(PathFreelancerSetup)
		}
	case models.RoleAdmin:
		// no setup flow
	default:
		return RedirectTo(PathRecovery)
	}
	return Allow()
}

// ProjectLookup is the narrow read the owner guard needs.
type ProjectLookup interface {
	GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error)
}

// ProjectOwner allows the owning client, the assigned freelancer and admins.
// Every failure path lands on the project list.
func ProjectOwner(ctx context.Context, p *models.User, projects ProjectLookup, rawID string) Decision {
	if p == nil {
		return RedirectTo(PathLogin)
	}
	if rawID == "" {
		return RedirectTo(PathProjects)
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return RedirectTo(PathProjects)
	}
	if p.Role == models.RoleAdmin {
		return Allow()
	}
	project, err := projects.GetProject(ctx, id)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Println("guards: project lookup failed:", err)
		}
		return RedirectTo(PathProjects)
	}
	if project.ClientID == p.ID {
		return Allow()
	}
	if project.AssignedFreelancerID != nil && *project.AssignedFreelancerID == p.ID {
		return Allow()
	}
	return RedirectTo(PathProjects)
}
