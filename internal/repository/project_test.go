package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workhive-id/workhive_be/internal/domain"
	"github.com/workhive-id/workhive_be/internal/models"
	"github.com/workhive-id/workhive_be/internal/store"
)

func client() *models.User {
	return &models.User{ID: uuid.New(), Role: models.RoleClient, IsActive: true}
}

func freelancer() *models.User {
	return &models.User{ID: uuid.New(), Role: models.RoleFreelancer, IsActive: true}
}

func admin() *models.User {
	return &models.User{ID: uuid.New(), Role: models.RoleAdmin, IsActive: true}
}

func validProjectInput() *models.Project {
	return &models.Project{
		Title:        "Company website",
		Description:  "Build a marketing site",
		BudgetType:   models.BudgetFixed,
		BudgetAmount: 5_000_000,
		TimelineUnit: models.TimelineWeeks, TimelineDuration: 4,
	}
}

func TestProjectCreate(t *testing.T) {
	ctx := context.Background()
	repo := NewProjectRepo(store.NewMemory())

	t.Run("requires a signed-in client", func(t *testing.T) {
		res := repo.Create(ctx, nil, validProjectInput())
		assert.False(t, res.Success)
		assert.Equal(t, domain.CodeUnauthorized, res.Code)

		res = repo.Create(ctx, freelancer(), validProjectInput())
		assert.False(t, res.Success)
		assert.Equal(t, domain.CodeForbidden, res.Code)

		// admins moderate existing projects, they never own new ones
		res = repo.Create(ctx, admin(), validProjectInput())
		assert.Equal(t, domain.CodeForbidden, res.Code)
	})

	t.Run("validates input", func(t *testing.T) {
		p := validProjectInput()
		p.Title = "  "
		res := repo.Create(ctx, client(), p)
		assert.Equal(t, domain.CodeValidation, res.Code)

		p = validProjectInput()
		p.BudgetType = models.BudgetRange
		p.BudgetMin, p.BudgetMax = 100, 50
		res = repo.Create(ctx, client(), p)
		assert.Equal(t, domain.CodeValidation, res.Code)
	})

	t.Run("owner and draft default", func(t *testing.T) {
		c := client()
		p := validProjectInput()
		res := repo.Create(ctx, c, p)
		require.True(t, res.Success)
		assert.Equal(t, c.ID, p.ClientID)
		assert.Equal(t, models.ProjectDraft, p.Status)
	})
}

func TestProjectViewCountOnNonOwnerRead(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	repo := NewProjectRepo(mem)

	owner := client()
	p := validProjectInput()
	p.Status = models.ProjectPublished
	require.True(t, repo.Create(ctx, owner, p).Success)

	// owner reads leave the counter alone
	res := repo.GetByID(ctx, owner, p.ID)
	require.True(t, res.Success)
	assert.EqualValues(t, 0, res.Data.(*models.Project).ViewCount)

	// non-owner reads bump it
	res = repo.GetByID(ctx, freelancer(), p.ID)
	require.True(t, res.Success)
	assert.EqualValues(t, 1, res.Data.(*models.Project).ViewCount)

	res = repo.GetByID(ctx, nil, p.ID)
	require.True(t, res.Success)
	assert.EqualValues(t, 2, res.Data.(*models.Project).ViewCount)
}

func TestProjectDeleteGuards(t *testing.T) {
	ctx := context.Background()
	repo := NewProjectRepo(store.NewMemory())

	owner := client()
	p := validProjectInput()
	require.True(t, repo.Create(ctx, owner, p).Success)

	res := repo.Delete(ctx, freelancer(), p.ID)
	assert.Equal(t, domain.CodeForbidden, res.Code)

	// in-progress projects must stay on record
	fid := uuid.New()
	got, err := repo.Projects.GetProject(ctx, p.ID)
	require.NoError(t, err)
	require.NoError(t, repo.assignFreelancer(ctx, got, fid))

	res = repo.Delete(ctx, owner, p.ID)
	assert.Equal(t, domain.CodeInvalidStatus, res.Code)
	assert.Contains(t, res.Error, "in progress or completed")
}

func TestProjectStatusMachine(t *testing.T) {
	ctx := context.Background()
	repo := NewProjectRepo(store.NewMemory())
	owner := client()

	p := validProjectInput()
	require.True(t, repo.Create(ctx, owner, p).Success)

	// draft -> published -> in_progress -> under_review -> completed
	for _, next := range []models.ProjectStatus{
		models.ProjectPublished,
		models.ProjectInProgress,
		models.ProjectUnderReview,
		models.ProjectCompleted,
	} {
		res := repo.UpdateStatus(ctx, owner, p.ID, next)
		require.True(t, res.Success, "to %s: %s", next, res.Error)
	}

	// completed is terminal
	res := repo.UpdateStatus(ctx, owner, p.ID, models.ProjectCancelled)
	assert.Equal(t, domain.CodeInvalidStatus, res.Code)

	// completion stamps the end date
	got, err := repo.Projects.GetProject(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.EndDate)
}

func TestProjectStatusNoBackwardMoves(t *testing.T) {
	ctx := context.Background()
	repo := NewProjectRepo(store.NewMemory())
	owner := client()

	p := validProjectInput()
	p.Status = models.ProjectPublished
	require.True(t, repo.Create(ctx, owner, p).Success)

	res := repo.UpdateStatus(ctx, owner, p.ID, models.ProjectDraft)
	assert.Equal(t, domain.CodeInvalidStatus, res.Code)

	// pause and resume
	require.True(t, repo.UpdateStatus(ctx, owner, p.ID, models.ProjectPaused).Success)
	require.True(t, repo.UpdateStatus(ctx, owner, p.ID, models.ProjectPublished).Success)
}

func TestProjectAdminOverride(t *testing.T) {
	ctx := context.Background()
	repo := NewProjectRepo(store.NewMemory())
	owner := client()

	p := validProjectInput()
	require.True(t, repo.Create(ctx, owner, p).Success)

	res := repo.UpdateStatus(ctx, admin(), p.ID, models.ProjectPublished)
	assert.True(t, res.Success)
}

// flakyProjectStore serves the unordered mode only.
type flakyProjectStore struct {
	*store.Memory
}

func (f *flakyProjectStore) ListProjectsByClient(ctx context.Context, clientID uuid.UUID, ordered bool) ([]models.Project, error) {
	if ordered {
		return nil, errors.New("index unavailable")
	}
	return f.Memory.ListProjectsByClient(ctx, clientID, false)
}

func TestProjectListFallbackKeepsOrder(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	repo := NewProjectRepo(&flakyProjectStore{Memory: mem})

	owner := client()
	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		p := validProjectInput()
		p.ClientID = owner.ID
		require.NoError(t, mem.CreateProject(ctx, p))
		ids = append(ids, p.ID)
	}

	res := repo.ByClient(ctx, owner.ID)
	require.True(t, res.Success)
	items := res.Data.([]models.Project)
	require.Len(t, items, 3)
	for i := 1; i < len(items); i++ {
		assert.False(t, items[i].CreatedAt.After(items[i-1].CreatedAt),
			"fallback must still return newest first")
	}
}
