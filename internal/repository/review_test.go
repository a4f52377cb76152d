package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workhive-id/workhive_be/internal/domain"
	"github.com/workhive-id/workhive_be/internal/models"
	"github.com/workhive-id/workhive_be/internal/store"
)

func completedProject(t *testing.T, mem *store.Memory, owner, fl *models.User) *models.Project {
	t.Helper()
	p := validProjectInput()
	p.ClientID = owner.ID
	p.Status = models.ProjectCompleted
	p.AssignedFreelancerID = &fl.ID
	require.NoError(t, mem.CreateProject(context.Background(), p))
	return p
}

func TestReviewSubmit(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	profiles := NewProfileRepo(mem)
	repo := NewReviewRepo(mem, mem, profiles)

	owner := client()
	fl := freelancer()
	require.True(t, profiles.CreateFreelancer(ctx, fl, &models.FreelancerProfile{}).Success)
	require.True(t, profiles.CreateClient(ctx, owner, &models.ClientProfile{}).Success)

	project := completedProject(t, mem, owner, fl)

	t.Run("rating bounds", func(t *testing.T) {
		res := repo.Submit(ctx, owner, project.ID, 0, "")
		assert.Equal(t, domain.CodeValidation, res.Code)
		res = repo.Submit(ctx, owner, project.ID, 6, "")
		assert.Equal(t, domain.CodeValidation, res.Code)
	})

	t.Run("owner only", func(t *testing.T) {
		res := repo.Submit(ctx, fl, project.ID, 5, "")
		assert.Equal(t, domain.CodeForbidden, res.Code)
	})

	t.Run("folds into both profiles", func(t *testing.T) {
		res := repo.Submit(ctx, owner, project.ID, 4, "solid work")
		require.True(t, res.Success, res.Error)

		fp, err := mem.GetFreelancerProfile(ctx, fl.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, fp.CompletedProjects)
		assert.Equal(t, 4.0, fp.AverageRating)
		assert.EqualValues(t, project.BudgetAmount, fp.TotalEarnings)

		cp, err := mem.GetClientProfile(ctx, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, cp.TotalProjects)
		assert.EqualValues(t, project.BudgetAmount, cp.TotalSpent)
	})

	t.Run("one review per project", func(t *testing.T) {
		res := repo.Submit(ctx, owner, project.ID, 5, "")
		assert.Equal(t, domain.CodeDuplicate, res.Code)
	})
}

func TestReviewRequiresCompletedProject(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	repo := NewReviewRepo(mem, mem, NewProfileRepo(mem))

	owner := client()
	project := publishedProject(t, mem, owner)

	res := repo.Submit(ctx, owner, project.ID, 5, "")
	assert.Equal(t, domain.CodeInvalidStatus, res.Code)
}
