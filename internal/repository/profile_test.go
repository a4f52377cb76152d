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

func TestProfileCreateRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	repo := NewProfileRepo(mem)

	c := client()
	first := repo.CreateClient(ctx, c, &models.ClientProfile{CompanyName: "Acme"})
	require.True(t, first.Success)

	second := repo.CreateClient(ctx, c, &models.ClientProfile{CompanyName: "Other Name"})
	assert.False(t, second.Success, "duplicate create must be rejected")
	assert.Equal(t, domain.CodeDuplicate, second.Code)
	assert.Equal(t, "Profile already exists", second.Error)

	got, err := mem.GetClientProfile(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.CompanyName, "second create must not overwrite")

	fl := freelancer()
	require.True(t, repo.CreateFreelancer(ctx, fl, &models.FreelancerProfile{}).Success)
	res := repo.CreateFreelancer(ctx, fl, &models.FreelancerProfile{})
	assert.Equal(t, domain.CodeDuplicate, res.Code)
}

func TestProfileCreateRoleMismatch(t *testing.T) {
	ctx := context.Background()
	repo := NewProfileRepo(store.NewMemory())

	res := repo.CreateClient(ctx, freelancer(), &models.ClientProfile{})
	assert.Equal(t, domain.CodeForbidden, res.Code)

	res = repo.CreateFreelancer(ctx, client(), &models.FreelancerProfile{})
	assert.Equal(t, domain.CodeForbidden, res.Code)
}

func TestProfileUpdatePreservesAggregates(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	repo := NewProfileRepo(mem)
	fl := freelancer()

	require.True(t, repo.CreateFreelancer(ctx, fl, &models.FreelancerProfile{FirstName: "Ayu"}).Success)

	// simulate earned history
	rating := 4.0
	require.True(t, repo.UpdateFreelancerStats(ctx, fl.ID, 1_000_000, &rating).Success)

	res := repo.UpdateFreelancer(ctx, fl, fl.ID, &models.FreelancerProfile{
		FirstName: "Ayu", LastName: "Putri", Title: "Dev",
		CompletedProjects: 99, TotalEarnings: 0, AverageRating: 5,
	})
	require.True(t, res.Success)

	got, err := mem.GetFreelancerProfile(ctx, fl.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CompletedProjects, "aggregates only move through the fold")
	assert.EqualValues(t, 1_000_000, got.TotalEarnings)
	assert.Equal(t, 4.0, got.AverageRating)
	assert.Equal(t, "Putri", got.LastName)
}

func TestProfileUpdateOwnership(t *testing.T) {
	ctx := context.Background()
	repo := NewProfileRepo(store.NewMemory())
	c := client()
	require.True(t, repo.CreateClient(ctx, c, &models.ClientProfile{}).Success)

	res := repo.UpdateClient(ctx, client(), c.ID, &models.ClientProfile{CompanyName: "Hijack"})
	assert.Equal(t, domain.CodeForbidden, res.Code)

	res = repo.UpdateClient(ctx, admin(), c.ID, &models.ClientProfile{CompanyName: "Fixed"})
	assert.True(t, res.Success, "admins may edit any profile")
}

func TestFreelancerRatingFold(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	repo := NewProfileRepo(mem)
	fl := freelancer()
	require.True(t, repo.CreateFreelancer(ctx, fl, &models.FreelancerProfile{}).Success)

	// first rated project: average equals the rating, no zero-division
	r1 := 5.0
	require.True(t, repo.UpdateFreelancerStats(ctx, fl.ID, 100, &r1).Success)
	got, _ := mem.GetFreelancerProfile(ctx, fl.ID)
	assert.Equal(t, 5.0, got.AverageRating)
	assert.Equal(t, 1, got.CompletedProjects)

	// unrated completion moves the count but not the average
	require.True(t, repo.UpdateFreelancerStats(ctx, fl.ID, 100, nil).Success)
	got, _ = mem.GetFreelancerProfile(ctx, fl.ID)
	assert.Equal(t, 5.0, got.AverageRating)
	assert.Equal(t, 2, got.CompletedProjects)

	// the fold weights by the count before the increment
	r3 := 3.0
	require.True(t, repo.UpdateFreelancerStats(ctx, fl.ID, 100, &r3).Success)
	got, _ = mem.GetFreelancerProfile(ctx, fl.ID)
	// (5.0*2 + 3.0) / 3 = 4.333... -> 4.33
	assert.Equal(t, 4.33, got.AverageRating)
	assert.Equal(t, 3, got.CompletedProjects)
	assert.EqualValues(t, 300, got.TotalEarnings)
}

func TestClientStatsFold(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	repo := NewProfileRepo(mem)
	c := client()
	require.True(t, repo.CreateClient(ctx, c, &models.ClientProfile{}).Success)

	require.True(t, repo.UpdateClientStats(ctx, c.ID, 2_000_000, nil).Success)
	got, _ := mem.GetClientProfile(ctx, c.ID)
	assert.Equal(t, 1, got.TotalProjects)
	assert.EqualValues(t, 2_000_000, got.TotalSpent)
	assert.Equal(t, 0.0, got.AverageRating)
}

func TestProfileCompletion(t *testing.T) {
	ctx := context.Background()
	repo := NewProfileRepo(store.NewMemory())

	c := client()
	res := repo.Completion(ctx, c)
	require.True(t, res.Success, "missing profile still reports incomplete, not an error")

	require.True(t, repo.CreateClient(ctx, c, &models.ClientProfile{
		CompanyName: "Acme", Industry: "Software", Location: "Jakarta", Description: "Things",
	}).Success)
	res = repo.Completion(ctx, c)
	require.True(t, res.Success)

	res = repo.Completion(ctx, nil)
	assert.Equal(t, domain.CodeUnauthorized, res.Code)

	res = repo.Completion(ctx, admin())
	assert.Equal(t, domain.CodeForbidden, res.Code)
}
