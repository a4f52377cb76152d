package guards

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workhive-id/workhive_be/internal/models"
	"github.com/workhive-id/workhive_be/internal/store"
)

func user(role models.Role) *models.User {
	return &models.User{ID: uuid.New(), Role: role, IsActive: true}
}

func TestAuthGuard(t *testing.T) {
	assert.Equal(t, RedirectTo(PathLogin), Auth(nil))
	assert.Equal(t, RedirectTo(PathRecovery), Auth(&models.User{ID: uuid.New()}))
	assert.Equal(t, Allow(), Auth(user(models.RoleClient)))
}

func TestGuestGuard(t *testing.T) {
	assert.Equal(t, Allow(), Guest(nil))
	assert.Equal(t, RedirectTo(PathClientHome), Guest(user(models.RoleClient)))
	assert.Equal(t, RedirectTo(PathFreelancerHome), Guest(user(models.RoleFreelancer)))
	assert.Equal(t, RedirectTo(PathAdminHome), Guest(user(models.RoleAdmin)))
}

func TestRoleGuard(t *testing.T) {
	assert.Equal(t, RedirectTo(PathLogin), Role(nil, models.RoleClient))

	c := user(models.RoleClient)
	assert.Equal(t, Allow(), Role(c, models.RoleClient))
	// wrong role bounces to the caller's own home, not the target's
	assert.Equal(t, RedirectTo(PathClientHome), Role(c, models.RoleFreelancer))
}

func TestAdminGuard(t *testing.T) {
	assert.Equal(t, RedirectTo(PathLogin), Admin(nil))
	assert.Equal(t, RedirectTo(PathDashboard), Admin(user(models.RoleClient)))
	assert.Equal(t, Allow(), Admin(user(models.RoleAdmin)))
}

func TestRoleHomeTotal(t *testing.T) {
	assert.Equal(t, PathClientHome, RoleHome(models.RoleClient))
	assert.Equal(t, PathFreelancerHome, RoleHome(models.RoleFreelancer))
	assert.Equal(t, PathAdminHome, RoleHome(models.RoleAdmin))
	assert.Equal(t, PathDashboard, RoleHome(models.Role("")))
	assert.Equal(t, PathDashboard, RoleHome(models.Role("bogus")))
}

func TestClientProfileComplete(t *testing.T) {
	assert.False(t, ClientProfileComplete(nil))
	assert.False(t, ClientProfileComplete(&models.ClientProfile{CompanyName: "Acme"}))
	assert.False(t, ClientProfileComplete(&models.ClientProfile{
		CompanyName: "Acme", Industry: "Software", Location: "Jakarta", Description: "   ",
	}))
	assert.True(t, ClientProfileComplete(&models.ClientProfile{
		CompanyName: "Acme", Industry: "Software", Location: "Jakarta", Description: "We build things",
	}))
}

func TestFreelancerProfileComplete(t *testing.T) {
	base := models.FreelancerProfile{
		FirstName: "Ayu", LastName: "Putri", Title: "Backend Dev",
		Bio: "10 years of Go", Location: "Bandung",
	}

	assert.False(t, FreelancerProfileComplete(nil))

	p := base
	assert.False(t, FreelancerProfileComplete(&p), "no skills means incomplete")

	p.Skills = []byte(`[]`)
	assert.False(t, FreelancerProfileComplete(&p))

	p.Skills = []byte(`["go","postgres"]`)
	assert.True(t, FreelancerProfileComplete(&p))

	p.Bio = ""
	assert.False(t, FreelancerProfileComplete(&p))
}

func TestProfileSetupGuard(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()

	client := user(models.RoleClient)
	assert.Equal(t, RedirectTo(PathClientSetup), ProfileSetup(ctx, client, mem),
		"missing profile goes to setup")

	require.NoError(t, mem.CreateClientProfile(ctx, &models.ClientProfile{
		UserID: client.ID, CompanyName: "Acme",
	}))
	assert.Equal(t, RedirectTo(PathClientSetup), ProfileSetup(ctx, client, mem),
		"incomplete profile goes to setup")

	full := &models.ClientProfile{
		UserID: client.ID, CompanyName: "Acme", Industry: "Software",
		Location: "Jakarta", Description: "We build things",
	}
	require.NoError(t, mem.SaveClientProfile(ctx, full))
	assert.Equal(t, Allow(), ProfileSetup(ctx, client, mem))

	fl := user(models.RoleFreelancer)
	assert.Equal(t, RedirectTo(PathFreelancerSetup), ProfileSetup(ctx, fl, mem))

	assert.Equal(t, Allow(), ProfileSetup(ctx, user(models.RoleAdmin), mem),
		"admins have no setup flow")
	assert.Equal(t, RedirectTo(PathLogin), ProfileSetup(ctx, nil, mem))
}

func TestProjectOwnerGuard(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()

	owner := user(models.RoleClient)
	assigned := user(models.RoleFreelancer)
	stranger := user(models.RoleFreelancer)

	p := &models.Project{ClientID: owner.ID, Title: "Site", AssignedFreelancerID: &assigned.ID}
	require.NoError(t, mem.CreateProject(ctx, p))
	id := p.ID.String()

	assert.Equal(t, Allow(), ProjectOwner(ctx, owner, mem, id))
	assert.Equal(t, Allow(), ProjectOwner(ctx, assigned, mem, id))
	assert.Equal(t, Allow(), ProjectOwner(ctx, user(models.RoleAdmin), mem, id))
	assert.Equal(t, RedirectTo(PathProjects), ProjectOwner(ctx, stranger, mem, id))

	assert.Equal(t, RedirectTo(PathLogin), ProjectOwner(ctx, nil, mem, id))
	assert.Equal(t, RedirectTo(PathProjects), ProjectOwner(ctx, owner, mem, ""))
	assert.Equal(t, RedirectTo(PathProjects), ProjectOwner(ctx, owner, mem, "not-a-uuid"))
	assert.Equal(t, RedirectTo(PathProjects), ProjectOwner(ctx, owner, mem, uuid.NewString()))
}

type fakeSession struct {
	current *models.User
	ready   chan struct{}
}

func (s *fakeSession) Current() *models.User  { return s.current }
func (s *fakeSession) Ready() <-chan struct{} { return s.ready }

func TestGuardsWaitForSession(t *testing.T) {
	ready := make(chan struct{})
	sess := &fakeSession{current: user(models.RoleClient), ready: ready}
	g := New(sess, store.NewMemory(), store.NewMemory())
	g.WaitTimeout = 50 * time.Millisecond

	// never becomes ready: fail closed to login, even for the guest guard
	assert.Equal(t, RedirectTo(PathLogin), g.Auth(context.Background()))
	assert.Equal(t, RedirectTo(PathLogin), g.Guest(context.Background()))

	close(ready)
	assert.Equal(t, Allow(), g.Auth(context.Background()))
	assert.Equal(t, Allow(), g.Role(context.Background(), models.RoleClient))
}

func TestGuardsContextCancelled(t *testing.T) {
	sess := &fakeSession{ready: make(chan struct{})}
	g := New(sess, store.NewMemory(), store.NewMemory())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, RedirectTo(PathLogin), g.Admin(ctx))
}

func TestGuardsResolvedSession(t *testing.T) {
	ctx := context.Background()
	c := user(models.RoleClient)

	// an already-resolved principal never waits
	g := New(Resolved(c), store.NewMemory(), store.NewMemory())
	assert.Equal(t, Allow(), g.Auth(ctx))
	assert.Equal(t, Allow(), g.Role(ctx, models.RoleClient))

	g = New(Resolved(nil), store.NewMemory(), store.NewMemory())
	assert.Equal(t, RedirectTo(PathLogin), g.Auth(ctx))
	assert.Equal(t, Allow(), g.Guest(ctx))

	// a dead request context still fails closed
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	g = New(Resolved(c), store.NewMemory(), store.NewMemory())
	assert.Equal(t, RedirectTo(PathLogin), g.Guest(cancelled))
}
