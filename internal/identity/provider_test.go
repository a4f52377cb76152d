package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workhive-id/workhive_be/internal/models"
	"github.com/workhive-id/workhive_be/internal/store"
)

type denyAllLimiter struct{}

func (denyAllLimiter) Allow(ctx context.Context, key string) (bool, error) { return false, nil }

type brokenLimiter struct{}

func (brokenLimiter) Allow(ctx context.Context, key string) (bool, error) {
	return false, errors.New("redis down")
}

func signUp(t *testing.T, p *UserProvider, email string, role models.Role) *models.User {
	t.Helper()
	u, err := p.SignUp(context.Background(), SignUpInput{
		Name: "Test User", Email: email, Password: "secret123", Role: role,
	})
	require.NoError(t, err)
	return u
}

func TestSignUp(t *testing.T) {
	ctx := context.Background()
	p := NewUserProvider(store.NewMemory(), nil)

	t.Run("weak password", func(t *testing.T) {
		_, err := p.SignUp(ctx, SignUpInput{Email: "a@b.c", Password: "12345"})
		assert.Equal(t, KindWeakPassword, Classify(err).Kind)
	})

	t.Run("creates active client by default", func(t *testing.T) {
		u := signUp(t, p, "new@example.com", "")
		assert.Equal(t, models.RoleClient, u.Role)
		assert.True(t, u.IsActive)
		assert.NotEqual(t, "secret123", u.Password, "password must be hashed")
	})

	t.Run("admin role never granted publicly", func(t *testing.T) {
		u := signUp(t, p, "sneaky@example.com", models.RoleAdmin)
		assert.Equal(t, models.RoleClient, u.Role)
	})

	t.Run("email already in use", func(t *testing.T) {
		_, err := p.SignUp(ctx, SignUpInput{Email: "new@example.com", Password: "secret123"})
		assert.Equal(t, KindEmailInUse, Classify(err).Kind)
	})
}

func TestSignIn(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	p := NewUserProvider(mem, nil)
	signUp(t, p, "user@example.com", models.RoleFreelancer)

	t.Run("ok", func(t *testing.T) {
		u, err := p.SignIn(ctx, "User@Example.com ", "secret123")
		require.NoError(t, err)
		assert.Equal(t, models.RoleFreelancer, u.Role)
	})

	t.Run("unknown email and wrong password look the same", func(t *testing.T) {
		_, err1 := p.SignIn(ctx, "nobody@example.com", "secret123")
		_, err2 := p.SignIn(ctx, "user@example.com", "wrong")
		assert.Equal(t, KindInvalidCredentials, Classify(err1).Kind)
		assert.Equal(t, KindInvalidCredentials, Classify(err2).Kind)
		assert.Equal(t, Classify(err1).Message(), Classify(err2).Message())
	})

	t.Run("disabled account", func(t *testing.T) {
		u, err := mem.GetUserByEmail(ctx, "user@example.com")
		require.NoError(t, err)
		u.IsActive = false
		require.NoError(t, mem.SaveUser(ctx, u))

		_, err = p.SignIn(ctx, "user@example.com", "secret123")
		assert.Equal(t, KindAccountDisabled, Classify(err).Kind)
	})
}

func TestSignInRateLimited(t *testing.T) {
	ctx := context.Background()
	p := NewUserProvider(store.NewMemory(), denyAllLimiter{})
	signUp(t, p, "user@example.com", "")

	_, err := p.SignIn(ctx, "user@example.com", "secret123")
	assert.Equal(t, KindRateLimited, Classify(err).Kind)
}

func TestSignInLimiterOutageFailsOpen(t *testing.T) {
	ctx := context.Background()
	p := NewUserProvider(store.NewMemory(), brokenLimiter{})
	signUp(t, p, "user@example.com", "")

	u, err := p.SignIn(ctx, "user@example.com", "secret123")
	require.NoError(t, err, "a limiter outage must not lock users out")
	assert.NotNil(t, u)
}

func TestSubscribeDeliversInitialState(t *testing.T) {
	p := NewUserProvider(store.NewMemory(), nil)

	var events []*models.User
	unsub := p.Subscribe(func(u *models.User) { events = append(events, u) })
	require.Len(t, events, 1)
	assert.Nil(t, events[0], "initial state is signed out")

	u := signUp(t, p, "user@example.com", "")
	require.Len(t, events, 2)
	assert.Equal(t, u.ID, events[1].ID)

	require.NoError(t, p.SignOut(context.Background()))
	require.Len(t, events, 3)
	assert.Nil(t, events[2])

	unsub()
	signUp(t, p, "other@example.com", "")
	assert.Len(t, events, 3, "no events after unsubscribe")
}

func TestPasswordResetDoesNotRevealAccounts(t *testing.T) {
	ctx := context.Background()
	p := NewUserProvider(store.NewMemory(), nil)
	signUp(t, p, "user@example.com", "")

	assert.NoError(t, p.SendPasswordReset(ctx, "user@example.com"))
	assert.NoError(t, p.SendPasswordReset(ctx, "ghost@example.com"))
}
