package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workhive-id/workhive_be/internal/identity"
	"github.com/workhive-id/workhive_be/internal/models"
	"github.com/workhive-id/workhive_be/internal/store"
)

func newTracker(t *testing.T) (*Tracker, *identity.UserProvider) {
	t.Helper()
	provider := identity.NewUserProvider(store.NewMemory(), nil)
	tracker := NewTracker(provider)
	t.Cleanup(tracker.Close)
	return tracker, provider
}

func register(t *testing.T, tr *Tracker, email string) *models.User {
	t.Helper()
	res := tr.Register(context.Background(), identity.SignUpInput{
		Name: "Test", Email: email, Password: "secret123", Role: models.RoleClient,
	})
	require.True(t, res.Success, res.Error)
	return res.Data.(*models.User)
}

func TestTrackerInitialState(t *testing.T) {
	tr, _ := newTracker(t)

	// the provider fires the initial signed-out callback on subscribe
	select {
	case <-tr.Ready():
	case <-time.After(time.Second):
		t.Fatal("tracker never became ready")
	}
	assert.False(t, tr.Loading())
	assert.Nil(t, tr.Current())
}

func TestTrackerFollowsAuthEvents(t *testing.T) {
	tr, _ := newTracker(t)
	ctx := context.Background()

	u := register(t, tr, "user@example.com")
	require.NotNil(t, tr.Current())
	assert.Equal(t, u.ID, tr.Current().ID)

	res := tr.Logout(ctx)
	require.True(t, res.Success)
	assert.Nil(t, tr.Current())

	res = tr.Login(ctx, "user@example.com", "secret123")
	require.True(t, res.Success)
	assert.Equal(t, "Login successful", res.Message)
	require.NotNil(t, tr.Current())
	assert.Equal(t, u.ID, tr.Current().ID)
}

func TestTrackerLoginErrorMapping(t *testing.T) {
	tr, _ := newTracker(t)
	ctx := context.Background()
	register(t, tr, "user@example.com")

	res := tr.Login(ctx, "user@example.com", "wrong")
	assert.False(t, res.Success)
	assert.Equal(t, "invalid_credentials", res.Code)
	assert.Equal(t, "Invalid email or password", res.Error)

	res = tr.Register(ctx, identity.SignUpInput{Email: "user@example.com", Password: "secret123"})
	assert.False(t, res.Success)
	assert.Equal(t, "email_in_use", res.Code)

	res = tr.Register(ctx, identity.SignUpInput{Email: "x@y.z", Password: "123"})
	assert.False(t, res.Success)
	assert.Equal(t, "weak_password", res.Code)
}

func TestTrackerFailedLoginKeepsSession(t *testing.T) {
	tr, _ := newTracker(t)
	ctx := context.Background()
	u := register(t, tr, "user@example.com")

	res := tr.Login(ctx, "user@example.com", "wrong")
	require.False(t, res.Success)
	require.NotNil(t, tr.Current(), "a failed attempt must not clear the session")
	assert.Equal(t, u.ID, tr.Current().ID)
}

func TestTrackerResetPasswordNeutralMessage(t *testing.T) {
	tr, _ := newTracker(t)
	res := tr.ResetPassword(context.Background(), "ghost@example.com")
	require.True(t, res.Success)
	assert.Equal(t, "If the email exists, a reset link has been sent", res.Message)
}
