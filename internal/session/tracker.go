// Package session tracks the authenticated principal. The tracker owns the
// single subscription to the identity provider; the provider's callback is
// the only writer of the current-user cell.
package session

import (
	"context"
	"log"
	"sync"

	"github.com/workhive-id/workhive_be/internal/domain"
	"github.com/workhive-id/workhive_be/internal/identity"
	"github.com/workhive-id/workhive_be/internal/models"
)

type Tracker struct {
	provider identity.Provider

	mu      sync.RWMutex
	current *models.User
	loading bool

	ready     chan struct{}
	readyOnce sync.Once

	unsubscribe func()
}

func NewTracker(provider identity.Provider) *Tracker {
	t := &Tracker{
		provider: provider,
		loading:  true,
		ready:    make(chan struct{}),
	}
	t.unsubscribe = provider.Subscribe(t.onSessionChange)
	return t
}

// onSessionChange is the single writer path for the current-user cell.
func (t *Tracker) onSessionChange(u *models.User) {
	t.mu.Lock()
	t.current = u
	t.loading = false
	t.mu.Unlock()
	t.readyOnce.Do(func() { close(t.ready) })

	if u != nil && u.Role == "" {
		// authenticated but no stored role record: recoverable, the auth
		// guard routes these sessions to recovery instead of failing hard
		log.Printf("session: principal %s has no role record, needs recovery", u.ID)
	}
}

// Current never blocks; it reflects the last value pushed by the provider.
func (t *Tracker) Current() *models.User {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

// Loading is true until the provider's first callback fires.
func (t *Tracker) Loading() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.loading
}

// Ready is closed once the first provider callback has been observed.
func (t *Tracker) Ready() <-chan struct{} {
	return t.ready
}

func (t *Tracker) Close() {
	if t.unsubscribe != nil {
		t.unsubscribe()
	}
}

func authFail(err error) domain.Result {
	ie := identity.Classify(err)
	if ie.Kind == identity.KindUnknown {
		log.Println("session:", err)
	}
	return domain.Result{Success: false, Error: ie.Message(), Code: ie.Code()}
}

func (t *Tracker) Login(ctx context.Context, email, password string) domain.Result {
	u, err := t.provider.SignIn(ctx, email, password)
	if err != nil {
		return authFail(err)
	}
	return domain.OKMsg(u, "Login successful")
}

func (t *Tracker) Register(ctx context.Context, in identity.SignUpInput) domain.Result {
	u, err := t.provider.SignUp(ctx, in)
	if err != nil {
		return authFail(err)
	}
	return domain.OKMsg(u, "Registration successful")
}

func (t *Tracker) Logout(ctx context.Context) domain.Result {
	if err := t.provider.SignOut(ctx); err != nil {
		return authFail(err)
	}
	return domain.OKMsg(nil, "Logged out")
}

func (t *Tracker) ResetPassword(ctx context.Context, email string) domain.Result {
	if err := t.provider.SendPasswordReset(ctx, email); err != nil {
		return authFail(err)
	}
	return domain.OKMsg(nil, "If the email exists, a reset link has been sent")
}
