package identity

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/workhive-id/workhive_be/internal/models"
	"github.com/workhive-id/workhive_be/internal/store"
	"github.com/workhive-id/workhive_be/internal/utils"
)

// Limiter throttles sign-in attempts per key (email).
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// UserProvider authenticates against the users table with bcrypt.
type UserProvider struct {
	Users   store.UserStore
	Limiter Limiter

	mu      sync.Mutex
	subs    map[int]func(*models.User)
	nextSub int
}

func NewUserProvider(users store.UserStore, limiter Limiter) *UserProvider {
	return &UserProvider{
		Users:   users,
		Limiter: limiter,
		subs:    make(map[int]func(*models.User)),
	}
}

func (p *UserProvider) SignIn(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if p.Limiter != nil {
		ok, err := p.Limiter.Allow(ctx, "login:"+email)
		if err != nil {
			// limiter outage must not lock everyone out
			log.Println("identity: limiter unavailable:", err)
		} else if !ok {
			return nil, newError(KindRateLimited, nil)
		}
	}

	u, err := p.Users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newError(KindInvalidCredentials, nil)
		}
		return nil, newError(KindUnknown, err)
	}
	if !utils.CheckPassword(u.Password, password) {
		return nil, newError(KindInvalidCredentials, nil)
	}
	if !u.IsActive {
		return nil, newError(KindAccountDisabled, nil)
	}

	p.notify(u)
	return u, nil
}

func (p *UserProvider) SignUp(ctx context.Context, in SignUpInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	password := strings.TrimSpace(in.Password)

	if len(password) < 6 {
		return nil, newError(KindWeakPassword, nil)
	}

	if _, err := p.Users.GetUserByEmail(ctx, email); err == nil {
		return nil, newError(KindEmailInUse, nil)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, newError(KindUnknown, err)
	}

	role := in.Role
	if role != models.RoleClient && role != models.RoleFreelancer {
		// admin accounts are never created through public registration
		role = models.RoleClient
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, newError(KindUnknown, err)
	}

	u := &models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    email,
		Password: hashed,
		Role:     role,
		IsActive: true,
	}
	if err := p.Users.CreateUser(ctx, u); err != nil {
		return nil, newError(KindUnknown, err)
	}

	p.notify(u)
	return u, nil
}

func (p *UserProvider) SignOut(ctx context.Context) error {
	p.notify(nil)
	return nil
}

func (p *UserProvider) SendPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := p.Users.GetUserByEmail(ctx, email); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// don't reveal whether the email exists
			return nil
		}
		return newError(KindUnknown, err)
	}
	log.Printf("identity: password reset link issued for %s", email)
	return nil
}

// Subscribe registers a listener and immediately delivers the initial
// signed-out state, mirroring hosted auth SDKs that fire the auth-state
// callback on attach.
func (p *UserProvider) Subscribe(fn func(*models.User)) func() {
	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	p.mu.Unlock()

	fn(nil)

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subs, id)
	}
}

func (p *UserProvider) notify(u *models.User) {
	p.mu.Lock()
	fns := make([]func(*models.User), 0, len(p.subs))
	for _, fn := range p.subs {
		fns = append(fns, fn)
	}
	p.mu.Unlock()
	for _, fn := range fns {
		fn(u)
	}
}
