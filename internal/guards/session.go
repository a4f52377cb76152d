package guards

import (
	"context"
	"log"
	"time"

	"github.com/workhive-id/workhive_be/internal/models"
	"github.com/workhive-id/workhive_be/internal/store"
)

// Session is the slice of the tracker the guards need.
type Session interface {
	Current() *models.User
	Ready() <-chan struct{}
}

// Guards binds the pure decision functions to a live session. Each wrapper
// waits for the tracker's first state, bounded by WaitTimeout; a timeout is
// treated as signed-out and resolves to the login page.
type Guards struct {
	Session     Session
	Profiles    store.ProfileStore
	Projects    ProjectLookup
	WaitTimeout time.Duration
}

func New(session Session, profiles store.ProfileStore, projects ProjectLookup) *Guards {
	return &Guards{
		Session:     session,
		Profiles:    profiles,
		Projects:    projects,
		WaitTimeout: DefaultWaitTimeout,
	}
}

var resolvedReady = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// Resolved wraps an already-known principal in a Session, for callers that
// authenticate per request instead of through a tracker. Its Ready channel
// is closed from the start, so only context cancellation can deny the wait.
func Resolved(u *models.User) Session { return resolvedSession{u} }

type resolvedSession struct{ u *models.User }

func (s resolvedSession) Current() *models.User  { return s.u }
func (s resolvedSession) Ready() <-chan struct{} { return resolvedReady }

// await blocks until the session state is known, the context ends, or the
// wait times out. ok is false only on timeout/cancellation.
func (g *Guards) await(ctx context.Context) (*models.User, bool) {
	if ctx.Err() != nil {
		return nil, false
	}
	timeout := g.WaitTimeout
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-g.Session.Ready():
		return g.Session.Current(), true
	case <-ctx.Done():
		return nil, false
	case <-timer.C:
		log.Println("guards: session not ready within", timeout)
		return nil, false
	}
}

func (g *Guards) Auth(ctx context.Context) Decision {
	p, ok := g.await(ctx)
	if !ok {
		return RedirectTo(PathLogin)
	}
	return Auth(p)
}

func (g *Guards) Guest(ctx context.Context) Decision {
	p, ok := g.await(ctx)
	if !ok {
		return RedirectTo(PathLogin)
	}
	return Guest(p)
}

func (g *Guards) Role(ctx context.Context, allowed ...models.Role) Decision {
	p, ok := g.await(ctx)
	if !ok {
		return RedirectTo(PathLogin)
	}
	return Role(p, allowed...)
}

func (g *Guards) Admin(ctx context.Context) Decision {
	p, ok := g.await(ctx)
	if !ok {
		return RedirectTo(PathLogin)
	}
	return Admin(p)
}

func (g *Guards) ProfileSetup(ctx context.Context) Decision {
	p, ok := g.await(ctx)
	if !ok {
		return RedirectTo(PathLogin)
	}
	return ProfileSetup(ctx, p, g.Profiles)
}

func (g *Guards) ProjectOwner(ctx context.Context, rawID string) Decision {
	p, ok := g.await(ctx)
	if !ok {
		return RedirectTo(PathLogin)
	}
	return ProjectOwner(ctx, p, g.Projects, rawID)
}
