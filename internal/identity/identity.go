// Package identity is the boundary to the authentication provider. Provider
// errors never leave this package in their raw shape: everything is mapped
// to a closed set of kinds with stable user-facing messages and codes.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/workhive-id/workhive_be/internal/models"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidCredentials
	KindEmailInUse
	KindWeakPassword
	KindAccountDisabled
	KindRateLimited
)

// Error carries the classified kind plus the underlying cause for logs.
type Error struct {
	Kind  Kind
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("identity: %s: %v", e.Code(), e.cause)
	}
	return "identity: " + e.Code()
}

func (e *Error) Unwrap() error { return e.cause }

// Message is the user-facing text rendered by the frontend.
func (e *Error) Message() string {
	switch e.Kind {
	case KindInvalidCredentials:
		return "Invalid email or password"
	case KindEmailInUse:
		return "An account with this email already exists"
	case KindWeakPassword:
		return "Password must be at least 6 characters"
	case KindAccountDisabled:
		return "This account has been disabled"
	case KindRateLimited:
		return "Too many attempts, please try again later"
	}
	return "Something went wrong, please try again"
}

func (e *Error) Code() string {
	switch e.Kind {
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindEmailInUse:
		return "email_in_use"
	case KindWeakPassword:
		return "weak_password"
	case KindAccountDisabled:
		return "account_disabled"
	case KindRateLimited:
		return "rate_limited"
	}
	return "unknown"
}

func newError(kind Kind, cause error) *Error {
	return &Error{Kind: kind, cause: cause}
}

// Classify extracts the identity error, treating anything else as unknown.
func Classify(err error) *Error {
	var ie *Error
	if errors.As(err, &ie) {
		return ie
	}
	return newError(KindUnknown, err)
}

type SignUpInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
}

// Provider is the session source. Subscribe delivers the signed-in user (or
// nil on sign-out) to listeners; the session tracker holds the only
// long-lived subscription.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*models.User, error)
	SignUp(ctx context.Context, in SignUpInput) (*models.User, error)
	SignOut(ctx context.Context) error
	SendPasswordReset(ctx context.Context, email string) error
	Subscribe(fn func(*models.User)) (unsubscribe func())
}
