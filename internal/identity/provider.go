package identity

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/fairyhunter13/cryzo-storefront/internal/model"
)

var (
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrTooManyAttempts    = errors.New("too many attempts")
	ErrNotSignedIn        = errors.New("not signed in")
)

// Credentials is the result of a successful sign-up or sign-in.
type Credentials struct {
	User         model.User
	IDToken      string
	RefreshToken string
	ExpiresIn    time.Duration
}

// Provider authenticates users with email and password.
type Provider interface {
	SignUp(ctx context.Context, email, password string) (Credentials, error)
	SignIn(ctx context.Context, email, password string) (Credentials, error)
	SignOut(ctx context.Context, idToken string) error
}

// Message returns the user-facing text for an authentication error.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmailInUse):
		return "This email is already registered. Try logging in."
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid email or password."
	case errors.Is(err, ErrUserNotFound):
		return "No account found with this email."
	case errors.Is(err, ErrTooManyAttempts):
		return "Too many attempts. Please try again later."
	default:
		return "Something went wrong."
	}
}
