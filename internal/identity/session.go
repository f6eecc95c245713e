package identity

import (
	"context"
	"sync"

	"github.com/fairyhunter13/cryzo-storefront/internal/model"
)

// Listener receives the current user, or nil after sign-out.
type Listener func(u *model.User)

// Session holds the signed-in user of one storefront session and notifies
// listeners on every change.
type Session struct {
	mu        sync.Mutex
	user      *model.User
	token     string
	listeners map[int]Listener
	nextID    int
}

// NewSession returns a signed-out session.
func NewSession() *Session {
	return &Session{listeners: make(map[int]Listener)}
}

// User returns a copy of the current user, or nil.
func (s *Session) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyUser(s.user)
}

// Token returns the current ID token.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// OnAuthStateChanged registers fn and immediately calls it with the current
// user. The returned func unregisters it.
func (s *Session) OnAuthStateChanged(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	current := copyUser(s.user)
	s.mu.Unlock()

	fn(current)
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Session) set(u *model.User, token string) {
	s.mu.Lock()
	s.user = copyUser(u)
	s.token = token
	fns := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(copyUser(u))
	}
}

func copyUser(u *model.User) *model.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// Auth binds a Provider to per-session auth state.
type Auth struct {
	provider Provider
	observe  func(sessionID string, u *model.User)

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewAuth returns an Auth backed by p. observe, when non-nil, is subscribed to
// every session as it is created.
func NewAuth(p Provider, observe func(sessionID string, u *model.User)) *Auth {
	return &Auth{provider: p, observe: observe, sessions: make(map[string]*Session)}
}

// Session returns the auth state for sessionID, creating it on first use.
func (a *Auth) Session(sessionID string) *Session {
	a.mu.Lock()
	s, ok := a.sessions[sessionID]
	if !ok {
		s = NewSession()
		a.sessions[sessionID] = s
	}
	a.mu.Unlock()
	if !ok && a.observe != nil {
		s.OnAuthStateChanged(func(u *model.User) { a.observe(sessionID, u) })
	}
	return s
}

// SignUp validates the form, creates the account and signs the session in.
// Validation failures are returned as FieldErrors.
func (a *Auth) SignUp(ctx context.Context, sessionID, email, password string) (model.User, error) {
	if fe := ValidateSignup(email, password); !fe.OK() {
		return model.User{}, fe
	}
	creds, err := a.provider.SignUp(ctx, email, password)
	if err != nil {
		return model.User{}, err
	}
	a.Session(sessionID).set(&creds.User, creds.IDToken)
	return creds.User, nil
}

// SignIn authenticates and signs the session in. The form is validated the
// same way as sign-up.
func (a *Auth) SignIn(ctx context.Context, sessionID, email, password string) (model.User, error) {
	if fe := ValidateSignup(email, password); !fe.OK() {
		return model.User{}, fe
	}
	creds, err := a.provider.SignIn(ctx, email, password)
	if err != nil {
		return model.User{}, err
	}
	a.Session(sessionID).set(&creds.User, creds.IDToken)
	return creds.User, nil
}

// SignOut clears the session's user.
func (a *Auth) SignOut(ctx context.Context, sessionID string) error {
	s := a.Session(sessionID)
	if s.User() == nil {
		return ErrNotSignedIn
	}
	if err := a.provider.SignOut(ctx, s.Token()); err != nil {
		return err
	}
	s.set(nil, "")
	return nil
}

// Current returns the signed-in user of sessionID, or nil.
func (a *Auth) Current(sessionID string) *model.User {
	a.mu.Lock()
	s, ok := a.sessions[sessionID]
	a.mu.Unlock()
	if !ok {
		return nil
	}
	return s.User()
}

// Forget drops the auth state of sessionID without notifying listeners.
func (a *Auth) Forget(sessionID string) {
	a.mu.Lock()
	delete(a.sessions, sessionID)
	a.mu.Unlock()
}
