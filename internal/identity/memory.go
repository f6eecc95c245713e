package identity

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/fairyhunter13/cryzo-storefront/internal/model"
)

type account struct {
	user model.User
	hash []byte
}

// MemoryProvider keeps accounts in process memory. It backs local development
// when no identity API key is configured.
type MemoryProvider struct {
	mu       sync.RWMutex
	accounts map[string]account
	cost     int
}

// NewMemoryProvider returns an empty provider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{accounts: make(map[string]account), cost: bcrypt.MinCost}
}

func (m *MemoryProvider) SignUp(_ context.Context, email, password string) (Credentials, error) {
	key := strings.ToLower(email)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), m.cost)
	if err != nil {
		return Credentials{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.accounts[key]; exists {
		return Credentials{}, ErrEmailInUse
	}
	u := model.User{ID: uuid.NewString(), Email: email}
	m.accounts[key] = account{user: u, hash: hash}
	return issue(u), nil
}

func (m *MemoryProvider) SignIn(_ context.Context, email, password string) (Credentials, error) {
	m.mu.RLock()
	acc, ok := m.accounts[strings.ToLower(email)]
	m.mu.RUnlock()
	if !ok {
		return Credentials{}, ErrUserNotFound
	}
	if bcrypt.CompareHashAndPassword(acc.hash, []byte(password)) != nil {
		return Credentials{}, ErrInvalidCredentials
	}
	return issue(acc.user), nil
}

func (m *MemoryProvider) SignOut(context.Context, string) error {
	return nil
}

func issue(u model.User) Credentials {
	return Credentials{User: u, IDToken: uuid.NewString(), RefreshToken: uuid.NewString(), ExpiresIn: time.Hour}
}
