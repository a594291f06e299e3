package identity

import (
	"context"
	"errors"
	"time"

	"github.com/dkraev/lingobook/internal/domain"
	"github.com/dkraev/lingobook/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IdentityUseCase interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	Logout(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
}

type SessionStore interface {
	SaveSession(ctx context.Context, token string, user *domain.User) error
	GetSession(ctx context.Context, token string) (*domain.User, error)
	DeleteSession(ctx context.Context, token string) error
}

type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

type IdentityService struct {
	users    repository.UserRepository
	sessions SessionStore
	now      func() time.Time
}

type IdentityServiceOption func(*IdentityService)

func WithClock(now func() time.Time) IdentityServiceOption {
	return func(s *IdentityService) {
		s.now = now
	}
}

func NewIdentityService(users repository.UserRepository, sessions SessionStore, opts ...IdentityServiceOption) *IdentityService {
	service := &IdentityService{
		users:    users,
		sessions: sessions,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Register creates a new user and opens a session for it. The returned string
// is the session token.
func (s *IdentityService) Register(ctx context.Context, input RegisterInput) (*domain.User, string, error) {
	if input.Email == "" {
		return nil, "", errors.New("email is required")
	}
	if input.Password == "" {
		return nil, "", errors.New("password is required")
	}

	role := domain.Role(input.Role)
	if input.Role == "" {
		role = domain.RoleClient
	}
	if !role.Valid() {
		return nil, "", errors.New("invalid role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		PasswordHash: string(hash),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         role,
		// New accounts are verified immediately. A real deployment would keep
		// this false until an out-of-band verification step.
		Verified:  true,
		CreatedAt: s.now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.openSession(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *IdentityService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownUser) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !user.Verified {
		return nil, "", domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.openSession(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Logout drops the session. Unknown tokens are not an error.
func (s *IdentityService) Logout(ctx context.Context, token string) error {
	return s.sessions.DeleteSession(ctx, token)
}

func (s *IdentityService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	return s.sessions.GetSession(ctx, token)
}

func (s *IdentityService) openSession(ctx context.Context, user *domain.User) (string, error) {
	token := uuid.NewString()
	if err := s.sessions.SaveSession(ctx, token, user); err != nil {
		return "", err
	}
	return token, nil
}

var _ IdentityUseCase = (*IdentityService)(nil)
