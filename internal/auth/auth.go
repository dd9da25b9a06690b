package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Jiommy31313/jimmyyy/internal/cache"
	"github.com/Jiommy31313/jimmyyy/internal/domain"
)

var ErrInvalidCredentials = errors.New("email or password incorrect")

type Service struct {
	users    []User
	sessions cache.SessionStore
}

func NewService(users []User, sessions cache.SessionStore) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
	}
}

// Login checks the credentials against the users file and creates a session.
// The comparison is constant-time so a timing probe cannot tell a wrong
// password from a wrong email.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	var matched *User
	for i := range s.users {
		emailOK := subtle.ConstantTimeCompare([]byte(s.users[i].Email), []byte(email)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(s.users[i].Password), []byte(password)) == 1
		if emailOK && passOK {
			matched = &s.users[i]
		}
	}
	if matched == nil {
		return nil, ErrInvalidCredentials
	}

	session := &domain.Session{
		Token:     uuid.New().String(),
		Email:     matched.Email,
		Role:      matched.Role,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	return session, nil
}

// Authenticate resolves a bearer token to its session.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	return s.sessions.Get(ctx, token)
}

func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}
