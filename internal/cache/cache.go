package cache

import (
	"context"
	"errors"

	"github.com/Jiommy31313/jimmyyy/internal/domain"
)

type DashboardCache interface {
	Get(ctx context.Context) (*domain.DashboardSnapshot, error)
	Set(ctx context.Context, snapshot *domain.DashboardSnapshot) error
	Delete(ctx context.Context) error
}

type SessionStore interface {
	Get(ctx context.Context, token string) (*domain.Session, error)
	Set(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, token string) error
}

var (
	ErrCacheMiss       = errors.New("cache miss")
	ErrSessionNotFound = errors.New("session not found")
)
