package repository

import (
	"context"
	"errors"

	"meme-generator/models"
)

// ErrSessionNotFound is returned when a session does not exist or has expired
var ErrSessionNotFound = errors.New("session not found")

// SessionRepositoryInterface defines the contract for session state storage
type SessionRepositoryInterface interface {
	Get(ctx context.Context, id string) (models.SessionState, error)
	Save(ctx context.Context, state models.SessionState) error
	Delete(ctx context.Context, id string) error
}
