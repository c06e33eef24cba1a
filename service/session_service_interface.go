package service

import (
	"context"

	"meme-generator/models"
)

// DragCompleteHandler receives the resting position of a finished caption drag.
// Any drag gesture implementation that reports through it is interchangeable.
type DragCompleteHandler interface {
	OnDragComplete(ctx context.Context, sessionID string, finalOffset models.Offset) (models.SessionSnapshot, error)
}

// SessionServiceInterface defines the contract for editor session operations
type SessionServiceInterface interface {
	DragCompleteHandler
	Start(ctx context.Context) (models.SessionSnapshot, error)
	Get(ctx context.Context, sessionID string) (models.SessionState, error)
	Snapshot(ctx context.Context, sessionID string) (models.SessionSnapshot, error)
	LoadMore(ctx context.Context, sessionID string) (models.SessionSnapshot, error)
	Select(ctx context.Context, sessionID string, templateID string) (models.SessionSnapshot, error)
	SetText(ctx context.Context, sessionID string, text string) (models.SessionSnapshot, error)
}
