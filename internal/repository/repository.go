package repository

import (
	"context"

	"blogauto/internal/domain"
)

// DraftRepository stores the latest content of each editing surface
type DraftRepository interface {
	// SaveDraft inserts or replaces the draft of draft.SurfaceID
	SaveDraft(ctx context.Context, draft *domain.Draft) error
	// GetDraft returns domain.ErrDraftNotFound when nothing was saved
	GetDraft(ctx context.Context, surfaceID string) (*domain.Draft, error)
	ListDrafts(ctx context.Context) ([]domain.Draft, error)
	DeleteDraft(ctx context.Context, surfaceID string) error

	// Close releases resources
	Close() error
}
