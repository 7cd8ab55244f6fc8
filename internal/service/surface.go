package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"blogauto/internal/clock"
	"blogauto/internal/domain"
	"blogauto/internal/logging"
	"blogauto/internal/presence"
	"blogauto/internal/render"
	"blogauto/internal/repository"
	"blogauto/internal/surface"
)

const draftSaveTimeout = 5 * time.Second

// session is one open editing surface and its simulator
type session struct {
	surface   *surface.TextSurface
	simulator *presence.Simulator
}

// SurfaceService manages editing sessions
type SurfaceService struct {
	repo      repository.DraftRepository
	eventBus  *EventBus
	document  *render.Document
	renderers []render.Renderer
	clock     clock.Clock
	newRandom func() presence.RandomSource
	logger    *slog.Logger

	mu       sync.RWMutex
	cfg      presence.Config
	sessions map[string]*session
	opening  map[string]struct{}
}

// SurfaceOption customises a SurfaceService
type SurfaceOption func(*SurfaceService)

// WithServiceClock sets the clock handed to every simulator
func WithServiceClock(c clock.Clock) SurfaceOption {
	return func(s *SurfaceService) { s.clock = c }
}

// WithRandomFactory sets how each simulator gets its random source
func WithRandomFactory(fn func() presence.RandomSource) SurfaceOption {
	return func(s *SurfaceService) { s.newRandom = fn }
}

// WithExtraRenderer adds a renderer next to the document and event renderers
func WithExtraRenderer(r render.Renderer) SurfaceOption {
	return func(s *SurfaceService) { s.renderers = append(s.renderers, r) }
}

// WithServiceLogger sets the logger
func WithServiceLogger(l *slog.Logger) SurfaceOption {
	return func(s *SurfaceService) { s.logger = l }
}

// NewSurfaceService creates a new surface service
func NewSurfaceService(repo repository.DraftRepository, eventBus *EventBus, cfg presence.Config, opts ...SurfaceOption) *SurfaceService {
	s := &SurfaceService{
		repo:      repo,
		eventBus:  eventBus,
		document:  render.NewDocument(),
		clock:     clock.New(),
		newRandom: presence.NewRandom,
		cfg:       cfg,
		sessions:  make(map[string]*session),
		opening:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrDiscard(s.logger)
	return s
}

// Document returns the display tree all sessions draw into
func (s *SurfaceService) Document() *render.Document {
	return s.document
}

// PresenceConfig returns the configuration used for new sessions
func (s *SurfaceService) PresenceConfig() presence.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// SetPresenceConfig replaces the configuration used for sessions opened afterwards.
// Running sessions keep their settings.
func (s *SurfaceService) SetPresenceConfig(cfg presence.Config) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()

	s.logger.Info("presence config updated", "sync_interval", cfg.SyncInterval, "spawn_probability", cfg.SpawnProbability)
	s.eventBus.Publish(Event{Type: EventConfigReloaded})
}

// Open starts a session for id, generating one when id is empty, and returns
// the session id. A saved draft for id is restored into the surface before the
// simulator attaches. displayName overrides the configured author name.
func (s *SurfaceService) Open(ctx context.Context, id, displayName string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		id = uuid.NewString()
	}

	cfg, err := s.reserve(id)
	if err != nil {
		return "", err
	}
	defer s.release(id)

	surf := surface.New(id, s.logger)
	draft, err := s.repo.GetDraft(ctx, id)
	switch {
	case err == nil:
		surf.Input(draft.Content, draft.CursorOffset)
	case errors.Is(err, domain.ErrDraftNotFound):
	default:
		return "", fmt.Errorf("failed to restore draft: %w", err)
	}

	if displayName = strings.TrimSpace(displayName); displayName != "" {
		cfg.DisplayName = displayName
	}

	renderers := append(render.Tee{s.document, render.NewEvents(s.eventBus.RenderPublisher())}, s.renderers...)
	sim := presence.Attach(surf, cfg,
		presence.WithClock(s.clock),
		presence.WithRandom(s.newRandom()),
		presence.WithRenderer(renderers),
		presence.WithLogger(s.logger.With("surface", id)),
		presence.WithHooks(presence.Hooks{
			ContentUpdate: func(u presence.ContentUpdate) { s.onContentUpdate(surf, u) },
			CursorUpdate:  s.onCursorUpdate,
		}),
	)

	s.mu.Lock()
	s.sessions[id] = &session{surface: surf, simulator: sim}
	s.mu.Unlock()

	s.logger.Info("surface opened", "surface", id, "display_name", cfg.DisplayName)
	s.eventBus.Publish(Event{
		Type:      EventSurfaceOpened,
		SurfaceID: id,
		Payload:   map[string]string{"display_name": cfg.DisplayName},
	})

	return id, nil
}

// reserve claims id for a session being opened and returns the configuration
// to open it with. The draft is read and the simulator attached outside the lock.
func (s *SurfaceService) reserve(id string) (presence.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, open := s.sessions[id]
	_, opening := s.opening[id]
	if open || opening {
		return presence.Config{}, fmt.Errorf("surface %s: %w", id, domain.ErrSurfaceExists)
	}
	s.opening[id] = struct{}{}
	return s.cfg, nil
}

func (s *SurfaceService) release(id string) {
	s.mu.Lock()
	delete(s.opening, id)
	s.mu.Unlock()
}

// onContentUpdate persists the draft and announces the edit. A failed save is
// logged; it never reaches the simulator.
func (s *SurfaceService) onContentUpdate(surf *surface.TextSurface, u presence.ContentUpdate) {
	ctx, cancel := context.WithTimeout(context.Background(), draftSaveTimeout)
	defer cancel()

	content := surf.Content()
	draft := &domain.Draft{
		SurfaceID:    u.SurfaceID,
		Content:      content,
		CursorOffset: surf.CursorOffset(),
		UpdatedAt:    u.EditedAt,
	}
	if err := s.repo.SaveDraft(ctx, draft); err != nil {
		s.logger.Warn("failed to save draft", "surface", u.SurfaceID, "error", err)
	}

	s.eventBus.Publish(Event{
		Type:      EventContentUpdated,
		SurfaceID: u.SurfaceID,
		Payload: map[string]any{
			"edited_at": u.EditedAt,
			"length":    len([]rune(content)),
		},
	})
}

func (s *SurfaceService) onCursorUpdate(u presence.CursorUpdate) {
	s.eventBus.Publish(Event{
		Type:      EventCursorUpdated,
		SurfaceID: u.SurfaceID,
		Payload: map[string]any{
			"offset":   u.Offset,
			"moved_at": u.MovedAt,
		},
	})
}

func (s *SurfaceService) get(id string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("surface %s: %w", id, domain.ErrSurfaceNotFound)
	}
	return sess, nil
}

// List returns the ids of all open sessions, sorted
func (s *SurfaceService) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Input applies a content change as if the author typed it
func (s *SurfaceService) Input(ctx context.Context, id, content string, cursor int) error {
	sess, err := s.get(id)
	if err != nil {
		return err
	}
	sess.surface.Input(content, cursor)
	return nil
}

// MoveCursor applies a cursor move without a content change
func (s *SurfaceService) MoveCursor(ctx context.Context, id string, offset int) error {
	sess, err := s.get(id)
	if err != nil {
		return err
	}
	sess.surface.MoveCursor(offset)
	return nil
}

// AddPresence shows a collaborator on the surface. A zero colour is replaced
// with a random hue, as for simulated collaborators.
func (s *SurfaceService) AddPresence(id, peerID, displayName string, color domain.HSLColor) (domain.Indicator, error) {
	if err := validatePresence(peerID, color); err != nil {
		return domain.Indicator{}, err
	}

	sess, err := s.get(id)
	if err != nil {
		return domain.Indicator{}, err
	}
	if color.IsZero() {
		color = presence.RandomColor(s.newRandom())
	}
	return sess.simulator.AddPresence(peerID, displayName, color), nil
}

// ImportPresence adds every entry of a snapshot except skipID, typically the
// local author. Nothing is applied unless every entry is valid.
func (s *SurfaceService) ImportPresence(id string, entries []domain.PresenceEntry, skipID string) (int, error) {
	for i, e := range entries {
		if e.ID == skipID {
			continue
		}
		if err := validatePresence(e.ID, e.Color); err != nil {
			return 0, fmt.Errorf("entry %d: %w", i, err)
		}
	}

	sess, err := s.get(id)
	if err != nil {
		return 0, err
	}

	imported := 0
	for _, e := range entries {
		if e.ID == skipID {
			continue
		}
		color := e.Color
		if color.IsZero() {
			color = presence.RandomColor(s.newRandom())
		}
		sess.simulator.AddPresence(e.ID, e.DisplayName, color)
		imported++
	}
	return imported, nil
}

func validatePresence(peerID string, color domain.HSLColor) error {
	if strings.TrimSpace(peerID) == "" {
		return fmt.Errorf("%w: id is required", domain.ErrInvalidPresence)
	}
	return color.Validate()
}

// RemovePresence hides a collaborator. Unknown collaborators are ignored.
func (s *SurfaceService) RemovePresence(id, peerID string) error {
	sess, err := s.get(id)
	if err != nil {
		return err
	}
	sess.simulator.RemovePresence(peerID)
	return nil
}

// Snapshot returns the presence state of a surface
func (s *SurfaceService) Snapshot(id string) (domain.PresenceSnapshot, error) {
	sess, err := s.get(id)
	if err != nil {
		return domain.PresenceSnapshot{}, err
	}
	return sess.simulator.Snapshot(), nil
}

// Draft returns the last saved draft of a surface, open or not
func (s *SurfaceService) Draft(ctx context.Context, id string) (*domain.Draft, error) {
	return s.repo.GetDraft(ctx, id)
}

// Drafts returns every saved draft, most recently updated first
func (s *SurfaceService) Drafts(ctx context.Context) ([]domain.Draft, error) {
	drafts, err := s.repo.ListDrafts(ctx)
	if err != nil {
		return nil, err
	}
	if drafts == nil {
		drafts = []domain.Draft{}
	}
	return drafts, nil
}

// DeleteDraft discards the saved draft of a closed surface. The draft of an
// open surface is still being written and cannot be deleted.
func (s *SurfaceService) DeleteDraft(ctx context.Context, id string) error {
	if _, err := s.get(id); err == nil {
		return fmt.Errorf("surface %s: %w", id, domain.ErrSurfaceExists)
	}
	if _, err := s.repo.GetDraft(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteDraft(ctx, id); err != nil {
		return err
	}
	s.logger.Info("draft deleted", "surface", id)
	return nil
}

// Close tears the session down. The saved draft is kept.
func (s *SurfaceService) Close(id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("surface %s: %w", id, domain.ErrSurfaceNotFound)
	}

	sess.simulator.Teardown()
	s.logger.Info("surface closed", "surface", id)
	s.eventBus.Publish(Event{Type: EventSurfaceClosed, SurfaceID: id})
	return nil
}

// CloseAll tears down every session
func (s *SurfaceService) CloseAll() {
	for _, id := range s.List() {
		if err := s.Close(id); err != nil && !errors.Is(err, domain.ErrSurfaceNotFound) {
			s.logger.Warn("failed to close surface", "surface", id, "error", err)
		}
	}
}
