// Package surface models the host text-input surface that the presence
// simulator attaches to. The browser textarea is mirrored server-side: every
// input or cursor event received over HTTP or WebSocket is applied here and
// dispatched to the registered listeners.
package surface

import (
	"log/slog"
	"sync"

	"blogauto/internal/logging"
)

// EventKind names a surface event
type EventKind string

const (
	// EventInput fires after the content changed
	EventInput EventKind = "input"
	// EventCursor fires after a click or key release that may have moved the cursor
	EventCursor EventKind = "cursor"
)

// TextSurface holds content and cursor position of one editing surface.
// It is safe for concurrent use.
type TextSurface struct {
	id     string
	logger *slog.Logger

	mu        sync.RWMutex
	content   string
	cursor    int
	seq       uint64
	listeners map[EventKind]map[uint64]func()
}

// New creates an empty surface
func New(id string, logger *slog.Logger) *TextSurface {
	return &TextSurface{
		id:        id,
		logger:    logging.OrDiscard(logger),
		listeners: make(map[EventKind]map[uint64]func()),
	}
}

// ID returns the surface id
func (s *TextSurface) ID() string {
	return s.id
}

// Content returns the current text
func (s *TextSurface) Content() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.content
}

// CursorOffset returns the current cursor offset (selection start)
func (s *TextSurface) CursorOffset() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor
}

// Listen registers fn for events of kind and returns a function that removes it
func (s *TextSurface) Listen(kind EventKind, fn func()) (unlisten func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	id := s.seq
	if s.listeners[kind] == nil {
		s.listeners[kind] = make(map[uint64]func())
	}
	s.listeners[kind][id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners[kind], id)
	}
}

// ListenerCount returns the number of listeners registered for kind
func (s *TextSurface) ListenerCount(kind EventKind) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listeners[kind])
}

// Input replaces the content, moves the cursor and dispatches an input event
// followed by a cursor event, mirroring the browser's input + keyup sequence.
func (s *TextSurface) Input(content string, cursor int) {
	s.mu.Lock()
	s.content = content
	s.cursor = clampOffset(cursor, len([]rune(content)))
	s.mu.Unlock()

	s.dispatch(EventInput)
	s.dispatch(EventCursor)
}

// MoveCursor moves the cursor without changing content and dispatches a cursor event
func (s *TextSurface) MoveCursor(offset int) {
	s.mu.Lock()
	s.cursor = clampOffset(offset, len([]rune(s.content)))
	s.mu.Unlock()

	s.dispatch(EventCursor)
}

// dispatch runs listeners outside the lock. A panicking listener is logged and
// skipped so it never blocks editing.
func (s *TextSurface) dispatch(kind EventKind) {
	s.mu.RLock()
	fns := make([]func(), 0, len(s.listeners[kind]))
	for _, fn := range s.listeners[kind] {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		s.call(kind, fn)
	}
}

func (s *TextSurface) call(kind EventKind, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("surface listener panicked", "surface", s.id, "event", kind, "panic", r)
		}
	}()
	fn()
}

func clampOffset(offset, length int) int {
	if offset < 0 {
		return 0
	}
	if offset > length {
		return length
	}
	return offset
}
