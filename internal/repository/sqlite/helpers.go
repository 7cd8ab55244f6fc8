package sqlite

import (
	"time"

	"blogauto/internal/domain"
)

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanDraft(s scanner) (*domain.Draft, error) {
	var (
		draft     domain.Draft
		updatedAt int64
	)
	if err := s.Scan(&draft.SurfaceID, &draft.Content, &draft.CursorOffset, &updatedAt); err != nil {
		return nil, err
	}
	draft.UpdatedAt = millisToTime(updatedAt)
	return &draft, nil
}

// timeToMillis stores instants as Unix milliseconds
func timeToMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func millisToTime(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
