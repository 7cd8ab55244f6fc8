package domain

import "errors"

var (
	// ErrInvalidColor indicates a colour string that is not valid hsl() notation
	ErrInvalidColor = errors.New("invalid hsl color")

	// ErrInvalidPresence indicates a presence entry that cannot be shown
	ErrInvalidPresence = errors.New("invalid presence")

	// ErrSurfaceNotFound indicates no editing session is open for the surface id
	ErrSurfaceNotFound = errors.New("surface not found")

	// ErrSurfaceExists indicates an editing session is already open for the surface id
	ErrSurfaceExists = errors.New("surface already open")

	// ErrDraftNotFound indicates no draft has been saved for the surface yet
	ErrDraftNotFound = errors.New("draft not found")
)
