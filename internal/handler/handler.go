package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"blogauto/internal/codec"
	"blogauto/internal/domain"
	"blogauto/internal/logging"
	"blogauto/internal/service"
)

// maxBodyBytes bounds request bodies; drafts are plain text
const maxBodyBytes = 1 << 20

// SurfaceHandler handles editing session requests
type SurfaceHandler struct {
	svc    *service.SurfaceService
	logger *slog.Logger
}

// NewSurfaceHandler creates a new surface handler
func NewSurfaceHandler(svc *service.SurfaceService, logger *slog.Logger) *SurfaceHandler {
	return &SurfaceHandler{svc: svc, logger: logging.OrDiscard(logger)}
}

// Register adds the surface routes to mux
func (h *SurfaceHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/surfaces", h.ListSurfaces)
	mux.HandleFunc("POST /api/surfaces", h.OpenSurface)
	mux.HandleFunc("DELETE /api/surfaces/{id}", h.CloseSurface)
	mux.HandleFunc("POST /api/surfaces/{id}/input", h.Input)
	mux.HandleFunc("POST /api/surfaces/{id}/cursor", h.MoveCursor)
	mux.HandleFunc("GET /api/surfaces/{id}/presence", h.GetPresence)
	mux.HandleFunc("POST /api/surfaces/{id}/presence", h.AddPresence)
	mux.HandleFunc("PUT /api/surfaces/{id}/presence", h.ImportPresence)
	mux.HandleFunc("DELETE /api/surfaces/{id}/presence/{peer}", h.RemovePresence)
	mux.HandleFunc("GET /api/surfaces/{id}/draft", h.GetDraft)
	mux.HandleFunc("DELETE /api/surfaces/{id}/draft", h.DeleteDraft)
	mux.HandleFunc("GET /api/drafts", h.ListDrafts)
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// OpenRequest opens an editing session
type OpenRequest struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// InputRequest carries the new content of a surface
type InputRequest struct {
	Content string `json:"content"`
	Cursor  int    `json:"cursor"`
}

// CursorRequest carries a cursor move
type CursorRequest struct {
	Cursor int `json:"cursor"`
}

// PresenceRequest adds a collaborator. An omitted colour picks a random hue.
type PresenceRequest struct {
	ID          string          `json:"id"`
	DisplayName string          `json:"display_name"`
	Color       domain.HSLColor `json:"color"`
}

// ListSurfaces returns the ids of open sessions
func (h *SurfaceHandler) ListSurfaces(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string][]string{"surfaces": h.svc.List()}, http.StatusOK)
}

// OpenSurface starts a session and returns its initial presence snapshot
func (h *SurfaceHandler) OpenSurface(w http.ResponseWriter, r *http.Request) {
	var req OpenRequest
	if r.ContentLength != 0 {
		if !h.decode(w, r, &req) {
			return
		}
	}

	id, err := h.svc.Open(r.Context(), req.ID, req.DisplayName)
	if err != nil {
		h.writeServiceError(w, "Failed to open surface", err)
		return
	}

	snap, err := h.svc.Snapshot(id)
	if err != nil {
		h.writeServiceError(w, "Failed to read presence", err)
		return
	}
	h.writeJSON(w, snap, http.StatusCreated)
}

// CloseSurface tears a session down
func (h *SurfaceHandler) CloseSurface(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Close(r.PathValue("id")); err != nil {
		h.writeServiceError(w, "Failed to close surface", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Input replaces the content of a surface
func (h *SurfaceHandler) Input(w http.ResponseWriter, r *http.Request) {
	var req InputRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.svc.Input(r.Context(), r.PathValue("id"), req.Content, req.Cursor); err != nil {
		h.writeServiceError(w, "Failed to apply input", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MoveCursor moves the cursor of a surface
func (h *SurfaceHandler) MoveCursor(w http.ResponseWriter, r *http.Request) {
	var req CursorRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.svc.MoveCursor(r.Context(), r.PathValue("id"), req.Cursor); err != nil {
		h.writeServiceError(w, "Failed to move cursor", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetPresence exports the presence snapshot in the format named by ?format=
func (h *SurfaceHandler) GetPresence(w http.ResponseWriter, r *http.Request) {
	c, err := codec.ForFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.writeError(w, "Invalid format", err.Error(), http.StatusBadRequest)
		return
	}

	snap, err := h.svc.Snapshot(r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, "Failed to read presence", err)
		return
	}

	w.Header().Set("Content-Type", c.ContentType())
	if err := c.Export(&snap, w); err != nil {
		h.logger.Error("failed to export presence", "surface", snap.SurfaceID, "error", err)
	}
}

// AddPresence shows one collaborator
func (h *SurfaceHandler) AddPresence(w http.ResponseWriter, r *http.Request) {
	var req PresenceRequest
	if !h.decode(w, r, &req) {
		return
	}

	ind, err := h.svc.AddPresence(r.PathValue("id"), req.ID, req.DisplayName, req.Color)
	if err != nil {
		h.writeServiceError(w, "Failed to add presence", err)
		return
	}
	h.writeJSON(w, ind, http.StatusCreated)
}

// ImportPresence replays the entries of a JSON or YAML snapshot onto a surface.
// The local author's entry is skipped.
func (h *SurfaceHandler) ImportPresence(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" && strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		format = "yaml"
	}
	c, err := codec.ForFormat(format)
	if err != nil {
		h.writeError(w, "Invalid format", err.Error(), http.StatusBadRequest)
		return
	}

	id := r.PathValue("id")
	imported, err := c.Parse(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, "Invalid snapshot", err.Error(), http.StatusBadRequest)
		return
	}

	self := h.svc.PresenceConfig().SelfID
	if self == "" {
		self = domain.SelfID
	}
	added, err := h.svc.ImportPresence(id, imported.Entries, self)
	if err != nil {
		h.writeServiceError(w, "Failed to import presence", err)
		return
	}

	h.logger.Info("presence imported", "surface", id, "entries", added, "format", c.Format())
	snap, err := h.svc.Snapshot(id)
	if err != nil {
		h.writeServiceError(w, "Failed to read presence", err)
		return
	}
	h.writeJSON(w, snap, http.StatusOK)
}

// RemovePresence hides one collaborator
func (h *SurfaceHandler) RemovePresence(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemovePresence(r.PathValue("id"), r.PathValue("peer")); err != nil {
		h.writeServiceError(w, "Failed to remove presence", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetDraft returns the last saved draft
func (h *SurfaceHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := h.svc.Draft(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, "Failed to get draft", err)
		return
	}
	h.writeJSON(w, draft, http.StatusOK)
}

// ListDrafts returns every saved draft, most recent first
func (h *SurfaceHandler) ListDrafts(w http.ResponseWriter, r *http.Request) {
	drafts, err := h.svc.Drafts(r.Context())
	if err != nil {
		h.writeServiceError(w, "Failed to list drafts", err)
		return
	}
	h.writeJSON(w, map[string][]domain.Draft{"drafts": drafts}, http.StatusOK)
}

// DeleteDraft discards the saved draft of a closed surface
func (h *SurfaceHandler) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteDraft(r.Context(), r.PathValue("id")); err != nil {
		h.writeServiceError(w, "Failed to delete draft", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Helper methods

func (h *SurfaceHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(v); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (h *SurfaceHandler) writeJSON(w http.ResponseWriter, data any, statusCode int) {
	writeJSON(w, h.logger, data, statusCode)
}

func (h *SurfaceHandler) writeError(w http.ResponseWriter, error, details string, statusCode int) {
	writeJSON(w, h.logger, ErrorResponse{Error: error, Details: details}, statusCode)
}

// writeServiceError maps domain errors to status codes
func (h *SurfaceHandler) writeServiceError(w http.ResponseWriter, msg string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(msg, "error", err)
	}
	h.writeError(w, msg, err.Error(), status)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSurfaceNotFound), errors.Is(err, domain.ErrDraftNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSurfaceExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidColor), errors.Is(err, domain.ErrInvalidPresence):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON", "error", err)
	}
}
