package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"meme-generator/models"
	"meme-generator/repository"
	"meme-generator/service"
	"meme-generator/state"
	"meme-generator/utils"
)

// SessionController handles HTTP requests that drive the editor state of a session
type SessionController struct {
	sessions service.SessionServiceInterface
}

// NewSessionController creates a new SessionController
func NewSessionController(sessions service.SessionServiceInterface) *SessionController {
	return &SessionController{
		sessions: sessions,
	}
}

// writeSessionError maps session errors to HTTP status codes
func writeSessionError(w http.ResponseWriter, op string, err error) {
	log.Printf("❌ %s: %v", op, err)
	switch {
	case errors.Is(err, repository.ErrSessionNotFound):
		http.Error(w, "Session not found", http.StatusNotFound)
	case errors.Is(err, state.ErrUnknownTemplate):
		http.Error(w, "Template not found", http.StatusNotFound)
	default:
		http.Error(w, fmt.Sprintf("%s failed: %v", op, err), http.StatusInternalServerError)
	}
}

// Create handles POST /sessions
// Starts a session; the catalog loads in the background while catalogLoading is true
func (c *SessionController) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snapshot, err := c.sessions.Start(r.Context())
	if err != nil {
		writeSessionError(w, "Create", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, snapshot)
}

// Get handles GET /sessions/:id
func (c *SessionController) Get(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snapshot, err := c.sessions.Snapshot(r.Context(), sessionID)
	if err != nil {
		writeSessionError(w, "Get", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, snapshot)
}

// LoadMore handles POST /sessions/:id/more
func (c *SessionController) LoadMore(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snapshot, err := c.sessions.LoadMore(r.Context(), sessionID)
	if err != nil {
		writeSessionError(w, "LoadMore", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, snapshot)
}

// Select handles POST /sessions/:id/select with body {"id": "..."}
func (c *SessionController) Select(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.SelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Select: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}

	snapshot, err := c.sessions.Select(r.Context(), sessionID, req.ID)
	if err != nil {
		writeSessionError(w, "Select", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, snapshot)
}

// SetText handles PUT /sessions/:id/text with body {"text": "..."}
// Any text is accepted, including the empty string
func (c *SessionController) SetText(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.CaptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ SetText: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	snapshot, err := c.sessions.SetText(r.Context(), sessionID, req.Text)
	if err != nil {
		writeSessionError(w, "SetText", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, snapshot)
}

// DragComplete handles POST /sessions/:id/drag with body {"x": 0, "y": 0}
// The body carries the caption's resting position when a drag ends
func (c *SessionController) DragComplete(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var offset models.Offset
	if err := json.NewDecoder(r.Body).Decode(&offset); err != nil {
		log.Printf("❌ DragComplete: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	snapshot, err := c.sessions.OnDragComplete(r.Context(), sessionID, offset)
	if err != nil {
		writeSessionError(w, "DragComplete", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, snapshot)
}
