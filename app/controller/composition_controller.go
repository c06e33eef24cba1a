package controller

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"meme-generator/service"
)

// CompositionController handles HTTP requests for the live scene and its export
type CompositionController struct {
	sessions    service.SessionServiceInterface
	composition *service.CompositionService
	export      *service.ExportService
}

// NewCompositionController creates a new CompositionController
func NewCompositionController(
	sessions service.SessionServiceInterface,
	composition *service.CompositionService,
	export *service.ExportService,
) *CompositionController {
	return &CompositionController{
		sessions:    sessions,
		composition: composition,
		export:      export,
	}
}

// Scene handles GET /sessions/:id/scene
// Returns the draggable HTML composition; this is also the page the Chrome rasterizer captures
func (c *CompositionController) Scene(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	st, err := c.sessions.Get(r.Context(), sessionID)
	if err != nil {
		writeSessionError(w, "Scene", err)
		return
	}

	scene, err := c.composition.BuildScene(st)
	if errors.Is(err, service.ErrNothingSelected) {
		log.Printf("⚠️  Scene: session %s has no template selected", sessionID)
		http.Error(w, "Select a template first", http.StatusConflict)
		return
	}
	if err != nil {
		writeSessionError(w, "Scene", err)
		return
	}

	// ?v= pins the page to the state an export was started from
	if v := r.URL.Query().Get("v"); v != "" {
		version, perr := strconv.ParseInt(v, 10, 64)
		if perr != nil || version != scene.Version {
			log.Printf("⚠️  Scene: session %s changed since version %s", sessionID, v)
			http.Error(w, "Scene changed since the export started", http.StatusConflict)
			return
		}
	}

	htmlContent, err := c.composition.RenderSceneHTML(scene)
	if err != nil {
		log.Printf("❌ Scene: Error rendering HTML: %v", err)
		http.Error(w, fmt.Sprintf("Failed to render scene: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(htmlContent)); err != nil {
		log.Printf("❌ Scene: Error writing HTML response: %v", err)
	}
}

// Export handles GET /sessions/:id/export
// Rasterizes the current composition and returns it as the meme.png attachment
func (c *CompositionController) Export(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	st, err := c.sessions.Get(r.Context(), sessionID)
	if err != nil {
		writeSessionError(w, "Export", err)
		return
	}

	file, err := c.export.Export(r.Context(), st)
	if err != nil {
		log.Printf("❌ Export: %v", err)
		if errors.Is(err, service.ErrNothingSelected) {
			http.Error(w, "Select a template before downloading", http.StatusConflict)
			return
		}
		if errors.Is(err, service.ErrSceneChanged) {
			http.Error(w, "The meme changed while exporting, please download again", http.StatusConflict)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to export meme: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", file.Name))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Data); err != nil {
		log.Printf("❌ Export: Error writing PNG response: %v", err)
	}
}
