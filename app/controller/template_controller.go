package controller

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"meme-generator/models"
	"meme-generator/service"
)

// TemplateController serves carousel thumbnails of catalog templates
type TemplateController struct {
	sessions service.SessionServiceInterface
	images   *service.ImageFetcher
}

// NewTemplateController creates a new TemplateController
func NewTemplateController(sessions service.SessionServiceInterface, images *service.ImageFetcher) *TemplateController {
	return &TemplateController{
		sessions: sessions,
		images:   images,
	}
}

// Thumbnail handles GET /templates/:id/thumb?session=SESSION_ID
// A template image that cannot be loaded only fails its own thumbnail
func (c *TemplateController) Thumbnail(w http.ResponseWriter, r *http.Request, templateID string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter is required", http.StatusBadRequest)
		return
	}

	st, err := c.sessions.Get(r.Context(), sessionID)
	if err != nil {
		writeSessionError(w, "Thumbnail", err)
		return
	}

	var tpl *models.Template
	for i := range st.Catalog.All {
		if st.Catalog.All[i].ID == templateID {
			tpl = &st.Catalog.All[i]
			break
		}
	}
	if tpl == nil {
		http.Error(w, "Template not found", http.StatusNotFound)
		return
	}

	img, err := c.images.Fetch(r.Context(), tpl.URL)
	if err != nil {
		var loadErr *service.ImageLoadError
		if errors.As(err, &loadErr) {
			log.Printf("⚠️  Thumbnail: template %s: %v", templateID, err)
			http.Error(w, "Template image unavailable", http.StatusBadGateway)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to load image: %v", err), http.StatusInternalServerError)
		return
	}

	data, err := service.Thumbnail(img)
	if err != nil {
		log.Printf("❌ Thumbnail: %v", err)
		http.Error(w, fmt.Sprintf("Failed to build thumbnail: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("❌ Thumbnail: Error writing response: %v", err)
	}
}
